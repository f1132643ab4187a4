package routes

import (
	"net/http"

	"github.com/poolatlas/poolatlas/backend/internal/api/handlers"
	"github.com/poolatlas/poolatlas/backend/internal/api/middleware"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	facilityHandler *handlers.FacilityHandler
	snapshotHandler *handlers.SnapshotHandler
}

// NewRouter creates a new router
func NewRouter(
	facilityHandler *handlers.FacilityHandler,
	snapshotHandler *handlers.SnapshotHandler,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		facilityHandler: facilityHandler,
		snapshotHandler: snapshotHandler,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Facility endpoints
	r.mux.HandleFunc("GET /api/facilities", r.facilityHandler.ListFacilities)
	r.mux.HandleFunc("GET /api/facilities/search", r.facilityHandler.SearchFacilities)
	r.mux.HandleFunc("GET /api/facilities/{id}", r.facilityHandler.GetFacility)
	r.mux.HandleFunc("POST /api/facilities", r.facilityHandler.SaveFacility)
	r.mux.HandleFunc("PUT /api/facilities/{id}", r.facilityHandler.SaveFacility)
	r.mux.HandleFunc("DELETE /api/facilities/{id}", r.facilityHandler.DeleteFacility)

	// Availability endpoint
	r.mux.HandleFunc("GET /api/facilities/{id}/availability", r.facilityHandler.GetFacilityAvailability)

	// Version history endpoints
	r.mux.HandleFunc("GET /api/facilities/{id}/snapshots", r.snapshotHandler.ListSnapshots)
	r.mux.HandleFunc("POST /api/facilities/{id}/restore", r.snapshotHandler.RestoreSnapshot)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
