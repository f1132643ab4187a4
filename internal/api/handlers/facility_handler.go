package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/poolatlas/poolatlas/backend/internal/application/services"
	"github.com/poolatlas/poolatlas/backend/internal/domain/entities"
	apperrors "github.com/poolatlas/poolatlas/backend/pkg/errors"
	"github.com/poolatlas/poolatlas/backend/pkg/geo"
)

// FacilityHandler handles facility-related HTTP requests
type FacilityHandler struct {
	service *services.FacilityService
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(service *services.FacilityService) *FacilityHandler {
	return &FacilityHandler{
		service: service,
	}
}

// ListFacilities handles GET /api/facilities
func (h *FacilityHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	facilities := h.service.Read(r.Context())

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

// GetFacility handles GET /api/facilities/{id}
func (h *FacilityHandler) GetFacility(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	for _, f := range h.service.Read(r.Context()) {
		if f.ID == facilityID {
			respondWithJSON(w, http.StatusOK, f)
			return
		}
	}

	respondWithError(w, http.StatusNotFound, "facility not found")
}

// SaveFacility handles POST /api/facilities and PUT /api/facilities/{id}
func (h *FacilityHandler) SaveFacility(w http.ResponseWriter, r *http.Request) {
	var facility entities.Facility
	if err := json.NewDecoder(r.Body).Decode(&facility); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if id := r.PathValue("id"); id != "" {
		facility.ID = id
	}

	result, err := h.service.Save(r.Context(), &facility)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// DeleteFacility handles DELETE /api/facilities/{id}
func (h *FacilityHandler) DeleteFacility(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	backend, err := h.service.Delete(r.Context(), facilityID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": facilityID,
		"backend": backend,
	})
}

// SearchFacilities handles GET /api/facilities/search
func (h *FacilityHandler) SearchFacilities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "lat is required")
		return
	}
	lng, err := strconv.ParseFloat(query.Get("lng"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "lng is required")
		return
	}

	openNow := query.Get("openNow") == "true"
	at := time.Now()
	if raw := query.Get("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "at must be RFC 3339")
			return
		}
		at = parsed
	}

	origin := geo.Point{Latitude: lat, Longitude: lng}
	facilities := h.service.SearchNearby(r.Context(), origin, at, openNow)

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

// GetFacilityAvailability handles GET /api/facilities/{id}/availability
func (h *FacilityHandler) GetFacilityAvailability(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	at := time.Now()
	if raw := r.URL.Query().Get("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "at must be RFC 3339")
			return
		}
		at = parsed
	}
	stillOpenNow := r.URL.Query().Get("stillOpenNow") != "false"

	for _, f := range h.service.Read(r.Context()) {
		if f.ID == facilityID {
			respondWithJSON(w, http.StatusOK, map[string]interface{}{
				"facilityId": facilityID,
				"at":         at.Format(time.RFC3339),
				"open":       h.service.IsOpen(f, at, stillOpenNow),
			})
			return
		}
	}

	respondWithError(w, http.StatusNotFound, "facility not found")
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypePermanentWrite:
			respondWithError(w, http.StatusServiceUnavailable, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
