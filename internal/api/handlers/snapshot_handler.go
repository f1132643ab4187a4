package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/poolatlas/poolatlas/backend/internal/application/services"
)

// SnapshotHandler handles version history HTTP requests
type SnapshotHandler struct {
	service *services.FacilityService
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(service *services.FacilityService) *SnapshotHandler {
	return &SnapshotHandler{
		service: service,
	}
}

// ListSnapshots handles GET /api/facilities/{id}/snapshots
func (h *SnapshotHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	snapshots := h.service.Snapshots(r.Context(), facilityID)

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

// RestoreSnapshot handles POST /api/facilities/{id}/restore
func (h *SnapshotHandler) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	var body struct {
		SnapshotID string `json:"snapshotId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.SnapshotID == "" {
		respondWithError(w, http.StatusBadRequest, "snapshotId is required")
		return
	}

	for _, snap := range h.service.Snapshots(r.Context(), facilityID) {
		if snap.ID == body.SnapshotID {
			result, err := h.service.Restore(r.Context(), snap)
			if err != nil {
				respondWithAppError(w, err)
				return
			}
			respondWithJSON(w, http.StatusOK, result)
			return
		}
	}

	respondWithError(w, http.StatusNotFound, "snapshot not found")
}
