package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/poolatlas/poolatlas/backend/internal/domain/entities"
	"github.com/poolatlas/poolatlas/backend/internal/domain/repositories"
	"github.com/rs/zerolog/log"
)

// DefaultAppendTimeout bounds how long a best-effort snapshot append may
// block the save path.
const DefaultAppendTimeout = 2 * time.Second

// VersionHistory is the append-only snapshot log. History is advisory,
// not transactionally guaranteed: append failures are swallowed and
// logged so they can never prevent the main write from proceeding.
type VersionHistory struct {
	primary       repositories.SnapshotStore
	secondary     repositories.SnapshotStore
	appendTimeout time.Duration
}

// NewVersionHistory creates a history store over the given backends.
// Either may be nil. A non-positive timeout falls back to
// DefaultAppendTimeout.
func NewVersionHistory(primary, secondary repositories.SnapshotStore, appendTimeout time.Duration) *VersionHistory {
	if appendTimeout <= 0 {
		appendTimeout = DefaultAppendTimeout
	}
	return &VersionHistory{
		primary:       primary,
		secondary:     secondary,
		appendTimeout: appendTimeout,
	}
}

// Append records a deep copy of prior as a new snapshot for facilityID.
// Best effort: it waits at most the configured timeout and swallows any
// failure. The copy is taken synchronously, so the caller may overwrite
// prior immediately after Append returns.
func (h *VersionHistory) Append(ctx context.Context, facilityID string, prior *entities.Facility) {
	record := prior.Clone()
	if record == nil {
		log.Warn().Str("facility_id", facilityID).Msg("snapshot skipped: record not cloneable")
		return
	}

	snapshot := &entities.VersionSnapshot{
		ID:         uuid.New().String(),
		FacilityID: facilityID,
		Record:     *record,
		CreatedAt:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, h.appendTimeout)
	defer cancel()

	if h.primary != nil {
		err := h.primary.Append(ctx, snapshot)
		if err == nil {
			return
		}
		log.Warn().Err(err).Str("facility_id", facilityID).
			Msg("primary snapshot append failed, falling back")
	}

	if h.secondary == nil {
		log.Warn().Str("facility_id", facilityID).Msg("snapshot dropped: no history backend")
		return
	}

	if err := h.secondary.Append(ctx, snapshot); err != nil {
		log.Warn().Err(err).Str("facility_id", facilityID).Msg("snapshot append failed")
	}
}

// List returns snapshots for one facility, newest first. Reads follow
// the same primary-first fallback as the gateway and fail open to an
// empty sequence.
func (h *VersionHistory) List(ctx context.Context, facilityID string) []*entities.VersionSnapshot {
	if h.primary != nil {
		snapshots, err := h.primary.ListByFacility(ctx, facilityID)
		if err == nil {
			return snapshots
		}
		log.Warn().Err(err).Str("facility_id", facilityID).
			Msg("primary snapshot list failed, falling back")
	}

	if h.secondary == nil {
		return []*entities.VersionSnapshot{}
	}

	snapshots, err := h.secondary.ListByFacility(ctx, facilityID)
	if err != nil {
		log.Error().Err(err).Str("facility_id", facilityID).Msg("fallback snapshot list failed")
		return []*entities.VersionSnapshot{}
	}
	return snapshots
}
