package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/poolatlas/poolatlas/backend/internal/availability"
	"github.com/poolatlas/poolatlas/backend/internal/domain/entities"
	"github.com/poolatlas/poolatlas/backend/internal/domain/providers"
	"github.com/poolatlas/poolatlas/backend/internal/persistence"
	apperrors "github.com/poolatlas/poolatlas/backend/pkg/errors"
	"github.com/poolatlas/poolatlas/backend/pkg/geo"
	"github.com/rs/zerolog/log"
)

const (
	collectionCacheKey = "facilities:all"
	collectionCacheTTL = 3 * time.Minute
)

// SaveResult carries the refreshed collection after a mutation together
// with the backend that served the write, so callers can tell a
// degraded (fallback-store) save from a primary one even though both
// are successes.
type SaveResult struct {
	Facilities []*entities.Facility `json:"facilities"`
	Backend    persistence.Backend  `json:"backend"`
}

// FacilityService coordinates saves: snapshot the prior version, write
// the new one, and re-read so callers always observe their own write.
type FacilityService struct {
	gateway   *persistence.Gateway
	history   *persistence.VersionHistory
	cache     providers.CacheProvider
	evaluator availability.Evaluator
}

// NewFacilityService creates a new facility service. cache and holidays
// may be nil.
func NewFacilityService(
	gateway *persistence.Gateway,
	history *persistence.VersionHistory,
	cache providers.CacheProvider,
	holidays providers.HolidayProvider,
) *FacilityService {
	return &FacilityService{
		gateway:   gateway,
		history:   history,
		cache:     cache,
		evaluator: availability.Evaluator{Holidays: holidays},
	}
}

// Save stores a facility record and returns the refreshed collection.
// An existing record with the same id is snapshotted into the version
// history first; the snapshot is best-effort and never blocks the write.
// A record without an id is treated as a creation: it gets an id and no
// snapshot is taken.
func (s *FacilityService) Save(ctx context.Context, facility *entities.Facility) (*SaveResult, error) {
	if facility == nil {
		return nil, apperrors.NewValidationError("facility is required")
	}

	now := time.Now()
	if facility.ID == "" {
		facility.ID = uuid.New().String()
	}
	facility.UpdatedAt = now

	current, _ := s.gateway.Read(ctx)
	if prior := findByID(current, facility.ID); prior != nil {
		// Audit fields are set once at creation and survive overwrites.
		facility.CreatedAt = prior.CreatedAt
		if facility.CreatedBy == "" {
			facility.CreatedBy = prior.CreatedBy
		}
		s.history.Append(ctx, facility.ID, prior)
	} else if facility.CreatedAt.IsZero() {
		facility.CreatedAt = now
	}

	backend, err := s.gateway.Write(ctx, facility)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)

	refreshed, _ := s.gateway.Read(ctx)
	return &SaveResult{Facilities: refreshed, Backend: backend}, nil
}

// Delete removes a facility record. Its snapshots are deliberately left
// in the history store.
func (s *FacilityService) Delete(ctx context.Context, id string) (persistence.Backend, error) {
	if id == "" {
		return persistence.BackendNone, apperrors.NewValidationError("facility id is required")
	}

	backend, err := s.gateway.Delete(ctx, id)
	if err != nil {
		return backend, err
	}

	s.invalidateCache(ctx)
	return backend, nil
}

// Read retrieves the full facility collection, through the cache when
// one is configured. Cached reads may be stale; every mutation
// invalidates the cache.
func (s *FacilityService) Read(ctx context.Context) []*entities.Facility {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, collectionCacheKey); err == nil {
			var facilities []*entities.Facility
			if err := json.Unmarshal(cached, &facilities); err == nil {
				return facilities
			}
			log.Warn().Err(err).Msg("failed to decode cached facility collection")
		}
	}

	facilities, _ := s.gateway.Read(ctx)

	if s.cache != nil {
		// Update the cache off the request path.
		go func() {
			bgCtx := context.Background()
			if data, err := json.Marshal(facilities); err == nil {
				if err := s.cache.Set(bgCtx, collectionCacheKey, data, collectionCacheTTL); err != nil {
					log.Warn().Err(err).Msg("failed to cache facility collection")
				}
			}
		}()
	}

	return facilities
}

// Snapshots returns the version history for one facility, newest first.
func (s *FacilityService) Snapshots(ctx context.Context, facilityID string) []*entities.VersionSnapshot {
	return s.history.List(ctx, facilityID)
}

// Restore saves the snapshot's embedded record as the current version.
// The overwritten state is itself snapshotted, so a restore can be
// undone the same way.
func (s *FacilityService) Restore(ctx context.Context, snapshot *entities.VersionSnapshot) (*SaveResult, error) {
	if snapshot == nil {
		return nil, apperrors.NewValidationError("snapshot is required")
	}

	record := snapshot.Record.Clone()
	if record == nil {
		return nil, apperrors.NewInternalError("snapshot record not cloneable", nil)
	}
	return s.Save(ctx, record)
}

// IsOpen answers the availability predicate for one record at the
// given instant.
func (s *FacilityService) IsOpen(facility *entities.Facility, instant time.Time, stillOpenNow bool) bool {
	return s.evaluator.IsOpen(facility, instant, stillOpenNow)
}

// SearchNearby returns public facilities within the default radius of
// origin, ordered ascending by distance. With openNow set, facilities
// whose sessions have all ended for the day are filtered out.
func (s *FacilityService) SearchNearby(ctx context.Context, origin geo.Point, at time.Time, openNow bool) []*entities.Facility {
	matches := []*entities.Facility{}
	for _, f := range s.Read(ctx) {
		if !f.Public() {
			continue
		}
		point := geo.Point{Latitude: f.Location.Latitude, Longitude: f.Location.Longitude}
		if !geo.WithinRadius(origin, point, geo.DefaultSearchRadiusKm) {
			continue
		}
		if openNow && !s.evaluator.IsOpen(f, at, true) {
			continue
		}
		matches = append(matches, f)
	}

	geo.SortByDistance(origin, matches, func(f *entities.Facility) geo.Point {
		return geo.Point{Latitude: f.Location.Latitude, Longitude: f.Location.Longitude}
	})
	return matches
}

func (s *FacilityService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, collectionCacheKey); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate facility collection cache")
	}
}

func findByID(facilities []*entities.Facility, id string) *entities.Facility {
	for _, f := range facilities {
		if f.ID == id {
			return f
		}
	}
	return nil
}
