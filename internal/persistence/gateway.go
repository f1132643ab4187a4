// Package persistence routes reads and writes across the primary
// (remote) and secondary (local) facility stores and maintains the
// append-only version history.
package persistence

import (
	"context"

	"github.com/poolatlas/poolatlas/backend/internal/domain/entities"
	"github.com/poolatlas/poolatlas/backend/internal/domain/repositories"
	apperrors "github.com/poolatlas/poolatlas/backend/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Backend identifies which store ultimately served an operation. Exposed
// for observability: a fallback-served save still looks like success to
// the caller's data contract, but the serving backend is reported.
type Backend string

const (
	// BackendPrimary is the remote relational store.
	BackendPrimary Backend = "primary"

	// BackendFallback is the always-available local store.
	BackendFallback Backend = "fallback"

	// BackendNone means no store served the operation.
	BackendNone Backend = "none"
)

// Gateway abstracts the two interchangeable stores behind one
// read/write contract. Policy: try the primary first; on any error fall
// back silently to the secondary and log the failure. Writes that land
// on the secondary are not mirrored back, so a later read with the
// primary restored may legitimately omit them. Durability is
// best effort under degradation.
type Gateway struct {
	primary   repositories.FacilityStore
	secondary repositories.FacilityStore
}

// NewGateway creates a gateway over the given stores. Either store may
// be nil; a nil primary routes everything to the secondary, and a nil
// secondary leaves no fallback (reads then fail open to an empty
// collection).
func NewGateway(primary, secondary repositories.FacilityStore) *Gateway {
	return &Gateway{
		primary:   primary,
		secondary: secondary,
	}
}

// Read retrieves the full facility collection. It never fails: when the
// primary errors the secondary is consulted, and when that is missing or
// also errors an empty collection is returned.
func (g *Gateway) Read(ctx context.Context) ([]*entities.Facility, Backend) {
	if g.primary != nil {
		facilities, err := g.primary.List(ctx)
		if err == nil {
			return facilities, BackendPrimary
		}
		log.Warn().Err(err).Msg("primary store read failed, falling back")
	}

	if g.secondary == nil {
		return []*entities.Facility{}, BackendNone
	}

	facilities, err := g.secondary.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("fallback store read failed")
		return []*entities.Facility{}, BackendNone
	}
	return facilities, BackendFallback
}

// Write stores a facility record. The primary is attempted first; on
// failure the write mirrors into the secondary so the record is not
// lost. Only when every available store fails does the caller see an
// error.
func (g *Gateway) Write(ctx context.Context, facility *entities.Facility) (Backend, error) {
	var primaryErr error
	if g.primary != nil {
		primaryErr = g.primary.Put(ctx, facility)
		if primaryErr == nil {
			return BackendPrimary, nil
		}
		log.Warn().Err(primaryErr).Str("facility_id", facility.ID).
			Msg("primary store write failed, falling back")
	}

	if g.secondary == nil {
		return BackendNone, apperrors.NewPermanentWriteError("no store accepted the write", primaryErr)
	}

	if err := g.secondary.Put(ctx, facility); err != nil {
		log.Error().Err(err).Str("facility_id", facility.ID).Msg("fallback store write failed")
		return BackendNone, apperrors.NewPermanentWriteError("all stores failed the write", err)
	}
	return BackendFallback, nil
}

// Delete removes a facility record, with the same primary-first fallback
// policy as Write.
func (g *Gateway) Delete(ctx context.Context, id string) (Backend, error) {
	var primaryErr error
	if g.primary != nil {
		primaryErr = g.primary.Delete(ctx, id)
		if primaryErr == nil {
			return BackendPrimary, nil
		}
		log.Warn().Err(primaryErr).Str("facility_id", id).
			Msg("primary store delete failed, falling back")
	}

	if g.secondary == nil {
		return BackendNone, apperrors.NewPermanentWriteError("no store accepted the delete", primaryErr)
	}

	if err := g.secondary.Delete(ctx, id); err != nil {
		log.Error().Err(err).Str("facility_id", id).Msg("fallback store delete failed")
		return BackendNone, apperrors.NewPermanentWriteError("all stores failed the delete", err)
	}
	return BackendFallback, nil
}
