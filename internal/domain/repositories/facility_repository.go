package repositories

import (
	"context"

	"github.com/poolatlas/poolatlas/backend/internal/domain/entities"
)

// FacilityStore is the capability set both persistence backends implement.
// Put replaces the whole record (upsert); there are no partial updates.
type FacilityStore interface {
	// List retrieves every stored facility record.
	List(ctx context.Context) ([]*entities.Facility, error)

	// Put inserts or replaces a facility record by id.
	Put(ctx context.Context, facility *entities.Facility) error

	// Delete removes a facility record by id.
	Delete(ctx context.Context, id string) error
}

// SnapshotStore is the append-only version history backend contract.
type SnapshotStore interface {
	// Append stores one snapshot. Implementations backed by the local
	// store enforce the global retention cap here.
	Append(ctx context.Context, snapshot *entities.VersionSnapshot) error

	// ListByFacility returns snapshots for one facility, newest first.
	ListByFacility(ctx context.Context, facilityID string) ([]*entities.VersionSnapshot, error)
}
