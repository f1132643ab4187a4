// Package localstore implements the fallback facility and snapshot
// stores on the local SQLite database. Records are stored as JSON
// documents so any record the remote store accepts round-trips here
// unchanged.
package localstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/poolatlas/poolatlas/backend/internal/domain/entities"
	"github.com/poolatlas/poolatlas/backend/internal/domain/repositories"
	"github.com/poolatlas/poolatlas/backend/internal/infrastructure/clients/sqlite"
	apperrors "github.com/poolatlas/poolatlas/backend/pkg/errors"
)

// FacilityStore implements repositories.FacilityStore on SQLite.
type FacilityStore struct {
	client *sqlite.Client
}

// NewFacilityStore creates a new local facility store
func NewFacilityStore(client *sqlite.Client) repositories.FacilityStore {
	return &FacilityStore{client: client}
}

// List retrieves every stored facility record in insertion order.
func (s *FacilityStore) List(ctx context.Context) ([]*entities.Facility, error) {
	rows, err := s.client.DB().QueryContext(ctx,
		`SELECT record FROM facilities ORDER BY created_at, rowid`)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list facilities from local store", err)
	}
	defer rows.Close()

	facilities := []*entities.Facility{}
	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, apperrors.NewInternalError("failed to scan facility from local store", err)
		}
		facility := &entities.Facility{}
		if err := json.Unmarshal(record, facility); err != nil {
			return nil, apperrors.NewInternalError("failed to decode facility from local store", err)
		}
		facilities = append(facilities, facility)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating local facilities", err)
	}

	return facilities, nil
}

// Put inserts or replaces a facility record by id.
func (s *FacilityStore) Put(ctx context.Context, facility *entities.Facility) error {
	record, err := json.Marshal(facility)
	if err != nil {
		return apperrors.NewInternalError("failed to encode facility for local store", err)
	}

	createdAt := facility.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.client.DB().ExecContext(ctx, `
		INSERT INTO facilities (id, record, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		facility.ID,
		string(record),
		createdAt.UTC().Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return apperrors.NewInternalError("failed to store facility in local store", err)
	}

	return nil
}

// Delete removes a facility record by id. Snapshots are left in place;
// they remain addressable until separately cleaned.
func (s *FacilityStore) Delete(ctx context.Context, id string) error {
	if _, err := s.client.DB().ExecContext(ctx,
		`DELETE FROM facilities WHERE id = ?`, id); err != nil {
		return apperrors.NewInternalError("failed to delete facility from local store", err)
	}
	return nil
}
