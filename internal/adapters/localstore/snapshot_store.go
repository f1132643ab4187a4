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

// DefaultMaxSnapshots is the global retention cap for the local store.
const DefaultMaxSnapshots = 100

// SnapshotStore implements repositories.SnapshotStore on SQLite with a
// global retention cap: the cap counts snapshots across all facilities,
// and the globally oldest entries are evicted first.
type SnapshotStore struct {
	client *sqlite.Client
	max    int
}

// NewSnapshotStore creates a new local snapshot store. A non-positive
// max falls back to DefaultMaxSnapshots.
func NewSnapshotStore(client *sqlite.Client, max int) repositories.SnapshotStore {
	if max <= 0 {
		max = DefaultMaxSnapshots
	}
	return &SnapshotStore{client: client, max: max}
}

// Append stores one snapshot, then evicts the globally oldest entries
// beyond the cap.
func (s *SnapshotStore) Append(ctx context.Context, snapshot *entities.VersionSnapshot) error {
	record, err := json.Marshal(snapshot.Record)
	if err != nil {
		return apperrors.NewHistoryWriteError("failed to encode snapshot for local store", err)
	}

	_, err = s.client.DB().ExecContext(ctx, `
		INSERT INTO facility_snapshots (id, facility_id, record, created_at)
		VALUES (?, ?, ?, ?)`,
		snapshot.ID,
		snapshot.FacilityID,
		string(record),
		snapshot.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return apperrors.NewHistoryWriteError("failed to append snapshot to local store", err)
	}

	// Keep only the newest max entries across all facilities.
	_, err = s.client.DB().ExecContext(ctx, `
		DELETE FROM facility_snapshots WHERE rowid NOT IN (
			SELECT rowid FROM facility_snapshots
			ORDER BY created_at DESC, rowid DESC
			LIMIT ?
		)`, s.max)
	if err != nil {
		return apperrors.NewHistoryWriteError("failed to trim local snapshot history", err)
	}

	return nil
}

// ListByFacility returns snapshots for one facility, newest first.
func (s *SnapshotStore) ListByFacility(ctx context.Context, facilityID string) ([]*entities.VersionSnapshot, error) {
	rows, err := s.client.DB().QueryContext(ctx, `
		SELECT id, facility_id, record, created_at
		FROM facility_snapshots
		WHERE facility_id = ?
		ORDER BY created_at DESC, rowid DESC`, facilityID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list snapshots from local store", err)
	}
	defer rows.Close()

	snapshots := []*entities.VersionSnapshot{}
	for rows.Next() {
		snapshot := &entities.VersionSnapshot{}
		var record []byte
		var createdAt string
		if err := rows.Scan(&snapshot.ID, &snapshot.FacilityID, &record, &createdAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan snapshot from local store", err)
		}
		if err := json.Unmarshal(record, &snapshot.Record); err != nil {
			return nil, apperrors.NewInternalError("failed to decode snapshot from local store", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			snapshot.CreatedAt = ts
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating local snapshots", err)
	}

	return snapshots, nil
}
