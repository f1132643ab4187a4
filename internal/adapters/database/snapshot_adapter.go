package database

import (
	"context"
	"encoding/json"

	"github.com/doug-martin/goqu/v9"
	"github.com/poolatlas/poolatlas/backend/internal/domain/entities"
	"github.com/poolatlas/poolatlas/backend/internal/domain/repositories"
	"github.com/poolatlas/poolatlas/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/poolatlas/poolatlas/backend/pkg/errors"
)

// SnapshotAdapter implements the SnapshotStore interface on PostgreSQL.
// No retention cap is enforced here; server-side history is left to
// external retention policy.
type SnapshotAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSnapshotAdapter creates a new snapshot adapter
func NewSnapshotAdapter(client *postgres.Client) repositories.SnapshotStore {
	return &SnapshotAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Append stores one snapshot.
func (a *SnapshotAdapter) Append(ctx context.Context, snapshot *entities.VersionSnapshot) error {
	record, err := json.Marshal(snapshot.Record)
	if err != nil {
		return apperrors.NewHistoryWriteError("failed to encode snapshot record", err)
	}

	query, args, err := a.db.Insert("facility_snapshots").
		Rows(goqu.Record{
			"id":          snapshot.ID,
			"facility_id": snapshot.FacilityID,
			"record":      record,
			"created_at":  snapshot.CreatedAt,
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewHistoryWriteError("failed to build snapshot insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewHistoryWriteError("failed to append snapshot", err)
	}

	return nil
}

// ListByFacility returns snapshots for one facility, newest first.
func (a *SnapshotAdapter) ListByFacility(ctx context.Context, facilityID string) ([]*entities.VersionSnapshot, error) {
	query, args, err := a.db.From("facility_snapshots").
		Select("id", "facility_id", "record", "created_at").
		Where(goqu.C("facility_id").Eq(facilityID)).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build snapshot list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list snapshots", err)
	}
	defer rows.Close()

	snapshots := []*entities.VersionSnapshot{}
	for rows.Next() {
		snapshot := &entities.VersionSnapshot{}
		var record []byte
		if err := rows.Scan(&snapshot.ID, &snapshot.FacilityID, &record, &snapshot.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan snapshot", err)
		}
		if err := json.Unmarshal(record, &snapshot.Record); err != nil {
			return nil, apperrors.NewInternalError("failed to decode snapshot record", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating snapshots", err)
	}

	return snapshots, nil
}
