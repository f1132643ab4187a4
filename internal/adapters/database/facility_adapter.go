package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/poolatlas/poolatlas/backend/internal/domain/entities"
	"github.com/poolatlas/poolatlas/backend/internal/domain/repositories"
	"github.com/poolatlas/poolatlas/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/poolatlas/poolatlas/backend/pkg/errors"
)

// FacilityAdapter implements the FacilityStore interface on PostgreSQL.
// Schedule rules, closure data, fee rules and reviews are stored as
// JSONB documents because records are always written and read whole.
type FacilityAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFacilityAdapter creates a new facility adapter
func NewFacilityAdapter(client *postgres.Client) repositories.FacilityStore {
	return &FacilityAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// List retrieves every stored facility record.
func (a *FacilityAdapter) List(ctx context.Context) ([]*entities.Facility, error) {
	query, args, err := a.db.From("facilities").
		Select("id", "name", "address", "region", "phone_number", "image_url",
			"latitude", "longitude", "fee_rules", "schedule_rules", "closed_days",
			"reviews", "is_public", "created_by", "updated_by", "created_at", "updated_at").
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build facility list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list facilities", err)
	}
	defer rows.Close()

	facilities := []*entities.Facility{}
	for rows.Next() {
		facility := &entities.Facility{}
		var feeRules, scheduleRules, closedDays, reviews []byte
		err := rows.Scan(
			&facility.ID,
			&facility.Name,
			&facility.Address,
			&facility.Region,
			&facility.PhoneNumber,
			&facility.ImageURL,
			&facility.Location.Latitude,
			&facility.Location.Longitude,
			&feeRules,
			&scheduleRules,
			&closedDays,
			&reviews,
			&facility.IsPublic,
			&facility.CreatedBy,
			&facility.UpdatedBy,
			&facility.CreatedAt,
			&facility.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan facility", err)
		}
		if err := unmarshalDocs(facility, feeRules, scheduleRules, closedDays, reviews); err != nil {
			return nil, apperrors.NewInternalError("failed to decode facility documents", err)
		}
		facilities = append(facilities, facility)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating facilities", err)
	}

	return facilities, nil
}

// Put inserts or replaces a facility record by id.
func (a *FacilityAdapter) Put(ctx context.Context, facility *entities.Facility) error {
	record, err := facilityRecord(facility)
	if err != nil {
		return apperrors.NewInternalError("failed to encode facility documents", err)
	}

	update := goqu.Record{}
	for k, v := range record {
		if k != "id" && k != "created_at" && k != "created_by" {
			update[k] = v
		}
	}

	query, args, err := a.db.Insert("facilities").
		Rows(record).
		OnConflict(goqu.DoUpdate("id", update)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build facility upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to store facility", err)
	}

	return nil
}

// Delete removes a facility record by id. Deleting an absent id is not
// an error; the write path treats delete as idempotent.
func (a *FacilityAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("facilities").
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build facility delete query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete facility", err)
	}

	return nil
}

func facilityRecord(facility *entities.Facility) (goqu.Record, error) {
	feeRules, err := json.Marshal(facility.FeeRules)
	if err != nil {
		return nil, err
	}
	scheduleRules, err := json.Marshal(facility.ScheduleRules)
	if err != nil {
		return nil, err
	}
	closedDays, err := json.Marshal(facility.ClosedDays)
	if err != nil {
		return nil, err
	}
	reviews, err := json.Marshal(facility.Reviews)
	if err != nil {
		return nil, err
	}

	createdAt := facility.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return goqu.Record{
		"id":             facility.ID,
		"name":           facility.Name,
		"address":        facility.Address,
		"region":         facility.Region,
		"phone_number":   facility.PhoneNumber,
		"image_url":      facility.ImageURL,
		"latitude":       facility.Location.Latitude,
		"longitude":      facility.Location.Longitude,
		"fee_rules":      feeRules,
		"schedule_rules": scheduleRules,
		"closed_days":    closedDays,
		"reviews":        reviews,
		"is_public":      facility.Public(),
		"created_by":     facility.CreatedBy,
		"updated_by":     facility.UpdatedBy,
		"created_at":     createdAt,
		"updated_at":     facility.UpdatedAt,
	}, nil
}

func unmarshalDocs(facility *entities.Facility, feeRules, scheduleRules, closedDays, reviews []byte) error {
	if len(feeRules) > 0 {
		if err := json.Unmarshal(feeRules, &facility.FeeRules); err != nil {
			return err
		}
	}
	if len(scheduleRules) > 0 {
		if err := json.Unmarshal(scheduleRules, &facility.ScheduleRules); err != nil {
			return err
		}
	}
	if len(closedDays) > 0 {
		if err := json.Unmarshal(closedDays, &facility.ClosedDays); err != nil {
			return err
		}
	}
	if len(reviews) > 0 {
		if err := json.Unmarshal(reviews, &facility.Reviews); err != nil {
			return err
		}
	}
	return nil
}
