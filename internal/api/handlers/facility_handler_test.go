package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/poolatlas/poolatlas/backend/internal/api/handlers"
	"github.com/poolatlas/poolatlas/backend/internal/application/services"
	"github.com/poolatlas/poolatlas/backend/internal/domain/entities"
	"github.com/poolatlas/poolatlas/backend/internal/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFacilityStore struct {
	records map[string]*entities.Facility
	order   []string
}

func newMemFacilityStore() *memFacilityStore {
	return &memFacilityStore{records: map[string]*entities.Facility{}}
}

func (s *memFacilityStore) List(ctx context.Context) ([]*entities.Facility, error) {
	out := make([]*entities.Facility, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id].Clone())
	}
	return out, nil
}

func (s *memFacilityStore) Put(ctx context.Context, f *entities.Facility) error {
	if _, ok := s.records[f.ID]; !ok {
		s.order = append(s.order, f.ID)
	}
	s.records[f.ID] = f.Clone()
	return nil
}

func (s *memFacilityStore) Delete(ctx context.Context, id string) error {
	delete(s.records, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

type memSnapshotStore struct {
	snapshots []*entities.VersionSnapshot
}

func (s *memSnapshotStore) Append(ctx context.Context, snap *entities.VersionSnapshot) error {
	s.snapshots = append(s.snapshots, snap)
	return nil
}

func (s *memSnapshotStore) ListByFacility(ctx context.Context, facilityID string) ([]*entities.VersionSnapshot, error) {
	out := []*entities.VersionSnapshot{}
	for i := len(s.snapshots) - 1; i >= 0; i-- {
		if s.snapshots[i].FacilityID == facilityID {
			out = append(out, s.snapshots[i])
		}
	}
	return out, nil
}

func newTestService() *services.FacilityService {
	gw := persistence.NewGateway(newMemFacilityStore(), nil)
	history := persistence.NewVersionHistory(&memSnapshotStore{}, nil, 0)
	return services.NewFacilityService(gw, history, nil, nil)
}

func seed(t *testing.T, svc *services.FacilityService, facilities ...*entities.Facility) {
	t.Helper()
	for _, f := range facilities {
		_, err := svc.Save(context.Background(), f)
		require.NoError(t, err)
	}
}

func TestFacilityHandler_ListFacilities(t *testing.T) {
	svc := newTestService()
	seed(t, svc,
		&entities.Facility{ID: "pool-1", Name: "City Pool"},
		&entities.Facility{ID: "pool-2", Name: "Ward Pool"},
	)
	handler := handlers.NewFacilityHandler(svc)

	req := httptest.NewRequest("GET", "/api/facilities", nil)
	w := httptest.NewRecorder()

	handler.ListFacilities(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Facilities []*entities.Facility `json:"facilities"`
		Count      int                  `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 2, response.Count)
	assert.Len(t, response.Facilities, 2)
}

func TestFacilityHandler_GetFacility(t *testing.T) {
	svc := newTestService()
	seed(t, svc, &entities.Facility{ID: "pool-1", Name: "City Pool"})
	handler := handlers.NewFacilityHandler(svc)

	req := httptest.NewRequest("GET", "/api/facilities/pool-1", nil)
	req.SetPathValue("id", "pool-1")
	w := httptest.NewRecorder()

	handler.GetFacility(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got entities.Facility
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "City Pool", got.Name)
}

func TestFacilityHandler_GetFacility_NotFound(t *testing.T) {
	handler := handlers.NewFacilityHandler(newTestService())

	req := httptest.NewRequest("GET", "/api/facilities/missing", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	handler.GetFacility(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFacilityHandler_SaveFacility(t *testing.T) {
	svc := newTestService()
	handler := handlers.NewFacilityHandler(svc)

	body := `{"name":"New Pool","region":"north"}`
	req := httptest.NewRequest("POST", "/api/facilities", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.SaveFacility(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result services.SaveResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, persistence.BackendPrimary, result.Backend)
	require.Len(t, result.Facilities, 1)
	assert.Equal(t, "New Pool", result.Facilities[0].Name)
	assert.NotEmpty(t, result.Facilities[0].ID)
}

func TestFacilityHandler_SaveFacility_PathIDWins(t *testing.T) {
	svc := newTestService()
	seed(t, svc, &entities.Facility{ID: "pool-1", Name: "Old"})
	handler := handlers.NewFacilityHandler(svc)

	body := `{"id":"ignored","name":"Renamed"}`
	req := httptest.NewRequest("PUT", "/api/facilities/pool-1", strings.NewReader(body))
	req.SetPathValue("id", "pool-1")
	w := httptest.NewRecorder()

	handler.SaveFacility(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result services.SaveResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	require.Len(t, result.Facilities, 1)
	assert.Equal(t, "pool-1", result.Facilities[0].ID)
	assert.Equal(t, "Renamed", result.Facilities[0].Name)
}

func TestFacilityHandler_SaveFacility_InvalidBody(t *testing.T) {
	handler := handlers.NewFacilityHandler(newTestService())

	req := httptest.NewRequest("POST", "/api/facilities", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.SaveFacility(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFacilityHandler_DeleteFacility(t *testing.T) {
	svc := newTestService()
	seed(t, svc, &entities.Facility{ID: "pool-1"})
	handler := handlers.NewFacilityHandler(svc)

	req := httptest.NewRequest("DELETE", "/api/facilities/pool-1", nil)
	req.SetPathValue("id", "pool-1")
	w := httptest.NewRecorder()

	handler.DeleteFacility(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, svc.Read(context.Background()))
}

func TestFacilityHandler_SearchFacilities_RequiresCoordinates(t *testing.T) {
	handler := handlers.NewFacilityHandler(newTestService())

	req := httptest.NewRequest("GET", "/api/facilities/search", nil)
	w := httptest.NewRecorder()

	handler.SearchFacilities(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFacilityHandler_SearchFacilities(t *testing.T) {
	svc := newTestService()
	seed(t, svc,
		&entities.Facility{
			ID:       "near",
			Location: entities.Location{Latitude: 35.69, Longitude: 139.70},
		},
		&entities.Facility{
			ID:       "far",
			Location: entities.Location{Latitude: 36.0, Longitude: 140.0},
		},
	)
	handler := handlers.NewFacilityHandler(svc)

	req := httptest.NewRequest("GET", "/api/facilities/search?lat=35.6895&lng=139.6917", nil)
	w := httptest.NewRecorder()

	handler.SearchFacilities(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Facilities []*entities.Facility `json:"facilities"`
		Count      int                  `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Equal(t, 1, response.Count)
	assert.Equal(t, "near", response.Facilities[0].ID)
}

func TestFacilityHandler_GetFacilityAvailability(t *testing.T) {
	svc := newTestService()
	seed(t, svc, &entities.Facility{
		ID: "pool-1",
		ScheduleRules: []entities.ScheduleRule{
			{DayClass: entities.DayClassWeekday, StartTime: "06:00", EndTime: "09:00"},
		},
	})
	handler := handlers.NewFacilityHandler(svc)

	// 2026-06-01 is a Monday.
	req := httptest.NewRequest("GET", "/api/facilities/pool-1/availability?at=2026-06-01T08:30:00%2B09:00", nil)
	req.SetPathValue("id", "pool-1")
	w := httptest.NewRecorder()

	handler.GetFacilityAvailability(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, true, response["open"])
}
