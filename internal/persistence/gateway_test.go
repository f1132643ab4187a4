package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/poolatlas/poolatlas/backend/internal/domain/entities"
	"github.com/poolatlas/poolatlas/backend/internal/persistence"
	apperrors "github.com/poolatlas/poolatlas/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory FacilityStore for gateway tests.
type memStore struct {
	records map[string]*entities.Facility
	order   []string
	failing bool
}

func newMemStore() *memStore {
	return &memStore{records: map[string]*entities.Facility{}}
}

var errStoreDown = errors.New("store unreachable")

func (s *memStore) List(ctx context.Context) ([]*entities.Facility, error) {
	if s.failing {
		return nil, errStoreDown
	}
	out := make([]*entities.Facility, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out, nil
}

func (s *memStore) Put(ctx context.Context, f *entities.Facility) error {
	if s.failing {
		return errStoreDown
	}
	if _, ok := s.records[f.ID]; !ok {
		s.order = append(s.order, f.ID)
	}
	s.records[f.ID] = f
	return nil
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	if s.failing {
		return errStoreDown
	}
	delete(s.records, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func TestGateway_WriteServedByPrimary(t *testing.T) {
	ctx := context.Background()
	primary := newMemStore()
	secondary := newMemStore()
	gw := persistence.NewGateway(primary, secondary)

	backend, err := gw.Write(ctx, &entities.Facility{ID: "pool-1"})

	require.NoError(t, err)
	assert.Equal(t, persistence.BackendPrimary, backend)
	assert.Contains(t, primary.records, "pool-1")
	assert.NotContains(t, secondary.records, "pool-1")
}

func TestGateway_WriteFallsBackOnPrimaryFailure(t *testing.T) {
	ctx := context.Background()
	primary := newMemStore()
	primary.failing = true
	secondary := newMemStore()
	gw := persistence.NewGateway(primary, secondary)

	backend, err := gw.Write(ctx, &entities.Facility{ID: "pool-1"})

	require.NoError(t, err)
	assert.Equal(t, persistence.BackendFallback, backend)
	assert.Contains(t, secondary.records, "pool-1")

	// With the primary later restored (and empty), a read legitimately
	// omits the fallback-held record: documented staleness, not a bug.
	primary.failing = false
	records, served := gw.Read(ctx)
	assert.Equal(t, persistence.BackendPrimary, served)
	assert.Empty(t, records)
}

func TestGateway_WriteFailsWhenAllStoresFail(t *testing.T) {
	ctx := context.Background()
	primary := newMemStore()
	primary.failing = true
	secondary := newMemStore()
	secondary.failing = true
	gw := persistence.NewGateway(primary, secondary)

	backend, err := gw.Write(ctx, &entities.Facility{ID: "pool-1"})

	assert.Equal(t, persistence.BackendNone, backend)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePermanentWrite))
}

func TestGateway_ReadFallsBack(t *testing.T) {
	ctx := context.Background()
	primary := newMemStore()
	primary.failing = true
	secondary := newMemStore()
	require.NoError(t, secondary.Put(ctx, &entities.Facility{ID: "pool-9"}))
	gw := persistence.NewGateway(primary, secondary)

	records, served := gw.Read(ctx)

	assert.Equal(t, persistence.BackendFallback, served)
	require.Len(t, records, 1)
	assert.Equal(t, "pool-9", records[0].ID)
}

func TestGateway_ReadWithoutSecondaryReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	primary := newMemStore()
	primary.failing = true
	gw := persistence.NewGateway(primary, nil)

	records, served := gw.Read(ctx)

	assert.Equal(t, persistence.BackendNone, served)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestGateway_DeleteFallsBack(t *testing.T) {
	ctx := context.Background()
	primary := newMemStore()
	secondary := newMemStore()
	require.NoError(t, secondary.Put(ctx, &entities.Facility{ID: "pool-1"}))
	primary.failing = true
	gw := persistence.NewGateway(primary, secondary)

	backend, err := gw.Delete(ctx, "pool-1")

	require.NoError(t, err)
	assert.Equal(t, persistence.BackendFallback, backend)
	assert.NotContains(t, secondary.records, "pool-1")
}
