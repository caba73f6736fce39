package location

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/goods"
	"github.com/wms/backend/internal/domain/shared"
)

// TestNewLocation tests location constructors
func TestNewLocation(t *testing.T) {
	t.Run("creates root location", func(t *testing.T) {
		loc, err := NewLocation("WH", "Warehouse")

		require.NoError(t, err)
		assert.Equal(t, "WH", loc.Code)
		assert.True(t, loc.IsRoot())
		assert.Nil(t, loc.Tag)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewLocation("", "Warehouse")
		assert.Error(t, err)
	})

	t.Run("creates sub-location under parent", func(t *testing.T) {
		parent, err := NewLocation("WH", "Warehouse")
		require.NoError(t, err)

		child, err := NewSubLocation(parent, "WH/A", "Aisle A")

		require.NoError(t, err)
		assert.False(t, child.IsRoot())
		require.NotNil(t, child.ParentID)
		assert.Equal(t, parent.ID, *child.ParentID)
	})

	t.Run("rejects nil parent", func(t *testing.T) {
		_, err := NewSubLocation(nil, "WH/A", "Aisle A")
		assert.Error(t, err)
	})

	t.Run("SetTag sets the own tag", func(t *testing.T) {
		loc, err := NewLocation("WH", "Warehouse")
		require.NoError(t, err)

		loc.SetTag("sellable")

		require.NotNil(t, loc.Tag)
		assert.Equal(t, "sellable", *loc.Tag)
	})
}

type fakeAvatarRepo struct {
	goods.AvatarRepository
	lastQuery goods.QuantityQuery
	total     int64
}

func (f *fakeAvatarRepo) QuantityAt(_ context.Context, q goods.QuantityQuery) (int64, error) {
	f.lastQuery = q
	return f.total, nil
}

// TestService_Quantity tests argument validation and query pass-through
func TestService_Quantity(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects nil identifiers", func(t *testing.T) {
		svc := NewService(nil, &fakeAvatarRepo{})

		_, err := svc.Quantity(ctx, uuid.Nil, uuid.New(), QuantityOptions{})
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)

		_, err = svc.Quantity(ctx, uuid.New(), uuid.Nil, QuantityOptions{})
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})

	t.Run("rejects invalid additional states", func(t *testing.T) {
		svc := NewService(nil, &fakeAvatarRepo{})
		at := time.Now()

		_, err := svc.Quantity(ctx, uuid.New(), uuid.New(), QuantityOptions{
			AdditionalStates: []goods.AvatarState{goods.AvatarState("limbo")},
			At:               &at,
		})
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})

	t.Run("rejects additional states without an instant", func(t *testing.T) {
		svc := NewService(nil, &fakeAvatarRepo{})

		_, err := svc.Quantity(ctx, uuid.New(), uuid.New(), QuantityOptions{
			AdditionalStates: []goods.AvatarState{goods.AvatarStateFuture},
		})
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})

	t.Run("passes the filter through to the ledger", func(t *testing.T) {
		repo := &fakeAvatarRepo{total: 7}
		svc := NewService(nil, repo)
		locationID := uuid.New()
		typeID := uuid.New()
		at := goods.DateTimeInfinity

		total, err := svc.Quantity(ctx, locationID, typeID, QuantityOptions{
			AdditionalStates: []goods.AvatarState{goods.AvatarStateFuture},
			At:               &at,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		assert.Equal(t, locationID, repo.lastQuery.LocationID)
		assert.Equal(t, typeID, repo.lastQuery.GoodsTypeID)
		assert.Equal(t, []goods.AvatarState{goods.AvatarStateFuture}, repo.lastQuery.AdditionalStates)
		require.NotNil(t, repo.lastQuery.At)
		assert.True(t, repo.lastQuery.At.Equal(goods.DateTimeInfinity))
	})

	t.Run("default filter counts present only", func(t *testing.T) {
		repo := &fakeAvatarRepo{}
		svc := NewService(nil, repo)

		_, err := svc.Quantity(ctx, uuid.New(), uuid.New(), QuantityOptions{})

		require.NoError(t, err)
		assert.Empty(t, repo.lastQuery.AdditionalStates)
		assert.Nil(t, repo.lastQuery.At)
	})
}
