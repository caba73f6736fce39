package goods

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/shared"
)

type fakeGoodsRepo struct {
	saved    []*Goods
	refCount int64
}

func (f *fakeGoodsRepo) FindByID(context.Context, uuid.UUID) (*Goods, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeGoodsRepo) Save(_ context.Context, g *Goods) error {
	f.saved = append(f.saved, g)
	return nil
}

func (f *fakeGoodsRepo) Delete(context.Context, uuid.UUID) error { return nil }

func (f *fakeGoodsRepo) CountByProperties(context.Context, uuid.UUID) (int64, error) {
	return f.refCount, nil
}

type fakePropsRepo struct {
	saved []*Properties
}

func (f *fakePropsRepo) FindByID(context.Context, uuid.UUID) (*Properties, error) {
	return nil, shared.ErrNotFound
}

func (f *fakePropsRepo) Save(_ context.Context, p *Properties) error {
	f.saved = append(f.saved, p)
	return nil
}

// TestService_SetProperty tests the copy-on-write property API
func TestService_SetProperty(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects nil goods", func(t *testing.T) {
		svc := NewService(&fakeGoodsRepo{}, &fakePropsRepo{})

		err := svc.SetProperty(ctx, nil, "serial", "s1")
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})

	t.Run("creates a record when the lot has none", func(t *testing.T) {
		goodsRepo := &fakeGoodsRepo{}
		propsRepo := &fakePropsRepo{}
		svc := NewService(goodsRepo, propsRepo)
		g, err := NewGoods(uuid.New(), 3)
		require.NoError(t, err)

		require.NoError(t, svc.SetProperty(ctx, g, "serial", "s1"))

		require.NotNil(t, g.Properties)
		assert.Equal(t, "s1", g.GetProperty("serial"))
		assert.Len(t, propsRepo.saved, 1)
		assert.Len(t, goodsRepo.saved, 1)
	})

	t.Run("duplicates a shared record before mutating", func(t *testing.T) {
		goodsRepo := &fakeGoodsRepo{refCount: 2}
		propsRepo := &fakePropsRepo{}
		svc := NewService(goodsRepo, propsRepo)

		sharedProps, err := NewProperties(map[string]interface{}{"serial": "s1"})
		require.NoError(t, err)
		g, err := NewGoods(uuid.New(), 3)
		require.NoError(t, err)
		g.AttachProperties(sharedProps)

		require.NoError(t, svc.SetProperty(ctx, g, "serial", "s2"))

		assert.NotEqual(t, sharedProps.ID, g.Properties.ID)
		assert.Equal(t, "s2", g.GetProperty("serial"))
		original, _ := sharedProps.Get("serial")
		assert.Equal(t, "s1", original)
	})

	t.Run("mutates in place when the record is exclusive", func(t *testing.T) {
		goodsRepo := &fakeGoodsRepo{refCount: 1}
		propsRepo := &fakePropsRepo{}
		svc := NewService(goodsRepo, propsRepo)

		props, err := NewProperties(map[string]interface{}{"serial": "s1"})
		require.NoError(t, err)
		g, err := NewGoods(uuid.New(), 3)
		require.NoError(t, err)
		g.AttachProperties(props)

		require.NoError(t, svc.SetProperty(ctx, g, "serial", "s2"))

		assert.Equal(t, props.ID, g.Properties.ID)
		assert.Equal(t, "s2", g.GetProperty("serial"))
		assert.Empty(t, goodsRepo.saved)
	})

	t.Run("propagates reserved-name rejection", func(t *testing.T) {
		svc := NewService(&fakeGoodsRepo{}, &fakePropsRepo{})
		g, err := NewGoods(uuid.New(), 3)
		require.NoError(t, err)

		err = svc.SetProperty(ctx, g, "id", "x")
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})
}
