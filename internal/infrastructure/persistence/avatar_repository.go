package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/goods"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAvatarRepository implements goods.AvatarRepository using GORM
type GormAvatarRepository struct {
	db *gorm.DB
}

// NewGormAvatarRepository creates a new GormAvatarRepository
func NewGormAvatarRepository(db *gorm.DB) *GormAvatarRepository {
	return &GormAvatarRepository{db: db}
}

// FindByID finds an avatar by its ID, goods preloaded
func (r *GormAvatarRepository) FindByID(ctx context.Context, id uuid.UUID) (*goods.Avatar, error) {
	var a goods.Avatar
	if err := r.db.WithContext(ctx).
		Preload("Goods").
		First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByReason finds the avatars produced by an operation
func (r *GormAvatarRepository) FindByReason(ctx context.Context, operationID uuid.UUID) ([]goods.Avatar, error) {
	var avatars []goods.Avatar
	if err := r.db.WithContext(ctx).
		Preload("Goods").
		Where("reason_id = ?", operationID).
		Order("created_at ASC").
		Find(&avatars).Error; err != nil {
		return nil, err
	}
	return avatars, nil
}

// FindByConsumer finds the avatars an operation claimed as inputs
func (r *GormAvatarRepository) FindByConsumer(ctx context.Context, operationID uuid.UUID) ([]goods.Avatar, error) {
	var avatars []goods.Avatar
	if err := r.db.WithContext(ctx).
		Preload("Goods").
		Where("consumer_id = ?", operationID).
		Order("created_at ASC").
		Find(&avatars).Error; err != nil {
		return nil, err
	}
	return avatars, nil
}

// FindCurrentByGoods finds the open, unconsumed, non-past avatar of a goods
// lot. A lot has at most one: operations close or claim the previous avatar
// whenever they produce a new one.
func (r *GormAvatarRepository) FindCurrentByGoods(ctx context.Context, goodsID uuid.UUID) (*goods.Avatar, error) {
	var a goods.Avatar
	if err := r.db.WithContext(ctx).
		Preload("Goods").
		Where("goods_id = ? AND dt_until IS NULL AND consumer_id IS NULL AND state <> ?", goodsID, goods.AvatarStatePast).
		First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Save creates or updates an avatar
func (r *GormAvatarRepository) Save(ctx context.Context, a *goods.Avatar) error {
	return r.db.WithContext(ctx).Omit("Goods").Save(a).Error
}

// Delete deletes an avatar
func (r *GormAvatarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&goods.Avatar{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// QuantityAt sums the goods quantity borne by avatars matching the query.
// Present avatars are always counted; the interval filter only applies when
// an instant is given, with the infinity sentinel restricting to open-ended
// avatars.
func (r *GormAvatarRepository) QuantityAt(ctx context.Context, q goods.QuantityQuery) (int64, error) {
	states := []goods.AvatarState{goods.AvatarStatePresent}
	for _, s := range q.AdditionalStates {
		if s != goods.AvatarStatePresent {
			states = append(states, s)
		}
	}

	query := r.db.WithContext(ctx).
		Model(&goods.Avatar{}).
		Joins("JOIN wms_goods ON wms_goods.id = wms_goods_avatars.goods_id").
		Where("wms_goods_avatars.location_id = ?", q.LocationID).
		Where("wms_goods.type_id = ?", q.GoodsTypeID).
		Where("wms_goods_avatars.state IN ?", states)

	if q.At != nil {
		if q.At.Equal(goods.DateTimeInfinity) {
			query = query.Where("wms_goods_avatars.dt_until IS NULL")
		} else {
			query = query.
				Where("wms_goods_avatars.dt_from <= ?", *q.At).
				Where("(wms_goods_avatars.dt_until IS NULL OR wms_goods_avatars.dt_until > ?)", *q.At)
		}
	}

	var result struct {
		Total int64
	}
	if err := query.
		Select("COALESCE(SUM(wms_goods.quantity), 0) as total").
		Scan(&result).Error; err != nil {
		return 0, err
	}
	return result.Total, nil
}

// Ensure GormAvatarRepository implements goods.AvatarRepository
var _ goods.AvatarRepository = (*GormAvatarRepository)(nil)
