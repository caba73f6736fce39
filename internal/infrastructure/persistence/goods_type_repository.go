package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/goods"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormGoodsTypeRepository implements goods.TypeRepository using GORM
type GormGoodsTypeRepository struct {
	db *gorm.DB
}

// NewGormGoodsTypeRepository creates a new GormGoodsTypeRepository
func NewGormGoodsTypeRepository(db *gorm.DB) *GormGoodsTypeRepository {
	return &GormGoodsTypeRepository{db: db}
}

// FindByID finds a goods type by its ID
func (r *GormGoodsTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*goods.Type, error) {
	var t goods.Type
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByCode finds a goods type by its code
func (r *GormGoodsTypeRepository) FindByCode(ctx context.Context, code string) (*goods.Type, error) {
	var t goods.Type
	if err := r.db.WithContext(ctx).First(&t, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Save creates or updates a goods type
func (r *GormGoodsTypeRepository) Save(ctx context.Context, t *goods.Type) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Delete deletes a goods type
func (r *GormGoodsTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&goods.Type{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormGoodsTypeRepository implements goods.TypeRepository
var _ goods.TypeRepository = (*GormGoodsTypeRepository)(nil)
