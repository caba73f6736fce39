package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/goods"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormGoodsRepository implements goods.Repository using GORM
type GormGoodsRepository struct {
	db *gorm.DB
}

// NewGormGoodsRepository creates a new GormGoodsRepository
func NewGormGoodsRepository(db *gorm.DB) *GormGoodsRepository {
	return &GormGoodsRepository{db: db}
}

// FindByID finds a goods lot by its ID, properties preloaded
func (r *GormGoodsRepository) FindByID(ctx context.Context, id uuid.UUID) (*goods.Goods, error) {
	var lot goods.Goods
	if err := r.db.WithContext(ctx).
		Preload("Properties").
		First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// Save creates or updates a goods lot
func (r *GormGoodsRepository) Save(ctx context.Context, g *goods.Goods) error {
	return r.db.WithContext(ctx).Omit("Properties", "Type").Save(g).Error
}

// Delete deletes a goods lot
func (r *GormGoodsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&goods.Goods{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByProperties counts goods lots referencing a Properties record
func (r *GormGoodsRepository) CountByProperties(ctx context.Context, propertiesID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&goods.Goods{}).
		Where("properties_id = ?", propertiesID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormGoodsRepository implements goods.Repository
var _ goods.Repository = (*GormGoodsRepository)(nil)
