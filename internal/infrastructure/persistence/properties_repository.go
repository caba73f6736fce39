package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/goods"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPropertiesRepository implements goods.PropertiesRepository using GORM
type GormPropertiesRepository struct {
	db *gorm.DB
}

// NewGormPropertiesRepository creates a new GormPropertiesRepository
func NewGormPropertiesRepository(db *gorm.DB) *GormPropertiesRepository {
	return &GormPropertiesRepository{db: db}
}

// FindByID finds a properties record by its ID
func (r *GormPropertiesRepository) FindByID(ctx context.Context, id uuid.UUID) (*goods.Properties, error) {
	var p goods.Properties
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Save creates or updates a properties record
func (r *GormPropertiesRepository) Save(ctx context.Context, p *goods.Properties) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Ensure GormPropertiesRepository implements goods.PropertiesRepository
var _ goods.PropertiesRepository = (*GormPropertiesRepository)(nil)
