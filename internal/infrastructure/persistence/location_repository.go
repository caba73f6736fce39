package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormLocationRepository implements location.Repository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByID finds a location by its ID
func (r *GormLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*location.Location, error) {
	var l location.Location
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// FindByCode finds a location by its code
func (r *GormLocationRepository) FindByCode(ctx context.Context, code string) (*location.Location, error) {
	var l location.Location
	if err := r.db.WithContext(ctx).First(&l, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// FindChildren finds the direct children of a location
func (r *GormLocationRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]location.Location, error) {
	var children []location.Location
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("code ASC").
		Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

// Save creates or updates a location
func (r *GormLocationRepository) Save(ctx context.Context, l *location.Location) error {
	return r.db.WithContext(ctx).Save(l).Error
}

// Delete deletes a location
func (r *GormLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&location.Location{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ResolveTags flattens the hierarchy below root with defaulting tags, using a
// recursive CTE so the walk happens in one round-trip. The query runs on both
// PostgreSQL and SQLite.
func (r *GormLocationRepository) ResolveTags(ctx context.Context, rootID *uuid.UUID) (map[uuid.UUID]*string, error) {
	const withRoot = `
WITH RECURSIVE resolved(id, tag) AS (
	SELECT id, tag FROM wms_locations WHERE id = ?
	UNION ALL
	SELECT child.id, COALESCE(child.tag, resolved.tag)
	FROM wms_locations child
	JOIN resolved ON child.parent_id = resolved.id
)
SELECT id, tag FROM resolved`

	const wholeForest = `
WITH RECURSIVE resolved(id, tag) AS (
	SELECT id, tag FROM wms_locations WHERE parent_id IS NULL
	UNION ALL
	SELECT child.id, COALESCE(child.tag, resolved.tag)
	FROM wms_locations child
	JOIN resolved ON child.parent_id = resolved.id
)
SELECT id, tag FROM resolved`

	var rows []struct {
		ID  uuid.UUID
		Tag *string
	}
	var err error
	if rootID != nil {
		err = r.db.WithContext(ctx).Raw(withRoot, *rootID).Scan(&rows).Error
	} else {
		err = r.db.WithContext(ctx).Raw(wholeForest).Scan(&rows).Error
	}
	if err != nil {
		return nil, err
	}

	resolved := make(map[uuid.UUID]*string, len(rows))
	for _, row := range rows {
		resolved[row.ID] = row.Tag
	}
	return resolved, nil
}

// Ensure GormLocationRepository implements location.Repository
var _ location.Repository = (*GormLocationRepository)(nil)
