package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/operation"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOperationRepository implements operation.Repository using GORM. DAG
// edges live in their own table and are traversed one hop at a time; the
// domain layer drives the walks.
type GormOperationRepository struct {
	db *gorm.DB
}

// NewGormOperationRepository creates a new GormOperationRepository
func NewGormOperationRepository(db *gorm.DB) *GormOperationRepository {
	return &GormOperationRepository{db: db}
}

// FindByID finds an operation by its ID
func (r *GormOperationRepository) FindByID(ctx context.Context, id uuid.UUID) (*operation.Operation, error) {
	var op operation.Operation
	if err := r.db.WithContext(ctx).First(&op, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &op, nil
}

// Save creates or updates an operation
func (r *GormOperationRepository) Save(ctx context.Context, op *operation.Operation) error {
	return r.db.WithContext(ctx).Save(op).Error
}

// Delete deletes an operation node
func (r *GormOperationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&operation.Operation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Followers returns the operations directly following the given one
func (r *GormOperationRepository) Followers(ctx context.Context, id uuid.UUID) ([]operation.Operation, error) {
	var ops []operation.Operation
	if err := r.db.WithContext(ctx).
		Joins("JOIN wms_operation_edges ON wms_operation_edges.child_id = wms_operations.id").
		Where("wms_operation_edges.parent_id = ?", id).
		Order("wms_operations.created_at ASC").
		Find(&ops).Error; err != nil {
		return nil, err
	}
	return ops, nil
}

// Follows returns the operations the given one directly follows
func (r *GormOperationRepository) Follows(ctx context.Context, id uuid.UUID) ([]operation.Operation, error) {
	var ops []operation.Operation
	if err := r.db.WithContext(ctx).
		Joins("JOIN wms_operation_edges ON wms_operation_edges.parent_id = wms_operations.id").
		Where("wms_operation_edges.child_id = ?", id).
		Order("wms_operations.created_at ASC").
		Find(&ops).Error; err != nil {
		return nil, err
	}
	return ops, nil
}

// LinkFollows records that the operation follows each of the parents
func (r *GormOperationRepository) LinkFollows(ctx context.Context, id uuid.UUID, parentIDs []uuid.UUID) error {
	if len(parentIDs) == 0 {
		return nil
	}
	edges := make([]operation.Edge, 0, len(parentIDs))
	for _, parentID := range parentIDs {
		edges = append(edges, operation.Edge{ParentID: parentID, ChildID: id})
	}
	return r.db.WithContext(ctx).Create(&edges).Error
}

// ClearFollows detaches the operation from all of its predecessors
func (r *GormOperationRepository) ClearFollows(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&operation.Edge{}, "child_id = ?", id).Error
}

// Ensure GormOperationRepository implements operation.Repository
var _ operation.Repository = (*GormOperationRepository)(nil)
