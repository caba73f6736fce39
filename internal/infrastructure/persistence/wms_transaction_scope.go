package persistence

import (
	"context"

	appwms "github.com/wms/backend/internal/application/wms"
	"github.com/wms/backend/internal/domain/goods"
	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/operation"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appwms.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// GoodsRepo returns the goods repository scoped to the current transaction.
func (r *gormTransactionalRepositories) GoodsRepo() goods.Repository {
	return NewGormGoodsRepository(r.tx)
}

// TypeRepo returns the goods type repository scoped to the current transaction.
func (r *gormTransactionalRepositories) TypeRepo() goods.TypeRepository {
	return NewGormGoodsTypeRepository(r.tx)
}

// PropertiesRepo returns the properties repository scoped to the current transaction.
func (r *gormTransactionalRepositories) PropertiesRepo() goods.PropertiesRepository {
	return NewGormPropertiesRepository(r.tx)
}

// AvatarRepo returns the avatar repository scoped to the current transaction.
func (r *gormTransactionalRepositories) AvatarRepo() goods.AvatarRepository {
	return NewGormAvatarRepository(r.tx)
}

// LocationRepo returns the location repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LocationRepo() location.Repository {
	return NewGormLocationRepository(r.tx)
}

// OperationRepo returns the operation repository scoped to the current transaction.
func (r *gormTransactionalRepositories) OperationRepo() operation.Repository {
	return NewGormOperationRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appwms.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appwms.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
