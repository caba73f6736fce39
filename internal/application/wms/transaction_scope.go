package wms

import (
	"context"

	"github.com/wms/backend/internal/domain/goods"
	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/operation"
)

// TransactionScope provides transactional access to the warehouse
// repositories. When a function is executed within a transaction scope, all
// repository operations will be part of the same database transaction and
// will be committed or rolled back atomically.
//
// Operation lifecycle calls rely on this: a cancellation or a revert plan
// that fails halfway must leave no trace.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all warehouse repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// GoodsRepo returns the goods repository scoped to the current transaction
	GoodsRepo() goods.Repository
	// TypeRepo returns the goods type repository scoped to the current transaction
	TypeRepo() goods.TypeRepository
	// PropertiesRepo returns the properties repository scoped to the current transaction
	PropertiesRepo() goods.PropertiesRepository
	// AvatarRepo returns the avatar repository scoped to the current transaction
	AvatarRepo() goods.AvatarRepository
	// LocationRepo returns the location repository scoped to the current transaction
	LocationRepo() location.Repository
	// OperationRepo returns the operation repository scoped to the current transaction
	OperationRepo() operation.Repository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	goodsRepo      goods.Repository
	typeRepo       goods.TypeRepository
	propertiesRepo goods.PropertiesRepository
	avatarRepo     goods.AvatarRepository
	locationRepo   location.Repository
	operationRepo  operation.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	goodsRepo goods.Repository,
	typeRepo goods.TypeRepository,
	propertiesRepo goods.PropertiesRepository,
	avatarRepo goods.AvatarRepository,
	locationRepo location.Repository,
	operationRepo operation.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		goodsRepo:      goodsRepo,
		typeRepo:       typeRepo,
		propertiesRepo: propertiesRepo,
		avatarRepo:     avatarRepo,
		locationRepo:   locationRepo,
		operationRepo:  operationRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// GoodsRepo returns the goods repository.
func (s *NoOpTransactionScope) GoodsRepo() goods.Repository { return s.goodsRepo }

// TypeRepo returns the goods type repository.
func (s *NoOpTransactionScope) TypeRepo() goods.TypeRepository { return s.typeRepo }

// PropertiesRepo returns the properties repository.
func (s *NoOpTransactionScope) PropertiesRepo() goods.PropertiesRepository { return s.propertiesRepo }

// AvatarRepo returns the avatar repository.
func (s *NoOpTransactionScope) AvatarRepo() goods.AvatarRepository { return s.avatarRepo }

// LocationRepo returns the location repository.
func (s *NoOpTransactionScope) LocationRepo() location.Repository { return s.locationRepo }

// OperationRepo returns the operation repository.
func (s *NoOpTransactionScope) OperationRepo() operation.Repository { return s.operationRepo }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
