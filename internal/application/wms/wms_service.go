package wms

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/goods"
	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/operation"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Service is the transactional facade over the warehouse core. Every call
// runs in one database transaction: a lifecycle change that fails halfway
// leaves no trace.
type Service struct {
	scope TransactionScope
	log   *zap.Logger
}

// NewService creates a new warehouse application Service
func NewService(scope TransactionScope, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{scope: scope, log: log}
}

// operationService assembles the domain lifecycle service over the
// transaction-scoped repositories.
func (s *Service) operationService(repos TransactionalRepositories) *operation.Service {
	deps := operation.Deps{
		Operations: repos.OperationRepo(),
		Goods:      repos.GoodsRepo(),
		Types:      repos.TypeRepo(),
		Properties: repos.PropertiesRepo(),
		Avatars:    repos.AvatarRepo(),
		Locations:  repos.LocationRepo(),
	}
	return operation.NewService(repos.OperationRepo(), operation.NewCoreRegistry(deps), s.log)
}

// publishEvents drains the domain events an operation recorded and logs
// them, once the surrounding transaction is through.
func (s *Service) publishEvents(op *operation.Operation) {
	for _, ev := range op.GetDomainEvents() {
		s.log.Info("domain event",
			zap.String("event", ev.EventType()),
			zap.String("aggregate_type", ev.AggregateType()),
			zap.String("aggregate_id", ev.AggregateID().String()),
			zap.Time("occurred_at", ev.OccurredAt()),
		)
	}
	op.ClearDomainEvents()
}

// CreateOperation registers a new operation, planned or already done.
func (s *Service) CreateOperation(ctx context.Context, in operation.CreateInput) (*operation.Operation, error) {
	var created *operation.Operation
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		op, err := s.operationService(repos).Create(ctx, in)
		if err != nil {
			return err
		}
		created = op
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(created)
	return created, nil
}

// GetOperation fetches one operation by ID.
func (s *Service) GetOperation(ctx context.Context, id uuid.UUID) (*operation.Operation, error) {
	var found *operation.Operation
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		op, err := repos.OperationRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		found = op
		return nil
	})
	return found, err
}

// ExecuteOperation executes a planned operation, at the given time or now.
func (s *Service) ExecuteOperation(ctx context.Context, id uuid.UUID, dtExecution *time.Time) (*operation.Operation, error) {
	var executed *operation.Operation
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		op, err := repos.OperationRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.operationService(repos).Execute(ctx, op, dtExecution); err != nil {
			return err
		}
		executed = op
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(executed)
	return executed, nil
}

// CancelOperation removes a planned operation and everything planned after it.
func (s *Service) CancelOperation(ctx context.Context, id uuid.UUID) error {
	var cancelled *operation.Operation
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		op, err := repos.OperationRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		cancelled = op
		return s.operationService(repos).Cancel(ctx, op)
	})
	if err != nil {
		return err
	}
	s.publishEvents(cancelled)
	return nil
}

// ObliviateOperation erases a done operation and everything downstream of it
// from the record.
func (s *Service) ObliviateOperation(ctx context.Context, id uuid.UUID) error {
	var obliviated *operation.Operation
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		op, err := repos.OperationRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		obliviated = op
		return s.operationService(repos).Obliviate(ctx, op)
	})
	if err != nil {
		return err
	}
	s.publishEvents(obliviated)
	return nil
}

// PlanRevertOperation plans the reversal of a done operation and everything
// downstream of it. It returns the reversal of the operation itself and the
// reversals executable immediately.
func (s *Service) PlanRevertOperation(ctx context.Context, id uuid.UUID, dtExecution time.Time) (*operation.Operation, []*operation.Operation, error) {
	var (
		reversal *operation.Operation
		leaves   []*operation.Operation
	)
	var reverted *operation.Operation
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		op, err := repos.OperationRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		reverted = op
		reversal, leaves, err = s.operationService(repos).PlanRevert(ctx, op, dtExecution)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	s.publishEvents(reverted)
	return reversal, leaves, nil
}

// MoveQuantity relocates part of a lot in one call: when the quantity covers
// the whole lot it is a plain Move, otherwise a Split carves the quantity out
// first and the Move takes the split-off lot.
func (s *Service) MoveQuantity(ctx context.Context, avatarID, destinationID uuid.UUID, quantity int64, state operation.State, dtExecution *time.Time) (*operation.Operation, error) {
	if quantity <= 0 {
		return nil, shared.ErrInvalidArgument
	}

	var move *operation.Operation
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ops := s.operationService(repos)
		avatars := repos.AvatarRepo()

		input, err := avatars.FindByID(ctx, avatarID)
		if err != nil {
			return err
		}
		lot, err := repos.GoodsRepo().FindByID(ctx, input.GoodsID)
		if err != nil {
			return err
		}
		if quantity > lot.Quantity {
			return shared.ErrOperationNotExecutable
		}

		moveInput := input
		if quantity < lot.Quantity {
			split, err := ops.Create(ctx, operation.CreateInput{
				Type:        operation.TypeSplit,
				State:       state,
				DtExecution: dtExecution,
				Payload: operation.SplitPayload{
					AvatarID: input.ID,
					Quantity: quantity,
				},
			})
			if err != nil {
				return err
			}
			moveInput, err = s.splitOffAvatar(ctx, avatars, repos.GoodsRepo(), split.ID, quantity)
			if err != nil {
				return err
			}
		}

		move, err = ops.Create(ctx, operation.CreateInput{
			Type:        operation.TypeMove,
			State:       state,
			DtExecution: dtExecution,
			Payload: operation.MovePayload{
				AvatarID:      moveInput.ID,
				DestinationID: destinationID,
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(move)
	return move, nil
}

// splitOffAvatar picks the outcome of a split bearing the split-off quantity.
// When both outcomes bear it they are interchangeable.
func (s *Service) splitOffAvatar(ctx context.Context, avatars goods.AvatarRepository, lots goods.Repository, splitID uuid.UUID, quantity int64) (*goods.Avatar, error) {
	outcomes, err := avatars.FindByReason(ctx, splitID)
	if err != nil {
		return nil, err
	}
	for i := range outcomes {
		lot := outcomes[i].Goods
		if lot == nil {
			if lot, err = lots.FindByID(ctx, outcomes[i].GoodsID); err != nil {
				return nil, err
			}
		}
		if lot.Quantity == quantity {
			return &outcomes[i], nil
		}
	}
	return nil, shared.ErrOperationNotExecutable
}

// SetGoodsProperty sets one property on a goods lot, duplicating a shared
// property record first so sibling lots are unaffected.
func (s *Service) SetGoodsProperty(ctx context.Context, goodsID uuid.UUID, name string, value interface{}) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lot, err := repos.GoodsRepo().FindByID(ctx, goodsID)
		if err != nil {
			return err
		}
		return goods.NewService(repos.GoodsRepo(), repos.PropertiesRepo()).SetProperty(ctx, lot, name, value)
	})
}

// LocationQuantity returns how much goods of a type a location holds under
// the given temporal and state filter.
func (s *Service) LocationQuantity(ctx context.Context, locationID, goodsTypeID uuid.UUID, opts location.QuantityOptions) (int64, error) {
	var total int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		quantity, err := location.NewService(repos.LocationRepo(), repos.AvatarRepo()).
			Quantity(ctx, locationID, goodsTypeID, opts)
		if err != nil {
			return err
		}
		total = quantity
		return nil
	})
	return total, err
}

// ResolveLocationTags returns the effective tag of every location below root.
func (s *Service) ResolveLocationTags(ctx context.Context, rootID *uuid.UUID) (map[uuid.UUID]*string, error) {
	var resolved map[uuid.UUID]*string
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		tags, err := repos.LocationRepo().ResolveTags(ctx, rootID)
		if err != nil {
			return err
		}
		resolved = tags
		return nil
	})
	return resolved, err
}
