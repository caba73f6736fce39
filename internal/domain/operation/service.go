package operation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CreateInput is the request to create one operation. Predecessor edges are
// never part of it: they are always computed from the payload's input
// avatars, so the graph reflects actual data dependencies rather than caller
// assertion.
type CreateInput struct {
	Type    Type
	State   State
	Comment string
	// DtExecution is mandatory when creating planned; it defaults to the
	// current time when creating done.
	DtExecution *time.Time
	DtStart     *time.Time
	Payload     Payload
}

// Service is the operation lifecycle state machine and the walker of the
// operation DAG. All mutation is sequential against the shared transactional
// store; callers provide transaction boundaries and isolation.
type Service struct {
	ops      Repository
	registry *Registry
	log      *zap.Logger
}

// NewService creates a new operation Service
func NewService(ops Repository, registry *Registry, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{ops: ops, registry: registry, log: log}
}

// Create creates an operation, resolving its predecessors from the payload
// and delegating physical effects to the registered behavior.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Operation, error) {
	return s.CreateFollowing(ctx, in, nil)
}

// CreateFollowing creates an operation following, in addition to its
// payload-resolved parents, the given extra predecessors. It exists for
// reversal planning; regular callers use Create.
func (s *Service) CreateFollowing(ctx context.Context, in CreateInput, follows []uuid.UUID) (*Operation, error) {
	if in.Payload == nil || in.Payload.OperationType() != in.Type {
		return nil, shared.ErrInvalidArgument
	}
	if in.State != StatePlanned && in.State != StateDone {
		return nil, shared.ErrInvalidArgument
	}

	behavior, err := s.registry.Get(in.Type)
	if err != nil {
		return nil, err
	}

	var dtExecution time.Time
	switch {
	case in.DtExecution != nil:
		dtExecution = *in.DtExecution
	case in.State == StateDone:
		dtExecution = time.Now()
	default:
		// a plan without a date is not a plan
		return nil, shared.ErrInvalidArgument
	}

	if err := behavior.CheckCreateConditions(ctx, in.State, dtExecution, in.Payload); err != nil {
		return nil, err
	}

	parents, err := behavior.FindParentOperations(ctx, in.Payload)
	if err != nil {
		return nil, err
	}
	parents = mergeParents(parents, follows)

	op := &Operation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              in.Type,
		State:             in.State,
		Comment:           in.Comment,
		DtExecution:       dtExecution,
		DtStart:           in.DtStart,
	}
	if err := s.ops.Save(ctx, op); err != nil {
		return nil, err
	}
	if err := s.ops.LinkFollows(ctx, op.ID, parents); err != nil {
		return nil, err
	}
	if err := behavior.AfterInsert(ctx, op, in.Payload); err != nil {
		return nil, err
	}
	op.AddDomainEvent(newLifecycleEvent(EventOperationCreated, op))

	s.log.Debug("created operation",
		zap.String("operation_id", op.ID.String()),
		zap.String("type", op.Type.String()),
		zap.String("state", op.State.String()),
		zap.Int("follows", len(parents)),
	)
	return op, nil
}

// Execute executes a planned operation at dtExecution (defaulting to the
// current time). The call is idempotent: executing a done operation is a
// no-op.
func (s *Service) Execute(ctx context.Context, op *Operation, dtExecution *time.Time) error {
	if op.State == StateDone {
		return nil
	}

	behavior, err := s.registry.Get(op.Type)
	if err != nil {
		return err
	}

	dt := time.Now()
	if dtExecution != nil {
		dt = *dtExecution
	}
	op.DtExecution = dt
	if op.DtStart == nil {
		op.DtStart = &dt
	}

	if err := behavior.CheckExecuteConditions(ctx, op); err != nil {
		return err
	}
	if err := behavior.ExecutePlanned(ctx, op); err != nil {
		return err
	}

	op.State = StateDone
	if err := s.ops.Save(ctx, op); err != nil {
		return err
	}
	op.AddDomainEvent(newLifecycleEvent(EventOperationExecuted, op))

	s.log.Info("executed operation",
		zap.String("operation_id", op.ID.String()),
		zap.String("type", op.Type.String()),
		zap.Time("dt_execution", dt),
	)
	return nil
}

// mergeParents unions two parent ID lists, preserving order and dropping
// duplicates.
func mergeParents(parents, extra []uuid.UUID) []uuid.UUID {
	if len(extra) == 0 {
		return parents
	}
	seen := make(map[uuid.UUID]struct{}, len(parents)+len(extra))
	merged := make([]uuid.UUID, 0, len(parents)+len(extra))
	for _, lists := range [][]uuid.UUID{parents, extra} {
		for _, id := range lists {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	return merged
}
