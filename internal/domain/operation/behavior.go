package operation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/goods"
	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/shared"
)

// Payload carries the subtype-specific fields of a creation request.
type Payload interface {
	// OperationType returns the kind of operation the payload is for
	OperationType() Type
}

// ArrivalPayload describes goods entering the tracked warehouse.
type ArrivalPayload struct {
	GoodsTypeID uuid.UUID
	LocationID  uuid.UUID
	Quantity    int64
	// Properties, when non-empty, becomes the arrived goods' property record
	Properties map[string]interface{}
}

// OperationType returns TypeArrival
func (ArrivalPayload) OperationType() Type { return TypeArrival }

// MovePayload describes relocating one whole avatar to a destination.
type MovePayload struct {
	AvatarID      uuid.UUID
	DestinationID uuid.UUID
}

// OperationType returns TypeMove
func (MovePayload) OperationType() Type { return TypeMove }

// SplitPayload describes partitioning an avatar's goods lot, splitting off
// Quantity into a new lot at the same location.
type SplitPayload struct {
	AvatarID uuid.UUID
	Quantity int64
}

// OperationType returns TypeSplit
func (SplitPayload) OperationType() Type { return TypeSplit }

// AggregatePayload describes merging several avatars' goods lots into one.
type AggregatePayload struct {
	AvatarIDs []uuid.UUID
}

// OperationType returns TypeAggregate
func (AggregatePayload) OperationType() Type { return TypeAggregate }

// OperationCreator creates operations whose predecessor set is the union of
// the payload's data dependencies and explicitly supplied extra parents.
// Reversal planning needs the extra parents: a reversal must follow the
// reversals of the followers of the operation it reverts.
type OperationCreator interface {
	CreateFollowing(ctx context.Context, in CreateInput, follows []uuid.UUID) (*Operation, error)
}

// Behavior is the contract every operation kind implements. The lifecycle
// service owns state guards and timestamp bookkeeping and delegates all
// physically-specific effects here, dispatching on the stored type tag.
//
// Hook implementations report unmet preconditions with
// shared.ErrOperationNotExecutable and must not touch operation state.
type Behavior interface {
	// OperationType returns the kind this behavior handles
	OperationType() Type

	// CheckCreateConditions validates that the operation is doable before
	// anything is persisted
	CheckCreateConditions(ctx context.Context, state State, dtExecution time.Time, payload Payload) error

	// FindParentOperations resolves the operations this one follows from its
	// input avatars, never from caller assertion
	FindParentOperations(ctx context.Context, payload Payload) ([]uuid.UUID, error)

	// AfterInsert creates or claims the affected avatars, future-dated when
	// the operation is planned, present-dated when it is done
	AfterInsert(ctx context.Context, op *Operation, payload Payload) error

	// CheckExecuteConditions validates that a planned operation can be
	// executed now
	CheckExecuteConditions(ctx context.Context, op *Operation) error

	// ExecutePlanned applies the consequences of execution, correcting the
	// avatar time bounds to the actual execution time in op.DtExecution
	ExecutePlanned(ctx context.Context, op *Operation) error

	// CancelSingle undoes the planned-only consequences of the operation,
	// assuming followers are already gone
	CancelSingle(ctx context.Context, op *Operation) error

	// ObliviateSingle undoes all consequences of a done operation, assuming
	// followers are already gone
	ObliviateSingle(ctx context.Context, op *Operation) error

	// IsReversible tells whether the operation can in principle be reverted
	IsReversible(ctx context.Context, op *Operation) (bool, error)

	// PlanRevertSingle plans the operations reverting this one, following
	// the given reversals of its followers. The returned slice is in
	// execution order; its last element is the reversal node proper.
	PlanRevertSingle(ctx context.Context, creator OperationCreator, op *Operation, dtExecution time.Time, follows []uuid.UUID) ([]*Operation, error)
}

// Deps bundles the repositories behaviors work against.
type Deps struct {
	Operations Repository
	Goods      goods.Repository
	Types      goods.TypeRepository
	Properties goods.PropertiesRepository
	Avatars    goods.AvatarRepository
	Locations  location.Repository
}

// IrreversibleBehavior is an embeddable default for operation kinds that
// cannot be reverted.
type IrreversibleBehavior struct{}

// IsReversible returns false
func (IrreversibleBehavior) IsReversible(context.Context, *Operation) (bool, error) {
	return false, nil
}

// PlanRevertSingle fails with ErrOperationIrreversible
func (IrreversibleBehavior) PlanRevertSingle(context.Context, OperationCreator, *Operation, time.Time, []uuid.UUID) ([]*Operation, error) {
	return nil, shared.ErrOperationIrreversible
}

// Registry dispatches type tags to their Behavior.
type Registry struct {
	behaviors map[Type]Behavior
}

// NewRegistry creates an empty behavior registry
func NewRegistry() *Registry {
	return &Registry{behaviors: make(map[Type]Behavior)}
}

// Register adds a behavior under its own type tag, replacing any previous
// registration.
func (r *Registry) Register(b Behavior) {
	r.behaviors[b.OperationType()] = b
}

// Get returns the behavior for a type tag. An unregistered tag is caller
// input like any other and reports as ErrInvalidArgument.
func (r *Registry) Get(t Type) (Behavior, error) {
	b, ok := r.behaviors[t]
	if !ok {
		return nil, fmt.Errorf("no behavior registered for operation type %q: %w", t.String(), shared.ErrInvalidArgument)
	}
	return b, nil
}

// NewCoreRegistry creates a registry with the operation kinds shipped with
// the core.
func NewCoreRegistry(deps Deps) *Registry {
	r := NewRegistry()
	r.Register(NewArrivalBehavior(deps))
	r.Register(NewMoveBehavior(deps))
	r.Register(NewSplitBehavior(deps))
	r.Register(NewAggregateBehavior(deps))
	return r
}
