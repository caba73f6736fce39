package operation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/goods"
	"github.com/wms/backend/internal/domain/shared"
)

// SplitBehavior partitions one goods lot in place: the input avatar is
// consumed and two fresh lots take over, one with the split-off quantity and
// one with the remainder, both at the same location and sharing the input's
// property record by reference. Total quantity is conserved at every instant,
// planned or done.
type SplitBehavior struct {
	deps Deps
}

// NewSplitBehavior creates the behavior handling split operations
func NewSplitBehavior(deps Deps) *SplitBehavior {
	return &SplitBehavior{deps: deps}
}

// OperationType returns TypeSplit
func (b *SplitBehavior) OperationType() Type { return TypeSplit }

// CheckCreateConditions validates the input avatar and that the split-off
// quantity is a proper part of the lot.
func (b *SplitBehavior) CheckCreateConditions(ctx context.Context, state State, dtExecution time.Time, payload Payload) error {
	p, ok := payload.(SplitPayload)
	if !ok {
		return shared.ErrInvalidArgument
	}
	if p.AvatarID == uuid.Nil || p.Quantity <= 0 {
		return shared.ErrInvalidArgument
	}
	input, err := b.deps.Avatars.FindByID(ctx, p.AvatarID)
	if err != nil {
		return err
	}
	if input.IsConsumed() || input.State == goods.AvatarStatePast {
		return shared.ErrOperationNotExecutable
	}
	if state == StateDone && input.State != goods.AvatarStatePresent {
		return shared.ErrOperationNotExecutable
	}
	lot, err := goodsOf(ctx, b.deps.Goods, input)
	if err != nil {
		return err
	}
	if p.Quantity >= lot.Quantity {
		return shared.ErrOperationNotExecutable
	}
	return nil
}

// FindParentOperations returns the operation that produced the input avatar.
func (b *SplitBehavior) FindParentOperations(ctx context.Context, payload Payload) ([]uuid.UUID, error) {
	p := payload.(SplitPayload)
	input, err := b.deps.Avatars.FindByID(ctx, p.AvatarID)
	if err != nil {
		return nil, err
	}
	return []uuid.UUID{input.ReasonID}, nil
}

// AfterInsert claims the input avatar and creates the two outcome lots with
// their avatars.
func (b *SplitBehavior) AfterInsert(ctx context.Context, op *Operation, payload Payload) error {
	p := payload.(SplitPayload)
	input, err := b.deps.Avatars.FindByID(ctx, p.AvatarID)
	if err != nil {
		return err
	}
	lot, err := goodsOf(ctx, b.deps.Goods, input)
	if err != nil {
		return err
	}

	consumeInput(op, input)
	if err := b.deps.Avatars.Save(ctx, input); err != nil {
		return err
	}

	for _, quantity := range []int64{p.Quantity, lot.Quantity - p.Quantity} {
		outcome, err := goods.NewGoods(lot.TypeID, quantity)
		if err != nil {
			return err
		}
		outcome.PropertiesID = lot.PropertiesID
		if err := b.deps.Goods.Save(ctx, outcome); err != nil {
			return err
		}
		avatar, err := goods.NewAvatar(outcome.ID, input.LocationID, op.ID, avatarOutputState(op.State), op.DtExecution)
		if err != nil {
			return err
		}
		if err := b.deps.Avatars.Save(ctx, avatar); err != nil {
			return err
		}
	}
	return nil
}

// CheckExecuteConditions requires the input avatar to be present.
func (b *SplitBehavior) CheckExecuteConditions(ctx context.Context, op *Operation) error {
	return requireInputsPresent(ctx, b.deps, op)
}

// ExecutePlanned commits the input consumption and promotes the outcome
// avatars.
func (b *SplitBehavior) ExecutePlanned(ctx context.Context, op *Operation) error {
	if err := commitInputs(ctx, b.deps, op); err != nil {
		return err
	}
	return promoteOutputs(ctx, b.deps, op)
}

// CancelSingle deletes the outcome lots and avatars and releases the input.
func (b *SplitBehavior) CancelSingle(ctx context.Context, op *Operation) error {
	if err := deleteOutputs(ctx, b.deps, op, true); err != nil {
		return err
	}
	return releaseInputs(ctx, b.deps, op, false)
}

// ObliviateSingle deletes the outcome lots and avatars and reinstates the
// input lot as present.
func (b *SplitBehavior) ObliviateSingle(ctx context.Context, op *Operation) error {
	if err := deleteOutputs(ctx, b.deps, op, true); err != nil {
		return err
	}
	return releaseInputs(ctx, b.deps, op, true)
}

// IsReversible resolves reversibility from the goods type's behaviours.
func (b *SplitBehavior) IsReversible(ctx context.Context, op *Operation) (bool, error) {
	inputs, err := b.deps.Avatars.FindByConsumer(ctx, op.ID)
	if err != nil {
		return false, err
	}
	if len(inputs) != 1 {
		return false, shared.ErrOperationNotExecutable
	}
	lot, err := goodsOf(ctx, b.deps.Goods, &inputs[0])
	if err != nil {
		return false, err
	}
	goodsType, err := b.deps.Types.FindByID(ctx, lot.TypeID)
	if err != nil {
		return false, err
	}
	return goodsType.IsSplitReversible(), nil
}

// PlanRevertSingle plans an aggregate of the outcome lots, wherever they
// currently stand.
func (b *SplitBehavior) PlanRevertSingle(ctx context.Context, creator OperationCreator, op *Operation, dtExecution time.Time, follows []uuid.UUID) ([]*Operation, error) {
	outputs, err := b.deps.Avatars.FindByReason(ctx, op.ID)
	if err != nil {
		return nil, err
	}
	avatarIDs := make([]uuid.UUID, 0, len(outputs))
	for i := range outputs {
		current, err := b.deps.Avatars.FindCurrentByGoods(ctx, outputs[i].GoodsID)
		if err != nil {
			return nil, err
		}
		avatarIDs = append(avatarIDs, current.ID)
	}
	rev, err := creator.CreateFollowing(ctx, CreateInput{
		Type:        TypeAggregate,
		State:       StatePlanned,
		DtExecution: &dtExecution,
		Payload:     AggregatePayload{AvatarIDs: avatarIDs},
	}, follows)
	if err != nil {
		return nil, err
	}
	return []*Operation{rev}, nil
}
