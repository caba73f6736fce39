package operation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/goods"
	"github.com/wms/backend/internal/domain/shared"
)

// MoveBehavior relocates one whole avatar to another location. Partial moves
// are a Split followed by a Move; the application layer offers that as a
// single call.
type MoveBehavior struct {
	deps Deps
}

// NewMoveBehavior creates the behavior handling move operations
func NewMoveBehavior(deps Deps) *MoveBehavior {
	return &MoveBehavior{deps: deps}
}

// OperationType returns TypeMove
func (b *MoveBehavior) OperationType() Type { return TypeMove }

// CheckCreateConditions validates the input avatar and destination. The
// avatar must be unclaimed, and physically there already when the move is
// registered as done.
func (b *MoveBehavior) CheckCreateConditions(ctx context.Context, state State, dtExecution time.Time, payload Payload) error {
	p, ok := payload.(MovePayload)
	if !ok {
		return shared.ErrInvalidArgument
	}
	if p.AvatarID == uuid.Nil || p.DestinationID == uuid.Nil {
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
	if _, err := b.deps.Locations.FindByID(ctx, p.DestinationID); err != nil {
		return err
	}
	return nil
}

// FindParentOperations returns the operation that produced the input avatar.
func (b *MoveBehavior) FindParentOperations(ctx context.Context, payload Payload) ([]uuid.UUID, error) {
	p := payload.(MovePayload)
	input, err := b.deps.Avatars.FindByID(ctx, p.AvatarID)
	if err != nil {
		return nil, err
	}
	return []uuid.UUID{input.ReasonID}, nil
}

// AfterInsert claims the input avatar and creates its successor at the
// destination.
func (b *MoveBehavior) AfterInsert(ctx context.Context, op *Operation, payload Payload) error {
	p := payload.(MovePayload)
	input, err := b.deps.Avatars.FindByID(ctx, p.AvatarID)
	if err != nil {
		return err
	}
	consumeInput(op, input)
	if err := b.deps.Avatars.Save(ctx, input); err != nil {
		return err
	}

	output, err := goods.NewAvatar(input.GoodsID, p.DestinationID, op.ID, avatarOutputState(op.State), op.DtExecution)
	if err != nil {
		return err
	}
	return b.deps.Avatars.Save(ctx, output)
}

// CheckExecuteConditions requires the input avatar to be present.
func (b *MoveBehavior) CheckExecuteConditions(ctx context.Context, op *Operation) error {
	return requireInputsPresent(ctx, b.deps, op)
}

// ExecutePlanned commits the input consumption and promotes the output.
func (b *MoveBehavior) ExecutePlanned(ctx context.Context, op *Operation) error {
	if err := commitInputs(ctx, b.deps, op); err != nil {
		return err
	}
	return promoteOutputs(ctx, b.deps, op)
}

// CancelSingle deletes the anticipated output avatar and releases the input.
// The goods lot itself predates the move and stays.
func (b *MoveBehavior) CancelSingle(ctx context.Context, op *Operation) error {
	if err := deleteOutputs(ctx, b.deps, op, false); err != nil {
		return err
	}
	return releaseInputs(ctx, b.deps, op, false)
}

// ObliviateSingle deletes the output avatar and reinstates the input as
// present where it was.
func (b *MoveBehavior) ObliviateSingle(ctx context.Context, op *Operation) error {
	if err := deleteOutputs(ctx, b.deps, op, false); err != nil {
		return err
	}
	return releaseInputs(ctx, b.deps, op, true)
}

// IsReversible always returns true: moving goods back is always possible
func (b *MoveBehavior) IsReversible(ctx context.Context, op *Operation) (bool, error) {
	return true, nil
}

// PlanRevertSingle plans a move of the goods back to where the input avatar
// stood. It targets the goods' current avatar, which may differ from this
// move's output if something downstream relocated them since.
func (b *MoveBehavior) PlanRevertSingle(ctx context.Context, creator OperationCreator, op *Operation, dtExecution time.Time, follows []uuid.UUID) ([]*Operation, error) {
	inputs, err := b.deps.Avatars.FindByConsumer(ctx, op.ID)
	if err != nil {
		return nil, err
	}
	if len(inputs) != 1 {
		return nil, shared.ErrOperationNotExecutable
	}
	current, err := b.deps.Avatars.FindCurrentByGoods(ctx, inputs[0].GoodsID)
	if err != nil {
		return nil, err
	}
	rev, err := creator.CreateFollowing(ctx, CreateInput{
		Type:        TypeMove,
		State:       StatePlanned,
		DtExecution: &dtExecution,
		Payload: MovePayload{
			AvatarID:      current.ID,
			DestinationID: inputs[0].LocationID,
		},
	}, follows)
	if err != nil {
		return nil, err
	}
	return []*Operation{rev}, nil
}
