package operation

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/goods"
	"github.com/wms/backend/internal/domain/shared"
)

// AggregateBehavior merges several goods lots of identical type, location and
// properties into one. It is the inverse of Split: reverting an Aggregate
// plans the chain of Splits reproducing the recorded input quantities.
type AggregateBehavior struct {
	deps Deps
}

// NewAggregateBehavior creates the behavior handling aggregate operations
func NewAggregateBehavior(deps Deps) *AggregateBehavior {
	return &AggregateBehavior{deps: deps}
}

// OperationType returns TypeAggregate
func (b *AggregateBehavior) OperationType() Type { return TypeAggregate }

// CheckCreateConditions validates the input avatars and their uniformity:
// lots can only merge when nothing distinguishes them but quantity.
func (b *AggregateBehavior) CheckCreateConditions(ctx context.Context, state State, dtExecution time.Time, payload Payload) error {
	p, ok := payload.(AggregatePayload)
	if !ok {
		return shared.ErrInvalidArgument
	}
	if len(p.AvatarIDs) < 2 {
		return shared.ErrInvalidArgument
	}

	var reference *goods.Goods
	var referenceLocation uuid.UUID
	for _, avatarID := range p.AvatarIDs {
		if avatarID == uuid.Nil {
			return shared.ErrInvalidArgument
		}
		input, err := b.deps.Avatars.FindByID(ctx, avatarID)
		if err != nil {
			return err
		}
		if input.IsConsumed() || input.State == goods.AvatarStatePast {
			return shared.ErrOperationNotExecutable
		}
		if state == StateDone && input.State != goods.AvatarStatePresent {
			return shared.ErrOperationNotExecutable
		}
		lot, err := b.deps.Goods.FindByID(ctx, input.GoodsID)
		if err != nil {
			return err
		}
		if reference == nil {
			reference = lot
			referenceLocation = input.LocationID
			continue
		}
		if input.LocationID != referenceLocation || lot.TypeID != reference.TypeID {
			return shared.ErrOperationNotExecutable
		}
		if !propertiesMatch(reference, lot) {
			return shared.ErrOperationNotExecutable
		}
	}
	return nil
}

// propertiesMatch reports whether two lots carry indistinguishable
// properties: same record, or records with equal contents.
func propertiesMatch(a, g *goods.Goods) bool {
	if a.PropertiesID == nil || g.PropertiesID == nil {
		return a.PropertiesID == nil && g.PropertiesID == nil
	}
	if *a.PropertiesID == *g.PropertiesID {
		return true
	}
	if a.Properties == nil || g.Properties == nil {
		return false
	}
	if (a.Properties.Batch == nil) != (g.Properties.Batch == nil) {
		return false
	}
	if a.Properties.Batch != nil && *a.Properties.Batch != *g.Properties.Batch {
		return false
	}
	return reflect.DeepEqual(a.Properties.Flexible, g.Properties.Flexible)
}

// FindParentOperations returns the producers of all input avatars, without
// duplicates.
func (b *AggregateBehavior) FindParentOperations(ctx context.Context, payload Payload) ([]uuid.UUID, error) {
	p := payload.(AggregatePayload)
	seen := make(map[uuid.UUID]struct{}, len(p.AvatarIDs))
	parents := make([]uuid.UUID, 0, len(p.AvatarIDs))
	for _, avatarID := range p.AvatarIDs {
		input, err := b.deps.Avatars.FindByID(ctx, avatarID)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[input.ReasonID]; dup {
			continue
		}
		seen[input.ReasonID] = struct{}{}
		parents = append(parents, input.ReasonID)
	}
	return parents, nil
}

// AfterInsert claims the input avatars and creates the merged lot with its
// avatar.
func (b *AggregateBehavior) AfterInsert(ctx context.Context, op *Operation, payload Payload) error {
	p := payload.(AggregatePayload)

	var (
		total        int64
		typeID       uuid.UUID
		locationID   uuid.UUID
		propertiesID *uuid.UUID
	)
	for i, avatarID := range p.AvatarIDs {
		input, err := b.deps.Avatars.FindByID(ctx, avatarID)
		if err != nil {
			return err
		}
		lot, err := goodsOf(ctx, b.deps.Goods, input)
		if err != nil {
			return err
		}
		if i == 0 {
			typeID = lot.TypeID
			locationID = input.LocationID
			propertiesID = lot.PropertiesID
		}
		total += lot.Quantity
		consumeInput(op, input)
		if err := b.deps.Avatars.Save(ctx, input); err != nil {
			return err
		}
	}

	merged, err := goods.NewGoods(typeID, total)
	if err != nil {
		return err
	}
	merged.PropertiesID = propertiesID
	if err := b.deps.Goods.Save(ctx, merged); err != nil {
		return err
	}
	avatar, err := goods.NewAvatar(merged.ID, locationID, op.ID, avatarOutputState(op.State), op.DtExecution)
	if err != nil {
		return err
	}
	return b.deps.Avatars.Save(ctx, avatar)
}

// CheckExecuteConditions requires every input avatar to be present.
func (b *AggregateBehavior) CheckExecuteConditions(ctx context.Context, op *Operation) error {
	return requireInputsPresent(ctx, b.deps, op)
}

// ExecutePlanned commits the input consumptions and promotes the merged
// avatar.
func (b *AggregateBehavior) ExecutePlanned(ctx context.Context, op *Operation) error {
	if err := commitInputs(ctx, b.deps, op); err != nil {
		return err
	}
	return promoteOutputs(ctx, b.deps, op)
}

// CancelSingle deletes the merged lot and avatar and releases the inputs.
func (b *AggregateBehavior) CancelSingle(ctx context.Context, op *Operation) error {
	if err := deleteOutputs(ctx, b.deps, op, true); err != nil {
		return err
	}
	return releaseInputs(ctx, b.deps, op, false)
}

// ObliviateSingle deletes the merged lot and avatar and reinstates the input
// lots as present.
func (b *AggregateBehavior) ObliviateSingle(ctx context.Context, op *Operation) error {
	if err := deleteOutputs(ctx, b.deps, op, true); err != nil {
		return err
	}
	return releaseInputs(ctx, b.deps, op, true)
}

// IsReversible resolves reversibility from the goods type's behaviours.
func (b *AggregateBehavior) IsReversible(ctx context.Context, op *Operation) (bool, error) {
	inputs, err := b.deps.Avatars.FindByConsumer(ctx, op.ID)
	if err != nil {
		return false, err
	}
	if len(inputs) == 0 {
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
	return goodsType.IsAggregateReversible(), nil
}

// PlanRevertSingle plans the chain of splits carving the recorded input
// quantities back out of the merged lot, wherever it currently stands. The
// chain is returned in execution order: each split consumes the remainder of
// the previous one.
func (b *AggregateBehavior) PlanRevertSingle(ctx context.Context, creator OperationCreator, op *Operation, dtExecution time.Time, follows []uuid.UUID) ([]*Operation, error) {
	inputs, err := b.deps.Avatars.FindByConsumer(ctx, op.ID)
	if err != nil {
		return nil, err
	}
	if len(inputs) < 2 {
		return nil, shared.ErrOperationNotExecutable
	}
	quantities := make([]int64, len(inputs))
	var total int64
	for i := range inputs {
		lot, err := goodsOf(ctx, b.deps.Goods, &inputs[i])
		if err != nil {
			return nil, err
		}
		quantities[i] = lot.Quantity
		total += lot.Quantity
	}

	outputs, err := b.deps.Avatars.FindByReason(ctx, op.ID)
	if err != nil {
		return nil, err
	}
	if len(outputs) != 1 {
		return nil, shared.ErrOperationNotExecutable
	}
	remaining, err := b.deps.Avatars.FindCurrentByGoods(ctx, outputs[0].GoodsID)
	if err != nil {
		return nil, err
	}

	chain := make([]*Operation, 0, len(quantities)-1)
	for i := 0; i < len(quantities)-1; i++ {
		// only the first split follows the downstream reversals; the rest
		// chain through their data dependency on the previous remainder
		var extra []uuid.UUID
		if i == 0 {
			extra = follows
		}
		split, err := creator.CreateFollowing(ctx, CreateInput{
			Type:        TypeSplit,
			State:       StatePlanned,
			DtExecution: &dtExecution,
			Payload: SplitPayload{
				AvatarID: remaining.ID,
				Quantity: quantities[i],
			},
		}, extra)
		if err != nil {
			return nil, err
		}
		chain = append(chain, split)

		total -= quantities[i]
		remaining, err = b.findOutcomeByQuantity(ctx, split.ID, total)
		if err != nil {
			return nil, err
		}
	}
	return chain, nil
}

// findOutcomeByQuantity picks the outcome avatar of a split whose lot bears
// the given quantity. When both outcomes carry it they are interchangeable.
func (b *AggregateBehavior) findOutcomeByQuantity(ctx context.Context, splitID uuid.UUID, quantity int64) (*goods.Avatar, error) {
	outcomes, err := b.deps.Avatars.FindByReason(ctx, splitID)
	if err != nil {
		return nil, err
	}
	for i := range outcomes {
		lot, err := goodsOf(ctx, b.deps.Goods, &outcomes[i])
		if err != nil {
			return nil, err
		}
		if lot.Quantity == quantity {
			return &outcomes[i], nil
		}
	}
	return nil, shared.ErrOperationNotExecutable
}
