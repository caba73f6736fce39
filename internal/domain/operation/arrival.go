package operation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/goods"
	"github.com/wms/backend/internal/domain/shared"
)

// ArrivalBehavior brings goods into the tracked warehouse. It is the
// initiating operation of most histories: it follows nothing, and since the
// goods came from outside there is nothing to revert them to.
type ArrivalBehavior struct {
	IrreversibleBehavior
	deps Deps
}

// NewArrivalBehavior creates the behavior handling arrival operations
func NewArrivalBehavior(deps Deps) *ArrivalBehavior {
	return &ArrivalBehavior{deps: deps}
}

// OperationType returns TypeArrival
func (b *ArrivalBehavior) OperationType() Type { return TypeArrival }

// CheckCreateConditions validates the declared goods type, location and
// quantity.
func (b *ArrivalBehavior) CheckCreateConditions(ctx context.Context, state State, dtExecution time.Time, payload Payload) error {
	p, ok := payload.(ArrivalPayload)
	if !ok {
		return shared.ErrInvalidArgument
	}
	if p.GoodsTypeID == uuid.Nil || p.LocationID == uuid.Nil || p.Quantity <= 0 {
		return shared.ErrInvalidArgument
	}
	if _, err := b.deps.Types.FindByID(ctx, p.GoodsTypeID); err != nil {
		return err
	}
	if _, err := b.deps.Locations.FindByID(ctx, p.LocationID); err != nil {
		return err
	}
	return nil
}

// FindParentOperations returns nothing: arrivals initiate histories
func (b *ArrivalBehavior) FindParentOperations(ctx context.Context, payload Payload) ([]uuid.UUID, error) {
	return nil, nil
}

// AfterInsert creates the arriving goods lot and its first avatar.
func (b *ArrivalBehavior) AfterInsert(ctx context.Context, op *Operation, payload Payload) error {
	p := payload.(ArrivalPayload)

	lot, err := goods.NewGoods(p.GoodsTypeID, p.Quantity)
	if err != nil {
		return err
	}
	if len(p.Properties) > 0 {
		props, err := goods.NewProperties(p.Properties)
		if err != nil {
			return err
		}
		if err := b.deps.Properties.Save(ctx, props); err != nil {
			return err
		}
		lot.AttachProperties(props)
	}
	if err := b.deps.Goods.Save(ctx, lot); err != nil {
		return err
	}

	avatar, err := goods.NewAvatar(lot.ID, p.LocationID, op.ID, avatarOutputState(op.State), op.DtExecution)
	if err != nil {
		return err
	}
	return b.deps.Avatars.Save(ctx, avatar)
}

// CheckExecuteConditions always passes: an arrival has no inputs to check
func (b *ArrivalBehavior) CheckExecuteConditions(ctx context.Context, op *Operation) error {
	return nil
}

// ExecutePlanned promotes the arrived avatar to present.
func (b *ArrivalBehavior) ExecutePlanned(ctx context.Context, op *Operation) error {
	return promoteOutputs(ctx, b.deps, op)
}

// CancelSingle removes the anticipated goods lot and avatar.
func (b *ArrivalBehavior) CancelSingle(ctx context.Context, op *Operation) error {
	return deleteOutputs(ctx, b.deps, op, true)
}

// ObliviateSingle removes the arrived goods lot and avatar from the record.
func (b *ArrivalBehavior) ObliviateSingle(ctx context.Context, op *Operation) error {
	return deleteOutputs(ctx, b.deps, op, true)
}
