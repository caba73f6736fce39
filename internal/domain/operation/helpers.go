package operation

import (
	"context"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/goods"
	"github.com/wms/backend/internal/domain/shared"
)

// avatarOutputState is the state newly produced avatars get: future for a
// plan, present for an already-done operation.
func avatarOutputState(state State) goods.AvatarState {
	if state == StateDone {
		return goods.AvatarStatePresent
	}
	return goods.AvatarStateFuture
}

// consumeInput claims one avatar as input of the operation, theoretically
// when planned, definitively when done.
func consumeInput(op *Operation, in *goods.Avatar) {
	if op.State == StateDone {
		in.CommitConsumption(op.ID, op.DtExecution)
	} else {
		in.PlanConsumption(op.ID, op.DtExecution)
	}
}

// goodsOf returns the goods lot of an avatar, using the preloaded association
// when present.
func goodsOf(ctx context.Context, repo goods.Repository, av *goods.Avatar) (*goods.Goods, error) {
	if av.Goods != nil {
		return av.Goods, nil
	}
	return repo.FindByID(ctx, av.GoodsID)
}

// commitInputs closes the consumption of every input avatar of the operation
// at the actual execution time.
func commitInputs(ctx context.Context, deps Deps, op *Operation) error {
	inputs, err := deps.Avatars.FindByConsumer(ctx, op.ID)
	if err != nil {
		return err
	}
	for i := range inputs {
		inputs[i].CommitConsumption(op.ID, op.DtExecution)
		if err := deps.Avatars.Save(ctx, &inputs[i]); err != nil {
			return err
		}
	}
	return nil
}

// promoteOutputs turns every future avatar produced by the operation into a
// present one at the actual execution time.
func promoteOutputs(ctx context.Context, deps Deps, op *Operation) error {
	outputs, err := deps.Avatars.FindByReason(ctx, op.ID)
	if err != nil {
		return err
	}
	for i := range outputs {
		outputs[i].Promote(op.DtExecution)
		if err := deps.Avatars.Save(ctx, &outputs[i]); err != nil {
			return err
		}
	}
	return nil
}

// requireInputsPresent fails with ErrOperationNotExecutable unless every
// input avatar of the operation is physically there.
func requireInputsPresent(ctx context.Context, deps Deps, op *Operation) error {
	inputs, err := deps.Avatars.FindByConsumer(ctx, op.ID)
	if err != nil {
		return err
	}
	for i := range inputs {
		if inputs[i].State != goods.AvatarStatePresent {
			return shared.ErrOperationNotExecutable
		}
	}
	return nil
}

// releaseInputs reopens the input avatars after the operation is cancelled
// or obliviated. Reinstate additionally restores them to present, for inputs
// a done operation had sent to the past.
func releaseInputs(ctx context.Context, deps Deps, op *Operation, reinstate bool) error {
	inputs, err := deps.Avatars.FindByConsumer(ctx, op.ID)
	if err != nil {
		return err
	}
	for i := range inputs {
		if reinstate {
			inputs[i].Reinstate()
		} else {
			inputs[i].ReleaseConsumption()
		}
		if err := deps.Avatars.Save(ctx, &inputs[i]); err != nil {
			return err
		}
	}
	return nil
}

// deleteOutputs removes the avatars the operation produced, and with
// withGoods the goods lots the operation had brought into existence.
func deleteOutputs(ctx context.Context, deps Deps, op *Operation, withGoods bool) error {
	outputs, err := deps.Avatars.FindByReason(ctx, op.ID)
	if err != nil {
		return err
	}
	goodsIDs := make([]uuid.UUID, 0, len(outputs))
	for i := range outputs {
		if err := deps.Avatars.Delete(ctx, outputs[i].ID); err != nil {
			return err
		}
		goodsIDs = append(goodsIDs, outputs[i].GoodsID)
	}
	if !withGoods {
		return nil
	}
	for _, id := range goodsIDs {
		if err := deps.Goods.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
