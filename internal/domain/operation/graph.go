package operation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// frame is one entry of the explicit DAG traversal stack. A node is pushed
// once unexpanded to discover its followers and once expanded to be acted
// upon after all of them, giving post-order without recursion.
type frame struct {
	id       uuid.UUID
	expanded bool
}

// Cancel removes a planned operation together with every operation planned
// after it, follower-first, and releases the avatars they had claimed or
// created. Callers are expected to wrap it in a transaction.
func (s *Service) Cancel(ctx context.Context, op *Operation) error {
	if op.State != StatePlanned {
		return shared.ErrInvalidStateTransition
	}

	stack := []frame{{id: op.ID}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !f.expanded {
			followers, err := s.ops.Followers(ctx, f.id)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					continue
				}
				return err
			}
			stack = append(stack, frame{id: f.id, expanded: true})
			for _, fo := range followers {
				stack = append(stack, frame{id: fo.ID})
			}
			continue
		}

		// with diamonds in the DAG the node may already be gone
		node, err := s.ops.FindByID(ctx, f.id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return err
		}

		behavior, err := s.registry.Get(node.Type)
		if err != nil {
			return err
		}
		if err := behavior.CancelSingle(ctx, node); err != nil {
			return err
		}
		if err := s.ops.ClearFollows(ctx, node.ID); err != nil {
			return err
		}
		if err := s.ops.Delete(ctx, node.ID); err != nil {
			return err
		}
		s.log.Debug("cancelled operation",
			zap.String("operation_id", node.ID.String()),
			zap.String("type", node.Type.String()),
		)
	}

	op.AddDomainEvent(newLifecycleEvent(EventOperationCancelled, op))
	s.log.Info("cancelled operation tree", zap.String("operation_id", op.ID.String()))
	return nil
}

// Obliviate erases a done operation and everything downstream of it from the
// record, as if none of it had ever been registered. Avatars consumed by the
// erased operations become present and open again; avatars they produced are
// deleted. Planned descendants are unwound the same way cancellation unwinds
// them.
func (s *Service) Obliviate(ctx context.Context, op *Operation) error {
	if op.State != StateDone {
		return shared.ErrInvalidStateTransition
	}

	stack := []frame{{id: op.ID}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !f.expanded {
			followers, err := s.ops.Followers(ctx, f.id)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					continue
				}
				return err
			}
			stack = append(stack, frame{id: f.id, expanded: true})
			for _, fo := range followers {
				stack = append(stack, frame{id: fo.ID})
			}
			continue
		}

		node, err := s.ops.FindByID(ctx, f.id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return err
		}

		behavior, err := s.registry.Get(node.Type)
		if err != nil {
			return err
		}
		if node.State == StateDone {
			err = behavior.ObliviateSingle(ctx, node)
		} else {
			err = behavior.CancelSingle(ctx, node)
		}
		if err != nil {
			return err
		}
		if err := s.ops.ClearFollows(ctx, node.ID); err != nil {
			return err
		}
		if err := s.ops.Delete(ctx, node.ID); err != nil {
			return err
		}
		s.log.Debug("obliviated operation",
			zap.String("operation_id", node.ID.String()),
			zap.String("state", node.State.String()),
			zap.String("type", node.Type.String()),
		)
	}

	op.AddDomainEvent(newLifecycleEvent(EventOperationObliviated, op))
	s.log.Info("obliviated operation tree", zap.String("operation_id", op.ID.String()))
	return nil
}

// PlanRevert plans the operations bringing the goods back to the state they
// were in before the given done operation and everything downstream of it.
// The reversal of each node follows the reversals of its followers, so the
// plan executes follower-first.
//
// It returns the reversal of op itself and the leaves of the reversal plan,
// i.e. the reversals that are executable immediately. Consistency on failure
// is the caller's transaction's concern: an irreversible node found midway
// leaves already-planned reversals behind.
func (s *Service) PlanRevert(ctx context.Context, op *Operation, dtExecution time.Time) (*Operation, []*Operation, error) {
	if op.State != StateDone {
		return nil, nil, shared.ErrInvalidStateTransition
	}

	var (
		reversal *Operation
		leaves   []*Operation
		revertOf = make(map[uuid.UUID]uuid.UUID)
	)

	stack := []frame{{id: op.ID}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, planned := revertOf[f.id]; planned {
			continue
		}

		if !f.expanded {
			followers, err := s.ops.Followers(ctx, f.id)
			if err != nil {
				return nil, nil, err
			}
			stack = append(stack, frame{id: f.id, expanded: true})
			for _, fo := range followers {
				stack = append(stack, frame{id: fo.ID})
			}
			continue
		}

		node, err := s.ops.FindByID(ctx, f.id)
		if err != nil {
			return nil, nil, err
		}
		if node.State != StateDone {
			// planned descendants have nothing to revert; cancel them first
			return nil, nil, shared.ErrInvalidStateTransition
		}

		behavior, err := s.registry.Get(node.Type)
		if err != nil {
			return nil, nil, err
		}
		reversible, err := behavior.IsReversible(ctx, node)
		if err != nil {
			return nil, nil, err
		}
		if !reversible {
			return nil, nil, shared.ErrOperationIrreversible
		}

		followers, err := s.ops.Followers(ctx, node.ID)
		if err != nil {
			return nil, nil, err
		}
		follows := make([]uuid.UUID, 0, len(followers))
		for _, fo := range followers {
			follows = append(follows, revertOf[fo.ID])
		}

		chain, err := behavior.PlanRevertSingle(ctx, s, node, dtExecution, follows)
		if err != nil {
			return nil, nil, err
		}
		nodeReversal := chain[len(chain)-1]
		revertOf[node.ID] = nodeReversal.ID
		if len(followers) == 0 {
			leaves = append(leaves, chain[0])
		}
		if node.ID == op.ID {
			reversal = nodeReversal
		}
		s.log.Debug("planned reversal",
			zap.String("operation_id", node.ID.String()),
			zap.String("reversal_id", nodeReversal.ID.String()),
			zap.Int("chain_length", len(chain)),
		)
	}

	op.AddDomainEvent(newLifecycleEvent(EventOperationRevertPlanned, op))
	s.log.Info("planned revert",
		zap.String("operation_id", op.ID.String()),
		zap.String("reversal_id", reversal.ID.String()),
		zap.Int("leaves", len(leaves)),
	)
	return reversal, leaves, nil
}
