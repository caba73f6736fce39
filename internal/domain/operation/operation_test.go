package operation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/shared"
)

// TestState tests operation state parsing
func TestState(t *testing.T) {
	t.Run("IsValid accepts the lifecycle states", func(t *testing.T) {
		assert.True(t, StatePlanned.IsValid())
		assert.True(t, StateStarted.IsValid())
		assert.True(t, StateDone.IsValid())
		assert.False(t, State("cancelled").IsValid())
	})

	t.Run("Scan normalizes case and validates", func(t *testing.T) {
		var s State
		require.NoError(t, s.Scan("DONE"))
		assert.Equal(t, StateDone, s)

		assert.Error(t, s.Scan("void"))
	})
}

// TestPayloads tests that each payload reports its own kind
func TestPayloads(t *testing.T) {
	assert.Equal(t, TypeArrival, ArrivalPayload{}.OperationType())
	assert.Equal(t, TypeMove, MovePayload{}.OperationType())
	assert.Equal(t, TypeSplit, SplitPayload{}.OperationType())
	assert.Equal(t, TypeAggregate, AggregatePayload{}.OperationType())
}

// TestRegistry tests behavior dispatch
func TestRegistry(t *testing.T) {
	t.Run("core registry knows the shipped kinds", func(t *testing.T) {
		r := NewCoreRegistry(Deps{})

		for _, kind := range []Type{TypeArrival, TypeMove, TypeSplit, TypeAggregate} {
			b, err := r.Get(kind)
			require.NoError(t, err, kind)
			assert.Equal(t, kind, b.OperationType())
		}
	})

	t.Run("unknown kind reports as invalid argument", func(t *testing.T) {
		r := NewRegistry()

		_, err := r.Get(Type("teleport"))
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
		assert.Contains(t, err.Error(), "teleport")
	})
}

// TestIrreversibleBehavior tests the embeddable irreversible default
func TestIrreversibleBehavior(t *testing.T) {
	var b IrreversibleBehavior

	reversible, err := b.IsReversible(context.Background(), &Operation{})
	require.NoError(t, err)
	assert.False(t, reversible)

	_, err = b.PlanRevertSingle(context.Background(), nil, &Operation{}, time.Now(), nil)
	assert.ErrorIs(t, err, shared.ErrOperationIrreversible)
}

// TestLifecycleEvent tests the event recorded on operation state changes
func TestLifecycleEvent(t *testing.T) {
	op := &Operation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              TypeMove,
		State:             StateDone,
	}

	ev := newLifecycleEvent(EventOperationExecuted, op)

	assert.Equal(t, EventOperationExecuted, ev.EventType())
	assert.Equal(t, op.ID, ev.AggregateID())
	assert.Equal(t, "operation", ev.AggregateType())
	assert.Equal(t, TypeMove, ev.OperationType)
	assert.Equal(t, StateDone, ev.State)
	assert.NotEqual(t, uuid.Nil, ev.EventID())
	assert.False(t, ev.OccurredAt().IsZero())

	op.AddDomainEvent(ev)
	require.Len(t, op.GetDomainEvents(), 1)
	op.ClearDomainEvents()
	assert.Empty(t, op.GetDomainEvents())
}

// TestMergeParents tests the predecessor union used by reversal planning
func TestMergeParents(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	t.Run("no extras returns parents unchanged", func(t *testing.T) {
		parents := []uuid.UUID{a, b}
		assert.Equal(t, parents, mergeParents(parents, nil))
	})

	t.Run("extras are appended after parents", func(t *testing.T) {
		assert.Equal(t, []uuid.UUID{a, c}, mergeParents([]uuid.UUID{a}, []uuid.UUID{c}))
	})

	t.Run("duplicates are dropped, first occurrence wins", func(t *testing.T) {
		merged := mergeParents([]uuid.UUID{a, b}, []uuid.UUID{b, c, a})
		assert.Equal(t, []uuid.UUID{a, b, c}, merged)
	})
}
