package operation

import (
	"github.com/wms/backend/internal/domain/shared"
)

// Lifecycle event types recorded on the operation aggregate. The application
// layer drains and publishes them once the surrounding transaction is
// through.
const (
	EventOperationCreated       = "operation.created"
	EventOperationExecuted      = "operation.executed"
	EventOperationCancelled     = "operation.cancelled"
	EventOperationObliviated    = "operation.obliviated"
	EventOperationRevertPlanned = "operation.revert_planned"
)

// LifecycleEvent records one state change of an operation.
type LifecycleEvent struct {
	shared.BaseDomainEvent
	OperationType Type
	State         State
}

func newLifecycleEvent(eventType string, op *Operation) *LifecycleEvent {
	return &LifecycleEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "operation", op.ID),
		OperationType:   op.Type,
		State:           op.State,
	}
}
