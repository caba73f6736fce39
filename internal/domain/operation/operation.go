package operation

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// State is the lifecycle state of an Operation
type State string

const (
	// StatePlanned means the operation is expected to happen at DtExecution
	StatePlanned State = "planned"
	// StateStarted is a reserved intermediate state; no hook currently
	// distinguishes it from planned
	StateStarted State = "started"
	// StateDone means the operation has been completed at DtExecution
	StateDone State = "done"
)

// IsValid checks if the state is valid
func (s State) IsValid() bool {
	switch s {
	case StatePlanned, StateStarted, StateDone:
		return true
	default:
		return false
	}
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// Scan implements the sql.Scanner interface
func (s *State) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	str, ok := value.(string)
	if !ok {
		if b, isBytes := value.([]byte); isBytes {
			str = string(b)
		} else {
			return fmt.Errorf("operation: cannot scan type %T into State", value)
		}
	}
	*s = State(strings.ToLower(str))
	if !s.IsValid() {
		return fmt.Errorf("operation: invalid operation state: %s", str)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s State) Value() (driver.Value, error) {
	return string(s), nil
}

// Type is the kind tag of an Operation, used for polymorphic dispatch to the
// registered Behavior.
type Type string

// Operation kinds shipped with the core. Downstream kinds register their own
// Behavior under their own tag.
const (
	TypeArrival   Type = "arrival"
	TypeMove      Type = "move"
	TypeSplit     Type = "split"
	TypeAggregate Type = "aggregate"
)

// String returns the string representation of the type
func (t Type) String() string {
	return string(t)
}

// Operation is a node of the warehousing history DAG. Edges live in the
// wms_operation_edges table: an edge parent -> child means the child follows
// the parent, i.e. the child's inputs are among the parent's outputs. Zero
// predecessors marks an initiating operation such as an Arrival.
//
// DtExecution is the actual completion time once the operation is done, and
// the expected one while it is planned or started. DtStart, when set, marks
// the operation as non-instantaneous.
type Operation struct {
	shared.BaseAggregateRoot
	Type        Type      `gorm:"size:32;not null;index"`
	State       State     `gorm:"size:16;not null;index"`
	Comment     string    `gorm:"size:1024"`
	DtExecution time.Time `gorm:"not null"`
	DtStart     *time.Time
}

// TableName returns the table name for GORM
func (Operation) TableName() string {
	return "wms_operations"
}

// IsDone reports whether the operation reached its terminal successful state
func (o *Operation) IsDone() bool {
	return o.State == StateDone
}

// Edge is one follows/followers link of the operation DAG.
type Edge struct {
	ParentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChildID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (Edge) TableName() string {
	return "wms_operation_edges"
}
