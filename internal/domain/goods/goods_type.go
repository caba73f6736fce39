package goods

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/wms/backend/internal/domain/shared"
)

// Behaviour names recognized by the core. Behaviours are an open mapping:
// downstream operation kinds may define their own entries.
const (
	// BehaviourSplit and BehaviourAggregate hold per-kind policy parameters,
	// notably {"reversible": true} to override the physical flag.
	BehaviourSplit     = "split"
	BehaviourAggregate = "aggregate"

	// BehaviourSplitAggregatePhysical marks types whose Split and Aggregate
	// operations change physical reality (e.g. cutting a cable) and are
	// therefore irreversible unless a per-kind override says otherwise.
	BehaviourSplitAggregatePhysical = "split_aggregate_physical"
)

// BehaviourMap is an open mapping of named policies to policy parameters,
// stored as a JSON column.
type BehaviourMap map[string]interface{}

// Value implements the driver.Valuer interface
func (m BehaviourMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *BehaviourMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("goods: cannot scan type %T into BehaviourMap", value)
	}
	return json.Unmarshal(data, m)
}

// Type declares the structural behaviours of a kind of goods.
type Type struct {
	shared.BaseAggregateRoot
	Code       string       `gorm:"size:64;not null;uniqueIndex"`
	Label      string       `gorm:"size:255"`
	Behaviours BehaviourMap `gorm:"type:json"`
}

// TableName returns the table name for GORM
func (Type) TableName() string {
	return "wms_goods_types"
}

// NewType creates a new goods type
func NewType(code, label string) (*Type, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_TYPE_CODE", "Goods type code cannot be empty")
	}
	return &Type{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Label:             label,
	}, nil
}

// SetBehaviour sets a named behaviour policy
func (t *Type) SetBehaviour(name string, params interface{}) {
	if t.Behaviours == nil {
		t.Behaviours = make(BehaviourMap)
	}
	t.Behaviours[name] = params
}

// IsSplitReversible tells whether Split operations on this type can be
// reverted.
func (t *Type) IsSplitReversible() bool {
	return t.kindReversible(BehaviourSplit)
}

// IsAggregateReversible tells whether Aggregate operations on this type can
// be reverted.
func (t *Type) IsAggregateReversible() bool {
	return t.kindReversible(BehaviourAggregate)
}

// kindReversible resolves reversibility for one operation kind: an explicit
// per-kind "reversible" parameter wins, then the physical flag forces false,
// and the default is true.
func (t *Type) kindReversible(kind string) bool {
	if t.Behaviours == nil {
		return true
	}
	if params, ok := t.Behaviours[kind].(map[string]interface{}); ok {
		if reversible, ok := params["reversible"].(bool); ok {
			return reversible
		}
	}
	if physical, ok := t.Behaviours[BehaviourSplitAggregatePhysical].(bool); ok && physical {
		return false
	}
	return true
}
