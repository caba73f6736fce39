package goods

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/wms/backend/internal/domain/shared"
)

// PropertyBatch is the only fixed property column; everything else lives in
// the flexible map. Serial numbers and expiries are flexible entries.
const PropertyBatch = "batch"

// reservedPropertyNames cannot be used as property keys because they would
// shadow structural fields of the Properties record.
var reservedPropertyNames = map[string]struct{}{
	"id":       {},
	"flexible": {},
}

// FlexibleMap is the open-ended part of a Properties record, stored as a
// JSON column.
type FlexibleMap map[string]interface{}

// Value implements the driver.Valuer interface
func (m FlexibleMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(FlexibleMap{})
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *FlexibleMap) Scan(value interface{}) error {
	if value == nil {
		*m = FlexibleMap{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("goods: cannot scan type %T into FlexibleMap", value)
	}
	return json.Unmarshal(data, m)
}

// Properties is the descriptive attribute record of one or more Goods rows.
// A record may be shared by reference across Goods known to carry identical
// characteristics; mutation of a shared record goes through
// Service.SetProperty, which duplicates it first (copy-on-write).
type Properties struct {
	shared.BaseEntity
	Batch    *string     `gorm:"size:128"`
	Flexible FlexibleMap `gorm:"type:json;not null"`
}

// TableName returns the table name for GORM
func (Properties) TableName() string {
	return "wms_goods_properties"
}

// NewProperties creates a Properties record from an initial set of values.
// Reserved names are rejected.
func NewProperties(values map[string]interface{}) (*Properties, error) {
	p := &Properties{
		BaseEntity: shared.NewBaseEntity(),
		Flexible:   make(FlexibleMap),
	}
	for name, value := range values {
		if err := p.Set(name, value); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Set sets one property, routing fixed names to their columns and the rest
// to the flexible map.
func (p *Properties) Set(name string, value interface{}) error {
	if _, reserved := reservedPropertyNames[name]; reserved {
		return shared.ErrInvalidArgument
	}
	if name == PropertyBatch {
		batch, ok := value.(string)
		if !ok {
			return shared.ErrInvalidArgument
		}
		p.Batch = &batch
		return nil
	}
	if p.Flexible == nil {
		p.Flexible = make(FlexibleMap)
	}
	p.Flexible[name] = value
	return nil
}

// Get returns one property value and whether it is set.
func (p *Properties) Get(name string) (interface{}, bool) {
	if name == PropertyBatch {
		if p.Batch == nil {
			return nil, false
		}
		return *p.Batch, true
	}
	value, ok := p.Flexible[name]
	return value, ok
}

// ToMap returns the full record as a plain map, fixed columns included.
func (p *Properties) ToMap() map[string]interface{} {
	out := map[string]interface{}{
		"id":       p.ID,
		"flexible": map[string]interface{}(p.Flexible),
	}
	if p.Batch != nil {
		out[PropertyBatch] = *p.Batch
	} else {
		out[PropertyBatch] = nil
	}
	return out
}

// Duplicate returns a copy with a fresh identity, used for copy-on-write.
func (p *Properties) Duplicate() *Properties {
	flexible := make(FlexibleMap, len(p.Flexible))
	for k, v := range p.Flexible {
		flexible[k] = v
	}
	dup := &Properties{
		BaseEntity: shared.NewBaseEntity(),
		Flexible:   flexible,
	}
	if p.Batch != nil {
		batch := *p.Batch
		dup.Batch = &batch
	}
	return dup
}
