package goods

import (
	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// Goods is a lot of physical stock of one declared type. Where and when it
// exists is not recorded here but on its Avatars.
type Goods struct {
	shared.BaseAggregateRoot
	TypeID       uuid.UUID   `gorm:"type:uuid;not null;index"`
	Type         *Type       `gorm:"foreignKey:TypeID"`
	Quantity     int64       `gorm:"not null"`
	PropertiesID *uuid.UUID  `gorm:"type:uuid;index"`
	Properties   *Properties `gorm:"foreignKey:PropertiesID"`
}

// TableName returns the table name for GORM
func (Goods) TableName() string {
	return "wms_goods"
}

// NewGoods creates a new goods lot
func NewGoods(typeID uuid.UUID, quantity int64) (*Goods, error) {
	if typeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_GOODS_TYPE", "Goods type ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Goods quantity must be positive")
	}
	return &Goods{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TypeID:            typeID,
		Quantity:          quantity,
	}, nil
}

// AttachProperties links a Properties record, shared or owned.
func (g *Goods) AttachProperties(p *Properties) {
	g.Properties = p
	if p == nil {
		g.PropertiesID = nil
		return
	}
	id := p.ID
	g.PropertiesID = &id
}

// GetProperty returns a property value, or nil if unset.
func (g *Goods) GetProperty(name string) interface{} {
	return g.GetPropertyDefault(name, nil)
}

// GetPropertyDefault returns a property value, or the given default if unset.
func (g *Goods) GetPropertyDefault(name string, def interface{}) interface{} {
	if g.Properties == nil {
		return def
	}
	if value, ok := g.Properties.Get(name); ok {
		return value
	}
	return def
}
