package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the surrogate identity and bookkeeping timestamps every
// warehouse record embeds. The UUID is generated at construction so rows can
// be linked (edges, reasons, consumers) before anything is persisted.
type BaseEntity struct {
	ID        uuid.UUID `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity creates a base entity with a fresh identity.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetID returns the entity identity.
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns when the record was created.
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns when the record last changed.
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}
