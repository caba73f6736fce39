package goods

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// AvatarState is the lifecycle state of an Avatar
type AvatarState string

const (
	// AvatarStatePast marks an avatar superseded by a later operation
	AvatarStatePast AvatarState = "past"
	// AvatarStatePresent marks the goods as physically there right now
	AvatarStatePresent AvatarState = "present"
	// AvatarStateFuture anticipates an operation not yet executed
	AvatarStateFuture AvatarState = "future"
)

// IsValid checks if the avatar state is valid
func (s AvatarState) IsValid() bool {
	switch s {
	case AvatarStatePast, AvatarStatePresent, AvatarStateFuture:
		return true
	default:
		return false
	}
}

// String returns the string representation of the state
func (s AvatarState) String() string {
	return string(s)
}

// Scan implements the sql.Scanner interface
func (s *AvatarState) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	str, ok := value.(string)
	if !ok {
		if b, isBytes := value.([]byte); isBytes {
			str = string(b)
		} else {
			return fmt.Errorf("goods: cannot scan type %T into AvatarState", value)
		}
	}
	*s = AvatarState(strings.ToLower(str))
	if !s.IsValid() {
		return fmt.Errorf("goods: invalid avatar state: %s", str)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s AvatarState) Value() (driver.Value, error) {
	return string(s), nil
}

// DateTimeInfinity is the sentinel passed to quantity queries to select only
// avatars with an open-ended validity interval (dt_until unset).
var DateTimeInfinity = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// Avatar is a time-boxed assertion: this Goods lot resides at this Location,
// in this lifecycle state, from DtFrom until DtUntil (nil meaning still
// valid). ReasonID is the operation that produced it; ConsumerID, when set,
// is the operation that takes it as input.
type Avatar struct {
	shared.BaseAggregateRoot
	GoodsID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	Goods      *Goods      `gorm:"foreignKey:GoodsID"`
	LocationID uuid.UUID   `gorm:"type:uuid;not null;index"`
	State      AvatarState `gorm:"size:16;not null;index"`
	DtFrom     time.Time   `gorm:"not null"`
	DtUntil    *time.Time
	ReasonID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ConsumerID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Avatar) TableName() string {
	return "wms_goods_avatars"
}

// NewAvatar creates an avatar produced by the given operation
func NewAvatar(goodsID, locationID, reasonID uuid.UUID, state AvatarState, dtFrom time.Time) (*Avatar, error) {
	if goodsID == uuid.Nil || locationID == uuid.Nil || reasonID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AVATAR", "Avatar requires goods, location and reason")
	}
	if !state.IsValid() {
		return nil, shared.NewDomainError("INVALID_AVATAR_STATE", "Invalid avatar state")
	}
	return &Avatar{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		GoodsID:           goodsID,
		LocationID:        locationID,
		State:             state,
		DtFrom:            dtFrom,
		ReasonID:          reasonID,
	}, nil
}

// IsOpen reports whether the avatar's validity interval is still open.
func (a *Avatar) IsOpen() bool {
	return a.DtUntil == nil
}

// IsConsumed reports whether some operation has claimed this avatar as input.
func (a *Avatar) IsConsumed() bool {
	return a.ConsumerID != nil
}

// PlanConsumption claims the avatar as input of a planned operation: the
// validity interval gets a theoretical end, the state is untouched so that
// present-time queries keep counting the goods.
func (a *Avatar) PlanConsumption(operationID uuid.UUID, at time.Time) {
	until := at
	a.DtUntil = &until
	id := operationID
	a.ConsumerID = &id
	a.UpdatedAt = time.Now()
}

// CommitConsumption records the actual consumption of the avatar by a done
// operation: the interval is closed at the actual execution time and the
// avatar becomes past.
func (a *Avatar) CommitConsumption(operationID uuid.UUID, at time.Time) {
	until := at
	a.DtUntil = &until
	id := operationID
	a.ConsumerID = &id
	a.State = AvatarStatePast
	a.UpdatedAt = time.Now()
}

// ReleaseConsumption undoes a planned consumption, reopening the validity
// interval. The state is untouched: it was not changed by planning either.
func (a *Avatar) ReleaseConsumption() {
	a.DtUntil = nil
	a.ConsumerID = nil
	a.UpdatedAt = time.Now()
}

// Reinstate undoes a committed consumption: the interval reopens and the
// goods are physically there again.
func (a *Avatar) Reinstate() {
	a.ReleaseConsumption()
	a.State = AvatarStatePresent
}

// Promote turns a future avatar into a present one at the actual execution
// time, which may differ from the planned one.
func (a *Avatar) Promote(at time.Time) {
	a.State = AvatarStatePresent
	a.DtFrom = at
	a.UpdatedAt = time.Now()
}

// ContainsInstant reports whether the validity interval [DtFrom, DtUntil)
// contains the given instant.
func (a *Avatar) ContainsInstant(at time.Time) bool {
	if at.Before(a.DtFrom) {
		return false
	}
	return a.DtUntil == nil || at.Before(*a.DtUntil)
}
