package goods

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for goods persistence
type Repository interface {
	// FindByID finds a goods lot by its ID, properties preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Goods, error)

	// Save creates or updates a goods lot
	Save(ctx context.Context, g *Goods) error

	// Delete deletes a goods lot
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByProperties counts goods lots referencing a Properties record,
	// used for copy-on-write decisions
	CountByProperties(ctx context.Context, propertiesID uuid.UUID) (int64, error)
}

// TypeRepository defines the interface for goods type persistence
type TypeRepository interface {
	// FindByID finds a goods type by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Type, error)

	// FindByCode finds a goods type by its code
	FindByCode(ctx context.Context, code string) (*Type, error)

	// Save creates or updates a goods type
	Save(ctx context.Context, t *Type) error

	// Delete deletes a goods type
	Delete(ctx context.Context, id uuid.UUID) error
}

// PropertiesRepository defines the interface for properties persistence
type PropertiesRepository interface {
	// FindByID finds a properties record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Properties, error)

	// Save creates or updates a properties record
	Save(ctx context.Context, p *Properties) error
}

// QuantityQuery filters a temporal quantity aggregation over avatars at one
// location. States always include present; AdditionalStates extends the
// filter. At, when set, selects avatars whose validity interval contains the
// instant; the DateTimeInfinity sentinel selects only open-ended avatars.
type QuantityQuery struct {
	LocationID       uuid.UUID
	GoodsTypeID      uuid.UUID
	AdditionalStates []AvatarState
	At               *time.Time
}

// AvatarRepository defines the interface for avatar persistence and the
// temporal quantity queries of the ledger
type AvatarRepository interface {
	// FindByID finds an avatar by its ID, goods preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Avatar, error)

	// FindByReason finds the avatars produced by an operation
	FindByReason(ctx context.Context, operationID uuid.UUID) ([]Avatar, error)

	// FindByConsumer finds the avatars an operation claimed as inputs
	FindByConsumer(ctx context.Context, operationID uuid.UUID) ([]Avatar, error)

	// FindCurrentByGoods finds the open, unconsumed, non-past avatar of a
	// goods lot, i.e. where the lot is (or will be) unless something else
	// claims it
	FindCurrentByGoods(ctx context.Context, goodsID uuid.UUID) (*Avatar, error)

	// Save creates or updates an avatar
	Save(ctx context.Context, a *Avatar) error

	// Delete deletes an avatar
	Delete(ctx context.Context, id uuid.UUID) error

	// QuantityAt sums the goods quantity borne by avatars matching the query
	QuantityAt(ctx context.Context, q QuantityQuery) (int64, error)
}
