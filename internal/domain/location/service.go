package location

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/goods"
	"github.com/wms/backend/internal/domain/shared"
)

// QuantityOptions refines a location quantity query. By default only
// avatars in the present state are counted, with no interval filter.
type QuantityOptions struct {
	// AdditionalStates extends the state filter beyond present. When given,
	// At is mandatory.
	AdditionalStates []goods.AvatarState
	// At selects avatars whose validity interval contains the instant.
	// goods.DateTimeInfinity selects only open-ended avatars.
	At *time.Time
}

// Service answers quantity and tag questions about locations. It is
// deliberately not recursive over children: callers needing subtree
// aggregation scope it with tags or repeat the query per node.
type Service struct {
	locations Repository
	avatars   goods.AvatarRepository
}

// NewService creates a new location Service
func NewService(locations Repository, avatars goods.AvatarRepository) *Service {
	return &Service{locations: locations, avatars: avatars}
}

// Quantity returns how much goods of the given type the location holds
// under the temporal/state filter of opts.
func (s *Service) Quantity(ctx context.Context, locationID, goodsTypeID uuid.UUID, opts QuantityOptions) (int64, error) {
	if locationID == uuid.Nil || goodsTypeID == uuid.Nil {
		return 0, shared.ErrInvalidArgument
	}
	for _, state := range opts.AdditionalStates {
		if !state.IsValid() {
			return 0, shared.ErrInvalidArgument
		}
	}
	if len(opts.AdditionalStates) > 0 && opts.At == nil {
		return 0, shared.ErrInvalidArgument
	}
	return s.avatars.QuantityAt(ctx, goods.QuantityQuery{
		LocationID:       locationID,
		GoodsTypeID:      goodsTypeID,
		AdditionalStates: opts.AdditionalStates,
		At:               opts.At,
	})
}

// ResolveTags returns the effective tag of every location below root (root
// included): its own tag if set, else the nearest tagged ancestor's.
func (s *Service) ResolveTags(ctx context.Context, rootID *uuid.UUID) (map[uuid.UUID]*string, error) {
	return s.locations.ResolveTags(ctx, rootID)
}
