package location

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for location persistence
type Repository interface {
	// FindByID finds a location by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)

	// FindByCode finds a location by its code
	FindByCode(ctx context.Context, code string) (*Location, error)

	// FindChildren finds the direct children of a location
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]Location, error)

	// Save creates or updates a location
	Save(ctx context.Context, l *Location) error

	// Delete deletes a location
	Delete(ctx context.Context, id uuid.UUID) error

	// ResolveTags flattens the hierarchy below root with defaulting tags: a
	// location whose own tag is unset inherits its parent's resolved tag.
	// A nil root resolves the whole forest from its top-level locations.
	ResolveTags(ctx context.Context, rootID *uuid.UUID) (map[uuid.UUID]*string, error)
}
