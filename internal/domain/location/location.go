package location

import (
	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// Location is a node in the rooted tree of places goods can reside at.
// The tree is built top-down (a child is always created under an existing
// parent), so the parent relation cannot cycle.
//
// Tag is an optional label for quantity grouping: a location whose tag is
// unset inherits the tag of its closest tagged ancestor. This allows
// location-based assessment of stock levels independent of the raw tree
// structure, e.g. tagging rooms "sellable" while carving out their QA areas.
type Location struct {
	shared.BaseAggregateRoot
	Code     string     `gorm:"size:64;not null;uniqueIndex"`
	Label    string     `gorm:"size:255"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`
	Parent   *Location  `gorm:"foreignKey:ParentID"`
	Tag      *string    `gorm:"size:64"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "wms_locations"
}

// NewLocation creates a root location
func NewLocation(code, label string) (*Location, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION_CODE", "Location code cannot be empty")
	}
	return &Location{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Label:             label,
	}, nil
}

// NewSubLocation creates a location under an existing parent
func NewSubLocation(parent *Location, code, label string) (*Location, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent location cannot be nil")
	}
	loc, err := NewLocation(code, label)
	if err != nil {
		return nil, err
	}
	parentID := parent.ID
	loc.ParentID = &parentID
	loc.Parent = parent
	return loc, nil
}

// SetTag sets the location's own tag
func (l *Location) SetTag(tag string) {
	l.Tag = &tag
}

// IsRoot reports whether the location has no parent
func (l *Location) IsRoot() bool {
	return l.ParentID == nil
}
