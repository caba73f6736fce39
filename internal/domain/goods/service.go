package goods

import (
	"context"

	"github.com/wms/backend/internal/domain/shared"
)

// Service provides goods logic that needs repository access, notably the
// copy-on-write property API.
type Service struct {
	goods Repository
	props PropertiesRepository
}

// NewService creates a new goods Service
func NewService(goods Repository, props PropertiesRepository) *Service {
	return &Service{goods: goods, props: props}
}

// SetProperty sets one property on a goods lot. When the lot has no
// Properties record yet, one is created. When its record is shared with
// other lots, the record is duplicated first so that the other lots keep
// their original characteristics.
func (s *Service) SetProperty(ctx context.Context, g *Goods, name string, value interface{}) error {
	if g == nil {
		return shared.ErrInvalidArgument
	}

	if g.Properties == nil {
		props, err := NewProperties(map[string]interface{}{name: value})
		if err != nil {
			return err
		}
		if err := s.props.Save(ctx, props); err != nil {
			return err
		}
		g.AttachProperties(props)
		return s.goods.Save(ctx, g)
	}

	refs, err := s.goods.CountByProperties(ctx, g.Properties.ID)
	if err != nil {
		return err
	}
	if refs > 1 {
		dup := g.Properties.Duplicate()
		if err := dup.Set(name, value); err != nil {
			return err
		}
		if err := s.props.Save(ctx, dup); err != nil {
			return err
		}
		g.AttachProperties(dup)
		return s.goods.Save(ctx, g)
	}

	if err := g.Properties.Set(name, value); err != nil {
		return err
	}
	return s.props.Save(ctx, g.Properties)
}
