package cart

import (
	"context"
	"time"

	"github.com/shoppee/shoppee-backend/internal/catalog"
)

type Store interface {
	AddItem(ctx context.Context, userID string, it Item) (*Cart, error)
	Get(ctx context.Context, userID string) (*Cart, error)
	UpdateQuantity(ctx context.Context, userID string, v Variant, productID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, userID string, v Variant, productID string) (*Cart, error)
	Clear(ctx context.Context, userID string) error
}

type ProductStore interface {
	Get(ctx context.Context, id string) (*catalog.Product, error)
}

type Pricer interface {
	UnitPrice(ctx context.Context, p *catalog.Product, now time.Time) (float64, error)
}

type Service struct {
	Store    Store
	Products ProductStore
	Pricing  Pricer
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Add puts a product line into the user's cart, creating the cart when
// absent. The snapshot price is resolved once, here; merges with an
// existing (product, variant) line keep the earlier snapshot.
func (s *Service) Add(ctx context.Context, userID, productID string, quantity int, v Variant) (*Cart, error) {
	p, err := s.Products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		quantity = 1
	}
	unit, err := s.Pricing.UnitPrice(ctx, p, s.now())
	if err != nil {
		return nil, err
	}
	return s.Store.AddItem(ctx, userID, Item{
		ProductID:       productID,
		Quantity:        quantity,
		SelectedVariant: v,
		PriceAtAddition: unit,
	})
}
