// Package pricing computes effective prices. Precedence: an active
// flash sale overrides the product's standing discount, which overrides
// the base price.
package pricing

import (
	"context"
	"time"

	"github.com/shoppee/shoppee-backend/internal/catalog"
)

// SaleFinder reports a flash sale covering the given instant, or nil.
type SaleFinder interface {
	ActiveSale(ctx context.Context, productID string, now time.Time) (*catalog.FlashSale, error)
}

type Resolver struct {
	Sales SaleFinder
}

// UnitPrice resolves the effective per-unit price of a product at now.
func (r *Resolver) UnitPrice(ctx context.Context, p *catalog.Product, now time.Time) (float64, error) {
	sale, err := r.Sales.ActiveSale(ctx, p.ID, now)
	if err != nil {
		return 0, err
	}
	if sale != nil {
		return sale.SalePrice, nil
	}
	if p.Discount > 0 {
		return p.Price * (1 - p.Discount/100), nil
	}
	return p.Price, nil
}

// ItemTotal is the resolved unit price multiplied by the quantity.
func (r *Resolver) ItemTotal(ctx context.Context, p *catalog.Product, quantity int, now time.Time) (float64, error) {
	unit, err := r.UnitPrice(ctx, p, now)
	if err != nil {
		return 0, err
	}
	return unit * float64(quantity), nil
}
