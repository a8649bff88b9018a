package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shoppee/shoppee-backend/internal/catalog"
)

type stubSales struct {
	sale *catalog.FlashSale
	err  error
}

func (s *stubSales) ActiveSale(ctx context.Context, productID string, now time.Time) (*catalog.FlashSale, error) {
	return s.sale, s.err
}

func TestItemTotal(t *testing.T) {
	now := time.Now()
	product := &catalog.Product{ID: "p1", Price: 1000, Discount: 10}

	tests := []struct {
		name string
		sale *catalog.FlashSale
		p    *catalog.Product
		qty  int
		want float64
	}{
		{
			name: "discount applied when no sale",
			p:    product,
			qty:  2,
			want: 1800,
		},
		{
			name: "flash sale overrides discount",
			sale: &catalog.FlashSale{ProductID: "p1", SalePrice: 500},
			p:    product,
			qty:  2,
			want: 1000,
		},
		{
			name: "full price without discount or sale",
			p:    &catalog.Product{ID: "p2", Price: 250},
			qty:  3,
			want: 750,
		},
		{
			name: "zero discount means full price",
			p:    &catalog.Product{ID: "p3", Price: 99.5, Discount: 0},
			qty:  1,
			want: 99.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resolver{Sales: &stubSales{sale: tt.sale}}
			got, err := r.ItemTotal(context.Background(), tt.p, tt.qty, now)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestUnitPriceSaleBeatsDiscount(t *testing.T) {
	r := &Resolver{Sales: &stubSales{sale: &catalog.FlashSale{SalePrice: 1}}}
	got, err := r.UnitPrice(context.Background(), &catalog.Product{Price: 1000, Discount: 90}, time.Now())
	require.NoError(t, err)
	require.Equal(t, 1.0, got)
}
