package cart

import (
	"time"

	"github.com/shoppee/shoppee-backend/internal/catalog"
)

type Variant struct {
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`
}

// Item is one cart line. Lines are distinct per (product, color, size);
// PriceAtAddition is the snapshot taken when the line was first added
// and is never recomputed by a merge.
type Item struct {
	ProductID       string           `json:"product"`
	Quantity        int              `json:"quantity"`
	SelectedVariant Variant          `json:"selectedVariant"`
	PriceAtAddition float64          `json:"priceAtAddition"`
	Product         *catalog.Product `json:"productData,omitempty"`
}

type Cart struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TotalPrice sums the line snapshots.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.PriceAtAddition * float64(it.Quantity)
	}
	return total
}
