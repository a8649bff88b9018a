package catalog

import "time"

type Variant struct {
	Color string `json:"color"`
	Size  string `json:"size"`
	Stock int    `json:"stock"`
	SKU   string `json:"sku"`
}

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	CategoryID   string    `json:"category"`
	BrandID      *string   `json:"brand,omitempty"`
	Price        float64   `json:"price"`
	Discount     float64   `json:"discount"` // percent, 0-100
	Images       []string  `json:"images"`
	Variants     []Variant `json:"variants"`
	Rating       float64   `json:"rating"`
	ReviewsCount int       `json:"reviewsCount"`
	IsFeatured   bool      `json:"isFeatured"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Category struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	ParentID *string `json:"parent,omitempty"`
	Image    string  `json:"image,omitempty"`
}

type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// FlashSale is a time-boxed override price for one product. Overlapping
// windows for the same product may exist; lookups take the first match.
type FlashSale struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product"`
	SalePrice float64   `json:"salePrice"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
}
