package orders

import "time"

// OrderItem is a copy of the product at order time. Catalog edits after
// checkout never alter it. Price is the resolved line total (unit price
// after discount/flash sale, multiplied by quantity).
type OrderItem struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Color     string  `json:"color,omitempty"`
	Size      string  `json:"size,omitempty"`
	SKU       string  `json:"sku,omitempty"`
}

type ShippingAddress struct {
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
}

// PaymentInfo is the gateway confirmation stored after a verified
// payment.
type PaymentInfo struct {
	PaymentID string `json:"id,omitempty"`
	OrderID   string `json:"orderId,omitempty"` // gateway order id
	Signature string `json:"signature,omitempty"`
	Method    string `json:"method,omitempty"`
	Status    string `json:"status,omitempty"`
	Receipt   string `json:"receipt,omitempty"`
}

// Order is immutable after creation except for the two status fields,
// paidAt, deliveredAt and invoiceId.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user"`
	Items           []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	PaymentInfo     PaymentInfo     `json:"paymentInfo,omitempty"`
	ShippingPrice   float64         `json:"shippingPrice"`
	TaxPrice        float64         `json:"taxPrice"`
	TotalPrice      float64         `json:"totalPrice"`
	OrderStatus     OrderStatus     `json:"orderStatus"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	InvoiceID       string          `json:"invoiceId,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
