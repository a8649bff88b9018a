package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type OrderPlacedPayload struct {
	OrderID       string        `json:"order_id"`
	UserID        string        `json:"user_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	OrderStatus   OrderStatus   `json:"order_status"`
	TotalPrice    float64       `json:"total_price"`
	ItemCount     int           `json:"item_count"`
}

type OrderStatusChangedPayload struct {
	OrderID       string        `json:"order_id"`
	OrderStatus   OrderStatus   `json:"order_status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	InvoiceID     string        `json:"invoice_id,omitempty"`
}
