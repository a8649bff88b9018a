package orders

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCOD      PaymentMethod = "COD"
	MethodRazorpay PaymentMethod = "Razorpay"
	MethodStripe   PaymentMethod = "Stripe"
	MethodPayPal   PaymentMethod = "PayPal"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCOD, MethodRazorpay, MethodStripe, MethodPayPal:
		return true
	}
	return false
}

// StatusUpdate carries the admin's requested changes; empty fields are
// left alone. Both axes are independent and any enum value is accepted.
type StatusUpdate struct {
	OrderStatus   OrderStatus   `json:"status,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`
}

// applyStatusUpdate mutates the order in place and reports whether an
// invoice number must be issued. Rules:
//   - every transition to delivered refreshes deliveredAt,
//   - paidAt is set only the first time paymentStatus becomes paid,
//   - an invoice is due when the order is paid and delivered and has no
//     invoice id yet.
func applyStatusUpdate(o *Order, u StatusUpdate, now time.Time) (needsInvoice bool) {
	if u.OrderStatus != "" {
		o.OrderStatus = u.OrderStatus
		if u.OrderStatus == StatusDelivered {
			t := now
			o.DeliveredAt = &t
		}
	}
	if u.PaymentStatus != "" {
		o.PaymentStatus = u.PaymentStatus
		if u.PaymentStatus == PaymentPaid && o.PaidAt == nil {
			t := now
			o.PaidAt = &t
		}
	}
	return o.InvoiceID == "" && o.PaymentStatus == PaymentPaid && o.OrderStatus == StatusDelivered
}
