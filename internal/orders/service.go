package orders

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/shoppee/shoppee-backend/internal/catalog"
	kafkax "github.com/shoppee/shoppee-backend/internal/kafka"
	"github.com/shoppee/shoppee-backend/internal/payment"
)

type Store interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, o *Order) error
}

type ProductStore interface {
	Get(ctx context.Context, id string) (*catalog.Product, error)
}

type Pricer interface {
	ItemTotal(ctx context.Context, p *catalog.Product, quantity int, now time.Time) (float64, error)
}

// InvoiceIssuer hands out the next formatted invoice number.
type InvoiceIssuer interface {
	Issue(ctx context.Context) (string, error)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Service struct {
	Store    Store
	Products ProductStore
	Pricing  Pricer
	Gateway  payment.Gateway
	Invoices InvoiceIssuer
	Producer Publisher // optional
	Secret   string    // gateway shared secret for signature checks
	Service  string    // producer name on events
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

type CheckoutItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
	SKU       string `json:"sku,omitempty"`
}

type CheckoutInput struct {
	Items           []CheckoutItem  `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	ShippingPrice   float64         `json:"shippingPrice"`
	TaxPrice        float64         `json:"taxPrice"`
}

// GatewayConfirmation is what the client submits after paying at the
// gateway.
type GatewayConfirmation struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
	Method    string `json:"method,omitempty"`
	Status    string `json:"status,omitempty"`
	Receipt   string `json:"receipt,omitempty"`
}

func validAddress(a ShippingAddress) bool {
	return a.FullName != "" && a.Phone != "" && a.AddressLine1 != "" &&
		a.City != "" && a.PostalCode != "" && a.Country != ""
}

// buildItems resolves every line through the pricing resolver and
// returns the item copies plus the resolved sum. Resolution always
// completes before summation, so stored line prices and the order
// total agree.
func (s *Service) buildItems(ctx context.Context, items []CheckoutItem, now time.Time) ([]OrderItem, float64, error) {
	out := make([]OrderItem, 0, len(items))
	var total float64
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, 0, fmt.Errorf("%w: product %s", ErrInvalidQuantity, it.ProductID)
		}
		p, err := s.Products.Get(ctx, it.ProductID)
		if err != nil {
			if err == catalog.ErrNotFound {
				return nil, 0, fmt.Errorf("%w: %s", ErrProductNotFound, it.ProductID)
			}
			return nil, 0, err
		}
		lineTotal, err := s.Pricing.ItemTotal(ctx, p, it.Quantity, now)
		if err != nil {
			return nil, 0, err
		}
		total += lineTotal

		image := ""
		if len(p.Images) > 0 {
			image = p.Images[0]
		}
		out = append(out, OrderItem{
			ProductID: it.ProductID,
			Name:      p.Name,
			Image:     image,
			Price:     lineTotal,
			Quantity:  it.Quantity,
			Color:     it.Color,
			Size:      it.Size,
			SKU:       it.SKU,
		})
	}
	return out, total, nil
}

// CreateCOD places a cash-on-delivery order: pending payment, pending
// fulfillment.
func (s *Service) CreateCOD(ctx context.Context, userID string, in CheckoutInput) (*Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrNoItems
	}
	if !validAddress(in.ShippingAddress) {
		return nil, ErrInvalidAddress
	}
	now := s.now()
	items, total, err := s.buildItems(ctx, in.Items, now)
	if err != nil {
		return nil, err
	}
	total += in.ShippingPrice + in.TaxPrice

	o := &Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   MethodCOD,
		PaymentStatus:   PaymentPending,
		ShippingPrice:   in.ShippingPrice,
		TaxPrice:        in.TaxPrice,
		TotalPrice:      total,
		OrderStatus:     StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Store.Create(ctx, o); err != nil {
		return nil, err
	}
	s.publishPlaced(o)
	return o, nil
}

// CreateIntent is phase one of gateway checkout: price the items and
// open a remote payment intent. Nothing is persisted locally.
func (s *Service) CreateIntent(ctx context.Context, in CheckoutInput) (*payment.Intent, error) {
	if len(in.Items) == 0 {
		return nil, ErrNoItems
	}
	now := s.now()
	_, total, err := s.buildItems(ctx, in.Items, now)
	if err != nil {
		return nil, err
	}
	amountMinor := int64(math.Round(total * 100))
	receipt := fmt.Sprintf("order_rcpt_%d", now.UnixMilli())
	return s.Gateway.CreateIntent(ctx, amountMinor, "INR", receipt)
}

// PlaceAfterPayment is phase two: verify the gateway signature, then
// persist the order as paid/processing. A replayed gateway order id is
// rejected by the store as ErrDuplicatePayment.
func (s *Service) PlaceAfterPayment(ctx context.Context, userID string, in CheckoutInput, conf GatewayConfirmation) (*Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrNoItems
	}
	if !validAddress(in.ShippingAddress) {
		return nil, ErrInvalidAddress
	}
	if !payment.VerifySignature(s.Secret, conf.OrderID, conf.PaymentID, conf.Signature) {
		return nil, ErrPaymentVerification
	}

	now := s.now()
	items, total, err := s.buildItems(ctx, in.Items, now)
	if err != nil {
		return nil, err
	}
	total += in.ShippingPrice + in.TaxPrice

	method := conf.Method
	if method == "" {
		method = "unknown"
	}
	status := conf.Status
	if status == "" {
		status = "captured"
	}
	paidAt := now
	o := &Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   MethodRazorpay,
		PaymentStatus:   PaymentPaid,
		PaidAt:          &paidAt,
		PaymentInfo: PaymentInfo{
			PaymentID: conf.PaymentID,
			OrderID:   conf.OrderID,
			Signature: conf.Signature,
			Method:    method,
			Status:    status,
			Receipt:   conf.Receipt,
		},
		ShippingPrice: in.ShippingPrice,
		TaxPrice:      in.TaxPrice,
		TotalPrice:    total,
		OrderStatus:   StatusProcessing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Store.Create(ctx, o); err != nil {
		return nil, err
	}
	s.publishPlaced(o)
	return o, nil
}

// UpdateStatus applies an admin status change. Any enum value is
// accepted on either axis; there is no transition graph. Reaching
// paid+delivered issues the invoice number exactly once.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, u StatusUpdate) (*Order, error) {
	if u.OrderStatus != "" && !u.OrderStatus.Valid() {
		return nil, ErrInvalidStatus
	}
	if u.PaymentStatus != "" && !u.PaymentStatus.Valid() {
		return nil, ErrInvalidPayStatus
	}

	o, err := s.Store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if applyStatusUpdate(o, u, now) {
		id, err := s.Invoices.Issue(ctx)
		if err != nil {
			return nil, fmt.Errorf("issue invoice: %w", err)
		}
		o.InvoiceID = id
	}
	o.UpdatedAt = now
	if err := s.Store.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}

	s.publish(EventOrderStatusChanged, o.ID, OrderStatusChangedPayload{
		OrderID:       o.ID,
		OrderStatus:   o.OrderStatus,
		PaymentStatus: o.PaymentStatus,
		InvoiceID:     o.InvoiceID,
	})
	return o, nil
}

func (s *Service) publishPlaced(o *Order) {
	s.publish(EventOrderPlaced, o.ID, OrderPlacedPayload{
		OrderID:       o.ID,
		UserID:        o.UserID,
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: o.PaymentStatus,
		OrderStatus:   o.OrderStatus,
		TotalPrice:    o.TotalPrice,
		ItemCount:     len(o.Items),
	})
}

func (s *Service) publish(eventType, orderID string, payload any) {
	if s.Producer == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    s.now(),
		Producer:      s.Service,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	s.Producer.Publish(PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
