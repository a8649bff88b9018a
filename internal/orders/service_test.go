package orders

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shoppee/shoppee-backend/internal/catalog"
	"github.com/shoppee/shoppee-backend/internal/payment"
)

type memStore struct {
	created []*Order
	byID    map[string]*Order
	gateway map[string]bool // gateway order ids already used
}

func newMemStore() *memStore {
	return &memStore{byID: map[string]*Order{}, gateway: map[string]bool{}}
}

func (m *memStore) Create(ctx context.Context, o *Order) error {
	if gid := o.PaymentInfo.OrderID; gid != "" {
		if m.gateway[gid] {
			return ErrDuplicatePayment
		}
		m.gateway[gid] = true
	}
	cp := *o
	m.created = append(m.created, &cp)
	m.byID[o.ID] = &cp
	return nil
}

func (m *memStore) Get(ctx context.Context, id string) (*Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memStore) ListByUser(ctx context.Context, userID string) ([]Order, error) { return nil, nil }
func (m *memStore) ListAll(ctx context.Context) ([]Order, error)                   { return nil, nil }

func (m *memStore) UpdateStatus(ctx context.Context, o *Order) error {
	cur, ok := m.byID[o.ID]
	if !ok {
		return ErrNotFound
	}
	*cur = *o
	return nil
}

type memProducts map[string]*catalog.Product

func (m memProducts) Get(ctx context.Context, id string) (*catalog.Product, error) {
	p, ok := m[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return p, nil
}

type flatPricer struct{}

func (flatPricer) ItemTotal(ctx context.Context, p *catalog.Product, quantity int, now time.Time) (float64, error) {
	unit := p.Price
	if p.Discount > 0 {
		unit = p.Price * (1 - p.Discount/100)
	}
	return unit * float64(quantity), nil
}

type countingGateway struct {
	calls  int
	intent *payment.Intent
}

func (g *countingGateway) CreateIntent(ctx context.Context, amountMinor int64, currency, receipt string) (*payment.Intent, error) {
	g.calls++
	g.intent = &payment.Intent{ID: "order_gw1", Amount: amountMinor, Currency: currency, Receipt: receipt, Status: "created"}
	return g.intent, nil
}

type seqIssuer struct{ n int }

func (i *seqIssuer) Issue(ctx context.Context) (string, error) {
	i.n++
	return fmt.Sprintf("INV-2026-08-%05d", i.n), nil
}

const testSecret = "secret-k"

func signFor(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func newTestService(store *memStore, gw *countingGateway) *Service {
	products := memProducts{
		"p1": {ID: "p1", Name: "Sneakers", Price: 1000, Discount: 10, Images: []string{"sneakers.jpg"}},
		"p2": {ID: "p2", Name: "Socks", Price: 50},
	}
	return &Service{
		Store:    store,
		Products: products,
		Pricing:  flatPricer{},
		Gateway:  gw,
		Invoices: &seqIssuer{},
		Secret:   testSecret,
		Now:      func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) },
	}
}

func addr() ShippingAddress {
	return ShippingAddress{
		FullName: "Asha Rao", Phone: "999", AddressLine1: "1 MG Road",
		City: "Bengaluru", PostalCode: "560001", Country: "India",
	}
}

func TestCreateCODComputesResolvedTotal(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, &countingGateway{})

	o, err := svc.CreateCOD(context.Background(), "u1", CheckoutInput{
		Items:           []CheckoutItem{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}},
		ShippingAddress: addr(),
		ShippingPrice:   40,
		TaxPrice:        10,
	})
	require.NoError(t, err)

	// 1000 with 10% discount * 2 = 1800, plus 50 socks, plus 40+10
	require.Equal(t, 1900.0, o.TotalPrice)
	require.Equal(t, PaymentPending, o.PaymentStatus)
	require.Equal(t, StatusPending, o.OrderStatus)
	require.Equal(t, MethodCOD, o.PaymentMethod)
	require.Len(t, store.created, 1)

	// item copies carry snapshot data
	require.Equal(t, "Sneakers", o.Items[0].Name)
	require.Equal(t, "sneakers.jpg", o.Items[0].Image)
	require.Equal(t, 1800.0, o.Items[0].Price)
}

func TestCreateCODRejectsEmptyAndBadInput(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, &countingGateway{})

	_, err := svc.CreateCOD(context.Background(), "u1", CheckoutInput{ShippingAddress: addr()})
	require.ErrorIs(t, err, ErrNoItems)

	_, err = svc.CreateCOD(context.Background(), "u1", CheckoutInput{
		Items:           []CheckoutItem{{ProductID: "p1", Quantity: 0}},
		ShippingAddress: addr(),
	})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.CreateCOD(context.Background(), "u1", CheckoutInput{
		Items:           []CheckoutItem{{ProductID: "missing", Quantity: 1}},
		ShippingAddress: addr(),
	})
	require.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.CreateCOD(context.Background(), "u1", CheckoutInput{
		Items: []CheckoutItem{{ProductID: "p1", Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrInvalidAddress)

	require.Empty(t, store.created, "nothing may be persisted on validation failure")
}

func TestCreateIntentRoundsToMinorUnits(t *testing.T) {
	gw := &countingGateway{}
	svc := newTestService(newMemStore(), gw)

	intent, err := svc.CreateIntent(context.Background(), CheckoutInput{
		Items: []CheckoutItem{{ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(180000), intent.Amount)
	require.Equal(t, "INR", intent.Currency)
	require.Equal(t, 1, gw.calls)
}

func TestCreateIntentEmptyItemsNoGatewayCall(t *testing.T) {
	gw := &countingGateway{}
	svc := newTestService(newMemStore(), gw)

	_, err := svc.CreateIntent(context.Background(), CheckoutInput{})
	require.ErrorIs(t, err, ErrNoItems)
	require.Zero(t, gw.calls, "gateway must not be called for an empty checkout")
}

func TestPlaceAfterPaymentVerifiesSignature(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, &countingGateway{})
	in := CheckoutInput{
		Items:           []CheckoutItem{{ProductID: "p1", Quantity: 2}},
		ShippingAddress: addr(),
		ShippingPrice:   0,
	}

	_, err := svc.PlaceAfterPayment(context.Background(), "u1", in, GatewayConfirmation{
		OrderID: "order_gw1", PaymentID: "pay_1", Signature: "forged",
	})
	require.ErrorIs(t, err, ErrPaymentVerification)
	require.Empty(t, store.created, "no order on signature mismatch")

	o, err := svc.PlaceAfterPayment(context.Background(), "u1", in, GatewayConfirmation{
		OrderID: "order_gw1", PaymentID: "pay_1", Signature: signFor("order_gw1", "pay_1"),
	})
	require.NoError(t, err)
	require.Equal(t, PaymentPaid, o.PaymentStatus)
	require.Equal(t, StatusProcessing, o.OrderStatus)
	require.NotNil(t, o.PaidAt)
	require.Equal(t, "order_gw1", o.PaymentInfo.OrderID)
	require.Equal(t, "pay_1", o.PaymentInfo.PaymentID)
	require.Equal(t, "unknown", o.PaymentInfo.Method)
	require.Equal(t, "captured", o.PaymentInfo.Status)
	require.Equal(t, 1800.0, o.TotalPrice)
}

func TestPlaceAfterPaymentRejectsReplay(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, &countingGateway{})
	in := CheckoutInput{
		Items:           []CheckoutItem{{ProductID: "p2", Quantity: 1}},
		ShippingAddress: addr(),
	}
	conf := GatewayConfirmation{
		OrderID: "order_gw2", PaymentID: "pay_2", Signature: signFor("order_gw2", "pay_2"),
	}

	_, err := svc.PlaceAfterPayment(context.Background(), "u1", in, conf)
	require.NoError(t, err)

	_, err = svc.PlaceAfterPayment(context.Background(), "u1", in, conf)
	require.ErrorIs(t, err, ErrDuplicatePayment)
	require.Len(t, store.created, 1)
}

func TestUpdateStatusIssuesInvoiceOnce(t *testing.T) {
	store := newMemStore()
	issuer := &seqIssuer{}
	svc := newTestService(store, &countingGateway{})
	svc.Invoices = issuer

	o, err := svc.CreateCOD(context.Background(), "u1", CheckoutInput{
		Items:           []CheckoutItem{{ProductID: "p2", Quantity: 1}},
		ShippingAddress: addr(),
	})
	require.NoError(t, err)

	got, err := svc.UpdateStatus(context.Background(), o.ID, StatusUpdate{PaymentStatus: PaymentPaid})
	require.NoError(t, err)
	require.Empty(t, got.InvoiceID)

	got, err = svc.UpdateStatus(context.Background(), o.ID, StatusUpdate{OrderStatus: StatusDelivered})
	require.NoError(t, err)
	require.NotEmpty(t, got.InvoiceID)
	require.Equal(t, 1, issuer.n)
	first := got.InvoiceID

	// re-entering the state keeps the original number
	got, err = svc.UpdateStatus(context.Background(), o.ID, StatusUpdate{OrderStatus: StatusDelivered})
	require.NoError(t, err)
	require.Equal(t, first, got.InvoiceID)
	require.Equal(t, 1, issuer.n)
}

func TestUpdateStatusRejectsUnknownEnumValues(t *testing.T) {
	svc := newTestService(newMemStore(), &countingGateway{})

	_, err := svc.UpdateStatus(context.Background(), "any", StatusUpdate{OrderStatus: "returned"})
	require.ErrorIs(t, err, ErrInvalidStatus)
	_, err = svc.UpdateStatus(context.Background(), "any", StatusUpdate{PaymentStatus: "refunded"})
	require.ErrorIs(t, err, ErrInvalidPayStatus)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc := newTestService(newMemStore(), &countingGateway{})
	_, err := svc.UpdateStatus(context.Background(), "nope", StatusUpdate{OrderStatus: StatusShipped})
	require.ErrorIs(t, err, ErrNotFound)
}
