package payment

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Intent is a remote payment order created at the gateway. Amounts are
// minor units (paise).
type Intent struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	AmountDue int64  `json:"amount_due"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	Receipt   string `json:"receipt"`
	CreatedAt int64  `json:"created_at"`
}

// Gateway creates remote payment intents.
type Gateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency, receipt string) (*Intent, error)
}

type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpay(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *RazorpayGateway) CreateIntent(ctx context.Context, amountMinor int64, currency, receipt string) (*Intent, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}
	return &Intent{
		ID:        str(body["id"]),
		Amount:    num(body["amount"]),
		AmountDue: num(body["amount_due"]),
		Currency:  str(body["currency"]),
		Status:    str(body["status"]),
		Receipt:   str(body["receipt"]),
		CreatedAt: num(body["created_at"]),
	}, nil
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func num(v interface{}) int64 {
	f, _ := v.(float64)
	return int64(f)
}
