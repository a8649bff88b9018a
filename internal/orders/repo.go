package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const orderCols = `id, user_id, full_name, phone, address_line1, address_line2, city, state,
	postal_code, country, payment_method, payment_status, payment_id, gateway_order_id,
	signature, pay_method, pay_status, receipt, shipping_price, tax_price, total_price,
	order_status, paid_at, delivered_at, invoice_id, created_at, updated_at`

// Create persists the order and its item copies in one transaction. A
// reused gateway order id trips the partial unique index and maps to
// ErrDuplicatePayment.
func (r *Repo) Create(ctx context.Context, o *Order) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var gatewayOrderID *string
	if o.PaymentInfo.OrderID != "" {
		gatewayOrderID = &o.PaymentInfo.OrderID
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, user_id, full_name, phone, address_line1, address_line2, city, state,
		                   postal_code, country, payment_method, payment_status, payment_id,
		                   gateway_order_id, signature, pay_method, pay_status, receipt,
		                   shipping_price, tax_price, total_price, order_status, paid_at,
		                   delivered_at, invoice_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)`,
		o.ID, o.UserID,
		o.ShippingAddress.FullName, o.ShippingAddress.Phone, o.ShippingAddress.AddressLine1,
		o.ShippingAddress.AddressLine2, o.ShippingAddress.City, o.ShippingAddress.State,
		o.ShippingAddress.PostalCode, o.ShippingAddress.Country,
		o.PaymentMethod, o.PaymentStatus,
		o.PaymentInfo.PaymentID, gatewayOrderID, o.PaymentInfo.Signature,
		o.PaymentInfo.Method, o.PaymentInfo.Status, o.PaymentInfo.Receipt,
		o.ShippingPrice, o.TaxPrice, o.TotalPrice, o.OrderStatus,
		o.PaidAt, o.DeliveredAt, nullIfEmpty(o.InvoiceID), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicatePayment
		}
		return err
	}

	for _, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, name, image, price, quantity, color, size, sku)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			o.ID, it.ProductID, it.Name, it.Image, it.Price, it.Quantity, it.Color, it.Size, it.SKU,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var gatewayOrderID, invoiceID *string
	err := row.Scan(&o.ID, &o.UserID,
		&o.ShippingAddress.FullName, &o.ShippingAddress.Phone, &o.ShippingAddress.AddressLine1,
		&o.ShippingAddress.AddressLine2, &o.ShippingAddress.City, &o.ShippingAddress.State,
		&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.PaymentMethod, &o.PaymentStatus,
		&o.PaymentInfo.PaymentID, &gatewayOrderID, &o.PaymentInfo.Signature,
		&o.PaymentInfo.Method, &o.PaymentInfo.Status, &o.PaymentInfo.Receipt,
		&o.ShippingPrice, &o.TaxPrice, &o.TotalPrice, &o.OrderStatus,
		&o.PaidAt, &o.DeliveredAt, &invoiceID, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if gatewayOrderID != nil {
		o.PaymentInfo.OrderID = *gatewayOrderID
	}
	if invoiceID != nil {
		o.InvoiceID = *invoiceID
	}
	return &o, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, map[string]*Order{o.ID: o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderCols+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *Repo) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderCols+` FROM orders ORDER BY created_at DESC`)
}

func (r *Repo) list(ctx context.Context, q string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	byID := map[string]*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
		byID[o.ID] = &out[len(out)-1]
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := r.loadItems(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) loadItems(ctx context.Context, byID map[string]*Order) error {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	rows, err := r.DB.Query(ctx, `
		SELECT order_id, product_id, name, image, price, quantity, color, size, sku
		FROM order_items WHERE order_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var it OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.Name, &it.Image, &it.Price,
			&it.Quantity, &it.Color, &it.Size, &it.SKU); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

// UpdateStatus writes back the only mutable columns.
func (r *Repo) UpdateStatus(ctx context.Context, o *Order) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET order_status=$2, payment_status=$3, paid_at=$4, delivered_at=$5,
		       invoice_id=$6, updated_at=$7
		WHERE id=$1`,
		o.ID, o.OrderStatus, o.PaymentStatus, o.PaidAt, o.DeliveredAt,
		nullIfEmpty(o.InvoiceID), o.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
