package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shoppee/shoppee-backend/internal/catalog"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("item not found in cart")
)

type Repo struct{ DB *pgxpool.Pool }

// AddItem upserts a line in one statement. The conflict target is
// (cart_id, product_id, color, size); a merge only bumps the quantity,
// never the price snapshot, so concurrent adds cannot lose updates.
func (r *Repo) AddItem(ctx context.Context, userID string, it Item) (*Cart, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	var cartID string
	err = tx.QueryRow(ctx, `
		INSERT INTO carts(id, user_id, created_at, updated_at) VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id`, uuid.NewString(), userID, now).Scan(&cartID)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO cart_items(cart_id, product_id, color, size, quantity, price_at_addition)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cart_id, product_id, color, size)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		cartID, it.ProductID, it.SelectedVariant.Color, it.SelectedVariant.Size,
		it.Quantity, it.PriceAtAddition)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.Get(ctx, userID)
}

// Get returns the user's cart with product data expanded. A user with
// no cart gets an empty-items cart, not an error.
func (r *Repo) Get(ctx context.Context, userID string) (*Cart, error) {
	c := &Cart{UserID: userID, Items: []Item{}}
	err := r.DB.QueryRow(ctx,
		`SELECT id, created_at, updated_at FROM carts WHERE user_id=$1`, userID).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT ci.product_id, ci.color, ci.size, ci.quantity, ci.price_at_addition,
		       p.id, p.name, p.slug, p.price, p.discount, p.images, p.variants
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.product_id, ci.color, ci.size`, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		var p catalog.Product
		var variants []byte
		if err := rows.Scan(&it.ProductID, &it.SelectedVariant.Color, &it.SelectedVariant.Size,
			&it.Quantity, &it.PriceAtAddition,
			&p.ID, &p.Name, &p.Slug, &p.Price, &p.Discount, &p.Images, &variants); err != nil {
			return nil, err
		}
		if len(variants) > 0 {
			if err := json.Unmarshal(variants, &p.Variants); err != nil {
				return nil, fmt.Errorf("decode variants: %w", err)
			}
		}
		it.Product = &p
		c.Items = append(c.Items, it)
	}
	return c, rows.Err()
}

// UpdateQuantity sets the quantity of a matching line.
func (r *Repo) UpdateQuantity(ctx context.Context, userID string, v Variant, productID string, quantity int) (*Cart, error) {
	cartID, err := r.cartID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE cart_items SET quantity=$5
		WHERE cart_id=$1 AND product_id=$2 AND color=$3 AND size=$4`,
		cartID, productID, v.Color, v.Size, quantity)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrItemNotFound
	}
	return r.Get(ctx, userID)
}

// RemoveItem deletes matching lines; removing a line that is not there
// is a no-op, matching the filter semantics of the cart contract.
func (r *Repo) RemoveItem(ctx context.Context, userID string, v Variant, productID string) (*Cart, error) {
	cartID, err := r.cartID(ctx, userID)
	if err != nil {
		return nil, err
	}
	_, err = r.DB.Exec(ctx, `
		DELETE FROM cart_items
		WHERE cart_id=$1 AND product_id=$2 AND color=$3 AND size=$4`,
		cartID, productID, v.Color, v.Size)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, userID)
}

// Clear empties the items; the cart row itself persists.
func (r *Repo) Clear(ctx context.Context, userID string) error {
	cartID, err := r.cartID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return nil
		}
		return err
	}
	_, err = r.DB.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, cartID)
	return err
}

func (r *Repo) cartID(ctx context.Context, userID string) (string, error) {
	var id string
	err := r.DB.QueryRow(ctx, `SELECT id FROM carts WHERE user_id=$1`, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrCartNotFound
	}
	return id, err
}
