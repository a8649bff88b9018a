package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrInvalidWindow = errors.New("startDate must be before endDate")

type FlashSaleRepo struct{ DB *pgxpool.Pool }

func (r *FlashSaleRepo) Create(ctx context.Context, fs *FlashSale) error {
	if !fs.StartDate.Before(fs.EndDate) {
		return ErrInvalidWindow
	}
	fs.ID = uuid.NewString()
	fs.CreatedAt = time.Now().UTC()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO flash_sales(id, product_id, sale_price, start_date, end_date, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		fs.ID, fs.ProductID, fs.SalePrice, fs.StartDate, fs.EndDate, fs.CreatedAt)
	return err
}

func (r *FlashSaleRepo) Get(ctx context.Context, id string) (*FlashSale, error) {
	var fs FlashSale
	err := r.DB.QueryRow(ctx, `
		SELECT id, product_id, sale_price, start_date, end_date, created_at
		FROM flash_sales WHERE id=$1`, id).
		Scan(&fs.ID, &fs.ProductID, &fs.SalePrice, &fs.StartDate, &fs.EndDate, &fs.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fs, nil
}

// List returns all flash sales, or only the ones whose window contains
// now when activeOnly is set.
func (r *FlashSaleRepo) List(ctx context.Context, activeOnly bool, now time.Time) ([]FlashSale, error) {
	q := `SELECT id, product_id, sale_price, start_date, end_date, created_at FROM flash_sales`
	args := []any{}
	if activeOnly {
		q += ` WHERE start_date <= $1 AND end_date >= $1`
		args = append(args, now)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FlashSale
	for rows.Next() {
		var fs FlashSale
		if err := rows.Scan(&fs.ID, &fs.ProductID, &fs.SalePrice, &fs.StartDate, &fs.EndDate, &fs.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, fs)
	}
	return out, rows.Err()
}

// ActiveSale returns one flash sale covering now for the product, or nil.
// Overlapping windows are not tie-broken; the oldest record wins.
func (r *FlashSaleRepo) ActiveSale(ctx context.Context, productID string, now time.Time) (*FlashSale, error) {
	var fs FlashSale
	err := r.DB.QueryRow(ctx, `
		SELECT id, product_id, sale_price, start_date, end_date, created_at
		FROM flash_sales
		WHERE product_id=$1 AND start_date <= $2 AND end_date >= $2
		ORDER BY created_at
		LIMIT 1`, productID, now).
		Scan(&fs.ID, &fs.ProductID, &fs.SalePrice, &fs.StartDate, &fs.EndDate, &fs.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fs, nil
}

type FlashSaleUpdate struct {
	ProductID *string
	SalePrice *float64
	StartDate *time.Time
	EndDate   *time.Time
}

func (r *FlashSaleRepo) Update(ctx context.Context, id string, u FlashSaleUpdate) (*FlashSale, error) {
	fs, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.ProductID != nil {
		fs.ProductID = *u.ProductID
	}
	if u.SalePrice != nil {
		fs.SalePrice = *u.SalePrice
	}
	if u.StartDate != nil {
		fs.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		fs.EndDate = *u.EndDate
	}
	if !fs.StartDate.Before(fs.EndDate) {
		return nil, ErrInvalidWindow
	}
	_, err = r.DB.Exec(ctx, `
		UPDATE flash_sales SET product_id=$2, sale_price=$3, start_date=$4, end_date=$5 WHERE id=$1`,
		fs.ID, fs.ProductID, fs.SalePrice, fs.StartDate, fs.EndDate)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

func (r *FlashSaleRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM flash_sales WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
