package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepo struct{ DB *pgxpool.Pool }

const productCols = `id, name, slug, description, category_id, brand_id, price, discount,
	images, variants, rating, reviews_count, is_featured, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var variants []byte
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.CategoryID, &p.BrandID,
		&p.Price, &p.Discount, &p.Images, &variants, &p.Rating, &p.ReviewsCount,
		&p.IsFeatured, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &p.Variants); err != nil {
			return nil, fmt.Errorf("decode variants: %w", err)
		}
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a product. The slug is derived from the name; a name
// collision surfaces as ErrSlugTaken.
func (r *ProductRepo) Create(ctx context.Context, p *Product) error {
	p.ID = uuid.NewString()
	p.Slug = slug.Make(p.Name)
	variants, err := json.Marshal(p.Variants)
	if err != nil {
		return err
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	_, err = r.DB.Exec(ctx, `
		INSERT INTO products(id, name, slug, description, category_id, brand_id, price, discount,
		                     images, variants, rating, reviews_count, is_featured, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		p.ID, p.Name, p.Slug, p.Description, p.CategoryID, p.BrandID, p.Price, p.Discount,
		p.Images, variants, p.Rating, p.ReviewsCount, p.IsFeatured, p.CreatedAt, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	return err
}

func (r *ProductRepo) Get(ctx context.Context, id string) (*Product, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id)
	return scanProduct(row)
}

func (r *ProductRepo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// NewArrivals returns the most recently created products.
func (r *ProductRepo) NewArrivals(ctx context.Context, limit int) ([]Product, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+productCols+` FROM products ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// ProductUpdate carries optional field changes; nil means "leave as is".
type ProductUpdate struct {
	Name         *string
	Description  *string
	CategoryID   *string
	BrandID      *string
	Price        *float64
	Discount     *float64
	Images       []string
	Variants     []Variant
	Rating       *float64
	ReviewsCount *int
	IsFeatured   *bool
}

// Update applies the changed fields. Renaming recomputes the slug.
func (r *ProductRepo) Update(ctx context.Context, id string, u ProductUpdate) (*Product, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Name != nil {
		p.Name = *u.Name
		p.Slug = slug.Make(*u.Name)
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.CategoryID != nil {
		p.CategoryID = *u.CategoryID
	}
	if u.BrandID != nil {
		p.BrandID = u.BrandID
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Discount != nil {
		p.Discount = *u.Discount
	}
	if u.Images != nil {
		p.Images = u.Images
	}
	if u.Variants != nil {
		p.Variants = u.Variants
	}
	if u.Rating != nil {
		p.Rating = *u.Rating
	}
	if u.ReviewsCount != nil {
		p.ReviewsCount = *u.ReviewsCount
	}
	if u.IsFeatured != nil {
		p.IsFeatured = *u.IsFeatured
	}
	p.UpdatedAt = time.Now().UTC()

	variants, err := json.Marshal(p.Variants)
	if err != nil {
		return nil, err
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET name=$2, slug=$3, description=$4, category_id=$5, brand_id=$6,
		       price=$7, discount=$8, images=$9, variants=$10, rating=$11, reviews_count=$12,
		       is_featured=$13, updated_at=$14
		WHERE id=$1`,
		p.ID, p.Name, p.Slug, p.Description, p.CategoryID, p.BrandID, p.Price, p.Discount,
		p.Images, variants, p.Rating, p.ReviewsCount, p.IsFeatured, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return p, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
