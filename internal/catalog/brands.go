package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BrandRepo struct{ DB *pgxpool.Pool }

func (r *BrandRepo) Create(ctx context.Context, b *Brand) error {
	b.ID = uuid.NewString()
	_, err := r.DB.Exec(ctx, `INSERT INTO brands(id, name, logo) VALUES ($1,$2,$3)`,
		b.ID, b.Name, b.Logo)
	return err
}

func (r *BrandRepo) Get(ctx context.Context, id string) (*Brand, error) {
	var b Brand
	err := r.DB.QueryRow(ctx, `SELECT id, name, logo FROM brands WHERE id=$1`, id).
		Scan(&b.ID, &b.Name, &b.Logo)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BrandRepo) List(ctx context.Context) ([]Brand, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, logo FROM brands ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Brand
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Logo); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BrandRepo) Update(ctx context.Context, id string, name, logo *string) (*Brand, error) {
	b, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		b.Name = *name
	}
	if logo != nil {
		b.Logo = *logo
	}
	_, err = r.DB.Exec(ctx, `UPDATE brands SET name=$2, logo=$3 WHERE id=$1`, b.ID, b.Name, b.Logo)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BrandRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM brands WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
