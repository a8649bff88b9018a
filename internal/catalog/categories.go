package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepo struct{ DB *pgxpool.Pool }

func (r *CategoryRepo) Create(ctx context.Context, c *Category) error {
	c.ID = uuid.NewString()
	c.Slug = slug.Make(c.Name)
	_, err := r.DB.Exec(ctx,
		`INSERT INTO categories(id, name, slug, parent_id, image) VALUES ($1,$2,$3,$4,$5)`,
		c.ID, c.Name, c.Slug, c.ParentID, c.Image)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	return err
}

func (r *CategoryRepo) Get(ctx context.Context, id string) (*Category, error) {
	var c Category
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, slug, parent_id, image FROM categories WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.Image)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, slug, parent_id, image FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.Image); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type CategoryUpdate struct {
	Name     *string
	ParentID *string
	Image    *string
}

func (r *CategoryRepo) Update(ctx context.Context, id string, u CategoryUpdate) (*Category, error) {
	c, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Name != nil {
		c.Name = *u.Name
		c.Slug = slug.Make(*u.Name)
	}
	if u.ParentID != nil {
		c.ParentID = u.ParentID
	}
	if u.Image != nil {
		c.Image = *u.Image
	}
	_, err = r.DB.Exec(ctx,
		`UPDATE categories SET name=$2, slug=$3, parent_id=$4, image=$5 WHERE id=$1`,
		c.ID, c.Name, c.Slug, c.ParentID, c.Image)
	if isUniqueViolation(err) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
