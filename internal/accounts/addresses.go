package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrTooManyAddresses = errors.New("maximum 4 addresses allowed per user")

const maxAddressesPerUser = 4

type AddressRepo struct{ DB *pgxpool.Pool }

const addressCols = `id, user_id, full_name, phone, address_line1, address_line2, city, state,
	postal_code, country, is_default, created_at`

// Add inserts an address, enforcing the per-user cap and keeping at
// most one default.
func (r *AddressRepo) Add(ctx context.Context, a *Address) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var n int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM addresses WHERE user_id=$1`, a.UserID).Scan(&n); err != nil {
		return err
	}
	if n >= maxAddressesPerUser {
		return ErrTooManyAddresses
	}

	if a.IsDefault {
		if _, err := tx.Exec(ctx,
			`UPDATE addresses SET is_default=false WHERE user_id=$1`, a.UserID); err != nil {
			return err
		}
	}

	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	_, err = tx.Exec(ctx, `
		INSERT INTO addresses(id, user_id, full_name, phone, address_line1, address_line2,
		                      city, state, postal_code, country, is_default, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, a.UserID, a.FullName, a.Phone, a.AddressLine1, a.AddressLine2,
		a.City, a.State, a.PostalCode, a.Country, a.IsDefault, a.CreatedAt)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanAddress(row pgx.Row) (*Address, error) {
	var a Address
	err := row.Scan(&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.AddressLine1, &a.AddressLine2,
		&a.City, &a.State, &a.PostalCode, &a.Country, &a.IsDefault, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns the user's addresses, default first, newest next.
func (r *AddressRepo) List(ctx context.Context, userID string) ([]Address, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+addressCols+` FROM addresses
		WHERE user_id=$1 ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

type AddressUpdate struct {
	FullName     *string
	Phone        *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	PostalCode   *string
	Country      *string
	IsDefault    *bool
}

func (r *AddressRepo) Update(ctx context.Context, userID, id string, u AddressUpdate) (*Address, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	a, err := scanAddress(tx.QueryRow(ctx,
		`SELECT `+addressCols+` FROM addresses WHERE id=$1 AND user_id=$2`, id, userID))
	if err != nil {
		return nil, err
	}

	if u.IsDefault != nil && *u.IsDefault && !a.IsDefault {
		if _, err := tx.Exec(ctx,
			`UPDATE addresses SET is_default=false WHERE user_id=$1`, userID); err != nil {
			return nil, err
		}
	}

	if u.FullName != nil {
		a.FullName = *u.FullName
	}
	if u.Phone != nil {
		a.Phone = *u.Phone
	}
	if u.AddressLine1 != nil {
		a.AddressLine1 = *u.AddressLine1
	}
	if u.AddressLine2 != nil {
		a.AddressLine2 = *u.AddressLine2
	}
	if u.City != nil {
		a.City = *u.City
	}
	if u.State != nil {
		a.State = *u.State
	}
	if u.PostalCode != nil {
		a.PostalCode = *u.PostalCode
	}
	if u.Country != nil {
		a.Country = *u.Country
	}
	if u.IsDefault != nil {
		a.IsDefault = *u.IsDefault
	}

	_, err = tx.Exec(ctx, `
		UPDATE addresses SET full_name=$3, phone=$4, address_line1=$5, address_line2=$6,
		       city=$7, state=$8, postal_code=$9, country=$10, is_default=$11
		WHERE id=$1 AND user_id=$2`,
		a.ID, userID, a.FullName, a.Phone, a.AddressLine1, a.AddressLine2,
		a.City, a.State, a.PostalCode, a.Country, a.IsDefault)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AddressRepo) Delete(ctx context.Context, userID, id string) error {
	ct, err := r.DB.Exec(ctx,
		`DELETE FROM addresses WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetDefault marks one address default and clears the rest.
func (r *AddressRepo) SetDefault(ctx context.Context, userID, id string) (*Address, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`UPDATE addresses SET is_default=false WHERE user_id=$1`, userID); err != nil {
		return nil, err
	}
	ct, err := tx.Exec(ctx,
		`UPDATE addresses SET is_default=true WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return scanAddress(r.DB.QueryRow(ctx,
		`SELECT `+addressCols+` FROM addresses WHERE id=$1 AND user_id=$2`, id, userID))
}
