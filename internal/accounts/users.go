package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("account not found")
	ErrEmailTaken = errors.New("email already exists")
)

type UserRepo struct{ DB *pgxpool.Pool }

const userCols = `id, name, email, password_hash, phone, role, avatar, is_verified, created_at, updated_at`

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *UserRepo) Create(ctx context.Context, u *User) error {
	u.ID = uuid.NewString()
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := r.DB.Exec(ctx, `
		INSERT INTO users(id, name, email, password_hash, phone, role, avatar, is_verified, created_at, updated_at)
		VALUES ($1, $2, lower($3), $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Phone, u.Role, u.Avatar, u.IsVerified, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Role,
		&u.Avatar, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Get(ctx context.Context, id string) (*User, error) {
	return scanUser(r.DB.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.DB.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email=lower($1)`, email))
}

func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+userCols+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// UserProfileUpdate covers the mutable profile fields. The role is not
// here on purpose: it cannot change through profile updates.
type UserProfileUpdate struct {
	Name   *string
	Phone  *string
	Avatar *string
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id string, u UserProfileUpdate) (*User, error) {
	cur, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Name != nil {
		cur.Name = *u.Name
	}
	if u.Phone != nil {
		cur.Phone = *u.Phone
	}
	if u.Avatar != nil {
		cur.Avatar = *u.Avatar
	}
	cur.UpdatedAt = time.Now().UTC()
	_, err = r.DB.Exec(ctx,
		`UPDATE users SET name=$2, phone=$3, avatar=$4, updated_at=$5 WHERE id=$1`,
		cur.ID, cur.Name, cur.Phone, cur.Avatar, cur.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return cur, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	ct, err := r.DB.Exec(ctx,
		`UPDATE users SET password_hash=$2, updated_at=$3 WHERE id=$1`, id, hash, time.Now().UTC())
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
