package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepo struct{ DB *pgxpool.Pool }

const adminCols = `id, first_name, last_name, email, password_hash, phone_number,
	profile_image, department, organization, role, created_at, updated_at`

func (r *AdminRepo) Create(ctx context.Context, a *Admin) error {
	a.ID = uuid.NewString()
	if a.Role == "" {
		a.Role = RoleSuperAdmin
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	_, err := r.DB.Exec(ctx, `
		INSERT INTO admins(id, first_name, last_name, email, password_hash, phone_number,
		                   profile_image, department, organization, role, created_at, updated_at)
		VALUES ($1, $2, $3, lower($4), $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.FirstName, a.LastName, a.Email, a.PasswordHash, a.PhoneNumber,
		a.ProfileImage, a.Department, a.Organization, a.Role, a.CreatedAt, a.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func scanAdmin(row pgx.Row) (*Admin, error) {
	var a Admin
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &a.PhoneNumber,
		&a.ProfileImage, &a.Department, &a.Organization, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepo) Get(ctx context.Context, id string) (*Admin, error) {
	return scanAdmin(r.DB.QueryRow(ctx, `SELECT `+adminCols+` FROM admins WHERE id=$1`, id))
}

func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	return scanAdmin(r.DB.QueryRow(ctx, `SELECT `+adminCols+` FROM admins WHERE email=lower($1)`, email))
}

type AdminProfileUpdate struct {
	FirstName    *string
	LastName     *string
	PhoneNumber  *string
	ProfileImage *string
	Department   *string
	Organization *string
}

func (r *AdminRepo) UpdateProfile(ctx context.Context, id string, u AdminProfileUpdate) (*Admin, error) {
	cur, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.FirstName != nil {
		cur.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		cur.LastName = *u.LastName
	}
	if u.PhoneNumber != nil {
		cur.PhoneNumber = *u.PhoneNumber
	}
	if u.ProfileImage != nil {
		cur.ProfileImage = *u.ProfileImage
	}
	if u.Department != nil {
		cur.Department = *u.Department
	}
	if u.Organization != nil {
		cur.Organization = *u.Organization
	}
	cur.UpdatedAt = time.Now().UTC()
	_, err = r.DB.Exec(ctx, `
		UPDATE admins SET first_name=$2, last_name=$3, phone_number=$4, profile_image=$5,
		       department=$6, organization=$7, updated_at=$8
		WHERE id=$1`,
		cur.ID, cur.FirstName, cur.LastName, cur.PhoneNumber, cur.ProfileImage,
		cur.Department, cur.Organization, cur.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return cur, nil
}

func (r *AdminRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	ct, err := r.DB.Exec(ctx,
		`UPDATE admins SET password_hash=$2, updated_at=$3 WHERE id=$1`, id, hash, time.Now().UTC())
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
