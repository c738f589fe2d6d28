package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// AdminRepository defines persistence access for administrators.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	Update(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates repository.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

const adminColumns = `id, admin_id, first_name, last_name, email, password_hash, preferences, created_at, updated_at`

func (r *adminRepository) Create(ctx context.Context, a *domain.Admin) error {
	const query = `
        INSERT INTO admins (id, admin_id, first_name, last_name, email, password_hash, preferences, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.AdminID,
		a.FirstName,
		a.LastName,
		a.Email,
		a.PasswordHash,
		preferencesOrEmpty(a.Preferences),
		a.CreatedAt,
		a.UpdatedAt,
	)
	return translate(err)
}

func (r *adminRepository) Update(ctx context.Context, a *domain.Admin) error {
	const query = `
        UPDATE admins SET first_name=$1, last_name=$2, email=$3, password_hash=$4, preferences=$5, updated_at=$6
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		a.FirstName,
		a.LastName,
		a.Email,
		a.PasswordHash,
		preferencesOrEmpty(a.Preferences),
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	return r.fetchSingle(ctx, `SELECT `+adminColumns+` FROM admins WHERE id=$1`, id)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.fetchSingle(ctx, `SELECT `+adminColumns+` FROM admins WHERE LOWER(email)=LOWER($1)`, email)
}

func (r *adminRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Admin, error) {
	var a domain.Admin
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&a.ID,
		&a.AdminID,
		&a.FirstName,
		&a.LastName,
		&a.Email,
		&a.PasswordHash,
		&a.Preferences,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
