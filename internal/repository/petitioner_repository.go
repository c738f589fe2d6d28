package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// PetitionerRepository defines persistence access for petitioners.
type PetitionerRepository interface {
	Create(ctx context.Context, petitioner *domain.Petitioner) error
	Update(ctx context.Context, petitioner *domain.Petitioner) error
	GetByID(ctx context.Context, id string) (*domain.Petitioner, error)
	GetByEmail(ctx context.Context, email string) (*domain.Petitioner, error)
}

type petitionerRepository struct {
	pool *pgxpool.Pool
}

// NewPetitionerRepository returns a Postgres-backed implementation.
func NewPetitionerRepository(pool *pgxpool.Pool) PetitionerRepository {
	return &petitionerRepository{pool: pool}
}

const petitionerColumns = `id, first_name, last_name, email, phone, address, city, state, pincode,
       password_hash, preferences, created_at, updated_at`

func (r *petitionerRepository) Create(ctx context.Context, p *domain.Petitioner) error {
	const query = `
        INSERT INTO petitioners (id, first_name, last_name, email, phone, address, city, state, pincode,
            password_hash, preferences, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.FirstName,
		p.LastName,
		p.Email,
		p.Phone,
		p.Address,
		p.City,
		p.State,
		p.Pincode,
		p.PasswordHash,
		preferencesOrEmpty(p.Preferences),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return translate(err)
}

func (r *petitionerRepository) Update(ctx context.Context, p *domain.Petitioner) error {
	const query = `
        UPDATE petitioners SET first_name=$1, last_name=$2, email=$3, phone=$4, address=$5, city=$6, state=$7,
            pincode=$8, password_hash=$9, preferences=$10, updated_at=$11
        WHERE id=$12`
	cmd, err := r.pool.Exec(ctx, query,
		p.FirstName,
		p.LastName,
		p.Email,
		p.Phone,
		p.Address,
		p.City,
		p.State,
		p.Pincode,
		p.PasswordHash,
		preferencesOrEmpty(p.Preferences),
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *petitionerRepository) GetByID(ctx context.Context, id string) (*domain.Petitioner, error) {
	return r.fetchSingle(ctx, `SELECT `+petitionerColumns+` FROM petitioners WHERE id=$1`, id)
}

func (r *petitionerRepository) GetByEmail(ctx context.Context, email string) (*domain.Petitioner, error) {
	return r.fetchSingle(ctx, `SELECT `+petitionerColumns+` FROM petitioners WHERE LOWER(email)=LOWER($1)`, email)
}

func (r *petitionerRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Petitioner, error) {
	var p domain.Petitioner
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&p.Phone,
		&p.Address,
		&p.City,
		&p.State,
		&p.Pincode,
		&p.PasswordHash,
		&p.Preferences,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func preferencesOrEmpty(prefs map[string]any) map[string]any {
	if prefs == nil {
		return map[string]any{}
	}
	return prefs
}
