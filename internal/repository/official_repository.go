package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// OfficialRepository defines persistence access for department officials.
type OfficialRepository interface {
	Create(ctx context.Context, official *domain.Official) error
	Update(ctx context.Context, official *domain.Official) error
	GetByID(ctx context.Context, id string) (*domain.Official, error)
	GetByEmail(ctx context.Context, email string) (*domain.Official, error)
	// ListByDepartment returns officials ordered by employee id then id.
	ListByDepartment(ctx context.Context, department domain.Department) ([]domain.Official, error)
}

type officialRepository struct {
	pool *pgxpool.Pool
}

// NewOfficialRepository creates repository.
func NewOfficialRepository(pool *pgxpool.Pool) OfficialRepository {
	return &officialRepository{pool: pool}
}

const officialColumns = `id, department, employee_id, first_name, last_name, email, phone, designation,
       city, district, password_hash, preferences, created_at, updated_at`

func (r *officialRepository) Create(ctx context.Context, o *domain.Official) error {
	const query = `
        INSERT INTO officials (id, department, employee_id, first_name, last_name, email, phone, designation,
            city, district, password_hash, preferences, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	_, err := r.pool.Exec(ctx, query,
		o.ID,
		o.Department,
		o.EmployeeID,
		o.FirstName,
		o.LastName,
		o.Email,
		o.Phone,
		o.Designation,
		o.City,
		o.District,
		o.PasswordHash,
		preferencesOrEmpty(o.Preferences),
		o.CreatedAt,
		o.UpdatedAt,
	)
	return translate(err)
}

// Update never changes department or employee id.
func (r *officialRepository) Update(ctx context.Context, o *domain.Official) error {
	const query = `
        UPDATE officials SET first_name=$1, last_name=$2, email=$3, phone=$4, designation=$5, city=$6,
            district=$7, password_hash=$8, preferences=$9, updated_at=$10
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		o.FirstName,
		o.LastName,
		o.Email,
		o.Phone,
		o.Designation,
		o.City,
		o.District,
		o.PasswordHash,
		preferencesOrEmpty(o.Preferences),
		o.UpdatedAt,
		o.ID,
	)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *officialRepository) GetByID(ctx context.Context, id string) (*domain.Official, error) {
	return scanOfficial(r.pool.QueryRow(ctx, `SELECT `+officialColumns+` FROM officials WHERE id=$1`, id))
}

func (r *officialRepository) GetByEmail(ctx context.Context, email string) (*domain.Official, error) {
	return scanOfficial(r.pool.QueryRow(ctx, `SELECT `+officialColumns+` FROM officials WHERE LOWER(email)=LOWER($1)`, email))
}

func (r *officialRepository) ListByDepartment(ctx context.Context, department domain.Department) ([]domain.Official, error) {
	query := `SELECT ` + officialColumns + ` FROM officials WHERE department=$1 ORDER BY employee_id, id`
	rows, err := r.pool.Query(ctx, query, department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Official
	for rows.Next() {
		o, err := scanOfficial(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	return result, rows.Err()
}

func scanOfficial(row rowScanner) (*domain.Official, error) {
	var o domain.Official
	if err := row.Scan(
		&o.ID,
		&o.Department,
		&o.EmployeeID,
		&o.FirstName,
		&o.LastName,
		&o.Email,
		&o.Phone,
		&o.Designation,
		&o.City,
		&o.District,
		&o.PasswordHash,
		&o.Preferences,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}
