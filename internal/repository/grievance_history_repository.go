package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// GrievanceHistoryRepository stores timeline entries.
type GrievanceHistoryRepository interface {
	Create(ctx context.Context, history *domain.GrievanceHistory) error
	ListByGrievance(ctx context.Context, grievanceID string) ([]domain.GrievanceHistory, error)
}

type grievanceHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewGrievanceHistoryRepository builds repository.
func NewGrievanceHistoryRepository(pool *pgxpool.Pool) GrievanceHistoryRepository {
	return &grievanceHistoryRepository{pool: pool}
}

func (r *grievanceHistoryRepository) Create(ctx context.Context, history *domain.GrievanceHistory) error {
	const query = `
        INSERT INTO grievance_history (id, grievance_id, actor_role, actor_id, change_type, old_value, new_value, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.pool.Exec(ctx, query,
		history.ID,
		history.GrievanceID,
		history.ActorRole,
		history.ActorID,
		history.ChangeType,
		history.OldValue,
		history.NewValue,
		history.CreatedAt,
	)
	return err
}

func (r *grievanceHistoryRepository) ListByGrievance(ctx context.Context, grievanceID string) ([]domain.GrievanceHistory, error) {
	const query = `
        SELECT id, grievance_id, actor_role, actor_id, change_type, old_value, new_value, created_at
        FROM grievance_history WHERE grievance_id=$1 ORDER BY created_at ASC, id`
	rows, err := r.pool.Query(ctx, query, grievanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.GrievanceHistory
	for rows.Next() {
		var history domain.GrievanceHistory
		if err := rows.Scan(
			&history.ID,
			&history.GrievanceID,
			&history.ActorRole,
			&history.ActorID,
			&history.ChangeType,
			&history.OldValue,
			&history.NewValue,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}
