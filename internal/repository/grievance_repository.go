package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// GrievanceFilter captures list parameters. Nil fields do not filter.
type GrievanceFilter struct {
	PetitionerID  *string
	Department    *domain.Department
	AssignedTo    *string
	Statuses      []domain.GrievanceStatus
	EscalatedOnly bool
	SearchTerm    *string
	Limit         int
	Offset        int
}

// StatsFilter narrows aggregate queries.
type StatsFilter struct {
	PetitionerID *string
	Department   *domain.Department
}

// TransitionUpdate is a conditional status change. It only applies while the
// grievance is in one of From and, when ExpectedAssignee is set, still
// assigned to that official.
type TransitionUpdate struct {
	ID                 string
	From               []domain.GrievanceStatus
	ExpectedAssignee   *string
	To                 domain.GrievanceStatus
	AssignTo           *string
	ResolutionDocument *string
	RejectionReason    *string
	At                 time.Time
}

// EscalationUpdate flags an eligible, unescalated, non-terminal grievance.
type EscalationUpdate struct {
	ID     string
	Reason string
	At     time.Time
}

// ResponseUpdate records the single escalation response. ReassignTo, when
// set, also replaces the assignee and moves a pending grievance to assigned.
type ResponseUpdate struct {
	ID          string
	Response    string
	RespondedBy string
	ReassignTo  *string
	At          time.Time
}

// GrievanceRepository encapsulates grievance persistence. Every mutating
// method is a single conditional update; ErrNoRows means the row is missing
// or its precondition failed, and callers re-read to tell which.
type GrievanceRepository interface {
	Create(ctx context.Context, grievance *domain.Grievance) error
	GetByID(ctx context.Context, id string) (*domain.Grievance, error)
	GetByPetitionID(ctx context.Context, petitionID string) (*domain.Grievance, error)
	List(ctx context.Context, filter GrievanceFilter) ([]domain.Grievance, error)

	Transition(ctx context.Context, upd TransitionUpdate) (*domain.Grievance, error)
	Escalate(ctx context.Context, upd EscalationUpdate) (*domain.Grievance, error)
	RespondToEscalation(ctx context.Context, upd ResponseUpdate) (*domain.Grievance, error)
	SubmitFeedback(ctx context.Context, id string, feedback domain.Feedback) (*domain.Grievance, error)
	MarkEligible(ctx context.Context, staleBefore time.Time) ([]domain.Grievance, error)

	CountByStatus(ctx context.Context, filter StatsFilter) (domain.StatusCounts, error)
	CountByDepartment(ctx context.Context) ([]domain.DepartmentStats, error)
	MonthlyTrend(ctx context.Context, since time.Time) ([]domain.MonthlyStats, error)
}

type grievanceRepository struct {
	pool *pgxpool.Pool
}

// NewGrievanceRepository instantiates repository.
func NewGrievanceRepository(pool *pgxpool.Pool) GrievanceRepository {
	return &grievanceRepository{pool: pool}
}

const grievanceColumns = `id, petition_id, petitioner_id, title, description, department, status, priority,
       assigned_to, resolution_document, rejection_reason,
       is_escalated, escalation_eligible, escalation_reason, escalated_at,
       escalation_response, escalation_responded_by, escalation_responded_at,
       feedback_rating, feedback_comment, feedback_at, created_at, updated_at`

const terminalStatuses = `('resolved', 'rejected')`

func (r *grievanceRepository) Create(ctx context.Context, g *domain.Grievance) error {
	const query = `
        INSERT INTO grievances (id, petition_id, petitioner_id, title, description, department, status, priority,
            escalation_eligible, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err := r.pool.Exec(ctx, query,
		g.ID,
		g.PetitionID,
		g.PetitionerID,
		g.Title,
		g.Description,
		g.Department,
		g.Status,
		g.Priority,
		g.EscalationEligible,
		g.CreatedAt,
		g.UpdatedAt,
	)
	return translate(err)
}

func (r *grievanceRepository) GetByID(ctx context.Context, id string) (*domain.Grievance, error) {
	return scanGrievance(r.pool.QueryRow(ctx, `SELECT `+grievanceColumns+` FROM grievances WHERE id=$1`, id))
}

func (r *grievanceRepository) GetByPetitionID(ctx context.Context, petitionID string) (*domain.Grievance, error) {
	return scanGrievance(r.pool.QueryRow(ctx, `SELECT `+grievanceColumns+` FROM grievances WHERE petition_id=$1`, petitionID))
}

func (r *grievanceRepository) List(ctx context.Context, filter GrievanceFilter) ([]domain.Grievance, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.PetitionerID != nil {
		args = append(args, *filter.PetitionerID)
		clauses = append(clauses, fmt.Sprintf("petitioner_id=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		args = append(args, statusStrings(filter.Statuses))
		clauses = append(clauses, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if filter.EscalatedOnly {
		clauses = append(clauses, "is_escalated")
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s OR LOWER(petition_id) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	limit, offset := NormalizePage(filter.Limit, filter.Offset)
	order := "created_at DESC, id"
	if filter.EscalatedOnly {
		order = "escalated_at DESC, id"
	}

	query := fmt.Sprintf(`SELECT %s FROM grievances WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		grievanceColumns, strings.Join(clauses, " AND "), order, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGrievances(rows)
}

func (r *grievanceRepository) Transition(ctx context.Context, upd TransitionUpdate) (*domain.Grievance, error) {
	query := `
        UPDATE grievances SET status=$2, updated_at=$3,
            assigned_to=COALESCE($4, assigned_to),
            resolution_document=COALESCE($5, resolution_document),
            rejection_reason=COALESCE($6, rejection_reason)
        WHERE id=$1 AND status = ANY($7) AND ($8::text IS NULL OR assigned_to=$8)
        RETURNING ` + grievanceColumns
	return scanGrievance(r.pool.QueryRow(ctx, query,
		upd.ID,
		upd.To,
		upd.At,
		upd.AssignTo,
		upd.ResolutionDocument,
		upd.RejectionReason,
		statusStrings(upd.From),
		upd.ExpectedAssignee,
	))
}

func (r *grievanceRepository) Escalate(ctx context.Context, upd EscalationUpdate) (*domain.Grievance, error) {
	query := `
        UPDATE grievances SET is_escalated=TRUE, escalation_reason=$2, escalated_at=$3, updated_at=$3
        WHERE id=$1 AND escalation_eligible AND NOT is_escalated AND status NOT IN ` + terminalStatuses + `
        RETURNING ` + grievanceColumns
	return scanGrievance(r.pool.QueryRow(ctx, query, upd.ID, upd.Reason, upd.At))
}

func (r *grievanceRepository) RespondToEscalation(ctx context.Context, upd ResponseUpdate) (*domain.Grievance, error) {
	query := `
        UPDATE grievances SET escalation_response=$2, escalation_responded_by=$3, escalation_responded_at=$4, updated_at=$4,
            assigned_to=COALESCE($5, assigned_to),
            status=CASE WHEN $5::text IS NOT NULL AND status='pending' THEN 'assigned' ELSE status END
        WHERE id=$1 AND is_escalated AND escalation_response IS NULL
            AND ($5::text IS NULL OR status NOT IN ` + terminalStatuses + `)
        RETURNING ` + grievanceColumns
	return scanGrievance(r.pool.QueryRow(ctx, query, upd.ID, upd.Response, upd.RespondedBy, upd.At, upd.ReassignTo))
}

func (r *grievanceRepository) SubmitFeedback(ctx context.Context, id string, feedback domain.Feedback) (*domain.Grievance, error) {
	query := `
        UPDATE grievances SET feedback_rating=$2, feedback_comment=$3, feedback_at=$4, updated_at=$4
        WHERE id=$1 AND status='resolved' AND feedback_rating IS NULL
        RETURNING ` + grievanceColumns
	return scanGrievance(r.pool.QueryRow(ctx, query, id, feedback.Rating, feedback.Comment, feedback.SubmittedAt))
}

func (r *grievanceRepository) MarkEligible(ctx context.Context, staleBefore time.Time) ([]domain.Grievance, error) {
	query := `
        UPDATE grievances SET escalation_eligible=TRUE
        WHERE NOT escalation_eligible AND NOT is_escalated AND status NOT IN ` + terminalStatuses + ` AND updated_at < $1
        RETURNING ` + grievanceColumns
	rows, err := r.pool.Query(ctx, query, staleBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGrievances(rows)
}

const countColumns = `COUNT(*),
       COUNT(*) FILTER (WHERE status='pending'),
       COUNT(*) FILTER (WHERE status='assigned'),
       COUNT(*) FILTER (WHERE status='in-progress'),
       COUNT(*) FILTER (WHERE status='resolved'),
       COUNT(*) FILTER (WHERE status='rejected'),
       COUNT(*) FILTER (WHERE is_escalated)`

func (r *grievanceRepository) CountByStatus(ctx context.Context, filter StatsFilter) (domain.StatusCounts, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.PetitionerID != nil {
		args = append(args, *filter.PetitionerID)
		clauses = append(clauses, fmt.Sprintf("petitioner_id=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}

	var counts domain.StatusCounts
	query := fmt.Sprintf(`SELECT %s FROM grievances WHERE %s`, countColumns, strings.Join(clauses, " AND "))
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&counts.Total,
		&counts.Pending,
		&counts.Assigned,
		&counts.InProgress,
		&counts.Resolved,
		&counts.Rejected,
		&counts.Escalated,
	)
	return counts, err
}

func (r *grievanceRepository) CountByDepartment(ctx context.Context) ([]domain.DepartmentStats, error) {
	query := `SELECT department, ` + countColumns + ` FROM grievances GROUP BY department`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := map[domain.Department]domain.StatusCounts{}
	for rows.Next() {
		var (
			dept   domain.Department
			counts domain.StatusCounts
		)
		if err := rows.Scan(
			&dept,
			&counts.Total,
			&counts.Pending,
			&counts.Assigned,
			&counts.InProgress,
			&counts.Resolved,
			&counts.Rejected,
			&counts.Escalated,
		); err != nil {
			return nil, err
		}
		found[dept] = counts
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]domain.DepartmentStats, 0, len(domain.Departments))
	for _, dept := range domain.Departments {
		result = append(result, domain.DepartmentStats{Department: dept, Counts: found[dept]})
	}
	return result, nil
}

func (r *grievanceRepository) MonthlyTrend(ctx context.Context, since time.Time) ([]domain.MonthlyStats, error) {
	const query = `
        SELECT TO_CHAR(DATE_TRUNC('month', created_at), 'YYYY-MM') AS month,
               COUNT(*),
               COUNT(*) FILTER (WHERE status='resolved')
        FROM grievances
        WHERE created_at >= $1
        GROUP BY DATE_TRUNC('month', created_at)
        ORDER BY DATE_TRUNC('month', created_at)`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MonthlyStats
	for rows.Next() {
		var m domain.MonthlyStats
		if err := rows.Scan(&m.Month, &m.Created, &m.Resolved); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func scanGrievance(row rowScanner) (*domain.Grievance, error) {
	var (
		g               domain.Grievance
		feedbackRating  *int
		feedbackComment *string
		feedbackAt      *time.Time
	)
	if err := row.Scan(
		&g.ID,
		&g.PetitionID,
		&g.PetitionerID,
		&g.Title,
		&g.Description,
		&g.Department,
		&g.Status,
		&g.Priority,
		&g.AssignedTo,
		&g.ResolutionDocument,
		&g.RejectionReason,
		&g.IsEscalated,
		&g.EscalationEligible,
		&g.EscalationReason,
		&g.EscalatedAt,
		&g.EscalationResponse,
		&g.EscalationRespondedBy,
		&g.EscalationRespondedAt,
		&feedbackRating,
		&feedbackComment,
		&feedbackAt,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if feedbackRating != nil {
		g.Feedback = &domain.Feedback{Rating: *feedbackRating}
		if feedbackComment != nil {
			g.Feedback.Comment = *feedbackComment
		}
		if feedbackAt != nil {
			g.Feedback.SubmittedAt = *feedbackAt
		}
	}
	return &g, nil
}

func scanGrievances(rows pgx.Rows) ([]domain.Grievance, error) {
	var result []domain.Grievance
	for rows.Next() {
		g, err := scanGrievance(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *g)
	}
	return result, rows.Err()
}

func statusStrings(statuses []domain.GrievanceStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// NormalizePage clamps paging parameters to a default of 20 and a maximum
// of 100 rows.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
