package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/repository"
)

type grievanceRepository struct {
	s *Store
}

func cloneGrievance(g *domain.Grievance) *domain.Grievance {
	out := *g
	if g.Feedback != nil {
		fb := *g.Feedback
		out.Feedback = &fb
	}
	return &out
}

func (r *grievanceRepository) Create(_ context.Context, g *domain.Grievance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.grievances[g.ID]; exists {
		return repository.ErrDuplicate
	}
	for _, existing := range r.s.grievances {
		if existing.PetitionID == g.PetitionID {
			return repository.ErrDuplicate
		}
	}
	r.s.grievances[g.ID] = cloneGrievance(g)
	return nil
}

func (r *grievanceRepository) GetByID(_ context.Context, id string) (*domain.Grievance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.grievances[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	return cloneGrievance(g), nil
}

func (r *grievanceRepository) GetByPetitionID(_ context.Context, petitionID string) (*domain.Grievance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, g := range r.s.grievances {
		if g.PetitionID == petitionID {
			return cloneGrievance(g), nil
		}
	}
	return nil, repository.ErrNoRows
}

func (r *grievanceRepository) List(_ context.Context, filter repository.GrievanceFilter) ([]domain.Grievance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var search string
	if filter.SearchTerm != nil {
		search = strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
	}

	var matched []domain.Grievance
	for _, g := range r.s.grievances {
		if filter.PetitionerID != nil && g.PetitionerID != *filter.PetitionerID {
			continue
		}
		if filter.Department != nil && g.Department != *filter.Department {
			continue
		}
		if filter.AssignedTo != nil && g.AssignedToID() != *filter.AssignedTo {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, g.Status) {
			continue
		}
		if filter.EscalatedOnly && !g.IsEscalated {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(g.Title), search) &&
			!strings.Contains(strings.ToLower(g.Description), search) &&
			!strings.Contains(strings.ToLower(g.PetitionID), search) {
			continue
		}
		matched = append(matched, *cloneGrievance(g))
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if filter.EscalatedOnly && a.EscalatedAt != nil && b.EscalatedAt != nil && !a.EscalatedAt.Equal(*b.EscalatedAt) {
			return a.EscalatedAt.After(*b.EscalatedAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	limit, offset := repository.NormalizePage(filter.Limit, filter.Offset)
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// mutate applies fn under the write lock when ok reports the precondition
// holds, returning a copy of the updated grievance.
func (r *grievanceRepository) mutate(id string, ok func(*domain.Grievance) bool, fn func(*domain.Grievance)) (*domain.Grievance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	g, exists := r.s.grievances[id]
	if !exists || !ok(g) {
		return nil, repository.ErrNoRows
	}
	fn(g)
	return cloneGrievance(g), nil
}

func (r *grievanceRepository) Transition(_ context.Context, upd repository.TransitionUpdate) (*domain.Grievance, error) {
	return r.mutate(upd.ID,
		func(g *domain.Grievance) bool {
			if !slices.Contains(upd.From, g.Status) {
				return false
			}
			return upd.ExpectedAssignee == nil || g.AssignedToID() == *upd.ExpectedAssignee
		},
		func(g *domain.Grievance) {
			g.Status = upd.To
			g.UpdatedAt = upd.At
			if upd.AssignTo != nil {
				g.AssignedTo = upd.AssignTo
			}
			if upd.ResolutionDocument != nil {
				g.ResolutionDocument = upd.ResolutionDocument
			}
			if upd.RejectionReason != nil {
				g.RejectionReason = upd.RejectionReason
			}
		})
}

func (r *grievanceRepository) Escalate(_ context.Context, upd repository.EscalationUpdate) (*domain.Grievance, error) {
	return r.mutate(upd.ID,
		func(g *domain.Grievance) bool {
			return g.EscalationEligible && !g.IsEscalated && !g.Status.Terminal()
		},
		func(g *domain.Grievance) {
			at := upd.At
			g.IsEscalated = true
			g.EscalationReason = upd.Reason
			g.EscalatedAt = &at
			g.UpdatedAt = at
		})
}

func (r *grievanceRepository) RespondToEscalation(_ context.Context, upd repository.ResponseUpdate) (*domain.Grievance, error) {
	return r.mutate(upd.ID,
		func(g *domain.Grievance) bool {
			if !g.IsEscalated || g.HasResponse() {
				return false
			}
			return upd.ReassignTo == nil || !g.Status.Terminal()
		},
		func(g *domain.Grievance) {
			at := upd.At
			response := upd.Response
			respondedBy := upd.RespondedBy
			g.EscalationResponse = &response
			g.EscalationRespondedBy = &respondedBy
			g.EscalationRespondedAt = &at
			g.UpdatedAt = at
			if upd.ReassignTo != nil {
				assignee := *upd.ReassignTo
				g.AssignedTo = &assignee
				if g.Status == domain.StatusPending {
					g.Status = domain.StatusAssigned
				}
			}
		})
}

func (r *grievanceRepository) SubmitFeedback(_ context.Context, id string, feedback domain.Feedback) (*domain.Grievance, error) {
	return r.mutate(id,
		func(g *domain.Grievance) bool {
			return g.Status == domain.StatusResolved && g.Feedback == nil
		},
		func(g *domain.Grievance) {
			fb := feedback
			g.Feedback = &fb
			g.UpdatedAt = feedback.SubmittedAt
		})
}

func (r *grievanceRepository) MarkEligible(_ context.Context, staleBefore time.Time) ([]domain.Grievance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var marked []domain.Grievance
	for _, g := range r.s.grievances {
		if g.EscalationEligible || g.IsEscalated || g.Status.Terminal() || !g.UpdatedAt.Before(staleBefore) {
			continue
		}
		g.EscalationEligible = true
		marked = append(marked, *cloneGrievance(g))
	}
	sort.Slice(marked, func(i, j int) bool { return marked[i].ID < marked[j].ID })
	return marked, nil
}

func (r *grievanceRepository) CountByStatus(_ context.Context, filter repository.StatsFilter) (domain.StatusCounts, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var counts domain.StatusCounts
	for _, g := range r.s.grievances {
		if filter.PetitionerID != nil && g.PetitionerID != *filter.PetitionerID {
			continue
		}
		if filter.Department != nil && g.Department != *filter.Department {
			continue
		}
		counts.Add(g)
	}
	return counts, nil
}

func (r *grievanceRepository) CountByDepartment(_ context.Context) ([]domain.DepartmentStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	found := map[domain.Department]*domain.StatusCounts{}
	for _, dept := range domain.Departments {
		found[dept] = &domain.StatusCounts{}
	}
	for _, g := range r.s.grievances {
		if counts, ok := found[g.Department]; ok {
			counts.Add(g)
		}
	}

	result := make([]domain.DepartmentStats, 0, len(domain.Departments))
	for _, dept := range domain.Departments {
		result = append(result, domain.DepartmentStats{Department: dept, Counts: *found[dept]})
	}
	return result, nil
}

func (r *grievanceRepository) MonthlyTrend(_ context.Context, since time.Time) ([]domain.MonthlyStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byMonth := map[string]*domain.MonthlyStats{}
	for _, g := range r.s.grievances {
		if g.CreatedAt.Before(since) {
			continue
		}
		month := g.CreatedAt.UTC().Format("2006-01")
		m, ok := byMonth[month]
		if !ok {
			m = &domain.MonthlyStats{Month: month}
			byMonth[month] = m
		}
		m.Created++
		if g.Status == domain.StatusResolved {
			m.Resolved++
		}
	}

	result := make([]domain.MonthlyStats, 0, len(byMonth))
	for _, m := range byMonth {
		result = append(result, *m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result, nil
}
