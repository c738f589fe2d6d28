package service

import (
	"context"
	"strings"

	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/repository"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

const eventRespond = "respond"

// EscalationService routes escalated grievances to responders.
type EscalationService struct {
	grievanceCore
}

// RespondInput carries an escalation response. ReassignTo optionally moves
// the grievance to another official of the same department.
type RespondInput struct {
	Response   string
	ReassignTo *string
}

// NewEscalationService constructs the service.
func NewEscalationService(deps GrievanceDependencies) *EscalationService {
	return &EscalationService{grievanceCore: newGrievanceCore(deps)}
}

// ListEligibleResponders returns the officials of a department ordered by
// employee id, then id.
func (s *EscalationService) ListEligibleResponders(ctx context.Context, p domain.Principal, department string) ([]domain.Official, error) {
	if err := auth.CheckRole(p, auth.ActionListResponders); err != nil {
		return nil, err
	}
	dept, ok := domain.ParseDepartment(department)
	if !ok {
		return nil, apperrors.NewValidationError("unknown department", map[string]any{"department": department})
	}
	if err := auth.Authorize(p, auth.ActionListResponders, auth.Target{Department: dept}); err != nil {
		return nil, err
	}
	officials, err := s.officials.ListByDepartment(ctx, dept)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return officials, nil
}

// Respond answers an escalation exactly once. Concurrent responders race on
// a single conditional update; losers observe AlreadyResponded.
func (s *EscalationService) Respond(ctx context.Context, p domain.Principal, ref string, input RespondInput) (*domain.Grievance, error) {
	if err := auth.CheckRole(p, auth.ActionRespond); err != nil {
		return nil, s.reject(ctx, eventRespond, err)
	}
	reassignTo := optionalText(derefString(input.ReassignTo))
	if reassignTo != nil {
		if err := auth.CheckRole(p, auth.ActionReassign); err != nil {
			return nil, s.reject(ctx, eventRespond, err)
		}
	}
	g, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(p, auth.ActionRespond, auth.GrievanceTarget(g)); err != nil {
		return nil, s.reject(ctx, eventRespond, err)
	}

	response := strings.TrimSpace(input.Response)
	if response == "" {
		return nil, s.reject(ctx, eventRespond, apperrors.NewEmptyResponse())
	}

	check := func(current *domain.Grievance) error {
		if !current.IsEscalated {
			return apperrors.NewInvalidTransition(string(current.Status), eventRespond)
		}
		if current.HasResponse() {
			return apperrors.NewAlreadyResponded(current.ID)
		}
		return nil
	}
	if err := check(g); err != nil {
		return nil, s.reject(ctx, eventRespond, err)
	}

	if reassignTo != nil {
		official, err := s.loadOfficial(ctx, *reassignTo)
		if err != nil {
			return nil, err
		}
		if official.Department != g.Department {
			return nil, s.reject(ctx, eventRespond,
				apperrors.NewCrossDepartmentReassignment(string(g.Department), string(official.Department)))
		}
		baseCheck := check
		check = func(current *domain.Grievance) error {
			if err := baseCheck(current); err != nil {
				return err
			}
			if current.Status.Terminal() {
				return apperrors.NewInvalidTransition(string(current.Status), "reassign")
			}
			return nil
		}
		if err := check(g); err != nil {
			return nil, s.reject(ctx, eventRespond, err)
		}
	}

	updated, err := s.applyConditional(ctx, g.ID, eventRespond, check, func() (*domain.Grievance, error) {
		return s.grievances.RespondToEscalation(ctx, repository.ResponseUpdate{
			ID:          g.ID,
			Response:    response,
			RespondedBy: p.ID,
			ReassignTo:  reassignTo,
			At:          s.now(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.recordHistory(ctx, g.ID, p, domain.ChangeTypeEscalationResponse, nil, map[string]any{
		"response":    response,
		"reassign_to": reassignTo,
	})
	if reassignTo != nil && g.AssignedToID() != *reassignTo {
		s.recordHistory(ctx, g.ID, p, domain.ChangeTypeAssignee,
			map[string]any{"assigned_to": g.AssignedTo},
			map[string]any{"assigned_to": *reassignTo})
	}
	if g.Status != updated.Status {
		s.recordHistory(ctx, g.ID, p, domain.ChangeTypeStatus,
			map[string]any{"status": g.Status},
			map[string]any{"status": updated.Status})
	}
	s.publishEvent(ctx, grievanceEvent(events.EventEscalationResponded, updated, p, events.EscalationRespondedPayload{
		Response:   response,
		ReassignTo: reassignTo,
	}))
	return updated, nil
}

// ListEscalated returns escalated grievances, newest escalation first.
// Officials only see their own department.
func (s *EscalationService) ListEscalated(ctx context.Context, p domain.Principal, limit, offset int) ([]domain.Grievance, error) {
	if err := auth.CheckRole(p, auth.ActionListEscalated); err != nil {
		return nil, err
	}
	filter := repository.GrievanceFilter{EscalatedOnly: true, Limit: limit, Offset: offset}
	if p.IsOfficial() {
		dept := p.Department
		filter.Department = &dept
	}
	list, err := s.grievances.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return list, nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
