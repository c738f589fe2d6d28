package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/repository"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// Lifecycle events as reported in errors and metrics.
const (
	eventAssign    = "assign"
	eventStartWork = "startWork"
	eventResolve   = "resolve"
	eventReject    = "reject"
	eventEscalate  = "escalate"
	eventFeedback  = "feedback"
)

// LifecycleService drives grievances through their state machine.
//
// Every operation checks, in order: the caller's role, the grievance's
// existence, the caller's authority over it, referenced officials, and
// finally the state precondition. A refused operation leaves the grievance
// untouched.
type LifecycleService struct {
	grievanceCore
}

// CreateGrievanceInput describes grievance creation payload.
type CreateGrievanceInput struct {
	Title       string
	Description string
	Department  string
	Priority    string
}

// GrievanceListFilter narrows role-scoped listings.
type GrievanceListFilter struct {
	Statuses      []domain.GrievanceStatus
	Department    *domain.Department
	AssignedToMe  bool
	EscalatedOnly bool
	SearchTerm    *string
	Limit         int
	Offset        int
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps GrievanceDependencies) *LifecycleService {
	return &LifecycleService{grievanceCore: newGrievanceCore(deps)}
}

// Create files a new pending grievance for the calling petitioner. The
// department is fixed here and never taken from later requests.
func (s *LifecycleService) Create(ctx context.Context, p domain.Principal, input CreateGrievanceInput) (*domain.Grievance, error) {
	if err := auth.Authorize(p, auth.ActionCreate, auth.Target{AuthorID: p.ID}); err != nil {
		return nil, err
	}
	title, err := mustText("title", input.Title, 200)
	if err != nil {
		return nil, err
	}
	description, err := mustText("description", input.Description, 5000)
	if err != nil {
		return nil, err
	}
	dept, ok := domain.ParseDepartment(input.Department)
	if !ok {
		return nil, apperrors.NewValidationError("unknown department", map[string]any{"department": input.Department})
	}
	priority := domain.GrievancePriority(input.Priority)
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	now := s.now()
	g := &domain.Grievance{
		ID:           uuid.NewString(),
		PetitionID:   generatePetitionID(),
		PetitionerID: p.ID,
		Title:        title,
		Description:  description,
		Department:   dept,
		Status:       domain.StatusPending,
		Priority:     priority,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.grievances.Create(ctx, g); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.invalidateStats(ctx)

	s.recordHistory(ctx, g.ID, p, domain.ChangeTypeCreated, nil, map[string]any{
		"status":     g.Status,
		"department": g.Department,
	})
	s.publishEvent(ctx, grievanceEvent(events.EventGrievanceCreated, g, p, events.GrievanceCreatedPayload{
		PetitionerID: p.ID,
		Title:        g.Title,
		Priority:     g.Priority,
	}))
	return g, nil
}

// Get returns a grievance by id or petition id when the caller may read it.
func (s *LifecycleService) Get(ctx context.Context, p domain.Principal, ref string) (*domain.Grievance, error) {
	if err := auth.CheckRole(p, auth.ActionRead); err != nil {
		return nil, err
	}
	g, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(p, auth.ActionRead, auth.GrievanceTarget(g)); err != nil {
		return nil, err
	}
	return g, nil
}

// List returns grievances visible to the caller: petitioners see their own,
// officials their department, admins everything.
func (s *LifecycleService) List(ctx context.Context, p domain.Principal, filter GrievanceListFilter) ([]domain.Grievance, error) {
	if err := auth.CheckRole(p, auth.ActionRead); err != nil {
		return nil, err
	}
	repoFilter := repository.GrievanceFilter{
		Statuses:      filter.Statuses,
		EscalatedOnly: filter.EscalatedOnly,
		SearchTerm:    filter.SearchTerm,
		Limit:         filter.Limit,
		Offset:        filter.Offset,
	}
	switch p.Role {
	case domain.RolePetitioner:
		id := p.ID
		repoFilter.PetitionerID = &id
	case domain.RoleOfficial:
		dept := p.Department
		repoFilter.Department = &dept
		if filter.AssignedToMe {
			id := p.ID
			repoFilter.AssignedTo = &id
		}
	case domain.RoleAdmin:
		repoFilter.Department = filter.Department
	}

	list, err := s.grievances.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return list, nil
}

// History returns the timeline of a grievance the caller may read.
func (s *LifecycleService) History(ctx context.Context, p domain.Principal, ref string) ([]domain.GrievanceHistory, error) {
	g, err := s.Get(ctx, p, ref)
	if err != nil {
		return nil, err
	}
	if s.history == nil {
		return nil, nil
	}
	entries, err := s.history.ListByGrievance(ctx, g.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return entries, nil
}

// Assign gives a pending grievance to an official of its department.
func (s *LifecycleService) Assign(ctx context.Context, p domain.Principal, ref, officialID string) (*domain.Grievance, error) {
	if err := auth.CheckRole(p, auth.ActionAssign); err != nil {
		return nil, s.reject(ctx, eventAssign, err)
	}
	g, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(p, auth.ActionAssign, auth.GrievanceTarget(g)); err != nil {
		return nil, s.reject(ctx, eventAssign, err)
	}
	official, err := s.loadOfficial(ctx, officialID)
	if err != nil {
		return nil, err
	}
	if official.Department != g.Department {
		return nil, s.reject(ctx, eventAssign, apperrors.NewForbidden("official belongs to another department"))
	}

	check := func(current *domain.Grievance) error {
		if current.Status != domain.StatusPending {
			return apperrors.NewInvalidTransition(string(current.Status), eventAssign)
		}
		return nil
	}
	if err := check(g); err != nil {
		return nil, s.reject(ctx, eventAssign, err)
	}

	assignee := official.ID
	updated, err := s.applyConditional(ctx, g.ID, eventAssign, check, func() (*domain.Grievance, error) {
		return s.grievances.Transition(ctx, repository.TransitionUpdate{
			ID:       g.ID,
			From:     []domain.GrievanceStatus{domain.StatusPending},
			To:       domain.StatusAssigned,
			AssignTo: &assignee,
			At:       s.now(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.recordHistory(ctx, g.ID, p, domain.ChangeTypeAssignee,
		map[string]any{"assigned_to": g.AssignedTo},
		map[string]any{"assigned_to": assignee})
	s.recordStatusChange(ctx, p, g.Status, updated)
	s.publishEvent(ctx, grievanceEvent(events.EventGrievanceAssigned, updated, p, events.GrievanceAssignedPayload{
		PreviousOfficialID: g.AssignedTo,
		OfficialID:         assignee,
	}))
	return updated, nil
}

// StartWork moves an assigned grievance to in-progress. Only the assignee
// may start work.
func (s *LifecycleService) StartWork(ctx context.Context, p domain.Principal, ref string) (*domain.Grievance, error) {
	return s.assigneeTransition(ctx, p, ref, eventStartWork, domain.StatusAssigned, domain.StatusInProgress, nil)
}

// Resolve closes an in-progress grievance. Only the assignee may resolve it;
// document is an optional reference to the resolution evidence.
func (s *LifecycleService) Resolve(ctx context.Context, p domain.Principal, ref, document string) (*domain.Grievance, error) {
	return s.assigneeTransition(ctx, p, ref, eventResolve, domain.StatusInProgress, domain.StatusResolved, optionalText(document))
}

func (s *LifecycleService) assigneeTransition(ctx context.Context, p domain.Principal, ref, event string,
	from, to domain.GrievanceStatus, document *string) (*domain.Grievance, error) {
	if err := auth.CheckRole(p, auth.ActionUpdateStatus); err != nil {
		return nil, s.reject(ctx, event, err)
	}
	g, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(p, auth.ActionUpdateStatus, auth.GrievanceTarget(g)); err != nil {
		return nil, s.reject(ctx, event, err)
	}

	check := func(current *domain.Grievance) error {
		if current.Status != from {
			return apperrors.NewInvalidTransition(string(current.Status), event)
		}
		if current.AssignedToID() != p.ID {
			return apperrors.NewForbidden("only the assigned official may " + event)
		}
		return nil
	}
	if err := check(g); err != nil {
		return nil, s.reject(ctx, event, err)
	}

	actor := p.ID
	updated, err := s.applyConditional(ctx, g.ID, event, check, func() (*domain.Grievance, error) {
		return s.grievances.Transition(ctx, repository.TransitionUpdate{
			ID:                 g.ID,
			From:               []domain.GrievanceStatus{from},
			ExpectedAssignee:   &actor,
			To:                 to,
			ResolutionDocument: document,
			At:                 s.now(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.recordStatusChange(ctx, p, g.Status, updated)
	return updated, nil
}

// Reject closes a pending or assigned grievance without resolution.
func (s *LifecycleService) Reject(ctx context.Context, p domain.Principal, ref, reason string) (*domain.Grievance, error) {
	if err := auth.CheckRole(p, auth.ActionReject); err != nil {
		return nil, s.reject(ctx, eventReject, err)
	}
	g, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(p, auth.ActionReject, auth.GrievanceTarget(g)); err != nil {
		return nil, s.reject(ctx, eventReject, err)
	}

	check := func(current *domain.Grievance) error {
		if current.Status != domain.StatusPending && current.Status != domain.StatusAssigned {
			return apperrors.NewInvalidTransition(string(current.Status), eventReject)
		}
		return nil
	}
	if err := check(g); err != nil {
		return nil, s.reject(ctx, eventReject, err)
	}

	updated, err := s.applyConditional(ctx, g.ID, eventReject, check, func() (*domain.Grievance, error) {
		return s.grievances.Transition(ctx, repository.TransitionUpdate{
			ID:              g.ID,
			From:            []domain.GrievanceStatus{domain.StatusPending, domain.StatusAssigned},
			To:              domain.StatusRejected,
			RejectionReason: optionalText(reason),
			At:              s.now(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.recordStatusChange(ctx, p, g.Status, updated)
	return updated, nil
}

// Escalate flags an eligible grievance for admin attention. The status is
// unchanged.
func (s *LifecycleService) Escalate(ctx context.Context, p domain.Principal, ref, reason string) (*domain.Grievance, error) {
	if err := auth.CheckRole(p, auth.ActionEscalate); err != nil {
		return nil, s.reject(ctx, eventEscalate, err)
	}
	g, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(p, auth.ActionEscalate, auth.GrievanceTarget(g)); err != nil {
		return nil, s.reject(ctx, eventEscalate, err)
	}
	text, err := mustText("escalationReason", reason, 2000)
	if err != nil {
		return nil, err
	}

	check := func(current *domain.Grievance) error {
		switch {
		case current.Status.Terminal():
			return apperrors.NewInvalidTransition(string(current.Status), eventEscalate)
		case current.IsEscalated:
			return apperrors.NewAlreadyEscalated(current.ID)
		case !current.EscalationEligible:
			return apperrors.NewDomainError(apperrors.KindInvalidTransition, "grievance is not yet eligible for escalation",
				map[string]any{"state": string(current.Status), "event": eventEscalate})
		}
		return nil
	}
	if err := check(g); err != nil {
		return nil, s.reject(ctx, eventEscalate, err)
	}

	updated, err := s.applyConditional(ctx, g.ID, eventEscalate, check, func() (*domain.Grievance, error) {
		return s.grievances.Escalate(ctx, repository.EscalationUpdate{ID: g.ID, Reason: text, At: s.now()})
	})
	if err != nil {
		return nil, err
	}

	s.recordHistory(ctx, g.ID, p, domain.ChangeTypeEscalated,
		map[string]any{"is_escalated": false},
		map[string]any{"is_escalated": true, "reason": text})
	s.publishEvent(ctx, grievanceEvent(events.EventGrievanceEscalated, updated, p, events.GrievanceEscalatedPayload{Reason: text}))
	return updated, nil
}

// SubmitFeedback stores the author's single rating of a resolved grievance.
func (s *LifecycleService) SubmitFeedback(ctx context.Context, p domain.Principal, ref string, rating int, comment string) (*domain.Grievance, error) {
	if err := auth.CheckRole(p, auth.ActionFeedback); err != nil {
		return nil, s.reject(ctx, eventFeedback, err)
	}
	g, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(p, auth.ActionFeedback, auth.GrievanceTarget(g)); err != nil {
		return nil, s.reject(ctx, eventFeedback, err)
	}
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": rating})
	}

	check := func(current *domain.Grievance) error {
		if current.Status != domain.StatusResolved {
			return apperrors.NewInvalidTransition(string(current.Status), eventFeedback)
		}
		if current.Feedback != nil {
			return apperrors.NewAlreadyRated(current.ID)
		}
		return nil
	}
	if err := check(g); err != nil {
		return nil, s.reject(ctx, eventFeedback, err)
	}

	feedback := domain.Feedback{Rating: rating, SubmittedAt: s.now()}
	if text := optionalText(comment); text != nil {
		feedback.Comment = *text
	}
	updated, err := s.applyConditional(ctx, g.ID, eventFeedback, check, func() (*domain.Grievance, error) {
		return s.grievances.SubmitFeedback(ctx, g.ID, feedback)
	})
	if err != nil {
		return nil, err
	}

	s.recordHistory(ctx, g.ID, p, domain.ChangeTypeFeedback, nil, map[string]any{"rating": rating})
	s.publishEvent(ctx, grievanceEvent(events.EventFeedbackSubmitted, updated, p, events.FeedbackSubmittedPayload{Rating: rating}))
	return updated, nil
}

func (s *LifecycleService) recordStatusChange(ctx context.Context, p domain.Principal, old domain.GrievanceStatus, updated *domain.Grievance) {
	if old == updated.Status {
		return
	}
	s.recordHistory(ctx, updated.ID, p, domain.ChangeTypeStatus,
		map[string]any{"status": old},
		map[string]any{"status": updated.Status})
	s.publishEvent(ctx, grievanceEvent(events.EventGrievanceStatusChanged, updated, p, events.GrievanceStatusChangedPayload{
		OldStatus: old,
		NewStatus: updated.Status,
	}))
}
