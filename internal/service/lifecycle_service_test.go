package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

func TestCreateGrievance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.lifecycle.Create(ctx, f.petitioner, CreateGrievanceInput{
		Title:       "  Broken meter ",
		Description: "Meter reads zero",
		Department:  "electricity",
		Priority:    "high",
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^GRV-[0-9A-F]{8}$`), g.PetitionID)
	assert.Equal(t, "Broken meter", g.Title)
	assert.Equal(t, domain.DepartmentElectricity, g.Department)
	assert.Equal(t, domain.StatusPending, g.Status)
	assert.Equal(t, domain.PriorityHigh, g.Priority)
	assert.False(t, g.EscalationEligible)
	assert.Equal(t, f.clock.Now(), g.CreatedAt)

	byPetition, err := f.lifecycle.Get(ctx, f.petitioner, g.PetitionID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, byPetition.ID)

	history, err := f.lifecycle.History(ctx, f.petitioner, g.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.ChangeTypeCreated, history[0].ChangeType)
	assert.Equal(t, []events.EventType{events.EventGrievanceCreated}, f.dispatcher.types())
}

func TestCreateGrievanceValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	valid := CreateGrievanceInput{Title: "t", Description: "d", Department: "Water"}

	tests := []struct {
		name      string
		principal domain.Principal
		mutate    func(*CreateGrievanceInput)
		kind      apperrors.Kind
	}{
		{"official cannot file", f.waterOfficial, nil, apperrors.KindForbidden},
		{"admin cannot file", f.admin, nil, apperrors.KindForbidden},
		{"blank title", f.petitioner, func(in *CreateGrievanceInput) { in.Title = "  " }, apperrors.KindValidation},
		{"unknown department", f.petitioner, func(in *CreateGrievanceInput) { in.Department = "Roads" }, apperrors.KindValidation},
		{"unknown priority", f.petitioner, func(in *CreateGrievanceInput) { in.Priority = "urgent" }, apperrors.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			_, err := f.lifecycle.Create(ctx, tt.principal, in)
			assert.Equal(t, tt.kind, apperrors.KindOf(err))
		})
	}
}

func TestAssignScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g := f.seed(t, nil)

	f.clock.Advance(time.Hour)
	assigned, err := f.lifecycle.Assign(ctx, f.admin, g.ID, f.waterOfficial.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, assigned.Status)
	assert.Equal(t, f.waterOfficial.ID, assigned.AssignedToID())
	assert.Equal(t, f.clock.Now(), assigned.UpdatedAt)

	_, err = f.lifecycle.Assign(ctx, f.admin, g.ID, f.rtoOfficial.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	stored := f.reload(t, g.ID)
	assert.Equal(t, f.waterOfficial.ID, stored.AssignedToID())
	assert.Equal(t, domain.StatusAssigned, stored.Status)
}

func TestAssignChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		principal domain.Principal
		status    domain.GrievanceStatus
		official  string
		ref       string
		kind      apperrors.Kind
	}{
		{"petitioner may not assign", f.petitioner, domain.StatusPending, "off-w1", "", apperrors.KindForbidden},
		{"official of other department", f.rtoOfficial, domain.StatusPending, "off-r1", "", apperrors.KindForbidden},
		{"cross department official", f.waterOfficial, domain.StatusPending, "off-r1", "", apperrors.KindForbidden},
		{"unknown official", f.waterOfficial, domain.StatusPending, "ghost", "", apperrors.KindNotFound},
		{"unknown grievance", f.admin, domain.StatusPending, "off-w1", "missing", apperrors.KindNotFound},
		{"already assigned", f.waterOfficial, domain.StatusAssigned, "off-w2", "", apperrors.KindInvalidTransition},
		{"in progress", f.admin, domain.StatusInProgress, "off-w2", "", apperrors.KindInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := f.seed(t, func(g *domain.Grievance) { g.Status = tt.status })
			ref := g.ID
			if tt.ref != "" {
				ref = tt.ref
			}
			_, err := f.lifecycle.Assign(ctx, tt.principal, ref, tt.official)
			assert.Equal(t, tt.kind, apperrors.KindOf(err))
			assert.Equal(t, tt.status, f.reload(t, g.ID).Status)
		})
	}
}

func TestWorkflowToResolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g := f.seed(t, nil)

	_, err := f.lifecycle.Assign(ctx, f.waterOfficial, g.ID, f.waterOfficial.ID)
	require.NoError(t, err)

	_, err = f.lifecycle.StartWork(ctx, f.waterPeer, g.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden, "only the assignee starts work")

	_, err = f.lifecycle.Resolve(ctx, f.waterOfficial, g.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "resolve requires in-progress")

	started, err := f.lifecycle.StartWork(ctx, f.waterOfficial, g.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, started.Status)

	resolved, err := f.lifecycle.Resolve(ctx, f.waterOfficial, g.ID, "docs/fix-report.pdf")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolutionDocument)
	assert.Equal(t, "docs/fix-report.pdf", *resolved.ResolutionDocument)

	history, err := f.lifecycle.History(ctx, f.petitioner, g.PetitionID)
	require.NoError(t, err)
	var changes []domain.GrievanceChangeType
	for _, h := range history {
		changes = append(changes, h.ChangeType)
	}
	assert.Equal(t, []domain.GrievanceChangeType{
		domain.ChangeTypeAssignee,
		domain.ChangeTypeStatus,
		domain.ChangeTypeStatus,
		domain.ChangeTypeStatus,
	}, changes)
}

func TestRejectFromPendingOrAssigned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.seed(t, nil)
	rejected, err := f.lifecycle.Reject(ctx, f.waterOfficial, pending.ID, " duplicate ")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "duplicate", *rejected.RejectionReason)

	assigned := f.seed(t, func(g *domain.Grievance) {
		g.Status = domain.StatusAssigned
		g.AssignedTo = ptr(f.waterOfficial.ID)
	})
	_, err = f.lifecycle.Reject(ctx, f.admin, assigned.ID, "")
	require.NoError(t, err)

	inProgress := f.seed(t, func(g *domain.Grievance) { g.Status = domain.StatusInProgress })
	_, err = f.lifecycle.Reject(ctx, f.admin, inProgress.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = f.lifecycle.Reject(ctx, f.rtoOfficial, f.seed(t, nil).ID, "")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestTerminalStatesAreFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, status := range []domain.GrievanceStatus{domain.StatusResolved, domain.StatusRejected} {
		g := f.seed(t, func(g *domain.Grievance) {
			g.Status = status
			g.AssignedTo = ptr(f.waterOfficial.ID)
			g.EscalationEligible = true
		})

		attempts := map[string]func() error{
			"assign": func() error {
				_, err := f.lifecycle.Assign(ctx, f.admin, g.ID, f.waterPeer.ID)
				return err
			},
			"startWork": func() error {
				_, err := f.lifecycle.StartWork(ctx, f.waterOfficial, g.ID)
				return err
			},
			"resolve": func() error {
				_, err := f.lifecycle.Resolve(ctx, f.waterOfficial, g.ID, "")
				return err
			},
			"reject": func() error {
				_, err := f.lifecycle.Reject(ctx, f.admin, g.ID, "")
				return err
			},
			"escalate": func() error {
				_, err := f.lifecycle.Escalate(ctx, f.petitioner, g.ID, "still broken")
				return err
			},
		}
		for name, attempt := range attempts {
			assert.ErrorIs(t, attempt(), apperrors.ErrInvalidTransition, "%s on %s", name, status)
		}
		assert.Equal(t, status, f.reload(t, g.ID).Status)
	}
}

func TestEscalateScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g := f.seed(t, func(g *domain.Grievance) {
		g.Status = domain.StatusInProgress
		g.AssignedTo = ptr(f.waterOfficial.ID)
		g.EscalationEligible = true
	})

	escalated, err := f.lifecycle.Escalate(ctx, f.petitioner, g.ID, "no response in 10 days")
	require.NoError(t, err)
	assert.True(t, escalated.IsEscalated)
	assert.Equal(t, domain.StatusInProgress, escalated.Status)
	assert.Equal(t, "no response in 10 days", escalated.EscalationReason)
	require.NotNil(t, escalated.EscalatedAt)
	assert.Equal(t, f.clock.Now(), *escalated.EscalatedAt)

	_, err = f.lifecycle.Escalate(ctx, f.petitioner, g.ID, "again")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyEscalated)
	assert.Equal(t, "no response in 10 days", f.reload(t, g.ID).EscalationReason)
}

func TestEscalateChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	notEligible := f.seed(t, nil)
	_, err := f.lifecycle.Escalate(ctx, f.petitioner, notEligible.ID, "please")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	eligible := f.seed(t, func(g *domain.Grievance) { g.EscalationEligible = true })
	_, err = f.lifecycle.Escalate(ctx, f.otherCitizen, eligible.ID, "please")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.lifecycle.Escalate(ctx, f.admin, eligible.ID, "please")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.lifecycle.Escalate(ctx, f.petitioner, eligible.ID, "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.False(t, f.reload(t, eligible.ID).IsEscalated)
}

func TestFeedbackIsWriteOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	open := f.seed(t, func(g *domain.Grievance) { g.Status = domain.StatusInProgress })
	_, err := f.lifecycle.SubmitFeedback(ctx, f.petitioner, open.ID, 5, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	g := f.seed(t, func(g *domain.Grievance) { g.Status = domain.StatusResolved })

	_, err = f.lifecycle.SubmitFeedback(ctx, f.petitioner, g.ID, 6, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.lifecycle.SubmitFeedback(ctx, f.otherCitizen, g.ID, 3, "")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	rated, err := f.lifecycle.SubmitFeedback(ctx, f.petitioner, g.ID, 4, " quick fix ")
	require.NoError(t, err)
	require.NotNil(t, rated.Feedback)
	assert.Equal(t, 4, rated.Feedback.Rating)
	assert.Equal(t, "quick fix", rated.Feedback.Comment)

	_, err = f.lifecycle.SubmitFeedback(ctx, f.petitioner, g.ID, 1, "changed my mind")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRated)
	assert.Equal(t, 4, f.reload(t, g.ID).Feedback.Rating)
}

func TestListIsRoleScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seed(t, nil)
	f.seed(t, func(g *domain.Grievance) { g.Department = domain.DepartmentRTO })
	f.seed(t, func(g *domain.Grievance) { g.PetitionerID = f.otherCitizen.ID })

	own, err := f.lifecycle.List(ctx, f.petitioner, GrievanceListFilter{})
	require.NoError(t, err)
	assert.Len(t, own, 2)

	water, err := f.lifecycle.List(ctx, f.waterOfficial, GrievanceListFilter{})
	require.NoError(t, err)
	assert.Len(t, water, 2)
	for _, g := range water {
		assert.Equal(t, domain.DepartmentWater, g.Department)
	}

	all, err := f.lifecycle.List(ctx, f.admin, GrievanceListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	rto := domain.DepartmentRTO
	filtered, err := f.lifecycle.List(ctx, f.admin, GrievanceListFilter{Department: &rto})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}

func TestGetEnforcesReadPolicy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g := f.seed(t, nil)

	_, err := f.lifecycle.Get(ctx, f.otherCitizen, g.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = f.lifecycle.Get(ctx, f.rtoOfficial, g.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = f.lifecycle.Get(ctx, f.waterOfficial, g.ID)
	assert.NoError(t, err)
	_, err = f.lifecycle.Get(ctx, f.admin, "GRV-00000000")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
