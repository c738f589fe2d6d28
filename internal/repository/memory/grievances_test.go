package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/repository"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func seedGrievance(t *testing.T, repo repository.GrievanceRepository, id string, mutate func(*domain.Grievance)) {
	t.Helper()
	g := &domain.Grievance{
		ID:           id,
		PetitionID:   "GRV-" + id,
		PetitionerID: "p-1",
		Title:        "No water",
		Description:  "Tap dry for a week",
		Department:   domain.DepartmentWater,
		Status:       domain.StatusPending,
		CreatedAt:    t0,
		UpdatedAt:    t0,
	}
	if mutate != nil {
		mutate(g)
	}
	require.NoError(t, repo.Create(context.Background(), g))
}

func strPtr(s string) *string { return &s }

func TestGrievanceCreateRejectsDuplicatePetitionID(t *testing.T) {
	repo := NewStore().Grievances()
	seedGrievance(t, repo, "g1", nil)

	err := repo.Create(context.Background(), &domain.Grievance{ID: "g2", PetitionID: "GRV-g1"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestTransitionHonorsPrecondition(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Grievances()
	seedGrievance(t, repo, "g1", nil)

	_, err := repo.Transition(ctx, repository.TransitionUpdate{
		ID:   "g1",
		From: []domain.GrievanceStatus{domain.StatusAssigned},
		To:   domain.StatusInProgress,
		At:   t0.Add(time.Hour),
	})
	assert.ErrorIs(t, err, repository.ErrNoRows)

	g, err := repo.Transition(ctx, repository.TransitionUpdate{
		ID:       "g1",
		From:     []domain.GrievanceStatus{domain.StatusPending},
		To:       domain.StatusAssigned,
		AssignTo: strPtr("o-1"),
		At:       t0.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, g.Status)
	assert.Equal(t, "o-1", g.AssignedToID())
	assert.Equal(t, t0.Add(time.Hour), g.UpdatedAt)

	_, err = repo.Transition(ctx, repository.TransitionUpdate{
		ID:               "g1",
		From:             []domain.GrievanceStatus{domain.StatusAssigned},
		ExpectedAssignee: strPtr("o-2"),
		To:               domain.StatusInProgress,
		At:               t0.Add(2 * time.Hour),
	})
	assert.ErrorIs(t, err, repository.ErrNoRows)

	stored, err := repo.GetByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, stored.Status)
}

func TestRespondToEscalationHasSingleWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Grievances()
	escalatedAt := t0
	seedGrievance(t, repo, "g1", func(g *domain.Grievance) {
		g.IsEscalated = true
		g.EscalationEligible = true
		g.EscalationReason = "ignored"
		g.EscalatedAt = &escalatedAt
	})

	const responders = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < responders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.RespondToEscalation(ctx, repository.ResponseUpdate{
				ID:          "g1",
				Response:    "on it",
				RespondedBy: "a-1",
				At:          t0.Add(time.Minute),
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestRespondWithReassignMovesPendingToAssigned(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Grievances()
	escalatedAt := t0
	seedGrievance(t, repo, "g1", func(g *domain.Grievance) {
		g.IsEscalated = true
		g.EscalatedAt = &escalatedAt
	})

	g, err := repo.RespondToEscalation(ctx, repository.ResponseUpdate{
		ID:          "g1",
		Response:    "reassigning",
		RespondedBy: "a-1",
		ReassignTo:  strPtr("o-9"),
		At:          t0.Add(time.Minute),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, g.Status)
	assert.Equal(t, "o-9", g.AssignedToID())
	require.NotNil(t, g.EscalationRespondedBy)
	assert.Equal(t, "a-1", *g.EscalationRespondedBy)
}

func TestFeedbackIsWriteOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Grievances()
	seedGrievance(t, repo, "g1", func(g *domain.Grievance) { g.Status = domain.StatusResolved })

	_, err := repo.SubmitFeedback(ctx, "g1", domain.Feedback{Rating: 4, SubmittedAt: t0})
	require.NoError(t, err)
	_, err = repo.SubmitFeedback(ctx, "g1", domain.Feedback{Rating: 1, SubmittedAt: t0})
	assert.ErrorIs(t, err, repository.ErrNoRows)

	g, err := repo.GetByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 4, g.Feedback.Rating)
}

func TestMarkEligible(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Grievances()
	seedGrievance(t, repo, "stale", nil)
	seedGrievance(t, repo, "fresh", func(g *domain.Grievance) { g.UpdatedAt = t0.Add(48 * time.Hour) })
	seedGrievance(t, repo, "done", func(g *domain.Grievance) { g.Status = domain.StatusResolved })

	marked, err := repo.MarkEligible(ctx, t0.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, marked, 1)
	assert.Equal(t, "stale", marked[0].ID)

	again, err := repo.MarkEligible(ctx, t0.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestListFiltersAndStats(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Grievances()
	seedGrievance(t, repo, "g1", nil)
	seedGrievance(t, repo, "g2", func(g *domain.Grievance) {
		g.Department = domain.DepartmentRTO
		g.CreatedAt = t0.Add(time.Hour)
	})
	seedGrievance(t, repo, "g3", func(g *domain.Grievance) {
		g.Status = domain.StatusResolved
		g.CreatedAt = t0.AddDate(0, 1, 0)
	})

	water := domain.DepartmentWater
	list, err := repo.List(ctx, repository.GrievanceFilter{Department: &water})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "g3", list[0].ID)

	counts, err := repo.CountByStatus(ctx, repository.StatsFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.Total)
	assert.Equal(t, int64(2), counts.Active())

	depts, err := repo.CountByDepartment(ctx)
	require.NoError(t, err)
	require.Len(t, depts, 3)
	assert.Equal(t, int64(2), depts[0].Counts.Total)
	assert.Equal(t, int64(1), depts[1].Counts.Total)
	assert.Equal(t, int64(0), depts[2].Counts.Total)

	trend, err := repo.MonthlyTrend(ctx, t0.AddDate(0, -1, 0))
	require.NoError(t, err)
	assert.Equal(t, []domain.MonthlyStats{
		{Month: "2025-03", Created: 2},
		{Month: "2025-04", Created: 1, Resolved: 1},
	}, trend)
}

func TestOfficialsOrderedByEmployeeID(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Officials()
	for _, o := range []domain.Official{
		{ID: "b", Department: domain.DepartmentWater, EmployeeID: "E2", Email: "b@x"},
		{ID: "a", Department: domain.DepartmentWater, EmployeeID: "E1", Email: "a@x"},
		{ID: "c", Department: domain.DepartmentRTO, EmployeeID: "E1", Email: "c@x"},
	} {
		o := o
		require.NoError(t, repo.Create(ctx, &o))
	}

	err := repo.Create(ctx, &domain.Official{ID: "d", Department: domain.DepartmentWater, EmployeeID: "E1", Email: "d@x"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	list, err := repo.ListByDepartment(ctx, domain.DepartmentWater)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
}
