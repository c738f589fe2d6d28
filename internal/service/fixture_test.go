package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/repository/memory"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, len(d.events))
	for i, e := range d.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	store      *memory.Store
	clock      *fakeClock
	dispatcher *recordingDispatcher
	lifecycle  *LifecycleService
	escalation *EscalationService

	petitioner    domain.Principal
	otherCitizen  domain.Principal
	admin         domain.Principal
	otherAdmin    domain.Principal
	waterOfficial domain.Principal
	waterPeer     domain.Principal
	rtoOfficial   domain.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:      memory.NewStore(),
		clock:      newFakeClock(),
		dispatcher: &recordingDispatcher{},

		petitioner:   domain.Principal{ID: "pet-1", Role: domain.RolePetitioner},
		otherCitizen: domain.Principal{ID: "pet-2", Role: domain.RolePetitioner},
		admin:        domain.Principal{ID: "adm-1", Role: domain.RoleAdmin},
		otherAdmin:   domain.Principal{ID: "adm-2", Role: domain.RoleAdmin},
	}
	deps := f.deps()
	f.lifecycle = NewLifecycleService(deps)
	f.escalation = NewEscalationService(deps)

	f.waterOfficial = f.addOfficial(t, "off-w1", domain.DepartmentWater, "W-200")
	f.waterPeer = f.addOfficial(t, "off-w2", domain.DepartmentWater, "W-100")
	f.rtoOfficial = f.addOfficial(t, "off-r1", domain.DepartmentRTO, "R-100")
	return f
}

func (f *fixture) deps() GrievanceDependencies {
	return GrievanceDependencies{
		GrievanceRepo: f.store.Grievances(),
		HistoryRepo:   f.store.History(),
		OfficialRepo:  f.store.Officials(),
		Dispatcher:    f.dispatcher,
		Now:           f.clock.Now,
	}
}

func (f *fixture) addOfficial(t *testing.T, id string, dept domain.Department, employeeID string) domain.Principal {
	t.Helper()
	require.NoError(t, f.store.Officials().Create(context.Background(), &domain.Official{
		ID:         id,
		Department: dept,
		EmployeeID: employeeID,
		FirstName:  "Off",
		LastName:   id,
		Email:      id + "@gov.example",
	}))
	return domain.Principal{ID: id, Role: domain.RoleOfficial, Department: dept}
}

// seed stores a Water grievance owned by f.petitioner, adjusted by mutate.
func (f *fixture) seed(t *testing.T, mutate func(*domain.Grievance)) *domain.Grievance {
	t.Helper()
	now := f.clock.Now()
	g := &domain.Grievance{
		ID:           uuid.NewString(),
		PetitionID:   generatePetitionID(),
		PetitionerID: f.petitioner.ID,
		Title:        "Burst pipe",
		Description:  "Water leaking on Main Street",
		Department:   domain.DepartmentWater,
		Status:       domain.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if mutate != nil {
		mutate(g)
	}
	require.NoError(t, f.store.Grievances().Create(context.Background(), g))
	return g
}

func (f *fixture) reload(t *testing.T, id string) *domain.Grievance {
	t.Helper()
	g, err := f.store.Grievances().GetByID(context.Background(), id)
	require.NoError(t, err)
	return g
}

func ptr[T any](v T) *T { return &v }
