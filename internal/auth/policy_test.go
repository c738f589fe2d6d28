package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/grievance-service/internal/domain"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

func TestAuthorize(t *testing.T) {
	petitioner := domain.Principal{ID: "p-1", Role: domain.RolePetitioner}
	waterOfficial := domain.Principal{ID: "o-1", Role: domain.RoleOfficial, Department: domain.DepartmentWater}
	admin := domain.Principal{ID: "a-1", Role: domain.RoleAdmin}

	own := Target{Department: domain.DepartmentWater, AuthorID: "p-1"}
	foreign := Target{Department: domain.DepartmentRTO, AuthorID: "p-2"}

	tests := []struct {
		name      string
		principal domain.Principal
		action    Action
		target    Target
		allowed   bool
	}{
		{"petitioner creates", petitioner, ActionCreate, Target{}, true},
		{"petitioner reads own", petitioner, ActionRead, own, true},
		{"petitioner reads other", petitioner, ActionRead, foreign, false},
		{"petitioner escalates own", petitioner, ActionEscalate, own, true},
		{"petitioner escalates other", petitioner, ActionEscalate, foreign, false},
		{"petitioner feedback own", petitioner, ActionFeedback, own, true},
		{"petitioner cannot assign", petitioner, ActionAssign, own, false},
		{"petitioner cannot respond", petitioner, ActionRespond, own, false},
		{"official reads department", waterOfficial, ActionRead, own, true},
		{"official reads other department", waterOfficial, ActionRead, foreign, false},
		{"official updates department", waterOfficial, ActionUpdateStatus, own, true},
		{"official updates other department", waterOfficial, ActionUpdateStatus, foreign, false},
		{"official responds department", waterOfficial, ActionRespond, own, true},
		{"official responds other department", waterOfficial, ActionRespond, foreign, false},
		{"official cannot reassign", waterOfficial, ActionReassign, own, false},
		{"official cannot create", waterOfficial, ActionCreate, Target{}, false},
		{"official without target department", waterOfficial, ActionRead, Target{}, false},
		{"admin reads anywhere", admin, ActionRead, foreign, true},
		{"admin responds anywhere", admin, ActionRespond, foreign, true},
		{"admin reassigns", admin, ActionReassign, foreign, true},
		{"admin views stats", admin, ActionViewStats, Target{}, true},
		{"admin cannot escalate", admin, ActionEscalate, own, false},
		{"admin cannot give feedback", admin, ActionFeedback, own, false},
		{"unknown role", domain.Principal{ID: "x", Role: "guest"}, ActionRead, own, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.principal, tt.action, tt.target)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrForbidden)
		})
	}
}

func TestPaths(t *testing.T) {
	tests := []struct {
		role      domain.Role
		dept      domain.Department
		dashboard string
		profile   string
	}{
		{domain.RoleAdmin, "", "/admin", "/admin/update-profile"},
		{domain.RolePetitioner, "", "/petitioner-dashboard", "/update-profile"},
		{domain.RoleOfficial, domain.DepartmentRTO, "/official-dashboard/rto", "/official-dashboard/rto/update-profile"},
		{domain.RoleOfficial, domain.DepartmentWater, "/official-dashboard/water", "/official-dashboard/water/update-profile"},
		{domain.RoleOfficial, domain.DepartmentElectricity, "/official-dashboard/electricity", "/official-dashboard/electricity/update-profile"},
		{domain.RoleOfficial, "", "/official-dashboard", "/official/update-profile"},
		{domain.Role("guest"), "", "/", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.dashboard, DashboardPath(tt.role, tt.dept), "dashboard %s/%s", tt.role, tt.dept)
		assert.Equal(t, tt.profile, ProfilePath(tt.role, tt.dept), "profile %s/%s", tt.role, tt.dept)
	}
}

func TestCheckRoleIgnoresTarget(t *testing.T) {
	official := domain.Principal{ID: "o-1", Role: domain.RoleOfficial, Department: domain.DepartmentRTO}

	assert.NoError(t, CheckRole(official, ActionRespond))
	assert.NoError(t, CheckRole(official, ActionListEscalated))
	assert.ErrorIs(t, CheckRole(official, ActionReassign), apperrors.ErrForbidden)
	assert.ErrorIs(t, CheckRole(domain.Principal{Role: domain.RolePetitioner}, ActionListEscalated), apperrors.ErrForbidden)
}
