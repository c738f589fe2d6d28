package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/repository/memory"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	store := memory.NewStore()
	clock := newFakeClock()
	return NewAuthService(AuthDependencies{
		PetitionerRepo: store.Petitioners(),
		OfficialRepo:   store.Officials(),
		AdminRepo:      store.Admins(),
		TokenManager:   auth.NewTokenManager("test-secret", 60),
		Hasher:         auth.NewBcryptHasher(bcrypt.MinCost),
		Now:            clock.Now,
	})
}

func petitionerInput(email string) RegisterPetitionerInput {
	return RegisterPetitionerInput{
		FirstName:       "Asha",
		LastName:        "Rao",
		Email:           email,
		City:            "Pune",
		Password:        "correct-horse",
		ConfirmPassword: "correct-horse",
	}
}

func officialInput(email, dept, employeeID string) RegisterOfficialInput {
	return RegisterOfficialInput{
		FirstName:       "Vikram",
		Email:           email,
		Department:      dept,
		EmployeeID:      employeeID,
		Designation:     "Engineer",
		Password:        "correct-horse",
		ConfirmPassword: "correct-horse",
	}
}

func TestRegisterAndLoginPetitioner(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.RegisterPetitioner(ctx, petitionerInput(" Asha@Example.com "))
	require.NoError(t, err)
	assert.Equal(t, domain.RolePetitioner, reg.Principal.Role)
	assert.Equal(t, "/petitioner-dashboard", reg.DashboardPath)
	assert.Equal(t, "asha@example.com", reg.Profile.Email)

	resolved, err := svc.TokenManager().Resolve(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.Principal, resolved)

	login, err := svc.Login(ctx, domain.RolePetitioner, "ASHA@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, reg.Principal.ID, login.Principal.ID)

	_, err = svc.Login(ctx, domain.RolePetitioner, "asha@example.com", "wrong-horse")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	_, err = svc.Login(ctx, domain.RolePetitioner, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	_, err = svc.Login(ctx, domain.RoleOfficial, "asha@example.com", "correct-horse")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated, "accounts are looked up per role")

	_, err = svc.RegisterPetitioner(ctx, petitionerInput("asha@example.com"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*RegisterPetitionerInput)
	}{
		{"bad email", func(in *RegisterPetitionerInput) { in.Email = "not-an-email" }},
		{"short password", func(in *RegisterPetitionerInput) { in.Password, in.ConfirmPassword = "short", "short" }},
		{"mismatched confirmation", func(in *RegisterPetitionerInput) { in.ConfirmPassword = "something-else" }},
		{"missing first name", func(in *RegisterPetitionerInput) { in.FirstName = "  " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := petitionerInput("valid@example.com")
			tt.mutate(&in)
			_, err := svc.RegisterPetitioner(ctx, in)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestRegisterOfficial(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.RegisterOfficial(ctx, officialInput("v@water.gov", "water", "E-1"))
	require.NoError(t, err)
	assert.Equal(t, domain.DepartmentWater, reg.Principal.Department)
	assert.Equal(t, "/official-dashboard/water", reg.DashboardPath)

	_, err = svc.RegisterOfficial(ctx, officialInput("other@water.gov", "Water", "E-1"))
	assert.ErrorIs(t, err, apperrors.ErrConflict, "employee id is unique within a department")

	_, err = svc.RegisterOfficial(ctx, officialInput("v@rto.gov", "RTO", "E-1"))
	assert.NoError(t, err, "the same employee id may exist in another department")

	_, err = svc.RegisterOfficial(ctx, officialInput("x@roads.gov", "Roads", "E-9"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	login, err := svc.Login(ctx, domain.RoleOfficial, "v@rto.gov", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, domain.DepartmentRTO, login.Principal.Department)
}

func TestCreateAdminAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	admin, err := svc.CreateAdmin(ctx, CreateAdminInput{AdminID: "ADM-1", FirstName: "Root", Email: "root@gov", Password: "correct-horse"})
	require.NoError(t, err)

	login, err := svc.Login(ctx, domain.RoleAdmin, "root@gov", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, login.Principal.ID)
	assert.Empty(t, login.Principal.Department)
	assert.Equal(t, "/admin", login.DashboardPath)

	_, err = svc.CreateAdmin(ctx, CreateAdminInput{AdminID: "ADM-2", Email: "root@gov", Password: "correct-horse"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestProfileUpdates(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.RegisterOfficial(ctx, officialInput("v@water.gov", "Water", "E-1"))
	require.NoError(t, err)
	p := reg.Principal

	updated, err := svc.UpdateProfile(ctx, p, ProfileUpdate{
		FirstName: ptr("  Vik "),
		District:  ptr("Haveli"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Vik", updated.FirstName)
	assert.Equal(t, "Haveli", updated.District)
	assert.Equal(t, "E-1", updated.EmployeeID)
	assert.Equal(t, domain.DepartmentWater, updated.Department)

	_, err = svc.UpdateProfile(ctx, p, ProfileUpdate{Email: ptr("broken")})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.RegisterPetitioner(ctx, petitionerInput("taken@example.com"))
	require.NoError(t, err)
	other, err := svc.RegisterPetitioner(ctx, petitionerInput("free@example.com"))
	require.NoError(t, err)
	_, err = svc.UpdateProfile(ctx, other.Principal, ProfileUpdate{Email: ptr("Taken@example.com")})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	profile, err := svc.Profile(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Vik", profile.FirstName)
	assert.Equal(t, "/official-dashboard/water/update-profile", profile.ProfilePath)

	_, err = svc.Profile(ctx, domain.Principal{ID: "ghost", Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdatePreferences(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.RegisterPetitioner(ctx, petitionerInput("asha@example.com"))
	require.NoError(t, err)

	prefs, err := svc.UpdatePreferences(ctx, reg.Principal, map[string]any{"language": "mr", "emailAlerts": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"language": "mr", "emailAlerts": true}, prefs)

	prefs, err = svc.UpdatePreferences(ctx, reg.Principal, map[string]any{"language": nil, "theme": "dark"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"emailAlerts": true, "theme": "dark"}, prefs)

	profile, err := svc.Profile(ctx, reg.Principal)
	require.NoError(t, err)
	assert.Equal(t, prefs, profile.Preferences)
}

func TestChangePassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.RegisterPetitioner(ctx, petitionerInput("asha@example.com"))
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, reg.Principal, "correct-horse", "short")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	err = svc.ChangePassword(ctx, reg.Principal, "wrong-horse", "battery-staple")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	require.NoError(t, svc.ChangePassword(ctx, reg.Principal, "correct-horse", "battery-staple"))

	_, err = svc.Login(ctx, domain.RolePetitioner, "asha@example.com", "correct-horse")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	_, err = svc.Login(ctx, domain.RolePetitioner, "asha@example.com", "battery-staple")
	assert.NoError(t, err)
}
