package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/repository"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

const minPasswordLength = 8

// AuthService coordinates registration, login and profile flows for all
// three account kinds.
type AuthService struct {
	petitioners repository.PetitionerRepository
	officials   repository.OfficialRepository
	admins      repository.AdminRepository
	tokens      *auth.TokenManager
	hasher      auth.PasswordHasher
	now         func() time.Time
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	PetitionerRepo repository.PetitionerRepository
	OfficialRepo   repository.OfficialRepository
	AdminRepo      repository.AdminRepository
	TokenManager   *auth.TokenManager
	Hasher         auth.PasswordHasher
	Now            func() time.Time
}

// AuthResult is returned by successful logins and registrations.
type AuthResult struct {
	Principal     domain.Principal
	Token         string
	ExpiresAt     time.Time
	DashboardPath string
	Profile       *Profile
}

// Profile is the role-independent view of an account. Fields that do not
// apply to the role are empty.
type Profile struct {
	ID            string
	Role          domain.Role
	Department    domain.Department
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Address       string
	City          string
	State         string
	Pincode       string
	District      string
	EmployeeID    string
	Designation   string
	AdminID       string
	Preferences   map[string]any
	DashboardPath string
	ProfilePath   string
}

// RegisterPetitionerInput describes petitioner sign-up.
type RegisterPetitionerInput struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Address         string
	City            string
	State           string
	Pincode         string
	Password        string
	ConfirmPassword string
}

// RegisterOfficialInput describes official sign-up.
type RegisterOfficialInput struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Department      string
	EmployeeID      string
	Designation     string
	City            string
	District        string
	Password        string
	ConfirmPassword string
}

// CreateAdminInput describes an administrator account.
type CreateAdminInput struct {
	AdminID   string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// ProfileUpdate carries optional profile changes. Nil fields are kept.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	Address     *string
	City        *string
	State       *string
	Pincode     *string
	District    *string
	Designation *string
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		petitioners: deps.PetitionerRepo,
		officials:   deps.OfficialRepo,
		admins:      deps.AdminRepo,
		tokens:      deps.TokenManager,
		hasher:      deps.Hasher,
		now:         now,
	}
}

// RegisterPetitioner creates a petitioner account and logs it in.
func (s *AuthService) RegisterPetitioner(ctx context.Context, input RegisterPetitionerInput) (*AuthResult, error) {
	email, err := s.validateCredentials(input.Email, input.Password, input.ConfirmPassword)
	if err != nil {
		return nil, err
	}
	first, err := mustText("firstName", input.FirstName, 100)
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := s.now()
	p := &domain.Petitioner{
		ID:           uuid.NewString(),
		FirstName:    first,
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		City:         strings.TrimSpace(input.City),
		State:        strings.TrimSpace(input.State),
		Pincode:      strings.TrimSpace(input.Pincode),
		PasswordHash: hash,
		Preferences:  map[string]any{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.petitioners.Create(ctx, p); err != nil {
		return nil, duplicateOrInternal(err, "email already registered")
	}
	return s.issue(domain.Principal{ID: p.ID, Role: domain.RolePetitioner}, petitionerProfile(p))
}

// RegisterOfficial creates an official account. The employee id must be
// unique within the department.
func (s *AuthService) RegisterOfficial(ctx context.Context, input RegisterOfficialInput) (*AuthResult, error) {
	email, err := s.validateCredentials(input.Email, input.Password, input.ConfirmPassword)
	if err != nil {
		return nil, err
	}
	dept, ok := domain.ParseDepartment(input.Department)
	if !ok {
		return nil, apperrors.NewValidationError("unknown department", map[string]any{"department": input.Department})
	}
	employeeID, err := mustText("employeeId", input.EmployeeID, 50)
	if err != nil {
		return nil, err
	}
	first, err := mustText("firstName", input.FirstName, 100)
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := s.now()
	o := &domain.Official{
		ID:           uuid.NewString(),
		Department:   dept,
		EmployeeID:   employeeID,
		FirstName:    first,
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		Designation:  strings.TrimSpace(input.Designation),
		City:         strings.TrimSpace(input.City),
		District:     strings.TrimSpace(input.District),
		PasswordHash: hash,
		Preferences:  map[string]any{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.officials.Create(ctx, o); err != nil {
		return nil, duplicateOrInternal(err, "email or employee id already registered")
	}
	return s.issue(domain.Principal{ID: o.ID, Role: domain.RoleOfficial, Department: o.Department}, officialProfile(o))
}

// CreateAdmin provisions an administrator. It is not exposed over HTTP.
func (s *AuthService) CreateAdmin(ctx context.Context, input CreateAdminInput) (*domain.Admin, error) {
	email, err := s.validateCredentials(input.Email, input.Password, input.Password)
	if err != nil {
		return nil, err
	}
	adminID, err := mustText("adminId", input.AdminID, 50)
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := s.now()
	a := &domain.Admin{
		ID:           uuid.NewString(),
		AdminID:      adminID,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: hash,
		Preferences:  map[string]any{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.admins.Create(ctx, a); err != nil {
		return nil, duplicateOrInternal(err, "admin already exists")
	}
	return a, nil
}

// Login verifies credentials for the given role and issues a token.
func (s *AuthService) Login(ctx context.Context, role domain.Role, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	invalid := apperrors.NewUnauthenticated("invalid credentials")

	switch role {
	case domain.RolePetitioner:
		p, err := s.petitioners.GetByEmail(ctx, email)
		if err != nil {
			return nil, notFoundAs(err, invalid)
		}
		if !s.hasher.Verify(password, p.PasswordHash) {
			return nil, invalid
		}
		return s.issue(domain.Principal{ID: p.ID, Role: role}, petitionerProfile(p))
	case domain.RoleOfficial:
		o, err := s.officials.GetByEmail(ctx, email)
		if err != nil {
			return nil, notFoundAs(err, invalid)
		}
		if !s.hasher.Verify(password, o.PasswordHash) {
			return nil, invalid
		}
		return s.issue(domain.Principal{ID: o.ID, Role: role, Department: o.Department}, officialProfile(o))
	case domain.RoleAdmin:
		a, err := s.admins.GetByEmail(ctx, email)
		if err != nil {
			return nil, notFoundAs(err, invalid)
		}
		if !s.hasher.Verify(password, a.PasswordHash) {
			return nil, invalid
		}
		return s.issue(domain.Principal{ID: a.ID, Role: role}, adminProfile(a))
	}
	return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
}

// Profile returns the caller's own account.
func (s *AuthService) Profile(ctx context.Context, p domain.Principal) (*Profile, error) {
	switch p.Role {
	case domain.RolePetitioner:
		acc, err := s.petitioners.GetByID(ctx, p.ID)
		if err != nil {
			return nil, notFoundAs(err, apperrors.NewNotFound("petitioner", nil))
		}
		return petitionerProfile(acc), nil
	case domain.RoleOfficial:
		acc, err := s.officials.GetByID(ctx, p.ID)
		if err != nil {
			return nil, notFoundAs(err, apperrors.NewNotFound("official", nil))
		}
		return officialProfile(acc), nil
	case domain.RoleAdmin:
		acc, err := s.admins.GetByID(ctx, p.ID)
		if err != nil {
			return nil, notFoundAs(err, apperrors.NewNotFound("admin", nil))
		}
		return adminProfile(acc), nil
	}
	return nil, apperrors.NewForbidden("unknown role")
}

// UpdateProfile applies the non-nil fields of upd. Passwords, departments
// and employee ids cannot be changed here.
func (s *AuthService) UpdateProfile(ctx context.Context, p domain.Principal, upd ProfileUpdate) (*Profile, error) {
	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperrors.NewValidationError("invalid email", map[string]any{"field": "email"})
		}
		upd.Email = &email
	}
	now := s.now()

	switch p.Role {
	case domain.RolePetitioner:
		acc, err := s.petitioners.GetByID(ctx, p.ID)
		if err != nil {
			return nil, notFoundAs(err, apperrors.NewNotFound("petitioner", nil))
		}
		apply(&acc.FirstName, upd.FirstName)
		apply(&acc.LastName, upd.LastName)
		apply(&acc.Email, upd.Email)
		apply(&acc.Phone, upd.Phone)
		apply(&acc.Address, upd.Address)
		apply(&acc.City, upd.City)
		apply(&acc.State, upd.State)
		apply(&acc.Pincode, upd.Pincode)
		acc.UpdatedAt = now
		if err := s.petitioners.Update(ctx, acc); err != nil {
			return nil, duplicateOrInternal(err, "email already registered")
		}
		return petitionerProfile(acc), nil
	case domain.RoleOfficial:
		acc, err := s.officials.GetByID(ctx, p.ID)
		if err != nil {
			return nil, notFoundAs(err, apperrors.NewNotFound("official", nil))
		}
		apply(&acc.FirstName, upd.FirstName)
		apply(&acc.LastName, upd.LastName)
		apply(&acc.Email, upd.Email)
		apply(&acc.Phone, upd.Phone)
		apply(&acc.City, upd.City)
		apply(&acc.District, upd.District)
		apply(&acc.Designation, upd.Designation)
		acc.UpdatedAt = now
		if err := s.officials.Update(ctx, acc); err != nil {
			return nil, duplicateOrInternal(err, "email already registered")
		}
		return officialProfile(acc), nil
	case domain.RoleAdmin:
		acc, err := s.admins.GetByID(ctx, p.ID)
		if err != nil {
			return nil, notFoundAs(err, apperrors.NewNotFound("admin", nil))
		}
		apply(&acc.FirstName, upd.FirstName)
		apply(&acc.LastName, upd.LastName)
		apply(&acc.Email, upd.Email)
		acc.UpdatedAt = now
		if err := s.admins.Update(ctx, acc); err != nil {
			return nil, duplicateOrInternal(err, "email already registered")
		}
		return adminProfile(acc), nil
	}
	return nil, apperrors.NewForbidden("unknown role")
}

// UpdatePreferences merges prefs into the stored preferences. A nil value
// removes the key.
func (s *AuthService) UpdatePreferences(ctx context.Context, p domain.Principal, prefs map[string]any) (map[string]any, error) {
	merge := func(current map[string]any) map[string]any {
		if current == nil {
			current = map[string]any{}
		}
		for k, v := range prefs {
			if v == nil {
				delete(current, k)
				continue
			}
			current[k] = v
		}
		return current
	}
	now := s.now()

	switch p.Role {
	case domain.RolePetitioner:
		acc, err := s.petitioners.GetByID(ctx, p.ID)
		if err != nil {
			return nil, notFoundAs(err, apperrors.NewNotFound("petitioner", nil))
		}
		acc.Preferences, acc.UpdatedAt = merge(acc.Preferences), now
		if err := s.petitioners.Update(ctx, acc); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		return acc.Preferences, nil
	case domain.RoleOfficial:
		acc, err := s.officials.GetByID(ctx, p.ID)
		if err != nil {
			return nil, notFoundAs(err, apperrors.NewNotFound("official", nil))
		}
		acc.Preferences, acc.UpdatedAt = merge(acc.Preferences), now
		if err := s.officials.Update(ctx, acc); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		return acc.Preferences, nil
	case domain.RoleAdmin:
		acc, err := s.admins.GetByID(ctx, p.ID)
		if err != nil {
			return nil, notFoundAs(err, apperrors.NewNotFound("admin", nil))
		}
		acc.Preferences, acc.UpdatedAt = merge(acc.Preferences), now
		if err := s.admins.Update(ctx, acc); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		return acc.Preferences, nil
	}
	return nil, apperrors.NewForbidden("unknown role")
}

// ChangePassword verifies current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, p domain.Principal, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("password too short", map[string]any{"min_length": minPasswordLength})
	}
	invalid := apperrors.NewUnauthenticated("current password is incorrect")
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	now := s.now()

	switch p.Role {
	case domain.RolePetitioner:
		acc, err := s.petitioners.GetByID(ctx, p.ID)
		if err != nil {
			return notFoundAs(err, apperrors.NewNotFound("petitioner", nil))
		}
		if !s.hasher.Verify(currentPassword, acc.PasswordHash) {
			return invalid
		}
		acc.PasswordHash, acc.UpdatedAt = hash, now
		return internal(s.petitioners.Update(ctx, acc))
	case domain.RoleOfficial:
		acc, err := s.officials.GetByID(ctx, p.ID)
		if err != nil {
			return notFoundAs(err, apperrors.NewNotFound("official", nil))
		}
		if !s.hasher.Verify(currentPassword, acc.PasswordHash) {
			return invalid
		}
		acc.PasswordHash, acc.UpdatedAt = hash, now
		return internal(s.officials.Update(ctx, acc))
	case domain.RoleAdmin:
		acc, err := s.admins.GetByID(ctx, p.ID)
		if err != nil {
			return notFoundAs(err, apperrors.NewNotFound("admin", nil))
		}
		if !s.hasher.Verify(currentPassword, acc.PasswordHash) {
			return invalid
		}
		acc.PasswordHash, acc.UpdatedAt = hash, now
		return internal(s.admins.Update(ctx, acc))
	}
	return apperrors.NewForbidden("unknown role")
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) issue(p domain.Principal, profile *Profile) (*AuthResult, error) {
	token, exp, err := s.tokens.GenerateToken(p)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{
		Principal:     p,
		Token:         token,
		ExpiresAt:     exp,
		DashboardPath: auth.DashboardPath(p.Role, p.Department),
		Profile:       profile,
	}, nil
}

func (s *AuthService) validateCredentials(email, password, confirm string) (string, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return "", apperrors.NewValidationError("invalid email", map[string]any{"field": "email"})
	}
	if len(password) < minPasswordLength {
		return "", apperrors.NewValidationError("password too short", map[string]any{"min_length": minPasswordLength})
	}
	if password != confirm {
		return "", apperrors.NewValidationError("passwords do not match", map[string]any{"field": "confirmPassword"})
	}
	return email, nil
}

func petitionerProfile(p *domain.Petitioner) *Profile {
	return &Profile{
		ID:            p.ID,
		Role:          domain.RolePetitioner,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Email:         p.Email,
		Phone:         p.Phone,
		Address:       p.Address,
		City:          p.City,
		State:         p.State,
		Pincode:       p.Pincode,
		Preferences:   p.Preferences,
		DashboardPath: auth.DashboardPath(domain.RolePetitioner, ""),
		ProfilePath:   auth.ProfilePath(domain.RolePetitioner, ""),
	}
}

func officialProfile(o *domain.Official) *Profile {
	return &Profile{
		ID:            o.ID,
		Role:          domain.RoleOfficial,
		Department:    o.Department,
		FirstName:     o.FirstName,
		LastName:      o.LastName,
		Email:         o.Email,
		Phone:         o.Phone,
		City:          o.City,
		District:      o.District,
		EmployeeID:    o.EmployeeID,
		Designation:   o.Designation,
		Preferences:   o.Preferences,
		DashboardPath: auth.DashboardPath(domain.RoleOfficial, o.Department),
		ProfilePath:   auth.ProfilePath(domain.RoleOfficial, o.Department),
	}
}

func adminProfile(a *domain.Admin) *Profile {
	return &Profile{
		ID:            a.ID,
		Role:          domain.RoleAdmin,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		Email:         a.Email,
		AdminID:       a.AdminID,
		Preferences:   a.Preferences,
		DashboardPath: auth.DashboardPath(domain.RoleAdmin, ""),
		ProfilePath:   auth.ProfilePath(domain.RoleAdmin, ""),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func apply(field *string, value *string) {
	if value != nil {
		*field = strings.TrimSpace(*value)
	}
}

func notFoundAs(err error, replacement error) error {
	if errors.Is(err, repository.ErrNoRows) {
		return replacement
	}
	return apperrors.NewInternalError(err)
}

func duplicateOrInternal(err error, message string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.NewConflict(message, nil)
	}
	return apperrors.NewInternalError(err)
}

func internal(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.NewInternalError(err)
}
