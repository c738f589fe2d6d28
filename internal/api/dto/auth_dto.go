package dto

import (
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// PetitionerRegisterRequest payload for new petitioners.
type PetitionerRegisterRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	Pincode         string `json:"pincode"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// OfficialRegisterRequest payload for new officials.
type OfficialRegisterRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Department      string `json:"department"`
	EmployeeID      string `json:"employeeId"`
	Designation     string `json:"designation"`
	City            string `json:"city"`
	District        string `json:"district"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest payload for every role.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token         string            `json:"token"`
	ExpiresAt     time.Time         `json:"expiresAt"`
	Role          domain.Role       `json:"role"`
	Department    domain.Department `json:"department,omitempty"`
	DashboardPath string            `json:"dashboardPath"`
	User          ProfileResponse   `json:"user"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
