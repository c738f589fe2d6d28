package dto

import "github.com/spec-kit/grievance-service/internal/domain"

// ProfileResponse is the caller's account. Role specific fields are omitted
// when empty.
type ProfileResponse struct {
	ID            string            `json:"id"`
	Role          domain.Role       `json:"role"`
	Department    domain.Department `json:"department,omitempty"`
	FirstName     string            `json:"firstName"`
	LastName      string            `json:"lastName"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone,omitempty"`
	Address       string            `json:"address,omitempty"`
	City          string            `json:"city,omitempty"`
	State         string            `json:"state,omitempty"`
	Pincode       string            `json:"pincode,omitempty"`
	District      string            `json:"district,omitempty"`
	EmployeeID    string            `json:"employeeId,omitempty"`
	Designation   string            `json:"designation,omitempty"`
	AdminID       string            `json:"adminId,omitempty"`
	Preferences   map[string]any    `json:"preferences"`
	DashboardPath string            `json:"dashboardPath"`
	ProfilePath   string            `json:"profilePath"`
}

// ProfileUpdateRequest carries optional profile changes.
type ProfileUpdateRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Pincode     *string `json:"pincode"`
	District    *string `json:"district"`
	Designation *string `json:"designation"`
}

// OfficialSummary lists a responder candidate.
type OfficialSummary struct {
	ID          string            `json:"id"`
	EmployeeID  string            `json:"employeeId"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Department  domain.Department `json:"department"`
	Designation string            `json:"designation,omitempty"`
}
