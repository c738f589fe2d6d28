package domain

import (
	"strings"
	"time"
)

// Official is a department employee who works on grievances.
// EmployeeID is unique within a department only.
type Official struct {
	ID           string
	Department   Department
	EmployeeID   string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Designation  string
	City         string
	District     string
	PasswordHash string
	Preferences  map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name.
func (o Official) FullName() string {
	return joinName(o.FirstName, o.LastName)
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
