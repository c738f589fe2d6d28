package domain

import "time"

// Admin oversees every department and answers escalations.
type Admin struct {
	ID           string
	AdminID      string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Preferences  map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name.
func (a Admin) FullName() string {
	return joinName(a.FirstName, a.LastName)
}
