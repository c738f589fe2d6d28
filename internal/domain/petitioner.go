package domain

import "time"

// Petitioner is a citizen account that files grievances.
type Petitioner struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Address      string
	City         string
	State        string
	Pincode      string
	PasswordHash string
	Preferences  map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name.
func (p Petitioner) FullName() string {
	return joinName(p.FirstName, p.LastName)
}
