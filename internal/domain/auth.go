package domain

import "strings"

// Role identifies which kind of account a principal belongs to.
type Role string

const (
	RolePetitioner Role = "petitioner"
	RoleOfficial   Role = "official"
	RoleAdmin      Role = "admin"
)

// ParseRole resolves a case-insensitive role name.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RolePetitioner:
		return RolePetitioner, true
	case RoleOfficial:
		return RoleOfficial, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// Principal is the authenticated caller, rebuilt from verified token claims
// on every request.
type Principal struct {
	ID         string
	Role       Role
	Department Department
}

// IsOfficial reports whether the principal is a department official.
func (p Principal) IsOfficial() bool { return p.Role == RoleOfficial }

// IsAdmin reports whether the principal is an administrator.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// IsPetitioner reports whether the principal is a petitioner.
func (p Principal) IsPetitioner() bool { return p.Role == RolePetitioner }
