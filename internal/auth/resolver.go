package auth

import (
	"strings"

	"github.com/spec-kit/grievance-service/internal/domain"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// Resolver recovers a principal from a bearer token.
type Resolver interface {
	Resolve(token string) (domain.Principal, error)
}

// Resolve verifies the token and rebuilds the principal from its claims.
// Role and department are never re-read from storage.
func (tm *TokenManager) Resolve(token string) (domain.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Principal{}, apperrors.NewUnauthenticated("missing token")
	}
	claims, err := tm.ParseToken(token)
	if err != nil {
		return domain.Principal{}, apperrors.NewUnauthenticated("invalid token")
	}
	if claims.Subject == "" {
		return domain.Principal{}, apperrors.NewUnauthenticated("token has no subject")
	}
	role, ok := domain.ParseRole(string(claims.Role))
	if !ok {
		return domain.Principal{}, apperrors.NewUnauthenticated("token has unknown role")
	}

	principal := domain.Principal{ID: claims.Subject, Role: role}
	if role == domain.RoleOfficial {
		if !claims.Department.Valid() {
			return domain.Principal{}, apperrors.NewUnauthenticated("official token without department")
		}
		principal.Department = claims.Department
	}
	return principal, nil
}
