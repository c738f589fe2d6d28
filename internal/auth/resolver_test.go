package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grievance-service/internal/domain"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

func TestResolveRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 30)

	tests := []struct {
		name      string
		principal domain.Principal
		want      domain.Principal
	}{
		{
			name:      "petitioner",
			principal: domain.Principal{ID: "p-1", Role: domain.RolePetitioner},
			want:      domain.Principal{ID: "p-1", Role: domain.RolePetitioner},
		},
		{
			name:      "official keeps department",
			principal: domain.Principal{ID: "o-1", Role: domain.RoleOfficial, Department: domain.DepartmentWater},
			want:      domain.Principal{ID: "o-1", Role: domain.RoleOfficial, Department: domain.DepartmentWater},
		},
		{
			name:      "admin drops department",
			principal: domain.Principal{ID: "a-1", Role: domain.RoleAdmin, Department: domain.DepartmentRTO},
			want:      domain.Principal{ID: "a-1", Role: domain.RoleAdmin},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, exp, err := tm.GenerateToken(tt.principal)
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)

			got, err := tm.Resolve(token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRejectsBadTokens(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	other := NewTokenManager("other-secret", 30)

	foreign, _, err := other.GenerateToken(domain.Principal{ID: "p-1", Role: domain.RolePetitioner})
	require.NoError(t, err)

	expiredMgr := NewTokenManager("secret", 1)
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredMgr.GenerateToken(domain.Principal{ID: "p-1", Role: domain.RolePetitioner})
	require.NoError(t, err)

	noDept, _, err := tm.GenerateToken(domain.Principal{ID: "o-1", Role: domain.RoleOfficial})
	require.NoError(t, err)

	badRole, _, err := tm.GenerateToken(domain.Principal{ID: "x-1", Role: domain.Role("superuser")})
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":                 "",
		"garbage":               "not-a-jwt",
		"wrong secret":          foreign,
		"expired":               expired,
		"official without dept": noDept,
		"unknown role":          badRole,
		"alg none":              unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tm.Resolve(token)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)
	digest, err := h.Hash("correct horse")
	require.NoError(t, err)

	assert.True(t, h.Verify("correct horse", digest))
	assert.False(t, h.Verify("wrong", digest))
	assert.Equal(t, 10, NewBcryptHasher(99).Cost)
}
