package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/tokenstore"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewJWTService(testSecret, "1h", "24h", tokenstore.NewMemoryStore())
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_InvalidDuration(t *testing.T) {
	_, err := NewJWTService(testSecret, "forever", "24h", nil)
	assert.Error(t, err)
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := newTestService(t)

	token, expiresAt, err := svc.GenerateAccessToken("emp-1", "dana@example.com", access.RoleSupervisor, false)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, int64(0))

	verified, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := verified.AsMap(context.Background())
	require.NoError(t, err)

	actor, err := access.ActorFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", actor.EmployeeID)
	assert.Equal(t, access.RoleSupervisor, actor.Role)
	assert.Equal(t, "dana@example.com", actor.Email)
	assert.Equal(t, TypeAccess, claims["type"])
}

func TestParseRefreshToken(t *testing.T) {
	svc := newTestService(t)

	refresh, _, err := svc.GenerateRefreshToken("emp-1")
	require.NoError(t, err)

	employeeID, expiresAt, err := svc.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", employeeID)
	assert.False(t, expiresAt.IsZero())

	accessToken, _, err := svc.GenerateAccessToken("emp-1", "dana@example.com", access.RoleEmployee, false)
	require.NoError(t, err)
	_, _, err = svc.ParseRefreshToken(accessToken)
	assert.Error(t, err, "access tokens must not be accepted as refresh tokens")
}

func TestSSEToken(t *testing.T) {
	svc := newTestService(t)

	token, expiresIn, err := svc.GenerateSSEToken("emp-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	employeeID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", employeeID)

	refresh, _, err := svc.GenerateRefreshToken("emp-1")
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(refresh)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	token, _, err := svc.GenerateAccessToken("emp-1", "dana@example.com", access.RoleEmployee, false)
	require.NoError(t, err)

	revoked, err := svc.IsTokenRevoked(ctx, token)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.RevokeToken(ctx, token))

	revoked, err = svc.IsTokenRevoked(ctx, token)
	require.NoError(t, err)
	assert.True(t, revoked)
}
