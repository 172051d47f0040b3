// File: internal/infrastructure/security/jwt_service_test.go
package security

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/identity-platform/sso-service/internal/domain/errors"
)

func newTestJWTManager(t *testing.T, ttl time.Duration) *JWTManager {
	t.Helper()
	manager, err := NewJWTManager("test-secret-at-least-32-bytes-long", "sso-service", "sso-clients", ttl)
	require.NoError(t, err)
	return manager
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	_, err := NewJWTManager("", "sso-service", "sso-clients", time.Hour)
	assert.Error(t, err)
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	manager := newTestJWTManager(t, time.Hour)
	accountID := uuid.New()

	token, jti, err := manager.GenerateAccessToken(accountID, "ADMIN", "session-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, jti)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, accountID.String(), claims.AccountID)
	assert.Equal(t, "ADMIN", claims.PrimaryRole)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.Equal(t, jti, claims.ID)
}

func TestValidateAccessTokenExpired(t *testing.T) {
	manager := newTestJWTManager(t, -time.Minute)

	token, _, err := manager.GenerateAccessToken(uuid.New(), "", "session-1")
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.ErrorIs(t, err, domainErrors.ErrExpiredToken)
}

func TestValidateAccessTokenWrongSecret(t *testing.T) {
	manager := newTestJWTManager(t, time.Hour)
	token, _, err := manager.GenerateAccessToken(uuid.New(), "", "session-1")
	require.NoError(t, err)

	other, err := NewJWTManager("a-completely-different-signing-secret", "sso-service", "sso-clients", time.Hour)
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}

func TestValidateAccessTokenGarbage(t *testing.T) {
	manager := newTestJWTManager(t, time.Hour)
	_, err := manager.ValidateAccessToken("definitely.not.a-jwt")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}

func TestGenerateOpaqueToken(t *testing.T) {
	token, err := GenerateOpaqueToken(32)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	other, err := GenerateOpaqueToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestHashToken(t *testing.T) {
	hash := HashToken("some-token")
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashToken("some-token"))
	assert.NotEqual(t, hash, HashToken("other-token"))
}
