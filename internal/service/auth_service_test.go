// File: internal/service/auth_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/identity-platform/sso-service/internal/config"
	domainErrors "github.com/identity-platform/sso-service/internal/domain/errors"
	"github.com/identity-platform/sso-service/internal/domain/models"
	"github.com/identity-platform/sso-service/internal/infrastructure/security"
)

const testPassword = "Secure123!"

func testLockout() config.LockoutConfig {
	return config.LockoutConfig{MaxFailedAttempts: 5, Duration: 30 * time.Minute}
}

func newTestAccount(t *testing.T) *models.Account {
	t.Helper()
	salt, err := security.GenerateSalt()
	require.NoError(t, err)
	digest, err := security.HashPassword(testPassword, salt)
	require.NoError(t, err)
	return &models.Account{
		ID:             uuid.New(),
		Username:       "alice",
		Email:          "alice@example.com",
		PasswordDigest: digest,
		PasswordSalt:   salt,
		Status:         models.AccountStatusActive,
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := new(MockAccountRepository)
	account := newTestAccount(t)
	account.FailedAttempts = 3

	repo.On("FindByUsername", mock.Anything, "alice").Return(account, nil)
	repo.On("ResetFailedAttempts", mock.Anything, account.ID).Return(nil)
	repo.On("UpdateLastLogin", mock.Anything, account.ID, mock.AnythingOfType("time.Time"), "10.0.0.1").Return(nil)

	svc := NewAuthService(repo, testLockout(), zap.NewNop())
	got, err := svc.Authenticate(context.Background(), "alice", testPassword, "", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
	assert.Zero(t, got.FailedAttempts, "success resets the failure counter")
	assert.NotNil(t, got.LastLoginAt)
	repo.AssertExpectations(t)
}

func TestAuthenticateUnknownIdentifier(t *testing.T) {
	repo := new(MockAccountRepository)
	repo.On("FindByUsername", mock.Anything, "ghost").Return(nil, domainErrors.ErrNotFound)
	repo.On("FindByEmail", mock.Anything, "ghost").Return(nil, domainErrors.ErrNotFound)
	repo.On("FindByPhone", mock.Anything, "ghost").Return(nil, domainErrors.ErrNotFound)

	svc := NewAuthService(repo, testLockout(), zap.NewNop())
	_, err := svc.Authenticate(context.Background(), "ghost", testPassword, "", "10.0.0.1")
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)
}

func TestAuthenticateByEmailAndPhone(t *testing.T) {
	account := newTestAccount(t)

	repo := new(MockAccountRepository)
	repo.On("FindByEmail", mock.Anything, "alice@example.com").Return(account, nil)
	repo.On("FindByPhone", mock.Anything, "13800001111").Return(account, nil)
	repo.On("ResetFailedAttempts", mock.Anything, account.ID).Return(nil)
	repo.On("UpdateLastLogin", mock.Anything, account.ID, mock.AnythingOfType("time.Time"), "").Return(nil)

	svc := NewAuthService(repo, testLockout(), zap.NewNop())

	_, err := svc.Authenticate(context.Background(), "alice@example.com", testPassword, "", "")
	assert.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "13800001111", testPassword, "", "")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAuthenticateLoginTypeHint(t *testing.T) {
	// An all-digit username would be classified as a phone number by shape;
	// the login_type hint directs the lookup to the username handle.
	account := newTestAccount(t)
	account.Username = "13800001111"

	repo := new(MockAccountRepository)
	repo.On("FindByUsername", mock.Anything, "13800001111").Return(account, nil)
	repo.On("ResetFailedAttempts", mock.Anything, account.ID).Return(nil)
	repo.On("UpdateLastLogin", mock.Anything, account.ID, mock.AnythingOfType("time.Time"), "").Return(nil)

	svc := NewAuthService(repo, testLockout(), zap.NewNop())
	got, err := svc.Authenticate(context.Background(), "13800001111", testPassword, "username", "")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
	repo.AssertNotCalled(t, "FindByPhone", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestAuthenticateUnknownLoginTypeFallsBackToShape(t *testing.T) {
	account := newTestAccount(t)

	repo := new(MockAccountRepository)
	repo.On("FindByEmail", mock.Anything, "alice@example.com").Return(account, nil)
	repo.On("ResetFailedAttempts", mock.Anything, account.ID).Return(nil)
	repo.On("UpdateLastLogin", mock.Anything, account.ID, mock.AnythingOfType("time.Time"), "").Return(nil)

	svc := NewAuthService(repo, testLockout(), zap.NewNop())
	_, err := svc.Authenticate(context.Background(), "alice@example.com", testPassword, "badge", "")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	account := newTestAccount(t)
	account.Status = models.AccountStatusDisabled

	repo := new(MockAccountRepository)
	repo.On("FindByUsername", mock.Anything, "alice").Return(account, nil)

	svc := NewAuthService(repo, testLockout(), zap.NewNop())
	_, err := svc.Authenticate(context.Background(), "alice", testPassword, "", "")
	assert.ErrorIs(t, err, domainErrors.ErrAccountDisabled)
}

func TestAuthenticateWrongPasswordIncrementsCounter(t *testing.T) {
	account := newTestAccount(t)

	repo := new(MockAccountRepository)
	repo.On("FindByUsername", mock.Anything, "alice").Return(account, nil)
	repo.On("IncrementFailedAttempts", mock.Anything, account.ID).Return(1, nil)

	svc := NewAuthService(repo, testLockout(), zap.NewNop())
	_, err := svc.Authenticate(context.Background(), "alice", "WrongPass!", "", "")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials)
	repo.AssertExpectations(t)
}

func TestAuthenticateFifthFailureLocks(t *testing.T) {
	account := newTestAccount(t)
	account.FailedAttempts = 4

	repo := new(MockAccountRepository)
	repo.On("FindByUsername", mock.Anything, "alice").Return(account, nil)
	repo.On("IncrementFailedAttempts", mock.Anything, account.ID).Return(5, nil)
	repo.On("Lock", mock.Anything, account.ID, mock.AnythingOfType("time.Time")).Return(nil)

	svc := NewAuthService(repo, testLockout(), zap.NewNop())
	_, err := svc.Authenticate(context.Background(), "alice", "WrongPass!", "", "")
	assert.ErrorIs(t, err, domainErrors.ErrAccountLocked, "the attempt that reaches the maximum reports the lock")
	repo.AssertExpectations(t)
}

func TestAuthenticateLockedAccountRejectsCorrectPassword(t *testing.T) {
	account := newTestAccount(t)
	account.Locked = true
	lockedAt := time.Now().Add(-time.Minute)
	account.LockedAt = &lockedAt
	account.FailedAttempts = 5

	repo := new(MockAccountRepository)
	repo.On("FindByUsername", mock.Anything, "alice").Return(account, nil)

	svc := NewAuthService(repo, testLockout(), zap.NewNop())
	_, err := svc.Authenticate(context.Background(), "alice", testPassword, "", "")
	assert.ErrorIs(t, err, domainErrors.ErrAccountLocked)
	repo.AssertNotCalled(t, "ResetFailedAttempts", mock.Anything, mock.Anything)
}

func TestAuthenticateLockWindowElapsed(t *testing.T) {
	account := newTestAccount(t)
	account.Locked = true
	lockedAt := time.Now().Add(-time.Hour)
	account.LockedAt = &lockedAt
	account.FailedAttempts = 5

	repo := new(MockAccountRepository)
	repo.On("FindByUsername", mock.Anything, "alice").Return(account, nil)
	repo.On("Unlock", mock.Anything, account.ID).Return(nil)
	repo.On("ResetFailedAttempts", mock.Anything, account.ID).Return(nil)
	repo.On("UpdateLastLogin", mock.Anything, account.ID, mock.AnythingOfType("time.Time"), "").Return(nil)

	svc := NewAuthService(repo, testLockout(), zap.NewNop())
	got, err := svc.Authenticate(context.Background(), "alice", testPassword, "", "")
	require.NoError(t, err)
	assert.False(t, got.Locked)
	repo.AssertExpectations(t)
}

func TestAuthenticateAdminOnlyLockNeverExpires(t *testing.T) {
	account := newTestAccount(t)
	account.Locked = true
	lockedAt := time.Now().Add(-24 * time.Hour)
	account.LockedAt = &lockedAt

	repo := new(MockAccountRepository)
	repo.On("FindByUsername", mock.Anything, "alice").Return(account, nil)

	lockout := config.LockoutConfig{MaxFailedAttempts: 5, Duration: 0}
	svc := NewAuthService(repo, lockout, zap.NewNop())
	_, err := svc.Authenticate(context.Background(), "alice", testPassword, "", "")
	assert.ErrorIs(t, err, domainErrors.ErrAccountLocked)
	repo.AssertNotCalled(t, "Unlock", mock.Anything, mock.Anything)
}

func TestAuthenticateLazyLock(t *testing.T) {
	// Counter already at the maximum but the lock flag was never written.
	account := newTestAccount(t)
	account.FailedAttempts = 5

	repo := new(MockAccountRepository)
	repo.On("FindByUsername", mock.Anything, "alice").Return(account, nil)
	repo.On("Lock", mock.Anything, account.ID, mock.AnythingOfType("time.Time")).Return(nil)

	svc := NewAuthService(repo, testLockout(), zap.NewNop())
	_, err := svc.Authenticate(context.Background(), "alice", testPassword, "", "")
	assert.ErrorIs(t, err, domainErrors.ErrAccountLocked)
	repo.AssertExpectations(t)
}

func TestAuthenticateBookkeepingFailureIsNotSuccess(t *testing.T) {
	account := newTestAccount(t)

	repo := new(MockAccountRepository)
	repo.On("FindByUsername", mock.Anything, "alice").Return(account, nil)
	infraErr := domainErrors.WrapInfrastructure(assert.AnError, "reset failed attempts")
	repo.On("ResetFailedAttempts", mock.Anything, account.ID).Return(infraErr)

	svc := NewAuthService(repo, testLockout(), zap.NewNop())
	_, err := svc.Authenticate(context.Background(), "alice", testPassword, "", "")
	assert.ErrorIs(t, err, domainErrors.ErrInfrastructure)
}

func TestAdminUnlock(t *testing.T) {
	account := newTestAccount(t)
	account.Locked = true

	repo := new(MockAccountRepository)
	repo.On("FindByUsername", mock.Anything, "alice").Return(account, nil)
	repo.On("Unlock", mock.Anything, account.ID).Return(nil)

	svc := NewAuthService(repo, testLockout(), zap.NewNop())
	assert.NoError(t, svc.AdminUnlock(context.Background(), "alice"))
	repo.AssertExpectations(t)
}
