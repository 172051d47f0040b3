// File: internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/identity-platform/sso-service/internal/config"
	domainErrors "github.com/identity-platform/sso-service/internal/domain/errors"
	"github.com/identity-platform/sso-service/internal/domain/models"
	"github.com/identity-platform/sso-service/internal/domain/repository"
	"github.com/identity-platform/sso-service/internal/infrastructure/security"
	"github.com/identity-platform/sso-service/internal/utils/logger"
	"github.com/identity-platform/sso-service/internal/utils/metrics"
)

// AuthService verifies credentials and maintains the per-account failure
// counter and lock state.
type AuthService struct {
	accounts repository.AccountRepository
	lockout  config.LockoutConfig
	logger   *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(accounts repository.AccountRepository, lockout config.LockoutConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		accounts: accounts,
		lockout:  lockout,
		logger:   logger,
	}
}

// Authenticate resolves an identifier to an account through any of its
// registered handles and verifies the password. A success resets the failure
// counter and stamps the last login; a failure counts towards the lockout
// maximum, and the attempt that reaches it locks the account.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password, loginType, clientIP string) (*models.Account, error) {
	account, err := s.resolveAccount(ctx, identifier, loginType)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown identifier", zap.String("identifier", identifier))
			metrics.LoginAttemptsTotal.WithLabelValues("failure_not_found").Inc()
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	if !account.IsActive() {
		s.logger.Warn("Login attempt for disabled account", zap.String("account_id", account.ID.String()))
		metrics.LoginAttemptsTotal.WithLabelValues("failure_disabled").Inc()
		return nil, domainErrors.ErrAccountDisabled
	}

	if account.Locked {
		if !s.lockExpired(account) {
			metrics.LoginAttemptsTotal.WithLabelValues("failure_locked").Inc()
			return nil, domainErrors.ErrAccountLocked
		}
		// The lock window has elapsed; unlock and continue with a clean
		// counter.
		if err := s.accounts.Unlock(ctx, account.ID); err != nil {
			return nil, err
		}
		account.Locked = false
		account.LockedAt = nil
		account.FailedAttempts = 0
		s.logger.Info("Lock window elapsed, account unlocked", zap.String("account_id", account.ID.String()))
	}

	// Lazy-lock path: the counter reached the maximum without a prior lock
	// write (for example, the locking write of a concurrent attempt failed).
	if account.FailedAttempts >= s.lockout.MaxFailedAttempts {
		if err := s.accounts.Lock(ctx, account.ID, time.Now()); err != nil {
			return nil, err
		}
		metrics.LoginAttemptsTotal.WithLabelValues("failure_locked").Inc()
		return nil, domainErrors.ErrAccountLocked
	}

	if !security.VerifyPassword(password, account.PasswordDigest, account.PasswordSalt) {
		return nil, s.recordFailure(ctx, account)
	}

	// A successful verification whose bookkeeping write fails must not
	// claim success: the caller gets an infrastructure error, not a token
	// for an unrecorded login.
	if err := s.accounts.ResetFailedAttempts(ctx, account.ID); err != nil {
		s.logger.Error("Failed to reset failure counter after successful verification",
			zap.Error(err), zap.String("account_id", account.ID.String()))
		return nil, err
	}
	now := time.Now()
	if err := s.accounts.UpdateLastLogin(ctx, account.ID, now, clientIP); err != nil {
		s.logger.Error("Failed to stamp last login",
			zap.Error(err), zap.String("account_id", account.ID.String()))
		return nil, err
	}

	account.FailedAttempts = 0
	account.LastLoginAt = &now
	account.LastLoginIP = clientIP
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return account, nil
}

// AdminUnlock clears an account's lock and failure counter.
func (s *AuthService) AdminUnlock(ctx context.Context, accountID string) error {
	account, err := s.resolveAccount(ctx, accountID, "")
	if err != nil {
		return err
	}
	if err := s.accounts.Unlock(ctx, account.ID); err != nil {
		return err
	}
	s.logger.Info("Account unlocked administratively", zap.String("account_id", account.ID.String()))
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, account *models.Account) error {
	log := logger.WithAccountID(s.logger, account.ID.String())

	count, err := s.accounts.IncrementFailedAttempts(ctx, account.ID)
	if err != nil {
		log.Error("Failed to increment failure counter", zap.Error(err))
		return err
	}

	if count >= s.lockout.MaxFailedAttempts {
		if err := s.accounts.Lock(ctx, account.ID, time.Now()); err != nil {
			log.Error("Failed to lock account after repeated failures", zap.Error(err))
			return err
		}
		log.Warn("Account locked after repeated failed logins", zap.Int("failed_attempts", count))
		metrics.AccountLockoutsTotal.Inc()
		metrics.LoginAttemptsTotal.WithLabelValues("failure_locked").Inc()
		return domainErrors.ErrAccountLocked
	}

	log.Warn("Invalid password attempt", zap.Int("failed_attempts", count))
	metrics.LoginAttemptsTotal.WithLabelValues("failure_credentials").Inc()
	return domainErrors.ErrInvalidCredentials
}

func (s *AuthService) lockExpired(account *models.Account) bool {
	if s.lockout.Duration <= 0 || account.LockedAt == nil {
		// Duration 0 means locks are held until administrative unlock.
		return false
	}
	return time.Since(*account.LockedAt) >= s.lockout.Duration
}

// resolveAccount tries the handle kinds an identifier can plausibly be,
// falling through the remaining kinds on a miss so any registered handle
// resolves to the same account.
// resolveAccount finds the account behind an opaque identifier. loginType is
// an optional client hint ("username", "email" or "phone"); when absent or
// unrecognized the identifier's shape decides which lookup runs first, and
// the remaining handle kinds are tried as fallbacks.
func (s *AuthService) resolveAccount(ctx context.Context, identifier, loginType string) (*models.Account, error) {
	kind, ok := identifierKindFromHint(loginType)
	if !ok {
		kind = classifyIdentifier(identifier)
	}

	lookups := []func(context.Context, string) (*models.Account, error){}
	switch kind {
	case identifierEmail:
		lookups = append(lookups, s.accounts.FindByEmail, s.accounts.FindByUsername)
	case identifierPhone:
		lookups = append(lookups, s.accounts.FindByPhone, s.accounts.FindByUsername)
	default:
		lookups = append(lookups, s.accounts.FindByUsername, s.accounts.FindByEmail, s.accounts.FindByPhone)
	}

	for _, find := range lookups {
		account, err := find(ctx, identifier)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
	}
	return nil, domainErrors.ErrNotFound
}

func identifierKindFromHint(loginType string) (identifierKind, bool) {
	switch loginType {
	case "username":
		return identifierUsername, true
	case "email":
		return identifierEmail, true
	case "phone":
		return identifierPhone, true
	default:
		return identifierUsername, false
	}
}

type identifierKind int

const (
	identifierUsername identifierKind = iota
	identifierEmail
	identifierPhone
)

func classifyIdentifier(identifier string) identifierKind {
	if strings.Contains(identifier, "@") {
		return identifierEmail
	}
	if len(identifier) >= 5 && len(identifier) <= 20 && isAllDigits(identifier) {
		return identifierPhone
	}
	return identifierUsername
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
