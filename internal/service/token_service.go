// File: internal/service/token_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/identity-platform/sso-service/internal/config"
	domainErrors "github.com/identity-platform/sso-service/internal/domain/errors"
	"github.com/identity-platform/sso-service/internal/domain/models"
	"github.com/identity-platform/sso-service/internal/domain/repository"
	"github.com/identity-platform/sso-service/internal/infrastructure/security"
	"github.com/identity-platform/sso-service/internal/utils/metrics"
)

const refreshTokenBytes = 32

// PrimaryRoleResolver supplies the primary role claim for access tokens.
type PrimaryRoleResolver interface {
	PrimaryRole(ctx context.Context, accountID uuid.UUID) (string, error)
}

// TokenService mints, rotates and revokes access+refresh token pairs. The
// refresh token is the durable handle: the session lives in the key-value
// store under its hash, with a TTL slightly past the refresh expiry so a
// recently expired token can still be told apart from one never issued.
type TokenService struct {
	sessions repository.SessionStore
	jwt      *security.JWTManager
	roles    PrimaryRoleResolver
	cfg      config.JWTConfig
	logger   *zap.Logger
}

// NewTokenService creates a TokenService.
func NewTokenService(
	sessions repository.SessionStore,
	jwtManager *security.JWTManager,
	roles PrimaryRoleResolver,
	cfg config.JWTConfig,
	logger *zap.Logger,
) *TokenService {
	return &TokenService{
		sessions: sessions,
		jwt:      jwtManager,
		roles:    roles,
		cfg:      cfg,
		logger:   logger,
	}
}

// Issue mints a new token pair and stores the backing session.
func (s *TokenService) Issue(ctx context.Context, accountID uuid.UUID, deviceFingerprint, clientIP string) (*models.TokenPair, error) {
	primaryRole := ""
	if s.roles != nil {
		role, err := s.roles.PrimaryRole(ctx, accountID)
		if err != nil {
			// The role claim is advisory; the session is still valid
			// without it.
			s.logger.Warn("Failed to resolve primary role for access token",
				zap.Error(err), zap.String("account_id", accountID.String()))
		} else {
			primaryRole = role
		}
	}

	refreshToken, err := security.GenerateOpaqueToken(refreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now()
	session := &models.Session{
		AccountID:         accountID,
		DeviceFingerprint: deviceFingerprint,
		ClientIP:          clientIP,
		CreatedAt:         now,
		ExpiresAt:         now.Add(s.cfg.RefreshTokenTTL),
	}

	accessToken, jti, err := s.jwt.GenerateAccessToken(accountID, primaryRole, security.HashToken(refreshToken)[:16])
	if err != nil {
		return nil, err
	}
	session.AccessTokenID = jti

	if err := s.sessions.Save(ctx, security.HashToken(refreshToken), session, s.storeTTL()); err != nil {
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.cfg.AccessTokenTTL.Seconds()),
	}, nil
}

// Refresh rotates a token pair. The presented refresh token becomes
// permanently invalid in the same atomic step that writes the new session,
// so a replay of the old token can never succeed once rotation happened.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	oldKey := security.HashToken(refreshToken)
	session, err := s.sessions.Get(ctx, oldKey)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			metrics.TokenRefreshTotal.WithLabelValues("failure_invalid").Inc()
			return nil, domainErrors.ErrInvalidToken
		}
		return nil, err
	}

	now := time.Now()
	if session.Expired(now) {
		// The grace window kept the record around past expiry; clean it up.
		if err := s.sessions.Delete(ctx, oldKey); err != nil {
			s.logger.Warn("Failed to delete expired session", zap.Error(err))
		}
		metrics.TokenRefreshTotal.WithLabelValues("failure_expired").Inc()
		return nil, domainErrors.ErrExpiredToken
	}

	primaryRole := ""
	if s.roles != nil {
		if role, roleErr := s.roles.PrimaryRole(ctx, session.AccountID); roleErr == nil {
			primaryRole = role
		}
	}

	newRefreshToken, err := security.GenerateOpaqueToken(refreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	newKey := security.HashToken(newRefreshToken)

	accessToken, jti, err := s.jwt.GenerateAccessToken(session.AccountID, primaryRole, newKey[:16])
	if err != nil {
		return nil, err
	}

	newSession := &models.Session{
		AccountID:         session.AccountID,
		AccessTokenID:     jti,
		DeviceFingerprint: session.DeviceFingerprint,
		ClientIP:          session.ClientIP,
		CreatedAt:         now,
		ExpiresAt:         now.Add(s.cfg.RefreshTokenTTL),
	}

	rotated, err := s.sessions.Rotate(ctx, oldKey, newKey, newSession, s.storeTTL())
	if err != nil {
		return nil, err
	}
	if !rotated {
		// A concurrent refresh or revoke consumed the old token first.
		metrics.TokenRefreshTotal.WithLabelValues("failure_invalid").Inc()
		return nil, domainErrors.ErrInvalidToken
	}

	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.cfg.AccessTokenTTL.Seconds()),
	}, nil
}

// Revoke deletes the session behind a refresh token. It is idempotent and
// does not reveal whether the token existed.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	return s.sessions.Delete(ctx, security.HashToken(refreshToken))
}

// RevokeAllForAccount deletes every session of an account and returns the
// number removed.
func (s *TokenService) RevokeAllForAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	return s.sessions.DeleteAllForAccount(ctx, accountID)
}

// Status is the read-only diagnostic lookup for a refresh token.
func (s *TokenService) Status(ctx context.Context, refreshToken string) (*models.TokenStatus, error) {
	session, err := s.sessions.Get(ctx, security.HashToken(refreshToken))
	if err != nil {
		if domainErrors.IsNotFound(err) {
			return nil, domainErrors.ErrInvalidToken
		}
		return nil, err
	}
	return &models.TokenStatus{
		AccountID: session.AccountID,
		IsExpired: session.Expired(time.Now()),
	}, nil
}

// ValidateAccessToken verifies an access token and returns its claims.
func (s *TokenService) ValidateAccessToken(tokenString string) (*security.Claims, error) {
	return s.jwt.ValidateAccessToken(tokenString)
}

func (s *TokenService) storeTTL() time.Duration {
	return s.cfg.RefreshTokenTTL + s.cfg.ExpiryGrace
}
