// File: internal/infrastructure/security/jwt_service.go
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainErrors "github.com/identity-platform/sso-service/internal/domain/errors"
)

// Claims are the access-token claims issued by this service.
type Claims struct {
	AccountID   string `json:"account_id"`
	PrimaryRole string `json:"primary_role,omitempty"`
	SessionID   string `json:"session_id"`
	jwt.RegisteredClaims
}

// JWTManager signs and validates HS256 access tokens.
type JWTManager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewJWTManager creates a JWTManager. The secret must be non-empty.
func NewJWTManager(secret, issuer, audience string, accessTokenTTL time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &JWTManager{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      accessTokenTTL,
	}, nil
}

// AccessTokenTTL returns the configured access-token lifetime.
func (m *JWTManager) AccessTokenTTL() time.Duration {
	return m.ttl
}

// GenerateAccessToken mints a signed access token bound to a session. It
// returns the token string and its JTI.
func (m *JWTManager) GenerateAccessToken(accountID uuid.UUID, primaryRole, sessionID string) (string, string, error) {
	now := time.Now()
	jti := uuid.NewString()
	claims := Claims{
		AccountID:   accountID.String(),
		PrimaryRole: primaryRole,
		SessionID:   sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   accountID.String(),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, jti, nil
}

// ValidateAccessToken parses and verifies an access token, mapping library
// errors onto the domain taxonomy.
func (m *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithAudience(m.audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainErrors.ErrExpiredToken
		}
		return nil, domainErrors.ErrInvalidToken
	}
	if !token.Valid {
		return nil, domainErrors.ErrInvalidToken
	}
	return claims, nil
}
