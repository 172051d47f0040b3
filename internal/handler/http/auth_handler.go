// File: internal/handler/http/auth_handler.go
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/identity-platform/sso-service/internal/domain/models"
)

// Authenticator verifies credentials against the account records.
type Authenticator interface {
	Authenticate(ctx context.Context, identifier, password, loginType, clientIP string) (*models.Account, error)
}

// TokenIssuer manages the access+refresh token lifecycle.
type TokenIssuer interface {
	Issue(ctx context.Context, accountID uuid.UUID, deviceFingerprint, clientIP string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Revoke(ctx context.Context, refreshToken string) error
	Status(ctx context.Context, refreshToken string) (*models.TokenStatus, error)
}

// Registrar creates new accounts.
type Registrar interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.Account, error)
}

// AuthHandler serves the login, token-lifecycle and registration endpoints.
type AuthHandler struct {
	auth      Authenticator
	tokens    TokenIssuer
	registrar Registrar
	logger    *zap.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth Authenticator, tokens TokenIssuer, registrar Registrar, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens, registrar: registrar, logger: logger}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "identifier and password are required", "INVALID_ARGUMENT", h.logger)
		return
	}

	account, err := h.auth.Authenticate(c.Request.Context(), req.Identifier, req.Password, req.LoginType, c.ClientIP())
	if err != nil {
		status, message, code := MapDomainError(err)
		RespondWithError(c, status, message, code, h.logger)
		return
	}

	pair, err := h.tokens.Issue(c.Request.Context(), account.ID, c.GetHeader("X-Device-Fingerprint"), c.ClientIP())
	if err != nil {
		status, message, code := MapDomainError(err)
		RespondWithError(c, status, message, code, h.logger)
		return
	}

	RespondWithData(c, http.StatusOK, pair)
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "refresh_token is required", "INVALID_ARGUMENT", h.logger)
		return
	}

	pair, err := h.tokens.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		status, message, code := MapDomainError(err)
		RespondWithError(c, status, message, code, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, pair)
}

// Revoke handles POST /api/v1/auth/revoke. Revocation is idempotent and
// always acknowledges, so callers cannot probe for token existence.
func (h *AuthHandler) Revoke(c *gin.Context) {
	var req models.RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "refresh_token is required", "INVALID_ARGUMENT", h.logger)
		return
	}

	if err := h.tokens.Revoke(c.Request.Context(), req.RefreshToken); err != nil {
		status, message, code := MapDomainError(err)
		RespondWithError(c, status, message, code, h.logger)
		return
	}
	RespondWithMessage(c, http.StatusOK, "revoked")
}

// TokenStatus handles GET /api/v1/auth/token.
func (h *AuthHandler) TokenStatus(c *gin.Context) {
	refreshToken := c.Query("refresh_token")
	if refreshToken == "" {
		RespondWithError(c, http.StatusBadRequest, "refresh_token is required", "INVALID_ARGUMENT", h.logger)
		return
	}

	status, err := h.tokens.Status(c.Request.Context(), refreshToken)
	if err != nil {
		httpStatus, message, code := MapDomainError(err)
		RespondWithError(c, httpStatus, message, code, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, status)
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "password is required", "INVALID_ARGUMENT", h.logger)
		return
	}

	account, err := h.registrar.Register(c.Request.Context(), req)
	if err != nil {
		status, message, code := MapDomainError(err)
		RespondWithError(c, status, message, code, h.logger)
		return
	}
	RespondWithData(c, http.StatusCreated, gin.H{"account_id": account.ID})
}
