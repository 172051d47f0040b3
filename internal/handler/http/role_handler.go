// File: internal/handler/http/role_handler.go
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/identity-platform/sso-service/internal/domain/models"
	"github.com/identity-platform/sso-service/internal/handler/http/middleware"
)

// AuthorizationResolver resolves an account's authorization view.
type AuthorizationResolver interface {
	View(ctx context.Context, accountID uuid.UUID) (*models.AuthorizationView, error)
	BatchCheckPermissions(ctx context.Context, accountID uuid.UUID, codes []string) (map[string]bool, error)
}

// RoleHandler serves the authorization-view endpoints.
type RoleHandler struct {
	resolver AuthorizationResolver
	logger   *zap.Logger
}

// NewRoleHandler creates a RoleHandler.
func NewRoleHandler(resolver AuthorizationResolver, logger *zap.Logger) *RoleHandler {
	return &RoleHandler{resolver: resolver, logger: logger}
}

// Me handles GET /api/v1/authz/me: the caller's roles, merged permissions,
// primary role, dashboard path and accessible routes.
func (h *RoleHandler) Me(c *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "no active session", "NOT_LOGGED_IN", h.logger)
		return
	}

	view, err := h.resolver.View(c.Request.Context(), accountID)
	if err != nil {
		status, message, code := MapDomainError(err)
		RespondWithError(c, status, message, code, h.logger)
		return
	}

	RespondWithData(c, http.StatusOK, gin.H{
		"roles":          view.Roles,
		"primary_role":   view.PrimaryRole,
		"permissions":    view.Permissions,
		"routes":         view.Routes,
		"dashboard_path": view.DashboardPath,
	})
}

// CheckPermissions handles POST /api/v1/authz/check: each requested code is
// mapped to membership in the caller's merged permission set.
func (h *RoleHandler) CheckPermissions(c *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "no active session", "NOT_LOGGED_IN", h.logger)
		return
	}

	var req struct {
		Codes []string `json:"codes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "codes are required", "INVALID_ARGUMENT", h.logger)
		return
	}

	result, err := h.resolver.BatchCheckPermissions(c.Request.Context(), accountID, req.Codes)
	if err != nil {
		status, message, code := MapDomainError(err)
		RespondWithError(c, status, message, code, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, gin.H{"results": result})
}
