// File: internal/handler/http/sso_handler.go
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

// TicketBroker issues and redeems single-use cross-application tickets.
type TicketBroker interface {
	IssueTicket(ctx context.Context, accountID uuid.UUID, clientID, redirectURI string) (string, error)
	RedeemTicket(ctx context.Context, value string) (*models.TicketGrant, error)
}

// SSOHandler serves the ticket issue/redeem endpoints.
type SSOHandler struct {
	broker TicketBroker
	logger *zap.Logger
}

// NewSSOHandler creates an SSOHandler.
func NewSSOHandler(broker TicketBroker, logger *zap.Logger) *SSOHandler {
	return &SSOHandler{broker: broker, logger: logger}
}

// IssueTicket handles POST /api/v1/sso/ticket. The caller must present a
// valid access token; the broker additionally requires a live session.
func (h *SSOHandler) IssueTicket(c *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "no active session", "NOT_LOGGED_IN", h.logger)
		return
	}

	var req models.IssueTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "client_id and redirect_uri are required", "INVALID_ARGUMENT", h.logger)
		return
	}

	value, err := h.broker.IssueTicket(c.Request.Context(), accountID, req.ClientID, req.RedirectURI)
	if err != nil {
		status, message, code := MapDomainError(err)
		RespondWithError(c, status, message, code, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, gin.H{"ticket": value})
}

// RedeemTicket handles POST /api/v1/sso/redeem. No authentication: the
// ticket itself is the proof.
func (h *SSOHandler) RedeemTicket(c *gin.Context) {
	var req models.RedeemTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "ticket is required", "INVALID_ARGUMENT", h.logger)
		return
	}

	grant, err := h.broker.RedeemTicket(c.Request.Context(), req.Ticket)
	if err != nil {
		status, message, code := MapDomainError(err)
		RespondWithError(c, status, message, code, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, grant)
}
