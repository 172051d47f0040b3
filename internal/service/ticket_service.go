// File: internal/service/ticket_service.go
package service

import (
	"context"
	"errors"
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

const (
	ticketValuePrefix = "ST-"
	ticketValueBytes  = 32
)

// TicketService issues and redeems single-use cross-application tickets: a
// second client application redeems proof of an existing login instead of
// asking for credentials again.
type TicketService struct {
	tickets  repository.TicketStore
	sessions repository.SessionStore
	cfg      config.SSOConfig
	logger   *zap.Logger
}

// NewTicketService creates a TicketService.
func NewTicketService(
	tickets repository.TicketStore,
	sessions repository.SessionStore,
	cfg config.SSOConfig,
	logger *zap.Logger,
) *TicketService {
	return &TicketService{
		tickets:  tickets,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
	}
}

// IssueTicket mints a short-lived single-use ticket for an account that
// currently holds at least one live session.
func (s *TicketService) IssueTicket(ctx context.Context, accountID uuid.UUID, clientID, redirectURI string) (string, error) {
	if clientID == "" || redirectURI == "" {
		return "", fmt.Errorf("%w: client_id and redirect_uri are required", domainErrors.ErrInvalidArgument)
	}

	active, err := s.sessions.HasActive(ctx, accountID)
	if err != nil {
		return "", err
	}
	if !active {
		return "", domainErrors.ErrNotLoggedIn
	}

	raw, err := security.GenerateOpaqueToken(ticketValueBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate ticket value: %w", err)
	}
	value := ticketValuePrefix + raw

	now := time.Now()
	ticket := &models.SsoTicket{
		Value:       value,
		AccountID:   accountID,
		ClientID:    clientID,
		RedirectURI: redirectURI,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.cfg.TicketTTL),
	}

	// Store TTL runs slightly past the ticket expiry so a late redeemer is
	// told the ticket expired rather than that it never existed.
	if err := s.tickets.Save(ctx, ticket, s.cfg.TicketTTL+s.cfg.ExpiryGrace); err != nil {
		return "", err
	}

	s.logger.Info("SSO ticket issued",
		zap.String("account_id", accountID.String()), zap.String("client_id", clientID))
	metrics.TicketsIssuedTotal.Inc()
	return value, nil
}

// RedeemTicket destructively consumes a ticket. Redemption is exactly-once:
// the underlying get-and-delete lets at most one concurrent redeemer
// succeed.
func (s *TicketService) RedeemTicket(ctx context.Context, value string) (*models.TicketGrant, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: ticket value is required", domainErrors.ErrInvalidArgument)
	}

	ticket, err := s.tickets.TakeOnce(ctx, value)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			metrics.TicketRedemptionsTotal.WithLabelValues("failure_invalid").Inc()
			return nil, domainErrors.ErrInvalidTicket
		}
		return nil, err
	}

	if ticket.Expired(time.Now()) {
		metrics.TicketRedemptionsTotal.WithLabelValues("failure_expired").Inc()
		return nil, domainErrors.ErrExpiredTicket
	}

	s.logger.Info("SSO ticket redeemed",
		zap.String("account_id", ticket.AccountID.String()), zap.String("client_id", ticket.ClientID))
	metrics.TicketRedemptionsTotal.WithLabelValues("success").Inc()
	return &models.TicketGrant{
		AccountID:   ticket.AccountID,
		RedirectURI: ticket.RedirectURI,
	}, nil
}
