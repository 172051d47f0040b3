// File: internal/repository/redis/ticket_store.go
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	domainErrors "github.com/identity-platform/sso-service/internal/domain/errors"
	"github.com/identity-platform/sso-service/internal/domain/models"
	"github.com/identity-platform/sso-service/internal/domain/repository"
)

const ticketKeyPrefix = "sso:ticket:"

// TicketStore keeps single-use SSO tickets in Redis. Redemption relies on
// GETDEL, so at most one of any number of concurrent redeemers receives the
// ticket.
type TicketStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewTicketStore creates a Redis-backed TicketStore.
func NewTicketStore(client *redis.Client, logger *zap.Logger) *TicketStore {
	return &TicketStore{client: client, logger: logger}
}

func ticketKey(value string) string {
	return ticketKeyPrefix + value
}

func (s *TicketStore) Save(ctx context.Context, ticket *models.SsoTicket, ttl time.Duration) error {
	data, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket: %w", err)
	}
	if err := s.client.Set(ctx, ticketKey(ticket.Value), data, ttl).Err(); err != nil {
		s.logger.Error("Failed to save sso ticket", zap.Error(err), zap.String("account_id", ticket.AccountID.String()))
		return domainErrors.WrapInfrastructure(err, "ticket save")
	}
	return nil
}

func (s *TicketStore) TakeOnce(ctx context.Context, value string) (*models.SsoTicket, error) {
	data, err := s.client.GetDel(ctx, ticketKey(value)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domainErrors.ErrNotFound
		}
		s.logger.Error("Failed to redeem sso ticket", zap.Error(err))
		return nil, domainErrors.WrapInfrastructure(err, "ticket take")
	}

	var ticket models.SsoTicket
	if err := json.Unmarshal(data, &ticket); err != nil {
		s.logger.Error("Failed to unmarshal sso ticket", zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal ticket: %w", err)
	}
	return &ticket, nil
}

var _ repository.TicketStore = (*TicketStore)(nil)
