// File: internal/repository/redis/view_cache.go
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/identity-platform/sso-service/internal/domain/errors"
	"github.com/identity-platform/sso-service/internal/domain/models"
	"github.com/identity-platform/sso-service/internal/domain/repository"
)

const viewKeyPrefix = "authz:view:"

// ViewCache is the Redis-backed authorization-view cache, keyed by account
// id with a TTL kept below every token lifetime.
type ViewCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewViewCache creates a Redis-backed ViewCache.
func NewViewCache(client *redis.Client, logger *zap.Logger) *ViewCache {
	return &ViewCache{client: client, logger: logger}
}

func viewKey(accountID uuid.UUID) string {
	return viewKeyPrefix + accountID.String()
}

func (c *ViewCache) GetView(ctx context.Context, accountID uuid.UUID) (*models.AuthorizationView, error) {
	data, err := c.client.Get(ctx, viewKey(accountID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domainErrors.ErrNotFound
		}
		return nil, domainErrors.WrapInfrastructure(err, "view cache get")
	}

	var view models.AuthorizationView
	if err := json.Unmarshal(data, &view); err != nil {
		c.logger.Error("Failed to unmarshal cached authorization view", zap.Error(err), zap.String("account_id", accountID.String()))
		return nil, fmt.Errorf("failed to unmarshal authorization view: %w", err)
	}
	return &view, nil
}

func (c *ViewCache) SetView(ctx context.Context, view *models.AuthorizationView, ttl time.Duration) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal authorization view: %w", err)
	}
	if err := c.client.Set(ctx, viewKey(view.AccountID), data, ttl).Err(); err != nil {
		return domainErrors.WrapInfrastructure(err, "view cache set")
	}
	return nil
}

func (c *ViewCache) Invalidate(ctx context.Context, accountID uuid.UUID) error {
	if err := c.client.Del(ctx, viewKey(accountID)).Err(); err != nil {
		return domainErrors.WrapInfrastructure(err, "view cache invalidate")
	}
	return nil
}

var _ repository.ViewCache = (*ViewCache)(nil)
