// File: internal/repository/redis/session_store.go
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

const (
	sessionKeyPrefix   = "sso:session:"
	accountIndexPrefix = "sso:account:"
	accountIndexSuffix = ":sessions"
)

// rotateScript deletes the old session key and writes the new one in a
// single atomic step, keeping the per-account index in sync. Rotation and
// invalidation of the old token are one operation: a concurrent request
// presenting the old token can never observe both sessions.
var rotateScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("DEL", KEYS[1])
redis.call("SET", KEYS[2], ARGV[1], "PX", ARGV[2])
redis.call("SREM", KEYS[3], KEYS[1])
redis.call("SADD", KEYS[3], KEYS[2])
redis.call("PEXPIRE", KEYS[3], ARGV[2])
return 1
`)

// SessionStore keeps sessions in Redis with TTL-based destruction.
type SessionStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewSessionStore creates a Redis-backed SessionStore.
func NewSessionStore(client *redis.Client, logger *zap.Logger) *SessionStore {
	return &SessionStore{client: client, logger: logger}
}

func sessionKey(key string) string {
	return sessionKeyPrefix + key
}

func accountIndexKey(accountID uuid.UUID) string {
	return accountIndexPrefix + accountID.String() + accountIndexSuffix
}

func (s *SessionStore) Save(ctx context.Context, key string, session *models.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(key), data, ttl)
	indexKey := accountIndexKey(session.AccountID)
	pipe.SAdd(ctx, indexKey, sessionKey(key))
	pipe.Expire(ctx, indexKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error("Failed to save session", zap.Error(err), zap.String("account_id", session.AccountID.String()))
		return domainErrors.WrapInfrastructure(err, "session save")
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, key string) (*models.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domainErrors.ErrSessionNotFound
		}
		s.logger.Error("Failed to get session", zap.Error(err))
		return nil, domainErrors.WrapInfrastructure(err, "session get")
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.Error("Failed to unmarshal session", zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Rotate(ctx context.Context, oldKey, newKey string, session *models.Session, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return false, fmt.Errorf("failed to marshal session: %w", err)
	}

	res, err := rotateScript.Run(ctx, s.client,
		[]string{sessionKey(oldKey), sessionKey(newKey), accountIndexKey(session.AccountID)},
		data, ttl.Milliseconds(),
	).Int()
	if err != nil {
		s.logger.Error("Failed to rotate session", zap.Error(err), zap.String("account_id", session.AccountID.String()))
		return false, domainErrors.WrapInfrastructure(err, "session rotate")
	}
	return res == 1, nil
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	// Look the session up first so the account index can be pruned; a miss
	// is not an error because Delete must stay idempotent.
	session, err := s.Get(ctx, key)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(key))
	pipe.SRem(ctx, accountIndexKey(session.AccountID), sessionKey(key))
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error("Failed to delete session", zap.Error(err))
		return domainErrors.WrapInfrastructure(err, "session delete")
	}
	return nil
}

func (s *SessionStore) HasActive(ctx context.Context, accountID uuid.UUID) (bool, error) {
	indexKey := accountIndexKey(accountID)
	members, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		s.logger.Error("Failed to read account session index", zap.Error(err), zap.String("account_id", accountID.String()))
		return false, domainErrors.WrapInfrastructure(err, "session index read")
	}

	for _, member := range members {
		exists, err := s.client.Exists(ctx, member).Result()
		if err != nil {
			return false, domainErrors.WrapInfrastructure(err, "session exists check")
		}
		if exists > 0 {
			return true, nil
		}
		// The session key expired; prune the stale index entry.
		s.client.SRem(ctx, indexKey, member)
	}
	return false, nil
}

func (s *SessionStore) DeleteAllForAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	indexKey := accountIndexKey(accountID)
	members, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return 0, domainErrors.WrapInfrastructure(err, "session index read")
	}

	deleted := 0
	for _, member := range members {
		n, err := s.client.Del(ctx, member).Result()
		if err != nil {
			s.logger.Error("Failed to delete session during bulk revoke", zap.Error(err), zap.String("key", member))
			continue
		}
		deleted += int(n)
	}
	if err := s.client.Del(ctx, indexKey).Err(); err != nil {
		return deleted, domainErrors.WrapInfrastructure(err, "session index delete")
	}
	return deleted, nil
}

var _ repository.SessionStore = (*SessionStore)(nil)
