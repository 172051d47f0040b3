// File: internal/domain/repository/interfaces.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/identity-platform/sso-service/internal/domain/models"
)

// AccountRepository is the narrow capability interface over the persisted
// account records. Counter and lock mutations are single atomic statements
// against the record, never read-then-write pairs.
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByPhone(ctx context.Context, phone string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error

	// IncrementFailedAttempts atomically bumps the failure counter and
	// returns the new count, so two concurrent failed logins are both
	// counted.
	IncrementFailedAttempts(ctx context.Context, id uuid.UUID) (int, error)
	ResetFailedAttempts(ctx context.Context, id uuid.UUID) error

	// Lock sets the lock flag and timestamp. It is idempotent: concurrent
	// lockers are safe and the first lock timestamp wins.
	Lock(ctx context.Context, id uuid.UUID, at time.Time) error
	Unlock(ctx context.Context, id uuid.UUID) error

	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time, ip string) error
}

// RoleAssignmentRepository maps accounts to their assigned role codes.
type RoleAssignmentRepository interface {
	RoleCodesForAccount(ctx context.Context, accountID uuid.UUID) ([]string, error)
	Assign(ctx context.Context, accountID uuid.UUID, roleCode string) error
	Remove(ctx context.Context, accountID uuid.UUID, roleCode string) error
}

// SessionStore holds sessions in the key-value store, keyed by the hash of
// their refresh token. All writes carry explicit TTLs.
type SessionStore interface {
	Save(ctx context.Context, key string, session *models.Session, ttl time.Duration) error
	// Get returns a not-found class error (errors.IsNotFound) on a miss.
	Get(ctx context.Context, key string) (*models.Session, error)
	// Rotate atomically deletes oldKey and writes session under newKey.
	// It returns false when oldKey was already gone, which means another
	// rotation or a revoke won the race.
	Rotate(ctx context.Context, oldKey, newKey string, session *models.Session, ttl time.Duration) (bool, error)
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
	HasActive(ctx context.Context, accountID uuid.UUID) (bool, error)
	DeleteAllForAccount(ctx context.Context, accountID uuid.UUID) (int, error)
}

// TicketStore holds single-use SSO tickets.
type TicketStore interface {
	Save(ctx context.Context, ticket *models.SsoTicket, ttl time.Duration) error
	// TakeOnce is an atomic get-and-delete: at most one concurrent caller
	// receives the ticket; all others get errors.ErrNotFound.
	TakeOnce(ctx context.Context, value string) (*models.SsoTicket, error)
}

// ViewCache is the read-through, write-invalidate cache for authorization
// views.
type ViewCache interface {
	// GetView returns errors.ErrNotFound on a miss.
	GetView(ctx context.Context, accountID uuid.UUID) (*models.AuthorizationView, error)
	SetView(ctx context.Context, view *models.AuthorizationView, ttl time.Duration) error
	Invalidate(ctx context.Context, accountID uuid.UUID) error
}
