// File: internal/repository/postgres/account_repository.go
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	domainErrors "github.com/identity-platform/sso-service/internal/domain/errors"
	"github.com/identity-platform/sso-service/internal/domain/models"
	"github.com/identity-platform/sso-service/internal/domain/repository"
)

const uniqueViolationCode = "23505"

// email and phone are nullable so unique indexes ignore accounts without
// those handles; they come back as empty strings.
const accountColumns = `id, username, COALESCE(email, ''), COALESCE(phone, ''), password_digest, password_salt,
	status, locked, locked_at, failed_attempts, last_login_at, last_login_ip,
	created_at, updated_at`

// AccountRepository is the pgx implementation of the account record store.
// Failure-counter and lock mutations are single UPDATE statements so
// concurrent authentication attempts never lose updates.
type AccountRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewAccountRepository creates an AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool, logger *zap.Logger) *AccountRepository {
	return &AccountRepository{pool: pool, logger: logger}
}

func (r *AccountRepository) scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID, &a.Username, &a.Email, &a.Phone, &a.PasswordDigest, &a.PasswordSalt,
		&a.Status, &a.Locked, &a.LockedAt, &a.FailedAttempts, &a.LastLoginAt, &a.LastLoginIP,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, domainErrors.WrapInfrastructure(err, "account scan")
	}
	return &a, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return r.scanAccount(row)
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username)
	return r.scanAccount(row)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	return r.scanAccount(row)
}

func (r *AccountRepository) FindByPhone(ctx context.Context, phone string) (*models.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE phone = $1`, phone)
	return r.scanAccount(row)
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, username, email, phone, password_digest, password_salt,
			status, locked, failed_attempts, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, FALSE, 0, $8, $8)`,
		account.ID, account.Username, account.Email, account.Phone,
		account.PasswordDigest, account.PasswordSalt, account.Status, account.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return domainErrors.ErrAlreadyExists
		}
		r.logger.Error("Failed to insert account", zap.Error(err), zap.String("username", account.Username))
		return domainErrors.WrapInfrastructure(err, "account insert")
	}
	return nil
}

func (r *AccountRepository) IncrementFailedAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		UPDATE accounts
		SET failed_attempts = failed_attempts + 1, updated_at = now()
		WHERE id = $1
		RETURNING failed_attempts`, id,
	).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domainErrors.ErrNotFound
		}
		return 0, domainErrors.WrapInfrastructure(err, "failed attempts increment")
	}
	return count, nil
}

func (r *AccountRepository) ResetFailedAttempts(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET failed_attempts = 0, updated_at = now()
		WHERE id = $1`, id,
	)
	if err != nil {
		return domainErrors.WrapInfrastructure(err, "failed attempts reset")
	}
	return nil
}

func (r *AccountRepository) Lock(ctx context.Context, id uuid.UUID, at time.Time) error {
	// COALESCE keeps the first lock timestamp when concurrent writers race.
	_, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET locked = TRUE, locked_at = COALESCE(locked_at, $2), updated_at = now()
		WHERE id = $1`, id, at,
	)
	if err != nil {
		return domainErrors.WrapInfrastructure(err, "account lock")
	}
	return nil
}

func (r *AccountRepository) Unlock(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET locked = FALSE, locked_at = NULL, failed_attempts = 0, updated_at = now()
		WHERE id = $1`, id,
	)
	if err != nil {
		return domainErrors.WrapInfrastructure(err, "account unlock")
	}
	return nil
}

func (r *AccountRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time, ip string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET last_login_at = $2, last_login_ip = $3, updated_at = now()
		WHERE id = $1`, id, at, ip,
	)
	if err != nil {
		return domainErrors.WrapInfrastructure(err, "last login update")
	}
	return nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
