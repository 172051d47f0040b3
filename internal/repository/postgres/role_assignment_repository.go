// File: internal/repository/postgres/role_assignment_repository.go
package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	domainErrors "github.com/identity-platform/sso-service/internal/domain/errors"
	"github.com/identity-platform/sso-service/internal/domain/repository"
)

// RoleAssignmentRepository is the pgx implementation of the account-to-role
// mapping.
type RoleAssignmentRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewRoleAssignmentRepository creates a RoleAssignmentRepository.
func NewRoleAssignmentRepository(pool *pgxpool.Pool, logger *zap.Logger) *RoleAssignmentRepository {
	return &RoleAssignmentRepository{pool: pool, logger: logger}
}

func (r *RoleAssignmentRepository) RoleCodesForAccount(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT role_code FROM account_roles WHERE account_id = $1 ORDER BY role_code`, accountID)
	if err != nil {
		return nil, domainErrors.WrapInfrastructure(err, "role codes query")
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, domainErrors.WrapInfrastructure(err, "role code scan")
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, domainErrors.WrapInfrastructure(err, "role codes iteration")
	}
	return codes, nil
}

func (r *RoleAssignmentRepository) Assign(ctx context.Context, accountID uuid.UUID, roleCode string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO account_roles (account_id, role_code, assigned_at)
		VALUES ($1, $2, now())
		ON CONFLICT (account_id, role_code) DO NOTHING`,
		accountID, roleCode,
	)
	if err != nil {
		r.logger.Error("Failed to assign role", zap.Error(err),
			zap.String("account_id", accountID.String()), zap.String("role_code", roleCode))
		return domainErrors.WrapInfrastructure(err, "role assign")
	}
	return nil
}

func (r *RoleAssignmentRepository) Remove(ctx context.Context, accountID uuid.UUID, roleCode string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM account_roles WHERE account_id = $1 AND role_code = $2`,
		accountID, roleCode,
	)
	if err != nil {
		return domainErrors.WrapInfrastructure(err, "role remove")
	}
	return nil
}

var _ repository.RoleAssignmentRepository = (*RoleAssignmentRepository)(nil)
