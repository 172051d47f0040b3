// File: internal/service/registration_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/identity-platform/sso-service/internal/catalog"
	"github.com/identity-platform/sso-service/internal/config"
	domainErrors "github.com/identity-platform/sso-service/internal/domain/errors"
	"github.com/identity-platform/sso-service/internal/domain/models"
	"github.com/identity-platform/sso-service/internal/domain/repository"
	"github.com/identity-platform/sso-service/internal/infrastructure/security"
	"github.com/identity-platform/sso-service/internal/utils/metrics"
)

// RegistrationService creates new accounts and assigns their initial role.
type RegistrationService struct {
	accounts repository.AccountRepository
	roles    *RoleService
	hasher   security.PasswordHasher
	catalog  *catalog.Catalog
	cfg      config.AuthorizationConfig
	logger   *zap.Logger
}

// NewRegistrationService creates a RegistrationService.
func NewRegistrationService(
	accounts repository.AccountRepository,
	roles *RoleService,
	hasher security.PasswordHasher,
	roleCatalog *catalog.Catalog,
	cfg config.AuthorizationConfig,
	logger *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		accounts: accounts,
		roles:    roles,
		hasher:   hasher,
		catalog:  roleCatalog,
		cfg:      cfg,
		logger:   logger,
	}
}

// Register validates the request, stores the account with a freshly salted
// digest, and assigns the initial role for the declared user type.
func (s *RegistrationService) Register(ctx context.Context, req models.RegisterRequest) (*models.Account, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domainErrors.ErrInvalidArgument)
	}
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("%w: malformed email", domainErrors.ErrInvalidArgument)
	}
	if security.ClassifyStrength(req.Password) == security.StrengthWeak {
		metrics.RegistrationAttemptsTotal.WithLabelValues("failure_weak_password").Inc()
		return nil, fmt.Errorf("%w: password is too weak", domainErrors.ErrInvalidArgument)
	}

	digest, salt, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:             uuid.New(),
		Username:       username,
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		PasswordDigest: digest,
		PasswordSalt:   salt,
		Status:         models.AccountStatusActive,
		CreatedAt:      time.Now(),
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			metrics.RegistrationAttemptsTotal.WithLabelValues("failure_duplicate").Inc()
		}
		return nil, err
	}

	roleCode := s.initialRole(req.UserType)
	if err := s.roles.AssignRole(ctx, account.ID, roleCode); err != nil {
		// The account exists; a failed role write leaves it on the
		// catalog default at resolution time, so log and carry on.
		s.logger.Error("Failed to assign initial role",
			zap.Error(err), zap.String("account_id", account.ID.String()), zap.String("role_code", roleCode))
	}

	s.logger.Info("Account registered",
		zap.String("account_id", account.ID.String()), zap.String("username", username))
	metrics.RegistrationAttemptsTotal.WithLabelValues("success").Inc()
	return account, nil
}

func (s *RegistrationService) initialRole(userType string) string {
	if code, ok := s.cfg.UserTypeRoles[userType]; ok {
		if _, defined := s.catalog.Get(code); defined {
			return code
		}
	}
	return s.catalog.DefaultRole()
}
