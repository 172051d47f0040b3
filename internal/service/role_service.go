// File: internal/service/role_service.go
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/identity-platform/sso-service/internal/catalog"
	domainErrors "github.com/identity-platform/sso-service/internal/domain/errors"
	"github.com/identity-platform/sso-service/internal/domain/models"
	"github.com/identity-platform/sso-service/internal/domain/repository"
	"github.com/identity-platform/sso-service/internal/utils/metrics"
)

// RoleService resolves an account's role assignments into its authorization
// view: primary role, merged permission set, accessible routes and dashboard
// path. Reads go through the short-TTL view cache; any role-assignment
// mutation invalidates the cached entry.
type RoleService struct {
	assignments repository.RoleAssignmentRepository
	catalog     *catalog.Catalog
	cache       repository.ViewCache
	viewTTL     time.Duration
	logger      *zap.Logger
}

// NewRoleService creates a RoleService.
func NewRoleService(
	assignments repository.RoleAssignmentRepository,
	roleCatalog *catalog.Catalog,
	cache repository.ViewCache,
	viewTTL time.Duration,
	logger *zap.Logger,
) *RoleService {
	return &RoleService{
		assignments: assignments,
		catalog:     roleCatalog,
		cache:       cache,
		viewTTL:     viewTTL,
		logger:      logger,
	}
}

// View returns the account's authorization view, from cache when fresh.
func (s *RoleService) View(ctx context.Context, accountID uuid.UUID) (*models.AuthorizationView, error) {
	if s.cache != nil {
		view, err := s.cache.GetView(ctx, accountID)
		if err == nil {
			metrics.AuthzViewCacheTotal.WithLabelValues("hit").Inc()
			return view, nil
		}
		if !errors.Is(err, domainErrors.ErrNotFound) {
			// A cache failure degrades to a recompute, never to a
			// request failure.
			s.logger.Warn("Authorization view cache read failed",
				zap.Error(err), zap.String("account_id", accountID.String()))
		}
		metrics.AuthzViewCacheTotal.WithLabelValues("miss").Inc()
	}

	view, err := s.computeView(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetView(ctx, view, s.viewTTL); err != nil {
			s.logger.Warn("Failed to populate authorization view cache",
				zap.Error(err), zap.String("account_id", accountID.String()))
		}
	}
	return view, nil
}

// PrimaryRole returns the highest-privilege assigned role (minimum rank), or
// the default role when nothing assigned resolves in the catalog.
func (s *RoleService) PrimaryRole(ctx context.Context, accountID uuid.UUID) (string, error) {
	view, err := s.View(ctx, accountID)
	if err != nil {
		return "", err
	}
	return view.PrimaryRole, nil
}

// Permissions returns the union of the permission sets of every assigned
// role. Role codes absent from the catalog contribute nothing.
func (s *RoleService) Permissions(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	view, err := s.View(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return view.Permissions, nil
}

// AccessibleRoutes returns the union of route patterns of assigned roles.
func (s *RoleService) AccessibleRoutes(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	view, err := s.View(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return view.Routes, nil
}

// DashboardPath returns the dashboard path of the primary role.
func (s *RoleService) DashboardPath(ctx context.Context, accountID uuid.UUID) (string, error) {
	view, err := s.View(ctx, accountID)
	if err != nil {
		return "", err
	}
	return view.DashboardPath, nil
}

// BatchCheckPermissions maps each code to membership in the account's merged
// permission set.
func (s *RoleService) BatchCheckPermissions(ctx context.Context, accountID uuid.UUID, codes []string) (map[string]bool, error) {
	view, err := s.View(ctx, accountID)
	if err != nil {
		return nil, err
	}
	result := make(map[string]bool, len(codes))
	for _, code := range codes {
		result[code] = view.HasPermission(code)
	}
	return result, nil
}

// RoleLevel returns the hierarchy rank of a role code. An unrecognized role
// yields the lowest-possible-privilege sentinel rather than an error.
func (s *RoleService) RoleLevel(roleCode string) int {
	return s.catalog.Rank(roleCode)
}

// AssignRole grants a role to an account and invalidates its cached view.
func (s *RoleService) AssignRole(ctx context.Context, accountID uuid.UUID, roleCode string) error {
	if _, ok := s.catalog.Get(roleCode); !ok {
		return domainErrors.ErrRoleNotFound
	}
	if err := s.assignments.Assign(ctx, accountID, roleCode); err != nil {
		return err
	}
	return s.InvalidateView(ctx, accountID)
}

// RemoveRole revokes a role from an account and invalidates its cached view.
func (s *RoleService) RemoveRole(ctx context.Context, accountID uuid.UUID, roleCode string) error {
	if err := s.assignments.Remove(ctx, accountID, roleCode); err != nil {
		return err
	}
	return s.InvalidateView(ctx, accountID)
}

// InvalidateView drops the cached authorization view for an account.
func (s *RoleService) InvalidateView(ctx context.Context, accountID uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx, accountID); err != nil {
		s.logger.Error("Failed to invalidate authorization view",
			zap.Error(err), zap.String("account_id", accountID.String()))
		return err
	}
	return nil
}

func (s *RoleService) computeView(ctx context.Context, accountID uuid.UUID) (*models.AuthorizationView, error) {
	assigned, err := s.assignments.RoleCodesForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// Keep only roles the catalog knows; unknown codes contribute nothing.
	known := make([]string, 0, len(assigned))
	for _, code := range assigned {
		if _, ok := s.catalog.Get(code); ok {
			known = append(known, code)
		}
	}
	if len(known) == 0 {
		known = []string{s.catalog.DefaultRole()}
	}

	primary := known[0]
	permSet := make(map[string]struct{})
	routeSet := make(map[string]struct{})
	for _, code := range known {
		def, _ := s.catalog.Get(code)
		if s.catalog.Rank(code) < s.catalog.Rank(primary) {
			primary = code
		}
		for _, p := range def.Permissions {
			permSet[p] = struct{}{}
		}
		for _, route := range def.Routes {
			routeSet[route] = struct{}{}
		}
	}

	primaryDef, _ := s.catalog.Get(primary)
	dashboard := primaryDef.DashboardPath
	if dashboard == "" {
		def, _ := s.catalog.Get(s.catalog.DefaultRole())
		dashboard = def.DashboardPath
	}

	return &models.AuthorizationView{
		AccountID:     accountID,
		Roles:         known,
		PrimaryRole:   primary,
		Permissions:   sortedKeys(permSet),
		Routes:        sortedKeys(routeSet),
		DashboardPath: dashboard,
		ComputedAt:    time.Now(),
	}, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
