// File: internal/app/app.go
package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/identity-platform/sso-service/internal/catalog"
	"github.com/identity-platform/sso-service/internal/config"
	httpHandler "github.com/identity-platform/sso-service/internal/handler/http"
	"github.com/identity-platform/sso-service/internal/infrastructure/security"
	postgresRepo "github.com/identity-platform/sso-service/internal/repository/postgres"
	redisRepo "github.com/identity-platform/sso-service/internal/repository/redis"
	"github.com/identity-platform/sso-service/internal/service"
	applogger "github.com/identity-platform/sso-service/internal/utils/logger"
)

// App owns the wired dependency graph and the HTTP server lifecycle.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	server *http.Server

	closers []func()
}

// New wires the whole service together.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	if cfg.Database.AutoMigrate {
		if err := postgresRepo.RunMigrations(cfg.Database.DSN(), cfg.Database.MigrationsPath); err != nil {
			return nil, err
		}
		logger.Info("Database migrations applied")
	}

	pool, err := postgresRepo.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pool.Close)

	redisClient, err := redisRepo.NewClient(ctx, cfg.Redis)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = redisClient.Close() })

	roleCatalog, err := catalog.Load(cfg.Authorization.CatalogPath)
	if err != nil {
		a.Close()
		return nil, err
	}

	jwtManager, err := security.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.AccessTokenTTL)
	if err != nil {
		a.Close()
		return nil, err
	}

	hasher, err := newPasswordHasher(cfg.Security.PasswordHash)
	if err != nil {
		a.Close()
		return nil, err
	}

	pgLogger := applogger.WithComponent(logger, "postgres")
	redisLogger := applogger.WithComponent(logger, "redis")
	accountRepo := postgresRepo.NewAccountRepository(pool, pgLogger)
	assignmentRepo := postgresRepo.NewRoleAssignmentRepository(pool, pgLogger)
	sessionStore := redisRepo.NewSessionStore(redisClient, redisLogger)
	ticketStore := redisRepo.NewTicketStore(redisClient, redisLogger)
	viewCache := redisRepo.NewViewCache(redisClient, redisLogger)

	roleService := service.NewRoleService(assignmentRepo, roleCatalog, viewCache, cfg.Authorization.ViewTTL, applogger.WithComponent(logger, "roles"))
	authService := service.NewAuthService(accountRepo, cfg.Security.Lockout, applogger.WithComponent(logger, "auth"))
	tokenService := service.NewTokenService(sessionStore, jwtManager, roleService, cfg.JWT, applogger.WithComponent(logger, "tokens"))
	ticketService := service.NewTicketService(ticketStore, sessionStore, cfg.SSO, applogger.WithComponent(logger, "tickets"))
	registrationService := service.NewRegistrationService(accountRepo, roleService, hasher, roleCatalog, cfg.Authorization, applogger.WithComponent(logger, "registration"))

	httpLogger := applogger.WithComponent(logger, "http")
	router := httpHandler.NewRouter(httpHandler.RouterDeps{
		Auth:           httpHandler.NewAuthHandler(authService, tokenService, registrationService, httpLogger),
		SSO:            httpHandler.NewSSOHandler(ticketService, httpLogger),
		Roles:          httpHandler.NewRoleHandler(roleService, httpLogger),
		TokenValidator: tokenService,
		Logger:         httpLogger,
		MetricsEnabled: cfg.Metrics.Enabled,
	})

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return a, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	a.logger.Info("HTTP server stopped")
	return nil
}

// Close releases all held resources.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func newPasswordHasher(cfg config.PasswordHashConfig) (security.PasswordHasher, error) {
	switch cfg.Scheme {
	case "", "salted_digest":
		return security.NewSaltedDigestHasher(), nil
	case "argon2id":
		params := security.DefaultArgon2idParams()
		if cfg.Memory != 0 {
			params.Memory = cfg.Memory
		}
		if cfg.Iterations != 0 {
			params.Iterations = cfg.Iterations
		}
		if cfg.Parallelism != 0 {
			params.Parallelism = cfg.Parallelism
		}
		if cfg.SaltLength != 0 {
			params.SaltLength = cfg.SaltLength
		}
		if cfg.KeyLength != 0 {
			params.KeyLength = cfg.KeyLength
		}
		return security.NewArgon2idHasher(params)
	default:
		return nil, fmt.Errorf("unknown password hash scheme %q", cfg.Scheme)
	}
}
