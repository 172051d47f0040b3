// File: internal/handler/http/router.go
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/identity-platform/sso-service/internal/handler/http/middleware"
)

// RouterDeps are the collaborators the router wires together.
type RouterDeps struct {
	Auth           *AuthHandler
	SSO            *SSOHandler
	Roles          *RoleHandler
	TokenValidator middleware.AccessTokenValidator
	Logger         *zap.Logger
	MetricsEnabled bool
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if deps.MetricsEnabled {
		router.Use(middleware.Metrics())
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.GET("/health", Health)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login", deps.Auth.Login)
		auth.POST("/refresh", deps.Auth.Refresh)
		auth.POST("/revoke", deps.Auth.Revoke)
		auth.GET("/token", deps.Auth.TokenStatus)
		auth.POST("/register", deps.Auth.Register)
	}

	sso := v1.Group("/sso")
	{
		sso.POST("/ticket", middleware.RequireAuth(deps.TokenValidator, deps.Logger), deps.SSO.IssueTicket)
		sso.POST("/redeem", deps.SSO.RedeemTicket)
	}

	authz := v1.Group("/authz", middleware.RequireAuth(deps.TokenValidator, deps.Logger))
	{
		authz.GET("/me", deps.Roles.Me)
		authz.POST("/check", deps.Roles.CheckPermissions)
	}

	return router
}
