// File: internal/handler/http/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/identity-platform/sso-service/internal/infrastructure/security"
)

const accountIDKey = "auth.account_id"

// AccessTokenValidator verifies a bearer access token.
type AccessTokenValidator interface {
	ValidateAccessToken(tokenString string) (*security.Claims, error)
}

// RequireAuth validates the Authorization bearer token and stores the
// authenticated account id in the request context.
func RequireAuth(validator AccessTokenValidator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token", "code": "NOT_LOGGED_IN"})
			return
		}

		claims, err := validator.ValidateAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			logger.Debug("Access token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token", "code": "NOT_LOGGED_IN"})
			return
		}

		accountID, err := uuid.Parse(claims.AccountID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token", "code": "NOT_LOGGED_IN"})
			return
		}

		c.Set(accountIDKey, accountID)
		c.Next()
	}
}

// AccountIDFromContext returns the authenticated account id set by
// RequireAuth.
func AccountIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(accountIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
