// File: internal/handler/http/response.go
package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/identity-platform/sso-service/internal/domain/errors"
)

// ResponseError is the error body returned by the API.
type ResponseError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// RespondWithError writes an error response with a stable code.
func RespondWithError(c *gin.Context, statusCode int, message string, errorCode string, logger *zap.Logger) {
	logger.Warn("API error response",
		zap.Int("status_code", statusCode),
		zap.String("error_code", errorCode),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ResponseError{Error: message, Code: errorCode})
}

// RespondWithData writes a success response with only data.
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// RespondWithMessage writes a success response with only a message.
func RespondWithMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

// MapDomainError translates a domain error into an HTTP status and a stable
// error code. Business errors keep their codes verbatim; infrastructure
// failures map to 503 so callers know the request is retryable.
func MapDomainError(err error) (int, string, string) {
	appErr := domainErrors.ToAppError(err)
	return appErr.StatusCode, appErr.Message, appErr.Code
}
