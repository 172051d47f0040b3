// File: internal/domain/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// General errors
	ErrInternal         = errors.New("internal server error")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("resource not found")
	ErrAlreadyExists    = errors.New("resource already exists")
	ErrPermissionDenied = errors.New("permission denied")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrAccountLocked      = errors.New("account is locked")
	ErrNotLoggedIn        = errors.New("no active session")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	// SSO ticket errors
	ErrInvalidTicket = errors.New("invalid sso ticket")
	ErrExpiredTicket = errors.New("expired sso ticket")

	// Role errors
	ErrRoleNotFound = errors.New("role not found")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Infrastructure errors (store/network failures). Callers may retry these;
	// business errors above are never retried.
	ErrInfrastructure = errors.New("infrastructure failure")
)

// AppError carries an error with the information the API boundary needs.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

// ToAppError classifies a domain error into the AppError the API boundary
// returns: a stable code, a client-safe message and an HTTP status.
func ToAppError(err error) *AppError {
	if err == nil {
		err = ErrInternal
	}
	message, code := describe(err)
	return NewAppError(err, message, statusOf(err), code)
}

// statusOf derives the HTTP status from the error class.
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), IsUnauthorized(err):
		// An unknown identifier answers like bad credentials so login
		// cannot be used to enumerate handles.
		return http.StatusUnauthorized
	case IsBadRequest(err):
		return http.StatusBadRequest
	case IsConflict(err):
		return http.StatusConflict
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case IsNotFound(err):
		return http.StatusNotFound
	case IsInfrastructure(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func describe(err error) (string, string) {
	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrNotFound):
		return "invalid credentials", "BAD_CREDENTIALS"
	case errors.Is(err, ErrAccountLocked):
		return "account is locked", "ACCOUNT_LOCKED"
	case errors.Is(err, ErrAccountDisabled):
		return "account is disabled", "ACCOUNT_DISABLED"
	case errors.Is(err, ErrNotLoggedIn):
		return "no active session", "NOT_LOGGED_IN"
	case errors.Is(err, ErrExpiredToken):
		return "token has expired", "TOKEN_EXPIRED"
	case errors.Is(err, ErrInvalidToken):
		return "token is invalid", "TOKEN_INVALID"
	case errors.Is(err, ErrExpiredTicket):
		return "ticket has expired", "TICKET_EXPIRED"
	case errors.Is(err, ErrInvalidTicket):
		return "ticket is invalid", "TICKET_INVALID"
	case errors.Is(err, ErrInvalidArgument):
		return err.Error(), "INVALID_ARGUMENT"
	case errors.Is(err, ErrAlreadyExists):
		return "handle already registered", "DUPLICATE_HANDLE"
	case errors.Is(err, ErrPermissionDenied):
		return "permission denied", "PERMISSION_DENIED"
	case errors.Is(err, ErrRoleNotFound):
		return "role not found", "ROLE_NOT_FOUND"
	case errors.Is(err, ErrSessionNotFound):
		return "session not found", "SESSION_NOT_FOUND"
	case IsInfrastructure(err):
		return "temporarily unavailable", "INFRASTRUCTURE"
	default:
		return "internal server error", "INTERNAL"
	}
}

// WrapInfrastructure marks a store or network failure so the boundary can
// distinguish it from a business rejection.
func WrapInfrastructure(err error, op string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrInfrastructure, op, err)
}

// IsNotFound reports whether err is a "not found" class error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrRoleNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsUnauthorized reports whether err should map to a 401 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrAccountDisabled) ||
		errors.Is(err, ErrAccountLocked) ||
		errors.Is(err, ErrNotLoggedIn)
}

// IsBadRequest reports whether err should map to a 400 response.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrInvalidTicket) ||
		errors.Is(err, ErrExpiredTicket)
}

// IsConflict reports whether err is a duplicate-resource conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInfrastructure reports whether err is a retryable store/network failure.
func IsInfrastructure(err error) bool {
	return errors.Is(err, ErrInfrastructure)
}
