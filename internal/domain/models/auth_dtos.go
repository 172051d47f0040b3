// File: internal/domain/models/auth_dtos.go
package models

// LoginRequest is the credential-verification request body. LoginType is an
// optional hint ("username", "email" or "phone") that picks which handle is
// looked up first; when absent the identifier's shape decides.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
	LoginType  string `json:"login_type,omitempty"`
}

// RegisterRequest creates a new account. At least one handle is required.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"user_type,omitempty"`
}

// RefreshRequest rotates a token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RevokeRequest invalidates a refresh token.
type RevokeRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// IssueTicketRequest mints a single-use cross-application ticket against the
// caller's existing session.
type IssueTicketRequest struct {
	ClientID    string `json:"client_id" binding:"required"`
	RedirectURI string `json:"redirect_uri" binding:"required"`
}

// RedeemTicketRequest exchanges a ticket for the owning account identity.
type RedeemTicketRequest struct {
	Ticket string `json:"ticket" binding:"required"`
}
