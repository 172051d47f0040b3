// File: internal/domain/models/ticket.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// SsoTicket is a single-use proof of an existing login that a second client
// application redeems instead of re-authenticating. Redemption is destructive:
// the ticket is deleted the moment it is read.
type SsoTicket struct {
	Value       string    `json:"value"`
	AccountID   uuid.UUID `json:"account_id"`
	ClientID    string    `json:"client_id"`
	RedirectURI string    `json:"redirect_uri"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the ticket's redemption window has passed.
func (t *SsoTicket) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// TicketGrant is what a redeeming client receives.
type TicketGrant struct {
	AccountID   uuid.UUID `json:"account_id"`
	RedirectURI string    `json:"redirect_uri"`
}
