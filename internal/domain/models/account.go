// File: internal/domain/models/account.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatus is the administrative status of an account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusDisabled AccountStatus = "disabled"
)

// Account is the system-of-record identity entity. Username, phone and email
// are alternative login handles that all resolve to the same account.
type Account struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	Username       string        `json:"username" db:"username"`
	Email          string        `json:"email,omitempty" db:"email"`
	Phone          string        `json:"phone,omitempty" db:"phone"`
	PasswordDigest string        `json:"-" db:"password_digest"`
	PasswordSalt   string        `json:"-" db:"password_salt"`
	Status         AccountStatus `json:"status" db:"status"`
	Locked         bool          `json:"locked" db:"locked"`
	LockedAt       *time.Time    `json:"locked_at,omitempty" db:"locked_at"`
	FailedAttempts int           `json:"-" db:"failed_attempts"`
	LastLoginAt    *time.Time    `json:"last_login_at,omitempty" db:"last_login_at"`
	LastLoginIP    string        `json:"-" db:"last_login_ip"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the account can authenticate at all.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}
