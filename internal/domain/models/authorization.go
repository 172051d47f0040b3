// File: internal/domain/models/authorization.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthorizationView is the derived, cached authorization state of an account:
// its primary role, merged permission set, accessible routes and dashboard
// path. It is recomputed from the role assignments and the catalog on cache
// miss, and cached with a TTL shorter than any token lifetime.
type AuthorizationView struct {
	AccountID     uuid.UUID `json:"account_id"`
	Roles         []string  `json:"roles"`
	PrimaryRole   string    `json:"primary_role"`
	Permissions   []string  `json:"permissions"`
	Routes        []string  `json:"routes"`
	DashboardPath string    `json:"dashboard_path"`
	ComputedAt    time.Time `json:"computed_at"`
}

// HasPermission reports whether the merged permission set contains code.
func (v *AuthorizationView) HasPermission(code string) bool {
	for _, p := range v.Permissions {
		if p == code {
			return true
		}
	}
	return false
}
