// File: internal/utils/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttemptsTotal counts login attempts by outcome.
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sso_service_login_attempts_total",
		Help: "The total number of login attempts",
	}, []string{"status"})

	// RegistrationAttemptsTotal counts registration attempts by outcome.
	RegistrationAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sso_service_registration_attempts_total",
		Help: "The total number of registration attempts",
	}, []string{"status"})

	// TokenRefreshTotal counts token rotations by outcome.
	TokenRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sso_service_token_refresh_total",
		Help: "The total number of token refresh operations",
	}, []string{"status"})

	// TicketsIssuedTotal counts issued SSO tickets.
	TicketsIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sso_service_tickets_issued_total",
		Help: "The total number of SSO tickets issued",
	})

	// TicketRedemptionsTotal counts ticket redemptions by outcome.
	TicketRedemptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sso_service_ticket_redemptions_total",
		Help: "The total number of SSO ticket redemption attempts",
	}, []string{"status"})

	// AuthzViewCacheTotal counts authorization view cache lookups.
	AuthzViewCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sso_service_authz_view_cache_total",
		Help: "The total number of authorization view cache lookups",
	}, []string{"result"})

	// AccountLockoutsTotal counts accounts locked after repeated failures.
	AccountLockoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sso_service_account_lockouts_total",
		Help: "The total number of account lockouts",
	})

	// RequestDuration observes HTTP request latency by route and status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sso_service_request_duration_seconds",
		Help:    "The HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method", "status"})
)
