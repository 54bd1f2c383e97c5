// Package metrics defines all custom Prometheus metrics for the devlog API.
// It is the single source of truth for metric names, labels, and help
// strings; the promauto constructors register everything with the default
// registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "devlog"

// RegistrationsTotal counts completed account registrations (the initial
// create, before TOTP enrollment is confirmed).
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered.",
	},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "password_ok" (phase one passed), "success" (TOTP verified,
//     session issued) or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TOTPVerificationsTotal counts TOTP code checks.
// Labels:
//   - context: "enrollment", "login" or "password_change"
//   - result:  "ok" or "rejected"
var TOTPVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "totp_verifications_total",
		Help:      "Total number of TOTP code verifications, by context and result.",
	},
	[]string{"context", "result"},
)

// TokensRevokedTotal counts session tokens added to the revocation registry
// (logouts and account deletions).
var TokensRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of session tokens revoked before expiry.",
	},
)
