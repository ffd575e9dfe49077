// Package metrics defines and registers all custom Prometheus metrics for
// the Artisan Avenue auth service. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "artisan_auth"

// RegistrationsTotal counts successful registrations.
// Label:
//   - role: "customer" or "vendor"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// CodeVerificationsTotal counts one-time-code checks.
// Labels:
//   - flow: "verify_email" or "reset"
//   - result: "ok", "incorrect", "expired", or "exhausted"
var CodeVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "code_verifications_total",
		Help:      "Total number of one-time-code verification attempts, by flow and result.",
	},
	[]string{"flow", "result"},
)

// MailSentTotal counts outbound mail attempts.
// Labels:
//   - kind: "verification", "reset", or "welcome"
//   - result: "ok", "error", or "sandbox"
var MailSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_sent_total",
		Help:      "Total number of outbound mail delivery attempts, by kind and result.",
	},
	[]string{"kind", "result"},
)

// RateLimitedTotal counts requests rejected by the per-IP limiter.
// Label:
//   - path: the request path that was throttled
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the per-IP rate limiter.",
	},
	[]string{"path"},
)
