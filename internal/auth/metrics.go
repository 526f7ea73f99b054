// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for authentication metrics.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeDuplicate          = "duplicate"
	OutcomeValidation         = "validation"
	OutcomeError              = "error"
)

// Session lifecycle events.
const (
	SessionCreated   = "created"
	SessionResolved  = "resolved"
	SessionAnonymous = "anonymous"
	SessionDestroyed = "destroyed"
	SessionSwept     = "swept"
)

// AuthAttempts counts register and login attempts by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var AuthAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "studio_auth_attempts_total",
		Help: "Total number of registration and login attempts",
	},
	[]string{"operation", "outcome"},
)

// SessionEvents counts session lifecycle events.
var SessionEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "studio_sessions_total",
		Help: "Total number of session lifecycle events",
	},
	[]string{"event"},
)

// RegisterMetrics registers auth metrics with reg. Panics on duplicate
// registration, following prometheus convention.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AuthAttempts, SessionEvents)
}

func recordAttempt(operation, outcome string) {
	AuthAttempts.WithLabelValues(operation, outcome).Inc()
}

func recordSessionEvent(event string, n int) {
	SessionEvents.WithLabelValues(event).Add(float64(n))
}
