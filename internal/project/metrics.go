// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package project

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for project metrics.
const (
	OutcomeSuccess         = "success"
	OutcomeForbidden       = "forbidden"
	OutcomeValidation      = "validation"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeError           = "error"
)

// Operations counts project and language operations by outcome.
var Operations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "studio_projects_total",
		Help: "Total number of project and language operations",
	},
	[]string{"operation", "outcome"},
)

// RegisterMetrics registers project metrics with reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Operations)
}

func recordOperation(operation, outcome string) {
	Operations.WithLabelValues(operation, outcome).Inc()
}
