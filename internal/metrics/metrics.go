// Package metrics exposes Prometheus instrumentation for the request
// lifecycle. Counters only — this is a single-user console and the interesting
// signal is how many requests flow through each transition, not latency.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the lifecycle counters. Construct with New and share one
// instance across services.
type Metrics struct {
	// RequestsCreated counts requests entering the pending state.
	RequestsCreated prometheus.Counter

	// Transitions counts resolved requests, labelled by outcome
	// ("approved" or "rejected").
	Transitions *prometheus.CounterVec
}

// New registers the lifecycle counters on reg and returns them.
// Pass prometheus.DefaultRegisterer in production and a fresh
// prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "fleetdesk_requests_created_total",
			Help: "Vehicle-use requests created.",
		}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetdesk_request_transitions_total",
			Help: "Request lifecycle transitions by outcome.",
		}, []string{"outcome"}),
	}
}
