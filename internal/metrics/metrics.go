// Package metrics holds the application's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "garden"

// Metrics groups the domain counters. A nil *Metrics records nothing.
type Metrics struct {
	authEvents      *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
	postActions     *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		authEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Authentication attempts by flow and outcome",
		}, []string{"flow", "outcome"}),
		eventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events handed to the message broker",
		}, []string{"routing_key", "outcome"}),
		postActions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "post_actions_total",
			Help:      "Post and comment mutations by action",
		}, []string{"action"}),
	}
}

// AuthEvent counts one login, refresh or password flow attempt.
func (m *Metrics) AuthEvent(flow string, ok bool) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(flow, outcome(ok)).Inc()
}

func (m *Metrics) EventPublished(routingKey string, ok bool) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(routingKey, outcome(ok)).Inc()
}

func (m *Metrics) PostAction(action string) {
	if m == nil {
		return
	}
	m.postActions.WithLabelValues(action).Inc()
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
