package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.AuthEvent("login", true)
	m.AuthEvent("login", false)
	m.AuthEvent("login", false)
	m.EventPublished("post.created", true)
	m.PostAction("upvote")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.authEvents.WithLabelValues("login", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.authEvents.WithLabelValues("login", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsPublished.WithLabelValues("post.created", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.postActions.WithLabelValues("upvote")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AuthEvent("login", true)
		m.EventPublished("post.created", false)
		m.PostAction("create")
	})
}
