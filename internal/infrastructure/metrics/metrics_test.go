package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.NavigationRequested("next", true)
	m.NavigationRequested("next", true)
	m.NavigationRequested("click", false)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Navigations.WithLabelValues("next", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Navigations.WithLabelValues("click", "false")))

	m.CompletionRecomputed(50)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Recomputes))

	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveSessions))

	m.SnapshotWritten("k", nil)
	m.SnapshotWritten("k", errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotWrites.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotWrites.WithLabelValues("error")))

	m.ObserveRequest("GET", "/api/v1/wizard/state", "200", time.Now())
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDurations))
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
