package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTransition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveTransition("set_year", 1990)
	m.ObserveTransition("set_year", 1991)
	m.ObserveTransition("select_country", 1991)
	m.IncrementPlaybackTicks()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("set_year")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("select_country")))
	assert.Equal(t, 1991.0, testutil.ToFloat64(m.Year))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlaybackTicks))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveTransition("pause", 2000)
	m.IncrementPlaybackTicks()
}
