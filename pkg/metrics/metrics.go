// Package metrics holds the Prometheus metrics of a map session.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	Transitions   *prometheus.CounterVec
	PlaybackTicks prometheus.Counter
	Year          prometheus.Gauge
	Clients       prometheus.Gauge
	LoadDuration  prometheus.Histogram
}

// New creates the metrics and registers them with reg. A nil reg leaves them
// unregistered, which is what tests and the desktop viewer want.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "co2_atlas_transitions_total",
			Help: "State transitions applied, by event",
		}, []string{"event"}),
		PlaybackTicks: f.NewCounter(prometheus.CounterOpts{
			Name: "co2_atlas_playback_ticks_total",
			Help: "Playback timer ticks dispatched",
		}),
		Year: f.NewGauge(prometheus.GaugeOpts{
			Name: "co2_atlas_year",
			Help: "Currently displayed year",
		}),
		Clients: f.NewGauge(prometheus.GaugeOpts{
			Name: "co2_atlas_ws_clients",
			Help: "Connected websocket clients",
		}),
		LoadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "co2_atlas_load_duration_seconds",
			Help:    "Time to fetch and parse both datasets",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
}

// ObserveTransition records one applied event and the resulting year.
func (m *Metrics) ObserveTransition(event string, year int) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(event).Inc()
	m.Year.Set(float64(year))
}

func (m *Metrics) IncrementPlaybackTicks() {
	if m == nil {
		return
	}
	m.PlaybackTicks.Inc()
}
