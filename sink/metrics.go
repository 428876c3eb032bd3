package sink

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vidtrack/vidtrack/event"
)

// Metrics keeps Prometheus series over the event stream on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	events         *prometheus.CounterVec
	errors         *prometheus.CounterVec
	seekDistance   prometheus.Histogram
	bufferDuration prometheus.Histogram
	completion     *prometheus.GaugeVec

	mu          sync.Mutex
	bufferStart map[string]int64
}

func NewMetrics(player string) *Metrics {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"player": player}

	m := &Metrics{
		registry: reg,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "vidtrack_events_total",
			Help:        "Events emitted by the tracker, by type.",
			ConstLabels: labels,
		}, []string{"type"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "vidtrack_errors_total",
			Help:        "Playback errors, by error type.",
			ConstLabels: labels,
		}, []string{"error_type"}),
		seekDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "vidtrack_seek_distance_seconds",
			Help:        "Absolute distance covered by a seek.",
			ConstLabels: labels,
			Buckets:     []float64{1, 5, 10, 30, 60, 300, 900},
		}),
		bufferDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "vidtrack_buffer_duration_seconds",
			Help:        "Time between a bufferstart and the next bufferend of a session.",
			ConstLabels: labels,
			Buckets:     []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		completion: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "vidtrack_percent_complete",
			Help:        "Last reported completion percentage, by session.",
			ConstLabels: labels,
		}, []string{"session"}),
		bufferStart: make(map[string]int64),
	}

	reg.MustRegister(m.events, m.errors, m.seekDistance, m.bufferDuration, m.completion)
	return m
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observe is the event.Sink of the collector.
func (m *Metrics) Observe(ev event.VideoEvent) {
	m.events.WithLabelValues(string(ev.Type)).Inc()

	switch ev.Type {
	case event.Error:
		errorType := "unknown"
		if ev.Data.ErrorInfo != nil && ev.Data.ErrorType != "" {
			errorType = ev.Data.ErrorType
		}
		m.errors.WithLabelValues(errorType).Inc()
	case event.Seek:
		if ev.Data.SeekInfo != nil {
			distance := ev.Data.ToTime - ev.Data.FromTime
			if distance < 0 {
				distance = -distance
			}
			m.seekDistance.Observe(distance)
		}
	case event.Progress:
		if ev.Data.ProgressInfo != nil {
			m.completion.WithLabelValues(ev.Data.SessionID).Set(ev.Data.PercentComplete)
		}
	case event.BufferStart:
		m.mu.Lock()
		m.bufferStart[ev.Data.SessionID] = ev.Data.Timestamp
		m.mu.Unlock()
	case event.BufferEnd:
		m.mu.Lock()
		start, ok := m.bufferStart[ev.Data.SessionID]
		delete(m.bufferStart, ev.Data.SessionID)
		m.mu.Unlock()

		if ok {
			m.bufferDuration.Observe(float64(ev.Data.Timestamp-start) / 1000)
		}
	}
}
