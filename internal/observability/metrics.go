package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	registry *prometheus.Registry

	upstreamRequestsTotal *prometheus.CounterVec
	upstreamDuration      *prometheus.HistogramVec
	outcomesTotal         *prometheus.CounterVec
	healthUp              prometheus.Gauge
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		upstreamRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asrprobe_upstream_requests_total",
				Help: "Total requests sent to the ASR API.",
			},
			[]string{"endpoint", "status"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "asrprobe_upstream_request_duration_seconds",
				Help:    "ASR API request duration in seconds.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"endpoint", "status"},
		),
		outcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asrprobe_conversion_outcomes_total",
				Help: "Conversion outcomes by kind and mode.",
			},
			[]string{"kind", "mode"},
		),
		healthUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "asrprobe_health_up",
				Help: "1 if the last health check found the service reachable.",
			},
		),
	}

	registry.MustRegister(
		m.upstreamRequestsTotal,
		m.upstreamDuration,
		m.outcomesTotal,
		m.healthUp,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveUpstream(endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if endpoint == "" {
		endpoint = "unknown"
	}
	statusLabel := strconv.Itoa(status)
	m.upstreamRequestsTotal.WithLabelValues(endpoint, statusLabel).Inc()
	m.upstreamDuration.WithLabelValues(endpoint, statusLabel).Observe(duration.Seconds())
}

func (m *Metrics) ObserveHealth(reachable bool) {
	if m == nil {
		return
	}
	if reachable {
		m.healthUp.Set(1)
		return
	}
	m.healthUp.Set(0)
}

func (m *Metrics) ObserveOutcome(kind string, simulate bool) {
	if m == nil {
		return
	}
	mode := "real"
	if simulate {
		mode = "simulate"
	}
	m.outcomesTotal.WithLabelValues(kind, mode).Inc()
}

// WriteTextfile writes the metrics in the Prometheus text format, for the
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
