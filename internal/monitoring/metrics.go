package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. Each Metrics instance carries its
// own registry so tests can build and discard collectors freely.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Device metrics
	DeviceTicks prometheus.Counter
	DeviceAge   prometheus.Gauge

	// Service metrics
	ServiceCalls    *prometheus.CounterVec
	ServiceDuration *prometheus.HistogramVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry:  registry,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tamad_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tamad_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		DeviceTicks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tamad_device_ticks_total",
				Help: "Total number of device ticks applied",
			},
		),
		DeviceAge: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tamad_device_age",
				Help: "Current device age in simulated units",
			},
		),

		ServiceCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tamad_service_calls_total",
				Help: "Total number of registry tool executions",
			},
			[]string{"service", "tool", "status"},
		),
		ServiceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tamad_service_call_duration_seconds",
				Help:    "Registry tool execution duration in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"service", "tool"},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tamad_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tamad_ws_messages_total",
				Help: "Total number of WebSocket messages handled",
			},
			[]string{"type"},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tamad_uptime_seconds",
				Help: "Process uptime in seconds",
			},
		),
	}
}

// Registry exposes the underlying prometheus registry for the /metrics
// handler.
func (m *Metrics) Registry() *prometheus.Registry {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
	return m.registry
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTick records a device tick and the resulting age.
func (m *Metrics) RecordTick(age float64) {
	m.DeviceTicks.Inc()
	m.DeviceAge.Set(age)
}

// RecordServiceCall records a registry tool execution.
func (m *Metrics) RecordServiceCall(service, tool, status string, duration time.Duration) {
	m.ServiceCalls.WithLabelValues(service, tool, status).Inc()
	m.ServiceDuration.WithLabelValues(service, tool).Observe(duration.Seconds())
}

// Timer measures operation duration.
type Timer struct {
	start   time.Time
	metrics *Metrics
	service string
	tool    string
}

// NewTimer creates a new timer.
func NewTimer(metrics *Metrics, service, tool string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		service: service,
		tool:    tool,
	}
}

// Stop stops the timer and records the duration.
func (t *Timer) Stop(status string) {
	t.metrics.RecordServiceCall(t.service, t.tool, status, time.Since(t.start))
}
