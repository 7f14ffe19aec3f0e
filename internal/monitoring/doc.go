/*
Package monitoring provides Prometheus-based metrics collection for the
TamaOS service: HTTP request latency and throughput, device tick activity,
registry tool executions, WebSocket connections, and process uptime.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))

	metrics.RecordTick(snapshot.Age)

	timer := monitoring.NewTimer(metrics, "state", "state.save")
	// ... perform operation ...
	timer.Stop("success")

The collector registry is per-instance; expose it with promhttp:

	promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})
*/
package monitoring
