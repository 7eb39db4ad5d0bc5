// Package metrics provides Prometheus-compatible metrics for the bodytmpl
// server, written in the text exposition format (text/plain; version=0.0.4).
//
// Supported metric types:
//   - Counter: monotonically increasing value (renders, requests)
//   - Gauge: value that can go up or down (loaded mocks, goroutines)
//   - Histogram: distribution of observations (render latency)
//
// All metrics are safe for concurrent use.
//
// # Server metrics
//
// NewServerMetrics registers the set the server records:
//
//   - bodytmpl_renders_total{mock, outcome, kind}
//   - bodytmpl_render_duration_seconds{mock}
//   - bodytmpl_requests_total{method, status}
//   - bodytmpl_mocks_loaded
//   - bodytmpl_uptime_seconds, go_goroutines, go_memstats_heap_alloc_bytes
//
// Usage:
//
//	registry := metrics.NewRegistry()
//	m := metrics.NewServerMetrics(registry)
//	m.ObserveRender("greeting", elapsed, "")
//	mux.Handle("GET /__bodytmpl/metrics", registry.Handler())
package metrics
