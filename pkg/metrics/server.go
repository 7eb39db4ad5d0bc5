package metrics

import (
	"runtime"
	"strconv"
	"time"
)

// Render outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// ServerMetrics is the metric set recorded by the bodytmpl server.
type ServerMetrics struct {
	// RendersTotal counts template renders.
	// Labels: mock, outcome (ok, error), kind (error kind, empty on success)
	RendersTotal *Counter

	// RenderDuration tracks render latency in seconds.
	// Labels: mock
	RenderDuration *Histogram

	// RequestsTotal counts served requests.
	// Labels: method, status
	RequestsTotal *Counter

	// MocksLoaded is the number of mocks currently routed.
	MocksLoaded *Gauge

	uptime     *Gauge
	goroutines *Gauge
	heapAlloc  *Gauge
	startTime  time.Time
}

// NewServerMetrics registers the server metric set on r. Runtime gauges are
// sampled whenever r is collected.
func NewServerMetrics(r *Registry) *ServerMetrics {
	m := &ServerMetrics{
		RendersTotal: r.NewCounter(
			"bodytmpl_renders_total",
			"Total number of template renders",
			"mock", "outcome", "kind",
		),
		RenderDuration: r.NewHistogram(
			"bodytmpl_render_duration_seconds",
			"Template render duration in seconds",
			DefaultBuckets,
			"mock",
		),
		RequestsTotal: r.NewCounter(
			"bodytmpl_requests_total",
			"Total number of requests served",
			"method", "status",
		),
		MocksLoaded: r.NewGauge(
			"bodytmpl_mocks_loaded",
			"Number of mocks currently routed",
		),
		uptime: r.NewGauge(
			"bodytmpl_uptime_seconds",
			"Seconds since the server started",
		),
		goroutines: r.NewGauge(
			"go_goroutines",
			"Number of goroutines that currently exist",
		),
		heapAlloc: r.NewGauge(
			"go_memstats_heap_alloc_bytes",
			"Number of heap bytes allocated and still in use",
		),
		startTime: time.Now(),
	}
	r.BeforeCollect(m.sampleRuntime)
	return m
}

func (m *ServerMetrics) sampleRuntime() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	_ = m.uptime.Set(time.Since(m.startTime).Seconds())
	_ = m.goroutines.Set(float64(runtime.NumGoroutine()))
	_ = m.heapAlloc.Set(float64(mem.HeapAlloc))
}

// ObserveRender records one render of mock. kind is empty on success.
func (m *ServerMetrics) ObserveRender(mock string, elapsed time.Duration, kind string) {
	outcome := OutcomeOK
	if kind != "" {
		outcome = OutcomeError
	}
	if vec, err := m.RendersTotal.WithLabels(mock, outcome, kind); err == nil {
		_ = vec.Inc()
	}
	if vec, err := m.RenderDuration.WithLabels(mock); err == nil {
		vec.Observe(elapsed.Seconds())
	}
}

// ObserveRequest records one served request.
func (m *ServerMetrics) ObserveRequest(method string, status int) {
	if vec, err := m.RequestsTotal.WithLabels(method, strconv.Itoa(status)); err == nil {
		_ = vec.Inc()
	}
}
