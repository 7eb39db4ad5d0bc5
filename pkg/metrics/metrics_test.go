package metrics

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	t.Parallel()

	t.Run("without labels", func(t *testing.T) {
		t.Parallel()
		c := NewRegistry().NewCounter("test_counter", "A test counter")
		require.NoError(t, c.Inc())
		require.NoError(t, c.Inc())
		require.NoError(t, c.Add(3))

		samples := c.Collect()
		require.Len(t, samples, 1)
		assert.Equal(t, 5.0, samples[0].Value)
	})

	t.Run("with labels", func(t *testing.T) {
		t.Parallel()
		c := NewRegistry().NewCounter("http_requests", "Total HTTP requests", "method", "status")

		vec, err := c.WithLabels("GET", "200")
		require.NoError(t, err)
		require.NoError(t, vec.Inc())
		vec, _ = c.WithLabels("GET", "200")
		require.NoError(t, vec.Inc())
		vec, _ = c.WithLabels("POST", "201")
		require.NoError(t, vec.Add(5))

		samples := c.Collect()
		require.Len(t, samples, 2)
		assert.Equal(t, map[string]string{"method": "GET", "status": "200"}, samples[0].Labels)
		assert.Equal(t, 2.0, samples[0].Value)
		assert.Equal(t, 5.0, samples[1].Value)
	})

	t.Run("wrong label count", func(t *testing.T) {
		t.Parallel()
		c := NewRegistry().NewCounter("test", "test", "label1", "label2")
		_, err := c.WithLabels("only_one")
		assert.ErrorIs(t, err, ErrLabelCountMismatch)
	})

	t.Run("negative add", func(t *testing.T) {
		t.Parallel()
		c := NewRegistry().NewCounter("test", "test")
		assert.ErrorIs(t, c.Add(-1), ErrNegativeCounterValue)
	})
}

func TestGauge(t *testing.T) {
	t.Parallel()

	g := NewRegistry().NewGauge("queue", "Queue depth", "name")
	vec, err := g.WithLabels("a")
	require.NoError(t, err)
	vec.Set(10)
	vec.Add(-3)

	samples := g.Collect()
	require.Len(t, samples, 1)
	assert.Equal(t, 7.0, samples[0].Value)
}

func TestHistogram(t *testing.T) {
	t.Parallel()

	h := NewRegistry().NewHistogram("latency", "Latency", []float64{1, 0.1}, "route")
	vec, err := h.WithLabels("/a")
	require.NoError(t, err)
	vec.Observe(0.05)
	vec.Observe(0.5)
	vec.Observe(5)

	samples := h.Collect()
	require.Len(t, samples, 5)

	assert.Equal(t, "latency_bucket", samples[0].Name)
	assert.Equal(t, "0.1", samples[0].Labels["le"])
	assert.Equal(t, 1.0, samples[0].Value)
	assert.Equal(t, "1", samples[1].Labels["le"])
	assert.Equal(t, 2.0, samples[1].Value)
	assert.Equal(t, "+Inf", samples[2].Labels["le"])
	assert.Equal(t, 3.0, samples[2].Value)
	assert.Equal(t, "latency_sum", samples[3].Name)
	assert.InDelta(t, 5.55, samples[3].Value, 1e-9)
	assert.Equal(t, "latency_count", samples[4].Name)
	assert.Equal(t, 3.0, samples[4].Value)
	assert.Equal(t, "/a", samples[4].Labels["route"])
}

func TestRegistryDuplicatePanics(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.NewCounter("dup", "first")
	assert.Panics(t, func() { r.NewGauge("dup", "second") })
}

func TestHandlerExposition(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	c := r.NewCounter("renders_total", "Renders\nper mock", "mock")
	vec, err := c.WithLabels(`say "hi"`)
	require.NoError(t, err)
	require.NoError(t, vec.Inc())
	r.NewGauge("unused", "never set")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, "text/plain; version=0.0.4; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "# HELP renders_total Renders\\nper mock\n"+
		"# TYPE renders_total counter\n"+
		`renders_total{mock="say \"hi\""} 1`+"\n", rec.Body.String())
}

func TestServerMetrics(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	m := NewServerMetrics(r)
	m.ObserveRender("greeting", 2*time.Millisecond, "")
	m.ObserveRender("greeting", time.Millisecond, "syntax")
	m.ObserveRequest("GET", 200)
	require.NoError(t, m.MocksLoaded.Set(3))

	var sb strings.Builder
	_, err := r.WriteTo(&sb)
	require.NoError(t, err)
	out := sb.String()

	assert.Contains(t, out, `bodytmpl_renders_total{kind="",mock="greeting",outcome="ok"} 1`)
	assert.Contains(t, out, `bodytmpl_renders_total{kind="syntax",mock="greeting",outcome="error"} 1`)
	assert.Contains(t, out, `bodytmpl_render_duration_seconds_count{mock="greeting"} 2`)
	assert.Contains(t, out, `bodytmpl_requests_total{method="GET",status="200"} 1`)
	assert.Contains(t, out, "bodytmpl_mocks_loaded 3")
	assert.Contains(t, out, "go_goroutines ")
	assert.Contains(t, out, "bodytmpl_uptime_seconds ")
}

func TestConcurrentUpdates(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	c := r.NewCounter("hits", "Hits", "worker")
	h := r.NewHistogram("work", "Work", DefaultBuckets)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vec, _ := c.WithLabels(string(rune('a' + i%4)))
			for range 100 {
				_ = vec.Inc()
				_ = h.Observe(0.001)
			}
		}()
	}
	wg.Wait()

	total := 0.0
	for _, s := range c.Collect() {
		total += s.Value
	}
	assert.Equal(t, 2000.0, total)

	samples := h.Collect()
	assert.Equal(t, 2000.0, samples[len(samples)-1].Value)
}
