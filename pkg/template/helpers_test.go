package template

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fixedUniform always draws the same value.
type fixedUniform float64

func (u fixedUniform) Float64() float64 { return float64(u) }

func fixedSource(v float64) RandSource {
	return func() Uniform { return fixedUniform(v) }
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// testTime is Tuesday 2024-03-05 14:07:09.042 UTC.
var testTime = time.Date(2024, time.March, 5, 14, 7, 9, 42*int(time.Millisecond), time.UTC)

func newTestRequest(t *testing.T, method, target, body string, headers map[string]string) *Request {
	t.Helper()
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	req, err := NewRequest(r)
	require.NoError(t, err)
	return req
}

func getRequest(t *testing.T) *Request {
	t.Helper()
	return newTestRequest(t, http.MethodGet, "/hello", "", nil)
}
