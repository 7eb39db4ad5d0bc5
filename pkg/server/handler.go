package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/getmockd/bodytmpl/pkg/config"
	"github.com/getmockd/bodytmpl/pkg/httputil"
	"github.com/getmockd/bodytmpl/pkg/metrics"
	"github.com/getmockd/bodytmpl/pkg/template"
)

// mockHandler answers one configured mock.
type mockHandler struct {
	name     string
	mock     *config.Mock
	resource *template.Resource
	metrics  *metrics.ServerMetrics
	log      *slog.Logger
}

func (h *mockHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.log.With("request_id", httputil.RequestID(r.Context()))

	req, err := template.NewRequest(r)
	if errors.Is(err, template.ErrBodyTooLarge) {
		log.Warn("request body too large", "limit", template.MaxBodySize)
		httputil.WriteError(w, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
		return
	}
	if err != nil {
		log.Warn("failed to read request body", "error", err)
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "failed to read request body")
		return
	}

	start := time.Now()
	body, err := h.resource.Render(req)
	kind := template.KindOf(err)
	h.metrics.ObserveRender(h.name, time.Since(start), string(kind))
	if err != nil {
		log.Error("template render failed", "kind", kind, "error", err)
		httputil.WriteErrorWithDetails(w, http.StatusInternalServerError, string(kind), err.Error(), errorDetails(err))
		return
	}

	w.Header().Set("Content-Type", h.resource.ContentType(req))
	for name, value := range h.mock.Response.Headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(h.mock.Response.StatusCode())
	if _, err := w.Write(body); err != nil {
		log.Debug("failed to write response body", "error", err)
	}
}

// errorDetails returns the template position of a syntax or evaluation error.
func errorDetails(err error) map[string]any {
	var (
		syntaxErr *template.SyntaxError
		evalErr   *template.EvaluationError
	)
	switch {
	case errors.As(err, &syntaxErr):
		return map[string]any{"line": syntaxErr.Line, "column": syntaxErr.Column}
	case errors.As(err, &evalErr):
		return map[string]any{"line": evalErr.Line, "column": evalErr.Column, "expression": evalErr.Expr}
	}
	return nil
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusRecorder) Unwrap() http.ResponseWriter { return w.ResponseWriter }
