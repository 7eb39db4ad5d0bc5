package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/getmockd/bodytmpl/pkg/config"
	"github.com/getmockd/bodytmpl/pkg/httputil"
	"github.com/getmockd/bodytmpl/pkg/logging"
	"github.com/getmockd/bodytmpl/pkg/metrics"
	"github.com/getmockd/bodytmpl/pkg/template"
)

// Operational endpoints.
const (
	HealthPath  = "/__bodytmpl/health"
	MetricsPath = "/__bodytmpl/metrics"
)

// DefaultShutdownTimeout bounds how long Serve waits for in-flight requests.
const DefaultShutdownTimeout = 5 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRegistry records metrics on registry instead of a private one.
func WithRegistry(registry *metrics.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithTemplateOptions passes options to every template resource, such as a
// fixed clock in tests.
func WithTemplateOptions(opts ...template.Option) Option {
	return func(s *Server) { s.templateOpts = append(s.templateOpts, opts...) }
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

// Server routes requests to configured mocks.
type Server struct {
	log             *slog.Logger
	registry        *metrics.Registry
	metrics         *metrics.ServerMetrics
	templateOpts    []template.Option
	shutdownTimeout time.Duration

	mux     *http.ServeMux
	handler http.Handler
	routes  []string
}

// New builds the routes for every mock in cfg. Template resources are
// created up front, so a reserved variable name fails here.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		log:             logging.Nop(),
		shutdownTimeout: DefaultShutdownTimeout,
		mux:             http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = metrics.NewRegistry()
	}
	s.metrics = metrics.NewServerMetrics(s.registry)

	if err := s.handle("GET "+HealthPath, http.HandlerFunc(s.handleHealth)); err != nil {
		return nil, err
	}
	if err := s.handle("GET "+MetricsPath, s.registry.Handler()); err != nil {
		return nil, err
	}

	for _, m := range cfg.Mocks {
		name := m.DisplayName()
		log := s.log.With("mock", name)
		res, err := m.Resource(append([]template.Option{template.WithLogger(log)}, s.templateOpts...)...)
		if err != nil {
			return nil, err
		}
		h := &mockHandler{name: name, mock: m, resource: res, metrics: s.metrics, log: log}
		if err := s.handle(m.Request.Pattern(), h); err != nil {
			return nil, fmt.Errorf("mock %s: %w", name, err)
		}
		s.routes = append(s.routes, m.Request.Pattern())
	}
	_ = s.metrics.MocksLoaded.Set(float64(len(s.routes)))

	s.handler = httputil.WithRequestID(s.observe(http.HandlerFunc(s.route)))
	return s, nil
}

// handle registers a pattern, reporting invalid or conflicting patterns as
// errors instead of panics.
func (s *Server) handle(pattern string, h http.Handler) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("invalid route %q: %v", pattern, p)
		}
	}()
	s.mux.Handle(pattern, h)
	return nil
}

// route dispatches to the matching mock or answers 404 in JSON.
func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	if _, pattern := s.mux.Handler(r); pattern == "" {
		httputil.WriteNotFound(w, "not_found", fmt.Sprintf("no mock matches %s %s", r.Method, r.URL.Path))
		return
	}
	s.mux.ServeHTTP(w, r)
}

// observe counts requests by status and logs them at debug level. A panicking
// handler is answered with a JSON 500 when nothing was written yet.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			if p := recover(); p != nil {
				s.log.Error("handler panicked",
					"request_id", httputil.RequestID(r.Context()),
					"path", r.URL.Path,
					"panic", p)
				if rec.status == 0 {
					httputil.WriteInternalError(rec, "internal_error", "internal server error")
				}
			}
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			s.metrics.ObserveRequest(r.Method, rec.status)
			s.log.Debug("request served",
				"request_id", httputil.RequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start))
		}()
		next.ServeHTTP(rec, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"mocks":  len(s.routes),
	})
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Routes returns the registered mock patterns in configuration order.
func (s *Server) Routes() []string { return append([]string(nil), s.routes...) }

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Serve(ln) }()
	s.log.Info("serving mocks", "addr", ln.Addr().String(), "mocks", len(s.routes))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	<-errCh
	s.log.Info("server stopped")
	return nil
}
