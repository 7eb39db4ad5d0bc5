package template

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/getmockd/bodytmpl/pkg/logging"
)

// Content is raw template text and the charset it is declared in.
type Content struct {
	Data    []byte
	Charset string
}

// ContentResource supplies template text for a request.
type ContentResource interface {
	// ReadFor returns the raw template text for req.
	ReadFor(req *Request) (Content, error)
	// ContentType returns the media type of the rendered body.
	ContentType(req *Request) string
}

// Option configures a Resource.
type Option func(*Resource)

// WithLogger sets the logger used for parse diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resource) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock replaces the clock read by now.
func WithClock(clock Clock) Option {
	return func(r *Resource) { r.builtins.Clock = clock }
}

// WithRandSource replaces the uniform source factory used by random.
func WithRandSource(source RandSource) Option {
	return func(r *Resource) { r.builtins.Rand = source }
}

// Resource renders a template content resource per request. It is built once
// from configuration and is safe for concurrent use.
type Resource struct {
	content  ContentResource
	bindings *Bindings
	builtins Builtins
	engine   *Engine
	logger   *slog.Logger
}

// NewResource validates vars and returns a Resource rendering content.
// A variable named req, now or random fails with a ReservedNameError.
func NewResource(content ContentResource, vars map[string]Variable, opts ...Option) (*Resource, error) {
	if content == nil {
		return nil, fmt.Errorf("template content resource is required")
	}
	bindings, err := NewBindings(vars)
	if err != nil {
		return nil, err
	}
	r := &Resource{
		content:  content,
		bindings: bindings,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.engine = NewEngine(r.logger)
	return r, nil
}

// Render produces the body for req. Every failure is returned as a
// *RenderError; a panic while rendering is recovered into one as well.
func (r *Resource) Render(req *Request) (body []byte, err error) {
	if req == nil {
		return nil, asRenderError(ErrNilRequest)
	}
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("template render panicked", "panic", p, "stack", string(debug.Stack()))
			body, err = nil, &RenderError{Kind: KindEvaluation, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	content, err := r.content.ReadFor(req)
	if err != nil {
		return nil, asRenderError(&ResourceError{Err: err})
	}
	body, err = r.engine.render(content.Data, content.Charset, func() Namespace {
		return r.bindings.Namespace(req, &r.builtins)
	})
	if err != nil {
		return nil, asRenderError(err)
	}
	return body, nil
}

// ContentType returns the content resource's media type unchanged.
func (r *Resource) ContentType(req *Request) string {
	return r.content.ContentType(req)
}

// Variables returns the configured variable names.
func (r *Resource) Variables() []string {
	return r.bindings.Names()
}
