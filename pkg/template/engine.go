package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/getmockd/bodytmpl/pkg/logging"
	"github.com/getmockd/bodytmpl/pkg/util"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Engine parses templates and evaluates them against a namespace.
// It holds no per-render state and is safe for concurrent use.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an engine. A nil logger discards output.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Engine{logger: logger}
}

// Render parses text, declared in charset, evaluates it against ns and
// returns the output encoded in the same charset.
func (e *Engine) Render(text []byte, charset string, ns Namespace) ([]byte, error) {
	return e.render(text, charset, func() Namespace { return ns })
}

// render builds the namespace only after the template parsed, so a syntax
// error never runs a variable producer.
func (e *Engine) render(text []byte, charset string, namespace func() Namespace) ([]byte, error) {
	enc, err := lookupEncoding(charset)
	if err != nil {
		return nil, &ResourceError{Err: err}
	}
	src, err := enc.NewDecoder().Bytes(text)
	if err != nil {
		return nil, &ResourceError{Err: fmt.Errorf("decode template as %s: %w", charset, err)}
	}

	parsed, err := Parse(string(src))
	if err != nil {
		e.logger.Warn("failed to parse template",
			"template", util.TruncateBody(string(src), 0),
			"error", err)
		return nil, err
	}

	out, err := parsed.Execute(namespace())
	if err != nil {
		return nil, err
	}

	encoded, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes(out)
	if err != nil {
		return nil, &ResourceError{Err: fmt.Errorf("encode output as %s: %w", charset, err)}
	}
	return encoded, nil
}

// CheckCharset reports whether charset names an encoding templates can be
// declared in.
func CheckCharset(charset string) error {
	_, err := lookupEncoding(charset)
	return err
}

// lookupEncoding resolves an IANA or WHATWG charset label. Empty means UTF-8.
func lookupEncoding(charset string) (encoding.Encoding, error) {
	if strings.TrimSpace(charset) == "" {
		return unicode.UTF8, nil
	}
	if enc, err := ianaindex.IANA.Encoding(charset); err == nil && enc != nil {
		return enc, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	return enc, nil
}

// Execute evaluates every expression against ns and concatenates the output.
func (p *Parsed) Execute(ns Namespace) ([]byte, error) {
	var buf bytes.Buffer
	for _, seg := range p.segments {
		if !seg.isExpr {
			buf.WriteString(seg.literal)
			continue
		}
		value, err := evaluate(seg, ns)
		if err != nil {
			return nil, err
		}
		text, err := formatValue(value)
		if err != nil {
			return nil, &EvaluationError{Expr: seg.expr, Line: seg.line, Column: seg.column, Err: err}
		}
		buf.WriteString(text)
	}
	return buf.Bytes(), nil
}

// evaluate compiles one expression against the namespace and runs it.
// Functions in the namespace are registered with expr.Function and shadow
// expr's builtins of the same name.
func evaluate(seg segment, ns Namespace) (any, error) {
	var (
		env     = make(map[string]any, len(ns))
		opts    []expr.Option
		callErr error
	)
	for name, v := range ns {
		fn, ok := v.(Function)
		if !ok {
			env[name] = v
			continue
		}
		opts = append(opts,
			expr.DisableBuiltin(name),
			expr.Function(name, func(params ...any) (any, error) {
				out, err := fn(params...)
				if err != nil && callErr == nil {
					callErr = err
				}
				return out, err
			}))
	}
	opts = append(opts, expr.Env(env))

	fail := func(err error) error {
		if callErr != nil {
			err = callErr
		}
		return &EvaluationError{Expr: strings.TrimSpace(seg.expr), Line: seg.line, Column: seg.column, Err: err}
	}

	program, err := expr.Compile(seg.expr, opts...)
	if err != nil {
		return nil, fail(err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return nil, fail(err)
	}
	return out, nil
}

// formatValue renders an expression result as output text.
func formatValue(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", fmt.Errorf("expression evaluated to nil")
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), nil
	case time.Time:
		return val.Format(time.RFC3339), nil
	case time.Duration:
		return val.String(), nil
	case fmt.Stringer:
		return val.String(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("render %T: %w", v, err)
		}
		return string(data), nil
	}
	return fmt.Sprint(v), nil
}
