package template

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a render failure.
type ErrorKind string

const (
	KindReservedName ErrorKind = "reserved_name"
	KindArgument     ErrorKind = "argument"
	KindRange        ErrorKind = "range"
	KindSyntax       ErrorKind = "syntax"
	KindEvaluation   ErrorKind = "evaluation"
	KindResource     ErrorKind = "resource"
)

// ErrNilRequest is returned when a render is attempted without a request.
var ErrNilRequest = errors.New("request is required to render template")

// ReservedNameError reports a configured variable whose name is reserved for
// the engine (req, now, random) or is empty.
type ReservedNameError struct {
	Name string
}

func (e *ReservedNameError) Error() string {
	if e.Name == "" {
		return "template variable name should not be empty"
	}
	return fmt.Sprintf("template variable name %q should not be same with reserved name", e.Name)
}

// ArgumentError reports a built-in function called with missing or invalid arguments.
type ArgumentError struct {
	Func    string
	Message string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Func, e.Message)
}

// RangeError reports a random range whose end is not greater than its start.
type RangeError struct {
	Start int64
	End   int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("random end must be greater than random start, default start is 0 (start=%d, end=%d)", e.Start, e.End)
}

// SyntaxError reports template text that could not be parsed.
// Line and Column are 1-based positions in the template text; zero when unknown.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("template syntax error at %d:%d: %s", e.Line, e.Column, e.Message)
	}
	return "template syntax error: " + e.Message
}

// EvaluationError reports an expression that failed while evaluating against
// the namespace. Err holds the built-in's ArgumentError or RangeError when one
// caused the failure.
type EvaluationError struct {
	Expr   string
	Line   int
	Column int
	Err    error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("template evaluation error at %d:%d in ${%s}: %v", e.Line, e.Column, e.Expr, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// ResourceError wraps a failure reading or decoding the template source.
type ResourceError struct {
	Err error
}

func (e *ResourceError) Error() string {
	return "template resource error: " + e.Err.Error()
}

func (e *ResourceError) Unwrap() error { return e.Err }

// RenderError is the uniform failure returned by Resource.Render.
type RenderError struct {
	Kind ErrorKind
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render template (%s): %v", e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// KindOf reports the kind of a template error, looking through wrapping.
// A built-in's ArgumentError or RangeError wins over the EvaluationError
// carrying it. It returns "" for errors that did not originate in this package.
func KindOf(err error) ErrorKind {
	var renderErr *RenderError
	if errors.As(err, &renderErr) {
		return renderErr.Kind
	}
	var (
		reservedErr *ReservedNameError
		argErr      *ArgumentError
		rangeErr    *RangeError
		syntaxErr   *SyntaxError
		evalErr     *EvaluationError
		resourceErr *ResourceError
	)
	switch {
	case errors.As(err, &reservedErr):
		return KindReservedName
	case errors.As(err, &syntaxErr):
		return KindSyntax
	case errors.As(err, &rangeErr):
		return KindRange
	case errors.As(err, &argErr), errors.Is(err, ErrNilRequest):
		return KindArgument
	case errors.As(err, &evalErr):
		return KindEvaluation
	case errors.As(err, &resourceErr):
		return KindResource
	}
	return ""
}

// asRenderError wraps err into a RenderError unless it already is one.
func asRenderError(err error) error {
	if err == nil {
		return nil
	}
	var renderErr *RenderError
	if errors.As(err, &renderErr) {
		return err
	}
	return &RenderError{Kind: KindOf(err), Err: err}
}
