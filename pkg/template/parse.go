package template

import (
	"errors"
	"strings"

	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/parser"
)

// Delimiters of an interpolation. A literal "${" can be produced with ${"${"}.
const (
	openDelim  = "${"
	closeDelim = "}"
)

// segment is either literal text or one interpolated expression.
type segment struct {
	literal string
	expr    string
	isExpr  bool
	line    int
	column  int
}

// Parsed is a template split into literal text and syntax-checked expressions.
type Parsed struct {
	segments []segment
}

// Parse splits text into literal and ${...} segments and syntax-checks every
// expression. Names are not resolved here; that happens on Execute.
func Parse(text string) (*Parsed, error) {
	var (
		segments []segment
		pos      = newPosition(text)
		rest     = 0
	)

	for {
		idx := strings.Index(text[rest:], openDelim)
		if idx < 0 {
			break
		}
		start := rest + idx
		if start > rest {
			segments = append(segments, segment{literal: text[rest:start]})
		}

		exprStart := start + len(openDelim)
		end, err := scanExpression(text, exprStart)
		if err != nil {
			line, col := pos.at(start)
			return nil, &SyntaxError{Line: line, Column: col, Message: err.Error()}
		}

		source := text[exprStart:end]
		line, col := pos.at(exprStart)
		if strings.TrimSpace(source) == "" {
			return nil, &SyntaxError{Line: line, Column: col, Message: "empty expression"}
		}
		if _, err := parser.Parse(source); err != nil {
			return nil, exprSyntaxError(err, line, col)
		}
		segments = append(segments, segment{expr: source, isExpr: true, line: line, column: col})
		rest = end + len(closeDelim)
	}
	if rest < len(text) {
		segments = append(segments, segment{literal: text[rest:]})
	}
	return &Parsed{segments: segments}, nil
}

// scanExpression returns the offset of the '}' closing the expression that
// starts at from. Braces inside string literals and nested map literals do
// not close it.
func scanExpression(text string, from int) (int, error) {
	depth := 0
	for i := from; i < len(text); i++ {
		switch c := text[i]; c {
		case '"', '\'', '`':
			end := skipString(text, i)
			if end < 0 {
				return 0, errors.New("unterminated string literal in expression")
			}
			i = end
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i, nil
			}
			depth--
		}
	}
	return 0, errors.New("unclosed \"${\", missing \"}\"")
}

// skipString returns the offset of the quote closing the literal opened at i, or -1.
func skipString(text string, i int) int {
	quote := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			if quote != '`' {
				j++
			}
		case quote:
			return j
		}
	}
	return -1
}

// exprSyntaxError converts a parser error into a SyntaxError positioned in the
// whole template rather than in the expression.
func exprSyntaxError(err error, line, col int) *SyntaxError {
	var fileErr *file.Error
	if !errors.As(err, &fileErr) {
		return &SyntaxError{Line: line, Column: col, Message: err.Error()}
	}
	if fileErr.Line <= 1 {
		return &SyntaxError{Line: line, Column: col + fileErr.Column, Message: fileErr.Message}
	}
	return &SyntaxError{Line: line + fileErr.Line - 1, Column: fileErr.Column + 1, Message: fileErr.Message}
}

// position maps byte offsets to 1-based line and column numbers.
type position struct {
	lineStarts []int
}

func newPosition(text string) position {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return position{lineStarts: starts}
}

func (p position) at(offset int) (line, col int) {
	line = 1
	for i, start := range p.lineStarts {
		if start > offset {
			break
		}
		line = i + 1
	}
	return line, offset - p.lineStarts[line-1] + 1
}
