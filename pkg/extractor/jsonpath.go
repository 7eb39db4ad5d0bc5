package extractor

import (
	"fmt"

	"github.com/getmockd/bodytmpl/pkg/template"
	"github.com/ohler55/ojg/jp"
)

// JSONPathExtractor extracts values from a JSON request body.
type JSONPathExtractor struct {
	path jp.Expr
	raw  string
}

// JSONPath compiles path, for example "$.user.name" or "$.items[*].id".
func JSONPath(path string) (*JSONPathExtractor, error) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath %q: %w", path, err)
	}
	return &JSONPathExtractor{path: expr, raw: path}, nil
}

// TemplateValue returns the single match, all matches as a slice when there
// are several, or nil when the body is not JSON or nothing matches.
func (e *JSONPathExtractor) TemplateValue(req *template.Request) any {
	data, ok := req.JSON()
	if !ok {
		return nil
	}
	results := e.path.Get(data)
	switch len(results) {
	case 0:
		return nil
	case 1:
		return results[0]
	}
	return results
}

func (e *JSONPathExtractor) String() string { return e.raw }
