package extractor

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/getmockd/bodytmpl/pkg/template"
)

// XPathExtractor extracts text from an XML request body.
type XPathExtractor struct {
	path etree.Path
	attr string
	raw  string
}

// XPath compiles an etree path. A trailing /@name selects an attribute of
// each matching element instead of its text.
func XPath(path string) (*XPathExtractor, error) {
	elemPath, attr := path, ""
	if i := strings.LastIndex(path, "/@"); i >= 0 {
		elemPath, attr = path[:i], path[i+2:]
		if attr == "" {
			return nil, fmt.Errorf("invalid XPath %q: empty attribute name", path)
		}
	}
	compiled, err := etree.CompilePath(elemPath)
	if err != nil {
		return nil, fmt.Errorf("invalid XPath %q: %w", path, err)
	}
	return &XPathExtractor{path: compiled, attr: attr, raw: path}, nil
}

// TemplateValue returns the trimmed text (or attribute value) of the matching
// elements: a string for one match, a []string in document order for several,
// nil for no match or a body that is not XML.
func (e *XPathExtractor) TemplateValue(req *template.Request) any {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(req.Body); err != nil {
		return nil
	}

	var values []string
	for _, elem := range doc.FindElementsPath(e.path) {
		if e.attr != "" {
			if attr := elem.SelectAttr(e.attr); attr != nil {
				values = append(values, attr.Value)
			}
			continue
		}
		values = append(values, strings.TrimSpace(elem.Text()))
	}
	return oneOrMany(values)
}

func (e *XPathExtractor) String() string { return e.raw }
