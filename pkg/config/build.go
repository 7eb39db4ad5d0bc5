package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/getmockd/bodytmpl/pkg/extractor"
	"github.com/getmockd/bodytmpl/pkg/resource"
	"github.com/getmockd/bodytmpl/pkg/template"
)

// Variable builds the template variable for the configured source.
func (v VarConfig) Variable() (template.Variable, error) {
	switch {
	case v.Header != "":
		return extractor.Header(v.Header), nil
	case v.Query != "":
		return extractor.Query(v.Query), nil
	case v.Form != "":
		return extractor.Form(v.Form), nil
	case v.Cookie != "":
		return extractor.Cookie(v.Cookie), nil
	case v.JSONPath != "":
		e, err := extractor.JSONPath(v.JSONPath)
		if err != nil {
			return nil, err
		}
		return e, nil
	case v.XPath != "":
		e, err := extractor.XPath(v.XPath)
		if err != nil {
			return nil, err
		}
		return e, nil
	case v.Request != "":
		switch v.Request {
		case "method":
			return extractor.Method(), nil
		case "path":
			return extractor.Path(), nil
		}
		return nil, fmt.Errorf("unknown request attribute %q", v.Request)
	}
	return extractor.Value(v.Value), nil
}

// Variables builds every configured variable.
func (t TemplateConfig) Variables() (map[string]template.Variable, error) {
	vars := make(map[string]template.Variable, len(t.Vars))
	for _, name := range slices.Sorted(maps.Keys(t.Vars)) {
		v, err := t.Vars[name].Variable()
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		vars[name] = v
	}
	return vars, nil
}

// Content returns the content resource serving the mock's body template.
func (m *Mock) Content() (template.ContentResource, error) {
	t := m.Response.Template
	if t.Text != nil {
		return resource.NewText(*t.Text, t.Charset, m.Response.ContentType), nil
	}
	f, err := resource.NewFile(m.BaseDir, t.File, t.Charset, m.Response.ContentType)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Resource builds the renderer for the mock's response body.
func (m *Mock) Resource(opts ...template.Option) (*template.Resource, error) {
	content, err := m.Content()
	if err != nil {
		return nil, fmt.Errorf("mock %s: %w", m.DisplayName(), err)
	}
	vars, err := m.Response.Template.Variables()
	if err != nil {
		return nil, fmt.Errorf("mock %s: %w", m.DisplayName(), err)
	}
	r, err := template.NewResource(content, vars, opts...)
	if err != nil {
		return nil, fmt.Errorf("mock %s: %w", m.DisplayName(), err)
	}
	return r, nil
}
