package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/getmockd/bodytmpl/pkg/template"
	"github.com/getmockd/bodytmpl/pkg/util"
)

// ValidationError is a single configuration problem.
type ValidationError struct {
	Path    string `json:"path"` // e.g. "mocks[0].response.template.vars.user"
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationErrors collects every problem found in a document.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return "invalid configuration:\n  " + strings.Join(msgs, "\n  ")
}

// Add appends a problem at path.
func (e *ValidationErrors) Add(path, message string) {
	*e = append(*e, ValidationError{Path: path, Message: message})
}

// Err returns e as an error, or nil when it is empty.
func (e ValidationErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Validate checks the semantic rules the schema cannot express.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Version != "" && c.Version != CurrentVersion {
		errs.Add("version", fmt.Sprintf("unsupported version %q, expected %q", c.Version, CurrentVersion))
	}

	routes := make(map[string]string)
	for i, m := range c.Mocks {
		path := fmt.Sprintf("mocks[%d]", i)
		if m == nil {
			errs.Add(path, "mock is empty")
			continue
		}
		validateMock(m, path, routes, &errs)
	}
	return errs.Err()
}

func validateMock(m *Mock, path string, routes map[string]string, errs *ValidationErrors) {
	req := m.Request
	switch {
	case req.Path == "":
		errs.Add(path+".request.path", "required")
	case !strings.HasPrefix(req.Path, "/"):
		errs.Add(path+".request.path", fmt.Sprintf("must start with \"/\", got %q", req.Path))
	case strings.ContainsAny(req.Path, " \t\r\n"):
		errs.Add(path+".request.path", "must not contain whitespace")
	default:
		pattern := req.Pattern()
		if other, ok := routes[pattern]; ok {
			errs.Add(path+".request", fmt.Sprintf("duplicate route %q, already defined by %s", pattern, other))
		} else {
			routes[pattern] = path
		}
	}

	if s := m.Response.Status; s != 0 && (s < 100 || s > 599) {
		errs.Add(path+".response.status", fmt.Sprintf("invalid status %d, must be 100-599", s))
	}

	validateTemplate(m.Response.Template, path+".response.template", errs)
}

func validateTemplate(t TemplateConfig, path string, errs *ValidationErrors) {
	switch {
	case t.Text == nil && t.File == "":
		errs.Add(path, "one of text or file is required")
	case t.Text != nil && t.File != "":
		errs.Add(path, "text and file are mutually exclusive")
	case t.File != "":
		if _, ok := util.SafeFilePathAllowAbsolute(t.File); !ok {
			errs.Add(path+".file", fmt.Sprintf("unsafe template file path: %s", t.File))
		}
	}

	if err := template.CheckCharset(t.Charset); err != nil {
		errs.Add(path+".charset", err.Error())
	}

	for _, name := range slices.Sorted(maps.Keys(t.Vars)) {
		varPath := path + ".vars." + name
		if err := template.CheckVariableName(name); err != nil {
			errs.Add(varPath, err.Error())
			continue
		}
		v := t.Vars[name]
		switch sources := v.sources(); len(sources) {
		case 0:
			errs.Add(varPath, "one of value, header, query, form, cookie, jsonPath or xpath is required")
		case 1:
			if _, err := v.Variable(); err != nil {
				errs.Add(varPath, err.Error())
			}
		default:
			errs.Add(varPath, fmt.Sprintf("only one source allowed, got %s", strings.Join(sources, ", ")))
		}
	}
}
