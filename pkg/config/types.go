package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// CurrentVersion is the configuration format version written by this release.
const CurrentVersion = "1"

// DefaultListen is the address served when the configuration names none.
const DefaultListen = ":8080"

// Config is a loaded configuration file with its includes resolved.
type Config struct {
	Version string       `json:"version,omitempty"`
	Server  ServerConfig `json:"server"`
	Include []string     `json:"include,omitempty"`
	Mocks   []*Mock      `json:"mocks,omitempty"`
}

// ServerConfig holds listener settings.
type ServerConfig struct {
	Listen string `json:"listen,omitempty"`
}

// ListenAddr returns the configured listen address or DefaultListen.
func (c *Config) ListenAddr() string {
	if c.Server.Listen == "" {
		return DefaultListen
	}
	return c.Server.Listen
}

// Mock pairs a request route with a templated response.
type Mock struct {
	Name     string         `json:"name,omitempty"`
	Request  RequestMatch   `json:"request"`
	Response ResponseConfig `json:"response"`

	// BaseDir is the directory of the file that defined the mock. Template
	// files are resolved against it.
	BaseDir string `json:"-"`
	// Source is the file that defined the mock, for error messages.
	Source string `json:"-"`
}

// DisplayName returns the mock name, or its route when unnamed.
func (m *Mock) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.Request.Pattern()
}

// RequestMatch selects the requests a mock answers.
type RequestMatch struct {
	Method string `json:"method,omitempty"`
	Path   string `json:"path"`
}

// Pattern returns the http.ServeMux pattern for the match. An empty method
// matches every method.
func (r RequestMatch) Pattern() string {
	if r.Method == "" {
		return r.Path
	}
	return strings.ToUpper(r.Method) + " " + r.Path
}

// ResponseConfig describes the response written for a matched request.
type ResponseConfig struct {
	Status      int               `json:"status,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	ContentType string            `json:"contentType,omitempty"`
	Template    TemplateConfig    `json:"template"`
}

// StatusCode returns the configured status or 200.
func (r ResponseConfig) StatusCode() int {
	if r.Status == 0 {
		return http.StatusOK
	}
	return r.Status
}

// TemplateConfig is the body template: inline text or a file, never both.
type TemplateConfig struct {
	Text    *string              `json:"text,omitempty"`
	File    string               `json:"file,omitempty"`
	Charset string               `json:"charset,omitempty"`
	Vars    map[string]VarConfig `json:"vars,omitempty"`
}

// VarConfig configures one template variable. Exactly one source is set.
// A bare scalar in the document is shorthand for {value: scalar}.
type VarConfig struct {
	Value    any    `json:"value,omitempty"`
	Header   string `json:"header,omitempty"`
	Query    string `json:"query,omitempty"`
	Form     string `json:"form,omitempty"`
	Cookie   string `json:"cookie,omitempty"`
	JSONPath string `json:"jsonPath,omitempty"`
	XPath    string `json:"xpath,omitempty"`
	Request  string `json:"request,omitempty"` // "method" or "path"
}

// UnmarshalJSON accepts either a source object or a bare constant.
func (v *VarConfig) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		var value any
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*v = VarConfig{Value: value}
		return nil
	}
	type plain VarConfig
	return json.Unmarshal(trimmed, (*plain)(v))
}

// sources returns the names of the sources that are set.
func (v VarConfig) sources() []string {
	var set []string
	if v.Value != nil {
		set = append(set, "value")
	}
	for _, s := range []struct {
		name, value string
	}{
		{"header", v.Header},
		{"query", v.Query},
		{"form", v.Form},
		{"cookie", v.Cookie},
		{"jsonPath", v.JSONPath},
		{"xpath", v.XPath},
		{"request", v.Request},
	} {
		if s.value != "" {
			set = append(set, s.name)
		}
	}
	return set
}

func (v VarConfig) String() string {
	switch {
	case v.Header != "":
		return "header " + v.Header
	case v.Query != "":
		return "query " + v.Query
	case v.Form != "":
		return "form " + v.Form
	case v.Cookie != "":
		return "cookie " + v.Cookie
	case v.JSONPath != "":
		return "jsonPath " + v.JSONPath
	case v.XPath != "":
		return "xpath " + v.XPath
	case v.Request != "":
		return "request " + v.Request
	}
	return fmt.Sprintf("value %v", v.Value)
}
