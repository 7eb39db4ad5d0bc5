package config

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/bodytmpl/pkg/template"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const greetingYAML = `
version: "1"
server:
  listen: ":9090"
mocks:
  - name: greeting
    request:
      method: get
      path: /hello
    response:
      status: 201
      headers:
        X-Mock: greeting
      contentType: text/plain
      template:
        text: "Hello ${user} from ${city}"
        vars:
          user:
            header: X-User
          city: Berlin
`

func TestParseYAML(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(greetingYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr())
	require.Len(t, cfg.Mocks, 1)
	m := cfg.Mocks[0]
	assert.Equal(t, "greeting", m.DisplayName())
	assert.Equal(t, "GET /hello", m.Request.Pattern())
	assert.Equal(t, 201, m.Response.StatusCode())
	assert.Equal(t, "greeting", m.Response.Headers["X-Mock"])
	require.NotNil(t, m.Response.Template.Text)
	assert.Equal(t, "Hello ${user} from ${city}", *m.Response.Template.Text)
	assert.Equal(t, VarConfig{Header: "X-User"}, m.Response.Template.Vars["user"])
	assert.Equal(t, VarConfig{Value: "Berlin"}, m.Response.Template.Vars["city"])
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	doc := `{
	  "mocks": [{
	    "request": {"path": "/items"},
	    "response": {"template": {"text": "${count}", "vars": {"count": {"value": 3}}}}
	  }]
	}`
	cfg, err := Parse([]byte(doc), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, DefaultListen, cfg.ListenAddr())
	m := cfg.Mocks[0]
	assert.Equal(t, "/items", m.DisplayName())
	assert.Equal(t, http.StatusOK, m.Response.StatusCode())
	assert.Equal(t, VarConfig{Value: float64(3)}, m.Response.Template.Vars["count"])
}

func TestParseSyntaxErrors(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("{not json"), FormatJSON)
	assert.ErrorIs(t, err, ErrInvalidJSON)

	_, err = Parse([]byte("mocks: [unclosed"), FormatYAML)
	assert.ErrorIs(t, err, ErrInvalidYAML)

	_, err = Parse([]byte("  \n"), FormatYAML)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParseSchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		doc      string
		wantPath string
	}{
		{
			name:     "unknown top-level key",
			doc:      "mocks: []\nextra: true\n",
			wantPath: "",
		},
		{
			name: "missing path",
			doc: `mocks:
  - request: {method: GET}
    response: {template: {text: hi}}`,
			wantPath: "mocks[0].request",
		},
		{
			name: "status out of range",
			doc: `mocks:
  - request: {path: /a}
    response: {status: 700, template: {text: hi}}`,
			wantPath: "mocks[0].response.status",
		},
		{
			name: "unknown variable source",
			doc: `mocks:
  - request: {path: /a}
    response:
      template:
        text: hi
        vars:
          user: {env: USER}`,
			wantPath: "mocks[0].response.template.vars.user",
		},
		{
			name: "unknown request attribute",
			doc: `mocks:
  - request: {path: /a}
    response:
      template:
        text: hi
        vars:
          who: {request: host}`,
			wantPath: "mocks[0].response.template.vars.who",
		},
		{
			name:     "wrong version",
			doc:      "version: \"2\"\nmocks: []\n",
			wantPath: "version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.doc), FormatYAML)
			var errs ValidationErrors
			require.ErrorAs(t, err, &errs)
			require.NotEmpty(t, errs)

			paths := make([]string, 0, len(errs))
			for _, e := range errs {
				paths = append(paths, e.Path)
			}
			assert.Contains(t, paths, tt.wantPath)
		})
	}
}

func TestValidateSemantics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		doc      string
		wantPath string
		message  string
	}{
		{
			name: "reserved variable name",
			doc: `mocks:
  - request: {path: /a}
    response:
      template:
        text: hi
        vars:
          now: {value: 1}`,
			wantPath: "mocks[0].response.template.vars.now",
			message:  "reserved name",
		},
		{
			name: "text and file",
			doc: `mocks:
  - request: {path: /a}
    response: {template: {text: hi, file: body.txt}}`,
			wantPath: "mocks[0].response.template",
			message:  "mutually exclusive",
		},
		{
			name: "neither text nor file",
			doc: `mocks:
  - request: {path: /a}
    response: {template: {charset: utf-8}}`,
			wantPath: "mocks[0].response.template",
			message:  "one of text or file is required",
		},
		{
			name: "duplicate route",
			doc: `mocks:
  - request: {method: GET, path: /a}
    response: {template: {text: one}}
  - request: {method: get, path: /a}
    response: {template: {text: two}}`,
			wantPath: "mocks[1].request",
			message:  "duplicate route",
		},
		{
			name: "unknown charset",
			doc: `mocks:
  - request: {path: /a}
    response: {template: {text: hi, charset: klingon}}`,
			wantPath: "mocks[0].response.template.charset",
			message:  "klingon",
		},
		{
			name: "invalid json path",
			doc: `mocks:
  - request: {path: /a}
    response:
      template:
        text: hi
        vars:
          id: {jsonPath: "$.a["}`,
			wantPath: "mocks[0].response.template.vars.id",
		},
		{
			name: "unsafe file",
			doc: `mocks:
  - request: {path: /a}
    response: {template: {file: ../../etc/passwd}}`,
			wantPath: "mocks[0].response.template.file",
			message:  "unsafe template file path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.doc), FormatYAML)
			var errs ValidationErrors
			require.ErrorAs(t, err, &errs)

			var found *ValidationError
			for i := range errs {
				if errs[i].Path == tt.wantPath {
					found = &errs[i]
				}
			}
			require.NotNil(t, found, "no error at %s in %v", tt.wantPath, errs)
			assert.Contains(t, found.Message, tt.message)
		})
	}
}

func TestLoadWithIncludes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "bodytmpl.yaml", `
include:
  - mocks/**/*.yaml
  - extra/*.json
mocks:
  - request: {path: /root}
    response: {template: {file: bodies/root.txt}}
`)
	writeFile(t, dir, "mocks/users/list.yaml", `
- request: {path: /users}
  response: {template: {text: "[]"}}
- request: {method: POST, path: /users}
  response: {template: {file: created.json}}
`)
	writeFile(t, dir, "mocks/orders.yaml", `
mocks:
  - request: {path: /orders}
    response: {template: {text: "${random(10)}"}}
`)
	writeFile(t, dir, "extra/health.json", `[{"request": {"path": "/health"}, "response": {"template": {"text": "ok"}}}]`)

	cfg, err := Load(path)
	require.NoError(t, err)

	patterns := make([]string, 0, len(cfg.Mocks))
	for _, m := range cfg.Mocks {
		patterns = append(patterns, m.Request.Pattern())
	}
	assert.Equal(t, []string{"/root", "/orders", "/users", "POST /users", "/health"}, patterns)

	assert.Equal(t, dir, cfg.Mocks[0].BaseDir)
	assert.Equal(t, path, cfg.Mocks[0].Source)
	assert.Equal(t, filepath.Join(dir, "mocks", "users"), cfg.Mocks[3].BaseDir)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = Load(dir)
	assert.ErrorContains(t, err, "directory")

	empty := writeFile(t, dir, "empty.yaml", "")
	_, err = Load(empty)
	assert.ErrorIs(t, err, ErrEmptyFile)

	bad := writeFile(t, dir, "bad/main.yaml", "include: [inc/*.yaml]\nmocks: []\n")
	writeFile(t, dir, "bad/inc/nested.yaml", "include: [more/*.yaml]\nmocks: []\n")
	_, err = Load(bad)
	assert.ErrorContains(t, err, "included files may only define mocks")

	dup := writeFile(t, dir, "dup/main.yaml", `
include: [inc/*.yaml]
mocks:
  - request: {path: /a}
    response: {template: {text: one}}
`)
	writeFile(t, dir, "dup/inc/a.yaml", `
- request: {path: /a}
  response: {template: {text: two}}
`)
	_, err = Load(dup)
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.Error(), "duplicate route")
}

func TestLoadIncludeWithoutMatches(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "main.json", `{"include": ["nothing/**/*.yaml"], "mocks": []}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Mocks)
}

func TestMockResource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "bodies/user.json", `{"user": "${user}", "id": ${id}}`)
	path := writeFile(t, dir, "main.yaml", `
mocks:
  - request: {method: POST, path: /users}
    response:
      template:
        file: bodies/user.json
        vars:
          user: {header: X-User}
          id: {jsonPath: "$.id"}
  - request: {path: /inline}
    response:
      contentType: text/csv
      template:
        text: "${greeting},${req.method},${where}"
        vars:
          greeting: hi
          where: {request: path}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	fileRes, err := cfg.Mocks[0].Resource()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "user"}, fileRes.Variables())

	r, err := http.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"id": 42}`))
	require.NoError(t, err)
	r.Header.Set("X-User", "alice")
	r.Header.Set("Content-Type", "application/json")
	req, err := template.NewRequest(r)
	require.NoError(t, err)

	out, err := fileRes.Render(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user": "alice", "id": 42}`, string(out))
	assert.Equal(t, "application/json", fileRes.ContentType(req))

	inline, err := cfg.Mocks[1].Resource()
	require.NoError(t, err)
	out, err = inline.Render(req)
	require.NoError(t, err)
	assert.Equal(t, "hi,POST,/users", string(out))
	assert.Equal(t, "text/csv", inline.ContentType(req))
}

func TestMockResourceMissingFile(t *testing.T) {
	t.Parallel()

	text := ""
	m := &Mock{
		Request:  RequestMatch{Path: "/a"},
		Response: ResponseConfig{Template: TemplateConfig{File: "missing.txt"}},
		BaseDir:  t.TempDir(),
	}
	res, err := m.Resource()
	require.NoError(t, err)
	_, err = res.Render(&template.Request{Method: http.MethodGet})
	assert.Equal(t, template.KindResource, template.KindOf(err))

	m.Response.Template = TemplateConfig{Text: &text, Vars: map[string]VarConfig{"req": {Value: 1}}}
	_, err = m.Resource()
	var reserved *template.ReservedNameError
	assert.True(t, errors.As(err, &reserved))
}

func TestPointerToPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", pointerToPath(""))
	assert.Equal(t, "", pointerToPath("/"))
	assert.Equal(t, "mocks[0].request", pointerToPath("/mocks/0/request"))
	assert.Equal(t, "mocks[2].response.headers.a/b", pointerToPath("/mocks/2/response/headers/a~1b"))
}

func TestSchemaIsValidJSON(t *testing.T) {
	t.Parallel()

	_, err := loadSchema()
	require.NoError(t, err)
	assert.Contains(t, string(Schema()), `"$defs"`)
}
