package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/bodytmpl/pkg/template"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRenderInline(t *testing.T) {
	out, err := execute(t, "render",
		"--template", "Hello ${name}, ${req.method} ${req.path}",
		"--var", "name=alice",
		"--url", "http://localhost/orders/7",
	)
	require.NoError(t, err)
	assert.Equal(t, "Hello alice, GET /orders/7", out)
}

func TestRenderRequestData(t *testing.T) {
	out, err := execute(t, "render",
		"-t", `${req.headers["X-User"]} bought ${req.json.qty} x ${req.queries["sku"][0]}`,
		"-X", "post",
		"--url", "http://localhost/buy?sku=A1",
		"-H", "X-User: bob",
		"-H", "Content-Type: application/json",
		"-d", `{"qty": 3}`,
	)
	require.NoError(t, err)
	assert.Equal(t, "bob bought 3 x A1", out)
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "body.json", `{"n": ${n}}`)

	out, err := execute(t, "render", "--file", path, "--var", "n=7")
	require.NoError(t, err)
	assert.Equal(t, `{"n": 7}`, out)
}

func TestRenderErrors(t *testing.T) {
	_, err := execute(t, "render", "-t", "${random(5, 1)}")
	var renderErr *template.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, template.KindRange, renderErr.Kind)

	_, err = execute(t, "render", "-t", "${now}", "--var", "now=1")
	var reserved *template.ReservedNameError
	require.ErrorAs(t, err, &reserved)

	_, err = execute(t, "render", "-t", "x", "--var", "novalue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected name=value")

	_, err = execute(t, "render", "-t", "x", "-H", "no-colon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid header")

	_, err = execute(t, "render", "-t", "x", "--charset", "no-such-charset")
	require.Error(t, err)

	_, err = execute(t, "render")
	require.Error(t, err)

	_, err = execute(t, "render", "-t", "x", "--file", "y")
	require.Error(t, err)
}

const validConfig = `mocks:
  - name: hello
    request: {method: GET, path: /hello}
    response:
      template:
        text: "Hello ${user}"
        vars:
          user: {header: X-User}
  - request: {path: /health}
    response: {template: {text: ok}}
`

const duplicateConfig = `mocks:
  - request: {path: /a}
    response: {template: {text: one}}
  - request: {path: /a}
    response: {template: {text: two}}
`

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bodytmpl.yaml", validConfig)

	out, err := execute(t, "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok (2 mocks)")
}

func TestValidateJSON(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", validConfig)
	bad := writeFile(t, dir, "bad.yaml", duplicateConfig)

	out, err := execute(t, "validate", "-f", good, "--json")
	require.NoError(t, err)
	var result validateResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Valid)
	assert.Equal(t, 2, result.Mocks)

	out, err = execute(t, "validate", "-f", bad, "--json")
	require.Error(t, err)
	result = validateResult{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "mocks[1].request", result.Errors[0].Path)
	assert.Contains(t, result.Errors[0].Message, "duplicate route")
}

func TestValidateMissingFile(t *testing.T) {
	out, err := execute(t, "validate", "-f", filepath.Join(t.TempDir(), "absent.yaml"), "--json")
	require.Error(t, err)
	var result validateResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Error)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bodytmpl "+Version)

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, Version, info["version"])
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	_, err = execute(t, "--log-format", "yaml", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", duplicateConfig)

	_, err := execute(t, "serve", "-f", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate route")
}
