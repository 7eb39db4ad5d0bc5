package template

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckVariableName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{NameRequest, NameNow, NameRandom, ""} {
		err := CheckVariableName(name)
		var reserved *ReservedNameError
		require.ErrorAs(t, err, &reserved, "name %q", name)
		assert.Equal(t, name, reserved.Name)
		assert.Equal(t, KindReservedName, KindOf(err))
	}

	for _, name := range []string{"user", "request", "Now", "random2"} {
		assert.NoError(t, CheckVariableName(name), "name %q", name)
	}
}

func TestNewBindingsRejectsReservedNames(t *testing.T) {
	t.Parallel()

	constant := VariableFunc(func(*Request) any { return "x" })
	for _, name := range []string{NameRequest, NameNow, NameRandom} {
		_, err := NewBindings(map[string]Variable{"ok": constant, name: constant})
		var reserved *ReservedNameError
		require.ErrorAs(t, err, &reserved)
		assert.Equal(t, name, reserved.Name)
		assert.Contains(t, err.Error(), "should not be same with reserved name")
	}
}

func TestNamespaceKeys(t *testing.T) {
	t.Parallel()

	b, err := NewBindings(map[string]Variable{
		"user":  VariableFunc(func(*Request) any { return "alice" }),
		"count": VariableFunc(func(*Request) any { return 3 }),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"count", "user"}, b.Names())

	ns := b.Namespace(getRequest(t), &Builtins{})
	assert.Equal(t, []string{"count", "now", "random", "req", "user"}, slices.Sorted(maps.Keys(ns)))
	assert.Equal(t, "alice", ns["user"])
	assert.Equal(t, 3, ns["count"])
	assert.IsType(t, Function(nil), ns[NameNow])
	assert.IsType(t, Function(nil), ns[NameRandom])
	require.IsType(t, &RequestView{}, ns[NameRequest])
	assert.Equal(t, "GET", ns[NameRequest].(*RequestView).Method)
}

func TestNamespaceWithoutVariables(t *testing.T) {
	t.Parallel()

	var b *Bindings
	assert.Nil(t, b.Names())
	ns := b.Namespace(getRequest(t), &Builtins{})
	assert.Len(t, ns, 3)
}

func TestNamespaceIsBuiltPerCall(t *testing.T) {
	t.Parallel()

	calls := 0
	b, err := NewBindings(map[string]Variable{
		"n": VariableFunc(func(*Request) any { calls++; return calls }),
	})
	require.NoError(t, err)

	req := getRequest(t)
	first := b.Namespace(req, &Builtins{})
	second := b.Namespace(req, &Builtins{})
	assert.Equal(t, 1, first["n"])
	assert.Equal(t, 2, second["n"])
	assert.NotSame(t, first[NameRequest], second[NameRequest])
}

func TestRequestViewIsACopy(t *testing.T) {
	t.Parallel()

	req := newTestRequest(t, "GET", "/items?id=7", "", map[string]string{"X-User": "alice"})
	view := req.View()
	view.Headers["X-User"] = "mallory"
	view.Queries["id"][0] = "99"

	assert.Equal(t, "alice", req.Header.Get("X-User"))
	assert.Equal(t, "7", req.Query.Get("id"))
	assert.Equal(t, "alice", req.View().Headers["X-User"])
}
