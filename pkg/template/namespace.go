package template

import (
	"maps"
	"slices"
)

// Reserved names bound by the engine on every render.
const (
	NameRequest = "req"
	NameNow     = "now"
	NameRandom  = "random"
)

var reservedNames = []string{NameRequest, NameNow, NameRandom}

// Variable produces a template value from the current request.
// Implementations must not retain or modify the request.
type Variable interface {
	TemplateValue(req *Request) any
}

// VariableFunc adapts a function to the Variable interface.
type VariableFunc func(req *Request) any

// TemplateValue calls f(req).
func (f VariableFunc) TemplateValue(req *Request) any { return f(req) }

// Function is a built-in callable from templates.
type Function func(args ...any) (any, error)

// Namespace maps template names to values and Functions for one render.
type Namespace map[string]any

// CheckVariableName reports whether name may be used for a configured variable.
func CheckVariableName(name string) error {
	if name == "" || slices.Contains(reservedNames, name) {
		return &ReservedNameError{Name: name}
	}
	return nil
}

// Bindings is the validated, immutable set of configured variables.
type Bindings struct {
	vars map[string]Variable
}

// NewBindings validates vars and returns the bindings used to build a
// namespace on every render. A variable named like a reserved name fails here,
// never at render time.
func NewBindings(vars map[string]Variable) (*Bindings, error) {
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		if err := CheckVariableName(name); err != nil {
			return nil, err
		}
	}
	return &Bindings{vars: maps.Clone(vars)}, nil
}

// Names returns the configured variable names in sorted order.
func (b *Bindings) Names() []string {
	if b == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(b.vars))
}

// Namespace evaluates every variable against req and adds the built-ins and
// the request view.
func (b *Bindings) Namespace(req *Request, builtins *Builtins) Namespace {
	size := 3
	if b != nil {
		size += len(b.vars)
	}
	ns := make(Namespace, size)
	if b != nil {
		for name, v := range b.vars {
			ns[name] = v.TemplateValue(req)
		}
	}
	ns[NameNow] = Function(builtins.Now)
	ns[NameRandom] = Function(builtins.Random)
	ns[NameRequest] = req.View()
	return ns
}
