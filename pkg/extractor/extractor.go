package extractor

import (
	"github.com/getmockd/bodytmpl/pkg/template"
)

// Value returns a variable that always produces v.
func Value(v any) template.Variable {
	return template.VariableFunc(func(*template.Request) any { return v })
}

// Header extracts the first value of a request header.
func Header(name string) template.Variable {
	return template.VariableFunc(func(req *template.Request) any {
		if values := req.Header.Values(name); len(values) > 0 {
			return values[0]
		}
		return nil
	})
}

// Query extracts a query parameter. Repeated parameters produce a slice.
func Query(name string) template.Variable {
	return template.VariableFunc(func(req *template.Request) any {
		return oneOrMany(req.Query[name])
	})
}

// Form extracts a URL-encoded form field from the body.
func Form(name string) template.Variable {
	return template.VariableFunc(func(req *template.Request) any {
		return oneOrMany(req.Form()[name])
	})
}

// Cookie extracts a cookie value.
func Cookie(name string) template.Variable {
	return template.VariableFunc(func(req *template.Request) any {
		if v, ok := req.Cookie(name); ok {
			return v
		}
		return nil
	})
}

// Method extracts the request method.
func Method() template.Variable {
	return template.VariableFunc(func(req *template.Request) any { return req.Method })
}

// Path extracts the request path.
func Path() template.Variable {
	return template.VariableFunc(func(req *template.Request) any { return req.Path })
}

func oneOrMany(values []string) any {
	switch len(values) {
	case 0:
		return nil
	case 1:
		return values[0]
	}
	return append([]string(nil), values...)
}
