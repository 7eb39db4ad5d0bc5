package template

import "fmt"

// Now formats the current time with a date pattern such as "yyyy-MM-dd HH:mm:ss".
// It is bound to the name now in every namespace.
func (b *Builtins) Now(args ...any) (any, error) {
	switch {
	case len(args) == 0:
		return nil, &ArgumentError{Func: NameNow, Message: "date format is required"}
	case len(args) > 1:
		return nil, &ArgumentError{Func: NameNow, Message: fmt.Sprintf("expected 1 argument, got %d", len(args))}
	}

	pattern, ok := args[0].(string)
	if !ok {
		return nil, &ArgumentError{Func: NameNow, Message: fmt.Sprintf("date format must be text, got %T", args[0])}
	}
	layout, err := parseDatePattern(pattern)
	if err != nil {
		return nil, &ArgumentError{Func: NameNow, Message: err.Error()}
	}
	return layout.format(b.now()), nil
}
