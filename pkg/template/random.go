package template

import (
	"fmt"
	"math"
)

// randomShape is the call shape recognised from a random(...) argument list.
type randomShape int

const (
	shapeUnit   randomShape = iota // random() or random(<non-number>)
	shapeBound                     // random(n)
	shapeBetween                   // random(a, b)
)

func (s randomShape) String() string {
	switch s {
	case shapeBound:
		return "random(n)"
	case shapeBetween:
		return "random(a, b)"
	}
	return "random()"
}

// randomCall is the resolved form of a random(...) invocation: draw from
// [start, start+length) and optionally render through format.
type randomCall struct {
	shape  randomShape
	start  int64
	length int64
	format *decimalPattern
}

// randomArg is one argument classified as a number, text or neither.
type randomArg struct {
	present bool
	numeric bool
	number  int64
	text    string
	textual bool
}

func classifyRandomArg(args []any, i int) randomArg {
	if i < 0 || i >= len(args) {
		return randomArg{}
	}
	arg := randomArg{present: true}
	switch v := args[i].(type) {
	case int:
		arg.numeric, arg.number = true, int64(v)
	case int8:
		arg.numeric, arg.number = true, int64(v)
	case int16:
		arg.numeric, arg.number = true, int64(v)
	case int32:
		arg.numeric, arg.number = true, int64(v)
	case int64:
		arg.numeric, arg.number = true, v
	case uint:
		arg.numeric, arg.number = true, saturateUint(uint64(v))
	case uint8:
		arg.numeric, arg.number = true, int64(v)
	case uint16:
		arg.numeric, arg.number = true, int64(v)
	case uint32:
		arg.numeric, arg.number = true, int64(v)
	case uint64:
		arg.numeric, arg.number = true, saturateUint(v)
	case float32:
		arg.numeric, arg.number = true, truncateFloat(float64(v))
	case float64:
		arg.numeric, arg.number = true, truncateFloat(v)
	case string:
		arg.textual, arg.text = true, v
	}
	return arg
}

// saturateUint converts v, clamping values above MaxInt64.
func saturateUint(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// truncateFloat truncates v toward zero, saturating at the int64 limits.
// NaN is 0.
func truncateFloat(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return int64(v)
}

// resolveRandomCall applies the argument rules in order:
//  1. start is the first argument only when the first two are both numbers, else 0;
//  2. length is second-first when both are numbers, the first when only it is
//     a number, else 1;
//  3. a textual last argument is the display pattern;
//  4. a non-positive length is a RangeError.
//
// random(n, "fmt") therefore draws from [0, n).
func resolveRandomCall(args []any) (*randomCall, error) {
	first := classifyRandomArg(args, 0)
	second := classifyRandomArg(args, 1)

	call := &randomCall{shape: shapeUnit, length: 1}
	switch {
	case first.numeric && second.numeric:
		call.shape = shapeBetween
		call.start = first.number
		if second.number <= first.number {
			return nil, &RangeError{Start: first.number, End: second.number}
		}
		call.length = second.number - first.number
		if call.length <= 0 {
			call.length = math.MaxInt64
		}
	case first.numeric:
		call.shape = shapeBound
		call.length = first.number
		if call.length <= 0 {
			return nil, &RangeError{Start: 0, End: first.number}
		}
	}

	if last := classifyRandomArg(args, len(args)-1); last.textual {
		pattern, err := parseDecimalPattern(last.text)
		if err != nil {
			return nil, &ArgumentError{Func: NameRandom, Message: err.Error()}
		}
		call.format = pattern
	}
	return call, nil
}

// draw returns the number or, when a pattern was given, its formatted text.
func (c *randomCall) draw(u Uniform) any {
	v := float64(c.start) + u.Float64()*float64(c.length)
	if c.format != nil {
		return c.format.format(v)
	}
	return v
}

func (c *randomCall) String() string {
	return fmt.Sprintf("%s [%d, %d)", c.shape, c.start, c.start+c.length)
}

// Random returns a number drawn uniformly from the range described by args,
// or its text rendered through a trailing display pattern:
//
//	random()            [0, 1)
//	random(n)           [0, n)
//	random(a, b)        [a, b)
//	random(a, b, "0.00")
//	random(n, "0.00")   [0, n)
//	random("0.00")      [0, 1)
//
// It is bound to the name random in every namespace.
func (b *Builtins) Random(args ...any) (any, error) {
	call, err := resolveRandomCall(args)
	if err != nil {
		return nil, err
	}
	return call.draw(b.uniform()), nil
}
