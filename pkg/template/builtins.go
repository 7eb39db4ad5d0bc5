package template

import (
	mathrand "math/rand/v2"
	"time"
)

// Clock returns the current instant. Tests inject a fixed clock.
type Clock func() time.Time

// Uniform yields values uniformly distributed over [0, 1).
type Uniform interface {
	Float64() float64
}

// RandSource creates the uniform source for a single random call.
// A new source is requested on every call so no state is shared between
// concurrent renders.
type RandSource func() Uniform

// Builtins holds the dependencies of the now and random functions.
// The zero value uses the system clock and a freshly seeded PCG per call.
type Builtins struct {
	Clock Clock
	Rand  RandSource
}

func (b *Builtins) now() time.Time {
	if b == nil || b.Clock == nil {
		return time.Now()
	}
	return b.Clock()
}

func (b *Builtins) uniform() Uniform {
	if b == nil || b.Rand == nil {
		return newPCG()
	}
	return b.Rand()
}

func newPCG() Uniform {
	return mathrand.New(mathrand.NewPCG(mathrand.Uint64(), mathrand.Uint64()))
}
