// Package numeric provides a float type that rejects NaN and Infinity at
// construction, so that every downstream value carries a total order and
// closed, checked arithmetic.
package numeric

import (
	"fmt"
	"math"
	"strconv"
)

// Float wraps a float64 that is guaranteed, by construction, to be finite
// and not NaN.
type Float struct {
	v float64
}

// New builds a Float, failing with a numerical error if x is NaN or
// infinite.
func New(x float64) (Float, error) {
	if math.IsNaN(x) {
		return Float{}, fmt.Errorf("numerical error: value is NaN")
	}
	if math.IsInf(x, 0) {
		return Float{}, fmt.Errorf("numerical error: value is infinite")
	}
	return Float{v: x}, nil
}

// MustNew is New, panicking on error. Reserved for literals the tokenizer
// has already validated as plain decimal text.
func MustNew(x float64) Float {
	f, err := New(x)
	if err != nil {
		panic(err)
	}
	return f
}

// Value returns the underlying float64.
func (f Float) Value() float64 {
	return f.v
}

func (f Float) checked(x float64) (Float, error) {
	return New(x)
}

// Add returns f+g, or a numerical error if the result is not finite.
func (f Float) Add(g Float) (Float, error) { return f.checked(f.v + g.v) }

// Sub returns f-g, or a numerical error if the result is not finite.
func (f Float) Sub(g Float) (Float, error) { return f.checked(f.v - g.v) }

// Mul returns f*g, or a numerical error if the result is not finite.
func (f Float) Mul(g Float) (Float, error) { return f.checked(f.v * g.v) }

// Div returns f/g, or a numerical error if the result is not finite (this
// includes division by zero, which produces +/-Inf).
func (f Float) Div(g Float) (Float, error) { return f.checked(f.v / g.v) }

// Equal reports whether f and g carry the same value. NaN is excluded by
// construction, so this is a well-behaved equivalence relation.
func (f Float) Equal(g Float) bool { return f.v == g.v }

// Less reports whether f < g.
func (f Float) Less(g Float) bool { return f.v < g.v }

// LessOrEqual reports whether f <= g.
func (f Float) LessOrEqual(g Float) bool { return f.v <= g.v }

// Greater reports whether f > g.
func (f Float) Greater(g Float) bool { return f.v > g.v }

// GreaterOrEqual reports whether f >= g.
func (f Float) GreaterOrEqual(g Float) bool { return f.v >= g.v }

// String renders the float the way the source text would have: the
// shortest decimal representation that round-trips.
func (f Float) String() string {
	return strconv.FormatFloat(f.v, 'g', -1, 64)
}
