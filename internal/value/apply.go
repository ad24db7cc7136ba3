package value

import (
	"fmt"

	"github.com/homegraft/hearth/internal/numeric"
)

// Op names a binary operator. The string form doubles as its source
// spelling, which keeps error messages ("op % is not valid on a string")
// readable without a separate lookup table.
type Op string

const (
	OpAdd   Op = "+"
	OpSub   Op = "-"
	OpMul   Op = "*"
	OpDiv   Op = "/"
	OpMod   Op = "%"
	OpAnd   Op = "&&"
	OpOr    Op = "||"
	OpEq    Op = "=="
	OpNe    Op = "!="
	OpLt    Op = "<"
	OpLe    Op = "<="
	OpGt    Op = ">"
	OpGe    Op = ">="
)

// Apply dispatches a binary operator on lhs's kind, per spec.md §4.2:
//
//	Boolean: || && == !=                  -> Boolean
//	Integer: + - * % -> Integer, / -> Float, comparisons -> Boolean
//	Float:   + - * / -> Float, comparisons -> Boolean
//	String:  + -> String (concatenation); nothing else
//	Path:    never; resolve first
//
// Mismatched operand kinds, and any op not listed above for lhs's kind, are
// runtime errors.
func Apply(lhs Value, op Op, rhs Value) (Value, error) {
	if lhs.kind == KindPath || rhs.kind == KindPath {
		return Value{}, fmt.Errorf("runtime error: attempted to apply %s to an unresolved path", op)
	}
	if lhs.kind != rhs.kind {
		return Value{}, fmt.Errorf("runtime error: mismatched operand kinds %s and %s for %s", lhs.kind, rhs.kind, op)
	}

	switch lhs.kind {
	case KindBoolean:
		return applyBoolean(op, lhs.b, rhs.b)
	case KindInteger:
		return applyInteger(op, lhs.i, rhs.i)
	case KindFloat:
		return applyFloat(op, lhs.f, rhs.f)
	case KindString:
		return applyString(op, lhs.s, rhs.s)
	default:
		return Value{}, fmt.Errorf("runtime error: %s has no applicable operators", lhs.kind)
	}
}

func applyBoolean(op Op, a, b bool) (Value, error) {
	switch op {
	case OpOr:
		return Bool(a || b), nil
	case OpAnd:
		return Bool(a && b), nil
	case OpEq:
		return Bool(a == b), nil
	case OpNe:
		return Bool(a != b), nil
	default:
		return Value{}, fmt.Errorf("runtime error: op %s is not valid on a boolean", op)
	}
}

func applyInteger(op Op, a, b int64) (Value, error) {
	switch op {
	case OpAdd:
		return Int(a + b), nil
	case OpSub:
		return Int(a - b), nil
	case OpMul:
		return Int(a * b), nil
	case OpMod:
		if b == 0 {
			return Value{}, fmt.Errorf("runtime error: modulo by zero")
		}
		return Int(a % b), nil
	case OpDiv:
		// Integer division always yields Float, to avoid silent truncation.
		fa, err := numeric.New(float64(a))
		if err != nil {
			return Value{}, err
		}
		fb, err := numeric.New(float64(b))
		if err != nil {
			return Value{}, err
		}
		result, err := fa.Div(fb)
		if err != nil {
			return Value{}, err
		}
		return Flt(result), nil
	case OpEq:
		return Bool(a == b), nil
	case OpNe:
		return Bool(a != b), nil
	case OpLt:
		return Bool(a < b), nil
	case OpLe:
		return Bool(a <= b), nil
	case OpGt:
		return Bool(a > b), nil
	case OpGe:
		return Bool(a >= b), nil
	default:
		return Value{}, fmt.Errorf("runtime error: op %s is not valid on an integer", op)
	}
}

func applyFloat(op Op, a, b numeric.Float) (Value, error) {
	switch op {
	case OpAdd:
		r, err := a.Add(b)
		return Flt(r), err
	case OpSub:
		r, err := a.Sub(b)
		return Flt(r), err
	case OpMul:
		r, err := a.Mul(b)
		return Flt(r), err
	case OpDiv:
		r, err := a.Div(b)
		return Flt(r), err
	case OpEq:
		return Bool(a.Equal(b)), nil
	case OpNe:
		return Bool(!a.Equal(b)), nil
	case OpLt:
		return Bool(a.Less(b)), nil
	case OpLe:
		return Bool(a.LessOrEqual(b)), nil
	case OpGt:
		return Bool(a.Greater(b)), nil
	case OpGe:
		return Bool(a.GreaterOrEqual(b)), nil
	default:
		return Value{}, fmt.Errorf("runtime error: op %s is not valid on a float", op)
	}
}

func applyString(op Op, a, b string) (Value, error) {
	switch op {
	case OpAdd:
		return Str(a + b), nil
	default:
		return Value{}, fmt.Errorf("runtime error: op %s is not valid on a string", op)
	}
}
