// Package value implements the tagged value variants and the typed
// operator dispatch table of spec.md C2.
//
// Grounded on the teacher's type-aware arithmetic dispatch
// (pkg/graft/operators/arithmetic_operator_base.go, numeric_type_handler.go)
// for the "dispatch on kind, find a handler" shape, and on
// original_source/lib/yggdrasil/src/value.rs for the exact per-kind
// operator tables this spec distills.
package value

import (
	"fmt"

	"github.com/homegraft/hearth/internal/numeric"
	"github.com/homegraft/hearth/internal/path"
)

// Kind tags which variant a Value holds.
type Kind int

const (
	KindBoolean Kind = iota
	KindInteger
	KindFloat
	KindString
	KindPath
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindPath:
		return "path"
	default:
		return "unknown"
	}
}

// Type is a bit-set over the non-Path value kinds, used to type-check
// script expressions. Path is a staging form, resolved before typechecking
// completes, and so is never a member of Type.
type Type uint8

const (
	TypeBoolean Type = 1 << iota
	TypeFloat
	TypeInteger
	TypeString
)

// Of returns the Type bit corresponding to a (non-Path) Kind.
func Of(k Kind) (Type, error) {
	switch k {
	case KindBoolean:
		return TypeBoolean, nil
	case KindInteger:
		return TypeInteger, nil
	case KindFloat:
		return TypeFloat, nil
	case KindString:
		return TypeString, nil
	default:
		return 0, fmt.Errorf("runtime error: kind %s has no static type", k)
	}
}

func (t Type) String() string {
	switch t {
	case TypeBoolean:
		return "boolean"
	case TypeFloat:
		return "float"
	case TypeInteger:
		return "integer"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is the tagged sum {Boolean, Integer, Float, String, Path}. A Path
// value is virtual: it is resolved against the tree during evaluation and
// is never itself a final computed value stored at a node.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    numeric.Float
	s    string
	p    *path.ScriptPath
}

// Bool builds a Boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Int builds an Integer value.
func Int(i int64) Value { return Value{kind: KindInteger, i: i} }

// Flt builds a Float value.
func Flt(f numeric.Float) Value { return Value{kind: KindFloat, f: f} }

// Str builds a String value.
func Str(s string) Value { return Value{kind: KindString, s: s} }

// Path builds a Path value wrapping a script path to be resolved later.
func Path(p *path.ScriptPath) Value { return Value{kind: KindPath, p: p} }

// Kind reports which variant this Value holds.
func (v Value) Kind() Kind { return v.kind }

// Type returns the static Type of a non-Path value. Calling this on a Path
// value is a programming error in the engine (paths are resolved before a
// Value reaches a type-checked position) and returns an error rather than
// panicking, so callers can surface it as a runtime error.
func (v Value) Type() (Type, error) { return Of(v.kind) }

// AsBoolean returns the boolean payload, or an error if v is not Boolean.
func (v Value) AsBoolean() (bool, error) {
	if v.kind != KindBoolean {
		return false, fmt.Errorf("runtime error: expected boolean, got %s", v.kind)
	}
	return v.b, nil
}

// AsInteger returns the integer payload, or an error if v is not Integer.
func (v Value) AsInteger() (int64, error) {
	if v.kind != KindInteger {
		return 0, fmt.Errorf("runtime error: expected integer, got %s", v.kind)
	}
	return v.i, nil
}

// AsFloat returns the float payload, or an error if v is not Float.
func (v Value) AsFloat() (numeric.Float, error) {
	if v.kind != KindFloat {
		return numeric.Float{}, fmt.Errorf("runtime error: expected float, got %s", v.kind)
	}
	return v.f, nil
}

// AsString returns the string payload, or an error if v is not String.
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", fmt.Errorf("runtime error: expected string, got %s", v.kind)
	}
	return v.s, nil
}

// AsPath returns the script path payload, or an error if v is not Path.
func (v Value) AsPath() (*path.ScriptPath, error) {
	if v.kind != KindPath {
		return nil, fmt.Errorf("runtime error: expected path, got %s", v.kind)
	}
	return v.p, nil
}

// AsPathComponent coerces v to the text it would contribute as a path
// segment: Integer, Boolean, and String pass through their textual form.
// Float and Path cannot be used as path components.
func (v Value) AsPathComponent() (string, error) {
	switch v.kind {
	case KindInteger:
		return fmt.Sprintf("%d", v.i), nil
	case KindBoolean:
		return fmt.Sprintf("%t", v.b), nil
	case KindString:
		return v.s, nil
	case KindFloat:
		return "", fmt.Errorf("runtime error: a float cannot be used as a path component")
	default:
		return "", fmt.Errorf("runtime error: a path cannot be used as a path component")
	}
}

// String renders v for display and for the default str() builtin.
func (v Value) String() string {
	switch v.kind {
	case KindBoolean:
		return fmt.Sprintf("%t", v.b)
	case KindInteger:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return v.f.String()
	case KindString:
		return v.s
	case KindPath:
		return v.p.String()
	default:
		return "<invalid>"
	}
}

// Equal reports whether two values are the same kind and payload. It does
// not apply "==" typed-operator semantics (see Apply). Two Path values are
// never Equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBoolean:
		return v.b == o.b
	case KindInteger:
		return v.i == o.i
	case KindFloat:
		return v.f.Equal(o.f)
	case KindString:
		return v.s == o.s
	default:
		return false
	}
}
