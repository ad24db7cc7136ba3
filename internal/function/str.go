// Package function provides native callables for expressions (spec.md
// §6.2): a table mapping name to an implementation of internal/tree's
// NativeFunc interface, plus the default `str` builtin.
//
// Grounded on original_source/lib/yggdrasil/src/bif/tostr.rs for str's
// exact "stringify, dereferencing a Path by computing it first" semantics,
// and on the teacher's operator-registration style (each operator is a
// small struct registered under its symbol in pkg/graft/operators) for the
// shape of "one type per callable, registered by name".
package function

import (
	"fmt"

	"github.com/homegraft/hearth/internal/tree"
	"github.com/homegraft/hearth/internal/value"
)

// Str implements the built-in str(_) function: it renders any value as a
// String. A Path argument is never actually seen at runtime — the calling
// expression's argument is itself evaluated (and so already resolved)
// before str.Compute runs — but the dereference-then-stringify behavior
// is documented here because it is the original's specified semantics,
// and VirtualCompute's Path handling flows through the same Stringify
// helper for devirtualization.
type Str struct{}

// Name is the identifier scripts call this function by.
func (Str) Name() string { return "str" }

// Compute renders arg as a String.
func (Str) Compute(t *tree.Tree, arg value.Value) (value.Value, error) {
	s, err := Stringify(t, arg)
	if err != nil {
		return value.Value{}, err
	}
	return value.Str(s), nil
}

// VirtualCompute renders every candidate value in args as a String.
func (Str) VirtualCompute(t *tree.Tree, args []value.Value) ([]value.Value, error) {
	out := make([]value.Value, 0, len(args))
	for _, a := range args {
		v, err := Str{}.Compute(t, a)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ResultType reports that str always produces a String, regardless of its
// argument's type.
func (Str) ResultType(value.Type) (value.Type, error) { return value.TypeString, nil }

// Stringify renders v as text, recursively dereferencing a Path by
// computing its target first (original_source/bif/tostr.rs).
func Stringify(t *tree.Tree, v value.Value) (string, error) {
	if v.Kind() != value.KindPath {
		return v.String(), nil
	}
	sp, err := v.AsPath()
	if err != nil {
		return "", err
	}
	id, err := t.LookupDynamicPath(sp)
	if err != nil {
		return "", err
	}
	resolved, err := t.ComputeNode(id)
	if err != nil {
		return "", err
	}
	if resolved.Kind() == value.KindPath {
		return "", fmt.Errorf("runtime error: str() could not fully resolve path %q", sp)
	}
	return resolved.String(), nil
}

// Default returns a registry containing the built-in str function, for
// builders that have not opted out via without_builtins.
func Default() *tree.FuncRegistry {
	r := tree.NewFuncRegistry()
	r.Register(Str{})
	return r
}
