package tree

import "github.com/homegraft/hearth/internal/value"

// NativeFunc is a callable the expression engine can invoke via Call(name,
// arg) nodes. It is declared here, in the consuming package, rather than in
// internal/function where the default implementations live, so that
// internal/function can import internal/tree without tree importing
// function back.
type NativeFunc interface {
	// Name is the identifier scripts call this function by.
	Name() string
	// Compute evaluates the function on a single already-computed argument.
	Compute(t *Tree, arg value.Value) (value.Value, error)
	// VirtualCompute evaluates the function over every possible argument
	// value, for devirtualization (§4.8's "virtual compute").
	VirtualCompute(t *Tree, args []value.Value) ([]value.Value, error)
	// ResultType reports the static result Type given the argument's Type,
	// for "find all possible inputs" typechecking.
	ResultType(argType value.Type) (value.Type, error)
}

// FuncRegistry looks up native callables by name, and doubles as the
// ast.CallResolver the expression parser uses to reject unknown call names
// at parse time.
type FuncRegistry struct {
	funcs map[string]NativeFunc
}

// NewFuncRegistry builds an empty registry.
func NewFuncRegistry() *FuncRegistry {
	return &FuncRegistry{funcs: make(map[string]NativeFunc)}
}

// Register installs fn under its own name, replacing any previous
// registration under that name.
func (r *FuncRegistry) Register(fn NativeFunc) {
	r.funcs[fn.Name()] = fn
}

// Has reports whether name is registered; it satisfies ast.CallResolver.
func (r *FuncRegistry) Has(name string) bool {
	_, ok := r.funcs[name]
	return ok
}

// Get returns the registered callable, if any.
func (r *FuncRegistry) Get(name string) (NativeFunc, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}
