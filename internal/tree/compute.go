package tree

import (
	"fmt"

	"github.com/homegraft/hearth/internal/ast"
	"github.com/homegraft/hearth/internal/numeric"
	"github.com/homegraft/hearth/internal/value"
)

// Compute is the post-order evaluator (§4.8 "compute"): it evaluates a
// single expression down to one Value, recursing through path
// dereferences and native calls.
//
// Each top-level call starts a fresh visited-node set that Compute and
// ComputeNode thread through their own recursion: a Script whose path
// dereferences eventually loop back to a node still on the call stack
// re-enters that node and fails with "runtime error: cyclic evaluation"
// instead of recursing forever (spec.md notes the original has no such
// guard and calls that a bug, not intended behaviour).
func (t *Tree) Compute(e *ast.Expr) (value.Value, error) {
	return t.compute(e, make(map[NodeID]bool))
}

func (t *Tree) compute(e *ast.Expr, visiting map[NodeID]bool) (value.Value, error) {
	switch e.Kind {
	case ast.KindValue:
		if e.Literal.Kind() != value.KindPath {
			return e.Literal, nil
		}
		sp, err := e.Literal.AsPath()
		if err != nil {
			return value.Value{}, err
		}
		id, err := t.LookupDynamicPath(sp)
		if err != nil {
			return value.Value{}, err
		}
		return t.computeNode(id, visiting)

	case ast.KindNeg:
		operand, err := t.compute(e.Left, visiting)
		if err != nil {
			return value.Value{}, err
		}
		zero, err := zeroLike(operand)
		if err != nil {
			return value.Value{}, err
		}
		return value.Apply(zero, value.OpSub, operand)

	case ast.KindCall:
		arg, err := t.compute(e.CallArg, visiting)
		if err != nil {
			return value.Value{}, err
		}
		fn, ok := t.funcs.Get(e.CallName)
		if !ok {
			return value.Value{}, fmt.Errorf("runtime error: unknown function %q", e.CallName)
		}
		return fn.Compute(t, arg)

	default:
		return t.computeBinary(e, visiting)
	}
}

func (t *Tree) computeBinary(e *ast.Expr, visiting map[NodeID]bool) (value.Value, error) {
	lhs, err := t.compute(e.Left, visiting)
	if err != nil {
		return value.Value{}, err
	}
	rhs, err := t.compute(e.Right, visiting)
	if err != nil {
		return value.Value{}, err
	}
	return value.Apply(lhs, binOp(e.Kind), rhs)
}

func binOp(k ast.NodeKind) value.Op {
	switch k {
	case ast.KindAdd:
		return value.OpAdd
	case ast.KindSub:
		return value.OpSub
	case ast.KindMul:
		return value.OpMul
	case ast.KindDiv:
		return value.OpDiv
	case ast.KindMod:
		return value.OpMod
	case ast.KindAnd:
		return value.OpAnd
	case ast.KindOr:
		return value.OpOr
	case ast.KindEq:
		return value.OpEq
	case ast.KindNe:
		return value.OpNe
	case ast.KindLt:
		return value.OpLt
	case ast.KindLe:
		return value.OpLe
	case ast.KindGt:
		return value.OpGt
	case ast.KindGe:
		return value.OpGe
	default:
		panic(fmt.Sprintf("tree: %s is not a binary operator", k))
	}
}

func zeroLike(v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindInteger:
		return value.Int(0), nil
	case value.KindFloat:
		zero, err := numeric.New(0)
		if err != nil {
			return value.Value{}, err
		}
		return value.Flt(zero), nil
	default:
		return value.Value{}, fmt.Errorf("runtime error: unary '-' is not valid on a %s", v.Kind())
	}
}

// ComputeNode computes a node's current value: a Source's cached value, or
// a Script's expression evaluated fresh.
func (t *Tree) ComputeNode(id NodeID) (value.Value, error) {
	return t.computeNode(id, make(map[NodeID]bool))
}

func (t *Tree) computeNode(id NodeID, visiting map[NodeID]bool) (value.Value, error) {
	if visiting[id] {
		return value.Value{}, fmt.Errorf("runtime error: cyclic evaluation at %q", t.Path(id))
	}
	visiting[id] = true
	defer delete(visiting, id)

	n := t.nodes[id]
	switch n.Input {
	case InputSource:
		if !n.cached.set {
			return value.Value{}, fmt.Errorf("runtime error: source %q has no value yet", t.Path(id))
		}
		return n.cached.value, nil
	case InputScript:
		return t.compute(n.Script.Expr, visiting)
	default:
		return value.Value{}, fmt.Errorf("runtime error: node %q has no input to compute", t.Path(id))
	}
}

// VirtuallyCompute is the "virtual compute" walk (§4.8): each
// sub-expression returns the set of values it might take, used to expand
// {lookup} path components during devirtualization. It carries the same
// per-call visited-node guard as Compute, since a Script's virtual
// compute recurses through the same Path-dereference edges.
func (t *Tree) VirtuallyCompute(e *ast.Expr) ([]value.Value, error) {
	return t.virtuallyCompute(e, make(map[NodeID]bool))
}

func (t *Tree) virtuallyCompute(e *ast.Expr, visiting map[NodeID]bool) ([]value.Value, error) {
	switch e.Kind {
	case ast.KindValue:
		if e.Literal.Kind() != value.KindPath {
			return []value.Value{e.Literal}, nil
		}
		sp, err := e.Literal.AsPath()
		if err != nil {
			return nil, err
		}
		candidates, err := sp.Devirtualize(t.lookupFunc())
		if err != nil {
			return nil, err
		}
		var out []value.Value
		for _, cp := range candidates {
			id, err := t.LookupPath(cp)
			if err != nil {
				return nil, err
			}
			vals, err := t.virtuallyComputeNode(id, visiting)
			if err != nil {
				return nil, err
			}
			out = append(out, vals...)
		}
		return out, nil

	case ast.KindNeg:
		operands, err := t.virtuallyCompute(e.Left, visiting)
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, 0, len(operands))
		for _, operand := range operands {
			zero, err := zeroLike(operand)
			if err != nil {
				return nil, err
			}
			v, err := value.Apply(zero, value.OpSub, operand)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case ast.KindCall:
		args, err := t.virtuallyCompute(e.CallArg, visiting)
		if err != nil {
			return nil, err
		}
		fn, ok := t.funcs.Get(e.CallName)
		if !ok {
			return nil, fmt.Errorf("runtime error: unknown function %q", e.CallName)
		}
		return fn.VirtualCompute(t, args)

	default:
		lhsSet, err := t.virtuallyCompute(e.Left, visiting)
		if err != nil {
			return nil, err
		}
		rhsSet, err := t.virtuallyCompute(e.Right, visiting)
		if err != nil {
			return nil, err
		}
		op := binOp(e.Kind)
		var out []value.Value
		for _, l := range lhsSet {
			for _, r := range rhsSet {
				v, err := value.Apply(l, op, r)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
		}
		return out, nil
	}
}

// VirtuallyComputeNode is virtuallyComputeNode's public entry point, for
// callers (such as ScriptPath.Devirtualize, via lookupFunc) that need a
// node's possible values directly rather than through an expression.
func (t *Tree) VirtuallyComputeNode(id NodeID) ([]value.Value, error) {
	return t.virtuallyComputeNode(id, make(map[NodeID]bool))
}

// virtuallyComputeNode returns the set of values a node might take: for a
// Source, its declared possible-values domain (§4.3's devirtualize is a
// compile-time operation that must work before any event has ever been
// pushed, so it cannot rely on a cached runtime value); for a Script, its
// expression virtually computed.
func (t *Tree) virtuallyComputeNode(id NodeID, visiting map[NodeID]bool) ([]value.Value, error) {
	if visiting[id] {
		return nil, fmt.Errorf("runtime error: cyclic evaluation at %q", t.Path(id))
	}
	visiting[id] = true
	defer delete(visiting, id)

	n := t.nodes[id]
	switch n.Input {
	case InputSource:
		if len(n.PossibleValues) == 0 {
			return nil, fmt.Errorf("runtime error: source %q declares no possible values for devirtualization", t.Path(id))
		}
		return n.PossibleValues, nil
	case InputScript:
		return t.virtuallyCompute(n.Script.Expr, visiting)
	default:
		return nil, fmt.Errorf("runtime error: node %q has no input to compute", t.Path(id))
	}
}
