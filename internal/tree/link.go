package tree

import (
	"fmt"

	"github.com/homegraft/hearth/internal/ast"
	"github.com/homegraft/hearth/internal/errs"
	"github.com/homegraft/hearth/internal/path"
	"github.com/homegraft/hearth/internal/value"
)

// LinkAndValidate is the link-and-validate compile pass (§4.8): for every
// Script node, compute its input map and ValueType via "find all possible
// inputs" and transition it to Ready. Traversal uses walk's deterministic
// sorted-children order; a node's "linked" flag short-circuits re-entry
// when a script elsewhere references it first.
//
// A Script that fails to link does not stop the rest of the tree from
// being linked: every node is visited, and every failure is collected, so
// a single Build reports every broken script at once instead of just the
// first one found.
func (t *Tree) LinkAndValidate() error {
	var failures errs.MultiError
	t.walk(t.Root(), func(id NodeID) {
		if err := t.ensureLinked(id); err != nil {
			failures.Append(err)
		}
	})
	return failures.ErrOrNil()
}

// ensureLinked links id's Script (if any), doing nothing for non-Script
// nodes or a Script already linked.
func (t *Tree) ensureLinked(id NodeID) error {
	n := t.nodes[id]
	if n.Input != InputScript || n.linked {
		return nil
	}
	inputs, typ, err := t.findAllPossibleInputs(n.Script.Expr)
	if err != nil {
		return err
	}
	if t.jailed {
		if err := t.checkJail(id, inputs); err != nil {
			return err
		}
	}
	n.Script.InputMap = inputs
	n.Script.ValueType = typ
	n.Script.Phase = PhaseReady
	n.linked = true
	return nil
}

// nodeType reports a node's static ValueType: a Source's declared type, or
// a Script's inferred type (linking it first if necessary).
func (t *Tree) nodeType(id NodeID) (value.Type, error) {
	n := t.nodes[id]
	switch n.Input {
	case InputSource:
		return n.SourceType, nil
	case InputScript:
		if err := t.ensureLinked(id); err != nil {
			return 0, err
		}
		return n.Script.ValueType, nil
	default:
		return 0, fmt.Errorf("typecheck error: node %q has no input and so no type", t.Path(id))
	}
}

// findAllPossibleInputs is the third C8 traversal: it collects every
// concrete path this expression may read, recursively linking each
// referenced Script first, and computes the expression's static ValueType.
func (t *Tree) findAllPossibleInputs(e *ast.Expr) ([]path.ConcretePath, value.Type, error) {
	switch e.Kind {
	case ast.KindValue:
		if e.Literal.Kind() != value.KindPath {
			typ, err := e.Literal.Type()
			return nil, typ, err
		}
		return t.findPathInputs(e.Literal)

	case ast.KindNeg:
		inputs, typ, err := t.findAllPossibleInputs(e.Left)
		if err != nil {
			return nil, 0, err
		}
		if typ != value.TypeInteger && typ != value.TypeFloat {
			return nil, 0, fmt.Errorf("typecheck error: unary '-' requires a numeric operand, got %s", typ)
		}
		return inputs, typ, nil

	case ast.KindCall:
		inputs, argType, err := t.findAllPossibleInputs(e.CallArg)
		if err != nil {
			return nil, 0, err
		}
		fn, ok := t.funcs.Get(e.CallName)
		if !ok {
			return nil, 0, fmt.Errorf("typecheck error: unknown function %q", e.CallName)
		}
		resultType, err := fn.ResultType(argType)
		if err != nil {
			return nil, 0, err
		}
		return inputs, resultType, nil

	default:
		leftInputs, leftType, err := t.findAllPossibleInputs(e.Left)
		if err != nil {
			return nil, 0, err
		}
		rightInputs, rightType, err := t.findAllPossibleInputs(e.Right)
		if err != nil {
			return nil, 0, err
		}
		if leftType != rightType {
			return nil, 0, fmt.Errorf("typecheck error: mismatched operand types %s and %s in %s expression", leftType, rightType, e.Kind)
		}
		resultType := leftType
		if isComparison(e.Kind) {
			resultType = value.TypeBoolean
		}
		if e.Kind == ast.KindDiv && leftType == value.TypeInteger {
			resultType = value.TypeFloat // integer division always yields Float (value.Apply)
		}
		return dedupPaths(append(leftInputs, rightInputs...)), resultType, nil
	}
}

func isComparison(k ast.NodeKind) bool {
	switch k {
	case ast.KindEq, ast.KindNe, ast.KindLt, ast.KindLe, ast.KindGt, ast.KindGe:
		return true
	default:
		return false
	}
}

// findPathInputs implements §4.8's path case: link the inputs nested
// inside lookup components, devirtualize, link and type each concrete
// target, and require all targets to agree on one type.
func (t *Tree) findPathInputs(v value.Value) ([]path.ConcretePath, value.Type, error) {
	sp, err := v.AsPath()
	if err != nil {
		return nil, 0, err
	}

	nested, err := sp.FindConcreteInputs()
	if err != nil {
		return nil, 0, err
	}
	var inputs []path.ConcretePath
	for _, cp := range nested {
		id, err := t.LookupPath(cp)
		if err != nil {
			return nil, 0, err
		}
		if err := t.ensureLinked(id); err != nil {
			return nil, 0, err
		}
		inputs = append(inputs, cp)
	}

	targets, err := sp.Devirtualize(t.lookupFunc())
	if err != nil {
		return nil, 0, err
	}
	if len(targets) == 0 {
		return nil, 0, fmt.Errorf("typecheck error: path %q devirtualized to no concrete targets", sp)
	}

	var common value.Type
	for i, cp := range targets {
		id, err := t.LookupPath(cp)
		if err != nil {
			return nil, 0, err
		}
		typ, err := t.nodeType(id)
		if err != nil {
			return nil, 0, err
		}
		if i == 0 {
			common = typ
		} else if typ != common {
			return nil, 0, fmt.Errorf("typecheck error: path %q resolves to mixed types (%s and %s)", sp, common, typ)
		}
		inputs = append(inputs, cp)
	}

	return dedupPaths(inputs), common, nil
}

func dedupPaths(paths []path.ConcretePath) []path.ConcretePath {
	var out []path.ConcretePath
	for _, p := range paths {
		dup := false
		for _, q := range out {
			if p.Equal(q) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

// checkJail enforces the jailbreak security property (§9, spec's "Jailing"
// note): when a Script lives inside a Source-rooted subtree, every
// concrete path it reads must lie within that same subtree.
func (t *Tree) checkJail(id NodeID, inputs []path.ConcretePath) error {
	root, ok := t.nearestSourceAncestor(id)
	if !ok {
		return nil
	}
	for _, in := range inputs {
		if !isUnder(root, in) {
			return fmt.Errorf("jailbreak error: script %q reads %q outside its Source-rooted subtree %q", t.Path(id), in, root)
		}
	}
	return nil
}

func (t *Tree) nearestSourceAncestor(id NodeID) (path.ConcretePath, bool) {
	n := t.nodes[id]
	for n.HasParent {
		id = n.Parent
		n = t.nodes[id]
		if n.Input == InputSource {
			return t.Path(id), true
		}
	}
	return nil, false
}

func isUnder(root, candidate path.ConcretePath) bool {
	if len(candidate) < len(root) {
		return false
	}
	for i := range root {
		if candidate[i] != root[i] {
			return false
		}
	}
	return true
}
