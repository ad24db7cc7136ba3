// Package ast implements the expression parser of spec.md C5: a
// precedence-climbing parser over the lexer's token stream, producing an
// expression tree consumed by the evaluator in internal/tree (C8).
//
// Grounded on the teacher's precedence-climbing operator-call parser
// (pkg/graft/parser/parser.go, parseExpression/parsePrimary) for the
// recursive-descent-with-minimum-precedence shape. Unlike the teacher's
// Opcall (which builds its args slice through an unsafe.Pointer write into
// a private field), Expr here is an ordinary exported struct — there is no
// reason to reach for unsafe in a freshly authored AST.
package ast

import "github.com/homegraft/hearth/internal/value"

// NodeKind tags the shape of an Expr.
type NodeKind int

const (
	KindValue NodeKind = iota
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindMod
	KindNeg
	KindAnd
	KindOr
	KindEq
	KindNe
	KindLt
	KindLe
	KindGt
	KindGe
	KindCall
)

func (k NodeKind) String() string {
	switch k {
	case KindValue:
		return "Value"
	case KindAdd:
		return "Add"
	case KindSub:
		return "Sub"
	case KindMul:
		return "Mul"
	case KindDiv:
		return "Div"
	case KindMod:
		return "Mod"
	case KindNeg:
		return "Neg"
	case KindAnd:
		return "And"
	case KindOr:
		return "Or"
	case KindEq:
		return "Eq"
	case KindNe:
		return "Ne"
	case KindLt:
		return "Lt"
	case KindLe:
		return "Le"
	case KindGt:
		return "Gt"
	case KindGe:
		return "Ge"
	case KindCall:
		return "Call"
	default:
		return "?"
	}
}

// Expr is one node of an expression tree.
//
//   - KindValue: a literal (boolean/integer/float/string) or an unresolved
//     path, carried in Literal.
//   - KindNeg: unary negate, operand in Left.
//   - KindCall: a call to a registered native function, CallName names it
//     and CallArg is its single argument.
//   - every other kind: a binary operator over Left and Right.
type Expr struct {
	Kind     NodeKind
	Literal  value.Value
	Left     *Expr
	Right    *Expr
	CallName string
	CallArg  *Expr
}

// Val builds a Value literal node.
func Val(v value.Value) *Expr { return &Expr{Kind: KindValue, Literal: v} }

// Bin builds a binary-operator node.
func Bin(k NodeKind, l, r *Expr) *Expr { return &Expr{Kind: k, Left: l, Right: r} }

// Unary builds the unary-negate node.
func Unary(operand *Expr) *Expr { return &Expr{Kind: KindNeg, Left: operand} }

// Call builds a call node.
func Call(name string, arg *Expr) *Expr { return &Expr{Kind: KindCall, CallName: name, CallArg: arg} }
