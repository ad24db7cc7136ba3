package ast

import (
	"testing"

	"github.com/homegraft/hearth/internal/lexer"
	"github.com/homegraft/hearth/internal/path"
)

type fakeResolver map[string]bool

func (f fakeResolver) Has(name string) bool { return f[name] }

func mustTokens(t *testing.T, src string) []lexer.Token {
	t.Helper()
	toks, err := lexer.Tokenize(src + "\n")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	return toks
}

func TestParsePrecedence(t *testing.T) {
	toks := mustTokens(t, "1 + 2 * 3")
	expr, rest, err := Parse(toks, path.ConcretePath{}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if expr.Kind != KindAdd {
		t.Fatalf("root kind = %s, want Add", expr.Kind)
	}
	if expr.Right.Kind != KindMul {
		t.Fatalf("rhs kind = %s, want Mul", expr.Right.Kind)
	}
	if rest[0].Kind != lexer.Newline {
		t.Fatalf("expected parse to stop before Newline, got %s", rest[0].Kind)
	}
}

func TestParseUnaryNeg(t *testing.T) {
	toks := mustTokens(t, "-./x + 1")
	expr, _, err := Parse(toks, path.ConcretePath{"room"}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if expr.Kind != KindAdd || expr.Left.Kind != KindNeg {
		t.Fatalf("got root=%s left=%s, want Add(Neg(..), ..)", expr.Kind, expr.Left.Kind)
	}
}

func TestParseCallUnknownFunction(t *testing.T) {
	toks := mustTokens(t, "bogus(1)")
	_, _, err := Parse(toks, path.ConcretePath{}, fakeResolver{"str": true})
	if err == nil {
		t.Fatal("expected an error for an unregistered call name")
	}
}

func TestParseCallKnownFunction(t *testing.T) {
	toks := mustTokens(t, `str(1)`)
	expr, _, err := Parse(toks, path.ConcretePath{}, fakeResolver{"str": true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if expr.Kind != KindCall || expr.CallName != "str" {
		t.Fatalf("got %+v", expr)
	}
}

func TestParseParenGrouping(t *testing.T) {
	toks := mustTokens(t, "(1 + 2) * 3")
	expr, _, err := Parse(toks, path.ConcretePath{}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if expr.Kind != KindMul || expr.Left.Kind != KindAdd {
		t.Fatalf("got root=%s left=%s, want Mul(Add(..), ..)", expr.Kind, expr.Left.Kind)
	}
}

func TestParseComparisonChain(t *testing.T) {
	toks := mustTokens(t, "1 < 2 == true")
	expr, _, err := Parse(toks, path.ConcretePath{}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if expr.Kind != KindEq || expr.Left.Kind != KindLt {
		t.Fatalf("got root=%s left=%s, want Eq(Lt(..), ..)", expr.Kind, expr.Left.Kind)
	}
}
