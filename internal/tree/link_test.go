package tree

import (
	"testing"

	"github.com/homegraft/hearth/internal/ast"
	"github.com/homegraft/hearth/internal/errs"
	"github.com/homegraft/hearth/internal/value"
)

// TestLinkAndValidateAggregatesFailures checks that a broken script does
// not stop LinkAndValidate from checking the rest of the tree, and that
// every typecheck failure comes back together in one errs.MultiError.
func TestLinkAndValidateAggregatesFailures(t *testing.T) {
	tr := New(NewFuncRegistry(), false)
	x, _ := tr.AddChild(tr.Root(), "x")
	must(t, tr.SetScript(x, ast.Bin(ast.KindAdd, ast.Val(value.Int(1)), ast.Val(value.Str("a")))))
	y, _ := tr.AddChild(tr.Root(), "y")
	must(t, tr.SetScript(y, ast.Bin(ast.KindAdd, ast.Val(value.Int(2)), ast.Val(value.Str("b")))))

	err := tr.LinkAndValidate()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	me, ok := err.(errs.MultiError)
	if !ok {
		t.Fatalf("expected an errs.MultiError, got %T: %v", err, err)
	}
	if me.Count() != 2 {
		t.Fatalf("got %d aggregated error(s), want 2: %v", me.Count(), me)
	}
}
