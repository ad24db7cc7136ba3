package tree

import (
	"testing"

	"github.com/homegraft/hearth/internal/ast"
	"github.com/homegraft/hearth/internal/path"
	"github.com/homegraft/hearth/internal/value"
)

func TestScenarioSimpleArithmetic(t *testing.T) {
	tr := New(NewFuncRegistry(), false)
	a, err := tr.AddChild(tr.Root(), "a")
	if err != nil {
		t.Fatal(err)
	}
	two := ast.Val(value.Int(2))
	expr := ast.Bin(ast.KindAdd, two, ast.Val(value.Int(2)))
	if err := tr.SetScript(a, expr); err != nil {
		t.Fatal(err)
	}
	if err := tr.LinkAndValidate(); err != nil {
		t.Fatalf("LinkAndValidate: %v", err)
	}
	got, err := tr.ComputeNode(a)
	if err != nil {
		t.Fatalf("ComputeNode: %v", err)
	}
	n, err := got.AsInteger()
	if err != nil || n != 4 {
		t.Fatalf("got %v, want Integer 4", got)
	}
}

func TestScenarioIntegerModulo(t *testing.T) {
	tr := New(NewFuncRegistry(), false)
	bar, _ := tr.AddChild(tr.Root(), "bar")
	must(t, tr.SetScript(bar, ast.Val(value.Int(2))))
	foo, _ := tr.AddChild(tr.Root(), "foo")
	barPath, err := path.Parse(tr.Path(foo), "/bar")
	if err != nil {
		t.Fatal(err)
	}
	expr := ast.Bin(ast.KindMod, ast.Val(value.Path(barPath)), ast.Val(value.Int(3)))
	must(t, tr.SetScript(foo, expr))

	must(t, tr.LinkAndValidate())
	got, err := tr.ComputeNode(foo)
	if err != nil {
		t.Fatalf("ComputeNode: %v", err)
	}
	n, err := got.AsInteger()
	if err != nil || n != 2 {
		t.Fatalf("got %v, want Integer 2", got)
	}
}

func TestScenarioIntegerDivisionAlwaysFloat(t *testing.T) {
	tr := New(NewFuncRegistry(), false)
	a, _ := tr.AddChild(tr.Root(), "a")
	expr := ast.Bin(ast.KindDiv, ast.Val(value.Int(1)), ast.Val(value.Int(1)))
	must(t, tr.SetScript(a, expr))
	must(t, tr.LinkAndValidate())
	got, err := tr.ComputeNode(a)
	if err != nil {
		t.Fatalf("ComputeNode: %v", err)
	}
	if got.Kind() != value.KindFloat {
		t.Fatalf("1 / 1 produced %s, want float", got.Kind())
	}
}

// TestScenarioDynamicLookupAndEvent reproduces spec §8 scenario 6: a Source
// at /a and a Script /b <- /{/a}/v, with /foo/v <- 1 and /bar/v <- 2.
func TestScenarioDynamicLookupAndEvent(t *testing.T) {
	tr := New(NewFuncRegistry(), false)
	tr.RegisterSourceKind("switch", value.TypeString, value.Str("foo"), value.Str("bar"))

	aID, err := tr.AddChild(tr.Root(), "a")
	if err != nil {
		t.Fatal(err)
	}
	must(t, tr.SetSource(aID, "switch"))

	bID, _ := tr.AddChild(tr.Root(), "b")
	sp, err := path.Parse(tr.Path(bID), "/{/a}/v")
	if err != nil {
		t.Fatalf("path.Parse: %v", err)
	}
	must(t, tr.SetScript(bID, ast.Val(value.Path(sp))))

	fooID, _ := tr.AddChild(tr.Root(), "foo")
	fooV, _ := tr.AddChild(fooID, "v")
	must(t, tr.SetScript(fooV, ast.Val(value.Int(1))))

	barID, _ := tr.AddChild(tr.Root(), "bar")
	barV, _ := tr.AddChild(barID, "v")
	must(t, tr.SetScript(barV, ast.Val(value.Int(2))))

	if err := tr.LinkAndValidate(); err != nil {
		t.Fatalf("LinkAndValidate: %v", err)
	}
	// Re-invoking link-and-validate must be a no-op (the "linked" flag).
	if err := tr.LinkAndValidate(); err != nil {
		t.Fatalf("second LinkAndValidate: %v", err)
	}
	if err := tr.FlowMap(); err != nil {
		t.Fatalf("FlowMap: %v", err)
	}

	if _, err := tr.HandleEvent(path.ConcretePath{"a"}, value.Str("bar")); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	got, err := tr.ComputeNode(bID)
	if err != nil {
		t.Fatalf("ComputeNode: %v", err)
	}
	if n, _ := got.AsInteger(); n != 2 {
		t.Fatalf("after handle_event(bar), /b = %v, want 2", got)
	}

	if _, err := tr.HandleEvent(path.ConcretePath{"a"}, value.Str("foo")); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	got, err = tr.ComputeNode(bID)
	if err != nil {
		t.Fatalf("ComputeNode: %v", err)
	}
	if n, _ := got.AsInteger(); n != 1 {
		t.Fatalf("after handle_event(foo), /b = %v, want 1", got)
	}
}

func TestLookupPathRoundTrip(t *testing.T) {
	tr := New(NewFuncRegistry(), false)
	a, _ := tr.AddChild(tr.Root(), "a")
	b, _ := tr.AddChild(a, "b")

	got, err := tr.LookupPath(tr.Path(b))
	if err != nil {
		t.Fatalf("LookupPath: %v", err)
	}
	if got != b {
		t.Fatalf("lookup_path(path_of(b)) = %v, want %v", got, b)
	}
}

func TestAddChildRejectsReservedAndDuplicateNames(t *testing.T) {
	tr := New(NewFuncRegistry(), false)
	if _, err := tr.AddChild(tr.Root(), "."); err == nil {
		t.Fatal("expected an error adding a reserved child name")
	}
	if _, err := tr.AddChild(tr.Root(), ".."); err == nil {
		t.Fatal("expected an error adding a reserved child name")
	}
	if _, err := tr.AddChild(tr.Root(), "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.AddChild(tr.Root(), "x"); err == nil {
		t.Fatal("expected an error re-adding an existing child name")
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
