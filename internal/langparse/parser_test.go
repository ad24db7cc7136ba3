package langparse

import (
	"testing"

	"github.com/homegraft/hearth/internal/function"
	"github.com/homegraft/hearth/internal/path"
	"github.com/homegraft/hearth/internal/tree"
	"github.com/homegraft/hearth/internal/value"
)

func newTree() *tree.Tree {
	tr := tree.New(function.Default(), false)
	tr.RegisterSourceKind("switch", value.TypeBoolean, value.Bool(true), value.Bool(false))
	return tr
}

func TestParseSimpleTreeWithScript(t *testing.T) {
	tr := newTree()
	src := "light\n  <- 1 + 2\n"
	if err := Parse(tr, tr.Funcs(), src, nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := tr.LinkAndValidate(); err != nil {
		t.Fatalf("LinkAndValidate: %v", err)
	}
	id, err := tr.LookupPath(path.ConcretePath{"light"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := tr.ComputeNode(id)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := got.AsInteger(); n != 3 {
		t.Fatalf("light = %v, want 3", got)
	}
}

func TestParseNestedChildrenAndSigils(t *testing.T) {
	tr := newTree()
	src := "" +
		"room\n" +
		"  @2x3\n" +
		"  <>1x1\n" +
		"  switch\n" +
		"    ^switch\n" +
		"  lamp\n" +
		"    $dimmer\n" +
		"    <- /room/switch\n"
	if err := Parse(tr, tr.Funcs(), src, nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := tr.LinkAndValidate(); err != nil {
		t.Fatalf("LinkAndValidate: %v", err)
	}

	room, err := tr.LookupPath(path.ConcretePath{"room"})
	if err != nil {
		t.Fatal(err)
	}
	n := tr.Node(room)
	if n.Location == nil || n.Location.Primary != 2 || n.Location.Secondary != 3 {
		t.Fatalf("room location = %v, want 2x3", n.Location)
	}
	if n.Size == nil || n.Size.Primary != 1 || n.Size.Secondary != 1 {
		t.Fatalf("room size = %v, want 1x1", n.Size)
	}

	sw, err := tr.LookupPath(path.ConcretePath{"room", "switch"})
	if err != nil {
		t.Fatal(err)
	}
	if !tr.IsSource(sw) {
		t.Fatalf("room/switch should be a source")
	}
	if tr.SourceKindOf(sw) != "switch" {
		t.Fatalf("room/switch source kind = %q, want switch", tr.SourceKindOf(sw))
	}

	lamp, err := tr.LookupPath(path.ConcretePath{"room", "lamp"})
	if err != nil {
		t.Fatal(err)
	}
	if !tr.IsSink(lamp) {
		t.Fatalf("room/lamp should be a sink")
	}
	if tr.SinkKindOf(lamp) != "dimmer" {
		t.Fatalf("room/lamp sink kind = %q, want dimmer", tr.SinkKindOf(lamp))
	}
}

func TestParseDedentMismatchSurfacesTokenizeError(t *testing.T) {
	tr := newTree()
	src := "a\n  <- 1\n b\n" // ' b' at column 1, neither matches 0 nor 2
	if err := Parse(tr, tr.Funcs(), src, nil); err == nil {
		t.Fatal("expected a dedent-mismatch error")
	}
}

func TestParseUnknownTemplateErrors(t *testing.T) {
	tr := newTree()
	src := "a\n  !ghost\n"
	if err := Parse(tr, tr.Funcs(), src, nil); err == nil {
		t.Fatal("expected an unknown-template error")
	}
}

func TestParseTemplateApplication(t *testing.T) {
	tr := newTree()
	src := "" +
		"template bulb\n" +
		"  v\n" +
		"    <- 1\n" +
		"lamp\n" +
		"  !bulb\n"
	if err := Parse(tr, tr.Funcs(), src, nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := tr.LinkAndValidate(); err != nil {
		t.Fatalf("LinkAndValidate: %v", err)
	}
	v, err := tr.LookupPath(path.ConcretePath{"lamp", "v"})
	if err != nil {
		t.Fatalf("template should have grafted lamp/v: %v", err)
	}
	got, err := tr.ComputeNode(v)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := got.AsInteger(); n != 1 {
		t.Fatalf("lamp/v = %v, want 1", got)
	}
}

func TestParseImportGraftsChildren(t *testing.T) {
	tr := newTree()
	imports := Imports{"porch_light": "v\n  <- 5\n"}
	src := "porch\n  import(porch_light)\n"
	if err := Parse(tr, tr.Funcs(), src, imports); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := tr.LinkAndValidate(); err != nil {
		t.Fatalf("LinkAndValidate: %v", err)
	}
	v, err := tr.LookupPath(path.ConcretePath{"porch", "v"})
	if err != nil {
		t.Fatalf("import should have grafted porch/v: %v", err)
	}
	got, err := tr.ComputeNode(v)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := got.AsInteger(); n != 5 {
		t.Fatalf("porch/v = %v, want 5", got)
	}
}

func TestParseUnknownImportErrors(t *testing.T) {
	tr := newTree()
	src := "porch\n  import(missing)\n"
	if err := Parse(tr, tr.Funcs(), src, nil); err == nil {
		t.Fatal("expected an unknown-import error")
	}
}
