package tree

import (
	"testing"

	"github.com/homegraft/hearth/internal/ast"
	"github.com/homegraft/hearth/internal/errs"
	"github.com/homegraft/hearth/internal/path"
	"github.com/homegraft/hearth/internal/value"
)

// TestHandleEventAggregatesObserverFailures checks that a failure at one
// observing sink does not stop HandleEvent from trying the rest, and that
// every failure comes back together in one errs.MultiError.
func TestHandleEventAggregatesObserverFailures(t *testing.T) {
	tr := New(NewFuncRegistry(), false)
	tr.RegisterSourceKind("num", value.TypeInteger, value.Int(0), value.Int(1))

	a, _ := tr.AddChild(tr.Root(), "a")
	must(t, tr.SetSource(a, "num"))

	missing1, _ := tr.AddChild(tr.Root(), "missing1")
	must(t, tr.SetSource(missing1, "num"))
	missing2, _ := tr.AddChild(tr.Root(), "missing2")
	must(t, tr.SetSource(missing2, "num"))

	sink1, _ := tr.AddChild(tr.Root(), "sink1")
	aFrom1, err := path.Parse(tr.Path(sink1), "/a")
	must(t, err)
	m1From1, err := path.Parse(tr.Path(sink1), "/missing1")
	must(t, err)
	must(t, tr.SetScript(sink1, ast.Bin(ast.KindAdd, ast.Val(value.Path(aFrom1)), ast.Val(value.Path(m1From1)))))
	must(t, tr.SetSink(sink1, "log"))

	sink2, _ := tr.AddChild(tr.Root(), "sink2")
	aFrom2, err := path.Parse(tr.Path(sink2), "/a")
	must(t, err)
	m2From2, err := path.Parse(tr.Path(sink2), "/missing2")
	must(t, err)
	must(t, tr.SetScript(sink2, ast.Bin(ast.KindAdd, ast.Val(value.Path(aFrom2)), ast.Val(value.Path(m2From2)))))
	must(t, tr.SetSink(sink2, "log"))

	must(t, tr.LinkAndValidate())
	must(t, tr.FlowMap())

	// Neither /missing1 nor /missing2 ever receives a handle_event, so both
	// sink1 and sink2 fail to compute when /a fires — but both must be
	// attempted and both failures must be reported, not just the first.
	_, err = tr.HandleEvent(path.ConcretePath{"a"}, value.Int(1))
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
