package tree

import (
	"testing"

	"github.com/homegraft/hearth/internal/ast"
	"github.com/homegraft/hearth/internal/path"
	"github.com/homegraft/hearth/internal/value"
)

// TestSubtreeAtScopesToOneBranch checks that a Subtree only sees its root
// and descendants, resolves Lookup relative to that root, and scopes
// FindSinks/FindSources the same way the whole-tree Tree methods do.
func TestSubtreeAtScopesToOneBranch(t *testing.T) {
	tr := New(NewFuncRegistry(), false)
	room, _ := tr.AddChild(tr.Root(), "room")
	lamp, _ := tr.AddChild(room, "lamp")
	must(t, tr.SetScript(lamp, ast.Val(value.Int(1))))
	must(t, tr.SetSink(lamp, "light"))
	fan, _ := tr.AddChild(room, "fan")
	must(t, tr.SetScript(fan, ast.Val(value.Int(0))))
	must(t, tr.SetSink(fan, "light"))

	other, _ := tr.AddChild(tr.Root(), "other")
	must(t, tr.SetScript(other, ast.Val(value.Int(9))))
	must(t, tr.SetSink(other, "light"))

	must(t, tr.LinkAndValidate())

	st, err := tr.SubtreeAt(path.ConcretePath{"room"})
	if err != nil {
		t.Fatalf("SubtreeAt: %v", err)
	}

	paths := st.AllPaths()
	if len(paths) != 3 {
		t.Fatalf("AllPaths() = %v, want 3 entries (room, room/lamp, room/fan)", paths)
	}
	for _, p := range paths {
		if len(p) == 0 || p[0] != "room" {
			t.Fatalf("path %v escapes the /room subtree", p)
		}
	}

	got, err := st.Lookup("lamp")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if n, _ := got.AsInteger(); n != 1 {
		t.Fatalf("Lookup(\"lamp\") = %v, want Integer 1", got)
	}

	sinks := st.FindSinks("light")
	if len(sinks) != 2 {
		t.Fatalf("FindSinks(\"light\") = %v, want 2 (excluding /other)", sinks)
	}
}
