package tree

import (
	"sort"

	"github.com/homegraft/hearth/internal/path"
)

// walk calls fn for every non-pseudo node, parent before children, in
// sorted child-name order at each level — the deterministic order §4.7
// requires of compile-time tree-wide passes.
func (t *Tree) walk(id NodeID, fn func(NodeID)) {
	fn(id)
	for _, name := range t.childNames(id) {
		t.walk(t.nodes[id].Children[name], fn)
	}
}

// AllPaths returns the concrete paths of every node in the tree, in
// deterministic (sorted-children, parent-first) order.
func (t *Tree) AllPaths() []path.ConcretePath {
	var out []path.ConcretePath
	t.walk(t.Root(), func(id NodeID) {
		out = append(out, t.Path(id))
	})
	return out
}

// IsSource reports whether id is a Source node.
func (t *Tree) IsSource(id NodeID) bool { return t.nodes[id].Input == InputSource }

// IsScript reports whether id is a Script node.
func (t *Tree) IsScript(id NodeID) bool { return t.nodes[id].Input == InputScript }

// IsSink reports whether id carries a sink kind.
func (t *Tree) IsSink(id NodeID) bool { return t.nodes[id].SinkKind != "" }

// SinkKindOf returns id's sink kind, or "" if it is not a sink.
func (t *Tree) SinkKindOf(id NodeID) string { return t.nodes[id].SinkKind }

// SourceKindOf returns id's source kind, or "" if it is not a Source.
func (t *Tree) SourceKindOf(id NodeID) string { return t.nodes[id].SourceKind }

// ScriptInputs returns a linked Script node's input map (the concrete
// paths its expression reads).
func (t *Tree) ScriptInputs(id NodeID) []path.ConcretePath {
	n := t.nodes[id]
	if n.Script == nil {
		return nil
	}
	return n.Script.InputMap
}

// FindSinks returns the concrete paths of every Sink node whose kind
// matches filter.
func (t *Tree) FindSinks(kind string) []path.ConcretePath {
	var out []path.ConcretePath
	t.walk(t.Root(), func(id NodeID) {
		if t.nodes[id].SinkKind == kind {
			out = append(out, t.Path(id))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// FindSources returns the concrete paths of every Source node whose kind
// matches filter.
func (t *Tree) FindSources(kind string) []path.ConcretePath {
	var out []path.ConcretePath
	t.walk(t.Root(), func(id NodeID) {
		if t.nodes[id].Input == InputSource && t.nodes[id].SourceKind == kind {
			out = append(out, t.Path(id))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
