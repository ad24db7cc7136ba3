package tree

import (
	"sort"

	"github.com/homegraft/hearth/internal/path"
	"github.com/homegraft/hearth/internal/value"
)

// Subtree is a read-only view of the Tree scoped to one node and its
// descendants, returned by SubtreeAt (spec.md C4's "The Tree's public API
// is then: handle_event, lookup, find_sinks, find_sources, subtree_at").
// An embedding that only cares about, say, "everything under /room/lamp"
// uses a Subtree instead of filtering the whole tree's paths itself.
type Subtree struct {
	t    *Tree
	root NodeID
}

// SubtreeAt returns the Subtree rooted at root.
func (t *Tree) SubtreeAt(root path.ConcretePath) (*Subtree, error) {
	id, err := t.LookupPath(root)
	if err != nil {
		return nil, err
	}
	return &Subtree{t: t, root: id}, nil
}

// RootPath returns the subtree's root path.
func (s *Subtree) RootPath() path.ConcretePath { return s.t.Path(s.root) }

// AllPaths returns the absolute paths of the root and every descendant, in
// the same deterministic parent-first, sorted-children order as
// Tree.AllPaths.
func (s *Subtree) AllPaths() []path.ConcretePath {
	var out []path.ConcretePath
	s.t.walk(s.root, func(id NodeID) {
		out = append(out, s.t.Path(id))
	})
	return out
}

// Lookup resolves raw relative to the subtree's root, or absolute if raw
// starts with "/", and returns that node's current value.
func (s *Subtree) Lookup(raw string) (value.Value, error) {
	id, err := s.t.Lookup(s.root, raw)
	if err != nil {
		return value.Value{}, err
	}
	return s.t.ComputeNode(id)
}

// FindSinks returns the concrete paths of every Sink descendant (or the
// root itself) whose kind matches kind, in sorted order.
func (s *Subtree) FindSinks(kind string) []path.ConcretePath {
	var out []path.ConcretePath
	s.t.walk(s.root, func(id NodeID) {
		if s.t.SinkKindOf(id) == kind {
			out = append(out, s.t.Path(id))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// FindSources returns the concrete paths of every Source descendant (or
// the root itself) whose kind matches kind, in sorted order.
func (s *Subtree) FindSources(kind string) []path.ConcretePath {
	var out []path.ConcretePath
	s.t.walk(s.root, func(id NodeID) {
		if s.t.IsSource(id) && s.t.SourceKindOf(id) == kind {
			out = append(out, s.t.Path(id))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
