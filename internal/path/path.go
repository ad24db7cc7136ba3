// Package path implements the path sub-language (spec.md C3): concrete and
// script (dynamic) paths, brace-balanced tokenization, relative/absolute
// resolution, and devirtualization of lookup components.
//
// Grounded on the teacher's cursor parsing (internal/utils/tree/cursor.go
// in the retrieved graft pack) for the character-walking tokenizer shape,
// and on original_source/lib/yggdrasil/src/path.rs for the exact resolution
// and devirtualization semantics this spec distills.
package path

import (
	"fmt"
	"strings"
)

// ConcretePath is an absolute path composed of literal segments.
type ConcretePath []string

// String renders the path in canonical "/"-joined form.
func (c ConcretePath) String() string {
	if len(c) == 0 {
		return "/"
	}
	return "/" + strings.Join([]string(c), "/")
}

// Equal reports whether two concrete paths name the same node.
func (c ConcretePath) Equal(o ConcretePath) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// Parent returns the path with its last segment removed, and false if c is
// already the root.
func (c ConcretePath) Parent() (ConcretePath, bool) {
	if len(c) == 0 {
		return nil, false
	}
	return append(ConcretePath{}, c[:len(c)-1]...), true
}

// Child returns c with name appended.
func (c ConcretePath) Child(name string) ConcretePath {
	next := make(ConcretePath, len(c)+1)
	copy(next, c)
	next[len(c)] = name
	return next
}

// Component is one segment of a ScriptPath: either a literal name or a
// lookup whose body is itself a ScriptPath, evaluated at resolution time to
// produce the segment's text.
type Component struct {
	Literal string
	Lookup  *ScriptPath
}

// IsLookup reports whether this component is a dynamic lookup.
func (c Component) IsLookup() bool { return c.Lookup != nil }

func (c Component) String() string {
	if c.Lookup != nil {
		return "{" + c.Lookup.String() + "}"
	}
	return c.Literal
}

// ScriptPath is a sequence of path components; it is concrete iff no
// component is a lookup.
type ScriptPath struct {
	Components []Component
	dynamic    bool
}

// IsConcrete reports whether the path contains no lookup components.
func (s *ScriptPath) IsConcrete() bool { return !s.dynamic }

// String renders the path, including any {lookup} components, joined by
// "/". The leading base segments are not retained on a ScriptPath built
// from a relative string (resolution already folded them in), so this
// always prints as an absolute-looking path.
func (s *ScriptPath) String() string {
	parts := make([]string, len(s.Components))
	for i, c := range s.Components {
		parts[i] = c.String()
	}
	return "/" + strings.Join(parts, "/")
}

// AsConcrete converts a concrete ScriptPath to a ConcretePath. It is an
// error to call this on a dynamic path.
func (s *ScriptPath) AsConcrete() (ConcretePath, error) {
	if s.dynamic {
		return nil, fmt.Errorf("runtime error: path %s is dynamic, not concrete", s)
	}
	out := make(ConcretePath, len(s.Components))
	for i, c := range s.Components {
		out[i] = c.Literal
	}
	return out, nil
}

// FindConcreteInputs collects the literal concrete paths that appear inside
// lookup components of this path (recursively). These are the inputs that
// must be linked-and-validated before Devirtualize can compute them. Called
// on a concrete path, it returns that path itself.
func (s *ScriptPath) FindConcreteInputs() ([]ConcretePath, error) {
	if s.IsConcrete() {
		cp, err := s.AsConcrete()
		if err != nil {
			return nil, err
		}
		return []ConcretePath{cp}, nil
	}
	var out []ConcretePath
	for _, c := range s.Components {
		if c.Lookup == nil {
			continue
		}
		sub, err := c.Lookup.FindConcreteInputs()
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

// LookupFunc resolves a concrete path to the set of possible string values
// its node may take, via virtual computation of the referenced node. It is
// supplied by the tree/eval layer (C7/C8) so that this package stays
// tree-agnostic; see internal/tree for the concrete wiring.
type LookupFunc func(ConcretePath) ([]string, error)

// Devirtualize enumerates every ConcretePath this (possibly dynamic) path
// may denote, by expanding each lookup component into the branches that its
// referenced node's virtual compute can take.
func (s *ScriptPath) Devirtualize(resolve LookupFunc) ([]ConcretePath, error) {
	if s.IsConcrete() {
		cp, err := s.AsConcrete()
		if err != nil {
			return nil, err
		}
		return []ConcretePath{cp}, nil
	}

	var working []ConcretePath
	for _, c := range s.Components {
		if c.Lookup == nil {
			working = explodeOne(working, c.Literal)
			continue
		}
		subPaths, err := c.Lookup.Devirtualize(resolve)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, sub := range subPaths {
			vals, err := resolve(sub)
			if err != nil {
				return nil, err
			}
			names = append(names, vals...)
		}
		working = explodeMany(working, names)
	}
	return working, nil
}

// ResolveFunc resolves a concrete path to the single current string value
// its node holds (via compute, not virtual compute). It is supplied by
// the tree/eval layer for runtime (non-devirtualizing) lookup resolution —
// see Resolve.
type ResolveFunc func(ConcretePath) (string, error)

// Resolve collapses a (possibly dynamic) path to exactly one ConcretePath
// by resolving each lookup component against its referenced node's
// current, single value. This is the runtime counterpart to Devirtualize:
// Devirtualize enumerates every path a dynamic path COULD denote (used at
// compile time, before any value is known); Resolve follows the one path
// it DOES denote right now (used during compute, when a value is known).
func (s *ScriptPath) Resolve(resolve ResolveFunc) (ConcretePath, error) {
	if s.IsConcrete() {
		return s.AsConcrete()
	}
	out := make(ConcretePath, 0, len(s.Components))
	for _, c := range s.Components {
		if c.Lookup == nil {
			out = append(out, c.Literal)
			continue
		}
		sub, err := c.Lookup.Resolve(resolve)
		if err != nil {
			return nil, err
		}
		name, err := resolve(sub)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

func explodeOne(paths []ConcretePath, name string) []ConcretePath {
	if len(paths) == 0 {
		return []ConcretePath{{name}}
	}
	next := make([]ConcretePath, len(paths))
	for i, p := range paths {
		next[i] = p.Child(name)
	}
	return next
}

func explodeMany(paths []ConcretePath, names []string) []ConcretePath {
	if len(paths) == 0 {
		next := make([]ConcretePath, len(names))
		for i, n := range names {
			next[i] = ConcretePath{n}
		}
		return next
	}
	next := make([]ConcretePath, 0, len(paths)*len(names))
	for _, p := range paths {
		for _, n := range names {
			next = append(next, p.Child(n))
		}
	}
	return next
}

// Parse resolves a raw path string against a base path (used when the raw
// string is relative) and returns the ScriptPath it denotes. basePath is
// the absolute path of the node that owns the raw string (e.g. a script's
// own node); a relative raw string resolves against basePath's parent, so
// "x" names a sibling of that node. basePath is ignored when raw is itself
// absolute.
func Parse(basePath ConcretePath, raw string) (*ScriptPath, error) {
	var components []Component
	if strings.HasPrefix(raw, "/") {
		raw = raw[1:]
	} else {
		components = make([]Component, len(basePath))
		for i, seg := range basePath {
			components[i] = Component{Literal: seg}
		}
		if len(components) > 0 {
			components = components[:len(components)-1]
		}
	}

	parts, err := tokenizePath(raw)
	if err != nil {
		return nil, err
	}

	dynamic := false
	for _, part := range parts {
		wasDynamic, err := parsePart(&components, basePath, part)
		if err != nil {
			return nil, err
		}
		dynamic = dynamic || wasDynamic
	}

	return &ScriptPath{Components: components, dynamic: dynamic}, nil
}

func parsePart(components *[]Component, basePath ConcretePath, part string) (bool, error) {
	switch part {
	case "":
		return false, fmt.Errorf("parse error: empty path component under '%s'", basePath)
	case ".":
		return false, nil
	case "..":
		if len(*components) == 0 {
			return false, fmt.Errorf("parse error: looked up parent (..) past start of path at '%s'", basePath)
		}
		*components = (*components)[:len(*components)-1]
		return false, nil
	default:
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			sub, err := Parse(basePath, part[1:len(part)-1])
			if err != nil {
				return false, err
			}
			*components = append(*components, Component{Lookup: sub})
			return true, nil
		}
		if strings.ContainsAny(part, "{}") {
			return false, fmt.Errorf("parse error: unbalanced brace in path component %q", part)
		}
		*components = append(*components, Component{Literal: part})
		return false, nil
	}
}

// tokenizePath splits a raw path string on '/' at brace depth zero,
// erroring on mismatched braces.
func tokenizePath(s string) ([]string, error) {
	depth := 0
	start := 0
	var parts []string
	for i, r := range s {
		switch r {
		case '/':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("parse error: mismatched '}' in path '%s'", s)
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("parse error: mismatched braces in path '%s'", s)
	}
	parts = append(parts, s[start:])
	return parts, nil
}

// ParseConcrete parses a raw path string that is known to have no lookup
// components (e.g. a basename lookup key), returning an error if it turns
// out to be dynamic.
func ParseConcrete(basePath ConcretePath, raw string) (ConcretePath, error) {
	sp, err := Parse(basePath, raw)
	if err != nil {
		return nil, err
	}
	return sp.AsConcrete()
}
