package tree

import (
	"fmt"
	"sort"

	"github.com/homegraft/hearth/internal/ast"
	"github.com/homegraft/hearth/internal/lexer"
	"github.com/homegraft/hearth/internal/path"
	"github.com/homegraft/hearth/internal/value"
)

// sourceDecl is what a Source kind declares about itself at registration
// time: the original system's TreeSource trait exposes both a `nodetype`
// query and a `get_all_possible_values` query so that link-and-validate can
// typecheck and devirtualize dynamic lookups before any runtime event has
// ever arrived. Our in-memory reference sources (§6.3) are homogeneous per
// kind, so both are plain static declarations rather than per-path queries.
type sourceDecl struct {
	typ      value.Type
	possible []value.Value
}

// Tree owns the node arena and the cross-cutting state (the native
// function registry, the jailbreak flag, the generation counter) that the
// expression engine and handle_event need.
type Tree struct {
	nodes       []*Node
	funcs       *FuncRegistry
	generation  uint64
	jailed      bool
	sourceKinds map[string]sourceDecl
}

// New creates a Tree with a single root node.
func New(funcs *FuncRegistry, jailed bool) *Tree {
	t := &Tree{funcs: funcs, jailed: jailed, sourceKinds: make(map[string]sourceDecl)}
	t.nodes = append(t.nodes, newNode(""))
	return t
}

// RegisterSourceKind declares, for every node of the given Source kind,
// the ValueType it produces and the full set of values it might ever take
// (its "possible values" domain). The type is used by typechecking; the
// domain is used by devirtualize to enumerate every dynamic-lookup branch
// a script might read, before any event has actually been pushed.
func (t *Tree) RegisterSourceKind(kind string, typ value.Type, possible ...value.Value) {
	t.sourceKinds[kind] = sourceDecl{typ: typ, possible: possible}
}

// Root returns the root node's id.
func (t *Tree) Root() NodeID { return 0 }

// Node returns the node stored at id. The pointer is the arena's own
// entry, not a copy: changes made through it change the tree.
func (t *Tree) Node(id NodeID) *Node { return t.nodes[id] }

// Funcs returns the tree's native-function registry.
func (t *Tree) Funcs() *FuncRegistry { return t.funcs }

// Jailed reports whether jailbreak restriction is in effect (§6.3): when
// true, a Source's subtree may only read Script inputs rooted under that
// same Source.
func (t *Tree) Jailed() bool { return t.jailed }

// Generation returns the monotonic counter's current value: how many
// HandleEvent calls have been processed so far. An embedding can use this
// for its own observability; the engine never interprets it itself.
func (t *Tree) Generation() uint64 { return t.generation }

// nextGeneration bumps and returns the monotonic generation counter used to
// tag each value HandleEvent stores on a Source (§4.7 step 1).
func (t *Tree) nextGeneration() uint64 {
	t.generation++
	return t.generation
}

// AddChild adds a new, empty child named name under parent. It fails if
// name is a reserved pseudo-name or parent already has a child by that
// name (§4.7).
func (t *Tree) AddChild(parent NodeID, name string) (NodeID, error) {
	if IsPseudo(name) {
		return 0, fmt.Errorf("parse error: %q is a reserved child name", name)
	}
	p := t.nodes[parent]
	if _, exists := p.Children[name]; exists {
		return 0, fmt.Errorf("parse error: node %q already has a child named %q", t.Path(parent), name)
	}
	child := newNode(name)
	child.Parent = parent
	child.HasParent = true
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, child)
	p.Children[name] = id
	return id, nil
}

// SetLocation installs a node's Location sigil payload, failing on a
// second set.
func (t *Tree) SetLocation(id NodeID, d lexer.Dimension) error {
	n := t.nodes[id]
	if n.Location != nil {
		return fmt.Errorf("parse error: location set twice on %q", t.Path(id))
	}
	n.Location = &d
	return nil
}

// SetSize installs a node's Size sigil payload, failing on a second set.
func (t *Tree) SetSize(id NodeID, d lexer.Dimension) error {
	n := t.nodes[id]
	if n.Size != nil {
		return fmt.Errorf("parse error: size set twice on %q", t.Path(id))
	}
	n.Size = &d
	return nil
}

// SetTemplate records which template a node was instantiated from.
func (t *Tree) SetTemplate(id NodeID, name string) error {
	n := t.nodes[id]
	if n.Template != "" {
		return fmt.Errorf("parse error: template set twice on %q", t.Path(id))
	}
	n.Template = name
	return nil
}

// SetSource marks a node as a Source of the given kind, failing if the
// node's input is already set or the kind was never registered via
// RegisterSourceKind.
func (t *Tree) SetSource(id NodeID, kind string) error {
	n := t.nodes[id]
	if n.Input != InputNone {
		return fmt.Errorf("parse error: input set twice on %q", t.Path(id))
	}
	decl, ok := t.sourceKinds[kind]
	if !ok {
		return fmt.Errorf("parse error: unknown source kind %q at %q", kind, t.Path(id))
	}
	n.Input = InputSource
	n.SourceKind = kind
	n.SourceType = decl.typ
	n.PossibleValues = decl.possible
	return nil
}

// SetSink marks a node as a Sink of the given kind, failing on a second
// set of sink (sink is orthogonal to Input in the data model: a node may
// be both a Script/Source and a Sink).
func (t *Tree) SetSink(id NodeID, kind string) error {
	n := t.nodes[id]
	if n.SinkKind != "" {
		return fmt.Errorf("parse error: sink set twice on %q", t.Path(id))
	}
	n.SinkKind = kind
	return nil
}

// SetScript marks a node as driven by a Script, failing if the node's
// input is already set.
func (t *Tree) SetScript(id NodeID, expr *ast.Expr) error {
	n := t.nodes[id]
	if n.Input != InputNone {
		return fmt.Errorf("parse error: input set twice on %q", t.Path(id))
	}
	n.Input = InputScript
	n.Script = &ScriptInput{Expr: expr, Phase: PhaseNeedInputMap}
	return nil
}

// childNames returns a node's non-pseudo child names in sorted order, for
// the deterministic traversal order §4.7 requires of compile-time passes.
func (t *Tree) childNames(id NodeID) []string {
	n := t.nodes[id]
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		if IsPseudo(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Path computes id's absolute ConcretePath by walking parent links to the
// root.
func (t *Tree) Path(id NodeID) path.ConcretePath {
	var segs []string
	for cur := id; t.nodes[cur].HasParent; cur = t.nodes[cur].Parent {
		segs = append([]string{t.nodes[cur].Name}, segs...)
	}
	return path.ConcretePath(segs)
}

// LookupPath resolves a concrete, absolute path to a node id.
func (t *Tree) LookupPath(cp path.ConcretePath) (NodeID, error) {
	cur := t.Root()
	for _, seg := range cp {
		switch seg {
		case ".":
			continue
		case "..":
			if !t.nodes[cur].HasParent {
				return 0, fmt.Errorf("runtime error: '..' past root while resolving %q", cp)
			}
			cur = t.nodes[cur].Parent
		default:
			next, ok := t.nodes[cur].Children[seg]
			if !ok {
				return 0, fmt.Errorf("runtime error: no node at %q", cp)
			}
			cur = next
		}
	}
	return cur, nil
}

// Lookup parses and resolves a path string relative to from: "x" names
// from's child x, ".." names from's parent.
func (t *Tree) Lookup(from NodeID, raw string) (NodeID, error) {
	// path.Parse resolves a relative string against its base's parent, so a
	// trailing "." segment makes from itself the directory raw resolves in.
	sp, err := path.Parse(t.Path(from).Child("."), raw)
	if err != nil {
		return 0, err
	}
	return t.LookupDynamicPath(sp)
}

// LookupDynamicPath resolves a (possibly dynamic) ScriptPath by computing
// the referenced node's current value at each lookup component (§4.7:
// "resolves lookups during traversal by computing the referenced node's
// value"). This is the runtime counterpart of devirtualization: it follows
// the one path the script denotes right now, rather than enumerating every
// path it could ever denote (that enumeration is find-all-possible-inputs'
// job, at link time, before any value is known).
func (t *Tree) LookupDynamicPath(sp *path.ScriptPath) (NodeID, error) {
	cp, err := sp.Resolve(t.resolveFunc())
	if err != nil {
		return 0, err
	}
	return t.LookupPath(cp)
}

// resolveFunc adapts the tree's concrete compute to path.ResolveFunc.
func (t *Tree) resolveFunc() path.ResolveFunc {
	return func(cp path.ConcretePath) (string, error) {
		id, err := t.LookupPath(cp)
		if err != nil {
			return "", err
		}
		v, err := t.ComputeNode(id)
		if err != nil {
			return "", err
		}
		return v.AsPathComponent()
	}
}

// lookupFunc adapts the tree's virtual-compute machinery to
// path.LookupFunc, used by ScriptPath.Devirtualize (at link time, via
// find-all-possible-inputs) to expand {lookup} components into every
// possible segment string a node could take.
func (t *Tree) lookupFunc() path.LookupFunc {
	return func(cp path.ConcretePath) ([]string, error) {
		id, err := t.LookupPath(cp)
		if err != nil {
			return nil, err
		}
		vals, err := t.VirtuallyComputeNode(id)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(vals))
		for _, v := range vals {
			s, err := v.AsPathComponent()
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	}
}
