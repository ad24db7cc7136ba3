// Package hearth is the root façade of the home-automation dataflow
// engine (spec.md C10): a Builder assembles native functions, source
// kinds and named imports, then compiles configuration text through the
// parse -> link-and-validate -> flow-map pipeline into a runnable Engine.
//
// Grounded on the teacher's top-level pkg/graft package (an Evaluator
// built from a functional-options Engine, wrapping the same
// parse/merge/evaluate pipeline the CLI itself calls), generalized to
// this engine's parse/link/flow-map pipeline and its event-driven
// HandleEvent entry point instead of graft's one-shot Evaluate.
package hearth

import (
	"fmt"

	"github.com/homegraft/hearth/internal/ast"
	"github.com/homegraft/hearth/internal/function"
	"github.com/homegraft/hearth/internal/langparse"
	"github.com/homegraft/hearth/internal/lexer"
	"github.com/homegraft/hearth/internal/path"
	"github.com/homegraft/hearth/internal/source"
	"github.com/homegraft/hearth/internal/tree"
	"github.com/homegraft/hearth/internal/value"
)

// SinkUpdate is one (path, value) pair produced for a single sink kind by
// HandleEvent.
type SinkUpdate = tree.SinkUpdate

// Subtree is a read-only view of an Engine scoped to one path and its
// descendants, returned by Engine.SubtreeAt. It wraps internal/tree's
// Subtree the same way Engine wraps *tree.Tree, so its errors come back
// classified the same way the rest of the public API's do.
type Subtree struct {
	st *tree.Subtree
}

// RootPath returns the subtree's root path.
func (s *Subtree) RootPath() path.ConcretePath { return s.st.RootPath() }

// AllPaths returns the absolute paths of the subtree's root and every
// descendant, in deterministic parent-first, sorted-children order.
func (s *Subtree) AllPaths() []path.ConcretePath { return s.st.AllPaths() }

// Lookup computes and returns the current value at raw, resolved relative
// to the subtree's root (or absolute, if raw starts with "/").
func (s *Subtree) Lookup(raw string) (value.Value, error) {
	v, err := s.st.Lookup(raw)
	if err != nil {
		return value.Value{}, classify(err)
	}
	return v, nil
}

// FindSinks returns every sink path of the given kind under this subtree,
// in sorted order.
func (s *Subtree) FindSinks(kind string) []path.ConcretePath { return s.st.FindSinks(kind) }

// FindSources returns every source path of the given kind under this
// subtree, in sorted order.
func (s *Subtree) FindSources(kind string) []path.ConcretePath { return s.st.FindSources(kind) }

// NativeFunc is the interface a caller-supplied function must implement
// to be registered with a Builder (see internal/tree.NativeFunc for the
// compute/virtual-compute/result-type contract every native function
// must satisfy).
type NativeFunc = tree.NativeFunc

type sourceKindReg struct {
	name     string
	typ      value.Type
	possible []value.Value
}

// Builder assembles the pieces a config text needs before it can be
// compiled: the native function table, any source kinds a Source sigil
// might reference, named imports for `import(name)`, and whether the
// resulting tree is jailed (spec.md's jailbreak property, §7).
//
// Grounded on the teacher's functional-options Engine builder
// (pkg/graft, NewEngine(opts...)) for the "accumulate options, Build()
// at the end" shape.
type Builder struct {
	funcs      *tree.FuncRegistry
	jailed     bool
	imports    langparse.Imports
	sourceKinds []sourceKindReg
}

// NewBuilder returns a Builder pre-loaded with the built-in native
// functions (currently just str). Call WithoutBuiltins to start from an
// empty function table instead.
func NewBuilder() *Builder {
	return &Builder{funcs: function.Default(), imports: langparse.Imports{}}
}

// WithoutBuiltins clears the function table of built-ins, so only
// explicitly registered functions (via WithFunc) are callable.
func (b *Builder) WithoutBuiltins() *Builder {
	b.funcs = tree.NewFuncRegistry()
	return b
}

// WithFunc registers a native function, making it callable from scripts
// by fn.Name().
func (b *Builder) WithFunc(fn NativeFunc) *Builder {
	b.funcs.Register(fn)
	return b
}

// WithJail enables the jailbreak property: every Script living under a
// Source-rooted subtree may only read paths within that subtree.
func (b *Builder) WithJail(jailed bool) *Builder {
	b.jailed = jailed
	return b
}

// WithImport registers src under name, so a config's `import(name)` line
// grafts its top-level trees beneath the importing node.
func (b *Builder) WithImport(name, src string) *Builder {
	b.imports[name] = src
	return b
}

// WithSourceKind declares a Source kind's ValueType and full domain of
// possible values, so a `^kind` sigil referencing it can be devirtualized
// at link time. See internal/source for ready-made kinds.
func (b *Builder) WithSourceKind(k source.Kind) *Builder {
	b.sourceKinds = append(b.sourceKinds, sourceKindReg{name: k.Name, typ: k.Type, possible: k.Possible})
	return b
}

// Build compiles src into a ready-to-run Engine: parse, link-and-validate,
// flow-map. Any failure at any stage is returned as an *Error.
func (b *Builder) Build(src string) (*Engine, error) {
	tr := tree.New(b.funcs, b.jailed)
	for _, k := range b.sourceKinds {
		tr.RegisterSourceKind(k.name, k.typ, k.possible...)
	}
	if err := langparse.Parse(tr, tr.Funcs(), src, b.imports); err != nil {
		return nil, classify(err)
	}
	if err := tr.LinkAndValidate(); err != nil {
		return nil, classify(err)
	}
	if err := tr.FlowMap(); err != nil {
		return nil, classify(err)
	}
	return &Engine{tr: tr}, nil
}

// Engine is a compiled, runnable tree: the public surface for feeding
// Source events in and reading computed values back out.
type Engine struct {
	tr *tree.Tree
}

// HandleEvent pushes a new value onto the Source at raw (e.g. "/a"),
// recomputes every downstream Sink that Source's flow-map connects it to,
// and returns the resulting updates grouped by sink kind.
func (e *Engine) HandleEvent(raw string, v value.Value) (map[string][]SinkUpdate, error) {
	cp, err := path.ParseConcrete(path.ConcretePath{}, raw)
	if err != nil {
		return nil, classify(err)
	}
	updates, err := e.tr.HandleEvent(cp, v)
	if err != nil {
		return nil, classify(err)
	}
	return updates, nil
}

// Lookup computes and returns the current value at raw (e.g. "/room/lamp").
func (e *Engine) Lookup(raw string) (value.Value, error) {
	cp, err := path.ParseConcrete(path.ConcretePath{}, raw)
	if err != nil {
		return value.Value{}, classify(err)
	}
	id, err := e.tr.LookupPath(cp)
	if err != nil {
		return value.Value{}, classify(err)
	}
	v, err := e.tr.ComputeNode(id)
	if err != nil {
		return value.Value{}, classify(err)
	}
	return v, nil
}

// FindSinks returns every sink path of the given kind, in sorted order.
func (e *Engine) FindSinks(kind string) []path.ConcretePath { return e.tr.FindSinks(kind) }

// FindSources returns every source path of the given kind, in sorted order.
func (e *Engine) FindSources(kind string) []path.ConcretePath { return e.tr.FindSources(kind) }

// AllPaths returns every node's absolute path, in deterministic
// parent-first, sorted-children order.
func (e *Engine) AllPaths() []path.ConcretePath { return e.tr.AllPaths() }

// SubtreeAt returns the Subtree rooted at raw (e.g. "/room/lamp"), scoping
// lookups and enumeration to that node and its descendants.
func (e *Engine) SubtreeAt(raw string) (*Subtree, error) {
	cp, err := path.ParseConcrete(path.ConcretePath{}, raw)
	if err != nil {
		return nil, classify(err)
	}
	st, err := e.tr.SubtreeAt(cp)
	if err != nil {
		return nil, classify(err)
	}
	return &Subtree{st: st}, nil
}

// Generation returns how many HandleEvent calls this engine has processed
// so far.
func (e *Engine) Generation() uint64 { return e.tr.Generation() }

// ParseExpr parses a standalone expression against basePath, for callers
// that want to build scripts programmatically rather than from config
// text (e.g. tests, or a REPL).
func ParseExpr(src string, basePath path.ConcretePath, resolver ast.CallResolver) (*ast.Expr, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, classify(err)
	}
	expr, rest, err := ast.Parse(toks, basePath, resolver)
	if err != nil {
		return nil, classify(err)
	}
	if len(rest) > 0 && rest[0].Kind != lexer.EOF {
		return nil, classify(fmt.Errorf("parse error: unexpected trailing token %s", rest[0]))
	}
	return expr, nil
}
