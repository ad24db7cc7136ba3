// Package tree implements the Tree & Node data model (spec.md C7) and the
// expression engine (C8) in one package: the two are mutually recursive
// (compute walks resolve Value(Path) by looking the referenced node back up
// in the tree, and the tree's link-and-validate pass calls into the engine's
// "find all possible inputs" walk), so splitting them into separate packages
// would force an import cycle. The teacher keeps the same kind of
// tree-plus-evaluator pairing in one package, pkg/graft.
//
// Nodes are held in an arena (Tree.nodes) and referred to by NodeID rather
// than by pointer, because the data model is cyclic by nature (a node
// points at its parent, its children, its script inputs, and a source's
// observers) — an arena sidesteps Go's lack of a garbage-cycle-tolerant
// reference-counted pointer the way Rc<RefCell<_>> does in the system this
// spec was distilled from.
package tree

import (
	"github.com/homegraft/hearth/internal/ast"
	"github.com/homegraft/hearth/internal/lexer"
	"github.com/homegraft/hearth/internal/path"
	"github.com/homegraft/hearth/internal/value"
)

// NodeID indexes into a Tree's node arena. The zero value is the root.
type NodeID int

// InputKind tags which of {None, Source, Script} a node's input is.
type InputKind int

const (
	InputNone InputKind = iota
	InputSource
	InputScript
)

// ScriptPhase tracks a Script input's progress through link-and-validate.
type ScriptPhase int

const (
	PhaseNeedInputMap ScriptPhase = iota
	PhaseReady
)

func (p ScriptPhase) String() string {
	if p == PhaseReady {
		return "ready"
	}
	return "need-input-map"
}

// ScriptInput is the Script variant of a node's input: an expression, plus
// the metadata link-and-validate installs once it is Ready.
type ScriptInput struct {
	Expr      *ast.Expr
	Phase     ScriptPhase
	InputMap  []path.ConcretePath // concrete paths this script reads from
	ValueType value.Type
}

// taggedValue is a Source's cached value, tagged with the generation of the
// HandleEvent call that stored it. The engine records the tag but does not
// read it back.
type taggedValue struct {
	value      value.Value
	generation uint64
	set        bool
}

// Node is one entry of the tree. Exactly one of source/script is active,
// selected by Input.
type Node struct {
	Name     string
	Parent   NodeID
	HasParent bool
	Children map[string]NodeID

	Location   *lexer.Dimension
	Size       *lexer.Dimension
	Template   string

	Input          InputKind
	SourceKind     string
	SourceType     value.Type
	PossibleValues []value.Value // declared domain, used for devirtualize before any event
	SinkKind       string
	Script         *ScriptInput

	cached   taggedValue
	Observers []NodeID // populated only for Source nodes, by flow-mapping

	linked bool // short-circuits re-entrant link-and-validate
}

func newNode(name string) *Node {
	return &Node{Name: name, Children: make(map[string]NodeID)}
}

// IsPseudo reports whether name is a reserved pseudo-child name ("." or
// "..") that recursive tree walks must skip.
func IsPseudo(name string) bool { return name == "." || name == ".." }
