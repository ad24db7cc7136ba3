// Package langparse implements the tree parser of spec.md C6: a
// line-oriented recursive descent over the token stream that builds nodes
// into an internal/tree.Tree, attaching sigil data (location, dimensions,
// source kind, sink kind, script, template application, import) as it
// goes.
//
// Grounded on the teacher's parser shape (pkg/graft/parser/parser.go) for
// "consume tokens, build a tree, recurse on structure", generalized from
// graft's flat operator-call grammar to spec.md's indentation-nested
// tree grammar, which has no teacher analogue.
//
// Design note on template/import: spec.md's grammar writes template bodies
// with a `'[' tree-inner ']'` bracket syntax, but §4.4's own tokenizer
// table defines no `[`/`]` token at all — brackets are simply not part of
// this language's lexical surface. Since spec.md explicitly marks template
// support as "reserved; implementation may stub", templates here are
// parsed with the same indentation-block grammar as an ordinary tree's
// children, and `!name`/`import(name)` both work by re-parsing a captured
// token span as a block of child trees grafted under the current node —
// a textual-inclusion model, not a deferred/parameterized expansion.
package langparse

import (
	"fmt"

	"github.com/homegraft/hearth/internal/ast"
	"github.com/homegraft/hearth/internal/lexer"
	"github.com/homegraft/hearth/internal/tree"
)

// Imports supplies the builder's named, pre-registered sub-tree sources
// (§4.6: "import(name) ... requests, from the builder, a pre-parsed
// sub-tree registered under that name").
type Imports map[string]string

// Parse tokenizes and parses src into tr, rooted at tr.Root().
func Parse(tr *tree.Tree, funcs ast.CallResolver, src string, imports Imports) error {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return err
	}
	p := &parser{tr: tr, funcs: funcs, templates: make(map[string][]lexer.Token)}
	p.imports = make(map[string][]lexer.Token, len(imports))
	for name, isrc := range imports {
		itoks, err := lexer.Tokenize(isrc)
		if err != nil {
			return fmt.Errorf("parse error: import %q: %w", name, err)
		}
		p.imports[name] = stripEOF(itoks)
	}
	p.toks = toks
	return p.parseRoot(tr.Root())
}

type parser struct {
	toks      []lexer.Token
	pos       int
	tr        *tree.Tree
	funcs     ast.CallResolver
	templates map[string][]lexer.Token
	imports   map[string][]lexer.Token
}

func stripEOF(toks []lexer.Token) []lexer.Token {
	if n := len(toks); n > 0 && toks[n-1].Kind == lexer.EOF {
		return toks[:n-1]
	}
	return toks
}

func (p *parser) peek() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.toks[p.pos]
}

func (p *parser) advance() lexer.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) expect(k lexer.Kind) (lexer.Token, error) {
	t := p.peek()
	if t.Kind != k {
		return t, fmt.Errorf("parse error: line %d: expected %s, got %s", t.Line, k, t.Kind)
	}
	return p.advance(), nil
}

// parseRoot implements `root := (template | tree)*`.
func (p *parser) parseRoot(parent tree.NodeID) error {
	for p.peek().Kind != lexer.EOF {
		if p.peek().Kind == lexer.NameTerm && p.peek().Text == "template" {
			if err := p.parseTemplateDef(); err != nil {
				return err
			}
			continue
		}
		if err := p.parseTree(parent); err != nil {
			return err
		}
	}
	return nil
}

// parseTemplateDef consumes `template NAME` followed by an indented block
// of child trees, and records the block's token span under NAME without
// attaching it anywhere.
func (p *parser) parseTemplateDef() error {
	p.advance() // 'template'
	name, err := p.expect(lexer.NameTerm)
	if err != nil {
		return err
	}
	if _, err := p.expect(lexer.Newline); err != nil {
		return err
	}
	if _, err := p.expect(lexer.Indent); err != nil {
		return fmt.Errorf("parse error: line %d: template %q has no body", name.Line, name.Text)
	}
	body, err := p.captureBlock()
	if err != nil {
		return err
	}
	p.templates[name.Text] = body
	return nil
}

// captureBlock assumes the opening Indent has already been consumed; it
// collects every token up to (and consuming) the matching Dedent, tracking
// nested indent depth.
func (p *parser) captureBlock() ([]lexer.Token, error) {
	depth := 1
	start := p.pos
	for {
		t := p.peek()
		switch t.Kind {
		case lexer.EOF:
			return nil, fmt.Errorf("parse error: unexpected end of input inside an indented block")
		case lexer.Indent:
			depth++
		case lexer.Dedent:
			depth--
			if depth == 0 {
				body := p.toks[start:p.pos]
				p.advance() // consume the matching Dedent
				return body, nil
			}
		}
		p.advance()
	}
}

// parseTree implements `tree := NAME inline-suite (INDENT block-suite
// tree* DEDENT)?`.
func (p *parser) parseTree(parent tree.NodeID) error {
	nameTok, err := p.expect(lexer.NameTerm)
	if err != nil {
		return err
	}
	id, err := p.tr.AddChild(parent, nameTok.Text)
	if err != nil {
		return err
	}

	if err := p.parseInlineSuite(id); err != nil {
		return err
	}

	if p.peek().Kind != lexer.Indent {
		return nil
	}
	p.advance()
	return p.parseBlock(id)
}

// parseInlineSuite consumes sigils up to and including the line's
// terminating NEWLINE, applying each to id.
func (p *parser) parseInlineSuite(id tree.NodeID) error {
	for {
		t := p.peek()
		if t.Kind == lexer.Newline {
			p.advance()
			return nil
		}
		if isSigilStart(t.Kind) || isImportStart(p) {
			if err := p.applySigilOrImport(id); err != nil {
				return err
			}
			continue
		}
		return fmt.Errorf("parse error: line %d: unexpected token %s after node name", t.Line, t.Kind)
	}
}

// parseBlock consumes a `block-suite tree* DEDENT`: zero or more
// additional sigil lines attaching to id, then zero or more nested trees
// (or imports), until the matching DEDENT.
func (p *parser) parseBlock(id tree.NodeID) error {
	for p.peek().Kind == lexer.Indent {
		return fmt.Errorf("parse error: line %d: unexpected indent after a sigil (should come after a name)", p.peek().Line)
	}
	for isSigilStart(p.peek().Kind) || isImportStart(p) {
		if err := p.applySigilOrImport(id); err != nil {
			return err
		}
		if _, err := p.expect(lexer.Newline); err != nil {
			return err
		}
	}
	for p.peek().Kind != lexer.Dedent {
		if p.peek().Kind == lexer.EOF {
			return fmt.Errorf("parse error: unexpected end of input inside %q's body", p.tr.Path(id))
		}
		if err := p.parseTree(id); err != nil {
			return err
		}
	}
	p.advance() // DEDENT
	return nil
}

func isSigilStart(k lexer.Kind) bool {
	switch k {
	case lexer.SourceSigil, lexer.SinkSigil, lexer.TemplateSigil,
		lexer.LocationSigil, lexer.SizeSigil,
		lexer.ComesFromInline, lexer.ComesFromBlock:
		return true
	default:
		return false
	}
}

func isImportStart(p *parser) bool {
	t := p.peek()
	if t.Kind != lexer.NameTerm || t.Text != "import" {
		return false
	}
	return p.pos+1 < len(p.toks) && p.toks[p.pos+1].Kind == lexer.LParen
}

// applySigilOrImport consumes and applies exactly one sigil or import
// directive to id. Callers are responsible for the surrounding NEWLINE.
func (p *parser) applySigilOrImport(id tree.NodeID) error {
	t := p.peek()
	switch {
	case isImportStart(p):
		return p.applyImport(id)
	case t.Kind == lexer.SourceSigil:
		p.advance()
		return p.tr.SetSource(id, t.Text)
	case t.Kind == lexer.SinkSigil:
		p.advance()
		return p.tr.SetSink(id, t.Text)
	case t.Kind == lexer.TemplateSigil:
		p.advance()
		return p.applyTemplate(id, t)
	case t.Kind == lexer.LocationSigil:
		p.advance()
		d, err := lexer.ParseDimension(t.Text)
		if err != nil {
			return err
		}
		return p.tr.SetLocation(id, d)
	case t.Kind == lexer.SizeSigil:
		p.advance()
		d, err := lexer.ParseDimension(t.Text)
		if err != nil {
			return err
		}
		return p.tr.SetSize(id, d)
	// (d is passed by value; Node stores a *lexer.Dimension copy internally.)
	case t.Kind == lexer.ComesFromInline || t.Kind == lexer.ComesFromBlock:
		p.advance()
		expr, rest, err := ast.Parse(p.toks[p.pos:], p.tr.Path(id), p.funcs)
		if err != nil {
			return err
		}
		p.pos = len(p.toks) - len(rest)
		return p.tr.SetScript(id, expr)
	default:
		return fmt.Errorf("parse error: line %d: unexpected token %s", t.Line, t.Kind)
	}
}

func (p *parser) applyTemplate(id tree.NodeID, sigil lexer.Token) error {
	if err := p.tr.SetTemplate(id, sigil.Text); err != nil {
		return err
	}
	body, ok := p.templates[sigil.Text]
	if !ok {
		return fmt.Errorf("parse error: line %d: unknown template %q", sigil.Line, sigil.Text)
	}
	return p.parseTokenStream(id, body)
}

func (p *parser) applyImport(id tree.NodeID) error {
	nameLine := p.peek().Line
	p.advance()                  // 'import'
	if _, err := p.expect(lexer.LParen); err != nil {
		return err
	}
	nameTok, err := p.expect(lexer.NameTerm)
	if err != nil {
		return err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return err
	}
	body, ok := p.imports[nameTok.Text]
	if !ok {
		return fmt.Errorf("parse error: line %d: unknown import %q", nameLine, nameTok.Text)
	}
	return p.parseTokenStream(id, body)
}

// parseTokenStream parses toks in full as a sequence of trees grafted
// beneath parent, using a nested sub-parser so the outer parser's position
// is untouched.
func (p *parser) parseTokenStream(parent tree.NodeID, toks []lexer.Token) error {
	sub := &parser{toks: toks, tr: p.tr, funcs: p.funcs, templates: p.templates, imports: p.imports}
	for sub.peek().Kind != lexer.EOF {
		if err := sub.parseTree(parent); err != nil {
			return err
		}
	}
	return nil
}
