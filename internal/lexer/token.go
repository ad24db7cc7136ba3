// Package lexer implements the indentation-aware tokenizer of spec.md C4:
// it turns configuration-file text into a flat stream of tokens carrying
// Indent/Dedent markers, sigil-prefixed tokens, operators, and terminals.
//
// Grounded on the teacher's character-at-a-time tokenizer
// (pkg/graft/parser/tokenizer.go) for the single-pass switch-on-lead-rune
// shape; the indentation stack itself has no analogue in the teacher (YAML
// is not indentation-significant to graft at this layer) and is built
// directly from spec.md §4.4 and original_source's tokenizer.rs.
package lexer

import "fmt"

// Kind identifies the lexical class of a Token.
type Kind int

const (
	Indent Kind = iota
	Dedent
	Newline
	EOF

	NameTerm
	BooleanTerm
	IntegerTerm
	FloatTerm
	StringTerm
	PathTerm

	SourceSigil      // ^name
	SinkSigil        // $name
	TemplateSigil    // !name
	LocationSigil    // @dim
	SizeSigil        // <>dim
	ComesFromInline  // <-
	ComesFromBlock   // <-\

	Add
	Subtract
	Multiply
	Divide
	Modulo
	And
	Or
	Equals
	NotEquals
	LessThan
	LessThanOrEquals
	GreaterThan
	GreaterThanOrEquals

	LParen
	RParen
)

func (k Kind) String() string {
	switch k {
	case Indent:
		return "INDENT"
	case Dedent:
		return "DEDENT"
	case Newline:
		return "NEWLINE"
	case EOF:
		return "EOF"
	case NameTerm:
		return "NAME"
	case BooleanTerm:
		return "BOOLEAN"
	case IntegerTerm:
		return "INTEGER"
	case FloatTerm:
		return "FLOAT"
	case StringTerm:
		return "STRING"
	case PathTerm:
		return "PATH"
	case SourceSigil:
		return "SOURCE"
	case SinkSigil:
		return "SINK"
	case TemplateSigil:
		return "TEMPLATE"
	case LocationSigil:
		return "LOCATION"
	case SizeSigil:
		return "SIZE"
	case ComesFromInline:
		return "<-"
	case ComesFromBlock:
		return `<-\`
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Modulo:
		return "%"
	case And:
		return "&&"
	case Or:
		return "||"
	case Equals:
		return "=="
	case NotEquals:
		return "!="
	case LessThan:
		return "<"
	case LessThanOrEquals:
		return "<="
	case GreaterThan:
		return ">"
	case GreaterThanOrEquals:
		return ">="
	case LParen:
		return "("
	case RParen:
		return ")"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Token is one lexical unit of the token stream.
type Token struct {
	Kind Kind
	Text string // raw/decoded text: identifier name, string contents, path spelling, ...
	Line int
	Col  int
}

func (t Token) String() string {
	if t.Text != "" {
		return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Text, t.Line, t.Col)
	}
	return fmt.Sprintf("%s@%d:%d", t.Kind, t.Line, t.Col)
}
