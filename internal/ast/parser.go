package ast

import (
	"fmt"

	"github.com/homegraft/hearth/internal/lexer"
	"github.com/homegraft/hearth/internal/path"
	"github.com/homegraft/hearth/internal/value"
)

// CallResolver answers whether a name is a registered native callable; the
// parser only needs existence (§4.5), not the callable itself — resolution
// to a concrete implementation happens in internal/tree at link time.
type CallResolver interface {
	Has(name string) bool
}

// precedence table, §4.5. Higher binds tighter.
var binaryPrecedence = map[lexer.Kind]int{
	lexer.Divide:              15,
	lexer.Modulo:               15,
	lexer.Multiply:             15,
	lexer.Subtract:             13,
	lexer.Add:                  13,
	lexer.LessThan:             12,
	lexer.GreaterThan:          12,
	lexer.LessThanOrEquals:     12,
	lexer.GreaterThanOrEquals:  12,
	lexer.Equals:               11,
	lexer.NotEquals:            11,
	lexer.And:                  10,
	lexer.Or:                    9,
}

var binaryKind = map[lexer.Kind]NodeKind{
	lexer.Divide:              KindDiv,
	lexer.Modulo:              KindMod,
	lexer.Multiply:            KindMul,
	lexer.Subtract:            KindSub,
	lexer.Add:                 KindAdd,
	lexer.LessThan:            KindLt,
	lexer.GreaterThan:         KindGt,
	lexer.LessThanOrEquals:    KindLe,
	lexer.GreaterThanOrEquals: KindGe,
	lexer.Equals:              KindEq,
	lexer.NotEquals:           KindNe,
	lexer.And:                 KindAnd,
	lexer.Or:                  KindOr,
}

const unaryNegPrecedence = 14

// Parse parses a single expression from the front of tokens (stopping at
// the first Newline or EOF), returning the expression and the tokens that
// follow it. basePath is the path of the node the expression is attached
// to, used to resolve relative PathTerm tokens; resolver validates call
// names as they're parsed.
func Parse(tokens []lexer.Token, basePath path.ConcretePath, resolver CallResolver) (*Expr, []lexer.Token, error) {
	p := &parser{tokens: tokens, basePath: basePath, resolver: resolver}
	expr, err := p.parseExpr(0)
	if err != nil {
		return nil, nil, err
	}
	return expr, p.tokens[p.pos:], nil
}

type parser struct {
	tokens   []lexer.Token
	pos      int
	basePath path.ConcretePath
	resolver CallResolver
}

func (p *parser) peek() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() lexer.Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) parseExpr(minPrec int) (*Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		prec, isBinary := binaryPrecedence[tok.Kind]
		if !isBinary || prec < minPrec {
			return left, nil
		}
		p.advance()
		right, err := p.parseExpr(prec + 1) // all binary ops are left-associative
		if err != nil {
			return nil, err
		}
		left = Bin(binaryKind[tok.Kind], left, right)
	}
}

func (p *parser) parseUnary() (*Expr, error) {
	if p.peek().Kind == lexer.Subtract {
		p.advance()
		operand, err := p.parseExpr(unaryNegPrecedence)
		if err != nil {
			return nil, err
		}
		return Unary(operand), nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.BooleanTerm:
		p.advance()
		return Val(value.Bool(tok.Text == "true")), nil

	case lexer.IntegerTerm:
		p.advance()
		n, err := parseInt(tok.Text)
		if err != nil {
			return nil, fmt.Errorf("parse error: line %d: %w", tok.Line, err)
		}
		return Val(value.Int(n)), nil

	case lexer.FloatTerm:
		p.advance()
		f, err := parseFloat(tok.Text)
		if err != nil {
			return nil, fmt.Errorf("parse error: line %d: %w", tok.Line, err)
		}
		return Val(value.Flt(f)), nil

	case lexer.StringTerm:
		p.advance()
		return Val(value.Str(tok.Text)), nil

	case lexer.PathTerm:
		p.advance()
		sp, err := path.Parse(p.basePath, tok.Text)
		if err != nil {
			return nil, err
		}
		return Val(value.Path(sp)), nil

	case lexer.LParen:
		p.advance()
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if p.peek().Kind != lexer.RParen {
			return nil, fmt.Errorf("parse error: line %d: expected ')'", tok.Line)
		}
		p.advance()
		return inner, nil

	case lexer.NameTerm:
		name := tok.Text
		if p.resolver != nil && !p.resolver.Has(name) {
			return nil, fmt.Errorf("parse error: line %d: unknown function %q", tok.Line, name)
		}
		p.advance()
		if p.peek().Kind != lexer.LParen {
			return nil, fmt.Errorf("parse error: line %d: expected '(' after function name %q", tok.Line, name)
		}
		p.advance()
		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if p.peek().Kind != lexer.RParen {
			return nil, fmt.Errorf("parse error: line %d: expected ')' to close call to %q", tok.Line, name)
		}
		p.advance()
		return Call(name, arg), nil

	default:
		return nil, fmt.Errorf("parse error: line %d: unexpected token %s in expression", tok.Line, tok.Kind)
	}
}
