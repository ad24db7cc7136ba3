package lexer

import (
	"fmt"
	"strings"
)

// Tokenize turns source text into a flat token stream: comments stripped,
// blank lines skipped, indentation turned into Indent/Dedent markers, and
// each line's content split into operator/terminal/sigil tokens.
//
// Grounded on the teacher's single-pass, switch-on-lead-rune tokenizer
// (pkg/graft/parser/tokenizer.go) for the within-line dispatch shape; the
// indent stack itself follows spec.md §4.4 and is cross-checked against
// original_source's tokenizer.rs for the exact '-'-versus-number and
// string-escape rules.
func Tokenize(src string) ([]Token, error) {
	t := &tokenizer{
		lines:  splitLines(src),
		stack:  []int{0},
		tokens: make([]Token, 0, len(src)/4),
	}
	if err := t.run(); err != nil {
		return nil, err
	}
	return t.tokens, nil
}

type tokenizer struct {
	lines  []string
	stack  []int
	tokens []Token
	line   int // 1-based, of the line currently being scanned
}

func splitLines(src string) []string {
	src = strings.ReplaceAll(src, "\t", "    ")
	return strings.Split(src, "\n")
}

func (t *tokenizer) emit(k Kind, text string, col int) {
	t.tokens = append(t.tokens, Token{Kind: k, Text: text, Line: t.line, Col: col})
}

func (t *tokenizer) run() error {
	for i, raw := range t.lines {
		t.line = i + 1

		content, ok := stripComment(raw)
		if !ok {
			continue // blank after comment-stripping
		}

		indent := leadingSpaces(content)
		trimmed := strings.TrimRight(content[indent:], " ")
		if trimmed == "" {
			continue
		}

		if err := t.adjustIndent(indent); err != nil {
			return err
		}

		if err := t.tokenizeLine(trimmed, indent); err != nil {
			return err
		}
		t.emit(Newline, "", len(content))
	}

	for len(t.stack) > 1 {
		t.stack = t.stack[:len(t.stack)-1]
		t.emit(Dedent, "", 0)
	}
	t.emit(EOF, "", 0)
	return nil
}

// stripComment removes a trailing '#'-to-end-of-line comment (outside of a
// double-quoted string) and reports whether anything non-blank remains.
func stripComment(line string) (string, bool) {
	inString := false
	for i, r := range line {
		switch r {
		case '"':
			inString = !inString
		case '#':
			if !inString {
				line = line[:i]
				return line, strings.TrimSpace(line) != ""
			}
		}
	}
	return line, strings.TrimSpace(line) != ""
}

func leadingSpaces(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

func (t *tokenizer) adjustIndent(indent int) error {
	top := t.stack[len(t.stack)-1]
	switch {
	case indent > top:
		t.stack = append(t.stack, indent)
		t.emit(Indent, "", indent)
	case indent < top:
		for len(t.stack) > 1 && t.stack[len(t.stack)-1] > indent {
			t.stack = t.stack[:len(t.stack)-1]
			t.emit(Dedent, "", indent)
		}
		if t.stack[len(t.stack)-1] != indent {
			return fmt.Errorf("tokenize error: line %d: dedent to column %d does not match any enclosing indent level", t.line, indent)
		}
	}
	return nil
}

// tokenizeLine scans one already-trimmed line's content, left to right.
func (t *tokenizer) tokenizeLine(s string, baseCol int) error {
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ':
			i++
			continue
		case isLetter(c):
			j := i + 1
			for j < len(s) && isIdentChar(s[j]) {
				j++
			}
			word := s[i:j]
			switch word {
			case "true", "false":
				t.emit(BooleanTerm, word, baseCol+i)
			default:
				t.emit(NameTerm, word, baseCol+i)
			}
			i = j

		case isDigit(c):
			j, kind := scanNumber(s, i)
			t.emit(kind, s[i:j], baseCol+i)
			i = j

		case c == '-':
			if i+1 < len(s) && (s[i+1] == ' ' || s[i+1] == '/' || s[i+1] == '.') {
				t.emit(Subtract, "-", baseCol+i)
				i++
				continue
			}
			if i+1 < len(s) && isDigit(s[i+1]) {
				j, kind := scanNumber(s, i)
				t.emit(kind, s[i:j], baseCol+i)
				i = j
				continue
			}
			t.emit(Subtract, "-", baseCol+i)
			i++

		case c == '/':
			if i+1 >= len(s) || s[i+1] == ' ' {
				t.emit(Divide, "/", baseCol+i)
				i++
				continue
			}
			j, err := scanPath(s, i)
			if err != nil {
				return fmt.Errorf("tokenize error: line %d: %w", t.line, err)
			}
			t.emit(PathTerm, s[i:j], baseCol+i)
			i = j

		case c == '.':
			j, err := scanPath(s, i)
			if err != nil {
				return fmt.Errorf("tokenize error: line %d: %w", t.line, err)
			}
			t.emit(PathTerm, s[i:j], baseCol+i)
			i = j

		case c == '^':
			j, name, err := scanName(s, i+1)
			if err != nil {
				return fmt.Errorf("tokenize error: line %d: %w", t.line, err)
			}
			t.emit(SourceSigil, name, baseCol+i)
			i = j

		case c == '$':
			j, name, err := scanName(s, i+1)
			if err != nil {
				return fmt.Errorf("tokenize error: line %d: %w", t.line, err)
			}
			t.emit(SinkSigil, name, baseCol+i)
			i = j

		case c == '!':
			if i+1 < len(s) && s[i+1] == '=' {
				t.emit(NotEquals, "!=", baseCol+i)
				i += 2
				continue
			}
			j, name, err := scanName(s, i+1)
			if err != nil {
				return fmt.Errorf("tokenize error: line %d: %w", t.line, err)
			}
			t.emit(TemplateSigil, name, baseCol+i)
			i = j

		case c == '@':
			j := i + 1
			for j < len(s) && s[j] != ' ' {
				j++
			}
			t.emit(LocationSigil, s[i+1:j], baseCol+i)
			i = j

		case c == '<' && i+1 < len(s) && s[i+1] == '>':
			j := i + 2
			for j < len(s) && s[j] != ' ' {
				j++
			}
			t.emit(SizeSigil, s[i+2:j], baseCol+i)
			i = j

		case c == '<' && i+1 < len(s) && s[i+1] == '-':
			if i+2 < len(s) && s[i+2] == '\\' {
				t.emit(ComesFromBlock, "", baseCol+i)
				i += 3
			} else {
				t.emit(ComesFromInline, "", baseCol+i)
				i += 2
			}

		case c == '<':
			if i+1 < len(s) && s[i+1] == '=' {
				t.emit(LessThanOrEquals, "<=", baseCol+i)
				i += 2
			} else {
				t.emit(LessThan, "<", baseCol+i)
				i++
			}

		case c == '>':
			if i+1 < len(s) && s[i+1] == '=' {
				t.emit(GreaterThanOrEquals, ">=", baseCol+i)
				i += 2
			} else {
				t.emit(GreaterThan, ">", baseCol+i)
				i++
			}

		case c == '&' && i+1 < len(s) && s[i+1] == '&':
			t.emit(And, "&&", baseCol+i)
			i += 2

		case c == '|' && i+1 < len(s) && s[i+1] == '|':
			t.emit(Or, "||", baseCol+i)
			i += 2

		case c == '+':
			t.emit(Add, "+", baseCol+i)
			i++

		case c == '*':
			t.emit(Multiply, "*", baseCol+i)
			i++

		case c == '%':
			t.emit(Modulo, "%", baseCol+i)
			i++

		case c == '=' && i+1 < len(s) && s[i+1] == '=':
			t.emit(Equals, "==", baseCol+i)
			i += 2

		case c == '(':
			t.emit(LParen, "(", baseCol+i)
			i++

		case c == ')':
			t.emit(RParen, ")", baseCol+i)
			i++

		case c == '"':
			j, text, err := scanString(s, i)
			if err != nil {
				return fmt.Errorf("tokenize error: line %d: %w", t.line, err)
			}
			t.emit(StringTerm, text, baseCol+i)
			i = j

		default:
			return fmt.Errorf("tokenize error: line %d: unexpected character %q", t.line, c)
		}
	}
	return nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-'
}

// isPathChar matches spec.md's path-terminal character class
// [A-Za-z0-9._\-/{}]; braces are balanced later by the path package.
func isPathChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '.' || c == '_' || c == '-' || c == '/' || c == '{' || c == '}'
}

func scanNumber(s string, i int) (int, Kind) {
	j := i
	if s[j] == '-' {
		j++
	}
	isFloat := false
	for j < len(s) && (isDigit(s[j]) || s[j] == '.') {
		if s[j] == '.' {
			isFloat = true
		}
		j++
	}
	if isFloat {
		return j, FloatTerm
	}
	return j, IntegerTerm
}

func scanName(s string, i int) (int, string, error) {
	j := i
	for j < len(s) && isIdentChar(s[j]) {
		j++
	}
	if j == i {
		return 0, "", fmt.Errorf("expected a name at column %d", i)
	}
	return j, s[i:j], nil
}

func scanPath(s string, i int) (int, error) {
	j := i
	for j < len(s) && isPathChar(s[j]) {
		j++
	}
	return j, nil
}

func scanString(s string, i int) (int, string, error) {
	var b strings.Builder
	j := i + 1
	for j < len(s) {
		c := s[j]
		if c == '\\' && j+1 < len(s) && s[j+1] == '"' {
			b.WriteByte('"')
			j += 2
			continue
		}
		if c == '"' {
			return j + 1, b.String(), nil
		}
		b.WriteByte(c)
		j++
	}
	return 0, "", fmt.Errorf("unterminated string literal")
}
