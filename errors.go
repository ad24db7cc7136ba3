package hearth

import (
	"fmt"
	"strings"

	"github.com/homegraft/hearth/internal/errs"
)

// Kind classifies an Error by which compilation or evaluation stage
// produced it, mirroring the string prefixes ("parse error:", "tokenize
// error:", ...) spec.md's own error messages use throughout C4-C9.
//
// Grounded on the teacher's GraftError/ErrorType split
// (pkg/graft/errors.go): a single concrete error struct carrying a
// category tag, rather than one Go error type per failure mode.
type Kind string

const (
	KindTokenize  Kind = "tokenize_error"
	KindParse     Kind = "parse_error"
	KindTypecheck Kind = "typecheck_error"
	KindRuntime   Kind = "runtime_error"
	KindDataflow  Kind = "dataflow_error"
	KindNumerical Kind = "numerical_error"
	KindJailbreak Kind = "jailbreak_error"
	KindUnknown   Kind = "error"
)

var prefixes = []struct {
	prefix string
	kind   Kind
}{
	{"tokenize error:", KindTokenize},
	{"parse error:", KindParse},
	{"typecheck error:", KindTypecheck},
	{"dataflow error:", KindDataflow},
	{"numerical error:", KindNumerical},
	{"jailbreak error:", KindJailbreak},
	{"runtime error:", KindRuntime},
}

// Error is hearth's root error type: every error surfaced from Build or
// from an Engine's public methods is a *Error wrapping the internal
// package error that caused it.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", strings.ReplaceAll(string(e.Kind), "_", " "), e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// classify wraps err in an *Error, inferring its Kind from the category
// prefix internal packages write onto their own error strings (see e.g.
// internal/lexer, internal/tree/link.go, internal/flow).
func classify(err error) *Error {
	if err == nil {
		return nil
	}
	if already, ok := err.(*Error); ok {
		return already
	}
	msg := err.Error()
	for _, p := range prefixes {
		if strings.HasPrefix(msg, p.prefix) {
			return &Error{Kind: p.kind, Message: strings.TrimSpace(strings.TrimPrefix(msg, p.prefix)), Cause: err}
		}
	}
	return &Error{Kind: KindUnknown, Message: msg, Cause: err}
}

// MultiError collects every error accumulated while processing a batch:
// HandleEvent fanning an event out to several observers, one of which
// fails, or LinkAndValidate walking every Script in the tree, several of
// which fail to typecheck. internal/tree builds these directly (see
// internal/errs) since it cannot import this package; MultiError is
// re-exported here so callers can type-assert a *hearth.Error's Cause
// without reaching into internal/errs themselves.
//
// Grounded on pkg/graft/errors.go's MultiError; same ansi-colored count
// header, same collect-then-join shape.
type MultiError = errs.MultiError
