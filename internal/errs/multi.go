// Package errs holds the error-aggregation type shared by internal/tree
// and the root hearth package, kept in its own package so internal/tree
// can accumulate errors without importing the root package that embeds
// it (hearth re-exports MultiError as a type alias).
package errs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/starkandwayne/goutils/ansi"
)

// MultiError collects every error accumulated while processing a batch
// (HandleEvent fanning an event out to several observers, or
// LinkAndValidate walking every Script in the tree) without aborting the
// rest: a failure at one observer or one Script doesn't hide failures at
// the others.
//
// Grounded on the teacher's pkg/graft/errors.go MultiError: same
// ansi-colored count header, same collect-then-join shape.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	lines := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		lines = append(lines, fmt.Sprintf(" - %s\n", err))
	}
	sort.Strings(lines)
	return ansi.Sprintf("@R{%d} error(s):\n%s", len(e.Errors), strings.Join(lines, ""))
}

func (e *MultiError) Count() int { return len(e.Errors) }

func (e *MultiError) Append(err error) {
	if err == nil {
		return
	}
	if m, ok := err.(MultiError); ok {
		e.Errors = append(e.Errors, m.Errors...)
		return
	}
	e.Errors = append(e.Errors, err)
}

// ErrOrNil returns nil if the MultiError is empty, itself otherwise — the
// usual idiom for returning an accumulator as a plain error.
func (e MultiError) ErrOrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
