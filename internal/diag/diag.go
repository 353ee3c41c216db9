// Package diag defines the diagnostic type shared by every pipeline
// stage: lexer, parser, sema, and ir each abort with the first
// *diag.Error they hit rather than a bare string. The Errors
// collection type is defined here; no pipeline stage returns one.
package diag

import (
	"fmt"
	"strings"

	"github.com/lucidlang/lucidc/internal/source"
)

// Error is a single compiler diagnostic: a source location plus a
// human-readable message. There are no structured error codes, per
// the diagnostic surface this compiler exposes.
type Error struct {
	Loc source.Location
	Msg string
}

func (e *Error) Error() string {
	return e.Loc.String() + ": " + e.Msg
}

// New builds an Error at loc with a formatted message.
func New(loc source.Location, format string, args ...any) *Error {
	return &Error{Loc: loc, Msg: fmt.Sprintf(format, args...)}
}

// Errors collects every diagnostic a stage produced before aborting.
type Errors []*Error

func (es Errors) Error() string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n")
}

// HasErrors reports whether any diagnostic was recorded.
func (es Errors) HasErrors() bool { return len(es) > 0 }
