// Package errors provides the small diagnostic record every pipeline stage
// fills in on failure, plus source-context rendering for the CLI.
//
// Grounded on the teacher's internal/errors.CompilerError (caret-style
// source rendering), narrowed to the {msg, range} record spec §4.6 calls
// for: the VM and compiler both accept an optional *ErrorInfo and populate
// it on the way out rather than building a list of diagnostics.
package errors

import (
	"fmt"
	"strings"

	"github.com/go-basic/core/internal/lexer"
)

// ErrorInfo carries a human-readable message and the source range of the
// failure, if one is known. The caller owns the message once returned; it
// is never retained by the stage that produced it.
type ErrorInfo struct {
	Msg   string
	Range lexer.Range
}

// Set fills in msg/rng on info if info is non-nil. The compiler and the VM
// call it on every failure path alongside the error value they return
// (the lexer and parser only return error values), so a nil *ErrorInfo
// (the caller doesn't want diagnostics) is always safe to pass.
func Set(info *ErrorInfo, msg string, rng lexer.Range) {
	if info == nil {
		return
	}
	info.Msg = msg
	info.Range = rng
}

// Format renders the error with a line of source context and a caret
// pointing at the failing column, the same convention the teacher's
// CompilerError.Format uses.
func (e *ErrorInfo) Format(source string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error at %d:%d\n", e.Range.Start.Line, e.Range.Start.Column))

	if line := sourceLine(source, e.Range.Start.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Range.Start.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Range.Start.Column-1))
		sb.WriteString("^\n")
	}

	sb.WriteString(e.Msg)
	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
