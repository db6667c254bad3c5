package errors

import (
	"strings"
	"testing"

	"github.com/go-basic/core/internal/lexer"
)

func TestSetIsNoOpOnNilInfo(t *testing.T) {
	// Must not panic: the compiler and VM call Set unconditionally even
	// when a caller passed a nil *ErrorInfo to opt out of diagnostics.
	Set(nil, "boom", lexer.Range{})
}

func TestSetPopulatesInfo(t *testing.T) {
	var info ErrorInfo
	rng := lexer.Range{Start: lexer.Position{Line: 2, Column: 3}, End: lexer.Position{Line: 2, Column: 4}}
	Set(&info, "bad thing", rng)
	if info.Msg != "bad thing" {
		t.Errorf("info.Msg = %q, want %q", info.Msg, "bad thing")
	}
	if info.Range != rng {
		t.Errorf("info.Range = %+v, want %+v", info.Range, rng)
	}
}

func TestFormatRendersSourceLineAndCaret(t *testing.T) {
	source := "A% = 1\nB% = \"x\"\n"
	info := ErrorInfo{
		Msg:   "type mismatch",
		Range: lexer.Range{Start: lexer.Position{Line: 2, Column: 6}, End: lexer.Position{Line: 2, Column: 9}},
	}
	out := info.Format(source)
	if !strings.Contains(out, `B% = "x"`) {
		t.Errorf("Format output %q does not include the offending source line", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("Format output %q does not include a caret", out)
	}
	if !strings.Contains(out, "type mismatch") {
		t.Errorf("Format output %q does not include the message", out)
	}
}

func TestFormatOutOfRangeLineIsGraceful(t *testing.T) {
	info := ErrorInfo{
		Msg:   "oops",
		Range: lexer.Range{Start: lexer.Position{Line: 99, Column: 1}},
	}
	out := info.Format("one line only")
	if !strings.Contains(out, "oops") {
		t.Errorf("Format output %q should still include the message", out)
	}
}
