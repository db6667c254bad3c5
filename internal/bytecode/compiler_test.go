package bytecode

import (
	"testing"

	"github.com/go-basic/core/internal/errors"
	"github.com/go-basic/core/internal/lexer"
	"github.com/go-basic/core/internal/parser"
)

func compileSource(t *testing.T, src string, opts CompileOptions) *Chunk {
	t.Helper()
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("lexer.Tokenize(%q): %v", src, err)
	}
	stmts, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parser.Parse(%q): %v", src, err)
	}
	var info errors.ErrorInfo
	chunk, err := CompileWithOptions(stmts, &info, opts)
	if err != nil {
		t.Fatalf("Compile(%q): %v (%s)", src, err, info.Msg)
	}
	return chunk
}

func TestCompileSlotAllocationFirstUseWins(t *testing.T) {
	chunk := compileSource(t, "A% = 1\nB$ = \"x\"\nA% = 2", CompileOptions{})
	if len(chunk.SlotNames) != 2 {
		t.Fatalf("len(SlotNames) = %d, want 2", len(chunk.SlotNames))
	}
	if chunk.SlotNames[0] != "A%" || chunk.SlotNames[1] != "B$" {
		t.Fatalf("SlotNames = %v, want [A%% B$]", chunk.SlotNames)
	}
	if chunk.SlotTypes[0] != ValueInteger {
		t.Errorf("SlotTypes[0] = %s, want INTEGER", chunk.SlotTypes[0])
	}
	if chunk.SlotTypes[1] != ValueString {
		t.Errorf("SlotTypes[1] = %s, want STRING", chunk.SlotTypes[1])
	}
}

func TestCompileLetCoercesIntoSlotType(t *testing.T) {
	// B# is DOUBLE; RHS is a bare INTEGER literal that must be widened.
	chunk := compileSource(t, "B# = 1", CompileOptions{})
	found := false
	for _, b := range chunk.Code {
		if OpCode(b) == OpCoerceIntegerDouble {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a COERCE_INTEGER_DOUBLE in %v", disasmLines(chunk))
	}
}

func TestCompileStringNumericMismatchIsCompileError(t *testing.T) {
	tokens, err := lexer.Tokenize(`A% = "x"`)
	if err != nil {
		t.Fatalf("lexer.Tokenize: %v", err)
	}
	stmts, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parser.Parse: %v", err)
	}
	var info errors.ErrorInfo
	_, err = Compile(stmts, &info)
	if err == nil {
		t.Fatal("Compile: expected a type mismatch error assigning a string to an INTEGER slot")
	}
	if _, ok := err.(*CompileError); !ok {
		t.Fatalf("err = %T, want *CompileError", err)
	}
}

func TestCompileUnknownBuiltinIsCompileError(t *testing.T) {
	tokens, err := lexer.Tokenize("FROBNICATE 1")
	if err != nil {
		t.Fatalf("lexer.Tokenize: %v", err)
	}
	stmts, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parser.Parse: %v", err)
	}
	var info errors.ErrorInfo
	_, err = Compile(stmts, &info)
	if err == nil {
		t.Fatal("Compile: expected an error for an unrecognized built-in")
	}
}

func TestCompilePrintTrailingSeparatorSuppressesLinefeed(t *testing.T) {
	withSemicolon := compileSource(t, "PRINT 1;", CompileOptions{})
	withoutSep := compileSource(t, "PRINT 1", CompileOptions{})

	hasLinefeed := func(c *Chunk) bool {
		for _, b := range c.Code {
			if OpCode(b) == OpBuiltinPrintLinefeed {
				return true
			}
		}
		return false
	}
	if hasLinefeed(withSemicolon) {
		t.Error("PRINT 1; should suppress the automatic trailing linefeed")
	}
	if !hasLinefeed(withoutSep) {
		t.Error("PRINT 1 should emit the automatic trailing linefeed")
	}
}

func TestCompileControlFlowStatementsEmitNoInstructions(t *testing.T) {
	chunk := compileSource(t, "IF A% = 1 THEN GOTO done", CompileOptions{})
	if len(chunk.Code) != 0 {
		t.Errorf("Code = %v, want empty (control flow is a no-code extension point)", chunk.Code)
	}
}

func disasmLines(c *Chunk) string {
	return DisassembleToString(c)
}
