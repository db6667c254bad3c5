package parser

import (
	"testing"

	"github.com/go-basic/core/internal/ast"
	"github.com/go-basic/core/internal/lexer"
)

func parseString(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("lexer.Tokenize(%q): %v", src, err)
	}
	stmts, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return stmts
}

func TestParseImplicitLet(t *testing.T) {
	stmts := parseString(t, "A% = 1")
	if len(stmts) != 1 {
		t.Fatalf("len(stmts) = %d, want 1", len(stmts))
	}
	let, ok := stmts[0].(*ast.LetStmt)
	if !ok {
		t.Fatalf("stmts[0] = %T, want *ast.LetStmt", stmts[0])
	}
	if let.Kw {
		t.Error("let.Kw = true, want false for implicit assignment")
	}
	if let.LHS.Name != "A%" {
		t.Errorf("let.LHS.Name = %q, want %q", let.LHS.Name, "A%")
	}
}

func TestParseKeywordLet(t *testing.T) {
	stmts := parseString(t, "LET A% = 1")
	let, ok := stmts[0].(*ast.LetStmt)
	if !ok {
		t.Fatalf("stmts[0] = %T, want *ast.LetStmt", stmts[0])
	}
	if !let.Kw {
		t.Error("let.Kw = false, want true for LET-prefixed assignment")
	}
}

func TestParsePrintSeparators(t *testing.T) {
	stmts := parseString(t, `PRINT 1, 2; 3`)
	call, ok := stmts[0].(*ast.CallStmt)
	if !ok {
		t.Fatalf("stmts[0] = %T, want *ast.CallStmt", stmts[0])
	}
	if len(call.Args) != 3 {
		t.Fatalf("len(call.Args) = %d, want 3", len(call.Args))
	}
	wantSeps := []byte{',', ';', 0}
	for i, want := range wantSeps {
		if call.Seps[i] != want {
			t.Errorf("call.Seps[%d] = %q, want %q", i, call.Seps[i], want)
		}
	}
}

func TestParseMultipleStatementsOnOneLine(t *testing.T) {
	stmts := parseString(t, "A% = 1 : B% = 2")
	if len(stmts) != 2 {
		t.Fatalf("len(stmts) = %d, want 2", len(stmts))
	}
}

func TestParseTrailingRemarkBecomesOwnStatement(t *testing.T) {
	stmts := parseString(t, "A% = 1 ' trailing note")
	if len(stmts) != 2 {
		t.Fatalf("len(stmts) = %d, want 2", len(stmts))
	}
	if _, ok := stmts[0].(*ast.LetStmt); !ok {
		t.Fatalf("stmts[0] = %T, want *ast.LetStmt", stmts[0])
	}
	rem, ok := stmts[1].(*ast.RemarkStmt)
	if !ok {
		t.Fatalf("stmts[1] = %T, want *ast.RemarkStmt", stmts[1])
	}
	if rem.Text != "' trailing note" {
		t.Errorf("rem.Text = %q, want %q", rem.Text, "' trailing note")
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	stmts := parseString(t, "A = 1 + 2 * 3")
	let := stmts[0].(*ast.LetStmt)
	bin, ok := let.RHS.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("RHS = %T, want *ast.BinaryExpr", let.RHS)
	}
	if bin.Op != ast.OpAdd {
		t.Fatalf("top operator = %s, want +", bin.Op)
	}
	rhs, ok := bin.RHS.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("bin.RHS = %T, want *ast.BinaryExpr (the * subtree)", bin.RHS)
	}
	if rhs.Op != ast.OpMul {
		t.Fatalf("bin.RHS operator = %s, want *", rhs.Op)
	}
}

func TestParseParenthesizedExpr(t *testing.T) {
	stmts := parseString(t, "A = (1 + 2) * 3")
	let := stmts[0].(*ast.LetStmt)
	bin := let.RHS.(*ast.BinaryExpr)
	if bin.Op != ast.OpMul {
		t.Fatalf("top operator = %s, want *", bin.Op)
	}
	if _, ok := bin.LHS.(*ast.BinaryExpr); !ok {
		t.Fatalf("bin.LHS = %T, want *ast.BinaryExpr (the parenthesized +)", bin.LHS)
	}
}

func TestParseUnaryMinus(t *testing.T) {
	stmts := parseString(t, "A = -1")
	let := stmts[0].(*ast.LetStmt)
	un, ok := let.RHS.(*ast.UnaryExpr)
	if !ok {
		t.Fatalf("RHS = %T, want *ast.UnaryExpr", let.RHS)
	}
	if un.Op != ast.OpNeg {
		t.Fatalf("un.Op = %v, want OpNeg", un.Op)
	}
}

func TestParseIfThenElse(t *testing.T) {
	stmts := parseString(t, "IF A% = 1 THEN B% = 2 ELSE B% = 3")
	if2, ok := stmts[0].(*ast.If2Stmt)
	if !ok {
		t.Fatalf("stmts[0] = %T, want *ast.If2Stmt", stmts[0])
	}
	if _, ok := if2.Then.(*ast.LetStmt); !ok {
		t.Fatalf("if2.Then = %T, want *ast.LetStmt", if2.Then)
	}
	if _, ok := if2.Else.(*ast.LetStmt); !ok {
		t.Fatalf("if2.Else = %T, want *ast.LetStmt", if2.Else)
	}
}

func TestParsePragma(t *testing.T) {
	stmts := parseString(t, `PRAGMA "expected text"`)
	pragma, ok := stmts[0].(*ast.PragmaStmt)
	if !ok {
		t.Fatalf("stmts[0] = %T, want *ast.PragmaStmt", stmts[0])
	}
	str, ok := pragma.Value.(*ast.ImmString)
	if !ok {
		t.Fatalf("pragma.Value = %T, want *ast.ImmString", pragma.Value)
	}
	if str.Value != "expected text" {
		t.Errorf("str.Value = %q, want %q", str.Value, "expected text")
	}
}

func TestParseModOperator(t *testing.T) {
	stmts := parseString(t, "A% = 7 MOD 2")
	let := stmts[0].(*ast.LetStmt)
	bin, ok := let.RHS.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("RHS = %T, want *ast.BinaryExpr", let.RHS)
	}
	if bin.Op != ast.OpMod {
		t.Fatalf("bin.Op = %s, want MOD", bin.Op)
	}
}

func TestParseMissingTerminatorError(t *testing.T) {
	tokens, err := lexer.Tokenize("A% = 1 B% = 2")
	if err != nil {
		t.Fatalf("lexer.Tokenize: %v", err)
	}
	_, err = Parse(tokens)
	if err == nil {
		t.Fatal("Parse: expected an error for two statements with no separator")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("err = %T, want *ParseError", err)
	}
	if pe.Kind != KindExpectedTerminator {
		t.Errorf("pe.Kind = %s, want %s", pe.Kind, KindExpectedTerminator)
	}
}

func TestParseUnexpectedEndOfInput(t *testing.T) {
	tokens, err := lexer.Tokenize("A% = ")
	if err != nil {
		t.Fatalf("lexer.Tokenize: %v", err)
	}
	_, err = Parse(tokens)
	if err == nil {
		t.Fatal("Parse: expected an error for a dangling assignment")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("err = %T, want *ParseError", err)
	}
	if pe.Kind != KindUnexpectedEnd {
		t.Errorf("pe.Kind = %s, want %s", pe.Kind, KindUnexpectedEnd)
	}
}
