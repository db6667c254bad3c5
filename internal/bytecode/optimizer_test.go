package bytecode

import (
	"testing"

	"github.com/go-basic/core/internal/ast"
)

func TestFoldConstantsSameTypeIntegers(t *testing.T) {
	expr := &ast.BinaryExpr{
		LHS: &ast.ImmInteger{Value: 2},
		Op:  ast.OpAdd,
		RHS: &ast.ImmInteger{Value: 3},
	}
	folded := foldExpr(expr)
	lit, ok := folded.(*ast.ImmInteger)
	if !ok {
		t.Fatalf("folded = %T, want *ast.ImmInteger", folded)
	}
	if lit.Value != 5 {
		t.Errorf("lit.Value = %d, want 5", lit.Value)
	}
}

func TestFoldConstantsMixedTypeLeftAlone(t *testing.T) {
	expr := &ast.BinaryExpr{
		LHS: &ast.ImmInteger{Value: 2},
		Op:  ast.OpAdd,
		RHS: &ast.ImmSingle{Value: 3.5},
	}
	folded := foldExpr(expr)
	if _, ok := folded.(*ast.BinaryExpr); !ok {
		t.Fatalf("folded = %T, want *ast.BinaryExpr (mixed-type pairs are not folded)", folded)
	}
}

func TestFoldConstantsStringConcat(t *testing.T) {
	expr := &ast.BinaryExpr{
		LHS: &ast.ImmString{Value: "foo"},
		Op:  ast.OpAdd,
		RHS: &ast.ImmString{Value: "bar"},
	}
	folded := foldExpr(expr)
	lit, ok := folded.(*ast.ImmString)
	if !ok {
		t.Fatalf("folded = %T, want *ast.ImmString", folded)
	}
	if lit.Value != "foobar" {
		t.Errorf("lit.Value = %q, want %q", lit.Value, "foobar")
	}
}

func TestFoldConstantsDivisionByZeroLeftUnfolded(t *testing.T) {
	expr := &ast.BinaryExpr{
		LHS: &ast.ImmInteger{Value: 10},
		Op:  ast.OpIDiv,
		RHS: &ast.ImmInteger{Value: 0},
	}
	folded := foldExpr(expr)
	if _, ok := folded.(*ast.BinaryExpr); !ok {
		t.Fatalf("folded = %T, want *ast.BinaryExpr (division by zero is not folded at compile time)", folded)
	}
}

func TestFoldConstantsNestedExpression(t *testing.T) {
	// (2 + 3) * 4 -> both levels are same-type INTEGER, should fully fold.
	expr := &ast.BinaryExpr{
		LHS: &ast.BinaryExpr{
			LHS: &ast.ImmInteger{Value: 2},
			Op:  ast.OpAdd,
			RHS: &ast.ImmInteger{Value: 3},
		},
		Op:  ast.OpMul,
		RHS: &ast.ImmInteger{Value: 4},
	}
	folded := foldExpr(expr)
	lit, ok := folded.(*ast.ImmInteger)
	if !ok {
		t.Fatalf("folded = %T, want *ast.ImmInteger", folded)
	}
	if lit.Value != 20 {
		t.Errorf("lit.Value = %d, want 20", lit.Value)
	}
}

func TestFoldConstantsUnaryNegate(t *testing.T) {
	expr := &ast.UnaryExpr{Op: ast.OpNeg, Operand: &ast.ImmDouble{Value: 1.5}}
	folded := foldExpr(expr)
	lit, ok := folded.(*ast.ImmDouble)
	if !ok {
		t.Fatalf("folded = %T, want *ast.ImmDouble", folded)
	}
	if lit.Value != -1.5 {
		t.Errorf("lit.Value = %v, want -1.5", lit.Value)
	}
}

func TestCompileWithOptionsNoOptimizeKeepsBinaryExpr(t *testing.T) {
	chunk := compileSource(t, "A% = 2 + 3", CompileOptions{Optimize: false})
	// Without folding, two PUSH_IMM_INTEGER instructions and an add opcode
	// should appear; with folding only one literal push would appear.
	pushes := countOp(chunk, OpPushImmInteger)
	if pushes != 2 {
		t.Errorf("pushes = %d, want 2 unfolded PUSH_IMM_INTEGER instructions", pushes)
	}
}

func TestCompileDefaultOptimizesConstantExpression(t *testing.T) {
	chunk := compileSource(t, "A% = 2 + 3", CompileOptions{Optimize: true})
	pushes := countOp(chunk, OpPushImmInteger)
	if pushes != 1 {
		t.Errorf("pushes = %d, want 1 folded PUSH_IMM_INTEGER instruction", pushes)
	}
}

// countOp counts the instructions in c whose opcode is want, stepping over
// each instruction's operand bytes so that an operand byte equal to want's
// value is not mistaken for an opcode.
func countOp(c *Chunk, want OpCode) int {
	n := 0
	for off := 0; off < len(c.Code); {
		op := OpCode(c.Code[off])
		if op == want {
			n++
		}
		w := OperandWidth(op)
		if w < 0 {
			_, w = readString(c.Code, off+1)
		}
		off += 1 + w
	}
	return n
}
