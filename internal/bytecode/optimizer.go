package bytecode

import (
	"math"

	"github.com/go-basic/core/internal/ast"
)

// foldConstants returns stmts with constant arithmetic subexpressions
// collapsed to a single literal (SPEC_FULL §4.3 expansion "optimizer",
// default on). Grounded on the teacher's foldBinaryOp/foldIntegerOp/
// foldFloatOp, adapted from a post-bytecode peephole over a fixed-width,
// jump-threaded instruction stream to an AST rewrite performed once
// before code generation: this core's flat byte stream has no constant
// pool and no jumps to re-target, so folding at the tree level is both
// simpler and sufficient.
//
// Folding only ever collapses two literals of the *same* natural type
// into one literal of that type, except that '/' on two INTEGER or two
// LONG literals yields a SINGLE literal, the type the compiler gives that
// division. A mixed-type operand pair (e.g.
// INTEGER + SINGLE) still needs the join-and-coerce codegen the
// unfolded path already emits correctly, so foldBinary leaves it alone
// rather than re-deriving the compiler's coercion lattice here.
func foldConstants(stmts []ast.Stmt) []ast.Stmt {
	out := make([]ast.Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = foldStmt(s)
	}
	return out
}

func foldStmt(s ast.Stmt) ast.Stmt {
	switch st := s.(type) {
	case *ast.LetStmt:
		cp := *st
		cp.RHS = foldExpr(st.RHS)
		return &cp
	case *ast.CallStmt:
		if len(st.Args) == 0 {
			return s
		}
		cp := *st
		cp.Args = make([]ast.Expr, len(st.Args))
		for i, a := range st.Args {
			cp.Args[i] = foldExpr(a)
		}
		return &cp
	case *ast.PragmaStmt:
		cp := *st
		cp.Value = foldExpr(st.Value)
		return &cp
	case *ast.If1Stmt:
		cp := *st
		cp.Cond = foldExpr(st.Cond)
		cp.Then = foldStmt(st.Then)
		return &cp
	case *ast.If2Stmt:
		cp := *st
		cp.Cond = foldExpr(st.Cond)
		cp.Then = foldStmt(st.Then)
		cp.Else = foldStmt(st.Else)
		return &cp
	}
	return s
}

func foldExpr(e ast.Expr) ast.Expr {
	switch ex := e.(type) {
	case *ast.UnaryExpr:
		operand := foldExpr(ex.Operand)
		if folded, ok := foldUnary(ex.Op, operand); ok {
			return folded
		}
		cp := *ex
		cp.Operand = operand
		return &cp
	case *ast.BinaryExpr:
		lhs := foldExpr(ex.LHS)
		rhs := foldExpr(ex.RHS)
		if folded, ok := foldBinary(ex.Op, lhs, rhs); ok {
			return folded
		}
		cp := *ex
		cp.LHS = lhs
		cp.RHS = rhs
		return &cp
	}
	return e
}

func foldUnary(op ast.UnOp, operand ast.Expr) (ast.Expr, bool) {
	if op != ast.OpNeg {
		return nil, false
	}
	switch v := operand.(type) {
	case *ast.ImmInteger:
		return &ast.ImmInteger{Value: -v.Value, Rng: v.Rng}, true
	case *ast.ImmLong:
		return &ast.ImmLong{Value: -v.Value, Rng: v.Rng}, true
	case *ast.ImmSingle:
		return &ast.ImmSingle{Value: -v.Value, Rng: v.Rng}, true
	case *ast.ImmDouble:
		return &ast.ImmDouble{Value: -v.Value, Rng: v.Rng}, true
	}
	return nil, false
}

// foldBinary folds lhs OP rhs when both sides are same-typed numeric
// literals (or, for OpAdd, same-typed string literals). The folded
// literal keeps the LHS literal's range so error messages pointing at it
// still land on the original source span.
func foldBinary(op ast.BinOp, lhs, rhs ast.Expr) (ast.Expr, bool) {
	switch l := lhs.(type) {
	case *ast.ImmInteger:
		r, ok := rhs.(*ast.ImmInteger)
		if !ok {
			return nil, false
		}
		return foldInteger(op, l, r)
	case *ast.ImmLong:
		r, ok := rhs.(*ast.ImmLong)
		if !ok {
			return nil, false
		}
		return foldLong(op, l, r)
	case *ast.ImmSingle:
		r, ok := rhs.(*ast.ImmSingle)
		if !ok {
			return nil, false
		}
		return foldSingle(op, l, r)
	case *ast.ImmDouble:
		r, ok := rhs.(*ast.ImmDouble)
		if !ok {
			return nil, false
		}
		return foldDouble(op, l, r)
	case *ast.ImmString:
		r, ok := rhs.(*ast.ImmString)
		if !ok {
			return nil, false
		}
		if op != ast.OpAdd {
			return nil, false
		}
		return &ast.ImmString{Value: l.Value + r.Value, Rng: l.Rng}, true
	}
	return nil, false
}

func foldInteger(op ast.BinOp, l, r *ast.ImmInteger) (ast.Expr, bool) {
	switch op {
	case ast.OpAdd:
		return &ast.ImmInteger{Value: l.Value + r.Value, Rng: l.Rng}, true
	case ast.OpSub:
		return &ast.ImmInteger{Value: l.Value - r.Value, Rng: l.Rng}, true
	case ast.OpMul:
		return &ast.ImmInteger{Value: l.Value * r.Value, Rng: l.Rng}, true
	case ast.OpIDiv:
		if r.Value == 0 {
			return nil, false
		}
		return &ast.ImmInteger{Value: l.Value / r.Value, Rng: l.Rng}, true
	case ast.OpMod:
		if r.Value == 0 {
			return nil, false
		}
		return &ast.ImmInteger{Value: l.Value % r.Value, Rng: l.Rng}, true
	case ast.OpDiv:
		if r.Value == 0 {
			return nil, false
		}
		return &ast.ImmSingle{Value: float32(l.Value) / float32(r.Value), Rng: l.Rng}, true
	}
	return nil, false
}

func foldLong(op ast.BinOp, l, r *ast.ImmLong) (ast.Expr, bool) {
	switch op {
	case ast.OpAdd:
		return &ast.ImmLong{Value: l.Value + r.Value, Rng: l.Rng}, true
	case ast.OpSub:
		return &ast.ImmLong{Value: l.Value - r.Value, Rng: l.Rng}, true
	case ast.OpMul:
		return &ast.ImmLong{Value: l.Value * r.Value, Rng: l.Rng}, true
	case ast.OpIDiv:
		if r.Value == 0 {
			return nil, false
		}
		return &ast.ImmLong{Value: l.Value / r.Value, Rng: l.Rng}, true
	case ast.OpMod:
		if r.Value == 0 {
			return nil, false
		}
		return &ast.ImmLong{Value: l.Value % r.Value, Rng: l.Rng}, true
	case ast.OpDiv:
		if r.Value == 0 {
			return nil, false
		}
		return &ast.ImmSingle{Value: float32(l.Value) / float32(r.Value), Rng: l.Rng}, true
	}
	return nil, false
}

func foldSingle(op ast.BinOp, l, r *ast.ImmSingle) (ast.Expr, bool) {
	switch op {
	case ast.OpAdd:
		return &ast.ImmSingle{Value: l.Value + r.Value, Rng: l.Rng}, true
	case ast.OpSub:
		return &ast.ImmSingle{Value: l.Value - r.Value, Rng: l.Rng}, true
	case ast.OpMul:
		return &ast.ImmSingle{Value: l.Value * r.Value, Rng: l.Rng}, true
	case ast.OpDiv:
		return &ast.ImmSingle{Value: l.Value / r.Value, Rng: l.Rng}, true
	case ast.OpMod:
		return &ast.ImmSingle{Value: float32(math.Mod(float64(l.Value), float64(r.Value))), Rng: l.Rng}, true
	}
	return nil, false
}

func foldDouble(op ast.BinOp, l, r *ast.ImmDouble) (ast.Expr, bool) {
	switch op {
	case ast.OpAdd:
		return &ast.ImmDouble{Value: l.Value + r.Value, Rng: l.Rng}, true
	case ast.OpSub:
		return &ast.ImmDouble{Value: l.Value - r.Value, Rng: l.Rng}, true
	case ast.OpMul:
		return &ast.ImmDouble{Value: l.Value * r.Value, Rng: l.Rng}, true
	case ast.OpDiv:
		return &ast.ImmDouble{Value: l.Value / r.Value, Rng: l.Rng}, true
	case ast.OpMod:
		return &ast.ImmDouble{Value: math.Mod(l.Value, r.Value), Rng: l.Rng}, true
	}
	return nil, false
}
