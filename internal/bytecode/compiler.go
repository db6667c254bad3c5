package bytecode

import (
	"fmt"

	"github.com/go-basic/core/internal/ast"
	"github.com/go-basic/core/internal/errors"
	"github.com/go-basic/core/internal/lexer"
)

// CompileError is a compile-time failure: a string/numeric type mismatch
// discovered during the bottom-up type inference walk (spec §4.3), an
// unknown built-in, a PRAGMA whose operand is not a string literal, or an
// operator that has no code generator. Referencing an unknown variable is
// never an error (autovivification).
type CompileError struct {
	Msg   string
	Range lexer.Range
}

func (e *CompileError) Error() string { return e.Msg }

type slotInfo struct {
	index int
	typ   ValueType
}

// Compiler walks a statement list and emits a Chunk. It is single-use:
// construct one per compilation via Compile.
type Compiler struct {
	slots     map[string]slotInfo
	slotOrder []string
	chunk     *Chunk
}

// CompileOptions configures a single Compile call.
type CompileOptions struct {
	// Optimize runs the constant-folding pass over the statement list
	// before code generation (SPEC_FULL §4.3 expansion "optimizer").
	// Compile's plain form always enables it; the zero CompileOptions
	// leaves it off.
	Optimize bool
}

// Compile lowers a statement list to bytecode (spec §6.3 host contract
// step 3) with the optimizer enabled. On the first type error it stops
// and returns that error, with errinfo (if non-nil) populated with the
// message and offending range.
func Compile(stmts []ast.Stmt, errinfo *errors.ErrorInfo) (*Chunk, error) {
	return CompileWithOptions(stmts, errinfo, CompileOptions{Optimize: true})
}

// CompileWithOptions is Compile with explicit control over optimization,
// exposed for the CLI's --no-optimize flag and optimizer-off golden
// tests that want to see unfolded bytecode.
func CompileWithOptions(stmts []ast.Stmt, errinfo *errors.ErrorInfo, opts CompileOptions) (*Chunk, error) {
	if opts.Optimize {
		stmts = foldConstants(stmts)
	}
	c := &Compiler{slots: make(map[string]slotInfo), chunk: &Chunk{}}
	for _, stmt := range stmts {
		c.chunk.MarkStatement(stmt.Range())
		if err := c.compileStmt(stmt); err != nil {
			rng := stmt.Range()
			if ce, ok := err.(*CompileError); ok {
				rng = ce.Range
			}
			errors.Set(errinfo, err.Error(), rng)
			return nil, err
		}
	}
	c.chunk.SlotNames = c.slotOrder
	c.chunk.SlotTypes = make([]ValueType, len(c.slotOrder))
	for i, name := range c.slotOrder {
		c.chunk.SlotTypes[i] = c.slots[name].typ
	}
	return c.chunk, nil
}

// SlotNames exposes the slot allocation order, sigil-qualified name per
// slot index, for disassembly and diagnostics.
func (c *Compiler) SlotNames() []string { return c.slotOrder }

func (c *Compiler) compileStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.RemarkStmt:
		return nil
	case *ast.LetStmt:
		return c.compileLet(s)
	case *ast.CallStmt:
		return c.compileCall(s)
	case *ast.PragmaStmt:
		return c.compilePragma(s)
	case *ast.IfHeaderStmt, *ast.If1Stmt, *ast.If2Stmt,
		*ast.ForStmt, *ast.ForStepStmt, *ast.EndStmt, *ast.EndIfStmt,
		*ast.GotoStmt, *ast.GosubStmt, *ast.ReturnStmt, *ast.StopStmt,
		*ast.NextStmt, *ast.DoStmt, *ast.LoopStmt, *ast.WhileStmt, *ast.WendStmt:
		// Recognized by the grammar; branching code generation is an
		// extension point (spec §9), not part of the minimum conforming
		// core, so these statements compile to no instructions.
		return nil
	}
	return fmt.Errorf("bytecode: unhandled statement type %T", stmt)
}

// sigilType returns the type a bare variable name's trailing sigil
// implies; a name with no sigil defaults to SINGLE, this dialect's
// default numeric type (spec §4.3).
func sigilType(name string) ValueType {
	if len(name) == 0 {
		return ValueSingle
	}
	switch name[len(name)-1] {
	case '%':
		return ValueInteger
	case '&':
		return ValueLong
	case '!':
		return ValueSingle
	case '#':
		return ValueDouble
	case '$':
		return ValueString
	}
	return ValueSingle
}

// resolveSlot allocates a slot on first use (first-use-wins) or returns
// the existing one. A slot's type is fixed at allocation and never
// changes (spec §4.3 LET).
func (c *Compiler) resolveSlot(name string) (int, ValueType) {
	if info, ok := c.slots[name]; ok {
		return info.index, info.typ
	}
	idx := len(c.slotOrder)
	typ := sigilType(name)
	c.slots[name] = slotInfo{index: idx, typ: typ}
	c.slotOrder = append(c.slotOrder, name)
	return idx, typ
}

func (c *Compiler) compileLet(s *ast.LetStmt) error {
	slot, slotType := c.resolveSlot(s.LHS.Name)
	if err := c.emitCoerced(s.RHS, slotType); err != nil {
		return err
	}
	c.chunk.emitOp(OpLet)
	c.chunk.emitU8(uint8(slot))
	return nil
}

func (c *Compiler) compileCall(s *ast.CallStmt) error {
	if eqFold(s.Name, "PRINT") {
		return c.compilePrint(s)
	}
	return &CompileError{Msg: "unknown built-in " + s.Name, Range: s.Rng}
}

func eqFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'a' <= ca && ca <= 'z' {
			ca -= 'a' - 'A'
		}
		if 'a' <= cb && cb <= 'z' {
			cb -= 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// compilePrint emits one push+BUILTIN_PRINT per argument, honoring the
// comma (zone advance) and semicolon (adjacent) separators recorded on
// the statement (spec §4.5). A dangling trailing comma or semicolon
// suppresses the statement's automatic trailing linefeed; this resolves
// an ambiguity in how consecutive PRINT statements on one physical output
// line behave (documented in DESIGN.md).
func (c *Compiler) compilePrint(s *ast.CallStmt) error {
	for i, arg := range s.Args {
		if _, err := c.emitExpr(arg); err != nil {
			return err
		}
		c.chunk.emitOp(OpBuiltinPrint)
		if s.Seps[i] == ',' {
			c.chunk.emitOp(OpBuiltinPrintComma)
		}
	}
	suppressLinefeed := len(s.Seps) > 0 && (s.Seps[len(s.Seps)-1] == ',' || s.Seps[len(s.Seps)-1] == ';')
	if !suppressLinefeed {
		c.chunk.emitOp(OpBuiltinPrintLinefeed)
	}
	return nil
}

func (c *Compiler) compilePragma(s *ast.PragmaStmt) error {
	str, ok := s.Value.(*ast.ImmString)
	if !ok {
		return &CompileError{Msg: "PRAGMA requires a string literal operand", Range: s.Value.Range()}
	}
	c.chunk.emitOp(OpPragmaPrinted)
	c.chunk.emitString(str.Value)
	return nil
}

// typeOfExpr computes an expression's static type without emitting any
// instructions. Both it and emitExpr must visit children in the same
// left-to-right order so that first-use-wins slot allocation stays
// consistent between the (pure) inference pass and the emission pass.
func (c *Compiler) typeOfExpr(e ast.Expr) (ValueType, error) {
	switch ex := e.(type) {
	case *ast.ImmInteger:
		return ValueInteger, nil
	case *ast.ImmLong:
		return ValueLong, nil
	case *ast.ImmSingle:
		return ValueSingle, nil
	case *ast.ImmDouble:
		return ValueDouble, nil
	case *ast.ImmString:
		return ValueString, nil
	case *ast.Label:
		_, typ := c.resolveSlot(ex.Name)
		return typ, nil
	case *ast.UnaryExpr:
		t, err := c.typeOfExpr(ex.Operand)
		if err != nil {
			return 0, err
		}
		if t == ValueString {
			return 0, &CompileError{Msg: "cannot negate STRING", Range: ex.Range()}
		}
		return t, nil
	case *ast.BinaryExpr:
		return c.typeOfBinary(ex)
	}
	return 0, fmt.Errorf("bytecode: unhandled expression type %T", e)
}

func (c *Compiler) typeOfBinary(ex *ast.BinaryExpr) (ValueType, error) {
	lt, err := c.typeOfExpr(ex.LHS)
	if err != nil {
		return 0, err
	}
	rt, err := c.typeOfExpr(ex.RHS)
	if err != nil {
		return 0, err
	}

	switch ex.Op {
	case ast.OpAdd:
		if lt == ValueString || rt == ValueString {
			if lt != ValueString || rt != ValueString {
				nonString := lt
				if lt == ValueString {
					nonString = rt
				}
				return 0, &CompileError{Msg: fmt.Sprintf("cannot coerce %s to %s", nonString, ValueString), Range: ex.Range()}
			}
			return ValueString, nil
		}
		return NumericJoin(lt, rt), nil
	case ast.OpSub, ast.OpMul, ast.OpMod:
		if err := c.requireNumeric(ex.Range(), lt, rt); err != nil {
			return 0, err
		}
		return NumericJoin(lt, rt), nil
	case ast.OpDiv:
		if err := c.requireNumeric(ex.Range(), lt, rt); err != nil {
			return 0, err
		}
		if NumericJoin(lt, rt) == ValueDouble {
			return ValueDouble, nil
		}
		return ValueSingle, nil
	case ast.OpIDiv:
		if err := c.requireNumeric(ex.Range(), lt, rt); err != nil {
			return 0, err
		}
		if lt == ValueInteger && rt == ValueInteger {
			return ValueInteger, nil
		}
		return ValueLong, nil
	}
	return 0, &CompileError{Msg: "operator " + ex.Op.String() + " has no code generator outside a condition", Range: ex.Range()}
}

func (c *Compiler) requireNumeric(rng lexer.Range, lt, rt ValueType) error {
	if lt == ValueString {
		return &CompileError{Msg: fmt.Sprintf("cannot coerce %s to %s", ValueString, rt), Range: rng}
	}
	if rt == ValueString {
		return &CompileError{Msg: fmt.Sprintf("cannot coerce %s to %s", ValueString, lt), Range: rng}
	}
	return nil
}

// emitExpr emits code pushing e's natural (uncoerced) type and returns
// that type.
func (c *Compiler) emitExpr(e ast.Expr) (ValueType, error) {
	switch ex := e.(type) {
	case *ast.ImmInteger:
		c.chunk.emitOp(OpPushImmInteger)
		c.chunk.emitI16(ex.Value)
		return ValueInteger, nil
	case *ast.ImmLong:
		c.chunk.emitOp(OpPushImmLong)
		c.chunk.emitI32(ex.Value)
		return ValueLong, nil
	case *ast.ImmSingle:
		c.chunk.emitOp(OpPushImmSingle)
		c.chunk.emitF32(ex.Value)
		return ValueSingle, nil
	case *ast.ImmDouble:
		c.chunk.emitOp(OpPushImmDouble)
		c.chunk.emitF64(ex.Value)
		return ValueDouble, nil
	case *ast.ImmString:
		c.chunk.emitOp(OpPushImmString)
		c.chunk.emitString(ex.Value)
		return ValueString, nil
	case *ast.Label:
		slot, typ := c.resolveSlot(ex.Name)
		c.chunk.emitOp(OpPushVariable)
		c.chunk.emitU8(uint8(slot))
		return typ, nil
	case *ast.UnaryExpr:
		t, err := c.emitExpr(ex.Operand)
		if err != nil {
			return 0, err
		}
		if t == ValueString {
			return 0, &CompileError{Msg: "cannot negate STRING", Range: ex.Range()}
		}
		c.chunk.emitOp(arithVariant(OpOperatorNegateInteger, t))
		return t, nil
	case *ast.BinaryExpr:
		return c.emitBinary(ex)
	}
	return 0, fmt.Errorf("bytecode: unhandled expression type %T", e)
}

// emitCoerced emits e, then a coercion instruction (if one is needed) to
// bring the top-of-stack value to target.
func (c *Compiler) emitCoerced(e ast.Expr, target ValueType) error {
	actual, err := c.emitExpr(e)
	if err != nil {
		return err
	}
	return c.emitCoercion(actual, target, e.Range())
}

func (c *Compiler) emitCoercion(from, to ValueType, rng lexer.Range) error {
	if from == to {
		return nil
	}
	op, needed, ok := CoercionOp(from, to)
	if !ok {
		return &CompileError{Msg: fmt.Sprintf("cannot coerce %s to %s", from, to), Range: rng}
	}
	if needed {
		c.chunk.emitOp(op)
	}
	return nil
}

// arithVariant selects the monomorphized opcode for t from a family of
// four consecutively declared opcodes ordered INTEGER, LONG, SINGLE,
// DOUBLE.
func arithVariant(base OpCode, t ValueType) OpCode {
	switch t {
	case ValueInteger:
		return base
	case ValueLong:
		return base + 1
	case ValueSingle:
		return base + 2
	case ValueDouble:
		return base + 3
	}
	panic(fmt.Sprintf("bytecode: arithVariant: non-numeric type %s", t))
}

func (c *Compiler) emitBinary(ex *ast.BinaryExpr) (ValueType, error) {
	lt, err := c.typeOfExpr(ex.LHS)
	if err != nil {
		return 0, err
	}
	rt, err := c.typeOfExpr(ex.RHS)
	if err != nil {
		return 0, err
	}

	switch ex.Op {
	case ast.OpAdd:
		if lt == ValueString || rt == ValueString {
			if lt != ValueString || rt != ValueString {
				nonString := lt
				if lt == ValueString {
					nonString = rt
				}
				return 0, &CompileError{Msg: fmt.Sprintf("cannot coerce %s to %s", nonString, ValueString), Range: ex.Range()}
			}
			if _, err := c.emitExpr(ex.LHS); err != nil {
				return 0, err
			}
			if _, err := c.emitExpr(ex.RHS); err != nil {
				return 0, err
			}
			c.chunk.emitOp(OpOperatorAddString)
			return ValueString, nil
		}
		join := NumericJoin(lt, rt)
		if err := c.emitCoerced(ex.LHS, join); err != nil {
			return 0, err
		}
		if err := c.emitCoerced(ex.RHS, join); err != nil {
			return 0, err
		}
		c.chunk.emitOp(arithVariant(OpOperatorAddInteger, join))
		return join, nil

	case ast.OpSub, ast.OpMul:
		if err := c.requireNumeric(ex.Range(), lt, rt); err != nil {
			return 0, err
		}
		join := NumericJoin(lt, rt)
		if err := c.emitCoerced(ex.LHS, join); err != nil {
			return 0, err
		}
		if err := c.emitCoerced(ex.RHS, join); err != nil {
			return 0, err
		}
		base := OpOperatorSubtractInteger
		if ex.Op == ast.OpMul {
			base = OpOperatorMultiplyInteger
		}
		c.chunk.emitOp(arithVariant(base, join))
		return join, nil

	case ast.OpMod:
		if err := c.requireNumeric(ex.Range(), lt, rt); err != nil {
			return 0, err
		}
		join := NumericJoin(lt, rt)
		if err := c.emitCoerced(ex.LHS, join); err != nil {
			return 0, err
		}
		if err := c.emitCoerced(ex.RHS, join); err != nil {
			return 0, err
		}
		c.chunk.emitOp(arithVariant(OpOperatorModInteger, join))
		return join, nil

	case ast.OpDiv:
		if err := c.requireNumeric(ex.Range(), lt, rt); err != nil {
			return 0, err
		}
		target := ValueSingle
		if NumericJoin(lt, rt) == ValueDouble {
			target = ValueDouble
		}
		if err := c.emitCoerced(ex.LHS, target); err != nil {
			return 0, err
		}
		if err := c.emitCoerced(ex.RHS, target); err != nil {
			return 0, err
		}
		if target == ValueDouble {
			c.chunk.emitOp(OpOperatorFdivideDouble)
		} else {
			c.chunk.emitOp(OpOperatorFdivideSingle)
		}
		return target, nil

	case ast.OpIDiv:
		if err := c.requireNumeric(ex.Range(), lt, rt); err != nil {
			return 0, err
		}
		if lt == ValueInteger && rt == ValueInteger {
			if err := c.emitCoerced(ex.LHS, ValueInteger); err != nil {
				return 0, err
			}
			if err := c.emitCoerced(ex.RHS, ValueInteger); err != nil {
				return 0, err
			}
			c.chunk.emitOp(OpOperatorIdivideInteger)
			return ValueInteger, nil
		}
		if err := c.emitCoerced(ex.LHS, ValueLong); err != nil {
			return 0, err
		}
		if err := c.emitCoerced(ex.RHS, ValueLong); err != nil {
			return 0, err
		}
		c.chunk.emitOp(OpOperatorIdivideLong)
		return ValueLong, nil
	}

	return 0, &CompileError{Msg: "operator " + ex.Op.String() + " has no code generator outside a condition", Range: ex.Range()}
}
