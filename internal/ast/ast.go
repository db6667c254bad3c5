// Package ast defines the unannotated abstract syntax the parser produces.
// Expressions carry no type information yet (spec §3.3); the compiler is
// the first stage to assign types, during its bottom-up walk (spec §4.3).
//
// Both Expr and Stmt are boxed recursive sum types: a binop's operands are
// pointers to child Expr nodes. This mirrors the arena-vs-boxed tradeoff
// discussed in spec §9; boxed nodes were chosen here because BASIC programs
// in the core's scope are small straight-line statement lists, so the
// locality win of an arena is not worth the extra bookkeeping.
package ast

import "github.com/go-basic/core/internal/lexer"

// BinOp enumerates the binary operators spec §3.3 recognizes.
type BinOp int

const (
	OpMul BinOp = iota
	OpDiv        // float divide: /
	OpIDiv       // integer divide: \
	OpAdd
	OpSub
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLte
	OpGte
	OpAnd
	OpOr
	OpXor
	OpMod
)

func (op BinOp) String() string {
	switch op {
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpIDiv:
		return "\\"
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpEq:
		return "="
	case OpNeq:
		return "<>"
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLte:
		return "<="
	case OpGte:
		return ">="
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpXor:
		return "XOR"
	case OpMod:
		return "MOD"
	}
	return "?"
}

// UnOp enumerates the unary operators spec §3.3 recognizes.
type UnOp int

const (
	OpNeg UnOp = iota
)

// Expr is the sum type of expression nodes. Every implementation carries
// its source Range.
type Expr interface {
	Range() lexer.Range
	exprNode()
}

// ImmInteger is a parsed INTEGER numeric literal (16-bit signed).
type ImmInteger struct {
	Value int16
	Rng   lexer.Range
}

// ImmLong is a parsed LONG numeric literal (32-bit signed).
type ImmLong struct {
	Value int32
	Rng   lexer.Range
}

// ImmSingle is a parsed SINGLE floating literal.
type ImmSingle struct {
	Value float32
	Rng   lexer.Range
}

// ImmDouble is a parsed DOUBLE floating literal.
type ImmDouble struct {
	Value float64
	Rng   lexer.Range
}

// ImmString is a parsed string literal (quotes already stripped).
type ImmString struct {
	Value string
	Rng   lexer.Range
}

// Label is a variable reference; Name includes the trailing sigil, if any,
// exactly as it appeared in source.
type Label struct {
	Name string
	Rng  lexer.Range
}

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	LHS Expr
	Op  BinOp
	RHS Expr
	Rng lexer.Range
}

// UnaryExpr is a unary operator application.
type UnaryExpr struct {
	Op      UnOp
	Operand Expr
	Rng     lexer.Range
}

func (e *ImmInteger) Range() lexer.Range { return e.Rng }
func (e *ImmLong) Range() lexer.Range    { return e.Rng }
func (e *ImmSingle) Range() lexer.Range  { return e.Rng }
func (e *ImmDouble) Range() lexer.Range  { return e.Rng }
func (e *ImmString) Range() lexer.Range  { return e.Rng }
func (e *Label) Range() lexer.Range      { return e.Rng }
func (e *BinaryExpr) Range() lexer.Range { return e.Rng }
func (e *UnaryExpr) Range() lexer.Range  { return e.Rng }

func (*ImmInteger) exprNode() {}
func (*ImmLong) exprNode()    {}
func (*ImmSingle) exprNode()  {}
func (*ImmDouble) exprNode()  {}
func (*ImmString) exprNode()  {}
func (*Label) exprNode()      {}
func (*BinaryExpr) exprNode() {}
func (*UnaryExpr) exprNode()  {}

// Stmt is the sum type of statement nodes.
type Stmt interface {
	Range() lexer.Range
	stmtNode()
}

// RemarkStmt is a standalone comment line.
type RemarkStmt struct {
	Text string
	Rng  lexer.Range
}

// CallStmt is the generic form for parameterless or argument-list built-ins
// (PRINT, PRINT expr,expr;expr).
type CallStmt struct {
	Name string
	Args []Expr
	// Seps[i] is the separator that followed Args[i] in source: ','
	// advances to the next print zone, ';' prints immediately adjacent,
	// and 0 (after the last argument) means the statement ends without a
	// trailing linefeed suppression.
	Seps []byte
	Rng  lexer.Range
}

// LetStmt is a variable assignment, with or without the LET keyword.
type LetStmt struct {
	Kw  bool // true when written as "LET A = ..."
	LHS *Label
	RHS Expr
	Rng lexer.Range
}

// IfHeaderStmt is the header of a block-form IF, recognized by the grammar
// but not code-generated by the minimum conforming core (spec §1 Non-goals).
type IfHeaderStmt struct {
	Cond Expr
	Rng  lexer.Range
}

// If1Stmt is a single-line "IF cond THEN stmt" with no ELSE branch.
type If1Stmt struct {
	Cond Expr
	Then Stmt
	Rng  lexer.Range
}

// If2Stmt is a single-line "IF cond THEN stmt ELSE stmt".
type If2Stmt struct {
	Cond Expr
	Then Stmt
	Else Stmt
	Rng  lexer.Range
}

// ForStmt is "FOR lv = from TO to" with an implicit step of 1.
type ForStmt struct {
	LV   *Label
	From Expr
	To   Expr
	Rng  lexer.Range
}

// ForStepStmt is "FOR lv = from TO to STEP step".
type ForStepStmt struct {
	LV   *Label
	From Expr
	To   Expr
	Step Expr
	Rng  lexer.Range
}

// EndStmt is a bare "END" statement.
type EndStmt struct {
	Rng lexer.Range
}

// EndIfStmt is an "END IF" / "ENDIF" statement closing a block IF.
type EndIfStmt struct {
	Rng lexer.Range
}

// The following statement forms are recognized by the grammar per spec
// §1 Non-goals ("IF/THEN/ELSE, FOR/NEXT, GOTO, DO/LOOP, WHILE/WEND, and
// GOSUB are recognized by the grammar but the core specification mandates
// only their parse-tree representation") but have no code generator in
// the minimum conforming core: the compiler accepts them and emits no
// instructions, a deliberate extension point rather than an omission
// (see DESIGN.md).

// GotoStmt is "GOTO label".
type GotoStmt struct {
	Target string
	Rng    lexer.Range
}

// GosubStmt is "GOSUB label".
type GosubStmt struct {
	Target string
	Rng    lexer.Range
}

// ReturnStmt is a bare "RETURN" (GOSUB return).
type ReturnStmt struct {
	Rng lexer.Range
}

// StopStmt is a bare "STOP".
type StopStmt struct {
	Rng lexer.Range
}

// NextStmt is "NEXT" or "NEXT lv" closing a FOR loop.
type NextStmt struct {
	LV  *Label // nil when the loop variable is omitted
	Rng lexer.Range
}

// DoStmt opens a "DO" / "DO WHILE cond" / "DO UNTIL cond" loop.
type DoStmt struct {
	Cond    Expr // nil for a bare DO
	IsWhile bool // true for WHILE, false for UNTIL; meaningless if Cond is nil
	Rng     lexer.Range
}

// LoopStmt closes a DO loop: "LOOP", "LOOP WHILE cond", "LOOP UNTIL cond".
type LoopStmt struct {
	Cond    Expr
	IsWhile bool
	Rng     lexer.Range
}

// WhileStmt opens a "WHILE cond" loop.
type WhileStmt struct {
	Cond Expr
	Rng  lexer.Range
}

// WendStmt closes a WHILE loop.
type WendStmt struct {
	Rng lexer.Range
}

// PragmaStmt is "PRAGMA expr", the testing hook that compares the
// accumulated print buffer against a string literal (spec §4.3
// PRAGMA_PRINTED).
type PragmaStmt struct {
	Value Expr
	Rng   lexer.Range
}

func (s *RemarkStmt) Range() lexer.Range   { return s.Rng }
func (s *CallStmt) Range() lexer.Range     { return s.Rng }
func (s *LetStmt) Range() lexer.Range      { return s.Rng }
func (s *IfHeaderStmt) Range() lexer.Range { return s.Rng }
func (s *If1Stmt) Range() lexer.Range      { return s.Rng }
func (s *If2Stmt) Range() lexer.Range      { return s.Rng }
func (s *ForStmt) Range() lexer.Range      { return s.Rng }
func (s *ForStepStmt) Range() lexer.Range  { return s.Rng }
func (s *EndStmt) Range() lexer.Range      { return s.Rng }
func (s *EndIfStmt) Range() lexer.Range    { return s.Rng }
func (s *GotoStmt) Range() lexer.Range     { return s.Rng }
func (s *GosubStmt) Range() lexer.Range    { return s.Rng }
func (s *ReturnStmt) Range() lexer.Range   { return s.Rng }
func (s *StopStmt) Range() lexer.Range     { return s.Rng }
func (s *NextStmt) Range() lexer.Range     { return s.Rng }
func (s *DoStmt) Range() lexer.Range       { return s.Rng }
func (s *LoopStmt) Range() lexer.Range     { return s.Rng }
func (s *WhileStmt) Range() lexer.Range    { return s.Rng }
func (s *WendStmt) Range() lexer.Range     { return s.Rng }
func (s *PragmaStmt) Range() lexer.Range   { return s.Rng }

func (*RemarkStmt) stmtNode()   {}
func (*CallStmt) stmtNode()     {}
func (*LetStmt) stmtNode()      {}
func (*IfHeaderStmt) stmtNode() {}
func (*If1Stmt) stmtNode()      {}
func (*If2Stmt) stmtNode()      {}
func (*ForStmt) stmtNode()      {}
func (*ForStepStmt) stmtNode()  {}
func (*EndStmt) stmtNode()      {}
func (*EndIfStmt) stmtNode()    {}
func (*GotoStmt) stmtNode()     {}
func (*GosubStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode()   {}
func (*StopStmt) stmtNode()     {}
func (*NextStmt) stmtNode()     {}
func (*DoStmt) stmtNode()       {}
func (*LoopStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()    {}
func (*WendStmt) stmtNode()     {}
func (*PragmaStmt) stmtNode()   {}
