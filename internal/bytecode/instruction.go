package bytecode

// OpCode is a single bytecode instruction tag. Unlike the teacher's
// fixed-width 32-bit instruction word, this ISA is a flat byte stream: one
// opcode byte followed by zero or more immediate operand bytes, all
// integers little-endian (spec §4.3). The opcode space is small enough
// that a plain byte and a switch in the VM's dispatch loop stay fast.
type OpCode byte

const (
	// ========================================
	// Stack push (6 opcodes)
	// ========================================

	// OpPushImmInteger pushes a literal INTEGER.
	// Operand: i16.
	OpPushImmInteger OpCode = iota

	// OpPushImmLong pushes a literal LONG.
	// Operand: i32.
	OpPushImmLong

	// OpPushImmSingle pushes a literal SINGLE.
	// Operand: 4 bytes, IEEE-754 binary32.
	OpPushImmSingle

	// OpPushImmDouble pushes a literal DOUBLE.
	// Operand: 8 bytes, IEEE-754 binary64.
	OpPushImmDouble

	// OpPushImmString pushes a literal STRING.
	// Operand: u16 length, then that many bytes.
	OpPushImmString

	// OpPushVariable pushes a clone of a slot's current value.
	// Operand: u8 slot index.
	OpPushVariable

	// ========================================
	// Storage (1 opcode)
	// ========================================

	// OpLet pops one value and stores it into a slot, replacing whatever
	// was there.
	// Operand: u8 slot index.
	OpLet

	// ========================================
	// Coercions (12 opcodes, spec §9 4x4 lattice table)
	// ========================================

	OpPromoteIntegerLong  // widening, exact
	OpCoerceIntegerSingle // widening, exact
	OpCoerceIntegerDouble // widening, exact
	OpCoerceLongInteger   // narrowing: range-checked, Overflow on failure
	OpCoerceLongSingle    // widening, exact
	OpCoerceLongDouble    // widening, exact
	OpCoerceSingleInteger // narrowing: round toward zero, saturates
	OpCoerceSingleLong    // narrowing: round toward zero, saturates
	OpPromoteSingleDouble // widening, exact
	OpCoerceDoubleInteger // narrowing: round toward zero, saturates
	OpCoerceDoubleLong    // narrowing: round toward zero, saturates
	OpCoerceDoubleSingle  // narrowing: may lose precision, never fails

	// ========================================
	// Typed arithmetic (spec §4.3; overflow wraps, see DESIGN.md)
	// ========================================

	OpOperatorAddInteger
	OpOperatorAddLong
	OpOperatorAddSingle
	OpOperatorAddDouble
	OpOperatorAddString // concatenation

	OpOperatorSubtractInteger
	OpOperatorSubtractLong
	OpOperatorSubtractSingle
	OpOperatorSubtractDouble

	OpOperatorMultiplyInteger
	OpOperatorMultiplyLong
	OpOperatorMultiplySingle
	OpOperatorMultiplyDouble

	OpOperatorFdivideSingle // '/' float divide, never yields an integer type
	OpOperatorFdivideDouble

	OpOperatorIdivideInteger // '\' integer divide, quotient truncated toward zero; float operands arrive already truncated toward zero by the narrowing coercions (no round-half-to-even step)
	OpOperatorIdivideLong

	// MOD is a binop the grammar accepts (spec §3.3, §4.2 term production)
	// but the spec's opcode table does not name a MOD_* family alongside
	// ADD/SUBTRACT/MULTIPLY/FDIVIDE/IDIVIDE/NEGATE. A dedicated family is
	// added here, monomorphized the same way as the others, rather than
	// leaving the grammar's MOD operator without a compilable instruction.
	OpOperatorModInteger
	OpOperatorModLong
	OpOperatorModSingle
	OpOperatorModDouble

	OpOperatorNegateInteger
	OpOperatorNegateLong
	OpOperatorNegateSingle
	OpOperatorNegateDouble

	// ========================================
	// Builtins (spec §4.5, §6.1 Effects)
	// ========================================

	// OpBuiltinPrint pops one value, formats it, and emits it via Effects.print.
	OpBuiltinPrint

	// OpBuiltinPrintComma advances PrintLoc to the next print zone.
	OpBuiltinPrintComma

	// OpBuiltinPrintLinefeed emits a newline and resets the column.
	OpBuiltinPrintLinefeed

	// OpPragmaPrinted is a testing hook: compares the accumulated print
	// buffer against the decoded string operand.
	// Operand: u16 length, then that many bytes.
	OpPragmaPrinted
)

var opCodeNames = [...]string{
	OpPushImmInteger:          "PUSH_IMM_INTEGER",
	OpPushImmLong:             "PUSH_IMM_LONG",
	OpPushImmSingle:           "PUSH_IMM_SINGLE",
	OpPushImmDouble:           "PUSH_IMM_DOUBLE",
	OpPushImmString:           "PUSH_IMM_STRING",
	OpPushVariable:            "PUSH_VARIABLE",
	OpLet:                     "LET",
	OpPromoteIntegerLong:      "PROMOTE_INTEGER_LONG",
	OpCoerceIntegerSingle:     "COERCE_INTEGER_SINGLE",
	OpCoerceIntegerDouble:     "COERCE_INTEGER_DOUBLE",
	OpCoerceLongInteger:       "COERCE_LONG_INTEGER",
	OpCoerceLongSingle:        "COERCE_LONG_SINGLE",
	OpCoerceLongDouble:        "COERCE_LONG_DOUBLE",
	OpCoerceSingleInteger:     "COERCE_SINGLE_INTEGER",
	OpCoerceSingleLong:        "COERCE_SINGLE_LONG",
	OpPromoteSingleDouble:     "PROMOTE_SINGLE_DOUBLE",
	OpCoerceDoubleInteger:     "COERCE_DOUBLE_INTEGER",
	OpCoerceDoubleLong:        "COERCE_DOUBLE_LONG",
	OpCoerceDoubleSingle:      "COERCE_DOUBLE_SINGLE",
	OpOperatorAddInteger:      "OPERATOR_ADD_INTEGER",
	OpOperatorAddLong:         "OPERATOR_ADD_LONG",
	OpOperatorAddSingle:       "OPERATOR_ADD_SINGLE",
	OpOperatorAddDouble:       "OPERATOR_ADD_DOUBLE",
	OpOperatorAddString:       "OPERATOR_ADD_STRING",
	OpOperatorSubtractInteger: "OPERATOR_SUBTRACT_INTEGER",
	OpOperatorSubtractLong:    "OPERATOR_SUBTRACT_LONG",
	OpOperatorSubtractSingle:  "OPERATOR_SUBTRACT_SINGLE",
	OpOperatorSubtractDouble:  "OPERATOR_SUBTRACT_DOUBLE",
	OpOperatorMultiplyInteger: "OPERATOR_MULTIPLY_INTEGER",
	OpOperatorMultiplyLong:    "OPERATOR_MULTIPLY_LONG",
	OpOperatorMultiplySingle:  "OPERATOR_MULTIPLY_SINGLE",
	OpOperatorMultiplyDouble:  "OPERATOR_MULTIPLY_DOUBLE",
	OpOperatorFdivideSingle:   "OPERATOR_FDIVIDE_SINGLE",
	OpOperatorFdivideDouble:   "OPERATOR_FDIVIDE_DOUBLE",
	OpOperatorIdivideInteger:  "OPERATOR_IDIVIDE_INTEGER",
	OpOperatorIdivideLong:     "OPERATOR_IDIVIDE_LONG",
	OpOperatorModInteger:      "OPERATOR_MOD_INTEGER",
	OpOperatorModLong:         "OPERATOR_MOD_LONG",
	OpOperatorModSingle:       "OPERATOR_MOD_SINGLE",
	OpOperatorModDouble:       "OPERATOR_MOD_DOUBLE",
	OpOperatorNegateInteger:   "OPERATOR_NEGATE_INTEGER",
	OpOperatorNegateLong:      "OPERATOR_NEGATE_LONG",
	OpOperatorNegateSingle:    "OPERATOR_NEGATE_SINGLE",
	OpOperatorNegateDouble:    "OPERATOR_NEGATE_DOUBLE",
	OpBuiltinPrint:            "BUILTIN_PRINT",
	OpBuiltinPrintComma:       "BUILTIN_PRINT_COMMA",
	OpBuiltinPrintLinefeed:    "BUILTIN_PRINT_LINEFEED",
	OpPragmaPrinted:           "PRAGMA_PRINTED",
}

func (op OpCode) String() string {
	if int(op) < len(opCodeNames) && opCodeNames[op] != "" {
		return opCodeNames[op]
	}
	return "ILLEGAL_OPCODE"
}

// operandWidths reports how many fixed operand bytes follow an opcode
// byte; -1 marks the two length-prefixed string opcodes, which the
// disassembler and VM decode specially.
var operandWidths = [...]int{
	OpPushImmInteger: 2,
	OpPushImmLong:    4,
	OpPushImmSingle:  4,
	OpPushImmDouble:  8,
	OpPushImmString:  -1,
	OpPushVariable:   1,
	OpLet:            1,
	OpPragmaPrinted:  -1,
}

// OperandWidth returns the number of fixed operand bytes for op, or -1 for
// the variable-length string opcodes, or 0 if op takes no operand.
func OperandWidth(op OpCode) int {
	if int(op) < len(operandWidths) {
		return operandWidths[op]
	}
	return 0
}
