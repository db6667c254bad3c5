package bytecode

import (
	"fmt"
	"math"

	"github.com/go-basic/core/internal/effects"
	"github.com/go-basic/core/internal/errors"
)

// RuntimeError is a VM failure surfaced during bytecode execution (spec
// §4.4, §7). TypeMismatch is a defensive assertion that should never fire
// if the compiler emitted correct coercions; Overflow is the one narrowing
// coercion the spec requires to fail instead of saturating (LONG->INTEGER
// out of i16 range); DivisionByZero is not named by spec §7's taxonomy but
// is unavoidable since Go panics on integer division/modulo by zero where
// the spec is silent on the behavior.
type RuntimeError struct {
	Kind string
	Msg  string
}

func (e *RuntimeError) Error() string { return e.Msg }

const (
	KindTypeMismatch   = "TypeMismatch"
	KindOverflow       = "Overflow"
	KindDivisionByZero = "DivisionByZero"
	KindStepLimit      = "StepLimit"
)

// VM executes a Chunk against a value stack and an indexed slot table,
// delegating all side effects to an injected Effects collaborator (spec
// §4.4, §6.1). A VM is reusable across Run calls; each Run resets the
// stack and re-sizes the slot table from the chunk being executed.
type VM struct {
	// Effects is the capability the VM calls out to for PRINT, the comma
	// zone advance, the linefeed, and the PRAGMA_PRINTED testing hook.
	Effects effects.Effects

	// MaxSteps bounds the number of instructions a single Run executes;
	// zero means unbounded (SPEC_FULL §4.4 expansion "instruction budget /
	// step limit" — a guard rail for a host embedding the core, not a core
	// language feature).
	MaxSteps int

	stack     []Value
	slots     []Value
	slotTypes []ValueType
}

// NewVM creates a VM that delegates side effects to eff.
func NewVM(eff effects.Effects) *VM {
	return &VM{Effects: eff}
}

// Run executes chunk from instruction zero to completion (spec §6.3 host
// contract step 4: "vm.run(bytecode)"). On success the value stack is
// empty (spec §8 invariant 3). errinfo, if non-nil, is populated with the
// message and source range of the failing instruction.
func (vm *VM) Run(chunk *Chunk, errinfo *errors.ErrorInfo) error {
	vm.stack = vm.stack[:0]
	vm.slots = make([]Value, len(chunk.SlotTypes))
	for i, t := range chunk.SlotTypes {
		vm.slots[i] = ZeroValue(t)
	}
	vm.slotTypes = chunk.SlotTypes

	code := chunk.Code
	ip := 0
	steps := 0
	for ip < len(code) {
		if vm.MaxSteps > 0 {
			steps++
			if steps > vm.MaxSteps {
				err := &RuntimeError{Kind: KindStepLimit, Msg: "instruction budget exceeded"}
				errors.Set(errinfo, err.Error(), chunk.RangeAt(ip))
				return err
			}
		}
		startIP := ip
		op := OpCode(code[ip])
		ip++

		next, err := vm.execute(op, code, ip)
		if err != nil {
			errors.Set(errinfo, err.Error(), chunk.RangeAt(startIP))
			return err
		}
		ip = next
	}
	return nil
}

func (vm *VM) push(v Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() Value {
	n := len(vm.stack) - 1
	v := vm.stack[n]
	vm.stack = vm.stack[:n]
	return v
}

func typeMismatch(want ValueType, got Value) error {
	return &RuntimeError{Kind: KindTypeMismatch, Msg: fmt.Sprintf("type mismatch: expected %s, got %s", want, got.Type)}
}

// execute decodes and runs one instruction whose operand bytes start at
// code[ip] (the opcode byte itself was already consumed by Run) and
// returns the instruction pointer for the next instruction.
func (vm *VM) execute(op OpCode, code []byte, ip int) (int, error) {
	switch op {

	case OpPushImmInteger:
		vm.push(IntegerValue(readI16(code, ip)))
		return ip + 2, nil
	case OpPushImmLong:
		vm.push(LongValue(readI32(code, ip)))
		return ip + 4, nil
	case OpPushImmSingle:
		vm.push(SingleValue(readF32(code, ip)))
		return ip + 4, nil
	case OpPushImmDouble:
		vm.push(DoubleValue(readF64(code, ip)))
		return ip + 8, nil
	case OpPushImmString:
		s, n := readString(code, ip)
		vm.push(StringValue(s))
		return ip + n, nil
	case OpPushVariable:
		slot := readU8(code, ip)
		vm.push(vm.slots[slot])
		return ip + 1, nil

	case OpLet:
		slot := readU8(code, ip)
		v := vm.pop()
		if v.Type != vm.slotTypes[slot] {
			return 0, typeMismatch(vm.slotTypes[slot], v)
		}
		vm.slots[slot] = v
		return ip + 1, nil

	case OpPromoteIntegerLong:
		v := vm.pop()
		vm.push(LongValue(int32(v.Integer())))
		return ip, nil
	case OpCoerceIntegerSingle:
		v := vm.pop()
		vm.push(SingleValue(float32(v.Integer())))
		return ip, nil
	case OpCoerceIntegerDouble:
		v := vm.pop()
		vm.push(DoubleValue(float64(v.Integer())))
		return ip, nil
	case OpCoerceLongInteger:
		v := vm.pop()
		n := v.Long()
		if n < -32768 || n > 32767 {
			return 0, &RuntimeError{Kind: KindOverflow, Msg: "overflow coercing LONG to INTEGER"}
		}
		vm.push(IntegerValue(int16(n)))
		return ip, nil
	case OpCoerceLongSingle:
		v := vm.pop()
		vm.push(SingleValue(float32(v.Long())))
		return ip, nil
	case OpCoerceLongDouble:
		v := vm.pop()
		vm.push(DoubleValue(float64(v.Long())))
		return ip, nil
	case OpCoerceSingleInteger:
		v := vm.pop()
		vm.push(IntegerValue(truncToInt16(float64(v.Single()))))
		return ip, nil
	case OpCoerceSingleLong:
		v := vm.pop()
		vm.push(LongValue(truncToInt32(float64(v.Single()))))
		return ip, nil
	case OpPromoteSingleDouble:
		v := vm.pop()
		vm.push(DoubleValue(float64(v.Single())))
		return ip, nil
	case OpCoerceDoubleInteger:
		v := vm.pop()
		vm.push(IntegerValue(truncToInt16(v.Double())))
		return ip, nil
	case OpCoerceDoubleLong:
		v := vm.pop()
		vm.push(LongValue(truncToInt32(v.Double())))
		return ip, nil
	case OpCoerceDoubleSingle:
		v := vm.pop()
		vm.push(SingleValue(float32(v.Double())))
		return ip, nil

	case OpOperatorAddInteger:
		r, l := vm.pop(), vm.pop()
		vm.push(IntegerValue(l.Integer() + r.Integer()))
		return ip, nil
	case OpOperatorAddLong:
		r, l := vm.pop(), vm.pop()
		vm.push(LongValue(l.Long() + r.Long()))
		return ip, nil
	case OpOperatorAddSingle:
		r, l := vm.pop(), vm.pop()
		vm.push(SingleValue(l.Single() + r.Single()))
		return ip, nil
	case OpOperatorAddDouble:
		r, l := vm.pop(), vm.pop()
		vm.push(DoubleValue(l.Double() + r.Double()))
		return ip, nil
	case OpOperatorAddString:
		r, l := vm.pop(), vm.pop()
		vm.push(StringValue(l.Str() + r.Str()))
		return ip, nil

	case OpOperatorSubtractInteger:
		r, l := vm.pop(), vm.pop()
		vm.push(IntegerValue(l.Integer() - r.Integer()))
		return ip, nil
	case OpOperatorSubtractLong:
		r, l := vm.pop(), vm.pop()
		vm.push(LongValue(l.Long() - r.Long()))
		return ip, nil
	case OpOperatorSubtractSingle:
		r, l := vm.pop(), vm.pop()
		vm.push(SingleValue(l.Single() - r.Single()))
		return ip, nil
	case OpOperatorSubtractDouble:
		r, l := vm.pop(), vm.pop()
		vm.push(DoubleValue(l.Double() - r.Double()))
		return ip, nil

	case OpOperatorMultiplyInteger:
		r, l := vm.pop(), vm.pop()
		vm.push(IntegerValue(l.Integer() * r.Integer()))
		return ip, nil
	case OpOperatorMultiplyLong:
		r, l := vm.pop(), vm.pop()
		vm.push(LongValue(l.Long() * r.Long()))
		return ip, nil
	case OpOperatorMultiplySingle:
		r, l := vm.pop(), vm.pop()
		vm.push(SingleValue(l.Single() * r.Single()))
		return ip, nil
	case OpOperatorMultiplyDouble:
		r, l := vm.pop(), vm.pop()
		vm.push(DoubleValue(l.Double() * r.Double()))
		return ip, nil

	case OpOperatorFdivideSingle:
		r, l := vm.pop(), vm.pop()
		vm.push(SingleValue(l.Single() / r.Single()))
		return ip, nil
	case OpOperatorFdivideDouble:
		r, l := vm.pop(), vm.pop()
		vm.push(DoubleValue(l.Double() / r.Double()))
		return ip, nil

	case OpOperatorIdivideInteger:
		r, l := vm.pop(), vm.pop()
		if r.Integer() == 0 {
			return 0, &RuntimeError{Kind: KindDivisionByZero, Msg: "division by zero"}
		}
		vm.push(IntegerValue(l.Integer() / r.Integer()))
		return ip, nil
	case OpOperatorIdivideLong:
		r, l := vm.pop(), vm.pop()
		if r.Long() == 0 {
			return 0, &RuntimeError{Kind: KindDivisionByZero, Msg: "division by zero"}
		}
		vm.push(LongValue(l.Long() / r.Long()))
		return ip, nil

	case OpOperatorModInteger:
		r, l := vm.pop(), vm.pop()
		if r.Integer() == 0 {
			return 0, &RuntimeError{Kind: KindDivisionByZero, Msg: "division by zero"}
		}
		vm.push(IntegerValue(l.Integer() % r.Integer()))
		return ip, nil
	case OpOperatorModLong:
		r, l := vm.pop(), vm.pop()
		if r.Long() == 0 {
			return 0, &RuntimeError{Kind: KindDivisionByZero, Msg: "division by zero"}
		}
		vm.push(LongValue(l.Long() % r.Long()))
		return ip, nil
	case OpOperatorModSingle:
		r, l := vm.pop(), vm.pop()
		vm.push(SingleValue(float32(math.Mod(float64(l.Single()), float64(r.Single())))))
		return ip, nil
	case OpOperatorModDouble:
		r, l := vm.pop(), vm.pop()
		vm.push(DoubleValue(math.Mod(l.Double(), r.Double())))
		return ip, nil

	case OpOperatorNegateInteger:
		v := vm.pop()
		vm.push(IntegerValue(-v.Integer()))
		return ip, nil
	case OpOperatorNegateLong:
		v := vm.pop()
		vm.push(LongValue(-v.Long()))
		return ip, nil
	case OpOperatorNegateSingle:
		v := vm.pop()
		vm.push(SingleValue(-v.Single()))
		return ip, nil
	case OpOperatorNegateDouble:
		v := vm.pop()
		vm.push(DoubleValue(-v.Double()))
		return ip, nil

	case OpBuiltinPrint:
		v := vm.pop()
		if vm.Effects == nil {
			return ip, nil
		}
		if err := vm.Effects.Print([]byte(FormatValue(v))); err != nil {
			return 0, err
		}
		return ip, nil
	case OpBuiltinPrintComma:
		if vm.Effects == nil {
			return ip, nil
		}
		if err := vm.Effects.PrintComma(); err != nil {
			return 0, err
		}
		return ip, nil
	case OpBuiltinPrintLinefeed:
		if vm.Effects == nil {
			return ip, nil
		}
		if err := vm.Effects.PrintLinefeed(); err != nil {
			return 0, err
		}
		return ip, nil
	case OpPragmaPrinted:
		s, n := readString(code, ip)
		if vm.Effects == nil {
			return ip + n, nil
		}
		if err := vm.Effects.PragmaPrinted(s); err != nil {
			return 0, err
		}
		return ip + n, nil
	}

	return 0, fmt.Errorf("bytecode: unknown opcode %d", op)
}

// truncToInt16 rounds toward zero and saturates to the i16 range: a value
// below -32768 yields -32768 and a value above 32767 yields 32767.
func truncToInt16(f float64) int16 {
	t := math.Trunc(f)
	if t < -32768 {
		return -32768
	}
	if t > 32767 {
		return 32767
	}
	return int16(t)
}

// truncToInt32 is truncToInt16's i32 counterpart, used when narrowing a
// SINGLE or DOUBLE to LONG.
func truncToInt32(f float64) int32 {
	t := math.Trunc(f)
	if t < math.MinInt32 {
		return math.MinInt32
	}
	if t > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(t)
}
