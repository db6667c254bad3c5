// Package bytecode implements the core's shared vocabulary: the typed
// value representation, the opcode enumeration, the compiler that lowers
// a statement list to a flat byte stream, the virtual machine that
// executes it, and a disassembler for inspecting the result.
//
// Grounded on the teacher's tagged-union Value{Data, Type} representation
// (internal/bytecode/bytecode.go), narrowed from DWScript's twelve
// variants down to the five numeric-tower/string variants the core's data
// model defines.
package bytecode

import "fmt"

// Value is a runtime value carrying one of five variants: integer, long,
// single, double, or string. Data holds the Go-native representation for
// Type; callers must check Type before a type assertion on Data.
type Value struct {
	Data interface{}
	Type ValueType
}

// ValueType is the tag distinguishing Value's variants.
type ValueType byte

const (
	ValueInteger ValueType = iota
	ValueLong
	ValueSingle
	ValueDouble
	ValueString
)

var valueTypeNames = [...]string{
	ValueInteger: "INTEGER",
	ValueLong:    "LONG",
	ValueSingle:  "SINGLE",
	ValueDouble:  "DOUBLE",
	ValueString:  "STRING",
}

func (vt ValueType) String() string {
	if int(vt) < len(valueTypeNames) {
		return valueTypeNames[vt]
	}
	return "UNKNOWN"
}

// IntegerValue constructs an INTEGER value.
func IntegerValue(n int16) Value { return Value{Type: ValueInteger, Data: n} }

// LongValue constructs a LONG value.
func LongValue(n int32) Value { return Value{Type: ValueLong, Data: n} }

// SingleValue constructs a SINGLE value.
func SingleValue(f float32) Value { return Value{Type: ValueSingle, Data: f} }

// DoubleValue constructs a DOUBLE value.
func DoubleValue(f float64) Value { return Value{Type: ValueDouble, Data: f} }

// StringValue constructs a STRING value. Go's garbage collector owns the
// backing bytes, so no explicit release is needed when a string value is
// popped or overwritten; the teacher's destructor-based ownership tracking
// (CompiledProgram.Value release on pop) has no analogue here.
func StringValue(s string) Value { return Value{Type: ValueString, Data: s} }

// ZeroValue returns the autovivified zero value for a slot of the given
// type: 0 for numerics, "" for strings.
func ZeroValue(t ValueType) Value {
	switch t {
	case ValueInteger:
		return IntegerValue(0)
	case ValueLong:
		return LongValue(0)
	case ValueSingle:
		return SingleValue(0)
	case ValueDouble:
		return DoubleValue(0)
	case ValueString:
		return StringValue("")
	}
	panic(fmt.Sprintf("bytecode: ZeroValue: unknown type %v", t))
}

func (v Value) Integer() int16  { return v.Data.(int16) }
func (v Value) Long() int32     { return v.Data.(int32) }
func (v Value) Single() float32 { return v.Data.(float32) }
func (v Value) Double() float64 { return v.Data.(float64) }
func (v Value) Str() string     { return v.Data.(string) }

// String is for disassembly and error messages only; rendering v with
// the PRINT conventions is FormatValue's job (format.go), not this
// method's.
func (v Value) String() string {
	switch v.Type {
	case ValueInteger:
		return fmt.Sprintf("%d%%", v.Integer())
	case ValueLong:
		return fmt.Sprintf("%d&", v.Long())
	case ValueSingle:
		return fmt.Sprintf("%g!", v.Single())
	case ValueDouble:
		return fmt.Sprintf("%g#", v.Double())
	case ValueString:
		return fmt.Sprintf("%q$", v.Str())
	}
	return "?"
}

// NumericJoin returns the least upper bound of two numeric types in the
// lattice INTEGER < LONG < SINGLE < DOUBLE (spec §4.3). Callers must not
// pass ValueString.
func NumericJoin(a, b ValueType) ValueType {
	if a > b {
		return a
	}
	return b
}

// coercionEntry names the unary opcode that converts a value of one type
// to another. none is true when no conversion is needed.
type coercionEntry struct {
	op   OpCode
	none bool
}

// coercionTable is the 4x4 matrix (spec §9 "represent as a data table")
// the compiler consults, through CoercionOp, to insert conversions; the
// disassembler names opcodes from opCodeNames instead. Diagonal entries
// are the identity and carry none=true.
var coercionTable = map[[2]ValueType]coercionEntry{
	{ValueInteger, ValueInteger}: {none: true},
	{ValueInteger, ValueLong}:    {op: OpPromoteIntegerLong},
	{ValueInteger, ValueSingle}:  {op: OpCoerceIntegerSingle},
	{ValueInteger, ValueDouble}:  {op: OpCoerceIntegerDouble},

	{ValueLong, ValueInteger}: {op: OpCoerceLongInteger},
	{ValueLong, ValueLong}:    {none: true},
	{ValueLong, ValueSingle}:  {op: OpCoerceLongSingle},
	{ValueLong, ValueDouble}:  {op: OpCoerceLongDouble},

	{ValueSingle, ValueInteger}: {op: OpCoerceSingleInteger},
	{ValueSingle, ValueLong}:    {op: OpCoerceSingleLong},
	{ValueSingle, ValueSingle}:  {none: true},
	{ValueSingle, ValueDouble}:  {op: OpPromoteSingleDouble},

	{ValueDouble, ValueInteger}: {op: OpCoerceDoubleInteger},
	{ValueDouble, ValueLong}:    {op: OpCoerceDoubleLong},
	{ValueDouble, ValueSingle}:  {op: OpCoerceDoubleSingle},
	{ValueDouble, ValueDouble}:  {none: true},
}

// CoercionOp looks up the opcode that converts a value of type from to
// type to. ok is false for the string type or for an unknown pair; needed
// is false when from == to (no instruction should be emitted).
func CoercionOp(from, to ValueType) (op OpCode, needed bool, ok bool) {
	entry, ok := coercionTable[[2]ValueType{from, to}]
	if !ok {
		return 0, false, false
	}
	return entry.op, !entry.none, true
}
