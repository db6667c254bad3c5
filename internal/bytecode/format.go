package bytecode

import (
	"fmt"
	"strconv"
)

// FormatValue renders v using BASIC's "leading sign space" convention (spec
// §4.5): non-negative numbers get a leading space and a trailing space,
// negative numbers get a leading minus and a trailing space, and strings
// print verbatim with no quoting and no padding. This is the only place
// that convention is implemented; Value.String (bytecode.go) is for
// disassembly and error messages, never for program output.
func FormatValue(v Value) string {
	switch v.Type {
	case ValueInteger:
		return formatSignedInt(int64(v.Integer()))
	case ValueLong:
		return formatSignedInt(int64(v.Long()))
	case ValueSingle:
		return formatSignedFloat(float64(v.Single()), 32)
	case ValueDouble:
		return formatSignedFloat(v.Double(), 64)
	case ValueString:
		return v.Str()
	}
	panic(fmt.Sprintf("bytecode: FormatValue: unknown type %v", v.Type))
}

func formatSignedInt(n int64) string {
	if n < 0 {
		return fmt.Sprintf("%d ", n)
	}
	return fmt.Sprintf(" %d ", n)
}

func formatSignedFloat(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if s != "" && s[0] == '-' {
		return s + " "
	}
	return " " + s + " "
}
