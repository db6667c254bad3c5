package bytecode

import (
	"fmt"
	"io"
	"strings"
)

// Disassembler renders a Chunk's flat byte stream as human-readable text,
// one instruction per line (SPEC_FULL §4.3 expansion "disasm subcommand").
// Grounded on the teacher's Disassembler, adapted from its fixed-width,
// constant-pool-indexed instruction model to this ISA's variable-width,
// operand-inline encoding: there is no constant pool to index into, so
// every opcode decodes its own operand bytes straight out of the code
// slice instead of dispatching through an Instruction accessor.
type Disassembler struct {
	writer io.Writer
	chunk  *Chunk
}

// NewDisassembler creates a disassembler for chunk, writing to w.
func NewDisassembler(chunk *Chunk, w io.Writer) *Disassembler {
	return &Disassembler{writer: w, chunk: chunk}
}

// Disassemble prints every instruction in the chunk in order.
func (d *Disassembler) Disassemble() {
	fmt.Fprintf(d.writer, "== chunk (%d bytes) ==\n", len(d.chunk.Code))
	offset := 0
	for offset < len(d.chunk.Code) {
		offset = d.DisassembleInstruction(offset)
	}
}

// DisassembleInstruction prints the instruction starting at offset and
// returns the offset of the instruction that follows it.
func (d *Disassembler) DisassembleInstruction(offset int) int {
	code := d.chunk.Code
	op := OpCode(code[offset])
	fmt.Fprintf(d.writer, "%04d ", offset)

	switch op {
	case OpPushImmInteger:
		v := readI16(code, offset+1)
		return d.operand(op, offset, 1+2, fmt.Sprintf("%d", v))
	case OpPushImmLong:
		v := readI32(code, offset+1)
		return d.operand(op, offset, 1+4, fmt.Sprintf("%d", v))
	case OpPushImmSingle:
		v := readF32(code, offset+1)
		return d.operand(op, offset, 1+4, fmt.Sprintf("%g", v))
	case OpPushImmDouble:
		v := readF64(code, offset+1)
		return d.operand(op, offset, 1+8, fmt.Sprintf("%g", v))
	case OpPushImmString:
		s, n := readString(code, offset+1)
		return d.operand(op, offset, 1+n, fmt.Sprintf("%q", s))
	case OpPushVariable:
		slot := readU8(code, offset+1)
		return d.operand(op, offset, 1+1, d.slotLabel(slot))
	case OpLet:
		slot := readU8(code, offset+1)
		return d.operand(op, offset, 1+1, d.slotLabel(slot))
	case OpPragmaPrinted:
		s, n := readString(code, offset+1)
		return d.operand(op, offset, 1+n, fmt.Sprintf("%q", s))
	}

	fmt.Fprintf(d.writer, "%s\n", op)
	return offset + 1
}

// slotLabel annotates a slot index with its source name when the chunk
// carries one (always true for chunks produced by Compile).
func (d *Disassembler) slotLabel(slot uint8) string {
	if int(slot) < len(d.chunk.SlotNames) {
		return fmt.Sprintf("%d ; %s", slot, d.chunk.SlotNames[slot])
	}
	return fmt.Sprintf("%d", slot)
}

func (d *Disassembler) operand(op OpCode, offset, width int, operand string) int {
	fmt.Fprintf(d.writer, "%-24s %s\n", op, operand)
	return offset + width
}

// DisassembleToString renders an entire chunk's disassembly as a string,
// the form the CLI's disasm subcommand and bytecode-golden tests use.
func DisassembleToString(chunk *Chunk) string {
	var sb strings.Builder
	NewDisassembler(chunk, &sb).Disassemble()
	return sb.String()
}

// Disassemble is the package-level convenience entry point named by
// SPEC_FULL's disassembler expansion.
func Disassemble(chunk *Chunk) string {
	return DisassembleToString(chunk)
}
