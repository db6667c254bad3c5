package bytecode

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/go-basic/core/internal/lexer"
)

// Chunk is the compiler's output: a flat byte stream plus a sparse
// offset-to-range side table (spec §9 "instruction-to-source mapping"),
// one entry per statement, that the VM consults to populate ErrorInfo on
// a runtime failure.
type Chunk struct {
	Code   []byte
	ranges []rangeEntry

	// SlotNames and SlotTypes are parallel, indexed by slot number, filled
	// in by the compiler from its first-use-wins allocation order (spec
	// §4.3). The VM pre-sizes its slot table from SlotTypes so that a
	// PUSH_VARIABLE of a never-written slot autovivifies to the correct
	// zero value (spec §3.6) even though PUSH_VARIABLE's own operand is
	// just a bare slot index with no type tag (spec §9 "the slot's own
	// variant conveys it at run time").
	SlotNames []string
	SlotTypes []ValueType
}

type rangeEntry struct {
	offset int
	rng    lexer.Range
}

// MarkStatement records that the next-to-be-written byte begins the
// instructions generated for a statement spanning rng. Called once per
// statement by the compiler, never per-instruction.
func (c *Chunk) MarkStatement(rng lexer.Range) {
	c.ranges = append(c.ranges, rangeEntry{offset: len(c.Code), rng: rng})
}

// RangeAt returns the source range of the statement that produced the
// instruction at offset, or the zero Range if offset precedes the first
// recorded statement.
func (c *Chunk) RangeAt(offset int) lexer.Range {
	i := sort.Search(len(c.ranges), func(i int) bool { return c.ranges[i].offset > offset })
	if i == 0 {
		return lexer.Range{}
	}
	return c.ranges[i-1].rng
}

func (c *Chunk) emitByte(b byte) {
	c.Code = append(c.Code, b)
}

func (c *Chunk) emitOp(op OpCode) {
	c.emitByte(byte(op))
}

func (c *Chunk) emitU8(n uint8) {
	c.emitByte(n)
}

func (c *Chunk) emitI16(n int16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], uint16(n))
	c.Code = append(c.Code, buf[:]...)
}

func (c *Chunk) emitI32(n int32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(n))
	c.Code = append(c.Code, buf[:]...)
}

func (c *Chunk) emitF32(f float32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
	c.Code = append(c.Code, buf[:]...)
}

func (c *Chunk) emitF64(f float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
	c.Code = append(c.Code, buf[:]...)
}

func (c *Chunk) emitString(s string) {
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(s)))
	c.Code = append(c.Code, lenBuf[:]...)
	c.Code = append(c.Code, s...)
}

func readU8(code []byte, off int) uint8 {
	return code[off]
}

func readI16(code []byte, off int) int16 {
	return int16(binary.LittleEndian.Uint16(code[off:]))
}

func readI32(code []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(code[off:]))
}

func readF32(code []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(code[off:]))
}

func readF64(code []byte, off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(code[off:]))
}

func readString(code []byte, off int) (string, int) {
	n := int(binary.LittleEndian.Uint16(code[off:]))
	start := off + 2
	return string(code[start : start+n]), 2 + n
}
