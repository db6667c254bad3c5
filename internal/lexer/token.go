package lexer

import "fmt"

// Position is a single 1-based (line, column) location in source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is a pair of inclusive source positions. Every token and every AST
// node carries a Range; a composite node's Range spans from its first
// child's Range to its last child's Range.
type Range struct {
	Start Position
	End   Position
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Span merges two ranges into one that covers both, used when a parser
// builds a composite node from sub-expressions.
func Span(first, last Range) Range {
	return Range{Start: first.Start, End: last.End}
}

// Token is a single lexical unit with its source Range and decoded literal
// value. Numeric literals decode straight to their typed Go representation
// (IntVal/LongVal/FloatVal) rather than carrying a raw string, since the
// tokenizer already knows which numeric variant a literal's suffix and
// shape selects (spec §4.1).
type Token struct {
	Type     TokenType
	Text     string // original source text
	Range    Range
	IntVal   int16   // valid when Type == INTEGER
	LongVal  int32   // valid when Type == LONG
	FloatVal float64 // valid when Type == SINGLE or DOUBLE (stored widened)
	StrVal   string  // decoded value: STRVAL (quotes stripped), REMARK (whole comment, including the leading ' or REM), LABEL/JUMPLBL (name)
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Type, t.Text, t.Range)
}
