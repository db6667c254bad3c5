package effects

import (
	"bytes"
	"testing"
)

func TestStdoutWritesThrough(t *testing.T) {
	var buf bytes.Buffer
	s := NewStdout(&buf)
	if err := s.Print([]byte(" 1 ")); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if err := s.PrintLinefeed(); err != nil {
		t.Fatalf("PrintLinefeed: %v", err)
	}
	if buf.String() != " 1 \n" {
		t.Errorf("buf = %q, want %q", buf.String(), " 1 \n")
	}
}

func TestStdoutPragmaPrintedIsNoOp(t *testing.T) {
	var buf bytes.Buffer
	s := NewStdout(&buf)
	if err := s.PragmaPrinted("anything"); err != nil {
		t.Errorf("PragmaPrinted: %v, want nil (production sink ignores the testing hook)", err)
	}
}

func TestBufferAccumulates(t *testing.T) {
	b := NewBuffer()
	if err := b.Print([]byte("hi")); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if err := b.PrintLinefeed(); err != nil {
		t.Fatalf("PrintLinefeed: %v", err)
	}
	if b.String() != "hi\n" {
		t.Errorf("b.String() = %q, want %q", b.String(), "hi\n")
	}
}

func TestBufferPragmaPrintedMatch(t *testing.T) {
	b := NewBuffer()
	b.Print([]byte("exact"))
	if err := b.PragmaPrinted("exact"); err != nil {
		t.Errorf("PragmaPrinted: %v, want nil on an exact match", err)
	}
}

func TestBufferPragmaPrintedMismatch(t *testing.T) {
	b := NewBuffer()
	b.Print([]byte("actual"))
	if err := b.PragmaPrinted("expected"); err == nil {
		t.Error("PragmaPrinted: expected an error on a mismatch")
	}
}

func TestBufferCommaZoneAdvance(t *testing.T) {
	b := NewBuffer()
	b.Print([]byte("ab"))
	if err := b.PrintComma(); err != nil {
		t.Fatalf("PrintComma: %v", err)
	}
	if len(b.String()) != 14 {
		t.Errorf("len(b.String()) = %d, want 14 (padded to the next print zone)", len(b.String()))
	}
}
