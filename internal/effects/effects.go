// Package effects defines the VM's abstract side-effect capability (spec
// §6.1, §9 "Effects collaborator"). The VM depends only on the Effects
// interface, never a concrete writer, which is what lets a production
// stdout driver and a test buffer driver share one VM implementation —
// grounded on the teacher's io.Writer-parameterized VM (NewVMWithOutput),
// generalized here to a small capability interface instead of a bare
// writer since the core also needs PrintLoc-aware comma/linefeed
// behavior and the PRAGMA_PRINTED testing hook.
package effects

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-basic/core/internal/printloc"
)

// Effects is the capability the VM uses to emit output and, in test
// builds, assert on it.
type Effects interface {
	// Print appends a value's already-rendered bytes (the VM formats them)
	// to the output sink.
	Print(rendered []byte) error
	// PrintComma consults PrintLoc and emits either a newline or padding
	// spaces.
	PrintComma() error
	// PrintLinefeed emits a newline and resets the column.
	PrintLinefeed() error
	// PragmaPrinted is a testing hook comparing the accumulated print
	// buffer against want; production implementations may no-op.
	PragmaPrinted(want string) error
	// Close releases any owned resources.
	Close() error
}

// Stdout is the production Effects implementation: it writes straight to
// an io.Writer (typically os.Stdout) and treats PragmaPrinted as a no-op.
type Stdout struct {
	w   io.Writer
	loc printloc.Loc
}

// NewStdout wraps w as a production Effects sink.
func NewStdout(w io.Writer) *Stdout {
	return &Stdout{w: w}
}

func (s *Stdout) Print(rendered []byte) error {
	if _, err := s.w.Write(rendered); err != nil {
		return err
	}
	s.loc.Advance(rendered)
	return nil
}

func (s *Stdout) PrintComma() error {
	action := s.loc.Comma()
	if action.Newline {
		_, err := s.w.Write([]byte{'\n'})
		return err
	}
	_, err := s.w.Write(bytes.Repeat([]byte{' '}, action.Spaces))
	return err
}

func (s *Stdout) PrintLinefeed() error {
	if _, err := s.w.Write([]byte{'\n'}); err != nil {
		return err
	}
	s.loc.Advance([]byte{'\n'})
	return nil
}

func (s *Stdout) PragmaPrinted(want string) error { return nil }

func (s *Stdout) Close() error { return nil }

// Buffer is the test Effects implementation: it accumulates every byte
// written into an in-memory buffer that tests assert against (spec §6.1
// "the test implementation accumulates bytes into a buffer that tests
// then assert against"), and PragmaPrinted actually checks the
// accumulated text instead of no-opping.
type Buffer struct {
	buf bytes.Buffer
	loc printloc.Loc
}

// NewBuffer creates an empty test Effects sink.
func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Print(rendered []byte) error {
	b.buf.Write(rendered)
	b.loc.Advance(rendered)
	return nil
}

func (b *Buffer) PrintComma() error {
	action := b.loc.Comma()
	if action.Newline {
		b.buf.WriteByte('\n')
		return nil
	}
	for i := 0; i < action.Spaces; i++ {
		b.buf.WriteByte(' ')
	}
	return nil
}

func (b *Buffer) PrintLinefeed() error {
	b.buf.WriteByte('\n')
	b.loc.Advance([]byte{'\n'})
	return nil
}

// PragmaPrinted reports a mismatch as an error so a caller that ignores
// the testing hook in production can still fail a test loudly.
func (b *Buffer) PragmaPrinted(want string) error {
	if got := b.buf.String(); got != want {
		return fmt.Errorf("pragma printed: got %q, want %q", got, want)
	}
	return nil
}

func (b *Buffer) Close() error { return nil }

// String returns everything written so far.
func (b *Buffer) String() string { return b.buf.String() }

// Bytes returns everything written so far.
func (b *Buffer) Bytes() []byte { return b.buf.Bytes() }
