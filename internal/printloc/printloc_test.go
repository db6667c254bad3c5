package printloc

import "testing"

func TestAdvanceTracksColumn(t *testing.T) {
	var l Loc
	l.Advance([]byte("hello"))
	if l.Column() != 5 {
		t.Errorf("Column() = %d, want 5", l.Column())
	}
}

func TestAdvanceNewlineResetsColumn(t *testing.T) {
	var l Loc
	l.Advance([]byte("hello"))
	l.Advance([]byte("\n"))
	if l.Column() != 0 {
		t.Errorf("Column() = %d, want 0 after a newline", l.Column())
	}
}

func TestCommaAdvancesToNextZoneBoundary(t *testing.T) {
	var l Loc
	l.Advance([]byte("ab")) // column = 2
	action := l.Comma()
	if action.Newline {
		t.Fatal("Comma() requested a newline from column 2, want padding")
	}
	if action.Spaces != ZoneWidth-2 {
		t.Errorf("action.Spaces = %d, want %d", action.Spaces, ZoneWidth-2)
	}
	if l.Column() != ZoneWidth {
		t.Errorf("Column() = %d, want %d", l.Column(), ZoneWidth)
	}
}

func TestCommaFromZoneBoundaryAdvancesFullZone(t *testing.T) {
	var l Loc
	l.Advance([]byte("0123456789ABCD")) // exactly ZoneWidth (14) chars
	if l.Column() != ZoneWidth {
		t.Fatalf("setup: Column() = %d, want %d", l.Column(), ZoneWidth)
	}
	action := l.Comma()
	if action.Spaces != ZoneWidth {
		t.Errorf("action.Spaces = %d, want %d (a full zone from an exact boundary)", action.Spaces, ZoneWidth)
	}
}

func TestCommaAtLastZoneBoundaryWrapsWithNewline(t *testing.T) {
	l := Loc{column: (MaxZones - 1) * ZoneWidth}
	action := l.Comma()
	if !action.Newline {
		t.Error("Comma() at the last zone boundary should request a newline")
	}
	if l.Column() != 0 {
		t.Errorf("Column() = %d, want 0 after wrapping", l.Column())
	}
}
