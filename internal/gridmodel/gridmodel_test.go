package gridmodel

import (
	"testing"

	"quinian/internal/domain"
)

func TestDenseEntrySchedule(t *testing.T) {
	g := NewDense(4)
	if got := g.EntryRows(); len(got) != 4 {
		t.Fatalf("expected 4 entry rows, got %d", len(got))
	}
	if got := g.EntryCols(); len(got) != 4 {
		t.Fatalf("expected 4 entry cols, got %d", len(got))
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if g.Blocked(r, c) {
				t.Fatalf("dense grid should have no blocked cells, found one at (%d,%d)", r, c)
			}
		}
	}
}

func TestAlternatingBlockPattern(t *testing.T) {
	g := NewAlternating(5)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			want := r%2 == 1 && c%2 == 1
			if g.Blocked(r, c) != want {
				t.Errorf("Blocked(%d,%d) = %v, want %v", r, c, g.Blocked(r, c), want)
			}
		}
	}
	rows := g.EntryRows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 entry rows (ceil(5/2)), got %d", len(rows))
	}
	for _, r := range rows {
		if r%2 != 0 {
			t.Errorf("entry row %d should be even", r)
		}
	}
}

func TestPlaceAndReadRow(t *testing.T) {
	g := NewDense(5)
	g.PlaceRow(0, domain.Word("HELLO"))
	if got := g.RowEntry(0); got != "HELLO" {
		t.Errorf("RowEntry(0) = %q, want HELLO", got)
	}
}

func TestPlaceAndReadColAlternating(t *testing.T) {
	g := NewAlternating(5)
	g.PlaceCol(0, domain.Word("ABCDE"))
	if got := g.ColEntry(0); got != "ABCDE" {
		t.Errorf("ColEntry(0) = %q, want ABCDE", got)
	}
	// Row 1 (odd) is not an entry row, but column 0 (even) is an entry
	// column, so cell (1,0) must have received its letter.
	if got := g.Cell(1, 0); got != 'B' {
		t.Errorf("Cell(1,0) = %q, want B", got)
	}
}

func TestCellPanicsOnBlocked(t *testing.T) {
	g := NewAlternating(5)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reading a blocked cell")
		}
	}()
	g.Cell(1, 1)
}

func TestResetRestoresEmptyPattern(t *testing.T) {
	g := NewAlternating(5)
	g.PlaceRow(0, domain.Word("ABCDE"))
	g.Reset()
	if g.IsComplete() {
		t.Error("expected grid to be incomplete after reset")
	}
	if g.Cell(0, 0) != empty {
		t.Errorf("Cell(0,0) after reset = %q, want empty sentinel", g.Cell(0, 0))
	}
	if !g.Blocked(1, 1) {
		t.Error("expected blocked pattern to survive reset")
	}
}

func TestSharedCellConsistency(t *testing.T) {
	g := NewAlternating(5)
	g.PlaceRow(0, domain.Word("ABCDE"))
	g.PlaceCol(0, domain.Word("AFGHI"))
	if got := g.Cell(0, 0); got != 'A' {
		t.Errorf("shared cell (0,0) = %q, want A (both entries agree)", got)
	}
}
