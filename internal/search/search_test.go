package search

import (
	"context"
	"reflect"
	"testing"

	"quinian/internal/corpus"
	"quinian/internal/domain"
)

func buildIndex(t *testing.T, records []corpus.ClueRecord, n int) *corpus.Index {
	t.Helper()
	idx, err := corpus.BuildIndex(records, n)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	return idx
}

func gridRowsEqual(grid [][]byte, rows ...string) bool {
	if len(grid) != len(rows) {
		return false
	}
	for i, row := range rows {
		if string(grid[i]) != row {
			return false
		}
	}
	return true
}

func surfacesEqual(surfaces []*domain.Surface, want ...string) bool {
	if len(surfaces) != len(want) {
		return false
	}
	for i, w := range want {
		if surfaces[i] == nil || string(*surfaces[i]) != w {
			return false
		}
	}
	return true
}

// limitedSeeder truncates a Searcher's Seeds() iterator to its first n
// seeds, so a test can measure exactly how many results a seed prefix
// emits without reimplementing the driver's walk.
type limitedSeeder[S any, Seed any, Ext any] struct {
	Searcher[S, Seed, Ext]
	n int
}

func (l limitedSeeder[S, Seed, Ext]) Seeds() func(yield func(Seed) bool) {
	return func(yield func(Seed) bool) {
		i := 0
		for seed := range l.Searcher.Seeds() {
			i++
			if i > l.n {
				return
			}
			if !yield(seed) {
				return
			}
		}
	}
}

func TestDenseSearcherFindsResult(t *testing.T) {
	records := []corpus.ClueRecord{
		{Surface: "S1", Answer: "ABC"}, {Surface: "S1", Answer: "GHI"},
		{Surface: "S2", Answer: "DEF"}, {Surface: "S2", Answer: "JKL"},
		{Surface: "Sc0", Answer: "ADX"}, {Surface: "Sc0", Answer: "GJY"},
		{Surface: "Sc1", Answer: "BEP"}, {Surface: "Sc1", Answer: "HKQ"},
		{Surface: "Sc2", Answer: "CFR"}, {Surface: "Sc2", Answer: "ILS"},
		{Surface: "Word X", Answer: "XPR"},
		{Surface: "Word Y", Answer: "YQS"},
	}
	idx := buildIndex(t, records, 3)
	searcher := NewDenseSearcher(idx, 3)

	var results []Result
	driver := NewDriver[*DenseState, DenseSeed, DenseExt](searcher, 1, 0, func(r Result) {
		results = append(results, r)
	}, nil)

	if err := driver.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one accepted Dense result")
	}

	found := false
	for _, r := range results {
		if string(r.Grid1[0]) == "ABC" && string(r.Grid2[0]) == "GHI" &&
			string(r.Grid1[1]) == "DEF" && string(r.Grid2[1]) == "JKL" &&
			string(r.Grid1[2]) == "XPR" && string(r.Grid2[2]) == "YQS" {
			found = true
			if r.MissingSurfaces != 1 {
				t.Errorf("expected 1 missing surface (row 2), got %d", r.MissingSurfaces)
			}
			if r.AcrossSurfaces[2] != nil {
				t.Errorf("expected row 2 across surface to be nil, got %v", *r.AcrossSurfaces[2])
			}
		}
	}
	if !found {
		t.Error("expected the crafted completion among the results")
	}
}

// TestDenseSearcherSymmetry reproduces spec T1: the transpose of an
// accepted Dense grid pair must be independently derivable from the same
// corpus and must be accepted by the same run (spec §8's Symmetry law).
func TestDenseSearcherSymmetry(t *testing.T) {
	records := []corpus.ClueRecord{
		{Surface: "A1", Answer: "ABC"}, {Surface: "A1", Answer: "JKL"},
		{Surface: "A2", Answer: "DEF"}, {Surface: "A2", Answer: "MNO"},
		{Surface: "A3", Answer: "GHI"}, {Surface: "A3", Answer: "PQR"},
		{Surface: "D1", Answer: "ADG"}, {Surface: "D1", Answer: "JMP"},
		{Surface: "D2", Answer: "BEH"}, {Surface: "D2", Answer: "KNQ"},
		{Surface: "D3", Answer: "CFI"}, {Surface: "D3", Answer: "LOR"},
	}
	idx := buildIndex(t, records, 3)
	searcher := NewDenseSearcher(idx, 3)

	var results []Result
	driver := NewDriver[*DenseState, DenseSeed, DenseExt](searcher, 0, 0, func(r Result) {
		results = append(results, r)
	}, nil)
	if err := driver.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected exactly 2 results (spec T1, M=0), got %d", len(results))
	}

	var hasOriginal, hasTranspose bool
	for _, r := range results {
		if gridRowsEqual(r.Grid1, "ABC", "DEF", "GHI") && gridRowsEqual(r.Grid2, "JKL", "MNO", "PQR") &&
			surfacesEqual(r.AcrossSurfaces, "A1", "A2", "A3") && surfacesEqual(r.DownSurfaces, "D1", "D2", "D3") {
			hasOriginal = true
		}
		if gridRowsEqual(r.Grid1, "ADG", "BEH", "CFI") && gridRowsEqual(r.Grid2, "JMP", "KNQ", "LOR") &&
			surfacesEqual(r.AcrossSurfaces, "D1", "D2", "D3") && surfacesEqual(r.DownSurfaces, "A1", "A2", "A3") {
			hasTranspose = true
		}
	}
	if !hasOriginal {
		t.Error("expected the original T1 grid pair among the results")
	}
	if !hasTranspose {
		t.Error("expected the transpose grid pair among the results (spec's symmetry law)")
	}
}

func TestAlternatingSearcherFindsResult(t *testing.T) {
	records := []corpus.ClueRecord{
		{Surface: "Sa", Answer: "PQR"}, {Surface: "Sa", Answer: "STU"},
		{Surface: "Sb", Answer: "XYZ"}, {Surface: "Sb", Answer: "LMN"},
		{Surface: "Sc0", Answer: "PAX"}, {Surface: "Sc0", Answer: "SBL"},
		{Surface: "Sc1", Answer: "RCZ"}, {Surface: "Sc1", Answer: "UDN"},
	}
	idx := buildIndex(t, records, 3)
	searcher := NewAlternatingSearcher(idx, 3)

	var results []Result
	driver := NewDriver[*AlternatingState, AltSeed, AltExt](searcher, 0, 0, func(r Result) {
		results = append(results, r)
	}, nil)

	if err := driver.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one accepted Alternating result")
	}

	for _, r := range results {
		if r.MissingSurfaces != 0 {
			t.Errorf("alternating results must never report missing surfaces, got %d", r.MissingSurfaces)
		}
		for _, s := range r.AcrossSurfaces {
			if s == nil {
				t.Error("expected every across surface to be bound")
			}
		}
		for _, s := range r.DownSurfaces {
			if s == nil {
				t.Error("expected every down surface to be bound")
			}
		}
	}
}

func TestDriverSymmetryFilterSkipsReversedFirstSeed(t *testing.T) {
	records := []corpus.ClueRecord{
		{Surface: "Sa", Answer: "AAB"}, {Surface: "Sa", Answer: "BBA"},
	}
	idx := buildIndex(t, records, 3)
	searcher := NewAlternatingSearcher(idx, 3)

	count := 0
	for seed := range searcher.Seeds() {
		count++
		if seed[0].A1 > seed[0].A2 {
			t.Errorf("symmetry filter should exclude seeds whose first element has A1 > A2, got %+v", seed[0])
		}
	}
	if count == 0 {
		t.Fatal("expected at least one seed to survive the symmetry filter")
	}
}

// TestDriverStartIndexResumption reproduces spec T6: resuming from
// start_index = k+1 must yield exactly the tail of the full run's
// Results, missing exactly the contributions of the first k seeds — not
// merely a smaller count.
func TestDriverStartIndexResumption(t *testing.T) {
	records := []corpus.ClueRecord{
		{Surface: "A1", Answer: "ABC"}, {Surface: "A1", Answer: "JKL"},
		{Surface: "A2", Answer: "DEF"}, {Surface: "A2", Answer: "MNO"},
		{Surface: "A3", Answer: "GHI"}, {Surface: "A3", Answer: "PQR"},
		{Surface: "D1", Answer: "ADG"}, {Surface: "D1", Answer: "JMP"},
		{Surface: "D2", Answer: "BEH"}, {Surface: "D2", Answer: "KNQ"},
		{Surface: "D3", Answer: "CFI"}, {Surface: "D3", Answer: "LOR"},
	}
	idx := buildIndex(t, records, 3)
	searcher := NewDenseSearcher(idx, 3)

	var full []Result
	NewDriver[*DenseState, DenseSeed, DenseExt](searcher, 0, 0, func(r Result) {
		full = append(full, r)
	}, nil).Run(context.Background())

	if len(full) < 2 {
		t.Fatalf("need at least 2 accepted results for a meaningful resumption check, got %d", len(full))
	}

	const k = 1 // skip exactly the first seed, as spec T6 prescribes (start_index = 2)

	var prefix []Result
	limited := limitedSeeder[*DenseState, DenseSeed, DenseExt]{Searcher: searcher, n: k}
	NewDriver[*DenseState, DenseSeed, DenseExt](limited, 0, 0, func(r Result) {
		prefix = append(prefix, r)
	}, nil).Run(context.Background())

	var resumed []Result
	NewDriver[*DenseState, DenseSeed, DenseExt](searcher, 0, k+1, func(r Result) {
		resumed = append(resumed, r)
	}, nil).Run(context.Background())

	wantTail := full[len(prefix):]
	if len(resumed) != len(wantTail) {
		t.Fatalf("resumed has %d results, want %d (the tail of the full run after seed %d)", len(resumed), len(wantTail), k)
	}
	for i := range resumed {
		if !reflect.DeepEqual(resumed[i], wantTail[i]) {
			t.Errorf("resumed[%d] != full[%d]:\n got  %+v\nwant %+v", i, len(prefix)+i, resumed[i], wantTail[i])
		}
	}
}
