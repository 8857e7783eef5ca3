package search

import (
	"quinian/internal/corpus"
	"quinian/internal/domain"
	"quinian/internal/gridmodel"
)

// Alternating stage tags: Downs fills the even columns from the two
// seeded rows' masks, FinalAcrosses fills the remaining even rows under
// the constraint already forced by the placed down entries.
const (
	AltStageDowns         Stage = 1
	AltStageFinalAcrosses Stage = 2
)

// AltSeed places two corpus pairs into rows 0 and 2.
type AltSeed [2]corpus.Pair

// AltExt is one candidate assignment for every remaining entry at the
// current stage: one Pair per even column (Downs) or per remaining even
// row (FinalAcrosses).
type AltExt []corpus.Pair

// AlternatingState is the mutable working state for an Alternating search
// at a fixed size N.
type AlternatingState struct {
	G1, G2 *gridmodel.Grid
	// AcrossSurfaces and DownSurfaces are indexed by entry position
	// (0, 1, 2, ... for entry rows/cols 0, 2, 4, ...), not raw row/col
	// index.
	AcrossSurfaces []*domain.Surface
	DownSurfaces   []*domain.Surface
}

// AlternatingSearcher realizes the Searcher contract for the topology
// where cells at (odd row, odd col) are permanently blocked.
type AlternatingSearcher struct {
	idx *corpus.Index
	n   int
	nd  int // number of entries per direction, ceil(n/2)
}

// NewAlternatingSearcher builds an Alternating searcher over idx for size
// n. idx must have been built with BuildIndex(_, n, ...).
func NewAlternatingSearcher(idx *corpus.Index, n int) *AlternatingSearcher {
	return &AlternatingSearcher{idx: idx, n: n, nd: (n + 1) / 2}
}

func (s *AlternatingSearcher) CrosswordType() domain.CrosswordType {
	return domain.CrosswordType{Topology: domain.TopologyAlternating, Size: s.n}
}

func (s *AlternatingSearcher) NewState() *AlternatingState {
	return &AlternatingState{
		G1:             gridmodel.NewAlternating(s.n),
		G2:             gridmodel.NewAlternating(s.n),
		AcrossSurfaces: make([]*domain.Surface, s.nd),
		DownSurfaces:   make([]*domain.Surface, s.nd),
	}
}

// CountInitial returns Q*(P-1), where P is the total number of index
// pairs and Q is the number whose first element has A1 <= A2 (the ones
// Seeds actually yields as a seed's first element).
func (s *AlternatingSearcher) CountInitial() int {
	pairs := s.idx.Pairs
	p := len(pairs)
	q := 0
	for _, pr := range pairs {
		if pr.A1 <= pr.A2 {
			q++
		}
	}
	return q * (p - 1)
}

// Seeds yields every ordered 2-permutation of the index's pairs, filtered
// to keep only those whose first element has A1 <= A2 lexicographically.
// Rows 0 and 2 are not interchangeable (the Downs mask key reads row 0's
// letter first and row 2's second), so unlike Dense the seed order itself
// is significant; the filter instead breaks the symmetry of
// swapping grid 1 and grid 2 throughout an entire solution (spec §4.6).
func (s *AlternatingSearcher) Seeds() func(yield func(AltSeed) bool) {
	pairs := s.idx.SortedPairs()
	return func(yield func(AltSeed) bool) {
		for i := 0; i < len(pairs); i++ {
			if pairs[i].A1 > pairs[i].A2 {
				continue
			}
			for j := 0; j < len(pairs); j++ {
				if i == j {
					continue
				}
				if !yield(AltSeed{pairs[i], pairs[j]}) {
					return
				}
			}
		}
	}
}

func (s *AlternatingSearcher) ResetAndSeed(state *AlternatingState, seed AltSeed) {
	state.G1.Reset()
	state.G2.Reset()
	for i := range state.AcrossSurfaces {
		state.AcrossSurfaces[i] = nil
	}
	for i := range state.DownSurfaces {
		state.DownSurfaces[i] = nil
	}

	p0, p1 := seed[0], seed[1]
	state.G1.PlaceRow(0, p0.A1)
	state.G2.PlaceRow(0, p0.A2)
	surf0 := p0.Surface
	state.AcrossSurfaces[0] = &surf0

	state.G1.PlaceRow(2, p1.A1)
	state.G2.PlaceRow(2, p1.A2)
	surf1 := p1.Surface
	state.AcrossSurfaces[1] = &surf1
}

func (s *AlternatingSearcher) InitialStage() Stage { return AltStageDowns }

func (s *AlternatingSearcher) Enumerate(stage Stage, state *AlternatingState) []AltExt {
	switch stage {
	case AltStageDowns:
		return s.enumerateDowns(state)
	case AltStageFinalAcrosses:
		return s.enumerateFinalAcrosses(state)
	default:
		return nil
	}
}

func (s *AlternatingSearcher) enumerateDowns(state *AlternatingState) []AltExt {
	candidatesPerCol := make([][]corpus.Pair, s.nd)
	for i := 0; i < s.nd; i++ {
		col := 2 * i
		m1 := domain.Word([]byte{state.G1.Cell(0, col), state.G1.Cell(2, col)})
		m2 := domain.Word([]byte{state.G2.Cell(0, col), state.G2.Cell(2, col)})
		candidates := s.idx.LookupMask(m1, m2)
		if len(candidates) == 0 {
			return nil
		}
		candidatesPerCol[i] = candidates
	}

	var out []AltExt
	cartesianProductPairs(candidatesPerCol, func(combo []corpus.Pair) {
		ext := make(AltExt, len(combo))
		copy(ext, combo)
		out = append(out, ext)
	})
	return out
}

// enumerateFinalAcrosses handles the hard case: for each remaining even
// row (row 4 and beyond), the mask at positions {0, 2} is already forced
// by the placed down entries, and every further even column's letter
// must also agree with what Downs already wrote there. MaskIndex gives
// the shape-matching candidates; the trailing-column check then prunes
// down to the ones consistent with the rest of the row.
func (s *AlternatingSearcher) enumerateFinalAcrosses(state *AlternatingState) []AltExt {
	var remaining []int // entry indices i >= 2, i.e. rows 4, 6, ...
	for i := 2; i < s.nd; i++ {
		remaining = append(remaining, i)
	}
	if len(remaining) == 0 {
		return []AltExt{{}}
	}

	candidatesPerRow := make([][]corpus.Pair, len(remaining))
	for k, i := range remaining {
		row := 2 * i
		m1 := domain.Word([]byte{state.G1.Cell(row, 0), state.G1.Cell(row, 2)})
		m2 := domain.Word([]byte{state.G2.Cell(row, 0), state.G2.Cell(row, 2)})
		shapeMatches := s.idx.LookupMask(m1, m2)

		var filtered []corpus.Pair
		for _, cand := range shapeMatches {
			if s.matchesTrailingColumns(state, row, cand) {
				filtered = append(filtered, cand)
			}
		}
		if len(filtered) == 0 {
			return nil
		}
		candidatesPerRow[k] = filtered
	}

	var out []AltExt
	cartesianProductPairs(candidatesPerRow, func(combo []corpus.Pair) {
		ext := make(AltExt, len(combo))
		copy(ext, combo)
		out = append(out, ext)
	})
	return out
}

func (s *AlternatingSearcher) matchesTrailingColumns(state *AlternatingState, row int, cand corpus.Pair) bool {
	for col := 4; col < s.n; col += 2 {
		if cand.A1[col] != state.G1.Cell(row, col) {
			return false
		}
		if cand.A2[col] != state.G2.Cell(row, col) {
			return false
		}
	}
	return true
}

func (s *AlternatingSearcher) Apply(stage Stage, state *AlternatingState, ext AltExt) Stage {
	switch stage {
	case AltStageDowns:
		for i, pair := range ext {
			col := 2 * i
			state.G1.PlaceCol(col, pair.A1)
			state.G2.PlaceCol(col, pair.A2)
			surf := pair.Surface
			state.DownSurfaces[i] = &surf
		}
		return AltStageFinalAcrosses
	case AltStageFinalAcrosses:
		i := 2
		for _, pair := range ext {
			row := 2 * i
			state.G1.PlaceRow(row, pair.A1)
			state.G2.PlaceRow(row, pair.A2)
			surf := pair.Surface
			state.AcrossSurfaces[i] = &surf
			i++
		}
		return StageDone
	default:
		return StageDone
	}
}

// Finalize always returns no statuses: every entry is surface-bound by
// construction once both stages complete successfully.
func (s *AlternatingSearcher) Finalize(state *AlternatingState) []PairStatus {
	return nil
}

func (s *AlternatingSearcher) Accept(state *AlternatingState) bool {
	seen := make(map[domain.Word]struct{}, 4*s.nd)
	count := 0
	add := func(w domain.Word) bool {
		if _, dup := seen[w]; dup {
			return false
		}
		seen[w] = struct{}{}
		count++
		return true
	}
	for _, r := range state.G1.EntryRows() {
		if !add(state.G1.RowEntry(r)) || !add(state.G2.RowEntry(r)) {
			return false
		}
	}
	for _, c := range state.G1.EntryCols() {
		if !add(state.G1.ColEntry(c)) || !add(state.G2.ColEntry(c)) {
			return false
		}
	}
	return count == 4*s.nd
}

func (s *AlternatingSearcher) Emit(state *AlternatingState) Result {
	across := make([]*domain.Surface, len(state.AcrossSurfaces))
	copy(across, state.AcrossSurfaces)
	down := make([]*domain.Surface, len(state.DownSurfaces))
	copy(down, state.DownSurfaces)

	missing := 0
	for _, a := range across {
		if a == nil {
			missing++
		}
	}

	return Result{
		CrosswordType:   s.CrosswordType(),
		Grid1:           state.G1.Rows(),
		Grid2:           state.G2.Rows(),
		AcrossSurfaces:  across,
		DownSurfaces:    down,
		MissingSurfaces: missing,
	}
}
