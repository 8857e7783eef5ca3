package search

import (
	"quinian/internal/corpus"
	"quinian/internal/domain"
	"quinian/internal/gridmodel"
)

// DenseStageDowns is the single stage a Dense search walks after seeding.
const DenseStageDowns Stage = 1

// DenseSeed places two corpus pairs into rows 0 and 1.
type DenseSeed [2]corpus.Pair

// DenseExt is one candidate assignment for every down column: len(DenseExt)
// == N, one Pair per column.
type DenseExt []corpus.Pair

// DenseState is the mutable working state for a Dense search at a fixed
// size N.
type DenseState struct {
	G1, G2         *gridmodel.Grid
	AcrossSurfaces []*domain.Surface
	DownSurfaces   []*domain.Surface
}

// DenseSearcher realizes the Searcher contract for the full N×N topology.
type DenseSearcher struct {
	idx *corpus.Index
	n   int
}

// NewDenseSearcher builds a Dense searcher over idx for size n. idx must
// have been built with BuildIndex(_, n, ...).
func NewDenseSearcher(idx *corpus.Index, n int) *DenseSearcher {
	return &DenseSearcher{idx: idx, n: n}
}

func (s *DenseSearcher) CrosswordType() domain.CrosswordType {
	return domain.CrosswordType{Topology: domain.TopologyDense, Size: s.n}
}

func (s *DenseSearcher) NewState() *DenseState {
	return &DenseState{
		G1:             gridmodel.NewDense(s.n),
		G2:             gridmodel.NewDense(s.n),
		AcrossSurfaces: make([]*domain.Surface, s.n),
		DownSurfaces:   make([]*domain.Surface, s.n),
	}
}

// CountInitial returns the number of seeds Seeds yields: for each sorted
// pair i whose A1 <= A2, the P-1-i pairs that follow it.
func (s *DenseSearcher) CountInitial() int {
	pairs := s.idx.SortedPairs()
	count := 0
	for i, pr := range pairs {
		if pr.A1 <= pr.A2 {
			count += len(pairs) - 1 - i
		}
	}
	return count
}

// Seeds yields every unordered 2-combination of the index's pairs, in
// deterministic order, keeping only those whose first element has
// A1 <= A2. An unordered combination already visits each {P0, P1}
// grouping once; the filter additionally breaks the symmetry of swapping
// grid 1 and grid 2 throughout an entire solution (spec §4.6).
func (s *DenseSearcher) Seeds() func(yield func(DenseSeed) bool) {
	pairs := s.idx.SortedPairs()
	return func(yield func(DenseSeed) bool) {
		for i := 0; i < len(pairs); i++ {
			if pairs[i].A1 > pairs[i].A2 {
				continue
			}
			for j := i + 1; j < len(pairs); j++ {
				if !yield(DenseSeed{pairs[i], pairs[j]}) {
					return
				}
			}
		}
	}
}

func (s *DenseSearcher) ResetAndSeed(state *DenseState, seed DenseSeed) {
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

	state.G1.PlaceRow(1, p1.A1)
	state.G2.PlaceRow(1, p1.A2)
	surf1 := p1.Surface
	state.AcrossSurfaces[1] = &surf1
}

func (s *DenseSearcher) InitialStage() Stage { return DenseStageDowns }

func (s *DenseSearcher) Enumerate(stage Stage, state *DenseState) []DenseExt {
	if stage != DenseStageDowns {
		return nil
	}

	candidatesPerCol := make([][]corpus.Pair, s.n)
	for c := 0; c < s.n; c++ {
		p1 := domain.Word([]byte{state.G1.Cell(0, c), state.G1.Cell(1, c)})
		p2 := domain.Word([]byte{state.G2.Cell(0, c), state.G2.Cell(1, c)})
		candidates := s.idx.LookupPrefix(p1, p2)
		if len(candidates) == 0 {
			return nil
		}
		candidatesPerCol[c] = candidates
	}

	var out []DenseExt
	cartesianProductPairs(candidatesPerCol, func(combo []corpus.Pair) {
		ext := make(DenseExt, len(combo))
		copy(ext, combo)
		out = append(out, ext)
	})
	return out
}

func (s *DenseSearcher) Apply(stage Stage, state *DenseState, ext DenseExt) Stage {
	if stage != DenseStageDowns {
		return StageDone
	}
	for c, pair := range ext {
		state.G1.PlaceCol(c, pair.A1)
		state.G2.PlaceCol(c, pair.A2)
		surf := pair.Surface
		state.DownSurfaces[c] = &surf
	}
	return StageDone
}

func (s *DenseSearcher) Finalize(state *DenseState) []PairStatus {
	var statuses []PairStatus
	for r := 2; r < s.n; r++ {
		w1 := state.G1.RowEntry(r)
		w2 := state.G2.RowEntry(r)
		if surf, ok := s.idx.PairToSurface[[2]domain.Word{w1, w2}]; ok {
			state.AcrossSurfaces[r] = &surf
			statuses = append(statuses, PairStatus{Kind: StatusHasSurface, Surface: surf})
			continue
		}
		_, known1 := s.idx.KnownAnswers[w1]
		_, known2 := s.idx.KnownAnswers[w2]
		if known1 && known2 {
			statuses = append(statuses, PairStatus{Kind: StatusWords})
			continue
		}
		statuses = append(statuses, PairStatus{Kind: StatusNotWords})
	}
	return statuses
}

func (s *DenseSearcher) Accept(state *DenseState) bool {
	seen := make(map[domain.Word]struct{}, 4*s.n)
	count := 0
	add := func(w domain.Word) bool {
		if _, dup := seen[w]; dup {
			return false
		}
		seen[w] = struct{}{}
		count++
		return true
	}
	for r := 0; r < s.n; r++ {
		if !add(state.G1.RowEntry(r)) || !add(state.G2.RowEntry(r)) {
			return false
		}
	}
	for c := 0; c < s.n; c++ {
		if !add(state.G1.ColEntry(c)) || !add(state.G2.ColEntry(c)) {
			return false
		}
	}
	return count == 4*s.n
}

func (s *DenseSearcher) Emit(state *DenseState) Result {
	grid1 := state.G1.Rows()
	grid2 := state.G2.Rows()

	missing := 0
	across := make([]*domain.Surface, s.n)
	copy(across, state.AcrossSurfaces)
	for _, a := range across {
		if a == nil {
			missing++
		}
	}
	down := make([]*domain.Surface, s.n)
	copy(down, state.DownSurfaces)

	return Result{
		CrosswordType:   s.CrosswordType(),
		Grid1:           grid1,
		Grid2:           grid2,
		AcrossSurfaces:  across,
		DownSurfaces:    down,
		MissingSurfaces: missing,
	}
}

// cartesianProductPairs calls emit once for every combination that picks
// one element from each slice in lists, in order.
func cartesianProductPairs(lists [][]corpus.Pair, emit func([]corpus.Pair)) {
	n := len(lists)
	if n == 0 {
		return
	}
	combo := make([]corpus.Pair, n)
	var rec func(i int)
	rec = func(i int) {
		if i == n {
			emit(combo)
			return
		}
		for _, p := range lists[i] {
			combo[i] = p
			rec(i + 1)
		}
	}
	rec(0)
}
