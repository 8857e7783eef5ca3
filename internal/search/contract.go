// Package search implements the Searcher contract, the Dense and
// Alternating realizations of it, and the Enumeration Driver that walks a
// searcher's stages to find quinian crossword pairs.
package search

import (
	"quinian/internal/domain"
)

// Stage tags a point in a searcher's stage walk. StageDone marks that no
// further stages remain: the grid pair is fully determined and ready for
// Finalize/Accept/Emit.
type Stage int

// StageDone is returned by Apply when a searcher has no further stages.
const StageDone Stage = 0

// PairStatusKind classifies an entry that was never bound to a surfaced
// Pair during the stage walk.
type PairStatusKind int

const (
	// StatusHasSurface means the orthogonal completion at this entry
	// still matches a known shared surface, even though it was not
	// placed via the stage walk.
	StatusHasSurface PairStatusKind = iota
	// StatusWords means both resulting answers are known corpus words
	// but share no recorded surface.
	StatusWords
	// StatusNotWords means at least one resulting answer is not a known
	// corpus word at all.
	StatusNotWords
)

// PairStatus is the outcome of checking one unbound entry during
// Finalize. Surface is only meaningful when Kind == StatusHasSurface.
type PairStatus struct {
	Kind    PairStatusKind
	Surface domain.Surface
}

// Result is a completed, accepted candidate: a pair of grids together
// with the surfaces recovered for each axis, in row/column order.
// A nil entry in AcrossSurfaces or DownSurfaces means that entry is a
// "missing surface": both grids hold valid, known answers at that
// position, but no corpus surface connects them.
type Result struct {
	CrosswordType domain.CrosswordType
	// Grid1, Grid2 are the raw N×N cell matrices: letters as themselves,
	// blocked cells (Alternating only) as '#'.
	Grid1, Grid2    [][]byte
	AcrossSurfaces  []*domain.Surface
	DownSurfaces    []*domain.Surface
	MissingSurfaces int
}

// Searcher abstracts one crossword topology behind the staged protocol of
// spec §4.3. S is the searcher's mutable working state, Seed is the type
// of a seed tuple used to start a top-level iteration, and Ext is the
// type of an extension tuple enumerated at a given stage.
type Searcher[S any, Seed any, Ext any] interface {
	// CrosswordType identifies the topology and size this searcher
	// realizes.
	CrosswordType() domain.CrosswordType

	// NewState allocates a fresh working state sized to the topology.
	// Called once per Driver run; reused (via ResetAndSeed) across
	// top-level iterations.
	NewState() S

	// CountInitial reports the total number of seeds Seeds will yield,
	// for progress reporting.
	CountInitial() int

	// Seeds lazily yields every seed tuple that starts a top-level
	// iteration, already filtered to break any topology-specific
	// symmetry (see spec §4.6).
	Seeds() func(yield func(Seed) bool)

	// ResetAndSeed clears state back to its empty pattern, then places
	// the given seed's across entries.
	ResetAndSeed(state S, seed Seed)

	// InitialStage returns the first stage tag of the stage walk.
	InitialStage() Stage

	// Enumerate returns every extension available at stage for the
	// current state. An empty result means the driver unwinds here.
	Enumerate(stage Stage, state S) []Ext

	// Apply mutates state to embed ext, returning the next stage to
	// walk, or StageDone if the grid pair is now fully determined.
	Apply(stage Stage, state S, ext Ext) Stage

	// Finalize returns a PairStatus for every entry that the stage walk
	// left unbound to a placed Pair.
	Finalize(state S) []PairStatus

	// Accept checks any remaining topological invariant (e.g. no
	// duplicate word across both grids) once a candidate is complete.
	Accept(state S) bool

	// Emit builds the Result value from the current state.
	Emit(state S) Result
}
