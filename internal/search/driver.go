package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
)

// progressEvery sets the seed cadence for progress reporting (spec §4.6).
const progressEvery = 10000

// Driver walks a Searcher's stages across every seed, invoking OnResult
// for every accepted candidate. S, Seed, and Ext must match the Searcher
// implementation passed to NewDriver.
type Driver[S any, Seed any, Ext any] struct {
	searcher               Searcher[S, Seed, Ext]
	allowedMissingSurfaces int
	startIndex             int
	onResult               func(Result)
	logger                 *slog.Logger
}

// NewDriver builds a Driver over searcher. allowedMissingSurfaces bounds
// how many "Words" (valid, unsurfaced) entries a Result may contain.
// startIndex resumes a previous run: seeds before it (1-based) are
// skipped without being enumerated. onResult is invoked synchronously for
// every accepted candidate. A nil logger disables progress reporting.
func NewDriver[S any, Seed any, Ext any](
	searcher Searcher[S, Seed, Ext],
	allowedMissingSurfaces, startIndex int,
	onResult func(Result),
	logger *slog.Logger,
) *Driver[S, Seed, Ext] {
	return &Driver[S, Seed, Ext]{
		searcher:               searcher,
		allowedMissingSurfaces: allowedMissingSurfaces,
		startIndex:             startIndex,
		onResult:               onResult,
		logger:                 logger,
	}
}

// Run walks every seed from the searcher, reporting progress and emitting
// accepted results, until the seed sequence is exhausted or ctx is
// cancelled.
func (d *Driver[S, Seed, Ext]) Run(ctx context.Context) error {
	state := d.searcher.NewState()
	total := d.searcher.CountInitial()
	crosswordType := d.searcher.CrosswordType()

	index := 0
	batchStart := time.Now()

	for seed := range d.searcher.Seeds() {
		index++
		if index < d.startIndex {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		d.searcher.ResetAndSeed(state, seed)
		d.walk(state, d.searcher.InitialStage())

		if index%progressEvery == 0 {
			d.reportProgress(crosswordType.String(), index, total, time.Since(batchStart))
			batchStart = time.Now()
		}
	}

	return nil
}

func (d *Driver[S, Seed, Ext]) walk(state S, stage Stage) {
	extensions := d.searcher.Enumerate(stage, state)
	for _, ext := range extensions {
		next := d.searcher.Apply(stage, state, ext)
		if next != StageDone {
			d.walk(state, next)
			continue
		}

		statuses := d.searcher.Finalize(state)
		noSurfaceCount, illegalCount := 0, 0
		for _, st := range statuses {
			switch st.Kind {
			case StatusWords:
				noSurfaceCount++
			case StatusNotWords:
				illegalCount++
			}
		}

		if illegalCount != 0 || noSurfaceCount > d.allowedMissingSurfaces {
			continue
		}
		if !d.searcher.Accept(state) {
			continue
		}

		result := d.searcher.Emit(state)
		d.onResult(result)
	}
}

func (d *Driver[S, Seed, Ext]) reportProgress(crosswordType string, index, total int, elapsed time.Duration) {
	if d.logger == nil {
		return
	}
	fraction := 0.0
	if total > 0 {
		fraction = float64(index) / float64(total)
	}
	d.logger.Info("search progress",
		"crossword_type", crosswordType,
		"seed_index", humanize.Comma(int64(index)),
		"seed_total", humanize.Comma(int64(total)),
		"fraction", fraction,
		"batch_elapsed", elapsed,
	)
}
