// Package corpus builds the Clue Indexer: the in-memory structures that
// let the search engine look up, by shape, which answer pairs share a
// surface.
package corpus

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"quinian/internal/domain"
)

// ClueRecord is one raw clue as read from the corpus source: a surface
// (the clue text) paired with one answer it is claimed to solve. A surface
// with several answers appears as several records sharing the same
// Surface.
type ClueRecord struct {
	Surface string
	Answer  string
}

// Pair is two distinct answers, of equal length, known to share a
// surface clue. Both orderings of a given unordered pair are
// materialized separately: (A1, A2) and (A2, A1) are both present in
// Index.Pairs, each keeping its own Surface lookup entry.
type Pair struct {
	Surface domain.Surface
	A1, A2  domain.Word
}

// FrequencyTable reports how common a word is, for corpora that want to
// restrict answers to sufficiently well-attested vocabulary.
type FrequencyTable interface {
	Frequency(w domain.Word) (int, bool)
}

// QualityTable reports an editorial quality score for a word, for corpora
// that want to exclude low-quality answers regardless of frequency.
type QualityTable interface {
	Score(w domain.Word) (int, bool)
}

// Index is the Clue Indexer's built product: everything the Dense and
// Alternating searchers need to look up candidate answer pairs by shape.
type Index struct {
	// N is the fixed answer length this index was built for.
	N int

	// MultiSurfaces maps each surface with two or more distinct answers
	// to its set of distinct answers.
	MultiSurfaces map[domain.Surface]map[domain.Word]struct{}

	// Pairs holds every ordered pair of distinct answers sharing a
	// surface, one entry per ordering.
	Pairs []Pair

	// PrefixIndex maps a Dense seed key — the first two letters of each
	// of the two answers — to every Pair matching that key. Used by the
	// Dense searcher.
	PrefixIndex map[[2]domain.Word][]Pair

	// MaskIndex maps an Alternating seed key — the letters at positions
	// {0, 2} of each of the two answers — to every Pair matching that
	// key. Used by the Alternating searcher.
	MaskIndex map[[2]domain.Word][]Pair

	// PairToSurface maps an ordered answer pair to the surface it was
	// placed under. If more than one surface matches the same ordered
	// pair, the last one built wins (mirrors a plain map-insert
	// overwrite, matching how the reference corpus behaves).
	PairToSurface map[[2]domain.Word]domain.Surface

	// KnownAnswers is every length-N answer that survived filtering,
	// independent of whether it belongs to a multi-surface pair. Used to
	// validate that placed words are real corpus entries.
	KnownAnswers map[domain.Word]struct{}
}

// IndexOption configures BuildIndex.
type IndexOption func(*buildConfig)

type buildConfig struct {
	freq     FrequencyTable
	minFreq  int
	quality  QualityTable
	minScore int
}

// WithFrequencyTable restricts answers to those at or above minFreq in
// freq. Answers absent from freq are rejected.
func WithFrequencyTable(freq FrequencyTable, minFreq int) IndexOption {
	return func(c *buildConfig) {
		c.freq = freq
		c.minFreq = minFreq
	}
}

// WithQualityTable restricts answers to those at or above minScore in
// quality. Answers absent from quality are rejected.
func WithQualityTable(quality QualityTable, minScore int) IndexOption {
	return func(c *buildConfig) {
		c.quality = quality
		c.minScore = minScore
	}
}

const noClueSentinel = "<<NO CLUE>>"

// BuildIndex filters records to answers of exactly length n and builds the
// full Clue Indexer structure from what survives.
//
// Filtering policy, applied in order, per record:
//  1. Empty surface: reject.
//  2. Surface beginning with "See ": reject (cross-reference clues that
//     point at another entry rather than standing alone).
//  3. Answer equal to the NO CLUE sentinel: reject.
//  4. Answer that does not normalize to pure uppercase A-Z: reject.
//  5. Normalized answer whose length is not n: reject.
//  6. If a frequency or quality table was supplied, the answer must meet
//     the configured threshold: reject otherwise.
func BuildIndex(records []ClueRecord, n int, opts ...IndexOption) (*Index, error) {
	if n <= 0 {
		return nil, fmt.Errorf("corpus: answer length must be positive, got %d", n)
	}

	cfg := &buildConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	bySurface := make(map[domain.Surface]map[domain.Word]struct{})
	known := make(map[domain.Word]struct{})

	for _, rec := range records {
		surface := domain.NormalizeSurface(rec.Surface)
		if surface == "" {
			continue
		}
		if hasPrefix(string(surface), "See ") {
			continue
		}
		if rec.Answer == noClueSentinel {
			continue
		}
		answer := domain.NormalizeAnswer(rec.Answer)
		if !answer.IsValid() {
			continue
		}
		if len(answer) != n {
			continue
		}
		if cfg.freq != nil {
			f, ok := cfg.freq.Frequency(answer)
			if !ok || f < cfg.minFreq {
				continue
			}
		}
		if cfg.quality != nil {
			s, ok := cfg.quality.Score(answer)
			if !ok || s < cfg.minScore {
				continue
			}
		}

		known[answer] = struct{}{}

		set, ok := bySurface[surface]
		if !ok {
			set = make(map[domain.Word]struct{})
			bySurface[surface] = set
		}
		set[answer] = struct{}{}
	}

	multi := make(map[domain.Surface]map[domain.Word]struct{})
	for s, answers := range bySurface {
		if len(answers) >= 2 {
			multi[s] = answers
		}
	}

	idx := &Index{
		N:             n,
		MultiSurfaces: multi,
		PrefixIndex:   make(map[[2]domain.Word][]Pair),
		MaskIndex:     make(map[[2]domain.Word][]Pair),
		PairToSurface: make(map[[2]domain.Word]domain.Surface),
		KnownAnswers:  known,
	}

	// Deterministic iteration: sort surfaces, then sort each surface's
	// answers, before generating ordered pairs. Pair generation order
	// does not affect the final index contents, but keeping it
	// deterministic keeps BuildIndex reproducible across runs given
	// identical input, which is exercised by the determinism tests.
	surfaces := maps.Keys(multi)
	slices.Sort(surfaces)

	for _, surface := range surfaces {
		answers := maps.Keys(multi[surface])
		slices.Sort(answers)

		for i := range answers {
			for j := range answers {
				if i == j {
					continue
				}
				a1, a2 := answers[i], answers[j]
				pair := Pair{Surface: surface, A1: a1, A2: a2}
				idx.Pairs = append(idx.Pairs, pair)

				key := [2]domain.Word{a1, a2}
				idx.PairToSurface[key] = surface

				pfxKey := [2]domain.Word{a1.Prefix(2), a2.Prefix(2)}
				idx.PrefixIndex[pfxKey] = append(idx.PrefixIndex[pfxKey], pair)

				if n >= 3 {
					maskKey := [2]domain.Word{a1.Mask(0, 2), a2.Mask(0, 2)}
					idx.MaskIndex[maskKey] = append(idx.MaskIndex[maskKey], pair)
				}
			}
		}
	}

	return idx, nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// LookupPrefix returns every Pair whose two answers begin with the given
// two-letter prefixes, in order (p1 for the first answer, p2 for the
// second).
func (idx *Index) LookupPrefix(p1, p2 domain.Word) []Pair {
	return idx.PrefixIndex[[2]domain.Word{p1, p2}]
}

// LookupMask returns every Pair whose two answers have the given letters
// at positions {0, 2}, in order.
func (idx *Index) LookupMask(m1, m2 domain.Word) []Pair {
	return idx.MaskIndex[[2]domain.Word{m1, m2}]
}

// SortedPairs returns idx.Pairs in a deterministic order (by surface, then
// by A1, then by A2), useful for tests and for reproducible seed
// enumeration.
func (idx *Index) SortedPairs() []Pair {
	out := make([]Pair, len(idx.Pairs))
	copy(out, idx.Pairs)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Surface != out[j].Surface {
			return out[i].Surface < out[j].Surface
		}
		if out[i].A1 != out[j].A1 {
			return out[i].A1 < out[j].A1
		}
		return out[i].A2 < out[j].A2
	})
	return out
}
