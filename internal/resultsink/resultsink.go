// Package resultsink adapts an accepted search.Result into the canonical
// record the external store persists: serialized grids, surface lists,
// and a 64-bit content hash used as the store's dedup key.
package resultsink

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"

	"quinian/internal/domain"
	"quinian/internal/search"
)

// Record is the canonical, sink-ready form of an accepted candidate.
type Record struct {
	CrosswordType       string
	Grid1, Grid2        [][]byte
	AcrossSurfaces      []*domain.Surface
	DownSurfaces        []*domain.Surface
	MissingSurfaceCount int
	Hash                uint64
}

// FromResult builds a Record from a search.Result, computing its content
// hash. The hash is a pure function of the crossword type, the grids and
// the surface lists, so
// two Results with identical content always hash identically regardless
// of how they were found.
func FromResult(r search.Result) Record {
	return Record{
		CrosswordType:       r.CrosswordType.String(),
		Grid1:               r.Grid1,
		Grid2:               r.Grid2,
		AcrossSurfaces:      r.AcrossSurfaces,
		DownSurfaces:        r.DownSurfaces,
		MissingSurfaceCount: r.MissingSurfaces,
		Hash:                hashResult(r),
	}
}

func hashResult(r search.Result) uint64 {
	h := xxhash.New()
	h.Write([]byte(r.CrosswordType.String()))
	for _, row := range r.Grid1 {
		h.Write(row)
	}
	for _, row := range r.Grid2 {
		h.Write(row)
	}
	writeSurfaces(h, r.AcrossSurfaces)
	writeSurfaces(h, r.DownSurfaces)
	return h.Sum64()
}

func writeSurfaces(h *xxhash.Digest, surfaces []*domain.Surface) {
	var buf [8]byte
	for _, s := range surfaces {
		if s == nil {
			h.Write([]byte{0})
			continue
		}
		h.Write([]byte{1})
		binary.LittleEndian.PutUint64(buf[:], uint64(len(*s)))
		h.Write(buf[:])
		h.Write([]byte(*s))
	}
}

// Sink accepts Records for durable storage. Implementations must be
// re-entrant safe: the search driver calls on_result synchronously and
// may itself be one of several drivers sharing a sink (spec §5).
type Sink interface {
	// Store persists rec if no equal-hash record is already present.
	// Returns true if rec was newly stored, false if it was a
	// duplicate no-op.
	Store(rec Record) (bool, error)
}

// MemorySink is an in-process, hash-deduplicated Sink, useful for tests
// and for short-lived CLI runs that only need the process's own result
// set.
type MemorySink struct {
	mu      sync.Mutex
	records map[uint64]Record
}

// NewMemorySink builds an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{records: make(map[uint64]Record)}
}

func (m *MemorySink) Store(rec Record) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[rec.Hash]; exists {
		return false, nil
	}
	m.records[rec.Hash] = rec
	return true, nil
}

// All returns every stored record, in no particular order.
func (m *MemorySink) All() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out
}

// Len reports how many distinct records are stored.
func (m *MemorySink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
