package store

import (
	"context"
	"testing"

	"quinian/internal/domain"
	"quinian/internal/resultsink"
)

func newTestStore(t *testing.T) *SQLiteResultStore {
	t.Helper()
	s, err := NewSQLiteResultStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteResultStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return s
}

func sampleRecord(hash uint64) resultsink.Record {
	surf := domain.Surface("a shared clue")
	return resultsink.Record{
		CrosswordType:       "dense3",
		Grid1:               [][]byte{[]byte("ABC"), []byte("DEF"), []byte("GHI")},
		Grid2:               [][]byte{[]byte("JKL"), []byte("MNO"), []byte("PQR")},
		AcrossSurfaces:      []*domain.Surface{&surf, nil, &surf},
		DownSurfaces:        []*domain.Surface{&surf, &surf, &surf},
		MissingSurfaceCount: 1,
		Hash:                hash,
	}
}

func TestSQLiteResultStoreStoreAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rec := sampleRecord(1234)

	stored, err := s.Store(ctx, rec)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !stored {
		t.Fatal("expected first Store to report newly stored")
	}

	got, err := s.Get(ctx, rec.Hash)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CrosswordType != rec.CrosswordType {
		t.Errorf("CrosswordType = %q, want %q", got.CrosswordType, rec.CrosswordType)
	}
	if string(got.Grid1[0]) != "ABC" {
		t.Errorf("Grid1[0] = %q, want ABC", got.Grid1[0])
	}
	if got.AcrossSurfaces[1] != nil {
		t.Error("expected AcrossSurfaces[1] to remain nil across the round trip")
	}
	if got.AcrossSurfaces[0] == nil || *got.AcrossSurfaces[0] != surfaceForTest(t, got) {
		t.Error("expected AcrossSurfaces[0] to round-trip")
	}
}

func surfaceForTest(t *testing.T, rec *resultsink.Record) domain.Surface {
	t.Helper()
	if rec.AcrossSurfaces[0] == nil {
		t.Fatal("AcrossSurfaces[0] is nil")
	}
	return *rec.AcrossSurfaces[0]
}

func TestSQLiteResultStoreDedup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rec := sampleRecord(5678)

	if _, err := s.Store(ctx, rec); err != nil {
		t.Fatalf("Store: %v", err)
	}
	stored, err := s.Store(ctx, rec)
	if err != nil {
		t.Fatalf("second Store: %v", err)
	}
	if stored {
		t.Error("expected second Store of an equal-hash record to be a no-op")
	}

	list, err := s.List(ctx, Filter{MaxMissingSurfaces: -1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected exactly 1 stored record after dedup, got %d", len(list))
	}
}

func TestSQLiteResultStoreGetNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get(context.Background(), 999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteResultStoreListFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec1 := sampleRecord(1)
	rec2 := sampleRecord(2)
	rec2.CrosswordType = "alternating5"
	rec2.MissingSurfaceCount = 0

	if _, err := s.Store(ctx, rec1); err != nil {
		t.Fatalf("Store rec1: %v", err)
	}
	if _, err := s.Store(ctx, rec2); err != nil {
		t.Fatalf("Store rec2: %v", err)
	}

	list, err := s.List(ctx, Filter{CrosswordType: "dense3", MaxMissingSurfaces: -1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].CrosswordType != "dense3" {
		t.Fatalf("expected exactly 1 dense3 record, got %+v", list)
	}

	list, err = s.List(ctx, Filter{MaxMissingSurfaces: 0})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Hash != 2 {
		t.Fatalf("expected exactly 1 record with no missing surfaces, got %+v", list)
	}
}
