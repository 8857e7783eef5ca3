package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"quinian/internal/domain"
	"quinian/internal/resultsink"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// SQLiteResultStore implements ResultStore using SQLite.
type SQLiteResultStore struct {
	db *sql.DB
}

// NewSQLiteResultStore opens a SQLite-backed ResultStore. Use ":memory:"
// for an in-memory database, or a file path for persistent storage.
func NewSQLiteResultStore(dsn string) (*SQLiteResultStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}
	if !strings.Contains(dsn, ":memory:") {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: enable WAL mode: %w", err)
		}
	}

	return &SQLiteResultStore{db: db}, nil
}

// Migrate applies the embedded schema migration.
func (s *SQLiteResultStore) Migrate(ctx context.Context) error {
	upSQL, err := migrationsFS.ReadFile("migrations/001_initial.up.sql")
	if err != nil {
		return fmt.Errorf("store: read migration: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("store: run migration: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteResultStore) Close() error {
	return s.db.Close()
}

type recordPayload struct {
	Grid1          [][]byte  `json:"grid1"`
	Grid2          [][]byte  `json:"grid2"`
	AcrossSurfaces []*string `json:"across_surfaces"`
	DownSurfaces   []*string `json:"down_surfaces"`
}

func marshalRecord(rec resultsink.Record) ([]byte, error) {
	p := recordPayload{
		Grid1: rec.Grid1,
		Grid2: rec.Grid2,
	}
	for _, s := range rec.AcrossSurfaces {
		p.AcrossSurfaces = append(p.AcrossSurfaces, surfaceToStringPtr(s))
	}
	for _, s := range rec.DownSurfaces {
		p.DownSurfaces = append(p.DownSurfaces, surfaceToStringPtr(s))
	}
	return json.Marshal(p)
}

// Store persists rec under an ON CONFLICT DO NOTHING upsert keyed by
// content hash: a second insert of the same result is a silent no-op,
// matching the dedup-by-hash policy of spec §6.
func (s *SQLiteResultStore) Store(ctx context.Context, rec resultsink.Record) (bool, error) {
	payload, err := marshalRecord(rec)
	if err != nil {
		return false, fmt.Errorf("store: marshal record: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO results (id, hash, crossword_type, payload, missing_surface_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, uuid.New().String(), int64(rec.Hash), rec.CrosswordType, payload, rec.MissingSurfaceCount, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("store: insert record: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: rows affected: %w", err)
	}
	return rows > 0, nil
}

// Get retrieves a full record by its content hash.
func (s *SQLiteResultStore) Get(ctx context.Context, hash uint64) (*resultsink.Record, error) {
	var crosswordType string
	var missing int
	var payload []byte

	err := s.db.QueryRowContext(ctx, `
		SELECT crossword_type, payload, missing_surface_count FROM results WHERE hash = ?
	`, int64(hash)).Scan(&crosswordType, &payload, &missing)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get record: %w", err)
	}

	var p recordPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("store: unmarshal record: %w", err)
	}

	return &resultsink.Record{
		CrosswordType:       crosswordType,
		Grid1:               p.Grid1,
		Grid2:               p.Grid2,
		AcrossSurfaces:      stringPtrsToSurfaces(p.AcrossSurfaces),
		DownSurfaces:        stringPtrsToSurfaces(p.DownSurfaces),
		MissingSurfaceCount: missing,
		Hash:                hash,
	}, nil
}

func stringPtrsToSurfaces(ptrs []*string) []*domain.Surface {
	out := make([]*domain.Surface, len(ptrs))
	for i, p := range ptrs {
		if p == nil {
			continue
		}
		s := domain.Surface(*p)
		out[i] = &s
	}
	return out
}

// List returns summaries matching filter, most recent first.
func (s *SQLiteResultStore) List(ctx context.Context, filter Filter) ([]Summary, error) {
	query := `SELECT id, hash, crossword_type, missing_surface_count, created_at FROM results WHERE 1=1`
	var args []interface{}

	if filter.CrosswordType != "" {
		query += " AND crossword_type = ?"
		args = append(args, filter.CrosswordType)
	}
	if filter.MaxMissingSurfaces >= 0 {
		query += " AND missing_surface_count <= ?"
		args = append(args, filter.MaxMissingSurfaces)
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list records: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var hash int64
		if err := rows.Scan(&sum.ID, &hash, &sum.CrosswordType, &sum.MissingSurfaceCount, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan record: %w", err)
		}
		sum.Hash = uint64(hash)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func surfaceToStringPtr[S ~string](s *S) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}
