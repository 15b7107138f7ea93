// Package history persists per-source mutation history in a SQLite
// database, replacing the teacher's JSON-file internal/history/store.go
// with modernc.org/sqlite (the pure-Go driver declared indirectly by
// petar-djukic-cobbler's go.mod; cobbler's own sqlite-backed "crumbs"
// wrapper cannot be used directly because its go.mod points at an
// unfetchable local replace directive).
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one source file's recorded history.
type Entry struct {
	FileHash      string
	TestHash      string
	MutationScore float64
	UpdatedAt     time.Time
}

// Store is a SQLite-backed key-value history of source file hashes and
// scores, satisfying the same external contract
// (GetEntry/HasChanged/UpdateFile) as the teacher's JSON store so the
// incremental analyzer is unaffected by the storage swap.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS file_history (
	file_path      TEXT PRIMARY KEY,
	file_hash      TEXT NOT NULL,
	test_hash      TEXT NOT NULL,
	mutation_score REAL NOT NULL,
	updated_at     TEXT NOT NULL
);
`

// Open opens (creating if necessary) the SQLite database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("history: failed to create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: failed to open %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: failed to migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetEntry returns the stored entry for filePath, if any.
func (s *Store) GetEntry(filePath string) (Entry, bool) {
	row := s.db.QueryRow(
		`SELECT file_hash, test_hash, mutation_score, updated_at FROM file_history WHERE file_path = ?`,
		filePath,
	)

	var (
		e        Entry
		updated  string
	)

	if err := row.Scan(&e.FileHash, &e.TestHash, &e.MutationScore, &updated); err != nil {
		return Entry{}, false
	}

	if t, err := time.Parse(time.RFC3339, updated); err == nil {
		e.UpdatedAt = t
	}

	return e, true
}

// HasEntry reports whether filePath has any recorded history.
func (s *Store) HasEntry(filePath string) bool {
	_, ok := s.GetEntry(filePath)
	return ok
}

// TestHash returns the test hash recorded for filePath, if any. It
// satisfies internal/incremental.HistoryStore without that package
// depending on history.Entry directly.
func (s *Store) TestHash(filePath string) (string, bool) {
	entry, ok := s.GetEntry(filePath)
	if !ok {
		return "", false
	}

	return entry.TestHash, true
}

// HasChanged reports whether filePath's stored hash differs from
// currentHash (a file with no history is considered changed).
func (s *Store) HasChanged(filePath, currentHash string) bool {
	entry, ok := s.GetEntry(filePath)
	if !ok {
		return true
	}

	return entry.FileHash != currentHash
}

// UpdateFile upserts filePath's history entry.
func (s *Store) UpdateFile(filePath, fileHash, testHash string, mutationScore float64) error {
	_, err := s.db.Exec(
		`INSERT INTO file_history (file_path, file_hash, test_hash, mutation_score, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(file_path) DO UPDATE SET
		   file_hash = excluded.file_hash,
		   test_hash = excluded.test_hash,
		   mutation_score = excluded.mutation_score,
		   updated_at = excluded.updated_at`,
		filePath, fileHash, testHash, mutationScore, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("history: failed to update %s: %w", filePath, err)
	}

	return nil
}

// Stats summarizes the whole history table.
type Stats struct {
	TotalFiles   int
	AverageScore float64
}

// GetStats aggregates across all recorded files.
func (s *Store) GetStats() (Stats, error) {
	row := s.db.QueryRow(`SELECT COUNT(*), COALESCE(AVG(mutation_score), 0) FROM file_history`)

	var stats Stats
	if err := row.Scan(&stats.TotalFiles, &stats.AverageScore); err != nil {
		return Stats{}, fmt.Errorf("history: failed to aggregate stats: %w", err)
	}

	return stats, nil
}
