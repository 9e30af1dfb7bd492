// Package storage provides SQLite-based persistence for generation runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/allcolors/internal/core"
)

// timeLayout is how created_at is written; it sorts lexicographically.
const timeLayout = "2006-01-02 15:04:05.000"

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// RunRecord is one finished, stopped or failed generation run.
type RunRecord struct {
	ID           string
	Depth        int
	Seed         uint64
	Width        int
	Height       int
	Policy       string
	Connectivity int
	State        string // "completed", "cancelled" or "failed"
	Placed       int
	Total        int
	Duration     time.Duration
	Digest       uint64 // raster digest at the time of recording
	Output       string // exported image path, empty if none
	CreatedAt    time.Time
}

// NewRun returns a record for cfg with a fresh ID.
func NewRun(cfg core.GenConfig) RunRecord {
	return RunRecord{
		ID:           uuid.NewString(),
		Depth:        cfg.Depth,
		Seed:         cfg.Seed,
		Width:        cfg.Width,
		Height:       cfg.Height,
		Policy:       cfg.Policy,
		Connectivity: int(cfg.Connectivity),
		Total:        cfg.Width * cfg.Height,
	}
}

// ShortID returns the first block of the run ID.
func (r RunRecord) ShortID() string {
	if len(r.ID) < 8 {
		return r.ID
	}
	return r.ID[:8]
}

// DefaultPath returns ~/.allcolors/runs.db.
func DefaultPath() string {
	return filepath.Join("~", ".allcolors", "runs.db")
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			depth INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			policy TEXT NOT NULL,
			connectivity INTEGER NOT NULL,
			state TEXT NOT NULL,
			placed INTEGER NOT NULL DEFAULT 0,
			total INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			digest TEXT NOT NULL DEFAULT '',
			output TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_config ON runs(depth, seed, policy);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run. A missing ID or timestamp is filled in.
// Returns the ID of the stored record.
func (s *Store) SaveRun(r RunRecord) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs
		 (id, depth, seed, width, height, policy, connectivity, state, placed, total, duration_ms, digest, output, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.Depth,
		int64(r.Seed), // stored bit-for-bit; read back as uint64
		r.Width,
		r.Height,
		r.Policy,
		r.Connectivity,
		r.State,
		r.Placed,
		r.Total,
		r.Duration.Milliseconds(),
		fmt.Sprintf("%016x", r.Digest),
		r.Output,
		r.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}

	return r.ID, nil
}

const runColumns = `id, depth, seed, width, height, policy, connectivity, state,
		        placed, total, duration_ms, digest, output, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var r RunRecord
	var seed, durationMS int64
	var digest string
	var createdAt any

	if err := row.Scan(
		&r.ID,
		&r.Depth,
		&seed,
		&r.Width,
		&r.Height,
		&r.Policy,
		&r.Connectivity,
		&r.State,
		&r.Placed,
		&r.Total,
		&durationMS,
		&digest,
		&r.Output,
		&createdAt,
	); err != nil {
		return r, err
	}

	r.Seed = uint64(seed)
	r.Duration = time.Duration(durationMS) * time.Millisecond
	if d, err := strconv.ParseUint(digest, 16, 64); err == nil {
		r.Digest = d
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string values from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range []string{timeLayout, "2006-01-02 15:04:05", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed
			}
		}
	case []byte:
		return parseTime(string(v))
	}
	return time.Time{}
}

// RunByID retrieves a run by its full ID. Returns nil if it does not exist.
func (s *Store) RunByID(id string) (*RunRecord, error) {
	r, err := scanRun(s.db.QueryRow(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE id = ?`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
}

// RunsForConfig retrieves previous runs with the same depth, seed and policy.
// Their digests should all agree when they completed.
func (s *Store) RunsForConfig(depth int, seed uint64, policy string) ([]RunRecord, error) {
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE depth = ? AND seed = ? AND policy = ?
		 ORDER BY created_at DESC, rowid DESC`,
		depth, int64(seed), policy,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]RunRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// DeleteRun removes a run. Deleting a missing run is not an error.
func (s *Store) DeleteRun(id string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	return nil
}

// RunStats contains aggregated statistics over all recorded runs.
type RunStats struct {
	Runs      int
	Completed int
	Colors    int64 // sum of placed colors
	Elapsed   time.Duration
	LastRun   time.Time
}

// Stats retrieves aggregated statistics for all runs.
func (s *Store) Stats() (*RunStats, error) {
	stats := &RunStats{}
	var elapsedMS int64
	var lastRun any

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN state = 'completed' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(placed), 0),
		        COALESCE(SUM(duration_ms), 0),
		        MAX(created_at)
		 FROM runs`,
	).Scan(&stats.Runs, &stats.Completed, &stats.Colors, &elapsedMS, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}

	stats.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	stats.LastRun = parseTime(lastRun)
	return stats, nil
}
