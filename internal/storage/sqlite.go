// Package storage provides SQLite-based persistence for finished puzzle games.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for result persistence.
type Store struct {
	db *sql.DB
}

// Result is the record of one finished session.
type Result struct {
	ID          int64
	GridSize    int
	Won         bool
	Moves       int
	ElapsedSecs int
	Image       string
	CreatedAt   time.Time
}

// Stats aggregates the results for one grid size.
type Stats struct {
	GridSize    int
	Games       int
	Wins        int
	BestSecs    int // Fastest win; zero when there are no wins
	FewestMoves int // Fewest moves in a win; zero when there are no wins
	LastPlayed  time.Time
}

// WinRate returns the fraction of games won.
func (s Stats) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
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

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

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

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			grid_size INTEGER NOT NULL,
			won INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			elapsed_secs INTEGER NOT NULL DEFAULT 0,
			image TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_grid ON results(grid_size);
		CREATE INDEX IF NOT EXISTS idx_results_best ON results(grid_size, won, elapsed_secs, moves);
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

// SaveResult records a finished session and returns its ID.
func (s *Store) SaveResult(r Result) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO results (grid_size, won, moves, elapsed_secs, image)
		 VALUES (?, ?, ?, ?, ?)`,
		r.GridSize, r.Won, r.Moves, r.ElapsedSecs, r.Image,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// BestResults returns the fastest wins for a grid size, ties broken by moves.
func (s *Store) BestResults(gridSize, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryResults(
		`SELECT id, grid_size, won, moves, elapsed_secs, image, created_at
		 FROM results
		 WHERE grid_size = ? AND won = 1
		 ORDER BY elapsed_secs ASC, moves ASC, id ASC
		 LIMIT ?`,
		gridSize, limit,
	)
}

// RecentResults returns the latest results across all grid sizes.
func (s *Store) RecentResults(limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryResults(
		`SELECT id, grid_size, won, moves, elapsed_secs, image, created_at
		 FROM results
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
}

func (s *Store) queryResults(query string, args ...any) ([]Result, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var createdAt any
		if err := rows.Scan(&r.ID, &r.GridSize, &r.Won, &r.Moves, &r.ElapsedSecs, &r.Image, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// Stats aggregates the results for a grid size.
func (s *Store) Stats(gridSize int) (*Stats, error) {
	stats := &Stats{GridSize: gridSize}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(won), 0)
		 FROM results WHERE grid_size = ?`,
		gridSize,
	).Scan(&stats.Games, &stats.Wins)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COALESCE(MIN(elapsed_secs), 0), COALESCE(MIN(moves), 0)
		 FROM results WHERE grid_size = ? AND won = 1`,
		gridSize,
	).Scan(&stats.BestSecs, &stats.FewestMoves)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get best result: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM results WHERE grid_size = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		gridSize,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// ClearResults deletes all results for a grid size.
func (s *Store) ClearResults(gridSize int) error {
	if _, err := s.db.Exec("DELETE FROM results WHERE grid_size = ?", gridSize); err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and the string form SQLite may return.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
