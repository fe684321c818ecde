// Package store persists search counts in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sebastiantruijens/movie-tui/internal/movies"
)

// ErrEmptyTerm is returned when a blank search term is recorded.
var ErrEmptyTerm = errors.New("search term is empty")

// SearchMetric is one recorded search term.
type SearchMetric struct {
	SearchTerm string
	Count      int
	MovieID    int
	Title      string
	PosterURL  string
	UpdatedAt  time.Time
}

// Store records how often each search term settled on a result.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open initializes the SQLite database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Search counts are written from one command at a time; a single
	// connection avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS metrics (
		search_term TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 1,
		movie_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		poster_url TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_metrics_count ON metrics(count DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create metrics table: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// UpdateSearchCount increments the count for term, inserting it with the
// top movie on first sight.
func (s *Store) UpdateSearchCount(ctx context.Context, term string, movie movies.Movie) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return ErrEmptyTerm
	}

	now := time.Now().UnixNano()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metrics (search_term, count, movie_id, title, poster_url, created_at, updated_at)
		VALUES (?, 1, ?, ?, ?, ?, ?)
		ON CONFLICT(search_term) DO UPDATE SET
			count = count + 1,
			updated_at = excluded.updated_at`,
		term, movie.ID, movie.Title, movie.PosterPath, now, now)
	if err != nil {
		return fmt.Errorf("failed to update search count: %w", err)
	}
	return nil
}

// TrendingSearches returns the most frequent search terms.
func (s *Store) TrendingSearches(ctx context.Context, limit int) ([]SearchMetric, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT search_term, count, movie_id, title, COALESCE(poster_url, ''), updated_at
		FROM metrics
		ORDER BY count DESC, updated_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trending searches: %w", err)
	}
	defer rows.Close()

	var metrics []SearchMetric
	for rows.Next() {
		var m SearchMetric
		var updated int64
		if err := rows.Scan(&m.SearchTerm, &m.Count, &m.MovieID, &m.Title, &m.PosterURL, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan search metric: %w", err)
		}
		m.UpdatedAt = time.Unix(0, updated)
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
