// Package history keeps a local log of submitted searches in SQLite.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/tunesearch/internal/search"
)

const (
	appName    = "tunesearch"
	dbFileName = "history.db"
)

// Entry is one delivered search outcome.
type Entry struct {
	Provider string
	Query    string
	Results  int
	ErrKind  string // empty on success
	At       time.Time
}

// Failed reports whether the search ended in an error.
func (e Entry) Failed() bool {
	return e.ErrKind != ""
}

// Summary describes the outcome, e.g. "1,204 results" or "bad status".
func (e Entry) Summary() string {
	if e.Failed() {
		return e.ErrKind
	}
	if e.Results == 1 {
		return "1 result"
	}
	return humanize.Comma(int64(e.Results)) + " results"
}

// Ago renders At relative to now, e.g. "3 minutes ago".
func (e Entry) Ago(now time.Time) string {
	return humanize.RelTime(e.At, now, "ago", "from now")
}

// Outcome builds the entry for a delivered result or error.
func Outcome(provider string, q search.Query, results int, err error, at time.Time) Entry {
	e := Entry{Provider: provider, Query: q.Text, Results: results, At: at}
	if err != nil {
		e.Results = 0
		if kind, ok := search.KindOf(err); ok {
			e.ErrKind = kind.String()
		} else {
			e.ErrKind = "error"
		}
	}
	return e
}

type Store struct {
	db *sql.DB
}

// Open opens the history database under the XDG data directory.
func Open() (*Store, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	s, err := OpenDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenDB wraps an already opened database, creating the schema if needed.
func OpenDB(db *sql.DB) (*Store, error) {
	if err := initSchema(db); err != nil {
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores e. Repeating the most recent provider and query refreshes
// that row instead of adding a new one. Blank queries are ignored.
func (s *Store) Record(e Entry) error {
	if strings.TrimSpace(e.Query) == "" {
		return nil
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	var errKind sql.NullString
	if e.ErrKind != "" {
		errKind = sql.NullString{String: e.ErrKind, Valid: true}
	}

	return withTx(s.db, func(tx *sql.Tx) error {
		var (
			id       int64
			provider string
			query    string
		)
		err := tx.QueryRow(`
			SELECT id, provider, query FROM search_history
			ORDER BY id DESC LIMIT 1
		`).Scan(&id, &provider, &query)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		if err == nil && provider == e.Provider && query == e.Query {
			_, err = tx.Exec(`
				UPDATE search_history
				SET results = ?, err_kind = ?, searched_at = ?
				WHERE id = ?
			`, e.Results, errKind, e.At.Unix(), id)
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO search_history (provider, query, results, err_kind, searched_at)
			VALUES (?, ?, ?, ?, ?)
		`, e.Provider, e.Query, e.Results, errKind, e.At.Unix())
		return err
	})
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(`
		SELECT provider, query, results, err_kind, searched_at
		FROM search_history
		ORDER BY searched_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			errKind sql.NullString
			at      int64
		)
		if err := rows.Scan(&e.Provider, &e.Query, &e.Results, &errKind, &at); err != nil {
			return nil, err
		}
		if errKind.Valid {
			e.ErrKind = errKind.String
		}
		e.At = time.Unix(at, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear deletes every entry.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM search_history`)
	return err
}

// withTx executes fn within a transaction, rolling back on error.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
