/*
Package sqlite provides a SQLite-backed implementation of sheet.Store.

PURPOSE:
  Persists sheets and their rows. This is the backend half of the /csv API:
  uploads create a sheet, the editor's submit replaces its rows, the list
  view reads summaries.

KEY TABLES:
  sheets:     One row per sheet (id, unique title, timestamps)
  sheet_rows: Ordered rows; (sheet_id, position) is the primary key

BULK REPLACE:
  ReplaceRows deletes and re-inserts every row of a sheet inside a single
  SQL transaction and bumps updated_at in the same transaction. A failure
  anywhere rolls the whole replace back.

NUMBERS:
  Revenue, Expenses and Profit are stored as decimal TEXT so values survive
  exactly (no REAL rounding).

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In-memory databases are pinned to a
  single connection, since every new connection to ":memory:" is a fresh,
  empty database.

WAL MODE:
  File databases are opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./sheets.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - sheet/store.go: Interface definition
  - sheet/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/sheet-editor/sheet"
)

// Store implements sheet.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex

	// now is the clock used for timestamps.
	now func() time.Time
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sheets (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sheets_created_at
		ON sheets(created_at);

	-- Rows keep their upload/submit order through position
	CREATE TABLE IF NOT EXISTS sheet_rows (
		sheet_id TEXT NOT NULL REFERENCES sheets(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		month TEXT NOT NULL,
		revenue TEXT NOT NULL,
		expenses TEXT NOT NULL,
		profit TEXT NOT NULL,
		PRIMARY KEY (sheet_id, position)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SHEET STORE (sheet.Store interface)
// =============================================================================

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateSheet inserts a sheet and its rows atomically.
func (s *Store) CreateSheet(ctx context.Context, title string, rows []sheet.Row) (sheet.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	summary := sheet.Summary{Title: title, CreatedAt: now, UpdatedAt: now}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id := uuid.NewString()
		_, err := tx.ExecContext(ctx,
			"INSERT INTO sheets (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)",
			id, title, formatTime(now), formatTime(now),
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return sheet.ErrDuplicateTitle
			}
			return fmt.Errorf("failed to insert sheet: %w", err)
		}
		return insertRows(ctx, tx, id, rows)
	})
	if err != nil {
		return sheet.Summary{}, err
	}
	return summary, nil
}

// ListSheets returns all sheet summaries in creation order.
func (s *Store) ListSheets(ctx context.Context) ([]sheet.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT title, created_at, updated_at FROM sheets ORDER BY created_at ASC, title ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sheets: %w", err)
	}
	defer rows.Close()

	summaries := []sheet.Summary{}
	for rows.Next() {
		var (
			sum                  sheet.Summary
			createdAt, updatedAt string
		)
		if err := rows.Scan(&sum.Title, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sheet: %w", err)
		}
		sum.CreatedAt = parseTime(createdAt)
		sum.UpdatedAt = parseTime(updatedAt)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// GetSheet returns a sheet with its rows in position order.
func (s *Store) GetSheet(ctx context.Context, title string) (*sheet.Sheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, sum, err := lookupSheet(ctx, s.db, title)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT month, revenue, expenses, profit
		FROM sheet_rows
		WHERE sheet_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	out := &sheet.Sheet{Summary: sum, Rows: []sheet.Row{}}
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out.Rows = append(out.Rows, r)
	}
	return out, rows.Err()
}

// ReplaceRows overwrites every row of a sheet in one transaction.
func (s *Store) ReplaceRows(ctx context.Context, title string, rows []sheet.Row) (sheet.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum sheet.Summary
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, found, err := lookupSheet(ctx, tx, title)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM sheet_rows WHERE sheet_id = ?", id); err != nil {
			return fmt.Errorf("failed to clear rows: %w", err)
		}
		if err := insertRows(ctx, tx, id, rows); err != nil {
			return err
		}

		now := s.now()
		if _, err := tx.ExecContext(ctx,
			"UPDATE sheets SET updated_at = ? WHERE id = ?", formatTime(now), id,
		); err != nil {
			return fmt.Errorf("failed to touch sheet: %w", err)
		}

		sum = found
		sum.UpdatedAt = now
		return nil
	})
	if err != nil {
		return sheet.Summary{}, err
	}
	return sum, nil
}

// DeleteSheet removes a sheet; its rows go with it (ON DELETE CASCADE).
func (s *Store) DeleteSheet(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM sheets WHERE title = ?", title)
	if err != nil {
		return fmt.Errorf("failed to delete sheet: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sheet.ErrSheetNotFound
	}
	return nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"sheet_rows", "sheets"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// withTx runs fn inside a database transaction. Callers hold s.mu.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(sqlTx); err != nil {
		return err
	}
	return sqlTx.Commit()
}

func lookupSheet(ctx context.Context, db execer, title string) (string, sheet.Summary, error) {
	var (
		id                   string
		sum                  sheet.Summary
		createdAt, updatedAt string
	)
	err := db.QueryRowContext(ctx,
		"SELECT id, title, created_at, updated_at FROM sheets WHERE title = ?", title,
	).Scan(&id, &sum.Title, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sheet.Summary{}, sheet.ErrSheetNotFound
	}
	if err != nil {
		return "", sheet.Summary{}, fmt.Errorf("failed to get sheet: %w", err)
	}
	sum.CreatedAt = parseTime(createdAt)
	sum.UpdatedAt = parseTime(updatedAt)
	return id, sum, nil
}

func insertRows(ctx context.Context, tx *sql.Tx, sheetID string, rows []sheet.Row) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sheet_rows (sheet_id, position, month, revenue, expenses, profit)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		_, err := stmt.ExecContext(ctx, sheetID, i, r.Month,
			r.Revenue.String(), r.Expenses.String(), r.Profit.String())
		if err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}
	return nil
}

func scanRow(rows *sql.Rows) (sheet.Row, error) {
	var (
		r                          sheet.Row
		revenue, expenses, profit string
	)
	if err := rows.Scan(&r.Month, &revenue, &expenses, &profit); err != nil {
		return r, fmt.Errorf("failed to scan row: %w", err)
	}

	var err error
	if r.Revenue, err = decimal.NewFromString(revenue); err != nil {
		return r, fmt.Errorf("corrupt revenue %q: %w", revenue, err)
	}
	if r.Expenses, err = decimal.NewFromString(expenses); err != nil {
		return r, fmt.Errorf("corrupt expenses %q: %w", expenses, err)
	}
	if r.Profit, err = decimal.NewFromString(profit); err != nil {
		return r, fmt.Errorf("corrupt profit %q: %w", profit, err)
	}
	return r, nil
}

// timeLayout is fixed-width so TEXT ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
