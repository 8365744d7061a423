/*
store.go - Persistence interface for sheets

PURPOSE:
  Defines the interface between the HTTP layer and the database.
  Different implementations can use SQLite or in-memory storage.

BULK REPLACE:
  ReplaceRows overwrites a sheet's entire row set in one call. It is
  all-or-nothing: either every row is written and updatedAt bumped, or the
  stored sheet is left untouched.

ORDERING:
  Rows come back in the order they were written. Summaries come back in
  creation order.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - sheet/store/memory.go:  In-memory for testing

SEE ALSO:
  - api/handlers.go: Uses Store
*/
package sheet

import "context"

// Store handles persistence of sheets.
type Store interface {
	// CreateSheet persists a new sheet. Returns ErrDuplicateTitle if the
	// title is taken.
	CreateSheet(ctx context.Context, title string, rows []Row) (Summary, error)

	// ListSheets returns every sheet summary in creation order.
	ListSheets(ctx context.Context) ([]Summary, error)

	// GetSheet returns a sheet and its rows. Returns ErrSheetNotFound.
	GetSheet(ctx context.Context, title string) (*Sheet, error)

	// ReplaceRows atomically overwrites a sheet's rows. Returns ErrSheetNotFound.
	ReplaceRows(ctx context.Context, title string, rows []Row) (Summary, error)

	// DeleteSheet removes a sheet and its rows. Returns ErrSheetNotFound.
	DeleteSheet(ctx context.Context, title string) error

	// Reset removes every sheet (demo/testing).
	Reset(ctx context.Context) error
}
