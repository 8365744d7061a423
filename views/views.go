/*
Package views holds the state of the two sheet screens as explicit objects.

PURPOSE:
  The list screen (List) and the editor screen (Editor) own everything a
  front-end needs between renders: fetched data, the open edit form,
  pending confirmations, pagination and the chart series. Rendering is
  somebody else's job (see tui/).

TWO ERROR CLASSES:
  1. Local validation - missing upload title/file, bad edit form, bad rows
     before submit. No network call is made.
  2. Remote failure - any error from the Backend. Reported as one generic
     notice; local state is left exactly as it was.

CONCURRENCY:
  List and Editor are safe for concurrent use. Backend calls run without
  the lock held. Every fetch takes a generation number; when a newer fetch
  was issued (or the view was closed) before the response lands, the
  response is dropped and ErrStale is returned.

SEE ALSO:
  - list.go:   Sheet list, delete and upload
  - editor.go: Row editing state machine and bulk submit
  - chart.go:  Derived Revenue/Expenses/Profit series
  - client/:   The production Backend
*/
package views

import (
	"context"
	"io"
	"log"

	"github.com/warp/sheet-editor/sheet"
)

// Backend is the remote sheet API. *client.Client implements it.
type Backend interface {
	ListSheets(ctx context.Context) ([]sheet.Summary, error)
	GetSheet(ctx context.Context, title string) (*sheet.Sheet, error)
	UpdateSheet(ctx context.Context, title string, rows []sheet.Row) error
	UploadCSV(ctx context.Context, title, filename string, content io.Reader) error
	DeleteSheet(ctx context.Context, title string) error
}

// Config wires a view to its collaborators.
type Config struct {
	Backend Backend
	// Notifier receives success and error notices. Nil discards them.
	Notifier Notifier
	// Logger receives diagnostics for failed calls. Nil disables logging.
	Logger *log.Logger
}

func (c Config) notifier() Notifier {
	if c.Notifier == nil {
		return discardNotifier{}
	}
	return c.Notifier
}

func (c Config) logf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}
