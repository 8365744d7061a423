package views

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/warp/sheet-editor/sheet"
)

// selectedFile is the file chosen for upload.
type selectedFile struct {
	name    string
	content []byte
}

// List is the sheet list screen.
type List struct {
	cfg Config

	mu        sync.Mutex
	summaries []sheet.Summary
	title     string
	file      *selectedFile
	gen       uint64
}

// NewList creates an empty list. Call Refresh to fetch summaries.
func NewList(cfg Config) *List {
	return &List{cfg: cfg, summaries: []sheet.Summary{}}
}

// Summaries returns a snapshot of the current entries.
func (l *List) Summaries() []sheet.Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]sheet.Summary(nil), l.summaries...)
}

// =============================================================================
// FETCH
// =============================================================================

// Refresh fetches every summary and replaces the list. On failure the
// previous entries are kept and an error notice is sent.
func (l *List) Refresh(ctx context.Context) error {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	summaries, err := l.cfg.Backend.ListSheets(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return ErrStale
	}
	if err != nil {
		l.cfg.logf("[Views] Error fetching sheets: %v", err)
		l.cfg.notifier().Notify(errorNotice("Error", "Error fetching data: "+err.Error()))
		return err
	}
	if summaries == nil {
		summaries = []sheet.Summary{}
	}
	l.summaries = summaries
	return nil
}

// =============================================================================
// DELETE
// =============================================================================

// Delete removes a sheet. The entry leaves the list only after the server
// confirms.
func (l *List) Delete(ctx context.Context, title string) error {
	if err := l.cfg.Backend.DeleteSheet(ctx, title); err != nil {
		l.cfg.logf("[Views] Error deleting sheet %q: %v", title, err)
		l.cfg.notifier().Notify(errorNotice("Error",
			fmt.Sprintf("There was an error deleting the sheet %q: %v", title, err)))
		return err
	}

	l.mu.Lock()
	kept := l.summaries[:0:0]
	for _, s := range l.summaries {
		if s.Title != title {
			kept = append(kept, s)
		}
	}
	l.summaries = kept
	l.mu.Unlock()

	l.cfg.notifier().Notify(successNotice("Success",
		fmt.Sprintf("The sheet %q has been successfully deleted.", title)))
	return nil
}

// =============================================================================
// UPLOAD
// =============================================================================

// SetTitle sets the title the next upload is stored under.
func (l *List) SetTitle(title string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.title = title
}

// Title returns the pending upload title.
func (l *List) Title() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.title
}

// SelectFile chooses the CSV to upload. The content is copied.
func (l *List) SelectFile(name string, content []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.file = &selectedFile{name: name, content: append([]byte(nil), content...)}
}

// SelectedFile returns the chosen file name, if any.
func (l *List) SelectedFile() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return "", false
	}
	return l.file.name, true
}

// Upload sends the selected file under the entered title, then re-fetches
// the list. Without both a title and a file nothing is sent. The file
// selection is reset whatever the outcome.
func (l *List) Upload(ctx context.Context) error {
	l.mu.Lock()
	title := strings.TrimSpace(l.title)
	file := l.file
	l.file = nil
	l.mu.Unlock()

	var missing error
	switch {
	case title == "":
		missing = ErrTitleRequired
	case file == nil:
		missing = ErrFileRequired
	}
	if missing != nil {
		l.cfg.notifier().Notify(errorNotice("Error", "Please provide both a file and a title"))
		return missing
	}

	if err := l.cfg.Backend.UploadCSV(ctx, title, file.name, bytes.NewReader(file.content)); err != nil {
		l.cfg.logf("[Views] Error uploading file: %v", err)
		l.cfg.notifier().Notify(errorNotice("Failed", "Error uploading file: "+err.Error()))
		return err
	}

	l.mu.Lock()
	l.title = ""
	l.mu.Unlock()
	l.cfg.notifier().Notify(successNotice("Success", "File uploaded successfully"))

	if err := l.Refresh(ctx); err != nil && !errors.Is(err, ErrStale) {
		return fmt.Errorf("uploaded, but refreshing the list failed: %w", err)
	}
	return nil
}

// =============================================================================
// NAVIGATION
// =============================================================================

// OpenEditor returns a fresh editor for title sharing this list's wiring.
func (l *List) OpenEditor(title string) *Editor {
	return NewEditor(l.cfg, title)
}

// EditorPath is the route of the editor for title.
func EditorPath(title string) string {
	return "/" + url.PathEscape(title)
}

// FormatTimestamp renders a created/updated time in long form, e.g.
// "March 3rd, 2024 at 2:05:09 PM UTC".
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%s %d%s, %s", t.Format("January"), t.Day(), ordinal(t.Day()), t.Format("2006 at 3:04:05 PM MST"))
}

func ordinal(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
