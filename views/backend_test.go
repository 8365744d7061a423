package views_test

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/warp/sheet-editor/sheet"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var errServer = errors.New("HTTP 500")

type uploadCall struct {
	Title    string
	Filename string
	Content  string
}

type updateCall struct {
	Title string
	Rows  []sheet.Row
}

// fakeBackend records every call. Set the *Err fields to make calls fail and
// getSheet to take over GetSheet.
type fakeBackend struct {
	mu sync.Mutex

	summaries []sheet.Summary
	sheets    map[string][]sheet.Row

	listErr   error
	getErr    error
	updateErr error
	uploadErr error
	deleteErr error

	getSheet func(ctx context.Context, title string) (*sheet.Sheet, error)

	listCalls int
	getCalls  int
	updates   []updateCall
	uploads   []uploadCall
	deletes   []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{sheets: make(map[string][]sheet.Row)}
}

func (f *fakeBackend) ListSheets(_ context.Context) ([]sheet.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]sheet.Summary(nil), f.summaries...), nil
}

func (f *fakeBackend) GetSheet(ctx context.Context, title string) (*sheet.Sheet, error) {
	f.mu.Lock()
	f.getCalls++
	hook := f.getSheet
	err := f.getErr
	rows := append([]sheet.Row(nil), f.sheets[title]...)
	f.mu.Unlock()

	if hook != nil {
		return hook(ctx, title)
	}
	if err != nil {
		return nil, err
	}
	return &sheet.Sheet{Summary: sheet.Summary{Title: title}, Rows: rows}, nil
}

func (f *fakeBackend) UpdateSheet(_ context.Context, title string, rows []sheet.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updateCall{Title: title, Rows: append([]sheet.Row(nil), rows...)})
	return f.updateErr
}

func (f *fakeBackend) UploadCSV(_ context.Context, title, filename string, content io.Reader) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, uploadCall{Title: title, Filename: filename, Content: string(data)})
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.summaries = append(f.summaries, sheet.Summary{Title: title})
	return nil
}

func (f *fakeBackend) DeleteSheet(_ context.Context, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, title)
	return f.deleteErr
}

// calls counts every backend call.
func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls + f.getCalls + len(f.updates) + len(f.uploads) + len(f.deletes)
}
