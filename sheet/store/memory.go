// Package store provides Store implementations.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/warp/sheet-editor/sheet"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	sheets map[string]*sheet.Sheet
	order  []string // titles in creation order

	// Now is the clock used for timestamps. Tests may replace it.
	Now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		sheets: make(map[string]*sheet.Sheet),
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateSheet stores a new sheet under a unique title.
func (m *Memory) CreateSheet(_ context.Context, title string, rows []sheet.Row) (sheet.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sheets[title]; ok {
		return sheet.Summary{}, sheet.ErrDuplicateTitle
	}

	now := m.Now()
	s := &sheet.Sheet{
		Summary: sheet.Summary{Title: title, CreatedAt: now, UpdatedAt: now},
		Rows:    copyRows(rows),
	}
	m.sheets[title] = s
	m.order = append(m.order, title)
	return s.Summary, nil
}

// ListSheets returns summaries in creation order.
func (m *Memory) ListSheets(_ context.Context) ([]sheet.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]sheet.Summary, 0, len(m.order))
	for _, title := range m.order {
		out = append(out, m.sheets[title].Summary)
	}
	return out, nil
}

// GetSheet returns a copy of the stored sheet.
func (m *Memory) GetSheet(_ context.Context, title string) (*sheet.Sheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sheets[title]
	if !ok {
		return nil, sheet.ErrSheetNotFound
	}
	return &sheet.Sheet{Summary: s.Summary, Rows: copyRows(s.Rows)}, nil
}

// ReplaceRows swaps the row set in one step.
func (m *Memory) ReplaceRows(_ context.Context, title string, rows []sheet.Row) (sheet.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sheets[title]
	if !ok {
		return sheet.Summary{}, sheet.ErrSheetNotFound
	}
	s.Rows = copyRows(rows)
	s.UpdatedAt = m.Now()
	return s.Summary, nil
}

// DeleteSheet removes a sheet.
func (m *Memory) DeleteSheet(_ context.Context, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sheets[title]; !ok {
		return sheet.ErrSheetNotFound
	}
	delete(m.sheets, title)
	for i, t := range m.order {
		if t == title {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Reset removes every sheet.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sheets = make(map[string]*sheet.Sheet)
	m.order = nil
	return nil
}

func copyRows(rows []sheet.Row) []sheet.Row {
	out := make([]sheet.Row, len(rows))
	copy(out, rows)
	return out
}
