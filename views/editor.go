package views

import (
	"context"
	"sync"

	"github.com/warp/sheet-editor/sheet"
)

// PageSize is the number of rows per editor page.
const PageSize = 10

// RowID identifies a row within one loaded row set. IDs are assigned
// sequentially at load time and never leave this package's types.
type RowID int

// EditorRow pairs a row with its local identifier.
type EditorRow struct {
	ID  RowID
	Row sheet.Row
}

// ConfirmKind names the action awaiting confirmation.
type ConfirmKind int

const (
	ConfirmCancelEdit ConfirmKind = iota + 1
	ConfirmDeleteRow
)

func (k ConfirmKind) String() string {
	switch k {
	case ConfirmCancelEdit:
		return "cancel edit"
	case ConfirmDeleteRow:
		return "delete row"
	}
	return "unknown"
}

// Confirmation is an action that runs only after Confirm.
type Confirmation struct {
	Kind ConfirmKind
	ID   RowID
}

// =============================================================================
// EDITOR
// =============================================================================

// Editor is the sheet editor screen for one title.
//
// Row state machine:
//
//	Viewing --BeginEdit--> Editing --Save(valid)--> Viewing
//	Editing --Save(invalid)--> Editing
//	Editing --CancelEdit(confirmed)--> Viewing
//	Viewing --DeleteRow(confirmed)--> Removed
//	Editing --page change--> Viewing
//
// At most one row is Editing.
type Editor struct {
	cfg   Config
	title string

	mu      sync.Mutex
	rows    []EditorRow
	editing *RowID
	form    sheet.Form
	pending *Confirmation
	page    int
	gen     uint64
	closed  bool
}

// NewEditor creates an editor for title. Call Load to fetch its rows.
func NewEditor(cfg Config, title string) *Editor {
	return &Editor{cfg: cfg, title: title, rows: []EditorRow{}, page: 1}
}

// Title returns the sheet title the editor is scoped to.
func (e *Editor) Title() string {
	return e.title
}

// Rows returns a snapshot of all rows in order.
func (e *Editor) Rows() []EditorRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]EditorRow(nil), e.rows...)
}

// Close drops any in-flight Load. The editor must not be reused.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	e.closed = true
}

// =============================================================================
// LOAD & SUBMIT
// =============================================================================

// Load fetches the sheet and replaces the rows wholesale, assigning fresh
// sequential IDs. Any open edit or pending confirmation is discarded. On
// failure the rows are unchanged and an error notice is sent.
func (e *Editor) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrStale
	}
	e.gen++
	gen := e.gen
	e.mu.Unlock()

	s, err := e.cfg.Backend.GetSheet(ctx, e.title)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return ErrStale
	}
	if err != nil {
		e.cfg.logf("[Views] Error fetching sheet %q: %v", e.title, err)
		e.cfg.notifier().Notify(errorNotice("Error", "Error fetching data: "+err.Error()))
		return err
	}

	rows := make([]EditorRow, len(s.Rows))
	for i, r := range s.Rows {
		rows[i] = EditorRow{ID: RowID(i), Row: r}
	}
	e.rows = rows
	e.editing = nil
	e.form = sheet.Form{}
	e.pending = nil
	e.page = 1
	return nil
}

// Submit sends the current rows as a full replacement of the sheet. Local
// rows are left exactly as they are whatever the outcome.
func (e *Editor) Submit(ctx context.Context) error {
	rows := e.plainRows()

	if err := sheet.ValidateRows(rows); err != nil {
		e.cfg.notifier().Notify(errorNotice("Update Failed", err.Error()))
		return err
	}

	if err := e.cfg.Backend.UpdateSheet(ctx, e.title, rows); err != nil {
		e.cfg.logf("[Views] Error updating sheet %q: %v", e.title, err)
		e.cfg.notifier().Notify(errorNotice("Update Failed", "There was an error updating the sheet."))
		return err
	}

	e.cfg.notifier().Notify(successNotice("Update Successful", "The sheet has been successfully updated."))
	return nil
}

// plainRows strips the local IDs.
func (e *Editor) plainRows() []sheet.Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	rows := make([]sheet.Row, len(e.rows))
	for i, r := range e.rows {
		rows[i] = r.Row
	}
	return rows
}

// =============================================================================
// EDITING
// =============================================================================

// Editing returns the row being edited, if any.
func (e *Editor) Editing() (RowID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editing == nil {
		return 0, false
	}
	return *e.editing, true
}

// CanEdit reports whether BeginEdit(id) would be accepted. Presentation
// disables edit controls when false.
func (e *Editor) CanEdit(id RowID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editing != nil {
		return *e.editing == id
	}
	return e.indexOf(id) >= 0
}

// BeginEdit opens the edit form on a row, pre-populated with its values.
// Re-opening the row already being edited keeps the form as typed.
func (e *Editor) BeginEdit(id RowID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.editing != nil {
		if *e.editing == id {
			return nil
		}
		return ErrEditInProgress
	}
	i := e.indexOf(id)
	if i < 0 {
		return ErrRowNotFound
	}

	e.editing = &id
	e.form = sheet.FormFromRow(e.rows[i].Row)
	return nil
}

// FormValue returns the text currently in the edit form for a field.
func (e *Editor) FormValue(f sheet.Field) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form.Get(f)
}

// SetField changes one field of the open form.
func (e *Editor) SetField(f sheet.Field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editing == nil {
		return ErrNotEditing
	}
	e.form.Set(f, value)
	return nil
}

// Save validates the form and merges it into the row, keeping its position
// and ID. On a *sheet.ValidationError the row stays in Editing. Nothing is
// sent to the server.
func (e *Editor) Save(id RowID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.editing == nil || *e.editing != id {
		return ErrNotEditing
	}
	row, err := e.form.Validate()
	if err != nil {
		return err
	}
	i := e.indexOf(id)
	if i < 0 {
		e.stopEditing()
		return ErrRowNotFound
	}

	e.rows[i].Row = row
	e.stopEditing()
	return nil
}

func (e *Editor) stopEditing() {
	e.editing = nil
	e.form = sheet.Form{}
	if e.pending != nil && e.pending.Kind == ConfirmCancelEdit {
		e.pending = nil
	}
}

// =============================================================================
// CONFIRMATIONS
// =============================================================================

// RequestCancelEdit asks to close the open form without saving.
func (e *Editor) RequestCancelEdit(id RowID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editing == nil || *e.editing != id {
		return ErrNotEditing
	}
	e.pending = &Confirmation{Kind: ConfirmCancelEdit, ID: id}
	return nil
}

// RequestDeleteRow asks to remove a row locally.
func (e *Editor) RequestDeleteRow(id RowID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.indexOf(id) < 0 {
		return ErrRowNotFound
	}
	e.pending = &Confirmation{Kind: ConfirmDeleteRow, ID: id}
	return nil
}

// Pending returns the action awaiting confirmation, if any.
func (e *Editor) Pending() (Confirmation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return Confirmation{}, false
	}
	return *e.pending, true
}

// Confirm runs the pending action.
func (e *Editor) Confirm() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.pending
	if p == nil {
		return ErrNoPendingConfirmation
	}
	e.pending = nil

	switch p.Kind {
	case ConfirmCancelEdit:
		if e.editing != nil && *e.editing == p.ID {
			e.stopEditing()
		}
	case ConfirmDeleteRow:
		i := e.indexOf(p.ID)
		if i < 0 {
			return ErrRowNotFound
		}
		e.rows = append(e.rows[:i:i], e.rows[i+1:]...)
		if e.editing != nil && *e.editing == p.ID {
			e.stopEditing()
		}
		e.clampPage()
	}
	return nil
}

// Dismiss drops the pending action without running it.
func (e *Editor) Dismiss() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return ErrNoPendingConfirmation
	}
	e.pending = nil
	return nil
}

// =============================================================================
// PAGINATION
// =============================================================================

// Page returns the current 1-based page.
func (e *Editor) Page() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.page
}

// PageCount returns the number of pages; an empty sheet has one.
func (e *Editor) PageCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pageCount()
}

// SetPage moves to page n, clamped to the valid range. Moving to another
// page closes the open form without saving.
func (e *Editor) SetPage(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.page
	e.page = n
	e.clampPage()
	if e.page != prev && e.editing != nil {
		e.stopEditing()
	}
}

// PageRows returns the rows on the current page.
func (e *Editor) PageRows() []EditorRow {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := (e.page - 1) * PageSize
	if start >= len(e.rows) {
		return []EditorRow{}
	}
	end := min(start+PageSize, len(e.rows))
	return append([]EditorRow(nil), e.rows[start:end]...)
}

func (e *Editor) pageCount() int {
	if len(e.rows) == 0 {
		return 1
	}
	return (len(e.rows) + PageSize - 1) / PageSize
}

func (e *Editor) clampPage() {
	e.page = max(1, min(e.page, e.pageCount()))
}

func (e *Editor) indexOf(id RowID) int {
	for i, r := range e.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
