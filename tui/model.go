/*
Package tui is a terminal front-end for the sheet API.

PURPOSE:
  Renders views.List and views.Editor with bubbletea. Every backend call
  runs as a tea.Cmd; its result comes back as a message and the model
  drains the views' notices into the status line.

SCREENS:
  List:   sheets with created/updated times; open, delete, upload, refresh
  Editor: paged rows; inline edit form, y/n confirmations, submit, chart

SEE ALSO:
  - views/:           State objects driven here
  - cmd/sheets/main.go: "sheets tui" entry point
*/
package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/warp/sheet-editor/sheet"
	"github.com/warp/sheet-editor/views"
)

type screen int

const (
	screenList screen = iota
	screenEditor
)

type inputMode int

const (
	inputNone inputMode = iota
	inputUploadTitle
	inputUploadPath
	inputEdit
)

// Model is the root bubbletea model.
type Model struct {
	ctx      context.Context
	cfg      views.Config
	inbox    *views.Inbox
	readFile func(string) ([]byte, error)

	list   *views.List
	editor *views.Editor

	// UI state
	screen        screen
	input         inputMode
	buffer        string
	listCursor    int
	rowCursor     int
	field         int
	confirmDelete string
	showChart     bool
	loading       bool
	notice        *views.Notice
	width         int
	height        int
}

// New creates a model on top of backend. Notices go to the status line;
// cfg.Notifier is replaced.
func New(ctx context.Context, cfg views.Config) Model {
	inbox := &views.Inbox{}
	cfg.Notifier = inbox
	return Model{
		ctx:      ctx,
		cfg:      cfg,
		inbox:    inbox,
		readFile: os.ReadFile,
		list:     views.NewList(cfg),
		screen:   screenList,
		loading:  true,
		width:    80,
	}
}

// Run starts the program in the alternate screen and blocks until it quits.
func Run(ctx context.Context, cfg views.Config) error {
	_, err := tea.NewProgram(New(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Init fetches the sheet list.
func (m Model) Init() tea.Cmd {
	return refreshCmd(m.ctx, m.list)
}

// =============================================================================
// COMMANDS
// =============================================================================

func refreshCmd(ctx context.Context, list *views.List) tea.Cmd {
	return func() tea.Msg {
		return listRefreshedMsg{Err: list.Refresh(ctx)}
	}
}

func deleteCmd(ctx context.Context, list *views.List, title string) tea.Cmd {
	return func() tea.Msg {
		return sheetDeletedMsg{Title: title, Err: list.Delete(ctx, title)}
	}
}

// uploadCmd reads path (if given), selects it and uploads. An empty path
// uploads with no file so the list rejects it locally.
func uploadCmd(ctx context.Context, list *views.List, readFile func(string) ([]byte, error), path string) tea.Cmd {
	return func() tea.Msg {
		if path != "" {
			data, err := readFile(path)
			if err != nil {
				return fileReadErrorMsg{Path: path, Err: err}
			}
			list.SelectFile(filepath.Base(path), data)
		}
		return uploadedMsg{Err: list.Upload(ctx)}
	}
}

func loadCmd(ctx context.Context, ed *views.Editor) tea.Cmd {
	return func() tea.Msg {
		return editorLoadedMsg{Editor: ed, Err: ed.Load(ctx)}
	}
}

func submitCmd(ctx context.Context, ed *views.Editor) tea.Cmd {
	return func() tea.Msg {
		return submittedMsg{Err: ed.Submit(ctx)}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if msg.String() == KeyCtrlC {
			return m, tea.Quit
		}
		if m.screen == screenEditor {
			return m.handleEditorKey(msg)
		}
		return m.handleListKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case listRefreshedMsg:
		m.loading = false
		m.clampListCursor()

	case sheetDeletedMsg:
		m.clampListCursor()

	case uploadedMsg:
		m.clampListCursor()

	case fileReadErrorMsg:
		m.notice = &views.Notice{Level: views.LevelError, Title: "Failed", Message: "Cannot read " + msg.Path + ": " + msg.Err.Error()}
		return m, nil

	case editorLoadedMsg:
		if msg.Editor != m.editor {
			return m, nil
		}
		m.loading = false
		m.input = inputNone
		m.rowCursor = 0

	case submittedMsg:
	}

	m.takeNotice()
	return m, nil
}

// takeNotice moves the newest queued notice to the status line.
func (m *Model) takeNotice() {
	if notices := m.inbox.Drain(); len(notices) > 0 {
		n := notices[len(notices)-1]
		m.notice = &n
	}
}

func (m *Model) errorNotice(err error) {
	m.notice = &views.Notice{Level: views.LevelError, Title: "Error", Message: err.Error()}
}

// =============================================================================
// LIST KEYS
// =============================================================================

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.confirmDelete != "" {
		title := m.confirmDelete
		m.confirmDelete = ""
		if key == KeyYes {
			return m, deleteCmd(m.ctx, m.list, title)
		}
		return m, nil
	}

	switch m.input {
	case inputUploadTitle, inputUploadPath:
		return m.handleUploadInput(msg)
	}

	summaries := m.list.Summaries()

	switch key {
	case KeyQuit:
		return m, tea.Quit

	case KeyUp, KeyK:
		if m.listCursor > 0 {
			m.listCursor--
		}

	case KeyDown, KeyJ:
		if m.listCursor < len(summaries)-1 {
			m.listCursor++
		}

	case KeyEnter:
		if len(summaries) == 0 {
			return m, nil
		}
		m.editor = m.list.OpenEditor(summaries[m.listCursor].Title)
		m.screen = screenEditor
		m.input = inputNone
		m.rowCursor = 0
		m.loading = true
		return m, loadCmd(m.ctx, m.editor)

	case KeyDelete, KeyRemove:
		if len(summaries) > 0 {
			m.confirmDelete = summaries[m.listCursor].Title
		}

	case KeyUpload:
		m.input = inputUploadTitle
		m.buffer = m.list.Title()

	case KeyRefresh:
		m.loading = true
		return m, refreshCmd(m.ctx, m.list)
	}

	return m, nil
}

func (m Model) handleUploadInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEsc:
		m.input = inputNone
		m.buffer = ""
		return m, nil

	case KeyEnter:
		if m.input == inputUploadTitle {
			m.list.SetTitle(m.buffer)
			m.input = inputUploadPath
			m.buffer = ""
			return m, nil
		}
		path := m.buffer
		m.input = inputNone
		m.buffer = ""
		return m, uploadCmd(m.ctx, m.list, m.readFile, path)
	}

	m.buffer = typed(m.buffer, msg)
	return m, nil
}

func (m *Model) clampListCursor() {
	n := len(m.list.Summaries())
	m.listCursor = max(0, min(m.listCursor, n-1))
}

// =============================================================================
// EDITOR KEYS
// =============================================================================

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	ed := m.editor

	if _, pending := ed.Pending(); pending {
		switch key {
		case KeyYes:
			if err := ed.Confirm(); err != nil {
				m.errorNotice(err)
			}
		case KeyNo, KeyEsc:
			ed.Dismiss()
		}
		m.syncEditor()
		return m, nil
	}

	// Page changes work in both modes and close an open form.
	switch key {
	case KeyPgUp:
		ed.SetPage(ed.Page() - 1)
		m.rowCursor = 0
		m.syncEditor()
		return m, nil
	case KeyPgDown:
		ed.SetPage(ed.Page() + 1)
		m.rowCursor = 0
		m.syncEditor()
		return m, nil
	}

	if m.input == inputEdit {
		return m.handleFormKey(msg)
	}

	rows := ed.PageRows()

	switch key {
	case KeyQuit:
		return m, tea.Quit

	case KeyEsc, KeyBack:
		ed.Close()
		m.editor = nil
		m.screen = screenList
		m.input = inputNone
		m.loading = true
		return m, refreshCmd(m.ctx, m.list)

	case KeyUp, KeyK:
		if m.rowCursor > 0 {
			m.rowCursor--
		}

	case KeyDown, KeyJ:
		if m.rowCursor < len(rows)-1 {
			m.rowCursor++
		}

	case KeyLeft:
		ed.SetPage(ed.Page() - 1)
		m.rowCursor = 0

	case KeyRight:
		ed.SetPage(ed.Page() + 1)
		m.rowCursor = 0

	case KeyEnter, KeyEdit:
		if len(rows) == 0 {
			return m, nil
		}
		if err := ed.BeginEdit(rows[m.rowCursor].ID); err != nil {
			m.errorNotice(err)
			return m, nil
		}
		m.input = inputEdit
		m.field = 0

	case KeyRemove, KeyDelete:
		if len(rows) == 0 {
			return m, nil
		}
		if err := ed.RequestDeleteRow(rows[m.rowCursor].ID); err != nil {
			m.errorNotice(err)
		}

	case KeySubmit:
		return m, submitCmd(m.ctx, ed)

	case KeyRefresh:
		m.loading = true
		return m, loadCmd(m.ctx, ed)

	case KeyChart:
		m.showChart = !m.showChart
	}

	m.syncEditor()
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := m.editor
	id, editing := ed.Editing()
	if !editing {
		m.input = inputNone
		return m, nil
	}
	field := sheet.Fields[m.field]

	switch msg.String() {
	case KeyTab:
		m.field = (m.field + 1) % len(sheet.Fields)

	case KeyShiftTab:
		m.field = (m.field + len(sheet.Fields) - 1) % len(sheet.Fields)

	case KeyEnter:
		err := ed.Save(id)
		var verr *sheet.ValidationError
		switch {
		case errors.As(err, &verr):
			m.notice = &views.Notice{Level: views.LevelError, Title: "Invalid row", Message: verr.Error()}
		case err != nil:
			m.errorNotice(err)
		default:
			m.notice = nil
		}

	case KeyEsc:
		if err := ed.RequestCancelEdit(id); err != nil {
			m.errorNotice(err)
		}

	default:
		ed.SetField(field, typed(ed.FormValue(field), msg))
	}

	m.syncEditor()
	return m, nil
}

// syncEditor realigns UI state after the editor changed underneath it.
func (m *Model) syncEditor() {
	if m.editor == nil {
		return
	}
	if _, editing := m.editor.Editing(); !editing && m.input == inputEdit {
		m.input = inputNone
	}
	n := len(m.editor.PageRows())
	m.rowCursor = max(0, min(m.rowCursor, n-1))
}

// typed applies a text-editing key to s.
func typed(s string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyBackspace:
		r := []rune(s)
		if len(r) == 0 {
			return s
		}
		return string(r[:len(r)-1])
	case tea.KeySpace:
		return s + " "
	case tea.KeyRunes:
		return s + string(msg.Runes)
	}
	return s
}
