package tui

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/sheet-editor/api"
	"github.com/warp/sheet-editor/client"
	"github.com/warp/sheet-editor/sheet"
	"github.com/warp/sheet-editor/sheet/store"
	"github.com/warp/sheet-editor/views"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// newTestModel runs the real API over an in-memory store and returns a
// model whose initial list fetch has completed.
func newTestModel(t *testing.T) (Model, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	srv := httptest.NewServer(api.NewRouter(api.NewHandler(mem), nil))
	t.Cleanup(srv.Close)

	c, err := client.New(client.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	m := New(context.Background(), views.Config{Backend: c})
	return m, mem
}

// drive runs cmd and feeds its messages back until nothing is left.
func drive(m Model, cmd tea.Cmd) Model {
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		if msg == nil {
			break
		}
		next, nextCmd := m.Update(msg)
		m = next.(Model)
		cmd = nextCmd
	}
	return m
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case KeyEnter:
		return tea.KeyMsg{Type: tea.KeyEnter}
	case KeyEsc:
		return tea.KeyMsg{Type: tea.KeyEsc}
	case KeyTab:
		return tea.KeyMsg{Type: tea.KeyTab}
	case KeyBackspace:
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case KeyPgDown:
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case KeyDown:
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// press sends keys in order, running any command each one returns.
func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, cmd := m.Update(keyMsg(k))
		m = drive(next.(Model), cmd)
	}
	return m
}

// typeText sends each rune as its own key press.
func typeText(m Model, text string) Model {
	for _, r := range text {
		m = press(m, string(r))
	}
	return m
}

func seed(t *testing.T, mem *store.Memory, title string, rows ...sheet.Row) {
	t.Helper()
	_, err := mem.CreateSheet(context.Background(), title, rows)
	require.NoError(t, err)
}

// =============================================================================
// LIST SCREEN
// =============================================================================

func TestInitLoadsList(t *testing.T) {
	m, mem := newTestModel(t)
	seed(t, mem, "Quarterly")

	m = drive(m, m.Init())

	assert.False(t, m.loading)
	assert.Len(t, m.list.Summaries(), 1)
	assert.Contains(t, m.View(), "Quarterly")
	assert.Contains(t, m.View(), "Created:")
}

func TestUploadFromFile(t *testing.T) {
	m, mem := newTestModel(t)
	m = drive(m, m.Init())

	path := filepath.Join(t.TempDir(), "q1.csv")
	require.NoError(t, os.WriteFile(path, []byte("Month,Revenue,Expenses,Profit\nJan,100,40,60\n"), 0o644))

	m = press(m, KeyUpload)
	assert.Equal(t, inputUploadTitle, m.input)
	m = typeText(m, "Q1")
	m = press(m, KeyEnter)
	assert.Equal(t, inputUploadPath, m.input)
	m = typeText(m, path)
	m = press(m, KeyEnter)

	s, err := mem.GetSheet(context.Background(), "Q1")
	require.NoError(t, err)
	assert.Len(t, s.Rows, 1)
	assert.Len(t, m.list.Summaries(), 1)
	require.NotNil(t, m.notice)
	assert.Equal(t, views.LevelSuccess, m.notice.Level)
}

func TestUploadWithoutTitleIsRejected(t *testing.T) {
	m, mem := newTestModel(t)
	m = drive(m, m.Init())

	path := filepath.Join(t.TempDir(), "q1.csv")
	require.NoError(t, os.WriteFile(path, []byte("Month,Revenue,Expenses,Profit\n"), 0o644))

	m = press(m, KeyUpload, KeyEnter)
	m = typeText(m, path)
	m = press(m, KeyEnter)

	list, err := mem.ListSheets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	require.NotNil(t, m.notice)
	assert.Equal(t, views.LevelError, m.notice.Level)
	assert.Equal(t, "Please provide both a file and a title", m.notice.Message)
}

func TestUploadUnreadableFile(t *testing.T) {
	m, _ := newTestModel(t)
	m = drive(m, m.Init())

	m = press(m, KeyUpload)
	m = typeText(m, "Q1")
	m = press(m, KeyEnter)
	m = typeText(m, filepath.Join(t.TempDir(), "missing.csv"))
	m = press(m, KeyEnter)

	require.NotNil(t, m.notice)
	assert.Equal(t, views.LevelError, m.notice.Level)
	assert.Contains(t, m.notice.Message, "missing.csv")
}

func TestDeleteSheetAfterConfirm(t *testing.T) {
	m, mem := newTestModel(t)
	seed(t, mem, "A")
	seed(t, mem, "B")
	m = drive(m, m.Init())

	m = press(m, KeyDown, KeyDelete)
	assert.Contains(t, m.View(), `Delete sheet "B"? (y/n)`)

	m = press(m, KeyNo)
	assert.Len(t, m.list.Summaries(), 2)

	m = press(m, KeyDelete, KeyYes)
	summaries := m.list.Summaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, "A", summaries[0].Title)
	assert.Equal(t, 0, m.listCursor)
}

// =============================================================================
// EDITOR SCREEN
// =============================================================================

func TestEditSaveAndSubmit(t *testing.T) {
	m, mem := newTestModel(t)
	seed(t, mem, "Q1", sheet.NewRow("Jan", 100, 40, 60))
	m = drive(m, m.Init())

	// Open the sheet and edit Profit.
	m = press(m, KeyEnter)
	require.Equal(t, screenEditor, m.screen)
	require.Len(t, m.editor.Rows(), 1)

	m = press(m, KeyEdit, KeyTab, KeyTab, KeyTab, KeyBackspace, KeyBackspace)
	m = typeText(m, "70")
	assert.Equal(t, "70", m.editor.FormValue(sheet.FieldProfit))
	m = press(m, KeyEnter)

	assert.Equal(t, inputNone, m.input)
	assert.True(t, m.editor.Rows()[0].Row.Equal(sheet.NewRow("Jan", 100, 40, 70)))

	// Nothing is persisted until submit.
	s, err := mem.GetSheet(context.Background(), "Q1")
	require.NoError(t, err)
	assert.True(t, s.Rows[0].Equal(sheet.NewRow("Jan", 100, 40, 60)))

	m = press(m, KeySubmit)
	s, err = mem.GetSheet(context.Background(), "Q1")
	require.NoError(t, err)
	assert.True(t, s.Rows[0].Equal(sheet.NewRow("Jan", 100, 40, 70)))
	require.NotNil(t, m.notice)
	assert.Equal(t, "Update Successful", m.notice.Title)
}

func TestInvalidSaveStaysInForm(t *testing.T) {
	m, mem := newTestModel(t)
	seed(t, mem, "Q1", sheet.NewRow("Jan", 100, 40, 60))
	m = drive(m, m.Init())

	m = press(m, KeyEnter, KeyEdit, KeyBackspace, KeyBackspace, KeyBackspace, KeyEnter)

	assert.Equal(t, inputEdit, m.input)
	require.NotNil(t, m.notice)
	assert.Contains(t, m.notice.Message, "Please Input Month!")
}

func TestCancelEditNeedsConfirmation(t *testing.T) {
	m, mem := newTestModel(t)
	seed(t, mem, "Q1", sheet.NewRow("Jan", 100, 40, 60))
	m = drive(m, m.Init())

	m = press(m, KeyEnter, KeyEdit, KeyEsc)
	assert.Contains(t, m.View(), "Sure to cancel? (y/n)")
	assert.Equal(t, inputEdit, m.input)

	m = press(m, KeyYes)
	assert.Equal(t, inputNone, m.input)
	_, editing := m.editor.Editing()
	assert.False(t, editing)
}

func TestDeleteRowLocally(t *testing.T) {
	m, mem := newTestModel(t)
	seed(t, mem, "Q1", sheet.NewRow("Jan", 100, 40, 60), sheet.NewRow("Feb", 90, 50, 40))
	m = drive(m, m.Init())

	m = press(m, KeyEnter, KeyDown, KeyRemove)
	assert.Contains(t, m.View(), "Sure to delete? (y/n)")
	m = press(m, KeyYes)

	require.Len(t, m.editor.Rows(), 1)
	assert.Equal(t, 0, m.rowCursor)

	s, err := mem.GetSheet(context.Background(), "Q1")
	require.NoError(t, err)
	assert.Len(t, s.Rows, 2, "local until submit")
}

func TestPageChangeClosesForm(t *testing.T) {
	m, mem := newTestModel(t)
	rows := make([]sheet.Row, 12)
	for i := range rows {
		rows[i] = sheet.NewRow("M", int64(i), 0, int64(i))
	}
	seed(t, mem, "Year", rows...)
	m = drive(m, m.Init())

	m = press(m, KeyEnter, KeyEdit)
	require.Equal(t, inputEdit, m.input)

	m = press(m, KeyPgDown)
	assert.Equal(t, inputNone, m.input)
	assert.Equal(t, 2, m.editor.Page())
	assert.Len(t, m.editor.PageRows(), 2)
}

func TestBackReturnsToRefreshedList(t *testing.T) {
	m, mem := newTestModel(t)
	seed(t, mem, "Q1", sheet.NewRow("Jan", 100, 40, 60))
	m = drive(m, m.Init())

	m = press(m, KeyEnter, KeyChart)
	assert.Contains(t, m.View(), "Revenue")

	m = press(m, KeyBack)
	assert.Equal(t, screenList, m.screen)
	assert.Nil(t, m.editor)
	assert.Contains(t, m.View(), "Q1")
}

func TestLateLoadForClosedEditorIgnored(t *testing.T) {
	m, mem := newTestModel(t)
	seed(t, mem, "Q1")
	m = drive(m, m.Init())

	stale := m.list.OpenEditor("Q1")
	next, _ := m.Update(editorLoadedMsg{Editor: stale})
	m = next.(Model)

	assert.Equal(t, screenList, m.screen)
}

// =============================================================================
// RENDERING
// =============================================================================

func TestSparkline(t *testing.T) {
	assert.Equal(t, "▁▅█", Sparkline([]float64{0, 5, 10}, 0, 10))
	assert.Equal(t, "▁▁", Sparkline([]float64{3, 3}, 3, 3))
	assert.Equal(t, "", Sparkline(nil, 0, 1))
}

func TestRenderChart(t *testing.T) {
	c := views.Chart{
		Months: []string{"Jan", "Feb"},
		Series: []views.Series{{Field: sheet.FieldProfit}},
	}
	out := renderChart(c)
	assert.True(t, strings.Contains(out, "Jan"))
	assert.True(t, strings.Contains(out, "Profit"))
}
