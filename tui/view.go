package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/warp/sheet-editor/sheet"
	"github.com/warp/sheet-editor/views"
)

const cellWidth = 14

// sparkBlocks are the sparkline levels, lowest first.
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// View renders the current screen.
func (m Model) View() string {
	var sections []string

	if m.screen == screenEditor && m.editor != nil {
		sections = append(sections, m.renderEditorHeader())
		sections = append(sections, m.divider())
		sections = append(sections, m.renderRows())
		if m.showChart {
			sections = append(sections, m.divider())
			sections = append(sections, renderChart(m.editor.Chart()))
		}
	} else {
		sections = append(sections, TitleStyle.Render("SHEETS"))
		sections = append(sections, m.divider())
		sections = append(sections, m.renderList())
	}

	if prompt := m.renderPrompt(); prompt != "" {
		sections = append(sections, prompt)
	}
	sections = append(sections, m.divider())
	if m.notice != nil {
		sections = append(sections, renderNotice(*m.notice))
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) divider() string {
	return DividerStyle.Render(strings.Repeat("─", max(m.width, 20)))
}

// =============================================================================
// LIST SCREEN
// =============================================================================

func (m Model) renderList() string {
	summaries := m.list.Summaries()
	if len(summaries) == 0 {
		if m.loading {
			return DimStyle.Render("  Loading...")
		}
		return DimStyle.Render("  No sheets yet. Press u to upload a CSV.")
	}

	var lines []string
	for i, s := range summaries {
		marker := "  "
		title := s.Title
		if i == m.listCursor {
			marker = SelectedStyle.Render("> ")
			title = SelectedStyle.Render(title)
		}
		lines = append(lines, marker+title)
		lines = append(lines, DimStyle.Render(fmt.Sprintf("    Created: %s", views.FormatTimestamp(s.CreatedAt))))
		lines = append(lines, DimStyle.Render(fmt.Sprintf("    Last Update: %s", views.FormatTimestamp(s.UpdatedAt))))
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// EDITOR SCREEN
// =============================================================================

func (m Model) renderEditorHeader() string {
	ed := m.editor
	page := DimStyle.Render(fmt.Sprintf("  page %d/%d · %d rows", ed.Page(), ed.PageCount(), len(ed.Rows())))
	return TitleStyle.Render(ed.Title()) + page
}

func (m Model) renderRows() string {
	ed := m.editor
	rows := ed.PageRows()

	header := "  "
	for _, f := range sheet.Fields {
		header += HeaderCellStyle.Width(cellWidth).Render(string(f))
	}
	lines := []string{header}

	if len(rows) == 0 {
		if m.loading {
			lines = append(lines, DimStyle.Render("  Loading..."))
		} else {
			lines = append(lines, DimStyle.Render("  No rows."))
		}
		return strings.Join(lines, "\n")
	}

	editingID, editing := ed.Editing()
	for i, r := range rows {
		marker := "  "
		if i == m.rowCursor {
			marker = SelectedStyle.Render("> ")
		}

		var cells string
		if editing && r.ID == editingID {
			for fi, f := range sheet.Fields {
				style := EditingStyle
				text := ed.FormValue(f)
				if fi == m.field {
					style = ActiveFieldStyle
					text += "▏"
				}
				cells += style.Width(cellWidth).Render(text)
			}
		} else {
			style := lipgloss.NewStyle()
			if editing || !ed.CanEdit(r.ID) {
				style = DimStyle
			}
			for _, f := range sheet.Fields {
				cells += style.Width(cellWidth).Render(r.Row.Text(f))
			}
		}
		lines = append(lines, marker+cells)
	}
	return strings.Join(lines, "\n")
}

func renderChart(c views.Chart) string {
	if len(c.Months) == 0 {
		return DimStyle.Render("  Nothing to chart.")
	}
	lo, hi := c.Bounds()
	lines := []string{DimStyle.Render(fmt.Sprintf("  %s .. %s   (%s → %s)", lo, hi, c.Months[0], c.Months[len(c.Months)-1]))}
	for i, s := range c.Series {
		label := lipgloss.NewStyle().Width(10).Render(string(s.Field))
		line := Sparkline(s.Floats(), lo.InexactFloat64(), hi.InexactFloat64())
		lines = append(lines, "  "+label+seriesStyles[i%len(seriesStyles)].Render(line))
	}
	return strings.Join(lines, "\n")
}

// Sparkline maps values onto block characters between lo and hi. A flat
// range renders at the lowest level.
func Sparkline(values []float64, lo, hi float64) string {
	var b strings.Builder
	top := len(sparkBlocks) - 1
	for _, v := range values {
		i := 0
		if hi > lo {
			i = int((v-lo)/(hi-lo)*float64(top) + 0.5)
			i = max(0, min(i, top))
		}
		b.WriteRune(sparkBlocks[i])
	}
	return b.String()
}

// =============================================================================
// PROMPTS, NOTICES, FOOTER
// =============================================================================

func (m Model) renderPrompt() string {
	switch {
	case m.confirmDelete != "":
		return PromptStyle.Render(fmt.Sprintf("Delete sheet %q? (y/n)", m.confirmDelete))
	case m.input == inputUploadTitle:
		return PromptStyle.Render("Title: ") + m.buffer + "▏"
	case m.input == inputUploadPath:
		return PromptStyle.Render("CSV file: ") + m.buffer + "▏"
	}

	if m.screen == screenEditor && m.editor != nil {
		if p, ok := m.editor.Pending(); ok {
			switch p.Kind {
			case views.ConfirmCancelEdit:
				return PromptStyle.Render("Sure to cancel? (y/n)")
			case views.ConfirmDeleteRow:
				return PromptStyle.Render("Sure to delete? (y/n)")
			}
		}
	}
	return ""
}

func renderNotice(n views.Notice) string {
	if n.Level == views.LevelError {
		return ErrorStyle.Render(n.Title+": ") + ErrorTextStyle.Render(n.Message)
	}
	return SuccessStyle.Render(n.Title+": ") + n.Message
}

func (m Model) renderFooter() string {
	type binding struct{ key, desc string }
	var keys []binding

	switch {
	case m.screen == screenList:
		keys = []binding{{"enter", "Open"}, {"u", "Upload"}, {"d", "Delete"}, {"r", "Refresh"}, {"q", "Quit"}}
	case m.input == inputEdit:
		keys = []binding{{"tab", "Field"}, {"enter", "Save"}, {"esc", "Cancel"}, {"pgup/pgdn", "Page"}}
	default:
		keys = []binding{{"e", "Edit"}, {"x", "Delete"}, {"s", "Submit"}, {"c", "Chart"}, {"←→", "Page"}, {"b", "Back"}}
	}

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = FooterKeyStyle.Render(k.key) + FooterDescStyle.Render(" "+k.desc)
	}
	return strings.Join(parts, "  ")
}
