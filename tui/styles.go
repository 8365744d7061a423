package tui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#FF5555")
	ColorGreen   = lipgloss.Color("#50FA7B")
	ColorYellow  = lipgloss.Color("#F1FA8C")
	ColorCyan    = lipgloss.Color("#8BE9FD")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
	ColorMagenta = lipgloss.Color("#FF79C6")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	EditingStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	ActiveFieldStyle = lipgloss.NewStyle().
				Foreground(ColorYellow).
				Bold(true).
				Underline(true)

	HeaderCellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)
)

// seriesStyles colors the chart lines in sheet.Fields order.
var seriesStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(ColorGreen),
	lipgloss.NewStyle().Foreground(ColorRed),
	lipgloss.NewStyle().Foreground(ColorCyan),
}
