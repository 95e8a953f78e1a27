package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dotblox/codewall/internal/ui"
	"github.com/dotblox/codewall/internal/version"
)

// AppName is shown in the header of every screen
const AppName = "CODE WALL"

// chromeRows is the number of terminal rows taken by everything but the tree
const chromeRows = 14

// outputLines caps the script output shown under the tree
const outputLines = 8

var (
	BorderColor = ui.PrimaryColor
	SubtleColor = ui.MutedColor

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ui.PrimaryColor)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(ui.TextColor).
			Background(ui.PrimaryColor).
			Bold(true).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(0, 1)

	CursorStyle = lipgloss.NewStyle().
			Foreground(ui.SuccessColor).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ui.ErrorColor).
			Bold(true)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ui.WarningColor)

	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.WarningColor).
			Padding(0, 1)

	OutputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 1)
)

// BuildHeaderContent creates header content with the app name and the root
// of the active tab.
func BuildHeaderContent(root string) string {
	left := lipgloss.NewStyle().
		Foreground(ui.TextColor).
		Bold(true).
		Render(AppName + " " + version.Version)

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(root)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// RenderApplicationContainer wraps a screen with the header, the footer and
// an outer border filling the terminal.
func RenderApplicationContainer(header, content, footer string, width, height int) string {
	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(width-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(width-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(width - 4)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(header),
		contentStyle.Render(content),
		footerStyle.Render(lipgloss.NewStyle().Foreground(SubtleColor).Render(footer)),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(width - 2).
		Height(height - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, bordered)
}
