package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotblox/codewall/internal/ui"
	"github.com/dotblox/codewall/internal/wall"
)

// View implements tea.Model
func (m Model) View() string {
	sections := []string{m.renderTabs(), m.renderTree()}
	if dialog := m.renderDialog(); dialog != "" {
		sections = append(sections, dialog)
	}
	if status := m.renderStatus(); status != "" {
		sections = append(sections, status)
	}
	if m.output != "" {
		sections = append(sections, OutputStyle.Render(lastLines(m.output, outputLines)))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	root, _ := m.root()
	if m.Width == 0 || m.Height == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, BuildHeaderContent(root), content, m.renderHelp())
	}
	return RenderApplicationContainer(BuildHeaderContent(root), content, m.renderHelp(), m.Width, m.Height)
}

func (m Model) renderTabs() string {
	if len(m.tabs) == 0 {
		return StatusStyle.Render("No tabs open. Press t to add a script folder.")
	}
	names := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		name := tab.Name
		if name == "" {
			name = wall.TabName(tab.Path, m.depth)
		}
		if tab.Global {
			name += " ⊕"
		}
		if i == m.active {
			names = append(names, ActiveTabStyle.Render(name))
		} else {
			names = append(names, TabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, names...)
}

func (m Model) renderTree() string {
	if len(m.tabs) == 0 {
		return ""
	}
	if len(m.nodes) == 0 {
		return StatusStyle.Render("  (no scripts)")
	}

	end := len(m.nodes)
	if rows := m.treeRows(); rows > 0 {
		end = min(m.offset+rows, end)
	}

	var b strings.Builder
	for i := m.offset; i < end; i++ {
		node := m.nodes[i]
		marker := "  "
		if node.IsDir {
			marker = "+ "
			if node.Expanded {
				marker = "- "
			}
		}
		line := ui.RenderEntry(marker+node.Name, node.Kind, node.Depth)
		if i == m.cursor {
			line = CursorStyle.Render("→ ") + line
		} else {
			line = "  " + line
		}
		if node.Path == m.running {
			line += " " + m.spinner.View()
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderDialog() string {
	var lines []string
	switch m.mode {
	case modePrompt:
		lines = append(lines, ui.TitleStyle.Render(m.promptTitle()), m.input.View())
		if m.notice != "" {
			lines = append(lines, NoticeStyle.Render(m.notice))
		}
	case modeConfirmRemove:
		lines = append(lines,
			ui.TitleStyle.Render(ui.WarningMarker+"  Code Wall: Delete"),
			fmt.Sprintf("Are you sure you want to delete %s", filepath.Base(m.target)),
		)
	case modeConfirmClose:
		lines = append(lines,
			ui.TitleStyle.Render("Code Wall: Close Tab"),
			fmt.Sprintf("Close the tab for %s?", m.target),
		)
	default:
		return ""
	}
	return DialogStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) promptTitle() string {
	switch m.prompt {
	case promptRename:
		return "Code Wall: Rename " + filepath.Base(m.target)
	case promptNewScript:
		return "Code Wall: New Script"
	case promptAddTab:
		return "Code Wall: Add Tab"
	default:
		return "Code Wall: New Folder"
	}
}

func (m Model) renderStatus() string {
	switch {
	case m.running != "":
		return m.spinner.View() + " Running " + filepath.Base(m.running) + "..."
	case m.err != nil:
		return ErrorStyle.Render(ui.FailureMarker + " " + m.err.Error())
	case m.status != "":
		return StatusStyle.Render(m.status)
	}
	return ""
}

func (m Model) renderHelp() string {
	switch m.mode {
	case modePrompt:
		return m.help.View(promptKeys())
	case modeConfirmRemove:
		return m.help.View(removeKeys(true))
	case modeConfirmClose:
		return m.help.View(closeKeys())
	}
	return m.help.View(m.keys)
}

// treeRows is the number of tree lines that fit, or 0 when the terminal size
// is unknown.
func (m Model) treeRows() int {
	if m.Height == 0 {
		return 0
	}
	return max(m.Height-chromeRows, 3)
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
