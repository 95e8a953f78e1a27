package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotblox/codewall/internal/wall"
)

// LineDialogs asks questions on a line-oriented terminal. It implements
// wall.Prompter and wall.Confirmer for the non-interactive commands.
type LineDialogs struct {
	in    *bufio.Reader
	out   io.Writer
	width int
}

// NewLineDialogs reads answers from in and writes questions to out. Nil
// arguments default to stdin and stdout.
func NewLineDialogs(in io.Reader, out io.Writer) *LineDialogs {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &LineDialogs{
		in:    bufio.NewReader(in),
		out:   out,
		width: GetTerminalWidth(),
	}
}

// Prompt shows title and label and reads one line. An empty line returns the
// initial text; end of input cancels.
func (d *LineDialogs) Prompt(title, label, initial string) (string, bool) {
	_, _ = fmt.Fprintln(d.out, TitleStyle.Render(title))
	question := label + " "
	if initial != "" {
		question += MutedStyle.Render("["+initial+"]") + " "
	}
	_, _ = fmt.Fprint(d.out, PromptStyle.Render(question))

	line, ok := d.readLine()
	if !ok {
		return "", false
	}
	if line == "" {
		line = initial
	}
	return line, true
}

// Notify prints an informational message under its title.
func (d *LineDialogs) Notify(title, message string) {
	_, _ = fmt.Fprintln(d.out, ErrorTitleStyle.Render(WarningMarker+"  "+title))
	_, _ = fmt.Fprintln(d.out, ErrorMessageStyle.Render("   "+message))
}

// ConfirmRemove shows a warning box and reads the choice. Archiving is only
// accepted when allowArchive is set.
func (d *LineDialogs) ConfirmRemove(title, message string, allowArchive bool) wall.Choice {
	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(WarningColor).Bold(true).Render(WarningMarker+"  "+title),
		"",
		message,
	)
	_, _ = fmt.Fprintln(d.out, WarningBoxStyle(d.width).Render(content))

	options := "[d]elete / [c]ancel: "
	if allowArchive {
		options = "[a]rchive / [d]elete / [c]ancel: "
	}
	_, _ = fmt.Fprint(d.out, PromptStyle.Render(options))

	line, ok := d.readLine()
	if !ok {
		return wall.ChoiceCancel
	}
	switch strings.ToLower(line) {
	case "a", "archive":
		if allowArchive {
			return wall.ChoiceArchive
		}
	case "d", "delete":
		return wall.ChoiceDelete
	}
	_, _ = fmt.Fprintln(d.out, MutedStyle.Render("  Operation cancelled."))
	return wall.ChoiceCancel
}

func (d *LineDialogs) readLine() (string, bool) {
	line, err := d.in.ReadString('\n')
	if err != nil && line == "" {
		_, _ = fmt.Fprintln(d.out)
		return "", false
	}
	return strings.TrimSpace(line), true
}
