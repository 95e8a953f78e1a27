package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dotblox/codewall/internal/runner"
	"github.com/dotblox/codewall/internal/wall"
)

// Detail is one key/value line of a result box.
type Detail struct {
	Key   string
	Value string
}

// Printer writes styled command output.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the width used for boxes
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the detected terminal width.
func (p *Printer) SetWidth(width int) {
	p.width = max(width, MinTerminalWidth)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Detail) {
	p.Println(RenderSuccessBox(title, details, p.width))
}

// PrintError prints an error result box
func (p *Printer) PrintError(title string, err error) {
	p.Println(RenderErrorBox(title, err, p.width))
}

// PrintEntries prints a folder listing, one entry per line.
func (p *Printer) PrintEntries(entries []wall.Entry) {
	for _, e := range entries {
		p.Println(RenderEntry(e.Name, e.Kind, 0))
	}
}

// PrintResult prints the outcome of a script run with its output.
func (p *Printer) PrintResult(path string, res *runner.Result) {
	details := []Detail{
		{"Script", path},
		{"Language", string(res.Language)},
		{"Exit code", fmt.Sprint(res.ExitCode)},
		{"Duration", res.Duration.Round(time.Millisecond).String()},
	}
	if res.ExitCode == 0 {
		p.PrintSuccess("Script finished", details...)
	} else {
		p.Println(RenderErrorBox("Script failed", res.Err(), p.width))
		p.Println(RenderDetails(details))
	}
	if out := strings.TrimRight(res.Output, "\n"); out != "" {
		p.Println(OutputBoxStyle(p.width).Render(out))
	}
}

// RenderEntry renders a single tree line for name, indented by depth.
func RenderEntry(name string, kind wall.Kind, depth int) string {
	indent := strings.Repeat("  ", depth)
	return indent + MutedStyle.Render(fmt.Sprintf("%-2s", KindIcon(kind))) + " " + KindStyle(kind).Render(name)
}

// RenderDetails renders key/value lines in order.
func RenderDetails(details []Detail) string {
	lines := make([]string, 0, len(details))
	for _, d := range details {
		lines = append(lines, ResultKeyStyle.Render(d.Key+":")+" "+ResultValueStyle.Render(d.Value))
	}
	return strings.Join(lines, "\n")
}

// RenderSuccessBox renders a success result box
func RenderSuccessBox(title string, details []Detail, width int) string {
	lines := []string{SuccessTitleStyle.Render(SuccessMarker + "  " + title)}
	if len(details) > 0 {
		lines = append(lines, "", RenderDetails(details))
	}
	return SuccessBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderErrorBox renders an error result box
func RenderErrorBox(title string, err error, width int) string {
	lines := []string{ErrorTitleStyle.Render(FailureMarker + "  " + title)}
	if err != nil {
		lines = append(lines, "", ErrorMessageStyle.Render("Error: "+err.Error()))
	}
	return ErrorBoxStyle(width).Render(strings.Join(lines, "\n"))
}
