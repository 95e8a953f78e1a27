package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/dotblox/codewall/internal/config"
	"github.com/dotblox/codewall/internal/logging"
	"github.com/dotblox/codewall/internal/runner"
	"github.com/dotblox/codewall/internal/wall"
)

// mode is what the keyboard currently drives
type mode int

const (
	modeBrowse mode = iota
	modePrompt
	modeConfirmRemove
	modeConfirmClose
)

// promptAction is what a submitted prompt does
type promptAction int

const (
	promptNewFolder promptAction = iota
	promptNewScript
	promptRename
	promptAddTab
)

// runFinishedMsg reports the end of a script run
type runFinishedMsg struct {
	path   string
	result *runner.Result
	err    error
}

// editFinishedMsg reports the end of an editor session
type editFinishedMsg struct {
	path string
	err  error
}

// openFinishedMsg reports the end of a file browser launch
type openFinishedMsg struct {
	path string
	err  error
}

// Options configures the interactive wall.
type Options struct {
	Wall     *wall.Wall
	Settings *config.Settings
	Locator  *config.Locator // Used for shared tabs, may be nil

	TabNameDepth int
	Context      context.Context
}

// Model is the interactive Code Wall.
type Model struct {
	wall     *wall.Wall
	settings *config.Settings
	locator  *config.Locator
	depth    int
	ctx      context.Context

	tabs   []config.Tab
	active int
	nodes  []wall.Node
	cursor int
	offset int

	mode   mode
	prompt promptAction
	target string // Path the open prompt or confirmation applies to
	notice string // Shown inside the open prompt

	input   textinput.Model
	spinner spinner.Model
	running string // Script being run, empty when idle
	output  string
	status  string
	err     error

	keys keyMap
	help help.Model

	editor func(path string) *exec.Cmd
	opener func(path string) *exec.Cmd

	Width  int
	Height int
}

// New creates the wall model and loads its tabs.
func New(opts Options) (Model, error) {
	if opts.Wall == nil || opts.Settings == nil {
		return Model{}, errors.New("interactive wall needs a wall and settings")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	input := textinput.New()
	input.CharLimit = 255
	input.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	m := Model{
		wall:     opts.Wall,
		settings: opts.Settings,
		locator:  opts.Locator,
		depth:    max(opts.TabNameDepth, 1),
		ctx:      ctx,
		input:    input,
		spinner:  s,
		keys:     newKeyMap(),
		help:     help.New(),
		editor:   wall.EditorCommand,
		opener:   wall.OpenCommand,
	}
	if err := m.loadTabs(); err != nil {
		return Model{}, err
	}
	m.refresh()
	return m, nil
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		m.scrollToCursor()
		return m, nil

	case spinner.TickMsg:
		if m.running == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case runFinishedMsg:
		return m.finishRun(msg), nil

	case editFinishedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("editor: %w", msg.err)
			return m, nil
		}
		m.refresh()
		m.selectPath(msg.path)
		m.status = "Edited " + filepath.Base(msg.path)
		return m, nil

	case openFinishedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("failed to open %s: %w", msg.path, msg.err)
			return m, nil
		}
		m.status = "Opened " + msg.path
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modePrompt:
			return m.updatePrompt(msg)
		case modeConfirmRemove:
			return m.updateConfirmRemove(msg), nil
		case modeConfirmClose:
			return m.updateConfirmClose(msg), nil
		default:
			return m.updateBrowse(msg)
		}
	}

	if m.mode == modePrompt {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	node, hasNode := m.selected()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Expand):
		if hasNode && node.IsDir && !node.Expanded {
			m.setExpanded(node.Rel, true)
		}
	case key.Matches(msg, m.keys.Collapse):
		switch {
		case hasNode && node.IsDir && node.Expanded:
			m.setExpanded(node.Rel, false)
		case hasNode && node.Depth > 0:
			m.selectRel(path.Dir(node.Rel))
		}
	case key.Matches(msg, m.keys.Toggle):
		if hasNode && node.IsDir {
			m.setExpanded(node.Rel, !node.Expanded)
		}

	case key.Matches(msg, m.keys.Run):
		if !hasNode {
			break
		}
		if node.IsDir {
			m.setExpanded(node.Rel, !node.Expanded)
			break
		}
		return m.startRun(node.Path)

	case key.Matches(msg, m.keys.New), key.Matches(msg, m.keys.NewScript):
		if root, ok := m.root(); ok {
			parent := root
			if hasNode {
				parent = m.wall.FolderFor(node.Path)
			}
			action := promptNewFolder
			if key.Matches(msg, m.keys.NewScript) {
				action = promptNewScript
			}
			return m.openPrompt(action, parent, "")
		}
	case key.Matches(msg, m.keys.Edit):
		if hasNode && !node.IsDir {
			return m, m.edit(node.Path)
		}
	case key.Matches(msg, m.keys.Open):
		if root, ok := m.root(); ok {
			target := root
			if hasNode {
				target = m.wall.FolderFor(node.Path)
			}
			return m, m.open(target)
		}
	case key.Matches(msg, m.keys.Rename):
		if hasNode {
			initial := node.Name
			if !node.IsDir {
				initial = strings.TrimSuffix(node.Name, filepath.Ext(node.Name))
			}
			return m.openPrompt(promptRename, node.Path, initial)
		}
	case key.Matches(msg, m.keys.Delete):
		if hasNode {
			m.mode = modeConfirmRemove
			m.target = node.Path
		}

	case key.Matches(msg, m.keys.Refresh):
		if err := m.loadTabs(); err != nil {
			m.err = err
		}
		m.refresh()
		m.status = "Refreshed"

	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(1)
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(-1)
	case key.Matches(msg, m.keys.MoveLeft):
		m.moveTab(-1)
	case key.Matches(msg, m.keys.MoveRight):
		m.moveTab(1)
	case key.Matches(msg, m.keys.AddTab):
		return m.openPrompt(promptAddTab, "", "")
	case key.Matches(msg, m.keys.CloseTab):
		if len(m.tabs) == 0 {
			break
		}
		if m.tabs[m.active].Global {
			m.status = "Shared tabs are removed with: codewall tabs remove --global"
			break
		}
		m.mode = modeConfirmClose
		m.target = m.tabs[m.active].Path

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) openPrompt(action promptAction, target, initial string) (tea.Model, tea.Cmd) {
	m.mode = modePrompt
	m.prompt = action
	m.target = target
	m.notice = ""
	m.input.Reset()
	m.input.SetValue(initial)
	m.input.CursorEnd()
	switch action {
	case promptNewFolder:
		m.input.Placeholder = "folder name"
	case promptNewScript:
		m.input.Placeholder = "script name (.py or .mel)"
	case promptRename:
		m.input.Placeholder = "new name"
	case promptAddTab:
		m.input.Placeholder = "/path/to/scripts"
	}
	return m, m.input.Focus()
}

func (m Model) closeDialog() Model {
	m.mode = modeBrowse
	m.target = ""
	m.notice = ""
	m.input.Blur()
	return m
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.closeDialog(), nil
	case tea.KeyEnter:
		return m.submitPrompt()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitPrompt applies the prompt value. Invalid values keep the prompt open
// with a notice so the user can correct them. A new script is opened in the
// editor.
func (m Model) submitPrompt() (Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())

	switch m.prompt {
	case promptNewFolder:
		created, err := m.wall.CreateFolder(m.target, value)
		if err != nil {
			m.notice = nameNotice(err, "Folder already exists!")
			return m, nil
		}
		m = m.closeDialog()
		m.reveal(created)
		m.status = "Created " + created

	case promptNewScript:
		created, err := m.wall.CreateScript(m.target, value, runner.Python)
		if err != nil {
			m.notice = nameNotice(err, "Script already exists!")
			return m, nil
		}
		m = m.closeDialog()
		m.reveal(created)
		m.status = "Created " + created
		return m, m.edit(created)

	case promptRename:
		renamed, err := m.wall.Rename(m.target, value)
		if err != nil {
			m.notice = nameNotice(err, "Path already exists!")
			return m, nil
		}
		m = m.closeDialog()
		m.refresh()
		m.selectPath(renamed)
		m.status = "Renamed to " + filepath.Base(renamed)

	case promptAddTab:
		if err := m.addTab(value); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m = m.closeDialog()
	}
	return m, nil
}

// edit suspends the wall and opens path in the editor.
func (m Model) edit(path string) tea.Cmd {
	return tea.ExecProcess(m.editor(path), func(err error) tea.Msg {
		return editFinishedMsg{path: path, err: err}
	})
}

// open shows path in the system file browser.
func (m Model) open(path string) tea.Cmd {
	cmd := m.opener(path)
	return func() tea.Msg {
		return openFinishedMsg{path: path, err: cmd.Run()}
	}
}

func (m *Model) addTab(dir string) error {
	if dir == "" {
		return errors.New("no path specified")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("not a folder: %s", abs)
	}

	tab := config.Tab{Name: wall.TabName(abs, m.depth), Path: abs}
	if err := m.settings.AddTab(tab); err != nil {
		if errors.Is(err, config.ErrTabExists) {
			return errors.New("a tab for this folder is already open")
		}
		return err
	}
	if err := m.loadTabs(); err != nil {
		return err
	}
	root := filepath.ToSlash(filepath.Clean(abs))
	m.active = max(slices.IndexFunc(m.tabs, func(t config.Tab) bool { return t.Path == root }), 0)
	m.cursor, m.offset = 0, 0
	m.refresh()
	m.status = "Opened " + abs
	return nil
}

func (m Model) updateConfirmRemove(msg tea.KeyMsg) Model {
	k := removeKeys(true)
	target := m.target
	root, _ := m.root()

	switch {
	case key.Matches(msg, k.Archive):
		m = m.closeDialog()
		archived, err := m.wall.Archive(target, root)
		if err != nil {
			m.err = err
			return m
		}
		m.status = "Archived to " + archived
	case key.Matches(msg, k.Delete):
		m = m.closeDialog()
		if err := m.wall.Delete(target); err != nil {
			m.err = err
			return m
		}
		m.status = "Deleted " + filepath.Base(target)
	case key.Matches(msg, k.Cancel):
		return m.closeDialog()
	default:
		return m
	}
	m.refresh()
	return m
}

func (m Model) updateConfirmClose(msg tea.KeyMsg) Model {
	k := closeKeys()
	switch {
	case key.Matches(msg, k.Confirm):
		root := m.target
		m = m.closeDialog()
		if err := m.settings.RemoveTab(root); err != nil {
			m.err = err
			return m
		}
		if err := m.loadTabs(); err != nil {
			m.err = err
		}
		m.active = min(m.active, max(len(m.tabs)-1, 0))
		m.cursor, m.offset = 0, 0
		m.refresh()
		m.status = "Closed " + root
	case key.Matches(msg, k.Cancel):
		return m.closeDialog()
	}
	return m
}

func (m Model) startRun(path string) (tea.Model, tea.Cmd) {
	if m.running != "" {
		m.status = "A script is already running"
		return m, nil
	}
	if _, ok := runner.DetectLanguage(path); !ok {
		m.status = filepath.Base(path) + " is not a script"
		return m, nil
	}
	m.running = path
	m.output = ""
	m.status = ""
	return m, tea.Batch(m.spinner.Tick, m.runScript(path))
}

func (m Model) runScript(path string) tea.Cmd {
	w, ctx := m.wall, m.ctx
	return func() tea.Msg {
		res, err := w.Run(ctx, path)
		return runFinishedMsg{path: path, result: res, err: err}
	}
}

func (m Model) finishRun(msg runFinishedMsg) Model {
	m.running = ""
	name := filepath.Base(msg.path)
	if msg.err != nil {
		m.err = fmt.Errorf("%s: %w", name, msg.err)
		logging.Warn("Script run failed", zap.String("path", msg.path), zap.Error(msg.err))
		return m
	}
	if msg.result == nil {
		return m
	}
	m.output = msg.result.Output
	if err := msg.result.Err(); err != nil {
		m.err = fmt.Errorf("%s: %w", name, err)
		return m
	}
	m.status = fmt.Sprintf("%s finished in %s", name, msg.result.Duration.Round(time.Millisecond))
	return m
}

// loadTabs merges the local tabs with the shared ones not already open.
func (m *Model) loadTabs() error {
	tabs, err := m.settings.Tabs()
	if err != nil {
		return err
	}
	if m.locator != nil {
		global, err := config.LoadGlobalTabs(m.locator)
		if err != nil {
			logging.Warn("Failed to load shared tabs", zap.Error(err))
		}
		for _, g := range global {
			if !slices.ContainsFunc(tabs, func(t config.Tab) bool { return t.Path == g.Path }) {
				tabs = append(tabs, g)
			}
		}
	}
	m.tabs = tabs
	if m.active >= len(m.tabs) {
		m.active = max(len(m.tabs)-1, 0)
	}
	return nil
}

func (m *Model) root() (string, bool) {
	if len(m.tabs) == 0 {
		return "", false
	}
	return filepath.FromSlash(m.tabs[m.active].Path), true
}

// refresh rebuilds the flattened tree of the active tab.
func (m *Model) refresh() {
	root, ok := m.root()
	if !ok {
		m.nodes = nil
		m.cursor, m.offset = 0, 0
		return
	}

	items, err := m.settings.Expanded(root)
	if err != nil {
		m.err = err
	}
	nodes, err := m.wall.Tree(root, func(rel string) bool {
		return slices.Contains(items, rel)
	})
	if err != nil {
		m.err = err
	}
	m.nodes = nodes
	m.cursor = min(m.cursor, max(len(m.nodes)-1, 0))
	m.scrollToCursor()
}

func (m *Model) setExpanded(rel string, expanded bool) {
	root, ok := m.root()
	if !ok {
		return
	}
	if err := m.settings.SetExpanded(root, rel, expanded); err != nil {
		m.err = err
		return
	}
	m.refresh()
}

// reveal expands the folder holding p and selects it.
func (m *Model) reveal(p string) {
	if root, ok := m.root(); ok {
		if rel, err := filepath.Rel(root, filepath.Dir(p)); err == nil && rel != "." {
			m.setExpanded(filepath.ToSlash(rel), true)
		}
	}
	m.refresh()
	m.selectPath(p)
}

func (m *Model) selected() (wall.Node, bool) {
	if m.cursor < 0 || m.cursor >= len(m.nodes) {
		return wall.Node{}, false
	}
	return m.nodes[m.cursor], true
}

func (m *Model) selectRel(rel string) {
	if i := slices.IndexFunc(m.nodes, func(n wall.Node) bool { return n.Rel == rel }); i >= 0 {
		m.cursor = i
		m.scrollToCursor()
	}
}

func (m *Model) selectPath(p string) {
	if i := slices.IndexFunc(m.nodes, func(n wall.Node) bool { return n.Path == p }); i >= 0 {
		m.cursor = i
		m.scrollToCursor()
	}
}

func (m *Model) moveCursor(delta int) {
	if len(m.nodes) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.nodes)-1)
	m.scrollToCursor()
}

func (m *Model) switchTab(delta int) {
	if len(m.tabs) < 2 {
		return
	}
	m.active = (m.active + delta + len(m.tabs)) % len(m.tabs)
	m.cursor, m.offset = 0, 0
	m.refresh()
}

// moveTab moves the active local tab. Shared tabs keep their place after the
// local ones.
func (m *Model) moveTab(delta int) {
	if len(m.tabs) == 0 || m.tabs[m.active].Global {
		return
	}
	local := 0
	for _, t := range m.tabs {
		if !t.Global {
			local++
		}
	}
	to := m.active + delta
	if to < 0 || to >= local {
		return
	}
	if err := m.settings.MoveTab(m.active, to); err != nil {
		m.err = err
		return
	}
	if err := m.loadTabs(); err != nil {
		m.err = err
		return
	}
	m.active = to
}

func (m *Model) scrollToCursor() {
	rows := m.treeRows()
	if rows <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// nameNotice maps a naming error to the message shown in the prompt.
func nameNotice(err error, exists string) string {
	switch {
	case errors.Is(err, wall.ErrEmptyName):
		return "No name specified."
	case errors.Is(err, wall.ErrExists):
		return exists
	case errors.Is(err, wall.ErrInvalidName):
		return "Names cannot contain path separators."
	default:
		return err.Error()
	}
}
