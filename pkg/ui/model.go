// Package ui is the interactive terminal front end: a bubbletea program that
// renders the store's tree and forwards keys to its mutation entry points.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treepick/pkg/metrics"
	"github.com/vanderheijden86/treepick/pkg/model"
	"github.com/vanderheijden86/treepick/pkg/store"
)

// Options configures the picker.
type Options struct {
	ShowIDs bool
	Indent  int
	// Renderer defaults to lipgloss.DefaultRenderer().
	Renderer *lipgloss.Renderer
	// CopyText defaults to the system clipboard.
	CopyText func(string) error
}

// storeChangedMsg is sent when the store notifies observers from outside the
// update loop (a load finishing, a file reload).
type storeChangedMsg struct{}

// loadDoneMsg is returned by loadCmd once the load it started has resolved.
type loadDoneMsg struct{}

// chromeHeight is the header, status and footer lines around the tree.
const chromeHeight = 3

// Model is the picker's bubbletea model.
type Model struct {
	ctx   context.Context
	store *store.Store
	opts  Options

	theme    Theme
	keys     keyMap
	help     help.Model
	viewport viewport.Model
	spinner  spinner.Model

	roots    []*model.Node
	rows     []row
	cursor   int
	cursorID string

	width  int
	height int

	statusMsg     string
	statusIsError bool
}

// NewModel returns a picker over s. The first load starts in Init.
func NewModel(ctx context.Context, s *store.Store, opts Options) Model {
	if opts.Indent < 1 {
		opts.Indent = 2
	}
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.DefaultRenderer()
	}
	if opts.CopyText == nil {
		opts.CopyText = clipboard.WriteAll
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		ctx:      ctx,
		store:    s,
		opts:     opts,
		theme:    DefaultTheme(opts.Renderer),
		keys:     newKeyMap(),
		help:     help.New(),
		viewport: viewport.New(80, 20),
		spinner:  sp,
		width:    80,
		height:   20 + chromeHeight,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m Model) loadCmd() tea.Cmd {
	done := m.store.LoadData(m.ctx)
	return func() tea.Msg {
		<-done
		return loadDoneMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case storeChangedMsg:
		m.refresh()
		return m, nil

	case loadDoneMsg:
		m.refresh()
		if m.store.HasError() {
			m.setStatus("Load failed: "+m.store.Error(), true)
		} else if !m.store.IsLoading() {
			folders, items := m.store.Counts()
			m.setStatus(fmt.Sprintf("Loaded %d folders, %d items", folders, items), false)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.store.IsLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveTo(m.cursor - 1)
	case key.Matches(msg, m.keys.Down):
		m.moveTo(m.cursor + 1)
	case key.Matches(msg, m.keys.Top):
		m.moveTo(0)
	case key.Matches(msg, m.keys.Bottom):
		m.moveTo(len(m.rows) - 1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveTo(m.cursor - m.viewport.Height)
	case key.Matches(msg, m.keys.PageDown):
		m.moveTo(m.cursor + m.viewport.Height)

	case key.Matches(msg, m.keys.Select):
		if n := m.SelectedNode(); n != nil {
			m.store.ToggleSelection(n)
			m.statusMsg = ""
			m.refresh()
		}
	case key.Matches(msg, m.keys.Collapse):
		if n := m.SelectedNode(); n.IsFolder() {
			m.store.ToggleCollapsed(n)
			m.refresh()
		}
	case key.Matches(msg, m.keys.Clear):
		m.store.ClearSelection()
		m.setStatus("Selection cleared", false)
		m.refresh()

	case key.Matches(msg, m.keys.Reload):
		m.setStatus("Reloading…", false)
		return m, tea.Batch(m.spinner.Tick, m.loadCmd())

	case key.Matches(msg, m.keys.Copy):
		m.copySelection()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize(m.width, m.height)
	}
	return m, nil
}

func (m *Model) copySelection() {
	ids := m.store.SelectedIDs()
	if len(ids) == 0 {
		m.setStatus("Nothing selected", false)
		return
	}
	if err := m.opts.CopyText(strings.Join(ids, ",")); err != nil {
		m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Copied %d ids to clipboard", len(ids)), false)
}

func (m *Model) setStatus(msg string, isError bool) {
	m.statusMsg = msg
	m.statusIsError = isError
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	chrome := chromeHeight
	if m.help.ShowAll {
		chrome += len(m.keys.FullHelp()[0]) - 1
	}
	body := height - chrome
	if body < 1 {
		body = 1
	}
	m.viewport.Width = width
	m.viewport.Height = body
	m.syncViewport()
}

// refresh re-derives the tree from the store and keeps the cursor on the
// same node when it is still visible.
func (m *Model) refresh() {
	m.roots = m.store.TreeData()
	m.rows = flatten(m.roots)

	m.cursor = clamp(m.cursor, 0, len(m.rows)-1)
	if m.cursorID != "" {
		for i, r := range m.rows {
			if r.node.ID == m.cursorID {
				m.cursor = i
				break
			}
		}
	}
	if n := m.SelectedNode(); n != nil {
		m.cursorID = n.ID
	}
	m.syncViewport()
}

func (m *Model) moveTo(i int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = clamp(i, 0, len(m.rows)-1)
	m.cursorID = m.rows[m.cursor].node.ID
	m.syncViewport()
}

func (m *Model) syncViewport() {
	lines := make([]string, len(m.rows))
	ro := rowOptions{width: m.width - 1, indent: m.opts.Indent, showIDs: m.opts.ShowIDs}
	for i, r := range m.rows {
		line := renderRow(m.theme, r, ro)
		if i == m.cursor {
			line = m.theme.Selected.Render(line)
		}
		lines[i] = line
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))

	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

// SelectedNode returns the node under the cursor, or nil.
func (m Model) SelectedNode() *model.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}

// StatusMessage returns the transient status line text.
func (m Model) StatusMessage() string {
	return m.statusMsg
}

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n")
	if len(m.rows) == 0 {
		sb.WriteString(m.renderEmptyState())
	} else {
		sb.WriteString(m.viewport.View())
	}
	sb.WriteString("\n")
	sb.WriteString(m.renderStatus())
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) renderHeader() string {
	folders, items := m.store.Counts()
	selected := len(m.store.SelectedIDs())
	summary := fmt.Sprintf("%d folders · %d items · %d selected", folders, items, selected)
	return m.theme.Header.Render("treepick") + " " + m.theme.MutedText.Render(summary)
}

func (m Model) renderStatus() string {
	switch {
	case m.store.IsLoading():
		return m.spinner.View() + " " + m.theme.MutedText.Render("Loading…")
	case m.statusIsError:
		return m.theme.StatusError.Render(m.statusMsg)
	case m.store.HasError():
		return m.theme.StatusError.Render("Load failed: " + m.store.Error())
	case m.statusMsg != "":
		return m.theme.StatusOK.Render(m.statusMsg)
	default:
		return ""
	}
}

func (m Model) renderEmptyState() string {
	if m.store.IsLoading() {
		return m.theme.MutedText.Render("Loading folders and items…")
	}
	return m.theme.MutedText.Render("No folders or items to display. Press r to reload.")
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
