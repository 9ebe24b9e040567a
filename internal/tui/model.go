// Package tui is the terminal client: a Bubble Tea program driving one
// search orchestrator and rendering its state stream.
package tui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shelfscout/shelfscout/internal/domain"
	"github.com/shelfscout/shelfscout/internal/search"
)

const (
	queryCharLimit = 200
	defaultWidth   = 80
	defaultHeight  = 24
)

// Controller is the part of the orchestrator the client drives.
type Controller interface {
	SetQueryText(text string)
	SetScope(scope domain.Scope)
	Retry()
	Clear()
}

// stateMsg carries a snapshot from the orchestrator's state stream.
type stateMsg struct {
	state search.State
}

// streamClosedMsg signals that the state stream ended.
type streamClosedMsg struct{}

// waitForState blocks on the next snapshot.
func waitForState(states <-chan search.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-states
		if !ok {
			return streamClosedMsg{}
		}
		return stateMsg{state: st}
	}
}

// Model is the terminal client's UI state.
type Model struct {
	ctrl   Controller
	states <-chan search.State
	logger *slog.Logger

	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	styles  *Styles

	state    search.State
	scope    domain.Scope
	selected int
	offset   int
	width    int
	height   int
}

// New creates a model that sends input to ctrl and renders states.
func New(ctrl Controller, states <-chan search.State, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ti := textinput.New()
	ti.Placeholder = "Search by title or author"
	ti.Prompt = "› "
	ti.CharLimit = queryCharLimit
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	styles := NewStyles()
	sp.Style = styles.Loading

	return &Model{
		ctrl:    ctrl,
		states:  states,
		logger:  logger,
		input:   ti,
		spinner: sp,
		help:    help.New(),
		keys:    defaultKeyMap(),
		styles:  styles,
		state:   search.Idle{},
		scope:   domain.ScopeAll,
		width:   defaultWidth,
		height:  defaultHeight,
	}
}

// Init starts listening for states.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForState(m.states))
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		m.clampSelection()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		return m, m.applyState(msg.state)

	case streamClosedMsg:
		m.logger.Info("state stream closed, exiting")
		return m, tea.Quit

	case spinner.TickMsg:
		if _, loading := m.state.(search.Loading); !loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Scope):
		m.scope = m.scope.Next()
		m.logger.Debug("scope changed", "scope", m.scope.String())
		m.ctrl.SetScope(m.scope)
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		m.ctrl.Retry()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.input.Reset()
		m.ctrl.Clear()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.ctrl.SetQueryText(after)
	}
	return m, cmd
}

// applyState stores a snapshot and returns the follow-up commands.
func (m *Model) applyState(st search.State) tea.Cmd {
	_, wasLoading := m.state.(search.Loading)
	m.state = st
	m.logger.Debug("state received", "state", search.Describe(st))

	cmds := []tea.Cmd{waitForState(m.states)}
	switch st.(type) {
	case search.Loading:
		if !wasLoading {
			cmds = append(cmds, m.spinner.Tick)
		}
	case search.Success:
		m.selected = 0
		m.offset = 0
	}
	return tea.Batch(cmds...)
}

func (m *Model) moveSelection(delta int) {
	s, ok := m.state.(search.Success)
	if !ok || len(s.Books) == 0 {
		return
	}
	m.selected = min(max(m.selected+delta, 0), len(s.Books)-1)
	m.clampSelection()
}

// clampSelection keeps the selected row inside the visible window.
func (m *Model) clampSelection() {
	rows := m.listRows()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}
}

// listRows is how many result rows fit next to the chrome and detail pane.
func (m *Model) listRows() int {
	return max((m.height-10)/2, 3)
}

// Selected returns the highlighted book, if results are shown.
func (m *Model) Selected() (domain.Book, bool) {
	s, ok := m.state.(search.Success)
	if !ok || m.selected >= len(s.Books) {
		return domain.Book{}, false
	}
	return s.Books[m.selected], true
}

// Run drives orch from the terminal until the user quits or ctx ends.
func Run(ctx context.Context, orch *search.Orchestrator, logger *slog.Logger, opts ...tea.ProgramOption) error {
	sub := orch.Subscribe(ctx)
	defer sub.Close()

	model := New(orch, sub.C(), logger)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(model, opts...)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
