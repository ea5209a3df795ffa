package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/sweepduel/internal/core"
	"github.com/vovakirdan/sweepduel/internal/duel"
	"github.com/vovakirdan/sweepduel/internal/minefield"
)

// Match is the command surface of a running duel.
// *duel.Controller implements it.
type Match interface {
	StartNewGame() error
	ResumeGame() error
	PauseGame() error
	CellClick(p core.PlayerID, row, col int) error
	CellLongPress(p core.PlayerID, row, col int) error
	SaveGame() error
	LoadGame() error
	DeleteSavedGame() error
	State() duel.State
}

// stateMsg carries a state published by the controller.
type stateMsg duel.State

// closedMsg reports that the controller stopped publishing.
type closedMsg struct{}

// errMsg carries a command error worth showing.
type errMsg struct{ err error }

// waitForState blocks until the next published state.
func waitForState(updates <-chan duel.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return closedMsg{}
		}
		return stateMsg(s)
	}
}

// DuelModel is the Bubble Tea model for the split-screen duel.
// It owns only presentation state: cursors, help and terminal size.
// Match state comes from the controller.
type DuelModel struct {
	match   Match
	updates <-chan duel.State
	state   duel.State
	cursors [2]minefield.Coord
	keys    DuelKeyMap
	help    help.Model
	width   int
	height  int

	notice   string
	noticeID int
	lastErr  string
	quitting bool
}

// NewDuelModel creates a model driving match and rendering updates.
// The screen size in rc is used until the first resize arrives.
func NewDuelModel(match Match, updates <-chan duel.State, rc core.RuntimeConfig) DuelModel {
	h := help.New()
	h.ShowAll = false

	return DuelModel{
		match:   match,
		updates: updates,
		state:   match.State(),
		keys:    DefaultDuelKeyMap(),
		help:    h,
		width:   rc.ScreenW,
		height:  rc.ScreenH,
	}
}

// Init starts listening for state updates.
func (m DuelModel) Init() tea.Cmd {
	return waitForState(m.updates)
}

// Update handles messages.
func (m DuelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case stateMsg:
		return m.handleState(duel.State(msg))

	case closedMsg:
		m.quitting = true
		return m, tea.Quit

	case errMsg:
		m.lastErr = msg.err.Error()
		return m, nil

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil
	}

	return m, nil
}

func (m DuelModel) handleState(s duel.State) (tea.Model, tea.Cmd) {
	prev := m.state
	m.state = s

	cmds := []tea.Cmd{waitForState(m.updates)}
	if s.Notice != duel.NoticeNone && (s.Notice != prev.Notice || s.HasSavedMatch != prev.HasSavedMatch) {
		m.noticeID++
		m.notice = s.Notice.String()
		cmds = append(cmds, expireNotice(m.noticeID))
	}
	if s.MatchID != prev.MatchID {
		m.cursors = [2]minefield.Coord{}
		m.lastErr = ""
	}
	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input.
func (m DuelModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.New):
		return m, m.run(m.match.StartNewGame)
	case key.Matches(msg, m.keys.Pause):
		return m, m.run(m.match.PauseGame)
	case key.Matches(msg, m.keys.Resume):
		return m, m.run(m.match.ResumeGame)
	case key.Matches(msg, m.keys.Save):
		return m, m.run(m.match.SaveGame)
	case key.Matches(msg, m.keys.Load):
		return m, m.run(m.match.LoadGame)
	case key.Matches(msg, m.keys.Delete):
		return m, m.run(m.match.DeleteSavedGame)
	}

	for i, p := range core.Players {
		keys := m.keys.P1
		if p == core.Player2 {
			keys = m.keys.P2
		}

		if dRow, dCol, ok := keys.move(msg); ok {
			m.moveCursor(i, dRow, dCol)
			return m, nil
		}

		at := m.cursors[i]
		switch {
		case key.Matches(msg, keys.Reveal):
			return m, m.run(func() error { return m.match.CellClick(p, at.Row, at.Col) })
		case key.Matches(msg, keys.Flag):
			return m, m.run(func() error { return m.match.CellLongPress(p, at.Row, at.Col) })
		}
	}

	return m, nil
}

// moveCursor moves a player's cursor, clamped to the board.
func (m *DuelModel) moveCursor(i, dRow, dCol int) {
	b := m.state.Players[i].Board
	if b == nil {
		return
	}
	c := m.cursors[i]
	c.Row = core.Clamp(c.Row+dRow, 0, b.Rows()-1)
	c.Col = core.Clamp(c.Col+dCol, 0, b.Cols()-1)
	m.cursors[i] = c
}

// run executes a match command off the UI goroutine. Persistence errors
// are already reported through the state's Notice, so only unexpected
// errors are surfaced.
func (m DuelModel) run(fn func() error) tea.Cmd {
	return func() tea.Msg {
		err := fn()
		if err == nil || isSignalled(err) {
			return nil
		}
		return errMsg{err: err}
	}
}

// Cursor returns the cursor position of a player.
func (m DuelModel) Cursor(p core.PlayerID) minefield.Coord {
	if !p.Valid() {
		return minefield.Coord{}
	}
	return m.cursors[p.Index()]
}

// View renders the duel.
func (m DuelModel) View() string {
	if m.quitting {
		return ""
	}
	return renderDuel(m)
}

// Run starts the duel on the local terminal. The controller must not be
// running yet; Run drives it for the lifetime of the program.
func Run(ctx context.Context, ctl *duel.Controller, rc core.RuntimeConfig) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sub := ctl.Subscribe(16)
	defer sub.Close()
	go ctl.Run(ctx)

	p := tea.NewProgram(
		NewDuelModel(ctl, sub.C(), rc),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	cancel()
	<-ctl.Done()
	return err
}
