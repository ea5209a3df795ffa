package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/sweepduel/internal/core"
	"github.com/vovakirdan/sweepduel/internal/duel"
	"github.com/vovakirdan/sweepduel/internal/storage"
)

// maxResults caps how many past matches the history screen loads.
const maxResults = 100

// HistorySource provides finished matches. *storage.Store implements it.
type HistorySource interface {
	RecentResults(limit int) ([]storage.MatchRecord, error)
	Tally() (storage.Tally, error)
}

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Reload key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Reload, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Reload, k.Quit}}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for the match history screen.
type HistoryModel struct {
	source   HistorySource
	results  []storage.MatchRecord
	tally    storage.Tally
	loadErr  error
	table    table.Model
	help     help.Model
	keys     HistoryKeyMap
	width    int
	height   int
	quitting bool
}

// NewHistoryModel creates a history model and loads the first page.
func NewHistoryModel(source HistorySource, width, height int) HistoryModel {
	m := HistoryModel{
		source: source,
		help:   help.New(),
		keys:   DefaultHistoryKeyMap(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.reload()
	return m
}

func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Ended", Width: 13},
		{Title: "Winner", Width: 9},
		{Title: "How", Width: 8},
		{Title: "P1 safe/bad/time", Width: 17},
		{Title: "P2 safe/bad/time", Width: 17},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// reload fetches results and the tally from the source.
func (m *HistoryModel) reload() {
	m.results, m.loadErr = nil, nil
	if m.source != nil {
		m.results, m.loadErr = m.source.RecentResults(maxResults)
		if m.loadErr == nil {
			m.tally, m.loadErr = m.source.Tally()
		}
	}
	m.table.SetRows(historyRows(m.results))
	m.table.GotoTop()
}

func historyRows(results []storage.MatchRecord) []table.Row {
	rows := make([]table.Row, len(results))
	for i, r := range results {
		winner := "draw"
		if r.Winner != core.PlayerNone {
			winner = r.Winner.String()
		}
		rows[i] = table.Row{
			r.EndedAt.Local().Format("Jan 02 15:04"),
			winner,
			reasonLabel(r.Reason),
			playerCell(r.Players[0]),
			playerCell(r.Players[1]),
		}
	}
	return rows
}

func reasonLabel(r duel.EndReason) string {
	if r == duel.EndNone {
		return "-"
	}
	return r.String()
}

func playerCell(p storage.PlayerRecord) string {
	t := "-"
	if p.TimeTaken != nil {
		t = fmt.Sprintf("%ds", *p.TimeTaken)
	}
	return fmt.Sprintf("%d/%d/%s", p.RevealedSafe, p.IncorrectFlags, t)
}

// tallyLine summarises all recorded matches.
func tallyLine(t storage.Tally) string {
	return fmt.Sprintf("%d matches  P1 %d  P2 %d  draws %d  mines %d  timeouts %d",
		t.Matches, t.Player1Wins, t.Player2Wins, t.Draws, t.MineLosses, t.Timeouts)
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.table.SetRows(historyRows(m.results))
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(centerText("MATCH HISTORY", m.width)))
	b.WriteString("\n\n")

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	switch {
	case m.loadErr != nil:
		b.WriteString(errorStyle.Render("Could not load history: " + m.loadErr.Error()))
	case len(m.results) == 0:
		empty := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(panel.Render(empty.Render("No matches recorded yet.\nFinish a duel to fill this table!")))
	default:
		b.WriteString(statusStyle.Render(tallyLine(m.tally)))
		b.WriteString("\n")
		b.WriteString(panel.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// RunHistory shows the match history until the user quits.
func RunHistory(source HistorySource, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(source, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
