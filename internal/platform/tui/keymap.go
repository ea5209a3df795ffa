package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// PlayerKeys are one player's cursor and cell bindings.
type PlayerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Reveal key.Binding
	Flag   key.Binding
}

// DuelKeyMap defines the key bindings for the duel screen. Both players
// share one keyboard: player 1 on the left hand, player 2 on the right.
type DuelKeyMap struct {
	P1 PlayerKeys
	P2 PlayerKeys

	Pause  key.Binding
	Resume key.Binding
	New    key.Binding
	Save   key.Binding
	Load   key.Binding
	Delete key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k DuelKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Pause, k.Resume, k.Save, k.Load, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k DuelKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.P1.Up, k.P1.Down, k.P1.Left, k.P1.Right, k.P1.Reveal, k.P1.Flag},
		{k.P2.Up, k.P2.Down, k.P2.Left, k.P2.Right, k.P2.Reveal, k.P2.Flag},
		{k.New, k.Pause, k.Resume},
		{k.Save, k.Load, k.Delete},
		{k.Help, k.Quit},
	}
}

// DefaultDuelKeyMap returns default key bindings.
func DefaultDuelKeyMap() DuelKeyMap {
	return DuelKeyMap{
		P1: PlayerKeys{
			Up:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "P1 up")),
			Down:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "P1 down")),
			Left:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "P1 left")),
			Right:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "P1 right")),
			Reveal: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "P1 reveal")),
			Flag:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "P1 flag")),
		},
		P2: PlayerKeys{
			Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "P2 up")),
			Down:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "P2 down")),
			Left:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "P2 left")),
			Right:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "P2 right")),
			Reveal: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "P2 reveal")),
			Flag:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "P2 flag")),
		},
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Resume: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "resume"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new game"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Load: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "load"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete save"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// move returns the cursor step bound to msg, if any.
func (k PlayerKeys) move(msg tea.KeyMsg) (dRow, dCol int, ok bool) {
	switch {
	case key.Matches(msg, k.Up):
		return -1, 0, true
	case key.Matches(msg, k.Down):
		return 1, 0, true
	case key.Matches(msg, k.Left):
		return 0, -1, true
	case key.Matches(msg, k.Right):
		return 0, 1, true
	}
	return 0, 0, false
}
