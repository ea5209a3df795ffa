// Package tui provides the Bubble Tea front-end for sweepduel: the
// split-screen duel, the match history table and the SSH server.
package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/sweepduel/internal/duel"
)

// noticeTTL is how long a save/load notice stays on screen.
const noticeTTL = 3 * time.Second

// noticeExpiredMsg clears the notice it was scheduled for.
type noticeExpiredMsg struct{ id int }

func expireNotice(id int) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

// isSignalled reports errors that the match already shows via its Notice.
func isSignalled(err error) bool {
	return errors.Is(err, duel.ErrSaveFailed) ||
		errors.Is(err, duel.ErrNoSavedMatch) ||
		errors.Is(err, duel.ErrStopped)
}
