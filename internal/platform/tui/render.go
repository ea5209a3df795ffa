package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/sweepduel/internal/core"
	"github.com/vovakirdan/sweepduel/internal/duel"
	"github.com/vovakirdan/sweepduel/internal/minefield"
)

// numberStyles colours adjacency counts 1..8 the classic way.
var numberStyles = [9]lipgloss.Style{
	lipgloss.NewStyle(),
	lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

var (
	hiddenStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	flagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	goodFlagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	wrongFlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	mineStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	activeBoardStyle = boardStyle.BorderForeground(lipgloss.Color("57"))
	statusStyle      = lipgloss.NewStyle().Bold(true)
	noticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// cellGlyph returns the character and style of one cell.
func cellGlyph(c minefield.Cell) (string, lipgloss.Style) {
	switch {
	case !c.Revealed && c.Flagged:
		return "F", flagStyle
	case !c.Revealed:
		return "·", hiddenStyle
	case c.HasMine && c.Flagged:
		return "F", goodFlagStyle
	case c.HasMine:
		return "*", mineStyle
	case c.Flagged:
		// Safe cell swept open under a wrong flag.
		return "x", wrongFlagStyle
	case c.AdjacentMines == 0:
		return " ", numberStyles[0]
	default:
		return fmt.Sprintf("%d", c.AdjacentMines), numberStyles[c.AdjacentMines]
	}
}

// renderBoard draws a board two columns per cell, highlighting the cursor.
func renderBoard(b *minefield.Board, cursor minefield.Coord, showCursor bool) string {
	var sb strings.Builder
	for r := range b.Rows() {
		if r > 0 {
			sb.WriteRune('\n')
		}
		for c := range b.Cols() {
			at := minefield.At(r, c)
			cell, _ := b.At(at)
			glyph, style := cellGlyph(cell)
			if showCursor && at == cursor {
				style = style.Reverse(true)
			}
			sb.WriteString(style.Render(" " + glyph))
		}
	}
	return sb.String()
}

// playerHeader is the line above a board.
func playerHeader(p core.PlayerID, ps duel.PlayerState) string {
	if ps.Board == nil {
		return p.String()
	}
	if ps.Finished {
		return fmt.Sprintf("%s  cleared in %ds", p, ps.TimeTaken)
	}
	return fmt.Sprintf("%s  mines %d", p, ps.Board.MineCount()-ps.FlagsPlaced)
}

// formatClock renders seconds as mm:ss.
func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// statusLine describes the match phase in one line.
func statusLine(s duel.State) string {
	switch s.Status {
	case duel.StatusIdle:
		if s.HasSavedMatch {
			return "Press n for a new duel or ctrl+l to load the saved one"
		}
		return "Press n for a new duel"
	case duel.StatusCountdown:
		return fmt.Sprintf("Get ready... %d", s.Countdown)
	case duel.StatusPlaying:
		return "Time left " + formatClock(s.Remaining)
	case duel.StatusPaused:
		return fmt.Sprintf("Paused at %s. r resumes, ctrl+s saves", formatClock(s.Remaining))
	case duel.StatusGameOver:
		return outcome(s)
	}
	return ""
}

// outcome explains how a finished match was decided.
func outcome(s duel.State) string {
	p1, p2 := s.Player(core.Player1), s.Player(core.Player2)
	switch s.EndReason {
	case duel.EndMine:
		return fmt.Sprintf("%s hit a mine. %s wins!", s.Loser, s.Winner)
	case duel.EndTimeout:
		a, b := p1.Board.RevealedSafe(), p2.Board.RevealedSafe()
		if s.Winner == core.PlayerNone {
			return fmt.Sprintf("Time's up. Draw at %d safe cells each.", a)
		}
		if s.Winner == core.Player2 {
			a, b = b, a
		}
		return fmt.Sprintf("Time's up. %s wins, %d to %d safe cells.", s.Winner, a, b)
	case duel.EndCleared:
		if s.Winner == core.PlayerNone {
			return fmt.Sprintf("Both cleared in %ds. Draw!", p1.TimeTaken)
		}
		win, lose := s.Player(s.Winner), s.Player(s.Winner.Other())
		return fmt.Sprintf("%s wins: %ds against %ds.", s.Winner, win.TimeTaken, lose.TimeTaken)
	}
	return "Game over"
}

// renderDuel lays out the whole screen.
func renderDuel(m DuelModel) string {
	s := m.state
	playing := s.Status == duel.StatusPlaying

	boards := make([]string, 0, 3)
	for i, p := range core.Players {
		ps := s.Players[i]
		if ps.Board == nil {
			continue
		}
		style := boardStyle
		if playing && !ps.Finished {
			style = activeBoardStyle
		}
		body := playerHeader(p, ps) + "\n\n" + renderBoard(ps.Board, m.cursors[i], playing && !ps.Finished)
		if len(boards) > 0 {
			boards = append(boards, "  ")
		}
		boards = append(boards, style.Render(body))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(centerText("SWEEPDUEL", m.width)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boards...))
	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render(statusLine(s)))
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
	}
	if m.lastErr != "" {
		b.WriteString(errorStyle.Render(m.lastErr))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// centerText pads text with leading spaces to center it in width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
