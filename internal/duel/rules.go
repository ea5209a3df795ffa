// Package duel implements the two-player minesweeper match: the pure state
// machine (Engine) and the single-goroutine runtime that drives it with
// timers, persistence and state subscriptions (Controller).
package duel

import (
	"fmt"
	"time"
)

// Rules holds the fixed parameters of a match. Durations are whole seconds
// except TickInterval, which is the wall-clock length of one second tick.
type Rules struct {
	Rows          int
	Cols          int
	Mines         int
	MatchDuration int
	Countdown     int
	Penalty       int
	TickInterval  time.Duration
}

// DefaultRules returns the standard 9x11 board with 12 mines, a three
// minute match, a five second countdown and a five second flag penalty.
func DefaultRules() Rules {
	return Rules{
		Rows:          9,
		Cols:          11,
		Mines:         12,
		MatchDuration: 180,
		Countdown:     5,
		Penalty:       5,
		TickInterval:  time.Second,
	}
}

// Validate rejects rule sets no match can be played with.
func (r Rules) Validate() error {
	switch {
	case r.Rows <= 0 || r.Cols <= 0:
		return fmt.Errorf("%w: board %dx%d", ErrInvalidRules, r.Rows, r.Cols)
	case r.Mines < 0 || r.Mines >= r.Rows*r.Cols:
		return fmt.Errorf("%w: %d mines on %dx%d", ErrInvalidRules, r.Mines, r.Rows, r.Cols)
	case r.MatchDuration <= 0:
		return fmt.Errorf("%w: match duration %d", ErrInvalidRules, r.MatchDuration)
	case r.Countdown <= 0:
		return fmt.Errorf("%w: countdown %d", ErrInvalidRules, r.Countdown)
	case r.Penalty < 0:
		return fmt.Errorf("%w: penalty %d", ErrInvalidRules, r.Penalty)
	case r.TickInterval <= 0:
		return fmt.Errorf("%w: tick interval %s", ErrInvalidRules, r.TickInterval)
	}
	return nil
}

// FinishTime is the adjusted time of a player who cleared their board with
// remaining seconds left on the clock and incorrect flags on the board.
func (r Rules) FinishTime(remaining, incorrectFlags int) int {
	return (r.MatchDuration - remaining) + r.Penalty*incorrectFlags
}
