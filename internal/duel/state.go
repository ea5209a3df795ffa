package duel

import (
	"time"

	"github.com/vovakirdan/sweepduel/internal/core"
	"github.com/vovakirdan/sweepduel/internal/minefield"
)

// PlayerState is one side of the duel.
type PlayerState struct {
	Board       *minefield.Board
	FlagsPlaced int

	// TimeTaken is the adjusted finish time in seconds.
	// Only meaningful when Finished is set.
	TimeTaken int
	Finished  bool
}

// State is an immutable view of a match. The engine replaces it wholesale
// on every transition, so two States compare equal with == exactly when
// nothing observable changed.
type State struct {
	MatchID   string
	Status    Status
	Players   [2]PlayerState
	Countdown int
	Remaining int

	Winner    core.PlayerID
	EndReason EndReason
	Loser     core.PlayerID // set when a mine ended the match

	HasSavedMatch bool
	Notice        Notice
}

// Player returns the state of one player. Unknown IDs yield the zero value.
func (s State) Player(p core.PlayerID) PlayerState {
	if !p.Valid() {
		return PlayerState{}
	}
	return s.Players[p.Index()]
}

// Result describes a finished match.
type Result struct {
	MatchID string
	Winner  core.PlayerID
	Loser   core.PlayerID
	Reason  EndReason
	Players [2]PlayerResult
	Elapsed int
	EndedAt time.Time
}

// PlayerResult is one player's line in a Result.
type PlayerResult struct {
	RevealedSafe   int
	IncorrectFlags int
	Finished       bool
	TimeTaken      int
}

// Result summarises the match. ok is false unless the match is over.
func (s State) Result(rules Rules, endedAt time.Time) (r Result, ok bool) {
	if s.Status != StatusGameOver {
		return Result{}, false
	}

	r = Result{
		MatchID: s.MatchID,
		Winner:  s.Winner,
		Loser:   s.Loser,
		Reason:  s.EndReason,
		Elapsed: rules.MatchDuration - s.Remaining,
		EndedAt: endedAt,
	}
	for i, p := range s.Players {
		if p.Board == nil {
			continue
		}
		r.Players[i] = PlayerResult{
			RevealedSafe:   p.Board.RevealedSafe(),
			IncorrectFlags: p.Board.IncorrectFlags(),
			Finished:       p.Finished,
			TimeTaken:      p.TimeTaken,
		}
	}
	return r, true
}

// ResultRecorder receives every finished match.
type ResultRecorder interface {
	SaveMatchResult(r Result) error
}
