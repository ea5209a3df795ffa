package duel

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/vovakirdan/sweepduel/internal/core"
	"github.com/vovakirdan/sweepduel/internal/minefield"
	"github.com/vovakirdan/sweepduel/internal/savegame"
)

// BoardFactory builds a fresh board for one player at the start of a match.
type BoardFactory func(p core.PlayerID, rules Rules) (*minefield.Board, error)

// Timers tells the runtime which timers should be running. A generation
// changes every time its timer is (re)started, so the runtime can tell a
// restart from a timer that simply kept running.
type Timers struct {
	CountdownRunning bool
	CountdownGen     uint64
	MatchRunning     bool
	MatchGen         uint64
}

// Engine is the match state machine. It has no clock and no I/O: ticks
// arrive as method calls. An Engine is not safe for concurrent use; the
// Controller owns it from a single goroutine.
type Engine struct {
	rules    Rules
	state    State
	timers   Timers
	newBoard BoardFactory
	seeder   *rand.Rand
	newID    func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithBoardFactory replaces random board generation.
func WithBoardFactory(f BoardFactory) Option {
	return func(e *Engine) {
		e.newBoard = f
	}
}

// WithSeed makes random boards reproducible. Each board still gets its own
// PCG source; the seed only fixes how those sources are seeded.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seeder = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// NewEngine creates an idle match with fresh boards.
func NewEngine(rules Rules, opts ...Option) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{rules: rules, newID: uuid.NewString}
	e.newBoard = e.randomBoard
	for _, opt := range opts {
		opt(e)
	}

	players, err := e.freshPlayers()
	if err != nil {
		return nil, err
	}
	e.state = State{
		Status:    StatusIdle,
		Players:   players,
		Countdown: rules.Countdown,
		Remaining: rules.MatchDuration,
	}
	return e, nil
}

// Rules returns the rules the engine was built with.
func (e *Engine) Rules() Rules {
	return e.rules
}

// State returns the current snapshot.
func (e *Engine) State() State {
	return e.state
}

// Timers returns the desired timer configuration.
func (e *Engine) Timers() Timers {
	return e.timers
}

func (e *Engine) randomBoard(_ core.PlayerID, r Rules) (*minefield.Board, error) {
	var s1, s2 uint64
	if e.seeder != nil {
		s1, s2 = e.seeder.Uint64(), e.seeder.Uint64()
	} else {
		s1, s2 = rand.Uint64(), rand.Uint64()
	}
	return minefield.Generate(r.Rows, r.Cols, r.Mines, rand.New(rand.NewPCG(s1, s2)))
}

func (e *Engine) freshPlayers() ([2]PlayerState, error) {
	var players [2]PlayerState
	for i, p := range core.Players {
		b, err := e.newBoard(p, e.rules)
		if err != nil {
			return players, fmt.Errorf("duel: board for %s: %w", p, err)
		}
		if err := e.checkBoard(b); err != nil {
			return players, fmt.Errorf("duel: board for %s: %w", p, err)
		}
		players[i] = PlayerState{Board: b}
	}
	return players, nil
}

func (e *Engine) checkBoard(b *minefield.Board) error {
	if b == nil {
		return fmt.Errorf("%w: no board", ErrBoardMismatch)
	}
	if b.Rows() != e.rules.Rows || b.Cols() != e.rules.Cols {
		return fmt.Errorf("%w: %dx%d, want %dx%d", ErrBoardMismatch, b.Rows(), b.Cols(), e.rules.Rows, e.rules.Cols)
	}
	return nil
}

func (e *Engine) startCountdown() {
	e.timers.CountdownRunning = true
	e.timers.CountdownGen++
}

func (e *Engine) startMatchTimer() {
	e.timers.MatchRunning = true
	e.timers.MatchGen++
}

func (e *Engine) stopTimers() {
	e.timers.CountdownRunning = false
	e.timers.MatchRunning = false
}

// StartNewGame deals two fresh boards and starts the countdown.
// Ignored while a match is counting down or being played.
func (e *Engine) StartNewGame() error {
	if !e.state.Status.acceptsNewMatch() {
		return nil
	}

	players, err := e.freshPlayers()
	if err != nil {
		return err
	}

	e.state = State{
		MatchID:       e.newID(),
		Status:        StatusCountdown,
		Players:       players,
		Countdown:     e.rules.Countdown,
		Remaining:     e.rules.MatchDuration,
		HasSavedMatch: e.state.HasSavedMatch,
	}
	e.stopTimers()
	e.startCountdown()
	return nil
}

// ResumeGame restarts the countdown of a paused match. The match clock
// continues from where it stopped once the countdown ends.
func (e *Engine) ResumeGame() {
	if e.state.Status != StatusPaused {
		return
	}
	e.state.Status = StatusCountdown
	e.state.Countdown = e.rules.Countdown
	e.state.Notice = NoticeNone
	e.startCountdown()
}

// PauseGame stops the match clock. Only a running match can be paused.
func (e *Engine) PauseGame() {
	if e.state.Status != StatusPlaying {
		return
	}
	e.state.Status = StatusPaused
	e.timers.MatchRunning = false
}

// CountdownTick advances the countdown by one second.
func (e *Engine) CountdownTick() {
	if !e.timers.CountdownRunning || e.state.Status != StatusCountdown {
		return
	}

	e.state.Countdown--
	if e.state.Countdown > 0 {
		return
	}
	e.state.Countdown = 0
	e.state.Status = StatusPlaying
	e.timers.CountdownRunning = false
	e.startMatchTimer()
}

// MatchTick advances the match clock by one second and resolves the match
// on timeout.
func (e *Engine) MatchTick() {
	if !e.timers.MatchRunning || e.state.Status != StatusPlaying {
		return
	}

	e.state.Remaining--
	if e.state.Remaining > 0 {
		return
	}
	e.state.Remaining = 0

	a := e.state.Players[0].Board.RevealedSafe()
	b := e.state.Players[1].Board.RevealedSafe()
	winner := core.PlayerNone
	switch {
	case a > b:
		winner = core.Player1
	case b > a:
		winner = core.Player2
	}
	e.finish(winner, EndTimeout)
}

func (e *Engine) finish(winner core.PlayerID, reason EndReason) {
	e.state.Status = StatusGameOver
	e.state.Winner = winner
	e.state.EndReason = reason
	e.stopTimers()
}

// target validates a player action and returns the player's slot.
func (e *Engine) target(p core.PlayerID, row, col int) (int, minefield.Coord, error) {
	if !p.Valid() {
		return 0, minefield.Coord{}, fmt.Errorf("%w: %d", ErrUnknownPlayer, int(p))
	}
	i := p.Index()
	at := minefield.At(row, col)
	if !e.state.Players[i].Board.InBounds(at) {
		return 0, minefield.Coord{}, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, row, col)
	}
	return i, at, nil
}

// CellClick reveals a cell on the player's board. A mine loses the match on
// the spot; clearing the last safe cell records the player's finish time.
func (e *Engine) CellClick(p core.PlayerID, row, col int) error {
	i, at, err := e.target(p, row, col)
	if err != nil {
		return err
	}
	if e.state.Status != StatusPlaying {
		return nil
	}

	ps := e.state.Players[i]
	cell, _ := ps.Board.At(at)
	if ps.Finished || cell.Revealed || cell.Flagged {
		return nil
	}

	if cell.HasMine {
		ps.Board = minefield.RevealMines(ps.Board)
		e.state.Players[i] = ps
		e.state.Loser = p
		e.finish(p.Other(), EndMine)
		return nil
	}

	board, err := minefield.Reveal(ps.Board, at)
	if err != nil {
		return err
	}
	ps.Board = board
	if board.Cleared() {
		ps.Finished = true
		ps.TimeTaken = e.rules.FinishTime(e.state.Remaining, board.IncorrectFlags())
	}
	e.state.Players[i] = ps

	if ps.Finished {
		e.settle(p)
	}
	return nil
}

// settle ends the match once both players have finished.
func (e *Engine) settle(p core.PlayerID) {
	mine := e.state.Player(p)
	other := e.state.Player(p.Other())
	if !other.Finished {
		return
	}

	winner := core.PlayerNone
	switch {
	case mine.TimeTaken < other.TimeTaken:
		winner = p
	case other.TimeTaken < mine.TimeTaken:
		winner = p.Other()
	}
	e.finish(winner, EndCleared)
}

// CellLongPress toggles a flag on the player's board.
func (e *Engine) CellLongPress(p core.PlayerID, row, col int) error {
	i, at, err := e.target(p, row, col)
	if err != nil {
		return err
	}
	if e.state.Status != StatusPlaying {
		return nil
	}

	ps := e.state.Players[i]
	cell, _ := ps.Board.At(at)
	if ps.Finished || cell.Revealed {
		return nil
	}

	board, flagged, err := minefield.ToggleFlag(ps.Board, at)
	if err != nil {
		return err
	}
	ps.Board = board
	if flagged {
		ps.FlagsPlaced++
	} else {
		ps.FlagsPlaced--
	}
	e.state.Players[i] = ps
	return nil
}

// SaveSnapshot projects a paused match onto the persisted form.
// ok is false in any other status.
func (e *Engine) SaveSnapshot() (snap savegame.Snapshot, ok bool) {
	if e.state.Status != StatusPaused {
		return savegame.Snapshot{}, false
	}

	record := func(ps PlayerState) savegame.PlayerRecord {
		r := savegame.PlayerRecord{Board: ps.Board, FlagsPlaced: ps.FlagsPlaced}
		if ps.Finished {
			t := ps.TimeTaken
			r.TimeTaken = &t
		}
		return r
	}
	return savegame.Snapshot{
		Player1:       record(e.state.Players[0]),
		Player2:       record(e.state.Players[1]),
		RemainingTime: e.state.Remaining,
	}, true
}

// ApplySnapshot replaces the match with a saved one. The loaded match is
// always paused; the players resume it through the countdown. Nothing is
// changed when an error is returned.
func (e *Engine) ApplySnapshot(s savegame.Snapshot) error {
	if !e.state.Status.acceptsNewMatch() {
		return ErrMatchInProgress
	}
	if s.RemainingTime < 0 || s.RemainingTime > e.rules.MatchDuration {
		return fmt.Errorf("%w: remaining time %d", ErrBoardMismatch, s.RemainingTime)
	}

	var players [2]PlayerState
	for i, rec := range [2]savegame.PlayerRecord{s.Player1, s.Player2} {
		if err := e.checkBoard(rec.Board); err != nil {
			return fmt.Errorf("duel: %s: %w", core.Players[i], err)
		}
		players[i] = PlayerState{Board: rec.Board, FlagsPlaced: rec.FlagsPlaced}
		if rec.TimeTaken != nil {
			players[i].Finished = true
			players[i].TimeTaken = *rec.TimeTaken
		}
	}

	e.state = State{
		MatchID:       e.newID(),
		Status:        StatusPaused,
		Players:       players,
		Countdown:     e.rules.Countdown,
		Remaining:     s.RemainingTime,
		HasSavedMatch: e.state.HasSavedMatch,
		Notice:        e.state.Notice,
	}
	e.stopTimers()
	return nil
}

// SetSavedMatch records whether the save slot holds a match and the outcome
// of the last persistence action.
func (e *Engine) SetSavedMatch(has bool, n Notice) {
	e.state.HasSavedMatch = has
	e.state.Notice = n
}
