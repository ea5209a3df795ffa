package duel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/sweepduel/internal/core"
	"github.com/vovakirdan/sweepduel/internal/minefield"
	"github.com/vovakirdan/sweepduel/internal/savegame"
)

// duelMines fills column 10 and the bottom of columns 7-9 of a 9x11 board.
// Everything else is one connected zero region, so clicking (0,0) clears
// the whole board in one go.
var duelMines = []minefield.Coord{
	{Row: 0, Col: 10}, {Row: 1, Col: 10}, {Row: 2, Col: 10}, {Row: 3, Col: 10},
	{Row: 4, Col: 10}, {Row: 5, Col: 10}, {Row: 6, Col: 10}, {Row: 7, Col: 10},
	{Row: 8, Col: 10}, {Row: 8, Col: 7}, {Row: 8, Col: 8}, {Row: 8, Col: 9},
}

func duelBoard(t *testing.T) *minefield.Board {
	t.Helper()
	b, err := minefield.WithMines(9, 11, duelMines...)
	require.NoError(t, err)
	return b
}

func fixedBoards(t *testing.T) BoardFactory {
	t.Helper()
	b := duelBoard(t)
	return func(core.PlayerID, Rules) (*minefield.Board, error) {
		return b, nil
	}
}

// boardWithRevealed returns the duel board with its first n safe cells
// (row-major) revealed and no flags.
func boardWithRevealed(t *testing.T, n int) *minefield.Board {
	t.Helper()
	grid := duelBoard(t).Grid()
	for r := range grid {
		for c := range grid[r] {
			if n == 0 {
				break
			}
			if !grid[r][c].HasMine {
				grid[r][c].Revealed = true
				n--
			}
		}
	}
	require.Zero(t, n, "not enough safe cells")
	b, err := minefield.FromGrid(grid)
	require.NoError(t, err)
	return b
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultRules(), WithBoardFactory(fixedBoards(t)))
	require.NoError(t, err)
	return e
}

func startPlaying(t *testing.T, e *Engine) {
	t.Helper()
	require.NoError(t, e.StartNewGame())
	for range e.Rules().Countdown {
		require.Equal(t, StatusCountdown, e.State().Status)
		e.CountdownTick()
	}
	require.Equal(t, StatusPlaying, e.State().Status)
}

func matchTicks(e *Engine, n int) {
	for range n {
		e.MatchTick()
	}
}

func TestNewEngineStartsIdle(t *testing.T) {
	e := newTestEngine(t)
	s := e.State()

	assert.Equal(t, StatusIdle, s.Status)
	assert.Equal(t, 180, s.Remaining)
	assert.Equal(t, 5, s.Countdown)
	assert.Equal(t, core.PlayerNone, s.Winner)
	assert.False(t, e.Timers().CountdownRunning)
	assert.False(t, e.Timers().MatchRunning)
}

func TestNewEngineRejectsBadRules(t *testing.T) {
	r := DefaultRules()
	r.Mines = r.Rows * r.Cols
	_, err := NewEngine(r)
	assert.ErrorIs(t, err, ErrInvalidRules)

	_, err = NewEngine(DefaultRules(), WithBoardFactory(func(core.PlayerID, Rules) (*minefield.Board, error) {
		return minefield.WithMines(3, 3)
	}))
	assert.ErrorIs(t, err, ErrBoardMismatch)
}

func TestCountdownThenPlaying(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.StartNewGame())

	s := e.State()
	assert.Equal(t, StatusCountdown, s.Status)
	assert.NotEmpty(t, s.MatchID)
	assert.True(t, e.Timers().CountdownRunning)

	for want := 4; want > 0; want-- {
		e.CountdownTick()
		assert.Equal(t, want, e.State().Countdown)
		assert.Equal(t, StatusCountdown, e.State().Status)
	}
	e.CountdownTick()

	assert.Equal(t, StatusPlaying, e.State().Status)
	assert.False(t, e.Timers().CountdownRunning)
	assert.True(t, e.Timers().MatchRunning)

	e.CountdownTick()
	assert.Equal(t, 0, e.State().Countdown, "countdown tick after the countdown ended must be ignored")
}

func TestFinishTimeWithPenalty(t *testing.T) {
	e := newTestEngine(t)
	startPlaying(t, e)

	require.NoError(t, e.CellClick(core.Player1, 0, 9))
	p1 := e.State().Player(core.Player1)
	assert.Equal(t, 1, p1.Board.RevealedSafe(), "numbered cell must not spread")

	matchTicks(e, 60)
	require.Equal(t, 120, e.State().Remaining)

	require.NoError(t, e.CellLongPress(core.Player1, 3, 3))
	require.NoError(t, e.CellClick(core.Player1, 0, 0))

	s := e.State()
	p1 = s.Player(core.Player1)
	require.True(t, p1.Finished)
	assert.True(t, p1.Board.Cleared())
	assert.Equal(t, 1, p1.FlagsPlaced)
	assert.Equal(t, 1, p1.Board.IncorrectFlags())
	assert.Equal(t, 65, p1.TimeTaken)
	assert.Equal(t, StatusPlaying, s.Status, "match goes on until the other player finishes")
	assert.True(t, e.Timers().MatchRunning)

	matchTicks(e, 10)
	assert.Equal(t, 65, e.State().Player(core.Player1).TimeTaken, "finish time is recorded once")
}

func TestNoFinishWithOneSafeCellHidden(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.ApplySnapshot(savegame.Snapshot{
		Player1:       savegame.PlayerRecord{Board: boardWithRevealed(t, 86)},
		Player2:       savegame.PlayerRecord{Board: duelBoard(t)},
		RemainingTime: 100,
	}))
	e.ResumeGame()
	for range 5 {
		e.CountdownTick()
	}
	require.Equal(t, StatusPlaying, e.State().Status)

	require.NoError(t, e.CellClick(core.Player1, 7, 9))
	p1 := e.State().Player(core.Player1)
	assert.False(t, p1.Finished, "one hidden safe cell must prevent a finish")
	assert.False(t, p1.Board.Cleared())

	require.NoError(t, e.CellClick(core.Player1, 8, 6))
	p1 = e.State().Player(core.Player1)
	assert.True(t, p1.Finished)
	assert.Equal(t, 80, p1.TimeTaken)
}

func TestBothFinishLowerTimeWins(t *testing.T) {
	e := newTestEngine(t)
	startPlaying(t, e)

	matchTicks(e, 10)
	require.NoError(t, e.CellClick(core.Player2, 0, 0))
	require.Equal(t, StatusPlaying, e.State().Status)

	matchTicks(e, 20)
	require.NoError(t, e.CellClick(core.Player1, 0, 0))

	s := e.State()
	assert.Equal(t, StatusGameOver, s.Status)
	assert.Equal(t, EndCleared, s.EndReason)
	assert.Equal(t, core.Player2, s.Winner)
	assert.Equal(t, 10, s.Player(core.Player2).TimeTaken)
	assert.Equal(t, 30, s.Player(core.Player1).TimeTaken)
	assert.False(t, e.Timers().MatchRunning)
}

func TestBothFinishPenaltyDecides(t *testing.T) {
	e := newTestEngine(t)
	startPlaying(t, e)

	matchTicks(e, 10)
	require.NoError(t, e.CellLongPress(core.Player1, 4, 4))
	require.NoError(t, e.CellClick(core.Player1, 0, 0))

	matchTicks(e, 3)
	require.NoError(t, e.CellClick(core.Player2, 0, 0))

	s := e.State()
	assert.Equal(t, 15, s.Player(core.Player1).TimeTaken)
	assert.Equal(t, 13, s.Player(core.Player2).TimeTaken)
	assert.Equal(t, core.Player2, s.Winner)
}

func TestBothFinishEqualTimeIsTie(t *testing.T) {
	e := newTestEngine(t)
	startPlaying(t, e)

	matchTicks(e, 7)
	require.NoError(t, e.CellClick(core.Player1, 0, 0))
	require.NoError(t, e.CellClick(core.Player2, 0, 0))

	s := e.State()
	assert.Equal(t, StatusGameOver, s.Status)
	assert.Equal(t, core.PlayerNone, s.Winner)
	assert.Equal(t, EndCleared, s.EndReason)
}

func TestTimeoutMoreRevealedWins(t *testing.T) {
	tests := []struct {
		name       string
		p1, p2     int
		wantWinner core.PlayerID
	}{
		{"player one ahead", 40, 35, core.Player1},
		{"player two ahead", 12, 13, core.Player2},
		{"tie", 20, 20, core.PlayerNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			require.NoError(t, e.ApplySnapshot(savegame.Snapshot{
				Player1:       savegame.PlayerRecord{Board: boardWithRevealed(t, tt.p1)},
				Player2:       savegame.PlayerRecord{Board: boardWithRevealed(t, tt.p2)},
				RemainingTime: 2,
			}))
			e.ResumeGame()
			for range 5 {
				e.CountdownTick()
			}
			require.Equal(t, StatusPlaying, e.State().Status)

			e.MatchTick()
			require.Equal(t, StatusPlaying, e.State().Status)
			e.MatchTick()

			s := e.State()
			assert.Equal(t, StatusGameOver, s.Status)
			assert.Equal(t, EndTimeout, s.EndReason)
			assert.Equal(t, tt.wantWinner, s.Winner)
			assert.Equal(t, 0, s.Remaining)
			assert.False(t, e.Timers().MatchRunning)
		})
	}
}

func TestMineClickLoses(t *testing.T) {
	e := newTestEngine(t)
	startPlaying(t, e)

	require.NoError(t, e.CellLongPress(core.Player1, 1, 10))
	require.NoError(t, e.CellLongPress(core.Player1, 2, 2))
	require.NoError(t, e.CellClick(core.Player1, 0, 10))

	s := e.State()
	assert.Equal(t, StatusGameOver, s.Status)
	assert.Equal(t, EndMine, s.EndReason)
	assert.Equal(t, core.Player2, s.Winner)
	assert.Equal(t, core.Player1, s.Loser)
	assert.False(t, e.Timers().MatchRunning)

	b := s.Player(core.Player1).Board
	for _, m := range duelMines {
		c, _ := b.At(m)
		assert.True(t, c.Revealed, "mine at %v must be revealed", m)
	}
	flagged, _ := b.At(minefield.At(1, 10))
	assert.True(t, flagged.Flagged, "flags survive the mine reveal")
	wrong, _ := b.At(minefield.At(2, 2))
	assert.True(t, wrong.Flagged)
	assert.False(t, wrong.Revealed)
	assert.Zero(t, s.Player(core.Player2).Board.RevealedSafe())

	before := e.State()
	matchTicks(e, 5)
	e.CountdownTick()
	require.NoError(t, e.CellClick(core.Player2, 0, 0))
	assert.Equal(t, before, e.State(), "nothing changes after game over")
}

func TestPauseAndResumeKeepsRemaining(t *testing.T) {
	e := newTestEngine(t)
	startPlaying(t, e)
	matchTicks(e, 3)
	gen := e.Timers().MatchGen

	e.PauseGame()
	assert.Equal(t, StatusPaused, e.State().Status)
	assert.False(t, e.Timers().MatchRunning)

	matchTicks(e, 4)
	require.NoError(t, e.CellClick(core.Player1, 0, 0))
	require.NoError(t, e.CellLongPress(core.Player1, 0, 0))
	assert.Equal(t, 177, e.State().Remaining)
	assert.Zero(t, e.State().Player(core.Player1).Board.RevealedSafe())
	assert.Zero(t, e.State().Player(core.Player1).FlagsPlaced)

	e.ResumeGame()
	assert.Equal(t, StatusCountdown, e.State().Status)
	assert.Equal(t, 5, e.State().Countdown)
	for range 5 {
		e.CountdownTick()
	}
	assert.Equal(t, StatusPlaying, e.State().Status)
	assert.Equal(t, 177, e.State().Remaining)
	assert.NotEqual(t, gen, e.Timers().MatchGen, "resumed match timer is a new instance")

	e.MatchTick()
	assert.Equal(t, 176, e.State().Remaining)
}

func TestActionsIgnoredOutsideTheirStatus(t *testing.T) {
	e := newTestEngine(t)

	e.PauseGame()
	e.ResumeGame()
	e.MatchTick()
	e.CountdownTick()
	require.NoError(t, e.CellClick(core.Player1, 0, 0))
	assert.Equal(t, StatusIdle, e.State().Status)

	startPlaying(t, e)
	id := e.State().MatchID
	require.NoError(t, e.StartNewGame())
	assert.Equal(t, id, e.State().MatchID, "new game is ignored while playing")
	e.ResumeGame()
	assert.Equal(t, StatusPlaying, e.State().Status)
}

func TestNewGameFromGameOverAndPaused(t *testing.T) {
	e := newTestEngine(t)
	startPlaying(t, e)
	first := e.State().MatchID

	e.PauseGame()
	require.NoError(t, e.StartNewGame())
	second := e.State().MatchID
	assert.NotEqual(t, first, second)
	assert.Equal(t, StatusCountdown, e.State().Status)

	for range 5 {
		e.CountdownTick()
	}
	require.NoError(t, e.CellClick(core.Player2, 8, 7))
	require.Equal(t, StatusGameOver, e.State().Status)

	require.NoError(t, e.StartNewGame())
	s := e.State()
	assert.NotEqual(t, second, s.MatchID)
	assert.Equal(t, StatusCountdown, s.Status)
	assert.Equal(t, core.PlayerNone, s.Winner)
	assert.Equal(t, EndNone, s.EndReason)
	assert.Equal(t, 180, s.Remaining)
	assert.Zero(t, s.Player(core.Player2).Board.RevealedSafe())
}

func TestBadTargets(t *testing.T) {
	e := newTestEngine(t)
	startPlaying(t, e)
	before := e.State()

	tests := []struct {
		name     string
		player   core.PlayerID
		row, col int
		want     error
	}{
		{"row too large", core.Player1, 9, 0, ErrOutOfBounds},
		{"negative col", core.Player2, 0, -1, ErrOutOfBounds},
		{"no player", core.PlayerNone, 0, 0, ErrUnknownPlayer},
		{"unknown player", core.PlayerID(7), 0, 0, ErrUnknownPlayer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, e.CellClick(tt.player, tt.row, tt.col), tt.want)
			assert.ErrorIs(t, e.CellLongPress(tt.player, tt.row, tt.col), tt.want)
			assert.Equal(t, before, e.State())
		})
	}
}

func TestFlagToggleTwiceIsIdentity(t *testing.T) {
	e := newTestEngine(t)
	startPlaying(t, e)
	before := e.State().Player(core.Player2)

	require.NoError(t, e.CellLongPress(core.Player2, 4, 4))
	mid := e.State().Player(core.Player2)
	assert.Equal(t, 1, mid.FlagsPlaced)
	c, _ := mid.Board.At(minefield.At(4, 4))
	assert.True(t, c.Flagged)

	require.NoError(t, e.CellClick(core.Player2, 4, 4))
	assert.Zero(t, e.State().Player(core.Player2).Board.RevealedSafe(), "clicking a flagged cell is ignored")

	require.NoError(t, e.CellLongPress(core.Player2, 4, 4))
	after := e.State().Player(core.Player2)
	assert.Equal(t, before.FlagsPlaced, after.FlagsPlaced)
	assert.True(t, before.Board.Equal(after.Board))
}

func TestFinishedPlayerBoardIsFrozen(t *testing.T) {
	e := newTestEngine(t)
	startPlaying(t, e)

	require.NoError(t, e.CellClick(core.Player1, 0, 0))
	frozen := e.State().Player(core.Player1)
	require.True(t, frozen.Finished)

	require.NoError(t, e.CellClick(core.Player1, 0, 10))
	require.NoError(t, e.CellLongPress(core.Player1, 1, 10))
	assert.Equal(t, frozen, e.State().Player(core.Player1))
	assert.Equal(t, StatusPlaying, e.State().Status)
}

func TestSnapshotOnlyWhenPaused(t *testing.T) {
	e := newTestEngine(t)
	_, ok := e.SaveSnapshot()
	assert.False(t, ok)

	startPlaying(t, e)
	_, ok = e.SaveSnapshot()
	assert.False(t, ok)

	e.PauseGame()
	_, ok = e.SaveSnapshot()
	assert.True(t, ok)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	startPlaying(t, e)
	matchTicks(e, 25)
	require.NoError(t, e.CellClick(core.Player1, 0, 9))
	require.NoError(t, e.CellLongPress(core.Player1, 5, 5))
	require.NoError(t, e.CellLongPress(core.Player2, 8, 8))
	require.NoError(t, e.CellClick(core.Player2, 0, 0))
	e.PauseGame()
	saved := e.State()

	snap, ok := e.SaveSnapshot()
	require.True(t, ok)
	data, err := savegame.Encode(snap)
	require.NoError(t, err)
	decoded, err := savegame.Decode(data)
	require.NoError(t, err)

	other := newTestEngine(t)
	require.NoError(t, other.ApplySnapshot(decoded))
	s := other.State()

	assert.Equal(t, StatusPaused, s.Status)
	assert.Equal(t, saved.Remaining, s.Remaining)
	assert.NotEqual(t, saved.MatchID, s.MatchID)
	for _, p := range core.Players {
		want, got := saved.Player(p), s.Player(p)
		assert.True(t, want.Board.Equal(got.Board), "%s board", p)
		assert.Equal(t, want.FlagsPlaced, got.FlagsPlaced)
		assert.Equal(t, want.Finished, got.Finished)
		assert.Equal(t, want.TimeTaken, got.TimeTaken)
	}
	assert.False(t, other.Timers().CountdownRunning)
	assert.False(t, other.Timers().MatchRunning)
}

func TestApplySnapshotValidates(t *testing.T) {
	small, err := minefield.WithMines(3, 3)
	require.NoError(t, err)

	e := newTestEngine(t)
	before := e.State()

	err = e.ApplySnapshot(savegame.Snapshot{
		Player1: savegame.PlayerRecord{Board: duelBoard(t)},
		Player2: savegame.PlayerRecord{Board: small},
	})
	assert.ErrorIs(t, err, ErrBoardMismatch)

	err = e.ApplySnapshot(savegame.Snapshot{
		Player1:       savegame.PlayerRecord{Board: duelBoard(t)},
		Player2:       savegame.PlayerRecord{Board: duelBoard(t)},
		RemainingTime: 181,
	})
	assert.ErrorIs(t, err, ErrBoardMismatch)
	assert.Equal(t, before, e.State())

	startPlaying(t, e)
	err = e.ApplySnapshot(savegame.Snapshot{
		Player1: savegame.PlayerRecord{Board: duelBoard(t)},
		Player2: savegame.PlayerRecord{Board: duelBoard(t)},
	})
	assert.ErrorIs(t, err, ErrMatchInProgress)
}

func TestSeededBoardsAreReproducible(t *testing.T) {
	boards := func(seed uint64) [2]*minefield.Board {
		e, err := NewEngine(DefaultRules(), WithSeed(seed))
		require.NoError(t, err)
		s := e.State()
		return [2]*minefield.Board{s.Players[0].Board, s.Players[1].Board}
	}

	a, b := boards(42), boards(42)
	assert.True(t, a[0].Equal(b[0]))
	assert.True(t, a[1].Equal(b[1]))
	assert.False(t, a[0].Equal(a[1]), "players get independent boards")
	assert.Equal(t, 12, a[0].MineCount())
}

func TestResultOnlyWhenOver(t *testing.T) {
	e := newTestEngine(t)
	startPlaying(t, e)
	_, ok := e.State().Result(e.Rules(), time.Time{})
	assert.False(t, ok)

	matchTicks(e, 30)
	require.NoError(t, e.CellClick(core.Player1, 0, 0))
	require.NoError(t, e.CellClick(core.Player2, 8, 9))

	r, ok := e.State().Result(e.Rules(), time.Time{})
	require.True(t, ok)
	assert.Equal(t, core.Player1, r.Winner)
	assert.Equal(t, core.Player2, r.Loser)
	assert.Equal(t, EndMine, r.Reason)
	assert.Equal(t, 30, r.Elapsed)
	assert.True(t, r.Players[0].Finished)
	assert.Equal(t, 87, r.Players[0].RevealedSafe)
	assert.Zero(t, r.Players[1].RevealedSafe)
}
