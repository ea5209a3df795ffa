// Package savegame serializes the resumable part of a duel into a single
// versionless blob and keeps that blob in a single storage slot.
package savegame

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vovakirdan/sweepduel/internal/minefield"
)

// Snapshot is the reduced projection of a match needed to resume it.
// Status, countdown and winner are never saved: a loaded match is paused.
type Snapshot struct {
	Player1       PlayerRecord
	Player2       PlayerRecord
	RemainingTime int
}

// PlayerRecord is one player's saved board and flag counter.
// TimeTaken is nil until the player has cleared the board.
type PlayerRecord struct {
	Board       *minefield.Board
	FlagsPlaced int
	TimeTaken   *int
}

// DecodeError reports a blob that could not be turned into a Snapshot.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("savegame: decode: %s: %v", e.Reason, e.Err)
	}
	return "savegame: decode: " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ErrNilBoard is returned by Encode when a player record has no board.
var ErrNilBoard = errors.New("savegame: player record has no board")

type snapshotRecord struct {
	Player1       playerRecord `json:"player1"`
	Player2       playerRecord `json:"player2"`
	RemainingTime int          `json:"remainingTime"`
}

type playerRecord struct {
	Board       [][]cellRecord `json:"board"`
	FlagsPlaced int            `json:"flagsPlaced"`
	TimeTaken   *int           `json:"timeTaken,omitempty"`
}

type cellRecord struct {
	Revealed      bool `json:"revealed"`
	Flagged       bool `json:"flagged"`
	HasMine       bool `json:"hasMine"`
	AdjacentMines int  `json:"adjacentMines"`
}

// Encode serializes a snapshot to JSON.
func Encode(s Snapshot) ([]byte, error) {
	p1, err := encodePlayer(s.Player1)
	if err != nil {
		return nil, fmt.Errorf("savegame: encode player1: %w", err)
	}
	p2, err := encodePlayer(s.Player2)
	if err != nil {
		return nil, fmt.Errorf("savegame: encode player2: %w", err)
	}

	data, err := json.MarshalIndent(snapshotRecord{
		Player1:       p1,
		Player2:       p2,
		RemainingTime: s.RemainingTime,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("savegame: encode: %w", err)
	}
	return data, nil
}

func encodePlayer(p PlayerRecord) (playerRecord, error) {
	if p.Board == nil {
		return playerRecord{}, ErrNilBoard
	}

	grid := p.Board.Grid()
	rows := make([][]cellRecord, len(grid))
	for r, row := range grid {
		rows[r] = make([]cellRecord, len(row))
		for c, cell := range row {
			rows[r][c] = cellRecord{
				Revealed:      cell.Revealed,
				Flagged:       cell.Flagged,
				HasMine:       cell.HasMine,
				AdjacentMines: cell.AdjacentMines,
			}
		}
	}

	var timeTaken *int
	if p.TimeTaken != nil {
		t := *p.TimeTaken
		timeTaken = &t
	}

	return playerRecord{Board: rows, FlagsPlaced: p.FlagsPlaced, TimeTaken: timeTaken}, nil
}

// Decode parses a blob produced by Encode.
// Every failure is a *DecodeError.
func Decode(data []byte) (Snapshot, error) {
	if len(data) == 0 {
		return Snapshot{}, &DecodeError{Reason: "empty blob"}
	}

	var rec snapshotRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Snapshot{}, &DecodeError{Reason: "malformed json", Err: err}
	}
	if rec.RemainingTime < 0 {
		return Snapshot{}, &DecodeError{Reason: fmt.Sprintf("negative remaining time %d", rec.RemainingTime)}
	}

	p1, err := decodePlayer(rec.Player1)
	if err != nil {
		return Snapshot{}, &DecodeError{Reason: "player1", Err: err}
	}
	p2, err := decodePlayer(rec.Player2)
	if err != nil {
		return Snapshot{}, &DecodeError{Reason: "player2", Err: err}
	}

	return Snapshot{Player1: p1, Player2: p2, RemainingTime: rec.RemainingTime}, nil
}

func decodePlayer(rec playerRecord) (PlayerRecord, error) {
	grid := make([][]minefield.Cell, len(rec.Board))
	for r, row := range rec.Board {
		grid[r] = make([]minefield.Cell, len(row))
		for c, cell := range row {
			grid[r][c] = minefield.Cell{
				Revealed:      cell.Revealed,
				Flagged:       cell.Flagged,
				HasMine:       cell.HasMine,
				AdjacentMines: cell.AdjacentMines,
			}
		}
	}

	board, err := minefield.FromGrid(grid)
	if err != nil {
		return PlayerRecord{}, err
	}
	if rec.FlagsPlaced < 0 || rec.FlagsPlaced > board.Rows()*board.Cols() {
		return PlayerRecord{}, fmt.Errorf("flag count %d out of range", rec.FlagsPlaced)
	}
	if rec.TimeTaken != nil && *rec.TimeTaken < 0 {
		return PlayerRecord{}, fmt.Errorf("negative time taken %d", *rec.TimeTaken)
	}

	return PlayerRecord{Board: board, FlagsPlaced: rec.FlagsPlaced, TimeTaken: rec.TimeTaken}, nil
}
