// Package minefield implements minesweeper boards: random generation with
// precomputed adjacency counts, flood-fill reveal, and flag toggling.
//
// Boards are immutable from the outside. Every mutating operation returns a
// new board and leaves its input untouched, so a board can be shared freely
// between state snapshots.
package minefield

import "errors"

// Errors returned by board operations.
var (
	ErrInvalidDimensions = errors.New("minefield: rows and cols must be positive")
	ErrTooManyMines      = errors.New("minefield: mine count must be in [0, rows*cols)")
	ErrOutOfBounds       = errors.New("minefield: coordinate out of bounds")
	ErrAlreadyRevealed   = errors.New("minefield: cell already revealed")
	ErrRaggedGrid        = errors.New("minefield: grid rows have different lengths")
	ErrBadAdjacency      = errors.New("minefield: adjacent mine count out of range")
)

// Cell is a single square of the board.
type Cell struct {
	Revealed      bool
	Flagged       bool
	HasMine       bool
	AdjacentMines int // 0..8 for safe cells, meaningless on mines
}

// Coord addresses a cell by row and column, both zero-based.
type Coord struct {
	Row int
	Col int
}

// At is shorthand for Coord{Row: row, Col: col}.
func At(row, col int) Coord {
	return Coord{Row: row, Col: col}
}

// neighborOffsets are the 8 Moore-neighborhood directions.
var neighborOffsets = [8]Coord{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}
