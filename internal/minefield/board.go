package minefield

import (
	"fmt"
	"math/rand/v2"
)

// Board is a fixed-size rectangular grid of cells stored row-major.
type Board struct {
	rows  int
	cols  int
	cells []Cell
}

// Generate creates a board with mines placed uniformly at random.
// Mines are placed by rejection sampling until the requested number of
// distinct cells is mined, then every safe cell gets its adjacency count.
func Generate(rows, cols, mines int, rng *rand.Rand) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	if mines < 0 || mines >= rows*cols {
		return nil, fmt.Errorf("%w: %d mines on %dx%d", ErrTooManyMines, mines, rows, cols)
	}

	b := newBoard(rows, cols)
	placed := 0
	for placed < mines {
		i := rng.IntN(len(b.cells))
		if b.cells[i].HasMine {
			continue
		}
		b.cells[i].HasMine = true
		placed++
	}

	b.computeAdjacency()
	return b, nil
}

// FromGrid builds a board from a row-major grid of cells.
// The grid is copied. Used to restore saved boards and to build fixtures.
func FromGrid(grid [][]Cell) (*Board, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, ErrInvalidDimensions
	}

	rows, cols := len(grid), len(grid[0])
	b := newBoard(rows, cols)
	for r, row := range grid {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedGrid, r, len(row), cols)
		}
		for c, cell := range row {
			if !cell.HasMine && (cell.AdjacentMines < 0 || cell.AdjacentMines > 8) {
				return nil, fmt.Errorf("%w: %d at (%d,%d)", ErrBadAdjacency, cell.AdjacentMines, r, c)
			}
			b.cells[r*cols+c] = cell
		}
	}
	return b, nil
}

// WithMines builds an unrevealed board with mines at the given coordinates
// and correct adjacency counts. Out-of-bounds coordinates are rejected.
func WithMines(rows, cols int, mines ...Coord) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	b := newBoard(rows, cols)
	for _, m := range mines {
		if !b.InBounds(m) {
			return nil, fmt.Errorf("%w: mine at (%d,%d)", ErrOutOfBounds, m.Row, m.Col)
		}
		b.cells[b.index(m)].HasMine = true
	}
	b.computeAdjacency()
	return b, nil
}

func newBoard(rows, cols int) *Board {
	return &Board{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
}

// computeAdjacency fills AdjacentMines for every safe cell.
func (b *Board) computeAdjacency() {
	for r := range b.rows {
		for c := range b.cols {
			at := Coord{r, c}
			i := b.index(at)
			if b.cells[i].HasMine {
				b.cells[i].AdjacentMines = 0
				continue
			}
			count := 0
			for _, n := range b.Neighbors(at) {
				if b.cells[b.index(n)].HasMine {
					count++
				}
			}
			b.cells[i].AdjacentMines = count
		}
	}
}

func (b *Board) index(at Coord) int {
	return at.Row*b.cols + at.Col
}

// clone returns a deep copy of the board.
func (b *Board) clone() *Board {
	out := &Board{rows: b.rows, cols: b.cols, cells: make([]Cell, len(b.cells))}
	copy(out.cells, b.cells)
	return out
}

// Rows returns the number of rows.
func (b *Board) Rows() int {
	return b.rows
}

// Cols returns the number of columns.
func (b *Board) Cols() int {
	return b.cols
}

// InBounds reports whether the coordinate lies on the board.
func (b *Board) InBounds(at Coord) bool {
	return at.Row >= 0 && at.Row < b.rows && at.Col >= 0 && at.Col < b.cols
}

// At returns the cell at the coordinate. The second result is false when the
// coordinate is out of bounds.
func (b *Board) At(at Coord) (Cell, bool) {
	if !b.InBounds(at) {
		return Cell{}, false
	}
	return b.cells[b.index(at)], true
}

// Neighbors returns the in-bounds Moore neighbors of a cell.
func (b *Board) Neighbors(at Coord) []Coord {
	out := make([]Coord, 0, len(neighborOffsets))
	for _, d := range neighborOffsets {
		n := Coord{at.Row + d.Row, at.Col + d.Col}
		if b.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// Grid returns a row-major copy of all cells.
func (b *Board) Grid() [][]Cell {
	grid := make([][]Cell, b.rows)
	for r := range b.rows {
		grid[r] = make([]Cell, b.cols)
		copy(grid[r], b.cells[r*b.cols:(r+1)*b.cols])
	}
	return grid
}

// Equal reports whether two boards have the same dimensions and cells.
func (b *Board) Equal(other *Board) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.rows != other.rows || b.cols != other.cols {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// MineCount returns the number of mined cells.
func (b *Board) MineCount() int {
	n := 0
	for _, c := range b.cells {
		if c.HasMine {
			n++
		}
	}
	return n
}

// FlaggedCount returns the number of flagged cells.
func (b *Board) FlaggedCount() int {
	n := 0
	for _, c := range b.cells {
		if c.Flagged {
			n++
		}
	}
	return n
}

// RevealedSafe returns the number of revealed cells without a mine.
func (b *Board) RevealedSafe() int {
	n := 0
	for _, c := range b.cells {
		if c.Revealed && !c.HasMine {
			n++
		}
	}
	return n
}

// IncorrectFlags returns the number of flagged cells that hold no mine.
func (b *Board) IncorrectFlags() int {
	n := 0
	for _, c := range b.cells {
		if c.Flagged && !c.HasMine {
			n++
		}
	}
	return n
}

// Cleared reports whether every safe cell has been revealed.
func (b *Board) Cleared() bool {
	for _, c := range b.cells {
		if !c.HasMine && !c.Revealed {
			return false
		}
	}
	return true
}

// ToggleFlag flips the flag on an unrevealed cell and returns the new board
// together with the new flag value.
func ToggleFlag(b *Board, at Coord) (*Board, bool, error) {
	cell, ok := b.At(at)
	if !ok {
		return b, false, ErrOutOfBounds
	}
	if cell.Revealed {
		return b, cell.Flagged, ErrAlreadyRevealed
	}

	out := b.clone()
	out.cells[out.index(at)].Flagged = !cell.Flagged
	return out, !cell.Flagged, nil
}

// RevealMines returns a board with every mine revealed. Flags stay in place.
func RevealMines(b *Board) *Board {
	out := b.clone()
	for i := range out.cells {
		if out.cells[i].HasMine {
			out.cells[i].Revealed = true
		}
	}
	return out
}
