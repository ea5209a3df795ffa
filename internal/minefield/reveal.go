package minefield

import "github.com/gammazero/deque"

// Reveal opens the cell at the coordinate and returns the resulting board.
//
// Revealing an already revealed cell returns b itself. Otherwise the target
// is revealed and un-flagged; when it is a safe cell with no adjacent mines
// the reveal spreads to all 8 neighbors, breadth first, through the whole
// connected zero region and its numbered border. Mines are never opened by
// the spread, only when they are the direct target.
//
// Cells opened by the spread keep their flag bit, so a wrong flag swept up
// by a cascade stays visible and still counts in IncorrectFlags.
func Reveal(b *Board, at Coord) (*Board, error) {
	cell, ok := b.At(at)
	if !ok {
		return b, ErrOutOfBounds
	}
	if cell.Revealed {
		return b, nil
	}

	out := b.clone()
	out.cells[out.index(at)].Flagged = false
	var queue deque.Deque[Coord]
	if out.open(at) {
		queue.PushBack(at)
	}

	for queue.Len() > 0 {
		cur := queue.PopFront()
		for _, n := range out.Neighbors(cur) {
			c := out.cells[out.index(n)]
			if c.Revealed || c.HasMine {
				continue
			}
			if out.open(n) {
				queue.PushBack(n)
			}
		}
	}

	return out, nil
}

// open reveals a single cell.
// Returns true when the reveal should spread from this cell.
func (b *Board) open(at Coord) bool {
	c := &b.cells[b.index(at)]
	c.Revealed = true
	return !c.HasMine && c.AdjacentMines == 0
}
