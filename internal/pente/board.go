package pente

// Board owns the grid, the open-cell set and the capture counters of one
// game. The zero value is not usable; call NewBoard.
type Board struct {
	cells    [Cells]Cell
	open     [Cells]bool
	nOpen    int
	captured map[Side]int
}

func NewBoard() *Board {
	b := &Board{captured: map[Side]int{X: 0, O: 0}, nOpen: Cells}
	for i := range b.cells {
		b.cells[i] = Empty
		b.open[i] = true
	}
	return b
}

func (b *Board) Get(row, col int) (Cell, error) {
	c := Coord{Row: row, Col: col}
	if !c.InBounds() {
		return Empty, ErrOutOfBounds
	}
	return b.cells[c.index()], nil
}

// Set writes v at (row, col) and keeps the open set in step with it.
func (b *Board) Set(row, col int, v Cell) error {
	c := Coord{Row: row, Col: col}
	if !c.InBounds() {
		return ErrOutOfBounds
	}
	if v != Empty && v != StoneX && v != StoneO {
		return ErrInvalidCell
	}
	b.write(c, v)
	return nil
}

func (b *Board) IsOpen(row, col int) bool {
	c := Coord{Row: row, Col: col}
	return c.InBounds() && b.open[c.index()]
}

// PlaceStone is the only placement path: the cell must be empty.
func (b *Board) PlaceStone(row, col int, side Side) error {
	if !side.Valid() {
		return ErrInvalidSide
	}
	c := Coord{Row: row, Col: col}
	if !c.InBounds() {
		return ErrOutOfBounds
	}
	if !b.open[c.index()] {
		return ErrCellOccupied
	}
	b.write(c, side.Stone())
	return nil
}

// ClearAndReopen empties a captured cell. Out-of-bounds coordinates are ignored.
func (b *Board) ClearAndReopen(row, col int) {
	c := Coord{Row: row, Col: col}
	if !c.InBounds() {
		return
	}
	b.write(c, Empty)
}

func (b *Board) write(c Coord, v Cell) {
	i := c.index()
	wasOpen := b.open[i]
	b.cells[i] = v
	b.open[i] = v == Empty
	switch {
	case wasOpen && v != Empty:
		b.nOpen--
	case !wasOpen && v == Empty:
		b.nOpen++
	}
}

// at returns the cell at c, or Empty when c is off the board.
func (b *Board) at(c Coord) Cell {
	if !c.InBounds() {
		return Empty
	}
	return b.cells[c.index()]
}

// OpenCells lists the empty coordinates in row-major order.
func (b *Board) OpenCells() []Coord {
	out := make([]Coord, 0, b.nOpen)
	for i, ok := range b.open {
		if ok {
			out = append(out, coordAt(i))
		}
	}
	return out
}

func (b *Board) OpenCount() int { return b.nOpen }

func (b *Board) Captured(side Side) int { return b.captured[side] }

func (b *Board) addCaptures(side Side, n int) { b.captured[side] += n }

// Count returns how many cells hold v.
func (b *Board) Count(v Cell) int {
	n := 0
	for _, c := range b.cells {
		if c == v {
			n++
		}
	}
	return n
}

// String returns the 361-character row-major board text.
func (b *Board) String() string {
	buf := make([]byte, Cells)
	for i, c := range b.cells {
		buf[i] = byte(c)
	}
	return string(buf)
}
