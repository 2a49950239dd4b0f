package pente

import "strings"

// Size is the number of rows and columns on a Pente board.
const Size = 19

// Cells is the total number of board coordinates.
const Cells = Size * Size

const (
	// CaptureWinThreshold is the captured-stone count that wins the game.
	CaptureWinThreshold = 10
	// LineWinLength is the run length that wins the game.
	LineWinLength = 5
)

// Cell is the content of one board coordinate. The byte values are the
// characters used in the board text.
type Cell byte

const (
	Empty  Cell = '-'
	StoneX Cell = 'X'
	StoneO Cell = 'O'
)

func (c Cell) String() string { return string(c) }

// Side identifies a player.
type Side string

const (
	X Side = "X"
	O Side = "O"
)

// ParseSide accepts "X" or "O" (surrounding spaces ignored).
func ParseSide(s string) (Side, error) {
	switch Side(strings.TrimSpace(s)) {
	case X:
		return X, nil
	case O:
		return O, nil
	default:
		return "", ErrInvalidSide
	}
}

func (s Side) Valid() bool { return s == X || s == O }

// Opponent returns the other side. An invalid side returns itself.
func (s Side) Opponent() Side {
	switch s {
	case X:
		return O
	case O:
		return X
	default:
		return s
	}
}

// Stone returns the cell value a side places.
func (s Side) Stone() Cell {
	if s == O {
		return StoneO
	}
	return StoneX
}

// Coord addresses one board cell.
type Coord struct {
	Row int
	Col int
}

func (c Coord) InBounds() bool {
	return c.Row >= 0 && c.Row < Size && c.Col >= 0 && c.Col < Size
}

// Add offsets c by k steps of direction d.
func (c Coord) Add(d Coord, k int) Coord {
	return Coord{Row: c.Row + d.Row*k, Col: c.Col + d.Col*k}
}

func (c Coord) index() int { return c.Row*Size + c.Col }

func coordAt(i int) Coord { return Coord{Row: i / Size, Col: i % Size} }

// WinMethod names how a game was won.
type WinMethod string

const (
	WinNone    WinMethod = ""
	WinLine    WinMethod = "line"
	WinCapture WinMethod = "capture"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinished   Status = "FINISHED"
)

// Errors
var (
	ErrOutOfBounds  = errf("row/col out of bounds")
	ErrCellOccupied = errf("space already occupied")
	ErrInvalidSide  = errf("player must be X or O")
	ErrGameFinished = errf("game already finished")
	ErrNotYourTurn  = errf("not this side's turn")
	ErrNoOpenCells  = errf("no open cells left")
	ErrInvalidCell  = errf("cell must be '-', 'X' or 'O'")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }
