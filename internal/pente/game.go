package pente

import (
	"strconv"
	"strings"
	"time"
)

// Move is one applied placement with the stones it captured.
type Move struct {
	Side     Side
	At       Coord
	Captured []Coord
}

// Game is one session: turn order, the board it exclusively owns, and the
// outcome once finished. Game is not safe for concurrent use; callers
// serialize moves per game.
type Game struct {
	ID        int
	AISide    Side
	HumanSide Side
	Next      Side
	Winner    Side
	Method    WinMethod
	Moves     []Move
	StartedAt time.Time
	UpdatedAt time.Time

	board    *Board
	selector OpenCellSelector
}

// MoveResult is returned by ApplyHumanMove.
type MoveResult struct {
	GameID int
	Human  Move
	// AI is nil when the computer did not move (the human move ended the game).
	AI       *Move
	State    string
	Winner   Side
	Method   WinMethod
	Finished bool
}

// NewGame starts a session with the computer on aiSide. When the computer
// plays X it makes the opening placement before NewGame returns.
func NewGame(id int, aiSide Side, selector OpenCellSelector) (*Game, error) {
	if !aiSide.Valid() {
		return nil, ErrInvalidSide
	}
	if selector == nil {
		selector = NewRandomSelector(0)
	}
	now := time.Now()
	g := &Game{
		ID:        id,
		AISide:    aiSide,
		HumanSide: aiSide.Opponent(),
		Next:      X,
		StartedAt: now,
		UpdatedAt: now,
		board:     NewBoard(),
		selector:  selector,
	}
	if aiSide == X {
		if _, err := g.playAI(); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Game) Board() *Board { return g.board }

func (g *Game) Status() Status {
	if g.Winner != "" {
		return StatusFinished
	}
	return StatusInProgress
}

func (g *Game) Finished() bool { return g.Winner != "" }

// ApplyMove places side's stone at (row, col), resolves captures, checks for
// a win and advances the turn. A rejected move changes nothing.
func (g *Game) ApplyMove(row, col int, side Side) (Move, error) {
	if g.Finished() {
		return Move{}, ErrGameFinished
	}
	if side != g.Next {
		return Move{}, ErrNotYourTurn
	}
	if err := g.board.PlaceStone(row, col, side); err != nil {
		return Move{}, err
	}
	at := Coord{Row: row, Col: col}
	mv := Move{Side: side, At: at}
	mv.Captured = ResolveCaptures(g.board, at, side)
	g.Moves = append(g.Moves, mv)
	g.UpdatedAt = time.Now()

	if method := DetectWin(g.board, at, side); method != WinNone {
		g.Winner = side
		g.Method = method
		return mv, nil
	}
	g.Next = side.Opponent()
	return mv, nil
}

// ApplyHumanMove plays the human side at (row, col) and, if the game is
// still running and the board has room, answers with one computer move.
func (g *Game) ApplyHumanMove(row, col int) (*MoveResult, error) {
	human, err := g.ApplyMove(row, col, g.HumanSide)
	if err != nil {
		return nil, err
	}
	res := &MoveResult{GameID: g.ID, Human: human}
	if !g.Finished() && g.board.OpenCount() > 0 {
		ai, err := g.playAI()
		if err != nil {
			return nil, err
		}
		res.AI = &ai
	}
	res.State = g.State()
	res.Winner = g.Winner
	res.Method = g.Method
	res.Finished = g.Finished()
	return res, nil
}

func (g *Game) playAI() (Move, error) {
	open := g.board.OpenCells()
	if len(open) == 0 {
		return Move{}, ErrNoOpenCells
	}
	at := g.selector.Pick(open)
	if !g.board.IsOpen(at.Row, at.Col) {
		at = open[0]
	}
	return g.ApplyMove(at.Row, at.Col, g.AISide)
}

// State renders "{next}#{board}#{capturedX}#{capturedO}".
func (g *Game) State() string {
	var b strings.Builder
	b.Grow(len(g.Next) + Cells + 8)
	b.WriteString(string(g.Next))
	b.WriteByte('#')
	b.WriteString(g.board.String())
	b.WriteByte('#')
	b.WriteString(strconv.Itoa(g.board.Captured(X)))
	b.WriteByte('#')
	b.WriteString(strconv.Itoa(g.board.Captured(O)))
	return b.String()
}

// Snapshot is a read-only copy of a game, safe to hand out after the
// session lock is released.
type Snapshot struct {
	ID        int
	AISide    Side
	HumanSide Side
	Next      Side
	Winner    Side
	Method    WinMethod
	Cells     [Cells]Cell
	CapturedX int
	CapturedO int
	MoveCount int
	LastMove  *Move
	State     string
	StartedAt time.Time
	UpdatedAt time.Time
}

func (g *Game) Snapshot() *Snapshot {
	s := &Snapshot{
		ID:        g.ID,
		AISide:    g.AISide,
		HumanSide: g.HumanSide,
		Next:      g.Next,
		Winner:    g.Winner,
		Method:    g.Method,
		Cells:     g.board.cells,
		CapturedX: g.board.Captured(X),
		CapturedO: g.board.Captured(O),
		MoveCount: len(g.Moves),
		State:     g.State(),
		StartedAt: g.StartedAt,
		UpdatedAt: g.UpdatedAt,
	}
	if n := len(g.Moves); n > 0 {
		last := g.Moves[n-1]
		last.Captured = append([]Coord(nil), last.Captured...)
		s.LastMove = &last
	}
	return s
}

// At returns the snapshot cell at (row, col); off-board reads are Empty.
func (s *Snapshot) At(row, col int) Cell {
	c := Coord{Row: row, Col: col}
	if !c.InBounds() {
		return Empty
	}
	return s.Cells[c.index()]
}
