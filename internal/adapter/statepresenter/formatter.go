// Package statepresenter turns state strings and move replies into text.
package statepresenter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/park285/pente-server/internal/msgcat"
	"github.com/park285/pente-server/internal/pente"
	"github.com/park285/pente-server/pkg/pentedto"
)

// State is a parsed "{next}#{board}#{capX}#{capO}" string.
type State struct {
	Next      string
	Rows      [pente.Size]string
	CapturedX int
	CapturedO int
}

// Parse splits and validates a state string.
func Parse(state string) (*State, error) {
	parts := strings.Split(state, "#")
	if len(parts) != 4 {
		return nil, fmt.Errorf("state: want 4 fields, got %d", len(parts))
	}
	if _, err := pente.ParseSide(parts[0]); err != nil {
		return nil, fmt.Errorf("state: next player %q: %w", parts[0], err)
	}
	board := parts[1]
	if len(board) != pente.Cells {
		return nil, fmt.Errorf("state: board has %d cells", len(board))
	}
	if strings.Trim(board, "-XO") != "" {
		return nil, fmt.Errorf("state: board has characters outside -XO")
	}
	capX, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("state: captured by X: %w", err)
	}
	capO, err := strconv.Atoi(parts[3])
	if err != nil {
		return nil, fmt.Errorf("state: captured by O: %w", err)
	}

	s := &State{Next: parts[0], CapturedX: capX, CapturedO: capO}
	for i := range s.Rows {
		s.Rows[i] = board[i*pente.Size : (i+1)*pente.Size]
	}
	return s, nil
}

// At returns the cell character at (row, col).
func (s *State) At(row, col int) byte { return s.Rows[row][col] }

type Formatter struct {
	cat *msgcat.Catalog
}

func NewFormatter(cat *msgcat.Catalog) *Formatter {
	if cat == nil {
		cat = msgcat.MustDefault()
	}
	return &Formatter{cat: cat}
}

// Board prints a state in the block layout used by the smoke check.
func (f *Formatter) Board(state string) string {
	s, err := Parse(state)
	if err != nil {
		return "invalid state: " + err.Error()
	}
	var sb strings.Builder
	sb.WriteString("---Game State---\n")
	sb.WriteString("Next player: " + s.Next + "\n")
	for i, row := range s.Rows {
		fmt.Fprintf(&sb, "Row %d\t: %s\n", i, row)
	}
	fmt.Fprintf(&sb, "Captured by X: %d\n", s.CapturedX)
	fmt.Fprintf(&sb, "Captured by O: %d\n", s.CapturedO)
	sb.WriteString("----------------")
	return sb.String()
}

// Move summarizes a move reply in one or two lines.
func (f *Formatter) Move(resp *pentedto.MoveResponse) string {
	if resp == nil {
		return ""
	}
	s, err := Parse(resp.State)
	if err != nil {
		return "invalid state: " + err.Error()
	}
	data := map[string]any{
		"ID":        resp.ID,
		"Next":      s.Next,
		"Winner":    resp.Winner,
		"CapturedX": s.CapturedX,
		"CapturedO": s.CapturedO,
	}
	header := f.cat.RenderOr("presenter.header", data, fmt.Sprintf("Game %d", resp.ID))
	if resp.Winner != "" {
		header = f.cat.RenderOr("presenter.header_finished", data, header)
	}
	var reply string
	if resp.Row != nil && resp.Col != nil {
		reply = f.cat.RenderOr("presenter.computer_move", map[string]any{"Row": *resp.Row, "Col": *resp.Col},
			fmt.Sprintf("Computer played (%d, %d)", *resp.Row, *resp.Col))
	} else {
		reply = f.cat.RenderOr("presenter.computer_pass", nil, "Computer did not move")
	}
	return header + "\n" + reply
}
