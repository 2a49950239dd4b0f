package domain

import "time"

// GameResult is the archived record of a finished game.
//
// RunID distinguishes server runs, since game ids restart at 0.
type GameResult struct {
	RunID      string
	GameID     int
	AISide     string
	HumanSide  string
	Winner     string
	Method     string
	MoveCount  int
	CapturedX  int
	CapturedO  int
	Moves      []string // "side:row,col" in play order
	FinalState string
	StartedAt  time.Time
	EndedAt    time.Time
	Duration   time.Duration
}

// WinnerIsHuman reports whether the human side won.
func (r *GameResult) WinnerIsHuman() bool {
	return r != nil && r.Winner != "" && r.Winner == r.HumanSide
}
