package pentedto

import "time"

// GameResult is one archived game.
type GameResult struct {
	RunID      string        `json:"runId"`
	GameID     int           `json:"gameId"`
	AISide     string        `json:"aiSide"`
	Winner     string        `json:"winner"`
	Method     string        `json:"method"`
	MoveCount  int           `json:"moveCount"`
	CapturedX  int           `json:"capturedX"`
	CapturedO  int           `json:"capturedO"`
	Moves      []string      `json:"moves"`
	FinalState string        `json:"finalState"`
	StartedAt  time.Time     `json:"startedAt"`
	EndedAt    time.Time     `json:"endedAt"`
	Duration   time.Duration `json:"durationNs"`
}

type ResultsResponse struct {
	Results []GameResult `json:"results"`
}

type StatsResponse struct {
	Games        int64 `json:"games"`
	WinsX        int64 `json:"winsX"`
	WinsO        int64 `json:"winsO"`
	ByLine       int64 `json:"byLine"`
	ByCapture    int64 `json:"byCapture"`
	HumanWins    int64 `json:"humanWins"`
	ComputerWins int64 `json:"computerWins"`
}
