// Package pentedto holds the JSON bodies exchanged over the HTTP API.
package pentedto

// NewGameResponse answers GET /newgame/{player}.
type NewGameResponse struct {
	ID    int    `json:"ID"`
	State string `json:"state"`
}

// MoveResponse answers GET /nextmove/{id}/{row}/{col}. Row and Col hold the
// computer's reply and are null when it did not move.
type MoveResponse struct {
	ID     int    `json:"ID"`
	Row    *int   `json:"row"`
	Col    *int   `json:"col"`
	State  string `json:"state"`
	Winner string `json:"winner,omitempty"`
}

// StateResponse answers GET /state/{id}.
type StateResponse struct {
	ID        int    `json:"ID"`
	State     string `json:"state"`
	AISide    string `json:"aiSide"`
	MoveCount int    `json:"moveCount"`
	Winner    string `json:"winner,omitempty"`
	Method    string `json:"method,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Games  int    `json:"games"`
	RunID  string `json:"runId"`
}
