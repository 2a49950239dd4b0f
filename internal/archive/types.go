// Package archive stores finished games. Live sessions are never read back
// from it.
package archive

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/park285/pente-server/internal/domain"
)

const (
	defaultRecent = 20
	maxRecent     = 100
)

// Stats is the Redis counter summary.
type Stats struct {
	Games        int64 `json:"games"`
	WinsX        int64 `json:"winsX"`
	WinsO        int64 `json:"winsO"`
	ByLine       int64 `json:"byLine"`
	ByCapture    int64 `json:"byCapture"`
	HumanWins    int64 `json:"humanWins"`
	ComputerWins int64 `json:"computerWins"`
}

// record is the JSON shape kept in Redis.
type record struct {
	RunID      string   `json:"runId"`
	GameID     int      `json:"gameId"`
	AISide     string   `json:"aiSide"`
	HumanSide  string   `json:"humanSide"`
	Winner     string   `json:"winner"`
	Method     string   `json:"method"`
	MoveCount  int      `json:"moveCount"`
	CapturedX  int      `json:"capturedX"`
	CapturedO  int      `json:"capturedO"`
	Moves      []string `json:"moves"`
	FinalState string   `json:"finalState"`
	StartedAt  int64    `json:"startedAt"`
	EndedAt    int64    `json:"endedAt"`
	DurationMS int64    `json:"durationMs"`
}

func toRecord(r *domain.GameResult) record {
	return record{
		RunID:      r.RunID,
		GameID:     r.GameID,
		AISide:     r.AISide,
		HumanSide:  r.HumanSide,
		Winner:     r.Winner,
		Method:     r.Method,
		MoveCount:  r.MoveCount,
		CapturedX:  r.CapturedX,
		CapturedO:  r.CapturedO,
		Moves:      append([]string(nil), r.Moves...),
		FinalState: r.FinalState,
		StartedAt:  r.StartedAt.UTC().UnixMilli(),
		EndedAt:    r.EndedAt.UTC().UnixMilli(),
		DurationMS: r.Duration.Milliseconds(),
	}
}

func (rec record) result() *domain.GameResult {
	return &domain.GameResult{
		RunID:      rec.RunID,
		GameID:     rec.GameID,
		AISide:     rec.AISide,
		HumanSide:  rec.HumanSide,
		Winner:     rec.Winner,
		Method:     rec.Method,
		MoveCount:  rec.MoveCount,
		CapturedX:  rec.CapturedX,
		CapturedO:  rec.CapturedO,
		Moves:      rec.Moves,
		FinalState: rec.FinalState,
		StartedAt:  time.UnixMilli(rec.StartedAt).UTC(),
		EndedAt:    time.UnixMilli(rec.EndedAt).UTC(),
		Duration:   time.Duration(rec.DurationMS) * time.Millisecond,
	}
}

func resultKey(r *domain.GameResult) string {
	return r.RunID + ":" + strconv.Itoa(r.GameID)
}

// Recorder is implemented by every store in this package.
type Recorder interface {
	Record(ctx context.Context, r *domain.GameResult) error
}

// Multi fans a result out to every store. All stores are tried; errors are
// joined.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, r *domain.GameResult) error {
	var errs []error
	for _, rec := range m {
		if rec == nil {
			continue
		}
		if err := rec.Record(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
