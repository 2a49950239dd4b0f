package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/park285/pente-server/internal/domain"
	"github.com/park285/pente-server/internal/obslog"
	"github.com/park285/pente-server/internal/pente"
	"go.uber.org/zap"
)

// entry pairs a game with the lock that serializes its moves.
type entry struct {
	mu   sync.Mutex
	game *pente.Game
}

// Manager maps game ids to sessions. Ids are sequential from 0 and never
// reused; sessions live as long as the Manager.
type Manager struct {
	runID    string
	mu       sync.RWMutex
	games    []*entry
	maxGames int
	selector pente.OpenCellSelector
	recorder Recorder
}

// NewManager builds a registry. maxGames <= 0 means unlimited; a nil
// selector uses a clock-seeded random pick.
func NewManager(selector pente.OpenCellSelector, maxGames int) *Manager {
	if selector == nil {
		selector = pente.NewRandomSelector(0)
	}
	return &Manager{runID: uuid.NewString(), selector: selector, maxGames: maxGames}
}

// RunID identifies this registry's lifetime in archived results.
func (m *Manager) RunID() string { return m.runID }

// AttachRecorder wires a store for finished-game results.
func (m *Manager) AttachRecorder(r Recorder) {
	if m != nil {
		m.recorder = r
	}
}

// Len returns the number of sessions created so far.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// Create starts a game with the computer on aiSide ("X" or "O").
func (m *Manager) Create(ctx context.Context, aiSide string) (*pente.Snapshot, error) {
	side, err := pente.ParseSide(aiSide)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.maxGames > 0 && len(m.games) >= m.maxGames {
		m.mu.Unlock()
		return nil, ErrRegistryFull
	}
	id := len(m.games)
	g, err := pente.NewGame(id, side, m.selector)
	if err != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("new game: %w", err)
	}
	m.games = append(m.games, &entry{game: g})
	snap := g.Snapshot()
	m.mu.Unlock()

	fields := []zap.Field{
		zap.Int("game_id", id),
		zap.String("ai_side", string(side)),
	}
	if snap.LastMove != nil {
		fields = append(fields, zap.Int("ai_row", snap.LastMove.At.Row), zap.Int("ai_col", snap.LastMove.At.Col))
	}
	obslog.L().Info("pente_game_create", fields...)
	return snap, nil
}

func (m *Manager) lookup(id int) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id < 0 || id >= len(m.games) {
		return nil, ErrGameNotFound
	}
	return m.games[id], nil
}

// Snapshot returns a copy of the game state.
func (m *Manager) Snapshot(ctx context.Context, id int) (*pente.Snapshot, error) {
	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.Snapshot(), nil
}

// PlayHuman applies the human move and the computer's reply for game id.
func (m *Manager) PlayHuman(ctx context.Context, id, row, col int) (*pente.MoveResult, error) {
	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	res, err := e.game.ApplyHumanMove(row, col)
	var result *domain.GameResult
	if err == nil && res.Finished {
		result = ResultFromGame(e.game)
		result.RunID = m.runID
	}
	e.mu.Unlock()

	if err != nil {
		obslog.L().Debug("pente_move_rejected",
			zap.Int("game_id", id),
			zap.Int("row", row),
			zap.Int("col", col),
			zap.Error(err),
		)
		return nil, err
	}

	fields := []zap.Field{
		zap.Int("game_id", id),
		zap.Int("row", row),
		zap.Int("col", col),
		zap.Int("captured", len(res.Human.Captured)),
	}
	if res.AI != nil {
		fields = append(fields,
			zap.Int("ai_row", res.AI.At.Row),
			zap.Int("ai_col", res.AI.At.Col),
			zap.Int("ai_captured", len(res.AI.Captured)),
		)
	}
	obslog.L().Info("pente_move", fields...)

	if result != nil {
		obslog.L().Info("pente_game_finish",
			zap.Int("game_id", id),
			zap.String("winner", result.Winner),
			zap.String("method", result.Method),
			zap.Int("moves", result.MoveCount),
		)
		_ = m.persistIfFinal(ctx, result)
	}
	return res, nil
}

// persistIfFinal hands a finished game to the recorder if one is attached.
func (m *Manager) persistIfFinal(ctx context.Context, r *domain.GameResult) error {
	if m == nil || m.recorder == nil || r == nil {
		return nil
	}
	if err := m.recorder.Record(ctx, r); err != nil {
		obslog.L().Error("pente_result_persist_error", zap.Int("game_id", r.GameID), zap.String("winner", r.Winner), zap.Error(err))
		return err
	}
	obslog.L().Info("pente_result_persist", zap.Int("game_id", r.GameID), zap.String("winner", r.Winner), zap.String("method", r.Method))
	return nil
}

// ResultFromGame builds the archive record for g. Call with the session locked.
func ResultFromGame(g *pente.Game) *domain.GameResult {
	if g == nil {
		return nil
	}
	moves := make([]string, 0, len(g.Moves))
	for _, mv := range g.Moves {
		moves = append(moves, fmt.Sprintf("%s:%d,%d", mv.Side, mv.At.Row, mv.At.Col))
	}
	ended := g.UpdatedAt
	if ended.IsZero() {
		ended = time.Now()
	}
	dur := ended.Sub(g.StartedAt)
	if dur < 0 {
		dur = 0
	}
	b := g.Board()
	return &domain.GameResult{
		GameID:     g.ID,
		AISide:     string(g.AISide),
		HumanSide:  string(g.HumanSide),
		Winner:     string(g.Winner),
		Method:     string(g.Method),
		MoveCount:  len(g.Moves),
		CapturedX:  b.Captured(pente.X),
		CapturedO:  b.Captured(pente.O),
		Moves:      moves,
		FinalState: g.State(),
		StartedAt:  g.StartedAt,
		EndedAt:    ended,
		Duration:   dur,
	}
}
