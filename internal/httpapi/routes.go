package httpapi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/park285/pente-server/internal/domain"
	"github.com/park285/pente-server/internal/obslog"
	"github.com/park285/pente-server/internal/pente"
	"github.com/park285/pente-server/internal/render"
	"github.com/park285/pente-server/pkg/pentedto"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const (
	minCellSize = 12
	maxCellSize = 64
)

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() && !ctx.IsHead() {
		s.fail(ctx, errMethod)
		return
	}
	parts := strings.Split(strings.Trim(string(ctx.Path()), "/"), "/")
	switch {
	case len(parts) == 2 && parts[0] == "newgame":
		s.handleNewGame(ctx, parts[1])
	case len(parts) == 4 && parts[0] == "nextmove":
		s.handleNextMove(ctx, parts[1], parts[2], parts[3])
	case len(parts) == 2 && parts[0] == "state":
		s.handleState(ctx, parts[1])
	case len(parts) == 2 && parts[0] == "board" && strings.HasSuffix(parts[1], ".png"):
		s.handleBoard(ctx, strings.TrimSuffix(parts[1], ".png"))
	case len(parts) == 1 && parts[0] == "results":
		s.handleResults(ctx)
	case len(parts) == 1 && parts[0] == "stats":
		s.handleStats(ctx)
	case len(parts) == 1 && parts[0] == "healthz":
		s.writeJSON(ctx, fasthttp.StatusOK, pentedto.HealthResponse{Status: "ok", Games: s.reg.Len(), RunID: s.reg.RunID()})
	default:
		s.fail(ctx, errNotFound)
	}
}

// handleNewGame starts a game; player is the side the computer plays.
func (s *Server) handleNewGame(ctx *fasthttp.RequestCtx, player string) {
	snap, err := s.reg.Create(ctx, player)
	if err != nil {
		s.fail(ctx, classify(err))
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, pentedto.NewGameResponse{ID: snap.ID, State: snap.State})
}

func (s *Server) handleNextMove(ctx *fasthttp.RequestCtx, rawID, rawRow, rawCol string) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		s.fail(ctx, errBadGame)
		return
	}
	row, rerr := strconv.Atoi(rawRow)
	col, cerr := strconv.Atoi(rawCol)
	if rerr != nil || cerr != nil {
		// unknown game still wins over bad coordinates
		if _, err := s.reg.Snapshot(ctx, id); err != nil {
			s.fail(ctx, classify(err))
			return
		}
		s.fail(ctx, errBadCoords)
		return
	}

	res, err := s.reg.PlayHuman(ctx, id, row, col)
	if err != nil {
		e := classify(err)
		if errors.Is(err, pente.ErrGameFinished) || errors.Is(err, pente.ErrNotYourTurn) {
			if snap, serr := s.reg.Snapshot(ctx, id); serr == nil {
				e.data = map[string]any{"Winner": string(snap.Winner), "Next": string(snap.Next)}
			}
		}
		s.fail(ctx, e)
		return
	}

	out := pentedto.MoveResponse{ID: res.GameID, State: res.State, Winner: string(res.Winner)}
	if res.AI != nil {
		r, c := res.AI.At.Row, res.AI.At.Col
		out.Row, out.Col = &r, &c
	}
	s.writeJSON(ctx, fasthttp.StatusOK, out)
}

func (s *Server) snapshot(ctx *fasthttp.RequestCtx, rawID string) (*pente.Snapshot, bool) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		s.fail(ctx, errBadGame)
		return nil, false
	}
	snap, err := s.reg.Snapshot(ctx, id)
	if err != nil {
		s.fail(ctx, classify(err))
		return nil, false
	}
	return snap, true
}

func (s *Server) handleState(ctx *fasthttp.RequestCtx, rawID string) {
	snap, ok := s.snapshot(ctx, rawID)
	if !ok {
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, pentedto.StateResponse{
		ID:        snap.ID,
		State:     snap.State,
		AISide:    string(snap.AISide),
		MoveCount: snap.MoveCount,
		Winner:    string(snap.Winner),
		Method:    string(snap.Method),
	})
}

// handleBoard renders the board. ?cell=n sets the grid spacing and
// ?last=0 hides the last-move marker.
func (s *Server) handleBoard(ctx *fasthttp.RequestCtx, rawID string) {
	snap, ok := s.snapshot(ctx, rawID)
	if !ok {
		return
	}
	opts := render.RenderOptions{
		MarkLastMove: string(ctx.QueryArgs().Peek("last")) != "0",
		HUD:          s.hudText(snap),
	}
	if n, err := ctx.QueryArgs().GetUint("cell"); err == nil {
		opts.CellSize = min(max(n, minCellSize), maxCellSize)
	}
	img, err := s.renderer.RenderPNG(ctx, snap, opts)
	if err != nil {
		obslog.L().Error("board_render_error", zap.Int("game_id", snap.ID), zap.Error(err))
		s.fail(ctx, errInternal)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("image/png")
	ctx.SetBody(img)
}

func (s *Server) hudText(snap *pente.Snapshot) string {
	data := map[string]any{
		"CapturedX": snap.CapturedX,
		"CapturedO": snap.CapturedO,
		"Next":      string(snap.Next),
		"Winner":    string(snap.Winner),
		"Method":    string(snap.Method),
	}
	key := "board.hud_turn"
	if snap.Winner != "" {
		key = "board.hud_winner"
	}
	// empty falls back to the renderer's own line
	return s.cat.RenderOr(key, data, "")
}

func (s *Server) queryLimit(ctx *fasthttp.RequestCtx) int {
	n, err := ctx.QueryArgs().GetUint("limit")
	if err != nil {
		return 0
	}
	return n
}

func (s *Server) handleResults(ctx *fasthttp.RequestCtx) {
	if s.results == nil {
		s.fail(ctx, apiError{fasthttp.StatusNotFound, "error.archive_disabled", map[string]any{"What": "Results"}, "Results are not available"})
		return
	}
	list, err := s.results.Recent(ctx, s.queryLimit(ctx))
	if err != nil {
		obslog.L().Error("results_read_error", zap.Error(err))
		s.fail(ctx, errInternal)
		return
	}
	out := pentedto.ResultsResponse{Results: make([]pentedto.GameResult, 0, len(list))}
	for _, r := range list {
		out.Results = append(out.Results, toResultDTO(r))
	}
	s.writeJSON(ctx, fasthttp.StatusOK, out)
}

func (s *Server) handleStats(ctx *fasthttp.RequestCtx) {
	if s.stats == nil {
		s.fail(ctx, apiError{fasthttp.StatusNotFound, "error.archive_disabled", map[string]any{"What": "Stats"}, "Stats are not available"})
		return
	}
	st, err := s.stats.Stats(ctx)
	if err != nil {
		obslog.L().Error("stats_read_error", zap.Error(err))
		s.fail(ctx, errInternal)
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, pentedto.StatsResponse{
		Games:        st.Games,
		WinsX:        st.WinsX,
		WinsO:        st.WinsO,
		ByLine:       st.ByLine,
		ByCapture:    st.ByCapture,
		HumanWins:    st.HumanWins,
		ComputerWins: st.ComputerWins,
	})
}

func toResultDTO(r *domain.GameResult) pentedto.GameResult {
	return pentedto.GameResult{
		RunID:      r.RunID,
		GameID:     r.GameID,
		AISide:     r.AISide,
		Winner:     r.Winner,
		Method:     r.Method,
		MoveCount:  r.MoveCount,
		CapturedX:  r.CapturedX,
		CapturedO:  r.CapturedO,
		Moves:      r.Moves,
		FinalState: r.FinalState,
		StartedAt:  r.StartedAt,
		EndedAt:    r.EndedAt,
		Duration:   r.Duration,
	}
}
