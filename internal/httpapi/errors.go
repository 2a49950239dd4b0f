package httpapi

import (
	"errors"

	"github.com/park285/pente-server/internal/obslog"
	"github.com/park285/pente-server/internal/pente"
	"github.com/park285/pente-server/internal/registry"
	"github.com/park285/pente-server/pkg/pentedto"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// apiError pairs a status with a catalog key and its template data.
type apiError struct {
	status   int
	key      string
	data     map[string]any
	fallback string
}

var (
	errBadPlayer = apiError{fasthttp.StatusBadRequest, "error.invalid_player", nil, "Player must be 'X' or 'O'"}
	errBadGame   = apiError{fasthttp.StatusNotFound, "error.invalid_game", nil, "Invalid gameID"}
	errBadCoords = apiError{fasthttp.StatusBadRequest, "error.invalid_coords", nil, "Invalid row/col pair"}
	errOccupied  = apiError{fasthttp.StatusBadRequest, "error.occupied", nil, "Space already occupied"}
	errFull      = apiError{fasthttp.StatusServiceUnavailable, "error.registry_full", nil, "Too many games in progress, try again later"}
	errNotFound  = apiError{fasthttp.StatusNotFound, "error.not_found", nil, "Not found"}
	errMethod    = apiError{fasthttp.StatusMethodNotAllowed, "error.method_not_allowed", nil, "Method not allowed"}
	errInternal  = apiError{fasthttp.StatusInternalServerError, "error.internal", nil, "Internal server error"}
)

// classify maps registry and engine errors onto API errors. Callers add
// template data for the finished and turn cases.
func classify(err error) apiError {
	switch {
	case errors.Is(err, registry.ErrGameNotFound):
		return errBadGame
	case errors.Is(err, registry.ErrRegistryFull):
		return errFull
	case errors.Is(err, pente.ErrInvalidSide):
		return errBadPlayer
	case errors.Is(err, pente.ErrOutOfBounds):
		return errBadCoords
	case errors.Is(err, pente.ErrCellOccupied):
		return errOccupied
	case errors.Is(err, pente.ErrGameFinished):
		return apiError{fasthttp.StatusBadRequest, "error.finished", nil, "Game already finished"}
	case errors.Is(err, pente.ErrNotYourTurn):
		return apiError{fasthttp.StatusBadRequest, "error.not_your_turn", nil, "Not your turn"}
	default:
		return errInternal
	}
}

func (s *Server) fail(ctx *fasthttp.RequestCtx, e apiError) {
	s.writeError(ctx, e.status, e.key, e.data, e.fallback)
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, key string, data map[string]any, fallback string) {
	msg := s.cat.RenderOr(key, data, fallback)
	if status >= fasthttp.StatusInternalServerError {
		obslog.L().Warn("http_error",
			zap.Any("request_id", ctx.UserValue(requestIDHeader)),
			zap.Int("status", status),
			zap.String("key", key),
		)
	}
	s.writeJSON(ctx, status, pentedto.ErrorResponse{Error: msg})
}
