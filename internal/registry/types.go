package registry

import (
	"context"

	"github.com/park285/pente-server/internal/domain"
)

// Recorder receives finished games. Implemented by the archive stores.
type Recorder interface {
	Record(ctx context.Context, r *domain.GameResult) error
}

// Errors
var (
	ErrGameNotFound = errf("game not found")
	ErrRegistryFull = errf("too many active games")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }
