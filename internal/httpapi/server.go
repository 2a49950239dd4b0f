// Package httpapi exposes the game registry over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/park285/pente-server/internal/archive"
	"github.com/park285/pente-server/internal/domain"
	"github.com/park285/pente-server/internal/msgcat"
	"github.com/park285/pente-server/internal/obslog"
	"github.com/park285/pente-server/internal/registry"
	"github.com/park285/pente-server/internal/render"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

// ResultLister lists archived games.
type ResultLister interface {
	Recent(ctx context.Context, limit int) ([]*domain.GameResult, error)
}

// StatsSource reads archive counters.
type StatsSource interface {
	Stats(ctx context.Context) (*archive.Stats, error)
}

type Options struct {
	Catalog      *msgcat.Catalog
	Renderer     render.BoardRenderer
	Results      ResultLister
	Stats        StatsSource
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Server struct {
	reg      *registry.Manager
	cat      *msgcat.Catalog
	renderer render.BoardRenderer
	results  ResultLister
	stats    StatsSource
	srv      *fasthttp.Server
}

func New(reg *registry.Manager, opts Options) *Server {
	s := &Server{
		reg:      reg,
		cat:      opts.Catalog,
		renderer: opts.Renderer,
		results:  opts.Results,
		stats:    opts.Stats,
	}
	if s.cat == nil {
		s.cat = msgcat.MustDefault()
	}
	if s.renderer == nil {
		s.renderer = render.NewBoardRenderer()
	}
	rt, wt := opts.ReadTimeout, opts.WriteTimeout
	if rt <= 0 {
		rt = 10 * time.Second
	}
	if wt <= 0 {
		wt = 10 * time.Second
	}
	s.srv = &fasthttp.Server{
		Handler:      s.Handler(),
		Name:         "pente-server",
		ReadTimeout:  rt,
		WriteTimeout: wt,
		Logger:       fasthttpLogger{},
	}
	return s
}

// Handler returns the routed handler wrapped with request ids, access
// logging and panic recovery.
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.middleware(s.route)
}

func (s *Server) Serve(ln net.Listener) error { return s.srv.Serve(ln) }

func (s *Server) ListenAndServe(addr string) error {
	obslog.L().Info("http_listen", zap.String("addr", addr))
	return s.srv.ListenAndServe(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.srv.ShutdownWithContext(ctx) }

func (s *Server) middleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		rid := strings.TrimSpace(string(ctx.Request.Header.Peek(requestIDHeader)))
		if rid == "" {
			rid = uuid.NewString()
		}
		ctx.SetUserValue(requestIDHeader, rid)
		ctx.Response.Header.Set(requestIDHeader, rid)

		defer func() {
			if p := recover(); p != nil {
				obslog.L().Error("http_panic",
					zap.String("request_id", rid),
					zap.ByteString("path", ctx.Path()),
					zap.Any("panic", p),
				)
				s.writeError(ctx, fasthttp.StatusInternalServerError, "error.internal", nil, "Internal server error")
			}
			obslog.L().Info("http_request",
				zap.String("request_id", rid),
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("path", ctx.Path()),
				zap.Int("status", ctx.Response.StatusCode()),
				zap.Duration("elapsed", time.Since(start)),
			)
		}()
		next(ctx)
	}
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, status int, body any) {
	raw, err := json.Marshal(body)
	if err != nil {
		obslog.L().Error("http_encode_error", zap.Error(err))
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(raw)
}

type fasthttpLogger struct{}

func (fasthttpLogger) Printf(format string, args ...any) {
	obslog.L().Sugar().Warnf(format, args...)
}
