// Package pentebuilder wires the server's dependencies from config.
package pentebuilder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/park285/pente-server/internal/archive"
	"github.com/park285/pente-server/internal/config"
	"github.com/park285/pente-server/internal/httpapi"
	"github.com/park285/pente-server/internal/msgcat"
	"github.com/park285/pente-server/internal/pente"
	"github.com/park285/pente-server/internal/registry"
	"github.com/park285/pente-server/internal/render"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Deps struct {
	Registry *registry.Manager
	Catalog  *msgcat.Catalog
	Renderer render.BoardRenderer
	SQL      *archive.SQLStore
	Redis    *archive.RedisStore
	Server   *httpapi.Server

	rdb *redis.Client
}

// New builds the registry and HTTP server. Archive stores are wired only
// when DATABASE_URL, SQLITE_PATH or REDIS_URL is set.
func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	d := &Deps{
		Registry: registry.NewManager(pente.NewRandomSelector(cfg.AISeed), cfg.MaxConcurrentGames),
		Catalog:  cat,
		Renderer: render.NewBoardRenderer(),
	}

	var recorders archive.Multi
	if dsn := firstNonEmpty(cfg.DatabaseURL, cfg.SQLitePath); dsn != "" {
		store, err := archive.OpenSQL(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open archive: %w", err)
		}
		d.SQL = store
		recorders = append(recorders, store)
		logger.Info("archive_sql_ready", zap.String("driver", store.Driver()))
	}
	if strings.TrimSpace(cfg.RedisURL) != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			_ = d.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		d.rdb = rdb
		d.Redis = archive.NewRedisStore(rdb, cfg.ResultTTL())
		recorders = append(recorders, d.Redis)
		logger.Info("archive_redis_ready", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	}
	if len(recorders) > 0 {
		d.Registry.AttachRecorder(recorders)
	}

	opts := httpapi.Options{
		Catalog:      cat,
		Renderer:     d.Renderer,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	// typed nils would defeat the server's nil checks
	if d.SQL != nil {
		opts.Results = d.SQL
	} else if d.Redis != nil {
		opts.Results = d.Redis
	}
	if d.Redis != nil {
		opts.Stats = d.Redis
	}
	d.Server = httpapi.New(d.Registry, opts)
	return d, nil
}

// Close releases archive connections.
func (d *Deps) Close() error {
	if d == nil {
		return nil
	}
	var errs []error
	if d.SQL != nil {
		errs = append(errs, d.SQL.Close())
	}
	if d.rdb != nil {
		errs = append(errs, d.rdb.Close())
	}
	return errors.Join(errs...)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
