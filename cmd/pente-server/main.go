package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcfg "github.com/park285/pente-server/internal/config"
	"github.com/park285/pente-server/internal/obslog"
	"github.com/park285/pente-server/internal/pentebuilder"
	"go.uber.org/zap"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.Init(cfg.LogOptions()); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	initCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	deps, err := pentebuilder.New(initCtx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal("pente_init_error", zap.Error(err))
	}
	defer func() { _ = deps.Close() }()

	logger.Info("pente_server_start",
		zap.String("addr", cfg.Addr),
		zap.String("run_id", deps.Registry.RunID()),
		zap.Int("max_games", cfg.MaxConcurrentGames),
		zap.Bool("sql_archive", deps.SQL != nil),
		zap.Bool("redis_archive", deps.Redis != nil),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- deps.Server.ListenAndServe(cfg.Addr) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("pente_server_signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("pente_server_error", zap.Error(err))
		}
	}

	shutdownCtx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer scancel()
	if err := deps.Server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("pente_server_shutdown_error", zap.Error(err))
	}
	logger.Info("pente_server_stop", zap.Int("games", deps.Registry.Len()))
}
