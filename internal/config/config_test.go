package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":5000" {
		t.Fatalf("Addr: %q", cfg.Addr)
	}
	if cfg.MaxConcurrentGames != 0 {
		t.Fatalf("MaxConcurrentGames: %d", cfg.MaxConcurrentGames)
	}
	if cfg.ResultTTL() != 24*time.Hour {
		t.Fatalf("ResultTTL: %v", cfg.ResultTTL())
	}
	if cfg.ReadTimeout != 10*time.Second {
		t.Fatalf("ReadTimeout: %v", cfg.ReadTimeout)
	}
	if !cfg.LogToConsole || cfg.LogToFile {
		t.Fatalf("log sinks: console=%v file=%v", cfg.LogToConsole, cfg.LogToFile)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PENTE_ADDR", " 127.0.0.1:8080 ")
	t.Setenv("MAX_CONCURRENT_GAMES", "50")
	t.Setenv("AI_SEED", "7")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("SQLITE_PATH", "/tmp/pente.db")
	t.Setenv("RESULT_TTL_SEC", "60")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("HTTP_READ_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:8080" {
		t.Fatalf("Addr: %q", cfg.Addr)
	}
	if cfg.MaxConcurrentGames != 50 || cfg.AISeed != 7 {
		t.Fatalf("unexpected ints: %+v", cfg)
	}
	if cfg.RedisURL != "redis://localhost:6379/1" || cfg.SQLitePath != "/tmp/pente.db" {
		t.Fatalf("stores: %+v", cfg)
	}
	if cfg.ResultTTL() != time.Minute {
		t.Fatalf("ResultTTL: %v", cfg.ResultTTL())
	}
	if cfg.ReadTimeout != 3*time.Second {
		t.Fatalf("ReadTimeout: %v", cfg.ReadTimeout)
	}
	if opts := cfg.LogOptions(); opts.Format != "json" || !opts.ToConsole {
		t.Fatalf("log options: %+v", opts)
	}
}

func TestLoadRejectsBothSQLStores(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/pente")
	t.Setenv("SQLITE_PATH", "pente.db")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when both SQL stores are configured")
	}
}

func TestLoadRejectsBadNumber(t *testing.T) {
	t.Setenv("MAX_CONCURRENT_GAMES", "many")
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}
