package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/park285/pente-server/internal/obslog"
)

type AppConfig struct {
	Addr string `env:"PENTE_ADDR" envDefault:":5000"`

	MaxConcurrentGames int    `env:"MAX_CONCURRENT_GAMES" envDefault:"0"`
	AISeed             uint64 `env:"AI_SEED" envDefault:"0"`

	RedisURL     string `env:"REDIS_URL"`
	DatabaseURL  string `env:"DATABASE_URL"`
	SQLitePath   string `env:"SQLITE_PATH"`
	ResultTTLSec int    `env:"RESULT_TTL_SEC" envDefault:"86400"`

	MessagesDir string `env:"MESSAGES_DIR"`

	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`

	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"LOG_FORMAT" envDefault:"legacy"`
	LogToConsole bool   `env:"LOG_TO_CONSOLE" envDefault:"true"`
	LogToFile    bool   `env:"LOG_TO_FILE" envDefault:"false"`
	LogFile      string `env:"LOG_FILE" envDefault:"logs/pente.log"`
	LogCaller    bool   `env:"LOG_CALLER" envDefault:"false"`
}

// Load reads AppConfig from the environment.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.RedisURL = strings.TrimSpace(cfg.RedisURL)
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.SQLitePath = strings.TrimSpace(cfg.SQLitePath)
	cfg.MessagesDir = strings.TrimSpace(cfg.MessagesDir)

	if cfg.Addr == "" {
		return nil, errors.New("PENTE_ADDR is required")
	}
	if cfg.MaxConcurrentGames < 0 {
		cfg.MaxConcurrentGames = 0
	}
	if cfg.ResultTTLSec <= 0 {
		cfg.ResultTTLSec = 86400
	}
	if cfg.DatabaseURL != "" && cfg.SQLitePath != "" {
		return nil, errors.New("set only one of DATABASE_URL and SQLITE_PATH")
	}
	return cfg, nil
}

func (c *AppConfig) ResultTTL() time.Duration {
	return time.Duration(c.ResultTTLSec) * time.Second
}

// LogOptions maps the LOG_* settings onto obslog.
func (c *AppConfig) LogOptions() obslog.Options {
	return obslog.Options{
		Level:     c.LogLevel,
		Format:    c.LogFormat,
		ToConsole: c.LogToConsole,
		ToFile:    c.LogToFile,
		FilePath:  c.LogFile,
		Caller:    c.LogCaller,
	}
}
