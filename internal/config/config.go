package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/inamate/whiteboard/internal/engine"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	StaticDir      string `envconfig:"STATIC_DIR" default:"./web/dist"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`

	GridSize             float64       `envconfig:"GRID_SIZE" default:"20"`
	GridVisible          bool          `envconfig:"GRID_VISIBLE" default:"true"`
	LockCurrentTool      bool          `envconfig:"LOCK_CURRENT_TOOL" default:"false"`
	DoubleClickTimeout   time.Duration `envconfig:"DOUBLE_CLICK_TIMEOUT" default:"500ms"`
	DoubleClickMaxOffset float64       `envconfig:"DOUBLE_CLICK_MAX_OFFSET" default:"5"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.GridSize < 0 {
		return nil, fmt.Errorf("GRID_SIZE must not be negative, got %v", cfg.GridSize)
	}
	return &cfg, nil
}

// Origins splits ALLOWED_ORIGINS into its entries.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Level parses LOG_LEVEL, falling back to info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// EngineOptions maps the editor settings onto engine options.
func (c *Config) EngineOptions(logger *slog.Logger) engine.Options {
	return engine.Options{
		GridSize:             c.GridSize,
		GridHidden:           !c.GridVisible,
		LockCurrentTool:      c.LockCurrentTool,
		DoubleClickTimeout:   c.DoubleClickTimeout,
		DoubleClickMaxOffset: c.DoubleClickMaxOffset,
		Logger:               logger,
	}
}
