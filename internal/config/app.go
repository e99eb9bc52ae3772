package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type App struct {
	Addr        string `env:"APP_ADDR" envDefault:":8080"`
	BasePath    string `env:"APP_BASE_PATH"`
	Development bool   `env:"DEVELOPMENT"`

	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`

	JWTSecret     string        `env:"JWT_SECRET"`
	TokenLifetime time.Duration `env:"JWT_TOKEN_LIFETIME" envDefault:"24h"`

	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`

	MaxWidth  int `env:"MAX_WIDTH" envDefault:"100"`
	MaxHeight int `env:"MAX_HEIGHT" envDefault:"100"`
}

// NewApp loads the application config from the environment.
func NewApp() (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c App) Validate() error {
	if c.MaxWidth <= 0 || c.MaxHeight <= 0 {
		return fmt.Errorf("MAX_WIDTH and MAX_HEIGHT must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}
	return nil
}

func (c App) Fields() map[string]any {
	return map[string]any{
		"addr":           c.Addr,
		"base_path":      c.BasePath,
		"development":    c.Development,
		"log_file":       c.LogFile,
		"token_lifetime": c.TokenLifetime.String(),
		"session_ttl":    c.SessionTTL.String(),
		"max_width":      c.MaxWidth,
		"max_height":     c.MaxHeight,
	}
}
