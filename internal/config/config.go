package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port             int           `envconfig:"PORT" default:"8080"`
	DatabaseURL      string        `envconfig:"DATABASE_URL" default:""` // empty keeps scenes in memory
	JWTSecret        string        `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	AllowedOrigins   string        `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	SceneWidth       float64       `envconfig:"SCENE_WIDTH" default:"100"`
	AutosaveInterval time.Duration `envconfig:"AUTOSAVE_INTERVAL" default:"30s"`
	TokenTTL         time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SceneWidth <= 0 {
		return nil, fmt.Errorf("SCENE_WIDTH must be positive, got %v", cfg.SceneWidth)
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into a list.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// OriginPatterns returns the allowed origins without their scheme, as the
// websocket handshake expects.
func (c *Config) OriginPatterns() []string {
	origins := c.Origins()
	for i, o := range origins {
		if j := strings.Index(o, "://"); j >= 0 {
			origins[i] = o[j+3:]
		}
	}
	return origins
}

// Level parses LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
