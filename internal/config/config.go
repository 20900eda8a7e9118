package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration. It is parsed once at startup
// and treated as read-only afterwards.
type Config struct {
	ServerPort   int    `env:"PORT" envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./postdeck.db"`

	// Token signing parameters. Rotating the key invalidates every token
	// issued before the restart.
	JWTKey      string `env:"JWT_KEY,notEmpty"`
	JWTIssuer   string `env:"JWT_ISSUER" envDefault:"postdeck"`
	JWTAudience string `env:"JWT_AUDIENCE" envDefault:"postdeck-clients"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`

	// Maintenance job settings.
	MaintenanceSchedule string `env:"MAINTENANCE_SCHEDULE" envDefault:"0 3 * * *"`
	EventRetentionDays  int    `env:"EVENT_RETENTION_DAYS" envDefault:"90"`

	AppEnv string `env:"APP_ENV" envDefault:"development"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
