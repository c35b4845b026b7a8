// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is every environment setting the service reads
type Config struct {
	Port        string `env:"PORT" envDefault:"3000"`
	GRPCPort    string `env:"GRPC_PORT" envDefault:"50051"`
	MCPPath     string `env:"MCP_PATH" envDefault:"/mcp"`
	Environment string `env:"ENVIRONMENT"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"memory"`
	SQLiteFile  string `env:"SQLITE_FILE" envDefault:"dev.sqlite"`
	DatabaseURL string `env:"DATABASE_URL"`

	NATSURL     string `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	NATSSubject string `env:"NATS_SUBJECT" envDefault:"hockey.draft.events"`
	// NATSMock swaps the embedded server for the in-memory stand-in in development
	NATSMock bool `env:"NATS_MOCK"`

	ClickHouseAddr     string        `env:"CLICKHOUSE_ADDR" envDefault:"localhost:9000"`
	ClickHouseDB       string        `env:"CLICKHOUSE_DB" envDefault:"default"`
	ClickHouseUser     string        `env:"CLICKHOUSE_USER" envDefault:"default"`
	ClickHousePassword string        `env:"CLICKHOUSE_PASSWORD"`
	ADPSyncInterval    time.Duration `env:"ADP_SYNC_INTERVAL" envDefault:"5m"`

	AuthentikBaseURL      string   `env:"AUTHENTIK_BASE_URL"`
	AuthentikClientID     string   `env:"AUTHENTIK_CLIENT_ID"`
	AuthentikClientSecret string   `env:"AUTHENTIK_CLIENT_SECRET"`
	AuthentikRedirectURL  string   `env:"AUTHENTIK_REDIRECT_URL" envDefault:"http://localhost:3000/auth/callback"`
	AuthentikScopes       []string `env:"AUTHENTIK_SCOPES" envDefault:"openid,profile,email" envSeparator:","`
	CommissionerGroup     string   `env:"COMMISSIONER_GROUP" envDefault:"commissioners"`
}

// Load parses the environment into a Config and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether local stand-ins replace NATS, ClickHouse and
// Authentik
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || strings.EqualFold(c.Environment, "development")
}

// Validate checks settings that depend on each other
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "memory", "sqlite":
	case "postgres":
		if c.DatabaseURL == "" && !c.IsDevelopment() {
			return fmt.Errorf("DATABASE_URL environment variable is required for postgres driver")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER: %s (valid: memory, sqlite, postgres)", c.DBDriver)
	}

	if !c.IsDevelopment() {
		if c.AuthentikBaseURL == "" || c.AuthentikClientID == "" || c.AuthentikClientSecret == "" {
			return fmt.Errorf("AUTHENTIK_BASE_URL, AUTHENTIK_CLIENT_ID, and AUTHENTIK_CLIENT_SECRET environment variables are required for production")
		}
	}

	if c.ADPSyncInterval <= 0 {
		return fmt.Errorf("ADP_SYNC_INTERVAL must be positive, got %s", c.ADPSyncInterval)
	}
	if !strings.HasPrefix(c.MCPPath, "/") {
		return fmt.Errorf("MCP_PATH must start with /, got %q", c.MCPPath)
	}
	return nil
}
