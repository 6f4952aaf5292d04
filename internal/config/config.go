package config

import (
	"log/slog"
	"time"
)

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" default:"10"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" default:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" default:"30m"`
}

type HTTPConfig struct {
	Port            int           `env:"APP_PORT" default:"8080"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" default:"15s"`
	// RateLimitPerMinute caps requests per client IP; 0 disables the limiter.
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" default:"300"`
	// CORSAllowedOrigins is read as a comma separated list.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" default:"*"`
}

type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
}

// NATSConfig leaves event publishing to NATS off when URL is empty.
type NATSConfig struct {
	URL        string `env:"NATS_URL" default:""`
	Token      string `env:"NATS_TOKEN" default:""`
	ClientName string `env:"NATS_CLIENT_NAME" default:"golfwager-api"`
}

type MatchesConfig struct {
	// StartingBalance is in cents.
	StartingBalance     int64         `env:"STARTING_BALANCE" default:"100000"`
	MatchTTL            time.Duration `env:"MATCH_TTL" default:"24h"`
	ExpirySweepInterval time.Duration `env:"EXPIRY_SWEEP_INTERVAL" default:"1m"`
}

type LogConfig struct {
	Level slog.Level `env:"APP_LOG_LEVEL" default:"INFO"`
}
