package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Docs      DocsConfig      `mapstructure:"docs"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host" validate:"required"`
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	Environment     string        `mapstructure:"environment" validate:"required,oneof=development test production"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
// URL selects the engine: postgres:// and postgresql:// use PostgreSQL,
// file: and sqlite: use SQLite.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// RateLimitConfig bounds how many requests a client may send to the
// rate-limited routes within a window.
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests" validate:"gt=0"`
	Window   time.Duration `mapstructure:"window" validate:"gt=0"`
	Backend  string        `mapstructure:"backend" validate:"oneof=memory redis"`
	RedisURL string        `mapstructure:"redis_url" validate:"required_if=Backend redis"`
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DocsConfig toggles the interactive API documentation.
type DocsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Addr returns the host:port the server listens on.
func (c ServerConfig) Addr() string {
	return joinHostPort(c.Host, c.Port)
}
