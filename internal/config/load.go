package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "BOOKSHELF"

// ConfigFileEnv names the environment variable holding an explicit config
// file path. Without it Load looks for an optional config.yaml in the
// working directory.
const ConfigFileEnv = EnvPrefix + "_CONFIG_FILE"

// aliases maps keys to the unprefixed variable names the service has always
// honoured, checked after the prefixed name.
var aliases = map[string][]string{
	"server.host":          {"HOST"},
	"server.port":          {"PORT"},
	"server.log_level":     {"LOG_LEVEL"},
	"server.environment":   {"APP_ENV"},
	"database.url":         {"DATABASE_URL"},
	"rate_limit.redis_url": {"REDIS_URL"},
}

var defaults = map[string]any{
	"server.host":                "0.0.0.0",
	"server.port":                3333,
	"server.log_level":           "info",
	"server.environment":         "development",
	"server.shutdown_timeout":    10 * time.Second,
	"database.max_open_conns":    10,
	"database.max_idle_conns":    5,
	"database.conn_max_lifetime": 5 * time.Minute,
	"rate_limit.enabled":         true,
	"rate_limit.requests":        100,
	"rate_limit.window":          time.Minute,
	"rate_limit.backend":         "memory",
	"rate_limit.redis_url":       "",
	"cors.allowed_origins":       []string{"*"},
	"docs.enabled":               true,
}

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from the file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	keys := []string{"database.url"}
	for key := range defaults {
		keys = append(keys, key)
	}

	for _, key := range keys {
		names := append([]string{envName(key)}, aliases[key]...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

func readConfigFile(v *viper.Viper) error {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
