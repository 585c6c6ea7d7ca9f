package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `koanf:"host"`
	Port               string `koanf:"port"`
	User               string `koanf:"user"`
	Password           string `koanf:"password"`
	Name               string `koanf:"name"`
	SSLMode            string `koanf:"sslmode"`
	MaxOpenConns       int    `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns       int    `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeSec int    `koanf:"conn_max_lifetime_sec" validate:"gte=0"`
	// StatementTimeoutMs bounds every statement server-side; 0 leaves the server default.
	StatementTimeoutMs int `koanf:"statement_timeout_ms" validate:"gte=0"`
}

// RedisConfig holds settings for the topic list cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"gte=0"`
	TTLSec   int    `koanf:"ttl_sec" validate:"gte=0"`
}

// ForumConfig holds listing sizes.
type ForumConfig struct {
	TopicsPerPage int `koanf:"topics_per_page" validate:"gte=1,lte=500"`
	PostsPerPage  int `koanf:"posts_per_page" validate:"gte=1,lte=500"`
}

// LogConfig controls the zerolog root logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Pretty bool   `koanf:"pretty"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	// AppHost is the bind host only; empty listens on every interface.
	AppHost  string         `koanf:"-"`
	Port     string         `koanf:"port" validate:"required"`
	TZName   string         `koanf:"-"`
	Database DatabaseConfig `koanf:"db"`
	Redis    RedisConfig    `koanf:"redis"`
	Forum    ForumConfig    `koanf:"forum"`
	Log      LogConfig      `koanf:"log"`
}

// sections are the env prefixes mapped into nested config blocks.
var sections = map[string]bool{
	"app": true, "tz": true, "db": true, "redis": true, "forum": true, "log": true,
}

// envKey maps an environment variable name to a koanf path by splitting on the
// first underscore only: DB_MAX_OPEN_CONNS -> db.max_open_conns, PORT -> port.
// Unrelated variables map to "" and are skipped.
func envKey(s string) string {
	key := strings.Replace(strings.ToLower(s), "_", ".", 1)
	if key == "port" {
		return key
	}
	section, _, ok := strings.Cut(key, ".")
	if !ok || !sections[section] {
		return ""
	}
	return key
}

// envValue drops empty variables so they do not override defaults.
func envValue(k, v string) (string, interface{}) {
	if v == "" {
		return "", nil
	}
	return envKey(k), v
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() (*AppConfig, error) {
	k := koanf.New(".")
	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Flat names that do not fit the prefix.key scheme.
	if v := k.String("app.host"); v != "" {
		cfg.AppHost = v
	}
	if v := k.String("tz.name"); v != "" {
		cfg.TZName = v
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("invalid config: TZ_NAME: %w", err)
	}
	return cfg, nil
}

// ListenAddr is the host:port the HTTP server binds to.
func (c *AppConfig) ListenAddr() string {
	return net.JoinHostPort(c.AppHost, c.Port)
}

// Location resolves TZName; empty means UTC.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.TZName == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.TZName)
}

func defaults() *AppConfig {
	return &AppConfig{
		AppHost: "",
		Port:    "8080",
		TZName:  "UTC",
		Database: DatabaseConfig{
			Port:               "5432",
			SSLMode:            "disable",
			MaxOpenConns:       10,
			MaxIdleConns:       5,
			ConnMaxLifetimeSec: 300,
			StatementTimeoutMs: 5000,
		},
		Redis: RedisConfig{
			TTLSec: 30,
		},
		Forum: ForumConfig{
			TopicsPerPage: 50,
			PostsPerPage:  25,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
