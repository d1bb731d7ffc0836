// Package config loads snowflake settings from defaults, a YAML file and
// SNOWFLAKE_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/snowflake-ladder/snowflake/internal/identity"
	"github.com/snowflake-ladder/snowflake/internal/tracks"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for snowflake.
type Config struct {
	Server      ServerConfig   `yaml:"server"`
	Database    DatabaseConfig `yaml:"database"`
	Redis       RedisConfig    `yaml:"redis"`
	Auth        AuthConfig     `yaml:"auth"`
	Client      ClientConfig   `yaml:"client"`
	Identity    IdentityConfig `yaml:"identity"`
	Catalogs    CatalogsConfig `yaml:"catalogs"`
	DefaultTeam string         `yaml:"default_team"`
}

// ServerConfig configures the profile-store HTTP server.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects and tunes the profile store. An empty DSN with the
// sqlite driver uses the default database path.
type DatabaseConfig struct {
	Driver       string        `yaml:"driver"`
	DSN          string        `yaml:"dsn"`
	MaxOpenConns int32         `yaml:"max_open_conns"`
	MaxIdleConns int32         `yaml:"max_idle_conns"`
	MaxLifetime  time.Duration `yaml:"max_lifetime"`
}

// RedisConfig configures the profile cache. An empty address disables it.
type RedisConfig struct {
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// AuthConfig configures identity tokens. An empty secret disables auth.
type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// ClientConfig points the terminal app at a remote profile store. An empty
// server URL means the local database is used.
type ClientConfig struct {
	ServerURL string        `yaml:"server_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

// IdentityConfig overrides who is taking the assessment.
type IdentityConfig struct {
	Username    string `yaml:"username"`
	DisplayName string `yaml:"display_name"`
	Token       string `yaml:"token"`
}

// CatalogsConfig points at extra track catalog definitions.
type CatalogsConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns sane defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
		},
		Redis: RedisConfig{
			TTL: 5 * time.Minute,
		},
		Auth: AuthConfig{
			TokenTTL: 30 * 24 * time.Hour,
		},
		Client: ClientConfig{
			Timeout: 10 * time.Second,
		},
		DefaultTeam: tracks.DefaultTeam,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/snowflake/config.yaml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "snowflake", "config.yaml"), nil
}

// Load builds the configuration. An explicit path must exist; with an empty
// path the default location is read when present. Environment variables are
// applied last and the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnv("SNOWFLAKE_SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsInt("SNOWFLAKE_SERVER_PORT", c.Server.Port)
	c.Server.RequestTimeout = getEnvAsDuration("SNOWFLAKE_REQUEST_TIMEOUT", c.Server.RequestTimeout)

	c.Database.Driver = getEnv("SNOWFLAKE_DB_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnv("SNOWFLAKE_DB_DSN", c.Database.DSN)

	c.Redis.Address = getEnv("SNOWFLAKE_REDIS_ADDRESS", c.Redis.Address)
	c.Redis.Password = getEnv("SNOWFLAKE_REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvAsInt("SNOWFLAKE_REDIS_DB", c.Redis.DB)
	c.Redis.TTL = getEnvAsDuration("SNOWFLAKE_REDIS_TTL", c.Redis.TTL)

	c.Auth.Secret = getEnv("SNOWFLAKE_AUTH_SECRET", c.Auth.Secret)
	c.Auth.TokenTTL = getEnvAsDuration("SNOWFLAKE_TOKEN_TTL", c.Auth.TokenTTL)

	c.Client.ServerURL = getEnv("SNOWFLAKE_SERVER_URL", c.Client.ServerURL)
	c.Client.Timeout = getEnvAsDuration("SNOWFLAKE_CLIENT_TIMEOUT", c.Client.Timeout)

	c.Identity.Username = getEnv("SNOWFLAKE_USERNAME", c.Identity.Username)
	c.Identity.DisplayName = getEnv("SNOWFLAKE_DISPLAY_NAME", c.Identity.DisplayName)
	c.Identity.Token = getEnv("SNOWFLAKE_TOKEN", c.Identity.Token)

	c.Catalogs.Dir = getEnv("SNOWFLAKE_CATALOG_DIR", c.Catalogs.Dir)
	c.DefaultTeam = getEnv("SNOWFLAKE_TEAM", c.DefaultTeam)
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be > 0")
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q (use sqlite, postgres or memory)", c.Database.Driver)
	}
	if c.Redis.Address != "" && c.Redis.TTL <= 0 {
		return fmt.Errorf("redis.ttl must be > 0 when redis is enabled")
	}
	if c.Auth.Secret != "" && len(c.Auth.Secret) < identity.MinSecretLen {
		return fmt.Errorf("auth.secret must be at least %d bytes", identity.MinSecretLen)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0")
	}
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("client.timeout must be > 0")
	}
	if c.DefaultTeam == "" {
		return fmt.Errorf("default_team is required")
	}
	return nil
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
