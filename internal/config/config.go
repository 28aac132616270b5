package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/caregate/internal/files"
	"github.com/JaimeStill/caregate/internal/prompts"
	"github.com/JaimeStill/caregate/internal/roles"
	"github.com/JaimeStill/caregate/internal/stages"
	"github.com/JaimeStill/caregate/pkg/database"
	"github.com/JaimeStill/caregate/pkg/openapi"
	"github.com/JaimeStill/caregate/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvCaregateEnv             = "CAREGATE_ENV"
	EnvCaregateShutdownTimeout = "CAREGATE_SHUTDOWN_TIMEOUT"
	EnvCaregateVersion         = "CAREGATE_VERSION"
	EnvCaregateLogLevel        = "CAREGATE_LOG_LEVEL"
)

var databaseEnv = &database.Env{
	Host:            "CAREGATE_DB_HOST",
	Port:            "CAREGATE_DB_PORT",
	Name:            "CAREGATE_DB_NAME",
	User:            "CAREGATE_DB_USER",
	Password:        "CAREGATE_DB_PASSWORD",
	SSLMode:         "CAREGATE_DB_SSL_MODE",
	MaxOpenConns:    "CAREGATE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "CAREGATE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "CAREGATE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CAREGATE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "CAREGATE_STORAGE_CONTAINER_NAME",
	ConnectionString: "CAREGATE_STORAGE_CONNECTION_STRING",
	AccountURL:       "CAREGATE_STORAGE_ACCOUNT_URL",
}

var stagesEnv = &stages.Env{
	Provider:       "CAREGATE_STAGES_PROVIDER",
	Model:          "CAREGATE_STAGES_MODEL",
	BaseURL:        "CAREGATE_STAGES_BASE_URL",
	Token:          "CAREGATE_STAGES_TOKEN",
	Deployment:     "CAREGATE_STAGES_DEPLOYMENT",
	APIVersion:     "CAREGATE_STAGES_API_VERSION",
	EnhanceTimeout: "CAREGATE_STAGES_ENHANCE_TIMEOUT",
	ScoreTimeout:   "CAREGATE_STAGES_SCORE_TIMEOUT",
	RespondTimeout: "CAREGATE_STAGES_RESPOND_TIMEOUT",
}

var authEnv = &roles.Env{
	Mode:      "CAREGATE_AUTH_MODE",
	Header:    "CAREGATE_AUTH_HEADER",
	Issuer:    "CAREGATE_AUTH_ISSUER",
	ClientID:  "CAREGATE_AUTH_CLIENT_ID",
	RoleClaim: "CAREGATE_AUTH_ROLE_CLAIM",
}

var filesEnv = &files.Env{
	MaxSize:           "CAREGATE_FILES_MAX_SIZE",
	AllowedExtensions: "CAREGATE_FILES_ALLOWED_EXTENSIONS",
	Expiry:            "CAREGATE_FILES_EXPIRY",
	SweepInterval:     "CAREGATE_FILES_SWEEP_INTERVAL",
}

var cacheEnv = &prompts.CacheEnv{
	Size: "CAREGATE_CACHE_SIZE",
	TTL:  "CAREGATE_CACHE_TTL",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "CAREGATE_OPENAPI_TITLE",
	Description: "CAREGATE_OPENAPI_DESCRIPTION",
}

// Config is the root configuration for the Caregate service.
type Config struct {
	Server          ServerConfig        `toml:"server"`
	Database        database.Config     `toml:"database"`
	Storage         storage.Config      `toml:"storage"`
	API             APIConfig           `toml:"api"`
	Stages          stages.Config       `toml:"stages"`
	Auth            roles.Config        `toml:"auth"`
	Files           files.Config        `toml:"files"`
	Cache           prompts.CacheConfig `toml:"cache"`
	OpenAPI         openapi.Config      `toml:"openapi"`
	ShutdownTimeout string              `toml:"shutdown_timeout"`
	Version         string              `toml:"version"`
	LogLevel        string              `toml:"log_level"`
}

// Env returns the CAREGATE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCaregateEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	_ = level.UnmarshalText([]byte(c.LogLevel))
	return level
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom behaves like Load but resolves config files relative to dir.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{}

	base := filepath.Join(dir, BaseConfigFile)
	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(dir); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Stages.Merge(&overlay.Stages)
	c.Auth.Merge(&overlay.Auth)
	c.Files.Merge(&overlay.Files)
	c.Cache.Merge(&overlay.Cache)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Stages.Finalize(stagesEnv); err != nil {
		return fmt.Errorf("stages: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Files.Finalize(filesEnv); err != nil {
		return fmt.Errorf("files: %w", err)
	}
	if err := c.Cache.Finalize(cacheEnv); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvCaregateShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCaregateVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvCaregateLogLevel); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvCaregateEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
