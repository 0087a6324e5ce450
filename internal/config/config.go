// Package config reads cfd settings from CFD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/omrilahav/cursor-for-designers/internal/store"
)

// Prefix is the environment variable prefix.
const Prefix = "CFD"

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds runtime settings. Command-line flags override these.
type Config struct {
	// DB is the sqlite database path for the sqlite backend, or the data
	// directory for the file backend. Empty means the XDG default.
	DB      string `envconfig:"DB"`
	Backend string `envconfig:"BACKEND" default:"sqlite"`

	// Catalog is an optional YAML file replacing the built-in catalog.
	Catalog    string `envconfig:"CATALOG"`
	StorageKey string `envconfig:"STORAGE_KEY" default:"progress"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"warn"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"console"`

	RedisAddr   string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPrefix string `envconfig:"REDIS_PREFIX" default:"cfd:"`

	AsyncSave     bool `envconfig:"ASYNC_SAVE" default:"false"`
	SaveAttempts  int  `envconfig:"SAVE_ATTEMPTS" default:"3"`
	KeepRevisions int  `envconfig:"KEEP_REVISIONS" default:"5"`
}

// DefaultConfig returns a Config with the same defaults as an empty
// environment.
func DefaultConfig() Config {
	return Config{
		Backend:       BackendSQLite,
		StorageKey:    store.DefaultKey,
		LogLevel:      "warn",
		LogEncoding:   "console",
		RedisAddr:     "localhost:6379",
		RedisPrefix:   "cfd:",
		SaveAttempts:  3,
		KeepRevisions: 5,
	}
}

// Load reads the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values envconfig cannot.
func (c Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case BackendSQLite, BackendFile, BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown backend %q (want sqlite, file, memory or redis)", c.Backend)
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		return errors.New("storage key must not be empty")
	}
	if c.SaveAttempts < 1 {
		return fmt.Errorf("save attempts must be at least 1, got %d", c.SaveAttempts)
	}
	if c.KeepRevisions < 1 {
		return fmt.Errorf("keep revisions must be at least 1, got %d", c.KeepRevisions)
	}
	return nil
}

// DBPath returns the configured location for the sqlite or file backend,
// resolving the default and creating parent directories.
func (c Config) DBPath() (string, error) {
	backend := strings.ToLower(c.Backend)
	if c.DB != "" {
		if backend == BackendFile {
			// The file backend creates its own directory.
			return c.DB, nil
		}
		return c.DB, store.EnsureDir(c.DB)
	}
	if backend == BackendFile {
		return store.DefaultDataDir()
	}
	return store.DefaultDBPath()
}
