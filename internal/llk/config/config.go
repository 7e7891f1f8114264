// Package config loads the TOML-based configuration for the llkgram
// service: where compiled parsers are cached, a lookahead ceiling, and
// what address the HTTP API listens on.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// CacheBackend names where compiled Parser blobs are persisted between
// process restarts.
type CacheBackend string

const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendSQLite CacheBackend = "sqlite"
)

// BuildConfig holds everything needed to stand up an llkgram service
// process: the same role BurntSushi/toml plays for the teacher's TQW
// world-data format, applied here to process configuration instead of
// game data.
type BuildConfig struct {
	// ListenAddress is the host:port the HTTP API binds to.
	ListenAddress string `toml:"listen_address"`

	// CacheBackend selects where compiled parsers are stored.
	CacheBackend CacheBackend `toml:"cache_backend"`

	// CacheDir is the directory the sqlite cache backend stores its
	// database file in. Ignored for the memory backend.
	CacheDir string `toml:"cache_dir"`

	// MaxLookahead is a lookahead ceiling for the deployment. Validate
	// checks that it lies in [1, 16]; nothing else reads it, so grammars
	// registered through the API are not held to it. The grammar package
	// itself enforces the [1, 16] range on every grammar.
	MaxLookahead int `toml:"max_lookahead"`

	// AdminTokenSecret signs and verifies the bearer tokens the admin
	// endpoints require.
	AdminTokenSecret string `toml:"admin_token_secret"`
}

// Default returns the configuration a fresh deployment starts from.
func Default() BuildConfig {
	return BuildConfig{
		ListenAddress: ":8080",
		CacheBackend:  CacheBackendMemory,
		CacheDir:      "./data",
		MaxLookahead:  16,
	}
}

// Load reads and parses a BuildConfig from a TOML file at path,
// starting from Default for any field the file does not set.
func Load(path string) (BuildConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return BuildConfig{}, fmt.Errorf("read config file: %w", err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return BuildConfig{}, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Validate checks that the loaded configuration is internally
// consistent.
func (c BuildConfig) Validate() error {
	if c.ListenAddress == "" {
		return fmt.Errorf("listen_address must not be empty")
	}
	if c.CacheBackend != CacheBackendMemory && c.CacheBackend != CacheBackendSQLite {
		return fmt.Errorf("cache_backend must be %q or %q, got %q", CacheBackendMemory, CacheBackendSQLite, c.CacheBackend)
	}
	if c.MaxLookahead < 1 || c.MaxLookahead > 16 {
		return fmt.Errorf("max_lookahead must be in [1, 16], got %d", c.MaxLookahead)
	}
	return nil
}
