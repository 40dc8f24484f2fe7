// Package config loads actornet configuration from a TOML file.
//
// Configuration is optional: every field has a working default, so the
// CLI and server run without any config file at all. The file location
// defaults to ~/.config/actornet/config.toml and can be overridden with
// the --config flag.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Cache backend names.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the root configuration.
type Config struct {
	// OutputDir is where analysis artifacts are written.
	OutputDir string `toml:"output_dir"`

	// TopK bounds the ranking sections of reports.
	TopK int `toml:"top_k"`

	Cache  CacheConfig  `toml:"cache"`
	Mongo  MongoConfig  `toml:"mongo"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the pipeline cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend string `toml:"backend"`

	Redis RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the snapshot store used by the API server.
// An empty URI means snapshots are kept in files instead.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		OutputDir: "sna_exports",
		TopK:      5,
		Cache: CacheConfig{
			Backend: CacheFile,
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Mongo: MongoConfig{
			Database: "actornet",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// DefaultPath returns the default config file location
// (~/.config/actornet/config.toml, honoring XDG_CONFIG_HOME).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "actornet", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "actornet", "config.toml"), nil
}

// Load reads the config file at path, layering it over the defaults.
// A missing file is not an error: defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone, "":
	default:
		return fmt.Errorf("unknown cache backend: %q (must be file, redis, or none)", c.Cache.Backend)
	}
	if c.TopK < 0 {
		return fmt.Errorf("top_k must not be negative")
	}
	return nil
}
