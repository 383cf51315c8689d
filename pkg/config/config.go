// Package config loads the lineage configuration file.
//
// The file is TOML with three optional sections:
//
//	[layout]
//	iterations = 500
//	repulsion = 1200
//
//	[cache]
//	backend = "redis"            # file (default), redis or none
//	redis_url = "redis://localhost:6379/0"
//	ttl = "72h"
//
//	[server]
//	addr = ":8080"
//	store = "mongo"              # memory, file or mongo; empty picks mongo when mongo_uri is set
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "lineage"
//
// Missing keys keep their defaults. Unknown keys are rejected so typos do
// not pass silently.
package config

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/layout"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Store backends for `lineage serve`.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

// DefaultAddr is the API listen address.
const DefaultAddr = ":8080"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config is the full configuration file.
type Config struct {
	Layout layout.Config `toml:"layout"`
	Cache  CacheConfig   `toml:"cache"`
	Server ServerConfig  `toml:"server"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend" validate:"oneof=file redis none"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url" validate:"required_if=Backend redis"`
	// TTL overrides the layout and artifact expiry when non-zero.
	TTL Duration `toml:"ttl"`
}

// ServerConfig configures `lineage serve`. See [ServerConfig.StoreBackend]
// for how the record store is chosen.
type ServerConfig struct {
	Addr          string   `toml:"addr" validate:"required"`
	Store         string   `toml:"store" validate:"omitempty,oneof=memory file mongo"`
	StoreDir      string   `toml:"store_dir"`
	MongoURI      string   `toml:"mongo_uri" validate:"required_if=Store mongo"`
	MongoDatabase string   `toml:"mongo_database"`
	ReadTimeout   Duration `toml:"read_timeout"`
	WriteTimeout  Duration `toml:"write_timeout"`
}

// StoreBackend returns the configured store backend. Without an explicit
// store, a MongoURI selects mongo and anything else keeps records in memory.
func (s ServerConfig) StoreBackend() string {
	switch {
	case s.Store != "":
		return s.Store
	case s.MongoURI != "":
		return StoreMongo
	}
	return StoreMemory
}

// Duration is a time.Duration written as a string ("90s", "72h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if v < 0 {
		return stderrors.New("duration must not be negative")
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Layout: layout.DefaultConfig(),
		Cache:  CacheConfig{Backend: BackendFile},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{2 * time.Minute},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/lineage/config.toml, falling back to
// ~/.config/lineage/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "lineage", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lineage", "config.toml"), nil
}

// Load reads the config file at path. An empty path means [DefaultPath],
// and a missing default file yields [Default]. A missing explicit path is
// a FILE_NOT_FOUND error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			if !explicit {
				return Default(), nil
			}
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open config %s", path)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, errors.Wrap(errors.GetCode(err), err, "config file %s", path)
	}
	return cfg, nil
}

// Decode parses TOML from r on top of [Default] and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	cfg.Layout = cfg.Layout.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section's constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	return nil
}

// Encode writes c as TOML.
func Encode(w io.Writer, c Config) error {
	return toml.NewEncoder(w).Encode(c)
}
