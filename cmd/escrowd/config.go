package main

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/dappr/dappr/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	configFile  = "config.toml"
	genesisFile = "genesis.json"
	envPrefix   = "ESCROWD_"
)

// Config is the process configuration. It is read from the config file
// in the home directory, environment variables take precedence.
type Config struct {
	// LogLevel is one of debug, info, error or none.
	LogLevel string `toml:"log_level" env:"LOG_LEVEL"`
	// Store is either iavl, a versioned merkle store, or db for a plain
	// key value database.
	Store string `toml:"store" env:"STORE"`
	// DBBackend is goleveldb or memdb.
	DBBackend string `toml:"db_backend" env:"DB_BACKEND"`
	DBName    string `toml:"db_name" env:"DB_NAME"`
	// Debug returns the full error information to the caller.
	Debug bool `toml:"debug" env:"DEBUG"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		Store:     "iavl",
		DBBackend: "goleveldb",
		DBName:    "escrowd",
	}
}

// fileConfig mirrors Config, a key missing from the file keeps its default.
type fileConfig struct {
	LogLevel  string `toml:"log_level"`
	Store     string `toml:"store"`
	DBBackend string `toml:"db_backend"`
	DBName    string `toml:"db_name"`
	Debug     bool   `toml:"debug"`
}

// LoadConfig reads the configuration file at path, if it exists, and then
// applies the environment overrides. environ may be nil to use the process
// environment.
func LoadConfig(path string, environ map[string]string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	switch {
	case err == nil:
		if meta.IsDefined("log_level") {
			cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
		}
		if meta.IsDefined("store") {
			cfg.Store = strings.TrimSpace(raw.Store)
		}
		if meta.IsDefined("db_backend") {
			cfg.DBBackend = strings.TrimSpace(raw.DBBackend)
		}
		if meta.IsDefined("db_name") {
			cfg.DBName = strings.TrimSpace(raw.DBName)
		}
		if meta.IsDefined("debug") {
			cfg.Debug = raw.Debug
		}
	case os.IsNotExist(err):
	default:
		return cfg, errors.Wrapf(errors.ErrInput, "load config: %s", err)
	}

	opts := env.Options{Prefix: envPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, errors.Wrapf(errors.ErrInput, "parse env: %s", err)
	}
	return cfg, cfg.Validate()
}

// Validate returns an error if any value is not supported.
func (c Config) Validate() error {
	var errs error
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		errs = errors.Append(errs, errors.Field("LogLevel", errors.ErrInput, err.Error()))
	}
	switch c.Store {
	case "iavl", "db":
	default:
		errs = errors.Append(errs, errors.Field("Store", errors.ErrInput, "unknown store %q", c.Store))
	}
	switch c.DBBackend {
	case "goleveldb", "memdb":
	default:
		errs = errors.Append(errs, errors.Field("DBBackend", errors.ErrInput, "unknown backend %q", c.DBBackend))
	}
	if c.DBName == "" {
		errs = errors.Append(errs, errors.Field("DBName", errors.ErrEmpty, "required"))
	}
	return errs
}

// Write stores the configuration as a TOML file.
func (c Config) Write(path string) error {
	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	defer fd.Close()
	raw := fileConfig(c)
	if err := toml.NewEncoder(fd).Encode(raw); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// newLogger returns a logger filtered by the configured level.
func newLogger(c Config) (log.Logger, error) {
	opt, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr)).With("module", "escrowd")
	return log.NewFilter(logger, opt), nil
}
