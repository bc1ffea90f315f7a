// Package config resolves the budget configuration from the environment.
//
// Variables are read from the process environment and, for those not set or
// empty there, from a ".env" file in the data directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/etnz/budget"
	"github.com/etnz/budget/feed"
	"github.com/etnz/budget/ledger"
	"github.com/joho/godotenv"
)

// DotEnv is the name of the optional environment file in the data directory.
const DotEnv = ".env"

// Config is the budget configuration.
type Config struct {
	DataDir        string        `env:"BUDGET_DATA_DIR"        envDefault:"."`
	ManualFile     string        `env:"BUDGET_MANUAL_FILE"`
	Feeds          []string      `env:"BUDGET_FEEDS"           envSeparator:","`
	Store          string        `env:"BUDGET_STORE"`
	Currency       string        `env:"BUDGET_CURRENCY"        envDefault:"USD"`
	SpendingWindow time.Duration `env:"BUDGET_SPENDING_WINDOW"`
	LogLevel       string        `env:"BUDGET_LOG_LEVEL"       envDefault:"info"`
	Visual         string        `env:"VISUAL"`
	Editor         string        `env:"EDITOR"`
}

// Load reads the configuration.
//
// dataDir, when not empty, overrides BUDGET_DATA_DIR, including for locating
// the ".env" file. Relative file paths are resolved against the data
// directory.
func Load(dataDir string) (Config, error) {
	return load(dataDir, env.ToMap(os.Environ()))
}

func load(dataDir string, environ map[string]string) (Config, error) {
	dir := dataDir
	if dir == "" {
		dir = environ["BUDGET_DATA_DIR"]
	}
	if dir == "" {
		dir = "."
	}

	vars, err := godotenv.Read(filepath.Join(dir, DotEnv))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("reading %s: %w", filepath.Join(dir, DotEnv), err)
	}
	if vars == nil {
		vars = make(map[string]string)
	}
	for k, v := range environ {
		if v != "" {
			vars[k] = v
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if cfg.SpendingWindow <= 0 {
		cfg.SpendingWindow = budget.DefaultSpendingWindow
	}

	cfg.ManualFile = cfg.resolve(cfg.ManualFile, ledger.Filename)
	cfg.Store = cfg.resolve(cfg.Store, feed.StoreFilename)
	for i, f := range cfg.Feeds {
		cfg.Feeds[i] = cfg.resolve(f, "")
	}
	return cfg, nil
}

// resolve returns path relative to the data directory, or def if path is empty.
func (c Config) resolve(path, def string) string {
	if path == "" {
		path = def
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}

// EditorCommand returns the command line used to edit the manual ledger.
func (c Config) EditorCommand() string {
	switch {
	case c.Visual != "":
		return c.Visual
	case c.Editor != "":
		return c.Editor
	}
	return "vi"
}
