// Package cmd implements the budget command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/etnz/budget/feed"
	"github.com/etnz/budget/internal/config"
	"github.com/etnz/budget/internal/logger"
	"github.com/etnz/budget/ledger"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&accountsCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")

	c.Register(&editManualCmd{}, "ledger")
	c.Register(&fmtCmd{}, "ledger")

	c.Register(&importFeedCmd{}, "feeds")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataDir = flag.String("data-dir", "", "Directory holding the manual ledger, the collector store and the .env file. Defaults to $BUDGET_DATA_DIR or the current directory.")
var verbose = flag.Bool("v", false, "Log debug information on stderr.")

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// today is the reference day of reports.
var today = date.Today

// setup loads the configuration and attaches the configured logger to ctx.
func setup(ctx context.Context, command string) (context.Context, config.Config, error) {
	cfg, err := config.Load(*dataDir)
	if err != nil {
		return ctx, cfg, err
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return ctx, cfg, fmt.Errorf("invalid log level: %w", err)
	}
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := logger.New(level).With().Str(logger.FieldCommand, command).Logger()
	return logger.WithContext(ctx, log), cfg, nil
}

// collectors returns the configured collectors, the collector store first.
func collectors(cfg config.Config) []budget.Collector {
	cs := []budget.Collector{feed.StoreCollector{Path: cfg.Store}}
	for _, path := range cfg.Feeds {
		cs = append(cs, feed.NewJSONFile(path))
	}
	return cs
}

// loadData reads the manual ledger and every collector, and reconciles their snapshots.
//
// Missing sources are treated as empty.
func loadData(ctx context.Context, cfg config.Config) ([]budget.Snapshot, []budget.Transaction, error) {
	manual, err := ledger.LoadOrEmpty(ctx, cfg.ManualFile)
	if err != nil {
		return nil, nil, err
	}
	automated, err := budget.Gather(ctx, budget.SkipMissing, collectors(cfg)...)
	if err != nil {
		return nil, nil, err
	}
	series, err := budget.Reconcile(manual, automated.Snapshots)
	if err != nil {
		return nil, nil, err
	}
	log := logger.FromContext(ctx)
	log.Debug().
		Int("manual", len(manual)).
		Int("automated", len(automated.Snapshots)).
		Int("reconciled", len(series)).
		Msg("snapshots reconciled")
	return series, automated.Transactions, nil
}
