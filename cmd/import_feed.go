package cmd

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/etnz/budget/feed"
	"github.com/google/subcommands"
)

type importFeedCmd struct {
	collector    string
	snapshots    string
	transactions string
}

func (*importFeedCmd) Name() string     { return "import-feed" }
func (*importFeedCmd) Synopsis() string { return "record a collector JSON export in the collector store" }
func (*importFeedCmd) Usage() string {
	return `budget import-feed [-collector <name>] [-snapshots <jsonpath>] [-transactions <jsonpath>] <file.json>

  Reads snapshots and transactions from a collector export and records them
  in the collector store. A snapshot already recorded for the same account
  and instant is replaced.

Usage Examples:
$ budget import-feed -collector bank export.json
$ budget import-feed -snapshots '$.data.balances[*]' -transactions '' export.json
`
}

func (c *importFeedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.collector, "collector", "", "Name of the collector, defaults to the file name.")
	f.StringVar(&c.snapshots, "snapshots", feed.DefaultSnapshotsPath, "jsonpath selecting snapshot records, empty for none.")
	f.StringVar(&c.transactions, "transactions", feed.DefaultTransactionsPath, "jsonpath selecting transaction records, empty for none.")
}

func (c *importFeedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: import-feed expects exactly one file")
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)
	name := c.collector
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	ctx, cfg, err := setup(ctx, c.Name())
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	export := &feed.JSONFile{Path: path, SnapshotsPath: c.snapshots, TransactionsPath: c.transactions}
	fd, err := export.Collect(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading %q: %v\n", path, err)
		return subcommands.ExitFailure
	}

	store, err := feed.CreateStore(cfg.Store)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening collector store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()
	if err := store.Record(ctx, name, fd); err != nil {
		fmt.Fprintf(stderr, "Error recording feed: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Recorded %d snapshots and %d transactions from %s.\n", len(fd.Snapshots), len(fd.Transactions), name)
	return subcommands.ExitSuccess
}
