package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/budget/ledger"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the manual ledger into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `budget fmt

  Validates and formats the manual ledger. Rows are sorted by date then
  account, balances keep their exact decimals, and comments are dropped.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, cfg, err := setup(ctx, c.Name())
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	entries, err := ledger.Load(cfg.ManualFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error decoding manual ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := ledger.Save(cfg.ManualFile, entries); err != nil {
		fmt.Fprintf(stderr, "Error saving manual ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Manual ledger %q has been formatted.\n", cfg.ManualFile)
	return subcommands.ExitSuccess
}
