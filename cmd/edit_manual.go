package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/budget/ledger"
	"github.com/google/subcommands"
)

type editManualCmd struct{}

func (*editManualCmd) Name() string     { return "edit-manual" }
func (*editManualCmd) Synopsis() string { return "edit the manual balances in your editor" }
func (*editManualCmd) Usage() string {
	return `budget edit-manual

  Opens the manual ledger in $VISUAL, $EDITOR or vi. When the editor exits,
  every row is validated and the ledger is saved. If a row is invalid the
  ledger is left unchanged and the edits are kept in a temporary file.
`
}

func (c *editManualCmd) SetFlags(f *flag.FlagSet) {}

func (c *editManualCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cfg, err := setup(ctx, c.Name())
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	entries, err := ledger.Edit(ctx, cfg.ManualFile, ledger.NewCommandEditor(cfg.EditorCommand()))
	if err != nil {
		fmt.Fprintf(stderr, "Error editing manual ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Manual ledger %q holds %d entries.\n", cfg.ManualFile, len(entries))
	return subcommands.ExitSuccess
}
