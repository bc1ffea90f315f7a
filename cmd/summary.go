package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/etnz/budget/renderer"
	"github.com/etnz/budget/shell"
	"github.com/google/subcommands"
)

type summaryCmd struct {
	repl   bool
	window time.Duration
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "current balances and recent spending" }
func (*summaryCmd) Usage() string {
	return `budget summary [-window <duration>] [-repl]

  Shows the latest balance of every account, the change since the previous
  observation, and the transactions of the last days grouped by day and by
  category.

  The window defaults to $BUDGET_SPENDING_WINDOW, or 30 days.

Usage Examples:
$ budget summary -window 168h
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.repl, "repl", false, "Open an interactive shell over the account summaries and recent spending.")
	f.DurationVar(&c.window, "window", 0, "How far back to report spending, e.g. 168h for a week.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.window < 0 {
		fmt.Fprintf(stderr, "Error: negative window %v\n", c.window)
		return subcommands.ExitUsageError
	}
	ctx, cfg, err := setup(ctx, c.Name())
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	window := c.window
	if window == 0 {
		window = cfg.SpendingWindow
	}

	series, txs, err := loadData(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading balances: %v\n", err)
		return subcommands.ExitFailure
	}

	on := today()
	accounts := budget.AccountSummaries(series)
	spend := budget.RecentSpending(txs, on, window)

	printMarkdown(renderer.AccountSummary(on, accounts, cfg.Currency) + "\n" + renderer.Spending(date.Trailing(on, window), spend, cfg.Currency))

	if c.repl {
		sh, err := shell.New(map[string]any{
			"accounts": accounts,
			"spend":    spend,
		})
		if err != nil {
			fmt.Fprintf(stderr, "Error starting shell: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := sh.Run(ctx, stdin, stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
