package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/etnz/budget/renderer"
	"github.com/etnz/budget/shell"
	"github.com/google/subcommands"
)

type accountsCmd struct {
	graph  bool
	repl   bool
	df     bool
	period date.Period
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "graph or explore the reconciled balance history" }
func (*accountsCmd) Usage() string {
	return `budget accounts [-graph [-period <period>]] [-repl] [-df]

  Reconciles the manual ledger with the automated collectors and shows the
  balance history of every account.

  -graph  renders one table and sparkline per account, one point per period.
  -repl   opens a query shell over "snapshots" and "accounts".
  -df     opens the shell with "df" too, the balance of every account on each
          day. Type "table df" to see it.

Usage Examples:
$ budget accounts -graph -period weekly
$ budget accounts -repl
$ budget accounts -df
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.graph, "graph", false, "Render the balance history of each account.")
	f.BoolVar(&c.repl, "repl", false, "Open an interactive shell over the reconciled snapshots.")
	f.BoolVar(&c.df, "df", false, "Open the shell with a day by account table of balances.")
	c.period = date.Monthly
	f.Var(&c.period, "period", "Period of the graph points ("+strings.Join(date.PeriodNames(), ", ")+").")
}

func (c *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.graph && !c.repl && !c.df {
		fmt.Fprintln(stdout, "(No Flag Provided)")
		return subcommands.ExitSuccess
	}
	ctx, cfg, err := setup(ctx, c.Name())
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	series, _, err := loadData(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading balances: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.graph {
		printMarkdown(renderer.BalanceGraph(series, c.period, cfg.Currency))
	}
	if c.repl || c.df {
		vars := map[string]any{
			"snapshots": series,
			"accounts":  budget.AccountSummaries(series),
		}
		if c.df {
			_, rows := budget.BalanceTable(series)
			vars["df"] = rows
		}
		sh, err := shell.New(vars)
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
