// Command budget reconciles manual and automated account balances and
// reports on them.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/budget/cmd"
	"github.com/etnz/budget/date"
	"github.com/etnz/budget/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	// Handles shell completion requests (and COMP_INSTALL=1), exits when it does.
	completion(commander).Complete("budget")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the commander subcommands and their flags for the shell.
func completion(commander *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flags(flag.CommandLine),
	}
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: flags(fs)}
		switch c.Name() {
		case "import-feed":
			sub.Args = predict.Files("*.json")
		case "accounts":
			sub.Flags["period"] = predict.Set(date.PeriodNames())
		case "topic":
			if topics, err := docs.GetAllTopics(); err == nil {
				sub.Args = predict.Set(append(topics, "readme"))
			}
		}
		root.Sub[c.Name()] = sub
	})
	return root
}

func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			m[f.Name] = predict.Nothing
			return
		}
		m[f.Name] = predict.Something
	})
	return m
}
