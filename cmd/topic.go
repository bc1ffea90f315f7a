package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/budget/docs"
	"github.com/google/subcommands"
)

type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the budget documentation" }
func (*topicCmd) Usage() string {
	topics, _ := docs.GetAllTopics()
	return fmt.Sprintf(`budget topic [-list] [<topic>...]

  Prints the documentation topics one after the other, or the overview when
  none is given. "*" stands for every topic.

  Topics: %s

Usage Examples:
$ budget topic ledger reconciliation
$ budget topic -list
`, strings.Join(topics, ", "))
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "List the topics with their title instead of printing them.")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		return c.printList()
	}
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\nRun 'budget topic -list' for the available topics.\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}

func (c *topicCmd) printList() subcommands.ExitStatus {
	topics, err := docs.GetAllTopics()
	if err != nil {
		fmt.Fprintf(stderr, "Error listing topics: %v\n", err)
		return subcommands.ExitFailure
	}
	var b strings.Builder
	b.WriteString("| Topic | Title |\n|---|---|\n")
	for _, topic := range topics {
		title, err := docs.Title(topic)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(&b, "| %s | %s |\n", topic, title)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
