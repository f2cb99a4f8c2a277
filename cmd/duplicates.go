package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/watchbook/renderer"
	"github.com/google/subcommands"
)

// duplicatesCmd holds the flags for the 'duplicates' subcommand.
type duplicatesCmd struct{}

func (*duplicatesCmd) Name() string     { return "duplicates" }
func (*duplicatesCmd) Synopsis() string { return "scan the catalog for symbols filed under several categories" }
func (*duplicatesCmd) Usage() string {
	return `wb duplicates

  Scans the catalog for symbols present in more than one category and
  reports them for human review. Exits with a failure status when any is
  found, so a scheduled run surfaces them.
`
}

func (*duplicatesCmd) SetFlags(*flag.FlagSet) {}

func (c *duplicatesCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	catalog, err := LoadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	dups := catalog.Duplicates()
	printMarkdown(renderer.DuplicatesMarkdown(dups))
	if len(dups) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
