package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/watchbook"
	"github.com/etnz/watchbook/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// annotateCmd holds the flags for the 'annotate' subcommand.
type annotateCmd struct {
	model string
}

func (*annotateCmd) Name() string     { return "annotate" }
func (*annotateCmd) Synopsis() string { return "propose tags and descriptions for catalog symbols" }
func (*annotateCmd) Usage() string {
	return `wb annotate [-model <name>] <symbol>...

  Asks Gemini for a short description and tags for each symbol, and fills
  the empty annotation fields of its catalog entry. Fields already set by
  hand are never overwritten; review the result with a plain git diff.
`
}

func (c *annotateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", "", "Gemini model to use (defaults to a fast one)")
}

func (c *annotateCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one symbol is required")
		return subcommands.ExitUsageError
	}

	catalog, err := LoadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}
	annotator := agent.New(c.model)
	if err := annotator.Start(ctx, client); err != nil {
		fmt.Fprintln(os.Stderr, "Error starting the annotator:", err)
		return subcommands.ExitFailure
	}

	annotated := 0
	for _, arg := range f.Args() {
		symbol := watchbook.NormalizeSymbol(arg)
		holders := catalog.Find(symbol)
		if len(holders) == 0 {
			fmt.Fprintf(os.Stderr, "Error: symbol %q is not in the catalog\n", symbol)
			continue
		}

		ann, err := annotator.Annotate(ctx, symbol, holders[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if ann.Description == "" && len(ann.Tags) == 0 {
			fmt.Fprintf(os.Stderr, "no annotation proposed for %q\n", symbol)
			continue
		}

		if err := catalog.Annotate(symbol, watchbook.Entry{Description: ann.Description, Tags: ann.Tags}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		annotated++
	}

	if annotated == 0 {
		return subcommands.ExitFailure
	}
	if err := SaveCatalog(catalog); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Annotated %d symbols in %s\n", annotated, *catalogFile)
	return subcommands.ExitSuccess
}
