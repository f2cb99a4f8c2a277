package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/watchbook"
	"github.com/etnz/watchbook/date"
	"github.com/etnz/watchbook/renderer"
	"github.com/google/subcommands"
)

// dailyCmd holds the flags for the 'daily' subcommand.
type dailyCmd struct {
	date     string
	category string
	class    string
	plain    bool
	output   string
}

func (*dailyCmd) Name() string     { return "daily" }
func (*dailyCmd) Synopsis() string { return "display the day-over-day changes of watched symbols" }
func (*dailyCmd) Usage() string {
	return `wb daily [-d <date>] [-c <category>] [-class <class>] [-plain] [-o <file>]

  Computes the change between the two most recent comparable trading days
  for every symbol of a category (or all categories), sorted by magnitude.
`
}

func (c *dailyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "reference date for the report (defaults to today)")
	f.StringVar(&c.category, "c", "", "category to report on (defaults to all)")
	f.StringVar(&c.class, "class", "", "force the asset class instead of deriving it from the category name")
	f.BoolVar(&c.plain, "plain", false, "emit a plain text table instead of markdown")
	f.StringVar(&c.output, "o", "", "write the plain text report to a file instead of stdout")
}

func (c *dailyCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	reference := date.Today()
	if c.date != "" {
		var err error
		if reference, err = date.Parse(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	catalog, err := LoadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	db, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	var out *os.File
	if c.output != "" {
		if out, err = os.Create(c.output); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		defer out.Close()
	}

	for cat := range catalog.Categories() {
		if c.category != "" && cat.Name() != c.category {
			continue
		}

		class := watchbook.ClassOf(cat.Name())
		if c.class != "" {
			if class, err = watchbook.ParseAssetClass(c.class); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitUsageError
			}
		}

		report, err := watchbook.BuildChangeReport(db, cat, reference, class)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}

		switch {
		case out != nil:
			fmt.Fprint(out, renderer.ChangeText(report))
		case c.plain:
			fmt.Print(renderer.ChangeText(report))
		default:
			printMarkdown(renderer.ChangeMarkdown(report))
		}
	}
	return subcommands.ExitSuccess
}
