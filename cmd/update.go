package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/watchbook"
	"github.com/etnz/watchbook/date"
	"github.com/google/subcommands"
)

// updateCmd holds the flags for the 'update' subcommand.
type updateCmd struct {
	category string
	from     string
	to       string
	quotes   string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "fetch daily prices into the price store" }
func (*updateCmd) Usage() string {
	return `wb update [-c <category>] [-from <date>] [-to <date>] [-quotes <file>]

  Fetches daily closes from EODHD for every symbol of a category (or all
  categories) and upserts them into the price store. With -quotes, fetches
  today's quotes from the ad hoc JSON endpoints described in the file
  instead.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", "", "category to update (defaults to all)")
	f.StringVar(&c.from, "from", "-7d", "first day to fetch")
	f.StringVar(&c.to, "to", "-1d", "last day to fetch")
	f.StringVar(&c.quotes, "quotes", "", "YAML file of ad hoc quote endpoints; fetches today's quotes from them")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
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

	if c.quotes != "" {
		cfg, err := watchbook.LoadQuoteConfig(c.quotes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := watchbook.UpdateFromEndpoints(db, catalog, cfg, date.Today()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: some quotes failed:\n%v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	from, err := date.Parse(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := date.Parse(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var errs error
	for cat := range catalog.Categories() {
		if c.category != "" && cat.Name() != c.category {
			continue
		}
		errs = errors.Join(errs, watchbook.UpdatePrices(db, cat, from, to))
	}
	if errs != nil {
		fmt.Fprintf(os.Stderr, "Error: some symbols failed:\n%v\n", errs)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
