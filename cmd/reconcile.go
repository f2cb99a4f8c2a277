package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/etnz/watchbook"
	"github.com/etnz/watchbook/renderer"
	"github.com/google/subcommands"
)

// reconcileCmd holds the flags for the 'reconcile' subcommand.
type reconcileCmd struct {
	category string
	file     string
	url      string
	selector string
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "merge newly discovered symbols into the catalog" }
func (*reconcileCmd) Usage() string {
	return `wb reconcile -c <category> [-f <file>] [-url <page> -selector <css>]

  Merges candidate symbols into a catalog category. Candidates come from a
  text file (one symbol per line, # starts a comment) or from scraping an
  HTML page. Symbols already present anywhere in the catalog are skipped,
  so replaying the same input is a no-op. The catalog-wide duplicate scan
  is reported on every run.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", "", "target category (must already exist in the catalog)")
	f.StringVar(&c.file, "f", "", "text file of candidate symbols, one per line")
	f.StringVar(&c.url, "url", "", "HTML page to scrape for candidate symbols")
	f.StringVar(&c.selector, "selector", "", "CSS selector of the symbol nodes on the page")
}

func (c *reconcileCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.category == "" {
		fmt.Fprintln(os.Stderr, "Error: -c <category> is required")
		return subcommands.ExitUsageError
	}

	var candidates []watchbook.Entry
	var err error
	switch {
	case c.file != "":
		candidates, err = readCandidates(c.file)
	case c.url != "" && c.selector != "":
		candidates, err = watchbook.FetchMovers(http.DefaultClient, c.url, c.selector)
	default:
		fmt.Fprintln(os.Stderr, "Error: need either -f <file> or -url <page> -selector <css>")
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	catalog, err := LoadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	report, err := catalog.Reconcile(c.category, candidates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if report.Added > 0 {
		if err := SaveCatalog(catalog); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	printMarkdown(renderer.ReconcileMarkdown(report))
	return subcommands.ExitSuccess
}

// readCandidates loads candidate symbols from a text file, one per line.
// Blank lines and # comments are ignored; a line that is not a single
// token is counted as malformed and skipped, never fatal.
func readCandidates(path string) ([]watchbook.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open candidates file %q: %w", path, err)
	}
	defer f.Close()

	var entries []watchbook.Entry
	malformed := 0
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		symbol := watchbook.NormalizeSymbol(scanner.Text())
		if symbol == "" {
			continue
		}
		if strings.ContainsAny(symbol, " \t") {
			log.Printf("skipping malformed line %d in %q: %q", line, path, scanner.Text())
			malformed++
			continue
		}
		entries = append(entries, watchbook.Entry{Symbol: symbol})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read candidates file %q: %w", path, err)
	}
	if malformed > 0 {
		log.Printf("%d malformed lines in %q were skipped", malformed, path)
	}
	return entries, nil
}
