// Package cmd implements the CLI application to maintain a watchbook: a
// catalog of watched symbols, a price store, and the batch jobs that keep
// both current.
package cmd

import (
	"flag"
	"fmt"
	"log"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/watchbook"
	"github.com/etnz/watchbook/store"
	"github.com/google/subcommands"
)

// Commands lists the subcommands of the wb tool.
// A main package registers them all and executes the user-selected one.
var Commands = []subcommands.Command{
	&dailyCmd{},
	&updateCmd{},
	&reconcileCmd{},
	&duplicatesCmd{},
	&annotateCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var catalogFile = flag.String("catalog-file", "watchbook.json", "Path to the catalog file (JSON format)")
var storeFile = flag.String("store", "watchbook.db", "Path to the price store (SQLite database)")

// LoadCatalog is the central function to load the app catalog.
func LoadCatalog() (*watchbook.Catalog, error) {
	c, skipped, err := watchbook.LoadCatalog(*catalogFile)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Printf("warning, %d malformed entries in %q were skipped", skipped, *catalogFile)
	}
	return c, nil
}

// SaveCatalog writes the app catalog back, atomically.
func SaveCatalog(c *watchbook.Catalog) error {
	return watchbook.SaveCatalog(*catalogFile, c)
}

// OpenStore opens the app price store, creating it on first use.
func OpenStore() (*store.Store, error) {
	return store.Open(*storeFile)
}

// printMarkdown renders a markdown report for the terminal.
func printMarkdown(src string) {
	out, err := glamour.Render(src, "auto")
	if err != nil {
		// fall back to the raw markdown, still perfectly readable
		fmt.Print(src)
		return
	}
	fmt.Print(out)
}
