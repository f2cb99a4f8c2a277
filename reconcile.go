package watchbook

import (
	"errors"
	"fmt"
	"log"
)

// ErrCategoryNotFound reports a reconcile against a category the catalog
// does not have. Reconcile never auto-creates categories: a typo in a
// category name must not silently grow the catalog.
var ErrCategoryNotFound = errors.New("category not found")

// ReconcileReport summarizes one reconcile run.
type ReconcileReport struct {
	Target     string
	Added      int         // entries appended to the target category
	Skipped    int         // candidates already present somewhere
	Duplicates []Duplicate // symbols filed under two or more categories
}

// String returns a one line summary suitable for batch logs.
func (r ReconcileReport) String() string {
	return fmt.Sprintf("reconcile %q: %d added, %d already present, %d duplicates",
		r.Target, r.Added, r.Skipped, len(r.Duplicates))
}

// Reconcile merges candidate entries into the target category.
//
// A candidate already present anywhere in the catalog is skipped, which
// makes a replay of the same candidates a no-op. Candidates not present
// are appended to the target category in input order. The report also
// carries the catalog-wide duplicate scan, so a symbol mis-filed under
// two categories keeps being reported until a human resolves it; this
// function never moves or removes entries itself.
//
// If the target category does not exist the catalog is left untouched and
// ErrCategoryNotFound is returned.
func (c *Catalog) Reconcile(target string, candidates []Entry) (ReconcileReport, error) {
	report := ReconcileReport{Target: target}

	cat := c.Category(target)
	if cat == nil {
		return report, fmt.Errorf("cannot reconcile into %q: %w", target, ErrCategoryNotFound)
	}

	for _, candidate := range candidates {
		symbol := NormalizeSymbol(candidate.Symbol)
		if symbol == "" {
			continue
		}
		candidate.Symbol = symbol

		if holders := c.Find(symbol); len(holders) > 0 {
			report.Skipped++
			if holders[0] != target {
				log.Printf("symbol %q already filed under %q, not adding to %q", symbol, holders[0], target)
			}
			continue
		}

		cat.append(candidate)
		report.Added++
	}

	report.Duplicates = c.Duplicates()
	return report, nil
}
