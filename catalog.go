package watchbook

import (
	"fmt"
	"iter"
	"sort"
	"strings"
)

// Entry is a single symbol in a catalog category.
//
// The persisted form is either a bare symbol string or an object carrying
// annotations; in memory both shapes are this one struct so the rest of
// the toolkit stays shape-agnostic.
type Entry struct {
	Symbol      string
	Tags        []string
	Description string
	Currency    string
}

// Annotated reports whether the entry carries anything beyond its symbol.
// Bare entries persist as plain strings.
func (e Entry) Annotated() bool {
	return len(e.Tags) > 0 || e.Description != "" || e.Currency != ""
}

// Category is a named, ordered collection of entries.
type Category struct {
	name    string
	entries []Entry
	index   map[string]int
}

// Name returns the category name, used both as the catalog grouping key
// and as the price store partition.
func (c *Category) Name() string { return c.name }

// Len returns the number of entries in the category.
func (c *Category) Len() int { return len(c.entries) }

// Has reports whether the category holds the given symbol.
func (c *Category) Has(symbol string) bool {
	_, ok := c.index[symbol]
	return ok
}

// Get returns the entry for a symbol, or a zero entry and false.
func (c *Category) Get(symbol string) (Entry, bool) {
	i, ok := c.index[symbol]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// append adds an entry at the end of the category. Caller must have
// checked for duplicates.
func (c *Category) append(e Entry) {
	c.index[e.Symbol] = len(c.entries)
	c.entries = append(c.entries, e)
}

// set replaces the entry for an existing symbol, preserving its position.
func (c *Category) set(e Entry) {
	if i, ok := c.index[e.Symbol]; ok {
		c.entries[i] = e
	}
}

// Entries returns an iterator over the category entries in order.
func (c *Category) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range c.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Catalog maps category names to ordered collections of symbol entries.
//
// Category order is the file order, preserved across load and save so the
// persisted file stays diff-friendly.
type Catalog struct {
	categories []*Category
	index      map[string]*Category
}

// NewCatalog returns a new empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		categories: make([]*Category, 0),
		index:      make(map[string]*Category),
	}
}

// AddCategory appends a new empty category and returns it.
// Adding an existing name returns the existing category.
func (c *Catalog) AddCategory(name string) *Category {
	if cat, ok := c.index[name]; ok {
		return cat
	}
	cat := &Category{name: name, index: make(map[string]int)}
	c.categories = append(c.categories, cat)
	c.index[name] = cat
	return cat
}

// Category returns the named category or nil.
func (c *Catalog) Category(name string) *Category { return c.index[name] }

// Has reports whether the catalog has the named category.
func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Len returns the number of categories.
func (c *Catalog) Len() int { return len(c.categories) }

// Categories returns an iterator over categories in file order.
func (c *Catalog) Categories() iter.Seq[*Category] {
	return func(yield func(*Category) bool) {
		for _, cat := range c.categories {
			if !yield(cat) {
				return
			}
		}
	}
}

// Find returns the names of all categories holding the given symbol, in
// file order. A symbol filed correctly appears in at most one.
func (c *Catalog) Find(symbol string) []string {
	var names []string
	for _, cat := range c.categories {
		if cat.Has(symbol) {
			names = append(names, cat.name)
		}
	}
	return names
}

// Duplicate reports a symbol filed under two or more categories, a likely
// mis-filed entry worth human review.
type Duplicate struct {
	Symbol     string
	Categories []string
}

// Count returns the number of categories holding the symbol.
func (d Duplicate) Count() int { return len(d.Categories) }

// Duplicates scans the whole catalog for symbols present in more than one
// category. The result is sorted by symbol for stable reports.
func (c *Catalog) Duplicates() []Duplicate {
	seen := make(map[string][]string)
	for _, cat := range c.categories {
		for _, e := range cat.entries {
			seen[e.Symbol] = append(seen[e.Symbol], cat.name)
		}
	}
	var dups []Duplicate
	for symbol, names := range seen {
		if len(names) >= 2 {
			dups = append(dups, Duplicate{Symbol: symbol, Categories: names})
		}
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i].Symbol < dups[j].Symbol })
	return dups
}

// Annotate fills the empty annotation fields of the existing entry for
// symbol, wherever it is filed. Human edits win: fields already set are
// kept untouched.
func (c *Catalog) Annotate(symbol string, ann Entry) error {
	holders := c.Find(symbol)
	if len(holders) == 0 {
		return fmt.Errorf("symbol %q is not in the catalog", symbol)
	}
	for _, name := range holders {
		cat := c.index[name]
		e, _ := cat.Get(symbol)
		if e.Description == "" {
			e.Description = ann.Description
		}
		if len(e.Tags) == 0 {
			e.Tags = ann.Tags
		}
		if e.Currency == "" {
			e.Currency = ann.Currency
		}
		cat.set(e)
	}
	return nil
}

// NormalizeSymbol canonicalizes a scraped or hand-typed symbol: trimmed
// and upper-cased. Returns "" for a line that holds no symbol at all.
func NormalizeSymbol(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || strings.HasPrefix(s, "#") {
		return ""
	}
	return s
}
