package watchbook

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/watchbook/date"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// This file supports ad hoc JSON quote sources: sites that expose a price
// somewhere inside an undocumented JSON payload, but no proper API. Each
// source is described in a YAML file by a URL template and a jsonpath to
// the price, so adding a source is an edit, not a code change.

// QuoteEndpoint describes one ad hoc JSON quote source.
type QuoteEndpoint struct {
	Name       string   `yaml:"name"`
	Category   string   `yaml:"category"`              // catalog category the quotes belong to
	URL        string   `yaml:"url"`                   // with a {symbol} placeholder
	PricePath  string   `yaml:"price_path"`            // jsonpath to the price value
	VolumePath string   `yaml:"volume_path,omitempty"` // optional jsonpath to the volume
	Symbols    []string `yaml:"symbols,omitempty"`     // optional; defaults to the category's catalog entries
}

// QuoteConfig is the set of configured quote endpoints.
type QuoteConfig struct {
	Endpoints []QuoteEndpoint `yaml:"endpoints"`
}

// LoadQuoteConfig reads the endpoints YAML file.
func LoadQuoteConfig(path string) (*QuoteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read quote endpoints file %q: %w", path, err)
	}
	cfg := &QuoteConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse quote endpoints file %q: %w", path, err)
	}
	for i, e := range cfg.Endpoints {
		if e.Category == "" || e.URL == "" || e.PricePath == "" {
			return nil, fmt.Errorf("endpoint %d (%q) must set category, url and price_path", i, e.Name)
		}
	}
	return cfg, nil
}

// Fetch downloads the endpoint's JSON payload for one symbol and extracts
// the price (and volume when configured).
func (e *QuoteEndpoint) Fetch(client *http.Client, symbol string) (price float64, volume int64, err error) {
	addr := strings.ReplaceAll(e.URL, "{symbol}", symbol)

	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return 0, 0, fmt.Errorf("error in wget %q for %q: %w", e.Name, symbol, err)
	}

	price, err = jsonNumber(jobj, e.PricePath)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing %q for %q: %w", e.Name, symbol, err)
	}
	if e.VolumePath != "" {
		v, err := jsonNumber(jobj, e.VolumePath)
		if err != nil {
			// volume is a nice-to-have; a source that stops publishing it
			// must not lose us the price
			return price, 0, nil
		}
		volume = int64(v)
	}
	return price, volume, nil
}

// jsonNumber extracts a numeric value at the given jsonpath.
func jsonNumber(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", path, err)
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	switch v := jval.(type) {
	case float64:
		return v, nil
	case string:
		// some sources quote their numbers
		f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
		if err != nil {
			return 0, fmt.Errorf("%q: %q is not a number", path, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%q: not a number, got %T", path, jval)
	}
}

// UpdateFromEndpoints fetches a quote for every configured endpoint and
// symbol, and upserts them into the store under the given day.
//
// Endpoints without an explicit symbol list quote every entry of their
// catalog category. Per-symbol failures are collected and joined, never
// fatal to the rest of the batch.
func UpdateFromEndpoints(w PriceWriter, c *Catalog, cfg *QuoteConfig, day date.Date) error {
	client := daily()
	var errs error
	for i := range cfg.Endpoints {
		e := &cfg.Endpoints[i]

		symbols := e.Symbols
		if len(symbols) == 0 {
			cat := c.Category(e.Category)
			if cat == nil {
				errs = errors.Join(errs, fmt.Errorf("endpoint %q: %q: %w", e.Name, e.Category, ErrCategoryNotFound))
				continue
			}
			for entry := range cat.Entries() {
				symbols = append(symbols, entry.Symbol)
			}
		}

		for _, symbol := range symbols {
			price, volume, err := e.Fetch(client, symbol)
			if err != nil {
				errs = errors.Join(errs, err)
				continue
			}
			if err := w.UpsertPrice(e.Category, symbol, day, decimal.NewFromFloat(price), volume); err != nil {
				errs = errors.Join(errs, err)
			}
		}
	}
	return errs
}
