package watchbook

import (
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"
)

// FetchMovers downloads an HTML quote page and extracts candidate ticker
// symbols from the nodes matched by the CSS selector.
//
// The result is normalized (upper-cased, deduplicated, page order kept)
// and is meant to feed a catalog reconcile, which filters out everything
// already known.
func FetchMovers(client *http.Client, addr, selector string) ([]Entry, error) {
	resp, err := client.Get(addr)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch movers page %q: %w", addr, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("cannot fetch movers page %q: %v", addr, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cannot parse movers page %q: %w", addr, err)
	}

	seen := make(map[string]bool)
	var entries []Entry
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		symbol := NormalizeSymbol(sel.Text())
		if symbol == "" || seen[symbol] {
			return
		}
		seen[symbol] = true
		entries = append(entries, Entry{Symbol: symbol})
	})
	return entries, nil
}
