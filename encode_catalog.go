package watchbook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/kaptinlin/jsonrepair"
	"github.com/tidwall/pretty"
)

// This file contains code to persist a catalog as a single human-editable
// JSON file. The file is one object mapping category names to lists of
// entries; an entry is either a bare symbol string or an object with
// annotations.
//
// The overall strategy is read-whole-file / write-whole-file:
//   Decode: walk the top-level object token by token to preserve the
//           category order, parse every entry, skip (and count) the
//           malformed ones.
//   Encode: rebuild the whole object in catalog order and pretty-print it.
// There is no partial update; SaveCatalog replaces the file atomically.

// MarshalJSON persists a bare entry as its symbol string, and an annotated
// entry as an object with a stable field order.
func (e Entry) MarshalJSON() ([]byte, error) {
	if !e.Annotated() {
		return json.Marshal(e.Symbol)
	}
	w := &jsonObjectWriter{}
	w.Append("symbol", e.Symbol).
		Optional("tags", e.Tags).
		Optional("description", e.Description).
		Optional("currency", e.Currency)
	return w.MarshalJSON()
}

// UnmarshalJSON accepts both persisted shapes of an entry.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var symbol string
	if err := json.Unmarshal(data, &symbol); err == nil {
		*e = Entry{Symbol: symbol}
		return nil
	}

	// to parse the object shape, we use a dedicated local struct with tag annotations.
	var je struct {
		Symbol      string   `json:"symbol"`
		Tags        []string `json:"tags"`
		Description string   `json:"description"`
		Currency    string   `json:"currency"`
	}
	if err := json.Unmarshal(data, &je); err != nil {
		return err
	}
	if je.Symbol == "" {
		return fmt.Errorf("entry object is missing the %q property", "symbol")
	}
	*e = Entry{Symbol: je.Symbol, Tags: je.Tags, Description: je.Description, Currency: je.Currency}
	return nil
}

// DecodeCatalog reads a catalog from its persisted JSON form.
//
// Malformed entries are skipped, logged, and counted in skipped; one bad
// line in a hand-edited file must not abort the whole batch. A file that
// is not parseable JSON at all goes through a repair attempt before
// giving up.
func DecodeCatalog(r io.Reader) (c *Catalog, skipped int, err error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot read catalog: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return NewCatalog(), 0, nil
	}

	c, skipped, err = decodeCatalog(raw)
	if err == nil {
		return c, skipped, nil
	}

	// Hand-edited files accumulate trailing commas and missing quotes;
	// try a repair pass before declaring the file lost.
	repaired, rerr := jsonrepair.JSONRepair(string(raw))
	if rerr != nil {
		return nil, 0, fmt.Errorf("catalog is not valid JSON (repair failed too: %v): %w", rerr, err)
	}
	log.Printf("catalog was not valid JSON (%v), loaded after repair", err)
	return decodeCatalog([]byte(repaired))
}

func decodeCatalog(raw []byte) (*Catalog, int, error) {
	c := NewCatalog()
	skipped := 0

	dec := json.NewDecoder(bytes.NewReader(raw))

	// The top-level object is walked token by token instead of being
	// unmarshalled into a map, to preserve the category order.
	tok, err := dec.Token()
	if err != nil {
		return nil, 0, fmt.Errorf("cannot parse catalog: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, 0, fmt.Errorf("cannot parse catalog: want a top-level object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, 0, fmt.Errorf("cannot parse catalog: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, 0, fmt.Errorf("cannot parse catalog: want a category name, got %v", tok)
		}

		var rawEntries []json.RawMessage
		if err := dec.Decode(&rawEntries); err != nil {
			return nil, 0, fmt.Errorf("cannot parse category %q: want a list of entries: %w", name, err)
		}

		cat := c.AddCategory(name)
		for i, rawEntry := range rawEntries {
			var e Entry
			if err := json.Unmarshal(rawEntry, &e); err != nil {
				log.Printf("skipping malformed entry %d in category %q: %v", i, name, err)
				skipped++
				continue
			}
			if cat.Has(e.Symbol) {
				log.Printf("skipping entry %d in category %q: symbol %q is already defined", i, name, e.Symbol)
				skipped++
				continue
			}
			cat.append(e)
		}
	}

	return c, skipped, nil
}

// EncodeCatalog writes the catalog in its persisted JSON form:
// pretty-printed, categories and entries in catalog order.
func EncodeCatalog(w io.Writer, c *Catalog) error {
	obj := &jsonObjectWriter{}
	for cat := range c.Categories() {
		obj.Append(cat.name, cat.entries)
	}
	raw, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("cannot encode catalog: %w", err)
	}
	if _, err := w.Write(pretty.Pretty(raw)); err != nil {
		return fmt.Errorf("cannot write catalog: %w", err)
	}
	return nil
}

// LoadCatalog reads a catalog file. A missing file is not an error: it
// loads as an empty catalog, so a first run starts from scratch.
func LoadCatalog(path string) (c *Catalog, skipped int, err error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewCatalog(), 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("cannot open catalog file %q: %w", path, err)
	}
	defer f.Close()

	c, skipped, err = DecodeCatalog(f)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot decode catalog file %q: %w", path, err)
	}
	return c, skipped, nil
}

// SaveCatalog writes the whole catalog to path, atomically: the content
// goes to a temporary file in the same directory first, then replaces the
// previous file in a single rename. A failed write leaves the previous
// file intact.
//
// Atomicity protects against torn files, not against two concurrent
// invocations racing on the same catalog: this is a single-writer file,
// the last writer wins.
func SaveCatalog(path string, c *Catalog) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cannot create temporary catalog file in %q: %w", dir, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := EncodeCatalog(tmp, c); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot close temporary catalog file %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("cannot replace catalog file %q: %w", path, err)
	}
	return nil
}
