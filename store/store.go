// Package store persists daily prices in a local SQLite database, one row
// per (category, symbol, day).
package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/etnz/watchbook"
	"github.com/etnz/watchbook/date"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed price store.
//
// Prices are persisted as decimal text to stay exact; the category column
// is the table discriminator, so one database file serves every catalog
// category. SQLite serializes concurrent writers itself, so unlike the
// catalog file the store is safe to share between jobs.
type Store struct {
	db *sql.DB
}

// Store implements the lookup interface the change computations consume.
var _ watchbook.PriceReader = (*Store)(nil)

// Open opens (or creates) the SQLite database and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so report jobs can read while a fetch job writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS prices (
			category TEXT NOT NULL,
			symbol   TEXT NOT NULL,
			day      TEXT NOT NULL,
			price    TEXT NOT NULL,
			volume   INTEGER,
			PRIMARY KEY (category, symbol, day)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prices_category_day ON prices(category, day)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// UpsertPrice stores the price (and volume, 0 meaning unknown) for
// (category, symbol, day). A later write for the same key overwrites the
// previous one; the store never holds two rows for one key.
func (s *Store) UpsertPrice(category, symbol string, day date.Date, price decimal.Decimal, volume int64) error {
	_, err := s.db.Exec(`
		INSERT INTO prices (category, symbol, day, price, volume)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (category, symbol, day)
		DO UPDATE SET price = excluded.price, volume = excluded.volume`,
		category, symbol, day.String(), price.String(), nullableVolume(volume))
	if err != nil {
		return fmt.Errorf("upsert price %s/%s@%s: %w", category, symbol, day, err)
	}
	return nil
}

// GetPrice returns the price for (category, symbol, day), or ok=false
// when the store has no row for that key.
func (s *Store) GetPrice(category, symbol string, day date.Date) (price decimal.Decimal, ok bool, err error) {
	q, ok, err := s.GetQuote(category, symbol, day)
	return q.Price, ok, err
}

// GetQuote returns the stored observation for (category, symbol, day),
// or ok=false when the store has no row for that key.
func (s *Store) GetQuote(category, symbol string, day date.Date) (q watchbook.Quote, ok bool, err error) {
	row := s.db.QueryRow(`
		SELECT price, volume FROM prices
		WHERE category = ? AND symbol = ? AND day = ?`,
		category, symbol, day.String())

	var priceText string
	var volume sql.NullInt64
	switch err := row.Scan(&priceText, &volume); err {
	case nil:
	case sql.ErrNoRows:
		return watchbook.Quote{}, false, nil
	default:
		return watchbook.Quote{}, false, fmt.Errorf("get price %s/%s@%s: %w", category, symbol, day, err)
	}

	price, err := parsePrice(priceText, category, symbol)
	if err != nil {
		return watchbook.Quote{}, false, err
	}
	return watchbook.Quote{Price: price, Volume: volume.Int64}, true, nil
}

// batchChunk limits the number of key tuples per batched query, to stay
// well below SQLite's bound-parameter limit.
const batchChunk = 400

// GetQuotes returns the stored observations for many keys of one
// category in a few round trips. Keys with no stored row are simply
// absent from the result map.
func (s *Store) GetQuotes(category string, keys []watchbook.QuoteKey) (map[watchbook.QuoteKey]watchbook.Quote, error) {
	quotes := make(map[watchbook.QuoteKey]watchbook.Quote, len(keys))

	for start := 0; start < len(keys); start += batchChunk {
		end := min(start+batchChunk, len(keys))
		batch := keys[start:end]

		args := make([]any, 0, 1+2*len(batch))
		args = append(args, category)
		for _, k := range batch {
			args = append(args, k.Symbol, k.Day.String())
		}

		rows, err := s.db.Query(`
			SELECT symbol, day, price, volume FROM prices
			WHERE category = ? AND (symbol, day) IN (VALUES `+tuplePlaceholders(len(batch))+`)`,
			args...)
		if err != nil {
			return nil, fmt.Errorf("get prices for %s: %w", category, err)
		}

		if err := func() error {
			defer rows.Close()
			for rows.Next() {
				var symbol, dayText, priceText string
				var volume sql.NullInt64
				if err := rows.Scan(&symbol, &dayText, &priceText, &volume); err != nil {
					return fmt.Errorf("get prices for %s: %w", category, err)
				}
				day, err := date.Parse(dayText)
				if err != nil {
					return fmt.Errorf("stored day %q for %s/%s is not a date: %w", dayText, category, symbol, err)
				}
				price, err := parsePrice(priceText, category, symbol)
				if err != nil {
					return err
				}
				quotes[watchbook.QuoteKey{Symbol: symbol, Day: day}] = watchbook.Quote{Price: price, Volume: volume.Int64}
			}
			return rows.Err()
		}(); err != nil {
			return nil, err
		}
	}

	return quotes, nil
}

// Categories returns the distinct categories present in the store, sorted.
func (s *Store) Categories() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT category FROM prices ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func parsePrice(text, category, symbol string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("stored price %q for %s/%s is not a decimal: %w", text, category, symbol, err)
	}
	return price, nil
}

func nullableVolume(volume int64) any {
	if volume <= 0 {
		return nil
	}
	return volume
}

func tuplePlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("(?, ?),", n), ",")
}
