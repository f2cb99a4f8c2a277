package store

import (
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etnz/watchbook"
	"github.com/etnz/watchbook/date"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prices.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var day = date.New(2024, time.June, 14)

func TestUpsertAndGet(t *testing.T) {
	s := testStore(t)

	if err := s.UpsertPrice("stocks", "AAPL", day, decimal.NewFromFloat(187.3), 1200000); err != nil {
		t.Fatal(err)
	}

	q, ok, err := s.GetQuote("stocks", "AAPL", day)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("quote not found after upsert")
	}
	if !q.Price.Equal(decimal.NewFromFloat(187.3)) || q.Volume != 1200000 {
		t.Errorf("quote = %v/%d, want 187.3/1200000", q.Price, q.Volume)
	}
}

func TestUpsertOverwrites(t *testing.T) {
	s := testStore(t)

	if err := s.UpsertPrice("stocks", "AAPL", day, decimal.NewFromInt(100), 10); err != nil {
		t.Fatal(err)
	}
	// a later fetch of the same day replaces the row
	if err := s.UpsertPrice("stocks", "AAPL", day, decimal.NewFromInt(101), 20); err != nil {
		t.Fatal(err)
	}

	q, ok, err := s.GetQuote("stocks", "AAPL", day)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if !q.Price.Equal(decimal.NewFromInt(101)) || q.Volume != 20 {
		t.Errorf("quote = %v/%d, want 101/20", q.Price, q.Volume)
	}
}

func TestGetQuoteMiss(t *testing.T) {
	s := testStore(t)

	if err := s.UpsertPrice("stocks", "AAPL", day, decimal.NewFromInt(100), 0); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name             string
		category, symbol string
		day              date.Date
	}{
		{"unknown symbol", "stocks", "MSFT", day},
		{"unknown day", "stocks", "AAPL", day.Add(1)},
		{"category partition", "etfs", "AAPL", day},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok, err := s.GetQuote(tc.category, tc.symbol, tc.day)
			if err != nil {
				t.Fatal(err)
			}
			if ok {
				t.Error("found a quote that was never stored")
			}
		})
	}
}

func TestUnknownVolumeIsZero(t *testing.T) {
	s := testStore(t)

	if err := s.UpsertPrice("stocks", "AAPL", day, decimal.NewFromInt(100), 0); err != nil {
		t.Fatal(err)
	}
	q, ok, err := s.GetQuote("stocks", "AAPL", day)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if q.Volume != 0 {
		t.Errorf("volume = %d, want 0 for unknown", q.Volume)
	}
}

func TestGetQuotesBatch(t *testing.T) {
	s := testStore(t)

	previous := day.Add(-1)
	if err := s.UpsertPrice("stocks", "AAPL", day, decimal.NewFromInt(110), 0); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertPrice("stocks", "AAPL", previous, decimal.NewFromInt(100), 0); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertPrice("stocks", "MSFT", day, decimal.NewFromInt(50), 0); err != nil {
		t.Fatal(err)
	}
	// a row in another category must not leak into the batch
	if err := s.UpsertPrice("etfs", "MSFT", previous, decimal.NewFromInt(1), 0); err != nil {
		t.Fatal(err)
	}

	keys := []watchbook.QuoteKey{
		{Symbol: "AAPL", Day: day},
		{Symbol: "AAPL", Day: previous},
		{Symbol: "MSFT", Day: day},
		{Symbol: "MSFT", Day: previous}, // not stored under stocks
	}
	quotes, err := s.GetQuotes("stocks", keys)
	if err != nil {
		t.Fatal(err)
	}
	if len(quotes) != 3 {
		t.Fatalf("got %d quotes, want 3: %v", len(quotes), quotes)
	}
	if q := quotes[watchbook.QuoteKey{Symbol: "AAPL", Day: previous}]; !q.Price.Equal(decimal.NewFromInt(100)) {
		t.Errorf("AAPL previous = %v, want 100", q.Price)
	}
	if _, ok := quotes[watchbook.QuoteKey{Symbol: "MSFT", Day: previous}]; ok {
		t.Error("a key from another category leaked into the result")
	}
}

func TestGetQuotesManyKeys(t *testing.T) {
	s := testStore(t)

	// enough keys to span several chunks
	var keys []watchbook.QuoteKey
	d := day
	for i := 0; i < 1000; i++ {
		if i%250 == 0 {
			d = d.Add(-1)
		}
		keys = append(keys, watchbook.QuoteKey{Symbol: "AAPL", Day: d})
	}
	if err := s.UpsertPrice("stocks", "AAPL", day.Add(-1), decimal.NewFromInt(7), 0); err != nil {
		t.Fatal(err)
	}

	quotes, err := s.GetQuotes("stocks", keys)
	if err != nil {
		t.Fatal(err)
	}
	if len(quotes) != 1 {
		t.Errorf("got %d quotes, want the single stored one", len(quotes))
	}
}

func TestCategories(t *testing.T) {
	s := testStore(t)

	for _, c := range []string{"stocks", "crypto", "etfs", "stocks"} {
		if err := s.UpsertPrice(c, "X", day, decimal.NewFromInt(1), 0); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.Categories()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"crypto", "etfs", "stocks"}; !slices.Equal(got, want) {
		t.Errorf("categories = %v, want %v", got, want)
	}
}
