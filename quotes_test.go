package watchbook

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/etnz/watchbook/date"
)

func TestLoadQuoteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.yaml")
	src := `endpoints:
  - name: acme
    category: stocks
    url: https://quotes.example.com/api/{symbol}
    price_path: $.data.close
    volume_path: $.data.volume
    symbols: [AAPL, MSFT]
`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadQuoteConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Endpoints) != 1 {
		t.Fatalf("got %d endpoints, want 1", len(cfg.Endpoints))
	}
	e := cfg.Endpoints[0]
	if e.Name != "acme" || e.Category != "stocks" || e.PricePath != "$.data.close" {
		t.Errorf("endpoint = %+v", e)
	}
	if len(e.Symbols) != 2 {
		t.Errorf("symbols = %v, want [AAPL MSFT]", e.Symbols)
	}
}

func TestLoadQuoteConfigRejectsIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.yaml")
	src := `endpoints:
  - name: broken
    url: https://quotes.example.com/api/{symbol}
`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadQuoteConfig(path); err == nil {
		t.Error("an endpoint without category and price_path should be rejected")
	}
}

func TestQuoteEndpointFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data": {"symbol": %q, "close": 187.3, "volume": "1,200,000"}}`, r.URL.Path)
	}))
	defer srv.Close()

	e := &QuoteEndpoint{
		Name:       "acme",
		Category:   "stocks",
		URL:        srv.URL + "/{symbol}",
		PricePath:  "$.data.close",
		VolumePath: "$.data.volume",
	}
	price, volume, err := e.Fetch(srv.Client(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if price != 187.3 {
		t.Errorf("price = %v, want 187.3", price)
	}
	// quoted thousands-separated volume is still a number
	if volume != 1200000 {
		t.Errorf("volume = %d, want 1200000", volume)
	}
}

func TestQuoteEndpointFetchMissingVolume(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"close": 42.0}}`)
	}))
	defer srv.Close()

	e := &QuoteEndpoint{
		Name:       "acme",
		Category:   "stocks",
		URL:        srv.URL + "/{symbol}",
		PricePath:  "$.data.close",
		VolumePath: "$.data.volume",
	}
	price, volume, err := e.Fetch(srv.Client(), "AAPL")
	if err != nil {
		t.Fatalf("a missing volume should not fail the fetch: %v", err)
	}
	if price != 42.0 || volume != 0 {
		t.Errorf("price=%v volume=%d, want 42.0, 0", price, volume)
	}
}

func TestQuoteEndpointFetchBadPricePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"close": "n/a"}}`)
	}))
	defer srv.Close()

	e := &QuoteEndpoint{
		Name:      "acme",
		Category:  "stocks",
		URL:       srv.URL + "/{symbol}",
		PricePath: "$.data.close",
	}
	if _, _, err := e.Fetch(srv.Client(), "AAPL"); err == nil {
		t.Error("a non-numeric price should fail the fetch")
	}
}

func TestJSONNumber(t *testing.T) {
	jobj := map[string]any{
		"plain":  123.5,
		"quoted": "1,234.5",
		"list":   []any{9.5, 10.5},
		"text":   "hello",
	}
	testCases := []struct {
		path    string
		want    float64
		wantErr bool
	}{
		{"$.plain", 123.5, false},
		{"$.quoted", 1234.5, false},
		{"$.list", 9.5, false}, // first element of a list answer
		{"$.text", 0, true},
		{"$.absent", 0, true},
	}
	for _, tc := range testCases {
		got, err := jsonNumber(jobj, tc.path)
		if (err != nil) != tc.wantErr {
			t.Errorf("jsonNumber(%q) err = %v, wantErr %v", tc.path, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.want {
			t.Errorf("jsonNumber(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

// fakeWriter records upserts for assertions.
type fakeWriter map[QuoteKey]Quote

func (f fakeWriter) UpsertPrice(category, symbol string, day date.Date, price decimal.Decimal, volume int64) error {
	f[QuoteKey{Symbol: symbol, Day: day}] = Quote{Price: price, Volume: volume}
	return nil
}

func TestUpdateFromEndpointsUnknownCategory(t *testing.T) {
	cfg := &QuoteConfig{Endpoints: []QuoteEndpoint{{
		Name:      "acme",
		Category:  "nope",
		URL:       "https://quotes.example.com/{symbol}",
		PricePath: "$.close",
	}}}
	w := fakeWriter{}
	err := UpdateFromEndpoints(w, NewCatalog(), cfg, date.Today())
	if err == nil {
		t.Fatal("an endpoint bound to an absent category should fail")
	}
	if len(w) != 0 {
		t.Errorf("upserts recorded despite the failure: %v", w)
	}
}
