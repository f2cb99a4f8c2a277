package watchbook

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
)

const moversPage = `<html><body>
<table id="movers">
  <tr><td class="symbol"> aapl </td><td>+5.2%</td></tr>
  <tr><td class="symbol">NVDA</td><td>+4.1%</td></tr>
  <tr><td class="symbol">aapl</td><td>+5.2%</td></tr>
  <tr><td class="symbol">  </td><td>-</td></tr>
</table>
<div class="symbol">IGNORED-OUTSIDE</div>
</body></html>`

func TestFetchMovers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, moversPage)
	}))
	defer srv.Close()

	entries, err := FetchMovers(srv.Client(), srv.URL, "#movers .symbol")
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, e := range entries {
		got = append(got, e.Symbol)
	}
	// normalized, deduplicated, page order kept; the empty cell and the
	// node outside the selector are dropped
	if want := []string{"AAPL", "NVDA"}; !slices.Equal(got, want) {
		t.Errorf("symbols = %v, want %v", got, want)
	}
}

func TestFetchMoversBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := FetchMovers(srv.Client(), srv.URL, ".symbol"); err == nil {
		t.Error("a non-200 page should fail")
	}
}

func TestFetchMoversNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>no table today</p></body></html>`)
	}))
	defer srv.Close()

	entries, err := FetchMovers(srv.Client(), srv.URL, "#movers .symbol")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %v, want none", entries)
	}
}
