package watchbook

import (
	"slices"
	"testing"

	"github.com/etnz/watchbook/date"
)

func TestBuildChangeReport(t *testing.T) {
	prices := fakePrices{
		{Symbol: "AAPL", Day: friday}:   price(110),
		{Symbol: "AAPL", Day: thursday}: price(100),
		{Symbol: "MSFT", Day: friday}:   price(95),
		{Symbol: "MSFT", Day: thursday}: price(100),
		{Symbol: "NVDA", Day: friday}:   price(103),
		{Symbol: "NVDA", Day: thursday}: price(100),
		// XOM has no thursday close: it must land in Unavailable.
		{Symbol: "XOM", Day: friday}: price(50),
	}
	cat := NewCatalog().AddCategory("tech")
	for _, s := range []string{"AAPL", "MSFT", "NVDA", "XOM"} {
		cat.append(Entry{Symbol: s})
	}

	report, err := BuildChangeReport(prices, cat, monday, Stocks)
	if err != nil {
		t.Fatal(err)
	}

	if report.Current != friday || report.Previous != thursday {
		t.Errorf("days = %s/%s, want %s/%s", report.Current, report.Previous, friday, thursday)
	}

	// biggest movers first, either direction
	var order []string
	for _, row := range report.Rows {
		order = append(order, row.Symbol)
	}
	if want := []string{"AAPL", "MSFT", "NVDA"}; !slices.Equal(order, want) {
		t.Errorf("row order = %v, want %v", order, want)
	}
	if !report.Rows[0].Change.Equal(10) {
		t.Errorf("AAPL change = %s, want +10.00%%", report.Rows[0].Change.SignedString())
	}
	if !report.Rows[1].Change.Equal(-5) {
		t.Errorf("MSFT change = %s, want -5.00%%", report.Rows[1].Change.SignedString())
	}

	if !slices.Equal(report.Unavailable, []string{"XOM"}) {
		t.Errorf("unavailable = %v, want [XOM]", report.Unavailable)
	}
}

func TestBuildChangeReportZeroBase(t *testing.T) {
	prices := fakePrices{
		{Symbol: "JUNK", Day: friday}:   price(1),
		{Symbol: "JUNK", Day: thursday}: price(0),
	}
	cat := NewCatalog().AddCategory("penny")
	cat.append(Entry{Symbol: "JUNK"})

	report, err := BuildChangeReport(prices, cat, monday, Stocks)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Rows) != 0 || !slices.Equal(report.Unavailable, []string{"JUNK"}) {
		t.Errorf("zero base: rows=%v unavailable=%v, want the symbol unavailable", report.Rows, report.Unavailable)
	}
}

func TestChangeReportSortOrders(t *testing.T) {
	report := &ChangeReport{Rows: []ChangeRow{
		{Symbol: "B", Change: 2},
		{Symbol: "A", Change: -5},
		{Symbol: "C", Change: 5},
		{Symbol: "D", Change: -2},
	}}

	report.SortByMagnitude()
	var got []string
	for _, row := range report.Rows {
		got = append(got, row.Symbol)
	}
	// |5| ties break alphabetically
	if want := []string{"A", "C", "B", "D"}; !slices.Equal(got, want) {
		t.Errorf("SortByMagnitude = %v, want %v", got, want)
	}

	report.SortByChange()
	got = got[:0]
	for _, row := range report.Rows {
		got = append(got, row.Symbol)
	}
	if want := []string{"C", "B", "D", "A"}; !slices.Equal(got, want) {
		t.Errorf("SortByChange = %v, want %v", got, want)
	}
}

func TestBuildChangeReportCrypto(t *testing.T) {
	sunday := date.New(2024, 6, 16)
	saturday := date.New(2024, 6, 15)
	prices := fakePrices{
		{Symbol: "BTC-USD", Day: sunday}:   price(105),
		{Symbol: "BTC-USD", Day: saturday}: price(100),
	}
	cat := NewCatalog().AddCategory("crypto")
	cat.append(Entry{Symbol: "BTC-USD"})

	report, err := BuildChangeReport(prices, cat, monday, Crypto)
	if err != nil {
		t.Fatal(err)
	}
	if report.Current != sunday || report.Previous != saturday {
		t.Errorf("days = %s/%s, want %s/%s", report.Current, report.Previous, sunday, saturday)
	}
	if len(report.Rows) != 1 || !report.Rows[0].Change.Equal(5) {
		t.Errorf("rows = %+v, want one row at +5.00%%", report.Rows)
	}
}
