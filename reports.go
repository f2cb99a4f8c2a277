package watchbook

import (
	"sort"

	"github.com/etnz/watchbook/date"
)

// ChangeRow is one line of a change report.
type ChangeRow struct {
	Symbol string
	Change Percent
	Price  Money // last close, formatted in the entry's currency
	Volume int64 // 0 when the source reports none
}

// ChangeReport provides the day-over-day changes of one category, with
// the symbols whose change could not be computed listed apart.
type ChangeReport struct {
	Category    string
	Reference   date.Date
	Current     date.Date
	Previous    date.Date
	Rows        []ChangeRow
	Unavailable []string // symbols with a missing price or a zero base
}

// BuildChangeReport computes the change of every symbol of the category
// as observed on reference day. Both trading days are looked up for all
// symbols in one store round trip. Rows come out sorted by descending
// magnitude of change.
func BuildChangeReport(r PriceReader, cat *Category, reference date.Date, class AssetClass) (*ChangeReport, error) {
	current, previous := ComparableDays(reference, class)
	report := &ChangeReport{
		Category:  cat.Name(),
		Reference: reference,
		Current:   current,
		Previous:  previous,
	}

	keys := make([]QuoteKey, 0, 2*cat.Len())
	for e := range cat.Entries() {
		keys = append(keys,
			QuoteKey{Symbol: e.Symbol, Day: current},
			QuoteKey{Symbol: e.Symbol, Day: previous})
	}
	quotes, err := r.GetQuotes(cat.Name(), keys)
	if err != nil {
		return nil, err
	}

	for e := range cat.Entries() {
		cur, curOK := quotes[QuoteKey{Symbol: e.Symbol, Day: current}]
		prev, prevOK := quotes[QuoteKey{Symbol: e.Symbol, Day: previous}]
		if !curOK || !prevOK || prev.Price.IsZero() {
			report.Unavailable = append(report.Unavailable, e.Symbol)
			continue
		}
		c := Change{
			CurrentPrice:  cur.Price,
			PreviousPrice: prev.Price,
		}
		report.Rows = append(report.Rows, ChangeRow{
			Symbol: e.Symbol,
			Change: c.Percent(),
			Price:  M(cur.Price, e.Currency),
			Volume: cur.Volume,
		})
	}

	report.SortByMagnitude()
	return report, nil
}

// SortByMagnitude sorts rows by descending magnitude of change, the
// default order of change reports: biggest movers first, either way.
// Ties break alphabetically so reports are stable.
func (r *ChangeReport) SortByMagnitude() {
	sort.SliceStable(r.Rows, func(i, j int) bool {
		a, b := r.Rows[i].Change.Abs(), r.Rows[j].Change.Abs()
		if a != b {
			return a > b
		}
		return r.Rows[i].Symbol < r.Rows[j].Symbol
	})
}

// SortByChange sorts rows by descending signed change: gainers first.
func (r *ChangeReport) SortByChange() {
	sort.SliceStable(r.Rows, func(i, j int) bool {
		if r.Rows[i].Change != r.Rows[j].Change {
			return r.Rows[i].Change > r.Rows[j].Change
		}
		return r.Rows[i].Symbol < r.Rows[j].Symbol
	})
}
