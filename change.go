package watchbook

import (
	"github.com/etnz/watchbook/date"
	"github.com/shopspring/decimal"
)

// Quote is one stored daily observation for a symbol.
type Quote struct {
	Price  decimal.Decimal
	Volume int64 // 0 when the source reports none
}

// QuoteKey identifies one observation within a category.
type QuoteKey struct {
	Symbol string
	Day    date.Date
}

// PriceReader is the read side of the price store.
//
// A missing observation is a normal outcome (weekends for the store's
// weekday-only categories, exchange holidays, symbols not fetched yet)
// and is reported through the ok result, not an error.
type PriceReader interface {
	// GetQuote returns the observation for (category, symbol, day).
	GetQuote(category, symbol string, day date.Date) (q Quote, ok bool, err error)

	// GetQuotes returns the observations for many keys of one category in
	// a single round trip. Missing keys are simply absent from the result.
	GetQuotes(category string, keys []QuoteKey) (map[QuoteKey]Quote, error)
}

// Change is the resolved day-over-day move of one symbol.
type Change struct {
	Category      string
	Symbol        string
	Current       date.Date
	Previous      date.Date
	CurrentPrice  decimal.Decimal
	PreviousPrice decimal.Decimal
	Volume        int64 // volume on the current day
}

// Percent returns the signed percentage change from previous to current.
func (c Change) Percent() Percent {
	delta := c.CurrentPrice.Sub(c.PreviousPrice)
	return Percent(delta.Div(c.PreviousPrice).InexactFloat64() * 100)
}

// DailyChange computes the day-over-day change for one symbol observed on
// reference day.
//
// It resolves the comparable trading days for the asset class, looks both
// prices up, and reports ok=false when either price is missing or the
// previous price is zero. A missing price is never an error: holidays and
// late fetches surface here as an unavailable change. The error result is
// reserved for store failures.
func DailyChange(r PriceReader, category, symbol string, reference date.Date, class AssetClass) (Change, bool, error) {
	current, previous := ComparableDays(reference, class)

	cur, ok, err := r.GetQuote(category, symbol, current)
	if err != nil {
		return Change{}, false, err
	}
	if !ok {
		return Change{}, false, nil
	}
	prev, ok, err := r.GetQuote(category, symbol, previous)
	if err != nil {
		return Change{}, false, err
	}
	if !ok || prev.Price.IsZero() {
		// a zero previous close cannot be a change base
		return Change{}, false, nil
	}

	return Change{
		Category:      category,
		Symbol:        symbol,
		Current:       current,
		Previous:      previous,
		CurrentPrice:  cur.Price,
		PreviousPrice: prev.Price,
		Volume:        cur.Volume,
	}, true, nil
}
