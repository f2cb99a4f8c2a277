package watchbook

import (
	"errors"
	"fmt"
	"log"

	"github.com/etnz/watchbook/date"
	"github.com/shopspring/decimal"
)

// This file contains functions to update the price store with latest prices.

// PriceWriter is the write side of the price store.
type PriceWriter interface {
	// UpsertPrice stores one observation, overwriting any previous one
	// for the same (category, symbol, day). Pass volume 0 when unknown.
	UpsertPrice(category, symbol string, day date.Date, price decimal.Decimal, volume int64) error
}

// UpdatePrices fetches the daily closes of every symbol of the category
// from EODHD and upserts them into the store.
//
// A symbol that fails to fetch does not stop the batch: its error is
// collected and the remaining symbols are still updated. The joined
// errors are returned at the end.
func UpdatePrices(w PriceWriter, cat *Category, from, to date.Date) error {
	apiKey := eodhdApiKey()
	if apiKey == "" {
		return errors.New("EODHD API key is not set. Use -eodhd-api-key flag or EODHD_API_KEY environment variable")
	}

	var errs error
	for e := range cat.Entries() {
		closes, volumes, err := eodhdDaily(apiKey, e.Symbol, from, to)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("failed to update %s/%s: %w", cat.Name(), e.Symbol, err))
			continue
		}
		if closes.Len() == 0 {
			log.Printf("no new prices for %s/%s between %s and %s", cat.Name(), e.Symbol, from, to)
			continue
		}
		for day, close := range closes.Values() {
			if err := w.UpsertPrice(cat.Name(), e.Symbol, day, decimal.NewFromFloat(close), volumes[day]); err != nil {
				errs = errors.Join(errs, err)
				break
			}
		}
	}
	return errs
}
