package watchbook

import (
	"fmt"
	"time"

	"github.com/etnz/watchbook/date"
)

// AssetClass labels how often the instruments of a category trade.
//
// It is a small closed set: crypto trades every calendar day, everything
// else trades on weekdays only.
type AssetClass string

const (
	Stocks      AssetClass = "stocks"
	ETFs        AssetClass = "etfs"
	Funds       AssetClass = "funds"
	Currencies  AssetClass = "currencies"
	Commodities AssetClass = "commodities"
	Crypto      AssetClass = "crypto"
)

// AlwaysTrading reports whether instruments of this class have a price on
// every calendar day, weekends included.
func (c AssetClass) AlwaysTrading() bool { return c == Crypto }

// ParseAssetClass parses a user supplied asset class label.
func ParseAssetClass(s string) (AssetClass, error) {
	switch AssetClass(s) {
	case Stocks, ETFs, Funds, Currencies, Commodities, Crypto:
		return AssetClass(s), nil
	default:
		return "", fmt.Errorf("unknown asset class %q", s)
	}
}

// ClassOf returns the asset class for a catalog category.
//
// A category named after an asset class is that class; any other category
// (sectors like "tech" or "energy") holds weekday-only instruments.
func ClassOf(category string) AssetClass {
	if class, err := ParseAssetClass(category); err == nil {
		return class
	}
	return Stocks
}

// ComparableDays returns the pair of calendar dates to compare for a
// day-over-day change observed on reference day.
//
// For weekday-only classes, current is the last weekday strictly before
// reference, and previous the weekday before that. For always-trading
// classes both lags are fixed: reference-1 and reference-2.
//
// Exchange holidays are not modeled: on the day after a holiday the
// returned dates have no stored price, which callers must treat as a
// lookup miss, not an error.
func ComparableDays(reference date.Date, class AssetClass) (current, previous date.Date) {
	current = reference.Add(-1)
	if class.AlwaysTrading() {
		return current, current.Add(-1)
	}

	// Roll current back onto a weekday.
	switch current.Weekday() {
	case time.Sunday:
		current = current.Add(-2)
	case time.Saturday:
		current = current.Add(-1)
	}

	// The weekday before current, skipping the weekend from a Monday.
	if current.Weekday() == time.Monday {
		previous = current.Add(-3)
	} else {
		previous = current.Add(-1)
	}
	return current, previous
}
