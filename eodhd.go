package watchbook

import (
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/etnz/watchbook/date"
)

// This file contains functions to access the EODHD API.

const eodhd_api_key = "EODHD_API_KEY"

var eodhdApiFlag = flag.String("eodhd-api-key", "", "EODHD API key to use for fetching prices from EODHD.com.\n If missing it will read the environment variable \""+eodhd_api_key+"\". You can get one at https://eodhd.com/")

func eodhdApiKey() string {
	// If the flag is not set, we try to read it from the environment variable.
	if *eodhdApiFlag == "" {
		*eodhdApiFlag = os.Getenv(eodhd_api_key)
	}
	return *eodhdApiFlag
}

// eodhdDaily fetches the daily closes for a symbol between from and to
// (both inclusive).
//
// It returns the closes as a history and the traded volumes keyed by day
// (absent when the source reports none). Responses go through the daily
// disk cache, so rerunning a batch the same day is free.
func eodhdDaily(apiKey, symbol string, from, to date.Date) (closes date.History[float64], volumes map[date.Date]int64, err error) {
	// jeod is the daily bar returned by the EODHD API.
	type jeod struct {
		Date          string  `json:"date"`
		Close         float64 `json:"close"`
		AdjustedClose float64 `json:"adjusted_close"`
		Volume        int64   `json:"volume"`
	}

	addr := fmt.Sprintf("https://eodhd.com/api/eod/%s?from=%s&to=%s&api_token=%s&fmt=json",
		url.PathEscape(symbol), from, to, url.QueryEscape(apiKey))

	var bars []jeod
	if err := jwget(daily(), addr, &bars); err != nil {
		return closes, nil, fmt.Errorf("cannot fetch EODHD daily prices for %q: %w", symbol, err)
	}

	volumes = make(map[date.Date]int64, len(bars))
	for _, bar := range bars {
		day, err := date.Parse(bar.Date)
		if err != nil {
			return closes, nil, fmt.Errorf("invalid day in EODHD response for %q: %w", symbol, err)
		}
		close := bar.AdjustedClose
		if close == 0 {
			close = bar.Close
		}
		closes.Append(day, close)
		if bar.Volume > 0 {
			volumes[day] = bar.Volume
		}
	}
	return closes, volumes, nil
}
