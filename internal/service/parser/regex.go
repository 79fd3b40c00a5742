package parser

import "regexp"

var (
	// TICKER • timeframe • HH:MM[:SS] AM/PM
	tickerLineRe = regexp.MustCompile(
		`([A-Z][A-Z0-9._]{1,14})\s*\x{2022}\s*([A-Za-z0-9]+)\s*\x{2022}\s*(\d{1,2}:\d{2}(?::\d{2})?\s*(?:AM|PM))`)

	bareClockRe = regexp.MustCompile(`\b(\d{1,2}:\d{2}(?::\d{2})?)\s*(AM|PM)\b`)

	looseTickerRe = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,11}(?:\.P)?$`)

	priceRe    = regexp.MustCompile(`(?mi)^Price\s+([0-9][0-9,]*(?:\.[0-9]+)?)\s*$`)
	momentumRe = regexp.MustCompile(`(?mi)^Chg\s+([+-]?[0-9]+(?:\.[0-9]+)?)%\s*$`)

	confluenceRe = regexp.MustCompile(
		`(?mi)^RSI\s+([0-9]+(?:\.[0-9]+)?)\s*\|\s*([0-9]+(?:\.[0-9]+)?)\s*\|\s*([0-9]+(?:\.[0-9]+)?)\s*\|\s*([0-9]+(?:\.[0-9]+)?)\s*$`)
)
