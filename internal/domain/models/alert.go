package models

import "time"

// Category identifies the alert text format the event came from.
type Category string

const (
	// CategoryReversal carries an oscillator confluence tuple.
	CategoryReversal Category = "reversal"
	// CategoryBreak carries a momentum reading instead.
	CategoryBreak Category = "break"
)

// Directional values are asymmetric on purpose: the source categorization
// trusts bearish prints more than bullish ones.
const (
	DirectionBullish = 1
	DirectionBearish = -2
	DirectionNeutral = 0
)

// Asset identifies the instrument an alert refers to.
type Asset struct {
	Ticker      string `json:"ticker"`
	CleanTicker string `json:"clean_ticker"` // exchange/quote suffixes stripped
	Timeframe   string `json:"timeframe"`
}

// Signal holds the directional payload extracted from the alert text.
type Signal struct {
	Category           Category `json:"category"`
	Direction          int      `json:"direction"` // +1 bullish, -2 bearish, 0 unknown
	Price              float64  `json:"price"`
	MomentumPercent    *float64 `json:"momentum_percent,omitempty"`
	TimestampExtracted bool     `json:"timestamp_extracted"`
}

// Confluence is the optional 4-tuple of oscillator readings across timeframes.
type Confluence struct {
	Readings [4]float64 `json:"readings"`
}

// Alert is one parsed market event. Immutable once created; ID is stable
// for identical (text, resolved day) input so re-ingestion is idempotent.
type Alert struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	Asset      Asset       `json:"asset"`
	Signal     Signal      `json:"signal"`
	Confluence *Confluence `json:"confluence,omitempty"`
	RawText    string      `json:"raw_text,omitempty"`
}

// Bullish reports whether the alert leans bullish.
func (a *Alert) Bullish() bool { return a.Signal.Direction > 0 }

// Bearish reports whether the alert leans bearish.
func (a *Alert) Bearish() bool { return a.Signal.Direction < 0 }
