package models

import "time"

// ClusterType classifies how tightly alerts are packed inside a window.
type ClusterType string

const (
	ClusterBurst    ClusterType = "BURST"    // >=3 alerts within 10s
	ClusterWave     ClusterType = "WAVE"     // >=3 alerts within a minute
	ClusterSteady   ClusterType = "STEADY"   // >=3 alerts spread wider
	ClusterIsolated ClusterType = "ISOLATED" // fewer than 3 alerts
)

// BiasLabel is the weighted direction comparison for a window.
type BiasLabel string

const (
	BiasBullish BiasLabel = "BULLISH"
	BiasBearish BiasLabel = "BEARISH"
	BiasNeutral BiasLabel = "NEUTRAL"
)

// TickerEntry records the first time a ticker appeared inside a window.
type TickerEntry struct {
	Ticker    string    `json:"ticker"`
	FirstSeen time.Time `json:"first_seen"`
}

// Window is a fixed-duration aggregation bucket. The derived fields are pure
// functions of Alerts and are recomputed on every aggregation pass.
type Window struct {
	Start           time.Time        `json:"start"`
	Alerts          []Alert          `json:"-"`
	Tickers         []TickerEntry    `json:"tickers"` // ordered by first seen
	BullishCount    int              `json:"bullish_count"`
	BearishCount    int              `json:"bearish_count"`
	CategoryCounts  map[Category]int `json:"category_counts"`
	MomentumSamples []float64        `json:"momentum_samples,omitempty"`

	CoinCount         int         `json:"coin_count"`
	AlertCount        int         `json:"alert_count"`
	TimeSpreadSeconds float64     `json:"time_spread_seconds"`
	Density           float64     `json:"density"` // alerts per minute
	Instant           bool        `json:"instant"` // several alerts, zero spread
	Cluster           ClusterType `json:"cluster"`
	Bias              BiasLabel   `json:"bias"`
	WaveType          string      `json:"wave_type"`
}
