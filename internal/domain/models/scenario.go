package models

import "time"

// SnapshotRow is one ticker's indicator state from the external scan
// subsystem. Required numeric fields are pointers so that malformed rows can
// be detected and skipped instead of defaulting to zero.
type SnapshotRow struct {
	Ticker            string   `json:"ticker"`
	Price             *float64 `json:"price"`
	ResistanceDistPct *float64 `json:"resistance_dist_pct"`
	SupportDistPct    *float64 `json:"support_dist_pct"`
	MomentumScore     *float64 `json:"momentum_score"`
	VolumeSpike       bool     `json:"volume_spike"`
	PositionCode      string   `json:"position_code,omitempty"`
}

// MarketSnapshot is a point-in-time set of per-ticker indicator rows,
// consumed but not owned by the scenario classifier.
type MarketSnapshot struct {
	TakenAt time.Time     `json:"taken_at"`
	Rows    []SnapshotRow `json:"rows"`
}

// PlanType separates breakout candidates from breakdown candidates.
type PlanType string

const (
	PlanBreakout  PlanType = "BREAKOUT"
	PlanBreakdown PlanType = "BREAKDOWN"
)

// ScenarioCandidate is one ranked entry in a plan list. Produced fresh on
// each classification call, never persisted by the core.
type ScenarioCandidate struct {
	Ticker     string   `json:"ticker"`
	Price      float64  `json:"price"`
	Trigger    string   `json:"trigger"`
	Heat       int      `json:"heat"`
	VolumeFlag bool     `json:"volume_flag"`
	PlanType   PlanType `json:"plan_type"`
}

// ScenarioPlans holds both candidate lists. A ticker may appear in both when
// its indicators satisfy both membership windows.
type ScenarioPlans struct {
	PlanA []ScenarioCandidate `json:"plan_a"`
	PlanB []ScenarioCandidate `json:"plan_b"`
}

// PulseCounts are per-ticker directional event counts over a recent horizon.
type PulseCounts struct {
	Bullish int `json:"bullish"`
	Bearish int `json:"bearish"`
}
