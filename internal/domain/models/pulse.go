package models

import "time"

// PulseOverview is a consolidated view of the recent market pulse.
// Note: no transport (json/http) concerns decided here beyond field tags.
type PulseOverview struct {
	Timestamp time.Time         `json:"timestamp"`
	Windows   []Window          `json:"windows,omitempty"`
	Sentiment *Sentiment        `json:"sentiment,omitempty"`
	Scenario  *ScenarioPlans    `json:"scenario,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// IngestResult reports what the pipeline did with one raw text block.
type IngestResult struct {
	Accepted  bool   `json:"accepted"`
	Duplicate bool   `json:"duplicate"`
	AlertID   string `json:"alert_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}
