package models

// Requests for pulse HTTP endpoints. Defined in domain for consistency and reuse.

type IngestRequest struct {
	Text        string `json:"text" validate:"required"`
	DateHeading string `json:"date_heading"`
}

type PulseRequest struct {
	WindowMinutes int `query:"window" json:"window" default:"5" validate:"gte=1,lte=60"`
	LookbackMin   int `query:"lookback" json:"lookback" default:"60" validate:"gte=1,lte=1440"`
}

type SentimentRequest struct {
	LookbackMin int `query:"lookback" json:"lookback" default:"60" validate:"gte=1,lte=1440"`
}

type ScenarioRequest struct {
	Snapshot    MarketSnapshot `json:"snapshot" validate:"required"`
	LookbackMin int            `json:"lookback" default:"60" validate:"gte=1,lte=1440"`
}
