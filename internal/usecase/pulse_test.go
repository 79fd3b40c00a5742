package usecase

import (
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/service/insight"
	"MarketPulse/internal/service/scenario"
)

func newTestPulse(now time.Time) *PulseUseCase {
	acc := insight.NewAccumulator(72 * time.Hour)
	acc.SetClock(func() time.Time { return now })
	return NewPulseUseCase(acc, scenario.New(scenario.DefaultConfig()), insight.DefaultScoreWeights())
}

func pulseAlert(ts time.Time, ticker string, dir int) models.Alert {
	return models.Alert{
		ID:        ticker + ts.Format("150405"),
		Timestamp: ts,
		Asset:     models.Asset{Ticker: ticker, CleanTicker: ticker},
		Signal:    models.Signal{Category: models.CategoryBreak, Direction: dir},
	}
}

func TestOverviewAssemblesAllParts(t *testing.T) {
	now := time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)
	uc := newTestPulse(now)
	uc.acc.Record(pulseAlert(now.Add(-10*time.Minute), "BTC", models.DirectionBullish))
	uc.acc.Record(pulseAlert(now.Add(-8*time.Minute), "ETH", models.DirectionBearish))

	p := 1.0
	snap := models.MarketSnapshot{
		TakenAt: now,
		Rows: []models.SnapshotRow{
			{Ticker: "BTC", Price: &p, ResistanceDistPct: &p, SupportDistPct: &p, MomentumScore: &p},
		},
	}

	res := uc.Overview(OverviewParams{Lookback: time.Hour, Snapshot: &snap})
	if len(res.Windows) == 0 {
		t.Fatalf("no windows")
	}
	if res.Sentiment == nil || res.Sentiment.Samples != 2 {
		t.Fatalf("sentiment = %+v", res.Sentiment)
	}
	if res.Scenario == nil {
		t.Fatalf("no scenario plans")
	}
	if res.Errors != nil {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
}

func TestOverviewSkipsScenarioWithoutSnapshot(t *testing.T) {
	now := time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)
	uc := newTestPulse(now)
	uc.acc.Record(pulseAlert(now.Add(-5*time.Minute), "SOL", models.DirectionBullish))

	res := uc.Overview(OverviewParams{Lookback: time.Hour})
	if res.Scenario != nil {
		t.Fatalf("scenario computed without a snapshot")
	}
	if len(res.Windows) != 1 {
		t.Fatalf("windows = %d", len(res.Windows))
	}
}
