package insight

import (
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
)

func TestAccumulatorRecentLookback(t *testing.T) {
	now := time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)
	ac := NewAccumulator(2 * time.Hour)
	ac.SetClock(func() time.Time { return now })

	ac.Record(mkAlert(now.Add(-90*time.Minute), "BTC", models.DirectionBullish, models.CategoryReversal))
	ac.Record(mkAlert(now.Add(-30*time.Minute), "ETH", models.DirectionBullish, models.CategoryBreak))
	ac.Record(mkAlert(now.Add(-5*time.Minute), "SOL", models.DirectionBearish, models.CategoryBreak))

	if got := len(ac.Recent(time.Hour)); got != 2 {
		t.Fatalf("1h lookback = %d alerts", got)
	}
	if got := len(ac.Recent(10 * time.Minute)); got != 1 {
		t.Fatalf("10m lookback = %d alerts", got)
	}
}

func TestAccumulatorRetentionTrim(t *testing.T) {
	now := time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)
	ac := NewAccumulator(time.Hour)
	ac.SetClock(func() time.Time { return now })

	ac.Record(mkAlert(now.Add(-3*time.Hour), "BTC", models.DirectionBullish, models.CategoryReversal))
	ac.Record(mkAlert(now, "ETH", models.DirectionBullish, models.CategoryBreak))

	if ac.Len() != 1 {
		t.Fatalf("expected expired alert trimmed, len = %d", ac.Len())
	}
}

func TestAccumulatorPulseCounts(t *testing.T) {
	now := time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)
	ac := NewAccumulator(2 * time.Hour)
	ac.SetClock(func() time.Time { return now })

	ac.Record(mkAlert(now.Add(-10*time.Minute), "BTC", models.DirectionBullish, models.CategoryReversal))
	ac.Record(mkAlert(now.Add(-8*time.Minute), "BTC", models.DirectionBullish, models.CategoryBreak))
	ac.Record(mkAlert(now.Add(-6*time.Minute), "BTC", models.DirectionBearish, models.CategoryBreak))
	ac.Record(mkAlert(now.Add(-4*time.Minute), "ETH", models.DirectionBearish, models.CategoryBreak))

	pc := ac.PulseCounts(time.Hour)
	if pc["BTC"].Bullish != 2 || pc["BTC"].Bearish != 1 {
		t.Fatalf("BTC counts = %+v", pc["BTC"])
	}
	if pc["ETH"].Bullish != 0 || pc["ETH"].Bearish != 1 {
		t.Fatalf("ETH counts = %+v", pc["ETH"])
	}
}
