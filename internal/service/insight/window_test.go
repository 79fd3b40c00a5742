package insight

import (
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
)

func mkAlert(ts time.Time, ticker string, dir int, cat models.Category) models.Alert {
	return models.Alert{
		ID:        ticker + ts.Format("150405"),
		Timestamp: ts,
		Asset:     models.Asset{Ticker: ticker, CleanTicker: ticker},
		Signal:    models.Signal{Category: cat, Direction: dir},
	}
}

func TestAggregateWindowsBucketing(t *testing.T) {
	base := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	alerts := []models.Alert{
		mkAlert(base.Add(2*time.Minute), "BTC", models.DirectionBullish, models.CategoryReversal),
		mkAlert(base.Add(4*time.Minute), "ETH", models.DirectionBullish, models.CategoryBreak),
		mkAlert(base.Add(6*time.Minute), "SOL", models.DirectionBearish, models.CategoryBreak),
	}

	windows := AggregateWindows(alerts, 5*time.Minute, DefaultScoreWeights())
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	if !windows[0].Start.Equal(base) {
		t.Fatalf("first window start = %v", windows[0].Start)
	}
	if !windows[1].Start.Equal(base.Add(5 * time.Minute)) {
		t.Fatalf("second window start = %v", windows[1].Start)
	}
	if windows[0].AlertCount != 2 || windows[1].AlertCount != 1 {
		t.Fatalf("counts = %d, %d", windows[0].AlertCount, windows[1].AlertCount)
	}
	if windows[0].CoinCount != 2 {
		t.Fatalf("coin count = %d", windows[0].CoinCount)
	}
	if windows[0].CategoryCounts[models.CategoryReversal] != 1 ||
		windows[0].CategoryCounts[models.CategoryBreak] != 1 {
		t.Fatalf("category counts = %v", windows[0].CategoryCounts)
	}
}

func TestClassifyClusterBurst(t *testing.T) {
	base := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	alerts := []models.Alert{
		mkAlert(base, "BTC", models.DirectionBullish, models.CategoryReversal),
		mkAlert(base.Add(3*time.Second), "ETH", models.DirectionBullish, models.CategoryReversal),
		mkAlert(base.Add(8*time.Second), "SOL", models.DirectionBullish, models.CategoryReversal),
	}
	w := AggregateWindows(alerts, 5*time.Minute, DefaultScoreWeights())[0]
	if w.Cluster != models.ClusterBurst {
		t.Fatalf("cluster = %s, want BURST", w.Cluster)
	}
	if w.WaveType != "burst flow" {
		t.Fatalf("wave type = %q", w.WaveType)
	}
}

func TestClassifyClusterWaveAndSteady(t *testing.T) {
	base := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	wave := []models.Alert{
		mkAlert(base, "BTC", models.DirectionBullish, models.CategoryReversal),
		mkAlert(base.Add(20*time.Second), "ETH", models.DirectionBullish, models.CategoryReversal),
		mkAlert(base.Add(45*time.Second), "SOL", models.DirectionBullish, models.CategoryReversal),
	}
	if w := AggregateWindows(wave, 5*time.Minute, DefaultScoreWeights())[0]; w.Cluster != models.ClusterWave {
		t.Fatalf("cluster = %s, want WAVE", w.Cluster)
	}

	steady := []models.Alert{
		mkAlert(base, "BTC", models.DirectionBullish, models.CategoryReversal),
		mkAlert(base.Add(time.Minute), "ETH", models.DirectionBullish, models.CategoryReversal),
		mkAlert(base.Add(3*time.Minute), "SOL", models.DirectionBullish, models.CategoryReversal),
	}
	if w := AggregateWindows(steady, 5*time.Minute, DefaultScoreWeights())[0]; w.Cluster != models.ClusterSteady {
		t.Fatalf("cluster = %s, want STEADY", w.Cluster)
	}
}

func TestClassifyClusterIsolated(t *testing.T) {
	base := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	alerts := []models.Alert{
		mkAlert(base, "BTC", models.DirectionBullish, models.CategoryReversal),
		mkAlert(base.Add(2*time.Second), "ETH", models.DirectionBullish, models.CategoryReversal),
	}
	w := AggregateWindows(alerts, 5*time.Minute, DefaultScoreWeights())[0]
	if w.Cluster != models.ClusterIsolated {
		t.Fatalf("cluster = %s, want ISOLATED", w.Cluster)
	}
}

func TestWindowInstantAndDensity(t *testing.T) {
	base := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	alerts := []models.Alert{
		mkAlert(base, "BTC", models.DirectionBullish, models.CategoryReversal),
		mkAlert(base, "ETH", models.DirectionBullish, models.CategoryReversal),
	}
	w := AggregateWindows(alerts, 5*time.Minute, DefaultScoreWeights())[0]
	if !w.Instant {
		t.Fatalf("expected instant window")
	}
	// Zero spread clamps the denominator to one second.
	if w.Density != 120 {
		t.Fatalf("density = %v", w.Density)
	}

	// A lone alert has zero spread too, so it also reads as instant.
	single := AggregateWindows(alerts[:1], 5*time.Minute, DefaultScoreWeights())[0]
	if !single.Instant {
		t.Fatalf("expected single-alert window to be instant")
	}
}

func TestClassifyBiasBearishWeight(t *testing.T) {
	w := DefaultScoreWeights()
	// One bull vs one bear: the 2x bearish weight dominates past the ratio.
	if got := classifyBias(1, 1, w); got != models.BiasBearish {
		t.Fatalf("bias = %s, want BEARISH", got)
	}
	// Three bulls vs one bear: 3 > 2*1.2 so bullish wins.
	if got := classifyBias(3, 1, w); got != models.BiasBullish {
		t.Fatalf("bias = %s, want BULLISH", got)
	}
	// 2.4 vs 2.0*1.2 is a tie under the ratio gate on both sides.
	if got := classifyBias(0, 0, w); got != models.BiasNeutral {
		t.Fatalf("bias = %s, want NEUTRAL", got)
	}
}

func TestWaveTypeCategoryDominance(t *testing.T) {
	base := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	alerts := []models.Alert{
		mkAlert(base, "BTC", models.DirectionBullish, models.CategoryReversal),
		mkAlert(base.Add(20*time.Second), "ETH", models.DirectionBullish, models.CategoryReversal),
		mkAlert(base.Add(40*time.Second), "SOL", models.DirectionBullish, models.CategoryReversal),
	}
	w := AggregateWindows(alerts, 5*time.Minute, DefaultScoreWeights())[0]
	if w.WaveType != "reversal cluster" {
		t.Fatalf("wave type = %q", w.WaveType)
	}
}

func TestWaveTypeBroadFlow(t *testing.T) {
	base := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	tickers := []string{"BTC", "ETH", "SOL", "AVAX", "DOGE"}
	var alerts []models.Alert
	for i, tk := range tickers {
		alerts = append(alerts, mkAlert(base.Add(time.Duration(i)*30*time.Second), tk, models.DirectionBullish, models.CategoryBreak))
	}
	w := AggregateWindows(alerts, 5*time.Minute, DefaultScoreWeights())[0]
	if w.WaveType != "broad flow" {
		t.Fatalf("wave type = %q", w.WaveType)
	}
}
