package insight

import (
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
)

func TestScoreDegenerate(t *testing.T) {
	s := Score(0, 0, DefaultScoreWeights())
	if s.Score != 0 || s.Label != models.MoodNeutral || s.Samples != 0 {
		t.Fatalf("degenerate = %+v", s)
	}
}

func TestScoreExtremes(t *testing.T) {
	w := DefaultScoreWeights()
	// All-bullish saturates at Scale * Bull/Bear = 50 under the 2x bear weight.
	if s := Score(5, 0, w); s.Score != 50 || s.Label != models.MoodBullish {
		t.Fatalf("all bullish = %+v", s)
	}
	if s := Score(0, 5, w); s.Score != -100 || s.Label != models.MoodStronglyBearish {
		t.Fatalf("all bearish = %+v", s)
	}
}

func TestScoreOneSidedAsymmetry(t *testing.T) {
	w := DefaultScoreWeights()
	bull := Score(10, 0, w)
	bear := Score(0, 10, w)
	if bull.Score <= 0 || bear.Score >= 0 {
		t.Fatalf("signs: bull %d bear %d", bull.Score, bear.Score)
	}
	// The bear weight is double the bull weight, so the one-sided magnitudes
	// must keep that ratio rather than collapse to equal extremes.
	if 2*bull.Score != -bear.Score {
		t.Fatalf("magnitudes lost the weight ratio: bull %d bear %d", bull.Score, bear.Score)
	}
}

func TestScoreBearishWeight(t *testing.T) {
	w := DefaultScoreWeights()
	// Two bulls against one bear cancel exactly under the 2x bear weight.
	s := Score(2, 1, w)
	if s.Score != 0 || s.Label != models.MoodNeutral {
		t.Fatalf("2v1 = %+v", s)
	}
	if s.Samples != 3 {
		t.Fatalf("samples = %d", s.Samples)
	}
	// 6 bulls vs 1 bear: (6-2)/(7*2)*100 = 29 -> BULLISH.
	s = Score(6, 1, w)
	if s.Score != 29 || s.Label != models.MoodBullish {
		t.Fatalf("6v1 = %+v", s)
	}
}

func TestScoreThresholdBoundaries(t *testing.T) {
	w := DefaultScoreWeights()
	// (4-2)/(5*2)*100 = 20, the inclusive mild boundary.
	if s := Score(4, 1, w); s.Score != 20 || s.Label != models.MoodBullish {
		t.Fatalf("score %d label %s, want BULLISH", s.Score, s.Label)
	}
	// (4-22)/(15*2)*100 = -60, the inclusive strong boundary.
	if s := Score(4, 11, w); s.Score != -60 || s.Label != models.MoodStronglyBearish {
		t.Fatalf("score %d label %s, want STRONGLY BEARISH", s.Score, s.Label)
	}
}

func TestScoreAlerts(t *testing.T) {
	base := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	alerts := []models.Alert{
		mkAlert(base, "BTC", models.DirectionBullish, models.CategoryReversal),
		mkAlert(base, "ETH", models.DirectionBullish, models.CategoryReversal),
		mkAlert(base, "SOL", models.DirectionBearish, models.CategoryBreak),
		mkAlert(base, "XRP", models.DirectionNeutral, models.CategoryBreak),
	}
	s := ScoreAlerts(alerts, DefaultScoreWeights())
	if s.Samples != 3 {
		t.Fatalf("neutral alerts must not count as samples, got %d", s.Samples)
	}
	if s.Score != 0 {
		t.Fatalf("score = %d", s.Score)
	}
}
