package insight

import (
	"math"

	"MarketPulse/internal/domain/models"
)

// ScoreWeights are the tunable sentiment parameters. The bearish weight and
// the cut points are heuristics inherited from the source categorization,
// not a hard contract; thresholds must stay monotonic and symmetric.
type ScoreWeights struct {
	Bull      float64 // weight of one bullish alert
	Bear      float64 // weight of one bearish alert
	BiasRatio float64 // dominance ratio for window bias
	Scale     float64 // score range is [-Scale, Scale]
	StrongAt  int     // |score| >= StrongAt -> STRONGLY label
	MildAt    int     // |score| >= MildAt -> plain label
}

// DefaultScoreWeights returns the inherited defaults (bearish x2).
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{Bull: 1, Bear: 2, BiasRatio: 1.2, Scale: 100, StrongAt: 60, MildAt: 20}
}

// Score computes the weighted sentiment from direction counts. The net weight
// is normalized by the heavier of the two weights so the asymmetry survives
// one-sided input: with bear x2, all-bearish saturates at -Scale while
// all-bullish tops out at Scale/2. The degenerate all-zero input returns the
// neutral sentinel (score 0, zero samples) rather than dividing by zero.
func Score(bullish, bearish int, w ScoreWeights) models.Sentiment {
	samples := bullish + bearish
	if samples == 0 {
		return models.Sentiment{Score: 0, Label: models.MoodNeutral, Samples: 0}
	}

	maxWeight := w.Bull
	if w.Bear > maxWeight {
		maxWeight = w.Bear
	}
	if maxWeight == 0 {
		return models.Sentiment{Score: 0, Label: models.MoodNeutral, Samples: samples}
	}

	net := float64(bullish)*w.Bull - float64(bearish)*w.Bear
	score := int(math.Round(net / (float64(samples) * maxWeight) * w.Scale))
	return models.Sentiment{Score: score, Label: labelFor(score, w), Samples: samples}
}

// ScoreAlerts tallies direction counts from an alert slice and scores them.
func ScoreAlerts(alerts []models.Alert, w ScoreWeights) models.Sentiment {
	var bullish, bearish int
	for i := range alerts {
		if alerts[i].Bullish() {
			bullish++
		} else if alerts[i].Bearish() {
			bearish++
		}
	}
	return Score(bullish, bearish, w)
}

// labelFor evaluates thresholds from most to least extreme.
func labelFor(score int, w ScoreWeights) models.MoodLabel {
	switch {
	case score >= w.StrongAt:
		return models.MoodStronglyBullish
	case score >= w.MildAt:
		return models.MoodBullish
	case score <= -w.StrongAt:
		return models.MoodStronglyBearish
	case score <= -w.MildAt:
		return models.MoodBearish
	default:
		return models.MoodNeutral
	}
}
