package models

// MoodLabel is the categorical sentiment bucket.
type MoodLabel string

const (
	MoodStronglyBullish MoodLabel = "STRONGLY BULLISH"
	MoodBullish         MoodLabel = "BULLISH"
	MoodNeutral         MoodLabel = "NEUTRAL"
	MoodBearish         MoodLabel = "BEARISH"
	MoodStronglyBearish MoodLabel = "STRONGLY BEARISH"
)

// Sentiment is a weighted bullish/bearish score in [-100, 100] plus its label.
// Samples is the raw (unweighted) alert count behind the score; zero samples
// means no signal rather than a neutral market.
type Sentiment struct {
	Score   int       `json:"score"`
	Label   MoodLabel `json:"label"`
	Samples int       `json:"samples"`
}
