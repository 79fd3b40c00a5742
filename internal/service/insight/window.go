package insight

import (
	"sort"
	"time"

	"MarketPulse/internal/domain/models"
)

// Cluster spread boundaries in seconds, evaluated when a window holds at
// least three alerts.
const (
	burstSpreadSeconds = 10
	waveSpreadSeconds  = 60
	minClusterAlerts   = 3
	broadCoinCount     = 5
)

// AggregateWindows buckets alerts into fixed-size windows and computes the
// derived per-window statistics. Pure function: derived fields are recomputed
// from each bucket's alert list on every call, windows come back sorted by
// start time, ticker entries by first-seen time.
func AggregateWindows(alerts []models.Alert, size time.Duration, weights ScoreWeights) []models.Window {
	if size <= 0 {
		size = 5 * time.Minute
	}

	buckets := make(map[time.Time]*models.Window)
	for _, a := range alerts {
		start := a.Timestamp.Truncate(size)
		w, ok := buckets[start]
		if !ok {
			w = &models.Window{
				Start:          start,
				CategoryCounts: make(map[models.Category]int),
			}
			buckets[start] = w
		}
		w.Alerts = append(w.Alerts, a)
	}

	out := make([]models.Window, 0, len(buckets))
	for _, w := range buckets {
		computeWindow(w, weights)
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func computeWindow(w *models.Window, weights ScoreWeights) {
	sort.SliceStable(w.Alerts, func(i, j int) bool {
		return w.Alerts[i].Timestamp.Before(w.Alerts[j].Timestamp)
	})

	firstSeen := make(map[string]time.Time)
	for _, a := range w.Alerts {
		ticker := a.Asset.CleanTicker
		if ticker == "" {
			ticker = a.Asset.Ticker
		}
		if _, ok := firstSeen[ticker]; !ok {
			firstSeen[ticker] = a.Timestamp
			w.Tickers = append(w.Tickers, models.TickerEntry{Ticker: ticker, FirstSeen: a.Timestamp})
		}
		if a.Bullish() {
			w.BullishCount++
		} else if a.Bearish() {
			w.BearishCount++
		}
		w.CategoryCounts[a.Signal.Category]++
		if a.Signal.MomentumPercent != nil {
			w.MomentumSamples = append(w.MomentumSamples, *a.Signal.MomentumPercent)
		}
	}

	w.AlertCount = len(w.Alerts)
	w.CoinCount = len(w.Tickers)
	if w.AlertCount > 0 {
		first := w.Alerts[0].Timestamp
		last := w.Alerts[w.AlertCount-1].Timestamp
		w.TimeSpreadSeconds = last.Sub(first).Seconds()
	}

	spread := w.TimeSpreadSeconds
	if spread < 1 {
		spread = 1
	}
	w.Density = float64(w.AlertCount) / spread * 60
	w.Instant = w.TimeSpreadSeconds == 0 && w.AlertCount > 0

	w.Cluster = classifyCluster(w.AlertCount, w.TimeSpreadSeconds)
	w.Bias = classifyBias(w.BullishCount, w.BearishCount, weights)
	w.WaveType = waveType(w)
}

func classifyCluster(count int, spreadSeconds float64) models.ClusterType {
	if count < minClusterAlerts {
		return models.ClusterIsolated
	}
	switch {
	case spreadSeconds < burstSpreadSeconds:
		return models.ClusterBurst
	case spreadSeconds < waveSpreadSeconds:
		return models.ClusterWave
	default:
		return models.ClusterSteady
	}
}

func classifyBias(bullish, bearish int, weights ScoreWeights) models.BiasLabel {
	bullWeight := float64(bullish) * weights.Bull
	bearWeight := float64(bearish) * weights.Bear
	switch {
	case bullWeight > bearWeight*weights.BiasRatio:
		return models.BiasBullish
	case bearWeight > bullWeight*weights.BiasRatio:
		return models.BiasBearish
	default:
		return models.BiasNeutral
	}
}

// waveType is a descriptive presentation tag, not an authoritative signal.
func waveType(w *models.Window) string {
	if w.Cluster == models.ClusterBurst {
		return "burst flow"
	}
	if w.CoinCount >= broadCoinCount {
		return "broad flow"
	}
	if w.AlertCount >= minClusterAlerts {
		rev := w.CategoryCounts[models.CategoryReversal]
		brk := w.CategoryCounts[models.CategoryBreak]
		switch {
		case rev*5 >= w.AlertCount*4:
			return "reversal cluster"
		case brk*5 >= w.AlertCount*4:
			return "break cluster"
		}
	}
	return "isolated flow"
}
