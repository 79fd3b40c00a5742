package insight

import (
	"sync"
	"time"

	"MarketPulse/internal/domain/models"
)

// Accumulator owns the in-process alert history the aggregation and scenario
// stages read from. It replaces module-level counters with one explicit
// instance constructed per process and handed to every stage that needs it.
// All methods are safe for concurrent use.
type Accumulator struct {
	mu        sync.RWMutex
	alerts    []models.Alert
	retention time.Duration
	now       func() time.Time
}

// NewAccumulator creates an Accumulator keeping alerts for the given
// retention horizon (default 2h when zero).
func NewAccumulator(retention time.Duration) *Accumulator {
	if retention <= 0 {
		retention = 2 * time.Hour
	}
	return &Accumulator{retention: retention, now: time.Now}
}

// SetClock overrides the wall clock (tests).
func (ac *Accumulator) SetClock(now func() time.Time) { ac.now = now }

// Record appends one accepted alert and trims expired history.
func (ac *Accumulator) Record(a models.Alert) {
	now := ac.now()
	ac.mu.Lock()
	ac.alerts = append(ac.alerts, a)
	ac.trimLocked(now)
	ac.mu.Unlock()
}

// Recent returns a copy of the alerts newer than the lookback.
func (ac *Accumulator) Recent(lookback time.Duration) []models.Alert {
	cutoff := ac.now().Add(-lookback)
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	out := make([]models.Alert, 0, len(ac.alerts))
	for _, a := range ac.alerts {
		if !a.Timestamp.Before(cutoff) {
			out = append(out, a)
		}
	}
	return out
}

// PulseCounts tallies per-ticker directional counts over the lookback. The
// map is keyed by clean ticker.
func (ac *Accumulator) PulseCounts(lookback time.Duration) map[string]models.PulseCounts {
	cutoff := ac.now().Add(-lookback)
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	out := make(map[string]models.PulseCounts)
	for _, a := range ac.alerts {
		if a.Timestamp.Before(cutoff) {
			continue
		}
		ticker := a.Asset.CleanTicker
		if ticker == "" {
			ticker = a.Asset.Ticker
		}
		pc := out[ticker]
		if a.Bullish() {
			pc.Bullish++
		} else if a.Bearish() {
			pc.Bearish++
		}
		out[ticker] = pc
	}
	return out
}

// Len returns the number of retained alerts.
func (ac *Accumulator) Len() int {
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	return len(ac.alerts)
}

func (ac *Accumulator) trimLocked(now time.Time) {
	cutoff := now.Add(-ac.retention)
	i := 0
	for ; i < len(ac.alerts); i++ {
		if !ac.alerts[i].Timestamp.Before(cutoff) {
			break
		}
	}
	if i > 0 {
		ac.alerts = append(ac.alerts[:0:0], ac.alerts[i:]...)
	}
}
