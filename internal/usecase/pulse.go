package usecase

import (
	"context"
	"sync"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/service/insight"
	"MarketPulse/internal/service/scenario"
)

// PulseUseCase serves on-demand aggregation over the accumulated alert
// history: windowed stats, sentiment, and scenario plans. The underlying
// stage functions are pure; this layer only decides lookbacks and fans out.
type PulseUseCase struct {
	acc        *insight.Accumulator
	classifier *scenario.Classifier
	weights    insight.ScoreWeights
	store      domrepo.AlertStore // optional, for ranges beyond the in-memory ring
}

// NewPulseUseCase creates the use case.
func NewPulseUseCase(acc *insight.Accumulator, classifier *scenario.Classifier, weights insight.ScoreWeights) *PulseUseCase {
	return &PulseUseCase{acc: acc, classifier: classifier, weights: weights}
}

// SetAlertStore wires the optional history store.
func (uc *PulseUseCase) SetAlertStore(store domrepo.AlertStore) { uc.store = store }

// Windows aggregates the recent alerts into fixed-size buckets.
func (uc *PulseUseCase) Windows(lookback time.Duration, size domrepo.WindowSize) []models.Window {
	alerts := uc.acc.Recent(lookback)
	return insight.AggregateWindows(alerts, size.Duration(), uc.weights)
}

// WindowsRange aggregates a historical range read from the alert store.
func (uc *PulseUseCase) WindowsRange(ctx context.Context, ticker string, from, to time.Time, size domrepo.WindowSize) ([]models.Window, error) {
	if uc.store == nil {
		return nil, nil
	}
	alerts, err := uc.store.Query(ctx, ticker, from, to, 10000)
	if err != nil {
		return nil, err
	}
	return insight.AggregateWindows(alerts, size.Duration(), uc.weights), nil
}

// Health pings the history store when one is wired.
func (uc *PulseUseCase) Health(ctx context.Context) error {
	if uc.store == nil {
		return nil
	}
	return uc.store.Health(ctx)
}

// Sentiment scores the recent alert history.
func (uc *PulseUseCase) Sentiment(lookback time.Duration) models.Sentiment {
	return insight.ScoreAlerts(uc.acc.Recent(lookback), uc.weights)
}

// Scenario classifies an externally supplied snapshot against recent pulse.
func (uc *PulseUseCase) Scenario(snapshot models.MarketSnapshot, lookback time.Duration) models.ScenarioPlans {
	return uc.classifier.Classify(snapshot, uc.acc.PulseCounts(lookback))
}

// OverviewParams selects what the overview computes.
type OverviewParams struct {
	Lookback   time.Duration
	WindowSize domrepo.WindowSize
	Snapshot   *models.MarketSnapshot // nil skips scenario classification
}

// Overview computes windows, sentiment, and (when a snapshot is supplied)
// scenario plans concurrently. The parts are pure in-memory computations, so
// no deadline is imposed here. Per-part failures land in Errors instead of
// failing the whole view.
func (uc *PulseUseCase) Overview(p OverviewParams) *models.PulseOverview {
	if p.Lookback <= 0 {
		p.Lookback = time.Hour
	}
	if p.WindowSize == 0 {
		p.WindowSize = domrepo.DefaultWindowSize()
	}

	res := &models.PulseOverview{Timestamp: time.Now(), Errors: map[string]string{}}

	type item struct {
		name string
		val  interface{}
	}
	parts := 2
	if p.Snapshot != nil {
		parts = 3
	}
	ch := make(chan item, parts)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ch <- item{"windows", uc.Windows(p.Lookback, p.WindowSize)}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		ch <- item{"sentiment", uc.Sentiment(p.Lookback)}
	}()
	if p.Snapshot != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch <- item{"scenario", uc.Scenario(*p.Snapshot, p.Lookback)}
		}()
	}

	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		switch it.name {
		case "windows":
			res.Windows = it.val.([]models.Window)
		case "sentiment":
			v := it.val.(models.Sentiment)
			res.Sentiment = &v
		case "scenario":
			v := it.val.(models.ScenarioPlans)
			res.Scenario = &v
		}
	}

	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res
}
