package usecase

import (
	"context"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/service/dedup"
	"MarketPulse/internal/service/insight"
	"MarketPulse/internal/service/parser"
	applogger "MarketPulse/pkg/logger"
)

// IngestPipeline runs the parse -> dedup -> accumulate -> store -> sync path
// for one raw text block. Every stage is total: rejection and duplication
// are defined results, and only boundary I/O (store, delivery) can fail.
// Those failures are logged and degraded, never propagated to the caller.
type IngestPipeline struct {
	parser  *parser.Parser
	dedup   *dedup.Deduplicator
	acc     *insight.Accumulator
	sync    *IngestionSync
	store   domrepo.AlertStore // optional history store, best-effort
	metrics domrepo.Metrics
	l       *applogger.Logger
}

// NewIngestPipeline creates the pipeline.
func NewIngestPipeline(
	p *parser.Parser,
	d *dedup.Deduplicator,
	acc *insight.Accumulator,
	sync *IngestionSync,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *IngestPipeline {
	return &IngestPipeline{parser: p, dedup: d, acc: acc, sync: sync, metrics: metrics, l: l}
}

// SetAlertStore wires the optional alert history store.
func (ip *IngestPipeline) SetAlertStore(store domrepo.AlertStore) { ip.store = store }

// Ingest processes one raw alert block. dateHeading is the raw date heading
// that most recently preceded the text in its source stream ("" means today).
func (ip *IngestPipeline) Ingest(ctx context.Context, rawText, dateHeading string) models.IngestResult {
	start := time.Now()
	defer func() {
		if ip.metrics != nil {
			ip.metrics.RecordLatency("ingest", time.Since(start).Seconds())
		}
	}()

	// Dedup on normalized raw text, before parsing, so a format
	// misclassification cannot readmit the same block.
	key := dedup.Key(rawText)
	if ip.dedup.Seen(key) {
		if ip.metrics != nil {
			ip.metrics.RecordDuplicate()
		}
		return models.IngestResult{Duplicate: true}
	}

	contextDate := ip.parser.ResolveDateHeading(dateHeading)
	alert, ok := ip.parser.Parse(rawText, contextDate)
	if !ok {
		if ip.metrics != nil {
			ip.metrics.RecordRejected("format")
		}
		return models.IngestResult{Reason: "unrecognized format"}
	}

	if ip.dedup.CheckAndMark(key) {
		if ip.metrics != nil {
			ip.metrics.RecordDuplicate()
		}
		return models.IngestResult{Duplicate: true}
	}

	ip.acc.Record(*alert)
	if ip.metrics != nil {
		ip.metrics.RecordIngested(string(alert.Signal.Category), alert.Asset.CleanTicker)
	}

	if ip.store != nil {
		if err := ip.store.Append(ctx, alert); err != nil {
			if ip.metrics != nil {
				ip.metrics.RecordError("alert_store")
			}
			if ip.l != nil {
				ip.l.Warn("alert history append failed", applogger.String("id", alert.ID), applogger.Error(err))
			}
		}
	}

	if ip.sync != nil {
		_ = ip.sync.Sync(ctx, []models.Alert{*alert})
	}

	return models.IngestResult{Accepted: true, AlertID: alert.ID}
}

// IngestBatch runs Ingest over a slice of raw blocks sharing one heading.
func (ip *IngestPipeline) IngestBatch(ctx context.Context, blocks []string, dateHeading string) []models.IngestResult {
	out := make([]models.IngestResult, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, ip.Ingest(ctx, b, dateHeading))
	}
	return out
}
