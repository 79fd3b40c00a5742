package usecase

import (
	"context"

	domrepo "MarketPulse/internal/domain/repository"
)

// AlertCollector consumes raw alert blocks from a live stream and feeds the
// ingestion pipeline. The stream owns extraction and timing; this layer only
// reads and ingests.
type AlertCollector struct {
	stream   domrepo.AlertStream
	pipeline *IngestPipeline
	metrics  domrepo.Metrics
}

// NewAlertCollector creates a new AlertCollector instance.
func NewAlertCollector(stream domrepo.AlertStream, pipeline *IngestPipeline, metrics domrepo.Metrics) *AlertCollector {
	return &AlertCollector{stream: stream, pipeline: pipeline, metrics: metrics}
}

// IsConnected returns true if the alert stream is connected.
func (c *AlertCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

// Start connects the stream and launches the consume loop.
func (c *AlertCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	rawCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, rawCh, errCh)
	return nil
}

func (c *AlertCollector) consume(ctx context.Context, rawCh <-chan *domrepo.RawAlert, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case raw := <-rawCh:
			if raw == nil {
				continue
			}
			_ = c.pipeline.Ingest(ctx, raw.Text, raw.DateHeading)
		}
	}
}

// Stop closes the stream.
func (c *AlertCollector) Stop() error { return c.stream.Close() }
