package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domrepo "MarketPulse/internal/domain/repository"
	applogger "MarketPulse/pkg/logger"
)

// IngestionSync delivers alert batches to the downstream sink and falls back
// to the durable retry queue on failure. On a successful live delivery it
// chains a queue drain, so buffered items ride out on the first healthy
// window. Delivery failures are absorbed here, never surfaced as fatal.
type IngestionSync struct {
	deliverer domrepo.Deliverer
	queue     *RetryQueue
	timeout   time.Duration
	metrics   domrepo.Metrics
	l         *applogger.Logger
}

// NewIngestionSync creates an IngestionSync with a 10s delivery timeout.
func NewIngestionSync(deliverer domrepo.Deliverer, queue *RetryQueue, metrics domrepo.Metrics, l *applogger.Logger) *IngestionSync {
	return &IngestionSync{
		deliverer: deliverer,
		queue:     queue,
		timeout:   10 * time.Second,
		metrics:   metrics,
		l:         l,
	}
}

// SetTimeout overrides the per-delivery timeout.
func (s *IngestionSync) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// Sync serializes the batch and attempts delivery. Expired queue items are
// pruned first; a failed or timed-out delivery enqueues the batch instead of
// dropping it. The returned error is informational only.
func (s *IngestionSync) Sync(ctx context.Context, batch interface{}) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordError("sync_marshal")
		}
		return fmt.Errorf("marshal batch: %w", err)
	}

	s.queue.Prune(time.Now())

	if err := s.deliver(ctx, payload); err != nil {
		if s.metrics != nil {
			s.metrics.RecordError("delivery")
		}
		if s.l != nil {
			s.l.Warn("delivery failed, payload queued", applogger.Error(err))
		}
		s.queue.Enqueue("alert_batch", payload)
		return nil
	}

	s.queue.FlushNext(ctx, s.deliver)
	return nil
}

// deliver runs one timeout-bounded delivery attempt. A timeout is a plain
// delivery failure, never an ambiguous state.
func (s *IngestionSync) deliver(ctx context.Context, payload []byte) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.deliverer.Deliver(ctx, payload)
	if s.metrics != nil {
		s.metrics.RecordLatency("deliver", time.Since(start).Seconds())
	}
	return err
}
