package usecase

import (
	"context"
	"encoding/json"
	"time"

	domrepo "MarketPulse/internal/domain/repository"
	pkgkafka "MarketPulse/pkg/kafka"
)

// KafkaAlertsHandler consumes raw alert messages from Kafka and feeds the
// ingestion pipeline. At-least-once delivery is fine: the dedup stage makes
// redelivered messages no-ops.
type KafkaAlertsHandler struct {
	topic    string
	pipeline *IngestPipeline
	metrics  domrepo.Metrics
}

func NewKafkaAlertsHandler(topic string, pipeline *IngestPipeline, metrics domrepo.Metrics) *KafkaAlertsHandler {
	return &KafkaAlertsHandler{topic: topic, pipeline: pipeline, metrics: metrics}
}

func (h *KafkaAlertsHandler) Topic() string { return h.topic }

// incoming message schema: {text, date_heading, emitted_at}
func (h *KafkaAlertsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Text        string `json:"text"`
		DateHeading string `json:"date_heading"`
		EmittedAt   int64  `json:"emitted_at"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.EmittedAt > 1e11 { // ms
		m.EmittedAt = m.EmittedAt / 1000
	}
	if m.EmittedAt > 0 {
		h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(m.EmittedAt, 0)).Seconds())
	}

	_ = h.pipeline.Ingest(ctx, m.Text, m.DateHeading)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaAlertsHandler)(nil)
