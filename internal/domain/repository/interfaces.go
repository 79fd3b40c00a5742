package repository

import (
	"context"
	"time"

	"MarketPulse/internal/domain/models"
)

// RawAlert is one raw text block plus the date heading that preceded it in
// the source stream, as handed over by an external extraction layer.
type RawAlert struct {
	Text        string `json:"text"`
	DateHeading string `json:"date_heading,omitempty"`
}

// AlertStream is a live source of raw alert blocks (websocket feed).
type AlertStream interface {
	Connect(ctx context.Context) error
	Read(ctx context.Context) (<-chan *RawAlert, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Deliverer pushes a JSON-serializable payload to the downstream sink.
// The transport (URL, topic, headers) is owned by the implementation;
// a non-nil error means the delivery did not happen.
type Deliverer interface {
	Deliver(ctx context.Context, payload []byte) error
}

// AlertStore is the key-ordered append/read store for accepted alerts.
type AlertStore interface {
	Init(ctx context.Context) error
	Append(ctx context.Context, a *models.Alert) error
	Query(ctx context.Context, ticker string, from, to time.Time, limit int) ([]models.Alert, error)
	Health(ctx context.Context) error
	Close() error
}

// Metrics records pipeline observability events.
type Metrics interface {
	RecordIngested(category, ticker string)
	RecordDuplicate()
	RecordRejected(reason string)
	RecordError(kind string)
	RecordQueueDepth(n int)
	RecordLatency(op string, seconds float64)
}
