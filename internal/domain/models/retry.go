package models

import (
	"encoding/json"
	"time"
)

// RetryItem is one buffered payload awaiting redelivery.
type RetryItem struct {
	ID         string          `json:"id"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
}

// QueueStatus is the introspection view of the retry queue.
type QueueStatus struct {
	Length    int            `json:"length"`
	OldestAge *time.Duration `json:"oldest_age,omitempty"`
	Degraded  bool           `json:"degraded"` // persistence failing, in-memory only
}
