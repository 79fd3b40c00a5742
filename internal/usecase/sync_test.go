package usecase

import (
	"context"
	"errors"
	"testing"

	"MarketPulse/internal/domain/models"
)

// fakeDeliverer records payloads and fails on demand.
type fakeDeliverer struct {
	fail     bool
	payloads [][]byte
}

func (d *fakeDeliverer) Deliver(_ context.Context, payload []byte) error {
	if d.fail {
		return errors.New("sink unavailable")
	}
	d.payloads = append(d.payloads, payload)
	return nil
}

func TestSyncDeliverySuccess(t *testing.T) {
	d := &fakeDeliverer{}
	q := newTestQueue(newMemStore())
	s := NewIngestionSync(d, q, nil, nil)

	batch := []models.Alert{{ID: "a1"}}
	if err := s.Sync(context.Background(), batch); err != nil {
		t.Fatalf("sync error: %v", err)
	}
	if len(d.payloads) != 1 {
		t.Fatalf("delivered %d payloads", len(d.payloads))
	}
	if q.Len() != 0 {
		t.Fatalf("queue len = %d after success", q.Len())
	}
}

func TestSyncEnqueuesOnFailure(t *testing.T) {
	d := &fakeDeliverer{fail: true}
	q := newTestQueue(newMemStore())
	s := NewIngestionSync(d, q, nil, nil)

	if err := s.Sync(context.Background(), []models.Alert{{ID: "a1"}}); err != nil {
		t.Fatalf("delivery failure must not surface: %v", err)
	}
	if q.Len() != 1 {
		t.Fatalf("queue len = %d, want the failed batch buffered", q.Len())
	}
}

func TestSyncDrainsBacklogAfterRecovery(t *testing.T) {
	d := &fakeDeliverer{fail: true}
	q := newTestQueue(newMemStore())
	s := NewIngestionSync(d, q, nil, nil)

	ctx := context.Background()
	_ = s.Sync(ctx, []models.Alert{{ID: "a1"}})
	_ = s.Sync(ctx, []models.Alert{{ID: "a2"}})
	if q.Len() != 2 {
		t.Fatalf("backlog = %d", q.Len())
	}

	// Sink recovers: the next live delivery chains a full drain.
	d.fail = false
	_ = s.Sync(ctx, []models.Alert{{ID: "a3"}})
	if q.Len() != 0 {
		t.Fatalf("queue len = %d after recovery drain", q.Len())
	}
	// Live batch first, then the two buffered ones in order.
	if len(d.payloads) != 3 {
		t.Fatalf("delivered %d payloads", len(d.payloads))
	}
}
