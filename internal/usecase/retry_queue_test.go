package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// memStore is an in-memory BytesCache with switchable failure.
type memStore struct {
	data map[string][]byte
	fail bool
}

func newMemStore() *memStore { return &memStore{data: make(map[string][]byte)} }

func (m *memStore) GetBytes(key string) ([]byte, bool, error) {
	if m.fail {
		return nil, false, errors.New("store down")
	}
	b, ok := m.data[key]
	return b, ok, nil
}

func (m *memStore) SetBytes(key string, value []byte, _ time.Duration) error {
	if m.fail {
		return errors.New("store down")
	}
	m.data[key] = value
	return nil
}

func newTestQueue(store *memStore, opts ...QueueOption) *RetryQueue {
	opts = append([]QueueOption{WithDrainDelay(0)}, opts...)
	return NewRetryQueue(store, "test:queue", nil, nil, opts...)
}

func TestQueueFIFOOrder(t *testing.T) {
	q := newTestQueue(newMemStore())
	q.Enqueue("alert_batch", json.RawMessage(`"first"`))
	q.Enqueue("alert_batch", json.RawMessage(`"second"`))
	q.Enqueue("alert_batch", json.RawMessage(`"third"`))

	var got []string
	q.FlushNext(context.Background(), func(_ context.Context, payload []byte) error {
		got = append(got, string(payload))
		return nil
	})
	if len(got) != 3 || got[0] != `"first"` || got[2] != `"third"` {
		t.Fatalf("drain order = %v", got)
	}
	if q.Len() != 0 {
		t.Fatalf("len = %d after full drain", q.Len())
	}
}

func TestQueuePersistAndReload(t *testing.T) {
	store := newMemStore()
	q := newTestQueue(store)
	q.Enqueue("alert_batch", json.RawMessage(`{"a":1}`))
	q.Enqueue("alert_batch", json.RawMessage(`{"a":2}`))

	// A fresh queue over the same store sees the persisted items.
	q2 := newTestQueue(store)
	if q2.Len() != 2 {
		t.Fatalf("reloaded len = %d", q2.Len())
	}
}

func TestQueueFlushStopsOnFailure(t *testing.T) {
	q := newTestQueue(newMemStore())
	q.Enqueue("alert_batch", json.RawMessage(`"a"`))
	q.Enqueue("alert_batch", json.RawMessage(`"b"`))

	calls := 0
	q.FlushNext(context.Background(), func(_ context.Context, _ []byte) error {
		calls++
		return errors.New("downstream down")
	})
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
	if q.Len() != 2 {
		t.Fatalf("failed delivery must not remove items, len = %d", q.Len())
	}
}

func TestQueueRetentionHorizon(t *testing.T) {
	now := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	q := newTestQueue(newMemStore(), WithQueueClock(clock))

	q.Enqueue("alert_batch", json.RawMessage(`"old"`))

	now = now.Add(71 * time.Hour)
	if n := q.Prune(now); n != 0 {
		t.Fatalf("pruned %d at 71h, want 0", n)
	}
	if q.Len() != 1 {
		t.Fatalf("len = %d at 71h", q.Len())
	}

	now = now.Add(2 * time.Hour)
	if n := q.Prune(now); n != 1 {
		t.Fatalf("pruned %d at 73h, want 1", n)
	}
	if q.Len() != 0 {
		t.Fatalf("len = %d at 73h", q.Len())
	}
}

func TestQueueDegradedMode(t *testing.T) {
	store := newMemStore()
	store.fail = true
	q := newTestQueue(store)

	// Enqueue keeps working in-memory while the store is down.
	q.Enqueue("alert_batch", json.RawMessage(`"x"`))
	if q.Len() != 1 {
		t.Fatalf("len = %d", q.Len())
	}
	st := q.Status()
	if !st.Degraded {
		t.Fatalf("expected degraded status")
	}

	// Store recovery clears the flag on the next persist.
	store.fail = false
	q.Enqueue("alert_batch", json.RawMessage(`"y"`))
	if q.Status().Degraded {
		t.Fatalf("expected recovery from degraded mode")
	}
}

func TestQueueStatusOldestAge(t *testing.T) {
	now := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	q := newTestQueue(newMemStore(), WithQueueClock(clock))

	if st := q.Status(); st.OldestAge != nil || st.Length != 0 {
		t.Fatalf("empty status = %+v", st)
	}

	q.Enqueue("alert_batch", json.RawMessage(`"x"`))
	now = now.Add(10 * time.Minute)
	st := q.Status()
	if st.OldestAge == nil || *st.OldestAge != 10*time.Minute {
		t.Fatalf("oldest age = %v", st.OldestAge)
	}
}
