package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	icache "MarketPulse/internal/service/cache"
	applogger "MarketPulse/pkg/logger"
)

// DefaultRetention is the bounded retention horizon for buffered payloads.
const DefaultRetention = 72 * time.Hour

// RetryQueue is the durable FIFO buffer for payloads that failed downstream
// delivery. The whole queue is persisted as one JSON array under a single
// key; retention is enforced here, not by the store. Enqueue never fails:
// when persistence is down the queue keeps running in-memory and logs the
// degradation, trading guaranteed retry for availability of the live path.
type RetryQueue struct {
	mu      sync.Mutex
	drainMu sync.Mutex // serializes drains so FIFO holds across callers

	store      icache.BytesCache
	key        string
	retention  time.Duration
	drainDelay time.Duration
	items      []models.RetryItem
	degraded   bool
	seq        atomic.Uint64
	now        func() time.Time

	l       *applogger.Logger
	metrics domrepo.Metrics
}

// QueueOption configures a RetryQueue.
type QueueOption func(*RetryQueue)

// WithRetention overrides the retention horizon.
func WithRetention(d time.Duration) QueueOption {
	return func(q *RetryQueue) {
		if d > 0 {
			q.retention = d
		}
	}
}

// WithDrainDelay sets the pause between chained flush attempts.
func WithDrainDelay(d time.Duration) QueueOption {
	return func(q *RetryQueue) {
		if d >= 0 {
			q.drainDelay = d
		}
	}
}

// WithQueueClock overrides the wall clock.
func WithQueueClock(now func() time.Time) QueueOption {
	return func(q *RetryQueue) { q.now = now }
}

// NewRetryQueue creates the queue and loads any persisted items. A store
// read failure starts the queue empty in degraded mode rather than failing.
func NewRetryQueue(store icache.BytesCache, key string, l *applogger.Logger, metrics domrepo.Metrics, opts ...QueueOption) *RetryQueue {
	q := &RetryQueue{
		store:      store,
		key:        key,
		retention:  DefaultRetention,
		drainDelay: 250 * time.Millisecond,
		now:        time.Now,
		l:          l,
		metrics:    metrics,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.load()
	return q
}

func (q *RetryQueue) load() {
	b, ok, err := q.store.GetBytes(q.key)
	if err != nil {
		q.degraded = true
		if q.l != nil {
			q.l.Warn("retry queue load failed, starting empty", applogger.Error(err))
		}
		return
	}
	if !ok || len(b) == 0 {
		return
	}
	var items []models.RetryItem
	if err := json.Unmarshal(b, &items); err != nil {
		if q.l != nil {
			q.l.Warn("retry queue state unreadable, starting empty", applogger.Error(err))
		}
		return
	}
	q.items = items
	q.recordDepth()
}

// Enqueue appends a payload with the current time and persists immediately.
// It never returns an error; persistence failure is logged and the item is
// kept in-memory only.
func (q *RetryQueue) Enqueue(kind string, payload json.RawMessage) {
	now := q.now()
	item := models.RetryItem{
		ID:         fmt.Sprintf("%d-%d", now.UnixNano(), q.seq.Add(1)),
		EnqueuedAt: now,
		Kind:       kind,
		Payload:    payload,
	}

	q.mu.Lock()
	q.pruneLocked(now)
	q.items = append(q.items, item)
	q.persistLocked()
	q.mu.Unlock()
	q.recordDepth()
}

// Prune removes items older than the retention horizon and returns how many
// were dropped.
func (q *RetryQueue) Prune(now time.Time) int {
	q.mu.Lock()
	n := q.pruneLocked(now)
	if n > 0 {
		q.persistLocked()
	}
	q.mu.Unlock()
	q.recordDepth()
	return n
}

func (q *RetryQueue) pruneLocked(now time.Time) int {
	i := 0
	for ; i < len(q.items); i++ {
		if now.Sub(q.items[i].EnqueuedAt) <= q.retention {
			break
		}
	}
	if i == 0 {
		return 0
	}
	if q.l != nil {
		q.l.Warn("retry queue pruned expired items", applogger.Int("dropped", i))
	}
	q.items = append(q.items[:0:0], q.items[i:]...)
	return i
}

// FlushNext drains the queue head-first: deliver the oldest item, remove it
// only on confirmed success, then try the next after a short delay. The
// first failure stops the drain and leaves the queue untouched. Drains are
// serialized; delivery happens outside the item lock.
func (q *RetryQueue) FlushNext(ctx context.Context, deliver func(ctx context.Context, payload []byte) error) {
	q.drainMu.Lock()
	defer q.drainMu.Unlock()

	for {
		q.mu.Lock()
		q.pruneLocked(q.now())
		if len(q.items) == 0 {
			q.persistLocked()
			q.mu.Unlock()
			q.recordDepth()
			return
		}
		head := q.items[0]
		q.mu.Unlock()

		if err := deliver(ctx, head.Payload); err != nil {
			if q.metrics != nil {
				q.metrics.RecordError("queue_flush")
			}
			if q.l != nil {
				q.l.Debug("retry flush stopped", applogger.String("item", head.ID), applogger.Error(err))
			}
			return
		}

		q.mu.Lock()
		if len(q.items) > 0 && q.items[0].ID == head.ID {
			q.items = append(q.items[:0:0], q.items[1:]...)
		}
		q.persistLocked()
		q.mu.Unlock()
		q.recordDepth()

		if q.drainDelay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(q.drainDelay):
			}
		}
	}
}

// Len returns the number of buffered items.
func (q *RetryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Status returns the introspection view.
func (q *RetryQueue) Status() models.QueueStatus {
	q.mu.Lock()
	defer q.mu.Unlock()
	st := models.QueueStatus{Length: len(q.items), Degraded: q.degraded}
	if len(q.items) > 0 {
		age := q.now().Sub(q.items[0].EnqueuedAt)
		st.OldestAge = &age
	}
	return st
}

func (q *RetryQueue) persistLocked() {
	b, err := json.Marshal(q.items)
	if err != nil {
		// items came from json.RawMessage; marshal cannot realistically fail
		q.degraded = true
		return
	}
	if err := q.store.SetBytes(q.key, b, 0); err != nil {
		if !q.degraded && q.l != nil {
			q.l.Error("retry queue persist failed, running in-memory", applogger.Error(err))
		}
		if q.metrics != nil {
			q.metrics.RecordError("queue_persist")
		}
		q.degraded = true
		return
	}
	q.degraded = false
}

func (q *RetryQueue) recordDepth() {
	if q.metrics != nil {
		q.metrics.RecordQueueDepth(q.Len())
	}
}
