package dedup

import (
	"fmt"
	"sync"
	"time"

	"MarketPulse/internal/service/parser"

	"github.com/cespare/xxhash/v2"
)

// keyPrefixLen bounds how much normalized text feeds the admission key; it
// is independent of the alert identity hash so a format misclassification
// cannot readmit the same text.
const keyPrefixLen = 200

// Deduplicator filters out raw inputs already seen this session. The seen
// set is mutex guarded; ingestion can race between a live feed event and a
// scheduled rescan. Retention is time scoped: entries older than the horizon
// are swept so the set does not grow without bound.
type Deduplicator struct {
	mu        sync.Mutex
	seen      map[uint64]time.Time
	retention time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// Option configures a Deduplicator.
type Option func(*Deduplicator)

// WithRetention sets how long a key stays in the seen set.
func WithRetention(d time.Duration) Option {
	return func(dd *Deduplicator) {
		if d > 0 {
			dd.retention = d
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(dd *Deduplicator) { dd.now = now }
}

// New creates a Deduplicator with a 24h retention horizon.
func New(opts ...Option) *Deduplicator {
	d := &Deduplicator{
		seen:      make(map[uint64]time.Time),
		retention: 24 * time.Hour,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.lastSweep = d.now()
	return d
}

// Key computes the admission key for one raw text block.
func Key(rawText string) uint64 {
	norm := parser.Normalize(rawText)
	if len(norm) > keyPrefixLen {
		norm = norm[:keyPrefixLen]
	}
	return xxhash.Sum64String(norm)
}

// KeyString returns the admission key in the hex form used for logging.
func KeyString(rawText string) string {
	return fmt.Sprintf("%016x", Key(rawText))
}

// Seen reports whether the key has been marked this session.
func (d *Deduplicator) Seen(key uint64) bool {
	now := d.now()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sweepLocked(now)
	at, ok := d.seen[key]
	if !ok {
		return false
	}
	return now.Sub(at) <= d.retention
}

// MarkSeen records the key.
func (d *Deduplicator) MarkSeen(key uint64) {
	now := d.now()
	d.mu.Lock()
	d.sweepLocked(now)
	d.seen[key] = now
	d.mu.Unlock()
}

// CheckAndMark is Seen+MarkSeen in one critical section; returns true when
// the key was already present.
func (d *Deduplicator) CheckAndMark(key uint64) bool {
	now := d.now()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sweepLocked(now)
	if at, ok := d.seen[key]; ok && now.Sub(at) <= d.retention {
		return true
	}
	d.seen[key] = now
	return false
}

// Len returns the current seen-set size.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// sweepLocked trims expired entries at most once per retention interval.
func (d *Deduplicator) sweepLocked(now time.Time) {
	if now.Sub(d.lastSweep) < d.retention {
		return
	}
	for k, at := range d.seen {
		if now.Sub(at) > d.retention {
			delete(d.seen, k)
		}
	}
	d.lastSweep = now
}
