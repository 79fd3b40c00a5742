package logger

import (
	"sync"
	"time"
)

// AggregatedLogEntry is one deduplicated error-log line with repeat counts.
type AggregatedLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// LogCollector keeps a bounded in-process ring of recent error entries.
// Repeats of the same level/message/caller bump a counter instead of
// occupying another slot; when the ring is full the oldest entry is evicted.
type LogCollector struct {
	mu       sync.RWMutex
	capacity int
	order    []string
	entries  map[string]*AggregatedLogEntry
}

// NewLogCollector creates a ring holding at most capacity distinct entries.
func NewLogCollector(capacity int) *LogCollector {
	if capacity < 1 {
		capacity = 1
	}
	return &LogCollector{
		capacity: capacity,
		entries:  make(map[string]*AggregatedLogEntry),
	}
}

// AddLog records one log line, aggregating repeats.
func (d *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := level + "|" + caller + "|" + message

	d.mu.Lock()
	defer d.mu.Unlock()

	if entry, ok := d.entries[key]; ok {
		entry.Count++
		entry.LastSeen = now
		entry.Fields = fields
		return
	}

	if len(d.order) >= d.capacity {
		oldest := d.order[0]
		d.order = d.order[1:]
		delete(d.entries, oldest)
	}

	d.entries[key] = &AggregatedLogEntry{
		Level:     level,
		Message:   message,
		Fields:    fields,
		Caller:    caller,
		Count:     1,
		FirstSeen: now,
		LastSeen:  now,
	}
	d.order = append(d.order, key)
}

// Recent returns the ring contents, oldest first.
func (d *LogCollector) Recent() []AggregatedLogEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]AggregatedLogEntry, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, *d.entries[key])
	}
	return out
}

// Len returns the number of distinct entries currently held.
func (d *LogCollector) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}
