package logger

import (
	"path/filepath"
	"testing"
)

func TestCollectorAggregatesRepeats(t *testing.T) {
	c := NewLogCollector(8)
	c.AddLog("error", "store write failed", map[string]interface{}{"key": "q"}, "internal/usecase/retry_queue.go:42")
	c.AddLog("error", "store write failed", map[string]interface{}{"key": "q"}, "internal/usecase/retry_queue.go:42")
	if c.Len() != 1 {
		t.Fatalf("len = %d", c.Len())
	}
	got := c.Recent()
	if got[0].Count != 2 {
		t.Fatalf("count = %d", got[0].Count)
	}
	if got[0].LastSeen.Before(got[0].FirstSeen) {
		t.Fatalf("last seen before first seen")
	}
}

func TestCollectorEvictsOldest(t *testing.T) {
	c := NewLogCollector(2)
	c.AddLog("error", "first", nil, "a.go:1")
	c.AddLog("error", "second", nil, "b.go:2")
	c.AddLog("error", "third", nil, "c.go:3")
	if c.Len() != 2 {
		t.Fatalf("len = %d", c.Len())
	}
	got := c.Recent()
	if got[0].Message != "second" || got[1].Message != "third" {
		t.Fatalf("unexpected order: %q, %q", got[0].Message, got[1].Message)
	}
}

func TestLoggerErrorFeedsCollector(t *testing.T) {
	l, err := New(&Config{
		Level:  "info",
		Format: "json",
		Output: filepath.Join(t.TempDir(), "test.log"),
	})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	c := NewLogCollector(8)
	l.AddCollector(c)
	if l.Collector() != c {
		t.Fatalf("collector not attached")
	}

	l.Error("delivery failed", String("sink", "http"))
	if c.Len() != 1 {
		t.Fatalf("len = %d", c.Len())
	}
	got := c.Recent()[0]
	if got.Level != "error" || got.Message != "delivery failed" {
		t.Fatalf("entry = %+v", got)
	}
	if got.Fields["sink"] != "http" {
		t.Fatalf("fields = %+v", got.Fields)
	}

	// Only error-level messages are mirrored.
	l.Warn("slow response")
	if c.Len() != 1 {
		t.Fatalf("warn was collected, len = %d", c.Len())
	}
}
