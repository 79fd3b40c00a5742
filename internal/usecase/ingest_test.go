package usecase

import (
	"context"
	"testing"
	"time"

	"MarketPulse/internal/service/dedup"
	"MarketPulse/internal/service/insight"
	"MarketPulse/internal/service/parser"
)

const sampleAlert = "BREAK UP\nBTCUSDT • 15 • 10:02:00 AM\nPrice 64,230.5\nChg +1.8%"

func newTestPipeline() (*IngestPipeline, *insight.Accumulator, *fakeDeliverer, *RetryQueue) {
	now := time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC)
	p := parser.New(
		parser.WithClock(func() time.Time { return now }),
		parser.WithLocation(time.UTC),
	)
	d := dedup.New()
	acc := insight.NewAccumulator(72 * time.Hour)
	acc.SetClock(func() time.Time { return now })
	deliverer := &fakeDeliverer{}
	q := newTestQueue(newMemStore())
	sync := NewIngestionSync(deliverer, q, nil, nil)
	return NewIngestPipeline(p, d, acc, sync, nil, nil), acc, deliverer, q
}

func TestIngestAccept(t *testing.T) {
	ip, acc, deliverer, _ := newTestPipeline()

	res := ip.Ingest(context.Background(), sampleAlert, "")
	if !res.Accepted || res.Duplicate {
		t.Fatalf("result = %+v", res)
	}
	if res.AlertID == "" {
		t.Fatalf("missing alert id")
	}
	if acc.Len() != 1 {
		t.Fatalf("accumulator len = %d", acc.Len())
	}
	if len(deliverer.payloads) != 1 {
		t.Fatalf("delivered %d payloads", len(deliverer.payloads))
	}
}

func TestIngestDuplicate(t *testing.T) {
	ip, acc, _, _ := newTestPipeline()

	first := ip.Ingest(context.Background(), sampleAlert, "")
	if !first.Accepted {
		t.Fatalf("first = %+v", first)
	}
	second := ip.Ingest(context.Background(), sampleAlert, "")
	if !second.Duplicate || second.Accepted {
		t.Fatalf("second = %+v", second)
	}
	// Whitespace variants dedup to the same key.
	third := ip.Ingest(context.Background(), "  "+sampleAlert+"\n", "")
	if !third.Duplicate {
		t.Fatalf("third = %+v", third)
	}
	if acc.Len() != 1 {
		t.Fatalf("accumulator len = %d", acc.Len())
	}
}

func TestIngestReject(t *testing.T) {
	ip, acc, deliverer, _ := newTestPipeline()

	res := ip.Ingest(context.Background(), "Connection lost. Reconnecting...", "")
	if res.Accepted || res.Duplicate || res.Reason == "" {
		t.Fatalf("result = %+v", res)
	}
	if acc.Len() != 0 || len(deliverer.payloads) != 0 {
		t.Fatalf("rejected input leaked into the pipeline")
	}
}

func TestIngestQueuesWhenSinkDown(t *testing.T) {
	ip, _, deliverer, q := newTestPipeline()
	deliverer.fail = true

	res := ip.Ingest(context.Background(), sampleAlert, "")
	if !res.Accepted {
		t.Fatalf("result = %+v", res)
	}
	if q.Len() != 1 {
		t.Fatalf("queue len = %d, want buffered batch", q.Len())
	}
}

func TestIngestBatchSharedHeading(t *testing.T) {
	ip, acc, _, _ := newTestPipeline()

	other := "REVERSAL ▼\nETHUSDT • 5 • 9:45 AM\nPrice 2,450.0\nRSI 71.2 | 68.4 | 70.1 | 69.8"
	results := ip.IngestBatch(context.Background(), []string{sampleAlert, other, sampleAlert}, "yesterday")
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	if !results[0].Accepted || !results[1].Accepted || !results[2].Duplicate {
		t.Fatalf("results = %+v", results)
	}
	alerts := acc.Recent(48 * time.Hour)
	if len(alerts) != 2 {
		t.Fatalf("recent = %d", len(alerts))
	}
	// Heading "yesterday" resolves the extracted clock onto the prior day.
	want := time.Date(2025, 6, 11, 10, 2, 0, 0, time.UTC)
	if !alerts[0].Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", alerts[0].Timestamp, want)
	}
}
