package dedup

import (
	"testing"
	"time"
)

func TestKeyNormalization(t *testing.T) {
	a := Key("REVERSAL UP\nBTCUSDT • 15 • 10:02 AM")
	b := Key("REVERSAL  UP \n  BTCUSDT • 15 • 10:02 AM ")
	if a != b {
		t.Fatalf("whitespace variants should share a key")
	}
	if Key("other text") == a {
		t.Fatalf("distinct text should not collide")
	}
}

func TestKeyPrefixBound(t *testing.T) {
	long := make([]byte, 0, 600)
	for i := 0; i < 600; i++ {
		long = append(long, 'x')
	}
	base := string(long)
	// Differences beyond the admission prefix do not change the key.
	if Key(base+"AAA") != Key(base+"BBB") {
		t.Fatalf("tail past the prefix should not affect the key")
	}
}

func TestCheckAndMark(t *testing.T) {
	d := New()
	k := Key("some alert text")
	if d.Seen(k) {
		t.Fatalf("fresh key reported seen")
	}
	if d.CheckAndMark(k) {
		t.Fatalf("first CheckAndMark should report new")
	}
	if !d.CheckAndMark(k) {
		t.Fatalf("second CheckAndMark should report duplicate")
	}
	if !d.Seen(k) {
		t.Fatalf("marked key not seen")
	}
}

func TestRetentionExpiry(t *testing.T) {
	now := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	d := New(
		WithRetention(time.Hour),
		WithClock(func() time.Time { return now }),
	)
	k := Key("expiring alert")
	d.MarkSeen(k)

	now = now.Add(30 * time.Minute)
	if !d.Seen(k) {
		t.Fatalf("key expired too early")
	}

	now = now.Add(2 * time.Hour)
	if d.Seen(k) {
		t.Fatalf("key should have expired")
	}
}

func TestSweepBoundsSize(t *testing.T) {
	now := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	d := New(
		WithRetention(time.Hour),
		WithClock(func() time.Time { return now }),
	)
	for i := 0; i < 100; i++ {
		d.MarkSeen(uint64(i))
	}
	if d.Len() != 100 {
		t.Fatalf("len = %d", d.Len())
	}

	// Past the retention horizon the next operation sweeps the set.
	now = now.Add(3 * time.Hour)
	d.MarkSeen(Key("fresh"))
	if d.Len() != 1 {
		t.Fatalf("expected sweep to drop expired keys, len = %d", d.Len())
	}
}
