package parser

import (
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
)

var testNow = time.Date(2025, 6, 12, 14, 30, 0, 0, time.UTC)

func testParser() *Parser {
	return New(WithClock(func() time.Time { return testNow }), WithLocation(time.UTC))
}

const reversalText = "REVERSAL ▲\nBTCUSDT.P • 15 • 10:02:00 AM\nPrice 64,230.5\nRSI 28.4 | 31.2 | 29.9 | 30.5"

const breakText = "BREAK DOWN\nETHUSDT • 5 • 3:15 PM\nPrice 2,450.25\nChg -2.4%"

func TestParseReversal(t *testing.T) {
	p := testParser()
	a, ok := p.Parse(reversalText, time.Time{})
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if a.Signal.Category != models.CategoryReversal {
		t.Fatalf("category = %q", a.Signal.Category)
	}
	if a.Signal.Direction != models.DirectionBullish {
		t.Fatalf("direction = %d", a.Signal.Direction)
	}
	if a.Asset.Ticker != "BTCUSDT.P" || a.Asset.CleanTicker != "BTC" || a.Asset.Timeframe != "15" {
		t.Fatalf("asset = %+v", a.Asset)
	}
	if a.Signal.Price != 64230.5 {
		t.Fatalf("price = %v", a.Signal.Price)
	}
	if a.Confluence == nil {
		t.Fatalf("expected confluence")
	}
	want := [4]float64{28.4, 31.2, 29.9, 30.5}
	if a.Confluence.Readings != want {
		t.Fatalf("confluence = %v", a.Confluence.Readings)
	}
	if !a.Signal.TimestampExtracted {
		t.Fatalf("expected extracted timestamp")
	}
	wantTS := time.Date(2025, 6, 12, 10, 2, 0, 0, time.UTC)
	if !a.Timestamp.Equal(wantTS) {
		t.Fatalf("timestamp = %v, want %v", a.Timestamp, wantTS)
	}
}

func TestParseBreak(t *testing.T) {
	p := testParser()
	a, ok := p.Parse(breakText, time.Time{})
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if a.Signal.Category != models.CategoryBreak {
		t.Fatalf("category = %q", a.Signal.Category)
	}
	if a.Signal.Direction != models.DirectionBearish {
		t.Fatalf("direction = %d", a.Signal.Direction)
	}
	if a.Signal.MomentumPercent == nil || *a.Signal.MomentumPercent != -2.4 {
		t.Fatalf("momentum = %v", a.Signal.MomentumPercent)
	}
	if a.Confluence != nil {
		t.Fatalf("break alerts carry no confluence")
	}
	wantTS := time.Date(2025, 6, 12, 15, 15, 0, 0, time.UTC)
	if !a.Timestamp.Equal(wantTS) {
		t.Fatalf("timestamp = %v, want %v", a.Timestamp, wantTS)
	}
}

func TestParseContextDate(t *testing.T) {
	p := testParser()
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	a, ok := p.Parse(reversalText, day)
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	wantTS := time.Date(2025, 6, 10, 10, 2, 0, 0, time.UTC)
	if !a.Timestamp.Equal(wantTS) {
		t.Fatalf("timestamp = %v, want %v", a.Timestamp, wantTS)
	}
}

func TestParseTimestampFallback(t *testing.T) {
	p := testParser()
	a, ok := p.Parse("REVERSAL ▲ SOLUSDT\nPrice 101.5", time.Time{})
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if a.Signal.TimestampExtracted {
		t.Fatalf("expected fallback timestamp")
	}
	if !a.Timestamp.Equal(testNow) {
		t.Fatalf("timestamp = %v, want clock time", a.Timestamp)
	}
	if a.Asset.Ticker != "SOLUSDT" || a.Asset.CleanTicker != "SOL" {
		t.Fatalf("asset = %+v", a.Asset)
	}
}

func TestParseRejectsNoise(t *testing.T) {
	p := testParser()
	for _, text := range []string{
		"",
		"Connection lost. Reconnecting...",
		"Alert deleted",
		"Sign in to view alerts",
		"some random paragraph of text",
		"BTCUSDT went up today", // no category keyword
	} {
		if _, ok := p.Parse(text, time.Time{}); ok {
			t.Fatalf("expected rejection for %q", text)
		}
	}
}

func TestParseIDStable(t *testing.T) {
	p := testParser()
	a1, ok := p.Parse(reversalText, time.Time{})
	if !ok {
		t.Fatalf("parse failed")
	}
	a2, ok := p.Parse(reversalText, time.Time{})
	if !ok {
		t.Fatalf("parse failed")
	}
	if a1.ID != a2.ID {
		t.Fatalf("ids differ: %s vs %s", a1.ID, a2.ID)
	}
	// Different whitespace, same normalized content, same resolved day.
	a3, ok := p.Parse("REVERSAL  ▲\n BTCUSDT.P • 15 • 10:02:00 AM\nPrice  64,230.5\nRSI 28.4 | 31.2 | 29.9 | 30.5", time.Time{})
	if !ok {
		t.Fatalf("parse failed")
	}
	if a1.ID != a3.ID {
		t.Fatalf("normalization should not change identity: %s vs %s", a1.ID, a3.ID)
	}
}

func TestParseIDChangesWithDay(t *testing.T) {
	p := testParser()
	a1, _ := p.Parse(reversalText, time.Time{})
	a2, _ := p.Parse(reversalText, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	if a1.ID == a2.ID {
		t.Fatalf("same id across different resolved days")
	}
}

func TestCleanTicker(t *testing.T) {
	cases := map[string]string{
		"BTCUSDT.P": "BTC",
		"ETHUSDT":   "ETH",
		"SOLUSD":    "SOL",
		"DOGEUSDC":  "DOGE",
		"AVAXBUSD":  "AVAX",
		"WIFPERP":   "WIF",
		"USDT":      "USDT", // would strip to nothing, kept whole
		"AAPL":      "AAPL",
	}
	for in, want := range cases {
		if got := CleanTicker(in); got != want {
			t.Fatalf("CleanTicker(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  a \n\t b   c "); got != "a b c" {
		t.Fatalf("got %q", got)
	}
}
