package parser

import (
	"testing"
	"time"
)

func TestResolveDateHeadingRelative(t *testing.T) {
	p := testParser()
	today := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

	for _, h := range []string{"", "today", "Today", "  TODAY  "} {
		if got := p.ResolveDateHeading(h); !got.Equal(today) {
			t.Fatalf("heading %q = %v, want %v", h, got, today)
		}
	}
	yesterday := today.AddDate(0, 0, -1)
	if got := p.ResolveDateHeading("Yesterday"); !got.Equal(yesterday) {
		t.Fatalf("yesterday = %v, want %v", got, yesterday)
	}
}

func TestResolveDateHeadingAbsolute(t *testing.T) {
	p := testParser()
	want := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, h := range []string{"Mar 5, 2025", "March 5, 2025", "2025-03-05", "03/05/2025"} {
		if got := p.ResolveDateHeading(h); !got.Equal(want) {
			t.Fatalf("heading %q = %v, want %v", h, got, want)
		}
	}
}

func TestResolveDateHeadingYearless(t *testing.T) {
	p := testParser()
	// Year-less heading earlier in the same year takes the current year.
	want := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	if got := p.ResolveDateHeading("Mar 5"); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveDateHeadingRollover(t *testing.T) {
	// Clock sits in early January; a December heading belongs to last year.
	jan := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	p := New(WithClock(func() time.Time { return jan }), WithLocation(time.UTC))

	want := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	if got := p.ResolveDateHeading("Dec 30"); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveDateHeadingUnrecognized(t *testing.T) {
	p := testParser()
	today := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	if got := p.ResolveDateHeading("not a date at all"); !got.Equal(today) {
		t.Fatalf("got %v, want today", got)
	}
}
