package parser

import (
	"strings"
	"time"
)

// Layouts accepted for absolute date headings. The year-less ones parse to
// year 0, which ResolveDateHeading coerces to the current year.
var headingLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02",
	"01/02/2006",
	"Monday, January 2",
	"January 2",
	"Jan 2",
}

// ResolveDateHeading turns a date heading from the source stream into the
// day alerts after it belong to. Relative words resolve directly; absolute
// text is layout-parsed with two corrections: a placeholder year becomes the
// current year, and a result more than 48h in the future is assumed to be
// last year's date (end-of-year rollover in historical logs without years).
// Unrecognized headings resolve to today.
func (p *Parser) ResolveDateHeading(heading string) time.Time {
	now := p.now()
	s := strings.TrimSpace(heading)

	switch strings.ToLower(s) {
	case "", "today":
		return dayOf(now, p.loc)
	case "yesterday":
		return dayOf(now.AddDate(0, 0, -1), p.loc)
	}

	for _, layout := range headingLayouts {
		t, err := time.ParseInLocation(layout, s, p.loc)
		if err != nil {
			continue
		}
		if t.Year() < 1000 {
			t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.loc)
		}
		if t.Sub(now) > 48*time.Hour {
			t = t.AddDate(-1, 0, 0)
		}
		return dayOf(t, p.loc)
	}
	return dayOf(now, p.loc)
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
