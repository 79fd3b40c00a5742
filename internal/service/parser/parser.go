package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"

	"github.com/cespare/xxhash/v2"
)

// Parser turns raw alert text blocks into structured Alerts. Parsing is
// pattern based: text that matches neither known format is rejected, not
// errored. Parse is a pure function of (text, context date, clock) and is
// safe for concurrent use.
type Parser struct {
	now func() time.Time
	loc *time.Location
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock overrides the wall clock (tests, replay).
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// WithLocation sets the location used to resolve extracted clock times.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) { p.loc = loc }
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// idPrefixLen bounds how much normalized text feeds the identity hash.
const idPrefixLen = 160

// Parse extracts an Alert from one raw text block. contextDate carries the
// day resolved from the most recent date heading before this block; the zero
// value means "today". The second return is false when the text is rejected.
func (p *Parser) Parse(rawText string, contextDate time.Time) (*models.Alert, bool) {
	text := strings.TrimSpace(rawText)
	if text == "" || isDenylisted(text) {
		return nil, false
	}

	category, ok := detectCategory(text)
	if !ok {
		return nil, false
	}

	ticker, timeframe := extractTicker(text)
	if ticker == "" {
		return nil, false
	}

	ts, extracted := p.resolveTimestamp(text, contextDate)

	sig := models.Signal{
		Category:           category,
		Direction:          extractDirection(text),
		Price:              extractPrice(text),
		TimestampExtracted: extracted,
	}

	var conf *models.Confluence
	switch category {
	case models.CategoryReversal:
		conf = extractConfluence(text)
	case models.CategoryBreak:
		if v, ok := extractMomentum(text); ok {
			sig.MomentumPercent = &v
		}
	}

	return &models.Alert{
		ID:        alertID(text, ts),
		Timestamp: ts,
		Asset: models.Asset{
			Ticker:      ticker,
			CleanTicker: CleanTicker(ticker),
			Timeframe:   timeframe,
		},
		Signal:     sig,
		Confluence: conf,
		RawText:    text,
	}, true
}

// resolveTimestamp scans for a `timeframe • clock` pattern first, a bare
// clock line second, and falls back to ingestion time.
func (p *Parser) resolveTimestamp(text string, contextDate time.Time) (time.Time, bool) {
	clock := ""
	if m := tickerLineRe.FindStringSubmatch(text); m != nil {
		clock = m[3]
	} else if m := bareClockRe.FindStringSubmatch(text); m != nil {
		clock = m[1] + " " + m[2]
	}
	if clock == "" {
		return p.now(), false
	}

	t, err := parseClock(clock)
	if err != nil {
		return p.now(), false
	}

	day := contextDate
	if day.IsZero() {
		day = p.now()
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, p.loc), true
}

func parseClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"3:04:05 PM", "3:04 PM"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized clock %q", s)
}

// alertID hashes the normalized text prefix together with the resolved
// timestamp. Stable across restarts for identical input.
func alertID(text string, ts time.Time) string {
	prefix := Normalize(text)
	if len(prefix) > idPrefixLen {
		prefix = prefix[:idPrefixLen]
	}
	sum := xxhash.Sum64String(prefix + "|" + ts.UTC().Format(time.RFC3339))
	return fmt.Sprintf("%016x", sum)
}

// Normalize collapses all whitespace runs to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanTicker strips derivative and quote-currency suffixes from a ticker.
func CleanTicker(ticker string) string {
	t := strings.TrimSuffix(ticker, ".P")
	t = strings.TrimSuffix(t, "PERP")
	for _, quote := range []string{"USDT", "USDC", "BUSD", "USD"} {
		if strings.HasSuffix(t, quote) && len(t) > len(quote) {
			return strings.TrimSuffix(t, quote)
		}
	}
	return t
}

func detectCategory(text string) (models.Category, bool) {
	head := text
	if i := strings.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	head = strings.TrimSpace(head)
	switch {
	case strings.HasPrefix(head, "REVERSAL"):
		return models.CategoryReversal, true
	case strings.HasPrefix(head, "BREAK"):
		return models.CategoryBreak, true
	default:
		return "", false
	}
}

func extractDirection(text string) int {
	head := text
	if i := strings.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	switch {
	case strings.Contains(head, "▲"), strings.Contains(head, " UP"):
		return models.DirectionBullish
	case strings.Contains(head, "▼"), strings.Contains(head, " DOWN"):
		return models.DirectionBearish
	default:
		return models.DirectionNeutral
	}
}

func extractTicker(text string) (ticker, timeframe string) {
	if m := tickerLineRe.FindStringSubmatch(text); m != nil {
		return m[1], m[2]
	}
	// No structured ticker line; take the first plausible uppercase token.
	for _, tok := range strings.Fields(text) {
		tok = strings.Trim(tok, ".,:;")
		if looseTickerRe.MatchString(tok) && !reservedTokens[tok] {
			return tok, ""
		}
	}
	return "", ""
}

func extractPrice(text string) float64 {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func extractMomentum(text string) (float64, bool) {
	m := momentumRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func extractConfluence(text string) *models.Confluence {
	m := confluenceRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var c models.Confluence
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return nil
		}
		c.Readings[i] = v
	}
	return &c
}

func isDenylisted(text string) bool {
	low := strings.ToLower(text)
	for _, phrase := range denylist {
		if strings.Contains(low, phrase) {
			return true
		}
	}
	return false
}

// Non-trading toasts the source surface emits between real alerts.
var denylist = []string{
	"connection lost",
	"disconnected",
	"reconnecting",
	"alert deleted",
	"alert stopped",
	"subscription",
	"sign in to",
	"notifications paused",
	"sound is off",
}

var reservedTokens = map[string]bool{
	"REVERSAL": true, "BREAK": true,
	"UP": true, "DOWN": true,
	"RSI": true, "AM": true, "PM": true,
}
