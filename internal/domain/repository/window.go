package repository

import "time"

// WindowSize is the fixed aggregation bucket width.
type WindowSize time.Duration

const (
	Window1m  WindowSize = WindowSize(1 * time.Minute)
	Window5m  WindowSize = WindowSize(5 * time.Minute)
	Window15m WindowSize = WindowSize(15 * time.Minute)
)

// IsValidWindowSize returns true if ws is a supported bucket width.
func IsValidWindowSize(ws WindowSize) bool {
	switch ws {
	case Window1m, Window5m, Window15m:
		return true
	default:
		return false
	}
}

// DefaultWindowSize returns the default bucket width.
func DefaultWindowSize() WindowSize { return Window5m }

// NormalizeWindowMinutes converts raw minutes to a valid window size (or default).
func NormalizeWindowMinutes(minutes int) WindowSize {
	if minutes <= 0 {
		return DefaultWindowSize()
	}
	ws := WindowSize(time.Duration(minutes) * time.Minute)
	if IsValidWindowSize(ws) {
		return ws
	}
	return DefaultWindowSize()
}

// Duration returns the bucket width as a time.Duration.
func (ws WindowSize) Duration() time.Duration { return time.Duration(ws) }
