// Package liveness decides whether the field device is reachable from the
// staleness of its last report. There is no disconnect signal.
package liveness

import (
	"strings"
	"time"
)

// DefaultTimeout is the silence after which the device counts as offline.
const DefaultTimeout = 30 * time.Second

// Layouts carrying an explicit offset. Parsed values are compared in UTC.
var awareLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999-0700",
}

// Layouts without an offset. These are read in the location of "now".
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// Clock evaluates liveness against a timeout fixed at construction.
type Clock struct {
	timeout time.Duration
	now     func() time.Time
}

// NewClock returns a Clock using the wall clock. A non-positive timeout
// falls back to DefaultTimeout.
func NewClock(timeout time.Duration) *Clock {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Clock{timeout: timeout, now: time.Now}
}

// WithNow replaces the time source. Used by tests.
func (c *Clock) WithNow(now func() time.Time) *Clock {
	c.now = now
	return c
}

// Timeout returns the configured liveness timeout.
func (c *Clock) Timeout() time.Duration {
	return c.timeout
}

// Now returns the current server time in UTC.
func (c *Clock) Now() time.Time {
	return c.now().UTC()
}

// Online reports whether a device last seen at lastSeen is still online.
// storedOnline is the flag recorded with the state, consulted only when
// lastSeen cannot be parsed.
func (c *Clock) Online(lastSeen string, storedOnline *bool) bool {
	return IsOnlineString(lastSeen, storedOnline, c.now(), c.timeout)
}

// IsOnline returns false for a nil lastSeen, otherwise whether now-lastSeen
// is strictly below timeout.
func IsOnline(lastSeen *time.Time, now time.Time, timeout time.Duration) bool {
	if lastSeen == nil {
		return false
	}
	return now.UTC().Sub(lastSeen.UTC()) < timeout
}

// IsOnlineString is IsOnline over a serialized timestamp.
func IsOnlineString(lastSeen string, storedOnline *bool, now time.Time, timeout time.Duration) bool {
	lastSeen = strings.TrimSpace(lastSeen)
	if lastSeen == "" {
		return false
	}
	ts, ok := ParseTimestamp(lastSeen, now.Location())
	if !ok {
		if storedOnline != nil {
			return *storedOnline
		}
		return false
	}
	return IsOnline(&ts, now, timeout)
}

// ParseTimestamp parses an ISO-8601 timestamp. Values without an offset are
// interpreted in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, bool) {
	for _, layout := range awareLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range naiveLayouts {
		if ts, err := time.ParseInLocation(layout, value, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders an ingest timestamp in UTC ISO-8601.
func FormatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339Nano)
}
