package events

import (
	"errors"
	"time"
)

// Layouts accepted without an explicit offset. Clients historically sent
// naive local-looking timestamps and appended "Z" before submitting, so
// any value lacking an offset is read as UTC. This is a compatibility
// contract, not a preference.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var errBadInstant = errors.New("not a valid instant")

// ParseInstant parses an ISO-8601 timestamp into a UTC instant.
func ParseInstant(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errBadInstant
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errBadInstant
}
