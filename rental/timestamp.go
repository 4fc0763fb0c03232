package rental

import (
	"fmt"
	"time"
)

// legacyLayout is the local-time format the previous system persisted
// ("2006-01-02 15:04:05", no offset). Kept as a read-compatibility shim
// only; everything this service writes is offset-aware.
const legacyLayout = "2006-01-02 15:04:05"

// ParseTimestamp accepts an RFC 3339 timestamp, falling back to the legacy
// local-time form for callers migrating old data.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(legacyLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
