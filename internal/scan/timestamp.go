package scan

import (
	"strings"
	"time"
)

// timestampLayouts are the formats remote timestamps and our own persisted
// markers appear in, tried in order. Sub-second precision is cut before
// parsing, so none of these carries fractions.
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp parses a stored or remote timestamp, truncating at the
// first '.' to drop sub-second precision. Returns nil when the value is
// empty or no layout matches; parsing is best-effort by design.
func parseTimestamp(value string) *time.Time {
	if value == "" {
		return nil
	}
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		value = value[:idx]
	}
	value = strings.TrimSpace(value)

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// scanTimeFormat is the persisted format of last_checked markers.
const scanTimeFormat = "2006-01-02 15:04:05"
