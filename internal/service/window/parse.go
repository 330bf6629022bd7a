package window

import (
	"log/slog"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"
)

// Layouts tried for timestamps that carry no offset; they are read in the target location.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseInLocation reads an ISO-8601 timestamp. Timestamps with an offset keep their instant and
// are converted to loc; timestamps without one are interpreted in loc.
// ok is false for empty or malformed input.
func ParseInLocation(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(loc), true
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// Format renders t the way stored timestamps are written.
func Format(t time.Time) string {
	return t.Format(time.RFC3339)
}

var locationCache sync.Map

// Location resolves an IANA zone name. Unknown names fall back to UTC.
func Location(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	if cached, ok := locationCache.Load(name); ok {
		return cached.(*time.Location)
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("unknown timezone, falling back to UTC",
			slog.String("timezone", name),
			slog.String("error", err.Error()),
		)
		loc = time.UTC
	}

	locationCache.Store(name, loc)
	return loc
}
