// File: services/agent/timezone.go
package agent

import (
	"fmt"
	"strings"
	"time"
)

// tzAbbreviations maps the abbreviations users actually type to their most
// common U.S. IANA zone. Ambiguous abbreviations (CST, IST, ...) resolve
// to the U.S. mapping with no further disambiguation.
var tzAbbreviations = map[string]string{
	"PT":  "America/Los_Angeles",
	"PST": "America/Los_Angeles",
	"PDT": "America/Los_Angeles",
	"MT":  "America/Denver",
	"MST": "America/Denver",
	"MDT": "America/Denver",
	"CT":  "America/Chicago",
	"CST": "America/Chicago",
	"CDT": "America/Chicago",
	"ET":  "America/New_York",
	"EST": "America/New_York",
	"EDT": "America/New_York",
	"UTC": "UTC",
	"GMT": "UTC",
}

// resolveTimezone turns whatever the user said into an IANA zone name.
// Unknown or absent values fall back to the configured default (Pacific).
func resolveTimezone(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	if iana, ok := tzAbbreviations[strings.ToUpper(raw)]; ok {
		return iana
	}
	if _, err := time.LoadLocation(raw); err == nil {
		return raw
	}
	return fallback
}

// buildStart combines a YYYY-MM-DD date and HH:MM time in the given zone.
// The returned time formats with an explicit UTC offset via RFC3339.
func buildStart(date, clock, tz string) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse start %q %q: %w", date, clock, err)
	}
	return t, nil
}

// Nominal open-hours window. Times outside it are still forwarded to the
// remote API (which owns bookable hours) but earn a warning when the
// booking is rejected.
const (
	openHourStart = 9
	openHourEnd   = 17
)

func withinOpenHours(t time.Time) bool {
	h := t.Hour()
	return h >= openHourStart && h < openHourEnd
}
