// Package feed parses the three NDBC plain-text feeds into domain records.
//
// All three parsers share the same failure policy: a malformed row is
// dropped and counted, never an error. The feeds are third-party and
// loosely specified, so a few bad lines must not abort a run. Callers are
// expected to export the dropped counts so the drop rate stays observable.
//
// The two observation feeds share the measurement schema but have different
// column layouts; each parser carries its own explicit layout constants so
// the two cannot drift into each other.
package feed

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// stationIDRe keeps five-digit buoy identifiers and excludes ships and
// other non-buoy reporters.
var stationIDRe = regexp.MustCompile(`^\d{5}$`)

// observedAt assembles a UTC timestamp from five consecutive integer fields
// (year, month, day, hour, minute) starting at offset start. Returns false
// when any component is unparseable or out of range; the caller drops the
// whole row, never stores a partial timestamp.
func observedAt(fields []string, start int) (time.Time, bool) {
	var parts [5]int
	for i := range parts {
		n, err := strconv.Atoi(fields[start+i])
		if err != nil {
			return time.Time{}, false
		}
		parts[i] = n
	}

	ts := time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], 0, 0, time.UTC)
	// time.Date normalizes out-of-range components (month 13, day 32);
	// reject rows where normalization changed anything.
	if ts.Year() != parts[0] || ts.Month() != time.Month(parts[1]) || ts.Day() != parts[2] ||
		ts.Hour() != parts[3] || ts.Minute() != parts[4] {
		return time.Time{}, false
	}
	return ts, true
}

// dataLines yields trimmed non-blank, non-comment lines.
func dataLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
