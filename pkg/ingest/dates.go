// Package ingest builds labeled news datasets: it scrapes yearly event pages,
// labels each event with the index movement of its day, cleans the
// abstracts and partitions them into training and test files.
package ingest

import (
	"strings"
	"time"

	"github.com/phuslu/log"
)

// rangeSeparator joins the two ends of a date range, as in "March 3 – 5"
const rangeSeparator = "–"

// ParseEventDate parses the date heading of an event in the given year.
// Accepted shapes are "January 2", "January" (first of the month) and the
// same two at the start of a range such as "January 2 – February 3".
func ParseEventDate(s string, year int) (time.Time, bool) {
	candidates := []string{strings.TrimSpace(s)}
	if first, _, found := strings.Cut(s, rangeSeparator); found {
		candidates = append(candidates, strings.TrimSpace(first))
	}

	for _, c := range candidates {
		if t, err := time.Parse("January 2", c); err == nil {
			return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
		if t, err := time.Parse("January", c); err == nil {
			return time.Date(year, t.Month(), 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseEventDateLogged is ParseEventDate with a debug entry on failure
func parseEventDateLogged(s string, year int) (time.Time, bool) {
	t, ok := ParseEventDate(s, year)
	if !ok {
		log.Debug().Str("date", s).Int("year", year).Msg("cannot parse date")
	}
	return t, ok
}

// dayKey identifies a calendar day independent of time of day and zone
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
