package util

import "time"

// DayLayout is the calendar-day format used by history points.
const DayLayout = "2006-01-02"

// Day formats t as a calendar day (UTC).
func Day(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// ParseDay parses a calendar-day string. Returns (t, true) if it parsed.
func ParseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysAgo returns today minus n days, truncated to a calendar day (UTC).
func DaysAgo(n int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -n).Truncate(24 * time.Hour)
}
