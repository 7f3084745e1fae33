package timetable

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parses a query time relative to now, in now's location.
//
// Accepts "YYYY-MM-DD HH:MM:SS", a time of day ("HH:MM:SS" or "HH:MM")
// applied to now's date, or Unix epoch seconds. Blank input means now.
func ParseInstant(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}

	loc := now.Location()

	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, loc); err == nil {
		return t, nil
	}

	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}

	if epoch, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(epoch, 0).In(loc), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized time '%s'", s)
}
