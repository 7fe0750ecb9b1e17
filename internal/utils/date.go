package utils

import (
	"errors"
	"strings"
	"time"
)

// dateLayout is the calendar-date wire format used by the API ("2006-01-02").
const dateLayout = "2006-01-02"

// ErrBadDate is returned by ParseDate for inputs that are not a valid
// calendar date in YYYY-MM-DD form.
var ErrBadDate = errors.New("invalid date, expected YYYY-MM-DD")

// ParseDate parses a calendar date string into a midnight-UTC time.Time.
// Whitespace is trimmed; an empty string and malformed input both yield
// ErrBadDate. The zone of the result is always UTC so that values compare
// cleanly with stored local dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrBadDate
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
