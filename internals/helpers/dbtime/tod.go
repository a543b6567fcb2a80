// file: internals/helpers/dbtime/tod.go

package dbtime

import (
	"fmt"
	"strings"
	"time"
)

// Tod is a time of day; the date part is always 0000-01-01 UTC.
type Tod struct{ time.Time }

// Parse accepts "HH:mm" or "HH:mm:ss".
func Parse(s string) (Tod, error) {
	var tt Tod
	return tt, tt.parse(s)
}

func (t *Tod) parse(s string) error {
	s = strings.TrimSpace(s)
	if len(s) == 5 { // "HH:MM"
		s += ":00"
	}
	tt, err := time.Parse("15:04:05", s)
	if err != nil {
		return fmt.Errorf("tod: %w", err)
	}
	t.Time = tt
	return nil
}

func (t Tod) String() string {
	return t.Format("15:04:05")
}

// ParseDate parses "YYYY-MM-DD" as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation("2006-01-02", strings.TrimSpace(s), loc)
}

// Combine puts the clock of tod on the calendar day of d.
func Combine(d time.Time, tod Tod) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), tod.Hour(), tod.Minute(), tod.Second(), 0, d.Location())
}
