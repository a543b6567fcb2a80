// file: internals/features/pages/duration/duration.go

// Package duration turns a relationship start date (and optional time of day)
// into the elapsed-time text shown on a page.
package duration

import (
	"strings"
	"time"

	"parasempre_backend/internals/helpers/dbtime"
)

// Breakdown holds calendar-field differences between the start instant and now.
// Hours, Minutes and Seconds are only meaningful when HasTime is set.
type Breakdown struct {
	Years   int  `json:"years"`
	Months  int  `json:"months"`
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	HasTime bool `json:"has_time"`
}

// Compute returns ok=false when startDate is empty or not a YYYY-MM-DD date.
// An unparseable startTime is treated as absent. Dates are read in now's location.
// A start in the future yields a zero Breakdown.
func Compute(startDate, startTime string, now time.Time) (Breakdown, bool) {
	var b Breakdown
	if strings.TrimSpace(startDate) == "" {
		return b, false
	}
	day, err := dbtime.ParseDate(startDate, now.Location())
	if err != nil {
		return b, false
	}

	start := day
	if strings.TrimSpace(startTime) != "" {
		if tod, err := dbtime.Parse(startTime); err == nil {
			start = dbtime.Combine(day, tod)
			b.HasTime = true
		}
	}

	if b.HasTime {
		if start.After(now) {
			return b, true
		}
	} else {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if start.After(today) {
			return b, true
		}
	}

	years := now.Year() - start.Year()
	months := int(now.Month()) - int(start.Month())
	days := now.Day() - start.Day()

	if b.HasTime {
		hours := now.Hour() - start.Hour()
		minutes := now.Minute() - start.Minute()
		seconds := now.Second() - start.Second()
		if seconds < 0 {
			seconds += 60
			minutes--
		}
		if minutes < 0 {
			minutes += 60
			hours--
		}
		if hours < 0 {
			hours += 24
			days--
		}
		b.Hours, b.Minutes, b.Seconds = hours, minutes, seconds
	}

	// Borrowed days come from the month(s) preceding now, not from the start month.
	// A start day past the end of a short month borrows twice, so
	// 2024-01-31 to 2024-03-01 is 30 days and 0 months.
	for back := 0; days < 0; back++ {
		days += daysInMonthBefore(now, back)
		months--
	}
	if months < 0 {
		months += 12
		years--
	}

	b.Years, b.Months, b.Days = years, months, days
	return b, true
}

// daysInMonthBefore(now, 0) is the length of the month right before now's month.
func daysInMonthBefore(now time.Time, back int) int {
	return time.Date(now.Year(), now.Month()-time.Month(back), 0, 0, 0, 0, 0, time.UTC).Day()
}

// Calculate renders the elapsed time from the start to now, e.g.
// "1 ano, 2 meses, 3 dias". Empty or invalid startDate gives "".
func Calculate(startDate, startTime, lang string, now time.Time) string {
	b, ok := Compute(startDate, startTime, now)
	if !ok {
		return ""
	}
	return Format(b, lang)
}

// Format joins the non-leading-zero components with ", ". Days are always
// present; with a start time the seconds are always present too.
func Format(b Breakdown, lang string) string {
	u := unitsFor(lang)
	parts := make([]string, 0, 6)

	if b.Years > 0 {
		parts = append(parts, u.years.format(b.Years))
	}
	if b.Years > 0 || b.Months > 0 {
		parts = append(parts, u.months.format(b.Months))
	}
	parts = append(parts, u.days.format(b.Days))

	if b.HasTime {
		if b.Hours > 0 {
			parts = append(parts, u.hours.format(b.Hours))
		}
		if b.Hours > 0 || b.Minutes > 0 {
			parts = append(parts, u.minutes.format(b.Minutes))
		}
		parts = append(parts, u.seconds.format(b.Seconds))
	}
	return strings.Join(parts, ", ")
}
