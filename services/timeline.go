package services

import (
	"math"
	"regexp"
	"time"
)

// Days and weeks of a full course. Totals are configurable; these are the
// shape of a week, which is not.
const DaysPerWeek = 7

// CourseProgress is a (week, day) coordinate within the curriculum.
// Week ≥ 1, day in [1,7].
type CourseProgress struct {
	Week int `json:"week"`
	Day  int `json:"day"`
}

var dateFormatRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// UTCMidnight normalizes a time to midnight UTC of its calendar date.
// All curriculum date arithmetic goes through this; local-timezone Date math
// was the dominant source of off-by-one bugs in earlier versions.
func UTCMidnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateString formats a time as its UTC calendar date (YYYY-MM-DD).
func DateString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ParseDate parses a YYYY-MM-DD string into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	if !dateFormatRe.MatchString(s) {
		return time.Time{}, NewValidationError("Invalid date format. Expected YYYY-MM-DD", "date")
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, NewValidationError("Invalid date format. Expected YYYY-MM-DD", "date")
	}
	return t, nil
}

// CalculateProgress maps a course start date and an "as of" instant to (week,
// day) coordinates. Pure and side-effect free; every component takes its
// coordinates from here rather than re-deriving them.
func CalculateProgress(startDate, asOf time.Time) CourseProgress {
	days := DaysSinceStart(startDate, asOf)
	return CourseProgress{
		Week: days/DaysPerWeek + 1,
		Day:  days%DaysPerWeek + 1,
	}
}

// DaysSinceStart returns the whole days elapsed between the two calendar
// dates, never negative. Rounding guards against sub-day drift when callers
// pass non-midnight instants.
func DaysSinceStart(startDate, asOf time.Time) int {
	start := UTCMidnight(startDate)
	end := UTCMidnight(asOf)
	days := int(math.Round(end.Sub(start).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// DayIndex converts (week, day) to the zero-based offset into a course's flat
// topic sequence.
func DayIndex(week, day int) int {
	return (week-1)*DaysPerWeek + (day - 1)
}
