package feed

import "time"

// MondayOfISOWeek returns the Monday that starts the given ISO-8601 week.
// January 4 is always part of week 1, so that date anchors the calculation;
// the Monday of week 1 may therefore fall in the previous calendar year
// (e.g. 2020-W01 starts on 2019-12-30).
func MondayOfISOWeek(week, year int) time.Time {
	anchor := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	// Weekday offset with Monday == 0.
	offset := (int(anchor.Weekday()) + 6) % 7
	return anchor.AddDate(0, 0, (week-1)*7-offset)
}

// ISOWeekNumber returns the ISO-8601 week number of t.
func ISOWeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}
