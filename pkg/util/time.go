package util

import (
	"time"
)

// AddSecondsToDate anchors a seconds-past-midnight value onto the calendar day of date.
func AddSecondsToDate(date time.Time, seconds int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, seconds, 0, date.Location())
}
