package daterange

import (
	"fmt"
	"time"
)

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LeadingBlanks returns the number of empty cells before day 1 in a
// Sunday-first calendar grid: the weekday index of the 1st (0=Sunday).
func LeadingBlanks(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// Grid lays out a month as a flat Sunday-first cell list: zeroes for
// the leading blanks, then one cell per day. A pure function of its
// two inputs.
func Grid(year int, month time.Month) []int {
	blanks := LeadingBlanks(year, month)
	days := DaysInMonth(year, month)

	cells := make([]int, 0, blanks+days)
	for i := 0; i < blanks; i++ {
		cells = append(cells, 0)
	}
	for day := 1; day <= days; day++ {
		cells = append(cells, day)
	}
	return cells
}

// ISODate formats a grid selection as an ISO date string.
func ISODate(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}
