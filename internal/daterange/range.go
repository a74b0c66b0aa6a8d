// Package daterange implements the date-range selection used for
// receipt filtering and export: a validated start/end pair, a calendar
// grid, and the picker state machine behind it.
package daterange

import (
	"fmt"
	"time"

	"github.com/ezbooks/ezb/internal/model"
)

// Range is an inclusive ISO date range. Start <= End always holds
// after any commit: editing one bound past the other snaps the other
// bound to match, so the bound just edited wins.
type Range struct {
	Start string
	End   string
}

// CurrentMonthToToday returns the default filter range: first day of
// the current month through today.
func CurrentMonthToToday(now time.Time) Range {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Range{
		Start: first.Format("2006-01-02"),
		End:   now.Format("2006-01-02"),
	}
}

// CurrentMonth returns the export default: the whole current month.
func CurrentMonth(now time.Time) Range {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	return Range{
		Start: first.Format("2006-01-02"),
		End:   last.Format("2006-01-02"),
	}
}

// SetStart commits a new start date. If it lands past the current
// end, the end snaps to it.
func (r *Range) SetStart(date string) {
	r.Start = date
	if r.End != "" && r.Start > r.End {
		r.End = date
	}
}

// SetEnd commits a new end date. If it lands before the current
// start, the start snaps to it.
func (r *Range) SetEnd(date string) {
	r.End = date
	if r.Start != "" && r.Start > r.End {
		r.Start = date
	}
}

// Validate checks both bounds parse as ISO dates and are ordered.
func (r Range) Validate() error {
	start, err := model.ParseISODate(r.Start)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", r.Start, err)
	}
	end, err := model.ParseISODate(r.End)
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", r.End, err)
	}
	if start.After(end) {
		return fmt.Errorf("start date %s is after end date %s", r.Start, r.End)
	}
	return nil
}

func (r Range) String() string {
	return r.Start + ".." + r.End
}
