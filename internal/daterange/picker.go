package daterange

import (
	"time"

	"github.com/ezbooks/ezb/internal/model"
)

// Bound identifies which end of the range a picker edits.
type Bound int

// Range bounds.
const (
	BoundStart Bound = iota
	BoundEnd
)

// Picker is the calendar popover state machine. It is either closed
// or open with a year/month cursor. Moving the cursor never commits
// anything; only selecting a day does, and that closes the picker.
// The committed value is returned to the caller, which owns the
// actual Range.
type Picker struct {
	now    func() time.Time
	bound  Bound
	year   int
	month  time.Month
	isOpen bool
}

// NewPicker creates a closed picker. nowFn may be nil, in which case
// time.Now is used.
func NewPicker(nowFn func() time.Time) Picker {
	if nowFn == nil {
		nowFn = time.Now
	}
	return Picker{now: nowFn}
}

// IsOpen reports whether the popover is showing.
func (p Picker) IsOpen() bool { return p.isOpen }

// Bound returns which bound the open picker edits.
func (p Picker) Bound() Bound { return p.bound }

// Cursor returns the year and month the popover is displaying.
func (p Picker) Cursor() (int, time.Month) { return p.year, p.month }

// Open shows the popover for the given bound, seeding the cursor from
// the committed date, or from today when it is unset or unparseable.
func (p *Picker) Open(bound Bound, committed string) {
	seed := p.now()
	if t, err := model.ParseISODate(committed); err == nil {
		seed = t
	}

	p.isOpen = true
	p.bound = bound
	p.year = seed.Year()
	p.month = seed.Month()
}

// Close dismisses the popover without committing anything.
func (p *Picker) Close() {
	p.isOpen = false
}

// SetYear moves the cursor to a different year. Cursor only; nothing
// is committed.
func (p *Picker) SetYear(year int) {
	if p.isOpen {
		p.year = year
	}
}

// SetMonth moves the cursor to a different month.
func (p *Picker) SetMonth(month time.Month) {
	if p.isOpen && month >= time.January && month <= time.December {
		p.month = month
	}
}

// NextMonth advances the cursor one month, rolling the year.
func (p *Picker) NextMonth() {
	if !p.isOpen {
		return
	}
	if p.month == time.December {
		p.month = time.January
		p.year++
	} else {
		p.month++
	}
}

// PrevMonth moves the cursor back one month, rolling the year.
func (p *Picker) PrevMonth() {
	if !p.isOpen {
		return
	}
	if p.month == time.January {
		p.month = time.December
		p.year--
	} else {
		p.month--
	}
}

// Grid returns the calendar cells for the cursor month.
func (p Picker) Grid() []int {
	return Grid(p.year, p.month)
}

// SelectDay commits the given day of the cursor month and closes the
// popover. ok is false (and nothing committed) for a day outside the
// month or a closed picker.
func (p *Picker) SelectDay(day int) (date string, bound Bound, ok bool) {
	if !p.isOpen || day < 1 || day > DaysInMonth(p.year, p.month) {
		return "", 0, false
	}

	p.isOpen = false
	return ISODate(p.year, p.month, day), p.bound, true
}
