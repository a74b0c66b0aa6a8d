package daterange

import (
	"time"

	"github.com/ezbooks/ezb/internal/model"
)

// YearBounds tracks the minimum and maximum year seen across receipt
// dates, sizing the picker's year list. Bounds only ever widen within
// a session.
type YearBounds struct {
	Min int
	Max int
}

// NewYearBounds starts the bounds at the current year.
func NewYearBounds(now time.Time) YearBounds {
	year := now.Year()
	return YearBounds{Min: year, Max: year}
}

// Observe widens the bounds with every parseable date in dates.
// Unparseable values are skipped; the spread of formats receipts carry
// is handled by the model's date normalization.
func (b *YearBounds) Observe(dates []string) {
	for _, raw := range dates {
		iso, ok := model.NormalizeDate(raw)
		if !ok {
			continue
		}
		t, err := model.ParseISODate(iso)
		if err != nil {
			continue
		}

		year := t.Year()
		if b.Min == 0 || year < b.Min {
			b.Min = year
		}
		if year > b.Max {
			b.Max = year
		}
	}
}

// Years returns every year in the bounds, ascending.
func (b YearBounds) Years() []int {
	if b.Min == 0 || b.Max < b.Min {
		return nil
	}

	years := make([]int, 0, b.Max-b.Min+1)
	for y := b.Min; y <= b.Max; y++ {
		years = append(years, y)
	}
	return years
}
