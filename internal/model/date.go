package model

import (
	"strings"
	"time"
)

// dateLayouts are the formats receipts arrive in. OCR output and manual
// entry both feed the date field, so the set is deliberately wide. Order
// matters: unambiguous ISO-style layouts come first.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"01/02/06",
	"01-02-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"01/02/2006",
	"2 Jan 2006",
	"2 January 2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// NormalizeDate parses a receipt date in any tolerated format and
// returns it as ISO YYYY-MM-DD. ok is false when nothing matched;
// callers decide whether an unparseable date excludes the receipt or
// just passes through raw.
func NormalizeDate(raw string) (iso string, ok bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02"), true
		}
	}

	return "", false
}

// ParseISODate parses a strict YYYY-MM-DD string.
func ParseISODate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
