package parse

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order when parsing spreadsheet date cells.
// Excelize returns date-typed cells as formatted strings, so the slash
// layouts cover the common number formats alongside ISO dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
	"2006-01-02 15:04:05",
}

// Decimal parses a decimal string treating both "," and "." as the decimal
// separator. The comma is normalized to the invariant "." before parsing, so
// "1234,56" and "1234.56" yield the same value without precision loss.
func Decimal(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("empty decimal value")
	}

	normalized := strings.ReplaceAll(raw, ",", ".")
	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal value %q: %w", raw, err)
	}

	return value, nil
}

// Schedule maps the literal tokens "Weekly", "Monthly" and "Yearly" to the
// schedule enum. The match is exact and case-sensitive.
func Schedule(raw string) (string, error) {
	switch raw {
	case "Weekly", "Monthly", "Yearly":
		return raw, nil
	default:
		return "", fmt.Errorf("invalid schedule %q (expected Weekly, Monthly or Yearly)", raw)
	}
}

// Date parses a calendar date from a spreadsheet cell, trying each known
// layout in turn. The result is normalized to date-only granularity in UTC.
func Date(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateOnly(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date value %q", raw)
}

// DateOnly drops any time-of-day component, keeping only year, month and day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
