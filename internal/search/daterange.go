package search

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultDateLayout = "02-01-2006"
	DefaultWindowDays = 30
)

var ErrInvalidDate = errors.New("search: invalid date")

// DateRange holds inclusive bounds on the modification timestamp.
type DateRange struct {
	After  time.Time
	Before time.Time
}

// Contains reports whether ts falls within the inclusive range.
func (r DateRange) Contains(ts time.Time) bool {
	return !ts.Before(r.After) && !ts.After(r.Before)
}

// RangeOptions controls how bounds are parsed and defaulted.
type RangeOptions struct {
	Layout     string
	WindowDays int
	Location   *time.Location
}

func (o RangeOptions) withDefaults() RangeOptions {
	if strings.TrimSpace(o.Layout) == "" {
		o.Layout = DefaultDateLayout
	}
	if o.WindowDays <= 0 {
		o.WindowDays = DefaultWindowDays
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// ResolveRange parses the optional bounds and derives the missing ones:
//
//	neither given: before = today 23:59:59, after = before - window at 00:00:00
//	before only:   after = before - window at 00:00:00
//	after only:    before = today 23:59:59
//
// Dates given without a clock cover the whole day, so a given before bound
// ends at 23:59:59 and a given after bound starts at 00:00:00. A malformed
// bound fails with ErrInvalidDate and is never defaulted.
func ResolveRange(dateBefore, dateAfter string, now time.Time, opts RangeOptions) (DateRange, error) {
	opts = opts.withDefaults()
	now = now.In(opts.Location)

	var (
		rng                 DateRange
		hasBefore, hasAfter bool
	)
	if value := strings.TrimSpace(dateBefore); value != "" {
		parsed, err := parseBound(value, "date-before", opts)
		if err != nil {
			return DateRange{}, err
		}
		if !layoutHasClock(opts.Layout) {
			parsed = endOfDay(parsed)
		}
		rng.Before, hasBefore = parsed, true
	}
	if value := strings.TrimSpace(dateAfter); value != "" {
		parsed, err := parseBound(value, "date-after", opts)
		if err != nil {
			return DateRange{}, err
		}
		if !layoutHasClock(opts.Layout) {
			parsed = startOfDay(parsed)
		}
		rng.After, hasAfter = parsed, true
	}

	if !hasBefore {
		rng.Before = endOfDay(now)
	}
	if !hasAfter {
		rng.After = startOfDay(rng.Before.AddDate(0, 0, -opts.WindowDays))
	}
	return rng, nil
}

func parseBound(value, field string, opts RangeOptions) (time.Time, error) {
	parsed, err := time.ParseInLocation(opts.Layout, value, opts.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q, expected format %s: %v", ErrInvalidDate, field, value, humanLayout(opts.Layout), err)
	}
	return parsed, nil
}

func layoutHasClock(layout string) bool {
	return strings.Contains(layout, "15") || strings.Contains(layout, "03") || strings.Contains(layout, "04")
}

func startOfDay(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}

func endOfDay(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 23, 59, 59, 0, ts.Location())
}

func humanLayout(layout string) string {
	if layout == DefaultDateLayout {
		return "dd-mm-yyyy"
	}
	return layout
}
