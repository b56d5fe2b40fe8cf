// Package membership computes membership windows from fee package durations.
//
// A duration is "<count> <unit>" where count is a positive integer and unit is
// one of day(s), month(s) or year(s), case-insensitive ("3 Months", "1 year").
// Months and years move the calendar and clamp to the last day of the target
// month: 2024-01-31 plus one month is 2024-02-29. A duration may span at most
// MaxYears years.
package membership

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnrecognizedDurationUnit = errors.New("unrecognized duration unit")
	ErrMalformedDuration        = errors.New("malformed duration")
	ErrInvalidStartDate         = errors.New("invalid start date")
	ErrDurationTooLong          = errors.New("duration too long")
	ErrEndDateOutOfRange        = errors.New("end date out of range")
)

// MaxYears bounds every duration. End dates must also stay within year 9999,
// the last year JSON and BSON dates can carry.
const (
	MaxYears   = 100
	maxEndYear = 9999
)

var maxCount = map[Unit]int{
	Day:   MaxYears * 366,
	Month: MaxYears * 12,
	Year:  MaxYears,
}

type Unit int

const (
	Day Unit = iota + 1
	Month
	Year
)

var units = map[string]Unit{
	"day":    Day,
	"days":   Day,
	"month":  Month,
	"months": Month,
	"year":   Year,
	"years":  Year,
}

func (u Unit) String() string {
	switch u {
	case Day:
		return "day"
	case Month:
		return "month"
	case Year:
		return "year"
	default:
		return "unknown"
	}
}

type Duration struct {
	Count int
	Unit  Unit
}

func ParseDuration(spec string) (Duration, error) {
	fields := strings.Fields(spec)
	if len(fields) != 2 {
		return Duration{}, fmt.Errorf("%w: %q", ErrMalformedDuration, spec)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 1 {
		return Duration{}, fmt.Errorf("%w: %q", ErrMalformedDuration, spec)
	}
	unit, ok := units[strings.ToLower(fields[1])]
	if !ok {
		return Duration{}, fmt.Errorf("%w: %q", ErrUnrecognizedDurationUnit, fields[1])
	}
	if n > maxCount[unit] {
		return Duration{}, fmt.Errorf("%w: %q", ErrDurationTooLong, spec)
	}
	return Duration{Count: n, Unit: unit}, nil
}

// AddTo returns t moved forward by d.
func (d Duration) AddTo(t time.Time) time.Time {
	switch d.Unit {
	case Day:
		return t.AddDate(0, 0, d.Count)
	case Month:
		return addMonthsClamped(t, d.Count)
	case Year:
		return addMonthsClamped(t, 12*d.Count)
	default:
		panic(fmt.Sprintf("membership: unit %d has no arithmetic", d.Unit))
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, day := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// ComputeEndDate returns the end of a membership starting at start.
func ComputeEndDate(start time.Time, durationSpec string) (time.Time, error) {
	if start.IsZero() {
		return time.Time{}, ErrInvalidStartDate
	}
	d, err := ParseDuration(durationSpec)
	if err != nil {
		return time.Time{}, err
	}
	end := d.AddTo(start)
	if end.Year() > maxEndYear {
		return time.Time{}, fmt.Errorf("%w: %s", ErrEndDateOutOfRange, end.Format(time.DateOnly))
	}
	return end, nil
}

var startLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseStartDate accepts a calendar date ("2024-01-15") or an RFC 3339
// timestamp. Dates without a zone are taken as UTC. The zero time is
// rejected.
func ParseStartDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, s); err == nil && !t.IsZero() {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidStartDate, s)
}
