package utils

import (
	"errors"
	"strings"
	"time"
)

const (
	// QueryDateLayout is the YYYY-MM-DD token used by the reporting routes.
	QueryDateLayout = "2006-01-02"
	// SalesDateLayout is the DD-MM-YYYY token used when backdating a sale.
	SalesDateLayout = "02-01-2006"
)

var ErrInvalidDate = errors.New("invalid date")

// DayRange is an inclusive [Start, End] window covering one calendar day.
type DayRange struct {
	Start time.Time
	End   time.Time
}

// Day returns the range 00:00:00.000 - 23:59:59.999 of t's date in loc.
func Day(t time.Time, loc *time.Location) DayRange {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return DayRange{Start: start, End: end}
}

// Contains reports whether t falls inside the range, both ends included.
func (r DayRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Label formats the day as YYYY-MM-DD.
func (r DayRange) Label() string {
	return r.Start.Format(QueryDateLayout)
}

// ParseQueryDate parses a YYYY-MM-DD token into its day range in loc.
func ParseQueryDate(token string, loc *time.Location) (DayRange, error) {
	return parseDay(token, QueryDateLayout, loc)
}

// ParseSalesDate parses a DD-MM-YYYY token into its day range in loc.
func ParseSalesDate(token string, loc *time.Location) (DayRange, error) {
	return parseDay(token, SalesDateLayout, loc)
}

func parseDay(token, layout string, loc *time.Location) (DayRange, error) {
	if loc == nil {
		loc = time.Local
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return DayRange{}, ErrInvalidDate
	}
	t, err := time.ParseInLocation(layout, token, loc)
	if err != nil {
		return DayRange{}, ErrInvalidDate
	}
	return Day(t, loc), nil
}
