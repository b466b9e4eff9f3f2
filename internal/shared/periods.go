package shared

import (
	"errors"
	"time"
)

// Period identifies a reporting window used by ledger aggregates.
type Period string

const (
	// PeriodDay covers the calendar day of the reference instant.
	PeriodDay Period = "day"
	// PeriodWeek covers the ISO week (Monday start) of the reference instant.
	PeriodWeek Period = "week"
	// PeriodMonth covers the calendar month of the reference instant.
	PeriodMonth Period = "month"
	// PeriodYear covers the calendar year of the reference instant.
	PeriodYear Period = "year"
)

// ErrInvalidPeriod indicates an unknown period keyword.
var ErrInvalidPeriod = errors.New("shared: invalid period")

// ParsePeriod validates a period keyword.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return Period(s), nil
	}
	return "", ErrInvalidPeriod
}

// WindowStart returns the start of the period containing ref, at local
// midnight. Weeks start on Monday, years on January 1st.
func (p Period) WindowStart(ref time.Time) time.Time {
	y, m, d := ref.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())
	switch p {
	case PeriodDay:
		return midnight
	case PeriodWeek:
		offset := (int(midnight.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -offset)
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, ref.Location())
	case PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, ref.Location())
	}
	return midnight
}
