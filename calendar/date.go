/*
Package calendar provides the working-calendar primitives for the
time-charge engine.

PURPOSE:
  Everything here is pure date arithmetic: local calendar dates, period
  boundaries (day/week/month), holiday resolution, and the enumeration
  of qualifying working days. No clocks are read and no records are
  touched; the reconcile package layers hour math on top.

KEY CONCEPTS IN THIS FILE (date.go):
  - Date: A local calendar date as year/month/day integers
  - DateSet: A set of dates keyed by their YYYY-MM-DD form

DESIGN PRINCIPLES:
  1. No timezones: a Date has no clock and no zone, so a charge logged
     against "2025-03-14" can never drift a day when compared
  2. Determinism: "today" is always an explicit argument, never a call
     to time.Now
  3. Purity: every function returns new values; nothing is mutated

SEE ALSO:
  - period.go: Day/week/month period resolution
  - holiday.go: Fixed and dynamic holiday variants
  - workdays.go: Qualifying working-day enumeration
*/
package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Local calendar date with no clock and no timezone
// =============================================================================

// Date is a local calendar date. Comparisons between Dates can never be
// perturbed by timezone conversion because there is nothing to convert.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normalizes its arguments through time.Date, so overflowing
// values (e.g. day 32) roll over the way time.AddDate would.
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// DateOf truncates a timestamp to its local calendar date.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// At returns a timestamp on this date at the given wall-clock time, in
// the supplied location.
func (d Date) At(hour, minute int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, minute, 0, 0, loc)
}

// Comparison
func (d Date) Before(other Date) bool { return d.time().Before(other.time()) }
func (d Date) After(other Date) bool  { return d.time().After(other.time()) }
func (d Date) Equal(other Date) bool  { return d == other }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return DateOf(d.time().AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.time().AddDate(0, n, 0)) }

// Properties
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
func (d Date) IsZero() bool { return d == Date{} }

// String formats as YYYY-MM-DD, the canonical key used throughout the
// engine and the holiday sets.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// =============================================================================
// DATE SET
// =============================================================================

// DateSet is a set of calendar dates keyed by their YYYY-MM-DD form.
// Raw strings may be inserted too (see holiday.go's fallback path), so
// membership is string-keyed rather than Date-keyed.
type DateSet map[string]struct{}

func NewDateSet(dates ...Date) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s.Add(d.String())
	}
	return s
}

func (s DateSet) Add(key string)         { s[key] = struct{}{} }
func (s DateSet) Contains(d Date) bool   { _, ok := s[d.String()]; return ok }
func (s DateSet) ContainsKey(key string) bool { _, ok := s[key]; return ok }

// Union merges other into s and returns s.
func (s DateSet) Union(other DateSet) DateSet {
	for k := range other {
		s[k] = struct{}{}
	}
	return s
}
