/*
Package reconcile implements the working-hours reconciliation engine.

PURPOSE:
  Answers, per staff member and per period, the questions the approval
  screens hang off: how many regular hours were required, how many were
  logged (approved vs pending), how many are missing, and whether the
  person is up to date. Inputs are flat record slices an external fetch
  layer already produced; the engine is pure computation over them.

KEY CONCEPTS:
  - Rules:   the office window, lunch break, and daily requirement
  - NetHours: the single clipping + lunch-deduction duration rule
  - Engine:  per-day bucketing, daily caps, period roll-up

DESIGN PRINCIPLES:
  1. Determinism: "now" is an explicit argument; identical inputs give
     bit-identical results
  2. Precision: decimal.Decimal for all hour arithmetic; rounding only
     happens at the presentation boundary
  3. Resilience: one malformed record is skipped, never fatal

SEE ALSO:
  - engine.go:    The reconciliation algorithm
  - presenter.go: Formatting of results for display
  - calendar:     Periods, holidays, working-day enumeration
*/
package reconcile

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RULES - Office window, lunch break, daily requirement
// =============================================================================

// ClockTime is a wall-clock time of day.
type ClockTime struct {
	Hour   int
	Minute int
}

// OfficeWindow bounds the chargeable part of a day. Time outside the
// window never counts, no matter what was logged.
type OfficeWindow struct {
	Open  ClockTime
	Close ClockTime
}

// LunchBreak is deducted from any charge overlapping it.
type LunchBreak struct {
	Start ClockTime
	End   ClockTime
}

// Rules carries the parameters every duration and cap computation runs
// under. DailyHours is a field rather than a constant because call
// sites in the legacy system disagreed on the baseline (8h vs 9h).
type Rules struct {
	DailyHours decimal.Decimal
	Office     OfficeWindow
	Lunch      LunchBreak
}

// DefaultRules returns the standard office: 07:00-19:00 with an
// 11:30-12:30 lunch deduction and an 8-hour daily requirement.
func DefaultRules() Rules {
	return Rules{
		DailyHours: decimal.NewFromInt(8),
		Office: OfficeWindow{
			Open:  ClockTime{Hour: 7},
			Close: ClockTime{Hour: 19},
		},
		Lunch: LunchBreak{
			Start: ClockTime{Hour: 11, Minute: 30},
			End:   ClockTime{Hour: 12, Minute: 30},
		},
	}
}

// =============================================================================
// NET HOURS - Shared clipping + lunch-deduction rule
// =============================================================================

// NetHours computes the chargeable hours between start and end under
// the rules: the span is clipped to the office window of start's
// calendar date, then the overlap with that date's lunch break is
// deducted. Never negative.
//
// The same rule applies whether the span is a time charge, a leave
// segment, or an overtime block — otherwise approvals and stats would
// disagree with what was charged.
func (r Rules) NetHours(start, end time.Time) decimal.Decimal {
	if end.Before(start) || end.Equal(start) {
		return decimal.Zero
	}

	loc := start.Location()
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	open := day.Add(clockOffset(r.Office.Open))
	close := day.Add(clockOffset(r.Office.Close))

	if start.Before(open) {
		start = open
	}
	if end.After(close) {
		end = close
	}
	if !end.After(start) {
		return decimal.Zero
	}

	span := hoursBetween(start, end)

	lunchStart := day.Add(clockOffset(r.Lunch.Start))
	lunchEnd := day.Add(clockOffset(r.Lunch.End))
	lunch := overlapHours(start, end, lunchStart, lunchEnd)

	net := span.Sub(lunch)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

func clockOffset(c ClockTime) time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

func hoursBetween(a, b time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(b.Sub(a) / time.Minute)).Div(decimal.NewFromInt(60))
}

// overlapHours returns the length of [aStart, aEnd] ∩ [bStart, bEnd],
// floored at zero when the intervals do not intersect.
func overlapHours(aStart, aEnd, bStart, bEnd time.Time) decimal.Decimal {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return decimal.Zero
	}
	return hoursBetween(start, end)
}
