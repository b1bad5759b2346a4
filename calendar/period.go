package calendar

import "time"

// =============================================================================
// PERIOD - Inclusive date range for reconciliation
// =============================================================================

// Period is an inclusive [Start, End] date range. All reconciliation is
// computed for a period, never at a bare point in time.
type Period struct {
	Start Date
	End   Date
}

// Contains returns true if the date is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns every date in the period, in order.
func (p Period) Days() []Date {
	var days []Date
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// ClampEnd returns a copy whose End is no later than limit.
func (p Period) ClampEnd(limit Date) Period {
	if p.End.After(limit) {
		p.End = limit
	}
	return p
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// GRANULARITY - How a reference date expands into a period
// =============================================================================

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// ParseGranularity maps a request parameter to a Granularity, defaulting
// to month for unknown values (the view the application opens on).
func ParseGranularity(s string) Granularity {
	switch Granularity(s) {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return Granularity(s)
	default:
		return GranularityMonth
	}
}

// PeriodFor returns the period of the given granularity containing date.
//
//   day:   [date, date]
//   week:  Sunday through Saturday containing date
//   month: first through last day of date's month
func PeriodFor(date Date, g Granularity) Period {
	switch g {
	case GranularityDay:
		return Period{Start: date, End: date}
	case GranularityWeek:
		start := date.AddDays(-int(date.Weekday())) // back to Sunday
		return Period{Start: start, End: start.AddDays(6)}
	default:
		return monthPeriod(date)
	}
}

func monthPeriod(date Date) Period {
	first := NewDate(date.Year, date.Month, 1)
	last := first.AddMonths(1).AddDays(-1)
	return Period{Start: first, End: last}
}

// MonthWeeks tiles the month containing date with 7-day windows starting
// from the Sunday on or before the 1st. The final window may spill into
// the next month; that spill exists for calendar display only, and
// reconciliation clamps to the true month end.
func MonthWeeks(date Date) []Period {
	month := monthPeriod(date)
	cursor := month.Start.AddDays(-int(month.Start.Weekday()))

	var weeks []Period
	for cursor.BeforeOrEqual(month.End) {
		weeks = append(weeks, Period{Start: cursor, End: cursor.AddDays(6)})
		cursor = cursor.AddDays(7)
	}
	return weeks
}

// StartOfMonth and EndOfMonth are convenience anchors used by callers
// assembling custom ranges.
func StartOfMonth(year int, month time.Month) Date { return NewDate(year, month, 1) }
func EndOfMonth(year int, month time.Month) Date {
	return NewDate(year, month, 1).AddMonths(1).AddDays(-1)
}
