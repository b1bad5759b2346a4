package calendar

// =============================================================================
// WORKING-DAY ENUMERATION
// =============================================================================

// WorkingDaysInput bounds the enumeration. HireDate is optional; AsOf is
// the injected "today" — callers must supply it explicitly so the walk
// stays deterministic under test.
type WorkingDaysInput struct {
	Period      Period
	Holidays    DateSet
	HireDate    *Date
	AsOf        Date
	Granularity Granularity
}

// WorkingDays enumerates the qualifying working days of a period: the
// weekdays that are not holidays, not before the hire date, and not
// after the as-of date.
//
// Two boundary rules matter here:
//
//   - A hire date past the period end means the period is not yet
//     applicable to that person at all. That is reported via the second
//     return value, NOT as an empty list — callers owe nothing for a
//     not-yet-applicable period, which is different from owing zero.
//
//   - For week and month granularity a period whose end is today or
//     later is clamped to yesterday, so nobody is asked for hours on a
//     day that has not finished. Day granularity always evaluates its
//     single requested day, today included.
func WorkingDays(in WorkingDaysInput) (days []Date, notYetApplicable bool) {
	period := in.Period

	if in.HireDate != nil && in.HireDate.After(period.End) {
		return nil, true
	}

	if in.Granularity != GranularityDay && period.End.AfterOrEqual(in.AsOf) {
		period = period.ClampEnd(in.AsOf.AddDays(-1))
	}

	for current := period.Start; current.BeforeOrEqual(period.End); current = current.AddDays(1) {
		if current.IsWeekend() {
			continue
		}
		if in.Holidays.Contains(current) {
			continue
		}
		if in.HireDate != nil && current.Before(*in.HireDate) {
			continue
		}
		if in.Granularity != GranularityDay && current.After(in.AsOf) {
			continue
		}
		days = append(days, current)
	}
	return days, false
}
