/*
engine.go - Hours reconciliation

PURPOSE:
  Merges the calendar skeleton (qualifying working days) with the raw
  time-charge and leave records to produce per-period totals: required,
  regular, missing, and pending hours, plus the up-to-date verdict.

BUCKETS:
  RequiredHours: qualifying working days × daily requirement
  PendingHours:  submitted but unapproved hours, capped per day
  MissingHours:  requirement not covered by approved+pending hours
  RegularHours:  requirement actually covered (required - missing)

THE DAILY CAP:
  A day can satisfy at most the daily requirement, however much was
  logged. Week and month roll-ups apply that cap per day before
  accumulating. The single-day view intentionally does NOT cap its
  shortfall arithmetic — a day's own view shows the true combined
  figure even past the requirement. That asymmetry is long-standing
  observed behavior; TestDayView_ShortfallIgnoresDailyCap pins it so a
  future change is a one-line diff.

FAILURE SEMANTICS:
  Malformed records (inverted spans, negative declared durations) and
  records outside the period are skipped, never fatal. Empty rosters
  and entry lists produce well-formed zero-logged results.
*/
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/warp/timecharge/calendar"
	"github.com/warp/timecharge/charge"
)

// =============================================================================
// INPUT / RESULT
// =============================================================================

// Input is one staff member's reconciliation request. AsOf is the
// injected "today"; the engine never reads a live clock.
type Input struct {
	Staff       charge.StaffProfile
	Entries     []charge.TimeEntry
	Leaves      []charge.LeaveEntry
	Holidays    calendar.HolidaySet
	Period      calendar.Period
	Granularity calendar.Granularity
	AsOf        calendar.Date
}

// Result is the reconciliation outcome for one staff member and period.
// All hour figures are non-negative.
type Result struct {
	RequiredHours decimal.Decimal
	RegularHours  decimal.Decimal
	MissingHours  decimal.Decimal
	PendingHours  decimal.Decimal

	// UpToDate is true when nothing is missing — including the
	// NotYetApplicable case, where nothing is owed at all.
	UpToDate bool

	// NotYetApplicable marks a staff member hired after the period end.
	// Distinct from a zero requirement: there is no requirement.
	NotYetApplicable bool
}

// Engine reconciles logged hours against the working calendar. It holds
// no state beyond its rules; every call is independent and callers may
// run staff in parallel.
type Engine struct {
	Rules Rules
}

func NewEngine(rules Rules) *Engine { return &Engine{Rules: rules} }

// =============================================================================
// SINGLE-STAFF RECONCILIATION
// =============================================================================

// Reconcile computes the Result for one staff member over one period.
func (e *Engine) Reconcile(in Input) Result {
	years := []int{in.Period.Start.Year}
	if in.Period.End.Year != in.Period.Start.Year {
		years = append(years, in.Period.End.Year)
	}
	holidays := in.Holidays.ResolveRange(years...)

	days, notYet := calendar.WorkingDays(calendar.WorkingDaysInput{
		Period:      in.Period,
		Holidays:    holidays,
		HireDate:    in.Staff.HireDate,
		AsOf:        in.AsOf,
		Granularity: in.Granularity,
	})
	if notYet {
		return Result{UpToDate: true, NotYetApplicable: true}
	}

	daily := e.Rules.DailyHours
	required := daily.Mul(decimal.NewFromInt(int64(len(days))))

	counted := e.bucketByDay(in, clampedRange(in.Period, in.Granularity, in.AsOf))

	missing := decimal.Zero
	pending := decimal.Zero
	for _, day := range days {
		b := counted[day]

		cappedPending := b.pending
		if room := daily.Sub(b.approved); cappedPending.GreaterThan(room) {
			cappedPending = room
		}
		if cappedPending.IsNegative() {
			cappedPending = decimal.Zero
		}
		pending = pending.Add(cappedPending)

		if in.Granularity == calendar.GranularityDay {
			// Single-day view: true shortfall on the uncapped sum.
			shortfall := daily.Sub(b.approved.Add(b.pending))
			if shortfall.IsPositive() {
				missing = missing.Add(shortfall)
			}
			continue
		}

		total := b.approved.Add(b.pending)
		if total.GreaterThan(daily) {
			total = daily
		}
		if total.LessThan(daily) {
			missing = missing.Add(daily.Sub(total))
		}
	}

	regular := required.Sub(missing)
	if regular.IsNegative() {
		regular = decimal.Zero
	}

	return Result{
		RequiredHours: required,
		RegularHours:  regular,
		MissingHours:  missing,
		PendingHours:  pending,
		UpToDate:      missing.IsZero(),
	}
}

// clampedRange mirrors the enumeration clamp for record grouping: week
// and month views never count records for a day that has not finished.
func clampedRange(p calendar.Period, g calendar.Granularity, asOf calendar.Date) calendar.Period {
	if g != calendar.GranularityDay && p.End.AfterOrEqual(asOf) {
		return p.ClampEnd(asOf.AddDays(-1))
	}
	return p
}

// dayBucket accumulates one day's approved and pending hours, time
// charges and leave segments together — they are fungible toward the
// daily requirement.
type dayBucket struct {
	approved decimal.Decimal
	pending  decimal.Decimal
}

func (e *Engine) bucketByDay(in Input, within calendar.Period) map[calendar.Date]dayBucket {
	buckets := make(map[calendar.Date]dayBucket)

	add := func(day calendar.Date, status charge.Status, hours decimal.Decimal) {
		if !hours.IsPositive() {
			return
		}
		b := buckets[day]
		switch status {
		case charge.StatusApproved:
			b.approved = b.approved.Add(hours)
		case charge.StatusPending:
			b.pending = b.pending.Add(hours)
		default:
			return // declined satisfies nothing
		}
		buckets[day] = b
	}

	for _, entry := range in.Entries {
		if entry.Overtime {
			continue
		}
		if !within.Contains(entry.Date) {
			continue
		}
		add(entry.Date, entry.Status, e.entryHours(entry))
	}

	for _, leave := range in.Leaves {
		if leave.End.Before(leave.Start) {
			continue
		}
		for day, hours := range e.leaveHoursByDay(leave, within) {
			add(day, leave.Status, hours)
		}
	}

	return buckets
}

// entryHours returns one entry's net duration. Start/end timestamps are
// authoritative when present; otherwise the declared duration stands.
func (e *Engine) entryHours(entry charge.TimeEntry) decimal.Decimal {
	if !entry.Start.IsZero() && !entry.End.IsZero() {
		return e.Rules.NetHours(entry.Start, entry.End)
	}
	declared := entry.DeclaredHours()
	if declared.IsNegative() {
		return decimal.Zero
	}
	return declared
}

// leaveHoursByDay splits a leave into per-day segments and runs each
// through the shared duration rule, so a three-day leave satisfies each
// covered day under the same office window as a charge would.
func (e *Engine) leaveHoursByDay(leave charge.LeaveEntry, within calendar.Period) map[calendar.Date]decimal.Decimal {
	result := make(map[calendar.Date]decimal.Decimal)
	loc := leave.Start.Location()

	first := calendar.DateOf(leave.Start)
	last := calendar.DateOf(leave.End)
	for day := first; day.BeforeOrEqual(last); day = day.AddDays(1) {
		if !within.Contains(day) {
			continue
		}
		segStart := day.At(0, 0, loc)
		if leave.Start.After(segStart) {
			segStart = leave.Start
		}
		segEnd := day.AddDays(1).At(0, 0, loc)
		if leave.End.Before(segEnd) {
			segEnd = leave.End
		}
		hours := e.Rules.NetHours(segStart, segEnd)
		if hours.IsPositive() {
			result[day] = hours
		}
	}
	return result
}

// =============================================================================
// BULK RECONCILIATION
// =============================================================================

// BulkInput reconciles a roster in one call. Records are keyed by staff
// id; one person's entries never leak into another's totals.
type BulkInput struct {
	Staff       []charge.StaffProfile
	Entries     map[string][]charge.TimeEntry
	Leaves      map[string][]charge.LeaveEntry
	Holidays    calendar.HolidaySet
	Period      calendar.Period
	Granularity calendar.Granularity
	AsOf        calendar.Date
}

// BulkResult is the per-staff map plus the roster aggregate.
type BulkResult struct {
	ByStaff   map[string]Result
	Aggregate Result
}

// ReconcileAll runs Reconcile independently per staff member and sums
// the buckets. The aggregate is up to date only when everyone is.
func (e *Engine) ReconcileAll(in BulkInput) BulkResult {
	out := BulkResult{
		ByStaff:   make(map[string]Result, len(in.Staff)),
		Aggregate: Result{UpToDate: true, NotYetApplicable: len(in.Staff) > 0},
	}

	for _, staff := range in.Staff {
		r := e.Reconcile(Input{
			Staff:       staff,
			Entries:     in.Entries[staff.ID],
			Leaves:      in.Leaves[staff.ID],
			Holidays:    in.Holidays,
			Period:      in.Period,
			Granularity: in.Granularity,
			AsOf:        in.AsOf,
		})
		out.ByStaff[staff.ID] = r

		agg := &out.Aggregate
		agg.RequiredHours = agg.RequiredHours.Add(r.RequiredHours)
		agg.RegularHours = agg.RegularHours.Add(r.RegularHours)
		agg.MissingHours = agg.MissingHours.Add(r.MissingHours)
		agg.PendingHours = agg.PendingHours.Add(r.PendingHours)
		agg.UpToDate = agg.UpToDate && r.UpToDate
		agg.NotYetApplicable = agg.NotYetApplicable && r.NotYetApplicable
	}

	return out
}
