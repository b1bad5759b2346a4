/*
holiday.go - Fixed and dynamic holiday resolution

PURPOSE:
  An organization's calendar exceptions come in two shapes: holidays
  that recur every year on the same month/day ("12-25"), and one-off
  dates valid only in the year they name ("2025-11-03"). Both resolve
  to concrete YYYY-MM-DD entries for a target year.

KEY CONCEPTS:
  - FixedHoliday:   recurring, stored as "MM-DD"
  - DynamicHoliday: one-off, stored as a raw date string
  - HolidaySet:     both lists together, resolved per year

RESILIENCE:
  Holiday records arrive from user-maintained admin screens and are not
  trusted to be well formed. A fixed "1-5" still resolves (numeric
  round-trip re-pads it), and an unparseable dynamic date falls back to
  its first 10 raw characters rather than erroring — one bad record
  must not blank the whole calendar.
*/
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// HOLIDAY VARIANTS
// =============================================================================

// FixedHoliday recurs every year on the same month and day.
type FixedHoliday struct {
	MonthDay string // "MM-DD"
	Title    string
}

// DynamicHoliday is valid only on the single date it names.
type DynamicHoliday struct {
	Raw   string // "YYYY-MM-DD", possibly irregular
	Title string
}

// HolidaySet carries an organization's calendar exceptions.
type HolidaySet struct {
	Fixed   []FixedHoliday
	Dynamic []DynamicHoliday
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve produces the concrete set of non-working dates for the target
// year. Fixed holidays are anchored to the year; dynamic holidays keep
// the year they name (a dynamic date outside the target year still ends
// up in the set — it simply never matches a date inside the period).
// Resolve never fails: malformed records degrade to best-effort keys.
func (h HolidaySet) Resolve(year int) DateSet {
	set := make(DateSet, len(h.Fixed)+len(h.Dynamic))

	for _, f := range h.Fixed {
		if key, ok := fixedKey(year, f.MonthDay); ok {
			set.Add(key)
		}
	}

	for _, d := range h.Dynamic {
		set.Add(dynamicKey(d.Raw))
	}

	return set
}

// ResolveRange unions resolutions for each year touched by a period
// that crosses a year boundary.
func (h HolidaySet) ResolveRange(years ...int) DateSet {
	set := make(DateSet)
	for _, y := range years {
		set.Union(h.Resolve(y))
	}
	return set
}

// fixedKey anchors an "MM-DD" entry to a year. The month and day take a
// numeric round-trip so entries missing their zero padding ("1-5")
// still normalize.
func fixedKey(year int, monthDay string) (string, bool) {
	parts := strings.SplitN(monthDay, "-", 2)
	if len(parts) != 2 {
		return "", false
	}
	month, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	day, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

// dynamicKey normalizes a raw dynamic date to YYYY-MM-DD, falling back
// to the first 10 raw characters when the string won't parse.
func dynamicKey(raw string) string {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006/01/02"} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return DateOf(t).String()
		}
	}
	if len(trimmed) > 10 {
		return trimmed[:10]
	}
	return trimmed
}
