package calendar_test

import (
	"testing"

	"github.com/warp/timecharge/calendar"
)

// =============================================================================
// HOLIDAY RESOLUTION TESTS
// =============================================================================

func TestResolve_FixedHolidayRecursEveryYear(t *testing.T) {
	// GIVEN: A fixed holiday on December 25th
	// WHEN: Resolving for 2025 and 2026
	// THEN: Both years contain their own concrete date

	set := calendar.HolidaySet{
		Fixed: []calendar.FixedHoliday{{MonthDay: "12-25", Title: "Christmas Day"}},
	}

	for _, year := range []int{2025, 2026} {
		resolved := set.Resolve(year)
		want := calendar.NewDate(year, 12, 25)
		if !resolved.Contains(want) {
			t.Errorf("year %d: expected %s in resolved set", year, want)
		}
	}
}

func TestResolve_FixedHolidayWithoutZeroPadding(t *testing.T) {
	// GIVEN: A fixed holiday stored as "1-5" (no leading zeros)
	// WHEN: Resolving for 2025
	// THEN: The numeric round-trip normalizes it to 2025-01-05

	set := calendar.HolidaySet{
		Fixed: []calendar.FixedHoliday{{MonthDay: "1-5", Title: "Founders Day"}},
	}

	resolved := set.Resolve(2025)
	if !resolved.ContainsKey("2025-01-05") {
		t.Errorf("expected 2025-01-05 in resolved set, got %v", resolved)
	}
}

func TestResolve_DynamicHolidayKeepsItsYear(t *testing.T) {
	set := calendar.HolidaySet{
		Dynamic: []calendar.DynamicHoliday{{Raw: "2025-11-03", Title: "Special Non-Working Day"}},
	}

	resolved := set.Resolve(2025)
	if !resolved.ContainsKey("2025-11-03") {
		t.Errorf("expected 2025-11-03 in resolved set")
	}
}

func TestResolve_UnparseableDynamicFallsBackToRawPrefix(t *testing.T) {
	// GIVEN: A dynamic holiday whose date string won't parse
	// WHEN: Resolving
	// THEN: The first 10 raw characters are used instead of failing

	set := calendar.HolidaySet{
		Dynamic: []calendar.DynamicHoliday{{Raw: "2025-13-45 garbage", Title: "Bad Record"}},
	}

	resolved := set.Resolve(2025)
	if !resolved.ContainsKey("2025-13-45") {
		t.Errorf("expected raw prefix 2025-13-45 in resolved set, got %v", resolved)
	}
}

func TestResolve_TimestampedDynamicNormalizes(t *testing.T) {
	set := calendar.HolidaySet{
		Dynamic: []calendar.DynamicHoliday{{Raw: "2025-06-09T00:00:00Z", Title: "Bridge Day"}},
	}

	resolved := set.Resolve(2025)
	if !resolved.ContainsKey("2025-06-09") {
		t.Errorf("expected timestamp to normalize to 2025-06-09")
	}
}

func TestResolve_EmptyListsYieldEmptySet(t *testing.T) {
	resolved := calendar.HolidaySet{}.Resolve(2025)
	if len(resolved) != 0 {
		t.Errorf("expected empty set, got %v", resolved)
	}
}

func TestResolve_MalformedFixedIsSkippedNotFatal(t *testing.T) {
	set := calendar.HolidaySet{
		Fixed: []calendar.FixedHoliday{
			{MonthDay: "not-a-date"},
			{MonthDay: "12-25", Title: "Christmas Day"},
		},
	}

	resolved := set.Resolve(2025)
	if !resolved.ContainsKey("2025-12-25") {
		t.Errorf("good record should survive a malformed sibling")
	}
	if len(resolved) != 1 {
		t.Errorf("expected exactly 1 resolved date, got %d", len(resolved))
	}
}

func TestResolveRange_UnionsYears(t *testing.T) {
	// GIVEN: A period spanning a year boundary
	// WHEN: Resolving both touched years
	// THEN: The fixed holiday appears for each year

	set := calendar.HolidaySet{
		Fixed: []calendar.FixedHoliday{{MonthDay: "01-01", Title: "New Year"}},
	}

	resolved := set.ResolveRange(2025, 2026)
	for _, key := range []string{"2025-01-01", "2026-01-01"} {
		if !resolved.ContainsKey(key) {
			t.Errorf("expected %s in range resolution", key)
		}
	}
}
