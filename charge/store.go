/*
store.go - Persistence interfaces for time-charge records

PURPOSE:
  Defines the interface between the domain records and the database.
  The engine itself never touches a Store — it works on slices the
  caller already fetched — so these interfaces exist for the API layer
  and its fetch step.

KEY INTERFACES:
  Store: staff, time entries, leave entries, holidays

STATUS TRANSITIONS:
  Entries are created pending and move to approved/declined via
  SetTimeEntryStatus / SetLeaveStatus. Nothing else about an entry is
  ever updated; corrections are a decline plus a fresh entry.

IMPLEMENTATIONS:
  - store/sqlite:       Production SQLite
  - charge/store:       In-memory for testing/dev
*/
package charge

import (
	"context"
	"errors"

	"github.com/warp/timecharge/calendar"
)

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("record not found")
)

// Store handles persistence of every record kind the application keeps.
type Store interface {
	// Staff
	CreateStaff(ctx context.Context, s StaffProfile) error
	GetStaff(ctx context.Context, id string) (StaffProfile, error)
	ListStaff(ctx context.Context) ([]StaffProfile, error)

	// Time entries
	CreateTimeEntry(ctx context.Context, e TimeEntry) error
	ListTimeEntries(ctx context.Context, userID string, from, to calendar.Date) ([]TimeEntry, error)
	SetTimeEntryStatus(ctx context.Context, id string, status Status) error

	// Leave entries
	CreateLeave(ctx context.Context, l LeaveEntry) error
	ListLeaves(ctx context.Context, userID string, from, to calendar.Date) ([]LeaveEntry, error)
	SetLeaveStatus(ctx context.Context, id string, status Status) error

	// Holidays
	AddFixedHoliday(ctx context.Context, h calendar.FixedHoliday) error
	AddDynamicHoliday(ctx context.Context, h calendar.DynamicHoliday) error
	Holidays(ctx context.Context) (calendar.HolidaySet, error)
}
