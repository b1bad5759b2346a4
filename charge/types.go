/*
Package charge defines the time-charging domain records.

PURPOSE:
  These are the read-only snapshots the reconciliation engine consumes:
  time charges logged against projects or departmental tasks, leave
  requests, and the staff profiles that own them. The engine never
  mutates any of them.

KEY CONCEPTS:
  - TimeEntry:    a logged unit of work with approval status
  - LeaveEntry:   a logged absence, fungible with work toward the
                  daily requirement
  - StaffProfile: the minimal per-person fields the engine needs
  - Status:       pending / approved / declined

LEGACY NOTE:
  Leave statuses historically arrived as numeric codes; codes 0 and 4
  both meant "approved". LeaveStatusFromCode preserves that mapping so
  older rows keep counting.

SEE ALSO:
  - store.go: Persistence interfaces over these records
  - reconcile: The engine that aggregates them
*/
package charge

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/timecharge/calendar"
)

// =============================================================================
// APPROVAL STATUS
// =============================================================================

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
)

// ParseStatus maps a wire value to a Status. Unknown values come back
// false rather than defaulting, so a typo can't silently approve.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusDeclined:
		return Status(s), true
	}
	return "", false
}

// LeaveStatusFromCode maps legacy numeric leave codes to a Status.
// Codes 0 and 4 are approved; everything else is pending.
func LeaveStatusFromCode(code int) Status {
	if code == 0 || code == 4 {
		return StatusApproved
	}
	return StatusPending
}

// =============================================================================
// TIME ENTRY
// =============================================================================

// Kind distinguishes what a charge was logged against. It decides which
// descriptive fields apply and nothing else; the hour math is identical
// for all three.
type Kind string

const (
	KindExternal     Kind = "external"
	KindInternal     Kind = "internal"
	KindDepartmental Kind = "departmental"
)

// TimeEntry is a logged unit of work.
//
// Start/End are authoritative whenever hours are recomputed; Hours and
// Minutes carry the declared duration already persisted server-side and
// are what pre-computed sums report.
type TimeEntry struct {
	ID      string
	UserID  string
	Date    calendar.Date
	Start   time.Time
	End     time.Time
	Hours   int
	Minutes int
	Status  Status

	// Overtime entries never count toward the regular daily requirement;
	// they are tracked in their own bucket.
	Overtime bool

	Kind      Kind
	ProjectID string
	Stage     string
	Activity  string
	Notes     string
}

// DeclaredHours returns the persisted declared duration.
func (e TimeEntry) DeclaredHours() decimal.Decimal {
	return decimal.NewFromInt(int64(e.Hours)).
		Add(decimal.NewFromInt(int64(e.Minutes)).Div(decimal.NewFromInt(60)))
}

// =============================================================================
// LEAVE ENTRY
// =============================================================================

// LeaveEntry is a logged absence. It satisfies the daily requirement
// exactly like a TimeEntry, in the same approved/pending buckets and
// under the same daily cap. A leave may span several calendar days.
type LeaveEntry struct {
	ID     string
	UserID string
	Start  time.Time
	End    time.Time
	Status Status
}

// =============================================================================
// STAFF
// =============================================================================

// StaffProfile carries the per-person fields the engine needs. HireDate
// is nil for staff whose hire date predates the records kept.
type StaffProfile struct {
	ID           string
	Name         string
	HireDate     *calendar.Date
	DepartmentID string
}
