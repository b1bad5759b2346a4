package reconcile

import "fmt"

// =============================================================================
// STATS PRESENTER - Formatting boundary, no business logic
// =============================================================================

// State is the tri-state badge a result renders as.
type State string

const (
	// StateUpToDate: no applicable requirement yet (e.g. hired after the
	// period). Nothing is owed.
	StateUpToDate State = "up_to_date"
	// StateOnTrack: requirement exists and nothing is missing.
	StateOnTrack State = "on_track"
	// StateBehind: hours are missing.
	StateBehind State = "behind"
)

// PendingState renders the pending bucket independently of the verdict.
type PendingState string

const (
	PendingNone PendingState = "none"
	PendingSome PendingState = "has_pending"
)

// Summary is the presentation-ready shape of a Result. Hour figures are
// rounded to two decimals here and nowhere earlier.
type Summary struct {
	State    State        `json:"state"`
	Pending  PendingState `json:"pending"`
	Required string       `json:"requiredHours"`
	Regular  string       `json:"regularHours"`
	Missing  string       `json:"missingHours"`
	PendingH string       `json:"pendingHours"`
	Label    string       `json:"label"`
}

// Summarize formats a Result. Pure threshold comparison; anything
// smarter belongs in the engine.
func Summarize(r Result) Summary {
	state := StateBehind
	switch {
	case r.NotYetApplicable:
		state = StateUpToDate
	case r.MissingHours.IsZero():
		state = StateOnTrack
	}

	pending := PendingNone
	if r.PendingHours.IsPositive() {
		pending = PendingSome
	}

	return Summary{
		State:    state,
		Pending:  pending,
		Required: r.RequiredHours.StringFixed(2),
		Regular:  r.RegularHours.StringFixed(2),
		Missing:  r.MissingHours.StringFixed(2),
		PendingH: r.PendingHours.StringFixed(2),
		Label:    fmt.Sprintf("%sh / %sh", r.RegularHours.StringFixed(1), r.RequiredHours.StringFixed(1)),
	}
}
