/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  domain records from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/timecharge/calendar"
	"github.com/warp/timecharge/charge"
	"github.com/warp/timecharge/reconcile"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// StaffDTO represents a staff member in API responses.
type StaffDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	HireDate     string `json:"hire_date,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
}

// CreateStaffRequest is the request to register a staff member.
type CreateStaffRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	HireDate     string `json:"hire_date,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
}

// TimeEntryDTO represents a time charge in API responses.
type TimeEntryDTO struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
	Hours     int    `json:"hours"`
	Minutes   int    `json:"minutes"`
	Status    string `json:"status"`
	Overtime  bool   `json:"overtime"`
	Kind      string `json:"kind"`
	ProjectID string `json:"project_id,omitempty"`
	Stage     string `json:"stage,omitempty"`
	Activity  string `json:"activity,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// CreateTimeEntryRequest is the request to log a time charge. Start/end
// are RFC 3339; when both are given they are authoritative for the
// duration and the declared hours/minutes are display values.
type CreateTimeEntryRequest struct {
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
	Hours     int    `json:"hours"`
	Minutes   int    `json:"minutes"`
	Overtime  bool   `json:"overtime"`
	Kind      string `json:"kind"`
	ProjectID string `json:"project_id,omitempty"`
	Stage     string `json:"stage,omitempty"`
	Activity  string `json:"activity,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// LeaveDTO represents a leave request in API responses.
type LeaveDTO struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Status string `json:"status"`
}

// CreateLeaveRequest is the request to log a leave.
type CreateLeaveRequest struct {
	UserID string `json:"user_id"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// CreateHolidayRequest adds a calendar exception. Fixed holidays give
// month_day ("MM-DD"); dynamic holidays give date ("YYYY-MM-DD").
type CreateHolidayRequest struct {
	Fixed    bool   `json:"fixed"`
	MonthDay string `json:"month_day,omitempty"`
	Date     string `json:"date,omitempty"`
	Title    string `json:"title"`
}

// HolidaysDTO returns the resolved non-working dates for a year next to
// the raw records behind them.
type HolidaysDTO struct {
	Year     int      `json:"year"`
	Resolved []string `json:"resolved"`
}

// StatsDTO is one staff member's reconciliation summary.
type StatsDTO struct {
	UserID      string            `json:"user_id"`
	Granularity string            `json:"granularity"`
	PeriodStart string            `json:"period_start"`
	PeriodEnd   string            `json:"period_end"`
	Summary     reconcile.Summary `json:"summary"`
}

// BulkStatsDTO is the whole-roster view.
type BulkStatsDTO struct {
	Granularity string             `json:"granularity"`
	PeriodStart string             `json:"period_start"`
	PeriodEnd   string             `json:"period_end"`
	Staff       []StatsDTO         `json:"staff"`
	Aggregate   reconcile.Summary  `json:"aggregate"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toStaffDTO(p charge.StaffProfile) StaffDTO {
	dto := StaffDTO{ID: p.ID, Name: p.Name, DepartmentID: p.DepartmentID}
	if p.HireDate != nil {
		dto.HireDate = p.HireDate.String()
	}
	return dto
}

func toTimeEntryDTO(e charge.TimeEntry) TimeEntryDTO {
	dto := TimeEntryDTO{
		ID:        e.ID,
		UserID:    e.UserID,
		Date:      e.Date.String(),
		Hours:     e.Hours,
		Minutes:   e.Minutes,
		Status:    string(e.Status),
		Overtime:  e.Overtime,
		Kind:      string(e.Kind),
		ProjectID: e.ProjectID,
		Stage:     e.Stage,
		Activity:  e.Activity,
		Notes:     e.Notes,
	}
	if !e.Start.IsZero() {
		dto.Start = e.Start.Format(time.RFC3339)
	}
	if !e.End.IsZero() {
		dto.End = e.End.Format(time.RFC3339)
	}
	return dto
}

func toLeaveDTO(l charge.LeaveEntry) LeaveDTO {
	return LeaveDTO{
		ID:     l.ID,
		UserID: l.UserID,
		Start:  l.Start.Format(time.RFC3339),
		End:    l.End.Format(time.RFC3339),
		Status: string(l.Status),
	}
}

func toStatsDTO(userID string, g calendar.Granularity, p calendar.Period, r reconcile.Result) StatsDTO {
	return StatsDTO{
		UserID:      userID,
		Granularity: string(g),
		PeriodStart: p.Start.String(),
		PeriodEnd:   p.End.String(),
		Summary:     reconcile.Summarize(r),
	}
}
