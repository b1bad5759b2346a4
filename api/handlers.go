/*
handlers.go - HTTP API handlers for the time-charge system

PURPOSE:
  Exposes time charging, leave requests, the approval flow, the holiday
  calendar, and the reconciliation stats via REST. Handlers parse and
  validate the HTTP surface and delegate all hour math to the engine.

ENDPOINTS:
  Staff:
    GET    /api/staff                  List the roster
    POST   /api/staff                  Register a staff member
    GET    /api/staff/{id}/stats       Reconciliation summary for one person

  Entries:
    GET    /api/entries?user=&from=&to= List time charges
    POST   /api/entries                 Log a time charge (created pending)
    POST   /api/entries/{id}/approve    Approve
    POST   /api/entries/{id}/decline    Decline

  Leaves:
    GET    /api/leaves?user=&from=&to=  List leaves
    POST   /api/leaves                  Request a leave (created pending)
    POST   /api/leaves/{id}/approve     Approve
    POST   /api/leaves/{id}/decline     Decline

  Holidays:
    GET    /api/holidays?year=          Resolved non-working dates
    POST   /api/holidays                Add a fixed or dynamic holiday

  Stats:
    GET    /api/stats?granularity=&date= Whole-roster reconciliation

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Fetch records from the store
  4. Run the engine / mutate the store
  5. Serialize response

ERROR HANDLING:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/timecharge/calendar"
	"github.com/warp/timecharge/charge"
	"github.com/warp/timecharge/reconcile"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers. Clock supplies the
// engine's "today"; it is a field so tests can pin it.
type Handler struct {
	Store  charge.Store
	Engine *reconcile.Engine
	Clock  func() calendar.Date
}

// NewHandler creates a handler over the given store and rules.
func NewHandler(store charge.Store, rules reconcile.Rules) *Handler {
	return &Handler{
		Store:  store,
		Engine: reconcile.NewEngine(rules),
		Clock:  func() calendar.Date { return calendar.DateOf(time.Now()) },
	}
}

// =============================================================================
// STAFF HANDLERS
// =============================================================================

// ListStaff returns the roster.
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.Store.ListStaff(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list staff", err)
		return
	}

	dtos := make([]StaffDTO, len(staff))
	for i, p := range staff {
		dtos[i] = toStaffDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateStaff registers a staff member.
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	profile := charge.StaffProfile{
		ID:           req.ID,
		Name:         req.Name,
		DepartmentID: req.DepartmentID,
	}
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	if req.HireDate != "" {
		hire, err := calendar.ParseDate(req.HireDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
			return
		}
		profile.HireDate = &hire
	}

	if err := h.Store.CreateStaff(r.Context(), profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create staff", err)
		return
	}
	writeJSON(w, http.StatusCreated, toStaffDTO(profile))
}

// =============================================================================
// TIME ENTRY HANDLERS
// =============================================================================

// ListEntries returns a user's time charges within a date range.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, from, to, ok := listParams(w, r)
	if !ok {
		return
	}

	entries, err := h.Store.ListTimeEntries(r.Context(), userID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}

	dtos := make([]TimeEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toTimeEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEntry logs a time charge. Entries are created pending.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateTimeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required", nil)
		return
	}

	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	entry := charge.TimeEntry{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Date:      date,
		Hours:     req.Hours,
		Minutes:   req.Minutes,
		Status:    charge.StatusPending,
		Overtime:  req.Overtime,
		Kind:      parseKind(req.Kind),
		ProjectID: req.ProjectID,
		Stage:     req.Stage,
		Activity:  req.Activity,
		Notes:     req.Notes,
	}

	if req.Start != "" || req.End != "" {
		start, err1 := time.Parse(time.RFC3339, req.Start)
		end, err2 := time.Parse(time.RFC3339, req.End)
		if err1 != nil || err2 != nil {
			writeError(w, http.StatusBadRequest, "Invalid start/end format (use RFC 3339)", nil)
			return
		}
		if !end.After(start) {
			writeError(w, http.StatusBadRequest, "end must be after start", nil)
			return
		}
		entry.Start = start
		entry.End = end
	}

	if err := h.Store.CreateTimeEntry(r.Context(), entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTimeEntryDTO(entry))
}

// ApproveEntry and DeclineEntry implement the manager approval flow.
func (h *Handler) ApproveEntry(w http.ResponseWriter, r *http.Request) {
	h.setEntryStatus(w, r, charge.StatusApproved)
}

func (h *Handler) DeclineEntry(w http.ResponseWriter, r *http.Request) {
	h.setEntryStatus(w, r, charge.StatusDeclined)
}

func (h *Handler) setEntryStatus(w http.ResponseWriter, r *http.Request, status charge.Status) {
	id := chi.URLParam(r, "id")
	err := h.Store.SetTimeEntryStatus(r.Context(), id, status)
	if errors.Is(err, charge.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Entry not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update entry", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(status)})
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

func (h *Handler) ListLeaves(w http.ResponseWriter, r *http.Request) {
	userID, from, to, ok := listParams(w, r)
	if !ok {
		return
	}

	leaves, err := h.Store.ListLeaves(r.Context(), userID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leaves", err)
		return
	}

	dtos := make([]LeaveDTO, len(leaves))
	for i, l := range leaves {
		dtos[i] = toLeaveDTO(l)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required", nil)
		return
	}

	start, err1 := time.Parse(time.RFC3339, req.Start)
	end, err2 := time.Parse(time.RFC3339, req.End)
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "Invalid start/end format (use RFC 3339)", nil)
		return
	}
	if !end.After(start) {
		writeError(w, http.StatusBadRequest, "end must be after start", nil)
		return
	}

	leave := charge.LeaveEntry{
		ID:     uuid.NewString(),
		UserID: req.UserID,
		Start:  start,
		End:    end,
		Status: charge.StatusPending,
	}

	if err := h.Store.CreateLeave(r.Context(), leave); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create leave", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveDTO(leave))
}

func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	h.setLeaveStatus(w, r, charge.StatusApproved)
}

func (h *Handler) DeclineLeave(w http.ResponseWriter, r *http.Request) {
	h.setLeaveStatus(w, r, charge.StatusDeclined)
}

func (h *Handler) setLeaveStatus(w http.ResponseWriter, r *http.Request, status charge.Status) {
	id := chi.URLParam(r, "id")
	err := h.Store.SetLeaveStatus(r.Context(), id, status)
	if errors.Is(err, charge.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Leave not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update leave", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(status)})
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// GetHolidays returns the resolved non-working dates for a year.
func (h *Handler) GetHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "year query parameter is required", err)
		return
	}

	set, err := h.Store.Holidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load holidays", err)
		return
	}

	resolved := set.Resolve(year)
	keys := make([]string, 0, len(resolved))
	for k := range resolved {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	writeJSON(w, http.StatusOK, HolidaysDTO{Year: year, Resolved: keys})
}

// CreateHoliday adds a fixed or dynamic holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var err error
	if req.Fixed {
		if req.MonthDay == "" {
			writeError(w, http.StatusBadRequest, "month_day is required for fixed holidays", nil)
			return
		}
		err = h.Store.AddFixedHoliday(r.Context(), calendar.FixedHoliday{MonthDay: req.MonthDay, Title: req.Title})
	} else {
		if req.Date == "" {
			writeError(w, http.StatusBadRequest, "date is required for dynamic holidays", nil)
			return
		}
		err = h.Store.AddDynamicHoliday(r.Context(), calendar.DynamicHoliday{Raw: req.Date, Title: req.Title})
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// =============================================================================
// STATS HANDLERS
// =============================================================================

// GetStaffStats runs the engine for one staff member.
func (h *Handler) GetStaffStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	staff, err := h.Store.GetStaff(r.Context(), id)
	if errors.Is(err, charge.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Staff not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load staff", err)
		return
	}

	granularity, period, ok := statsParams(w, r, h.Clock())
	if !ok {
		return
	}

	result, err := h.reconcileOne(r, staff, period, granularity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reconcile", err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsDTO(staff.ID, granularity, period, result))
}

// GetStats runs the engine across the whole roster.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	granularity, period, ok := statsParams(w, r, h.Clock())
	if !ok {
		return
	}

	roster, err := h.Store.ListStaff(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list staff", err)
		return
	}
	holidays, err := h.Store.Holidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load holidays", err)
		return
	}

	bulk := reconcile.BulkInput{
		Staff:       roster,
		Entries:     make(map[string][]charge.TimeEntry, len(roster)),
		Leaves:      make(map[string][]charge.LeaveEntry, len(roster)),
		Holidays:    holidays,
		Period:      period,
		Granularity: granularity,
		AsOf:        h.Clock(),
	}
	for _, p := range roster {
		entries, err := h.Store.ListTimeEntries(r.Context(), p.ID, period.Start, period.End)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
			return
		}
		leaves, err := h.Store.ListLeaves(r.Context(), p.ID, period.Start, period.End)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list leaves", err)
			return
		}
		bulk.Entries[p.ID] = entries
		bulk.Leaves[p.ID] = leaves
	}

	result := h.Engine.ReconcileAll(bulk)

	dto := BulkStatsDTO{
		Granularity: string(granularity),
		PeriodStart: period.Start.String(),
		PeriodEnd:   period.End.String(),
		Aggregate:   reconcile.Summarize(result.Aggregate),
	}
	for _, p := range roster {
		dto.Staff = append(dto.Staff, toStatsDTO(p.ID, granularity, period, result.ByStaff[p.ID]))
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) reconcileOne(r *http.Request, staff charge.StaffProfile, period calendar.Period, g calendar.Granularity) (reconcile.Result, error) {
	entries, err := h.Store.ListTimeEntries(r.Context(), staff.ID, period.Start, period.End)
	if err != nil {
		return reconcile.Result{}, err
	}
	leaves, err := h.Store.ListLeaves(r.Context(), staff.ID, period.Start, period.End)
	if err != nil {
		return reconcile.Result{}, err
	}
	holidays, err := h.Store.Holidays(r.Context())
	if err != nil {
		return reconcile.Result{}, err
	}

	return h.Engine.Reconcile(reconcile.Input{
		Staff:       staff,
		Entries:     entries,
		Leaves:      leaves,
		Holidays:    holidays,
		Period:      period,
		Granularity: g,
		AsOf:        h.Clock(),
	}), nil
}

// =============================================================================
// SHARED PARSING HELPERS
// =============================================================================

func listParams(w http.ResponseWriter, r *http.Request) (userID string, from, to calendar.Date, ok bool) {
	q := r.URL.Query()
	userID = q.Get("user")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user query parameter is required", nil)
		return "", calendar.Date{}, calendar.Date{}, false
	}
	from, err := calendar.ParseDate(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return "", calendar.Date{}, calendar.Date{}, false
	}
	to, err = calendar.ParseDate(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return "", calendar.Date{}, calendar.Date{}, false
	}
	return userID, from, to, true
}

// statsParams resolves the granularity and reference date into a
// period. The date defaults to today.
func statsParams(w http.ResponseWriter, r *http.Request, today calendar.Date) (calendar.Granularity, calendar.Period, bool) {
	q := r.URL.Query()
	granularity := calendar.ParseGranularity(q.Get("granularity"))

	ref := today
	if raw := q.Get("date"); raw != "" {
		parsed, err := calendar.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
			return granularity, calendar.Period{}, false
		}
		ref = parsed
	}
	return granularity, calendar.PeriodFor(ref, granularity), true
}

func parseKind(s string) charge.Kind {
	switch charge.Kind(s) {
	case charge.KindInternal, charge.KindDepartmental:
		return charge.Kind(s)
	default:
		return charge.KindExternal
	}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

