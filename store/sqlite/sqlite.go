/*
Package sqlite provides the SQLite-backed implementation of charge.Store.

PURPOSE:
  Persists the records the reconciliation views are computed from:
  staff profiles, time entries, leave entries, and the organization's
  holiday calendar. The engine never reads from here directly — the API
  layer fetches slices and hands them over.

KEY TABLES:
  staff:         Staff profiles with nullable hire date
  time_entries:  Logged work with approval status and overtime flag
  leave_entries: Logged absences with approval status
  holidays:      Fixed (MM-DD, recurring) and dynamic (one-off) rows

STATUS TRANSITIONS:
  Entries are inserted pending; the only UPDATE the store issues flips
  an entry's status on approve/decline. Everything else is immutable.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block and crash recovery is cleaner.

SEE ALSO:
  - charge/store.go: Interface definition
  - charge/store: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/timecharge/calendar"
	"github.com/warp/timecharge/charge"
)

// Store implements charge.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ charge.Store = (*Store)(nil)

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS staff (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		hire_date TEXT,
		department_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS time_entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		start_at TEXT,
		end_at TEXT,
		hours INTEGER NOT NULL DEFAULT 0,
		minutes INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		overtime BOOLEAN NOT NULL DEFAULT FALSE,
		kind TEXT NOT NULL DEFAULT 'external',
		project_id TEXT,
		stage TEXT,
		activity TEXT,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	-- Hot path: per-user date-range listing for reconciliation views
	CREATE INDEX IF NOT EXISTS idx_time_entries_user_date
		ON time_entries(user_id, entry_date);
	CREATE INDEX IF NOT EXISTS idx_time_entries_status
		ON time_entries(status);

	CREATE TABLE IF NOT EXISTS leave_entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_entries_user
		ON leave_entries(user_id, start_at);

	CREATE TABLE IF NOT EXISTS holidays (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,        -- 'fixed' or 'dynamic'
		date TEXT NOT NULL,        -- MM-DD for fixed, raw date for dynamic
		title TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(kind, date, title);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// STAFF
// =============================================================================

func (s *Store) CreateStaff(ctx context.Context, p charge.StaffProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hire sql.NullString
	if p.HireDate != nil {
		hire = sql.NullString{String: p.HireDate.String(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staff (id, name, hire_date, department_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, hire, p.DepartmentID, now())
	if err != nil {
		return fmt.Errorf("failed to insert staff: %w", err)
	}
	return nil
}

func (s *Store) GetStaff(ctx context.Context, id string) (charge.StaffProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, hire_date, department_id FROM staff WHERE id = ?`, id)
	p, err := scanStaff(row)
	if err == sql.ErrNoRows {
		return charge.StaffProfile{}, charge.ErrNotFound
	}
	return p, err
}

func (s *Store) ListStaff(ctx context.Context) ([]charge.StaffProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, hire_date, department_id FROM staff ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()

	var result []charge.StaffProfile
	for rows.Next() {
		p, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStaff(row scanner) (charge.StaffProfile, error) {
	var p charge.StaffProfile
	var hire sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &hire, &p.DepartmentID); err != nil {
		return charge.StaffProfile{}, err
	}
	if hire.Valid {
		if d, err := calendar.ParseDate(hire.String); err == nil {
			p.HireDate = &d
		}
	}
	return p, nil
}

// =============================================================================
// TIME ENTRIES
// =============================================================================

func (s *Store) CreateTimeEntry(ctx context.Context, e charge.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO time_entries
		(id, user_id, entry_date, start_at, end_at, hours, minutes, status,
		 overtime, kind, project_id, stage, activity, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Date.String(),
		nullTime(e.Start), nullTime(e.End),
		e.Hours, e.Minutes, e.Status, e.Overtime, e.Kind,
		e.ProjectID, e.Stage, e.Activity, e.Notes, now())
	if err != nil {
		return fmt.Errorf("failed to insert time entry: %w", err)
	}
	return nil
}

func (s *Store) ListTimeEntries(ctx context.Context, userID string, from, to calendar.Date) ([]charge.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, entry_date, start_at, end_at, hours, minutes,
		       status, overtime, kind, project_id, stage, activity, notes
		FROM time_entries
		WHERE user_id = ? AND entry_date >= ? AND entry_date <= ?
		ORDER BY entry_date, id`,
		userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var result []charge.TimeEntry
	for rows.Next() {
		var e charge.TimeEntry
		var date string
		var start, end, project, stage, activity, notes sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &date, &start, &end,
			&e.Hours, &e.Minutes, &e.Status, &e.Overtime, &e.Kind,
			&project, &stage, &activity, &notes); err != nil {
			return nil, err
		}
		d, err := calendar.ParseDate(date)
		if err != nil {
			// A row whose date won't parse can't be reconciled; skip it
			// rather than fail the whole listing.
			continue
		}
		e.Date = d
		e.Start = parseTime(start)
		e.End = parseTime(end)
		e.ProjectID = project.String
		e.Stage = stage.String
		e.Activity = activity.String
		e.Notes = notes.String
		result = append(result, e)
	}
	return result, rows.Err()
}

func (s *Store) SetTimeEntryStatus(ctx context.Context, id string, status charge.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setStatus(ctx, "time_entries", id, status)
}

// =============================================================================
// LEAVE ENTRIES
// =============================================================================

func (s *Store) CreateLeave(ctx context.Context, l charge.LeaveEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_entries (id, user_id, start_at, end_at, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, l.UserID,
		l.Start.Format(time.RFC3339), l.End.Format(time.RFC3339),
		l.Status, now())
	if err != nil {
		return fmt.Errorf("failed to insert leave: %w", err)
	}
	return nil
}

func (s *Store) ListLeaves(ctx context.Context, userID string, from, to calendar.Date) ([]charge.LeaveEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Overlap query: any leave whose span touches [from, to].
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, start_at, end_at, status
		FROM leave_entries
		WHERE user_id = ? AND DATE(end_at) >= ? AND DATE(start_at) <= ?
		ORDER BY start_at, id`,
		userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query leaves: %w", err)
	}
	defer rows.Close()

	var result []charge.LeaveEntry
	for rows.Next() {
		var l charge.LeaveEntry
		var start, end string
		if err := rows.Scan(&l.ID, &l.UserID, &start, &end, &l.Status); err != nil {
			return nil, err
		}
		if l.Start, err = time.Parse(time.RFC3339, start); err != nil {
			continue
		}
		if l.End, err = time.Parse(time.RFC3339, end); err != nil {
			continue
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

func (s *Store) SetLeaveStatus(ctx context.Context, id string, status charge.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setStatus(ctx, "leave_entries", id, status)
}

func (s *Store) setStatus(ctx context.Context, table, id string, status charge.Status) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE "+table+" SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return charge.ErrNotFound
	}
	return nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (s *Store) AddFixedHoliday(ctx context.Context, h calendar.FixedHoliday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (kind, date, title, created_at) VALUES ('fixed', ?, ?, ?)`,
		h.MonthDay, h.Title, now())
	if err != nil {
		return fmt.Errorf("failed to insert holiday: %w", err)
	}
	return nil
}

func (s *Store) AddDynamicHoliday(ctx context.Context, h calendar.DynamicHoliday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (kind, date, title, created_at) VALUES ('dynamic', ?, ?, ?)`,
		h.Raw, h.Title, now())
	if err != nil {
		return fmt.Errorf("failed to insert holiday: %w", err)
	}
	return nil
}

func (s *Store) Holidays(ctx context.Context) (calendar.HolidaySet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT kind, date, title FROM holidays ORDER BY id`)
	if err != nil {
		return calendar.HolidaySet{}, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var set calendar.HolidaySet
	for rows.Next() {
		var kind, date, title string
		if err := rows.Scan(&kind, &date, &title); err != nil {
			return calendar.HolidaySet{}, err
		}
		switch kind {
		case "fixed":
			set.Fixed = append(set.Fixed, calendar.FixedHoliday{MonthDay: date, Title: title})
		default:
			set.Dynamic = append(set.Dynamic, calendar.DynamicHoliday{Raw: date, Title: title})
		}
	}
	return set, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
