// Package store provides charge.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/timecharge/calendar"
	"github.com/warp/timecharge/charge"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	staff    map[string]charge.StaffProfile
	entries  map[string]charge.TimeEntry
	leaves   map[string]charge.LeaveEntry
	holidays calendar.HolidaySet
}

func NewMemory() *Memory {
	return &Memory{
		staff:   make(map[string]charge.StaffProfile),
		entries: make(map[string]charge.TimeEntry),
		leaves:  make(map[string]charge.LeaveEntry),
	}
}

var _ charge.Store = (*Memory)(nil)

// Staff

func (m *Memory) CreateStaff(_ context.Context, s charge.StaffProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staff[s.ID] = s
	return nil
}

func (m *Memory) GetStaff(_ context.Context, id string) (charge.StaffProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.staff[id]
	if !ok {
		return charge.StaffProfile{}, charge.ErrNotFound
	}
	return s, nil
}

func (m *Memory) ListStaff(_ context.Context) ([]charge.StaffProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]charge.StaffProfile, 0, len(m.staff))
	for _, s := range m.staff {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Time entries

func (m *Memory) CreateTimeEntry(_ context.Context, e charge.TimeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ID] = e
	return nil
}

func (m *Memory) ListTimeEntries(_ context.Context, userID string, from, to calendar.Date) ([]charge.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []charge.TimeEntry
	for _, e := range m.entries {
		if e.UserID != userID {
			continue
		}
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) SetTimeEntryStatus(_ context.Context, id string, status charge.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return charge.ErrNotFound
	}
	e.Status = status
	m.entries[id] = e
	return nil
}

// Leave entries

func (m *Memory) CreateLeave(_ context.Context, l charge.LeaveEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves[l.ID] = l
	return nil
}

func (m *Memory) ListLeaves(_ context.Context, userID string, from, to calendar.Date) ([]charge.LeaveEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []charge.LeaveEntry
	for _, l := range m.leaves {
		if l.UserID != userID {
			continue
		}
		// A leave overlaps the range when any of its days fall inside it.
		if calendar.DateOf(l.End).Before(from) || calendar.DateOf(l.Start).After(to) {
			continue
		}
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Start.Equal(result[j].Start) {
			return result[i].Start.Before(result[j].Start)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) SetLeaveStatus(_ context.Context, id string, status charge.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leaves[id]
	if !ok {
		return charge.ErrNotFound
	}
	l.Status = status
	m.leaves[id] = l
	return nil
}

// Holidays

func (m *Memory) AddFixedHoliday(_ context.Context, h calendar.FixedHoliday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays.Fixed = append(m.holidays.Fixed, h)
	return nil
}

func (m *Memory) AddDynamicHoliday(_ context.Context, h calendar.DynamicHoliday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays.Dynamic = append(m.holidays.Dynamic, h)
	return nil
}

func (m *Memory) Holidays(_ context.Context) (calendar.HolidaySet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := calendar.HolidaySet{
		Fixed:   append([]calendar.FixedHoliday(nil), m.holidays.Fixed...),
		Dynamic: append([]calendar.DynamicHoliday(nil), m.holidays.Dynamic...),
	}
	return set, nil
}
