package database

import (
	"context"
	"sort"
	"sync"

	"github.com/akyairhashvil/shiftbell/internal/models"
)

// Storage keys.
const (
	KeySettings        = "settings"
	KeyShifts          = "shifts"
	KeyActiveShiftID   = "active_shift_id"
	KeyAttendanceLogs  = "attendance_logs"
	KeyDailyWorkStatus = "daily_work_status"
	KeyScheduledAlarms = "scheduled_alarms"
	KeyNotes           = "notes"
)

// Repository gives typed access to the application's keys.
type Repository struct {
	kv KVStore
	mu sync.Mutex
}

func NewRepository(kv KVStore) *Repository {
	return &Repository{kv: kv}
}

// --- Settings ---

func (r *Repository) Settings(ctx context.Context) (models.Settings, error) {
	s := models.DefaultSettings()
	if _, err := r.kv.Get(ctx, KeySettings, &s); err != nil {
		return models.DefaultSettings(), err
	}
	return s, nil
}

func (r *Repository) SaveSettings(ctx context.Context, s models.Settings) error {
	return r.kv.Set(ctx, KeySettings, s)
}

// --- Shifts ---

func (r *Repository) Shifts(ctx context.Context) ([]models.Shift, error) {
	var shifts []models.Shift
	if _, err := r.kv.Get(ctx, KeyShifts, &shifts); err != nil {
		return nil, err
	}
	return shifts, nil
}

// SaveShift replaces the shift with the same ID or appends it.
func (r *Repository) SaveShift(ctx context.Context, shift models.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	shifts, err := r.Shifts(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range shifts {
		if shifts[i].ID == shift.ID {
			shifts[i] = shift
			replaced = true
			break
		}
	}
	if !replaced {
		shifts = append(shifts, shift)
	}
	return r.kv.Set(ctx, KeyShifts, shifts)
}

func (r *Repository) DeleteShift(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	shifts, err := r.Shifts(ctx)
	if err != nil {
		return err
	}
	kept := shifts[:0]
	for _, s := range shifts {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	return r.kv.Set(ctx, KeyShifts, kept)
}

func (r *Repository) SetActiveShiftID(ctx context.Context, id string) error {
	if id == "" {
		return r.kv.Remove(ctx, KeyActiveShiftID)
	}
	return r.kv.Set(ctx, KeyActiveShiftID, id)
}

// ActiveShift returns the active shift, or nil when none is configured.
func (r *Repository) ActiveShift(ctx context.Context) (*models.Shift, error) {
	var id string
	found, err := r.kv.Get(ctx, KeyActiveShiftID, &id)
	if err != nil || !found || id == "" {
		return nil, err
	}
	shifts, err := r.Shifts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range shifts {
		if shifts[i].ID == id {
			s := shifts[i]
			return &s, nil
		}
	}
	return nil, nil
}

// --- Attendance logs ---

func (r *Repository) AllLogs(ctx context.Context) (models.AttendanceLogs, error) {
	logs := models.AttendanceLogs{}
	if _, err := r.kv.Get(ctx, KeyAttendanceLogs, &logs); err != nil {
		return nil, err
	}
	if logs == nil {
		logs = models.AttendanceLogs{}
	}
	return logs, nil
}

func (r *Repository) Logs(ctx context.Context, date string) ([]models.AttendanceLog, error) {
	all, err := r.AllLogs(ctx)
	if err != nil {
		return nil, err
	}
	return all[date], nil
}

// AppendLogs adds entries to a date and returns the date's full list.
func (r *Repository) AppendLogs(ctx context.Context, date string, entries ...models.AttendanceLog) ([]models.AttendanceLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all, err := r.AllLogs(ctx)
	if err != nil {
		return nil, err
	}
	all[date] = append(all[date], entries...)
	if err := r.kv.Set(ctx, KeyAttendanceLogs, all); err != nil {
		return nil, err
	}
	return all[date], nil
}

func (r *Repository) ClearLogs(ctx context.Context, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	all, err := r.AllLogs(ctx)
	if err != nil {
		return err
	}
	if _, ok := all[date]; !ok {
		return nil
	}
	delete(all, date)
	return r.kv.Set(ctx, KeyAttendanceLogs, all)
}

// --- Daily work status ---

func (r *Repository) Statuses(ctx context.Context) (map[string]models.DailyWorkStatus, error) {
	all := map[string]models.DailyWorkStatus{}
	if _, err := r.kv.Get(ctx, KeyDailyWorkStatus, &all); err != nil {
		return nil, err
	}
	if all == nil {
		all = map[string]models.DailyWorkStatus{}
	}
	return all, nil
}

// Status returns the stored status for a date, or nil.
func (r *Repository) Status(ctx context.Context, date string) (*models.DailyWorkStatus, error) {
	all, err := r.Statuses(ctx)
	if err != nil {
		return nil, err
	}
	s, ok := all[date]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *Repository) SaveStatus(ctx context.Context, status models.DailyWorkStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	all, err := r.Statuses(ctx)
	if err != nil {
		return err
	}
	all[status.Date] = status
	return r.kv.Set(ctx, KeyDailyWorkStatus, all)
}

func (r *Repository) RemoveStatus(ctx context.Context, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	all, err := r.Statuses(ctx)
	if err != nil {
		return err
	}
	if _, ok := all[date]; !ok {
		return nil
	}
	delete(all, date)
	return r.kv.Set(ctx, KeyDailyWorkStatus, all)
}

// StatusesBetween returns statuses with from <= date <= to, sorted by date.
func (r *Repository) StatusesBetween(ctx context.Context, from, to string) ([]models.DailyWorkStatus, error) {
	all, err := r.Statuses(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.DailyWorkStatus
	for date, s := range all {
		if date >= from && date <= to {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// --- Scheduled alarms ---

func (r *Repository) Alarms(ctx context.Context) ([]models.ScheduledAlarm, error) {
	var alarms []models.ScheduledAlarm
	if _, err := r.kv.Get(ctx, KeyScheduledAlarms, &alarms); err != nil {
		return nil, err
	}
	return alarms, nil
}

func (r *Repository) SaveAlarms(ctx context.Context, alarms []models.ScheduledAlarm) error {
	if alarms == nil {
		alarms = []models.ScheduledAlarm{}
	}
	return r.kv.Set(ctx, KeyScheduledAlarms, alarms)
}

// --- Notes ---

func (r *Repository) Notes(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	if _, err := r.kv.Get(ctx, KeyNotes, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *Repository) SaveNote(ctx context.Context, note models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notes, err := r.Notes(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range notes {
		if notes[i].ID == note.ID {
			notes[i] = note
			replaced = true
			break
		}
	}
	if !replaced {
		notes = append(notes, note)
	}
	return r.kv.Set(ctx, KeyNotes, notes)
}

func (r *Repository) DeleteNote(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notes, err := r.Notes(ctx)
	if err != nil {
		return err
	}
	kept := notes[:0]
	for _, n := range notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	return r.kv.Set(ctx, KeyNotes, kept)
}
