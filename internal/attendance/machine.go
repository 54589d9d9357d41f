// Package attendance implements the day's attendance button: which action it
// offers, recording actions in order, and the derived daily work status.
package attendance

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/akyairhashvil/shiftbell/internal/models"
	"github.com/akyairhashvil/shiftbell/internal/shifttime"
)

// Repository is the storage the machine reads and writes.
type Repository interface {
	ActiveShift(ctx context.Context) (*models.Shift, error)
	Settings(ctx context.Context) (models.Settings, error)
	Logs(ctx context.Context, date string) ([]models.AttendanceLog, error)
	AppendLogs(ctx context.Context, date string, entries ...models.AttendanceLog) ([]models.AttendanceLog, error)
	ClearLogs(ctx context.Context, date string) error
	Status(ctx context.Context, date string) (*models.DailyWorkStatus, error)
	SaveStatus(ctx context.Context, status models.DailyWorkStatus) error
	RemoveStatus(ctx context.Context, date string) error
}

// ResyncTrigger is notified whenever a recorded action may satisfy a
// pending reminder.
type ResyncTrigger interface {
	OnReminderTriggeredOrCancelled()
}

// Snapshot is everything the UI needs to render the button.
type Snapshot struct {
	Shift     models.Shift
	WorkDate  time.Time
	DateKey   string
	Mode      models.ButtonMode
	State     models.ButtonState
	Logs      []models.AttendanceLog
	Status    *models.DailyWorkStatus
	Times     shifttime.Timestamps
	Departure time.Time
	NextReset time.Time
}

// Result describes a recorded action.
type Result struct {
	Action models.LogType
	Date   string
	State  models.ButtonState
}

// Machine is the attendance button state machine.
type Machine struct {
	repo      Repository
	resync    ResyncTrigger
	logger    *zap.Logger
	threshold time.Duration
	now       func() time.Time
}

// Option customises a Machine.
type Option func(*Machine)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

func NewMachine(repo Repository, resync ResyncTrigger, logger *zap.Logger, rapidPressThreshold time.Duration, opts ...Option) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Machine{
		repo:      repo,
		resync:    resync,
		logger:    logger.Named("attendance"),
		threshold: rapidPressThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ComputeState maps the logs of one date to the button state.
func ComputeState(logs []models.AttendanceLog, mode models.ButtonMode) models.ButtonState {
	if mode == models.ButtonModeSimple {
		if len(logs) == 0 {
			return models.ButtonGoWork
		}
		return models.ButtonCompletedDay
	}
	switch {
	case !models.Has(logs, models.LogGoWork):
		return models.ButtonGoWork
	case !models.Has(logs, models.LogCheckIn):
		return models.ButtonCheckIn
	case !models.Has(logs, models.LogCheckOut):
		return models.ButtonCheckOut
	default:
		return models.ButtonCompletedDay
	}
}

// ResolveMode turns the settings value into the mode actually used.
func ResolveMode(mode models.ButtonMode) models.ButtonMode {
	if mode == models.ButtonModeSimple {
		return models.ButtonModeSimple
	}
	return models.ButtonModeFull
}

func expectedAction(state models.ButtonState) models.LogType {
	switch state {
	case models.ButtonGoWork:
		return models.LogGoWork
	case models.ButtonCheckIn:
		return models.LogCheckIn
	case models.ButtonCheckOut:
		return models.LogCheckOut
	}
	return ""
}

// Snapshot loads the current button state for the active shift.
func (m *Machine) Snapshot(ctx context.Context) (Snapshot, error) {
	shift, err := m.repo.ActiveShift(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load active shift: %w", err)
	}
	if shift == nil {
		return Snapshot{}, ErrNoActiveShift
	}
	settings, err := m.repo.Settings(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load settings: %w", err)
	}
	now := m.now()
	workDate := shifttime.WorkDate(*shift, now)
	key := shifttime.DateKey(workDate)
	logs, err := m.repo.Logs(ctx, key)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load logs for %s: %w", key, err)
	}
	status, err := m.repo.Status(ctx, key)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load status for %s: %w", key, err)
	}
	mode := ResolveMode(settings.MultiButtonMode)
	snap := Snapshot{
		Shift:     *shift,
		WorkDate:  workDate,
		DateKey:   key,
		Mode:      mode,
		State:     ComputeState(logs, mode),
		Logs:      logs,
		Status:    status,
		Times:     shifttime.BuildScheduledTimestamps(*shift, workDate),
		Departure: shifttime.DepartureBeforeStart(*shift, workDate),
	}
	if next, ok := shifttime.NextResetBoundary(*shift, now); ok {
		snap.NextReset = next
	}
	return snap, nil
}

// State returns the current button state.
func (m *Machine) State(ctx context.Context) (models.ButtonState, error) {
	snap, err := m.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return snap.State, nil
}

// Press records whatever action the button currently offers.
func (m *Machine) Press(ctx context.Context) (Result, error) {
	snap, err := m.Snapshot(ctx)
	if err != nil {
		return Result{}, err
	}
	if snap.State == models.ButtonCompletedDay {
		return Result{Date: snap.DateKey, State: snap.State}, ErrDayCompleted
	}
	return m.perform(ctx, snap, expectedAction(snap.State))
}

// Perform records action, rejecting it unless the button offers it.
func (m *Machine) Perform(ctx context.Context, action models.LogType) (Result, error) {
	snap, err := m.Snapshot(ctx)
	if err != nil {
		return Result{}, err
	}
	if action == models.LogPunch {
		return m.punch(ctx, snap)
	}
	if snap.State == models.ButtonCompletedDay {
		return Result{Date: snap.DateKey, State: snap.State}, ErrDayCompleted
	}
	if expected := expectedAction(snap.State); action != expected {
		return Result{Date: snap.DateKey, State: snap.State}, &OutOfOrderError{Action: action, Expected: snap.State}
	}
	return m.perform(ctx, snap, action)
}

func (m *Machine) perform(ctx context.Context, snap Snapshot, action models.LogType) (Result, error) {
	now := m.now()
	var entries []models.AttendanceLog

	switch {
	case snap.Mode == models.ButtonModeSimple:
		entries = []models.AttendanceLog{
			{Type: models.LogGoWork, Time: now},
			{Type: models.LogComplete, Time: now},
		}
	case action == models.LogCheckOut:
		checkIn, ok := models.FindLast(snap.Logs, models.LogCheckIn)
		if ok && m.threshold > 0 {
			if elapsed := now.Sub(checkIn.Time); elapsed < m.threshold {
				m.logger.Info("rapid check-out needs confirmation",
					zap.String("date", snap.DateKey),
					zap.Duration("elapsed", elapsed),
					zap.Duration("threshold", m.threshold))
				return Result{Date: snap.DateKey, State: snap.State}, &RapidPressError{
					Date:                  snap.DateKey,
					ActualDurationSeconds: int(elapsed / time.Second),
					ThresholdSeconds:      int(m.threshold / time.Second),
					CheckInTime:           checkIn.Time,
					CheckOutTime:          now,
				}
			}
		}
		entries = []models.AttendanceLog{
			{Type: models.LogCheckOut, Time: now},
			{Type: models.LogComplete, Time: now},
		}
	default:
		entries = []models.AttendanceLog{{Type: action, Time: now}}
	}
	return m.record(ctx, snap, action, entries)
}

// ConfirmRapidPress records a check-out the user confirmed after a
// RapidPressError, using the confirmed instants.
func (m *Machine) ConfirmRapidPress(ctx context.Context, rp *RapidPressError) (Result, error) {
	if rp == nil {
		return Result{}, ErrStaleConfirm
	}
	snap, err := m.Snapshot(ctx)
	if err != nil {
		return Result{}, err
	}
	if snap.DateKey != rp.Date || snap.State != models.ButtonCheckOut {
		return Result{Date: snap.DateKey, State: snap.State}, ErrStaleConfirm
	}
	entries := []models.AttendanceLog{
		{Type: models.LogCheckOut, Time: rp.CheckOutTime},
		{Type: models.LogComplete, Time: rp.CheckOutTime},
	}
	return m.record(ctx, snap, models.LogCheckOut, entries)
}

func (m *Machine) punch(ctx context.Context, snap Snapshot) (Result, error) {
	if !snap.Shift.ShowPunch || snap.Mode != models.ButtonModeFull || snap.State != models.ButtonCheckOut {
		return Result{Date: snap.DateKey, State: snap.State}, ErrPunchUnavailable
	}
	return m.record(ctx, snap, models.LogPunch, []models.AttendanceLog{{Type: models.LogPunch, Time: m.now()}})
}

func (m *Machine) record(ctx context.Context, snap Snapshot, action models.LogType, entries []models.AttendanceLog) (Result, error) {
	logs, err := m.repo.AppendLogs(ctx, snap.DateKey, entries...)
	if err != nil {
		m.logger.Error("write attendance log failed", zap.String("date", snap.DateKey), zap.String("action", string(action)), zap.Error(err))
		return Result{Date: snap.DateKey, State: snap.State}, fmt.Errorf("record %s: %w", action, err)
	}
	res := Result{Action: action, Date: snap.DateKey, State: ComputeState(logs, snap.Mode)}
	m.logger.Info("attendance recorded", zap.String("date", snap.DateKey), zap.String("action", string(action)), zap.String("state", string(res.State)))

	if m.resync != nil && action != models.LogPunch {
		m.resync.OnReminderTriggeredOrCancelled()
	}
	if _, err := m.updateStatus(ctx, snap.Shift, snap.WorkDate, logs, false); err != nil {
		m.logger.Error("write daily status failed", zap.String("date", snap.DateKey), zap.Error(err))
		return res, fmt.Errorf("update status for %s: %w", snap.DateKey, err)
	}
	return res, nil
}

// Reset clears the work date's logs so the button offers go_work again. A
// manual status override survives.
func (m *Machine) Reset(ctx context.Context) error {
	snap, err := m.Snapshot(ctx)
	if err != nil {
		return err
	}
	if err := m.repo.ClearLogs(ctx, snap.DateKey); err != nil {
		return fmt.Errorf("clear logs for %s: %w", snap.DateKey, err)
	}
	if snap.Status != nil && !snap.Status.IsManualOverride {
		if err := m.repo.RemoveStatus(ctx, snap.DateKey); err != nil {
			return fmt.Errorf("clear status for %s: %w", snap.DateKey, err)
		}
	}
	m.logger.Info("attendance reset", zap.String("date", snap.DateKey))
	if m.resync != nil {
		m.resync.OnReminderTriggeredOrCancelled()
	}
	return nil
}

// RecomputeStatus rebuilds the status of dateKey from its logs. A manual
// override is only replaced when force is set.
func (m *Machine) RecomputeStatus(ctx context.Context, dateKey string, force bool) (models.DailyWorkStatus, error) {
	shift, err := m.repo.ActiveShift(ctx)
	if err != nil {
		return models.DailyWorkStatus{}, fmt.Errorf("load active shift: %w", err)
	}
	if shift == nil {
		return models.DailyWorkStatus{}, ErrNoActiveShift
	}
	date, err := shifttime.ParseDateKey(dateKey, m.now().Location())
	if err != nil {
		return models.DailyWorkStatus{}, fmt.Errorf("parse date %q: %w", dateKey, err)
	}
	logs, err := m.repo.Logs(ctx, dateKey)
	if err != nil {
		return models.DailyWorkStatus{}, fmt.Errorf("load logs for %s: %w", dateKey, err)
	}
	return m.updateStatus(ctx, *shift, date, logs, force)
}

func (m *Machine) updateStatus(ctx context.Context, shift models.Shift, date time.Time, logs []models.AttendanceLog, force bool) (models.DailyWorkStatus, error) {
	key := shifttime.DateKey(date)
	existing, err := m.repo.Status(ctx, key)
	if err != nil {
		return models.DailyWorkStatus{}, err
	}
	if existing != nil && existing.IsManualOverride && !force {
		m.logger.Debug("keeping manual status override", zap.String("date", key))
		return *existing, nil
	}
	status := ComputeStatus(shift, date, logs, m.now())
	if err := m.repo.SaveStatus(ctx, status); err != nil {
		return status, err
	}
	return status, nil
}

// OverrideStatus hand-edits the status of dateKey.
func (m *Machine) OverrideStatus(ctx context.Context, dateKey string, status models.WorkStatus, reason string) (models.DailyWorkStatus, error) {
	existing, err := m.repo.Status(ctx, dateKey)
	if err != nil {
		return models.DailyWorkStatus{}, fmt.Errorf("load status for %s: %w", dateKey, err)
	}
	var st models.DailyWorkStatus
	if existing != nil {
		st = *existing
	} else {
		st = models.DailyWorkStatus{Date: dateKey}
		if shift, err := m.repo.ActiveShift(ctx); err == nil && shift != nil {
			st.ShiftID = shift.ID
		}
	}
	st.Status = status
	st.IsManualOverride = true
	st.OverrideReason = reason
	st.UpdatedAt = m.now()
	if err := m.repo.SaveStatus(ctx, st); err != nil {
		return st, fmt.Errorf("save status for %s: %w", dateKey, err)
	}
	m.logger.Info("status overridden", zap.String("date", dateKey), zap.String("status", string(status)))
	return st, nil
}
