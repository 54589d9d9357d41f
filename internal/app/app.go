// Package app wires storage, the attendance machine, the reminder engine
// and alarm delivery into one service with an explicit lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akyairhashvil/shiftbell/internal/alarms"
	"github.com/akyairhashvil/shiftbell/internal/attendance"
	"github.com/akyairhashvil/shiftbell/internal/config"
	"github.com/akyairhashvil/shiftbell/internal/database"
	"github.com/akyairhashvil/shiftbell/internal/models"
	"github.com/akyairhashvil/shiftbell/internal/notify"
	"github.com/akyairhashvil/shiftbell/internal/reminders"
	"github.com/akyairhashvil/shiftbell/internal/report"
	"github.com/akyairhashvil/shiftbell/internal/seed"
	"github.com/akyairhashvil/shiftbell/internal/shifttime"
	"github.com/akyairhashvil/shiftbell/internal/util"
)

const eventBuffer = 16

// EventKind tells the UI what happened.
type EventKind int

const (
	// EventAlert asks the UI to show an alarm itself.
	EventAlert EventKind = iota
	// EventWorkDateChanged fires when the daily reset boundary is crossed.
	EventWorkDateChanged
	// EventRefresh asks the UI to redraw.
	EventRefresh
)

// Event is sent to the UI.
type Event struct {
	Kind    EventKind
	Alarm   models.ScheduledAlarm
	DateKey string
}

// Options carries the collaborators that differ between TUI, headless and
// tests.
type Options struct {
	Config    *config.Config
	Logger    *zap.Logger
	Deliverer notify.Deliverer
	Mirror    notify.Mirror
	Now       func() time.Time
}

// App is the application service.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time

	repo       *database.Repository
	store      *alarms.Store
	engine     *reminders.Engine
	machine    *attendance.Machine
	dispatcher *alarms.Dispatcher

	events chan Event

	mu       sync.Mutex
	workDate string
	cancel   context.CancelFunc
	stopped  bool
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func New(repo *database.Repository, opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	deliverer := opts.Deliverer
	if deliverer == nil {
		deliverer = notify.NewLog(logger)
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
		now:    now,
		repo:   repo,
		events: make(chan Event, eventBuffer),
	}
	a.store = alarms.NewStore(repo, logger, alarms.WithStoreClock(now))
	a.engine = reminders.NewEngine(repo, a.store, logger,
		reminders.WithClock(now),
		reminders.WithMirror(opts.Mirror),
		reminders.WithDelays(cfg.Scheduler.SettleDelay, cfg.Scheduler.StormDelay, cfg.Scheduler.Debounce))
	a.machine = attendance.NewMachine(repo, a.engine, logger, cfg.Attendance.RapidPressThreshold, attendance.WithClock(now))
	a.dispatcher = alarms.NewDispatcher(a.store, deliverer, a.engine, a.alert, logger)
	return a
}

// Initialize restores persisted alarms, syncs the shift reminders and
// schedules note reminders.
func (a *App) Initialize(ctx context.Context) error {
	if err := a.engine.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize reminders: %w", err)
	}
	if err := a.RescheduleNotes(ctx); err != nil {
		return fmt.Errorf("schedule notes: %w", err)
	}
	if snap, err := a.machine.Snapshot(ctx); err == nil {
		a.setWorkDate(snap.DateKey)
	} else if !errors.Is(err, attendance.ErrNoActiveShift) {
		return err
	}
	a.logger.Info("initialized", zap.Int("pending_alarms", len(a.store.Pending())))
	return nil
}

// Run starts the alarm and state tickers and blocks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		cancel()
		return nil
	}
	a.cancel = cancel
	a.wg.Add(2)
	a.mu.Unlock()

	go func() {
		defer a.wg.Done()
		a.dispatcher.Run(ctx, a.cfg.Scheduler.AlarmTick)
	}()
	go func() {
		defer a.wg.Done()
		a.runStateTicker(ctx)
	}()
	a.logger.Info("running",
		zap.Duration("alarm_tick", a.cfg.Scheduler.AlarmTick),
		zap.Duration("state_tick", a.cfg.Scheduler.StateTick))
	<-ctx.Done()
	a.wg.Wait()
	return nil
}

// Shutdown stops the tickers and deferred reminder work.
func (a *App) Shutdown() {
	a.stopOnce.Do(func() {
		a.mu.Lock()
		a.stopped = true
		if a.cancel != nil {
			a.cancel()
		}
		a.mu.Unlock()
		a.wg.Wait()
		a.engine.Shutdown()
		a.logger.Info("stopped")
	})
}

// Events delivers UI notifications. Events are dropped when nobody reads.
func (a *App) Events() <-chan Event {
	return a.events
}

func (a *App) emit(e Event) {
	select {
	case a.events <- e:
	default:
		a.logger.Debug("event dropped", zap.Int("kind", int(e.Kind)))
	}
}

func (a *App) alert(alarm models.ScheduledAlarm) {
	a.emit(Event{Kind: EventAlert, Alarm: alarm})
}

func (a *App) runStateTicker(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.Scheduler.StateTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.CheckWorkDate(ctx)
		}
	}
}

// CheckWorkDate detects a crossed reset boundary. On a new work date the
// button starts over, reminders are re-synced and notes rescheduled.
func (a *App) CheckWorkDate(ctx context.Context) bool {
	snap, err := a.machine.Snapshot(ctx)
	if err != nil {
		if !errors.Is(err, attendance.ErrNoActiveShift) {
			util.LogError(a.logger, "state tick", err)
		}
		return false
	}
	a.mu.Lock()
	prev := a.workDate
	a.workDate = snap.DateKey
	a.mu.Unlock()
	if prev == snap.DateKey {
		a.emit(Event{Kind: EventRefresh, DateKey: snap.DateKey})
		return false
	}
	a.logger.Info("work date changed", zap.String("from", prev), zap.String("to", snap.DateKey))
	a.engine.ScheduleShiftReminders()
	if err := a.RescheduleNotes(ctx); err != nil {
		util.LogError(a.logger, "reschedule notes", err)
	}
	a.emit(Event{Kind: EventWorkDateChanged, DateKey: snap.DateKey})
	return true
}

func (a *App) setWorkDate(key string) {
	a.mu.Lock()
	a.workDate = key
	a.mu.Unlock()
}

// --- Shifts ---

// ApplyShift saves shift, makes it active and resets its reminders. An
// empty id gets a fresh one.
func (a *App) ApplyShift(ctx context.Context, shift models.Shift) (models.Shift, error) {
	if strings.TrimSpace(shift.ID) == "" {
		shift.ID = uuid.NewString()
	}
	if err := shift.Validate(); err != nil {
		return shift, err
	}
	if err := a.repo.SaveShift(ctx, shift); err != nil {
		return shift, fmt.Errorf("save shift: %w", err)
	}
	if err := a.repo.SetActiveShiftID(ctx, shift.ID); err != nil {
		return shift, fmt.Errorf("activate shift: %w", err)
	}
	if err := a.engine.ForceResetForNewShift(ctx, shift); err != nil {
		return shift, err
	}
	if err := a.RescheduleNotes(ctx); err != nil {
		util.LogError(a.logger, "reschedule notes", err)
	}
	a.logger.Info("shift applied", zap.String("id", shift.ID), zap.String("name", shift.Name))
	return shift, nil
}

// Shifts lists the stored shifts.
func (a *App) Shifts(ctx context.Context) ([]models.Shift, error) {
	return a.repo.Shifts(ctx)
}

// --- Attendance ---

func (a *App) Snapshot(ctx context.Context) (attendance.Snapshot, error) {
	return a.machine.Snapshot(ctx)
}

// Press records the action the button offers. A *attendance.RapidPressError
// asks for confirmation through Confirm.
func (a *App) Press(ctx context.Context) (attendance.Result, error) {
	res, err := a.machine.Press(ctx)
	if _, rapid := attendance.AsRapidPress(err); err != nil && !rapid {
		util.LogError(a.logger, "press", err)
	}
	return res, err
}

func (a *App) Confirm(ctx context.Context, rp *attendance.RapidPressError) (attendance.Result, error) {
	return a.machine.ConfirmRapidPress(ctx, rp)
}

func (a *App) Punch(ctx context.Context) (attendance.Result, error) {
	return a.machine.Perform(ctx, models.LogPunch)
}

func (a *App) Reset(ctx context.Context) error {
	return a.machine.Reset(ctx)
}

func (a *App) OverrideStatus(ctx context.Context, dateKey string, status models.WorkStatus, reason string) (models.DailyWorkStatus, error) {
	return a.machine.OverrideStatus(ctx, dateKey, status, reason)
}

func (a *App) RecomputeStatus(ctx context.Context, dateKey string) (models.DailyWorkStatus, error) {
	return a.machine.RecomputeStatus(ctx, dateKey, true)
}

// --- Alarms ---

func (a *App) PendingAlarms() []models.ScheduledAlarm {
	return a.store.Pending()
}

// Snooze re-schedules a fired alarm minutes from now.
func (a *App) Snooze(ctx context.Context, alarm models.ScheduledAlarm, minutes int) (models.ScheduledAlarm, error) {
	if minutes <= 0 {
		minutes = config.DefaultSnoozeMinutes
	}
	return a.store.Snooze(ctx, alarm, minutes)
}

// DispatchDue runs one alarm tick immediately.
func (a *App) DispatchDue(ctx context.Context) ([]alarms.Outcome, error) {
	return a.dispatcher.DispatchDue(ctx)
}

// --- Notes ---

func (a *App) Notes(ctx context.Context) ([]models.Note, error) {
	return a.repo.Notes(ctx)
}

// SaveNote stores note and schedules its reminders.
func (a *App) SaveNote(ctx context.Context, note models.Note) (models.Note, error) {
	if strings.TrimSpace(note.ID) == "" {
		note.ID = uuid.NewString()
	}
	if err := a.repo.SaveNote(ctx, note); err != nil {
		return note, fmt.Errorf("save note: %w", err)
	}
	shifts, settings, err := a.noteContext(ctx)
	if err != nil {
		return note, err
	}
	if _, err := a.store.ScheduleNote(ctx, note, shifts, settings); err != nil {
		return note, fmt.Errorf("schedule note: %w", err)
	}
	return note, nil
}

func (a *App) DeleteNote(ctx context.Context, id string) error {
	if err := a.repo.DeleteNote(ctx, id); err != nil {
		return err
	}
	_, err := a.store.CancelNote(ctx, id)
	return err
}

// RescheduleNotes rebuilds every note reminder inside the horizon.
func (a *App) RescheduleNotes(ctx context.Context) error {
	notes, err := a.repo.Notes(ctx)
	if err != nil {
		return err
	}
	shifts, settings, err := a.noteContext(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, n := range notes {
		if _, err := a.store.ScheduleNote(ctx, n, shifts, settings); err != nil {
			errs = append(errs, fmt.Errorf("note %s: %w", n.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) noteContext(ctx context.Context) ([]models.Shift, models.Settings, error) {
	shifts, err := a.repo.Shifts(ctx)
	if err != nil {
		return nil, models.Settings{}, err
	}
	settings, err := a.repo.Settings(ctx)
	if err != nil {
		return nil, models.Settings{}, err
	}
	return shifts, settings, nil
}

// --- Settings, seed, reports ---

func (a *App) Settings(ctx context.Context) (models.Settings, error) {
	return a.repo.Settings(ctx)
}

// SaveSettings stores s and re-syncs so new alarms carry the new flags.
func (a *App) SaveSettings(ctx context.Context, s models.Settings) error {
	if err := a.repo.SaveSettings(ctx, s); err != nil {
		return err
	}
	a.engine.ScheduleShiftReminders()
	return a.RescheduleNotes(ctx)
}

// ImportSeed applies a YAML seed and resets reminders for the active shift.
func (a *App) ImportSeed(ctx context.Context, path string) (seed.Result, error) {
	f, err := seed.Load(path)
	if err != nil {
		return seed.Result{}, err
	}
	res, err := seed.Apply(ctx, a.repo, f)
	if err != nil {
		return res, err
	}
	if active, err := a.repo.ActiveShift(ctx); err == nil && active != nil {
		if err := a.engine.ForceResetForNewShift(ctx, *active); err != nil {
			return res, err
		}
	}
	if err := a.RescheduleNotes(ctx); err != nil {
		util.LogError(a.logger, "reschedule notes", err)
	}
	a.logger.Info("seed imported", zap.Int("shifts", res.Shifts), zap.Int("notes", res.Notes))
	return res, nil
}

// MonthlyReport builds the attendance report for "YYYY-MM".
func (a *App) MonthlyReport(ctx context.Context, month string) (report.Month, error) {
	year, mo, err := report.ParseMonth(month)
	if err != nil {
		return report.Month{}, err
	}
	return report.Build(ctx, a.repo, year, mo, a.now())
}

// MonthStatuses returns the stored statuses of the month containing date.
func (a *App) MonthStatuses(ctx context.Context, date time.Time) ([]models.DailyWorkStatus, error) {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	last := first.AddDate(0, 1, -1)
	return a.repo.StatusesBetween(ctx, shifttime.DateKey(first), shifttime.DateKey(last))
}

// Now is the application clock.
func (a *App) Now() time.Time {
	return a.now()
}
