// Package reminders keeps exactly one pending alarm per shift reminder kind
// for the active shift, recomputed whenever attendance or the shift changes.
package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/akyairhashvil/shiftbell/internal/alarms"
	"github.com/akyairhashvil/shiftbell/internal/config"
	"github.com/akyairhashvil/shiftbell/internal/models"
	"github.com/akyairhashvil/shiftbell/internal/notify"
)

const (
	timerDebounce = "debounce"
	timerSettle   = "settle"
	timerStorm    = "storm"
)

// Repository is the state the engine reads.
type Repository interface {
	ActiveShift(ctx context.Context) (*models.Shift, error)
	Settings(ctx context.Context) (models.Settings, error)
	AllLogs(ctx context.Context) (models.AttendanceLogs, error)
}

// AlarmStore is the part of the alarm table the engine writes.
type AlarmStore interface {
	Load(ctx context.Context) error
	Schedule(ctx context.Context, alarm models.ScheduledAlarm) (models.ScheduledAlarm, error)
	CancelWhere(ctx context.Context, match func(models.ScheduledAlarm) bool) (int, error)
}

// Engine is the reminder sync engine.
type Engine struct {
	repo   Repository
	store  AlarmStore
	mirror notify.Mirror
	logger *zap.Logger
	now    func() time.Time

	settleDelay time.Duration
	stormDelay  time.Duration
	debounce    time.Duration

	syncMu   sync.Mutex
	timers   *deferred
	baseCtx  context.Context
	cancel   context.CancelFunc
	closeOne sync.Once
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithDelays overrides the settle, storm and debounce delays. Zero keeps
// the default.
func WithDelays(settle, storm, debounce time.Duration) Option {
	return func(e *Engine) {
		if settle > 0 {
			e.settleDelay = settle
		}
		if storm > 0 {
			e.stormDelay = storm
		}
		if debounce > 0 {
			e.debounce = debounce
		}
	}
}

// WithMirror mirrors scheduled reminders into m.
func WithMirror(m notify.Mirror) Option {
	return func(e *Engine) {
		if m != nil {
			e.mirror = m
		}
	}
}

func NewEngine(repo Repository, store AlarmStore, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		repo:        repo,
		store:       store,
		mirror:      notify.NopMirror{},
		logger:      logger.Named("reminders"),
		now:         time.Now,
		settleDelay: config.DefaultSettleDelay,
		stormDelay:  config.DefaultStormDelay,
		debounce:    config.DefaultDebounce,
		timers:      newDeferred(),
		baseCtx:     ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize loads the persisted alarms and runs the first sync.
func (e *Engine) Initialize(ctx context.Context) error {
	if err := e.store.Load(ctx); err != nil {
		return err
	}
	return e.SyncActive(ctx)
}

// Shutdown stops pending deferred work and waits for a running sync.
func (e *Engine) Shutdown() {
	e.closeOne.Do(func() {
		e.cancel()
		e.timers.stop()
	})
}

// SyncActive loads the active shift and syncs it. With no active shift it
// only removes the shift reminders.
func (e *Engine) SyncActive(ctx context.Context) error {
	shift, err := e.repo.ActiveShift(ctx)
	if err != nil {
		return fmt.Errorf("load active shift: %w", err)
	}
	return e.Sync(ctx, shift)
}

// Sync cancels every shift reminder, then schedules the next unconsumed
// occurrence of each kind for shift. Calls are serialized so cleanup always
// completes before a rebuild starts.
func (e *Engine) Sync(ctx context.Context, shift *models.Shift) error {
	e.syncMu.Lock()
	defer e.syncMu.Unlock()

	logs, err := e.repo.AllLogs(ctx)
	if err != nil {
		return fmt.Errorf("load attendance logs: %w", err)
	}
	if err := e.cleanup(ctx); err != nil {
		return err
	}
	if shift == nil {
		e.logger.Debug("no active shift, reminders cleared")
		return nil
	}
	settings, err := e.repo.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	var errs []error
	for _, c := range FindCandidates(*shift, logs, e.now()) {
		outcome, err := e.scheduleKind(ctx, *shift, c, settings)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		e.logger.Debug("reminder synced",
			zap.String("id", c.ID()),
			zap.String("outcome", outcome.String()),
			zap.Time("trigger", c.Trigger))
	}
	return errors.Join(errs...)
}

// cleanup removes every shift reminder, snoozed copies included, from the
// store and the mirror.
func (e *Engine) cleanup(ctx context.Context) error {
	removed, err := e.store.CancelWhere(ctx, func(a models.ScheduledAlarm) bool {
		_, _, ok := parseShiftAlarmID(a.ID)
		return ok
	})
	if err != nil {
		return fmt.Errorf("cancel shift reminders: %w", err)
	}
	for _, kind := range models.ReminderKinds {
		for _, prefix := range []string{kind.IDPrefix(), "shift_" + string(kind) + "_"} {
			if err := e.mirror.CancelByPrefix(ctx, prefix); err != nil {
				e.logger.Warn("mirror cleanup failed", zap.String("prefix", prefix), zap.Error(err))
			}
		}
	}
	if removed > 0 {
		e.logger.Debug("shift reminders cancelled", zap.Int("count", removed))
	}
	return nil
}

// scheduleKind writes the alarm for c and mirrors it. The trigger is
// re-checked against the clock right before each write.
func (e *Engine) scheduleKind(ctx context.Context, shift models.Shift, c Candidate, settings models.Settings) (ScheduleOutcome, error) {
	if !c.Trigger.After(e.now()) {
		e.logger.Debug("reminder trigger passed before scheduling", zap.String("id", c.ID()))
		return OutcomeStale, nil
	}
	title, message := describe(c.Kind, shift)
	alarm := models.ScheduledAlarm{
		ID:               c.ID(),
		Kind:             models.AlarmShiftReminder,
		ReminderKind:     c.Kind,
		RelatedID:        shift.ID,
		Title:            title,
		Message:          message,
		ScheduledTime:    c.Trigger,
		AnchorTime:       c.Anchor,
		SoundEnabled:     settings.AlarmSoundEnabled,
		VibrationEnabled: settings.AlarmVibrationEnabled,
	}
	if _, err := e.store.Schedule(ctx, alarm); err != nil {
		if errors.Is(err, alarms.ErrPastTrigger) {
			e.logger.Debug("reminder trigger passed while scheduling", zap.String("id", c.ID()))
			return OutcomeStale, nil
		}
		return OutcomeFailed, fmt.Errorf("schedule %s: %w", c.ID(), err)
	}

	entry := notify.MirrorEntry{ID: c.ID(), Title: title, Message: message, At: c.Trigger}
	err := e.mirror.Schedule(ctx, entry)
	if err == nil {
		return OutcomeScheduled, nil
	}
	e.logger.Warn("mirror rejected reminder, retrying under fallback id", zap.String("id", c.ID()), zap.Error(err))
	if !c.Trigger.After(e.now()) {
		return OutcomeMirrorFailed, nil
	}
	entry.ID = c.FallbackID()
	if err := e.mirror.Schedule(ctx, entry); err != nil {
		e.logger.Warn("mirror fallback failed", zap.String("id", entry.ID), zap.Error(err))
		return OutcomeMirrorFailed, nil
	}
	return OutcomeMirrorFallback, nil
}

// ScheduleShiftReminders syncs the active shift once calls stop arriving
// for the debounce delay.
func (e *Engine) ScheduleShiftReminders() {
	e.timers.schedule(timerDebounce, e.debounce, func() {
		e.deferredSync(timerDebounce)
	})
}

// OnReminderTriggeredOrCancelled re-syncs from storage after the settling
// delay. Repeated calls within the delay collapse into one sync.
func (e *Engine) OnReminderTriggeredOrCancelled() {
	e.timers.schedule(timerSettle, e.settleDelay, func() {
		e.deferredSync(timerSettle)
	})
}

// ForceResetForNewShift clears the shift reminders now and rebuilds them
// for the then-active shift after the storm delay. Other sync requests in
// the meantime are folded into that rebuild.
func (e *Engine) ForceResetForNewShift(ctx context.Context, shift models.Shift) error {
	e.timers.cancel(timerDebounce)
	e.timers.cancel(timerSettle)
	if err := e.Sync(ctx, nil); err != nil {
		return err
	}
	e.logger.Info("shift reminders reset", zap.String("shift", shift.ID), zap.Duration("rebuild_in", e.stormDelay))
	e.timers.schedule(timerStorm, e.stormDelay, func() {
		if err := e.SyncActive(e.baseCtx); err != nil {
			e.logger.Error("deferred rebuild failed", zap.Error(err))
		}
	})
	return nil
}

// RebuildPending reports whether a storm-delayed rebuild is waiting.
func (e *Engine) RebuildPending() bool {
	return e.timers.pending(timerStorm)
}

func (e *Engine) deferredSync(source string) {
	if e.timers.pending(timerStorm) {
		e.logger.Debug("sync folded into pending rebuild", zap.String("source", source))
		return
	}
	if err := e.SyncActive(e.baseCtx); err != nil && !errors.Is(err, context.Canceled) {
		e.logger.Error("deferred sync failed", zap.String("source", source), zap.Error(err))
	}
}

func describe(kind models.ReminderKind, shift models.Shift) (title, message string) {
	name := shift.Name
	if name == "" {
		name = "your shift"
	}
	switch kind {
	case models.ReminderDeparture:
		return "Time to leave", fmt.Sprintf("Leave at %s for %s starting %s", shift.DepartureTime, name, shift.StartTime)
	case models.ReminderCheckIn:
		return "Check in", fmt.Sprintf("%s starts at %s", capitalize(name), shift.StartTime)
	default:
		return "Check out", fmt.Sprintf("Office hours ended at %s", shift.OfficeEndTime)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// parseShiftAlarmID splits "{kind}-{yyyymmdd}" ids, with or without a
// snooze suffix.
func parseShiftAlarmID(id string) (models.ReminderKind, time.Time, bool) {
	for _, kind := range models.ReminderKinds {
		rest, ok := strings.CutPrefix(id, kind.IDPrefix())
		if !ok || len(rest) < 8 {
			continue
		}
		date, err := time.ParseInLocation("20060102", rest[:8], time.Local)
		if err != nil {
			return "", time.Time{}, false
		}
		return kind, date, true
	}
	return "", time.Time{}, false
}
