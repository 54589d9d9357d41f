package alarms

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/akyairhashvil/shiftbell/internal/models"
	"github.com/akyairhashvil/shiftbell/internal/notify"
)

// ResyncTrigger is told when a shift reminder left the table.
type ResyncTrigger interface {
	OnReminderTriggeredOrCancelled()
}

// FallbackAlert shows an alarm in-app when native delivery is unavailable.
type FallbackAlert func(models.ScheduledAlarm)

// Outcome is what happened to one due alarm.
type Outcome struct {
	Alarm     models.ScheduledAlarm
	Delivered bool
	Fallback  bool
	Reason    Reason
	Err       error
}

// Dispatcher moves due alarms from the store to the user.
type Dispatcher struct {
	store     *Store
	deliverer notify.Deliverer
	resync    ResyncTrigger
	logger    *zap.Logger

	mu       sync.RWMutex
	fallback FallbackAlert
}

func NewDispatcher(store *Store, d notify.Deliverer, resync ResyncTrigger, fallback FallbackAlert, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		store:     store,
		deliverer: d,
		resync:    resync,
		fallback:  fallback,
		logger:    logger.Named("dispatch"),
	}
}

// SetFallback replaces the in-app alert, e.g. once the UI is running.
func (d *Dispatcher) SetFallback(f FallbackAlert) {
	d.mu.Lock()
	d.fallback = f
	d.mu.Unlock()
}

func (d *Dispatcher) fallbackAlert() FallbackAlert {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fallback
}

// DispatchDue delivers every alarm due at the store's current time.
func (d *Dispatcher) DispatchDue(ctx context.Context) ([]Outcome, error) {
	now := d.store.Now()
	due, err := d.store.Tick(ctx, now)
	if err != nil && len(due) == 0 {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(due))
	shiftFired := false
	for _, a := range due {
		out := d.dispatchOne(ctx, a, now)
		outcomes = append(outcomes, out)
		if a.Kind == models.AlarmShiftReminder {
			shiftFired = true
		}
	}
	if shiftFired && d.resync != nil {
		d.resync.OnReminderTriggeredOrCancelled()
	}
	return outcomes, err
}

func (d *Dispatcher) dispatchOne(ctx context.Context, a models.ScheduledAlarm, now time.Time) Outcome {
	out := Outcome{Alarm: a}
	ok, reason := ShouldDeliver(a, now)
	if !ok {
		out.Reason = reason
		d.logger.Info("alarm suppressed",
			zap.String("id", a.ID),
			zap.String("reason", string(reason)),
			zap.Time("scheduled", a.ScheduledTime))
		return out
	}

	err := d.deliverer.Deliver(ctx, notify.Notification{
		ID:               a.ID,
		Title:            a.Title,
		Message:          a.Message,
		SoundEnabled:     a.SoundEnabled,
		VibrationEnabled: a.VibrationEnabled,
	})
	fallback := d.fallbackAlert()
	switch {
	case err == nil:
		out.Delivered = true
		d.logger.Info("alarm delivered", zap.String("id", a.ID))
	case errors.Is(err, notify.ErrDeliveryUnavailable) && fallback != nil:
		out.Fallback = true
		d.logger.Info("delivery unavailable, showing in-app alert", zap.String("id", a.ID))
		fallback(a)
	default:
		out.Err = err
		d.logger.Error("alarm delivery failed", zap.String("id", a.ID), zap.Error(err))
	}
	return out
}

// Run dispatches due alarms every tick until ctx is done.
func (d *Dispatcher) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.DispatchDue(ctx); err != nil {
				d.logger.Error("dispatch failed", zap.Error(err))
			}
		}
	}
}
