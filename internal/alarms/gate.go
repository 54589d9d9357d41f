package alarms

import (
	"time"

	"github.com/akyairhashvil/shiftbell/internal/config"
	"github.com/akyairhashvil/shiftbell/internal/models"
)

// Reason explains why a due alarm was held back.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonOffSchedule   Reason = "off_schedule"
	ReasonJustScheduled Reason = "just_scheduled"
	ReasonOutsideWindow Reason = "outside_window"
)

// ShouldDeliver reports whether alarm may be shown at now, and if not, why.
func ShouldDeliver(alarm models.ScheduledAlarm, now time.Time) (bool, Reason) {
	if abs(now.Sub(alarm.ScheduledTime)) > config.DeliveryJitter {
		return false, ReasonOffSchedule
	}
	if !alarm.ScheduledAt.IsZero() && now.Sub(alarm.ScheduledAt) < config.RescheduleRaceGuard {
		return false, ReasonJustScheduled
	}
	if alarm.Kind == models.AlarmShiftReminder && !inShiftWindow(alarm, now) {
		return false, ReasonOutsideWindow
	}
	return true, ReasonNone
}

func inShiftWindow(alarm models.ScheduledAlarm, now time.Time) bool {
	anchor := alarm.AnchorTime
	if anchor.IsZero() {
		anchor = alarm.ScheduledTime
	}
	var lo, hi time.Time
	switch alarm.ReminderKind {
	case models.ReminderDeparture:
		lo, hi = anchor.Add(-config.DepartureWindow), anchor.Add(config.DepartureWindow)
	case models.ReminderCheckIn:
		lo, hi = anchor.Add(-config.CheckInWindow), anchor.Add(config.CheckInWindow)
	case models.ReminderCheckOut:
		lo, hi = anchor.Add(-config.CheckOutWindowBefore), anchor.Add(config.CheckOutWindowAfter)
	default:
		return true
	}
	// A configured lead longer than the window still fires at its own
	// trigger. Snoozed copies do not get that allowance.
	if !IsSnooze(alarm.ID) {
		if alarm.ScheduledTime.Before(lo) {
			lo = alarm.ScheduledTime.Add(-config.DeliveryJitter)
		}
		if alarm.ScheduledTime.After(hi) {
			hi = alarm.ScheduledTime.Add(config.DeliveryJitter)
		}
	}
	return !now.Before(lo) && !now.After(hi)
}

func abs(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
