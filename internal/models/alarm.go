package models

import "time"

// AlarmKind groups alarms for bulk cancellation and delivery rules.
type AlarmKind string

const (
	AlarmShiftReminder  AlarmKind = "shift_reminder"
	AlarmNoteReminder   AlarmKind = "note_reminder"
	AlarmWeatherWarning AlarmKind = "weather_warning"
)

// ReminderKind is one of the three shift reminders.
type ReminderKind string

const (
	ReminderDeparture ReminderKind = "departure"
	ReminderCheckIn   ReminderKind = "checkin"
	ReminderCheckOut  ReminderKind = "checkout"
)

// ReminderKinds lists the shift reminders in scheduling order.
var ReminderKinds = []ReminderKind{ReminderDeparture, ReminderCheckIn, ReminderCheckOut}

// SatisfiedBy is the log type that makes a reminder of this kind unnecessary.
func (k ReminderKind) SatisfiedBy() LogType {
	switch k {
	case ReminderDeparture:
		return LogGoWork
	case ReminderCheckIn:
		return LogCheckIn
	default:
		return LogCheckOut
	}
}

// IDPrefix is the cancellation pattern shared by every alarm of this kind.
func (k ReminderKind) IDPrefix() string {
	return string(k) + "-"
}

// ScheduledAlarm is one pending entry of the alarm table.
type ScheduledAlarm struct {
	ID               string       `json:"id"`
	Kind             AlarmKind    `json:"kind"`
	ReminderKind     ReminderKind `json:"reminderKind,omitempty"`
	RelatedID        string       `json:"relatedId"`
	Title            string       `json:"title"`
	Message          string       `json:"message"`
	ScheduledTime    time.Time    `json:"scheduledTime"`
	AnchorTime       time.Time    `json:"anchorTime"`
	ScheduledAt      time.Time    `json:"scheduledAt"`
	SoundEnabled     bool         `json:"soundEnabled"`
	VibrationEnabled bool         `json:"vibrationEnabled"`
}
