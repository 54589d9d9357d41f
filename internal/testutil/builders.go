package testutil

import (
	"time"

	"github.com/akyairhashvil/shiftbell/internal/models"
)

// ShiftBuilder provides fluent API for creating test shifts. The default is a
// weekday day shift: departure 08:15, 09:00 to 17:00 with overtime to 17:30.
type ShiftBuilder struct {
	shift models.Shift
}

func NewShift() *ShiftBuilder {
	return &ShiftBuilder{
		shift: models.Shift{
			ID:            "day",
			Name:          "Day shift",
			StartTime:     "09:00",
			OfficeEndTime: "17:00",
			EndTime:       "17:30",
			DepartureTime: "08:15",
			WorkDays:      []int{1, 2, 3, 4, 5},
		},
	}
}

// NewNightShift starts from a 22:00 to 06:00 shift leaving home at 21:00.
func NewNightShift() *ShiftBuilder {
	return &ShiftBuilder{
		shift: models.Shift{
			ID:            "night",
			Name:          "Night shift",
			StartTime:     "22:00",
			OfficeEndTime: "06:00",
			EndTime:       "06:30",
			DepartureTime: "21:00",
			WorkDays:      []int{0, 1, 2, 3, 4, 5, 6},
			IsNightShift:  true,
		},
	}
}

func (b *ShiftBuilder) WithID(id string) *ShiftBuilder {
	b.shift.ID = id
	return b
}

func (b *ShiftBuilder) WithTimes(departure, start, officeEnd, end string) *ShiftBuilder {
	b.shift.DepartureTime = departure
	b.shift.StartTime = start
	b.shift.OfficeEndTime = officeEnd
	b.shift.EndTime = end
	return b
}

func (b *ShiftBuilder) WithWorkDays(days ...time.Weekday) *ShiftBuilder {
	b.shift.WorkDays = b.shift.WorkDays[:0]
	for _, d := range days {
		b.shift.WorkDays = append(b.shift.WorkDays, int(d))
	}
	return b
}

func (b *ShiftBuilder) WithReminderOffsets(beforeStart, afterEnd int) *ShiftBuilder {
	b.shift.RemindBeforeStart = beforeStart
	b.shift.RemindAfterEnd = afterEnd
	return b
}

func (b *ShiftBuilder) WithPunch() *ShiftBuilder {
	b.shift.ShowPunch = true
	return b
}

func (b *ShiftBuilder) Build() models.Shift {
	s := b.shift
	s.WorkDays = append([]int(nil), b.shift.WorkDays...)
	return s
}

// LogBuilder accumulates the attendance logs of one date.
type LogBuilder struct {
	logs []models.AttendanceLog
}

func NewLogs() *LogBuilder {
	return &LogBuilder{}
}

func (b *LogBuilder) Add(t models.LogType, at time.Time) *LogBuilder {
	b.logs = append(b.logs, models.AttendanceLog{Type: t, Time: at})
	return b
}

func (b *LogBuilder) GoWork(at time.Time) *LogBuilder   { return b.Add(models.LogGoWork, at) }
func (b *LogBuilder) CheckIn(at time.Time) *LogBuilder  { return b.Add(models.LogCheckIn, at) }
func (b *LogBuilder) CheckOut(at time.Time) *LogBuilder { return b.Add(models.LogCheckOut, at).Add(models.LogComplete, at) }

func (b *LogBuilder) Build() []models.AttendanceLog {
	return append([]models.AttendanceLog(nil), b.logs...)
}

// AlarmBuilder provides fluent API for creating scheduled alarms.
type AlarmBuilder struct {
	alarm models.ScheduledAlarm
}

func NewAlarm(id string, at time.Time) *AlarmBuilder {
	return &AlarmBuilder{
		alarm: models.ScheduledAlarm{
			ID:            id,
			Kind:          models.AlarmNoteReminder,
			Title:         "Test alarm",
			ScheduledTime: at,
			AnchorTime:    at,
		},
	}
}

func (b *AlarmBuilder) ShiftReminder(kind models.ReminderKind, shiftID string, anchor time.Time) *AlarmBuilder {
	b.alarm.Kind = models.AlarmShiftReminder
	b.alarm.ReminderKind = kind
	b.alarm.RelatedID = shiftID
	b.alarm.AnchorTime = anchor
	return b
}

func (b *AlarmBuilder) RelatedTo(id string) *AlarmBuilder {
	b.alarm.RelatedID = id
	return b
}

func (b *AlarmBuilder) ScheduledAt(at time.Time) *AlarmBuilder {
	b.alarm.ScheduledAt = at
	return b
}

func (b *AlarmBuilder) Build() models.ScheduledAlarm {
	return b.alarm
}

// Date is a local calendar instant.
func Date(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.Local)
}
