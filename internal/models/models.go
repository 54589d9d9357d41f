package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidShift is returned by Shift.Validate for malformed definitions.
var ErrInvalidShift = errors.New("invalid shift")

// Shift is a recurring work shift. Edits replace the whole value.
type Shift struct {
	ID                string `json:"id" yaml:"id"`
	Name              string `json:"name" yaml:"name"`
	StartTime         string `json:"startTime" yaml:"start"`
	OfficeEndTime     string `json:"officeEndTime" yaml:"office_end"`
	EndTime           string `json:"endTime" yaml:"end"`
	DepartureTime     string `json:"departureTime" yaml:"departure"`
	WorkDays          []int  `json:"workDays" yaml:"work_days"` // 0=Sunday..6=Saturday
	IsNightShift      bool   `json:"isNightShift" yaml:"night_shift"`
	RemindBeforeStart int    `json:"remindBeforeStart" yaml:"remind_before_start"` // minutes, 0 = default
	RemindAfterEnd    int    `json:"remindAfterEnd" yaml:"remind_after_end"`       // minutes, 0 = default
	ShowPunch         bool   `json:"showPunch" yaml:"show_punch"`
}

// Validate checks clock fields and work days.
func (s Shift) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidShift)
	}
	for name, v := range map[string]string{
		"startTime":     s.StartTime,
		"officeEndTime": s.OfficeEndTime,
		"endTime":       s.EndTime,
		"departureTime": s.DepartureTime,
	} {
		if !validClock(v) {
			return fmt.Errorf("%w: %s %q is not HH:MM", ErrInvalidShift, name, v)
		}
	}
	if len(s.WorkDays) == 0 {
		return fmt.Errorf("%w: no work days", ErrInvalidShift)
	}
	for _, d := range s.WorkDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidShift, d)
		}
	}
	return nil
}

// WorksOn reports whether the shift recurs on the given weekday.
func (s Shift) WorksOn(day time.Weekday) bool {
	for _, d := range s.WorkDays {
		if d == int(day) {
			return true
		}
	}
	return false
}

func validClock(v string) bool {
	parts := strings.Split(v, ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return false
	}
	m, err := strconv.Atoi(parts[1])
	return err == nil && m >= 0 && m <= 59
}

// LogType enumerates the attendance actions.
type LogType string

const (
	LogGoWork   LogType = "go_work"
	LogCheckIn  LogType = "check_in"
	LogCheckOut LogType = "check_out"
	LogPunch    LogType = "punch"
	LogComplete LogType = "complete"
)

// AttendanceLog is a single recorded action.
type AttendanceLog struct {
	Type LogType   `json:"type"`
	Time time.Time `json:"time"`
}

// AttendanceLogs maps "YYYY-MM-DD" to the actions of that date.
type AttendanceLogs map[string][]AttendanceLog

// Has reports whether a log of the given type exists in logs.
func Has(logs []AttendanceLog, t LogType) bool {
	_, ok := Find(logs, t)
	return ok
}

// Find returns the first log of the given type.
func Find(logs []AttendanceLog, t LogType) (AttendanceLog, bool) {
	for _, l := range logs {
		if l.Type == t {
			return l, true
		}
	}
	return AttendanceLog{}, false
}

// FindLast returns the last log of the given type.
func FindLast(logs []AttendanceLog, t LogType) (AttendanceLog, bool) {
	for i := len(logs) - 1; i >= 0; i-- {
		if logs[i].Type == t {
			return logs[i], true
		}
	}
	return AttendanceLog{}, false
}

// WorkStatus is the derived outcome of a work date.
type WorkStatus string

const (
	WorkStatusOnTime     WorkStatus = "on_time"
	WorkStatusLate       WorkStatus = "late"
	WorkStatusEarly      WorkStatus = "early"
	WorkStatusLateEarly  WorkStatus = "late_early"
	WorkStatusIncomplete WorkStatus = "incomplete"
	WorkStatusAbsent     WorkStatus = "absent"
	WorkStatusPending    WorkStatus = "pending"
	WorkStatusDayOff     WorkStatus = "day_off"
)

// ParseWorkStatus validates a user-supplied status value.
func ParseWorkStatus(v string) (WorkStatus, error) {
	s := WorkStatus(strings.TrimSpace(v))
	switch s {
	case WorkStatusOnTime, WorkStatusLate, WorkStatusEarly, WorkStatusLateEarly,
		WorkStatusIncomplete, WorkStatusAbsent, WorkStatusPending, WorkStatusDayOff:
		return s, nil
	}
	return "", fmt.Errorf("unknown work status %q", v)
}

// DailyWorkStatus is the computed (or hand-edited) summary of one date.
type DailyWorkStatus struct {
	Date             string     `json:"date"`
	ShiftID          string     `json:"shiftId"`
	Status           WorkStatus `json:"status"`
	CheckIn          *time.Time `json:"checkIn,omitempty"`
	CheckOut         *time.Time `json:"checkOut,omitempty"`
	ScheduledHours   float64    `json:"scheduledHours"`
	StandardHours    float64    `json:"standardHours"`
	OvertimeHours    float64    `json:"overtimeHours"`
	SundayHours      float64    `json:"sundayHours"`
	NightHours       float64    `json:"nightHours"`
	TotalHours       float64    `json:"totalHours"`
	LateMinutes      int        `json:"lateMinutes"`
	EarlyMinutes     int        `json:"earlyMinutes"`
	IsManualOverride bool       `json:"isManualOverride"`
	OverrideReason   string     `json:"overrideReason,omitempty"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// ButtonState is what the attendance button offers next.
type ButtonState string

const (
	ButtonGoWork       ButtonState = "go_work"
	ButtonCheckIn      ButtonState = "check_in"
	ButtonCheckOut     ButtonState = "check_out"
	ButtonCompletedDay ButtonState = "completed_day"
)

// Rank orders button states for monotonicity checks.
func (b ButtonState) Rank() int {
	switch b {
	case ButtonGoWork:
		return 0
	case ButtonCheckIn:
		return 1
	case ButtonCheckOut:
		return 2
	case ButtonCompletedDay:
		return 3
	}
	return -1
}

// ButtonMode selects how many steps the button walks through.
type ButtonMode string

const (
	ButtonModeFull   ButtonMode = "full"
	ButtonModeSimple ButtonMode = "simple"
	ButtonModeAuto   ButtonMode = "auto"
)

// Settings are user preferences snapshotted into alarms at schedule time.
type Settings struct {
	AlarmSoundEnabled     bool       `json:"alarmSoundEnabled"`
	AlarmVibrationEnabled bool       `json:"alarmVibrationEnabled"`
	Language              string     `json:"language"`
	MultiButtonMode       ButtonMode `json:"multiButtonMode"`
	Theme                 string     `json:"theme"`
}

// DefaultSettings returns the settings used before the user saves any.
func DefaultSettings() Settings {
	return Settings{
		AlarmSoundEnabled:     true,
		AlarmVibrationEnabled: true,
		Language:              "en",
		MultiButtonMode:       ButtonModeFull,
		Theme:                 "default",
	}
}

// Note is a free-form note with an optional reminder.
type Note struct {
	ID            string     `json:"id" yaml:"id"`
	Title         string     `json:"title" yaml:"title"`
	Content       string     `json:"content" yaml:"content"`
	ReminderTime  *time.Time `json:"reminderTime,omitempty" yaml:"reminder_time"`
	ReminderClock string     `json:"reminderClock,omitempty" yaml:"reminder_clock"`
	ShiftIDs      []string   `json:"shiftIds,omitempty" yaml:"shift_ids"`
}
