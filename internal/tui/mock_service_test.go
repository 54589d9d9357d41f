package tui

import (
	"context"
	"time"

	"github.com/akyairhashvil/shiftbell/internal/app"
	"github.com/akyairhashvil/shiftbell/internal/attendance"
	"github.com/akyairhashvil/shiftbell/internal/models"
)

type fakeService struct {
	now      time.Time
	snap     attendance.Snapshot
	snapErr  error
	pressErr error
	result   attendance.Result
	alarms   []models.ScheduledAlarm
	month    []models.DailyWorkStatus
	settings models.Settings
	events   chan app.Event

	presses   int
	confirms  int
	punches   int
	resets    int
	snoozed   []models.ScheduledAlarm
	overrides []models.DailyWorkStatus
	saved     []models.Settings
}

func newFakeService() *fakeService {
	now := time.Date(2025, time.June, 23, 9, 30, 0, 0, time.Local)
	return &fakeService{
		now: now,
		snap: attendance.Snapshot{
			Shift: models.Shift{ID: "day", Name: "Day shift", StartTime: "09:00", OfficeEndTime: "17:00",
				EndTime: "17:30", DepartureTime: "08:15", WorkDays: []int{1, 2, 3, 4, 5}},
			DateKey:   "2025-06-23",
			Mode:      models.ButtonModeFull,
			State:     models.ButtonCheckIn,
			Departure: time.Date(2025, time.June, 23, 8, 15, 0, 0, time.Local),
		},
		settings: models.DefaultSettings(),
		events:   make(chan app.Event, 4),
	}
}

func (f *fakeService) Snapshot(context.Context) (attendance.Snapshot, error) {
	return f.snap, f.snapErr
}

func (f *fakeService) Press(context.Context) (attendance.Result, error) {
	f.presses++
	return f.result, f.pressErr
}

func (f *fakeService) Confirm(context.Context, *attendance.RapidPressError) (attendance.Result, error) {
	f.confirms++
	return attendance.Result{Action: models.LogCheckOut, Date: f.snap.DateKey, State: models.ButtonCompletedDay}, nil
}

func (f *fakeService) Punch(context.Context) (attendance.Result, error) {
	f.punches++
	return attendance.Result{Action: models.LogPunch, Date: f.snap.DateKey}, nil
}

func (f *fakeService) Reset(context.Context) error {
	f.resets++
	return nil
}

func (f *fakeService) OverrideStatus(_ context.Context, dateKey string, status models.WorkStatus, reason string) (models.DailyWorkStatus, error) {
	st := models.DailyWorkStatus{Date: dateKey, Status: status, OverrideReason: reason, IsManualOverride: true}
	f.overrides = append(f.overrides, st)
	return st, nil
}

func (f *fakeService) PendingAlarms() []models.ScheduledAlarm { return f.alarms }

func (f *fakeService) Snooze(_ context.Context, a models.ScheduledAlarm, minutes int) (models.ScheduledAlarm, error) {
	f.snoozed = append(f.snoozed, a)
	a.ScheduledTime = f.now.Add(time.Duration(minutes) * time.Minute)
	return a, nil
}

func (f *fakeService) MonthStatuses(context.Context, time.Time) ([]models.DailyWorkStatus, error) {
	return f.month, nil
}

func (f *fakeService) Settings(context.Context) (models.Settings, error) { return f.settings, nil }

func (f *fakeService) SaveSettings(_ context.Context, s models.Settings) error {
	f.settings = s
	f.saved = append(f.saved, s)
	return nil
}

func (f *fakeService) Events() <-chan app.Event { return f.events }

func (f *fakeService) Now() time.Time { return f.now }
