package alarms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/akyairhashvil/shiftbell/internal/models"
	"github.com/akyairhashvil/shiftbell/internal/testutil"
)

func TestShouldDeliver(t *testing.T) {
	now := testutil.Date(2025, time.June, 23, 8, 55)
	longAgo := now.Add(-time.Hour)
	start := now.Add(5 * time.Minute)

	cases := []struct {
		name   string
		alarm  models.ScheduledAlarm
		ok     bool
		reason Reason
	}{
		{
			name:  "on time",
			alarm: testutil.NewAlarm("note_1", now).ScheduledAt(longAgo).Build(),
			ok:    true,
		},
		{
			name:   "jitter tolerated up to a minute",
			alarm:  testutil.NewAlarm("note_1", now.Add(61*time.Second)).ScheduledAt(longAgo).Build(),
			reason: ReasonOffSchedule,
		},
		{
			name:  "within jitter",
			alarm: testutil.NewAlarm("note_1", now.Add(-59*time.Second)).ScheduledAt(longAgo).Build(),
			ok:    true,
		},
		{
			name:   "scheduled 90 seconds ago for now",
			alarm:  testutil.NewAlarm("checkin-20250623", now).ShiftReminder(models.ReminderCheckIn, "day", start).ScheduledAt(now.Add(-90 * time.Second)).Build(),
			reason: ReasonJustScheduled,
		},
		{
			name:  "check-in near start",
			alarm: testutil.NewAlarm("checkin-20250623", now).ShiftReminder(models.ReminderCheckIn, "day", start).ScheduledAt(longAgo).Build(),
			ok:    true,
		},
		{
			name:  "check-in with a long lead fires at its trigger",
			alarm: testutil.NewAlarm("checkin-20250623", now).ShiftReminder(models.ReminderCheckIn, "day", now.Add(time.Hour)).ScheduledAt(longAgo).Build(),
			ok:    true,
		},
		{
			name:  "departure with a long lead fires at its trigger",
			alarm: testutil.NewAlarm("departure-20250623", now).ShiftReminder(models.ReminderDeparture, "day", now.Add(45*time.Minute)).ScheduledAt(longAgo).Build(),
			ok:    true,
		},
		{
			name:  "check-out with a long lag fires at its trigger",
			alarm: testutil.NewAlarm("checkout-20250623", now).ShiftReminder(models.ReminderCheckOut, "day", now.Add(-90*time.Minute)).ScheduledAt(longAgo).Build(),
			ok:    true,
		},
		{
			name:   "snoozed departure with a long lead is held to its window",
			alarm:  testutil.NewAlarm("departure-20250623_snooze_1", now).ShiftReminder(models.ReminderDeparture, "day", now.Add(45*time.Minute)).ScheduledAt(longAgo).Build(),
			reason: ReasonOutsideWindow,
		},
		{
			name:   "snoozed check-in long after start",
			alarm:  testutil.NewAlarm("checkin-20250623_snooze_1", now).ShiftReminder(models.ReminderCheckIn, "day", now.Add(-time.Hour)).ScheduledAt(longAgo).Build(),
			reason: ReasonOutsideWindow,
		},
		{
			name:   "snoozed departure outside its window",
			alarm:  testutil.NewAlarm("departure-20250623_snooze_1", now).ShiftReminder(models.ReminderDeparture, "day", now.Add(-16*time.Minute)).ScheduledAt(longAgo).Build(),
			reason: ReasonOutsideWindow,
		},
		{
			name:  "snoozed check-out inside the late window",
			alarm: testutil.NewAlarm("checkout-20250623_snooze_1", now).ShiftReminder(models.ReminderCheckOut, "day", now.Add(-59*time.Minute)).ScheduledAt(longAgo).Build(),
			ok:    true,
		},
		{
			name:   "snoozed check-out too early",
			alarm:  testutil.NewAlarm("checkout-20250623_snooze_1", now).ShiftReminder(models.ReminderCheckOut, "day", now.Add(16*time.Minute)).ScheduledAt(longAgo).Build(),
			reason: ReasonOutsideWindow,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := ShouldDeliver(tc.alarm, now)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.reason, reason)
		})
	}
}
