package reminders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akyairhashvil/shiftbell/internal/config"
	"github.com/akyairhashvil/shiftbell/internal/models"
	"github.com/akyairhashvil/shiftbell/internal/testutil"
)

// Monday 2025-06-23.
var mondayAt7 = testutil.Date(2025, time.June, 23, 7, 0)

func byKind(cs []Candidate) map[models.ReminderKind]Candidate {
	out := make(map[models.ReminderKind]Candidate, len(cs))
	for _, c := range cs {
		out[c.Kind] = c
	}
	return out
}

func TestFindCandidatesMondayMorning(t *testing.T) {
	shift := testutil.NewShift().Build()
	got := byKind(FindCandidates(shift, nil, mondayAt7))
	require.Len(t, got, 3)

	assert.Equal(t, testutil.Date(2025, time.June, 23, 7, 45), got[models.ReminderDeparture].Trigger)
	assert.Equal(t, testutil.Date(2025, time.June, 23, 8, 55), got[models.ReminderCheckIn].Trigger)
	assert.Equal(t, testutil.Date(2025, time.June, 23, 17, 10), got[models.ReminderCheckOut].Trigger)
	assert.Equal(t, "departure-20250623", got[models.ReminderDeparture].ID())
	assert.Equal(t, "shift_checkin_20250623", got[models.ReminderCheckIn].FallbackID())
	assert.Equal(t, testutil.Date(2025, time.June, 23, 9, 0), got[models.ReminderCheckIn].Anchor)
}

func TestFindCandidatesSkipsSatisfiedDay(t *testing.T) {
	shift := testutil.NewShift().Build()
	now := testutil.Date(2025, time.June, 23, 7, 50)
	logs := models.AttendanceLogs{"2025-06-23": testutil.NewLogs().GoWork(now).Build()}

	got := byKind(FindCandidates(shift, logs, now))
	assert.Equal(t, "departure-20250624", got[models.ReminderDeparture].ID())
	assert.Equal(t, "checkin-20250623", got[models.ReminderCheckIn].ID())
	assert.Equal(t, "checkout-20250623", got[models.ReminderCheckOut].ID())
}

func TestFindCandidatesSkipsWeekend(t *testing.T) {
	shift := testutil.NewShift().Build()
	friday := testutil.Date(2025, time.June, 27, 18, 0)
	got := byKind(FindCandidates(shift, nil, friday))
	for _, c := range got {
		assert.Equal(t, time.Monday, c.Date.Weekday(), c.ID())
	}
}

func TestTriggerLeadOverrides(t *testing.T) {
	shift := testutil.NewShift().WithReminderOffsets(20, 2).Build()
	date := testutil.Date(2025, time.June, 23, 0, 0)

	trigger, _ := Trigger(models.ReminderCheckIn, shift, date)
	assert.Equal(t, testutil.Date(2025, time.June, 23, 8, 40), trigger)
	trigger, _ = Trigger(models.ReminderCheckOut, shift, date)
	assert.Equal(t, testutil.Date(2025, time.June, 23, 17, 5), trigger, "lag is at least five minutes")

	shift.RemindBeforeStart = 1
	trigger, _ = Trigger(models.ReminderCheckIn, shift, date)
	assert.Equal(t, testutil.Date(2025, time.June, 23, 8, 55), trigger)
}

func TestNeverSchedulesPastOrBeyondHorizon(t *testing.T) {
	shifts := []models.Shift{
		testutil.NewShift().Build(),
		testutil.NewNightShift().Build(),
		testutil.NewShift().WithWorkDays(time.Saturday).Build(),
	}
	for _, shift := range shifts {
		for day := 0; day < config.ScanDays; day++ {
			for hour := 0; hour < 24; hour += 3 {
				now := mondayAt7.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + 7*time.Minute)
				cs := FindCandidates(shift, nil, now)
				seen := map[models.ReminderKind]bool{}
				for _, c := range cs {
					assert.True(t, c.Trigger.After(now), "%s %s not after %s", shift.ID, c.ID(), now)
					assert.False(t, c.Trigger.After(now.Add(config.ScheduleHorizon)), "%s beyond horizon", c.ID())
					assert.False(t, seen[c.Kind], "duplicate %s", c.Kind)
					seen[c.Kind] = true
				}
			}
		}
	}
}

func TestNightShiftCandidates(t *testing.T) {
	shift := testutil.NewNightShift().Build()
	noon := testutil.Date(2025, time.June, 23, 12, 0)

	got := byKind(FindCandidates(shift, nil, noon))
	// Departures of 20:00 or later belong to the next day's occurrence.
	assert.Equal(t, "departure-20250624", got[models.ReminderDeparture].ID())
	assert.Equal(t, testutil.Date(2025, time.June, 23, 20, 30), got[models.ReminderDeparture].Trigger)
	assert.Equal(t, testutil.Date(2025, time.June, 23, 21, 55), got[models.ReminderCheckIn].Trigger)
	assert.Equal(t, testutil.Date(2025, time.June, 24, 6, 10), got[models.ReminderCheckOut].Trigger)
	assert.Equal(t, "checkout-20250623", got[models.ReminderCheckOut].ID())

	// Early morning: yesterday's occurrence still has its check-out ahead.
	early := testutil.Date(2025, time.June, 24, 3, 0)
	got = byKind(FindCandidates(shift, nil, early))
	assert.Equal(t, "checkout-20250623", got[models.ReminderCheckOut].ID())
}

func TestNightDepartureSatisfiedByEveningGoWork(t *testing.T) {
	shift := testutil.NewNightShift().Build()
	now := testutil.Date(2025, time.June, 23, 20, 10)
	logs := models.AttendanceLogs{"2025-06-23": testutil.NewLogs().GoWork(now).Build()}

	got := byKind(FindCandidates(shift, logs, now))
	assert.Equal(t, "departure-20250625", got[models.ReminderDeparture].ID())
}
