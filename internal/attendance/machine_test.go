package attendance

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akyairhashvil/shiftbell/internal/database"
	"github.com/akyairhashvil/shiftbell/internal/models"
	"github.com/akyairhashvil/shiftbell/internal/testutil"
)

type countingResync struct{ calls atomic.Int32 }

func (c *countingResync) OnReminderTriggeredOrCancelled() { c.calls.Add(1) }

type machineFixture struct {
	repo   *database.Repository
	clock  *testutil.Clock
	resync *countingResync
	m      *Machine
}

// Monday 2025-06-23, 08:00.
var monday = testutil.Date(2025, time.June, 23, 8, 0)

func newFixture(t *testing.T, shift *models.Shift) *machineFixture {
	t.Helper()
	ctx := context.Background()
	repo, _ := testutil.NewRepository(t)
	if shift != nil {
		require.NoError(t, repo.SaveShift(ctx, *shift))
		require.NoError(t, repo.SetActiveShiftID(ctx, shift.ID))
	}
	f := &machineFixture{repo: repo, clock: testutil.NewClock(monday), resync: &countingResync{}}
	f.m = NewMachine(repo, f.resync, nil, 120*time.Second, WithClock(f.clock.Now))
	return f
}

func dayShift() *models.Shift {
	s := testutil.NewShift().Build()
	return &s
}

func TestComputeState(t *testing.T) {
	at := monday
	cases := []struct {
		name string
		logs []models.AttendanceLog
		mode models.ButtonMode
		want models.ButtonState
	}{
		{"empty", nil, models.ButtonModeFull, models.ButtonGoWork},
		{"departed", testutil.NewLogs().GoWork(at).Build(), models.ButtonModeFull, models.ButtonCheckIn},
		{"checked in", testutil.NewLogs().GoWork(at).CheckIn(at).Build(), models.ButtonModeFull, models.ButtonCheckOut},
		{"punches keep check out", testutil.NewLogs().GoWork(at).CheckIn(at).Add(models.LogPunch, at).Build(), models.ButtonModeFull, models.ButtonCheckOut},
		{"done", testutil.NewLogs().GoWork(at).CheckIn(at).CheckOut(at).Build(), models.ButtonModeFull, models.ButtonCompletedDay},
		{"simple empty", nil, models.ButtonModeSimple, models.ButtonGoWork},
		{"simple done", testutil.NewLogs().GoWork(at).Add(models.LogComplete, at).Build(), models.ButtonModeSimple, models.ButtonCompletedDay},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeState(tc.logs, tc.mode))
		})
	}
}

func TestPressWalksTheDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	var prev models.ButtonState
	steps := []struct {
		at     time.Time
		action models.LogType
		state  models.ButtonState
	}{
		{monday, models.LogGoWork, models.ButtonCheckIn},
		{monday.Add(55 * time.Minute), models.LogCheckIn, models.ButtonCheckOut},
		{monday.Add(9 * time.Hour), models.LogCheckOut, models.ButtonCompletedDay},
	}
	for _, step := range steps {
		f.clock.Set(step.at)
		res, err := f.m.Press(ctx)
		require.NoError(t, err)
		assert.Equal(t, step.action, res.Action)
		assert.Equal(t, step.state, res.State)
		assert.Equal(t, "2025-06-23", res.Date)
		assert.Greater(t, res.State.Rank(), prev.Rank())
		prev = res.State
	}
	assert.EqualValues(t, 3, f.resync.calls.Load())

	_, err := f.m.Press(ctx)
	assert.ErrorIs(t, err, ErrDayCompleted)

	logs, err := f.repo.Logs(ctx, "2025-06-23")
	require.NoError(t, err)
	types := make([]models.LogType, 0, len(logs))
	for _, l := range logs {
		types = append(types, l.Type)
	}
	assert.Equal(t, []models.LogType{models.LogGoWork, models.LogCheckIn, models.LogCheckOut, models.LogComplete}, types)

	status, err := f.repo.Status(ctx, "2025-06-23")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, models.WorkStatusOnTime, status.Status)
	assert.Equal(t, 8.0, status.StandardHours)
}

func TestRapidCheckOutNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	_, err := f.m.Press(ctx)
	require.NoError(t, err)
	f.clock.Set(monday.Add(time.Hour))
	_, err = f.m.Press(ctx)
	require.NoError(t, err)

	f.clock.Advance(30 * time.Second)
	res, err := f.m.Press(ctx)
	rp, ok := AsRapidPress(err)
	require.True(t, ok, "expected RapidPressError, got %v", err)
	assert.Equal(t, 30, rp.ActualDurationSeconds)
	assert.Equal(t, 120, rp.ThresholdSeconds)
	assert.Equal(t, "2025-06-23", rp.Date)
	assert.Equal(t, models.ButtonCheckOut, res.State)

	logs, err := f.repo.Logs(ctx, "2025-06-23")
	require.NoError(t, err)
	assert.False(t, models.Has(logs, models.LogCheckOut), "rapid press must not record check_out")

	res, err = f.m.ConfirmRapidPress(ctx, rp)
	require.NoError(t, err)
	assert.Equal(t, models.ButtonCompletedDay, res.State)

	_, err = f.m.ConfirmRapidPress(ctx, rp)
	assert.ErrorIs(t, err, ErrStaleConfirm)
}

func TestPressWithoutActiveShift(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.m.Press(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveShift)
	assert.Zero(t, f.resync.calls.Load())
}

func TestSimpleModeCompletesInOnePress(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())
	settings := models.DefaultSettings()
	settings.MultiButtonMode = models.ButtonModeSimple
	require.NoError(t, f.repo.SaveSettings(ctx, settings))

	res, err := f.m.Press(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ButtonCompletedDay, res.State)

	status, err := f.repo.Status(ctx, "2025-06-23")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, models.WorkStatusOnTime, status.Status)
}

func TestPerformRejectsOutOfOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	_, err := f.m.Perform(ctx, models.LogCheckIn)
	var ooo *OutOfOrderError
	require.True(t, errors.As(err, &ooo))
	assert.Equal(t, models.ButtonGoWork, ooo.Expected)

	_, err = f.m.Perform(ctx, models.LogGoWork)
	require.NoError(t, err)
}

func TestPunchOnlyWhileCheckedIn(t *testing.T) {
	ctx := context.Background()
	shift := testutil.NewShift().WithPunch().Build()
	f := newFixture(t, &shift)

	_, err := f.m.Perform(ctx, models.LogPunch)
	assert.ErrorIs(t, err, ErrPunchUnavailable)

	_, err = f.m.Press(ctx)
	require.NoError(t, err)
	f.clock.Set(monday.Add(time.Hour))
	_, err = f.m.Press(ctx)
	require.NoError(t, err)

	f.clock.Set(monday.Add(4 * time.Hour))
	res, err := f.m.Perform(ctx, models.LogPunch)
	require.NoError(t, err)
	assert.Equal(t, models.ButtonCheckOut, res.State)
	assert.EqualValues(t, 2, f.resync.calls.Load(), "punch does not affect reminders")
}

func TestManualOverrideSurvivesRecompute(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	st, err := f.m.OverrideStatus(ctx, "2025-06-23", models.WorkStatusDayOff, "public holiday")
	require.NoError(t, err)
	assert.True(t, st.IsManualOverride)

	_, err = f.m.Press(ctx)
	require.NoError(t, err)
	got, err := f.repo.Status(ctx, "2025-06-23")
	require.NoError(t, err)
	assert.Equal(t, models.WorkStatusDayOff, got.Status)
	assert.Equal(t, "public holiday", got.OverrideReason)

	recomputed, err := f.m.RecomputeStatus(ctx, "2025-06-23", true)
	require.NoError(t, err)
	assert.False(t, recomputed.IsManualOverride)
	assert.Equal(t, models.WorkStatusPending, recomputed.Status)
}

func TestResetClearsTheDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	_, err := f.m.Press(ctx)
	require.NoError(t, err)
	require.NoError(t, f.m.Reset(ctx))

	state, err := f.m.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ButtonGoWork, state)
	status, err := f.repo.Status(ctx, "2025-06-23")
	require.NoError(t, err)
	assert.Nil(t, status)
	assert.EqualValues(t, 2, f.resync.calls.Load())
}

func TestSnapshotBeforeResetBoundaryUsesPreviousDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, dayShift())

	// Tuesday 06:00 is before the 07:15 boundary, so Monday is still open.
	f.clock.Set(monday.Add(22 * time.Hour))
	snap, err := f.m.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-23", snap.DateKey)
	assert.Equal(t, testutil.Date(2025, time.June, 24, 7, 15), snap.NextReset)
}
