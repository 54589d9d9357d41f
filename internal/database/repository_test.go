package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akyairhashvil/shiftbell/internal/mocks"
	"github.com/akyairhashvil/shiftbell/internal/models"
)

func testShift(id string) models.Shift {
	return models.Shift{
		ID:            id,
		StartTime:     "09:00",
		OfficeEndTime: "17:00",
		EndTime:       "17:30",
		DepartureTime: "08:15",
		WorkDays:      []int{1, 2, 3, 4, 5},
	}
}

func TestRepositoryActiveShift(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t, ctx))

	active, err := repo.ActiveShift(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	require.NoError(t, repo.SaveShift(ctx, testShift("a")))
	require.NoError(t, repo.SaveShift(ctx, testShift("b")))
	require.NoError(t, repo.SetActiveShiftID(ctx, "b"))

	active, err = repo.ActiveShift(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "b", active.ID)

	edited := testShift("b")
	edited.StartTime = "10:00"
	require.NoError(t, repo.SaveShift(ctx, edited))
	shifts, err := repo.Shifts(ctx)
	require.NoError(t, err)
	assert.Len(t, shifts, 2)

	active, err = repo.ActiveShift(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10:00", active.StartTime)

	require.NoError(t, repo.DeleteShift(ctx, "b"))
	active, err = repo.ActiveShift(ctx)
	require.NoError(t, err)
	assert.Nil(t, active, "deleted active shift resolves to none")
}

func TestRepositoryLogsAndStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t, ctx))
	at := time.Date(2025, 6, 23, 7, 50, 0, 0, time.UTC)

	logs, err := repo.AppendLogs(ctx, "2025-06-23", models.AttendanceLog{Type: models.LogGoWork, Time: at})
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	require.NoError(t, repo.SaveStatus(ctx, models.DailyWorkStatus{Date: "2025-06-23", Status: models.WorkStatusOnTime}))
	require.NoError(t, repo.SaveStatus(ctx, models.DailyWorkStatus{Date: "2025-06-01", Status: models.WorkStatusLate}))
	in, err := repo.StatusesBetween(ctx, "2025-06-10", "2025-06-30")
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.Equal(t, models.WorkStatusOnTime, in[0].Status)

	require.NoError(t, repo.ClearLogs(ctx, "2025-06-23"))
	require.NoError(t, repo.RemoveStatus(ctx, "2025-06-23"))
	logs, err = repo.Logs(ctx, "2025-06-23")
	require.NoError(t, err)
	assert.Empty(t, logs)
	st, err := repo.Status(ctx, "2025-06-23")
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestRepositorySettingsDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t, ctx))

	s, err := repo.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), s)

	s.AlarmSoundEnabled = false
	require.NoError(t, repo.SaveSettings(ctx, s))
	got, err := repo.Settings(ctx)
	require.NoError(t, err)
	assert.False(t, got.AlarmSoundEnabled)
	assert.True(t, got.AlarmVibrationEnabled)
}

func TestRepositorySurfacesStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mocks.NewMockKVStore(ctrl)
	boom := &OpError{Op: "set", Key: KeyAttendanceLogs, Err: errors.New("disk full")}

	kv.EXPECT().Get(gomock.Any(), KeyAttendanceLogs, gomock.Any()).Return(false, nil)
	kv.EXPECT().Set(gomock.Any(), KeyAttendanceLogs, gomock.Any()).Return(boom)

	repo := NewRepository(kv)
	_, err := repo.AppendLogs(context.Background(), "2025-06-23", models.AttendanceLog{Type: models.LogGoWork})
	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "set", opErr.Op)
}

func TestRepositoryNotes(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t, ctx))
	require.NoError(t, repo.SaveNote(ctx, models.Note{ID: "n1", Title: "Badge"}))
	require.NoError(t, repo.SaveNote(ctx, models.Note{ID: "n1", Title: "Badge card"}))
	notes, err := repo.Notes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Badge card", notes[0].Title)
	require.NoError(t, repo.DeleteNote(ctx, "n1"))
	notes, err = repo.Notes(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
}
