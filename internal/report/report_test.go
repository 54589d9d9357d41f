package report

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/akyairhashvil/shiftbell/internal/models"
	"github.com/akyairhashvil/shiftbell/internal/testutil"
	"github.com/akyairhashvil/shiftbell/internal/util"
)

func buildJune(t *testing.T) Month {
	t.Helper()
	ctx := context.Background()
	repo, _ := testutil.NewRepository(t)
	shift := testutil.NewShift().Build()
	require.NoError(t, repo.SaveShift(ctx, shift))
	require.NoError(t, repo.SetActiveShiftID(ctx, shift.ID))

	in := testutil.Date(2025, time.June, 2, 9, 10)
	out := testutil.Date(2025, time.June, 2, 17, 30)
	require.NoError(t, repo.SaveStatus(ctx, models.DailyWorkStatus{
		Date: "2025-06-02", ShiftID: shift.ID, Status: models.WorkStatusLate,
		CheckIn: util.Ptr(in), CheckOut: util.Ptr(out),
		ScheduledHours: 8, StandardHours: 7.83, OvertimeHours: 0.5, TotalHours: 8.33, LateMinutes: 10,
	}))
	require.NoError(t, repo.SaveStatus(ctx, models.DailyWorkStatus{
		Date: "2025-06-03", ShiftID: shift.ID, Status: models.WorkStatusDayOff,
		IsManualOverride: true, OverrideReason: "holiday",
	}))
	require.NoError(t, repo.SaveStatus(ctx, models.DailyWorkStatus{Date: "2025-07-01", Status: models.WorkStatusOnTime}))

	m, err := Build(ctx, repo, 2025, time.June, testutil.Date(2025, time.June, 10, 12, 0))
	require.NoError(t, err)
	return m
}

func TestBuildMonth(t *testing.T) {
	m := buildJune(t)
	assert.Equal(t, "2025-06", m.Label())
	assert.Equal(t, "Day shift", m.ShiftName)
	require.Len(t, m.Days, 30)

	assert.True(t, m.Days[1].Stored)
	assert.Equal(t, models.WorkStatusLate, m.Days[1].Status.Status)
	assert.Equal(t, models.WorkStatusDayOff, m.Days[0].Status.Status, "June 1 2025 is a Sunday")
	assert.Equal(t, models.WorkStatusAbsent, m.Days[3].Status.Status, "past work day without records")
	assert.Equal(t, models.WorkStatusPending, m.Days[22].Status.Status, "future work day")

	assert.Equal(t, 10, m.Totals.LateMinutes)
	assert.Equal(t, 1, m.Totals.ByStatus[models.WorkStatusLate])
	assert.InDelta(t, 8.33, m.Totals.TotalHours, 0.001)
}

func TestParseMonth(t *testing.T) {
	y, mo, err := ParseMonth("2025-06")
	require.NoError(t, err)
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.June, mo)

	_, _, err = ParseMonth("June")
	assert.Error(t, err)
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, buildJune(t)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, buildJune(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Days")
	require.NoError(t, err)
	require.Len(t, rows, 31)
	assert.Equal(t, "Status", rows[0][2])
	assert.Equal(t, "2025-06-02", rows[2][0])
	assert.Equal(t, "Late", rows[2][2])
	assert.Equal(t, "09:10", rows[2][3])
	assert.Equal(t, "holiday", rows[3][13])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Month", "2025-06"}, summary[0])
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	pdfPath, xlsxPath, err := WriteFiles(dir, buildJune(t))
	require.NoError(t, err)
	for _, p := range []string{pdfPath, xlsxPath} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
	assert.Contains(t, pdfPath, "attendance_2025-06.pdf")
}
