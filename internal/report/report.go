// Package report builds the monthly attendance summary and renders it as
// PDF and XLSX.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/akyairhashvil/shiftbell/internal/attendance"
	"github.com/akyairhashvil/shiftbell/internal/models"
	"github.com/akyairhashvil/shiftbell/internal/shifttime"
)

// Source is the storage a report reads.
type Source interface {
	ActiveShift(ctx context.Context) (*models.Shift, error)
	StatusesBetween(ctx context.Context, from, to string) ([]models.DailyWorkStatus, error)
}

// Day is one row of the report.
type Day struct {
	Date   time.Time
	Status models.DailyWorkStatus
	Stored bool // false when derived because nothing was recorded
}

// Totals sums a month.
type Totals struct {
	ByStatus       map[models.WorkStatus]int
	StandardHours  float64
	OvertimeHours  float64
	NightHours     float64
	SundayHours    float64
	TotalHours     float64
	LateMinutes    int
	EarlyMinutes   int
	ScheduledHours float64
}

// Month is the attendance summary of one calendar month.
type Month struct {
	Year      int
	Month     time.Month
	ShiftName string
	Days      []Day
	Totals    Totals
}

// Label is "YYYY-MM".
func (m Month) Label() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(v string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return 0, 0, fmt.Errorf("month %q must be YYYY-MM: %w", v, err)
	}
	return t.Year(), t.Month(), nil
}

// Build assembles the report for year/month. Days without a stored status
// are derived from the active shift as of now.
func Build(ctx context.Context, src Source, year int, month time.Month, now time.Time) (Month, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)

	stored, err := src.StatusesBetween(ctx, shifttime.DateKey(first), shifttime.DateKey(last))
	if err != nil {
		return Month{}, fmt.Errorf("load statuses: %w", err)
	}
	byDate := make(map[string]models.DailyWorkStatus, len(stored))
	for _, st := range stored {
		byDate[st.Date] = st
	}
	shift, err := src.ActiveShift(ctx)
	if err != nil {
		return Month{}, fmt.Errorf("load active shift: %w", err)
	}

	m := Month{Year: year, Month: month, Totals: Totals{ByStatus: map[models.WorkStatus]int{}}}
	if shift != nil {
		m.ShiftName = shift.Name
	}
	for d := first; !d.After(last); d = shifttime.AddDays(d, 1) {
		day := Day{Date: d}
		if st, ok := byDate[shifttime.DateKey(d)]; ok {
			day.Status, day.Stored = st, true
		} else if shift != nil {
			day.Status = attendance.ComputeStatus(*shift, d, nil, now)
		} else {
			continue
		}
		m.Days = append(m.Days, day)
		m.Totals.add(day.Status)
	}
	return m, nil
}

func (t *Totals) add(st models.DailyWorkStatus) {
	t.ByStatus[st.Status]++
	t.StandardHours += st.StandardHours
	t.OvertimeHours += st.OvertimeHours
	t.NightHours += st.NightHours
	t.SundayHours += st.SundayHours
	t.TotalHours += st.TotalHours
	t.LateMinutes += st.LateMinutes
	t.EarlyMinutes += st.EarlyMinutes
	if st.Status != models.WorkStatusDayOff {
		t.ScheduledHours += st.ScheduledHours
	}
}

// WriteFiles renders m into dir as attendance_YYYY-MM.pdf and .xlsx.
func WriteFiles(dir string, m Month) (pdfPath, xlsxPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create report dir: %w", err)
	}
	pdfPath = filepath.Join(dir, "attendance_"+m.Label()+".pdf")
	xlsxPath = filepath.Join(dir, "attendance_"+m.Label()+".xlsx")
	if err := writeFile(pdfPath, m, WritePDF); err != nil {
		return "", "", err
	}
	if err := writeFile(xlsxPath, m, WriteXLSX); err != nil {
		return pdfPath, "", err
	}
	return pdfPath, xlsxPath, nil
}

func writeFile(path string, m Month, render func(io.Writer, Month) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f, m); err != nil {
		_ = f.Close()
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func clock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("15:04")
}

func statusLabel(s models.WorkStatus) string {
	switch s {
	case models.WorkStatusOnTime:
		return "On time"
	case models.WorkStatusLate:
		return "Late"
	case models.WorkStatusEarly:
		return "Left early"
	case models.WorkStatusLateEarly:
		return "Late, left early"
	case models.WorkStatusIncomplete:
		return "Incomplete"
	case models.WorkStatusAbsent:
		return "Absent"
	case models.WorkStatusPending:
		return "Pending"
	case models.WorkStatusDayOff:
		return "Day off"
	}
	return string(s)
}
