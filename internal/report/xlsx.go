package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/akyairhashvil/shiftbell/internal/models"
)

var statusOrder = []models.WorkStatus{
	models.WorkStatusOnTime, models.WorkStatusLate, models.WorkStatusEarly, models.WorkStatusLateEarly,
	models.WorkStatusIncomplete, models.WorkStatusAbsent, models.WorkStatusPending, models.WorkStatusDayOff,
}

var xlsxHeader = []string{
	"Date", "Day", "Status", "Check in", "Check out", "Scheduled h", "Standard h",
	"Overtime h", "Night h", "Sunday h", "Total h", "Late min", "Early min", "Override reason",
}

// WriteXLSX renders m as a workbook with a day sheet and a summary sheet.
func WriteXLSX(w io.Writer, m Month) error {
	f := excelize.NewFile()
	defer f.Close()

	days := "Days"
	idx, err := f.NewSheet(days)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	for i, h := range xlsxHeader {
		if err := f.SetCellValue(days, cell(i, 1), h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(days, cell(0, 1), cell(len(xlsxHeader)-1, 1), headerStyle); err != nil {
		return err
	}
	_ = f.SetColWidth(days, "A", "A", 12)
	_ = f.SetColWidth(days, "C", "C", 16)
	_ = f.SetColWidth(days, "N", "N", 28)

	for r, d := range m.Days {
		st := d.Status
		row := []any{
			d.Date.Format("2006-01-02"), d.Date.Format("Mon"), statusLabel(st.Status),
			clock(st.CheckIn), clock(st.CheckOut), st.ScheduledHours, st.StandardHours,
			st.OvertimeHours, st.NightHours, st.SundayHours, st.TotalHours,
			st.LateMinutes, st.EarlyMinutes, st.OverrideReason,
		}
		if err := f.SetSheetRow(days, cell(0, r+2), &row); err != nil {
			return err
		}
	}

	summary := "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return err
	}
	t := m.Totals
	rows := [][]any{
		{"Month", m.Label()},
		{"Shift", m.ShiftName},
		{"Scheduled hours", t.ScheduledHours},
		{"Total hours", t.TotalHours},
		{"Standard hours", t.StandardHours},
		{"Overtime hours", t.OvertimeHours},
		{"Night hours", t.NightHours},
		{"Sunday hours", t.SundayHours},
		{"Late minutes", t.LateMinutes},
		{"Early minutes", t.EarlyMinutes},
	}
	for _, s := range statusOrder {
		rows = append(rows, []any{statusLabel(s), t.ByStatus[s]})
	}
	for i := range rows {
		if err := f.SetSheetRow(summary, cell(0, i+1), &rows[i]); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(summary, "A", "A", 20)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
