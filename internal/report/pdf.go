package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Date", 24}, {"Day", 12}, {"Status", 34}, {"In", 14}, {"Out", 14},
	{"Std h", 16}, {"OT h", 16}, {"Night h", 18}, {"Late m", 16}, {"Early m", 16},
}

// WritePDF renders m as an A4 table.
func WritePDF(w io.Writer, m Month) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Attendance "+m.Label(), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	title := fmt.Sprintf("Attendance Report: %s", m.Label())
	if m.ShiftName != "" {
		title += " (" + m.ShiftName + ")"
	}
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, d := range m.Days {
		st := d.Status
		cells := []string{
			d.Date.Format("2006-01-02"),
			d.Date.Format("Mon"),
			statusLabel(st.Status),
			clock(st.CheckIn),
			clock(st.CheckOut),
			fmt.Sprintf("%.2f", st.StandardHours),
			fmt.Sprintf("%.2f", st.OvertimeHours),
			fmt.Sprintf("%.2f", st.NightHours),
			fmt.Sprintf("%d", st.LateMinutes),
			fmt.Sprintf("%d", st.EarlyMinutes),
		}
		if st.IsManualOverride {
			cells[2] += " *"
		}
		for i, c := range pdfColumns {
			pdf.CellFormat(c.width, 6, cells[i], "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	t := m.Totals
	lines := []string{
		fmt.Sprintf("Scheduled hours: %.2f", t.ScheduledHours),
		fmt.Sprintf("Worked hours: %.2f (standard %.2f, overtime %.2f, night %.2f, Sunday %.2f)",
			t.TotalHours, t.StandardHours, t.OvertimeHours, t.NightHours, t.SundayHours),
		fmt.Sprintf("Late: %d min, left early: %d min", t.LateMinutes, t.EarlyMinutes),
	}
	for _, s := range statusOrder {
		if n := t.ByStatus[s]; n > 0 {
			lines = append(lines, fmt.Sprintf("%s: %d", statusLabel(s), n))
		}
	}
	for _, l := range lines {
		pdf.Cell(0, 6, l)
		pdf.Ln(6)
	}
	if hasOverrides(m) {
		pdf.Ln(2)
		pdf.SetFont("Arial", "I", 8)
		pdf.Cell(0, 5, "* status edited by hand")
	}
	return pdf.Output(w)
}

func hasOverrides(m Month) bool {
	for _, d := range m.Days {
		if d.Status.IsManualOverride {
			return true
		}
	}
	return false
}
