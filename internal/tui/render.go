package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/akyairhashvil/shiftbell/internal/attendance"
	"github.com/akyairhashvil/shiftbell/internal/config"
	"github.com/akyairhashvil/shiftbell/internal/models"
)

func truncateLabel(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if ansi.StringWidth(text) <= max {
		return text
	}
	return ansi.Truncate(text, max, config.TruncationSuffix)
}

func buttonLabel(s models.ButtonState) string {
	switch s {
	case models.ButtonGoWork:
		return "GO TO WORK"
	case models.ButtonCheckIn:
		return "CHECK IN"
	case models.ButtonCheckOut:
		return "CHECK OUT"
	case models.ButtonCompletedDay:
		return "DAY COMPLETED"
	}
	return strings.ToUpper(string(s))
}

func buttonStyle(s models.ButtonState) lipgloss.Style {
	switch s {
	case models.ButtonGoWork:
		return CurrentTheme.GoWork
	case models.ButtonCheckIn:
		return CurrentTheme.CheckIn
	case models.ButtonCheckOut:
		return CurrentTheme.CheckOut
	}
	return CurrentTheme.Completed
}

func actionLabel(t models.LogType) string {
	switch t {
	case models.LogGoWork:
		return "Departure"
	case models.LogCheckIn:
		return "Check-in"
	case models.LogCheckOut:
		return "Check-out"
	case models.LogPunch:
		return "Punch"
	case models.LogComplete:
		return "Completion"
	}
	return string(t)
}

func statusLabel(s models.WorkStatus) string {
	return strings.ReplaceAll(string(s), "_", " ")
}

func statusStyle(s models.WorkStatus) lipgloss.Style {
	switch s {
	case models.WorkStatusOnTime:
		return CurrentTheme.Good
	case models.WorkStatusLate, models.WorkStatusEarly, models.WorkStatusLateEarly, models.WorkStatusIncomplete:
		return CurrentTheme.Warn
	case models.WorkStatusAbsent:
		return CurrentTheme.Bad
	}
	return CurrentTheme.Dim
}

// shiftProgress is the elapsed share of the working span, 0 outside it.
func shiftProgress(snap attendance.Snapshot, now time.Time) float64 {
	start, end := snap.Times.Start, snap.Times.End
	if !end.After(start) || now.Before(start) {
		return 0
	}
	if now.After(end) {
		return 1
	}
	return float64(now.Sub(start)) / float64(end.Sub(start))
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	if m.modal != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderModal())
	}

	var body string
	switch m.viewMode {
	case ViewAlarms:
		body = m.renderAlarms()
	case ViewMonth:
		body = m.renderMonth()
	default:
		body = m.renderToday()
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(CurrentTheme.Border).
		Padding(0, 1).
		Width(max(m.width-4, config.MinPanelWidth))
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		frame.Render(body),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	now := m.svc.Now()
	title := CurrentTheme.Header.Render("shiftbell") + CurrentTheme.Dim.Render(" v"+versionLabel())
	right := now.Format("Mon 2 Jan 15:04:05")
	if m.snap != nil {
		right = "work date " + m.snap.DateKey + "  |  " + right
	}
	gap := m.width - ansi.StringWidth(title) - ansi.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + CurrentTheme.Dim.Render(right)
}

func (m Model) renderFooter() string {
	if m.statusMessage != "" {
		style := CurrentTheme.Good
		if m.statusIsError {
			style = CurrentTheme.Bad
		}
		return style.Render(truncateLabel(m.statusMessage, m.width))
	}
	return CurrentTheme.Dim.Render(truncateLabel(m.keys.HelpForView(m.viewMode), m.width))
}

func (m Model) renderToday() string {
	if m.snap == nil {
		msg := "No active shift configured."
		if m.snapErr != nil && !errors.Is(m.snapErr, attendance.ErrNoActiveShift) {
			msg = m.snapErr.Error()
		}
		return CurrentTheme.Dim.Render(msg)
	}
	snap := *m.snap
	now := m.svc.Now()

	var b strings.Builder
	name := snap.Shift.Name
	if name == "" {
		name = snap.Shift.ID
	}
	fmt.Fprintf(&b, "%s  %s\n", CurrentTheme.Focused.Render(name),
		CurrentTheme.Dim.Render(fmt.Sprintf("leave %s  |  %s to %s  |  overtime until %s",
			snap.Departure.Format("15:04"),
			snap.Times.Start.Format("15:04"),
			snap.Times.OfficeEnd.Format("15:04"),
			snap.Times.End.Format("15:04"))))

	button := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(CurrentTheme.Border).
		Padding(0, 3).
		Render(buttonStyle(snap.State).Render(buttonLabel(snap.State)))
	b.WriteString("\n" + button + "\n")
	fmt.Fprintf(&b, "%s %s\n", m.progress.ViewAs(shiftProgress(snap, now)), CurrentTheme.Dim.Render("mode "+string(snap.Mode)))

	b.WriteString("\n")
	if len(snap.Logs) == 0 {
		b.WriteString(CurrentTheme.Dim.Render("Nothing recorded yet.") + "\n")
	}
	logs := snap.Logs
	if len(logs) > config.MaxVisibleLogs {
		logs = logs[len(logs)-config.MaxVisibleLogs:]
	}
	for _, l := range logs {
		fmt.Fprintf(&b, "  %s  %s\n", l.Time.Format("15:04"), actionLabel(l.Type))
	}

	if st := snap.Status; st != nil {
		line := statusStyle(st.Status).Render(statusLabel(st.Status))
		if st.LateMinutes > 0 {
			line += fmt.Sprintf("  late %dm", st.LateMinutes)
		}
		if st.EarlyMinutes > 0 {
			line += fmt.Sprintf("  early %dm", st.EarlyMinutes)
		}
		if st.TotalHours > 0 {
			line += fmt.Sprintf("  %.2fh", st.TotalHours)
		}
		if st.IsManualOverride {
			line += CurrentTheme.Dim.Render("  (manual: " + st.OverrideReason + ")")
		}
		b.WriteString("\n" + line + "\n")
	}
	if !snap.NextReset.IsZero() {
		b.WriteString(CurrentTheme.Dim.Render("resets "+snap.NextReset.Format("Mon 15:04")) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderAlarms() string {
	if len(m.alarms) == 0 {
		return CurrentTheme.Dim.Render("No pending alarms.")
	}
	width := max(m.width-30, 10)
	var b strings.Builder
	b.WriteString(CurrentTheme.Header.Render("Pending alarms") + "\n")
	shown := m.alarms
	if len(shown) > config.MaxVisibleAlarms {
		shown = shown[:config.MaxVisibleAlarms]
	}
	for _, a := range shown {
		label := a.Title
		if a.Message != "" {
			label += ": " + a.Message
		}
		fmt.Fprintf(&b, "  %s  %s\n",
			CurrentTheme.Highlight.Render(a.ScheduledTime.Format("Mon 02 15:04")),
			truncateLabel(label, width))
	}
	if hidden := len(m.alarms) - len(shown); hidden > 0 {
		fmt.Fprintf(&b, "  %s\n", CurrentTheme.Dim.Render(fmt.Sprintf("and %d more", hidden)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderMonth() string {
	if len(m.month) == 0 {
		return CurrentTheme.Dim.Render("No statuses recorded this month.")
	}
	var b strings.Builder
	b.WriteString(CurrentTheme.Header.Render(m.svc.Now().Format("January 2006")) + "\n")
	var total float64
	for _, st := range m.month {
		fmt.Fprintf(&b, "  %s  %-12s %6.2fh\n", st.Date, statusStyle(st.Status).Render(statusLabel(st.Status)), st.TotalHours)
		total += st.TotalHours
	}
	fmt.Fprintf(&b, "\n  total %.2fh", total)
	return b.String()
}

func (m Model) renderModal() string {
	var b strings.Builder
	switch st := m.modal.(type) {
	case *RapidPressState:
		b.WriteString(CurrentTheme.Focused.Render("Check out already?") + "\n\n")
		fmt.Fprintf(&b, "Checked in at %s, only %s ago.\n\n",
			st.Err.CheckInTime.Format("15:04"),
			time.Duration(st.Err.ActualDurationSeconds)*time.Second)
		b.WriteString(CurrentTheme.Dim.Render("[y] check out  [n] cancel"))
	case *AlertState:
		b.WriteString(CurrentTheme.Alert.Render(st.Alarm.Title) + "\n\n")
		if st.Alarm.Message != "" {
			b.WriteString(st.Alarm.Message + "\n\n")
		}
		b.WriteString(CurrentTheme.Dim.Render("[s] snooze  [enter] dismiss"))
	case *ResetState:
		b.WriteString(CurrentTheme.Focused.Render("Reset "+st.DateKey+"?") + "\n\n")
		b.WriteString("All actions recorded for this work date are removed.\n\n")
		b.WriteString(CurrentTheme.Dim.Render("[y] reset  [n] cancel"))
	case *OverrideState:
		b.WriteString(CurrentTheme.Focused.Render("Set status for "+st.DateKey) + "\n\n")
		for i, s := range overrideStatuses {
			cursor := "  "
			label := statusLabel(s)
			if i == st.Cursor {
				cursor = CurrentTheme.Focused.Render("> ")
				label = CurrentTheme.Highlight.Render(label)
			}
			b.WriteString(cursor + label + "\n")
		}
		b.WriteString("\n" + CurrentTheme.Input.Render(m.reasonInput.View()) + "\n")
		b.WriteString(CurrentTheme.Dim.Render("[up/down] choose  [enter] save  [esc] cancel"))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(CurrentTheme.Border).
		Padding(1, 2).
		Render(b.String())
}
