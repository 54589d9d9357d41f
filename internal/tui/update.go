package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/akyairhashvil/shiftbell/internal/app"
	"github.com/akyairhashvil/shiftbell/internal/attendance"
	"github.com/akyairhashvil/shiftbell/internal/config"
	"github.com/akyairhashvil/shiftbell/internal/util"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.progress.Width = util.Clamp(m.width/2, 10, config.ProgressWidth)
		return m, nil
	case TickMsg:
		m.refresh()
		return m, tickCmd()
	case progress.FrameMsg:
		next, cmd := m.progress.Update(msg)
		m.progress = next.(progress.Model)
		return m, cmd
	case eventMsg:
		m = m.handleEvent(app.Event(msg))
		return m, waitForEvent(m.svc.Events())
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.modal != nil {
			return m.updateModal(msg)
		}
		m.statusMessage = ""
		next, cmd, _ := m.keys.Handle(m, msg)
		return next, cmd
	}
	return m, nil
}

func (m Model) handleEvent(e app.Event) Model {
	switch e.Kind {
	case app.EventAlert:
		if m.modal == nil {
			m.modal = &AlertState{Alarm: e.Alarm}
		} else {
			m.alertQueue = append(m.alertQueue, e.Alarm)
		}
	case app.EventWorkDateChanged:
		m.setStatus("New work date "+e.DateKey, false)
	}
	m.refresh()
	return m
}

// closeModal dismisses the open modal and shows the next queued alert.
func (m Model) closeModal() Model {
	m.modal = nil
	m.reasonInput.Blur()
	m.reasonInput.Reset()
	if len(m.alertQueue) > 0 {
		m.modal = &AlertState{Alarm: m.alertQueue[0]}
		m.alertQueue = m.alertQueue[1:]
	}
	return m
}

func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch st := m.modal.(type) {
	case *RapidPressState:
		switch key {
		case "y", "enter":
			res, err := m.svc.Confirm(m.ctx, st.Err)
			m = m.closeModal()
			m = m.afterAction(res, err)
		case "n", "esc":
			m = m.closeModal()
			m.setStatus("Check-out cancelled", false)
		}
	case *AlertState:
		switch key {
		case "s":
			snoozed, err := m.svc.Snooze(m.ctx, st.Alarm, config.DefaultSnoozeMinutes)
			m = m.closeModal()
			if err != nil {
				m.setStatus("Snooze failed: "+err.Error(), true)
			} else {
				m.setStatus("Snoozed until "+snoozed.ScheduledTime.Format("15:04"), false)
			}
			m.refresh()
		case "enter", "esc":
			m = m.closeModal()
		}
	case *ResetState:
		switch key {
		case "y":
			err := m.svc.Reset(m.ctx)
			m = m.closeModal()
			if err != nil {
				m.setStatus("Reset failed: "+err.Error(), true)
			} else {
				m.setStatus("Attendance for "+st.DateKey+" cleared", false)
			}
			m.refresh()
		case "n", "esc":
			m = m.closeModal()
		}
	case *OverrideState:
		switch key {
		case "esc":
			m = m.closeModal()
			return m, nil
		case "up":
			st.Cursor = util.Clamp(st.Cursor-1, 0, len(overrideStatuses)-1)
			return m, nil
		case "down":
			st.Cursor = util.Clamp(st.Cursor+1, 0, len(overrideStatuses)-1)
			return m, nil
		case "enter":
			status := overrideStatuses[st.Cursor]
			reason := strings.TrimSpace(m.reasonInput.Value())
			_, err := m.svc.OverrideStatus(m.ctx, st.DateKey, status, reason)
			m = m.closeModal()
			if err != nil {
				m.setStatus("Override failed: "+err.Error(), true)
			} else {
				m.setStatus(fmt.Sprintf("%s marked %s", st.DateKey, statusLabel(status)), false)
			}
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.reasonInput, cmd = m.reasonInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// afterAction reports the outcome of a button action. A rapid check-out
// opens the confirmation modal instead.
func (m Model) afterAction(res attendance.Result, err error) Model {
	if rp, ok := attendance.AsRapidPress(err); ok {
		m.modal = &RapidPressState{Err: rp}
		return m
	}
	var order *attendance.OutOfOrderError
	switch {
	case err == nil:
		m.setStatus(fmt.Sprintf("%s recorded for %s", actionLabel(res.Action), res.Date), false)
	case errors.As(err, &order):
		m.setStatus(err.Error(), true)
	case errors.Is(err, attendance.ErrNoActiveShift):
		m.setStatus("No active shift. Import one with --import-seed.", true)
	default:
		m.logger.Error("attendance action failed", zap.Error(err))
		m.setStatus(err.Error(), true)
	}
	m.refresh()
	return m
}

// --- Key handlers ---

func handlePress(m Model) (Model, tea.Cmd, bool) {
	res, err := m.svc.Press(m.ctx)
	return m.afterAction(res, err), nil, true
}

func handlePunch(m Model) (Model, tea.Cmd, bool) {
	if m.snap == nil || !m.snap.Shift.ShowPunch {
		return m, nil, false
	}
	res, err := m.svc.Punch(m.ctx)
	return m.afterAction(res, err), nil, true
}

func handleOpenReset(m Model) (Model, tea.Cmd, bool) {
	if m.snap == nil {
		return m, nil, false
	}
	m.modal = &ResetState{DateKey: m.snap.DateKey}
	return m, nil, true
}

func handleOpenOverride(m Model) (Model, tea.Cmd, bool) {
	if m.snap == nil {
		return m, nil, false
	}
	m.modal = &OverrideState{DateKey: m.snap.DateKey}
	m.reasonInput.Reset()
	cmd := m.reasonInput.Focus()
	return m, cmd, true
}

func handleNextView(m Model) (Model, tea.Cmd, bool) {
	m.viewMode = (m.viewMode + 1) % viewCount
	return m, nil, true
}

func handleNextTheme(m Model) (Model, tea.Cmd, bool) {
	m.settings.Theme = nextTheme(m.settings.Theme)
	SetTheme(m.settings.Theme)
	if err := m.svc.SaveSettings(m.ctx, m.settings); err != nil {
		m.setStatus("Could not save theme: "+err.Error(), true)
	}
	return m, nil, true
}

func handleQuit(m Model) (Model, tea.Cmd, bool) {
	return m, tea.Quit, true
}
