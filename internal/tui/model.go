package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/akyairhashvil/shiftbell/internal/app"
	"github.com/akyairhashvil/shiftbell/internal/attendance"
	"github.com/akyairhashvil/shiftbell/internal/config"
	"github.com/akyairhashvil/shiftbell/internal/models"
)

// View Modes
const (
	ViewToday  = 0
	ViewAlarms = 1
	ViewMonth  = 2
	viewCount  = 3
)

// Service is what the TUI drives. *app.App implements it.
type Service interface {
	Snapshot(ctx context.Context) (attendance.Snapshot, error)
	Press(ctx context.Context) (attendance.Result, error)
	Confirm(ctx context.Context, rp *attendance.RapidPressError) (attendance.Result, error)
	Punch(ctx context.Context) (attendance.Result, error)
	Reset(ctx context.Context) error
	OverrideStatus(ctx context.Context, dateKey string, status models.WorkStatus, reason string) (models.DailyWorkStatus, error)
	PendingAlarms() []models.ScheduledAlarm
	Snooze(ctx context.Context, alarm models.ScheduledAlarm, minutes int) (models.ScheduledAlarm, error)
	MonthStatuses(ctx context.Context, date time.Time) ([]models.DailyWorkStatus, error)
	Settings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, s models.Settings) error
	Events() <-chan app.Event
	Now() time.Time
}

// --- Messages ---
type TickMsg time.Time

type eventMsg app.Event

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func waitForEvent(ch <-chan app.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(e)
	}
}

// --- Model ---
type Model struct {
	ctx    context.Context
	svc    Service
	logger *zap.Logger
	keys   *keyMap

	snap     *attendance.Snapshot
	snapErr  error
	alarms   []models.ScheduledAlarm
	month    []models.DailyWorkStatus
	settings models.Settings

	viewMode    int
	modal       ModalState
	alertQueue  []models.ScheduledAlarm
	reasonInput textinput.Model
	progress    progress.Model

	statusMessage string
	statusIsError bool
	width, height int
}

func NewModel(ctx context.Context, svc Service, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	ri := textinput.New()
	ri.Placeholder = "Reason..."
	ri.CharLimit = config.MaxReasonLength
	ri.Width = 40

	m := Model{
		ctx:         ctx,
		svc:         svc,
		logger:      logger.Named("tui"),
		keys:        newKeyMap(),
		reasonInput: ri,
		progress:    progress.New(progress.WithDefaultGradient()),
	}
	m.progress.Width = config.ProgressWidth
	if s, err := svc.Settings(ctx); err == nil {
		m.settings = s
		SetTheme(s.Theme)
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), waitForEvent(m.svc.Events()))
}

// refresh reloads everything the views render.
func (m *Model) refresh() {
	snap, err := m.svc.Snapshot(m.ctx)
	if err != nil {
		m.snap, m.snapErr = nil, err
	} else {
		m.snap, m.snapErr = &snap, nil
	}
	m.alarms = m.svc.PendingAlarms()
	month, err := m.svc.MonthStatuses(m.ctx, m.svc.Now())
	if err != nil {
		m.logger.Warn("load month statuses", zap.Error(err))
	}
	m.month = month
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMessage = msg
	m.statusIsError = isErr
}
