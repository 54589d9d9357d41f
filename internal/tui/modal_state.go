package tui

import (
	"github.com/akyairhashvil/shiftbell/internal/attendance"
	"github.com/akyairhashvil/shiftbell/internal/models"
)

type ModalType int

const (
	ModalNone ModalType = iota
	ModalRapidPress
	ModalAlert
	ModalReset
	ModalOverride
)

type ModalState interface {
	Type() ModalType
}

// RapidPressState asks whether a too-quick check-out is intended.
type RapidPressState struct {
	Err *attendance.RapidPressError
}

func (s *RapidPressState) Type() ModalType { return ModalRapidPress }

// AlertState shows an alarm the system could not deliver itself.
type AlertState struct {
	Alarm models.ScheduledAlarm
}

func (s *AlertState) Type() ModalType { return ModalAlert }

// ResetState confirms clearing the day's logs.
type ResetState struct {
	DateKey string
}

func (s *ResetState) Type() ModalType { return ModalReset }

// OverrideState edits the status of a date by hand.
type OverrideState struct {
	DateKey string
	Cursor  int
}

func (s *OverrideState) Type() ModalType { return ModalOverride }

// overrideStatuses are the choices offered by the override modal.
var overrideStatuses = []models.WorkStatus{
	models.WorkStatusOnTime,
	models.WorkStatusLate,
	models.WorkStatusEarly,
	models.WorkStatusLateEarly,
	models.WorkStatusIncomplete,
	models.WorkStatusAbsent,
	models.WorkStatusDayOff,
}
