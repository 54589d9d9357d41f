package attendance

import (
	"errors"
	"fmt"
	"time"

	"github.com/akyairhashvil/shiftbell/internal/models"
)

var (
	ErrNoActiveShift    = errors.New("no active shift configured")
	ErrDayCompleted     = errors.New("work day already completed")
	ErrPunchUnavailable = errors.New("punch is not available now")
	ErrStaleConfirm     = errors.New("rapid press confirmation no longer applies")
)

// OutOfOrderError is returned when an action does not match the button state.
type OutOfOrderError struct {
	Action   models.LogType
	Expected models.ButtonState
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("cannot record %s while the button expects %s", e.Action, e.Expected)
}

// RapidPressError signals a check-out implausibly soon after check-in. It is
// not a failure: the caller asks the user and then calls ConfirmRapidPress.
type RapidPressError struct {
	Date                  string
	ActualDurationSeconds int
	ThresholdSeconds      int
	CheckInTime           time.Time
	CheckOutTime          time.Time
}

func (e *RapidPressError) Error() string {
	return fmt.Sprintf("check-out %ds after check-in is below the %ds threshold", e.ActualDurationSeconds, e.ThresholdSeconds)
}

// AsRapidPress extracts a RapidPressError from err.
func AsRapidPress(err error) (*RapidPressError, bool) {
	var rp *RapidPressError
	if errors.As(err, &rp) {
		return rp, true
	}
	return nil, false
}
