// Package notify delivers fired alarms to the user and mirrors scheduled
// shift reminders into an iCalendar file.
package notify

import (
	"context"
	"errors"
	"fmt"
)

// ErrDeliveryUnavailable means the deliverer cannot reach the user right now;
// callers substitute an in-app alert.
var ErrDeliveryUnavailable = errors.New("notification delivery unavailable")

// Notification is what the user sees when an alarm fires.
type Notification struct {
	ID               string
	Title            string
	Message          string
	SoundEnabled     bool
	VibrationEnabled bool
}

// Deliverer shows a notification.
//
//go:generate mockgen -destination=../mocks/mock_deliverer.go -package=mocks github.com/akyairhashvil/shiftbell/internal/notify Deliverer
type Deliverer interface {
	Deliver(ctx context.Context, n Notification) error
}

// Chain tries each deliverer in order and stops at the first that is
// available. It returns ErrDeliveryUnavailable when none is.
type Chain []Deliverer

func (c Chain) Deliver(ctx context.Context, n Notification) error {
	var errs []error
	for _, d := range c {
		err := d.Deliver(ctx, n)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrDeliveryUnavailable) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrDeliveryUnavailable, errors.Join(errs...))
	}
	return ErrDeliveryUnavailable
}
