package alarms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/akyairhashvil/shiftbell/internal/config"
	"github.com/akyairhashvil/shiftbell/internal/models"
	"github.com/akyairhashvil/shiftbell/internal/shifttime"
)

// ScheduleNote replaces the reminders of note: one at its absolute reminder
// time and one per upcoming work day of each bound shift at its reminder
// clock. Only instants inside the scheduling horizon are written; callers
// re-run this as days pass. It returns the number of alarms written.
func (s *Store) ScheduleNote(ctx context.Context, note models.Note, shifts []models.Shift, settings models.Settings) (int, error) {
	if _, err := s.CancelNote(ctx, note.ID); err != nil {
		return 0, err
	}
	now := s.now()
	horizon := now.Add(config.ScheduleHorizon)
	base := models.ScheduledAlarm{
		Kind:             models.AlarmNoteReminder,
		RelatedID:        note.ID,
		Title:            note.Title,
		Message:          note.Content,
		SoundEnabled:     settings.AlarmSoundEnabled,
		VibrationEnabled: settings.AlarmVibrationEnabled,
	}

	written := 0
	write := func(a models.ScheduledAlarm) error {
		if _, err := s.Schedule(ctx, a); err != nil {
			if errors.Is(err, ErrPastTrigger) {
				s.logger.Debug("note reminder already past", zap.String("id", a.ID))
				return nil
			}
			return err
		}
		written++
		return nil
	}

	if note.ReminderTime != nil && note.ReminderTime.After(now) && !note.ReminderTime.After(horizon) {
		a := base
		a.ID = "note_" + note.ID
		a.ScheduledTime = *note.ReminderTime
		a.AnchorTime = a.ScheduledTime
		if err := write(a); err != nil {
			return written, err
		}
	}

	if note.ReminderClock == "" || len(note.ShiftIDs) == 0 {
		return written, nil
	}
	if _, _, err := shifttime.ParseClock(note.ReminderClock); err != nil {
		return written, fmt.Errorf("note %s: %w", note.ID, err)
	}
	byID := make(map[string]models.Shift, len(shifts))
	for _, sh := range shifts {
		byID[sh.ID] = sh
	}
	today := shifttime.Midnight(now)
	for _, shiftID := range note.ShiftIDs {
		shift, ok := byID[shiftID]
		if !ok {
			s.logger.Warn("note bound to unknown shift", zap.String("note", note.ID), zap.String("shift", shiftID))
			continue
		}
		n := 0
		for offset := 0; offset <= int(config.ScheduleHorizon/(24*time.Hour)); offset++ {
			day := shifttime.AddDays(today, offset)
			at := shifttime.At(day, note.ReminderClock)
			if !shifttime.WorksOn(shift, day) || !at.After(now) || at.After(horizon) {
				continue
			}
			a := base
			a.ID = fmt.Sprintf("note_shift_%s_%s_%d", note.ID, shift.ID, n)
			a.ScheduledTime = at
			a.AnchorTime = at
			if err := write(a); err != nil {
				return written, err
			}
			n++
		}
	}
	return written, nil
}

// CancelNote removes every reminder of note id.
func (s *Store) CancelNote(ctx context.Context, id string) (int, error) {
	return s.CancelByRelatedID(ctx, models.AlarmNoteReminder, id)
}
