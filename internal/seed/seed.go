// Package seed imports shift and note definitions from YAML.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/akyairhashvil/shiftbell/internal/models"
)

var ErrUnknownActive = errors.New("active shift not defined in seed")

// SettingsData overrides individual settings; absent keys keep the current
// value.
type SettingsData struct {
	AlarmSound     *bool   `yaml:"alarm_sound"`
	AlarmVibration *bool   `yaml:"alarm_vibration"`
	Language       *string `yaml:"language"`
	ButtonMode     *string `yaml:"button_mode"`
	Theme          *string `yaml:"theme"`
}

// File is the seed document.
type File struct {
	Active   string         `yaml:"active"`
	Settings *SettingsData  `yaml:"settings"`
	Shifts   []models.Shift `yaml:"shifts"`
	Notes    []models.Note  `yaml:"notes"`
}

// Target is where a seed is written.
type Target interface {
	Settings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, s models.Settings) error
	SaveShift(ctx context.Context, shift models.Shift) error
	SetActiveShiftID(ctx context.Context, id string) error
	SaveNote(ctx context.Context, note models.Note) error
}

// Result summarises an import.
type Result struct {
	Shifts        int
	Notes         int
	ActiveShiftID string
}

// Load reads and parses the seed at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read seed: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed, assigns ids to shifts and notes that have none and
// validates every shift. Active and note shift references may use either a
// shift id or its name.
func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse seed: %w", err)
	}

	ids := make(map[string]string, len(f.Shifts))
	for i := range f.Shifts {
		s := &f.Shifts[i]
		if strings.TrimSpace(s.ID) == "" {
			s.ID = uuid.NewString()
		}
		if err := s.Validate(); err != nil {
			return File{}, fmt.Errorf("shift %d (%s): %w", i+1, s.Name, err)
		}
		ids[s.ID] = s.ID
		if s.Name != "" {
			ids[s.Name] = s.ID
		}
	}

	if f.Active != "" {
		id, ok := ids[f.Active]
		if !ok {
			return File{}, fmt.Errorf("%w: %q", ErrUnknownActive, f.Active)
		}
		f.Active = id
	}

	for i := range f.Notes {
		n := &f.Notes[i]
		if strings.TrimSpace(n.ID) == "" {
			n.ID = uuid.NewString()
		}
		for j, ref := range n.ShiftIDs {
			if id, ok := ids[ref]; ok {
				n.ShiftIDs[j] = id
			}
		}
	}
	if f.Settings != nil && f.Settings.ButtonMode != nil {
		switch models.ButtonMode(*f.Settings.ButtonMode) {
		case models.ButtonModeFull, models.ButtonModeSimple, models.ButtonModeAuto:
		default:
			return File{}, fmt.Errorf("parse seed: unknown button_mode %q", *f.Settings.ButtonMode)
		}
	}
	return f, nil
}

// Apply writes f into t.
func Apply(ctx context.Context, t Target, f File) (Result, error) {
	var res Result
	if f.Settings != nil {
		current, err := t.Settings(ctx)
		if err != nil {
			return res, err
		}
		if err := t.SaveSettings(ctx, f.Settings.merge(current)); err != nil {
			return res, fmt.Errorf("save settings: %w", err)
		}
	}
	for _, s := range f.Shifts {
		if err := t.SaveShift(ctx, s); err != nil {
			return res, fmt.Errorf("save shift %s: %w", s.ID, err)
		}
		res.Shifts++
	}
	for _, n := range f.Notes {
		if err := t.SaveNote(ctx, n); err != nil {
			return res, fmt.Errorf("save note %s: %w", n.ID, err)
		}
		res.Notes++
	}
	if f.Active != "" {
		if err := t.SetActiveShiftID(ctx, f.Active); err != nil {
			return res, fmt.Errorf("activate shift %s: %w", f.Active, err)
		}
		res.ActiveShiftID = f.Active
	}
	return res, nil
}

func (s *SettingsData) merge(base models.Settings) models.Settings {
	if s.AlarmSound != nil {
		base.AlarmSoundEnabled = *s.AlarmSound
	}
	if s.AlarmVibration != nil {
		base.AlarmVibrationEnabled = *s.AlarmVibration
	}
	if s.Language != nil {
		base.Language = *s.Language
	}
	if s.ButtonMode != nil {
		base.MultiButtonMode = models.ButtonMode(*s.ButtonMode)
	}
	if s.Theme != nil {
		base.Theme = *s.Theme
	}
	return base
}
