// Package alarms holds the table of scheduled alarms, decides whether a due
// alarm may still be delivered and dispatches the ones that may.
package alarms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/akyairhashvil/shiftbell/internal/config"
	"github.com/akyairhashvil/shiftbell/internal/models"
)

var (
	ErrEmptyID       = errors.New("alarm id is empty")
	ErrPastTrigger   = errors.New("alarm trigger is not in the future")
	ErrInvalidSnooze = errors.New("snooze too short")
)

// Persister stores the alarm table as a whole.
type Persister interface {
	Alarms(ctx context.Context) ([]models.ScheduledAlarm, error)
	SaveAlarms(ctx context.Context, alarms []models.ScheduledAlarm) error
}

// Store is the in-memory alarm table, written through to a Persister after
// every mutation. Ids are unique; scheduling an existing id replaces it.
type Store struct {
	mu      sync.Mutex
	alarms  map[string]models.ScheduledAlarm
	// retired holds entries removed by CancelWhere until they are scheduled
	// again or fall due, so an unchanged rebuild keeps its ScheduledAt.
	retired map[string]models.ScheduledAlarm
	persist Persister
	logger  *zap.Logger
	now     func() time.Time
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithStoreClock replaces the wall clock.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func NewStore(p Persister, logger *zap.Logger, opts ...StoreOption) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		alarms:  make(map[string]models.ScheduledAlarm),
		retired: make(map[string]models.ScheduledAlarm),
		persist: p,
		logger:  logger.Named("alarms"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now is the store's clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// Load replaces the table with the persisted one, discarding entries that
// are already due or lie beyond the scheduling horizon.
func (s *Store) Load(ctx context.Context) error {
	stored, err := s.persist.Alarms(ctx)
	if err != nil {
		return fmt.Errorf("load alarms: %w", err)
	}
	now := s.now()
	horizon := now.Add(config.ScheduleHorizon)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.alarms = make(map[string]models.ScheduledAlarm, len(stored))
	discarded := 0
	for _, a := range stored {
		if !a.ScheduledTime.After(now) || a.ScheduledTime.After(horizon) {
			discarded++
			continue
		}
		s.alarms[a.ID] = a
	}
	s.logger.Info("alarms loaded", zap.Int("kept", len(s.alarms)), zap.Int("discarded", discarded))
	if discarded > 0 {
		return s.saveLocked(ctx)
	}
	return nil
}

// Schedule inserts or replaces alarm by id and stamps its schedule-call
// instant. The trigger is checked against the clock under the table lock.
// Re-scheduling an id at the trigger it already had, whether still pending
// or removed by CancelWhere, keeps the earlier stamp.
func (s *Store) Schedule(ctx context.Context, alarm models.ScheduledAlarm) (models.ScheduledAlarm, error) {
	if strings.TrimSpace(alarm.ID) == "" {
		return alarm, ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if !alarm.ScheduledTime.After(now) {
		return alarm, fmt.Errorf("%w: %s at %s", ErrPastTrigger, alarm.ID, alarm.ScheduledTime.Format(time.RFC3339))
	}
	alarm.ScheduledAt = now
	if prev, ok := s.previousLocked(alarm.ID); ok && prev.ScheduledTime.Equal(alarm.ScheduledTime) {
		alarm.ScheduledAt = prev.ScheduledAt
	}
	delete(s.retired, alarm.ID)
	s.alarms[alarm.ID] = alarm
	s.logger.Debug("alarm scheduled", zap.String("id", alarm.ID), zap.Time("at", alarm.ScheduledTime))
	return alarm, s.saveLocked(ctx)
}

// Cancel removes id. A missing id is not an error.
func (s *Store) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alarms[id]; !ok {
		return nil
	}
	delete(s.alarms, id)
	return s.saveLocked(ctx)
}

// CancelByPattern removes every alarm whose id starts with prefix.
func (s *Store) CancelByPattern(ctx context.Context, prefix string) (int, error) {
	return s.CancelWhere(ctx, func(a models.ScheduledAlarm) bool {
		return strings.HasPrefix(a.ID, prefix)
	})
}

// CancelByRelatedID removes every alarm of kind that belongs to relatedID.
func (s *Store) CancelByRelatedID(ctx context.Context, kind models.AlarmKind, relatedID string) (int, error) {
	return s.CancelWhere(ctx, func(a models.ScheduledAlarm) bool {
		return a.Kind == kind && a.RelatedID == relatedID
	})
}

// CancelWhere removes every alarm match accepts, in one write.
func (s *Store) CancelWhere(ctx context.Context, match func(models.ScheduledAlarm) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, a := range s.retired {
		if !a.ScheduledTime.After(now) {
			delete(s.retired, id)
		}
	}
	n := 0
	for id, a := range s.alarms {
		if match(a) {
			delete(s.alarms, id)
			s.retired[id] = a
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return n, s.saveLocked(ctx)
}

// Tick removes and returns every alarm due at now, earliest first. Removed
// entries are never restored, whatever the caller does with them.
func (s *Store) Tick(ctx context.Context, now time.Time) ([]models.ScheduledAlarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []models.ScheduledAlarm
	for id, a := range s.alarms {
		if !a.ScheduledTime.After(now) {
			due = append(due, a)
			delete(s.alarms, id)
		}
	}
	if len(due) == 0 {
		return nil, nil
	}
	sortAlarms(due)
	return due, s.saveLocked(ctx)
}

// Pending returns the scheduled alarms, earliest first.
func (s *Store) Pending() []models.ScheduledAlarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Get looks up a scheduled alarm.
func (s *Store) Get(id string) (models.ScheduledAlarm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alarms[id]
	return a, ok
}

// Snooze schedules a copy of alarm minutes from now under a fresh id. The
// original is not restored.
func (s *Store) Snooze(ctx context.Context, alarm models.ScheduledAlarm, minutes int) (models.ScheduledAlarm, error) {
	least := int(config.RescheduleRaceGuard / time.Minute)
	if minutes < least {
		return models.ScheduledAlarm{}, fmt.Errorf("%w: %d minutes, need at least %d", ErrInvalidSnooze, minutes, least)
	}
	now := s.now()
	clone := alarm
	clone.ID = fmt.Sprintf("%s_snooze_%d", alarm.ID, now.UnixMilli())
	clone.ScheduledTime = now.Add(time.Duration(minutes) * time.Minute)
	return s.Schedule(ctx, clone)
}

func (s *Store) previousLocked(id string) (models.ScheduledAlarm, bool) {
	if a, ok := s.alarms[id]; ok {
		return a, true
	}
	a, ok := s.retired[id]
	return a, ok
}

func (s *Store) snapshotLocked() []models.ScheduledAlarm {
	out := make([]models.ScheduledAlarm, 0, len(s.alarms))
	for _, a := range s.alarms {
		out = append(out, a)
	}
	sortAlarms(out)
	return out
}

func (s *Store) saveLocked(ctx context.Context) error {
	if err := s.persist.SaveAlarms(ctx, s.snapshotLocked()); err != nil {
		s.logger.Error("persist alarms failed", zap.Error(err))
		return fmt.Errorf("persist alarms: %w", err)
	}
	return nil
}

func sortAlarms(list []models.ScheduledAlarm) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].ScheduledTime.Equal(list[j].ScheduledTime) {
			return list[i].ID < list[j].ID
		}
		return list[i].ScheduledTime.Before(list[j].ScheduledTime)
	})
}

// IsSnooze reports whether id names a snoozed copy.
func IsSnooze(id string) bool {
	return strings.Contains(id, "_snooze_")
}
