package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
)

const (
	icsProductID  = "-//shiftbell//reminders//EN"
	icsTimeLayout = "20060102T150405Z"
	eventLength   = 5 * time.Minute
)

// ICSMirror mirrors reminders as VEVENTs with a display VALARM in a single
// .ics file that calendar apps can subscribe to.
type ICSMirror struct {
	mu      sync.Mutex
	path    string
	entries map[string]MirrorEntry
	logger  *zap.Logger
}

// NewICSMirror opens the calendar at path, keeping the events already in it.
func NewICSMirror(path string, logger *zap.Logger) (*ICSMirror, error) {
	m := &ICSMirror{
		path:    path,
		entries: make(map[string]MirrorEntry),
		logger:  logger.Named("ics"),
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open calendar: %w", err)
	}
	defer f.Close()
	cal, err := ics.ParseCalendar(f)
	if err != nil {
		return nil, fmt.Errorf("parse calendar %s: %w", path, err)
	}
	for _, evt := range cal.Events() {
		e, ok := entryFromEvent(evt)
		if !ok {
			continue
		}
		m.entries[e.ID] = e
	}
	m.logger.Debug("calendar loaded", zap.String("path", path), zap.Int("events", len(m.entries)))
	return m, nil
}

func (m *ICSMirror) Schedule(_ context.Context, e MirrorEntry) error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("mirror entry without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, had := m.entries[e.ID]
	m.entries[e.ID] = e
	if err := m.flush(); err != nil {
		if had {
			m.entries[e.ID] = prev
		} else {
			delete(m.entries, e.ID)
		}
		return err
	}
	return nil
}

func (m *ICSMirror) CancelByPrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id := range m.entries {
		if strings.HasPrefix(id, prefix) {
			delete(m.entries, id)
			removed++
		}
	}
	if removed == 0 {
		return nil
	}
	return m.flush()
}

// Entries returns the mirrored entries ordered by time.
func (m *ICSMirror) Entries() []MirrorEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MirrorEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].At.Equal(out[j].At) {
			return out[i].ID < out[j].ID
		}
		return out[i].At.Before(out[j].At)
	})
	return out
}

func (m *ICSMirror) flush() error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	now := time.Now()
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		e := m.entries[id]
		evt := cal.AddEvent(e.ID)
		evt.SetDtStampTime(now)
		evt.SetStartAt(e.At)
		evt.SetEndAt(e.At.Add(eventLength))
		evt.SetSummary(e.Title)
		if e.Message != "" {
			evt.SetDescription(e.Message)
		}
		alarm := evt.AddAlarm()
		alarm.SetAction(ics.ActionDisplay)
		alarm.SetTrigger("PT0M")
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create calendar dir: %w", err)
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(cal.Serialize()), 0o644); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("replace calendar: %w", err)
	}
	return nil
}

func entryFromEvent(evt *ics.VEvent) (MirrorEntry, bool) {
	id := evt.Id()
	start := evt.GetProperty(ics.ComponentPropertyDtStart)
	if id == "" || start == nil {
		return MirrorEntry{}, false
	}
	at, err := time.Parse(icsTimeLayout, start.Value)
	if err != nil {
		return MirrorEntry{}, false
	}
	e := MirrorEntry{ID: id, At: at.Local()}
	if p := evt.GetProperty(ics.ComponentPropertySummary); p != nil {
		e.Title = p.Value
	}
	if p := evt.GetProperty(ics.ComponentPropertyDescription); p != nil {
		e.Message = p.Value
	}
	return e, true
}
