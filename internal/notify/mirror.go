package notify

import (
	"context"
	"time"
)

// MirrorEntry is a scheduled reminder copied into an external calendar.
type MirrorEntry struct {
	ID      string
	Title   string
	Message string
	At      time.Time
}

// Mirror keeps an external copy of the scheduled shift reminders.
//
//go:generate mockgen -destination=../mocks/mock_mirror.go -package=mocks github.com/akyairhashvil/shiftbell/internal/notify Mirror
type Mirror interface {
	Schedule(ctx context.Context, e MirrorEntry) error
	CancelByPrefix(ctx context.Context, prefix string) error
}

// NopMirror discards everything.
type NopMirror struct{}

func (NopMirror) Schedule(context.Context, MirrorEntry) error { return nil }
func (NopMirror) CancelByPrefix(context.Context, string) error { return nil }
