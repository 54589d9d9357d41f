package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubDeliverer struct {
	err   error
	calls int
}

func (s *stubDeliverer) Deliver(context.Context, Notification) error {
	s.calls++
	return s.err
}

func TestChainStopsAtFirstAvailable(t *testing.T) {
	first := &stubDeliverer{err: ErrDeliveryUnavailable}
	second := &stubDeliverer{}
	third := &stubDeliverer{}

	err := Chain{first, second, third}.Deliver(context.Background(), Notification{Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Zero(t, third.calls)
}

func TestChainReportsUnavailable(t *testing.T) {
	boom := errors.New("boom")
	err := Chain{&stubDeliverer{err: ErrDeliveryUnavailable}, &stubDeliverer{err: boom}}.
		Deliver(context.Background(), Notification{})
	assert.ErrorIs(t, err, ErrDeliveryUnavailable)
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, Chain{}.Deliver(context.Background(), Notification{}), ErrDeliveryUnavailable)
}

func TestTerminalUnavailableWithoutTTY(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	err = NewTerminal(f).Deliver(context.Background(), Notification{Title: "Check in"})
	assert.ErrorIs(t, err, ErrDeliveryUnavailable)
}

func TestDesktopUnavailableWithoutBinary(t *testing.T) {
	err := (&Desktop{}).Deliver(context.Background(), Notification{})
	assert.ErrorIs(t, err, ErrDeliveryUnavailable)
}

func TestLogDeliverer(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	d := NewLog(zap.New(core))

	require.NoError(t, d.Deliver(context.Background(), Notification{ID: "checkin-20250623", Title: "Check in"}))
	entries := logs.FilterMessage("alarm").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "checkin-20250623", entries[0].ContextMap()["id"])
}

func TestNopMirror(t *testing.T) {
	var m Mirror = NopMirror{}
	assert.NoError(t, m.Schedule(context.Background(), MirrorEntry{ID: "x"}))
	assert.NoError(t, m.CancelByPrefix(context.Background(), "x"))
}

func TestICSMirrorMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reminders.ics")
	m, err := NewICSMirror(path, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, m.Entries())
}
