package notify

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestICSMirrorPersistsAndCancels(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reminders.ics")
	at := time.Date(2025, time.June, 23, 8, 55, 0, 0, time.UTC)

	m, err := NewICSMirror(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Schedule(ctx, MirrorEntry{ID: "checkin-20250623", Title: "Check in", At: at}))
	require.NoError(t, m.Schedule(ctx, MirrorEntry{ID: "checkout-20250623", Title: "Check out", At: at.Add(8 * time.Hour)}))
	require.NoError(t, m.Schedule(ctx, MirrorEntry{ID: "checkin-20250623", Title: "Check in now", At: at}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "BEGIN:VALARM")
	assert.Equal(t, 2, strings.Count(string(raw), "BEGIN:VEVENT"))

	reopened, err := NewICSMirror(path, zap.NewNop())
	require.NoError(t, err)
	entries := reopened.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "checkin-20250623", entries[0].ID)
	assert.Equal(t, "Check in now", entries[0].Title)
	assert.True(t, entries[0].At.Equal(at))

	require.NoError(t, reopened.CancelByPrefix(ctx, "checkin-"))
	require.NoError(t, reopened.CancelByPrefix(ctx, "departure-"))
	entries = reopened.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "checkout-20250623", entries[0].ID)
}

func TestICSMirrorRejectsEmptyID(t *testing.T) {
	m, err := NewICSMirror(filepath.Join(t.TempDir(), "r.ics"), zap.NewNop())
	require.NoError(t, err)
	assert.Error(t, m.Schedule(context.Background(), MirrorEntry{Title: "x", At: time.Now()}))
	assert.Empty(t, m.Entries())
}
