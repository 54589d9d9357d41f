package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAlarmTick, cfg.Scheduler.AlarmTick)
	assert.Equal(t, DefaultStormDelay, cfg.Scheduler.StormDelay)
	assert.Equal(t, DefaultRapidPressThreshold, cfg.Attendance.RapidPressThreshold)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shiftbell.yaml")
	body := "log:\n  level: debug\nscheduler:\n  storm_delay: 2m\nattendance:\n  rapid_press_threshold: 45s\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("SHIFTBELL_SCHEDULER_ALARM_TICK", "15s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2*time.Minute, cfg.Scheduler.StormDelay)
	assert.Equal(t, 45*time.Second, cfg.Attendance.RapidPressThreshold)
	assert.Equal(t, 15*time.Second, cfg.Scheduler.AlarmTick)
}

func TestValidateRejectsSlowAlarmTick(t *testing.T) {
	cfg := Default()
	cfg.Scheduler.AlarmTick = 2 * time.Minute
	assert.Error(t, cfg.Validate())

	cfg = Default()
	require.NoError(t, cfg.Validate())
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
