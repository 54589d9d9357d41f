package util

import (
	"os"
	"path/filepath"
	"strings"
)

// DataDir is the per-user directory holding the database and log file,
// $XDG_DATA_HOME/<app> or ~/.local/share/<app>.
func DataDir(app string) string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(base, app)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", app)
	}
	return filepath.Join(home, ".local", "share", app)
}

// ReportsDir is the fallback output directory for monthly reports.
func ReportsDir(app string) string {
	if docs := os.ExpandEnv(strings.TrimSpace(os.Getenv("XDG_DOCUMENTS_DIR"))); docs != "" {
		return filepath.Join(docs, app, "reports")
	}
	return filepath.Join(DataDir(app), "reports")
}
