package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/akyairhashvil/shiftbell/internal/database"
)

// NewRepository opens a throwaway sqlite database for the duration of t.
func NewRepository(t *testing.T) (*database.Repository, *database.Database) {
	t.Helper()
	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return database.NewRepository(db), db
}
