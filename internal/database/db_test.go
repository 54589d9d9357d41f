package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T, ctx context.Context) *Database {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	db, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("db close failed: %v", err)
		}
	})
	return db
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	if err := db.Close(); err != nil {
		t.Fatalf("db close failed: %v", err)
	}
	again, err := Open(ctx, db.Path())
	if err != nil {
		t.Fatalf("Open second run failed: %v", err)
	}
	_ = again.Close()
}

func TestKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	if err := db.Set(ctx, "p", payload{Name: "a", Count: 2}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	var got payload
	found, err := db.Get(ctx, "p", &got)
	if err != nil || !found {
		t.Fatalf("Get = %v, %v", found, err)
	}
	if got.Name != "a" || got.Count != 2 {
		t.Fatalf("unexpected value %+v", got)
	}

	if err := db.Set(ctx, "p", payload{Name: "b"}); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	if _, err := db.Get(ctx, "p", &got); err != nil || got.Name != "b" {
		t.Fatalf("expected overwritten value, got %+v (%v)", got, err)
	}
}

func TestKVMissingKeyKeepsDefault(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)

	value := "default"
	found, err := db.Get(ctx, "nope", &value)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found || value != "default" {
		t.Fatalf("expected default to survive, got %q (found=%v)", value, found)
	}
	if err := db.Remove(ctx, "nope"); err != nil {
		t.Fatalf("removing a missing key should be a no-op: %v", err)
	}
}

func TestKVDecodeErrorIsOpError(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	if _, err := db.DB.ExecContext(ctx, "INSERT INTO kv (key, value) VALUES ('bad', '{not json')"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	var v map[string]any
	_, err := db.Get(ctx, "bad", &v)
	var opErr *OpError
	if !errors.As(err, &opErr) || opErr.Op != "decode" || opErr.Key != "bad" {
		t.Fatalf("expected decode OpError, got %v", err)
	}
}

func TestKeysSorted(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	for _, k := range []string{"b", "a", "c"} {
		if err := db.Set(ctx, k, 1); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	keys, err := db.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 3 || keys[0] != "a" || keys[2] != "c" {
		t.Fatalf("unexpected keys %v", keys)
	}
}
