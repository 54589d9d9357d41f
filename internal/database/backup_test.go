package database

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestBackupPlainRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t, ctx)
	if err := src.Set(ctx, KeyActiveShiftID, "s1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	var buf bytes.Buffer
	if err := src.ExportBackup(ctx, &buf, ""); err != nil {
		t.Fatalf("ExportBackup failed: %v", err)
	}
	if !strings.Contains(buf.String(), KeyActiveShiftID) {
		t.Fatalf("plain backup should be readable JSON")
	}

	dst := setupTestDB(t, ctx)
	if err := dst.RestoreBackup(ctx, &buf, ""); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	var id string
	if found, err := dst.Get(ctx, KeyActiveShiftID, &id); err != nil || !found || id != "s1" {
		t.Fatalf("restored value = %q, %v, %v", id, found, err)
	}
}

func TestBackupEncryptedRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t, ctx)
	if err := src.Set(ctx, KeyNotes, []string{"secret note"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	var buf bytes.Buffer
	if err := src.ExportBackup(ctx, &buf, "pass1234"); err != nil {
		t.Fatalf("ExportBackup failed: %v", err)
	}
	if strings.Contains(buf.String(), "secret note") {
		t.Fatalf("encrypted backup leaks plaintext")
	}
	sealed := buf.Bytes()

	dst := setupTestDB(t, ctx)
	if err := dst.RestoreBackup(ctx, bytes.NewReader(sealed), ""); !errors.Is(err, ErrBackupPassphrase) {
		t.Fatalf("expected ErrBackupPassphrase, got %v", err)
	}
	if err := dst.RestoreBackup(ctx, bytes.NewReader(sealed), "wrong1234"); !errors.Is(err, ErrBackupCorrupted) {
		t.Fatalf("expected ErrBackupCorrupted, got %v", err)
	}
	if err := dst.RestoreBackup(ctx, bytes.NewReader(sealed), "pass1234"); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	var notes []string
	if _, err := dst.Get(ctx, KeyNotes, &notes); err != nil || len(notes) != 1 {
		t.Fatalf("restored notes = %v, %v", notes, err)
	}
}
