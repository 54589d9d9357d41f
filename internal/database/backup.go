package database

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/akyairhashvil/shiftbell/internal/util"
	"golang.org/x/crypto/chacha20poly1305"
)

type backupPayload struct {
	Version   string                     `json:"version"`
	CreatedAt time.Time                  `json:"createdAt"`
	Entries   map[string]json.RawMessage `json:"entries"`
}

type encryptedBackup struct {
	Encrypted bool   `json:"encrypted"`
	Salt      string `json:"salt"`
	Nonce     string `json:"nonce"`
	Data      string `json:"data"`
}

// ExportBackup writes every key to w. A non-empty passphrase encrypts the
// payload with XChaCha20-Poly1305 under an Argon2id-derived key.
func (d *Database) ExportBackup(ctx context.Context, w io.Writer, passphrase string) error {
	keys, err := d.Keys(ctx)
	if err != nil {
		return err
	}
	payload := backupPayload{
		Version:   schemaVersion,
		CreatedAt: time.Now().UTC(),
		Entries:   make(map[string]json.RawMessage, len(keys)),
	}
	for _, k := range keys {
		raw, err := d.getRaw(ctx, k)
		if err != nil {
			return err
		}
		payload.Entries[k] = raw
	}
	plain, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	if passphrase == "" {
		_, err = w.Write(plain)
		return err
	}
	sealed, err := encryptBackup(plain, passphrase)
	if err != nil {
		return err
	}
	_, err = w.Write(sealed)
	return err
}

// RestoreBackup replaces stored keys with the ones in the backup.
func (d *Database) RestoreBackup(ctx context.Context, r io.Reader, passphrase string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	var envelope encryptedBackup
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Encrypted {
		if passphrase == "" {
			return ErrBackupPassphrase
		}
		data, err = decryptBackup(envelope, passphrase)
		if err != nil {
			return err
		}
	}
	var payload backupPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrBackupCorrupted, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return wrapKeyErr("restore", "", err)
	}
	for k, raw := range payload.Entries {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
			k, string(raw)); err != nil {
			_ = tx.Rollback()
			return wrapKeyErr("restore", k, err)
		}
	}
	return wrapKeyErr("restore", "", tx.Commit())
}

func encryptBackup(plain []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, util.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(util.DeriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	wrapped := encryptedBackup{
		Encrypted: true,
		Salt:      base64.StdEncoding.EncodeToString(salt),
		Nonce:     base64.StdEncoding.EncodeToString(nonce),
		Data:      base64.StdEncoding.EncodeToString(aead.Seal(nil, nonce, plain, nil)),
	}
	return json.Marshal(wrapped)
}

func decryptBackup(b encryptedBackup, passphrase string) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(b.Salt)
	if err != nil {
		return nil, ErrBackupCorrupted
	}
	nonce, err := base64.StdEncoding.DecodeString(b.Nonce)
	if err != nil {
		return nil, ErrBackupCorrupted
	}
	data, err := base64.StdEncoding.DecodeString(b.Data)
	if err != nil {
		return nil, ErrBackupCorrupted
	}
	aead, err := chacha20poly1305.NewX(util.DeriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, ErrBackupCorrupted
	}
	plain, err := aead.Open(nil, nonce, data, nil)
	if err != nil {
		return nil, ErrBackupCorrupted
	}
	return plain, nil
}
