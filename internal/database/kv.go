package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

func (d *Database) Get(ctx context.Context, key string, dest any) (bool, error) {
	var raw string
	err := d.DB.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrapKeyErr("get", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, wrapKeyErr("decode", key, err)
	}
	return true, nil
}

func (d *Database) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return wrapKeyErr("encode", key, err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err = d.DB.ExecContext(ctx,
		"INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		key, string(raw))
	return wrapKeyErr("set", key, err)
}

func (d *Database) Remove(ctx context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.DB.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return wrapKeyErr("remove", key, err)
}

// Keys lists every stored key in order.
func (d *Database) Keys(ctx context.Context) ([]string, error) {
	rows, err := d.DB.QueryContext(ctx, "SELECT key FROM kv ORDER BY key ASC")
	if err != nil {
		return nil, wrapKeyErr("list", "", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, wrapKeyErr("list", "", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (d *Database) getRaw(ctx context.Context, key string) (json.RawMessage, error) {
	var raw string
	if err := d.DB.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&raw); err != nil {
		return nil, wrapKeyErr("get", key, err)
	}
	return json.RawMessage(raw), nil
}
