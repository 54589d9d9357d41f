package database

import "context"

// KVStore is a JSON key-value store. Get reports whether the key existed;
// when it did not, dest is left untouched so callers can pre-fill defaults.
//
//go:generate mockgen -destination=../mocks/mock_kvstore.go -package=mocks github.com/akyairhashvil/shiftbell/internal/database KVStore
type KVStore interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
}

var _ KVStore = (*Database)(nil)
