package database

import (
	"errors"
	"fmt"
)

var (
	ErrBackupPassphrase = errors.New("backup passphrase required")
	ErrBackupCorrupted  = errors.New("backup is corrupted or passphrase is wrong")
)

// OpError is a persistence failure on one key.
type OpError struct {
	Op  string
	Key string
	Err error
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}
	if e.Key != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func wrapKeyErr(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Key: key, Err: err}
}
