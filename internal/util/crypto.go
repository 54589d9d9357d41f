package util

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for backup keys.
const (
	keyTime    = 1
	keyMemory  = 64 * 1024
	keyThreads = 4
	KeyLength  = 32
	SaltLength = 16
)

// DeriveKey stretches a passphrase into a symmetric key.
func DeriveKey(pass string, salt []byte) []byte {
	return argon2.IDKey([]byte(pass), salt, keyTime, keyMemory, keyThreads, KeyLength)
}

func ValidatePassphrase(pass string) error {
	if len(pass) < 8 {
		return fmt.Errorf("passphrase must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range pass {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("passphrase must contain a letter and a digit")
	}
	return nil
}
