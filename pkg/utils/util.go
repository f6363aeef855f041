package util

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// TokenKeySize is the symmetric key length of PASETO v2.local.
const TokenKeySize = 32

// GenerateBase64Key returns a random TokenKeySize key, URL-safe base64 encoded, in the form
// config.DecodeSecret reads back. LoadConfig uses it for the throwaway development key.
func GenerateBase64Key(size int) (string, error) {
	if size != TokenKeySize {
		return "", fmt.Errorf("token key must be %d bytes, got %d", TokenKeySize, size)
	}

	key := make([]byte, size)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("read random key: %w", err)
	}
	return base64.URLEncoding.EncodeToString(key), nil
}
