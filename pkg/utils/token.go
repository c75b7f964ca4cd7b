package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

const apiTokenBytes = 32

// GenerateAPIToken returns a random opaque bearer token
func GenerateAPIToken() (string, error) {
	b := make([]byte, apiTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashToken returns the SHA-256 hex digest stored in place of a bearer token
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
