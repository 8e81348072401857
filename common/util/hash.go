package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the hex SHA-256 of data. Used to give identical generated
// documents identical file names.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the pointed-to value, or fallback when p is nil.
func Deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
