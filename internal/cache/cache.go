package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for embedding caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from fragment content. Identical content
// always maps to the same key, so re-embedding identical text is free.
func Key(content string) string {
	hash := sha256.Sum256([]byte(content))
	return "memsieve:v1:" + hex.EncodeToString(hash[:])
}
