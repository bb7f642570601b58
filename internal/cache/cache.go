package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from arbitrary content bytes. Classification
// results are keyed by their image digest, proof reads by their CID.
func Key(content []byte) string {
	hash := sha256.Sum256(content)
	return "civicgo:v1:" + hex.EncodeToString(hash[:])
}

// KeyString generates a cache key from a string identifier
func KeyString(id string) string {
	return Key([]byte(id))
}
