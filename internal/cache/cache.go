// Package cache stores PubMed search responses so repeated claims do not
// re-query the literature service.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the narrow interface the search client needs
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

// QueryKey generates a cache key for a search query
func QueryKey(query string) string {
	hash := sha256.Sum256([]byte(query))
	return "medcheck:v1:" + hex.EncodeToString(hash[:])
}
