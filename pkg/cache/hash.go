package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds a layer:digest cache key from the parts that determine the
// cached value. Parts are JSON-encoded before hashing so option structs can
// be passed directly.
func hashKey(layer string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return layer + ":" + Hash(data)
}

// Hash returns the SHA-256 digest of data as a 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
