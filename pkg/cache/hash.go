package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a render-cache key as prefix:hash(parts...). The parts are
// whatever identifies the rendered bytes (session ID and canvas revision,
// painting ID, thumbnail dimensions); hashing keeps arbitrary IDs safe for
// any backend and the full SHA-256 keeps distinct canvases from colliding.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash returns the SHA-256 of data as a 64-character hex string. The file
// backend uses it to turn keys into shardable filenames.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
