// Package cache provides byte-level caching for rendered output.
//
// Encoding a large canvas to PNG and scaling thumbnails are the expensive
// read paths of the API server; both are keyed by content revision, so a
// small cache in front of them turns repeated polling into cheap reads.
//
// Backends share one interface: a file cache for single-process use, a
// redis cache for deployments with several replicas, and a null cache that
// disables caching entirely. Keys are built through a Keyer so callers
// never concatenate key strings by hand.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte blobs under string keys with optional expiry.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys for the render paths.
type Keyer interface {
	// CanvasKey keys a full-canvas PNG by session and paint revision.
	CanvasKey(sessionID string, revision uint64) string

	// PaintingKey keys a saved painting's PNG by gallery ID.
	PaintingKey(id string) string

	// ThumbnailKey keys a scaled preview of a saved painting.
	ThumbnailKey(id string, width, height int) string
}

// DefaultKeyer hashes key components with SHA-256 under a type prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// CanvasKey generates a key for full-canvas PNG caching.
func (k *DefaultKeyer) CanvasKey(sessionID string, revision uint64) string {
	return hashKey("canvas", sessionID, revision)
}

// PaintingKey generates a key for saved painting caching.
func (k *DefaultKeyer) PaintingKey(id string) string {
	return hashKey("painting", id)
}

// ThumbnailKey generates a key for thumbnail caching.
func (k *DefaultKeyer) ThumbnailKey(id string, width, height int) string {
	return hashKey("thumbnail", id, width, height)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
