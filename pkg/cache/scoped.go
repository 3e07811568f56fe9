package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Deployments that share one redis instance across environments give each
// environment its own namespace.
//
// Example usage:
//
//	// Staging keys, isolated from production
//	stagingKeyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// CanvasKey generates a prefixed key for full-canvas PNG caching.
func (k *ScopedKeyer) CanvasKey(sessionID string, revision uint64) string {
	return k.prefix + k.inner.CanvasKey(sessionID, revision)
}

// PaintingKey generates a prefixed key for saved painting caching.
func (k *ScopedKeyer) PaintingKey(id string) string {
	return k.prefix + k.inner.PaintingKey(id)
}

// ThumbnailKey generates a prefixed key for thumbnail caching.
func (k *ScopedKeyer) ThumbnailKey(id string, width, height int) string {
	return k.prefix + k.inner.ThumbnailKey(id, width, height)
}
