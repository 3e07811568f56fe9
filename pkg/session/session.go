// Package session tracks painting sessions for the API server.
//
// A session ties a browser to its canvas: which palette is active, which
// swatch is selected, and how many paint events have been applied (the
// revision, which also keys the render cache). Stores share one interface
// with implementations for different backends:
//   - memory: In-memory storage for development/testing
//   - redis: Redis-backed storage for multi-instance deployments
//   - file: File-based storage for single-host deployments
//
// Sessions expire; Get reports an expired session as missing and the
// backends remove it lazily. Cleanup sweeps whatever expiry left behind.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// Session stores the painting state of one client.
type Session struct {
	ID      string `json:"id"`
	Palette string `json:"palette"`
	Swatch  int    `json:"swatch"`

	// Revision counts applied paint events. It increments on every paint
	// and clear, so cached canvas renders can be keyed by it.
	Revision uint64 `json:"revision"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch advances the revision after a paint or clear.
func (s *Session) Touch() {
	s.Revision++
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op for backends with
	// native expiry).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// New creates a session with a fresh ID and the given starting palette.
func New(paletteName string, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Palette:   paletteName,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}
