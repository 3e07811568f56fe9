package engine

import (
	"image/color"
	"sync"

	"github.com/inkbloom/inkbloom/pkg/geom"
)

// Event is one paint request: where to paint and, optionally, what color.
type Event struct {
	Anchor geom.Point

	// Color overrides the engine's current color when HasColor is set.
	// Pitch-driven sources set it; pointer sources usually don't.
	Color    color.NRGBA
	HasColor bool

	// Confidence is the tracking confidence in [0, 1]. Pointer events are
	// exact and carry 1.0; pose trackers report their own estimate and the
	// engine gates low-confidence events out.
	Confidence float64
}

// Source supplies the latest pending event. Reading drains it: the engine
// polls once per frame and a source holding nothing new reports ok == false.
type Source interface {
	Latest() (Event, bool)
}

// LatestSource is a single-slot Source. Producers publish from their own
// goroutines at whatever rate they like; only the newest event survives
// until the next frame drains it. A disabled source discards publishes, so
// results still in flight when a source is toggled off never reach the
// canvas.
type LatestSource struct {
	mu      sync.Mutex
	event   Event
	pending bool
	enabled bool
}

// NewLatestSource creates an enabled, empty source.
func NewLatestSource() *LatestSource {
	return &LatestSource{enabled: true}
}

// Publish stores an event, replacing any undrained one.
func (s *LatestSource) Publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	s.event = ev
	s.pending = true
}

// SetEnabled toggles the source. Disabling drops the pending event.
func (s *LatestSource) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
	if !enabled {
		s.pending = false
	}
}

// Latest returns and clears the pending event.
func (s *LatestSource) Latest() (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pending {
		return Event{}, false
	}
	s.pending = false
	return s.event, true
}

var _ Source = (*LatestSource)(nil)
