// Package engine runs the frame-driven painting loop.
//
// The engine is the single writer to its surface. Input producers (pointer
// handlers, pose trackers, pitch detectors) publish into latest-state
// sources from their own goroutines; once per frame the engine drains each
// source and paints synchronously, so a slow producer can never queue up a
// backlog of strokes and a fast one simply overwrites its own unpainted
// events.
package engine

import (
	"context"
	"image/color"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/inkbloom/inkbloom/pkg/geom"
	"github.com/inkbloom/inkbloom/pkg/observability"
	"github.com/inkbloom/inkbloom/pkg/palette"
	"github.com/inkbloom/inkbloom/pkg/stroke"
)

// Defaults for the paint loop.
const (
	// DefaultFrameRate is the tick rate of the loop.
	DefaultFrameRate = 24

	// DefaultMinConfidence gates pose-tracked events: anchors reported
	// below this confidence are dropped.
	DefaultMinConfidence = 0.60
)

// Options configures the engine loop.
type Options struct {
	// FrameRate is ticks per second; zero means DefaultFrameRate.
	FrameRate int

	// MinConfidence drops events below this tracking confidence; zero
	// means DefaultMinConfidence.
	MinConfidence float64

	// IdleRecolor rotates the current color to a random palette swatch
	// every U(1, FrameRate) frames, so an untouched canvas still drifts
	// through the palette. Requires Palette.
	IdleRecolor bool

	// Palette supplies swatches for IdleRecolor.
	Palette *palette.Palette
}

// Engine drives a painter from input sources at a fixed frame rate.
//
// Step and the accessors are not safe for concurrent use; the loop owns
// them. Cross-goroutine input goes through the sources.
type Engine struct {
	painter *stroke.Painter
	surface stroke.Raster
	sources []Source
	opts    Options
	rng     *rand.Rand
	logger  *log.Logger

	current            color.NRGBA
	framesUntilRecolor int
}

// New creates an engine. A nil rng gets a time-seeded source; a nil logger
// discards output.
func New(painter *stroke.Painter, surface stroke.Raster, opts Options, rng *rand.Rand, logger *log.Logger) *Engine {
	if opts.FrameRate <= 0 {
		opts.FrameRate = DefaultFrameRate
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = DefaultMinConfidence
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e := &Engine{
		painter: painter,
		surface: surface,
		opts:    opts,
		rng:     rng,
		logger:  logger,
	}
	if opts.IdleRecolor && opts.Palette != nil {
		e.current = opts.Palette.Color(0)
		e.framesUntilRecolor = 1 + rng.Intn(opts.FrameRate)
	}
	return e
}

// AddSource registers an input source. Sources are drained in registration
// order each frame.
func (e *Engine) AddSource(src Source) {
	e.sources = append(e.sources, src)
}

// SetColor sets the engine's current color.
func (e *Engine) SetColor(c color.NRGBA) {
	e.current = c
}

// Color returns the engine's current color.
func (e *Engine) Color() color.NRGBA {
	return e.current
}

// paintCounter counts filled polygons so hooks can report layer counts.
type paintCounter struct {
	inner  stroke.Raster
	layers int
}

func (r *paintCounter) FillPolygon(vertices []geom.Point, fill color.NRGBA) {
	r.layers++
	r.inner.FillPolygon(vertices, fill)
}

// Step runs one frame: drain every source, paint accepted events, advance
// the idle recolor countdown. It reports whether anything was painted.
func (e *Engine) Step(ctx context.Context) bool {
	start := time.Now()
	painted := false

	for _, src := range e.sources {
		ev, ok := src.Latest()
		if !ok {
			continue
		}
		if ev.Confidence < e.opts.MinConfidence {
			e.logger.Debug("dropping low-confidence event",
				"confidence", ev.Confidence, "min", e.opts.MinConfidence)
			continue
		}

		if ev.HasColor {
			e.current = ev.Color
		}

		observability.Engine().OnPaintStart(ctx, ev.Anchor.X, ev.Anchor.Y)
		paintStart := time.Now()
		counter := &paintCounter{inner: e.surface}
		err := e.painter.Paint(counter, ev.Anchor, e.current)
		observability.Engine().OnPaintComplete(ctx, counter.layers, time.Since(paintStart), err)
		if err != nil {
			e.logger.Warn("paint failed", "error", err)
			continue
		}
		painted = true
	}

	if e.opts.IdleRecolor && e.opts.Palette != nil {
		e.framesUntilRecolor--
		if e.framesUntilRecolor <= 0 {
			swatch := e.rng.Intn(len(e.opts.Palette.Swatches))
			e.current = e.opts.Palette.Color(swatch)
			e.framesUntilRecolor = 1 + e.rng.Intn(e.opts.FrameRate)
			observability.Engine().OnRecolor(ctx, swatch)
		}
	}

	observability.Engine().OnFrame(ctx, painted, time.Since(start))
	return painted
}

// Run ticks Step at the configured frame rate until the context is done.
func (e *Engine) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(e.opts.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.logger.Info("engine running", "frame_rate", e.opts.FrameRate)
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped")
			return ctx.Err()
		case <-ticker.C:
			e.Step(ctx)
		}
	}
}
