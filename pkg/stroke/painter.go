package stroke

import (
	"image/color"
	"math/rand"

	"github.com/inkbloom/inkbloom/pkg/errors"
	"github.com/inkbloom/inkbloom/pkg/geom"
)

// Default brush parameters. These match the classic bloom look: 8–32 layers
// per blob, perturbation radius 32, and 1–8 randomized deformation rounds.
const (
	DefaultRadius    = 32.0
	DefaultMinLayers = 8
	DefaultMaxLayers = 32
	DefaultMinRounds = 1
	DefaultMaxRounds = 8
	DefaultAlpha     = 2 // out of 255, ≈0.8% per layer
)

// Config holds the brush parameters for a painter.
type Config struct {
	// Radius is the magnitude of the uniform random perturbation applied to
	// each midpoint during deformation.
	Radius float64 `json:"radius" toml:"radius"`

	// MinLayers and MaxLayers bound the per-bundle layer count, drawn
	// uniformly (inclusive) at each paint event.
	MinLayers int `json:"min_layers" toml:"min_layers"`
	MaxLayers int `json:"max_layers" toml:"max_layers"`

	// Rounds fixes the deformation round count for every paint event.
	// When zero, the count is drawn uniformly from [MinRounds, MaxRounds]
	// once per event and shared by all layers in the bundle.
	Rounds    int `json:"rounds,omitempty" toml:"rounds"`
	MinRounds int `json:"min_rounds" toml:"min_rounds"`
	MaxRounds int `json:"max_rounds" toml:"max_rounds"`

	// Alpha is the per-layer fill opacity out of 255. Kept very low (1–2)
	// so overlap, not any single layer, carries the color.
	Alpha uint8 `json:"alpha" toml:"alpha"`
}

// DefaultConfig returns the standard bloom brush.
func DefaultConfig() Config {
	return Config{
		Radius:    DefaultRadius,
		MinLayers: DefaultMinLayers,
		MaxLayers: DefaultMaxLayers,
		MinRounds: DefaultMinRounds,
		MaxRounds: DefaultMaxRounds,
		Alpha:     DefaultAlpha,
	}
}

// Validate checks the config for usable parameter ranges.
func (c Config) Validate() error {
	if c.Radius <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "radius must be positive, got %v", c.Radius)
	}
	if c.MinLayers < 1 || c.MaxLayers < c.MinLayers {
		return errors.New(errors.ErrCodeInvalidConfig, "layer range [%d, %d] is invalid", c.MinLayers, c.MaxLayers)
	}
	if c.Rounds < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "rounds cannot be negative, got %d", c.Rounds)
	}
	if c.Rounds == 0 && (c.MinRounds < 1 || c.MaxRounds < c.MinRounds) {
		return errors.New(errors.ErrCodeInvalidConfig, "round range [%d, %d] is invalid", c.MinRounds, c.MaxRounds)
	}
	if c.Alpha == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "alpha must be at least 1")
	}
	return nil
}

// Painter owns the brush configuration and the injected random source, and
// exposes the single operation the rest of the application invokes.
//
// Paint is synchronous and completes fully within the frame that calls it;
// its only observable effect is additive pixels on the surface. Calling it
// twice with the same arguments is safe and simply produces two independent
// overlapping blobs.
type Painter struct {
	cfg Config
	rng *rand.Rand
}

// NewPainter creates a painter with the given brush config and random
// source. A nil rng gets a time-seeded source; tests and seeded batch runs
// pass their own.
func NewPainter(cfg Config, rng *rand.Rand) *Painter {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Painter{cfg: cfg, rng: rng}
}

// Config returns the painter's brush configuration.
func (p *Painter) Config() Config {
	return p.cfg
}

// Paint renders one bloom at the anchor point with the given color:
// construct a bundle, deform it, rasterize it. The fill alpha always comes
// from the brush config, not from c.
func (p *Painter) Paint(surface Raster, anchor geom.Point, c color.NRGBA) error {
	if err := geom.Validate(anchor); err != nil {
		return err
	}

	fill := color.NRGBA{R: c.R, G: c.G, B: c.B, A: p.cfg.Alpha}

	layerCount := uniformInt(p.rng, p.cfg.MinLayers, p.cfg.MaxLayers)
	bundle := NewBundle([]geom.Point{anchor}, fill, layerCount)

	rounds := p.cfg.Rounds
	if rounds == 0 {
		// Drawn once per paint event; every layer gets the same count.
		rounds = uniformInt(p.rng, p.cfg.MinRounds, p.cfg.MaxRounds)
	}

	bundle.Deform(p.rng, p.cfg.Radius, rounds)
	bundle.Render(surface)
	return nil
}

// uniformInt draws uniformly from [lo, hi] inclusive.
func uniformInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
