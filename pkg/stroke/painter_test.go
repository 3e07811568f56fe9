package stroke

import (
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/inkbloom/inkbloom/pkg/errors"
	"github.com/inkbloom/inkbloom/pkg/geom"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"fixed rounds", func(c *Config) { c.Rounds = 5 }, false},
		{"zero radius", func(c *Config) { c.Radius = 0 }, true},
		{"negative radius", func(c *Config) { c.Radius = -1 }, true},
		{"inverted layer range", func(c *Config) { c.MinLayers = 20; c.MaxLayers = 10 }, true},
		{"zero min layers", func(c *Config) { c.MinLayers = 0 }, true},
		{"negative rounds", func(c *Config) { c.Rounds = -1 }, true},
		{"inverted round range", func(c *Config) { c.MinRounds = 8; c.MaxRounds = 1 }, true},
		{"zero alpha", func(c *Config) { c.Alpha = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && errors.GetCode(err) != errors.ErrCodeInvalidConfig {
				t.Errorf("unexpected error code %q", errors.GetCode(err))
			}
		})
	}
}

func TestPainterLayerCountBounds(t *testing.T) {
	// For 10,000 constructed bundles with range [a, b], every drawn
	// layerCount must satisfy a <= layerCount <= b.
	const a, b = 8, 32
	rng := rand.New(rand.NewSource(123))

	for i := 0; i < 10000; i++ {
		n := uniformInt(rng, a, b)
		if n < a || n > b {
			t.Fatalf("draw %d: layerCount %d outside [%d, %d]", i, n, a, b)
		}
	}
}

func TestPainterRejectsNonFiniteAnchor(t *testing.T) {
	p := NewPainter(DefaultConfig(), rand.New(rand.NewSource(1)))
	rec := &recordingRaster{}

	err := p.Paint(rec, geom.Pt(math.NaN(), 10), color.NRGBA{R: 1, A: 255})
	if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("error = %v, want INVALID_GEOMETRY", err)
	}
	if len(rec.polygons) != 0 {
		t.Error("nothing should be rendered for invalid input")
	}
}

func TestPainterAppliesConfiguredAlpha(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rounds = 1
	p := NewPainter(cfg, rand.New(rand.NewSource(5)))

	rec := &recordingRaster{}
	if err := p.Paint(rec, geom.Pt(10, 10), color.NRGBA{R: 250, G: 120, B: 30, A: 255}); err != nil {
		t.Fatalf("Paint: %v", err)
	}

	if len(rec.fills) == 0 {
		t.Fatal("no layers rendered")
	}
	for i, f := range rec.fills {
		want := color.NRGBA{R: 250, G: 120, B: 30, A: cfg.Alpha}
		if f != want {
			t.Errorf("layer %d fill = %v, want %v", i, f, want)
		}
	}
}

func TestPainterBundleSizeWithinConfiguredRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinLayers, cfg.MaxLayers = 10, 30
	cfg.Rounds = 1
	p := NewPainter(cfg, rand.New(rand.NewSource(77)))

	for i := 0; i < 200; i++ {
		rec := &recordingRaster{}
		if err := p.Paint(rec, geom.Pt(50, 50), color.NRGBA{B: 200, A: 255}); err != nil {
			t.Fatalf("Paint: %v", err)
		}
		if n := len(rec.polygons); n < 10 || n > 30 {
			t.Fatalf("paint %d rendered %d layers, want within [10, 30]", i, n)
		}
	}
}

func TestPainterFixedRoundsGiveEqualVertexCounts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rounds = 3
	p := NewPainter(cfg, rand.New(rand.NewSource(21)))

	rec := &recordingRaster{}
	if err := p.Paint(rec, geom.Pt(0, 0), color.NRGBA{G: 180, A: 255}); err != nil {
		t.Fatalf("Paint: %v", err)
	}

	want := 1 << 3
	for i, poly := range rec.polygons {
		if len(poly) != want {
			t.Errorf("layer %d has %d vertices, want %d", i, len(poly), want)
		}
	}
}

func TestPainterRandomRoundsSharedAcrossBundle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rounds = 0 // randomized per event
	p := NewPainter(cfg, rand.New(rand.NewSource(31)))

	for i := 0; i < 50; i++ {
		rec := &recordingRaster{}
		if err := p.Paint(rec, geom.Pt(5, 5), color.NRGBA{R: 90, A: 255}); err != nil {
			t.Fatalf("Paint: %v", err)
		}
		// All layers in one event share the round count, so all polygons in
		// one paint have the same vertex count.
		first := len(rec.polygons[0])
		for j, poly := range rec.polygons {
			if len(poly) != first {
				t.Fatalf("paint %d: layer %d has %d vertices, layer 0 has %d", i, j, len(poly), first)
			}
		}
		// And the count is a power of two within the configured round range.
		rounds := 0
		for n := first; n > 1; n /= 2 {
			rounds++
		}
		if first != 1<<rounds || rounds < cfg.MinRounds || rounds > cfg.MaxRounds {
			t.Fatalf("paint %d: vertex count %d not consistent with rounds in [%d, %d]", i, first, cfg.MinRounds, cfg.MaxRounds)
		}
	}
}
