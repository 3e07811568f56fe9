package stroke

import (
	"image/color"
	"math/rand"

	"github.com/inkbloom/inkbloom/pkg/geom"
)

// Bundle is the ensemble of independently deforming layers that makes up one
// visual blob of paint. All layers start from identical copies of the same
// vertex list and share one fill color; they diverge as each deforms with
// its own draws from the shared random source.
//
// A bundle lives for exactly one paint event: construct, deform, render,
// discard.
type Bundle struct {
	layers []*Layer
}

// NewBundle constructs a bundle of layerCount layers, each seeded with an
// independent copy of initial and the same fill. layerCount is typically
// drawn from the configured range by the Painter; callers constructing
// bundles directly choose it themselves.
func NewBundle(initial []geom.Point, fill color.NRGBA, layerCount int) *Bundle {
	layers := make([]*Layer, 0, layerCount)
	for i := 0; i < layerCount; i++ {
		layers = append(layers, NewLayer(initial, fill))
	}
	return &Bundle{layers: layers}
}

// LayerCount returns the number of layers, fixed at construction.
func (b *Bundle) LayerCount() int {
	return len(b.layers)
}

// Layers returns the bundle's layers in construction order.
func (b *Bundle) Layers() []*Layer {
	return b.layers
}

// Deform applies the given number of deformation rounds to every layer.
// All layers receive the same round count, so they end with equal vertex
// counts but different shapes.
func (b *Bundle) Deform(rng *rand.Rand, radius float64, rounds int) {
	for _, l := range b.layers {
		for r := 0; r < rounds; r++ {
			l.Deform(rng, radius)
		}
	}
}

// Render rasterizes each layer in construction order. Depth comes from the
// surface's accumulative alpha blending: shapes overlap most near the
// anchor, so opacity builds toward the stroke's center.
func (b *Bundle) Render(surface Raster) {
	for _, l := range b.layers {
		l.Render(surface)
	}
}
