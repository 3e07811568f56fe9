package stroke

import (
	"image/color"
	"math/rand"
	"slices"

	"github.com/inkbloom/inkbloom/pkg/geom"
)

// Raster is the drawing surface a layer renders onto. It is implemented by
// canvas.Surface; the engine only needs filled polygons.
type Raster interface {
	// FillPolygon fills the closed polygon described by the vertex sequence
	// (the last vertex implicitly connects back to the first) with the given
	// color, without an outline.
	FillPolygon(vertices []geom.Point, fill color.NRGBA)
}

// Layer is one translucent paint layer: a closed polygon boundary and a
// fixed fill color. The boundary is cyclic: draw order follows the vertex
// sequence and the last vertex connects back to the first.
//
// Layers are created fresh for every paint event and discarded after
// rendering; the rasterized pixels are the only persisted artifact.
type Layer struct {
	vertices []geom.Point
	fill     color.NRGBA
}

// NewLayer creates a layer from an initial vertex sequence and fill color.
// The vertex slice is copied; later deformation never aliases the caller's
// data. Callers validate non-emptiness (geom.ValidateAll) before painting.
func NewLayer(vertices []geom.Point, fill color.NRGBA) *Layer {
	return &Layer{
		vertices: slices.Clone(vertices),
		fill:     fill,
	}
}

// Fill returns the layer's fill color. It is fixed at construction and
// never changes, no matter how many deformation rounds run.
func (l *Layer) Fill() color.NRGBA {
	return l.fill
}

// Vertices returns a copy of the current boundary.
func (l *Layer) Vertices() []geom.Point {
	return slices.Clone(l.vertices)
}

// VertexCount returns the current number of boundary vertices.
func (l *Layer) VertexCount() int {
	return len(l.vertices)
}

// Deform runs one midpoint-and-perturb round, doubling the vertex count.
//
// For vertices v_0..v_{n-1} it generates n new points, one per adjacent pair
// including the wrap-around pair (v_{n-1}, v_0):
//
//	new[i] = midpoint(v_i, v_{i+1 mod n}) + (U(-r, r), U(-r, r))
//
// Each new point is then spliced into the sequence at index 1, in generation
// order. Every insertion pushes the previously inserted points further
// along, reversing their relative order. This interleaving is what produces
// the jagged organic growth and must not be "fixed" into alternating
// insertion.
func (l *Layer) Deform(rng *rand.Rand, radius float64) {
	n := len(l.vertices)
	if n == 0 {
		return
	}

	// Midpoints are computed against a snapshot of the pre-round boundary;
	// insertions must not shift the pairs still being read.
	orig := slices.Clone(l.vertices)

	for i := 0; i < n; i++ {
		mid := geom.Midpoint(orig[i], orig[(i+1)%n])
		p := mid.Add(uniform(rng, radius), uniform(rng, radius))
		l.vertices = slices.Insert(l.vertices, 1, p)
	}
}

// Render rasterizes the layer as a filled polygon in current vertex order.
func (l *Layer) Render(surface Raster) {
	surface.FillPolygon(l.vertices, l.fill)
}

// uniform draws from U(-r, r).
func uniform(rng *rand.Rand, r float64) float64 {
	return (rng.Float64()*2 - 1) * r
}
