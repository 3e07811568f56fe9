package stroke

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/inkbloom/inkbloom/pkg/geom"
)

var testFill = color.NRGBA{R: 200, G: 40, B: 40, A: 2}

func TestLayerCopiesInitialVertices(t *testing.T) {
	initial := []geom.Point{geom.Pt(1, 2), geom.Pt(3, 4)}
	l := NewLayer(initial, testFill)

	// Mutating the caller's slice must not affect the layer.
	initial[0] = geom.Pt(99, 99)
	if got := l.Vertices()[0]; got != geom.Pt(1, 2) {
		t.Errorf("layer aliases caller slice: vertex 0 = %v", got)
	}

	// And the accessor returns a copy too.
	vs := l.Vertices()
	vs[1] = geom.Pt(-1, -1)
	if got := l.Vertices()[1]; got != geom.Pt(3, 4) {
		t.Errorf("Vertices() exposes internal slice: vertex 1 = %v", got)
	}
}

func TestDeformGrowthLaw(t *testing.T) {
	// Post-deformation vertex count is n * 2^k exactly.
	tests := []struct {
		name   string
		n      int
		rounds int
		want   int
	}{
		{"single vertex one round", 1, 1, 2},
		{"single vertex five rounds", 1, 5, 32},
		{"triangle three rounds", 3, 3, 24},
		{"two vertices eight rounds", 2, 8, 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))
			initial := make([]geom.Point, tt.n)
			for i := range initial {
				initial[i] = geom.Pt(float64(i)*10, float64(i)*7)
			}

			l := NewLayer(initial, testFill)
			for r := 0; r < tt.rounds; r++ {
				l.Deform(rng, 32)
			}
			if got := l.VertexCount(); got != tt.want {
				t.Errorf("vertex count after %d rounds = %d, want %d", tt.rounds, got, tt.want)
			}
		})
	}
}

func TestDeformInsertsAtIndexOne(t *testing.T) {
	// With radius 0 the new points are exact midpoints, which pins the
	// splice order: each new point lands at index 1 and pushes earlier
	// inserts along, so generation order comes out reversed.
	a, b, c := geom.Pt(0, 0), geom.Pt(12, 0), geom.Pt(0, 12)
	l := NewLayer([]geom.Point{a, b, c}, testFill)
	l.Deform(rand.New(rand.NewSource(7)), 0)

	want := []geom.Point{
		a,
		geom.Midpoint(c, a), // generated last, inserted last
		geom.Midpoint(b, c),
		geom.Midpoint(a, b), // generated first, pushed furthest
		b,
		c,
	}

	got := l.Vertices()
	if len(got) != len(want) {
		t.Fatalf("vertex count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("vertex %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDeformSeededSingleVertex(t *testing.T) {
	// Deterministic scenario: radius 32, anchor (100,100), one round on a
	// single-vertex layer. The midpoint of the wrap-around pair is the
	// anchor itself, so the sole new vertex is anchor + seeded offset.
	const seed = 42
	const radius = 32.0
	anchor := geom.Pt(100, 100)

	l := NewLayer([]geom.Point{anchor}, testFill)
	l.Deform(rand.New(rand.NewSource(seed)), radius)

	ref := rand.New(rand.NewSource(seed))
	dx := (ref.Float64()*2 - 1) * radius
	dy := (ref.Float64()*2 - 1) * radius

	got := l.Vertices()
	if len(got) != 2 {
		t.Fatalf("vertex count = %d, want 2", len(got))
	}
	if got[0] != anchor {
		t.Errorf("anchor moved: %v", got[0])
	}
	want := geom.Pt(100+dx, 100+dy)
	if got[1] != want {
		t.Errorf("inserted vertex = %v, want %v", got[1], want)
	}
}

func TestFillColorInvariant(t *testing.T) {
	l := NewLayer([]geom.Point{geom.Pt(5, 5)}, testFill)
	rng := rand.New(rand.NewSource(3))

	for r := 0; r < 6; r++ {
		l.Deform(rng, 32)
		if got := l.Fill(); got != testFill {
			t.Fatalf("fill changed after round %d: %v", r+1, got)
		}
	}
}

func TestDeformEmptyLayerIsNoop(t *testing.T) {
	l := &Layer{}
	l.Deform(rand.New(rand.NewSource(1)), 32)
	if l.VertexCount() != 0 {
		t.Errorf("empty layer grew to %d vertices", l.VertexCount())
	}
}

// recordingRaster captures FillPolygon calls for assertions.
type recordingRaster struct {
	polygons [][]geom.Point
	fills    []color.NRGBA
}

func (r *recordingRaster) FillPolygon(vertices []geom.Point, fill color.NRGBA) {
	r.polygons = append(r.polygons, vertices)
	r.fills = append(r.fills, fill)
}

func TestLayerRenderUsesCurrentOrder(t *testing.T) {
	l := NewLayer([]geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(0, 10)}, testFill)
	l.Deform(rand.New(rand.NewSource(9)), 16)

	rec := &recordingRaster{}
	l.Render(rec)

	if len(rec.polygons) != 1 {
		t.Fatalf("FillPolygon called %d times, want 1", len(rec.polygons))
	}
	got := rec.polygons[0]
	want := l.Vertices()
	if len(got) != len(want) {
		t.Fatalf("rendered %d vertices, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rendered vertex %d = %v, want %v (post-deformation order required)", i, got[i], want[i])
		}
	}
	if rec.fills[0] != testFill {
		t.Errorf("rendered fill = %v, want %v", rec.fills[0], testFill)
	}
}
