package stroke

import (
	"math/rand"
	"testing"

	"github.com/inkbloom/inkbloom/pkg/geom"
)

func TestBundleLayersStartIdentical(t *testing.T) {
	initial := []geom.Point{geom.Pt(50, 60)}
	b := NewBundle(initial, testFill, 12)

	if b.LayerCount() != 12 {
		t.Fatalf("LayerCount = %d, want 12", b.LayerCount())
	}
	for i, l := range b.Layers() {
		vs := l.Vertices()
		if len(vs) != 1 || vs[0] != initial[0] {
			t.Errorf("layer %d initial vertices = %v", i, vs)
		}
		if l.Fill() != testFill {
			t.Errorf("layer %d fill = %v", i, l.Fill())
		}
	}
}

func TestBundleLayersDoNotAlias(t *testing.T) {
	b := NewBundle([]geom.Point{geom.Pt(0, 0)}, testFill, 2)

	// Deform only the first layer; the second must keep its seed vertex.
	b.Layers()[0].Deform(rand.New(rand.NewSource(1)), 32)

	if got := b.Layers()[0].VertexCount(); got != 2 {
		t.Errorf("deformed layer has %d vertices, want 2", got)
	}
	if got := b.Layers()[1].VertexCount(); got != 1 {
		t.Errorf("untouched layer has %d vertices, want 1", got)
	}
}

func TestBundleDeformEqualCountsDifferentShapes(t *testing.T) {
	b := NewBundle([]geom.Point{geom.Pt(100, 100)}, testFill, 6)
	b.Deform(rand.New(rand.NewSource(11)), 32, 4)

	want := 1 << 4
	for i, l := range b.Layers() {
		if got := l.VertexCount(); got != want {
			t.Errorf("layer %d vertex count = %d, want %d", i, got, want)
		}
	}

	// Independent randomness per layer: with overwhelming probability no two
	// layers share a boundary after four rounds of radius-32 perturbation.
	first := b.Layers()[0].Vertices()
	second := b.Layers()[1].Vertices()
	same := true
	for i := range first {
		if first[i] != second[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("two layers produced identical vertex sequences")
	}
}

func TestLayerIndependenceWithDistinctStreams(t *testing.T) {
	// Inject two distinct random streams into otherwise identical layers and
	// assert the outputs differ after a single round.
	initial := []geom.Point{geom.Pt(100, 100)}
	a := NewLayer(initial, testFill)
	z := NewLayer(initial, testFill)

	a.Deform(rand.New(rand.NewSource(1)), 32)
	z.Deform(rand.New(rand.NewSource(2)), 32)

	if a.Vertices()[1] == z.Vertices()[1] {
		t.Error("distinct streams produced identical offsets")
	}
}

func TestBundleRenderOrder(t *testing.T) {
	b := NewBundle([]geom.Point{geom.Pt(10, 10)}, testFill, 5)
	b.Deform(rand.New(rand.NewSource(4)), 16, 2)

	rec := &recordingRaster{}
	b.Render(rec)

	if len(rec.polygons) != 5 {
		t.Fatalf("FillPolygon called %d times, want 5", len(rec.polygons))
	}
	for i, l := range b.Layers() {
		want := l.Vertices()
		got := rec.polygons[i]
		if len(got) != len(want) {
			t.Fatalf("layer %d rendered %d vertices, want %d", i, len(got), len(want))
		}
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("layer %d vertex %d = %v, want %v", i, j, got[j], want[j])
			}
		}
	}
}
