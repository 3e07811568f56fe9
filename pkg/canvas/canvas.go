// Package canvas provides the persistent raster surface paint accumulates
// on. The surface is the only persistent state of a painting: strokes are
// discarded after rasterization and never re-rendered.
//
// Polygon filling is delegated to fogleman/gg, whose rasterizer alpha-blends
// each fill over the existing pixels; that accumulation is what turns many
// ~1%-alpha stroke layers into a dense center with soft edges. The surface
// is never cleared implicitly; Clear is an explicit user action.
package canvas

import (
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/inkbloom/inkbloom/pkg/errors"
	"github.com/inkbloom/inkbloom/pkg/geom"
)

// DefaultBackground is the flat paper color a fresh surface is filled with.
var DefaultBackground = color.NRGBA{R: 244, G: 240, B: 232, A: 255}

// Surface is a persistent raster painting surface.
//
// The paint loop is single-threaded, but the HTTP API reads and writes a
// session's surface from handler goroutines, so all pixel operations hold an
// internal mutex.
type Surface struct {
	mu         sync.Mutex
	dc         *gg.Context
	width      int
	height     int
	background color.NRGBA
}

// New creates a surface of the given size filled with the background color.
func New(width, height int, background color.NRGBA) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "canvas size %dx%d is invalid", width, height)
	}

	s := &Surface{
		dc:         gg.NewContext(width, height),
		width:      width,
		height:     height,
		background: background,
	}
	s.fill(background)
	return s, nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.height }

// Background returns the background color used by Clear.
func (s *Surface) Background() color.NRGBA { return s.background }

// InBounds reports whether p lies on the surface.
func (s *Surface) InBounds(p geom.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(s.width) && p.Y < float64(s.height)
}

// FillPolygon fills the closed polygon described by vertices with the given
// color, no outline. Vertex order follows the sequence; the last vertex
// connects back to the first. Degenerate polygons (fewer than three
// vertices) rasterize to nothing, which is fine for freshly seeded strokes.
func (s *Surface) FillPolygon(vertices []geom.Point, fill color.NRGBA) {
	if len(vertices) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.dc.MoveTo(vertices[0].X, vertices[0].Y)
	for _, v := range vertices[1:] {
		s.dc.LineTo(v.X, v.Y)
	}
	s.dc.ClosePath()
	s.dc.SetColor(fill)
	s.dc.Fill()
}

// Clear refills the whole surface with the background color, discarding all
// accumulated paint. This is the explicit reset action; normal painting
// never clears.
func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fill(s.background)
}

// fill floods the surface with c. Callers hold the mutex (or own the surface
// exclusively during construction).
func (s *Surface) fill(c color.NRGBA) {
	s.dc.SetColor(c)
	s.dc.Clear()
}

// Image returns a snapshot copy of the current pixels.
func (s *Surface) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.dc.Image()
	dst := image.NewRGBA(src.Bounds())
	for y := src.Bounds().Min.Y; y < src.Bounds().Max.Y; y++ {
		for x := src.Bounds().Min.X; x < src.Bounds().Max.X; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
	return dst
}

// EncodePNG writes the current pixels as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.dc.EncodePNG(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to encode canvas PNG")
	}
	return nil
}

// SavePNG writes the current pixels to a PNG file at path.
func (s *Surface) SavePNG(path string) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.dc.SavePNG(path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to save canvas to %s", path)
	}
	return nil
}

// Thumbnail returns a copy of the canvas scaled to fit within maxDim on its
// longer side, preserving aspect ratio. Used for gallery previews.
func (s *Surface) Thumbnail(maxDim int) image.Image {
	if maxDim <= 0 {
		maxDim = 256
	}
	return imaging.Fit(s.Image(), maxDim, maxDim, imaging.Lanczos)
}
