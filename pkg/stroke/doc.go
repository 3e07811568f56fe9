// Package stroke implements the stochastic stroke-rendering engine at the
// core of Inkbloom.
//
// A paint event is a single anchor point plus a color. The engine turns it
// into a watercolor-like "bloom" in three steps:
//
//  1. A Bundle is constructed around the anchor: a randomly sized ensemble
//     of Layers, each seeded with an independent copy of the same single
//     vertex and sharing one very low-alpha fill color.
//  2. Every layer is deformed the same number of rounds. One round computes
//     the midpoint of each adjacent vertex pair (including the wrap-around
//     pair), perturbs it by an independent uniform offset, and splices each
//     new point into the boundary at index 1. The vertex count doubles each
//     round and the boundary grows progressively more organic.
//  3. Layers are rasterized in construction order as filled polygons. The
//     canvas is never cleared between strokes, so the ~1% per-layer alpha
//     accumulates where layer shapes overlap and fades where they diverge.
//
// Randomness is injected: every deforming operation takes a *rand.Rand, so
// batch renders can be reproduced from a seed and tests can pin exact
// geometry.
//
// # Usage
//
//	painter := stroke.NewPainter(stroke.DefaultConfig(), rand.New(rand.NewSource(seed)))
//	painter.Paint(surface, geom.Pt(320, 240), color.NRGBA{R: 30, G: 90, B: 180, A: 255})
package stroke
