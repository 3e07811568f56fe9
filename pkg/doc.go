// Package pkg provides the core libraries for inkbloom generative painting.
//
// # Overview
//
// Inkbloom turns paint events into organic watercolor blooms: translucent,
// randomly deformed polygon layers accumulated on a shared canvas. The pkg
// directory is organized into four main areas:
//
//  1. Painting (geom, stroke, canvas, palette) - the stroke engine and raster
//  2. Audio (pitch) - autocorrelation pitch detection and note mapping
//  3. Infrastructure (cache, session, gallery, config, errors, observability)
//  4. Orchestration (engine) - the frame loop driving continuous painting
//
// # Architecture
//
// The typical data flow through inkbloom:
//
//	Paint Event (CLI, TUI, HTTP, or detected note)
//	         ↓
//	    [stroke] package (deform polygon, bundle layers)
//	         ↓
//	    [canvas] package (rasterize translucent fills)
//	         ↓
//	    PNG output / HTTP polling / terminal preview
//
// # Quick Start
//
//	surface, _ := canvas.New(1024, 768, canvas.DefaultBackground)
//	painter := stroke.NewPainter(stroke.DefaultConfig(), nil)
//	pal, _ := palette.Lookup("watercolor")
//	_ = painter.Paint(surface, geom.Pt(512, 384), pal.Color(0))
//	_ = surface.SavePNG("bloom.png")
package pkg
