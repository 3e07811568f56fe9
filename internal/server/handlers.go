package server

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkbloom/inkbloom/pkg/errors"
	"github.com/inkbloom/inkbloom/pkg/gallery"
	"github.com/inkbloom/inkbloom/pkg/geom"
	"github.com/inkbloom/inkbloom/pkg/palette"
)

// paintRequest is the body of POST /api/paint. Color resolution order:
// explicit hex color, then swatch index, then the session's current swatch.
type paintRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Color  string  `json:"color,omitempty"`
	Swatch *int    `json:"swatch,omitempty"`
}

func (s *Server) handlePaint(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req paintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding paint request"))
		return
	}

	var fill color.NRGBA
	switch {
	case req.Color != "":
		c, err := palette.ParseHex(req.Color)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		fill = c
	case req.Swatch != nil:
		if *req.Swatch < 0 || *req.Swatch >= len(s.palette.Swatches) {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput,
				"swatch %d out of range [0, %d)", *req.Swatch, len(s.palette.Swatches)))
			return
		}
		sess.Swatch = *req.Swatch
		fill = s.palette.Color(*req.Swatch)
	default:
		fill = s.palette.Color(sess.Swatch)
	}

	sc, err := s.canvasFor(sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sc.mu.Lock()
	err = sc.painter.Paint(sc.surface, geom.Pt(req.X, req.Y), fill)
	sc.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess.Touch()
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	sc, err := s.canvasFor(sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sc.mu.Lock()
	sc.surface.Clear()
	sc.mu.Unlock()

	sess.Touch()
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCanvasPNG(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)

	key := s.keyer.CanvasKey(sess.ID, sess.Revision)
	if data, found, err := s.cache.Get(ctx, key); err == nil && found {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
		return
	}

	sc, err := s.canvasFor(sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	sc.mu.Lock()
	err = sc.surface.EncodePNG(&buf)
	sc.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.cache.Set(ctx, key, buf.Bytes(), canvasCacheTTL); err != nil {
		s.logger.Warn("caching canvas render", "error", err)
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

// paletteResponse is the body of GET /api/palette.
type paletteResponse struct {
	Name     string   `json:"name"`
	Swatches []string `json:"swatches"`
	Current  int      `json:"current"`
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	swatches := make([]string, len(s.palette.Swatches))
	for i, c := range s.palette.Swatches {
		swatches[i] = palette.FormatHex(c)
	}
	s.writeJSON(w, http.StatusOK, paletteResponse{
		Name:     s.palette.Name,
		Swatches: swatches,
		Current:  sess.Swatch,
	})
}

// saveRequest is the body of POST /api/save.
type saveRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.gallery == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "gallery storage is unavailable"))
		return
	}
	ctx := r.Context()
	sess := sessionFrom(ctx)

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding save request"))
		return
	}

	sc, err := s.canvasFor(sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sc.mu.Lock()
	var buf bytes.Buffer
	err = sc.surface.EncodePNG(&buf)
	thumb := sc.surface.Thumbnail(thumbnailMaxDim)
	sc.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var thumbBuf bytes.Buffer
	if err := png.Encode(&thumbBuf, thumb); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encoding thumbnail"))
		return
	}

	p := &gallery.Painting{
		Name:      req.Name,
		Palette:   s.palette.Name,
		Width:     s.cfg.Canvas.Width,
		Height:    s.cfg.Canvas.Height,
		PNG:       buf.Bytes(),
		Thumbnail: thumbBuf.Bytes(),
	}
	if err := s.gallery.Save(ctx, p); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("painting saved", "id", p.ID, "name", p.Name)
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": p.ID})
}

func (s *Server) handleListPaintings(w http.ResponseWriter, r *http.Request) {
	if s.gallery == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "gallery storage is unavailable"))
		return
	}

	metas, err := s.gallery.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, metas)
}

func (s *Server) handleGetPainting(w http.ResponseWriter, r *http.Request) {
	s.servePaintingImage(w, r, false)
}

func (s *Server) handleGetThumbnail(w http.ResponseWriter, r *http.Request) {
	s.servePaintingImage(w, r, true)
}

// servePaintingImage serves a stored painting's PNG or thumbnail, backed by
// the render cache.
func (s *Server) servePaintingImage(w http.ResponseWriter, r *http.Request, thumbnail bool) {
	if s.gallery == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "gallery storage is unavailable"))
		return
	}
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	key := s.keyer.PaintingKey(id)
	if thumbnail {
		key = s.keyer.ThumbnailKey(id, thumbnailMaxDim, thumbnailMaxDim)
	}
	if data, found, err := s.cache.Get(ctx, key); err == nil && found {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
		return
	}

	p, err := s.gallery.Get(ctx, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data := p.PNG
	if thumbnail && len(p.Thumbnail) > 0 {
		data = p.Thumbnail
	}
	if err := s.cache.Set(ctx, key, data, 0); err != nil {
		s.logger.Warn("caching painting", "error", err)
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}
