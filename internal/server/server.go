// Package server exposes the painting engine over HTTP.
//
// Each browser gets a cookie-bound session with its own canvas; paint
// events post to the session canvas and the current raster is polled as
// PNG. Rendered PNGs are cached by session revision, so polling between
// paints hits the cache instead of re-encoding the canvas.
//
// The server degrades instead of failing: if the gallery store is
// unavailable, saving and browsing paintings return 503 while painting
// keeps working.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/inkbloom/inkbloom/pkg/cache"
	"github.com/inkbloom/inkbloom/pkg/canvas"
	"github.com/inkbloom/inkbloom/pkg/config"
	"github.com/inkbloom/inkbloom/pkg/gallery"
	"github.com/inkbloom/inkbloom/pkg/observability"
	"github.com/inkbloom/inkbloom/pkg/palette"
	"github.com/inkbloom/inkbloom/pkg/session"
	"github.com/inkbloom/inkbloom/pkg/stroke"
)

// thumbnailMaxDim bounds gallery thumbnails.
const thumbnailMaxDim = 256

// canvasCacheTTL bounds how long rendered canvas PNGs stay cached. Stale
// revisions become unreachable as soon as the session revision moves on,
// so the TTL only limits garbage accumulation.
const canvasCacheTTL = time.Hour

// Server holds the shared state behind the HTTP API.
type Server struct {
	cfg      *config.Config
	logger   *log.Logger
	sessions session.Store
	gallery  gallery.Store // nil when degraded
	cache    cache.Cache
	keyer    cache.Keyer
	palette  *palette.Palette

	mu       sync.Mutex
	canvases map[string]*sessionCanvas
}

// sessionCanvas is the per-session painting state. The mutex serializes
// paint, clear, and encode on one canvas; different sessions paint
// concurrently.
type sessionCanvas struct {
	mu      sync.Mutex
	surface *canvas.Surface
	painter *stroke.Painter
}

// Options wires the server's collaborators. Nil Gallery enables degraded
// mode; nil Cache disables render caching.
type Options struct {
	Config   *config.Config
	Logger   *log.Logger
	Sessions session.Store
	Gallery  gallery.Store
	Cache    cache.Cache
}

// New creates a server. The palette and canvas parameters come from the
// config, which must already be validated.
func New(opts Options) (*Server, error) {
	pal, err := opts.Config.ResolvePalette()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      opts.Config,
		logger:   opts.Logger,
		sessions: opts.Sessions,
		gallery:  opts.Gallery,
		cache:    opts.Cache,
		keyer:    cache.NewDefaultKeyer(),
		palette:  pal,
		canvases: make(map[string]*sessionCanvas),
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.gallery == nil {
		s.logger.Warn("gallery store unavailable, saving disabled")
	}
	return s, nil
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(s.withSession)

	r.Get("/canvas.png", s.handleCanvasPNG)
	r.Route("/api", func(r chi.Router) {
		r.Post("/paint", s.handlePaint)
		r.Post("/clear", s.handleClear)
		r.Get("/palette", s.handlePalette)
		r.Post("/save", s.handleSave)
		r.Get("/paintings", s.handleListPaintings)
		r.Get("/paintings/{id}", s.handleGetPainting)
		r.Get("/paintings/{id}/thumbnail.png", s.handleGetThumbnail)
	})
	return r
}

// ListenAndServe runs the server until the context is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Server.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// observe logs each request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", elapsed)
	})
}

// canvasFor returns the canvas for a session, creating it on first use.
func (s *Server) canvasFor(sess *session.Session) (*sessionCanvas, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sc, ok := s.canvases[sess.ID]; ok {
		return sc, nil
	}

	bg, err := palette.ParseHex(s.cfg.Canvas.Background)
	if err != nil {
		return nil, err
	}
	surface, err := canvas.New(s.cfg.Canvas.Width, s.cfg.Canvas.Height, bg)
	if err != nil {
		return nil, err
	}

	sc := &sessionCanvas{
		surface: surface,
		painter: stroke.NewPainter(s.cfg.Brush, nil),
	}
	s.canvases[sess.ID] = sc
	return sc, nil
}
