package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/inkbloom/inkbloom/internal/server"
	"github.com/inkbloom/inkbloom/pkg/cache"
	"github.com/inkbloom/inkbloom/pkg/config"
	"github.com/inkbloom/inkbloom/pkg/gallery"
	"github.com/inkbloom/inkbloom/pkg/session"
)

// storeConnectTimeout bounds startup probes of redis and mongodb. A backend
// that cannot be reached inside this window degrades the feature instead of
// hanging the server.
const storeConnectTimeout = 5 * time.Second

// newServeCmd creates the serve command running the HTTP painting API.
func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP painting API",
		Long: `Serve runs the painting API: cookie-bound sessions, a canvas per
session, paint/clear/save endpoints, and PNG polling.

Backends come from the config file. Redis and MongoDB are optional: when a
configured backend is unreachable at startup, the dependent feature is
disabled with a warning and painting continues to work.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sessions, err := buildSessionStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer sessions.Close()

			galleryStore := buildGalleryStore(ctx, cfg, logger)
			if galleryStore != nil {
				defer galleryStore.Close(context.Background())
			}

			renderCache := buildCache(ctx, cfg, logger)
			defer renderCache.Close()

			srv, err := server.New(server.Options{
				Config:   cfg,
				Logger:   logger,
				Sessions: sessions,
				Gallery:  galleryStore,
				Cache:    renderCache,
			})
			if err != nil {
				return err
			}

			if err := srv.ListenAndServe(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to inkbloom.toml (defaults apply when omitted)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// buildSessionStore creates the configured session store. The redis backend
// is required when configured: sessions are load-bearing and silently
// falling back to per-instance memory would split users across replicas.
func buildSessionStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (session.Store, error) {
	switch cfg.Server.StoreBackend {
	case "file":
		return session.NewFileStore(cfg.Server.DataDir)
	case "redis":
		connectCtx, cancel := context.WithTimeout(ctx, storeConnectTimeout)
		defer cancel()
		return session.NewRedisStore(connectCtx, session.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		logger.Info("using in-memory session store")
		return session.NewMemoryStore(), nil
	}
}

// buildGalleryStore connects to MongoDB, or returns nil for degraded mode.
func buildGalleryStore(ctx context.Context, cfg *config.Config, logger *log.Logger) gallery.Store {
	if cfg.Mongo.URI == "" {
		return gallery.NewMemoryStore()
	}

	connectCtx, cancel := context.WithTimeout(ctx, storeConnectTimeout)
	defer cancel()

	store, err := gallery.NewMongoStore(connectCtx, gallery.MongoConfig{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		logger.Warn("gallery store unreachable, saving disabled", "error", err)
		return nil
	}
	return store
}

// buildCache creates the configured render cache, falling back to the null
// cache when the backend is unavailable: caching is an optimization, not a
// feature.
func buildCache(ctx context.Context, cfg *config.Config, logger *log.Logger) cache.Cache {
	switch cfg.Cache.Backend {
	case "file":
		c, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			logger.Warn("file cache unavailable, caching disabled", "error", err)
			return cache.NewNullCache()
		}
		return cache.Instrument(c, "canvas")
	case "redis":
		connectCtx, cancel := context.WithTimeout(ctx, storeConnectTimeout)
		defer cancel()
		// The connect probe returns retryable errors, so a redis instance
		// that is still coming up gets a few chances before caching is
		// turned off for the rest of the process.
		var c cache.Cache
		err := cache.RetryWithBackoff(connectCtx, func() error {
			var err error
			c, err = cache.NewRedisCache(connectCtx, cache.RedisOptions{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			return err
		})
		if err != nil {
			logger.Warn("redis cache unavailable, caching disabled", "error", err)
			return cache.NewNullCache()
		}
		return cache.Instrument(c, "canvas")
	default:
		return cache.NewNullCache()
	}
}
