package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/inkbloom/inkbloom/pkg/cache"
	"github.com/inkbloom/inkbloom/pkg/config"
	"github.com/inkbloom/inkbloom/pkg/session"
)

func TestBuildSessionStoreBackends(t *testing.T) {
	logger := log.New(io.Discard)

	t.Run("memory", func(t *testing.T) {
		cfg := config.Default()
		store, err := buildSessionStore(context.Background(), cfg, logger)
		if err != nil {
			t.Fatalf("buildSessionStore: %v", err)
		}
		defer store.Close()
		if _, ok := store.(*session.MemoryStore); !ok {
			t.Errorf("store = %T, want *session.MemoryStore", store)
		}
	})

	t.Run("file", func(t *testing.T) {
		cfg := config.Default()
		cfg.Server.StoreBackend = "file"
		cfg.Server.DataDir = t.TempDir()
		store, err := buildSessionStore(context.Background(), cfg, logger)
		if err != nil {
			t.Fatalf("buildSessionStore: %v", err)
		}
		defer store.Close()
		if _, ok := store.(*session.FileStore); !ok {
			t.Errorf("store = %T, want *session.FileStore", store)
		}
	})
}

func TestBuildCacheBackends(t *testing.T) {
	logger := log.New(io.Discard)

	t.Run("none", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.Backend = "none"
		c := buildCache(context.Background(), cfg, logger)
		defer c.Close()
		if _, ok := c.(*cache.NullCache); !ok {
			t.Errorf("cache = %T, want *cache.NullCache", c)
		}
	})

	t.Run("file", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.Backend = "file"
		cfg.Cache.Dir = filepath.Join(t.TempDir(), "render")
		c := buildCache(context.Background(), cfg, logger)
		defer c.Close()
		if _, ok := c.(*cache.NullCache); ok {
			t.Error("file backend fell back to the null cache")
		}
	})
}
