package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/inkbloom/inkbloom/pkg/observability"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	payload := []byte{0x89, 'P', 'N', 'G', 0x00, 0x01, 0x02}
	if err := c.Set(ctx, "key", payload, 0); err != nil {
		t.Fatal(err)
	}

	got, found, err := c.Get(ctx, "key")
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if string(got) != string(payload) {
		t.Errorf("Get = %v, want %v", got, payload)
	}

	// Missing key
	if _, found, err := c.Get(ctx, "absent"); found || err != nil {
		t.Errorf("Get(absent): found=%v err=%v", found, err)
	}

	// Delete, then miss
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := c.Get(ctx, "key"); found {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("double Delete: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "fleeting", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, found, err := c.Get(ctx, "fleeting"); found || err != nil {
		t.Errorf("expired entry: found=%v err=%v", found, err)
	}
}

func TestFileCacheTruncatedEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("payload"), 0); err != nil {
		t.Fatal(err)
	}

	// Truncate the entry below the header size.
	fc := c.(*FileCache)
	if err := os.WriteFile(fc.path("key"), []byte{1, 2}, 0644); err != nil {
		t.Fatal(err)
	}

	if _, found, err := c.Get(ctx, "key"); found || err != nil {
		t.Errorf("truncated entry: found=%v err=%v", found, err)
	}
}

func TestFileCacheShardsDirectories(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	fc := c.(*FileCache)

	path := fc.path("some-key")
	rel, err := filepath.Rel(fc.dir, path)
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) != 2 || len(parts[0]) != 2 {
		t.Errorf("path %q not sharded into 2-char subdirectory", rel)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("data"), 0); err != nil {
		t.Fatal(err)
	}
	if _, found, err := c.Get(ctx, "key"); found || err != nil {
		t.Errorf("null cache Get: found=%v err=%v", found, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	tests := []struct {
		name   string
		a, b   string
		prefix string
	}{
		{"canvas revisions differ", k.CanvasKey("s1", 1), k.CanvasKey("s1", 2), "canvas:"},
		{"canvas sessions differ", k.CanvasKey("s1", 1), k.CanvasKey("s2", 1), "canvas:"},
		{"painting ids differ", k.PaintingKey("a"), k.PaintingKey("b"), "painting:"},
		{"thumbnail sizes differ", k.ThumbnailKey("a", 100, 50), k.ThumbnailKey("a", 200, 100), "thumbnail:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a == tt.b {
				t.Errorf("keys collide: %q", tt.a)
			}
			if !strings.HasPrefix(tt.a, tt.prefix) {
				t.Errorf("key %q missing prefix %q", tt.a, tt.prefix)
			}
		})
	}

	// Same inputs produce the same key.
	if k.CanvasKey("s1", 7) != k.CanvasKey("s1", 7) {
		t.Error("keyer is not deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	base := NewDefaultKeyer()
	scoped := NewScopedKeyer(base, "staging:")

	if got := scoped.PaintingKey("a"); got != "staging:"+base.PaintingKey("a") {
		t.Errorf("scoped key = %q", got)
	}

	// Nil inner falls back to the default keyer.
	fallback := NewScopedKeyer(nil, "p:")
	if got := fallback.CanvasKey("s", 1); got != "p:"+base.CanvasKey("s", 1) {
		t.Errorf("fallback scoped key = %q", got)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}

	base := errors.New("connection refused")
	wrapped := Retryable(base)
	if !IsRetryable(wrapped) {
		t.Error("wrapped error should be retryable")
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should unwrap to the cause")
	}
	if IsRetryable(base) {
		t.Error("bare error should not be retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Non-retryable errors fail immediately.
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return errors.New("fatal")
	})
	if err == nil || calls != 1 {
		t.Errorf("non-retryable: calls=%d err=%v", calls, err)
	}

	// Success needs no retry.
	calls = 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: calls=%d err=%v", calls, err)
	}
}

type countingCacheHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestInstrumentEmitsEvents(t *testing.T) {
	hooks := &countingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	inner, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := Instrument(inner, "canvas")
	ctx := context.Background()

	c.Get(ctx, "key")
	c.Set(ctx, "key", []byte("data"), 0)
	c.Get(ctx, "key")

	if hooks.misses != 1 || hooks.sets != 1 || hooks.hits != 1 {
		t.Errorf("events = %d misses, %d sets, %d hits, want 1 each",
			hooks.misses, hooks.sets, hooks.hits)
	}
}
