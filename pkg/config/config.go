// Package config loads and validates Inkbloom configuration.
//
// Configuration is TOML with a section per subsystem. Every field has a
// default, so an empty file (or no file at all) yields a working setup;
// Load applies the file on top of Default and validates the result.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/inkbloom/inkbloom/pkg/errors"
	"github.com/inkbloom/inkbloom/pkg/palette"
	"github.com/inkbloom/inkbloom/pkg/pitch"
	"github.com/inkbloom/inkbloom/pkg/stroke"
)

// Default values applied when the file leaves a field unset.
const (
	DefaultCanvasWidth  = 1024
	DefaultCanvasHeight = 768
	DefaultBackground   = "#f4f0e8"

	DefaultPaletteName = "watercolor"
	DefaultNoteMap     = "identity"

	DefaultFrameRate      = 24
	DefaultPoseConfidence = 0.60

	DefaultListenAddr = ":8080"
	DefaultSessionTTL = 24 * time.Hour

	DefaultStoreBackend = "memory"
	DefaultCacheBackend = "file"
)

// Config is the full application configuration.
type Config struct {
	Canvas  Canvas        `toml:"canvas"`
	Brush   stroke.Config `toml:"brush"`
	Palette PaletteConfig `toml:"palette"`
	Engine  Engine        `toml:"engine"`
	Pitch   Pitch         `toml:"pitch"`
	Server  Server        `toml:"server"`
	Redis   Redis         `toml:"redis"`
	Mongo   Mongo         `toml:"mongo"`
	Cache   Cache         `toml:"cache"`
}

// Canvas configures the painting surface.
type Canvas struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
}

// PaletteConfig selects the palette and the pitch-class ordering.
type PaletteConfig struct {
	Name string `toml:"name"`

	// NoteMap is "identity" or "fifths".
	NoteMap string `toml:"note_map"`
}

// Engine configures the interactive painting loop.
type Engine struct {
	FrameRate int `toml:"frame_rate"`

	// PoseConfidence is the minimum tracking confidence for a pose-driven
	// paint event to be accepted.
	PoseConfidence float64 `toml:"pose_confidence"`
}

// Pitch configures the audio pitch detector.
type Pitch struct {
	BufferSize       int     `toml:"buffer_size"`
	SilenceThreshold float64 `toml:"silence_threshold"`
	TrimThreshold    float64 `toml:"trim_threshold"`
}

// Duration decodes TOML duration strings like "24h" or "90s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing duration %q", text)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Server configures the HTTP API.
type Server struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`

	// StoreBackend selects the session store: memory, file, or redis.
	StoreBackend string `toml:"store_backend"`

	// DataDir is where the file backend keeps its state.
	DataDir string `toml:"data_dir"`
}

// Redis configures the redis-backed stores.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Mongo configures the MongoDB gallery store.
type Mongo struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// Cache configures the render cache: file, redis, or none.
type Cache struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Canvas: Canvas{
			Width:      DefaultCanvasWidth,
			Height:     DefaultCanvasHeight,
			Background: DefaultBackground,
		},
		Brush: stroke.DefaultConfig(),
		Palette: PaletteConfig{
			Name:    DefaultPaletteName,
			NoteMap: DefaultNoteMap,
		},
		Engine: Engine{
			FrameRate:      DefaultFrameRate,
			PoseConfidence: DefaultPoseConfidence,
		},
		Pitch: Pitch{
			BufferSize:       pitch.DefaultBufferSize,
			SilenceThreshold: pitch.DefaultSilenceThreshold,
			TrimThreshold:    pitch.DefaultTrimThreshold,
		},
		Server: Server{
			Addr:         DefaultListenAddr,
			SessionTTL:   Duration{DefaultSessionTTL},
			StoreBackend: DefaultStoreBackend,
			DataDir:      "data",
		},
		Redis: Redis{
			Addr: "localhost:6379",
		},
		Mongo: Mongo{
			URI:      "mongodb://localhost:27017",
			Database: "inkbloom",
		},
		Cache: Cache{
			Backend: DefaultCacheBackend,
			Dir:     ".inkbloom-cache",
		},
	}
}

// Load reads a TOML file on top of the defaults and validates the result.
// An empty path returns the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "reading config file %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing config file %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height)
	}
	if _, err := palette.ParseHex(c.Canvas.Background); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "canvas background")
	}
	if err := c.Brush.Validate(); err != nil {
		return err
	}
	if _, err := palette.Lookup(c.Palette.Name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "palette")
	}
	if _, err := c.Palette.ResolveNoteMap(); err != nil {
		return err
	}
	if c.Engine.FrameRate <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "frame_rate must be positive, got %d", c.Engine.FrameRate)
	}
	if c.Engine.PoseConfidence < 0 || c.Engine.PoseConfidence > 1 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"pose_confidence must be in [0, 1], got %v", c.Engine.PoseConfidence)
	}
	if c.Pitch.BufferSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "pitch buffer_size must be positive, got %d", c.Pitch.BufferSize)
	}
	switch c.Server.StoreBackend {
	case "memory", "file", "redis":
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"store_backend must be memory, file, or redis, got %q", c.Server.StoreBackend)
	}
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache backend must be file, redis, or none, got %q", c.Cache.Backend)
	}
	if c.Server.SessionTTL.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "session_ttl must be positive, got %v", c.Server.SessionTTL.Duration)
	}
	return nil
}

// ResolvePalette returns the configured palette.
func (c *Config) ResolvePalette() (*palette.Palette, error) {
	return palette.Lookup(c.Palette.Name)
}

// ResolveNoteMap returns the configured pitch-class-to-swatch map.
func (p *PaletteConfig) ResolveNoteMap() (palette.NoteMap, error) {
	switch p.NoteMap {
	case "", "identity":
		return palette.Identity(), nil
	case "fifths":
		return palette.CircleOfFifths(), nil
	default:
		return palette.NoteMap{}, errors.New(errors.ErrCodeInvalidConfig,
			"note_map must be identity or fifths, got %q", p.NoteMap)
	}
}
