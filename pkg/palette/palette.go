// Package palette provides color selection for paint events: fixed swatch
// palettes, pointer-position swatch picking, and pitch-class-to-color
// mapping for audio-driven painting.
package palette

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/inkbloom/inkbloom/pkg/errors"
)

// Palette is a named, ordered list of swatches. Order matters: the swatch
// index is what pointer picking and note mapping produce.
type Palette struct {
	Name     string
	Swatches []color.NRGBA
}

// Validate checks that the palette has a valid name and at least one swatch.
func (p *Palette) Validate() error {
	if err := errors.ValidatePaletteName(p.Name); err != nil {
		return err
	}
	if len(p.Swatches) == 0 {
		return errors.New(errors.ErrCodeInvalidPalette, "palette %q has no swatches", p.Name)
	}
	return nil
}

// Color returns the swatch at index i, clamped into range.
func (p *Palette) Color(i int) color.NRGBA {
	if len(p.Swatches) == 0 {
		return color.NRGBA{A: 255}
	}
	if i < 0 {
		i = 0
	}
	if i >= len(p.Swatches) {
		i = len(p.Swatches) - 1
	}
	return p.Swatches[i]
}

// PickSwatch maps a pointer x-position over a horizontal palette strip of
// the given total width to a swatch index. The strip is bucketed into
// len(Swatches) equal-width swatches. A click outside the strip returns
// ok == false and the caller keeps its current color (no-op).
func (p *Palette) PickSwatch(x, width float64) (int, bool) {
	if len(p.Swatches) == 0 || width <= 0 {
		return 0, false
	}
	if x < 0 || x >= width {
		return 0, false
	}

	idx := int(x / (width / float64(len(p.Swatches))))
	if idx >= len(p.Swatches) {
		idx = len(p.Swatches) - 1
	}
	return idx, true
}

// ParseHex parses #RGB, #RRGGBB, or #RRGGBBAA into an NRGBA color.
// Alpha defaults to 255 when not given.
func ParseHex(s string) (color.NRGBA, error) {
	if err := errors.ValidateHexColor(s); err != nil {
		return color.NRGBA{}, err
	}

	hex := strings.TrimPrefix(s, "#")
	var c color.NRGBA
	c.A = 255

	switch len(hex) {
	case 3:
		_, err := fmt.Sscanf(hex, "%1x%1x%1x", &c.R, &c.G, &c.B)
		if err != nil {
			return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor, "invalid hex color: %q", s)
		}
		// Expand each nibble: f -> ff.
		c.R *= 17
		c.G *= 17
		c.B *= 17
	case 6:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor, "invalid hex color: %q", s)
		}
	case 8:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor, "invalid hex color: %q", s)
		}
	}
	return c, nil
}

// FormatHex renders c as #RRGGBB, or #RRGGBBAA when alpha is not opaque.
func FormatHex(c color.NRGBA) string {
	if c.A != 255 {
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// mustParse is for package-internal palette literals.
func mustParse(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Built-in palettes. Twelve swatches each so a full pitch-class cycle maps
// onto distinct colors without remapping.
var (
	// Watercolor is the default painting palette: muted pigment tones.
	Watercolor = Palette{
		Name: "watercolor",
		Swatches: []color.NRGBA{
			mustParse("#69a0d2"), // cerulean
			mustParse("#2d6a9f"), // prussian blue
			mustParse("#7aaa78"), // sap green
			mustParse("#4e7a4c"), // hooker's green
			mustParse("#e8ca84"), // naples yellow
			mustParse("#d9973c"), // raw sienna
			mustParse("#c96f4a"), // burnt sienna
			mustParse("#b33a3a"), // venetian red
			mustParse("#8e4a8e"), // mauve
			mustParse("#5b4a8e"), // ultramarine violet
			mustParse("#c8c0d8"), // lavender grey
			mustParse("#5a5a5a"), // payne's grey
		},
	}

	// Vivid is a saturated palette for pitch-driven painting, one strong hue
	// per semitone.
	Vivid = Palette{
		Name: "vivid",
		Swatches: []color.NRGBA{
			mustParse("#e6194b"),
			mustParse("#f58231"),
			mustParse("#ffe119"),
			mustParse("#bfef45"),
			mustParse("#3cb44b"),
			mustParse("#42d4f4"),
			mustParse("#4363d8"),
			mustParse("#911eb4"),
			mustParse("#f032e6"),
			mustParse("#fabed4"),
			mustParse("#9a6324"),
			mustParse("#800000"),
		},
	}
)

// builtins indexes the built-in palettes by name.
var builtins = map[string]*Palette{
	Watercolor.Name: &Watercolor,
	Vivid.Name:      &Vivid,
}

// Lookup returns a built-in palette by name.
func Lookup(name string) (*Palette, error) {
	if p, ok := builtins[name]; ok {
		return p, nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "unknown palette: %q", name)
}

// Names returns the built-in palette names.
func Names() []string {
	return []string{Watercolor.Name, Vivid.Name}
}
