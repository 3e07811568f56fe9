package cli

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/inkbloom/inkbloom/pkg/canvas"
	"github.com/inkbloom/inkbloom/pkg/config"
	"github.com/inkbloom/inkbloom/pkg/engine"
	"github.com/inkbloom/inkbloom/pkg/geom"
	"github.com/inkbloom/inkbloom/pkg/palette"
	"github.com/inkbloom/inkbloom/pkg/stroke"
)

// cursorStep is the pixel distance one arrow key press moves the cursor.
// Two pixels keep horizontal and vertical movement visually even, since a
// terminal cell is one pixel wide and two pixels tall in half-block
// rendering.
const cursorStep = 2

// newStudioCmd creates the studio command running the interactive terminal
// canvas.
func newStudioCmd() *cobra.Command {
	var (
		configPath string
		size       string
		paletteN   string
		outDir     string
		drift      bool
	)

	cmd := &cobra.Command{
		Use:   "studio",
		Short: "Paint interactively in the terminal",
		Long: `Studio opens a live canvas in the terminal, rendered with half-block
characters (two pixels per cell). Strokes go through the frame-driven
paint loop: key presses publish events, and the loop drains the newest
one each frame.

Keys:
  arrows / hjkl   move the brush cursor
  space           paint a bloom at the cursor
  tab / [ / ]     cycle palette swatches
  c               clear the canvas
  s               save the canvas as PNG
  q / ctrl+c      quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			width, height, err := parseSize(size)
			if err != nil {
				return err
			}
			pal, err := palette.Lookup(paletteN)
			if err != nil {
				return err
			}

			model, err := newStudioModel(studioOptions{
				Width:   width,
				Height:  height,
				Palette: pal,
				OutDir:  outDir,
				Engine:  cfg.Engine,
				Drift:   drift,
			})
			if err != nil {
				return err
			}

			p := tea.NewProgram(model, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to inkbloom.toml (defaults apply when omitted)")
	cmd.Flags().StringVar(&size, "size", "96x64", "canvas size in pixels as WIDTHxHEIGHT")
	cmd.Flags().StringVar(&paletteN, "palette", "watercolor", "palette name")
	cmd.Flags().StringVar(&outDir, "dir", ".", "directory for saved paintings")
	cmd.Flags().BoolVar(&drift, "drift", false, "let the brush color drift through the palette while idle")

	return cmd
}

// studioOptions configures the studio model.
type studioOptions struct {
	Width, Height int
	Palette       *palette.Palette
	OutDir        string
	Engine        config.Engine
	Drift         bool
}

// frameMsg is one tick of the paint loop.
type frameMsg struct{}

// studioModel is the bubbletea model for the interactive canvas. All
// painting goes through the engine: key presses publish pointer events and
// each frame tick drains them, so the engine stays the single writer to the
// surface.
type studioModel struct {
	surface *canvas.Surface
	eng     *engine.Engine
	pointer *engine.LatestSource
	pal     *palette.Palette
	outDir  string

	frameRate int
	cursor    geom.Point
	swatch    int
	status    string
}

func newStudioModel(opts studioOptions) (*studioModel, error) {
	surface, err := canvas.New(opts.Width, opts.Height, canvas.DefaultBackground)
	if err != nil {
		return nil, err
	}

	cfg := stroke.DefaultConfig()
	// A small terminal canvas wants a tighter brush than a full-size image.
	cfg.Radius = float64(min(opts.Width, opts.Height)) / 8

	eng := engine.New(stroke.NewPainter(cfg, nil), surface, engine.Options{
		FrameRate:     opts.Engine.FrameRate,
		MinConfidence: opts.Engine.PoseConfidence,
		IdleRecolor:   opts.Drift,
		Palette:       opts.Palette,
	}, nil, nil)
	eng.SetColor(opts.Palette.Color(0))

	pointer := engine.NewLatestSource()
	eng.AddSource(pointer)

	frameRate := opts.Engine.FrameRate
	if frameRate <= 0 {
		frameRate = engine.DefaultFrameRate
	}

	return &studioModel{
		surface:   surface,
		eng:       eng,
		pointer:   pointer,
		pal:       opts.Palette,
		outDir:    opts.OutDir,
		frameRate: frameRate,
		cursor:    geom.Pt(float64(opts.Width)/2, float64(opts.Height)/2),
		status:    "space paints, s saves, q quits",
	}, nil
}

// frameTick schedules the next paint frame.
func (m *studioModel) frameTick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func (m *studioModel) Init() tea.Cmd {
	return m.frameTick()
}

func (m *studioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.eng.Step(context.Background())
		return m, m.frameTick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *studioModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "up", "k":
		m.moveCursor(0, -cursorStep)
	case "down", "j":
		m.moveCursor(0, cursorStep)
	case "left", "h":
		m.moveCursor(-cursorStep, 0)
	case "right", "l":
		m.moveCursor(cursorStep, 0)

	case "tab", "]":
		m.swatch = (m.swatch + 1) % len(m.pal.Swatches)
		m.eng.SetColor(m.pal.Color(m.swatch))
	case "[":
		m.swatch = (m.swatch + len(m.pal.Swatches) - 1) % len(m.pal.Swatches)
		m.eng.SetColor(m.pal.Color(m.swatch))

	case " ":
		// Pointer events are exact, so they carry full confidence. The
		// bloom lands on the next frame tick.
		m.pointer.Publish(engine.Event{Anchor: m.cursor, Confidence: 1})
		m.status = fmt.Sprintf("bloom at (%.0f, %.0f)", m.cursor.X, m.cursor.Y)

	case "c":
		m.surface.Clear()
		m.status = "canvas cleared"

	case "s":
		path := fmt.Sprintf("%s/inkbloom-%s.png", m.outDir, time.Now().Format("20060102-150405"))
		if err := m.surface.SavePNG(path); err != nil {
			m.status = "save failed: " + err.Error()
		} else {
			m.status = "saved " + path
		}
	}
	return m, nil
}

func (m *studioModel) moveCursor(dx, dy float64) {
	next := m.cursor.Add(dx, dy)
	if next.X < 0 || next.X >= float64(m.surface.Width()) {
		return
	}
	if next.Y < 0 || next.Y >= float64(m.surface.Height()) {
		return
	}
	m.cursor = next
}

func (m *studioModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("inkbloom studio"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(m.pal.Name))
	b.WriteString("\n")
	b.WriteString(m.renderCanvas())
	b.WriteString("\n")
	b.WriteString(m.renderPaletteRow())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(m.status))
	b.WriteString("\n")
	return b.String()
}

// renderCanvas draws the raster as half blocks: each cell shows two
// vertically stacked pixels, the upper as foreground of "▀" and the lower
// as background. The cursor cell renders as a crosshair.
func (m *studioModel) renderCanvas() string {
	img := m.surface.Image()
	bounds := img.Bounds()
	cursorX, cursorY := int(m.cursor.X), int(m.cursor.Y)/2*2

	var b strings.Builder
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			upper := hexAt(img, x, y)
			lower := hexAt(img, x, y+1)

			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(upper)).
				Background(lipgloss.Color(lower))
			ch := "▀"
			if x == cursorX && y == cursorY {
				ch = "┼"
			}
			b.WriteString(style.Render(ch))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderPaletteRow draws the swatch strip with the selection marked.
func (m *studioModel) renderPaletteRow() string {
	var b strings.Builder
	for i, c := range m.pal.Swatches {
		if i == m.swatch {
			b.WriteString(StyleValue.Render("["))
			b.WriteString(swatchBlock(c))
			b.WriteString(StyleValue.Render("]"))
		} else {
			b.WriteString(" ")
			b.WriteString(swatchBlock(c))
			b.WriteString(" ")
		}
	}
	return b.String()
}

// hexAt reads a pixel as a hex color string.
func hexAt(img image.Image, x, y int) string {
	r, g, b, _ := img.At(x, y).RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
