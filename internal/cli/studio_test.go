package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inkbloom/inkbloom/pkg/config"
	"github.com/inkbloom/inkbloom/pkg/palette"
)

func newTestStudio(t *testing.T) *studioModel {
	t.Helper()
	pal, err := palette.Lookup("watercolor")
	if err != nil {
		t.Fatalf("palette: %v", err)
	}
	m, err := newStudioModel(studioOptions{
		Width:   32,
		Height:  24,
		Palette: pal,
		OutDir:  t.TempDir(),
		Engine:  config.Default().Engine,
	})
	if err != nil {
		t.Fatalf("newStudioModel: %v", err)
	}
	return m
}

func keyPress(m *studioModel, msg tea.Msg) *studioModel {
	next, _ := m.Update(msg)
	return next.(*studioModel)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestStudioCursorMovement(t *testing.T) {
	m := newTestStudio(t)
	start := m.cursor

	m = keyPress(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.cursor.X != start.X+cursorStep {
		t.Errorf("cursor.X = %v, want %v", m.cursor.X, start.X+cursorStep)
	}

	m = keyPress(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor.Y != start.Y+cursorStep {
		t.Errorf("cursor.Y = %v, want %v", m.cursor.Y, start.Y+cursorStep)
	}

	m = keyPress(m, runeKey('h'))
	if m.cursor.X != start.X {
		t.Errorf("cursor.X after h = %v, want %v", m.cursor.X, start.X)
	}
}

func TestStudioCursorClamped(t *testing.T) {
	m := newTestStudio(t)

	for range 100 {
		m = keyPress(m, tea.KeyMsg{Type: tea.KeyLeft})
	}
	if m.cursor.X < 0 {
		t.Errorf("cursor.X = %v, escaped the canvas", m.cursor.X)
	}

	for range 100 {
		m = keyPress(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.cursor.Y >= float64(m.surface.Height()) {
		t.Errorf("cursor.Y = %v, escaped the canvas", m.cursor.Y)
	}
}

func TestStudioInitStartsFrameLoop(t *testing.T) {
	m := newTestStudio(t)
	if m.Init() == nil {
		t.Fatal("Init did not schedule a frame tick")
	}
}

func TestStudioPaintsOnFrameTick(t *testing.T) {
	m := newTestStudio(t)
	blank := rawPixels(t, m)

	// Space only publishes the event; nothing lands until the loop drains
	// it on the next frame.
	m = keyPress(m, tea.KeyMsg{Type: tea.KeySpace})
	if !bytes.Equal(blank, rawPixels(t, m)) {
		t.Fatal("canvas changed before the frame tick")
	}

	m = keyPress(m, frameMsg{})
	if bytes.Equal(blank, rawPixels(t, m)) {
		t.Error("frame tick did not paint the pending event")
	}
}

func TestStudioFrameTickReschedules(t *testing.T) {
	m := newTestStudio(t)
	_, cmd := m.Update(frameMsg{})
	if cmd == nil {
		t.Fatal("frame tick did not schedule the next frame")
	}
}

func TestStudioIdleFrameLeavesCanvas(t *testing.T) {
	m := newTestStudio(t)
	blank := rawPixels(t, m)

	for range 5 {
		m = keyPress(m, frameMsg{})
	}
	if !bytes.Equal(blank, rawPixels(t, m)) {
		t.Error("frames with no pending event painted anyway")
	}
}

func TestStudioClearRestoresBackground(t *testing.T) {
	m := newTestStudio(t)
	blank := rawPixels(t, m)

	m = keyPress(m, tea.KeyMsg{Type: tea.KeySpace})
	m = keyPress(m, frameMsg{})
	m = keyPress(m, runeKey('c'))

	if !bytes.Equal(blank, rawPixels(t, m)) {
		t.Error("clear did not restore the blank canvas")
	}
}

func TestStudioSwatchCycling(t *testing.T) {
	m := newTestStudio(t)
	n := len(m.pal.Swatches)

	m = keyPress(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.swatch != 1 {
		t.Errorf("swatch = %d after tab, want 1", m.swatch)
	}
	if m.eng.Color() != m.pal.Color(1) {
		t.Error("cycling did not update the brush color")
	}

	m = keyPress(m, runeKey('['))
	m = keyPress(m, runeKey('['))
	if m.swatch != n-1 {
		t.Errorf("swatch = %d after wrapping backward, want %d", m.swatch, n-1)
	}

	m = keyPress(m, runeKey(']'))
	if m.swatch != 0 {
		t.Errorf("swatch = %d after wrapping forward, want 0", m.swatch)
	}
	if m.eng.Color() != m.pal.Color(0) {
		t.Error("brush color out of step with the selected swatch")
	}
}

func TestStudioSave(t *testing.T) {
	m := newTestStudio(t)

	m = keyPress(m, tea.KeyMsg{Type: tea.KeySpace})
	m = keyPress(m, frameMsg{})
	m = keyPress(m, runeKey('s'))

	entries, err := os.ReadDir(m.outDir)
	if err != nil {
		t.Fatalf("reading save dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("save dir has %d entries, want 1", len(entries))
	}
	if filepath.Ext(entries[0].Name()) != ".png" {
		t.Errorf("saved file %q is not a PNG", entries[0].Name())
	}
}

func TestStudioQuit(t *testing.T) {
	m := newTestStudio(t)
	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("q did not return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestStudioViewRendersCanvas(t *testing.T) {
	m := newTestStudio(t)
	view := m.View()
	if view == "" {
		t.Fatal("empty view")
	}
	if !bytes.Contains([]byte(view), []byte("▀")) {
		t.Error("view has no half-block rows")
	}
}

// rawPixels snapshots the surface for comparisons.
func rawPixels(t *testing.T, m *studioModel) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := m.surface.EncodePNG(&buf); err != nil {
		t.Fatalf("encoding surface: %v", err)
	}
	return buf.Bytes()
}
