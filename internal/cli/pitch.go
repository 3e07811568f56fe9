package cli

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkbloom/inkbloom/pkg/canvas"
	"github.com/inkbloom/inkbloom/pkg/errors"
	"github.com/inkbloom/inkbloom/pkg/geom"
	"github.com/inkbloom/inkbloom/pkg/palette"
	"github.com/inkbloom/inkbloom/pkg/pitch"
	"github.com/inkbloom/inkbloom/pkg/stroke"
)

// pitchOptions holds the flags for the pitch command.
type pitchOptions struct {
	frame    int
	paletteN string
	noteMap  string
	paintOut string
	size     string
	seed     int64
}

// newPitchCmd creates the pitch command analyzing a WAV recording.
func newPitchCmd() *cobra.Command {
	opts := &pitchOptions{}

	cmd := &cobra.Command{
		Use:   "pitch <file.wav>",
		Short: "Detect notes in a WAV file and map them to palette colors",
		Long: `Pitch runs autocorrelation pitch detection over a WAV recording and
prints the detected notes with their mapped palette colors.

With --paint, each detected note also paints a bloom at a random anchor,
colored by the note, and the result is saved as PNG.

Examples:

  inkbloom pitch melody.wav
  inkbloom pitch melody.wav --map fifths
  inkbloom pitch melody.wav --paint melody.png --seed 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPitch(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.frame, "frame", pitch.DefaultBufferSize, "analysis frame size in samples")
	cmd.Flags().StringVar(&opts.paletteN, "palette", "watercolor", "palette name")
	cmd.Flags().StringVar(&opts.noteMap, "map", "identity", "pitch-class mapping (identity or fifths)")
	cmd.Flags().StringVar(&opts.paintOut, "paint", "", "paint one bloom per note and save to this PNG path")
	cmd.Flags().StringVar(&opts.size, "size", "1024x768", "canvas size for --paint as WIDTHxHEIGHT")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed for --paint anchors (0 = time-seeded)")

	return cmd
}

func runPitch(cmd *cobra.Command, path string, opts *pitchOptions) error {
	logger := loggerFromContext(cmd.Context())

	pal, err := palette.Lookup(opts.paletteN)
	if err != nil {
		return err
	}
	noteMap, err := resolveNoteMap(opts.noteMap)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "cannot open %s", path)
	}
	defer f.Close()

	logger.Debug("analyzing", "file", path, "frame", opts.frame)
	notes, err := pitch.AnalyzeWAV(f, opts.frame)
	if err != nil {
		return err
	}

	if len(notes) == 0 {
		printWarning("No pitched notes detected")
		return nil
	}

	printInfo("%d notes detected", len(notes))
	printKeyValue("file", path)
	for _, n := range notes {
		c := pal.ColorForNote(n.PitchClass, noteMap)
		fmt.Printf("  %s  %8.2fs  %8.2f Hz  %-2s  %s\n",
			swatchBlock(c),
			n.Offset.Seconds(),
			n.Frequency,
			n.Name,
			StyleDim.Render(palette.FormatHex(c)),
		)
	}

	if opts.paintOut == "" {
		return nil
	}
	return paintNotes(notes, pal, noteMap, opts)
}

// paintNotes renders one bloom per detected note at a random anchor.
func paintNotes(notes []pitch.Note, pal *palette.Palette, noteMap palette.NoteMap, opts *pitchOptions) error {
	width, height, err := parseSize(opts.size)
	if err != nil {
		return err
	}
	if err := errors.ValidateOutputPath(opts.paintOut); err != nil {
		return err
	}

	seed := opts.seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	surface, err := canvas.New(width, height, canvas.DefaultBackground)
	if err != nil {
		return err
	}
	painter := stroke.NewPainter(stroke.DefaultConfig(), rng)

	const inset = 0.1
	for _, n := range notes {
		anchor := geom.Pt(
			float64(width)*(inset+rng.Float64()*(1-2*inset)),
			float64(height)*(inset+rng.Float64()*(1-2*inset)),
		)
		if err := painter.Paint(surface, anchor, pal.ColorForNote(n.PitchClass, noteMap)); err != nil {
			return err
		}
	}

	if err := surface.SavePNG(opts.paintOut); err != nil {
		return err
	}
	printSuccess("Painted %d notes", len(notes))
	printFile(opts.paintOut)
	return nil
}

// resolveNoteMap parses the --map flag.
func resolveNoteMap(name string) (palette.NoteMap, error) {
	switch name {
	case "", "identity":
		return palette.Identity(), nil
	case "fifths":
		return palette.CircleOfFifths(), nil
	default:
		return palette.NoteMap{}, errors.New(errors.ErrCodeInvalidInput, "unknown note map %q (identity or fifths)", name)
	}
}
