package palette

import (
	"image/color"
	"math"
)

// noteNames lists the twelve pitch classes starting at C.
var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchClass maps a fundamental frequency in Hz to a 12-tone pitch class
// (0 = C ... 11 = B), relative to A4 = 440 Hz (MIDI 69).
func PitchClass(freq float64) int {
	if freq <= 0 {
		return 0
	}
	midi := int(math.Round(12*math.Log2(freq/440))) + 69
	pc := midi % 12
	if pc < 0 {
		pc += 12
	}
	return pc
}

// NoteName returns the name of a pitch class ("C", "C#", ... "B").
func NoteName(pitchClass int) string {
	pc := pitchClass % 12
	if pc < 0 {
		pc += 12
	}
	return noteNames[pc]
}

// NoteMap is an optional remapping from pitch class to swatch index, for
// palettes whose visual order should not follow the chromatic scale
// (e.g. mapping the circle of fifths onto a hue wheel).
type NoteMap [12]int

// Identity returns the pass-through note map.
func Identity() NoteMap {
	var m NoteMap
	for i := range m {
		m[i] = i
	}
	return m
}

// CircleOfFifths maps each pitch class to its position in the circle of
// fifths, so harmonically adjacent notes get adjacent swatches.
func CircleOfFifths() NoteMap {
	// C G D A E B F# C# G# D# A# F
	return NoteMap{0, 7, 2, 9, 4, 11, 6, 1, 8, 3, 10, 5}
}

// ColorForNote returns the swatch for a pitch class, through the note map.
func (p *Palette) ColorForNote(pitchClass int, m NoteMap) color.NRGBA {
	pc := pitchClass % 12
	if pc < 0 {
		pc += 12
	}
	return p.Color(m[pc] % len(p.Swatches))
}

// ColorForFrequency is the full pitch-to-color path: frequency to pitch
// class to (optionally remapped) swatch.
func (p *Palette) ColorForFrequency(freq float64, m NoteMap) color.NRGBA {
	return p.ColorForNote(PitchClass(freq), m)
}
