package pitch

import (
	"io"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/inkbloom/inkbloom/pkg/errors"
	"github.com/inkbloom/inkbloom/pkg/palette"
)

// Note is one pitched frame of an analyzed recording.
type Note struct {
	Offset     time.Duration `json:"offset"`
	Frequency  float64       `json:"frequency"`
	PitchClass int           `json:"pitch_class"`
	Name       string        `json:"name"`
}

// AnalyzeWAV decodes a WAV stream and runs pitch detection over consecutive
// frames of frameSize samples (DefaultBufferSize when frameSize <= 0).
// Multi-channel audio is mixed down to mono before detection. Frames with
// no detectable pitch are skipped, so the result can be shorter than the
// recording; an all-silent file yields an empty slice and no error.
func AnalyzeWAV(r io.ReadSeeker, frameSize int) ([]Note, error) {
	if frameSize <= 0 {
		frameSize = DefaultBufferSize
	}

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New(errors.ErrCodeInvalidAudio, "not a valid WAV stream")
	}
	dec.ReadInfo()

	sampleRate := float64(dec.SampleRate)
	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	if sampleRate <= 0 || channels <= 0 || bitDepth <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidAudio,
			"unusable WAV format: rate=%d channels=%d depth=%d",
			dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	scale := float64(int64(1) << (bitDepth - 1))

	det := NewDetector(sampleRate, 0, 0)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  int(dec.SampleRate),
		},
		Data:           make([]int, frameSize*channels),
		SourceBitDepth: bitDepth,
	}
	mono := make([]float64, frameSize)

	var notes []Note
	frame := 0
	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidAudio, err, "decoding WAV samples")
		}
		if n == 0 {
			break
		}

		samples := n / channels
		for i := 0; i < samples; i++ {
			var sum float64
			for ch := 0; ch < channels; ch++ {
				sum += float64(buf.Data[i*channels+ch]) / scale
			}
			mono[i] = sum / float64(channels)
		}

		if freq, ok := det.Detect(mono[:samples]); ok {
			pc := palette.PitchClass(freq)
			notes = append(notes, Note{
				Offset:     time.Duration(float64(frame*frameSize) / sampleRate * float64(time.Second)),
				Frequency:  freq,
				PitchClass: pc,
				Name:       palette.NoteName(pc),
			})
		}
		frame++

		if samples < frameSize {
			break
		}
	}
	return notes, nil
}
