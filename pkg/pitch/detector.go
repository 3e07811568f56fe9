// Package pitch estimates the fundamental frequency of short time-domain
// audio buffers, so detected notes can drive color selection.
//
// The detector is the ACF2+ variant of autocorrelation pitch tracking:
// gate on RMS, trim the unstable buffer edges, autocorrelate, skip the
// trivial lag-0 peak by walking to the first dip, take the global maximum
// after it, and refine the winning lag with parabolic interpolation.
//
// "No pitch" is an expected outcome, not an error: silence, noise, and
// degenerate peak positions all report ok == false.
package pitch

import (
	"math"
)

// Detector defaults.
const (
	// DefaultBufferSize is the number of samples analyzed per detection.
	DefaultBufferSize = 2048

	// DefaultSilenceThreshold is the RMS floor below which the buffer is
	// reported as silence.
	DefaultSilenceThreshold = 0.01

	// DefaultTrimThreshold bounds the |sample| level treated as near-zero
	// when trimming the buffer edges.
	DefaultTrimThreshold = 0.2
)

// Detector estimates fundamental frequency from fixed-size sample buffers.
// Samples are expected in [-1, 1].
type Detector struct {
	sampleRate       float64
	silenceThreshold float64
	trimThreshold    float64
}

// NewDetector creates a detector for the given sample rate.
// Non-positive thresholds fall back to the defaults.
func NewDetector(sampleRate, silenceThreshold, trimThreshold float64) *Detector {
	if silenceThreshold <= 0 {
		silenceThreshold = DefaultSilenceThreshold
	}
	if trimThreshold <= 0 {
		trimThreshold = DefaultTrimThreshold
	}
	return &Detector{
		sampleRate:       sampleRate,
		silenceThreshold: silenceThreshold,
		trimThreshold:    trimThreshold,
	}
}

// SampleRate returns the detector's configured sample rate.
func (d *Detector) SampleRate() float64 { return d.sampleRate }

// Detect estimates the fundamental frequency of buf in Hz.
// It returns ok == false when no pitch is present: silent or empty buffers,
// buffers trimmed to nothing, and autocorrelations without a usable peak.
func (d *Detector) Detect(buf []float64) (freq float64, ok bool) {
	if len(buf) == 0 {
		return 0, false
	}

	// 1. Silence gate on RMS amplitude.
	var sumSq float64
	for _, s := range buf {
		sumSq += s * s
	}
	if math.Sqrt(sumSq/float64(len(buf))) < d.silenceThreshold {
		return 0, false
	}

	// 2. Trim near-zero samples from both ends to isolate the stable part
	// of the waveform. Each end gives up at the halfway point.
	lo, hi := 0, len(buf)
	for lo < len(buf)/2 && math.Abs(buf[lo]) < d.trimThreshold {
		lo++
	}
	for hi > len(buf)/2 && math.Abs(buf[hi-1]) < d.trimThreshold {
		hi--
	}
	trimmed := buf[lo:hi]
	n := len(trimmed)
	if n < 2 {
		return 0, false
	}

	// 3. Unnormalized autocorrelation over all lags.
	c := make([]float64, n)
	for lag := 0; lag < n; lag++ {
		var sum float64
		for j := 0; j+lag < n; j++ {
			sum += trimmed[j] * trimmed[j+lag]
		}
		c[lag] = sum
	}

	// 4. Walk past the trivial lag-0 peak to the first dip, then take the
	// global maximum after it.
	dip := 0
	for dip < n-1 && c[dip] > c[dip+1] {
		dip++
	}
	if dip >= n-1 {
		// Monotonically decreasing autocorrelation: no periodicity found.
		return 0, false
	}

	peak := -1
	maxVal := math.Inf(-1)
	for i := dip; i < n; i++ {
		if c[i] > maxVal {
			maxVal = c[i]
			peak = i
		}
	}
	if peak <= 0 {
		return 0, false
	}

	// 5. Parabolic interpolation refines the lag to sub-sample precision.
	// A peak at either buffer boundary has no neighbors to interpolate
	// against and is used as-is.
	lag := float64(peak)
	if peak > 0 && peak < n-1 {
		x1, x2, x3 := c[peak-1], c[peak], c[peak+1]
		a := (x1 + x3 - 2*x2) / 2
		b := (x3 - x1) / 2
		if a != 0 {
			lag = float64(peak) - b/(2*a)
		}
	}
	if lag <= 0 {
		return 0, false
	}

	// 6. Lag approximates the fundamental period in samples.
	return d.sampleRate / lag, true
}
