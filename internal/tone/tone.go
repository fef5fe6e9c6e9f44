// Package tone synthesizes the sine bursts used as sit/stand cues.
package tone

import (
	"fmt"
	"math"
)

// Descriptor fully determines a tone burst.
type Descriptor struct {
	FrequencyHz float64
	DurationSec float64
	FadeMs      float64
}

// Validate reports whether the descriptor can be synthesized.
func (d Descriptor) Validate() error {
	if d.FrequencyHz <= 0 {
		return fmt.Errorf("tone frequency must be positive, got %v", d.FrequencyHz)
	}
	if d.DurationSec < 0 {
		return fmt.Errorf("tone duration must not be negative, got %v", d.DurationSec)
	}
	if d.FadeMs < 0 {
		return fmt.Errorf("tone fade must not be negative, got %v", d.FadeMs)
	}
	return nil
}

// Length returns the number of samples Generate produces at sampleRate.
func (d Descriptor) Length(sampleRate int) int {
	return int(math.Round(d.DurationSec * float64(sampleRate)))
}

// FadeLength returns the fade ramp length in samples at sampleRate, or 0 when
// the ramps would overlap.
func (d Descriptor) FadeLength(sampleRate int) int {
	n := d.Length(sampleRate)
	fade := int(math.Round(float64(sampleRate) * d.FadeMs / 1000))
	if fade <= 0 || 2*fade > n {
		return 0
	}
	return fade
}

// Generate returns a full-scale sine wave for d at sampleRate with linear
// fade-in and fade-out ramps.
func Generate(d Descriptor, sampleRate int) []float64 {
	n := d.Length(sampleRate)
	if n <= 0 {
		return []float64{}
	}
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		samples[i] = math.Sin(2 * math.Pi * d.FrequencyHz * t)
	}

	fade := d.FadeLength(sampleRate)
	if fade == 0 {
		return samples
	}
	for i := 0; i < fade; i++ {
		g := ramp(i, fade)
		samples[i] *= g
		samples[n-1-i] *= g
	}
	return samples
}

// ramp returns the i-th point of an inclusive 0..1 ramp of length n.
func ramp(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
