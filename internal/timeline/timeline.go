package timeline

import "math"

// Fragment is a short, independently produced mono buffer (a spoken phrase
// or a tone burst) at its own sample rate. Fragments are read-only once
// produced.
type Fragment struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the fragment length in seconds.
func (f Fragment) Duration() float64 {
	if f.SampleRate <= 0 {
		return 0
	}
	return float64(len(f.Samples)) / float64(f.SampleRate)
}

// Timeline is the output track. Its length is fixed at creation and fragments
// are accumulated into it by addition.
type Timeline struct {
	buf        []float64
	sampleRate int
}

// New returns a silent timeline of ceil(totalSec*sampleRate)+1 samples.
func New(totalSec float64, sampleRate int) *Timeline {
	n := 1
	if totalSec > 0 && sampleRate > 0 {
		n = int(math.Ceil(totalSec*float64(sampleRate))) + 1
	}
	return &Timeline{
		buf:        make([]float64, n),
		sampleRate: sampleRate,
	}
}

// SampleRate returns the timeline sample rate.
func (t *Timeline) SampleRate() int {
	return t.sampleRate
}

// Len returns the number of samples.
func (t *Timeline) Len() int {
	return len(t.buf)
}

// Duration returns the timeline length in seconds.
func (t *Timeline) Duration() float64 {
	if t.sampleRate <= 0 {
		return 0
	}
	return float64(len(t.buf)) / float64(t.sampleRate)
}

// Samples returns the underlying buffer. Callers must not retain it across
// further Mix or Limit calls.
func (t *Timeline) Samples() []float64 {
	return t.buf
}

// StartIndex converts a start time to the sample index Mix would use.
func (t *Timeline) StartIndex(startSec float64) int {
	return int(math.Round(startSec * float64(t.sampleRate)))
}

// Mix adds gain*frag into the timeline starting at startSec. Placements that
// start at or past the end are dropped and fragments running past the end
// are truncated. It returns the number of samples written.
func (t *Timeline) Mix(frag []float64, startSec, gain float64) int {
	start := t.StartIndex(startSec)
	if start < 0 || start >= len(t.buf) {
		return 0
	}
	end := start + len(frag)
	if end > len(t.buf) {
		end = len(t.buf)
	}
	dst := t.buf[start:end]
	for i := range dst {
		dst[i] += gain * frag[i]
	}
	return len(dst)
}

// Peak returns the maximum absolute sample value.
func (t *Timeline) Peak() float64 {
	var peak float64
	for _, v := range t.buf {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// Limit scales the whole timeline by target/peak when the peak exceeds
// threshold. Below the threshold the buffer is not touched. It returns the
// measured peak and the applied scale (1 when nothing changed).
func (t *Timeline) Limit(threshold, target float64) (peak, scale float64) {
	peak = t.Peak()
	if peak <= threshold {
		return peak, 1
	}
	scale = target / peak
	for i := range t.buf {
		t.buf[i] *= scale
	}
	return peak, scale
}
