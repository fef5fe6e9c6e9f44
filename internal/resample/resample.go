// Package resample brings speech fragments to the render sample rate.
package resample

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/Danondso/cuetrack/internal/timeline"
)

// Method selects the resampling algorithm.
type Method string

const (
	// MethodLinear interpolates linearly between neighbouring input samples.
	MethodLinear Method = "linear"
	// MethodPolyphase uses a windowed polyphase FIR filter.
	MethodPolyphase Method = "polyphase"
)

// ParseMethod validates a configured method name. An empty name selects
// MethodLinear.
func ParseMethod(name string) (Method, error) {
	switch Method(name) {
	case "", MethodLinear:
		return MethodLinear, nil
	case MethodPolyphase:
		return MethodPolyphase, nil
	default:
		return "", fmt.Errorf("unknown resample method: %s", name)
	}
}

// OutputLength returns the number of samples a fragment of n samples at rate
// from occupies at rate to.
func OutputLength(n, from, to int) int {
	duration := float64(n) / float64(from)
	return int(math.Round(duration * float64(to)))
}

// Linear resamples x from rate from to rate to by linear interpolation over
// time. When the rates match, x itself is returned. Outputs of zero or one
// sample are returned silent.
func Linear(x []float64, from, to int) []float64 {
	if from == to {
		return x
	}
	n := OutputLength(len(x), from, to)
	if n <= 1 {
		return make([]float64, max(n, 0))
	}

	out := make([]float64, n)
	last := len(x) - 1
	step := float64(len(x)) / float64(n)
	for j := range out {
		pos := float64(j) * step
		i := int(pos)
		if i >= last {
			out[j] = x[last]
			continue
		}
		frac := pos - float64(i)
		out[j] = x[i] + (x[i+1]-x[i])*frac
	}
	return out
}

// Polyphase resamples x with a Kaiser-windowed polyphase FIR filter (via
// go-audio-resampling). When the rates match, x itself is returned. The
// result has OutputLength samples, like Linear: the filter output is trimmed
// or zero-padded to fit, and outputs of zero or one sample are silent.
func Polyphase(x []float64, from, to int) ([]float64, error) {
	if from == to {
		return x, nil
	}
	n := OutputLength(len(x), from, to)
	if n <= 1 {
		return make([]float64, max(n, 0)), nil
	}
	filtered, err := resampling.ResampleMono(x, float64(from), float64(to), resampling.QualityLow)
	if err != nil {
		return nil, fmt.Errorf("resample mono: %w", err)
	}
	if len(filtered) >= n {
		return filtered[:n:n], nil
	}
	out := make([]float64, n)
	copy(out, filtered)
	return out, nil
}

// Fragment returns f at rate to using method. A fragment already at rate to is
// returned unchanged.
func Fragment(f timeline.Fragment, to int, method Method) (timeline.Fragment, error) {
	if f.SampleRate == to {
		return f, nil
	}
	if f.SampleRate <= 0 {
		return timeline.Fragment{}, fmt.Errorf("fragment has invalid sample rate %d", f.SampleRate)
	}

	var samples []float64
	switch method {
	case MethodPolyphase:
		var err error
		samples, err = Polyphase(f.Samples, f.SampleRate, to)
		if err != nil {
			return timeline.Fragment{}, err
		}
	default:
		samples = Linear(f.Samples, f.SampleRate, to)
	}
	return timeline.Fragment{Samples: samples, SampleRate: to}, nil
}
