package timeline

import (
	"math"
	"testing"
)

func TestNewLength(t *testing.T) {
	tests := []struct {
		total float64
		sr    int
		want  int
	}{
		{625.0, 22050, 13781251},
		{1.0, 8000, 8001},
		{0.5001, 1000, 502},
		{0, 22050, 1},
	}
	for _, tt := range tests {
		tl := New(tt.total, tt.sr)
		if tl.Len() != tt.want {
			t.Errorf("New(%v, %d).Len() = %d, want %d", tt.total, tt.sr, tl.Len(), tt.want)
		}
		for i, v := range tl.Samples() {
			if v != 0 {
				t.Fatalf("sample %d = %v, want 0", i, v)
			}
		}
	}
}

func TestMixAddsWithGain(t *testing.T) {
	tl := New(1, 10)
	n := tl.Mix([]float64{1, 0.5, -1}, 0.2, 0.5)
	if n != 3 {
		t.Fatalf("expected 3 samples written, got %d", n)
	}
	want := []float64{0, 0, 0.5, 0.25, -0.5, 0, 0, 0, 0, 0, 0}
	for i, v := range tl.Samples() {
		if v != want[i] {
			t.Errorf("sample %d: expected %v, got %v", i, want[i], v)
		}
	}
}

func TestMixCommutative(t *testing.T) {
	a := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	b := []float64{-0.3, 0.7, -0.01, 0.25}

	ab := New(2, 10)
	ab.Mix(a, 0.3, 0.9)
	ab.Mix(b, 0.5, 0.5)

	ba := New(2, 10)
	ba.Mix(b, 0.5, 0.5)
	ba.Mix(a, 0.3, 0.9)

	for i := range ab.Samples() {
		if ab.Samples()[i] != ba.Samples()[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, ab.Samples()[i], ba.Samples()[i])
		}
	}
}

func TestMixPastEndIsNoop(t *testing.T) {
	tl := New(1, 10) // 11 samples
	before := append([]float64(nil), tl.Samples()...)

	for _, start := range []float64{1.1, 1.5, 100} {
		if n := tl.Mix([]float64{1, 1, 1}, start, 1); n != 0 {
			t.Errorf("Mix at %v wrote %d samples, want 0", start, n)
		}
	}
	for i, v := range tl.Samples() {
		if v != before[i] {
			t.Fatalf("sample %d changed to %v", i, v)
		}
	}
}

func TestMixTruncatesAtEnd(t *testing.T) {
	tl := New(1, 10) // 11 samples, last index 10
	n := tl.Mix([]float64{1, 1, 1, 1}, 0.9, 1)
	if n != 2 {
		t.Fatalf("expected 2 samples written, got %d", n)
	}
	if tl.Samples()[9] != 1 || tl.Samples()[10] != 1 {
		t.Errorf("expected last two samples to be 1, got %v", tl.Samples()[9:])
	}
}

func TestMixNegativeStartIsNoop(t *testing.T) {
	tl := New(1, 10)
	if n := tl.Mix([]float64{1}, -1, 1); n != 0 {
		t.Errorf("expected no-op for negative start, wrote %d", n)
	}
}

func TestLimitBelowThresholdUntouched(t *testing.T) {
	tl := New(1, 10)
	tl.Mix([]float64{0.3, -0.99, 0.123456789}, 0, 1)
	before := append([]float64(nil), tl.Samples()...)

	peak, scale := tl.Limit(0.99, 0.98)
	if peak != 0.99 {
		t.Errorf("expected peak 0.99, got %v", peak)
	}
	if scale != 1 {
		t.Errorf("expected scale 1, got %v", scale)
	}
	for i, v := range tl.Samples() {
		if math.Float64bits(v) != math.Float64bits(before[i]) {
			t.Fatalf("sample %d changed from %v to %v", i, before[i], v)
		}
	}
}

func TestLimitScalesToTarget(t *testing.T) {
	tl := New(1, 10)
	tl.Mix([]float64{0.5, -1.4, 0.7}, 0, 1)
	tl.Mix([]float64{0.6}, 0, 1) // overlap: 1.1

	prePeak := tl.Peak()
	peak, scale := tl.Limit(0.99, 0.98)
	if peak != prePeak {
		t.Errorf("reported peak %v, measured %v", peak, prePeak)
	}
	if want := 0.98 / 1.4; math.Abs(scale-want) > 1e-12 {
		t.Errorf("expected scale %v, got %v", want, scale)
	}

	post := tl.Peak()
	if post > prePeak {
		t.Errorf("limiter increased peak: %v > %v", post, prePeak)
	}
	if math.Abs(post-0.98) > 1e-12 {
		t.Errorf("expected post-limit peak 0.98, got %v", post)
	}
}

func TestFragmentDuration(t *testing.T) {
	f := Fragment{Samples: make([]float64, 11025), SampleRate: 22050}
	if f.Duration() != 0.5 {
		t.Errorf("expected 0.5s, got %v", f.Duration())
	}
	if (Fragment{}).Duration() != 0 {
		t.Error("expected zero duration for empty fragment")
	}
}
