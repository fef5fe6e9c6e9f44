package resample

import (
	"math"
	"testing"

	"github.com/Danondso/cuetrack/internal/timeline"
)

func TestLinearSameRateIsIdentity(t *testing.T) {
	input := []float64{0.1, -0.2, 0.3, -0.4, 0.5}
	output := Linear(input, 22050, 22050)
	if &output[0] != &input[0] {
		t.Error("expected the input slice to be returned without a copy")
	}
	for i := range input {
		if output[i] != input[i] {
			t.Errorf("sample %d: expected %v, got %v", i, input[i], output[i])
		}
	}
}

func TestLinearOutputLength(t *testing.T) {
	tests := []struct {
		n, from, to, want int
	}{
		{48000, 48000, 16000, 16000},
		{44100, 44100, 22050, 22050},
		{16000, 16000, 22050, 22050},
		{1000, 24000, 22050, 919},
	}
	for _, tt := range tests {
		got := Linear(make([]float64, tt.n), tt.from, tt.to)
		if len(got) != tt.want {
			t.Errorf("Linear(%d samples, %d -> %d): expected %d, got %d", tt.n, tt.from, tt.to, tt.want, len(got))
		}
	}
}

func TestLinearInterpolates(t *testing.T) {
	// Doubling the rate places new samples halfway between the originals.
	input := []float64{0, 1, 0, -1}
	output := Linear(input, 4, 8)
	want := []float64{0, 0.5, 1, 0.5, 0, -0.5, -1, -1}
	if len(output) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(output))
	}
	for i, v := range want {
		if math.Abs(output[i]-v) > 1e-12 {
			t.Errorf("sample %d: expected %v, got %v", i, v, output[i])
		}
	}
}

func TestLinearDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		input []float64
		from  int
		to    int
		want  int
	}{
		{"empty", []float64{}, 16000, 22050, 0},
		{"rounds to zero", []float64{0.9}, 48000, 8000, 0},
		{"rounds to one", []float64{0.9, 0.8}, 16000, 8000, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Linear(tt.input, tt.from, tt.to)
			if len(got) != tt.want {
				t.Fatalf("expected %d samples, got %d", tt.want, len(got))
			}
			for i, v := range got {
				if v != 0 {
					t.Errorf("sample %d: expected silence, got %v", i, v)
				}
			}
		})
	}
}

func TestPolyphaseSameRate(t *testing.T) {
	input := []float64{0.1, 0.2, 0.3}
	output, err := Polyphase(input, 16000, 16000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output) != len(input) {
		t.Errorf("expected %d samples, got %d", len(input), len(output))
	}
}

func TestPolyphaseOutputLength(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		from, to int
	}{
		{"48k to 22050", 48000, 48000, 22050},
		{"16k to 22050", 16000, 16000, 22050},
		{"11025 to 22050", 1000, 11025, 22050},
		{"44100 to 22050 short", 3, 44100, 22050},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := make([]float64, tt.n)
			for i := range input {
				input[i] = 0.3 * math.Sin(2*math.Pi*440*float64(i)/float64(tt.from))
			}
			output, err := Polyphase(input, tt.from, tt.to)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if want := OutputLength(tt.n, tt.from, tt.to); len(output) != want {
				t.Errorf("expected %d samples, got %d", want, len(output))
			}
		})
	}
}

func TestPolyphaseDegenerate(t *testing.T) {
	for _, n := range []int{0, 1} {
		output, err := Polyphase(make([]float64, n), 16000, 22050)
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if len(output) != n {
			t.Errorf("n=%d: expected %d samples, got %d", n, n, len(output))
		}
		for i, v := range output {
			if v != 0 {
				t.Errorf("n=%d: sample %d = %v, want silence", n, i, v)
			}
		}
	}

	output, err := Polyphase([]float64{0.7}, 44100, 22050)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output) != 1 || output[0] != 0 {
		t.Errorf("expected one silent sample, got %v", output)
	}
}

func TestFragmentPolyphaseLength(t *testing.T) {
	in := timeline.Fragment{Samples: make([]float64, 16000), SampleRate: 16000}
	out, err := Fragment(in, 22050, MethodPolyphase)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.SampleRate != 22050 || len(out.Samples) != 22050 {
		t.Errorf("expected 22050 samples at 22050 Hz, got %d at %d", len(out.Samples), out.SampleRate)
	}
}

func TestFragmentMatchingRatePassesThrough(t *testing.T) {
	in := timeline.Fragment{Samples: []float64{0.5, -0.25, 0.125}, SampleRate: 22050}
	for _, m := range []Method{MethodLinear, MethodPolyphase} {
		out, err := Fragment(in, 22050, m)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", m, err)
		}
		if out.SampleRate != 22050 {
			t.Errorf("%s: expected rate 22050, got %d", m, out.SampleRate)
		}
		for i := range in.Samples {
			if out.Samples[i]-in.Samples[i] != 0 {
				t.Errorf("%s: sample %d differs by %v", m, i, out.Samples[i]-in.Samples[i])
			}
		}
	}
}

func TestFragmentConvertsRate(t *testing.T) {
	in := timeline.Fragment{Samples: make([]float64, 16000), SampleRate: 16000}
	out, err := Fragment(in, 22050, MethodLinear)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.SampleRate != 22050 || len(out.Samples) != 22050 {
		t.Errorf("expected 22050 samples at 22050 Hz, got %d at %d", len(out.Samples), out.SampleRate)
	}
}

func TestFragmentInvalidRate(t *testing.T) {
	_, err := Fragment(timeline.Fragment{Samples: []float64{1}}, 22050, MethodLinear)
	if err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"", MethodLinear, false},
		{"linear", MethodLinear, false},
		{"polyphase", MethodPolyphase, false},
		{"sinc", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMethod(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMethod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
