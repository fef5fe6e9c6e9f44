package protocol

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/Danondso/cuetrack/internal/config"
	"github.com/Danondso/cuetrack/internal/resample"
	"github.com/Danondso/cuetrack/internal/speech"
	"github.com/Danondso/cuetrack/internal/timeline"
	"github.com/Danondso/cuetrack/internal/tone"
)

// Event is a cue bound to its fragment, ready to be mixed.
type Event struct {
	Cue
	Fragment timeline.Fragment
	Written  int // samples mixed into the timeline; 0 when dropped
}

// Result is the outcome of one render.
type Result struct {
	Timeline *timeline.Timeline
	Events   []Event
	Peak     float64 // before limiting
	Scale    float64 // applied by the limiter; 1 when untouched
	Elapsed  time.Duration
}

// Dropped returns the events that started past the end of the timeline.
func (r *Result) Dropped() []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Written == 0 && len(e.Fragment.Samples) > 0 {
			out = append(out, e)
		}
	}
	return out
}

// Render synthesizes every cue in cfg's schedule, mixes them onto a fresh
// timeline and applies the limiter. Speech is requested from provider one
// phrase at a time in schedule order; any synthesis error aborts the render.
func Render(ctx context.Context, cfg config.Config, provider speech.Provider, logger *log.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	method, err := resample.ParseMethod(cfg.Resample.Method)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	start := time.Now()
	sr := cfg.Output.SampleRate
	cues := Schedule(cfg)
	events := make([]Event, len(cues))

	spoken := make(map[string]timeline.Fragment)
	tones := make(map[tone.Descriptor][]float64)
	for i, c := range cues {
		events[i].Cue = c
		switch c.Kind {
		case KindSpeech:
			frag, ok := spoken[c.Text]
			if !ok {
				frag, err = synthesize(ctx, provider, cfg.Speech, c, sr, method)
				if err != nil {
					return nil, err
				}
				spoken[c.Text] = frag
				logger.Printf("speech %q: %d samples (%.2fs)", c.Label, len(frag.Samples), frag.Duration())
			}
			events[i].Fragment = frag
		case KindTone:
			samples, ok := tones[c.Tone]
			if !ok {
				if err := c.Tone.Validate(); err != nil {
					return nil, fmt.Errorf("%s: %w", c.Label, err)
				}
				samples = tone.Generate(c.Tone, sr)
				tones[c.Tone] = samples
			}
			events[i].Fragment = timeline.Fragment{Samples: samples, SampleRate: sr}
		}
	}

	span := cfg.Protocol.TotalDurationSec
	if cfg.Protocol.ExtendForClosing {
		if tail, ok := spoken[cfg.Protocol.ClosingText]; ok {
			span += tail.Duration()
		}
	}
	tl := timeline.New(span, sr)
	logger.Printf("timeline: %d samples (%.3fs) at %d Hz", tl.Len(), tl.Duration(), sr)

	for i := range events {
		e := &events[i]
		e.Written = tl.Mix(e.Fragment.Samples, e.Start, e.Gain)
		if e.Written == 0 && len(e.Fragment.Samples) > 0 {
			logger.Printf("placement %q at %.3fs is past the end, dropped", e.Label, e.Start)
		}
	}

	peak, scale := tl.Limit(cfg.Limiter.Threshold, cfg.Limiter.Target)
	if scale != 1 {
		logger.Printf("limiter: peak %.4f scaled by %.4f", peak, scale)
	}

	return &Result{
		Timeline: tl,
		Events:   events,
		Peak:     peak,
		Scale:    scale,
		Elapsed:  time.Since(start),
	}, nil
}

func synthesize(ctx context.Context, provider speech.Provider, sc config.SpeechConfig, c Cue, sr int, method resample.Method) (timeline.Fragment, error) {
	frag, err := provider.Synthesize(ctx, speech.Request{Text: c.Text, Voice: sc.Voice, RateWPM: sc.RateWPM})
	if err != nil {
		return timeline.Fragment{}, fmt.Errorf("synthesize %s: %w", c.Label, err)
	}
	if len(frag.Samples) == 0 {
		return timeline.Fragment{}, fmt.Errorf("synthesize %s: %w", c.Label, &speech.EngineError{Engine: "speech", Detail: "empty audio"})
	}
	frag, err = resample.Fragment(frag, sr, method)
	if err != nil {
		return timeline.Fragment{}, fmt.Errorf("resample %s: %w", c.Label, err)
	}
	return frag, nil
}
