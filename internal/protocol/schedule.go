// Package protocol turns a cue-track configuration into placement events and
// renders them onto a timeline.
package protocol

import (
	"fmt"

	"github.com/Danondso/cuetrack/internal/config"
	"github.com/Danondso/cuetrack/internal/tone"
)

// Kind distinguishes spoken cues from tone bursts.
type Kind int

const (
	KindSpeech Kind = iota
	KindTone
)

func (k Kind) String() string {
	switch k {
	case KindSpeech:
		return "speech"
	case KindTone:
		return "tone"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Cue is one scheduled placement before its fragment exists.
type Cue struct {
	Label string
	Kind  Kind
	Text  string          // KindSpeech
	Tone  tone.Descriptor // KindTone
	Start float64
	Gain  float64
}

// Schedule lists every cue of one run in placement order: welcome, countdown,
// closing, then the tone train.
func Schedule(cfg config.Config) []Cue {
	p := cfg.Protocol
	gain := cfg.Speech.Gain

	cues := []Cue{{Label: "welcome", Kind: KindSpeech, Text: p.WelcomeText, Start: 0, Gain: gain}}
	for i, word := range p.Countdown {
		cues = append(cues, Cue{
			Label: "countdown " + word,
			Kind:  KindSpeech,
			Text:  word,
			Start: p.CountdownStartSec + float64(i)*p.CountdownStepSec,
			Gain:  gain,
		})
	}
	cues = append(cues, Cue{Label: "closing", Kind: KindSpeech, Text: p.ClosingText, Start: p.TotalDurationSec, Gain: gain})

	return append(cues, ToneTrain(cfg.Tones, p.TotalDurationSec)...)
}

// ToneTrain returns the alternating high/low tones starting at tc.FirstSec and
// repeating every tc.IntervalSec up to and including totalSec.
func ToneTrain(tc config.TonesConfig, totalSec float64) []Cue {
	if tc.IntervalSec <= 0 {
		return nil
	}
	high := tone.Descriptor{FrequencyHz: tc.FreqHigh, DurationSec: tc.DurationSec, FadeMs: tc.FadeMs}
	low := tone.Descriptor{FrequencyHz: tc.FreqLow, DurationSec: tc.DurationSec, FadeMs: tc.FadeMs}

	var cues []Cue
	for k := 0; ; k++ {
		t := tc.FirstSec + float64(k)*tc.IntervalSec
		if t > totalSec {
			break
		}
		c := Cue{Kind: KindTone, Start: t, Gain: tc.Gain}
		if k%2 == 0 {
			c.Label, c.Tone = "high tone", high
		} else {
			c.Label, c.Tone = "low tone", low
		}
		cues = append(cues, c)
	}
	return cues
}
