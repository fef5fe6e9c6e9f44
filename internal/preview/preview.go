// Package preview plays rendered cue tracks through the default audio device.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// Clip is a decoded WAV ready for playback.
type Clip struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
}

// Open decodes WAV data for playback.
func Open(data []byte) (*Clip, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decode wav: empty data")
	}
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	return &Clip{streamer: streamer, format: format}, nil
}

// SampleRate is the clip's native rate in Hz.
func (c *Clip) SampleRate() int { return int(c.format.SampleRate) }

// Channels is the clip's channel count.
func (c *Clip) Channels() int { return c.format.NumChannels }

// Duration is the clip's playing time.
func (c *Clip) Duration() time.Duration {
	return c.format.SampleRate.D(c.streamer.Len())
}

// Close releases the decoder.
func (c *Clip) Close() error { return c.streamer.Close() }

// Player owns the speaker. The speaker is initialized once, at the rate of
// the first clip played.
type Player struct {
	logger   *log.Logger
	initOnce sync.Once
	initErr  error
	rate     beep.SampleRate
}

// New creates a Player. A nil logger discards output.
func New(logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Player{logger: logger}
}

func (p *Player) initSpeaker(format beep.Format) error {
	p.initOnce.Do(func() {
		p.rate = format.SampleRate
		p.initErr = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
		if p.initErr == nil {
			p.logger.Printf("preview: speaker initialized at %d Hz", int(format.SampleRate))
		}
	})
	return p.initErr
}

// Play streams the clip to the speaker and blocks until it finishes or ctx
// is cancelled. The clip is closed on return.
func (p *Player) Play(ctx context.Context, c *Clip) error {
	defer c.Close()

	if err := p.initSpeaker(c.format); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	var s beep.Streamer = c.streamer
	if c.format.SampleRate != p.rate {
		s = beep.Resample(4, c.format.SampleRate, p.rate, s)
	}

	done := make(chan struct{})
	p.logger.Printf("preview: playing %s", c.Duration().Round(time.Millisecond))
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}
