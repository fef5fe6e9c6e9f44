package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"

	"github.com/Danondso/cuetrack/internal/timeline"
	"github.com/Danondso/cuetrack/internal/wavfile"
)

// Command implements Provider by running an external text-to-speech program
// that writes a WAV file.
type Command struct {
	args   []string
	logger *log.Logger
}

// NewCommand parses a command template. The template is split into
// arguments with shell quoting rules and may contain {voice}, {rate},
// {output} and {text}; each placeholder is substituted inside its argument
// so the text always reaches the engine as a single argument. {output} is
// required.
func NewCommand(template string, logger *log.Logger) (*Command, error) {
	args, err := shellwords.NewParser().Parse(template)
	if err != nil {
		return nil, fmt.Errorf("parse speech command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("speech command empty")
	}
	if !strings.Contains(template, "{output}") {
		return nil, fmt.Errorf("speech command must contain {output}")
	}
	return &Command{args: args, logger: logger}, nil
}

func (c *Command) expand(req Request, output string) []string {
	r := strings.NewReplacer(
		"{voice}", req.Voice,
		"{rate}", strconv.Itoa(req.RateWPM),
		"{output}", output,
		"{text}", req.Text,
	)
	out := make([]string, len(c.args))
	for i, a := range c.args {
		out[i] = r.Replace(a)
	}
	return out
}

// Synthesize runs the engine once for req and decodes the WAV it writes. The
// temporary output is removed before returning, whether or not decoding
// succeeded.
func (c *Command) Synthesize(ctx context.Context, req Request) (timeline.Fragment, error) {
	dir, err := os.MkdirTemp("", "cuetrack-tts-*")
	if err != nil {
		return timeline.Fragment{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	outPath := filepath.Join(dir, "tts.wav")
	argv := c.expand(req, outPath)

	if c.logger != nil {
		c.logger.Printf("speech command: %s text=%q", argv[0], req.Text)
	}

	var stderr bytes.Buffer
	start := time.Now()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // command from user config
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return timeline.Fragment{}, &EngineError{
			Engine: argv[0],
			Detail: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	latency := time.Since(start)

	samples, sr, err := wavfile.ReadFile(outPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, wavfile.ErrInvalidFile) {
			return timeline.Fragment{}, &EngineError{
				Engine: argv[0],
				Detail: "no valid WAV output",
				Err:    err,
			}
		}
		return timeline.Fragment{}, fmt.Errorf("decode speech: %w", err)
	}

	if c.logger != nil {
		c.logger.Printf("speech result: samples=%d rate=%d latency=%s", len(samples), sr, latency.Round(time.Millisecond))
	}
	return timeline.Fragment{Samples: samples, SampleRate: sr}, nil
}
