package speech

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Danondso/cuetrack/internal/config"
	"github.com/Danondso/cuetrack/internal/timeline"
)

// ErrEngineFailed is wrapped by every error caused by the synthesis engine
// itself (missing binary, non-zero exit, HTTP failure, no usable output).
var ErrEngineFailed = errors.New("speech engine failed")

// Request describes one phrase to synthesize.
type Request struct {
	Text    string
	Voice   string
	RateWPM int
}

// Provider turns text into audio at the engine's native sample rate.
type Provider interface {
	Synthesize(ctx context.Context, req Request) (timeline.Fragment, error)
}

// EngineError describes a failed engine invocation.
type EngineError struct {
	Engine string
	Detail string
	Err    error
}

func (e *EngineError) Error() string {
	msg := e.Engine
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is matches ErrEngineFailed.
func (e *EngineError) Is(target error) bool {
	return target == ErrEngineFailed
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// New creates a Provider based on the speech config.
func New(cfg *config.SpeechConfig, logger *log.Logger) (Provider, error) {
	switch cfg.Provider {
	case "command":
		if cfg.Command == "" {
			return nil, fmt.Errorf("command provider requires a non-empty command")
		}
		return NewCommand(cfg.Command, logger)
	case "openai":
		return NewOpenAI(cfg.BaseURL, cfg.Model, cfg.APIKey, logger), nil
	default:
		return nil, fmt.Errorf("unknown speech provider: %s", cfg.Provider)
	}
}
