package speech

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Danondso/cuetrack/internal/config"
)

func TestNewProviderFactory(t *testing.T) {
	t.Run("command", func(t *testing.T) {
		p, err := New(&config.SpeechConfig{Provider: "command", Command: config.DefaultCommand}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := p.(*Command); !ok {
			t.Errorf("expected *Command, got %T", p)
		}
	})

	t.Run("command requires template", func(t *testing.T) {
		if _, err := New(&config.SpeechConfig{Provider: "command"}, nil); err == nil {
			t.Error("expected error for empty command")
		}
	})

	t.Run("openai", func(t *testing.T) {
		p, err := New(&config.SpeechConfig{Provider: "openai", BaseURL: "http://localhost:8880", Model: "tts-1"}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := p.(*OpenAI); !ok {
			t.Errorf("expected *OpenAI, got %T", p)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := New(&config.SpeechConfig{Provider: "festival"}, nil); err == nil {
			t.Error("expected error for unknown provider")
		}
	})
}

func TestEngineErrorWrapping(t *testing.T) {
	cause := errors.New("exit status 1")
	err := fmt.Errorf("synthesize welcome: %w", &EngineError{Engine: "espeak-ng", Detail: "bad voice", Err: cause})

	if !errors.Is(err, ErrEngineFailed) {
		t.Error("expected errors.Is(err, ErrEngineFailed)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected the underlying cause to be reachable")
	}
	if got := err.Error(); got != "synthesize welcome: espeak-ng: exit status 1: bad voice" {
		t.Errorf("unexpected message: %q", got)
	}
}
