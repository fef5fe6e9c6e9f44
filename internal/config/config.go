package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Danondso/cuetrack/internal/atomicfile"
)

// OutputConfig holds settings for the rendered file.
type OutputConfig struct {
	Path       string `toml:"path"`
	SampleRate int    `toml:"sample_rate"`
}

// ProtocolConfig holds the spoken part of the schedule.
type ProtocolConfig struct {
	TotalDurationSec  float64  `toml:"total_duration_sec"`
	CountdownStartSec float64  `toml:"countdown_start_sec"`
	CountdownStepSec  float64  `toml:"countdown_step_sec"`
	Countdown         []string `toml:"countdown"`
	WelcomeText       string   `toml:"welcome_text"`
	ClosingText       string   `toml:"closing_text"`
	ExtendForClosing  bool     `toml:"extend_for_closing"`
}

// TonesConfig holds the alternating tone train.
type TonesConfig struct {
	FirstSec    float64 `toml:"first_sec"`
	IntervalSec float64 `toml:"interval_sec"`
	DurationSec float64 `toml:"duration_sec"`
	FadeMs      float64 `toml:"fade_ms"`
	FreqHigh    float64 `toml:"freq_high"`
	FreqLow     float64 `toml:"freq_low"`
	Gain        float64 `toml:"gain"`
}

// SpeechConfig holds speech provider settings.
type SpeechConfig struct {
	Provider string  `toml:"provider"` // "command" or "openai"
	Command  string  `toml:"command"`
	BaseURL  string  `toml:"base_url"`
	Model    string  `toml:"model"`
	APIKey   string  `toml:"api_key"`
	Voice    string  `toml:"voice"`
	RateWPM  int     `toml:"rate_wpm"`
	Gain     float64 `toml:"gain"`
}

// LimiterConfig holds the final peak limiter settings.
type LimiterConfig struct {
	Threshold float64 `toml:"threshold"`
	Target    float64 `toml:"target"`
}

// ResampleConfig selects how speech is brought to the output rate.
type ResampleConfig struct {
	Method string `toml:"method"` // "linear" or "polyphase"
}

// Config is the top-level configuration. A Config is treated as an
// immutable value once loaded.
type Config struct {
	Output   OutputConfig   `toml:"output"`
	Protocol ProtocolConfig `toml:"protocol"`
	Tones    TonesConfig    `toml:"tones"`
	Speech   SpeechConfig   `toml:"speech"`
	Limiter  LimiterConfig  `toml:"limiter"`
	Resample ResampleConfig `toml:"resample"`
}

const (
	defaultWelcomeText = "Welcome, we will start in a few seconds. Start this research by standing up right, " +
		"when you hear a high tone sit down, when you hear a low tone stand up again. " +
		"Do this until you get instructed to stop"
	defaultClosingText = "thanks your done, you can stop!"
)

// DefaultCommand invokes espeak-ng, which writes 22050 Hz 16-bit mono WAV.
const DefaultCommand = "espeak-ng -v {voice} -s {rate} -w {output} {text}"

// Default returns a Config populated with all default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Path:       "protocol.wav",
			SampleRate: 22050,
		},
		Protocol: ProtocolConfig{
			TotalDurationSec:  625.0,
			CountdownStartSec: 13.0,
			CountdownStepSec:  1.0,
			Countdown:         []string{"3", "2", "1"},
			WelcomeText:       defaultWelcomeText,
			ClosingText:       defaultClosingText,
			ExtendForClosing:  true,
		},
		Tones: TonesConfig{
			FirstSec:    15.0,
			IntervalSec: 5.0,
			DurationSec: 0.5,
			FadeMs:      10,
			FreqHigh:    1000.0,
			FreqLow:     400.0,
			Gain:        0.5,
		},
		Speech: SpeechConfig{
			Provider: "command",
			Command:  DefaultCommand,
			BaseURL:  "http://localhost:8880",
			Model:    "tts-1",
			Voice:    "en",
			RateWPM:  150,
			Gain:     0.9,
		},
		Limiter: LimiterConfig{
			Threshold: 0.99,
			Target:    0.98,
		},
		Resample: ResampleConfig{
			Method: "linear",
		},
	}
}

// Validate reports the first setting that cannot produce a render.
func (c *Config) Validate() error {
	switch {
	case c.Output.Path == "":
		return errors.New("output.path must not be empty")
	case c.Output.SampleRate <= 0:
		return fmt.Errorf("output.sample_rate must be positive, got %d", c.Output.SampleRate)
	case c.Protocol.TotalDurationSec <= 0:
		return fmt.Errorf("protocol.total_duration_sec must be positive, got %v", c.Protocol.TotalDurationSec)
	case c.Protocol.CountdownStartSec < 0:
		return fmt.Errorf("protocol.countdown_start_sec must not be negative, got %v", c.Protocol.CountdownStartSec)
	case c.Protocol.CountdownStepSec < 0:
		return fmt.Errorf("protocol.countdown_step_sec must not be negative, got %v", c.Protocol.CountdownStepSec)
	case c.Tones.FirstSec < 0:
		return fmt.Errorf("tones.first_sec must not be negative, got %v", c.Tones.FirstSec)
	case c.Tones.IntervalSec <= 0:
		return fmt.Errorf("tones.interval_sec must be positive, got %v", c.Tones.IntervalSec)
	case c.Tones.DurationSec <= 0:
		return fmt.Errorf("tones.duration_sec must be positive, got %v", c.Tones.DurationSec)
	case c.Tones.FreqHigh <= 0 || c.Tones.FreqLow <= 0:
		return fmt.Errorf("tone frequencies must be positive, got %v and %v", c.Tones.FreqHigh, c.Tones.FreqLow)
	case c.Tones.Gain < 0 || c.Speech.Gain < 0:
		return fmt.Errorf("gains must not be negative, got tones %v speech %v", c.Tones.Gain, c.Speech.Gain)
	case c.Limiter.Target <= 0 || c.Limiter.Target > c.Limiter.Threshold:
		return fmt.Errorf("limiter.target must be in (0, threshold], got %v", c.Limiter.Target)
	}
	switch c.Speech.Provider {
	case "command", "openai":
	default:
		return fmt.Errorf("unknown speech provider: %s", c.Speech.Provider)
	}
	switch c.Resample.Method {
	case "", "linear", "polyphase":
	default:
		return fmt.Errorf("unknown resample method: %s", c.Resample.Method)
	}
	return nil
}

// DefaultPath returns the default config file path (~/.config/cuetrack/config.toml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cuetrack", "config.toml")
}

// Save writes the config as TOML to path, creating parent directories if
// needed. The file is replaced atomically.
func Save(path string, cfg *Config) error {
	return atomicfile.Write(path, ".cuetrack-config-*.tmp", func(f *os.File) error {
		if err := toml.NewEncoder(f).Encode(cfg); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		return nil
	})
}

// Load reads the TOML config at path over the defaults, so a partial file
// only changes the keys it sets. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
