package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Danondso/cuetrack/internal/timeline"
	"github.com/Danondso/cuetrack/internal/wavfile"
)

// referenceWPM is the speaking rate that maps to speed 1.0.
const referenceWPM = 150

// OpenAI implements Provider using the OpenAI-compatible
// POST /v1/audio/speech endpoint.
type OpenAI struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
	logger  *log.Logger
}

// NewOpenAI creates an OpenAI-compatible speech provider.
func NewOpenAI(baseURL, model, apiKey string, logger *log.Logger) *OpenAI {
	return &OpenAI{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		client:  &http.Client{},
		logger:  logger,
	}
}

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed,omitempty"`
}

// Speed converts a words-per-minute rate to the endpoint's speed multiplier.
func Speed(rateWPM int) float64 {
	if rateWPM <= 0 {
		return 0
	}
	return float64(rateWPM) / referenceWPM
}

// Synthesize requests WAV audio for req and decodes the response body.
func (o *OpenAI) Synthesize(ctx context.Context, req Request) (timeline.Fragment, error) {
	payload, err := json.Marshal(speechRequest{
		Model:          o.model,
		Input:          req.Text,
		Voice:          req.Voice,
		ResponseFormat: "wav",
		Speed:          Speed(req.RateWPM),
	})
	if err != nil {
		return timeline.Fragment{}, fmt.Errorf("marshal speech request: %w", err)
	}

	url := o.baseURL + "/v1/audio/speech"
	if o.logger != nil {
		o.logger.Printf("speech request: POST %s text=%q", url, req.Text)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return timeline.Fragment{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	start := time.Now()
	resp, err := o.client.Do(httpReq) //nolint:gosec // URL from user config
	if err != nil {
		return timeline.Fragment{}, &EngineError{Engine: "openai", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return timeline.Fragment{}, &EngineError{Engine: "openai", Detail: "read response", Err: err}
	}
	latency := time.Since(start)

	if o.logger != nil {
		o.logger.Printf("speech response: status=%d body_size=%d latency=%s", resp.StatusCode, len(body), latency.Round(time.Millisecond))
	}

	if resp.StatusCode != http.StatusOK {
		return timeline.Fragment{}, &EngineError{
			Engine: "openai",
			Detail: fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	samples, sr, err := wavfile.Decode(body)
	if err != nil {
		return timeline.Fragment{}, fmt.Errorf("decode speech: %w", err)
	}
	return timeline.Fragment{Samples: samples, SampleRate: sr}, nil
}
