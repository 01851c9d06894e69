package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultGoogleTTSURL is the public translate TTS endpoint the degrade
// path talks to when no override is configured.
const DefaultGoogleTTSURL = "https://translate.google.com/translate_tts"

// GoogleConfig holds the configuration for the degrade-path engine
type GoogleConfig struct {
	APIURL  string `json:"api_url"`
	Timeout int    `json:"timeout"`
}

// Validate validates the configuration
func (c *GoogleConfig) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("API URL is required")
	}
	if c.Timeout < 1 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	return nil
}

// GoogleEngine is the simpler secondary engine. It only understands
// plain language codes, not voice identifiers, so callers pass the
// language-derived fallback code as the voice argument.
type GoogleEngine struct {
	config     *GoogleConfig
	httpClient *http.Client
}

// NewGoogleEngine creates a new degrade-path client
func NewGoogleEngine(config *GoogleConfig) (*GoogleEngine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &GoogleEngine{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}, nil
}

func (e *GoogleEngine) Name() string { return "gtts" }

// Synthesize fetches spoken audio for the text in the given language code
func (e *GoogleEngine) Synthesize(ctx context.Context, text, langCode string) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("q", text)
	params.Set("tl", langCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		e.config.APIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("synthesis failed with status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, ErrEmptyResult
	}

	return audio, nil
}
