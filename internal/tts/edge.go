package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

// EdgeConfig holds the configuration for the neural voice service
//
// Environment Variables (read by internal/config):
// - TTS_API_URL: synthesis endpoint (required for the primary engine)
// - TTS_API_KEY: subscription key (optional for keyless endpoints)
// - TTS_OUTPUT_FORMAT: audio output format header value
// - TTS_TIMEOUT: request timeout in seconds
type EdgeConfig struct {
	APIURL       string `json:"api_url"`
	APIKey       string `json:"api_key"`
	OutputFormat string `json:"output_format"`
	Timeout      int    `json:"timeout"`
}

// Validate validates the configuration
func (c *EdgeConfig) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("API URL is required")
	}
	if c.OutputFormat == "" {
		return fmt.Errorf("output format is required")
	}
	if c.Timeout < 1 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	return nil
}

// GetHeaders returns the headers for a synthesis request
func (c *EdgeConfig) GetHeaders() map[string]string {
	headers := map[string]string{
		"Content-Type":             "application/ssml+xml",
		"X-Microsoft-OutputFormat": c.OutputFormat,
	}
	if c.APIKey != "" {
		headers["Ocp-Apim-Subscription-Key"] = c.APIKey
	}
	return headers
}

// EdgeEngine is the primary network-based neural voice engine.
// Thread-safe for concurrent use.
type EdgeEngine struct {
	config     *EdgeConfig
	httpClient *http.Client
}

// NewEdgeEngine creates a new neural voice client with the given configuration
func NewEdgeEngine(config *EdgeConfig) (*EdgeEngine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &EdgeEngine{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}, nil
}

func (e *EdgeEngine) Name() string { return "edge" }

// Synthesize sends an SSML request for the given voice and returns the
// raw audio bytes
func (e *EdgeEngine) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	ssml := buildSSML(text, voice)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.config.APIURL,
		bytes.NewBufferString(ssml))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range e.config.GetHeaders() {
		req.Header.Set(key, value)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		if os.IsTimeout(err) {
			return nil, fmt.Errorf("synthesis request timed out: %w", err)
		}
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("synthesis failed with status %d: %s", resp.StatusCode, string(body))
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

func buildSSML(text, voice string) string {
	lang := voiceLanguage(voice)
	return fmt.Sprintf(
		`<speak version='1.0' xml:lang='%s'><voice name='%s'>%s</voice></speak>`,
		lang, voice, escapeXML(text))
}

func escapeXML(s string) string {
	return xmlReplacer.Replace(s)
}
