package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Lyn123456-cs/VideoTranslator/pkg/icron"
)

// Config holds all application configuration.
// Supports environment variables with sensible defaults.
//
// Environment Variables:
// TTS Configuration:
// - TTS_API_URL: neural voice synthesis endpoint (required for the primary engine)
// - TTS_API_KEY: subscription key (optional)
// - TTS_OUTPUT_FORMAT: audio output format (default: audio-24khz-48kbitrate-mono-mp3)
// - TTS_TIMEOUT: request timeout seconds (default: 30)
// - TTS_FALLBACK_API_URL: degrade-path endpoint (default: public translate TTS)
// - TTS_PRIMARY_ATTEMPTS: primary engine attempts before degrading (default: 2)
// - TTS_BACKOFF_SECONDS: fixed backoff between primary attempts (default: 2)
// - TTS_MIN_BYTES: outputs below this size count as empty (default: 1000)
//
// Dub Configuration:
// - DUB_SPEED_MIN / DUB_SPEED_MAX: playback-rate clamp bounds (default: 0.7 / 1.5);
//   the minimum may not go below 0.5, atempo rejects lower ratios
// - DUB_TOLERANCE_MS: duration tolerance in milliseconds (default: 100)
// - DUB_SEGMENT_WORKERS: per-job synthesis concurrency (default: 4)
// - DUB_MAX_WORKERS: language-level workers, 0 = auto (default: 0)
//
// Output Configuration:
// - OUTPUT_DIR: batch output directory (default: output_fast)
// - REPORT_DB: sqlite batch history path, empty disables history
// - SUBTITLE_POSITION: bottom or top (default: bottom)
// - SUBTITLE_FONT_SIZE: burn-in font size (default: 24)
// - SUBTITLE_MARGIN: burn-in vertical margin (default: 30)
//
// Watch Configuration:
// - WATCH_DIR: directory scanned for videos with sibling subtitles
// - CRON_EXPR: scan schedule (default: "0 * * * *")
type Config struct {
	TTS    TTSConfig    `json:"tts"`
	Dub    DubConfig    `json:"dub"`
	Output OutputConfig `json:"output"`
	Watch  WatchConfig  `json:"watch"`
}

// TTSConfig configures the engine fallback chain
type TTSConfig struct {
	APIURL          string `json:"api_url"`
	APIKey          string `json:"api_key"`
	OutputFormat    string `json:"output_format"`
	Timeout         int    `json:"timeout"`
	FallbackAPIURL  string `json:"fallback_api_url"`
	PrimaryAttempts int    `json:"primary_attempts"`
	BackoffSeconds  int    `json:"backoff_seconds"`
	MinBytes        int    `json:"min_bytes"`
}

// DubConfig configures segment timing correction and concurrency.
// The clamp bounds and tolerance are empirically tuned values carried
// as configuration, not hard-coded constants.
type DubConfig struct {
	SpeedMin       float64 `json:"speed_min"`
	SpeedMax       float64 `json:"speed_max"`
	ToleranceMS    int     `json:"tolerance_ms"`
	SegmentWorkers int     `json:"segment_workers"`
	MaxWorkers     int     `json:"max_workers"`
}

// Tolerance returns the duration tolerance as a time.Duration
func (c DubConfig) Tolerance() time.Duration {
	return time.Duration(c.ToleranceMS) * time.Millisecond
}

// OutputConfig configures output locations and burn-in styling
type OutputConfig struct {
	Dir              string `json:"dir"`
	ReportDB         string `json:"report_db"`
	SubtitlePosition string `json:"subtitle_position"`
	FontSize         int    `json:"font_size"`
	MarginV          int    `json:"margin_v"`
}

// WatchConfig configures the scheduled directory scan mode
type WatchConfig struct {
	Dir      string `json:"dir"`
	CronExpr string `json:"cron_expr"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment
// variables and options. A .env file in the working directory is loaded
// first when present.
func NewFromEnv(opts ...Option) (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		TTS: TTSConfig{
			APIURL:          getEnvString("TTS_API_URL", ""),
			APIKey:          getEnvString("TTS_API_KEY", ""),
			OutputFormat:    getEnvString("TTS_OUTPUT_FORMAT", "audio-24khz-48kbitrate-mono-mp3"),
			Timeout:         getEnvInt("TTS_TIMEOUT", 30),
			FallbackAPIURL:  getEnvString("TTS_FALLBACK_API_URL", "https://translate.google.com/translate_tts"),
			PrimaryAttempts: getEnvInt("TTS_PRIMARY_ATTEMPTS", 2),
			BackoffSeconds:  getEnvInt("TTS_BACKOFF_SECONDS", 2),
			MinBytes:        getEnvInt("TTS_MIN_BYTES", 1000),
		},
		Dub: DubConfig{
			SpeedMin:       getEnvFloat("DUB_SPEED_MIN", 0.7),
			SpeedMax:       getEnvFloat("DUB_SPEED_MAX", 1.5),
			ToleranceMS:    getEnvInt("DUB_TOLERANCE_MS", 100),
			SegmentWorkers: getEnvInt("DUB_SEGMENT_WORKERS", 4),
			MaxWorkers:     getEnvInt("DUB_MAX_WORKERS", 0),
		},
		Output: OutputConfig{
			Dir:              getEnvString("OUTPUT_DIR", "output_fast"),
			ReportDB:         getEnvString("REPORT_DB", ""),
			SubtitlePosition: getEnvString("SUBTITLE_POSITION", "bottom"),
			FontSize:         getEnvInt("SUBTITLE_FONT_SIZE", 24),
			MarginV:          getEnvInt("SUBTITLE_MARGIN", 30),
		},
		Watch: WatchConfig{
			Dir:      getEnvString("WATCH_DIR", ""),
			CronExpr: getEnvString("CRON_EXPR", "0 * * * *"),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.Dub.SpeedMax <= 0 {
		return fmt.Errorf("speed bounds must be positive")
	}
	if c.Dub.SpeedMin < 0.5 {
		return fmt.Errorf("DUB_SPEED_MIN must be at least 0.5, atempo rejects lower ratios")
	}
	if c.Dub.SpeedMin > c.Dub.SpeedMax {
		return fmt.Errorf("DUB_SPEED_MIN must not exceed DUB_SPEED_MAX")
	}
	if c.Dub.ToleranceMS <= 0 {
		return fmt.Errorf("DUB_TOLERANCE_MS must be positive")
	}
	if c.Dub.SegmentWorkers <= 0 {
		return fmt.Errorf("DUB_SEGMENT_WORKERS must be positive")
	}
	if c.Dub.MaxWorkers < 0 {
		return fmt.Errorf("DUB_MAX_WORKERS must not be negative")
	}
	if c.Output.SubtitlePosition != "bottom" && c.Output.SubtitlePosition != "top" {
		return fmt.Errorf("SUBTITLE_POSITION must be bottom or top")
	}
	if err := icron.Validate(c.Watch.CronExpr); err != nil {
		return fmt.Errorf("CRON_EXPR: %w", err)
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
