package service

import (
	"fmt"

	"github.com/Lyn123456-cs/VideoTranslator/internal/config"
	"github.com/Lyn123456-cs/VideoTranslator/internal/dub"
	"github.com/Lyn123456-cs/VideoTranslator/internal/media"
	"github.com/Lyn123456-cs/VideoTranslator/internal/tts"
	"github.com/Lyn123456-cs/VideoTranslator/pkg/log"
)

// Pipeline bundles the collaborators a batch run needs: the media
// toolset and the per-language job runner built from configuration.
type Pipeline struct {
	Tools  media.Toolset
	Runner dub.JobFunc
}

// NewPipeline wires engines, fallback chain, synthesizer and job
// runner from the configuration.
func NewPipeline(cfg *config.Config) (*Pipeline, error) {
	var primary tts.Engine
	if cfg.TTS.APIURL != "" {
		engine, err := tts.NewEdgeEngine(&tts.EdgeConfig{
			APIURL:       cfg.TTS.APIURL,
			APIKey:       cfg.TTS.APIKey,
			OutputFormat: cfg.TTS.OutputFormat,
			Timeout:      cfg.TTS.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create primary engine: %w", err)
		}
		primary = engine
	} else {
		log.Warn("TTS_API_URL not set, synthesis will use the degrade-path engine only")
	}

	secondary, err := tts.NewGoogleEngine(&tts.GoogleConfig{
		APIURL:  cfg.TTS.FallbackAPIURL,
		Timeout: cfg.TTS.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fallback engine: %w", err)
	}

	chain := tts.NewChain(primary, secondary, tts.ChainConfig{
		PrimaryAttempts: cfg.TTS.PrimaryAttempts,
		Backoff:         backoff(cfg.TTS.BackoffSeconds),
		MinBytes:        cfg.TTS.MinBytes,
	})

	tools := media.NewToolset()
	synth := dub.NewSynthesizer(tools, chain,
		dub.SpeedBounds{Min: cfg.Dub.SpeedMin, Max: cfg.Dub.SpeedMax},
		cfg.Dub.Tolerance())

	runner := dub.NewJobRunner(tools, synth, burnStyle(cfg), cfg.Dub.SegmentWorkers)

	return &Pipeline{
		Tools:  tools,
		Runner: runner.Run,
	}, nil
}

func burnStyle(cfg *config.Config) media.BurnStyle {
	style := media.DefaultBurnStyle()
	if cfg.Output.SubtitlePosition == "top" {
		style.Alignment = 8
	}
	if cfg.Output.FontSize > 0 {
		style.FontSize = cfg.Output.FontSize
	}
	if cfg.Output.MarginV > 0 {
		style.MarginV = cfg.Output.MarginV
	}
	return style
}
