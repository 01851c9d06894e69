package tts

import (
	"context"
	"fmt"
	"time"

	"github.com/Lyn123456-cs/VideoTranslator/pkg/log"
)

// chainState is the per-segment retry state machine
type chainState int

const (
	stateTryPrimary chainState = iota
	stateTrySecondary
	stateDone
	stateFailed
)

// Result is a completed synthesis: the audio plus which engine made it,
// so callers can detect sustained degradation of the primary engine.
type Result struct {
	Audio  []byte
	Engine string
}

// ChainConfig tunes the per-segment retry behavior
type ChainConfig struct {
	// PrimaryAttempts bounds retries of the primary engine before
	// degrading to the secondary
	PrimaryAttempts int
	// Backoff is the fixed wait between primary attempts
	Backoff time.Duration
	// MinBytes marks smaller outputs as silently-empty results
	MinBytes int
}

// DefaultChainConfig returns the retry tuning the pipeline ships with
func DefaultChainConfig() ChainConfig {
	return ChainConfig{
		PrimaryAttempts: 2,
		Backoff:         2 * time.Second,
		MinBytes:        1000,
	}
}

// Chain selects a voice-synthesis engine per segment with automatic
// degrade on failure: try the primary a bounded number of times with
// fixed backoff, then fall back to the secondary with a
// language-derived voice code.
type Chain struct {
	primary   Engine
	secondary Engine
	cfg       ChainConfig

	// sleep is injectable so backoff is testable without waiting
	sleep func(ctx context.Context, d time.Duration) error
}

// NewChain builds a fallback chain over the two engines. secondary may
// be nil when no degrade path is available.
func NewChain(primary, secondary Engine, cfg ChainConfig) *Chain {
	if cfg.PrimaryAttempts <= 0 {
		cfg.PrimaryAttempts = 1
	}
	if cfg.MinBytes <= 0 {
		cfg.MinBytes = 1
	}
	return &Chain{
		primary:   primary,
		secondary: secondary,
		cfg:       cfg,
		sleep:     sleepCtx,
	}
}

// Synthesize runs the per-segment state machine and returns the audio
// together with the engine that produced it.
func (c *Chain) Synthesize(ctx context.Context, text, voice string) (*Result, error) {
	state := stateTryPrimary
	if c.primary == nil {
		state = stateTrySecondary
	}

	attempt := 0
	var lastErr error
	var result *Result

	for {
		switch state {
		case stateTryPrimary:
			attempt++
			audio, err := c.primary.Synthesize(ctx, text, voice)
			if err == nil && len(audio) >= c.cfg.MinBytes {
				result = &Result{Audio: audio, Engine: c.primary.Name()}
				state = stateDone
				continue
			}
			if err == nil {
				err = fmt.Errorf("%w: %d bytes below threshold %d",
					ErrEmptyResult, len(audio), c.cfg.MinBytes)
			}
			lastErr = err

			if attempt >= c.cfg.PrimaryAttempts {
				state = stateTrySecondary
				continue
			}
			log.Warn("Primary engine attempt %d/%d failed, retrying: %v",
				attempt, c.cfg.PrimaryAttempts, err)
			if err := c.sleep(ctx, c.cfg.Backoff); err != nil {
				return nil, err
			}

		case stateTrySecondary:
			if c.secondary == nil {
				state = stateFailed
				continue
			}
			// the secondary engine cannot honor arbitrary voices, so
			// it gets the language code derived from the voice
			fallbackCode := FallbackCodeForVoice(voice)
			audio, err := c.secondary.Synthesize(ctx, text, fallbackCode)
			if err == nil && len(audio) >= c.cfg.MinBytes {
				result = &Result{Audio: audio, Engine: c.secondary.Name()}
				state = stateDone
				continue
			}
			if err == nil {
				err = fmt.Errorf("%w: %d bytes below threshold %d",
					ErrEmptyResult, len(audio), c.cfg.MinBytes)
			}
			lastErr = err
			state = stateFailed

		case stateDone:
			return result, nil

		case stateFailed:
			if lastErr != nil {
				return nil, fmt.Errorf("all synthesis engines failed: %w", lastErr)
			}
			return nil, fmt.Errorf("all synthesis engines failed")
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
