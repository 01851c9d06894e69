package dub

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/Lyn123456-cs/VideoTranslator/internal/media"
	"github.com/Lyn123456-cs/VideoTranslator/internal/tts"
	"github.com/Lyn123456-cs/VideoTranslator/pkg/file"
)

// SpeedBounds are the multiplicative clamp bounds on playback-rate
// correction. The defaults are empirically tuned; keep them
// configurable rather than baked in.
type SpeedBounds struct {
	Min float64
	Max float64
}

// DefaultSpeedBounds returns the tuning the pipeline ships with
func DefaultSpeedBounds() SpeedBounds {
	return SpeedBounds{Min: 0.7, Max: 1.5}
}

// DefaultTolerance is the duration error band considered "close enough"
const DefaultTolerance = 100 * time.Millisecond

// rate corrections below this band are left alone to avoid audible
// artifacts from near-unity atempo passes
const rateNoOpBand = 0.05

// Synthesizer turns one (text, target-duration) pair into a normalized
// audio clip whose realized duration is within the tolerance of the
// target, or an explicit per-segment failure.
type Synthesizer struct {
	tools     media.Toolset
	chain     *tts.Chain
	bounds    SpeedBounds
	tolerance time.Duration
}

// NewSynthesizer builds a segment synthesizer over the given toolset
// and engine fallback chain.
func NewSynthesizer(tools media.Toolset, chain *tts.Chain, bounds SpeedBounds, tolerance time.Duration) *Synthesizer {
	if bounds.Min <= 0 || bounds.Max <= 0 || bounds.Min > bounds.Max {
		bounds = DefaultSpeedBounds()
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Synthesizer{
		tools:     tools,
		chain:     chain,
		bounds:    bounds,
		tolerance: tolerance,
	}
}

// Outcome reports a successful segment synthesis
type Outcome struct {
	Duration time.Duration // realized clip duration
	Engine   string        // engine that produced the speech
}

// Synthesize generates speech for text, fits it to the target duration
// and writes the finished clip to outPath. The intermediate
// natural-rate file is removed on every exit path.
func (s *Synthesizer) Synthesize(ctx context.Context, text, voice string, target time.Duration, outPath string) (*Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("segment text is empty")
	}
	if target <= 0 {
		return nil, fmt.Errorf("target duration must be positive, got %s", target)
	}

	res, err := s.chain.Synthesize(ctx, text, voice)
	if err != nil {
		return nil, fmt.Errorf("speech generation failed: %w", err)
	}

	initPath := file.ReplaceExt(outPath, ".init.mp3")
	if err := os.WriteFile(initPath, res.Audio, 0644); err != nil {
		return nil, fmt.Errorf("failed to write natural-rate clip: %w", err)
	}
	defer os.Remove(initPath)

	natural, err := s.tools.ProbeDuration(ctx, initPath)
	if err != nil {
		return nil, fmt.Errorf("failed to probe natural duration: %w", err)
	}

	plan := PlanAdjustment(natural, target, s.bounds, s.tolerance)
	if err := s.tools.AdjustSegment(ctx, initPath, outPath, plan); err != nil {
		return nil, err
	}

	return &Outcome{
		Duration: realizedDuration(plan, natural),
		Engine:   res.Engine,
	}, nil
}

// PlanAdjustment decides how a natural-rate clip is fitted into its
// time slot: compute the speed ratio, clamp it to the bounds, then
// branch on the adjusted duration against the target with the given
// tolerance. Kept pure so the branch logic is testable without ffmpeg.
func PlanAdjustment(natural, target time.Duration, bounds SpeedBounds, tolerance time.Duration) media.AdjustPlan {
	ratio := natural.Seconds() / target.Seconds()
	ratio = math.Max(bounds.Min, math.Min(ratio, bounds.Max))

	adjusted := time.Duration(float64(natural) / ratio)

	// sub-5% corrections are a no-op; the clamped ratio still drives
	// the adjusted-duration arithmetic above
	effective := ratio
	if math.Abs(ratio-1.0) <= rateNoOpBand {
		effective = 1.0
	}

	switch {
	case adjusted > target+tolerance:
		return media.AdjustPlan{
			Kind:       media.AdjustTrim,
			SpeedRatio: effective,
			Target:     target,
		}
	case adjusted < target-tolerance:
		return media.AdjustPlan{
			Kind:       media.AdjustPad,
			SpeedRatio: effective,
			Target:     target,
			Silence:    target - adjusted,
		}
	default:
		return media.AdjustPlan{
			Kind:       media.AdjustPlain,
			SpeedRatio: effective,
			Target:     target,
		}
	}
}

// realizedDuration predicts the finished clip's duration from the plan
func realizedDuration(plan media.AdjustPlan, natural time.Duration) time.Duration {
	switch plan.Kind {
	case media.AdjustTrim, media.AdjustPad:
		return plan.Target
	default:
		if plan.SpeedRatio == 1.0 {
			return natural
		}
		return time.Duration(float64(natural) / plan.SpeedRatio)
	}
}
