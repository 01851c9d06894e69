package dub

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Lyn123456-cs/VideoTranslator/internal/media"
)

// Mixer combines time-stamped segment clips into one program-length
// soundtrack with unified loudness.
type Mixer struct {
	tools media.Toolset
}

// NewMixer builds a timeline mixer over the given toolset
func NewMixer(tools media.Toolset) *Mixer {
	return &Mixer{tools: tools}
}

// Mix delays each clip by its start offset, mixes the delayed streams
// and hard-truncates the result to totalDuration. Requires at least
// one clip. Clip order does not change the audible result (mixing is
// commutative) but clips are sorted by entry index so the filter
// graph's delay tagging stays stable across runs.
func (m *Mixer) Mix(ctx context.Context, clips []SegmentClip, totalDuration time.Duration, output string) error {
	if len(clips) == 0 {
		return fmt.Errorf("mixer requires at least one clip")
	}
	if totalDuration <= 0 {
		return fmt.Errorf("total duration must be positive, got %s", totalDuration)
	}

	ordered := make([]SegmentClip, len(clips))
	copy(ordered, clips)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	mixClips := make([]media.MixClip, len(ordered))
	for i, clip := range ordered {
		mixClips[i] = media.MixClip{Path: clip.Path, Delay: clip.Start}
	}

	if err := m.tools.MixSegments(ctx, mixClips, totalDuration, output); err != nil {
		return fmt.Errorf("audio mix failed: %w", err)
	}
	return nil
}
