package media

import (
	"context"
	"time"
)

// Toolset is the external media tool boundary: duration probing,
// filter-graph execution, subtitle burn-in and the final mux. All
// interaction is command invocation plus exit-code and output-file
// checks; there is no structured IPC.
type Toolset interface {
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
	AdjustSegment(ctx context.Context, input, output string, plan AdjustPlan) error
	MixSegments(ctx context.Context, clips []MixClip, totalDuration time.Duration, output string) error
	BurnSubtitles(ctx context.Context, video, srtPath, output string, style BurnStyle) error
	MuxAudio(ctx context.Context, video, audio, output string) error
}

// NewToolset returns the default ffmpeg-backed implementation
func NewToolset() Toolset {
	return NewFfmpeg()
}
