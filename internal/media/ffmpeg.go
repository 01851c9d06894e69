package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/Lyn123456-cs/VideoTranslator/pkg/log"
)

type ffmpeg struct {
	ffmpegCmd  string
	ffprobeCmd string
}

// NewFfmpeg creates the default ffmpeg-backed toolset
func NewFfmpeg() ffmpeg {
	return ffmpeg{
		ffmpegCmd:  "ffmpeg",
		ffprobeCmd: "ffprobe",
	}
}

// ProbeDuration reads the container duration of a media file
func (ff ffmpeg) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	cmdPath, err := exec.LookPath(ff.ffprobeCmd)
	if err != nil {
		return 0, err
	}

	cmd := exec.CommandContext(ctx, cmdPath, ff.probeDurationArgs(path)...)
	output, err := cmd.Output()
	if err != nil {
		log.Error("Failed to run ffprobe on %s: %v", path, err)
		return 0, fmt.Errorf("probe duration: %w", err)
	}

	raw := strings.TrimSpace(string(output))
	if raw == "" {
		return 0, fmt.Errorf("probe duration: empty result for %s", path)
	}

	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("probe duration: parse %q: %w", raw, err)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("probe duration: non-positive duration for %s", path)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// AdjustSegment fits a synthesized clip to its time slot per the plan
func (ff ffmpeg) AdjustSegment(ctx context.Context, input, output string, plan AdjustPlan) error {
	if err := ff.run(ctx, plan.Args(input, output)); err != nil {
		return fmt.Errorf("adjust segment: %w", err)
	}
	return ff.requireOutput(output, "adjust segment")
}

// MixSegments combines delayed clips into a single soundtrack of the
// given total duration
func (ff ffmpeg) MixSegments(ctx context.Context, clips []MixClip, totalDuration time.Duration, output string) error {
	if len(clips) == 0 {
		return fmt.Errorf("mix segments: no input clips")
	}
	if err := ff.run(ctx, MixArgs(clips, totalDuration, output)); err != nil {
		return fmt.Errorf("mix segments: %w", err)
	}
	return ff.requireOutput(output, "mix segments")
}

// BurnSubtitles renders subtitles into the video stream, dropping audio
func (ff ffmpeg) BurnSubtitles(ctx context.Context, video, srtPath, output string, style BurnStyle) error {
	if err := ff.run(ctx, burnArgs(video, srtPath, output, style)); err != nil {
		return fmt.Errorf("burn subtitles: %w", err)
	}
	return ff.requireOutput(output, "burn subtitles")
}

// MuxAudio replaces the video's audio track with the dubbed soundtrack
func (ff ffmpeg) MuxAudio(ctx context.Context, video, audio, output string) error {
	if err := ff.run(ctx, muxArgs(video, audio, output)); err != nil {
		return fmt.Errorf("mux audio: %w", err)
	}
	return ff.requireOutput(output, "mux audio")
}

func (ff ffmpeg) run(ctx context.Context, args []string) error {
	cmdPath, err := exec.LookPath(ff.ffmpegCmd)
	if err != nil {
		return err
	}

	// CommandContext kills the encoder process on cancellation so no
	// orphans survive an aborted batch.
	cmd := exec.CommandContext(ctx, cmdPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := tailLines(stderr.String(), 4)
		if detail != "" {
			return fmt.Errorf("%w: %s", err, detail)
		}
		return err
	}
	return nil
}

func (ff ffmpeg) requireOutput(path, op string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: output missing: %w", op, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%s: output is empty: %s", op, path)
	}
	return nil
}

func (ffmpeg) probeDurationArgs(path string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
}

func tailLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, " | "))
}
