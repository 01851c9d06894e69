package media

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Loudness normalization targets shared by every normalization point in
// the pipeline: per-segment adjustment, the timeline mix, and the final
// mux. Integrated loudness -16 LUFS, true peak -1.5 dB, range 11 LU.
// All three call sites must use this exact filter or segment volume
// drifts across the program.
const LoudnormFilter = "loudnorm=I=-16:TP=-1.5:LRA=11"

// dynaudnorm settings tuned for smoothing local volume swings before
// the final loudness pass of the timeline mix.
const dynaudnormFilter = "dynaudnorm=f=75:g=25:p=0.95:m=10"

// silence generator parameters for pad segments
const silenceSource = "anullsrc=r=44100:cl=stereo"

// fadeOutDuration is the tail fade applied before a hard trim so the
// cut does not click.
const fadeOutDuration = 100 * time.Millisecond

// Seconds renders a duration as a decimal-seconds ffmpeg argument
func Seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

// AtempoFilter returns the playback-rate filter for the given ratio,
// or a pass-through when the ratio is 1.0.
func AtempoFilter(ratio float64) string {
	if ratio == 1.0 {
		return "anull"
	}
	return "atempo=" + strconv.FormatFloat(ratio, 'f', -1, 64)
}

// AdjustKind selects how a synthesized clip is fitted to its time slot
type AdjustKind int

const (
	// AdjustPlain applies rate change (if any) and loudness only
	AdjustPlain AdjustKind = iota
	// AdjustTrim rate-changes, normalizes, fades the tail and hard-trims
	AdjustTrim
	// AdjustPad rate-changes, normalizes, then appends exact silence
	AdjustPad
)

// AdjustPlan is a fully decided segment adjustment: the clamped speed
// ratio plus the trim/pad branch taken for the clip.
type AdjustPlan struct {
	Kind       AdjustKind
	SpeedRatio float64       // already clamped; 1.0 means no rate change
	Target     time.Duration // the entry's time slot
	Silence    time.Duration // only for AdjustPad
}

// Args builds the full ffmpeg argument list realizing the plan
func (p AdjustPlan) Args(input, output string) []string {
	tempo := AtempoFilter(p.SpeedRatio)

	switch p.Kind {
	case AdjustTrim:
		fadeStart := p.Target - fadeOutDuration
		if fadeStart < 0 {
			fadeStart = 0
		}
		fade := fmt.Sprintf("afade=t=out:st=%s:d=%s",
			Seconds(fadeStart), Seconds(fadeOutDuration))
		chain := strings.Join([]string{tempo, LoudnormFilter, fade}, ",")
		return []string{
			"-y", "-i", input,
			"-af", chain,
			"-t", Seconds(p.Target),
			output,
		}

	case AdjustPad:
		graph := fmt.Sprintf(
			"[0:a]%s,%s[a];%s,atrim=duration=%s[s];[a][s]concat=n=2:v=0:a=1[out]",
			tempo, LoudnormFilter, silenceSource, Seconds(p.Silence))
		return []string{
			"-y", "-i", input,
			"-filter_complex", graph,
			"-map", "[out]",
			output,
		}

	default:
		chain := LoudnormFilter
		if tempo != "anull" {
			chain = tempo + "," + LoudnormFilter
		}
		return []string{
			"-y", "-i", input,
			"-af", chain,
			output,
		}
	}
}

// MixClip is one input of the timeline mix: an audio file and the
// offset at which it starts on the program timeline.
type MixClip struct {
	Path  string
	Delay time.Duration
}

// MixFilterGraph builds the filter_complex for combining delayed clips
// into one soundtrack. Each clip gets a stable index-tagged delay chain;
// the delayed streams are mixed without overlap attenuation, smoothed
// with dynaudnorm and brought to the shared loudness targets.
func MixFilterGraph(clips []MixClip) string {
	chains := make([]string, 0, len(clips)+1)
	labels := make([]string, 0, len(clips))

	for idx, clip := range clips {
		delayMS := clip.Delay.Milliseconds()
		chains = append(chains,
			fmt.Sprintf("[%d]adelay=delays=%d:all=1[a%d]", idx, delayMS, idx))
		labels = append(labels, fmt.Sprintf("[a%d]", idx))
	}

	chains = append(chains, fmt.Sprintf(
		"%samix=inputs=%d:duration=longest:dropout_transition=0,%s,%s[out]",
		strings.Join(labels, ""), len(clips), dynaudnormFilter, LoudnormFilter))

	return strings.Join(chains, ";")
}

// MixArgs builds the full ffmpeg argument list for the timeline mix,
// hard-truncated to the program duration.
func MixArgs(clips []MixClip, totalDuration time.Duration, output string) []string {
	args := []string{"-y"}
	for _, clip := range clips {
		args = append(args, "-i", clip.Path)
	}
	args = append(args,
		"-filter_complex", MixFilterGraph(clips),
		"-map", "[out]",
		"-t", Seconds(totalDuration),
		output,
	)
	return args
}

// BurnStyle controls subtitle rendering during burn-in
type BurnStyle struct {
	Alignment int // 2 = bottom center, 8 = top center (ASS alignment)
	FontSize  int
	MarginV   int
}

// DefaultBurnStyle matches the project's house subtitle look
func DefaultBurnStyle() BurnStyle {
	return BurnStyle{Alignment: 2, FontSize: 24, MarginV: 30}
}

func (s BurnStyle) forceStyle() string {
	return fmt.Sprintf(
		"Alignment=%d,MarginV=%d,FontSize=%d,PrimaryColour=&H00FFFFFF,OutlineColour=&H00000000,Outline=2",
		s.Alignment, s.MarginV, s.FontSize)
}

func burnArgs(video, srtPath, output string, style BurnStyle) []string {
	vf := fmt.Sprintf("subtitles=%s:force_style='%s'", srtPath, style.forceStyle())
	return []string{
		"-y", "-i", video,
		"-an",
		"-vf", vf,
		"-c:v", "libx264",
		output,
	}
}

func muxArgs(video, audio, output string) []string {
	return []string{
		"-y",
		"-i", video,
		"-i", audio,
		"-map", "0:v",
		"-map", "1:a",
		"-c:v", "copy",
		"-af", LoudnormFilter,
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		output,
	}
}
