package media

import (
	"regexp"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtempoFilter(t *testing.T) {
	assert.Equal(t, "anull", AtempoFilter(1.0))
	assert.Equal(t, "atempo=1.5", AtempoFilter(1.5))
	assert.Equal(t, "atempo=0.7", AtempoFilter(0.7))
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, "2.000", Seconds(2*time.Second))
	assert.Equal(t, "0.500", Seconds(500*time.Millisecond))
	assert.Equal(t, "0.143", Seconds(143*time.Millisecond))
}

func TestAdjustPlan_Args_Trim(t *testing.T) {
	plan := AdjustPlan{Kind: AdjustTrim, SpeedRatio: 1.5, Target: 500 * time.Millisecond}
	args := plan.Args("in.mp3", "out.mp3")

	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "atempo=1.5")
	assert.Contains(t, joined, LoudnormFilter)
	assert.Contains(t, joined, "afade=t=out:st=0.400:d=0.100")
	assert.Contains(t, joined, "-t 0.500")
	assert.Equal(t, "out.mp3", args[len(args)-1])
}

func TestAdjustPlan_Args_TrimShortTarget(t *testing.T) {
	// fade start must not go negative for targets under the fade length
	plan := AdjustPlan{Kind: AdjustTrim, SpeedRatio: 1.5, Target: 50 * time.Millisecond}
	joined := strings.Join(plan.Args("in.mp3", "out.mp3"), " ")
	assert.Contains(t, joined, "afade=t=out:st=0.000")
}

func TestAdjustPlan_Args_Pad(t *testing.T) {
	plan := AdjustPlan{
		Kind:       AdjustPad,
		SpeedRatio: 1.0,
		Target:     3 * time.Second,
		Silence:    143 * time.Millisecond,
	}
	args := plan.Args("in.mp3", "out.mp3")
	joined := strings.Join(args, " ")

	assert.Contains(t, joined, "-filter_complex")
	assert.Contains(t, joined, "anull")
	assert.Contains(t, joined, "anullsrc=r=44100:cl=stereo")
	assert.Contains(t, joined, "atrim=duration=0.143")
	assert.Contains(t, joined, "concat=n=2:v=0:a=1")
	assert.Contains(t, joined, LoudnormFilter)
}

func TestAdjustPlan_Args_Plain(t *testing.T) {
	noop := AdjustPlan{Kind: AdjustPlain, SpeedRatio: 1.0, Target: time.Second}
	joined := strings.Join(noop.Args("in.mp3", "out.mp3"), " ")
	assert.Contains(t, joined, "-af "+LoudnormFilter)
	assert.NotContains(t, joined, "atempo")

	rated := AdjustPlan{Kind: AdjustPlain, SpeedRatio: 1.2, Target: time.Second}
	joined = strings.Join(rated.Args("in.mp3", "out.mp3"), " ")
	assert.Contains(t, joined, "atempo=1.2,"+LoudnormFilter)
}

func TestAdjustPlan_AllBranchesNormalizeIdentically(t *testing.T) {
	// the three per-segment branches and the mix must share the exact
	// same loudness targets
	plans := []AdjustPlan{
		{Kind: AdjustTrim, SpeedRatio: 1.5, Target: time.Second},
		{Kind: AdjustPad, SpeedRatio: 1.0, Target: time.Second, Silence: 200 * time.Millisecond},
		{Kind: AdjustPlain, SpeedRatio: 1.2, Target: time.Second},
	}
	for _, plan := range plans {
		joined := strings.Join(plan.Args("a", "b"), " ")
		assert.Contains(t, joined, "loudnorm=I=-16:TP=-1.5:LRA=11")
	}
	assert.Contains(t, MixFilterGraph([]MixClip{{Path: "a"}}), "loudnorm=I=-16:TP=-1.5:LRA=11")
	assert.Contains(t, strings.Join(muxArgs("v", "a", "o"), " "), "loudnorm=I=-16:TP=-1.5:LRA=11")
}

func TestMixFilterGraph(t *testing.T) {
	clips := []MixClip{
		{Path: "a.mp3", Delay: 1 * time.Second},
		{Path: "b.mp3", Delay: 3500 * time.Millisecond},
		{Path: "c.mp3", Delay: 0},
	}

	graph := MixFilterGraph(clips)

	assert.Contains(t, graph, "[0]adelay=delays=1000:all=1[a0]")
	assert.Contains(t, graph, "[1]adelay=delays=3500:all=1[a1]")
	assert.Contains(t, graph, "[2]adelay=delays=0:all=1[a2]")
	assert.Contains(t, graph, "[a0][a1][a2]amix=inputs=3:duration=longest:dropout_transition=0")
	assert.Contains(t, graph, "dynaudnorm=f=75:g=25:p=0.95:m=10")
	assert.Contains(t, graph, LoudnormFilter)
	assert.True(t, strings.HasSuffix(graph, "[out]"))
}

func TestMixFilterGraph_OrderIndependentDelays(t *testing.T) {
	clips := []MixClip{
		{Path: "a.mp3", Delay: 1 * time.Second},
		{Path: "b.mp3", Delay: 2 * time.Second},
		{Path: "c.mp3", Delay: 3 * time.Second},
	}
	permuted := []MixClip{clips[2], clips[0], clips[1]}

	// labels shift with position but the set of applied delays must
	// not change, so silent vs non-silent offsets stay identical
	delayRe := regexp.MustCompile(`adelay=delays=(\d+)`)
	extract := func(graph string) []string {
		var delays []string
		for _, m := range delayRe.FindAllStringSubmatch(graph, -1) {
			delays = append(delays, m[1])
		}
		sort.Strings(delays)
		return delays
	}

	assert.Equal(t,
		extract(MixFilterGraph(clips)),
		extract(MixFilterGraph(permuted)))
}

func TestMixArgs(t *testing.T) {
	clips := []MixClip{
		{Path: "a.mp3", Delay: time.Second},
		{Path: "b.mp3", Delay: 2 * time.Second},
	}
	args := MixArgs(clips, 90*time.Second, "mixed.mp3")
	joined := strings.Join(args, " ")

	assert.Contains(t, joined, "-i a.mp3")
	assert.Contains(t, joined, "-i b.mp3")
	assert.Contains(t, joined, "-map [out]")
	assert.Contains(t, joined, "-t 90.000")
	assert.Equal(t, "mixed.mp3", args[len(args)-1])
}

func TestBurnArgs(t *testing.T) {
	args := burnArgs("video.mp4", "subs.srt", "out.mp4", BurnStyle{Alignment: 8, FontSize: 24, MarginV: 30})
	joined := strings.Join(args, " ")

	assert.Contains(t, joined, "-an")
	assert.Contains(t, joined, "subtitles=subs.srt:force_style=")
	assert.Contains(t, joined, "Alignment=8")
	assert.Contains(t, joined, "FontSize=24")
	assert.Contains(t, joined, "-c:v libx264")
}

func TestMuxArgs(t *testing.T) {
	args := muxArgs("video.mp4", "audio.mp3", "out.mp4")
	joined := strings.Join(args, " ")

	assert.Contains(t, joined, "-map 0:v")
	assert.Contains(t, joined, "-map 1:a")
	assert.Contains(t, joined, "-c:v copy")
	assert.Contains(t, joined, "-c:a aac")
	assert.Contains(t, joined, "-b:a 192k")
	assert.Contains(t, joined, "-shortest")
}

func TestDefaultBurnStyle(t *testing.T) {
	style := DefaultBurnStyle()
	require.Equal(t, 2, style.Alignment)
	require.Equal(t, 24, style.FontSize)
	require.Equal(t, 30, style.MarginV)
}

func TestTailLines(t *testing.T) {
	out := tailLines("a\nb\nc\nd\ne\nf", 3)
	assert.Equal(t, "d | e | f", out)
	assert.Equal(t, "x", tailLines("x", 4))
	assert.Equal(t, "", tailLines("", 4))
}
