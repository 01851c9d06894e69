package dub

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/Lyn123456-cs/VideoTranslator/internal/media"
	"github.com/Lyn123456-cs/VideoTranslator/internal/subtitle"
	"github.com/Lyn123456-cs/VideoTranslator/internal/tts"
	"github.com/Lyn123456-cs/VideoTranslator/pkg/log"
)

// DefaultSegmentWorkers bounds how many segment syntheses are in
// flight at once inside one job. Deliberately independent of the
// orchestrator's language-level pool so one language's internal
// parallelism cannot starve the others.
const DefaultSegmentWorkers = 4

// JobRunner executes the full single-language dub pipeline:
// parse subtitles, synthesize per-segment clips, mix the timeline,
// burn subtitles and mux the dubbed soundtrack.
type JobRunner struct {
	tools          media.Toolset
	synth          *Synthesizer
	mixer          *Mixer
	writer         subtitle.Writer
	style          media.BurnStyle
	segmentWorkers int
}

// NewJobRunner wires a job runner from its collaborators
func NewJobRunner(tools media.Toolset, synth *Synthesizer, style media.BurnStyle, segmentWorkers int) *JobRunner {
	if segmentWorkers <= 0 {
		segmentWorkers = DefaultSegmentWorkers
	}
	return &JobRunner{
		tools:          tools,
		synth:          synth,
		mixer:          NewMixer(tools),
		writer:         subtitle.NewWriter(),
		style:          style,
		segmentWorkers: segmentWorkers,
	}
}

// Run processes one language end to end and returns a result record.
// Errors never escape as panics or error returns; every failure is
// converted into a JobResult before crossing the concurrency boundary.
func (r *JobRunner) Run(ctx context.Context, video string, pair Pair, outputDir string, videoDuration time.Duration) JobResult {
	started := time.Now()

	var result JobResult
	if info, ok := tts.Lookup(pair.LangCode); ok {
		result = r.run(ctx, video, pair, info, outputDir, videoDuration)
	} else {
		result = failedResult(pair.LangCode, pair.LangCode,
			fmt.Sprintf("unsupported language code: %s", pair.LangCode))
	}
	result.DurationSeconds = time.Since(started).Seconds()
	return result
}

func (r *JobRunner) run(ctx context.Context, video string, pair Pair, info tts.LanguageInfo, outputDir string, videoDuration time.Duration) JobResult {
	log.Info("Starting %s job for %s", info.Name, video)

	subFile, err := subtitle.NewReader(pair.SubtitleFile).Read()
	if err != nil {
		return failedResult(pair.LangCode, info.Name,
			fmt.Sprintf("subtitle parse failed: %v", err))
	}
	log.Info("[%s] %d subtitle entries", pair.LangCode, len(subFile.Lines))

	if subFile.Language != language.Und && subFile.Language != info.Tag {
		log.Warn("[%s] subtitle content looks like %s, not %s",
			pair.LangCode, subFile.Language, info.Tag)
	}
	if last := subFile.LastEnd(); last > videoDuration {
		log.Warn("[%s] subtitles run past the video end (%s > %s), the mix is truncated to the video",
			pair.LangCode, last, videoDuration)
	}

	// scratch is namespaced by language code so concurrent jobs never
	// touch each other's files
	tempDir := filepath.Join(outputDir, "temp_"+pair.LangCode)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return failedResult(pair.LangCode, info.Name,
			fmt.Sprintf("failed to create scratch directory: %v", err))
	}
	defer os.RemoveAll(tempDir)

	clips, edgeCount, gttsCount := r.synthesizeSegments(ctx, subFile.Lines, info, tempDir, pair.LangCode)
	if len(clips) == 0 {
		return failedResult(pair.LangCode, info.Name, "no speech segments produced")
	}
	log.Info("[%s] synthesized %d/%d segments", pair.LangCode, len(clips), len(subFile.Lines))

	result := JobResult{
		LangCode:     pair.LangCode,
		Language:     info.Name,
		EdgeSegments: edgeCount,
		GTTSSegments: gttsCount,
	}

	mixedAudio := filepath.Join(outputDir, "audio_"+pair.LangCode+".mp3")
	if err := r.mixer.Mix(ctx, clips, videoDuration, mixedAudio); err != nil {
		result.Error = strPtr(err.Error())
		return result
	}
	log.Info("[%s] timeline mix complete: %s", pair.LangCode, mixedAudio)

	outputSRT := filepath.Join(outputDir, "output_"+pair.LangCode+".srt")
	if err := r.writer.Write(outputSRT, subFile); err != nil {
		result.Error = strPtr(fmt.Sprintf("failed to write subtitle file: %v", err))
		return result
	}

	videoOnly := filepath.Join(tempDir, "video_only.mp4")
	if err := r.tools.BurnSubtitles(ctx, video, outputSRT, videoOnly, r.style); err != nil {
		result.Error = strPtr(err.Error())
		return result
	}

	outputVideo := filepath.Join(outputDir, "output_"+pair.LangCode+".mp4")
	if err := r.tools.MuxAudio(ctx, videoOnly, mixedAudio, outputVideo); err != nil {
		result.Error = strPtr(err.Error())
		return result
	}

	log.Info("[%s] job complete: %s", pair.LangCode, outputVideo)
	result.Success = true
	result.OutputVideo = strPtr(outputVideo)
	result.OutputSRT = strPtr(outputSRT)
	return result
}

// synthesizeSegments runs per-segment synthesis through a bounded
// worker group. Clip slots are keyed by entry index, never by
// completion order; segment failures are dropped and logged.
func (r *JobRunner) synthesizeSegments(ctx context.Context, lines []subtitle.Line, info tts.LanguageInfo, tempDir, langCode string) ([]SegmentClip, int, int) {
	slots := make([]*SegmentClip, len(lines))

	var mu sync.Mutex
	var edgeCount, gttsCount int
	var fallbackWarn sync.Once

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.segmentWorkers)

	for i, line := range lines {
		if line.IsEmpty() {
			continue // never synthesized, mixer never sees this index
		}
		if !line.IsValid() {
			log.Warn("[%s] entry %d has non-positive duration, rejected", langCode, line.Index)
			continue
		}

		i, line := i, line
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			clipPath := filepath.Join(tempDir, fmt.Sprintf("seg_%03d.mp3", i))
			outcome, err := r.synth.Synthesize(gctx, line.Text, info.Voice, line.TargetDuration(), clipPath)
			if err != nil {
				// per-segment failures are non-fatal; the job proceeds
				// with whatever segments succeeded
				log.Warn("[%s] segment %d failed: %v", langCode, line.Index, err)
				return nil
			}

			slots[i] = &SegmentClip{
				Index:    line.Index,
				Path:     clipPath,
				Start:    line.StartTime,
				Duration: outcome.Duration,
				Engine:   outcome.Engine,
			}

			mu.Lock()
			switch outcome.Engine {
			case "edge":
				edgeCount++
			case "gtts":
				gttsCount++
			}
			mu.Unlock()

			if outcome.Engine == "gtts" {
				fallbackWarn.Do(func() {
					log.Warn("[%s] primary engine degraded; voice selection is no longer honored for this run", langCode)
				})
			}
			return nil
		})
	}

	_ = g.Wait()

	clips := make([]SegmentClip, 0, len(slots))
	for _, slot := range slots {
		if slot != nil {
			clips = append(clips, *slot)
		}
	}
	return clips, edgeCount, gttsCount
}
