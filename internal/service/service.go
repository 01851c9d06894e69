package service

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/Lyn123456-cs/VideoTranslator/internal/config"
	"github.com/Lyn123456-cs/VideoTranslator/internal/dub"
	"github.com/Lyn123456-cs/VideoTranslator/internal/tts"
	"github.com/Lyn123456-cs/VideoTranslator/pkg/file"
	"github.com/Lyn123456-cs/VideoTranslator/pkg/icron"
	"github.com/Lyn123456-cs/VideoTranslator/pkg/log"
)

func backoff(seconds int) time.Duration {
	if seconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(seconds) * time.Second
}

// watchService periodically scans a directory for videos with
// translated subtitle siblings and dubs whatever is not done yet.
type watchService struct {
	cfg      config.Config
	cronExpr string
	cron     *cron.Cron
	pipeline *Pipeline
	store    dub.ReportStore
}

// NewWatchService creates the scheduled scan service
func NewWatchService(
	cfg config.Config,
	c *cron.Cron,
	pipeline *Pipeline,
	store dub.ReportStore,
) watchService {
	return watchService{
		cfg:      cfg,
		cronExpr: cfg.Watch.CronExpr,
		cron:     c,
		pipeline: pipeline,
		store:    store,
	}
}

var singleflightGroup singleflight.Group

// Schedule registers the scan on the cron schedule. Overlapping runs
// are collapsed so a slow batch never stacks on itself.
func (s watchService) Schedule(
	ctx context.Context,
) error {
	info, err := icron.GetTriggerInfo(s.cronExpr, time.Now())
	if err != nil {
		return err
	}
	log.Info("Watch service scheduled (%s), next run in %s",
		info.Expression, info.TimeUntilNext.Round(time.Second))

	runFunc := func() {
		_, _, _ = singleflightGroup.Do("run", func() (any, error) {
			if err := s.run(ctx); err != nil {
				log.Error("Watch run failed: %v", err)
			}
			return nil, nil
		})
	}
	_, err = s.cron.AddFunc(s.cronExpr, runFunc)
	return err
}

func (s watchService) run(
	ctx context.Context,
) error {
	dir := s.cfg.Watch.Dir
	videos, err := file.FindVideos(dir)
	if err != nil {
		log.Error("Failed to scan watch dir %s: %v", dir, err)
		return err
	}
	log.Info("Found %d videos in %s", len(videos), dir)

	for _, video := range videos {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.processVideo(ctx, video); err != nil {
			log.Error("Failed to process %s: %v", video, err)
		}
	}
	return nil
}

func (s watchService) processVideo(ctx context.Context, video string) error {
	siblings, err := file.FindSubtitleSiblings(video, tts.SupportedCodes())
	if err != nil {
		return err
	}
	if len(siblings) == 0 {
		return nil
	}

	outputDir := filepath.Join(s.cfg.Output.Dir, file.BaseWithoutExt(video))

	// skip languages whose final output already exists; the job itself
	// never performs this check
	pairs := make([]dub.Pair, 0, len(siblings))
	for _, sib := range siblings {
		finalOutput := filepath.Join(outputDir, "output_"+sib.LangCode+".mp4")
		if file.Exists(finalOutput) {
			log.Debug("Skipping %s/%s, output exists", video, sib.LangCode)
			continue
		}
		pairs = append(pairs, dub.Pair{LangCode: sib.LangCode, SubtitleFile: sib.Path})
	}
	if len(pairs) == 0 {
		return nil
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	log.Info("Dubbing %s into %d languages", video, len(pairs))
	orch := dub.NewOrchestrator(video, outputDir, s.pipeline.Tools, s.pipeline.Runner)
	if s.store != nil {
		orch = orch.WithStore(s.store)
	}

	report, err := orch.BatchProcess(ctx, pairs, s.cfg.Dub.MaxWorkers)
	if err != nil {
		return err
	}
	log.Info("Batch for %s done: %d/%d succeeded in %.1fs",
		video, report.SuccessCount, report.TotalLanguages, report.TotalTime)
	return nil
}
