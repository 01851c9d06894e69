package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/Lyn123456-cs/VideoTranslator/internal/config"
	"github.com/Lyn123456-cs/VideoTranslator/internal/dub"
	"github.com/Lyn123456-cs/VideoTranslator/internal/persistence"
	"github.com/Lyn123456-cs/VideoTranslator/internal/service"
	"github.com/Lyn123456-cs/VideoTranslator/internal/tts"
	"github.com/Lyn123456-cs/VideoTranslator/pkg/file"
	"github.com/Lyn123456-cs/VideoTranslator/pkg/log"
)

func main() {
	log.InitLogger(log.ParseLevel(os.Getenv("LOG_LEVEL")))

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) >= 2 {
		os.Exit(runBatch(ctx, cfg, os.Args[1], os.Args[2:]))
	}

	if cfg.Watch.Dir == "" {
		fmt.Println("Usage: VideoTranslator <video> <subtitle_lang.srt> [more subtitles...]")
		fmt.Println("       VideoTranslator            (watch mode, requires WATCH_DIR)")
		fmt.Printf("Supported languages: %v\n", tts.SupportedCodes())
		os.Exit(1)
	}

	os.Exit(runWatch(ctx, cfg))
}

func runBatch(ctx context.Context, cfg *config.Config, video string, srtFiles []string) int {
	if !file.Exists(video) {
		log.Error("Video file not found: %s", video)
		return 1
	}

	pairs := collectPairs(srtFiles)
	if len(pairs) == 0 {
		log.Error("No valid (language, subtitle) pairs found")
		return 1
	}

	pipeline, err := service.NewPipeline(cfg)
	if err != nil {
		log.Error("Failed to build pipeline: %v", err)
		return 1
	}

	outputDir := filepath.Join(cfg.Output.Dir, file.BaseWithoutExt(video))
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Error("Failed to create output directory: %v", err)
		return 1
	}

	orch := dub.NewOrchestrator(video, outputDir, pipeline.Tools, pipeline.Runner)
	if store := openStore(cfg); store != nil {
		defer store.Close()
		orch = orch.WithStore(store)
	}

	report, err := orch.BatchProcess(ctx, pairs, cfg.Dub.MaxWorkers)
	if err != nil {
		log.Error("Batch failed: %v", err)
		return 1
	}

	printReport(report)
	return 0
}

func runWatch(ctx context.Context, cfg *config.Config) int {
	pipeline, err := service.NewPipeline(cfg)
	if err != nil {
		log.Error("Failed to build pipeline: %v", err)
		return 1
	}

	var store dub.ReportStore
	if s := openStore(cfg); s != nil {
		defer s.Close()
		store = s
	}

	c := cron.New()
	svc := service.NewWatchService(*cfg, c, pipeline, store)
	if err := svc.Schedule(ctx); err != nil {
		log.Error("Failed to schedule watch service: %v", err)
		return 1
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return 0
}

// collectPairs derives language codes from "_<lang>.srt" file name
// suffixes; unknown or missing files are skipped with a warning.
func collectPairs(srtFiles []string) []dub.Pair {
	known := tts.SupportedCodes()

	var pairs []dub.Pair
	for _, srtFile := range srtFiles {
		if !file.Exists(srtFile) {
			log.Warn("Skipping missing subtitle file: %s", srtFile)
			continue
		}
		code, ok := file.LanguageSuffix(srtFile, known)
		if !ok {
			log.Warn("Skipping %s: no language code suffix in file name", srtFile)
			continue
		}
		pairs = append(pairs, dub.Pair{LangCode: code, SubtitleFile: srtFile})
	}
	return pairs
}

func openStore(cfg *config.Config) *persistence.SQLiteStore {
	if cfg.Output.ReportDB == "" {
		return nil
	}
	store, err := persistence.NewSQLiteStore(cfg.Output.ReportDB)
	if err != nil {
		log.Error("Failed to open batch history store: %v", err)
		return nil
	}
	return store
}

func printReport(report *dub.BatchReport) {
	fmt.Println("=== Batch Report ===")
	fmt.Printf("Total time: %.1fs\n", report.TotalTime)
	fmt.Printf("Languages: %d, succeeded: %d\n", report.TotalLanguages, report.SuccessCount)
	fmt.Printf("Workers: %d\n", report.MaxWorkers)
	if report.EstimatedSpeedup > 0 {
		fmt.Printf("Estimated speed-up: %.1fx\n", report.EstimatedSpeedup)
	}
	for _, result := range report.Results {
		if result.Success {
			fmt.Printf("  [ok] %s: %s (%.1fs)\n", result.Language, *result.OutputVideo, result.DurationSeconds)
		} else {
			reason := "unknown error"
			if result.Error != nil {
				reason = *result.Error
			}
			fmt.Printf("  [failed] %s: %s\n", result.Language, reason)
		}
	}
}
