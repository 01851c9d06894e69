package dub

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/Lyn123456-cs/VideoTranslator/internal/media"
	"github.com/Lyn123456-cs/VideoTranslator/pkg/log"
)

// WorkerCeiling is the hard upper bound on language-level workers
const WorkerCeiling = 8

// defaultWorkerCap bounds the automatic worker count
const defaultWorkerCap = 4

// parallelEfficiency is the conservative factor used for the advisory
// speed-up estimate in the report
const parallelEfficiency = 0.7

// JobFunc runs one language job. Injectable so orchestration is
// testable without ffmpeg or network engines.
type JobFunc func(ctx context.Context, video string, pair Pair, outputDir string, videoDuration time.Duration) JobResult

// ReportStore persists finished batch reports for later inspection
type ReportStore interface {
	SaveReport(ctx context.Context, video string, report *BatchReport) error
}

// Orchestrator fans language jobs out across a bounded worker pool,
// collects results as they complete and persists a batch report.
type Orchestrator struct {
	video     string
	outputDir string
	tools     media.Toolset
	runner    JobFunc
	store     ReportStore // optional
}

// NewOrchestrator builds an orchestrator for one source video
func NewOrchestrator(video, outputDir string, tools media.Toolset, runner JobFunc) *Orchestrator {
	return &Orchestrator{
		video:     video,
		outputDir: outputDir,
		tools:     tools,
		runner:    runner,
	}
}

// WithStore attaches a history store that receives every finished report
func (o *Orchestrator) WithStore(store ReportStore) *Orchestrator {
	o.store = store
	return o
}

// BatchProcess runs one language job per pair, bounded by maxWorkers
// (0 = automatic). Jobs are isolated: a failure or panic in one is
// recorded as a failed result and never aborts a sibling. Results are
// collected in completion order.
func (o *Orchestrator) BatchProcess(ctx context.Context, pairs []Pair, maxWorkers int) (*BatchReport, error) {
	pairs = dedupePairs(pairs)
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no language pairs to process")
	}

	videoDuration, err := o.tools.ProbeDuration(ctx, o.video)
	if err != nil {
		return nil, fmt.Errorf("cannot determine source video duration: %w", err)
	}

	workers := resolveWorkers(maxWorkers, len(pairs))
	log.Info("Batch start: %d languages, %d workers, video %s (%.1fs)",
		len(pairs), workers, o.video, videoDuration.Seconds())

	started := time.Now()
	results := make(chan JobResult, len(pairs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	dispatched := 0
	for _, pair := range pairs {
		// cooperative cancellation point between dispatches
		if ctx.Err() != nil {
			results <- failedResult(pair.LangCode, pair.LangCode, "cancelled before start")
			dispatched++
			continue
		}

		wg.Add(1)
		dispatched++
		go func(pair Pair) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			// a crashed job must not take down the batch; convert the
			// panic into a failure record
			defer func() {
				if rec := recover(); rec != nil {
					results <- failedResult(pair.LangCode, pair.LangCode,
						fmt.Sprintf("job panicked: %v", rec))
				}
			}()

			results <- o.runner(ctx, o.video, pair, o.outputDir, videoDuration)
		}(pair)
	}

	collected := make([]JobResult, 0, dispatched)
	for range dispatched {
		collected = append(collected, <-results)
	}
	wg.Wait()

	report := buildReport(collected, workers, time.Since(started))

	reportPath := filepath.Join(o.outputDir, "batch_report.json")
	if err := WriteReport(report, reportPath); err != nil {
		return report, fmt.Errorf("failed to persist batch report: %w", err)
	}
	log.Info("Batch report written: %s", reportPath)

	if o.store != nil {
		if err := o.store.SaveReport(ctx, o.video, report); err != nil {
			log.Error("Failed to record batch history: %v", err)
		}
	}

	return report, nil
}

func buildReport(results []JobResult, workers int, elapsed time.Duration) *BatchReport {
	successCount := 0
	for _, r := range results {
		if r.Success {
			successCount++
		}
	}

	report := &BatchReport{
		TotalTime:      elapsed.Seconds(),
		TotalLanguages: len(results),
		SuccessCount:   successCount,
		MaxWorkers:     workers,
		Results:        results,
	}

	// advisory only; does not affect correctness
	if workers > 1 && successCount > 1 {
		report.EstimatedSpeedup = float64(min(workers, len(results))) * parallelEfficiency
	}

	return report
}

// resolveWorkers applies the default min(parallelism, pairs, 4) rule
// and the hard ceiling
func resolveWorkers(requested, pairCount int) int {
	workers := requested
	if workers <= 0 {
		workers = min(runtime.NumCPU(), pairCount, defaultWorkerCap)
	}
	if workers > WorkerCeiling {
		workers = WorkerCeiling
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// dedupePairs defensively drops repeated language codes; two jobs for
// the same language would collide in the output namespace
func dedupePairs(pairs []Pair) []Pair {
	seen := make(map[string]bool, len(pairs))
	out := make([]Pair, 0, len(pairs))
	for _, pair := range pairs {
		if seen[pair.LangCode] {
			log.Warn("Duplicate language pair %s dropped", pair.LangCode)
			continue
		}
		seen[pair.LangCode] = true
		out = append(out, pair)
	}
	return out
}
