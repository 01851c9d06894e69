package dub

import (
	"time"
)

// Pair names one language job: the target language code and the
// subtitle file already translated into that language.
type Pair struct {
	LangCode     string
	SubtitleFile string
}

// SegmentClip is the ephemeral artifact of one synthesized subtitle
// entry: created by the synthesizer, consumed exactly once by the
// mixer, deleted with the job's scratch directory.
type SegmentClip struct {
	Index    int           // original entry index, the key for timeline placement
	Path     string        // audio file inside the job's scratch dir
	Start    time.Duration // copied from the entry's start time
	Duration time.Duration // realized duration after adjustment
	Engine   string        // which engine synthesized it
}

// JobResult records the outcome of one language job. Immutable once
// produced; owned by the orchestrator afterwards.
type JobResult struct {
	LangCode        string  `json:"lang_code"`
	Language        string  `json:"language"`
	Success         bool    `json:"success"`
	OutputVideo     *string `json:"output_video"`
	OutputSRT       *string `json:"output_srt"`
	DurationSeconds float64 `json:"duration"`
	Error           *string `json:"error"`
	EdgeSegments    int     `json:"edge_segments"`
	GTTSSegments    int     `json:"gtts_segments"`
}

// BatchReport is the one durable artifact of a batch run. Shape is
// stable across runs so external tooling can consume it.
type BatchReport struct {
	TotalTime        float64     `json:"total_time"`
	TotalLanguages   int         `json:"total_languages"`
	SuccessCount     int         `json:"success_count"`
	MaxWorkers       int         `json:"max_workers"`
	EstimatedSpeedup float64     `json:"estimated_speedup,omitempty"`
	Results          []JobResult `json:"results"`
}

func failedResult(langCode, langName, reason string) JobResult {
	return JobResult{
		LangCode: langCode,
		Language: langName,
		Success:  false,
		Error:    &reason,
	}
}

func strPtr(s string) *string { return &s }
