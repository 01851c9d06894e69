package dub

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch_report.json")

	report := &BatchReport{
		TotalTime:        12.5,
		TotalLanguages:   2,
		SuccessCount:     1,
		MaxWorkers:       2,
		EstimatedSpeedup: 1.4,
		Results: []JobResult{
			{
				LangCode:        "en",
				Language:        "English",
				Success:         true,
				OutputVideo:     strPtr("output_en.mp4"),
				OutputSRT:       strPtr("output_en.srt"),
				DurationSeconds: 8.2,
				EdgeSegments:    12,
			},
			{
				LangCode: "de",
				Language: "German",
				Error:    strPtr("mux failed"),
			},
		},
	}

	require.NoError(t, WriteReport(report, path))

	got, err := ReadReport(path)
	require.NoError(t, err)
	assert.Equal(t, report, got)

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "batch_report.json", entries[0].Name())
}

func TestWriteReportJSONShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch_report.json")
	report := &BatchReport{
		TotalLanguages: 1,
		MaxWorkers:     1,
		Results: []JobResult{{LangCode: "en", Language: "English", Success: true}},
	}
	require.NoError(t, WriteReport(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"total_time", "total_languages", "success_count", "max_workers", "results"} {
		assert.Contains(t, raw, key)
	}
	// the advisory estimate is omitted when absent
	assert.NotContains(t, raw, "estimated_speedup")

	entry := raw["results"].([]any)[0].(map[string]any)
	for _, key := range []string{"lang_code", "language", "success", "output_video", "output_srt", "duration", "error"} {
		assert.Contains(t, entry, key)
	}
	assert.Nil(t, entry["error"])
}

func TestWriteReportNil(t *testing.T) {
	err := WriteReport(nil, filepath.Join(t.TempDir(), "r.json"))
	assert.ErrorContains(t, err, "nil")
}

func TestWriteReportOverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch_report.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	require.NoError(t, WriteReport(&BatchReport{TotalLanguages: 3}, path))
	got, err := ReadReport(path)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalLanguages)
}

func TestReadReportErrors(t *testing.T) {
	_, err := ReadReport(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read report")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))
	_, err = ReadReport(bad)
	assert.ErrorContains(t, err, "failed to parse report")
}
