package persistence

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lyn123456-cs/VideoTranslator/internal/dub"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleReport(successCount int) *dub.BatchReport {
	out := "output_en.mp4"
	return &dub.BatchReport{
		TotalTime:      42.5,
		TotalLanguages: 2,
		SuccessCount:   successCount,
		MaxWorkers:     2,
		Results: []dub.JobResult{
			{LangCode: "en", Language: "English", Success: true, OutputVideo: &out},
			{LangCode: "de", Language: "German"},
		},
	}
}

func TestSaveReportRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveReport(ctx, "/media/talk.mp4", sampleReport(1)))

	runs, err := store.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, "/media/talk.mp4", run.Video)
	assert.False(t, run.CreatedAt.IsZero())
	assert.Equal(t, 42.5, run.Report.TotalTime)
	assert.Equal(t, 1, run.Report.SuccessCount)
	require.Len(t, run.Report.Results, 2)
	assert.Equal(t, "en", run.Report.Results[0].LangCode)
	require.NotNil(t, run.Report.Results[0].OutputVideo)
	assert.Equal(t, "output_en.mp4", *run.Report.Results[0].OutputVideo)
}

func TestRecentRunsNewestFirstAndLimited(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		video := fmt.Sprintf("/media/video_%d.mp4", i)
		require.NoError(t, store.SaveReport(ctx, video, sampleReport(i)))
	}

	runs, err := store.RecentRuns(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "/media/video_4.mp4", runs[0].Video)
	assert.Equal(t, "/media/video_2.mp4", runs[2].Video)

	// non-positive limit falls back to the default window
	runs, err = store.RecentRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 5)
}

func TestSaveReportNil(t *testing.T) {
	store := newTestStore(t)
	err := store.SaveReport(context.Background(), "/media/v.mp4", nil)
	assert.ErrorContains(t, err, "nil")
}

func TestNewSQLiteStoreRequiresPath(t *testing.T) {
	_, err := NewSQLiteStore("   ")
	assert.ErrorContains(t, err, "db path is required")
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.SaveReport(context.Background(), "/media/v.mp4", sampleReport(2)))
	require.NoError(t, first.Close())

	// reopening applies no migration twice and keeps existing rows
	second, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()

	runs, err := second.RecentRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestMigrationVersionParsing(t *testing.T) {
	assert.Equal(t, 1, migrationVersion("0001_batch_runs.sql"))
	assert.Equal(t, 12, migrationVersion("0012_add_index.sql"))
	assert.Zero(t, migrationVersion("README.md"))
	assert.Zero(t, migrationVersion("_leading.sql"))
}
