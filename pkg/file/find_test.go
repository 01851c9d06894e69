package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	return path
}

func TestFindSubtitleSiblings(t *testing.T) {
	dir := t.TempDir()
	video := touch(t, dir, "lecture.mp4")
	touch(t, dir, "lecture_en.srt")
	touch(t, dir, "lecture_zh.srt")
	touch(t, dir, "lecture_xx.srt")  // unknown code
	touch(t, dir, "other_en.srt")    // different video
	touch(t, dir, "lecture_en.txt")  // wrong extension
	require.NoError(t, os.Mkdir(filepath.Join(dir, "lecture_pt.srt.d"), 0755))

	siblings, err := FindSubtitleSiblings(video, []string{"en", "zh", "pt"})
	require.NoError(t, err)
	require.Len(t, siblings, 2)

	codes := map[string]bool{}
	for _, s := range siblings {
		codes[s.LangCode] = true
		assert.FileExists(t, s.Path)
	}
	assert.True(t, codes["en"])
	assert.True(t, codes["zh"])
}

func TestFindSubtitleSiblingsMissingDir(t *testing.T) {
	_, err := FindSubtitleSiblings("/nonexistent/video.mp4", []string{"en"})
	assert.Error(t, err)
}

func TestFindVideos(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.mp4")
	touch(t, dir, "b.MKV")
	touch(t, dir, "c.webm")
	touch(t, dir, "notes.txt")
	touch(t, dir, "d_en.srt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))
	touch(t, filepath.Join(dir, "nested"), "e.mp4") // not recursive

	videos, err := FindVideos(dir)
	require.NoError(t, err)
	assert.Len(t, videos, 3)
	for _, v := range videos {
		assert.Equal(t, dir, filepath.Dir(v))
	}
}
