package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		name string
		path string
		ext  string
		want string
	}{
		{"replace extension", "video/lecture.mp4", "srt", "video/lecture.srt"},
		{"dotted extension accepted", "lecture.mp4", ".mp3", "lecture.mp3"},
		{"no extension appends", "lecture", "srt", "lecture.srt"},
		{"empty path unchanged", "", "srt", ""},
		{"hidden file keeps name", ".env", "bak", ".env.bak"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplaceExt(tt.path, tt.ext))
		})
	}
}

func TestBaseWithoutExt(t *testing.T) {
	assert.Equal(t, "lecture", BaseWithoutExt("/media/lecture.mp4"))
	assert.Equal(t, "lecture_en", BaseWithoutExt("lecture_en.srt"))
	assert.Equal(t, "archive.tar", BaseWithoutExt("archive.tar.gz"))
}

func TestLanguageSuffix(t *testing.T) {
	known := []string{"en", "zh", "pt"}

	tests := []struct {
		path   string
		code   string
		wantOK bool
	}{
		{"lecture_en.srt", "en", true},
		{"/media/talk_zh.srt", "zh", true},
		{"talk_PT.srt", "pt", true},
		{"talk_fr.srt", "", false}, // not a known code
		{"talk.srt", "", false},    // no marker
		{"talk_.srt", "", false},   // empty marker
		{"en.srt", "", false},      // no underscore
	}
	for _, tt := range tests {
		code, ok := LanguageSuffix(tt.path, known)
		assert.Equal(t, tt.wantOK, ok, tt.path)
		assert.Equal(t, tt.code, code, tt.path)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.True(t, Exists(path))
	assert.True(t, Exists(dir))
	assert.False(t, Exists(filepath.Join(dir, "absent.txt")))
}
