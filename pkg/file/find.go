package file

import (
	"os"
	"path/filepath"
	"strings"
)

// SubtitleSibling describes an SRT file that sits next to a video file
// and carries a language marker in its name.
type SubtitleSibling struct {
	Path     string
	LangCode string
}

// FindSubtitleSiblings walks the video's directory and returns SRT files
// named "<videobase>_<code>.srt" for any of the known language codes.
func FindSubtitleSiblings(videoPath string, known []string) ([]SubtitleSibling, error) {
	dir := filepath.Dir(videoPath)
	base := BaseWithoutExt(videoPath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var found []SubtitleSibling
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".srt") {
			continue
		}
		if !strings.HasPrefix(name, base+"_") {
			continue
		}
		path := filepath.Join(dir, name)
		code, ok := LanguageSuffix(path, known)
		if !ok {
			continue
		}
		found = append(found, SubtitleSibling{Path: path, LangCode: code})
	}
	return found, nil
}

// FindVideos returns the video files directly under dir (not recursive).
func FindVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var videos []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".mp4", ".mkv", ".mov", ".avi", ".webm":
			videos = append(videos, filepath.Join(dir, entry.Name()))
		}
	}
	return videos, nil
}
