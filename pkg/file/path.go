package file

import (
	"os"
	"path/filepath"
	"strings"
)

func ReplaceExt(path, ext string) string {
	if path == "" {
		return path
	}

	dir := filepath.Dir(path)
	filename := filepath.Base(path)

	lastDot := strings.LastIndex(filename, ".")

	if lastDot <= 0 {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return filepath.Join(dir, filename+ext)
	}

	nameWithoutExt := filename[:lastDot]

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return filepath.Join(dir, nameWithoutExt+ext)
}

// BaseWithoutExt returns the file name without directory or extension
func BaseWithoutExt(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// LanguageSuffix extracts a trailing "_<code>" language marker from a
// file name like "lecture_en.srt". Returns the code and true when the
// marker is one of the known codes.
func LanguageSuffix(path string, known []string) (string, bool) {
	name := BaseWithoutExt(path)
	idx := strings.LastIndex(name, "_")
	if idx < 0 || idx == len(name)-1 {
		return "", false
	}
	code := strings.ToLower(name[idx+1:])
	for _, k := range known {
		if code == k {
			return code, true
		}
	}
	return "", false
}

// Exists reports whether the path exists as a regular file or directory
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
