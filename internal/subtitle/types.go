package subtitle

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Reader is the interface for reading subtitle files
type Reader interface {
	Read() (*File, error)
}

// Writer is the interface for writing subtitle files
type Writer interface {
	Write(path string, subtitle *File) error
}

// Line represents a single subtitle entry
type Line struct {
	Index     int           // 1-based ordinal, stable ordering by start time
	StartTime time.Duration // start time
	EndTime   time.Duration // end time
	Text      string        // subtitle text
}

// TargetDuration is the time slot the dubbed clip has to fill
func (l Line) TargetDuration() time.Duration {
	return l.EndTime - l.StartTime
}

// IsEmpty reports whether the entry has no speakable text
func (l Line) IsEmpty() bool {
	return strings.TrimSpace(l.Text) == ""
}

// IsValid reports whether the entry's time slot is usable
func (l Line) IsValid() bool {
	return l.EndTime > l.StartTime
}

// File represents one parsed subtitle file
type File struct {
	Lines    []Line
	Language language.Tag
	Format   string // e.g. SRT
}

// LastEnd returns the end time of the latest entry, or zero when empty
func (f *File) LastEnd() time.Duration {
	var last time.Duration
	for _, line := range f.Lines {
		if line.EndTime > last {
			last = line.EndTime
		}
	}
	return last
}
