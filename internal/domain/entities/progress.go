package entities

import "time"

// ReadingProgress stores the last read position of a user.
type ReadingProgress struct {
	ChapterNumber int   `json:"surahNumber"`
	VerseIndex    int   `json:"ayahNumber"`
	Timestamp     int64 `json:"timestamp"` // unix milliseconds, strictly increasing across writes
}

// ReadAt returns the time of the last read.
func (p ReadingProgress) ReadAt() time.Time {
	return time.UnixMilli(p.Timestamp)
}

// Valid reports whether the progress points at an existing chapter.
func (p ReadingProgress) Valid() bool {
	return ValidChapterNumber(p.ChapterNumber) && p.VerseIndex >= 0
}
