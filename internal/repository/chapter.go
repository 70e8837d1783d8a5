package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
)

var (
	ErrChapterNotFound = errors.New("chapter not found")
	ErrInvalidNumber   = errors.New("invalid chapter number")
)

// ChapterRepository provides read-only access to the chapter directory.
// The directory is loaded from a JSON file once and never mutated.
type ChapterRepository struct {
	chapters []*entities.Chapter
}

// NewChapterRepository creates a new ChapterRepository with the 114 chapters read from path.
func NewChapterRepository(path string) (*ChapterRepository, error) {
	chapters, err := loadChapters(path)
	if err != nil {
		return nil, err
	}

	return &ChapterRepository{
		chapters: chapters,
	}, nil
}

// GetByNumber retrieves a chapter by its number (1-114).
func (r *ChapterRepository) GetByNumber(number int) (*entities.Chapter, error) {
	if !entities.ValidChapterNumber(number) {
		return nil, ErrInvalidNumber
	}

	// The directory is validated to be ordered by number.
	ch := r.chapters[number-1]
	if ch.Number != number {
		return nil, ErrChapterNotFound
	}

	return ch, nil
}

// GetAll retrieves all chapters ordered by number.
func (r *ChapterRepository) GetAll() []*entities.Chapter {
	return r.chapters
}

// Search returns chapters whose native, transliterated or translated name contains
// the query, or whose number equals it. An empty query returns all chapters.
func (r *ChapterRepository) Search(query string) []*entities.Chapter {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r.chapters
	}

	number, numErr := strconv.Atoi(q)

	var result []*entities.Chapter
	for _, ch := range r.chapters {
		switch {
		case numErr == nil && ch.Number == number,
			strings.Contains(ch.Name, q),
			strings.Contains(strings.ToLower(ch.Transliteration), q),
			strings.Contains(strings.ToLower(ch.Translation), q):
			result = append(result, ch)
		}
	}

	return result
}

func loadChapters(path string) ([]*entities.Chapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Chapters []*entities.Chapter `json:"chapters"`
	}
	if err = json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chapters JSON: %w", err)
	}

	if len(wrapper.Chapters) != entities.ChapterCount {
		return nil, fmt.Errorf("expected %d chapters, got %d", entities.ChapterCount, len(wrapper.Chapters))
	}

	for i, ch := range wrapper.Chapters {
		if ch.Number != i+1 {
			return nil, fmt.Errorf("chapter at position %d has number %d", i+1, ch.Number)
		}
		if ch.VerseCount < 1 {
			return nil, fmt.Errorf("chapter %d has no verses", ch.Number)
		}
		if ch.RevelationPlace != entities.Meccan && ch.RevelationPlace != entities.Medinan {
			return nil, fmt.Errorf("chapter %d has unknown revelation place %q", ch.Number, ch.RevelationPlace)
		}
	}

	return wrapper.Chapters, nil
}
