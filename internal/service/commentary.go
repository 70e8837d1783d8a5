package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CommentaryService loads verse commentary. Results are not cached.
type CommentaryService struct {
	fetcher CommentaryFetcher
	logger  *zap.Logger
}

func NewCommentaryService(fetcher CommentaryFetcher, logger *zap.Logger) *CommentaryService {
	return &CommentaryService{fetcher: fetcher, logger: logger}
}

// Get returns the commentary of a verse.
func (s *CommentaryService) Get(ctx context.Context, chapterNumber, verseIndex int) (string, error) {
	text, err := s.fetcher.LoadCommentary(ctx, chapterNumber, verseIndex)
	if err != nil {
		s.logger.Debug("commentary unavailable",
			zap.Int("chapter", chapterNumber),
			zap.Int("verse", verseIndex),
			zap.Error(err),
		)
		return "", fmt.Errorf("load commentary %d:%d: %w", chapterNumber, verseIndex, err)
	}

	return text, nil
}
