package alquran

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
)

// LoadCommentary fetches the commentary (tafsir) of a single verse.
// Verse 0, the opening formula, has no commentary.
func (c *Client) LoadCommentary(ctx context.Context, chapterNumber, verseIndex int) (string, error) {
	if !entities.ValidChapterNumber(chapterNumber) {
		return "", ErrInvalidChapter
	}
	if verseIndex < 1 {
		return "", ErrNotFound
	}

	path := fmt.Sprintf("/ayah/%d:%d/%s", chapterNumber, verseIndex, c.commentaryEdition)

	status, env, err := c.get(ctx, path)
	if err != nil {
		return "", err
	}

	switch {
	case status == http.StatusNotFound:
		return "", ErrNotFound
	case !isSuccess(status):
		return "", fmt.Errorf("%w: commentary: status %d", ErrFetchFailed, status)
	case env == nil:
		return "", fmt.Errorf("%w: commentary: malformed response", ErrFetchFailed)
	case env.Code != http.StatusOK:
		return "", ErrNotFound
	}

	var data struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || strings.TrimSpace(data.Text) == "" {
		return "", ErrNotFound
	}

	return data.Text, nil
}
