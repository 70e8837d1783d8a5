package alquran

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
)

// uthmaniOpeningFormula prefixes verse 1 of every chapter except 1 and 9 in the uthmani text edition.
const uthmaniOpeningFormula = "بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ"

type surahData struct {
	Number                 int         `json:"number"`
	Name                   string      `json:"name"`
	EnglishName            string      `json:"englishName"`
	EnglishNameTranslation string      `json:"englishNameTranslation"`
	NumberOfAyahs          int         `json:"numberOfAyahs"`
	RevelationType         string      `json:"revelationType"`
	Ayahs                  []ayahEntry `json:"ayahs"`
}

type ayahEntry struct {
	Number        int    `json:"number"`
	Text          string `json:"text"`
	NumberInSurah int    `json:"numberInSurah"`
	Audio         string `json:"audio"`
}

// LoadChapter fetches the verse text and the recitation audio of a chapter concurrently
// and merges them positionally. Chapters other than 1 and 9 are prefixed with the
// opening formula as verse 0. Either request failing fails the whole load.
func (c *Client) LoadChapter(ctx context.Context, chapterNumber int, reciterID string) (*entities.ChapterContent, error) {
	if !entities.ValidChapterNumber(chapterNumber) {
		return nil, ErrInvalidChapter
	}
	if reciterID == "" {
		return nil, fmt.Errorf("%w: empty reciter", ErrFetchFailed)
	}

	var text, audio *surahData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		text, err = c.getSurah(gctx, chapterNumber, c.textEdition)
		return err
	})
	g.Go(func() error {
		var err error
		audio, err = c.getSurah(gctx, chapterNumber, reciterID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if text.Number != chapterNumber {
		return nil, fmt.Errorf("%w: requested chapter %d, got %d", ErrFetchFailed, chapterNumber, text.Number)
	}

	return &entities.ChapterContent{
		Chapter: entities.Chapter{
			Number:          text.Number,
			Name:            text.Name,
			Transliteration: text.EnglishName,
			Translation:     text.EnglishNameTranslation,
			VerseCount:      text.NumberOfAyahs,
			RevelationPlace: entities.RevelationPlace(text.RevelationType),
		},
		ReciterID: reciterID,
		Verses:    c.mergeVerses(chapterNumber, reciterID, text.Ayahs, audio.Ayahs),
	}, nil
}

func (c *Client) getSurah(ctx context.Context, chapterNumber int, edition string) (*surahData, error) {
	path := fmt.Sprintf("/surah/%d/%s", chapterNumber, edition)

	status, env, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, fmt.Errorf("%w: %s: status %d", ErrFetchFailed, edition, status)
	}
	if env == nil || env.Status != "OK" {
		return nil, fmt.Errorf("%w: %s: API returned an error", ErrFetchFailed, edition)
	}

	var data surahData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: %s: decode: %v", ErrFetchFailed, edition, err)
	}

	return &data, nil
}

func (c *Client) mergeVerses(chapterNumber int, reciterID string, text, audio []ayahEntry) []entities.Verse {
	verses := make([]entities.Verse, 0, len(text)+1)

	withFormula := entities.HasOpeningFormula(chapterNumber)
	if withFormula {
		verses = append(verses, entities.Verse{
			Number:          0,
			Text:            entities.OpeningFormula,
			NumberInChapter: 0,
			AudioURL:        c.OpeningFormulaAudioURL(reciterID),
		})
	}

	for i, a := range text {
		v := entities.Verse{
			Number:          a.Number,
			Text:            a.Text,
			NumberInChapter: a.NumberInSurah,
		}
		if i < len(audio) {
			v.AudioURL = audio[i].Audio
		}
		if withFormula && a.NumberInSurah == 1 {
			v.Text = stripOpeningFormula(v.Text)
		}
		verses = append(verses, v)
	}

	return verses
}

// OpeningFormulaAudioURL returns the recitation of chapter 1 verse 1 by the reciter,
// used as the audio of the injected opening formula.
func (c *Client) OpeningFormulaAudioURL(reciterID string) string {
	if _, name, ok := strings.Cut(reciterID, "."); ok {
		reciterID = name
	}
	return fmt.Sprintf("%s/%d/%s/1.mp3", c.audioCDNURL, c.audioBitrate, reciterID)
}

func stripOpeningFormula(text string) string {
	rest, ok := strings.CutPrefix(text, uthmaniOpeningFormula)
	if !ok {
		return text
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return text
	}
	return rest
}
