// Package entities contains domain entities used across the application.
package entities

// ChapterCount is the number of chapters (surahs) in the Quran.
const ChapterCount = 114

// RevelationPlace tells where a chapter was revealed.
type RevelationPlace string

const (
	Meccan  RevelationPlace = "Meccan"
	Medinan RevelationPlace = "Medinan"
)

// Chapter represents one of the 114 chapters of the Quran.
// It is loaded once at startup and never mutated.
type Chapter struct {
	Number          int             `json:"number"`                 // number of the chapter (from 1 to 114)
	Name            string          `json:"name"`                   // Arabic name of the chapter
	Transliteration string          `json:"englishName"`            // transliterated name
	Translation     string          `json:"englishNameTranslation"` // translated name
	VerseCount      int             `json:"numberOfAyahs"`          // number of verses, without the opening formula
	RevelationPlace RevelationPlace `json:"revelationType"`
}

// HasOpeningFormula reports whether the chapter is preceded by the opening formula.
// Al-Fatiha carries it as its first verse and At-Tawbah has none.
func HasOpeningFormula(chapterNumber int) bool {
	return chapterNumber != 1 && chapterNumber != 9
}

// ValidChapterNumber reports whether n is a chapter number.
func ValidChapterNumber(n int) bool {
	return n >= 1 && n <= ChapterCount
}
