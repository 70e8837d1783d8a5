package entities

// OpeningFormula is the text of the opening formula (Bismillah).
const OpeningFormula = "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ"

// Verse represents a single verse (ayah) of a chapter.
type Verse struct {
	Number          int    // global verse number, 0 for the opening formula
	Text            string // verse text
	NumberInChapter int    // 0 for the opening formula, 1..VerseCount otherwise
	AudioURL        string // empty when the recitation has no audio for the verse
}

// HasAudio reports whether the verse has a resolved audio URL.
func (v Verse) HasAudio() bool {
	return v.AudioURL != ""
}

// ChapterContent is a chapter together with its ordered verses.
// It is replaced wholesale when another chapter or reciter is selected.
type ChapterContent struct {
	Chapter   Chapter
	ReciterID string
	Verses    []Verse
}

// FirstIndex returns the smallest verse index of the chapter:
// 0 when the opening formula is present, 1 otherwise.
func (c *ChapterContent) FirstIndex() int {
	if len(c.Verses) > 0 {
		return c.Verses[0].NumberInChapter
	}
	return 1
}

// LastIndex returns the largest verse index of the chapter.
func (c *ChapterContent) LastIndex() int {
	if len(c.Verses) == 0 {
		return c.FirstIndex()
	}
	return c.Verses[len(c.Verses)-1].NumberInChapter
}

// Clamp restricts index to [FirstIndex, LastIndex].
func (c *ChapterContent) Clamp(index int) int {
	return min(max(index, c.FirstIndex()), c.LastIndex())
}

// VerseAt returns the verse with the given index within the chapter.
func (c *ChapterContent) VerseAt(index int) (Verse, bool) {
	i := index - c.FirstIndex()
	if i < 0 || i >= len(c.Verses) {
		return Verse{}, false
	}
	return c.Verses[i], true
}

// HasOpeningFormula reports whether verse 0 holds the opening formula.
func (c *ChapterContent) HasOpeningFormula() bool {
	return len(c.Verses) > 0 && c.Verses[0].NumberInChapter == 0
}
