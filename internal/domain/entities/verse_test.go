package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func contentWithVerses(first, last int) *ChapterContent {
	c := &ChapterContent{}
	for i := first; i <= last; i++ {
		c.Verses = append(c.Verses, Verse{NumberInChapter: i})
	}
	return c
}

func TestChapterContentBounds(t *testing.T) {
	withFormula := contentWithVerses(0, 7)
	assert.Equal(t, 0, withFormula.FirstIndex())
	assert.Equal(t, 7, withFormula.LastIndex())
	assert.True(t, withFormula.HasOpeningFormula())

	without := contentWithVerses(1, 7)
	assert.Equal(t, 1, without.FirstIndex())
	assert.False(t, without.HasOpeningFormula())
}

func TestChapterContentClamp(t *testing.T) {
	c := contentWithVerses(0, 286)

	assert.Equal(t, 0, c.Clamp(-5))
	assert.Equal(t, 286, c.Clamp(9999))
	assert.Equal(t, 10, c.Clamp(10))
}

func TestChapterContentVerseAt(t *testing.T) {
	c := contentWithVerses(1, 3)

	v, ok := c.VerseAt(2)
	assert.True(t, ok)
	assert.Equal(t, 2, v.NumberInChapter)

	_, ok = c.VerseAt(0)
	assert.False(t, ok)
	_, ok = c.VerseAt(4)
	assert.False(t, ok)
}

func TestHasOpeningFormula(t *testing.T) {
	assert.False(t, HasOpeningFormula(1))
	assert.False(t, HasOpeningFormula(9))
	assert.True(t, HasOpeningFormula(2))
	assert.True(t, HasOpeningFormula(114))
}
