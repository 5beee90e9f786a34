package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rw-translator/internal/textutil"
)

func TestHasLetters(t *testing.T) {
	t.Parallel()

	assert.True(t, textutil.HasLetters("Tank"))
	assert.True(t, textutil.HasLetters("坦克"))
	assert.True(t, textutil.HasLetters("100 hp"))
	assert.False(t, textutil.HasLetters("100"))
	assert.False(t, textutil.HasLetters(" / "))
	assert.False(t, textutil.HasLetters(""))
}

func TestHash(t *testing.T) {
	t.Parallel()

	a := textutil.Hash("Tank", "de", "gemini")
	assert.Len(t, a, 64)
	assert.Equal(t, a, textutil.Hash("Tank", "de", "gemini"))
	assert.NotEqual(t, a, textutil.Hash("Tank", "fr", "gemini"))
	assert.NotEqual(t, textutil.Hash("ab", "c"), textutil.Hash("a", "bc"))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", textutil.Truncate("short", 10))
	assert.Equal(t, "abc...", textutil.Truncate("abcdef", 3))
	assert.Equal(t, "坦克...", textutil.Truncate("坦克部队", 2))
}

func TestOneLine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `a\nb\nc`, textutil.OneLine("a\r\nb\nc"))
}
