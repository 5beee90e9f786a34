package translation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rw-translator/internal/cache"
	"rw-translator/internal/interpolation"
)

// upperTranslator "translates" by upper-casing. Batch prompts are answered
// with parts joined by the delimiter; respond can rewrite the batch parts.
type upperTranslator struct {
	mu      sync.Mutex
	batches int
	singles int
	fail    bool
	respond func(parts []string) []string
}

func (u *upperTranslator) Name() string { return "upper" }

func (u *upperTranslator) Translate(_ context.Context, req Request) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.fail {
		return "", ErrProvider
	}
	if !strings.Contains(req.SystemPrompt, string(interpolation.Sentinel)) {
		return "", errors.New("system prompt does not mention the sentinel")
	}

	if text, ok := strings.CutPrefix(req.UserPrompt, "Text to translate:\n"); ok {
		u.singles++
		return strings.ToUpper(text), nil
	}

	u.batches++
	var parts []string
	for _, line := range strings.Split(req.UserPrompt, "\n") {
		if strings.HasPrefix(line, "[") {
			parts = append(parts, strings.ToUpper(stripMarker(line)))
		}
	}
	if u.respond != nil {
		parts = u.respond(parts)
	}
	return strings.Join(parts, " "+BatchDelimiter+" "), nil
}

func TestTranslateTexts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tr := &upperTranslator{}
	c := cache.NewTranslationCache(nil)
	p := NewPipeline(tr, c, 2, 2)

	texts := []string{"Heavy tank", "Deals ${dmg} damage", "Heavy tank", "100", "Fast", "${only}"}
	res, err := p.TranslateTexts(ctx, texts, "en", "de")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"Heavy tank":          "HEAVY TANK",
		"Deals ${dmg} damage": "DEALS ${dmg} DAMAGE",
		"Fast":                "FAST",
	}, res.Translations)
	assert.Equal(t, 3, res.Translated)
	assert.Equal(t, 2, res.Skipped)
	assert.Empty(t, res.Failed)
	assert.Equal(t, 1, tr.batches)
	assert.Equal(t, 1, tr.singles)

	again, err := p.TranslateTexts(ctx, texts, "en", "de")
	require.NoError(t, err)
	assert.Equal(t, res.Translations, again.Translations)
	assert.Equal(t, 3, again.Cached)
	assert.Equal(t, 0, again.Translated)
	assert.Equal(t, 1, tr.batches, "cached texts are not sent again")

	other, err := p.TranslateTexts(ctx, []string{"Fast"}, "en", "fr")
	require.NoError(t, err)
	assert.Equal(t, 1, other.Translated, "another target language is a cache miss")
}

func TestTranslateTextsShortBatchFallsBack(t *testing.T) {
	t.Parallel()

	tr := &upperTranslator{respond: func(parts []string) []string { return parts[:1] }}
	p := NewPipeline(tr, nil, 3, 1)

	res, err := p.TranslateTexts(context.Background(), []string{"one", "two", "three"}, "en", "de")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"one": "ONE", "two": "TWO", "three": "THREE"}, res.Translations)
	assert.Equal(t, 1, tr.batches)
	assert.Equal(t, 2, tr.singles)
}

func TestTranslateTextsLostPlaceholderFallsBack(t *testing.T) {
	t.Parallel()

	sentinel := string(interpolation.Sentinel)
	tr := &upperTranslator{respond: func(parts []string) []string {
		parts[1] = strings.ReplaceAll(parts[1], sentinel, "")
		return parts
	}}
	p := NewPipeline(tr, nil, 2, 1)

	res, err := p.TranslateTexts(context.Background(), []string{"Tank", "Hits for ${dmg}"}, "en", "de")
	require.NoError(t, err)
	assert.Equal(t, "HITS FOR ${dmg}", res.Translations["Hits for ${dmg}"])
	assert.Equal(t, 1, tr.singles)
}

func TestTranslateTextsMisalignedBatch(t *testing.T) {
	t.Parallel()

	tr := &upperTranslator{respond: func(parts []string) []string { return append(parts, "EXTRA") }}
	p := NewPipeline(tr, nil, 2, 1)

	res, err := p.TranslateTexts(context.Background(), []string{"a tank", "a jet"}, "en", "de")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a tank": "A TANK", "a jet": "A JET"}, res.Translations)
	assert.Equal(t, 2, tr.singles)
}

func TestTranslateTextsProviderFailure(t *testing.T) {
	t.Parallel()

	tr := &upperTranslator{fail: true}
	p := NewPipeline(tr, nil, 2, 1)

	res, err := p.TranslateTexts(context.Background(), []string{"a", "b", "c"}, "en", "de")
	require.NoError(t, err)
	assert.Empty(t, res.Translations)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, res.Failed)
}

func TestTranslateTextsCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(&upperTranslator{}, nil, 2, 1)
	_, err := p.TranslateTexts(ctx, []string{"a"}, "en", "de")
	require.ErrorIs(t, err, context.Canceled)
}

func TestSplitBatchResponse(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"A", "B", "C"}, SplitBatchResponse("[1] A ||| [2] B|||C |||"))
	assert.Equal(t, []string{"[x] keep"}, SplitBatchResponse("[x] keep"))
	assert.Equal(t, []string{"[] keep"}, SplitBatchResponse("[] keep"))
	assert.Equal(t, []string{"multi\nline"}, SplitBatchResponse("[1] multi\nline"))
}

func TestPromptBuilder(t *testing.T) {
	t.Parallel()

	pb := NewPromptBuilder("English", "German")
	system := pb.GetSystemPrompt()
	assert.Contains(t, system, "Translate English to German.")
	assert.Contains(t, system, string(interpolation.Sentinel))

	batch := pb.BuildBatchUserPrompt([]string{"a", "b"})
	assert.Contains(t, batch, "[1] a\n[2] b\n")
	assert.Contains(t, batch, BatchDelimiter)
	assert.Equal(t, "Text to translate:\nx", pb.BuildUserPrompt("x"))
}
