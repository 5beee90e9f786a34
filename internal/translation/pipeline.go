package translation

import (
	"context"
	"sync"

	"rw-translator/internal/cache"
	"rw-translator/internal/interpolation"
	"rw-translator/internal/parser"
	"rw-translator/internal/textutil"
	"rw-translator/internal/worker"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Pipeline translates sets of texts through a Translator, shielding template
// expressions and reusing cached results.
type Pipeline struct {
	translator    Translator
	cache         *cache.TranslationCache
	batchSize     int
	maxConcurrent int
}

// NewPipeline creates a pipeline. A nil cache gets a memory-only one.
func NewPipeline(t Translator, c *cache.TranslationCache, batchSize, maxConcurrent int) *Pipeline {
	if c == nil {
		c = cache.NewTranslationCache(nil)
	}
	if batchSize < 1 {
		batchSize = 1
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Pipeline{
		translator:    t,
		cache:         c,
		batchSize:     batchSize,
		maxConcurrent: maxConcurrent,
	}
}

// Result reports what TranslateTexts did.
type Result struct {
	// Translations maps each translated source text to its translation.
	Translations map[string]string
	// Cached counts texts answered from the cache.
	Cached int
	// Translated counts texts answered by the provider.
	Translated int
	// Skipped counts texts with nothing to translate.
	Skipped int
	// Failed lists texts that could not be translated.
	Failed []string
}

// TranslateTexts translates texts from one language code to another.
// Duplicate texts are translated once. Provider failures are reported in
// Result.Failed; only cancellation returns an error.
func (p *Pipeline) TranslateTexts(ctx context.Context, texts []string, from, to string) (*Result, error) {
	res := &Result{Translations: make(map[string]string)}
	provider := p.translator.Name()

	seen := make(map[string]struct{}, len(texts))
	var pending []string
	for _, text := range texts {
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}

		if !textutil.HasLetters(interpolation.Mask(text).MaskedText) {
			res.Skipped++
			continue
		}
		if translated, ok := p.cache.Get(ctx, text, to, provider); ok {
			res.Translations[text] = translated
			res.Cached++
			continue
		}
		pending = append(pending, text)
	}

	log.Info().
		Int("total_unique", len(seen)).
		Int("cached", res.Cached).
		Int("to_translate", len(pending)).
		Msg("Translation plan")

	prompts := NewPromptBuilder(parser.LanguageName(from), parser.LanguageName(to))
	batches := worker.Batch(pending, p.batchSize)

	var mu sync.Mutex
	record := func(source, translated string, ok bool) {
		mu.Lock()
		defer mu.Unlock()
		if !ok {
			res.Failed = append(res.Failed, source)
			return
		}
		res.Translations[source] = translated
		res.Translated++
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrent)

	for batchIdx, batch := range batches {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			log.Info().
				Int("batch", batchIdx+1).
				Int("total_batches", len(batches)).
				Int("size", len(batch)).
				Msg("Translating batch")
			p.translateBatch(gctx, prompts, batch, to, record)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return res, err
	}

	log.Info().
		Int("translated", res.Translated).
		Int("cached", res.Cached).
		Int("failed", len(res.Failed)).
		Msg("Translation finished")
	return res, nil
}

func (p *Pipeline) translateBatch(ctx context.Context, prompts *PromptBuilder, batch []string, to string, record func(string, string, bool)) {
	payloads := make([]interpolation.Payload, len(batch))
	masked := make([]string, len(batch))
	for i, text := range batch {
		payloads[i] = interpolation.Mask(text)
		masked[i] = payloads[i].MaskedText
	}

	if len(batch) == 1 {
		p.translateOne(ctx, prompts, batch[0], payloads[0], to, record)
		return
	}

	response, err := p.translator.Translate(ctx, Request{
		SystemPrompt: prompts.GetSystemPrompt(),
		UserPrompt:   prompts.BuildBatchUserPrompt(masked),
	})
	if err != nil {
		log.Error().Err(err).Int("size", len(batch)).Msg("Batch translation failed")
		for _, text := range batch {
			record(text, "", false)
		}
		return
	}

	parts := SplitBatchResponse(response)
	if len(parts) > len(batch) {
		// Extra parts mean the alignment cannot be trusted.
		log.Warn().Int("expected", len(batch)).Int("got", len(parts)).Msg("Batch response misaligned, translating individually")
		parts = nil
	}

	for i, text := range batch {
		if i >= len(parts) || parts[i] == "" || interpolation.Count(parts[i]) != len(payloads[i].Placeholders) {
			log.Warn().Str("text", textutil.Truncate(textutil.OneLine(text), 30)).Msg("Missing translation in batch response, using fallback")
			p.translateOne(ctx, prompts, text, payloads[i], to, record)
			continue
		}
		p.store(ctx, text, payloads[i].Restore(parts[i]), to, record)
	}
}

func (p *Pipeline) translateOne(ctx context.Context, prompts *PromptBuilder, text string, payload interpolation.Payload, to string, record func(string, string, bool)) {
	individual, err := p.translator.Translate(ctx, Request{
		SystemPrompt: prompts.GetSystemPrompt(),
		UserPrompt:   prompts.BuildUserPrompt(payload.MaskedText),
	})
	if err != nil || individual == "" {
		log.Error().Err(err).Str("text", textutil.Truncate(textutil.OneLine(text), 30)).Msg("Individual translation failed")
		record(text, "", false)
		return
	}

	if got := interpolation.Count(individual); got != len(payload.Placeholders) {
		log.Warn().
			Int("expected", len(payload.Placeholders)).
			Int("got", got).
			Str("text", textutil.Truncate(textutil.OneLine(text), 30)).
			Msg("Placeholder count changed in translation")
	}
	p.store(ctx, text, payload.Restore(individual), to, record)
}

func (p *Pipeline) store(ctx context.Context, source, translated, to string, record func(string, string, bool)) {
	if err := p.cache.Set(ctx, source, to, p.translator.Name(), translated); err != nil {
		log.Warn().Err(err).Msg("Failed to cache translation")
	}
	record(source, translated, true)
}
