package cache

import (
	"context"
	"fmt"
	"sync"

	"rw-translator/internal/textutil"

	"github.com/rs/zerolog/log"
)

// Entry is one cached translation.
type Entry struct {
	Hash       string
	Source     string
	Lang       string
	Provider   string
	Translated string
}

// Backend persists cache entries beyond the process lifetime.
type Backend interface {
	Get(ctx context.Context, hash string) (string, bool, error)
	Upsert(ctx context.Context, e Entry) error
	All(ctx context.Context) ([]Entry, error)
}

// TranslationCache provides in-memory caching for translations, optionally
// backed by persistent storage.
type TranslationCache struct {
	backend Backend
	mu      sync.RWMutex
	memory  map[string]string // hash → translated text
}

// NewTranslationCache creates a cache. backend may be nil for a memory-only cache.
func NewTranslationCache(backend Backend) *TranslationCache {
	return &TranslationCache{
		backend: backend,
		memory:  make(map[string]string),
	}
}

// Key identifies a translation of source into lang by provider.
func Key(source, lang, provider string) string {
	return textutil.Hash(source, lang, provider)
}

// Get retrieves a cached translation. Returns empty string and false if not found.
func (c *TranslationCache) Get(ctx context.Context, source, lang, provider string) (string, bool) {
	hash := Key(source, lang, provider)

	c.mu.RLock()
	if v, ok := c.memory[hash]; ok {
		c.mu.RUnlock()
		return v, true
	}
	c.mu.RUnlock()

	if c.backend == nil {
		return "", false
	}

	translated, ok, err := c.backend.Get(ctx, hash)
	if err != nil {
		log.Debug().Err(err).Msg("Cache backend lookup failed")
		return "", false
	}
	if !ok {
		return "", false
	}

	c.mu.Lock()
	c.memory[hash] = translated
	c.mu.Unlock()

	return translated, true
}

// Set stores a translation in memory and, if configured, in the backend.
func (c *TranslationCache) Set(ctx context.Context, source, lang, provider, translated string) error {
	hash := Key(source, lang, provider)

	c.mu.Lock()
	c.memory[hash] = translated
	c.mu.Unlock()

	if c.backend == nil {
		return nil
	}

	err := c.backend.Upsert(ctx, Entry{
		Hash:       hash,
		Source:     source,
		Lang:       lang,
		Provider:   provider,
		Translated: translated,
	})
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	return nil
}

// Len returns the number of translations held in memory.
func (c *TranslationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memory)
}

// Preload loads all persisted translations into memory.
func (c *TranslationCache) Preload(ctx context.Context) error {
	if c.backend == nil {
		return nil
	}

	entries, err := c.backend.All(ctx)
	if err != nil {
		return fmt.Errorf("preload cache: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range entries {
		c.memory[e.Hash] = e.Translated
	}

	log.Info().Int("count", len(entries)).Msg("Preloaded translation cache")
	return nil
}
