package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"TRANSLATION_PROVIDER", "GEMINI_API_KEY", "OPENAI_API_KEY", "OPENAI_BASE_URL",
		"TRANSLATION_MODEL", "DATABASE_URL", "WORKER_COUNT", "BATCH_SIZE",
		"MAX_CONCURRENT_API_CALLS", "SOURCE_LANGUAGE", "TARGET_LANGUAGE",
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())

	cfg := Load()
	assert.Equal(t, "gemini", cfg.TranslationProvider)
	assert.Equal(t, "gemini-2.5-flash", cfg.TranslationModel)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, 8, cfg.WorkerCount)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 5, cfg.MaxConcurrentAPICalls)
	assert.Equal(t, "en", cfg.SourceLanguage)
	assert.Equal(t, "", cfg.TargetLanguage)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TRANSLATION_PROVIDER", "OpenAI")
	t.Setenv("TRANSLATION_MODEL", "")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("WORKER_COUNT", "2")
	t.Setenv("BATCH_SIZE", "not a number")
	t.Setenv("TARGET_LANGUAGE", "ZH-TW")
	t.Chdir(t.TempDir())

	cfg := Load()
	assert.Equal(t, "openai", cfg.TranslationProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.TranslationModel)
	assert.Equal(t, "http://localhost:11434/v1", cfg.OpenAIBaseURL)
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, "zh-tw", cfg.TargetLanguage)
}
