package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	TranslationProvider   string
	GeminiAPIKey          string
	OpenAIAPIKey          string
	OpenAIBaseURL         string
	TranslationModel      string
	DatabaseURL           string
	WorkerCount           int
	BatchSize             int
	MaxConcurrentAPICalls int
	SourceLanguage        string
	TargetLanguage        string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	provider := strings.ToLower(getEnv("TRANSLATION_PROVIDER", "gemini"))

	return &Config{
		TranslationProvider:   provider,
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", ""),
		TranslationModel:      getEnv("TRANSLATION_MODEL", defaultModel(provider)),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		WorkerCount:           getEnvInt("WORKER_COUNT", 8),
		BatchSize:             getEnvInt("BATCH_SIZE", 10),
		MaxConcurrentAPICalls: getEnvInt("MAX_CONCURRENT_API_CALLS", 5),
		SourceLanguage:        strings.ToLower(getEnv("SOURCE_LANGUAGE", "en")),
		TargetLanguage:        strings.ToLower(getEnv("TARGET_LANGUAGE", "")),
	}
}

func defaultModel(provider string) string {
	if provider == "openai" {
		return "gpt-4o-mini"
	}
	return "gemini-2.5-flash"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
