package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rw-translator/internal/cache"
	"rw-translator/internal/config"
	"rw-translator/internal/translation"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ErrCheckFailed signals that check found problems; the details were
// already printed.
var ErrCheckFailed = errors.New("check found problems")

// Execute runs the CLI application and returns the process exit code.
func Execute(version string) int {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, cancel := setupContext()
	defer cancel()

	if err := NewRootCommand(version).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrCheckFailed) {
			log.Error().Err(err).Msg("Command failed")
		}
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "rw-translator",
		Short:         "Format-preserving editor and translator for Rusted Warfare mod files",
		Long:          "Reads unit .ini and .template files, edits or translates their values, and writes them back without disturbing comments, layout or template expressions.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(translateCmd())
	rootCmd.AddCommand(setCmd())
	rootCmd.AddCommand(unsetCmd())
	rootCmd.AddCommand(maskCmd())
	rootCmd.AddCommand(languagesCmd())

	return rootCmd
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// newTranslator builds the provider named in cfg.
func newTranslator(cfg *config.Config) (translation.Translator, error) {
	switch cfg.TranslationProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is not set")
		}
		return translation.NewGeminiClient(cfg.GeminiAPIKey, cfg.TranslationModel), nil
	case "openai":
		return translation.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.TranslationModel, cfg.OpenAIBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown translation provider %q", cfg.TranslationProvider)
	}
}

// openCache returns a translation cache, persistent when DATABASE_URL is set.
// A database that cannot be reached degrades to a memory-only cache.
func openCache(ctx context.Context, cfg *config.Config) (*cache.TranslationCache, func()) {
	if cfg.DatabaseURL == "" {
		return cache.NewTranslationCache(nil), func() {}
	}

	backend, err := cache.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("Translation cache database unavailable, using memory only")
		return cache.NewTranslationCache(nil), func() {}
	}

	c := cache.NewTranslationCache(backend)
	if err := c.Preload(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to preload cache")
	}
	return c, backend.Close
}
