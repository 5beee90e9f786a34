package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rw-translator/internal/config"
	"rw-translator/internal/filewalker"
	"rw-translator/internal/parser"
	"rw-translator/internal/translation"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type translateOptions struct {
	from   string
	to     string
	out    string
	force  bool
	dryRun bool
}

func translateCmd() *cobra.Command {
	var opts translateOptions

	cmd := &cobra.Command{
		Use:   "translate <directory>",
		Short: "Translate mod values and write them as <key>_<lang> entries",
		Long: `Finds every translatable value under the directory, translates the ones
that have no <key>_<lang> entry yet, and writes the translations back into
each file next to the source value. Template expressions such as ${...} and
%{...} are kept out of the translation and restored afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.to, "to", "", "Target language code (default TARGET_LANGUAGE)")
	cmd.Flags().StringVar(&opts.from, "from", "", "Source language code (default SOURCE_LANGUAGE)")
	cmd.Flags().StringVar(&opts.out, "out", "", "Write translated files under this directory instead of in place")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Retranslate values that already have a translation")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Translate but do not write any file")

	return cmd
}

func runTranslate(cmd *cobra.Command, dir string, opts translateOptions) error {
	ctx := cmd.Context()
	cfg := config.Load()

	to := strings.ToLower(firstNonEmpty(opts.to, cfg.TargetLanguage))
	from := strings.ToLower(firstNonEmpty(opts.from, cfg.SourceLanguage))
	if to == "" {
		return errors.New("target language is required (--to or TARGET_LANGUAGE)")
	}
	if !parser.IsLanguage(to) {
		return fmt.Errorf("unknown target language %q", to)
	}

	translator, err := newTranslator(cfg)
	if err != nil {
		return err
	}

	translationCache, closeCache := openCache(ctx, cfg)
	defer closeCache()

	w := filewalker.NewWalker()
	entries, err := w.Walk(dir)
	if err != nil {
		return fmt.Errorf("walk input directory: %w", err)
	}

	log.Info().Int("files", len(entries)).Str("from", from).Str("to", to).Msg("Starting translation pipeline")

	report := w.ParseAll(ctx, entries, cfg.WorkerCount)

	var texts []string
	for _, res := range report.Results {
		for _, et := range res.Texts {
			if _, done := et.Translations[to]; done && !opts.force {
				continue
			}
			texts = append(texts, et.Text)
		}
	}

	pipeline := translation.NewPipeline(translator, translationCache, cfg.BatchSize, cfg.MaxConcurrentAPICalls)
	result, err := pipeline.TranslateTexts(ctx, texts, from, to)
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve root path: %w", err)
	}

	ini := parser.NewINIParser()
	written := 0
	for _, res := range report.Results {
		applied := parser.Apply(res, to, result.Translations, opts.force)
		if applied == 0 || opts.dryRun {
			continue
		}

		if err := writeResult(ini, res, root, opts.out); err != nil {
			log.Error().Err(err).Str("file", res.FilePath).Msg("Write failed")
			report.Failed[res.FilePath] = err
			continue
		}
		written++

		log.Info().
			Str("file", res.FilePath).
			Int("translations", applied).
			Msg("File translated")
	}

	out := cmd.OutOrStdout()
	printFailures(out, report.Failed)
	fmt.Fprintf(out, "%d translated, %d cached, %d failed, %d files written\n",
		result.Translated, result.Cached, len(result.Failed), written)

	log.Info().
		Int("files", len(entries)).
		Int("written", written).
		Msg("Translation pipeline complete")

	return nil
}

// writeResult stores res in place, or mirrors it under outDir.
func writeResult(ini *parser.INIParser, res *parser.ParseResult, root, outDir string) error {
	if outDir == "" {
		return ini.Save(res)
	}

	outAbs, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	relPath, err := filepath.Rel(root, res.FilePath)
	if err != nil {
		return fmt.Errorf("compute relative path: %w", err)
	}
	outPath := filepath.Join(outAbs, relPath)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := os.WriteFile(outPath, res.Document.Render(res.Store), 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
