package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"rw-translator/internal/config"
	"rw-translator/internal/filewalker"
	"rw-translator/internal/textutil"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var missing string

	cmd := &cobra.Command{
		Use:   "list <directory>",
		Short: "List translatable values and the languages they are already translated to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			return runList(cmd, args[0], strings.ToLower(missing), cfg.WorkerCount)
		},
	}

	cmd.Flags().StringVar(&missing, "missing", "", "Only list values without a translation for this language code")

	return cmd
}

func runList(cmd *cobra.Command, dir, missing string, workers int) error {
	out := cmd.OutOrStdout()

	w := filewalker.NewWalker()
	entries, err := w.Walk(dir)
	if err != nil {
		return fmt.Errorf("walk input directory: %w", err)
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve root path: %w", err)
	}

	report := w.ParseAll(cmd.Context(), entries, workers)

	listed := 0
	for _, res := range report.Results {
		rel, err := filepath.Rel(root, res.FilePath)
		if err != nil {
			rel = res.FilePath
		}

		for _, et := range res.Texts {
			if _, done := et.Translations[missing]; missing != "" && done {
				continue
			}

			langs := make([]string, 0, len(et.Translations))
			for code := range et.Translations {
				langs = append(langs, code)
			}
			sort.Strings(langs)

			fmt.Fprintf(out, "%s\t[%s]\t%s\t%s\t%s\n",
				filepath.ToSlash(rel), et.Section, et.Key,
				textutil.Truncate(textutil.OneLine(et.Text), 60),
				strings.Join(langs, ","))
			listed++
		}
	}

	printFailures(out, report.Failed)
	fmt.Fprintf(out, "%d values in %d files\n", listed, len(report.Results))
	return nil
}
