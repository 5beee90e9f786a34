package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"rw-translator/internal/config"
	"rw-translator/internal/filewalker"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <directory>",
		Short: "Verify that every mod file round-trips unchanged and report suspicious lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			return runCheck(cmd, args[0], cfg.WorkerCount)
		},
	}
}

func runCheck(cmd *cobra.Command, dir string, workers int) error {
	out := cmd.OutOrStdout()

	w := filewalker.NewWalker()
	entries, err := w.Walk(dir)
	if err != nil {
		return fmt.Errorf("walk input directory: %w", err)
	}

	report := w.ParseAll(cmd.Context(), entries, workers)

	mismatches, suspicious := 0, 0
	for _, res := range report.Results {
		original, err := os.ReadFile(res.FilePath)
		if err != nil {
			report.Failed[res.FilePath] = err
			continue
		}

		if !bytes.Equal(original, res.Document.Render(res.Store)) {
			fmt.Fprintf(out, "%s: round trip differs from source\n", res.FilePath)
			mismatches++
		}

		for _, issue := range res.Document.Suspicious() {
			fmt.Fprintf(out, "%s:%d: %s: %s\n", res.FilePath, issue.Line, issue.Reason, issue.Text)
			suspicious++
		}

		st := res.Document.Stats()
		log.Debug().
			Str("file", res.FilePath).
			Int("sections", st.Sections).
			Int("entries", st.Entries).
			Int("triple_quoted", st.TripleQuoted).
			Int("raw", st.Raw).
			Msg("Checked file")
	}

	printFailures(out, report.Failed)

	fmt.Fprintf(out, "%d files checked, %d round-trip mismatches, %d suspicious lines, %d unreadable\n",
		len(report.Results), mismatches, suspicious, len(report.Failed))

	if mismatches > 0 || len(report.Failed) > 0 {
		return ErrCheckFailed
	}
	return nil
}

func printFailures(out io.Writer, failed map[string]error) {
	paths := make([]string, 0, len(failed))
	for p := range failed {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintf(out, "%s: %v\n", p, failed[p])
	}
}
