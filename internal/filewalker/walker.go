package filewalker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"rw-translator/internal/parser"
	"rw-translator/internal/worker"

	"github.com/rs/zerolog/log"
)

// SupportedExtensions lists file types handled by the tool.
var SupportedExtensions = map[string]bool{
	".ini":      true,
	".template": true,
}

// Walker traverses directories and dispatches files to the correct parser.
type Walker struct {
	parsers []parser.Parser
}

// NewWalker creates a Walker with default parsers.
func NewWalker() *Walker {
	return &Walker{
		parsers: []parser.Parser{
			parser.NewINIParser(),
		},
	}
}

// FileEntry represents a discovered file ready for processing.
type FileEntry struct {
	Path   string
	Ext    string
	Parser parser.Parser
}

// Walk discovers all supported files under the given root directory, sorted
// by path.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var entries []FileEntry

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !SupportedExtensions[ext] {
			return nil
		}

		for _, p := range w.parsers {
			if p.CanParse(ext) {
				entries = append(entries, FileEntry{
					Path:   path,
					Ext:    ext,
					Parser: p,
				})
				break
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered files")
	return entries, nil
}

// ParseFile parses a single file using the appropriate parser.
func (w *Walker) ParseFile(entry FileEntry) (*parser.ParseResult, error) {
	return entry.Parser.Parse(entry.Path)
}

// ScanReport is the outcome of parsing a set of files.
type ScanReport struct {
	// Results holds successfully parsed files in walk order.
	Results []*parser.ParseResult
	// Failed maps file paths to the error that stopped them.
	Failed map[string]error
}

// TextCount sums extracted texts across all results.
func (r ScanReport) TextCount() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Texts)
	}
	return n
}

// ParseAll parses entries concurrently. A file that fails is recorded in
// Failed and does not stop the others.
func (w *Walker) ParseAll(ctx context.Context, entries []FileEntry, workers int) ScanReport {
	pool := worker.NewPool[FileEntry, *parser.ParseResult](workers, func(_ context.Context, entry FileEntry) (*parser.ParseResult, error) {
		return w.ParseFile(entry)
	}).OnProgress(func(done, total int) {
		log.Debug().Int("done", done).Int("total", total).Msg("Parse progress")
	})

	report := ScanReport{Failed: map[string]error{}}
	for i, task := range pool.Execute(ctx, entries) {
		switch {
		case task.Err != nil:
			report.Failed[entries[i].Path] = task.Err
		case task.Result == nil:
			continue
		default:
			report.Results = append(report.Results, task.Result)
		}
	}

	log.Info().
		Int("parsed", len(report.Results)).
		Int("failed", len(report.Failed)).
		Int("texts", report.TextCount()).
		Msg("Scan complete")
	return report
}
