package filewalker_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rw-translator/internal/filewalker"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWalkAndParseAll(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "units", "tank.ini"), "[core]\ndisplayText = Tank\n")
	writeFile(t, filepath.Join(root, "units", "base.template"), "[core]\ndisplayDescription = Base\n")
	writeFile(t, filepath.Join(root, "readme.txt"), "not a unit")
	writeFile(t, filepath.Join(root, "scripts", "main.lua"), "print('x')")

	w := filewalker.NewWalker()
	entries, err := w.Walk(root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ".template", entries[0].Ext)
	assert.Equal(t, ".ini", entries[1].Ext)

	report := w.ParseAll(context.Background(), entries, 2)
	assert.Empty(t, report.Failed)
	require.Len(t, report.Results, 2)
	assert.Equal(t, 2, report.TextCount())
	assert.Equal(t, "Base", report.Results[0].Texts[0].Text)
	assert.Equal(t, "Tank", report.Results[1].Texts[0].Text)
}

func TestParseAllRecordsFailures(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	good := filepath.Join(root, "good.ini")
	writeFile(t, good, "[core]\ntext = Hi\n")
	// A directory with a parseable name cannot be read as a file.
	bad := filepath.Join(root, "bad.ini")
	require.NoError(t, os.MkdirAll(bad, 0o755))

	w := filewalker.NewWalker()
	entries, err := w.Walk(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries = append(entries, filewalker.FileEntry{Path: bad, Ext: ".ini", Parser: entries[0].Parser})
	report := w.ParseAll(context.Background(), entries, 2)
	require.Len(t, report.Results, 1)
	assert.Equal(t, good, report.Results[0].FilePath)
	assert.Contains(t, report.Failed, bad)
}

func TestWalkRejectsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "unit.ini")
	writeFile(t, path, "")

	_, err := filewalker.NewWalker().Walk(path)
	require.Error(t, err)

	_, err = filewalker.NewWalker().Walk(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
